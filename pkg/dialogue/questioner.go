// Package dialogue implements the two participants of the simulated
// shareholder-meeting exchange. Both degrade to deterministic templated
// output whenever the generation capability is absent or failing; a
// generation error never escapes a participant.
package dialogue

import (
	"context"
	"log"
	"regexp"
	"strings"

	"shareholder-qa-sim/internal/model"
	"shareholder-qa-sim/pkg/contextwindow"
	"shareholder-qa-sim/pkg/llm"
	"shareholder-qa-sim/pkg/vocabulary"
)

var bulletMarker = regexp.MustCompile(`^[・\-\*]\s*`)

const (
	openingContextBudget = 8000
	followUpMaxTokens    = 200
)

// Questioner produces the shareholder side of the dialogue. User-supplied
// expected questions are exhausted first, in order; afterwards questions
// come from the generation capability or the themed fallback banks.
type Questioner struct {
	documents         []model.Document
	expectedQuestions []string
	cursor            int
	provider          llm.LLMProvider
	vocab             *vocabulary.Vocabulary
	logger            *log.Logger
}

func NewQuestioner(documents []model.Document, expectedQuestions []string, provider llm.LLMProvider, vocab *vocabulary.Vocabulary, logger *log.Logger) *Questioner {
	return &Questioner{
		documents:         documents,
		expectedQuestions: expectedQuestions,
		provider:          provider,
		vocab:             vocab,
		logger:            logger,
	}
}

// Cursor returns how many expected questions have been consumed.
func (q *Questioner) Cursor() int {
	return q.cursor
}

// AdvanceCursor skips the current expected question. Used by the manual
// next_question action; never rewinds and never passes the list end.
func (q *Questioner) AdvanceCursor() {
	if q.cursor < len(q.expectedQuestions) {
		q.cursor++
	}
}

// GenerateQuestion returns the next shareholder question. The second
// return value is false only when nothing usable can be produced, which
// the engine treats as "no more questions".
func (q *Questioner) GenerateQuestion(ctx context.Context, history []model.Message) (string, bool) {
	if q.cursor < len(q.expectedQuestions) {
		question := bulletMarker.ReplaceAllString(strings.TrimSpace(q.expectedQuestions[q.cursor]), "")
		q.cursor++
		if question != "" {
			return question, true
		}
		// Blank expected entry: fall through to generated behavior.
	}

	if len(history) == 0 {
		return q.openingQuestion(ctx)
	}
	return q.followUpQuestion(ctx, history)
}

func (q *Questioner) openingQuestion(ctx context.Context) (string, bool) {
	docContext := q.documentContext()
	if docContext != "" {
		prompt := "以下の資料を読み、株主総会の冒頭で経営陣に尋ねる質問を1つ作成してください。\n\n" + docContext
		question, err := q.provider.Complete(ctx, questionerSystemPrompt, prompt, llm.WithMaxTokens(followUpMaxTokens))
		if err == nil && strings.TrimSpace(question) != "" {
			return strings.TrimSpace(question), true
		}
		if err != nil {
			q.logger.Printf("WARN questioner: opening generation degraded: %v", err)
		}
	}

	theme := q.vocab.Classify(q.concatenatedDocText())
	bank := openingBank[theme]
	if len(bank) == 0 {
		bank = openingBank[vocabulary.ThemeGeneric]
	}
	question := pick(q.concatenatedDocNames(), bank)
	if question == "" {
		return "", false
	}
	return question, true
}

func (q *Questioner) followUpQuestion(ctx context.Context, history []model.Message) (string, bool) {
	lastResponse := lastByRole(history, model.RoleResponder)
	if lastResponse == "" {
		// No answer to follow up on yet; reuse opening behavior.
		return q.openingQuestion(ctx)
	}

	prompt := "経営陣の直前の回答は次の通りです。\n\n" + lastResponse +
		"\n\nこの回答を踏まえた追加質問を1つ作成してください。\n\n" + q.documentContext()
	question, err := q.provider.Complete(ctx, questionerSystemPrompt, prompt, llm.WithMaxTokens(followUpMaxTokens))
	if err == nil && strings.TrimSpace(question) != "" {
		return strings.TrimSpace(question), true
	}
	if err != nil {
		q.logger.Printf("WARN questioner: follow-up generation degraded: %v", err)
	}

	theme := q.vocab.Classify(lastResponse)
	bank := followUpBank[theme]
	if len(bank) == 0 {
		bank = followUpBank[vocabulary.ThemeGeneric]
	}
	question = pick(lastResponse, bank)
	if question == "" {
		return "", false
	}
	return question, true
}

func (q *Questioner) documentContext() string {
	blocks := make([]contextwindow.Block, 0, len(q.documents))
	for _, doc := range q.documents {
		if strings.TrimSpace(doc.TextContent) == "" {
			continue
		}
		blocks = append(blocks, contextwindow.Block{Label: doc.OriginalName, Text: doc.TextContent})
	}
	return contextwindow.Build(blocks, openingContextBudget)
}

func (q *Questioner) concatenatedDocText() string {
	var b strings.Builder
	for _, doc := range q.documents {
		b.WriteString(doc.TextContent)
	}
	return b.String()
}

func (q *Questioner) concatenatedDocNames() string {
	names := make([]string, len(q.documents))
	for i, doc := range q.documents {
		names[i] = doc.OriginalName
	}
	return strings.Join(names, ",")
}

func lastByRole(history []model.Message, role model.Role) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == role {
			return history[i].Content
		}
	}
	return ""
}
