package dialogue

import (
	"context"
	"fmt"
	"log"
	"strings"

	"shareholder-qa-sim/internal/model"
	"shareholder-qa-sim/pkg/contextwindow"
	"shareholder-qa-sim/pkg/llm"
	"shareholder-qa-sim/pkg/relevance"
	"shareholder-qa-sim/pkg/vocabulary"
)

// ContextMode selects how much document text reaches the generator.
type ContextMode string

const (
	// ContextModeSnippet feeds only scored relevant sentences.
	ContextModeSnippet ContextMode = "snippet"
	// ContextModeFull feeds entire documents under the larger budget.
	ContextModeFull ContextMode = "full"
)

// ResponderConfig bounds the answer pipeline. Zero values fall back to
// the documented defaults.
type ResponderConfig struct {
	Mode             ContextMode
	FullBudget       int // runes of document context in full mode
	SnippetBudget    int // runes of document context in snippet mode
	TranscriptBudget int // runes of trailing conversation
	AnswerCap        int // hard cap on answer length
	SnippetLimit     int // max scored snippets per question
}

func (c ResponderConfig) withDefaults() ResponderConfig {
	if c.Mode == "" {
		c.Mode = ContextModeSnippet
	}
	if c.FullBudget <= 0 {
		c.FullBudget = 50000
	}
	if c.SnippetBudget <= 0 {
		c.SnippetBudget = 8000
	}
	if c.TranscriptBudget <= 0 {
		c.TranscriptBudget = 1000
	}
	if c.AnswerCap <= 0 {
		c.AnswerCap = 600
	}
	if c.SnippetLimit <= 0 {
		c.SnippetLimit = 5
	}
	return c
}

// Responder produces the company side of the dialogue. Stateless per
// call apart from the injected document set.
type Responder struct {
	documents []model.Document
	provider  llm.LLMProvider
	scorer    *relevance.Scorer
	vocab     *vocabulary.Vocabulary
	cfg       ResponderConfig
	logger    *log.Logger
}

func NewResponder(documents []model.Document, provider llm.LLMProvider, scorer *relevance.Scorer, vocab *vocabulary.Vocabulary, cfg ResponderConfig, logger *log.Logger) *Responder {
	return &Responder{
		documents: documents,
		provider:  provider,
		scorer:    scorer,
		vocab:     vocab,
		cfg:       cfg.withDefaults(),
		logger:    logger,
	}
}

// GenerateAnswer answers a shareholder question from the uploaded
// material. The result is always a non-empty string within the answer
// cap; generation failures degrade to the deterministic fallback.
func (r *Responder) GenerateAnswer(ctx context.Context, question string, history []model.Message) string {
	snippets := r.scorer.FindRelevant(r.documents, question, r.cfg.SnippetLimit)

	docContext := r.buildDocumentContext(snippets)
	transcript := transcriptTail(history, r.cfg.TranscriptBudget)

	answer, err := r.generate(ctx, question, docContext, transcript)
	if err != nil {
		r.logger.Printf("WARN responder: generation degraded: %v", err)
		answer = r.fallbackAnswer(question, snippets)
	}
	return LimitLength(answer, r.cfg.AnswerCap)
}

func (r *Responder) generate(ctx context.Context, question, docContext, transcript string) (string, error) {
	var prompt strings.Builder
	prompt.WriteString("【提供されたアップロード資料】:\n")
	if docContext == "" {
		prompt.WriteString("（該当資料なし）\n")
	} else {
		prompt.WriteString(docContext)
		prompt.WriteString("\n")
	}
	prompt.WriteString("\n【これまでの会話履歴】:\n")
	prompt.WriteString(transcript)
	prompt.WriteString("\n\n【株主からの質問】:\n")
	prompt.WriteString(question)

	answer, err := r.provider.Complete(ctx, responderSystemPrompt, prompt.String(), llm.WithMaxTokens(300), llm.WithTemperature(0.3))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return "", fmt.Errorf("%w: empty completion", llm.ErrGenerationFailed)
	}
	return strings.TrimSpace(answer), nil
}

func (r *Responder) buildDocumentContext(snippets []relevance.Snippet) string {
	if r.cfg.Mode == ContextModeFull {
		blocks := make([]contextwindow.Block, 0, len(r.documents))
		for _, doc := range r.documents {
			if strings.TrimSpace(doc.TextContent) == "" {
				continue
			}
			blocks = append(blocks, contextwindow.Block{Label: doc.OriginalName, Text: doc.TextContent})
		}
		return contextwindow.Build(blocks, r.cfg.FullBudget)
	}

	blocks := make([]contextwindow.Block, 0, len(snippets))
	for _, sn := range snippets {
		blocks = append(blocks, contextwindow.Block{Label: sn.Source, Text: sn.Content})
	}
	return contextwindow.Build(blocks, r.cfg.SnippetBudget)
}

// fallbackAnswer is the deterministic answer path: classify the question
// into a theme, take the theme's template, and splice in the top
// snippet's source and excerpt. With no grounding at all, the fixed
// no-information response is returned instead of a confident filler.
func (r *Responder) fallbackAnswer(question string, snippets []relevance.Snippet) string {
	if len(snippets) == 0 {
		return NoGroundingResponse
	}

	theme := r.vocab.Classify(question)
	templates := responseTemplates[theme]
	if len(templates) == 0 {
		templates = responseTemplates[vocabulary.ThemeGeneric]
	}

	top := snippets[0]
	base := pick(question, templates)
	return fmt.Sprintf("%s詳細につきましては、%sに記載の通りでございます。「%s」", base, top.Source, top.Content)
}

// transcriptTail renders the most recent messages as speaker-labeled
// lines, keeping the total within maxRunes by dropping oldest lines.
func transcriptTail(history []model.Message, maxRunes int) string {
	if len(history) == 0 {
		return "（履歴なし）"
	}

	var lines []string
	total := 0
	for i := len(history) - 1; i >= 0; i-- {
		line := history[i].Role.SpeakerLabel() + ": " + history[i].Content
		runes := len([]rune(line)) + 1
		if total+runes > maxRunes {
			break
		}
		lines = append([]string{line}, lines...)
		total += runes
	}
	if len(lines) == 0 {
		// Even the newest line overflows; keep a truncated version of it.
		last := history[len(history)-1]
		line := []rune(last.Role.SpeakerLabel() + ": " + last.Content)
		if len(line) > maxRunes {
			line = line[:maxRunes]
		}
		return string(line)
	}
	return strings.Join(lines, "\n")
}
