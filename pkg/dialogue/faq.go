package dialogue

import (
	"fmt"

	"github.com/google/uuid"

	"shareholder-qa-sim/internal/model"
	"shareholder-qa-sim/pkg/relevance"
	"shareholder-qa-sim/pkg/vocabulary"
)

const faqCount = 5

// FAQ is a candidate shareholder question derived from document topics,
// offered to the user before session creation.
type FAQ struct {
	Id       uuid.UUID `json:"id"`
	Question string    `json:"question"`
	Selected bool      `json:"selected"`
}

var defaultFAQQuestions = []string{
	"今期の業績についてご説明いただけますか？",
	"今後の事業戦略についてお聞かせください。",
	"株主還元政策についてのお考えをお聞かせください。",
	"リスク要因についてはどのようにお考えでしょうか？",
	"競合他社との差別化ポイントは何でしょうか？",
}

// GenerateFAQs turns the highest scoring document topics into candidate
// questions, padding with the default set when the material yields fewer
// than five.
func GenerateFAQs(scorer *relevance.Scorer, vocab *vocabulary.Vocabulary, documents []model.Document) []FAQ {
	var questions []string
	seen := make(map[string]struct{})

	for _, doc := range documents {
		for _, topic := range scorer.ExtractTopics(doc.TextContent, faqCount) {
			q := topicToQuestion(vocab, topic)
			if _, dup := seen[q]; dup {
				continue
			}
			seen[q] = struct{}{}
			questions = append(questions, q)
			if len(questions) >= faqCount {
				break
			}
		}
		if len(questions) >= faqCount {
			break
		}
	}

	for _, q := range defaultFAQQuestions {
		if len(questions) >= faqCount {
			break
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		questions = append(questions, q)
	}

	faqs := make([]FAQ, len(questions))
	for i, q := range questions {
		faqs[i] = FAQ{Id: uuid.New(), Question: q, Selected: false}
	}
	return faqs
}

func topicToQuestion(vocab *vocabulary.Vocabulary, topic string) string {
	excerpt := LimitLength(topic, 40)
	switch vocab.Classify(topic) {
	case vocabulary.ThemePerformance:
		return fmt.Sprintf("「%s」とありますが、業績の背景を詳しくご説明いただけますか？", excerpt)
	case vocabulary.ThemeStrategy:
		return fmt.Sprintf("「%s」について、具体的な計画をお聞かせください。", excerpt)
	case vocabulary.ThemeDividend:
		return fmt.Sprintf("「%s」に関して、株主還元の方針を教えてください。", excerpt)
	case vocabulary.ThemeRisk:
		return fmt.Sprintf("「%s」とありますが、想定される影響と対策は何でしょうか？", excerpt)
	default:
		return fmt.Sprintf("「%s」について、詳しくご説明いただけますか？", excerpt)
	}
}
