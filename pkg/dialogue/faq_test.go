package dialogue

import (
	"strings"
	"testing"

	"shareholder-qa-sim/internal/model"
	"shareholder-qa-sim/pkg/relevance"
	"shareholder-qa-sim/pkg/vocabulary"
)

func TestGenerateFAQs(t *testing.T) {
	vocab := vocabulary.Default()
	scorer := relevance.NewScorer(vocab)

	t.Run("always five candidates", func(t *testing.T) {
		faqs := GenerateFAQs(scorer, vocab, nil)
		if len(faqs) != 5 {
			t.Fatalf("got %d FAQs, want 5", len(faqs))
		}
		for _, faq := range faqs {
			if faq.Selected {
				t.Error("candidates must start unselected")
			}
			if strings.TrimSpace(faq.Question) == "" {
				t.Error("empty FAQ question")
			}
		}
	})

	t.Run("topical documents shape the questions", func(t *testing.T) {
		documents := []model.Document{
			testDoc("決算.pdf", "当期の売上高は前年比15%増の500億円となりました。2026年には新規事業への投資を拡大する計画です。"),
		}
		faqs := GenerateFAQs(scorer, vocab, documents)
		if len(faqs) != 5 {
			t.Fatalf("got %d FAQs, want 5", len(faqs))
		}

		topical := false
		for _, faq := range faqs {
			if strings.Contains(faq.Question, "売上高") || strings.Contains(faq.Question, "投資") {
				topical = true
			}
		}
		if !topical {
			t.Error("no FAQ derived from the document topics")
		}
	})

	t.Run("no duplicate questions", func(t *testing.T) {
		documents := []model.Document{
			testDoc("a.pdf", "当社の売上高は増加しました、好調な業績です"),
			testDoc("b.pdf", "当社の売上高は増加しました、好調な業績です"),
		}
		faqs := GenerateFAQs(scorer, vocab, documents)
		seen := make(map[string]bool)
		for _, faq := range faqs {
			if seen[faq.Question] {
				t.Errorf("duplicate question %q", faq.Question)
			}
			seen[faq.Question] = true
		}
	})
}
