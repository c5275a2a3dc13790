package relevance

import (
	"strings"
	"testing"
)

func TestExtractTopics(t *testing.T) {
	s := newTestScorer()

	text := strings.Join([]string{
		"当社の売上高は前年比15%増の500億円となりました",    // domain terms + figures
		"2026年に向けた新規事業の投資計画を策定しています", // domain terms + outlook
		"本日は晴天に恵まれましたことを御礼申し上げます",    // no topical content
		"短い文", // below minimum length
	}, "。")

	topics := s.ExtractTopics(text, 5)
	if len(topics) == 0 {
		t.Fatal("expected topics from financial material")
	}
	for _, topic := range topics {
		if strings.Contains(topic, "晴天") {
			t.Errorf("non-topical sentence extracted: %q", topic)
		}
	}
	// Figures plus multiple domain terms should outrank single-signal lines.
	if !strings.Contains(topics[0], "売上高") {
		t.Errorf("top topic = %q, want the figures sentence first", topics[0])
	}
}

func TestExtractTopicsEmptyAndGarbled(t *testing.T) {
	s := newTestScorer()

	if got := s.ExtractTopics("", 5); got != nil {
		t.Errorf("empty text produced topics %v", got)
	}

	garbled := strings.Repeat("�", 50)
	if got := s.ExtractTopics(garbled, 5); len(got) != 0 {
		t.Errorf("fully garbled text produced topics %v", got)
	}
}

func TestExtractTopicsRespectsLimit(t *testing.T) {
	s := newTestScorer()

	var sentences []string
	for i := 0; i < 10; i++ {
		sentences = append(sentences, "当社の売上高と営業利益は着実に成長しております")
	}
	// Deduplication is not topics' concern; the limit is.
	topics := s.ExtractTopics(strings.Join(sentences, "。"), 3)
	if len(topics) > 3 {
		t.Errorf("got %d topics, want at most 3", len(topics))
	}
}
