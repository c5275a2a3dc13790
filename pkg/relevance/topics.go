package relevance

import (
	"regexp"
	"sort"
	"strings"
)

const (
	defaultMaxTopics  = 5
	topicMinRunes     = 10
	topicMaxRunes     = 200
	garbledMinRunes   = 30
	keywordTopicScore = 2
)

var (
	financialFigurePattern = regexp.MustCompile(`\d+%|\d+億|\d+万|\d+円`)
	outlookPattern         = regexp.MustCompile(`20\d{2}年|今年度|来年度|次期|将来`)
	japaneseRunPattern     = regexp.MustCompile(`[\p{Hiragana}\p{Katakana}\p{Han}]{3,}`)
)

// ExtractTopics pulls the most topic-dense sentences out of a document.
// Sentences with financial figures or forward-looking dates score higher;
// garbled extraction artifacts are filtered out.
func (s *Scorer) ExtractTopics(textContent string, maxTopics int) []string {
	if maxTopics <= 0 {
		maxTopics = defaultMaxTopics
	}
	if strings.TrimSpace(textContent) == "" {
		return nil
	}

	type scored struct {
		content string
		score   int
	}
	var candidates []scored

	for _, sentence := range SplitSentences(textContent) {
		if !topicSentenceUsable(sentence) {
			continue
		}

		score := 0
		for _, kw := range s.vocab.DomainTerms() {
			if strings.Contains(sentence, kw) {
				score += keywordTopicScore
			}
		}
		if financialFigurePattern.MatchString(sentence) {
			score++
		}
		if outlookPattern.MatchString(sentence) {
			score++
		}
		if score > 0 {
			candidates = append(candidates, scored{content: sentence, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > maxTopics {
		candidates = candidates[:maxTopics]
	}
	topics := make([]string, len(candidates))
	for i, c := range candidates {
		topics[i] = c.content
	}
	return topics
}

func topicSentenceUsable(sentence string) bool {
	runes := len([]rune(sentence))
	ratio := GarbledRatio(sentence)
	if ratio > maxGarbledRatio {
		return false
	}
	if ratio > 0 {
		// Partially garbled sentences must be long enough and contain a
		// real Japanese run to be worth keeping.
		return runes > garbledMinRunes && japaneseRunPattern.MatchString(sentence)
	}
	return runes > topicMinRunes && runes < topicMaxRunes
}
