// Package relevance scores document text against shareholder questions by
// keyword overlap. It is the grounding source for answer generation: the
// responder only speaks from what this package finds.
package relevance

import (
	"sort"
	"strings"

	"shareholder-qa-sim/internal/model"
	"shareholder-qa-sim/pkg/vocabulary"
)

const (
	minSentenceRunes   = 10
	maxGarbledRatio    = 0.15
	maxKeywords        = 10
	replacementChar    = '�'
	sentenceSeparators = "。．\n"
)

// Snippet is a scored excerpt of document text. Ephemeral: recomputed per
// question, never persisted.
type Snippet struct {
	Source    string `json:"source"`
	Content   string `json:"content"`
	Relevance int    `json:"relevance"`
}

type Scorer struct {
	vocab *vocabulary.Vocabulary
}

func NewScorer(vocab *vocabulary.Vocabulary) *Scorer {
	return &Scorer{vocab: vocab}
}

// ExtractKeywords tokenizes a question into keyword candidates. Japanese
// text has no word boundaries, so grammatical particles act as the
// delimiters; fixed domain terms are matched directly as well. Synonym
// expansion is additive and originals are always retained.
func (s *Scorer) ExtractKeywords(question string) []string {
	cleaned := stripPunctuation(question)

	// Longest particles first so "について" is consumed before "に".
	cleaned = s.splitOnStopWords(cleaned)

	seen := make(map[string]struct{})
	var keywords []string
	add := func(kw string) {
		if _, ok := seen[kw]; ok {
			return
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}

	for _, token := range strings.Fields(cleaned) {
		if len([]rune(token)) < 2 || s.vocab.IsStopWord(token) {
			continue
		}
		add(token)
		if len(keywords) >= maxKeywords {
			break
		}
	}

	for _, term := range s.vocab.DomainTerms() {
		if strings.Contains(question, term) {
			add(term)
		}
	}

	// Expand after collection so expansion cannot displace originals.
	var expanded []string
	expSeen := make(map[string]struct{})
	for _, kw := range keywords {
		for _, e := range s.vocab.Expand(kw) {
			if _, ok := expSeen[e]; ok {
				continue
			}
			expSeen[e] = struct{}{}
			expanded = append(expanded, e)
		}
	}
	return expanded
}

// Score counts occurrences of the question's expanded keywords in text.
func (s *Scorer) Score(text, question string) int {
	keywords := s.ExtractKeywords(question)
	return scoreSentence(text, keywords)
}

// FindRelevant returns the top scoring sentences across all documents.
// No extractable keywords means no grounding: the result is empty and the
// caller must treat the question as unanswerable from the material.
func (s *Scorer) FindRelevant(documents []model.Document, question string, limit int) []Snippet {
	keywords := s.ExtractKeywords(question)
	if len(keywords) == 0 {
		return nil
	}

	var candidates []Snippet
	for _, doc := range documents {
		for _, sentence := range SplitSentences(doc.TextContent) {
			if !usableSentence(sentence) {
				continue
			}
			score := scoreSentence(sentence, keywords)
			if score > 0 {
				candidates = append(candidates, Snippet{
					Source:    doc.OriginalName,
					Content:   sentence,
					Relevance: score,
				})
			}
		}
	}

	// Stable keeps original document order for equal scores.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Relevance > candidates[j].Relevance
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// SplitSentences splits on sentence-terminal punctuation and newlines,
// trimming whitespace from each piece.
func SplitSentences(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(sentenceSeparators, r)
	})
	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

// GarbledRatio is the share of replacement characters in the string.
// PDF extraction of Japanese text produces U+FFFD runs when the encoding
// breaks down.
func GarbledRatio(s string) float64 {
	runes := []rune(s)
	if len(runes) == 0 {
		return 0
	}
	garbled := 0
	for _, r := range runes {
		if r == replacementChar {
			garbled++
		}
	}
	return float64(garbled) / float64(len(runes))
}

func usableSentence(sentence string) bool {
	if len([]rune(sentence)) < minSentenceRunes {
		return false
	}
	return GarbledRatio(sentence) <= maxGarbledRatio
}

func scoreSentence(sentence string, keywords []string) int {
	score := 0
	for _, kw := range keywords {
		score += strings.Count(sentence, kw)
	}
	return score
}

func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '？', '?', '！', '!', '。', '．', '、', '，', ',', '.':
			return ' '
		}
		return r
	}, s)
}

func (s *Scorer) splitOnStopWords(text string) string {
	stops := s.stopWordsByLength()
	for _, w := range stops {
		text = strings.ReplaceAll(text, w, " ")
	}
	return text
}

func (s *Scorer) stopWordsByLength() []string {
	// The stop list is small and static; rebuild per call is fine for the
	// question-frequency workload here.
	var words []string
	for _, w := range []string{
		"について", "お聞かせ", "ください", "教えて", "いかが",
		"では", "です", "ます", "である", "される", "から", "まで", "より",
		"する", "した", "いる", "ある", "この", "その", "あの", "どの",
		"どう", "なぜ", "どこ", "いつ", "だれ",
		"の", "は", "が", "を", "に", "で", "と", "何",
	} {
		if s.vocab.IsStopWord(w) {
			words = append(words, w)
		}
	}
	return words
}
