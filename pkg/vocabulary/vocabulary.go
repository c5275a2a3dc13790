// Package vocabulary holds the shared domain word tables for IR documents
// and shareholder questions. A single Vocabulary value is injected into
// both the relevance scorer and the responder's topic classifier so the
// two keyword sets cannot drift apart.
package vocabulary

import "strings"

// Theme buckets a question or document into one of the recurring
// shareholder-meeting topics.
type Theme string

const (
	ThemePerformance Theme = "performance"
	ThemeStrategy    Theme = "strategy"
	ThemeDividend    Theme = "dividend"
	ThemeRisk        Theme = "risk"
	ThemeGeneric     Theme = "generic"
)

type Vocabulary struct {
	// stopWords are grammatical particles and filler removed during
	// keyword extraction.
	stopWords map[string]struct{}

	// domainTerms are financial/strategic terms matched directly against
	// question text, independent of tokenization.
	domainTerms []string

	// synonyms expands a keyword additively; the original keyword is
	// always retained.
	synonyms map[string][]string

	// themes maps each theme to its trigger keywords.
	themes map[Theme][]string
}

// Default returns the vocabulary for Japanese IR material.
func Default() *Vocabulary {
	stop := []string{
		"の", "は", "が", "を", "に", "で", "と", "から", "まで", "より",
		"について", "では", "です", "ます", "である", "する", "した",
		"される", "いる", "ある", "この", "その", "あの", "どの",
		"いかが", "どう", "なぜ", "どこ", "いつ", "だれ", "何",
		"ください", "教えて", "お聞かせ",
	}
	stopWords := make(map[string]struct{}, len(stop))
	for _, w := range stop {
		stopWords[w] = struct{}{}
	}

	return &Vocabulary{
		stopWords: stopWords,
		domainTerms: []string{
			"売上", "売上高", "収益", "営業利益", "当期純利益", "業績", "決算", "財務",
			"新規事業", "戦略", "計画", "方針", "投資", "開発", "成長",
			"株主", "配当", "株主還元", "株価", "資本", "株式",
			"市場", "競合", "顧客", "事業環境", "業界",
			"技術", "デジタル", "AI", "DX", "イノベーション",
			"ESG", "サステナビリティ", "環境", "社会貢献",
			"リスク", "課題", "対策", "改善", "効率化",
		},
		synonyms: map[string][]string{
			"業績":   {"売上", "利益", "収益", "決算"},
			"売上":   {"売上高", "収益"},
			"利益":   {"営業利益", "当期純利益", "収益"},
			"戦略":   {"計画", "方針", "施策"},
			"配当":   {"株主還元", "配当性向"},
			"リスク": {"課題", "懸念", "対策"},
			"成長":   {"拡大", "伸長"},
		},
		themes: map[Theme][]string{
			ThemePerformance: {"業績", "売上", "利益", "収益", "決算", "財務"},
			ThemeStrategy:    {"戦略", "計画", "今後", "方針", "投資", "成長", "事業"},
			ThemeDividend:    {"配当", "株主還元", "還元", "自社株"},
			ThemeRisk:        {"リスク", "課題", "懸念", "対策"},
		},
	}
}

// IsStopWord reports whether the token carries no topical content.
func (v *Vocabulary) IsStopWord(token string) bool {
	_, ok := v.stopWords[token]
	return ok
}

// DomainTerms returns the fixed financial/strategic term list.
func (v *Vocabulary) DomainTerms() []string {
	return v.domainTerms
}

// Expand returns the keyword plus its synonyms. The input keyword is
// always the first element.
func (v *Vocabulary) Expand(keyword string) []string {
	expanded := []string{keyword}
	if syns, ok := v.synonyms[keyword]; ok {
		expanded = append(expanded, syns...)
	}
	return expanded
}

// Classify buckets text into the first theme whose trigger keywords
// appear in it. Theme order is fixed so classification is deterministic.
func (v *Vocabulary) Classify(text string) Theme {
	for _, theme := range []Theme{ThemePerformance, ThemeStrategy, ThemeDividend, ThemeRisk} {
		for _, kw := range v.themes[theme] {
			if strings.Contains(text, kw) {
				return theme
			}
		}
	}
	return ThemeGeneric
}

// ThemeKeywords returns the trigger keywords for a theme.
func (v *Vocabulary) ThemeKeywords(theme Theme) []string {
	return v.themes[theme]
}
