// Package contextwindow assembles labeled text blocks into a single
// context string under a hard character budget. Generation prompts must
// never exceed the model's usable window, so truncation here is strict
// and deterministic.
package contextwindow

import "strings"

const (
	// minPartialRunes is the smallest remaining budget worth filling with
	// a truncated block; below this the partial text adds noise, not
	// grounding.
	minPartialRunes = 100

	ellipsis = "…"
)

// Block is one labeled piece of source text.
type Block struct {
	Label string
	Text  string
}

// Build concatenates blocks in order as 【label】\ntext\n\n while the
// running rune total stays within maxChars. A block that would overflow
// is included as a truncated prefix when at least minPartialRunes of
// budget remain; afterwards assembly stops. Output length is bounded by
// maxChars plus the formatting overhead of the final block header.
func Build(blocks []Block, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}

	var b strings.Builder
	used := 0
	for _, block := range blocks {
		header := "【" + block.Label + "】\n"
		bodyRunes := []rune(block.Text)
		entryLen := len([]rune(header)) + len(bodyRunes) + 2

		if used+entryLen <= maxChars {
			b.WriteString(header)
			b.WriteString(block.Text)
			b.WriteString("\n\n")
			used += entryLen
			continue
		}

		remaining := maxChars - used - len([]rune(header)) - 2
		if remaining >= minPartialRunes {
			b.WriteString(header)
			b.WriteString(string(bodyRunes[:remaining]))
			b.WriteString(ellipsis)
			b.WriteString("\n\n")
		}
		break
	}
	return strings.TrimRight(b.String(), "\n")
}
