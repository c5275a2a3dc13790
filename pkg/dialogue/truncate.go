package dialogue

import "strings"

// sentenceBoundaryWindow is how far back from the cap a sentence
// terminator may sit and still be preferred over a hard cut.
const sentenceBoundaryWindow = 100

var sentenceTerminators = []rune{'。', '．', '！', '？', '!', '?'}

// LimitLength enforces a hard rune cap, cutting at the nearest preceding
// sentence terminator inside the trailing window when one exists,
// otherwise hard-truncating with an ellipsis.
func LimitLength(s string, maxRunes int) string {
	runes := []rune(s)
	if maxRunes <= 0 || len(runes) <= maxRunes {
		return s
	}

	windowStart := maxRunes - sentenceBoundaryWindow
	if windowStart < 0 {
		windowStart = 0
	}
	for i := maxRunes - 1; i >= windowStart; i-- {
		if isSentenceTerminator(runes[i]) {
			return string(runes[:i+1])
		}
	}

	if maxRunes == 1 {
		return "…"
	}
	return strings.TrimSpace(string(runes[:maxRunes-1])) + "…"
}

func isSentenceTerminator(r rune) bool {
	for _, t := range sentenceTerminators {
		if r == t {
			return true
		}
	}
	return false
}
