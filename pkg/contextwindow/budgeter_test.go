package contextwindow

import (
	"strings"
	"testing"
)

func TestBuild(t *testing.T) {
	t.Run("single block fits", func(t *testing.T) {
		got := Build([]Block{{Label: "資料A", Text: "本文です"}}, 100)
		if !strings.Contains(got, "【資料A】") {
			t.Errorf("missing label header in %q", got)
		}
		if !strings.Contains(got, "本文です") {
			t.Errorf("missing body in %q", got)
		}
	})

	t.Run("blocks kept in order", func(t *testing.T) {
		got := Build([]Block{
			{Label: "A", Text: "一つ目"},
			{Label: "B", Text: "二つ目"},
		}, 100)
		if strings.Index(got, "一つ目") > strings.Index(got, "二つ目") {
			t.Errorf("block order not preserved: %q", got)
		}
	})

	t.Run("oversized block truncated with ellipsis", func(t *testing.T) {
		long := strings.Repeat("あ", 1000)
		got := Build([]Block{{Label: "長文", Text: long}}, 300)
		if !strings.Contains(got, ellipsis) {
			t.Errorf("expected ellipsis in truncated output")
		}
		if runeLen(got) > 300+runeLen("【長文】\n")+runeLen(ellipsis) {
			t.Errorf("output %d runes exceeds budget plus overhead", runeLen(got))
		}
	})

	t.Run("tiny remaining budget drops the block", func(t *testing.T) {
		got := Build([]Block{
			{Label: "A", Text: strings.Repeat("あ", 80)},
			{Label: "B", Text: strings.Repeat("い", 500)},
		}, 120)
		if strings.Contains(got, "い") {
			t.Errorf("block with sub-minimum remaining budget should be dropped: %q", got)
		}
	})

	t.Run("zero budget", func(t *testing.T) {
		if got := Build([]Block{{Label: "A", Text: "x"}}, 0); got != "" {
			t.Errorf("Build with zero budget = %q, want empty", got)
		}
	})
}

// Large documents must be cut to the configured window, not passed through.
func TestBuildLargeCorpus(t *testing.T) {
	blocks := []Block{
		{Label: "決算資料", Text: strings.Repeat("売上高は増加しました。", 3000)}, // 33k runes
		{Label: "中期計画", Text: strings.Repeat("投資を拡大します。", 4000)},   // 36k runes
	}
	got := Build(blocks, 50000)

	if runeLen(got) > 50000+20 {
		t.Errorf("output %d runes exceeds the 50k budget", runeLen(got))
	}
	if !strings.Contains(got, "決算資料") {
		t.Error("first document missing from assembled context")
	}
	if !strings.Contains(got, "中期計画") {
		t.Error("second document should be included as a truncated prefix")
	}
}

func runeLen(s string) int {
	return len([]rune(s))
}
