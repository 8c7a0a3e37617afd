package processor

import (
	"strings"
	"testing"

	"github.com/rivo/uniseg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendbot/internal/collector"
)

// perceivedLen is the platform's view of the text length: grapheme clusters,
// with the URL counted at the platform's fixed link width when it has one.
func perceivedLen(text string, r collector.Repo, b Budget) int {
	n := uniseg.GraphemeClusterCount(text)
	if b.LinkChars > 0 {
		n = n - uniseg.GraphemeClusterCount(r.URL) + b.LinkChars
	}
	return n
}

func TestFormatPrefix(t *testing.T) {
	r := collector.Repo{Author: "wez", Name: "wezterm", Stars: 5924, URL: "https://github.com/wez/wezterm"}
	out := Format(r, Budget{Chars: 280})
	assert.True(t, strings.HasPrefix(out, "wez / wezterm: "), out)

	r = collector.Repo{Author: "vlang", Name: "vlang", Stars: 1, URL: "https://github.com/vlang/vlang"}
	out = Format(r, Budget{Chars: 280})
	assert.True(t, strings.HasPrefix(out, "vlang: "), out)
}

func TestFormatFurniture(t *testing.T) {
	r := collector.Repo{Author: "a", Name: "b", Description: "tiny", Stars: 42, URL: "http://x"}
	out := Format(r, Budget{Chars: 280})
	assert.Equal(t, "a / b: tiny ★42 http://x", out)
}

func TestFormatStaysWithinBudget(t *testing.T) {
	budgets := []Budget{
		{Chars: 280, LinkChars: 23},
		{Chars: 500},
	}
	descriptions := []string{
		strings.Repeat("x", 1000),
		strings.Repeat("🇩🇪", 500), // every cluster is two codepoints
		strings.Repeat("👩‍👩‍👦 ", 300),
	}
	r := collector.Repo{Author: "wez", Name: "wezterm", Stars: 5924, URL: "https://github.com/wez/wezterm"}

	for _, b := range budgets {
		for _, desc := range descriptions {
			r.Description = desc
			out := Format(r, b)
			assert.LessOrEqual(t, perceivedLen(out, r, b), b.Chars)
			assert.True(t, strings.Contains(out, " ..."), "long description should be truncated")
			// A cut inside a flag pair would leave a lone regional indicator
			// before the ellipsis; grapheme counting forbids it.
			assert.True(t, strings.HasSuffix(out, " ★5924 "+r.URL))
		}
	}
}

func TestTruncationBoundary(t *testing.T) {
	// prefix "a / b: " = 7, stars " ★1" = 3, url " http://x" = 9; with a
	// 30-char budget the description gets exactly 11 graphemes.
	r := collector.Repo{Author: "a", Name: "b", Stars: 1, URL: "http://x"}
	b := Budget{Chars: 30}

	r.Description = strings.Repeat("d", 11)
	out := Format(r, b)
	assert.NotContains(t, out, "...")
	assert.Contains(t, out, strings.Repeat("d", 11))
	assert.Equal(t, 30, perceivedLen(out, r, b))

	r.Description = strings.Repeat("d", 12)
	out = Format(r, b)
	assert.Contains(t, out, strings.Repeat("d", 7)+" ...")
	assert.NotContains(t, out, strings.Repeat("d", 8))
	assert.Equal(t, 30, perceivedLen(out, r, b))
}

func TestFormatReplacesMentions(t *testing.T) {
	r := collector.Repo{
		Author:      "wez",
		Name:        "wezterm",
		Description: "A GPU-accelerated cross-platform terminal emulator and multiplexer written by @wez and implemented in Rust",
		Stars:       5924,
		URL:         "https://github.com/wez/wezterm",
	}
	b := Budget{Chars: 280}
	out := Format(r, b)

	require.NotContains(t, out, "@")
	assert.Contains(t, out, "＠wez")
	assert.NotContains(t, out, "...", "short enough to fit untruncated")
	assert.LessOrEqual(t, perceivedLen(out, r, b), 280)
}

func TestTruncateGraphemesSmallLimits(t *testing.T) {
	assert.Equal(t, "", truncateGraphemes("hello world", 0))
	assert.Equal(t, "", truncateGraphemes("hello world", -5))
	assert.Equal(t, "", truncateGraphemes("hello world", 3))
	assert.Equal(t, "hi", truncateGraphemes("hi", 3))
}
