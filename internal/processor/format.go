package processor

import (
	"strconv"
	"strings"

	"github.com/rivo/uniseg"

	"trendbot/internal/collector"
)

// Budget describes a destination's length constraints. LinkChars > 0 means
// the platform rewrites every link to a fixed display width (e.g. t.co);
// zero counts the URL at its literal length.
type Budget struct {
	Chars     int
	LinkChars int
}

const ellipsis = " ..."

// Format renders the announcement for one repo within the given budget:
// "{author} / {name}: {description} ★{stars} {url}", with the description
// truncated to fit. All length accounting is in grapheme clusters so that
// emoji and other multi-codepoint characters are never split.
func Format(r collector.Repo, b Budget) string {
	prefix := r.Name + ": "
	if r.Author != r.Name {
		prefix = r.Author + " / " + r.Name + ": "
	}
	stars := " ★" + strconv.Itoa(r.Stars)

	urlLen := 1 + uniseg.GraphemeClusterCount(r.URL)
	if b.LinkChars > 0 {
		urlLen = 1 + b.LinkChars
	}

	left := b.Chars -
		uniseg.GraphemeClusterCount(prefix) -
		uniseg.GraphemeClusterCount(stars) -
		urlLen

	desc := truncateGraphemes(mentionSafe(r.Description), left)

	return prefix + desc + stars + " " + r.URL
}

// mentionSafe swaps "@" for a fullwidth lookalike so platforms do not
// auto-link handles out of repository descriptions.
func mentionSafe(s string) string {
	return strings.ReplaceAll(s, "@", "＠")
}

// truncateGraphemes keeps s whole when it fits within limit grapheme
// clusters, otherwise cuts it to limit-4 clusters and appends " ...".
func truncateGraphemes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if uniseg.GraphemeClusterCount(s) <= limit {
		return s
	}
	keep := limit - len(ellipsis)
	if keep <= 0 {
		return ""
	}

	g := uniseg.NewGraphemes(s)
	cut := 0
	for n := 0; n < keep && g.Next(); n++ {
		_, cut = g.Positions()
	}
	return s[:cut] + ellipsis
}
