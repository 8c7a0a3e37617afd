package processor

import (
	"strings"

	"trendbot/internal/collector"
)

// Denylist holds the configured exclusion rules. A repo is excluded when any
// single rule matches; author and name checks are exact-case, description
// entries match as case-insensitive substrings.
type Denylist struct {
	Authors      []string
	Names        []string
	Descriptions []string
}

func (d Denylist) IsListed(r collector.Repo) bool {
	for _, a := range d.Authors {
		if r.Author == a {
			return true
		}
	}
	for _, n := range d.Names {
		if r.Name == n {
			return true
		}
	}
	desc := strings.ToLower(r.Description)
	for _, s := range d.Descriptions {
		if s != "" && strings.Contains(desc, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
