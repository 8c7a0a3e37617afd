package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trendbot/internal/collector"
)

func TestDenylistOrSemantics(t *testing.T) {
	repo := collector.Repo{
		Author:      "foo",
		Name:        "bar",
		Description: "a very loNg description",
	}

	tests := []struct {
		name   string
		list   Denylist
		listed bool
	}{
		{"empty list", Denylist{}, false},
		{"author match", Denylist{Authors: []string{"foo"}}, true},
		{"name match", Denylist{Names: []string{"bar"}}, true},
		{"description substring, case-insensitive", Denylist{Descriptions: []string{"Long"}}, true},
		{"author exact-case only", Denylist{Authors: []string{"Foo"}}, false},
		{"name exact-case only", Denylist{Names: []string{"BAR"}}, false},
		{"nothing matches", Denylist{Authors: []string{"x"}, Names: []string{"y"}, Descriptions: []string{"z"}}, false},
		{"empty description rule never matches", Denylist{Descriptions: []string{""}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.listed, tt.list.IsListed(repo))
		})
	}
}
