package collector

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

const defaultBaseURL = "https://github.com"

// GitHubFetcher scrapes the GitHub trending page for one language, keeping
// the repositories in page order.
type GitHubFetcher struct {
	Language string
	BaseURL  string // defaults to https://github.com; tests point it elsewhere
}

func (g *GitHubFetcher) Name() string {
	return "github_trending"
}

func (g *GitHubFetcher) Fetch(ctx context.Context) ([]Repo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := g.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("github: bad base url %q: %w", base, err)
	}

	c := colly.NewCollector(
		colly.AllowedDomains(u.Hostname()),
		colly.UserAgent("trendbot/1.0"),
	)
	c.SetRequestTimeout(10 * time.Second)

	repos := make([]Repo, 0, 25)

	c.OnHTML("article.Box-row", func(e *colly.HTMLElement) {
		link := e.DOM.Find("h2 a")
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		author, name, ok := splitRepoPath(href)
		if !ok {
			return
		}

		starsText := strings.TrimSpace(e.ChildText(`a[href$="/stargazers"]`))

		repos = append(repos, Repo{
			Author:      author,
			Name:        name,
			Description: strings.TrimSpace(e.ChildText("p")),
			Stars:       parseStars(starsText),
			URL:         base + "/" + author + "/" + name,
		})
	})

	page := base + "/trending"
	if g.Language != "" {
		page += "/" + url.PathEscape(g.Language)
	}
	page += "?since=daily"

	if err := c.Visit(page); err != nil {
		return nil, fmt.Errorf("github: fetch trending: %w", err)
	}

	// An empty page is an empty batch, not an error.
	return repos, nil
}

// splitRepoPath turns "/author/name" into its two components.
func splitRepoPath(href string) (author, name string, ok bool) {
	parts := strings.Split(strings.Trim(strings.TrimSpace(href), "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// parseStars parses star counts as rendered on the trending page,
// e.g. "12,345" or "12.3k".
func parseStars(text string) int {
	text = strings.ReplaceAll(text, ",", "")
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	multiplier := 1.0
	if strings.HasSuffix(text, "k") || strings.HasSuffix(text, "K") {
		multiplier = 1000
		text = strings.TrimSuffix(strings.TrimSuffix(text, "k"), "K")
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0
	}
	return int(f * multiplier)
}
