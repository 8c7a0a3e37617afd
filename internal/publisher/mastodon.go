package publisher

import (
	"context"
	"fmt"

	"github.com/mattn/go-mastodon"

	"trendbot/internal/processor"
)

const mastodonCharLimit = 500

type MastodonConfig struct {
	Server       string
	ClientID     string
	ClientSecret string
	AccessToken  string
	Visibility   string
	CharLimit    int // instance status limit; defaults to 500
}

// Mastodon posts announcements as statuses with the configured visibility.
type Mastodon struct {
	client     *mastodon.Client
	visibility string
	limit      int
}

func NewMastodon(cfg MastodonConfig) *Mastodon {
	vis := cfg.Visibility
	if vis == "" {
		vis = "public"
	}
	limit := cfg.CharLimit
	if limit <= 0 {
		limit = mastodonCharLimit
	}
	return &Mastodon{
		client: mastodon.NewClient(&mastodon.Config{
			Server:       cfg.Server,
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			AccessToken:  cfg.AccessToken,
		}),
		visibility: vis,
		limit:      limit,
	}
}

func (m *Mastodon) Name() string { return "mastodon" }

// Budget counts the URL at its literal length; Mastodon does not collapse
// links to a fixed-width token the way t.co does.
func (m *Mastodon) Budget() processor.Budget {
	return processor.Budget{Chars: m.limit}
}

func (m *Mastodon) Publish(ctx context.Context, text string) error {
	_, err := m.client.PostStatus(ctx, &mastodon.Toot{
		Status:     text,
		Visibility: m.visibility,
	})
	if err != nil {
		return fmt.Errorf("mastodon: post status: %w", err)
	}
	return nil
}
