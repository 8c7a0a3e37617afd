package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"

	"trendbot/internal/processor"
)

const (
	twitterAPIBase   = "https://api.twitter.com"
	twitterCharLimit = 280
	// t.co rewrites every URL to a fixed-width token.
	twitterLinkChars = 23
)

type TwitterConfig struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessKey      string
	AccessSecret   string
	APIBase        string // tests point this at a local server
}

// Twitter posts announcements with an OAuth1 user-context signed call to the
// v2 tweet endpoint.
type Twitter struct {
	client *http.Client
	base   string
}

func NewTwitter(cfg TwitterConfig) *Twitter {
	oc := oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret)
	tok := oauth1.NewToken(cfg.AccessKey, cfg.AccessSecret)
	client := oc.Client(oauth1.NoContext, tok)
	client.Timeout = 15 * time.Second

	base := cfg.APIBase
	if base == "" {
		base = twitterAPIBase
	}
	return &Twitter{client: client, base: base}
}

func (t *Twitter) Name() string { return "twitter" }

func (t *Twitter) Budget() processor.Budget {
	return processor.Budget{Chars: twitterCharLimit, LinkChars: twitterLinkChars}
}

func (t *Twitter) Publish(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("twitter: encode tweet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.base+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("twitter: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("twitter: post status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("twitter: post status: %s: %s", resp.Status, bytes.TrimSpace(msg))
	}
	return nil
}
