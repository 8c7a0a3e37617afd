package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// minCharLimit keeps a configured budget above the fixed parts of an
// announcement (prefix + stars + URL); smaller budgets are a configuration
// error, caught here so the formatter never has to handle them at runtime.
const minCharLimit = 80

type Config struct {
	Language      string   `yaml:"language"`
	RedisURL      string   `yaml:"redis_url"`
	FetchInterval Duration `yaml:"fetch_interval"`
	PostInterval  Duration `yaml:"post_interval"`
	PostTTL       Duration `yaml:"post_ttl"`
	// FetchSchedule is an optional cron expression; when set it overrides
	// fetch_interval.
	FetchSchedule string `yaml:"fetch_schedule"`

	Denylist Denylist `yaml:"denylist"`

	// A destination with no block present is simply disabled.
	Twitter  *Twitter  `yaml:"twitter"`
	Mastodon *Mastodon `yaml:"mastodon"`

	API APIConfig `yaml:"api"`
	Log LogConfig `yaml:"log"`

	// Deprecated aliases from older config shapes.
	TweetInterval Duration  `yaml:"tweet_interval"`
	TweetTTL      Duration  `yaml:"tweet_ttl"`
	Blacklist     *Denylist `yaml:"blacklist"`
}

type Denylist struct {
	Authors      []string `yaml:"authors"`
	Names        []string `yaml:"names"`
	Descriptions []string `yaml:"descriptions"`
}

func (d Denylist) Empty() bool {
	return len(d.Authors) == 0 && len(d.Names) == 0 && len(d.Descriptions) == 0
}

type Twitter struct {
	ConsumerKey    string `yaml:"consumer_key"`
	ConsumerSecret string `yaml:"consumer_secret"`
	AccessKey      string `yaml:"access_key"`
	AccessSecret   string `yaml:"access_secret"`
}

type Mastodon struct {
	Server       string `yaml:"server"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	AccessToken  string `yaml:"access_token"`
	Visibility   string `yaml:"visibility"`
	CharLimit    int    `yaml:"char_limit"`
}

type APIConfig struct {
	Addr string `yaml:"addr"` // empty disables the status server
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyAliases()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyAliases() {
	if c.PostInterval == 0 {
		c.PostInterval = c.TweetInterval
	}
	if c.PostTTL == 0 {
		c.PostTTL = c.TweetTTL
	}
	if c.Denylist.Empty() && c.Blacklist != nil {
		c.Denylist = *c.Blacklist
	}
}

func (c *Config) applyDefaults() {
	if c.Language == "" {
		c.Language = "rust"
	}
	if c.RedisURL == "" {
		c.RedisURL = "redis://127.0.0.1:6379/0"
	}
	if c.FetchInterval == 0 {
		c.FetchInterval = Duration(time.Hour)
	}
	if c.PostInterval == 0 {
		c.PostInterval = Duration(10 * time.Minute)
	}
	if c.PostTTL == 0 {
		c.PostTTL = Duration(4 * time.Hour)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate is startup-fatal: the loop must never start with a config that
// can fail mid-cycle.
func (c *Config) Validate() error {
	if _, err := redis.ParseURL(c.RedisURL); err != nil {
		return fmt.Errorf("config: redis_url: %w", err)
	}
	if c.FetchInterval <= 0 {
		return errors.New("config: fetch_interval must be positive")
	}
	if c.PostInterval <= 0 {
		return errors.New("config: post_interval must be positive")
	}
	if c.PostTTL <= 0 {
		return errors.New("config: post_ttl must be positive")
	}
	if c.FetchSchedule != "" {
		if _, err := cron.ParseStandard(c.FetchSchedule); err != nil {
			return fmt.Errorf("config: fetch_schedule: %w", err)
		}
	}
	if c.Twitter == nil && c.Mastodon == nil {
		return errors.New("config: at least one destination (twitter or mastodon) must be configured")
	}
	if t := c.Twitter; t != nil {
		if t.ConsumerKey == "" || t.ConsumerSecret == "" || t.AccessKey == "" || t.AccessSecret == "" {
			return errors.New("config: twitter: all four credential fields are required")
		}
	}
	if m := c.Mastodon; m != nil {
		if m.Server == "" || m.AccessToken == "" {
			return errors.New("config: mastodon: server and access_token are required")
		}
		if m.CharLimit != 0 && m.CharLimit < minCharLimit {
			return fmt.Errorf("config: mastodon: char_limit %d is too small for an announcement (min %d)", m.CharLimit, minCharLimit)
		}
	}
	return nil
}

// CronSchedule parses fetch_schedule; nil when unset.
func (c *Config) CronSchedule() (cron.Schedule, error) {
	if c.FetchSchedule == "" {
		return nil, nil
	}
	sched, err := cron.ParseStandard(c.FetchSchedule)
	if err != nil {
		return nil, fmt.Errorf("config: fetch_schedule: %w", err)
	}
	return sched, nil
}
