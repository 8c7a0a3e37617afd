package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"trendbot/internal/api"
	"trendbot/internal/collector"
	"trendbot/internal/config"
	"trendbot/internal/processor"
	"trendbot/internal/publisher"
	"trendbot/internal/scheduler"
	"trendbot/internal/storage"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "./config.yaml", "path to config yaml")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Log.Level)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := storage.New(cfg.RedisURL, cfg.PostTTL.Std())
	if err != nil {
		log.Fatal().Err(err).Msg("init dedup store")
	}
	defer store.Close()
	if err := store.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis ping failed, continuing anyway")
	}

	fetcher := &collector.GitHubFetcher{Language: cfg.Language}

	var pubs []publisher.Publisher
	if t := cfg.Twitter; t != nil {
		pubs = append(pubs, publisher.NewTwitter(publisher.TwitterConfig{
			ConsumerKey:    t.ConsumerKey,
			ConsumerSecret: t.ConsumerSecret,
			AccessKey:      t.AccessKey,
			AccessSecret:   t.AccessSecret,
		}))
	}
	if m := cfg.Mastodon; m != nil {
		pubs = append(pubs, publisher.NewMastodon(publisher.MastodonConfig{
			Server:       m.Server,
			ClientID:     m.ClientID,
			ClientSecret: m.ClientSecret,
			AccessToken:  m.AccessToken,
			Visibility:   m.Visibility,
			CharLimit:    m.CharLimit,
		}))
	}

	cronSched, err := cfg.CronSchedule()
	if err != nil {
		log.Fatal().Err(err).Msg("parse fetch schedule")
	}

	denylist := processor.Denylist{
		Authors:      cfg.Denylist.Authors,
		Names:        cfg.Denylist.Names,
		Descriptions: cfg.Denylist.Descriptions,
	}

	sched := scheduler.New(scheduler.Config{
		FetchInterval: cfg.FetchInterval.Std(),
		PostInterval:  cfg.PostInterval.Std(),
		FetchSchedule: cronSched,
	}, fetcher, denylist, store, pubs, log)

	if cfg.API.Addr != "" {
		srv := startAPIServer(cfg.API.Addr, store, sched, log)
		defer func() {
			shCtx, shCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shCancel()
			_ = srv.Shutdown(shCtx)
		}()
	}

	log.Info().
		Str("language", cfg.Language).
		Int("destinations", len(pubs)).
		Dur("fetch_interval", cfg.FetchInterval.Std()).
		Dur("post_interval", cfg.PostInterval.Std()).
		Msg("starting")

	if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("loop stopped")
		os.Exit(1)
	}
	log.Info().Msg("shutting down")
}

func startAPIServer(addr string, store *storage.Store, sched *scheduler.Scheduler, log zerolog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	api.NewServer(store, sched).RegisterRoutes(r)

	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		log.Info().Str("addr", addr).Msg("status server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("status server stopped")
		}
	}()
	return srv
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
}
