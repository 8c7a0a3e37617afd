// Package scheduler drives the discovery → dedup → filter → format → publish
// pipeline as one strictly sequential loop. Nothing inside a cycle is allowed
// to stop the loop; only context cancellation ends it.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"trendbot/internal/collector"
	"trendbot/internal/metrics"
	"trendbot/internal/processor"
	"trendbot/internal/publisher"
)

// DedupStore is the slice of the storage layer the loop needs.
type DedupStore interface {
	AlreadyAnnounced(ctx context.Context, key string) (bool, error)
	MarkAnnounced(ctx context.Context, key string) error
}

type Config struct {
	FetchInterval time.Duration
	PostInterval  time.Duration
	// FetchSchedule, when set, overrides FetchInterval: the next cycle starts
	// at the schedule's next tick instead of a fixed interval after this one.
	FetchSchedule cron.Schedule
}

// Snapshot is the outcome of the most recent cycle, for the status endpoint.
type Snapshot struct {
	LastRun  time.Time `json:"last_run"`
	Fetched  int       `json:"fetched"`
	Posted   int       `json:"posted"`
	Skipped  int       `json:"skipped"`
	FetchErr string    `json:"fetch_error,omitempty"`
}

// Scheduler owns the long-lived collaborators and reuses them across cycles.
// There is a single consumer goroutine, so none of them need locking.
type Scheduler struct {
	cfg      Config
	fetcher  collector.Fetcher
	denylist processor.Denylist
	store    DedupStore
	pubs     []publisher.Publisher
	limiter  *rate.Limiter
	log      zerolog.Logger

	mu   sync.Mutex
	snap Snapshot
}

func New(cfg Config, f collector.Fetcher, d processor.Denylist, store DedupStore, pubs []publisher.Publisher, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		fetcher:  f,
		denylist: d,
		store:    store,
		pubs:     pubs,
		limiter:  rate.NewLimiter(rate.Every(cfg.PostInterval), 1),
		log:      log.With().Str("component", "scheduler").Logger(),
	}
}

// Run drives the loop until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		s.runCycle(ctx)
		if err := sleep(ctx, s.nextWait()); err != nil {
			return err
		}
	}
}

func (s *Scheduler) nextWait() time.Duration {
	if s.cfg.FetchSchedule != nil {
		return time.Until(s.cfg.FetchSchedule.Next(time.Now()))
	}
	return s.cfg.FetchInterval
}

func (s *Scheduler) runCycle(ctx context.Context) {
	snap := Snapshot{LastRun: time.Now()}

	repos, err := s.fetcher.Fetch(ctx)
	if err != nil {
		// Cycle-fatal only: the batch is discarded, nothing is marked, and
		// the fetch is retried next cycle.
		s.log.Error().Err(err).Msg("fetch failed, retrying next cycle")
		metrics.FetchErrors.Inc()
		snap.FetchErr = err.Error()
		s.setSnapshot(snap)
		return
	}
	metrics.FetchCycles.Inc()
	snap.Fetched = len(repos)
	s.log.Info().Int("repos", len(repos)).Str("source", s.fetcher.Name()).Msg("fetched trending batch")

	for _, r := range repos {
		if ctx.Err() != nil {
			break
		}
		if s.processRepo(ctx, r) {
			snap.Posted++
		} else {
			snap.Skipped++
		}
	}
	s.setSnapshot(snap)
}

// processRepo runs one repo through filter → dedup → publish → mark and
// reports whether it reached the publish step.
func (s *Scheduler) processRepo(ctx context.Context, r collector.Repo) bool {
	log := s.log.With().Str("repo", r.Key()).Logger()

	if s.denylist.IsListed(r) {
		log.Debug().Msg("denylisted, skipping")
		metrics.Skipped.WithLabelValues("denylisted").Inc()
		return false
	}

	// The dedup decision must land before any destination is touched, so a
	// restart never double-announces.
	seen, err := s.store.AlreadyAnnounced(ctx, r.Key())
	if err != nil {
		log.Error().Err(err).Msg("dedup check failed, skipping")
		metrics.Skipped.WithLabelValues("store_error").Inc()
		return false
	}
	if seen {
		log.Debug().Msg("already announced, skipping")
		metrics.Skipped.WithLabelValues("seen").Inc()
		return false
	}

	// Throttle: one publish step per post interval.
	if err := s.limiter.Wait(ctx); err != nil {
		return false
	}

	for _, p := range s.pubs {
		text := processor.Format(r, p.Budget())
		if err := p.Publish(ctx, text); err != nil {
			log.Error().Err(err).Str("destination", p.Name()).Msg("publish failed")
			metrics.PublishErrors.WithLabelValues(p.Name()).Inc()
			continue
		}
		log.Info().Str("destination", p.Name()).Int("stars", r.Stars).Msg("posted")
		metrics.Posted.WithLabelValues(p.Name()).Inc()
	}

	// Marked even when destinations failed: a partially announced repo is
	// not retried next cycle.
	if err := s.store.MarkAnnounced(ctx, r.Key()); err != nil {
		log.Error().Err(err).Msg("mark announced failed")
	}
	return true
}

func (s *Scheduler) setSnapshot(snap Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

func (s *Scheduler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func sleep(ctx context.Context, d time.Duration) error {
	if d < 0 {
		d = 0
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
