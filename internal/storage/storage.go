package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable wraps every backend failure so the caller can treat "store
// is down" as a single condition: skip the item, log, keep the loop alive.
var ErrUnavailable = errors.New("dedup store unavailable")

// Store records which repos were already announced. Records carry a TTL, so
// this is a "don't announce it again for a while" guarantee rather than a
// permanent ledger.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(redisURL string, ttl time.Duration) (*Store, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("storage: parse redis url: %w", err)
	}
	return &Store{rdb: redis.NewClient(opt), ttl: ttl}, nil
}

// AlreadyAnnounced reports whether key has an unexpired record.
func (s *Store) AlreadyAnnounced(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: EXISTS %s: %v", ErrUnavailable, key, err)
	}
	return n > 0, nil
}

// MarkAnnounced records key for the configured TTL. Re-marking refreshes the
// expiry. The stored value is an opaque timestamp, never read back.
func (s *Store) MarkAnnounced(ctx context.Context, key string) error {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	if err := s.rdb.Set(ctx, key, ts, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: SETEX %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
