// Package redisstore implements the configuration store port on a Redis
// key-value backend with a process-lifetime read-through cache.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/emarketbank/jimmy-agent/internal/domain"
)

// Fixed keys. The admin UI writes the same keys out of band.
const (
	keyActive    = "jimmy:config:active"
	keyDraft     = "jimmy:config:draft"
	keyHistory   = "jimmy:config:history"
	keyToken     = "jimmy:config:admin_token"
	keyKnowledge = "jimmy:kb:advanced"
)

type cached[T any] struct {
	value T
	at    time.Time
}

// Store reads RuntimeConfig records from Redis. The active record and the
// knowledge blob are cached in memory; replacement is atomic at the
// reference level so readers never need a lock, and staleness is bounded by
// the TTL. Admin writes invalidate both caches.
type Store struct {
	rdb          *redis.Client
	ttl          time.Duration
	historyLimit int

	activeCache atomic.Pointer[cached[domain.RuntimeConfig]]
	kbCache     atomic.Pointer[cached[string]]
}

// New constructs a Store over an existing Redis client.
func New(rdb *redis.Client, cacheTTL time.Duration, historyLimit int) *Store {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	if historyLimit <= 0 {
		historyLimit = 10
	}
	return &Store{rdb: rdb, ttl: cacheTTL, historyLimit: historyLimit}
}

// Ping checks connectivity, for readiness reporting.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Invalidate drops the in-memory caches so the next read hits Redis.
func (s *Store) Invalidate() {
	s.activeCache.Store(nil)
	s.kbCache.Store(nil)
}

// Active returns the live record, served from cache within the TTL.
func (s *Store) Active(ctx context.Context) (domain.RuntimeConfig, error) {
	if c := s.activeCache.Load(); c != nil && time.Since(c.at) < s.ttl {
		return c.value, nil
	}
	cfg, err := s.getConfig(ctx, keyActive)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.RuntimeConfig{}, fmt.Errorf("%w: no active config", domain.ErrMissingConfiguration)
		}
		return domain.RuntimeConfig{}, err
	}
	s.activeCache.Store(&cached[domain.RuntimeConfig]{value: cfg, at: time.Now()})
	return cfg, nil
}

// Draft returns the editable record awaiting publish.
func (s *Store) Draft(ctx context.Context) (domain.RuntimeConfig, error) {
	return s.getConfig(ctx, keyDraft)
}

// SaveDraft stores cfg as the draft. The draft only needs to be
// shape-decodable; full validation happens at publish time.
func (s *Store) SaveDraft(ctx context.Context, cfg domain.RuntimeConfig) error {
	return s.setConfig(ctx, keyDraft, cfg)
}

// Publish validates the draft, archives the current active into bounded
// history, and promotes the draft with a fresh version id.
func (s *Store) Publish(ctx context.Context) (domain.RuntimeConfig, error) {
	draft, err := s.getConfig(ctx, keyDraft)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.RuntimeConfig{}, fmt.Errorf("%w: no draft to publish", domain.ErrNotFound)
		}
		return domain.RuntimeConfig{}, err
	}
	if err := draft.Validate(); err != nil {
		return domain.RuntimeConfig{}, err
	}

	if current, err := s.getConfig(ctx, keyActive); err == nil {
		entry := domain.ConfigVersion{Version: current.Version, ArchivedAt: time.Now().UTC(), Config: current}
		b, merr := json.Marshal(entry)
		if merr != nil {
			return domain.RuntimeConfig{}, merr
		}
		if err := s.rdb.LPush(ctx, keyHistory, b).Err(); err != nil {
			return domain.RuntimeConfig{}, fmt.Errorf("archive active: %w", err)
		}
		if err := s.rdb.LTrim(ctx, keyHistory, 0, int64(s.historyLimit-1)).Err(); err != nil {
			return domain.RuntimeConfig{}, fmt.Errorf("trim history: %w", err)
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.RuntimeConfig{}, err
	}

	draft.Version = uuid.NewString()
	draft.UpdatedAt = time.Now().UTC()
	if err := s.setConfig(ctx, keyActive, draft); err != nil {
		return domain.RuntimeConfig{}, err
	}
	s.Invalidate()
	return draft, nil
}

// Rollback pops the most recent history entry back into active.
func (s *Store) Rollback(ctx context.Context) (domain.RuntimeConfig, error) {
	raw, err := s.rdb.LPop(ctx, keyHistory).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.RuntimeConfig{}, fmt.Errorf("%w: history empty", domain.ErrNotFound)
		}
		return domain.RuntimeConfig{}, err
	}
	var entry domain.ConfigVersion
	if err := json.Unmarshal(raw, &entry); err != nil {
		return domain.RuntimeConfig{}, fmt.Errorf("decode history entry: %w", err)
	}
	if err := s.setConfig(ctx, keyActive, entry.Config); err != nil {
		return domain.RuntimeConfig{}, err
	}
	s.Invalidate()
	return entry.Config, nil
}

// History lists archived versions, newest first.
func (s *Store) History(ctx context.Context) ([]domain.ConfigVersion, error) {
	raws, err := s.rdb.LRange(ctx, keyHistory, 0, int64(s.historyLimit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]domain.ConfigVersion, 0, len(raws))
	for _, r := range raws {
		var entry domain.ConfigVersion
		if err := json.Unmarshal([]byte(r), &entry); err != nil {
			return nil, fmt.Errorf("decode history entry: %w", err)
		}
		out = append(out, entry)
	}
	return out, nil
}

// Knowledge returns the knowledge-base blob, cached within the TTL.
// A missing blob is not an error; it returns empty.
func (s *Store) Knowledge(ctx context.Context) (string, error) {
	if c := s.kbCache.Load(); c != nil && time.Since(c.at) < s.ttl {
		return c.value, nil
	}
	kb, err := s.rdb.Get(ctx, keyKnowledge).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	s.kbCache.Store(&cached[string]{value: kb, at: time.Now()})
	return kb, nil
}

// AdminTokenHash returns the stored bearer-token hash.
func (s *Store) AdminTokenHash(ctx context.Context) (string, error) {
	h, err := s.rdb.Get(ctx, keyToken).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%w: admin token not set", domain.ErrNotFound)
		}
		return "", err
	}
	return h, nil
}

// SetAdminTokenHash stores a new bearer-token hash (rotate).
func (s *Store) SetAdminTokenHash(ctx context.Context, hash string) error {
	return s.rdb.Set(ctx, keyToken, hash, 0).Err()
}

// SeedActive writes cfg as active only when no active record exists.
func (s *Store) SeedActive(ctx context.Context, cfg domain.RuntimeConfig) (bool, error) {
	if err := cfg.Validate(); err != nil {
		return false, err
	}
	if cfg.Version == "" {
		cfg.Version = uuid.NewString()
	}
	if cfg.UpdatedAt.IsZero() {
		cfg.UpdatedAt = time.Now().UTC()
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return false, err
	}
	ok, err := s.rdb.SetNX(ctx, keyActive, b, 0).Result()
	if err != nil {
		return false, err
	}
	if ok {
		s.Invalidate()
	}
	return ok, nil
}

func (s *Store) getConfig(ctx context.Context, key string) (domain.RuntimeConfig, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.RuntimeConfig{}, fmt.Errorf("%w: %s", domain.ErrNotFound, key)
		}
		return domain.RuntimeConfig{}, err
	}
	var cfg domain.RuntimeConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return domain.RuntimeConfig{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return cfg, nil
}

func (s *Store) setConfig(ctx context.Context, key string, cfg domain.RuntimeConfig) error {
	b, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, b, 0).Err()
}
