// Package staticstore serves the embedded default configuration when no
// external key-value store is configured (the env-only worker mode).
package staticstore

import (
	"context"

	"github.com/emarketbank/jimmy-agent/internal/domain"
)

// Store is a read-only ConfigStore over a fixed RuntimeConfig.
type Store struct {
	cfg       domain.RuntimeConfig
	knowledge string
}

// New returns a Store serving cfg. knowledge may be empty.
func New(cfg domain.RuntimeConfig, knowledge string) *Store {
	return &Store{cfg: cfg, knowledge: knowledge}
}

// Active returns the fixed record.
func (s *Store) Active(context.Context) (domain.RuntimeConfig, error) { return s.cfg, nil }

// Draft is unsupported without a writable backend.
func (s *Store) Draft(context.Context) (domain.RuntimeConfig, error) {
	return domain.RuntimeConfig{}, domain.ErrNotFound
}

// SaveDraft is unsupported without a writable backend.
func (s *Store) SaveDraft(context.Context, domain.RuntimeConfig) error {
	return domain.ErrInternal
}

// Publish is unsupported without a writable backend.
func (s *Store) Publish(context.Context) (domain.RuntimeConfig, error) {
	return domain.RuntimeConfig{}, domain.ErrInternal
}

// Rollback is unsupported without a writable backend.
func (s *Store) Rollback(context.Context) (domain.RuntimeConfig, error) {
	return domain.RuntimeConfig{}, domain.ErrInternal
}

// History is always empty.
func (s *Store) History(context.Context) ([]domain.ConfigVersion, error) { return nil, nil }

// Knowledge returns the fixed knowledge blob.
func (s *Store) Knowledge(context.Context) (string, error) { return s.knowledge, nil }

// AdminTokenHash is unsupported; admin routes are disabled in this mode.
func (s *Store) AdminTokenHash(context.Context) (string, error) {
	return "", domain.ErrNotFound
}

// SetAdminTokenHash is unsupported; admin routes are disabled in this mode.
func (s *Store) SetAdminTokenHash(context.Context, string) error {
	return domain.ErrInternal
}
