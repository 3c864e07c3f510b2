package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/emarketbank/jimmy-agent/internal/adapter/configstore/redisstore"
	"github.com/emarketbank/jimmy-agent/internal/adapter/httpserver"
	"github.com/emarketbank/jimmy-agent/internal/config"
	"github.com/emarketbank/jimmy-agent/internal/domain"
)

// seedStore makes a fresh Redis usable without manual setup: it writes an
// active config when none exists (from the seed file when given, otherwise
// the embedded defaults) and stores a hash of the bootstrap admin token when
// no hash has ever been set.
func seedStore(ctx context.Context, cfg config.Config, store *redisstore.Store) error {
	seed := domain.DefaultRuntimeConfig()
	if cfg.SeedConfigPath != "" {
		loaded, err := loadSeedConfig(cfg.SeedConfigPath)
		if err != nil {
			return fmt.Errorf("load seed %s: %w", cfg.SeedConfigPath, err)
		}
		seed = loaded
	}
	seeded, err := store.SeedActive(ctx, seed)
	if err != nil {
		return fmt.Errorf("seed active config: %w", err)
	}
	if seeded {
		slog.Info("seeded active config", slog.String("source", seedSource(cfg)))
	}

	if cfg.AdminToken == "" {
		return nil
	}
	if _, err := store.AdminTokenHash(ctx); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("read admin token hash: %w", err)
	}
	hash, err := httpserver.HashToken(cfg.AdminToken, httpserver.DefaultArgon2Params())
	if err != nil {
		return fmt.Errorf("hash admin token: %w", err)
	}
	if err := store.SetAdminTokenHash(ctx, hash); err != nil {
		return fmt.Errorf("store admin token hash: %w", err)
	}
	slog.Info("stored bootstrap admin token hash")
	return nil
}

func seedSource(cfg config.Config) string {
	if cfg.SeedConfigPath != "" {
		return cfg.SeedConfigPath
	}
	return "builtin"
}

// loadSeedConfig reads a YAML seed file. The document is decoded generically
// and re-encoded as JSON so the RuntimeConfig json tags apply; the file uses
// the same field names the admin API accepts.
func loadSeedConfig(path string) (domain.RuntimeConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.RuntimeConfig{}, err
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return domain.RuntimeConfig{}, fmt.Errorf("parse yaml: %w", err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return domain.RuntimeConfig{}, fmt.Errorf("convert yaml: %w", err)
	}
	var cfg domain.RuntimeConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return domain.RuntimeConfig{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
