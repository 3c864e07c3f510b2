package httpserver

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/emarketbank/jimmy-agent/internal/adapter/observability"
	"github.com/emarketbank/jimmy-agent/internal/domain"
)

// AdminConfigGetHandler returns the active record plus, when present, the
// draft and the archived history. Missing draft is a normal state, not an
// error.
func (s *Server) AdminConfigGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		active, err := s.Store.Active(ctx)
		if err != nil {
			writeError(w, err, nil)
			return
		}
		out := map[string]any{"active": active}
		if draft, err := s.Store.Draft(ctx); err == nil {
			out["draft"] = draft
		}
		if history, err := s.Store.History(ctx); err == nil && len(history) > 0 {
			out["history"] = history
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// AdminConfigPutHandler stores the request body as the draft. The body only
// needs to decode; validation is deferred to publish so the admin UI can
// save partial work.
func (s *Server) AdminConfigPutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		var cfg domain.RuntimeConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			writeError(w, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err), nil)
			return
		}
		if err := s.Store.SaveDraft(r.Context(), cfg); err != nil {
			writeError(w, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"saved": true})
	}
}

// AdminConfigPublishHandler validates the draft and promotes it to active.
func (s *Server) AdminConfigPublishHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		cfg, err := s.Store.Publish(ctx)
		if err != nil {
			writeError(w, err, nil)
			return
		}
		observability.LoggerFromContext(ctx).Info("config published",
			slog.String("version", cfg.Version))
		writeJSON(w, http.StatusOK, map[string]any{"published": true, "version": cfg.Version})
	}
}

// AdminConfigRollbackHandler restores the most recent archived version.
func (s *Server) AdminConfigRollbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		cfg, err := s.Store.Rollback(ctx)
		if err != nil {
			writeError(w, err, nil)
			return
		}
		observability.LoggerFromContext(ctx).Info("config rolled back",
			slog.String("version", cfg.Version))
		writeJSON(w, http.StatusOK, map[string]any{"rolled_back": true, "version": cfg.Version})
	}
}

type rotateBody struct {
	Token string `json:"token" validate:"required,min=24"`
}

// AdminTokenRotateHandler hashes and stores a new bearer token. Subsequent
// admin calls must present the new token; the env bootstrap token stops
// working once a hash exists.
func (s *Server) AdminTokenRotateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 4<<10)
		var body rotateBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err), nil)
			return
		}
		if err := getValidator().Struct(body); err != nil {
			writeError(w, fmt.Errorf("%w: token must be at least 24 characters", domain.ErrInvalidInput), nil)
			return
		}
		hash, err := HashToken(body.Token, defaultArgon2Params)
		if err != nil {
			writeError(w, fmt.Errorf("%w: hash token: %v", domain.ErrInternal, err), nil)
			return
		}
		if err := s.Store.SetAdminTokenHash(r.Context(), hash); err != nil {
			writeError(w, err, nil)
			return
		}
		observability.LoggerFromContext(r.Context()).Info("admin token rotated")
		writeJSON(w, http.StatusOK, map[string]any{"rotated": true})
	}
}
