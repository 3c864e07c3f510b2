package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/emarketbank/jimmy-agent/internal/adapter/observability"
	"github.com/emarketbank/jimmy-agent/internal/config"
	"github.com/emarketbank/jimmy-agent/internal/domain"
	"github.com/emarketbank/jimmy-agent/internal/usecase"
)

// ServiceVersion is reported by /health.
const ServiceVersion = "2.2.0"

// Server aggregates handler dependencies.
type Server struct {
	Cfg        config.Config
	Chat       *usecase.ChatService
	Store      domain.ConfigStore
	StoreCheck func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers wired.
func NewServer(cfg config.Config, chat *usecase.ChatService, store domain.ConfigStore, storeCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Chat: chat, Store: store, StoreCheck: storeCheck}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

type chatBody struct {
	Messages    []usecase.IncomingMessage `json:"messages" validate:"required,min=1"`
	Language    string                    `json:"language" validate:"omitempty,oneof=ar en"`
	Temperature *float64                  `json:"temperature" validate:"omitempty,min=0,max=2"`
}

type chatMeta struct {
	Intent   string `json:"intent,omitempty"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	Error    string `json:"error,omitempty"`
}

type chatEnvelope struct {
	Response  string   `json:"response"`
	RequestID string   `json:"request_id"`
	Meta      chatMeta `json:"meta"`
}

// ChatHandler runs the pipeline. The contract to the widget: every outcome,
// including failures, is a well-formed JSON body with a displayable
// `response` string, so the UI never special-cases error rendering.
func (s *Server) ChatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		reqID := observability.RequestIDFromContext(ctx)
		lg := observability.LoggerFromContext(ctx)

		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		var body chatBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.writeChatError(ctx, w, reqID, "", domain.ErrInvalidInput)
			return
		}
		if err := getValidator().Struct(body); err != nil {
			s.writeChatError(ctx, w, reqID, body.Language, domain.ErrInvalidInput)
			return
		}

		out, err := s.Chat.Chat(ctx, usecase.ChatRequest{
			Messages:       body.Messages,
			Language:       body.Language,
			AcceptLanguage: r.Header.Get("Accept-Language"),
			Temperature:    body.Temperature,
		})
		if err != nil {
			lg.Error("chat pipeline failed", slog.Any("error", err))
			s.writeChatError(ctx, w, reqID, body.Language, err)
			return
		}

		writeJSON(w, http.StatusOK, chatEnvelope{
			Response:  out.Response,
			RequestID: reqID,
			Meta: chatMeta{
				Intent:   string(out.Intent),
				Provider: out.Provider,
				Model:    out.Model,
			},
		})
	}
}

// writeChatError keeps the chat body shape on failure paths: the fallback
// string is always displayable, raw provider errors never leave the server.
func (s *Server) writeChatError(ctx context.Context, w http.ResponseWriter, reqID, language string, err error) {
	status, code := statusFor(err)
	writeJSON(w, status, chatEnvelope{
		Response:  s.Chat.Fallback(ctx, language),
		RequestID: reqID,
		Meta:      chatMeta{Error: code},
	})
}

// HealthHandler reports credential presence and config availability.
// No side effects beyond a cached config read.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		configOK := false
		configSource := "builtin"
		kbAvailable := false
		if _, err := s.Store.Active(ctx); err == nil {
			configOK = true
			if s.Cfg.StoreEnabled() {
				configSource = "store"
			}
		}
		if kb, err := s.Store.Knowledge(ctx); err == nil && kb != "" {
			kbAvailable = true
		}
		storeOK := true
		if s.StoreCheck != nil {
			storeOK = s.StoreCheck(ctx) == nil
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":        configOK,
			"version":   ServiceVersion,
			"providers": s.Chat.ProviderFlags(),
			"config":    map[string]any{"available": configOK, "source": configSource, "store_ok": storeOK},
			"knowledge": map[string]any{"available": kbAvailable},
			"admin":     s.Cfg.AdminEnabled(),
		})
	}
}
