package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/emarketbank/jimmy-agent/internal/adapter/observability"
	"github.com/emarketbank/jimmy-agent/internal/domain"
)

// ChatRequest is the normalized-by-handler view of a POST /chat body.
type ChatRequest struct {
	Messages       []IncomingMessage
	Language       string
	AcceptLanguage string
	Temperature    *float64
}

// ChatOutput is the final, policy-enforced reply.
type ChatOutput struct {
	Response string
	Locale   domain.Locale
	Intent   domain.Intent
	Provider string
	Model    string
}

// ChatService runs a request through the four stages: normalize, classify,
// compose, route. Stateless per request; the only shared state is the config
// store's read-through cache.
type ChatService struct {
	Store     domain.ConfigStore
	Providers map[string]domain.ChatProvider
}

// NewChatService constructs a ChatService over a config store and the
// available provider adapters keyed by name.
func NewChatService(store domain.ConfigStore, providers []domain.ChatProvider) *ChatService {
	byName := make(map[string]domain.ChatProvider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &ChatService{Store: store, Providers: byName}
}

// Chat handles one request start to finish. Error cases: ErrEmptyMessages
// (no usable history), ErrMissingConfiguration, ErrMissingPromptRules,
// ErrProviderUnavailable, ErrAllProvidersFailed. Per-candidate provider
// errors are always recovered locally by the waterfall and never surface.
func (s *ChatService) Chat(ctx context.Context, req ChatRequest) (ChatOutput, error) {
	cfg, err := s.Store.Active(ctx)
	if err != nil {
		return ChatOutput{}, fmt.Errorf("%w: %v", domain.ErrMissingConfiguration, err)
	}

	msgs, err := NormalizeMessages(req.Messages, cfg.Policy)
	if err != nil {
		return ChatOutput{}, err
	}
	locale := ResolveLocale(req.Language, req.AcceptLanguage, msgs, cfg.DefaultLocale)
	lastUser := LastUserText(msgs)
	intent := ClassifyIntent(cfg.Intents, lastUser)

	lg := observability.LoggerFromContext(ctx)

	// Contact/identity short-circuit: deterministic, no model call. The
	// template goes through stripping but keeps its full line count.
	if intent == domain.IntentContact || intent == domain.IntentIdentity {
		tpl := cfg.TemplatesFor(locale)
		text := tpl.Contact
		if intent == domain.IntentIdentity {
			text = tpl.Identity
		}
		if enforced := EnforcePolicy(text, cfg, true); enforced != "" {
			text = enforced
		}
		observability.ObserveChat(string(intent), "template")
		lg.Info("intent short-circuit",
			slog.String("intent", string(intent)),
			slog.String("locale", string(locale)))
		return ChatOutput{Response: text, Locale: locale, Intent: intent}, nil
	}

	var knowledge string
	if intent == domain.IntentExpert {
		kb, kerr := s.Store.Knowledge(ctx)
		if kerr != nil {
			lg.Warn("knowledge block unavailable", slog.Any("error", kerr))
		} else {
			knowledge = kb
		}
	}

	systemPrompt, err := ComposePrompt(cfg, locale, intent, knowledge)
	if err != nil {
		observability.ObserveChat(string(intent), "misconfigured")
		return ChatOutput{}, err
	}

	temperature := cfg.Policy.Temperature
	if req.Temperature != nil && *req.Temperature >= 0 && *req.Temperature <= 2 {
		temperature = *req.Temperature
	}

	res, err := routeWaterfall(ctx, cfg, s.Providers, systemPrompt, msgs, temperature)
	if err != nil {
		observability.ObserveChat(string(intent), "failed")
		return ChatOutput{Locale: locale, Intent: intent}, err
	}

	text := EnforcePolicy(res.Text, cfg, false)
	if text == "" {
		// Model output did not survive the policy pass; substitute the
		// locale fallback rather than returning a blank bubble.
		text = cfg.TemplatesFor(locale).Fallback
	}
	observability.ObserveChat(string(intent), "ok")
	lg.Info("chat completed",
		slog.String("intent", string(intent)),
		slog.String("locale", string(locale)),
		slog.String("provider", res.Provider),
		slog.String("model", res.Model))
	return ChatOutput{Response: text, Locale: locale, Intent: intent, Provider: res.Provider, Model: res.Model}, nil
}

// Fallback returns the displayable fallback string for an error path. It
// tolerates a missing store by falling back to the embedded defaults, so the
// chat widget always receives something renderable.
func (s *ChatService) Fallback(ctx context.Context, language string) string {
	cfg, err := s.Store.Active(ctx)
	if err != nil {
		cfg = domain.DefaultRuntimeConfig()
	}
	loc := cfg.DefaultLocale
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "ar":
		loc = domain.LocaleArabic
	case "en":
		loc = domain.LocaleEnglish
	}
	return cfg.TemplatesFor(loc).Fallback
}

// ProviderFlags reports which providers hold credentials, for /health.
func (s *ChatService) ProviderFlags() map[string]bool {
	flags := make(map[string]bool, len(s.Providers))
	for name, p := range s.Providers {
		flags[name] = p.Available()
	}
	return flags
}
