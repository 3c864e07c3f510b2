package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/emarketbank/jimmy-agent/internal/adapter/observability"
	"github.com/emarketbank/jimmy-agent/internal/domain"
)

type candidate struct {
	provider domain.ChatProvider
	model    string
}

// routeWaterfall walks the ordered candidate list under one shared time
// budget. Each attempt gets max(remaining/left, floor), clamped to the
// overall deadline which is computed once and never extended. The first
// candidate yielding non-empty text wins; failures (non-2xx, timeout, empty
// text) advance the waterfall without retrying unless the retry policy says
// otherwise.
func routeWaterfall(ctx context.Context, cfg domain.RuntimeConfig, providers map[string]domain.ChatProvider, systemPrompt string, msgs []domain.ChatMessage, temperature float64) (domain.ProviderResult, error) {
	cands := make([]candidate, 0, len(cfg.Providers))
	for _, pc := range cfg.Providers {
		p, ok := providers[pc.Provider]
		if !ok || !p.Available() {
			continue
		}
		cands = append(cands, candidate{provider: p, model: pc.Model})
	}
	if len(cands) == 0 {
		return domain.ProviderResult{}, fmt.Errorf("%w: no candidate has credentials configured", domain.ErrProviderUnavailable)
	}

	total := time.Duration(cfg.Policy.TotalBudgetMS) * time.Millisecond
	floor := time.Duration(cfg.Policy.AttemptFloorMS) * time.Millisecond
	deadline := time.Now().Add(total)

	lg := observability.LoggerFromContext(ctx)
	var lastErr error
	for i, c := range cands {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		slice := remaining / time.Duration(len(cands)-i)
		if slice < floor {
			slice = floor
		}
		if slice > remaining {
			slice = remaining
		}

		attemptCtx, cancel := context.WithTimeout(ctx, slice)
		start := time.Now()
		text, err := callCandidate(attemptCtx, c, cfg.Policy, systemPrompt, msgs, temperature)
		cancel()
		elapsed := time.Since(start)

		switch {
		case err != nil:
			observability.ObserveProviderAttempt(c.provider.Name(), c.model, "error", elapsed)
			lg.Warn("provider attempt failed",
				slog.String("provider", c.provider.Name()),
				slog.String("model", c.model),
				slog.Duration("elapsed", elapsed),
				slog.Any("error", err))
			lastErr = err
		case strings.TrimSpace(text) == "":
			observability.ObserveProviderAttempt(c.provider.Name(), c.model, "empty", elapsed)
			lg.Warn("provider returned empty text",
				slog.String("provider", c.provider.Name()),
				slog.String("model", c.model))
			lastErr = fmt.Errorf("%w: empty text from %s/%s", domain.ErrProviderError, c.provider.Name(), c.model)
		default:
			observability.ObserveProviderAttempt(c.provider.Name(), c.model, "ok", elapsed)
			return domain.ProviderResult{Text: text, Provider: c.provider.Name(), Model: c.model}, nil
		}
	}
	if lastErr != nil {
		return domain.ProviderResult{}, fmt.Errorf("%w: %v", domain.ErrAllProvidersFailed, lastErr)
	}
	return domain.ProviderResult{}, domain.ErrAllProvidersFailed
}

// callCandidate performs one waterfall step. Retries within a step are a
// configuration-level policy (RetryMaxAttempts, default 0) and always stay
// inside the step's context deadline.
func callCandidate(ctx context.Context, c candidate, pol domain.Policy, systemPrompt string, msgs []domain.ChatMessage, temperature float64) (string, error) {
	op := func() (string, error) {
		return c.provider.Chat(ctx, c.model, systemPrompt, msgs, temperature, pol.MaxTokens)
	}
	if pol.RetryMaxAttempts <= 0 {
		return op()
	}
	bo := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewConstantBackOff(time.Duration(pol.RetryBackoffMS)*time.Millisecond),
			uint64(pol.RetryMaxAttempts),
		),
		ctx,
	)
	return backoff.RetryWithData(op, bo)
}
