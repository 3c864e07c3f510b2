package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emarketbank/jimmy-agent/internal/domain"
)

type scriptedProvider struct {
	name      string
	available bool
	replies   map[string]string
	errs      map[string]error
	calls     int
}

func (p *scriptedProvider) Name() string    { return p.name }
func (p *scriptedProvider) Available() bool { return p.available }

func (p *scriptedProvider) Chat(_ context.Context, model, _ string, _ []domain.ChatMessage, _ float64, _ int) (string, error) {
	p.calls++
	if err, ok := p.errs[model]; ok {
		return "", err
	}
	return p.replies[model], nil
}

func waterfallConfig(cands ...domain.ProviderCandidate) domain.RuntimeConfig {
	cfg := domain.DefaultRuntimeConfig()
	cfg.Providers = cands
	return cfg
}

func TestRouteWaterfall_FirstFailureAdvances(t *testing.T) {
	t.Parallel()
	openai := &scriptedProvider{
		name: "openai", available: true,
		errs:    map[string]error{"m1": errors.New("upstream 500")},
		replies: map[string]string{},
	}
	gemini := &scriptedProvider{
		name: "gemini", available: true,
		replies: map[string]string{"m2": "hello from second"},
	}
	cfg := waterfallConfig(
		domain.ProviderCandidate{Provider: "openai", Model: "m1"},
		domain.ProviderCandidate{Provider: "gemini", Model: "m2"},
	)
	providers := map[string]domain.ChatProvider{"openai": openai, "gemini": gemini}

	res, err := routeWaterfall(context.Background(), cfg, providers, "sys", nil, 0.5)
	require.NoError(t, err)
	assert.Equal(t, "hello from second", res.Text)
	assert.Equal(t, "gemini", res.Provider)
	assert.Equal(t, "m2", res.Model)
	assert.Equal(t, 1, openai.calls)
	assert.Equal(t, 1, gemini.calls)
}

func TestRouteWaterfall_EmptyTextIsFailure(t *testing.T) {
	t.Parallel()
	p := &scriptedProvider{
		name: "openai", available: true,
		replies: map[string]string{"m1": "   ", "m2": "real answer"},
	}
	cfg := waterfallConfig(
		domain.ProviderCandidate{Provider: "openai", Model: "m1"},
		domain.ProviderCandidate{Provider: "openai", Model: "m2"},
	)
	res, err := routeWaterfall(context.Background(), cfg, map[string]domain.ChatProvider{"openai": p}, "sys", nil, 0.5)
	require.NoError(t, err)
	assert.Equal(t, "real answer", res.Text)
	assert.Equal(t, 2, p.calls)
}

func TestRouteWaterfall_AllFail(t *testing.T) {
	t.Parallel()
	p := &scriptedProvider{
		name: "openai", available: true,
		errs: map[string]error{"m1": errors.New("boom"), "m2": errors.New("boom2")},
	}
	cfg := waterfallConfig(
		domain.ProviderCandidate{Provider: "openai", Model: "m1"},
		domain.ProviderCandidate{Provider: "openai", Model: "m2"},
	)
	_, err := routeWaterfall(context.Background(), cfg, map[string]domain.ChatProvider{"openai": p}, "sys", nil, 0.5)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAllProvidersFailed)
	assert.Contains(t, err.Error(), "boom2")
}

func TestRouteWaterfall_FiltersCandidatesWithoutCredentials(t *testing.T) {
	t.Parallel()
	dark := &scriptedProvider{name: "gemini", available: false}
	lit := &scriptedProvider{name: "openai", available: true, replies: map[string]string{"m2": "ok"}}
	cfg := waterfallConfig(
		domain.ProviderCandidate{Provider: "gemini", Model: "m1"},
		domain.ProviderCandidate{Provider: "openai", Model: "m2"},
	)
	providers := map[string]domain.ChatProvider{"gemini": dark, "openai": lit}

	res, err := routeWaterfall(context.Background(), cfg, providers, "sys", nil, 0.5)
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Text)
	assert.Equal(t, 0, dark.calls, "unavailable provider must never be called")
}

func TestRouteWaterfall_NoUsableCandidates(t *testing.T) {
	t.Parallel()
	dark := &scriptedProvider{name: "openai", available: false}
	cfg := waterfallConfig(domain.ProviderCandidate{Provider: "openai", Model: "m1"})
	_, err := routeWaterfall(context.Background(), cfg, map[string]domain.ChatProvider{"openai": dark}, "sys", nil, 0.5)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestCallCandidate_RetriesPerPolicy(t *testing.T) {
	t.Parallel()
	p := &scriptedProvider{
		name: "openai", available: true,
		errs: map[string]error{"m1": errors.New("always fails")},
	}
	pol := domain.DefaultRuntimeConfig().Policy
	pol.RetryMaxAttempts = 2
	pol.RetryBackoffMS = 1

	_, err := callCandidate(context.Background(), candidate{provider: p, model: "m1"}, pol, "sys", nil, 0.5)
	require.Error(t, err)
	// Initial attempt plus two retries.
	assert.Equal(t, 3, p.calls)
}

func TestCallCandidate_NoRetriesByDefault(t *testing.T) {
	t.Parallel()
	p := &scriptedProvider{
		name: "openai", available: true,
		errs: map[string]error{"m1": errors.New("fails")},
	}
	pol := domain.DefaultRuntimeConfig().Policy
	require.Equal(t, 0, pol.RetryMaxAttempts)

	_, err := callCandidate(context.Background(), candidate{provider: p, model: "m1"}, pol, "sys", nil, 0.5)
	require.Error(t, err)
	assert.Equal(t, 1, p.calls)
}
