package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emarketbank/jimmy-agent/internal/domain"
)

func TestDefaultRuntimeConfig_IsValid(t *testing.T) {
	t.Parallel()
	require.NoError(t, domain.DefaultRuntimeConfig().Validate())
}

func TestValidate_Rejections(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*domain.RuntimeConfig)
	}{
		{"no providers", func(c *domain.RuntimeConfig) { c.Providers = nil }},
		{"unknown provider", func(c *domain.RuntimeConfig) {
			c.Providers = []domain.ProviderCandidate{{Provider: "anthropic", Model: "x"}}
		}},
		{"bad default locale", func(c *domain.RuntimeConfig) { c.DefaultLocale = "fr" }},
		{"empty style for default locale", func(c *domain.RuntimeConfig) {
			p := c.Prompts[c.DefaultLocale]
			p.Style = "  "
			c.Prompts[c.DefaultLocale] = p
		}},
		{"missing templates for default locale", func(c *domain.RuntimeConfig) {
			delete(c.Templates, c.DefaultLocale)
		}},
		{"empty fallback template", func(c *domain.RuntimeConfig) {
			tpl := c.Templates[domain.LocaleEnglish]
			tpl.Fallback = ""
			c.Templates[domain.LocaleEnglish] = tpl
		}},
		{"attempt floor above total budget", func(c *domain.RuntimeConfig) {
			c.Policy.AttemptFloorMS = 30000
			c.Policy.TotalBudgetMS = 20000
		}},
		{"zero max lines", func(c *domain.RuntimeConfig) { c.Policy.MaxLines = 0 }},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := domain.DefaultRuntimeConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPromptsFor_Fallback(t *testing.T) {
	t.Parallel()
	cfg := domain.DefaultRuntimeConfig()
	delete(cfg.Prompts, domain.LocaleEnglish)
	assert.Equal(t, cfg.Prompts[domain.LocaleArabic], cfg.PromptsFor(domain.LocaleEnglish))
}

func TestTemplatesFor_Fallback(t *testing.T) {
	t.Parallel()
	cfg := domain.DefaultRuntimeConfig()
	delete(cfg.Templates, domain.LocaleEnglish)
	assert.Equal(t, cfg.Templates[domain.LocaleArabic], cfg.TemplatesFor(domain.LocaleEnglish))
}
