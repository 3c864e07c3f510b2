package usecase_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emarketbank/jimmy-agent/internal/domain"
	"github.com/emarketbank/jimmy-agent/internal/usecase"
)

func TestComposePrompt_BlockOrder(t *testing.T) {
	t.Parallel()
	cfg := domain.DefaultRuntimeConfig()
	cfg.Prompts[domain.LocaleEnglish] = domain.PromptBlocks{
		Style: "STYLE-BLOCK",
		Tone:  "TONE-BLOCK",
		Facts: "FACTS-BLOCK",
	}

	out, err := usecase.ComposePrompt(cfg, domain.LocaleEnglish, domain.IntentNone, "")
	require.NoError(t, err)

	iStyle := strings.Index(out, "STYLE-BLOCK")
	iTone := strings.Index(out, "TONE-BLOCK")
	iFacts := strings.Index(out, "FACTS-BLOCK")
	iRules := strings.Index(out, "Reply rules:")
	require.True(t, iStyle >= 0 && iTone >= 0 && iFacts >= 0 && iRules >= 0, "all blocks present")
	assert.Less(t, iStyle, iTone)
	assert.Less(t, iTone, iFacts)
	assert.Less(t, iFacts, iRules)
}

func TestComposePrompt_KnowledgeOnlyForExpert(t *testing.T) {
	t.Parallel()
	cfg := domain.DefaultRuntimeConfig()
	kb := "KNOWLEDGE-BLOB"

	withKB, err := usecase.ComposePrompt(cfg, domain.LocaleArabic, domain.IntentExpert, kb)
	require.NoError(t, err)
	assert.Contains(t, withKB, kb)
	// The knowledge block comes after everything else.
	assert.Greater(t, strings.Index(withKB, kb), strings.Index(withKB, "قواعد الرد:"))

	withoutKB, err := usecase.ComposePrompt(cfg, domain.LocaleArabic, domain.IntentNone, kb)
	require.NoError(t, err)
	assert.NotContains(t, withoutKB, kb)
}

func TestComposePrompt_BudgetsCutBlocks(t *testing.T) {
	t.Parallel()
	cfg := domain.DefaultRuntimeConfig()
	cfg.Budgets.Knowledge = 5
	out, err := usecase.ComposePrompt(cfg, domain.LocaleArabic, domain.IntentExpert, "0123456789")
	require.NoError(t, err)
	assert.Contains(t, out, "01234")
	assert.NotContains(t, out, "012345")
}

func TestComposePrompt_MissingStyle(t *testing.T) {
	t.Parallel()
	cfg := domain.DefaultRuntimeConfig()
	cfg.Prompts = map[domain.Locale]domain.PromptBlocks{
		domain.LocaleArabic: {Style: "   "},
	}
	cfg.DefaultLocale = domain.LocaleArabic
	_, err := usecase.ComposePrompt(cfg, domain.LocaleArabic, domain.IntentNone, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingPromptRules)
}

func TestComposePrompt_LocaleFallsBackToDefault(t *testing.T) {
	t.Parallel()
	cfg := domain.DefaultRuntimeConfig()
	delete(cfg.Prompts, domain.LocaleEnglish)
	out, err := usecase.ComposePrompt(cfg, domain.LocaleEnglish, domain.IntentNone, "")
	require.NoError(t, err)
	// Default-locale (Arabic) blocks serve the request.
	assert.Contains(t, out, "جيمي")
}
