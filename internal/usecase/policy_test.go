package usecase_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emarketbank/jimmy-agent/internal/domain"
	"github.com/emarketbank/jimmy-agent/internal/usecase"
)

func TestEnforcePolicy_StripsEmoji(t *testing.T) {
	t.Parallel()
	cfg := domain.DefaultRuntimeConfig()
	out := usecase.EnforcePolicy("تمام 🔥🚀 ننفذ الخطة ✅ دلوقتي", cfg, false)
	assert.Equal(t, "تمام  ننفذ الخطة  دلوقتي", out)
}

func TestEnforcePolicy_KeepsArabicAndPunctuation(t *testing.T) {
	t.Parallel()
	cfg := domain.DefaultRuntimeConfig()
	in := "السعر 500 جنيه، والنتيجة +20%."
	assert.Equal(t, in, usecase.EnforcePolicy(in, cfg, false))
}

func TestEnforcePolicy_DropsAIMentionLines(t *testing.T) {
	t.Parallel()
	cfg := domain.DefaultRuntimeConfig()
	in := "Here is the plan.\nAs an AI language model I cannot promise results.\nStart with retention."
	out := usecase.EnforcePolicy(in, cfg, false)
	assert.Equal(t, "Here is the plan.\nStart with retention.", out)
}

func TestEnforcePolicy_WordBoundaryOnAI(t *testing.T) {
	t.Parallel()
	cfg := domain.DefaultRuntimeConfig()
	// "email" must survive the \bAI\b vocabulary entry.
	in := "Send me your email and I will check again."
	assert.Equal(t, in, usecase.EnforcePolicy(in, cfg, false))
}

func TestEnforcePolicy_CapsLines(t *testing.T) {
	t.Parallel()
	cfg := domain.DefaultRuntimeConfig()
	cfg.Policy.MaxLines = 2
	in := "one\n\ntwo\nthree\nfour"
	out := usecase.EnforcePolicy(in, cfg, false)
	assert.Equal(t, "one\ntwo", out)
}

func TestEnforcePolicy_TemplatesKeepFullBody(t *testing.T) {
	t.Parallel()
	cfg := domain.DefaultRuntimeConfig()
	cfg.Policy.MaxLines = 1
	in := "line1\nline2\nline3"
	out := usecase.EnforcePolicy(in, cfg, true)
	assert.Equal(t, 3, len(strings.Split(out, "\n")))
}

func TestEnforcePolicy_NothingSurvives(t *testing.T) {
	t.Parallel()
	cfg := domain.DefaultRuntimeConfig()
	assert.Equal(t, "", usecase.EnforcePolicy("🔥", cfg, false))
	assert.Equal(t, "", usecase.EnforcePolicy("I am an AI", cfg, false))
	assert.Equal(t, "", usecase.EnforcePolicy("   \n  ", cfg, false))
}

func TestEnforcePolicy_Deterministic(t *testing.T) {
	t.Parallel()
	cfg := domain.DefaultRuntimeConfig()
	in := "خطة عملية 🔥\nركز على الاحتفاظ بالعملاء\nوبعدين وسّع"
	first := usecase.EnforcePolicy(in, cfg, false)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, usecase.EnforcePolicy(in, cfg, false))
	}
}
