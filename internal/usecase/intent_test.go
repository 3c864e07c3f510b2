package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emarketbank/jimmy-agent/internal/domain"
	"github.com/emarketbank/jimmy-agent/internal/usecase"
)

func TestClassifyIntent(t *testing.T) {
	t.Parallel()
	kw := domain.DefaultRuntimeConfig().Intents

	tests := []struct {
		name string
		text string
		want domain.Intent
	}{
		{"arabic contact", "عايز اتواصل مع محمد", domain.IntentContact},
		{"english contact", "How do I get in touch with Mohamed?", domain.IntentContact},
		{"whatsapp", "ابعتلي رقم الواتساب", domain.IntentContact},
		{"arabic identity", "انت مين اصلا؟", domain.IntentIdentity},
		{"english identity", "Who are you exactly?", domain.IntentIdentity},
		{"expert acronym", "my ROAS dropped to 1.2, what now", domain.IntentExpert},
		{"expert arabic", "عندي خسارة في الحملات واحتاج قرار", domain.IntentExpert},
		{"plain chat", "hello there", domain.IntentNone},
		{"empty", "   ", domain.IntentNone},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, usecase.ClassifyIntent(kw, tc.text))
		})
	}
}

func TestClassifyIntent_ContactWinsOverIdentity(t *testing.T) {
	t.Parallel()
	kw := domain.IntentKeywords{
		Contact:  []string{"reach"},
		Identity: []string{"who"},
	}
	// Both lists match; contact is checked first.
	assert.Equal(t, domain.IntentContact, usecase.ClassifyIntent(kw, "who do I reach?"))
}

func TestClassifyIntent_WordBoundaryPatterns(t *testing.T) {
	t.Parallel()
	kw := domain.IntentKeywords{Expert: []string{`\bCAC\b`}}
	assert.Equal(t, domain.IntentExpert, usecase.ClassifyIntent(kw, "my CAC is too high"))
	// Substring inside another word must not trigger the regex.
	assert.Equal(t, domain.IntentNone, usecase.ClassifyIntent(kw, "cache invalidation is hard"))
}

func TestClassifyIntent_BrokenPatternFallsBackToSubstring(t *testing.T) {
	t.Parallel()
	kw := domain.IntentKeywords{Contact: []string{"(unclosed"}}
	assert.Equal(t, domain.IntentContact, usecase.ClassifyIntent(kw, "this contains (unclosed somewhere"))
}
