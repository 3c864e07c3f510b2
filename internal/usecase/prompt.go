package usecase

import (
	"fmt"
	"strings"

	"github.com/emarketbank/jimmy-agent/internal/domain"
)

// ComposePrompt assembles the system instruction from the configured blocks
// in fixed order: base style, locale tone addendum, verified facts, a compact
// restatement of the behavioral policy, and the knowledge block when the
// classified intent warrants it. Each block is cut to its character budget.
// Pure: no network calls, no side effects.
func ComposePrompt(cfg domain.RuntimeConfig, loc domain.Locale, intent domain.Intent, knowledge string) (string, error) {
	blocks := cfg.PromptsFor(loc)
	if strings.TrimSpace(blocks.Style) == "" {
		return "", fmt.Errorf("%w: no style block for locale %q", domain.ErrMissingPromptRules, loc)
	}

	parts := make([]string, 0, 5)
	parts = append(parts, truncateRunes(strings.TrimSpace(blocks.Style), cfg.Budgets.Style))
	if tone := strings.TrimSpace(blocks.Tone); tone != "" {
		parts = append(parts, truncateRunes(tone, cfg.Budgets.Tone))
	}
	if facts := strings.TrimSpace(blocks.Facts); facts != "" {
		parts = append(parts, truncateRunes(facts, cfg.Budgets.Facts))
	}
	parts = append(parts, policyRules(cfg.Policy, loc))
	if intent == domain.IntentExpert {
		if kb := strings.TrimSpace(knowledge); kb != "" {
			parts = append(parts, truncateRunes(kb, cfg.Budgets.Knowledge))
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

// policyRules restates the numeric policy as instructions in the reply
// locale so the model and the post-processing pass pull the same direction.
func policyRules(pol domain.Policy, loc domain.Locale) string {
	var b strings.Builder
	if loc == domain.LocaleArabic {
		fmt.Fprintf(&b, "قواعد الرد:\n")
		fmt.Fprintf(&b, "- الرد %d سطور كحد أقصى.\n", pol.MaxLines)
		fmt.Fprintf(&b, "- سؤال متابعة واحد كحد أقصى (%d).\n", pol.MaxQuestions)
		if pol.StripAIMentions {
			b.WriteString("- ممنوع تماماً أي ذكر لكونك ذكاء اصطناعي أو نموذج أو نظام.\n")
		}
		if pol.StripEmoji {
			b.WriteString("- بدون إيموجي نهائياً.")
		}
	} else {
		fmt.Fprintf(&b, "Reply rules:\n")
		fmt.Fprintf(&b, "- At most %d lines per reply.\n", pol.MaxLines)
		fmt.Fprintf(&b, "- At most %d follow-up question(s).\n", pol.MaxQuestions)
		if pol.StripAIMentions {
			b.WriteString("- Never mention being an AI, a model, or a system.\n")
		}
		if pol.StripEmoji {
			b.WriteString("- No emoji.")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
