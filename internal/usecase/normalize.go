// Package usecase contains the request pipeline: normalization, intent
// classification, prompt composition, provider routing and response policy.
package usecase

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/emarketbank/jimmy-agent/internal/domain"
)

// IncomingMessage is one raw history entry as supplied by the client.
type IncomingMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NormalizeMessages validates and bounds client-supplied history.
// Unrecognized roles and empty contents are dropped silently; surviving
// contents are truncated to MaxMessageChars runes and the sequence to the
// most recent MaxHistory entries in original relative order.
func NormalizeMessages(raw []IncomingMessage, pol domain.Policy) ([]domain.ChatMessage, error) {
	out := make([]domain.ChatMessage, 0, len(raw))
	for _, m := range raw {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		var role domain.Role
		switch strings.ToLower(strings.TrimSpace(m.Role)) {
		case "user":
			role = domain.RoleUser
		case "assistant", "model":
			role = domain.RoleAssistant
		default:
			continue
		}
		out = append(out, domain.ChatMessage{Role: role, Content: truncateRunes(content, pol.MaxMessageChars)})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no usable messages after normalization", domain.ErrEmptyMessages)
	}
	if len(out) > pol.MaxHistory {
		out = out[len(out)-pol.MaxHistory:]
	}
	return out, nil
}

// LastUserText returns the content of the most recent user message, or empty.
func LastUserText(msgs []domain.ChatMessage) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == domain.RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}

// ResolveLocale resolves the reply locale. Order: explicit request field,
// Accept-Language hint, Arabic-script heuristic on the last user message,
// configured default. Deterministic: the explicit field always wins.
func ResolveLocale(explicit, acceptLanguage string, msgs []domain.ChatMessage, def domain.Locale) domain.Locale {
	switch strings.ToLower(strings.TrimSpace(explicit)) {
	case "ar":
		return domain.LocaleArabic
	case "en":
		return domain.LocaleEnglish
	}
	al := strings.ToLower(acceptLanguage)
	if strings.HasPrefix(al, "ar") {
		return domain.LocaleArabic
	}
	if strings.HasPrefix(al, "en") {
		return domain.LocaleEnglish
	}
	if last := LastUserText(msgs); last != "" {
		if containsArabic(last) {
			return domain.LocaleArabic
		}
		return domain.LocaleEnglish
	}
	return def
}

func containsArabic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Arabic, r) {
			return true
		}
	}
	return false
}

// truncateRunes cuts s to at most n runes. Rune-based so Arabic text is not
// split mid-codepoint.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n])
}
