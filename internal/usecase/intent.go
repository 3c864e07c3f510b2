package usecase

import (
	"regexp"
	"strings"

	"github.com/emarketbank/jimmy-agent/internal/domain"
)

// ClassifyIntent matches the last user message against the configured
// pattern lists. Contact is checked before identity by design (order is not
// configurable); expert triggers are checked last since they do not
// short-circuit the model call. Purely a classification function.
func ClassifyIntent(kw domain.IntentKeywords, text string) domain.Intent {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.IntentNone
	}
	if matchAny(kw.Contact, text) {
		return domain.IntentContact
	}
	if matchAny(kw.Identity, text) {
		return domain.IntentIdentity
	}
	if matchAny(kw.Expert, text) {
		return domain.IntentExpert
	}
	return domain.IntentNone
}

// matchAny tries each pattern as a case-insensitive regexp, falling back to
// case-insensitive substring containment when the pattern does not compile.
func matchAny(patterns []string, text string) bool {
	lower := strings.ToLower(text)
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if re, err := regexp.Compile("(?i)" + p); err == nil {
			if re.MatchString(text) {
				return true
			}
			continue
		}
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
