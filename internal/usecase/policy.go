package usecase

import (
	"strings"

	"github.com/emarketbank/jimmy-agent/internal/domain"
)

// EnforcePolicy applies the post-processing pass to model-produced or
// template text: emoji stripping, dropping lines that mention AI vocabulary,
// and collapsing to at most MaxLines non-empty lines. Fixed templates go
// through the same stripping but keep their full multi-line body
// (template == true skips the line cap). Returns empty when nothing
// displayable survives; the caller substitutes the locale fallback.
func EnforcePolicy(text string, cfg domain.RuntimeConfig, template bool) string {
	if cfg.Policy.StripEmoji {
		text = stripEmoji(text)
	}

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, ln := range lines {
		ln = strings.TrimRight(ln, " \t")
		if strings.TrimSpace(ln) == "" {
			continue
		}
		if cfg.Policy.StripAIMentions && mentionsAI(ln, cfg.AIVocabulary) {
			continue
		}
		kept = append(kept, ln)
		if !template && len(kept) == cfg.Policy.MaxLines {
			break
		}
	}
	out := strings.TrimSpace(strings.Join(kept, "\n"))
	if len([]rune(out)) < 2 {
		return ""
	}
	return out
}

// mentionsAI reuses the classifier's matching rules so admins curate one
// pattern syntax: each vocabulary entry is a case-insensitive regexp with a
// substring fallback. Short tokens like "AI" must be word-bounded in the
// vocabulary or they would eat words like "email".
func mentionsAI(line string, vocab []string) bool {
	return matchAny(vocab, line)
}

// stripEmoji removes emoji codepoints plus the joiners and variation
// selectors that glue them together. Arabic text and ordinary punctuation
// pass through untouched.
func stripEmoji(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isEmojiRune(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF: // emoticons, pictographs, transport, supplemental
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols and dingbats
		return true
	case r == 0x2B50 || r == 0x2B55: // star, heavy circle
		return true
	case r == 0xFE0F || r == 0xFE0E: // variation selectors
		return true
	case r == 0x200D: // zero-width joiner
		return true
	}
	return false
}
