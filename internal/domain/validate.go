package domain

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// Validate checks that a RuntimeConfig is fit to become active: struct tags
// plus the cross-field invariants the tags cannot express. A config that
// fails here must never be published.
func (c RuntimeConfig) Validate() error {
	if err := getValidator().Struct(c); err != nil {
		var fields []string
		if ve, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range ve {
				fields = append(fields, fmt.Sprintf("%s=%s", fe.Namespace(), fe.Tag()))
			}
		}
		return fmt.Errorf("%w: config validation failed: %s", ErrInvalidInput, strings.Join(fields, ", "))
	}

	// The default locale must carry a usable base style block and templates.
	base, ok := c.Prompts[c.DefaultLocale]
	if !ok || strings.TrimSpace(base.Style) == "" {
		return fmt.Errorf("%w: style block missing for default locale %q", ErrMissingPromptRules, c.DefaultLocale)
	}
	if _, ok := c.Templates[c.DefaultLocale]; !ok {
		return fmt.Errorf("%w: templates missing for default locale %q", ErrInvalidInput, c.DefaultLocale)
	}
	for loc, t := range c.Templates {
		if strings.TrimSpace(t.Contact) == "" || strings.TrimSpace(t.Identity) == "" || strings.TrimSpace(t.Fallback) == "" {
			return fmt.Errorf("%w: empty template for locale %q", ErrInvalidInput, loc)
		}
	}
	if c.Policy.AttemptFloorMS > c.Policy.TotalBudgetMS {
		return fmt.Errorf("%w: attempt floor %dms exceeds total budget %dms", ErrInvalidInput, c.Policy.AttemptFloorMS, c.Policy.TotalBudgetMS)
	}
	return nil
}
