// Package domain holds the core entities and ports of the assistant service.
package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrEmptyMessages        = errors.New("empty messages")
	ErrMissingConfiguration = errors.New("missing configuration")
	ErrMissingPromptRules   = errors.New("missing prompt rules")
	ErrProviderUnavailable  = errors.New("provider unavailable")
	ErrProviderError        = errors.New("provider error")
	ErrAllProvidersFailed   = errors.New("all providers failed")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbiddenOrigin      = errors.New("origin not allowed")
	ErrNotFound             = errors.New("not found")
	ErrInternal             = errors.New("internal error")
)

// Locale is a two-letter reply-language tag.
type Locale string

// Supported locales.
const (
	LocaleArabic  Locale = "ar"
	LocaleEnglish Locale = "en"
)

// Role identifies the author of a chat message.
type Role string

// Recognized message roles. "model" is accepted on input as an alias of
// assistant (Gemini-style histories) and normalized away.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn of client-supplied conversation history.
// After normalization Content is non-empty and bounded by the active
// policy's MaxMessageChars; histories are bounded by MaxHistory.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Intent is the pre-model classification of the last user message.
type Intent string

// Intent values. Contact and Identity short-circuit to fixed templates;
// Expert keeps the model call but unlocks the knowledge block.
const (
	IntentNone     Intent = "none"
	IntentContact  Intent = "contact"
	IntentIdentity Intent = "identity"
	IntentExpert   Intent = "expert"
)

// ProviderCandidate is one entry of the ordered waterfall list.
type ProviderCandidate struct {
	Provider string `json:"provider" yaml:"provider" validate:"required,oneof=openai gemini"`
	Model    string `json:"model" yaml:"model" validate:"required"`
}

// ProviderResult carries the first successful waterfall outcome.
// Transient: produced once per request, never stored.
type ProviderResult struct {
	Text     string
	Provider string
	Model    string
}

// PromptBlocks are the locale-specific text blocks the composer concatenates.
type PromptBlocks struct {
	Style string `json:"style" yaml:"style"`
	Tone  string `json:"tone" yaml:"tone"`
	Facts string `json:"facts" yaml:"facts"`
}

// Templates are the locale-specific fixed responses.
type Templates struct {
	Contact  string `json:"contact" yaml:"contact" validate:"required"`
	Identity string `json:"identity" yaml:"identity" validate:"required"`
	Fallback string `json:"fallback" yaml:"fallback" validate:"required"`
}

// Policy holds the numeric knobs and post-processing flags.
type Policy struct {
	MaxLines         int     `json:"max_lines" yaml:"max_lines" validate:"min=1,max=20"`
	MaxQuestions     int     `json:"max_questions" yaml:"max_questions" validate:"min=0,max=5"`
	MaxHistory       int     `json:"max_history" yaml:"max_history" validate:"min=1,max=64"`
	MaxMessageChars  int     `json:"max_message_chars" yaml:"max_message_chars" validate:"min=100,max=8000"`
	TotalBudgetMS    int     `json:"total_budget_ms" yaml:"total_budget_ms" validate:"min=1000,max=120000"`
	AttemptFloorMS   int     `json:"attempt_floor_ms" yaml:"attempt_floor_ms" validate:"min=100,max=60000"`
	RetryMaxAttempts int     `json:"retry_max_attempts" yaml:"retry_max_attempts" validate:"min=0,max=3"`
	RetryBackoffMS   int     `json:"retry_backoff_ms" yaml:"retry_backoff_ms" validate:"min=0,max=10000"`
	Temperature      float64 `json:"temperature" yaml:"temperature" validate:"min=0,max=2"`
	MaxTokens        int     `json:"max_tokens" yaml:"max_tokens" validate:"min=1,max=4096"`
	StripEmoji       bool    `json:"strip_emoji" yaml:"strip_emoji"`
	StripAIMentions  bool    `json:"strip_ai_mentions" yaml:"strip_ai_mentions"`
}

// Budgets caps each prompt block in characters before concatenation.
type Budgets struct {
	Style     int `json:"style" yaml:"style" validate:"min=200,max=20000"`
	Tone      int `json:"tone" yaml:"tone" validate:"min=0,max=4000"`
	Facts     int `json:"facts" yaml:"facts" validate:"min=200,max=20000"`
	Knowledge int `json:"knowledge" yaml:"knowledge" validate:"min=0,max=60000"`
}

// IntentKeywords are ordered pattern lists for the classifier. Each entry is
// tried as a case-insensitive regular expression and falls back to substring
// containment when it does not compile.
type IntentKeywords struct {
	Contact  []string `json:"contact" yaml:"contact" validate:"min=1"`
	Identity []string `json:"identity" yaml:"identity" validate:"min=1"`
	Expert   []string `json:"expert" yaml:"expert"`
}

// RuntimeConfig is the single structured record the router consumes.
// Mutated only by the admin write path; read-only for the chat path.
type RuntimeConfig struct {
	Version       string                  `json:"version" yaml:"version"`
	UpdatedAt     time.Time               `json:"updated_at" yaml:"updated_at"`
	DefaultLocale Locale                  `json:"default_locale" yaml:"default_locale" validate:"required,oneof=ar en"`
	Prompts       map[Locale]PromptBlocks `json:"prompts" yaml:"prompts" validate:"required"`
	Templates     map[Locale]Templates    `json:"templates" yaml:"templates" validate:"required,dive"`
	Policy        Policy                  `json:"policy" yaml:"policy"`
	Budgets       Budgets                 `json:"budgets" yaml:"budgets"`
	Providers     []ProviderCandidate     `json:"providers" yaml:"providers" validate:"min=1,dive"`
	Intents       IntentKeywords          `json:"intents" yaml:"intents"`
	AIVocabulary  []string                `json:"ai_vocabulary" yaml:"ai_vocabulary"`
}

// PromptsFor returns the prompt blocks for loc, falling back to the default
// locale's blocks when loc has none.
func (c RuntimeConfig) PromptsFor(loc Locale) PromptBlocks {
	if b, ok := c.Prompts[loc]; ok {
		return b
	}
	return c.Prompts[c.DefaultLocale]
}

// TemplatesFor returns the templates for loc, falling back to the default
// locale's templates when loc has none.
func (c RuntimeConfig) TemplatesFor(loc Locale) Templates {
	if t, ok := c.Templates[loc]; ok {
		return t
	}
	return c.Templates[c.DefaultLocale]
}

// ConfigVersion is a history entry: the archived record plus bookkeeping.
type ConfigVersion struct {
	Version    string        `json:"version"`
	ArchivedAt time.Time     `json:"archived_at"`
	Config     RuntimeConfig `json:"config"`
}

// ConfigStore is the port to the external key-value configuration storage.
// Active returns the currently live record; Publish validates the draft,
// archives the current active into bounded history, and promotes the draft.
type ConfigStore interface {
	Active(ctx context.Context) (RuntimeConfig, error)
	Draft(ctx context.Context) (RuntimeConfig, error)
	SaveDraft(ctx context.Context, cfg RuntimeConfig) error
	Publish(ctx context.Context) (RuntimeConfig, error)
	Rollback(ctx context.Context) (RuntimeConfig, error)
	History(ctx context.Context) ([]ConfigVersion, error)
	Knowledge(ctx context.Context) (string, error)
	AdminTokenHash(ctx context.Context) (string, error)
	SetAdminTokenHash(ctx context.Context, hash string) error
}

// ChatProvider is the port to one external chat-completion API.
// Chat must honor ctx cancellation; an empty reply is a failure, never an
// empty success.
type ChatProvider interface {
	Name() string
	Available() bool
	Chat(ctx context.Context, model, systemPrompt string, messages []ChatMessage, temperature float64, maxTokens int) (string, error)
}
