package llm

import (
	"context"

	"github.com/chenhw7/MoonLight/internal/models"
)

// Chat roles on the provider wire format.
const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// Message is one entry of the conversation sent to a provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options are the per-call generation parameters, taken from the session's
// frozen model snapshot.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// OptionsFrom derives call options from a model config snapshot.
func OptionsFrom(cfg models.ModelConfig) Options {
	return Options{
		Model:       cfg.ChatModel,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}
}

// defines the interface for LLM providers
type Provider interface {
	// ChatComplete runs a full, non-streaming completion.
	ChatComplete(ctx context.Context, messages []Message, opts Options) (string, error)
	// ChatStream runs a streaming completion, invoking onChunk for every
	// text fragment as it arrives, and returns the concatenated full text.
	// An error from onChunk stops forwarding but not the read: the buffered
	// text accumulated so far is still returned.
	ChatStream(ctx context.Context, messages []Message, opts Options, onChunk func(chunk string) error) (string, error)
	GetProviderName() string
}

// represents an error from an LLM provider
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + " error: " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
// For current and future use across different providers
const (
	ErrCodeAPIKey       = "invalid_api_key"
	ErrCodeRateLimit    = "rate_limit_exceeded"
	ErrCodeServiceDown  = "service_unavailable"
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeTimeout      = "timeout"
)
