package llm

import (
	"context"
	"errors"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Sentinel errors for the two ways generation degrades. Callers are
// expected to catch both and fall back to deterministic output; neither
// may surface as a session-level failure.
var (
	// ErrProviderUnavailable means no provider is configured at all.
	ErrProviderUnavailable = errors.New("llm provider not configured")

	// ErrGenerationFailed wraps transport, quota and decode failures of a
	// configured provider.
	ErrGenerationFailed = errors.New("llm generation failed")
)

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Complete sends a system instruction plus a single user prompt
	// (convenience method for the dialogue participants)
	Complete(ctx context.Context, systemPrompt, userPrompt string, options ...Option) (string, error)
}

// Disabled returns a provider that always reports ErrProviderUnavailable.
// Wiring it instead of a nil interface keeps callers branch-free.
func Disabled() LLMProvider {
	return disabledProvider{}
}

type disabledProvider struct{}

func (disabledProvider) Chat(context.Context, []Message, ...Option) (string, error) {
	return "", ErrProviderUnavailable
}

func (disabledProvider) Complete(context.Context, string, string, ...Option) (string, error) {
	return "", ErrProviderUnavailable
}
