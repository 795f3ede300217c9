// Package llm defines the completion-service boundary: an opaque
// prompt-in, text-out function. Provider implementations live in the
// subpackages; NewFromConfig picks one by name.
package llm

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/llm/anthropic"
	"github.com/effective-security/toolchat/llm/googleai"
	"github.com/effective-security/toolchat/llm/openai"
)

// Completer is the completion service consumed by the orchestrator.
// No structured error type is guaranteed: any failure must be caught by
// the caller and treated as a per-turn, non-fatal condition. The core
// applies no retry and no timeout; impose those in the implementation.
type Completer interface {
	// Complete sends one prompt and returns the response text.
	Complete(ctx context.Context, prompt string) (string, error)
	// Name identifies the provider and model for logs and metrics.
	Name() string
}

// Config selects and configures a completion provider.
type Config struct {
	// Provider is one of: googleai, openai, anthropic.
	Provider string `json:"provider" yaml:"provider" validate:"required,oneof=googleai openai anthropic"`
	// Model overrides the provider default model.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`
	// APIKey overrides the provider's environment variable.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// NewFromConfig creates the configured provider.
func NewFromConfig(ctx context.Context, cfg *Config) (Completer, error) {
	switch cfg.Provider {
	case "googleai":
		return googleai.New(ctx,
			googleai.WithModel(cfg.Model),
			googleai.WithAPIKey(cfg.APIKey),
		)
	case "openai":
		return openai.New(
			openai.WithModel(cfg.Model),
			openai.WithAPIKey(cfg.APIKey),
		)
	case "anthropic":
		return anthropic.New(
			anthropic.WithModel(cfg.Model),
			anthropic.WithAPIKey(cfg.APIKey),
		)
	default:
		return nil, errors.Newf("unsupported completion provider: %q", cfg.Provider)
	}
}
