// Package openai implements the completion boundary over the OpenAI
// chat completions API.
package openai

import (
	"context"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/values"
	sdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	DefaultModel    = "gpt-4o"
	TokenEnvVarName = "OPENAI_API_KEY"
)

var (
	ErrMissingToken  = errors.New("openai: missing API key, set it in the OPENAI_API_KEY environment variable")
	ErrEmptyResponse = errors.New("openai: no choices in completion response")
)

// Option configures the client.
type Option func(*options)

type options struct {
	apiKey string
	model  string
}

// WithAPIKey overrides the OPENAI_API_KEY environment variable.
func WithAPIKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.apiKey = key
		}
	}
}

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(o *options) {
		if model != "" {
			o.model = model
		}
	}
}

// Client is an OpenAI-backed completer.
type Client struct {
	client sdk.Client
	model  string
}

// New creates an OpenAI client.
func New(opts ...Option) (*Client, error) {
	o := options{
		apiKey: os.Getenv(TokenEnvVarName),
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.apiKey == "" {
		return nil, ErrMissingToken
	}

	return &Client{
		client: sdk.NewClient(option.WithAPIKey(o.apiKey)),
		model:  values.StringsCoalesce(o.model, DefaultModel),
	}, nil
}

// Name implements the Completer interface.
func (c *Client) Name() string {
	return "openai/" + c.model
}

// Complete implements the Completer interface.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, sdk.ChatCompletionNewParams{
		Model: sdk.ChatModel(c.model),
		Messages: []sdk.ChatCompletionMessageParamUnion{
			sdk.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "openai: failed to create completion")
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
