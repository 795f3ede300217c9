// Package anthropic implements the completion boundary over the Anthropic
// messages API.
package anthropic

import (
	"context"
	"os"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/values"
)

const (
	DefaultModel     = "claude-3-5-sonnet-latest"
	DefaultMaxTokens = 4096
	TokenEnvVarName  = "ANTHROPIC_API_KEY"
)

var (
	ErrMissingToken  = errors.New("anthropic: missing API key, set it in the ANTHROPIC_API_KEY environment variable")
	ErrEmptyResponse = errors.New("anthropic: no content in message response")
)

// Option configures the client.
type Option func(*options)

type options struct {
	apiKey string
	model  string
}

// WithAPIKey overrides the ANTHROPIC_API_KEY environment variable.
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

// Client is an Anthropic-backed completer.
type Client struct {
	client sdk.Client
	model  string
}

// New creates an Anthropic client.
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
	return "anthropic/" + c.model
}

// Complete implements the Completer interface.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	result, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: DefaultMaxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "anthropic: failed to create message")
	}

	var b strings.Builder
	for _, block := range result.Content {
		if content, ok := block.AsAny().(sdk.TextBlock); ok {
			b.WriteString(content.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
