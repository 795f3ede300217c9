// Package googleai implements the completion boundary over the Gemini API.
package googleai

import (
	"context"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/values"
	"google.golang.org/genai"
)

const (
	DefaultModel    = "gemini-2.0-flash"
	TokenEnvVarName = "GEMINI_API_KEY"
)

var (
	ErrMissingToken  = errors.New("googleai: missing API key, set it in the GEMINI_API_KEY environment variable")
	ErrEmptyResponse = errors.New("googleai: no candidates in generation response")
)

// Option configures the client.
type Option func(*options)

type options struct {
	apiKey string
	model  string
}

// WithAPIKey overrides the GEMINI_API_KEY environment variable.
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

// Client is a Gemini-backed completer.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a Gemini client.
func New(ctx context.Context, opts ...Option) (*Client, error) {
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

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  o.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "googleai: failed to create client")
	}
	return &Client{
		client: client,
		model:  values.StringsCoalesce(o.model, DefaultModel),
	}, nil
}

// Name implements the Completer interface.
func (c *Client) Name() string {
	return "googleai/" + c.model
}

// Complete implements the Completer interface.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", errors.Wrap(err, "googleai: failed to generate content")
	}
	if len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(resp.Text()), nil
}
