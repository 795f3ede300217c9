// Package config loads the toolchat configuration file. The file lists
// the MCP servers to launch under "mcpServers" and the completion model
// to use. Values support environment variable expansion.
package config

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/llm"
	"github.com/effective-security/toolchat/mcpconn"
	"github.com/effective-security/x/configloader"
	"github.com/go-playground/validator/v10"
)

// Config is the top level configuration.
type Config struct {
	// Providers maps a provider name to the command that launches its
	// MCP server. At least one provider is required.
	Providers map[string]mcpconn.LaunchConfig `json:"mcpServers" yaml:"mcpServers" validate:"required,min=1,dive"`
	// LLM selects the completion service.
	LLM llm.Config `json:"llm" yaml:"llm"`
	// HistoryWindow is the number of recent history entries included in
	// prompts. Zero selects the default.
	HistoryWindow int `json:"historyWindow,omitempty" yaml:"historyWindow,omitempty" validate:"gte=0"`
}

// Load reads and validates the configuration file,
// expanding environment variables in values.
func Load(file string) (*Config, error) {
	if file == "" {
		return nil, errors.New("config file is required")
	}

	cfg := new(Config)
	err := configloader.UnmarshalAndExpand(file, cfg)
	if err != nil {
		return nil, errors.WithMessagef(err, "unable to load config: %s", file)
	}
	err = cfg.Validate()
	if err != nil {
		return nil, errors.WithMessagef(err, "invalid config: %s", file)
	}
	return cfg, nil
}

// Validate checks the configuration for required fields.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}
