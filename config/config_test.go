package config_test

import (
	"testing"

	"github.com/effective-security/toolchat/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("TEST_FS_ROOT", "/srv/data")
	t.Setenv("TEST_GEMINI_KEY", "fake-key")

	cfg, err := config.Load("testdata/chat.yaml")
	require.NoError(t, err)
	require.Len(t, cfg.Providers, 2)

	k8s := cfg.Providers["kubernetes"]
	assert.Equal(t, "npx", k8s.Command)
	assert.Equal(t, []string{"-y", "kubernetes-mcp-server@latest"}, k8s.Args)

	fs := cfg.Providers["filesystem"]
	assert.Equal(t, "/srv/data", fs.Env["FS_ROOT"])

	assert.Equal(t, "googleai", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	assert.Equal(t, "fake-key", cfg.LLM.APIKey)
	assert.Equal(t, 5, cfg.HistoryWindow)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load("")
	require.Error(t, err)

	_, err = config.Load("testdata/does_not_exist.yaml")
	require.Error(t, err)

	_, err = config.Load("testdata/missing_servers.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}
