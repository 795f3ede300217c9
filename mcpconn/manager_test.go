package mcpconn

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/chatmodel"
	"github.com/effective-security/toolchat/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	name   string
	tools  []registry.Descriptor
	closed int
	order  *[]string
}

func (f *fakeConn) Name() string                 { return f.name }
func (f *fakeConn) Tools() []registry.Descriptor { return f.tools }

func (f *fakeConn) CallTool(ctx context.Context, tool string, params map[string]any) ([]chatmodel.Fragment, error) {
	return []chatmodel.Fragment{{Kind: chatmodel.FragmentText, Text: "ok"}}, nil
}

func (f *fakeConn) Close() error {
	f.closed++
	if f.order != nil {
		*f.order = append(*f.order, f.name)
	}
	if f.name == "flaky" {
		return errors.New("close failed")
	}
	return nil
}

func Test_ConnectAll_PartialFailure(t *testing.T) {
	m := NewManager()
	m.dial = func(ctx context.Context, name string, cfg LaunchConfig) (Conn, error) {
		if name == "broken" {
			return nil, errors.WithMessage(ErrProviderConnect, name)
		}
		return &fakeConn{
			name: name,
			tools: []registry.Descriptor{
				{Name: name + "_tool", Description: "from " + name},
			},
		}, nil
	}

	reg := registry.New()
	providers := map[string]LaunchConfig{
		"weather": {Command: "weather-server"},
		"broken":  {Command: "no-such-binary"},
		"files":   {Command: "files-server"},
	}

	connected := m.ConnectAll(context.Background(), providers, reg)
	assert.Equal(t, 2, connected)

	// surviving providers contributed their tools, the broken one none
	assert.Equal(t, []string{"files_tool", "weather_tool"}, reg.Names())
	_, err := reg.ResolveOwner("weather_tool")
	require.NoError(t, err)
	_, err = reg.ResolveOwner("broken_tool")
	assert.True(t, errors.Is(err, registry.ErrToolNotFound))
}

func Test_Shutdown_ReverseOrder(t *testing.T) {
	var order []string
	conns := []*fakeConn{
		{name: "first", order: &order},
		{name: "flaky", order: &order},
		{name: "last", order: &order},
	}

	m := NewManager()
	m.dial = func(ctx context.Context, name string, cfg LaunchConfig) (Conn, error) {
		for _, c := range conns {
			if c.name == name {
				return c, nil
			}
		}
		return nil, errors.New("unknown")
	}

	reg := registry.New()
	for _, c := range conns {
		require.NoError(t, m.Connect(context.Background(), c.name, LaunchConfig{Command: "x"}, reg))
	}
	require.Len(t, m.Sessions(), 3)

	m.Shutdown()
	// reverse of acquisition, the flaky close does not stop the rest
	assert.Equal(t, []string{"last", "flaky", "first"}, order)

	// idempotent: every session closed exactly once
	m.Shutdown()
	for _, c := range conns {
		assert.Equal(t, 1, c.closed, c.name)
	}
}
