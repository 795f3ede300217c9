package registry_test

import (
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/chatmodel"
	"github.com/effective-security/toolchat/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOwner struct {
	name string
}

func (o *fakeOwner) Name() string { return o.name }

func (o *fakeOwner) CallTool(ctx context.Context, tool string, params map[string]any) ([]chatmodel.Fragment, error) {
	return []chatmodel.Fragment{{Kind: chatmodel.FragmentText, Text: o.name + ":" + tool}}, nil
}

func Test_Registry_RegisterAndResolve(t *testing.T) {
	reg := registry.New()
	owner := &fakeOwner{name: "weather"}

	reg.Register(owner,
		registry.Descriptor{
			Name:        "get_weather",
			Description: "Get current weather for a city",
			Parameters: map[string]registry.Parameter{
				"city": {Type: "string", Required: true},
				"days": {Type: "number"},
			},
		},
	)

	got, err := reg.ResolveOwner("get_weather")
	require.NoError(t, err)
	assert.Equal(t, "weather", got.Name())
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, []string{"get_weather"}, reg.Names())

	_, err = reg.ResolveOwner("no_such_tool")
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrToolNotFound))
}

func Test_Registry_LastWriteWins(t *testing.T) {
	reg := registry.New()
	first := &fakeOwner{name: "first"}
	second := &fakeOwner{name: "second"}

	reg.Register(first, registry.Descriptor{Name: "search", Description: "from first"})
	reg.Register(second, registry.Descriptor{Name: "search", Description: "from second"})

	owner, err := reg.ResolveOwner("search")
	require.NoError(t, err)
	assert.Equal(t, "second", owner.Name())

	// describe lists the shadowed name exactly once, with the winner's descriptor
	described := reg.Describe()
	assert.Equal(t, 1, strings.Count(described, "search"))
	assert.Contains(t, described, "from second")
	assert.Equal(t, 1, reg.Len())
}

func Test_Registry_DescribeDeterministic(t *testing.T) {
	reg := registry.New()
	owner := &fakeOwner{name: "p"}
	reg.Register(owner,
		registry.Descriptor{
			Name:        "zeta",
			Description: "last by name",
			Parameters: map[string]registry.Parameter{
				"b": {Type: "number"},
				"a": {Type: "string"},
			},
		},
		registry.Descriptor{Name: "alpha", Description: "first by name"},
	)

	exp := `Available tools:
- alpha: first by name
- zeta: last by name
  Parameters: a (string), b (number)
`
	assert.Equal(t, exp, reg.Describe())
	// stable across calls
	assert.Equal(t, exp, reg.Describe())
}
