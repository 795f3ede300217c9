// Package registry holds the merged catalog of tools discovered from all
// connected providers, and routes each tool name to the session that owns it.
package registry

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/chatmodel"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolchat", "registry")

// ErrToolNotFound is returned by ResolveOwner for unregistered tool names.
// It is a normal, reportable condition for the caller, not a fatal error:
// a decision may reference a tool no connected provider exposes.
var ErrToolNotFound = errors.New("tool not found")

// Owner is the narrow surface the registry keeps per tool: the provider
// session the tool was discovered on.
type Owner interface {
	Name() string
	CallTool(ctx context.Context, tool string, params map[string]any) ([]chatmodel.Fragment, error)
}

// Parameter is one declared tool parameter.
type Parameter struct {
	Type     string
	Required bool
}

// Descriptor describes one callable tool. Name is the global key: when two
// providers declare the same name, the later registration owns the routing.
type Descriptor struct {
	Name        string
	Description string
	Parameters  map[string]Parameter
}

// Registry maps tool name to descriptor and owning session. It is mutated
// only while providers connect (possibly in parallel) and read-only during
// the request-processing loop.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Descriptor
	owners map[string]Owner
}

func New() *Registry {
	return &Registry{
		tools:  make(map[string]Descriptor),
		owners: make(map[string]Owner),
	}
}

// Register adds each descriptor under its name, overwriting any prior owner
// for that name (last write wins).
func (r *Registry) Register(owner Owner, descriptors ...Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range descriptors {
		if prev, ok := r.owners[d.Name]; ok && prev.Name() != owner.Name() {
			logger.KV(xlog.WARNING,
				"status", "tool_shadowed",
				"tool", d.Name,
				"prev_provider", prev.Name(),
				"provider", owner.Name(),
			)
		}
		r.tools[d.Name] = d
		r.owners[d.Name] = owner
	}
}

// ResolveOwner returns the session owning the named tool.
func (r *Registry) ResolveOwner(name string) (Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owner, ok := r.owners[name]
	if !ok {
		return nil, errors.WithMessage(ErrToolNotFound, name)
	}
	return owner, nil
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptors returns all registered descriptors, sorted by name.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	list := make([]Descriptor, 0, len(names))
	for _, name := range names {
		list = append(list, r.tools[name])
	}
	return list
}

// Describe renders the catalog deterministically for inclusion in prompts:
// tool name, description, and each parameter with its declared type, all
// sorted by name. Every tool appears exactly once.
func (r *Registry) Describe() string {
	var b strings.Builder
	b.WriteString("Available tools:\n")
	for _, d := range r.Descriptors() {
		b.WriteString("- ")
		b.WriteString(d.Name)
		b.WriteString(": ")
		b.WriteString(d.Description)
		b.WriteString("\n")
		if len(d.Parameters) == 0 {
			continue
		}
		params := make([]string, 0, len(d.Parameters))
		for name := range d.Parameters {
			params = append(params, name)
		}
		sort.Strings(params)
		b.WriteString("  Parameters: ")
		for i, name := range params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(name)
			b.WriteString(" (")
			b.WriteString(d.Parameters[name].Type)
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	return b.String()
}
