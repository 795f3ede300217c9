// Package mcpconn owns the set of live tool-provider connections. Each
// provider is a subprocess speaking MCP over stdio; a Session wraps one
// connection and a Manager tracks their lifetimes.
package mcpconn

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/chatmodel"
	"github.com/effective-security/toolchat/pkg/llmutils"
	"github.com/effective-security/toolchat/registry"
	"github.com/effective-security/xlog"
	mcp "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport/stdio"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolchat", "mcpconn")

var (
	// ErrProviderConnect wraps any failure to launch or handshake one
	// provider. It never aborts connecting the remaining providers.
	ErrProviderConnect = errors.New("failed to connect to tool provider")
	// ErrToolExecution wraps a provider-side failure of one tool call.
	ErrToolExecution = errors.New("tool execution failed")
)

// LaunchConfig describes how to start one provider subprocess. It is
// provider-specific and opaque to the orchestration core.
type LaunchConfig struct {
	Command string            `json:"command" yaml:"command" validate:"required"`
	Args    []string          `json:"args,omitempty" yaml:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
}

// Session is one connected tool provider. It is created by Dial and torn
// down exactly once by Close, at process shutdown; there is no partial
// teardown mid-session.
type Session struct {
	name      string
	cmd       *exec.Cmd
	transport *stdio.StdioServerTransport
	client    *mcp.Client
	tools     []registry.Descriptor

	closeOnce sync.Once
	closeErr  error
}

var _ registry.Owner = (*Session)(nil)

// Dial launches the provider subprocess, performs the MCP handshake and
// retrieves the tool catalog. Any failure is wrapped in ErrProviderConnect.
func Dial(ctx context.Context, name string, cfg LaunchConfig) (*Session, error) {
	cmd := exec.Command(cfg.Command, cfg.Args...)
	cmd.Env = launchEnv(cfg.Env)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.WithMessagef(ErrProviderConnect, "%s: %s", name, err.Error())
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.WithMessagef(ErrProviderConnect, "%s: %s", name, err.Error())
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.WithMessagef(ErrProviderConnect, "%s: %s", name, err.Error())
	}

	tr := stdio.NewStdioServerTransportWithIO(stdout, stdin)
	s := &Session{
		name:      name,
		cmd:       cmd,
		transport: tr,
		client:    mcp.NewClient(tr),
	}

	if _, err := s.client.Initialize(ctx); err != nil {
		_ = s.Close()
		return nil, errors.WithMessagef(ErrProviderConnect, "%s: handshake: %s", name, err.Error())
	}

	tools, err := s.listTools(ctx)
	if err != nil {
		_ = s.Close()
		return nil, errors.WithMessagef(ErrProviderConnect, "%s: list tools: %s", name, err.Error())
	}
	s.tools = tools

	logger.KV(xlog.INFO,
		"status", "connected",
		"provider", name,
		"tools", len(tools),
	)
	return s, nil
}

func launchEnv(env map[string]string) []string {
	out := os.Environ()
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s=%s", k, env[k]))
	}
	return out
}

// Name returns the provider id this session was dialed with.
func (s *Session) Name() string {
	return s.name
}

// Tools returns the catalog retrieved during Dial.
func (s *Session) Tools() []registry.Descriptor {
	return s.tools
}

func (s *Session) listTools(ctx context.Context) ([]registry.Descriptor, error) {
	var list []registry.Descriptor
	var cursor *string
	for {
		resp, err := s.client.ListTools(ctx, cursor)
		if err != nil {
			return nil, err
		}
		for _, t := range resp.Tools {
			list = append(list, toDescriptor(t))
		}
		if resp.NextCursor == nil || *resp.NextCursor == "" {
			return list, nil
		}
		cursor = resp.NextCursor
	}
}

// CallTool forwards one invocation to the provider and converts the result
// into content fragments. Failures are wrapped in ErrToolExecution and
// must be reported per call, never propagated as process-fatal.
func (s *Session) CallTool(ctx context.Context, tool string, params map[string]any) ([]chatmodel.Fragment, error) {
	if params == nil {
		params = map[string]any{}
	}
	resp, err := s.client.CallTool(ctx, tool, params)
	if err != nil {
		return nil, errors.WithMessagef(ErrToolExecution, "%s: %s", tool, err.Error())
	}
	return toFragments(resp.Content), nil
}

// Close releases the session: the transport first, then the subprocess.
// Safe to call more than once; only the first call does the work.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.transport != nil {
			s.closeErr = s.transport.Close()
		}
		if s.cmd != nil && s.cmd.Process != nil {
			killErr := s.cmd.Process.Kill()
			_ = s.cmd.Wait()
			if s.closeErr == nil {
				s.closeErr = killErr
			}
		}
	})
	return s.closeErr
}

// toDescriptor normalizes one MCP tool definition into the registry shape,
// pulling parameter names, types and the required list out of the input
// schema. Schemas that do not decode leave the tool callable with an empty
// parameter map.
func toDescriptor(t mcp.ToolRetType) registry.Descriptor {
	d := registry.Descriptor{
		Name: t.Name,
	}
	if t.Description != nil {
		d.Description = *t.Description
	}

	var schema struct {
		Properties map[string]struct {
			Type string `json:"type"`
		} `json:"properties"`
		Required []string `json:"required"`
	}
	bs := llmutils.ToJSON(t.InputSchema)
	if err := json.Unmarshal([]byte(bs), &schema); err != nil || len(schema.Properties) == 0 {
		return d
	}

	d.Parameters = make(map[string]registry.Parameter, len(schema.Properties))
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}
	for name, p := range schema.Properties {
		d.Parameters[name] = registry.Parameter{
			Type:     p.Type,
			Required: required[name],
		}
	}
	return d
}

// toFragments converts MCP content into the tagged variant the orchestrator
// reports. Unknown kinds are preserved with their type tag so nothing is
// silently dropped.
func toFragments(contents []*mcp.Content) []chatmodel.Fragment {
	out := make([]chatmodel.Fragment, 0, len(contents))
	for _, c := range contents {
		if c == nil {
			continue
		}
		switch c.Type {
		case mcp.ContentTypeText:
			if c.TextContent != nil {
				out = append(out, chatmodel.Fragment{
					Kind: chatmodel.FragmentText,
					Text: c.TextContent.Text,
				})
			}
		case mcp.ContentTypeImage:
			if c.ImageContent != nil {
				out = append(out, chatmodel.Fragment{
					Kind:     chatmodel.FragmentImage,
					Data:     c.ImageContent.Data,
					MimeType: c.ImageContent.MimeType,
				})
			}
		case mcp.ContentTypeEmbeddedResource:
			out = append(out, chatmodel.Fragment{
				Kind: chatmodel.FragmentResource,
				Text: llmutils.ToJSON(c.EmbeddedResource),
			})
		default:
			out = append(out, chatmodel.Fragment{
				Kind: chatmodel.FragmentKind(c.Type),
			})
		}
	}
	return out
}
