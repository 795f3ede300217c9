package mcpconn

import (
	"context"
	"sort"
	"sync"

	"github.com/effective-security/toolchat/pkg/metricskey"
	"github.com/effective-security/toolchat/registry"
	"github.com/effective-security/xlog"
)

// Conn is the session surface the manager tracks.
type Conn interface {
	registry.Owner
	Tools() []registry.Descriptor
	Close() error
}

// Manager owns the live provider sessions for the lifetime of the process.
// Connecting may run in parallel across providers; shutdown releases the
// sessions in reverse order of acquisition.
type Manager struct {
	mu       sync.Mutex
	sessions []Conn
	shutdown bool

	// dial is swapped out in tests
	dial func(ctx context.Context, name string, cfg LaunchConfig) (Conn, error)
}

func NewManager() *Manager {
	return &Manager{
		dial: func(ctx context.Context, name string, cfg LaunchConfig) (Conn, error) {
			return Dial(ctx, name, cfg)
		},
	}
}

// Connect establishes one provider session and registers its catalog.
// A connect failure is logged and returned but must not abort connecting
// the remaining providers; that provider simply contributes zero tools.
func (m *Manager) Connect(ctx context.Context, name string, cfg LaunchConfig, reg *registry.Registry) error {
	sess, err := m.dial(ctx, name, cfg)
	if err != nil {
		metricskey.StatsProvidersFailed.IncrCounter(1, name)
		logger.KV(xlog.ERROR,
			"status", "connect_failed",
			"provider", name,
			"err", err.Error(),
		)
		return err
	}
	metricskey.StatsProvidersConnected.IncrCounter(1, name)

	m.mu.Lock()
	m.sessions = append(m.sessions, sess)
	m.mu.Unlock()

	reg.Register(sess, sess.Tools()...)
	return nil
}

// ConnectAll connects every configured provider in parallel and returns the
// number of sessions established. Per-provider failures are isolated.
func (m *Manager) ConnectAll(ctx context.Context, providers map[string]LaunchConfig, reg *registry.Registry) int {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)

	var wg sync.WaitGroup
	var connected int64
	var mu sync.Mutex
	for _, name := range names {
		wg.Add(1)
		go func(name string, cfg LaunchConfig) {
			defer wg.Done()
			if err := m.Connect(ctx, name, cfg, reg); err == nil {
				mu.Lock()
				connected++
				mu.Unlock()
			}
		}(name, providers[name])
	}
	wg.Wait()
	return int(connected)
}

// Sessions returns the current sessions in acquisition order.
func (m *Manager) Sessions() []Conn {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Conn, len(m.sessions))
	copy(out, m.sessions)
	return out
}

// Shutdown releases every session in reverse-of-acquisition order. Cleanup
// is best effort: an individual close failure is logged and the remaining
// sessions are still released. Safe to call more than once.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	if m.shutdown {
		m.mu.Unlock()
		return
	}
	m.shutdown = true
	sessions := m.sessions
	m.sessions = nil
	m.mu.Unlock()

	for i := len(sessions) - 1; i >= 0; i-- {
		if err := sessions[i].Close(); err != nil {
			logger.KV(xlog.WARNING,
				"status", "close_failed",
				"provider", sessions[i].Name(),
				"err", err.Error(),
			)
		}
	}
}
