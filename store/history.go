// Package store keeps the conversation history for one session. The
// history is append-only and in-memory; nothing survives a process
// restart by design.
package store

import "sync"

// History is the ordered record of user turns and tool-usage summaries.
// Only the most recent entries are surfaced back into prompts.
type History interface {
	// Add appends one entry.
	Add(entry string)
	// Last returns up to n most recent entries, oldest first.
	Last(n int) []string
	// Len returns the total number of entries.
	Len() int
}

type inMemory struct {
	mu      sync.RWMutex
	entries []string
}

// NewMemoryHistory creates an empty in-memory history.
func NewMemoryHistory() History {
	return &inMemory{}
}

func (m *inMemory) Add(entry string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
}

func (m *inMemory) Last(n int) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if n <= 0 || len(m.entries) == 0 {
		return nil
	}
	if n > len(m.entries) {
		n = len(m.entries)
	}
	out := make([]string, n)
	copy(out, m.entries[len(m.entries)-n:])
	return out
}

func (m *inMemory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
