// Package prefs provides asynchronous key→value preference
// persistence. Reads complete against an in-memory document; writes
// are fire-and-forget from the caller's perspective and are flushed by
// a single writer goroutine. Persistence failures are reported to an
// error handler and never roll back in-memory state.
package prefs

import (
	"context"
	"errors"
	"sync"
)

// Preference keys used by the personalization core.
const (
	KeyTheme   = "appearance.theme"
	KeyMode    = "appearance.mode"
	KeyFaculty = "faculty"
)

// ErrStoreClosed is returned by reads on a closed store.
var ErrStoreClosed = errors.New("prefs: store closed")

// Store is the preference persistence surface consumed by the core.
type Store interface {
	// Get returns the stored value for key, reporting absence via the
	// second return.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a value. It returns immediately; persistence happens
	// in the background and failures are surfaced to the store's
	// error handler, not the caller.
	Set(key, value string)

	// Close flushes pending writes and releases resources.
	Close() error
}

// Memory is an in-memory Store for tests and ephemeral sessions.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, ErrStoreClosed
	}
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements Store.
func (m *Memory) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.values[key] = value
}

// Close implements Store.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
