package prefs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// writeQueueSize bounds pending fire-and-forget writes. When the queue
// is full further writes are dropped and reported, never blocked on.
const writeQueueSize = 64

// ErrorHandler receives persistence failures and dropped writes.
type ErrorHandler func(err error)

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithErrorHandler sets the persistence failure callback.
func WithErrorHandler(fn ErrorHandler) FileOption {
	return func(s *FileStore) {
		s.onError = fn
	}
}

// FileStore persists preferences as a JSON document on disk. Keys are
// gjson paths, so "appearance.theme" nests under an "appearance"
// object.
type FileStore struct {
	path string

	mu  sync.RWMutex
	doc []byte

	writes    chan writeOp
	wg        sync.WaitGroup
	closed    bool
	closeOnce sync.Once
	stopWatch chan struct{}

	// lastFlush is the unix-nano time of our own most recent disk
	// write, used by the watcher to skip self-generated events.
	lastFlush atomic.Int64

	onError ErrorHandler
}

type writeOp struct {
	key   string
	value string
}

// OpenFile opens (or prepares to create) the preference file at path
// and starts the writer goroutine. A missing file is treated as an
// empty document; a corrupt one is an error.
func OpenFile(path string, opts ...FileOption) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		doc:     []byte("{}"),
		writes:  make(chan writeOp, writeQueueSize),
		onError: func(error) {},
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if !gjson.ValidBytes(data) {
			return nil, fmt.Errorf("prefs: %s: invalid JSON document", path)
		}
		s.doc = data
	case os.IsNotExist(err):
		// First run; the document is created on the first write.
	default:
		return nil, fmt.Errorf("prefs: reading %s: %w", path, err)
	}

	s.wg.Add(1)
	go s.writer()

	return s, nil
}

// Get implements Store. It reads the in-memory document, which already
// reflects every accepted Set.
func (s *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, ErrStoreClosed
	}

	result := gjson.GetBytes(s.doc, key)
	if !result.Exists() {
		return "", false, nil
	}
	return result.String(), true, nil
}

// Set implements Store. The in-memory document updates synchronously
// so an immediate Get observes the new value; the disk flush is
// queued. A full queue drops the flush and reports it.
func (s *FileStore) Set(key, value string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	doc, err := sjson.SetBytes(s.doc, key, value)
	if err != nil {
		s.mu.Unlock()
		s.onError(fmt.Errorf("prefs: setting %q: %w", key, err))
		return
	}
	s.doc = doc

	// Queued under the lock so Close cannot shut the channel between
	// the closed check and the send.
	var dropped bool
	select {
	case s.writes <- writeOp{key: key, value: value}:
	default:
		dropped = true
	}
	s.mu.Unlock()

	if dropped {
		s.onError(fmt.Errorf("prefs: write queue full, dropping flush for %q", key))
	}
}

// Close implements Store. It stops accepting writes, flushes the
// queue, and stops the watcher if one was started.
func (s *FileStore) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		if s.stopWatch != nil {
			close(s.stopWatch)
		}
		s.mu.Unlock()
		close(s.writes)
	})
	s.wg.Wait()
	return nil
}

// writer flushes queued writes to disk until the store closes.
func (s *FileStore) writer() {
	defer s.wg.Done()

	for range s.writes {
		// The document already holds this write (and possibly later
		// ones); flushing the current snapshot covers the batch.
		if err := s.flush(); err != nil {
			s.onError(err)
		}
	}
}

// flush writes the current document to disk.
func (s *FileStore) flush() error {
	s.mu.RLock()
	doc := make([]byte, len(s.doc))
	copy(doc, s.doc)
	s.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("prefs: creating directory: %w", err)
	}

	s.lastFlush.Store(nowNano())
	if err := os.WriteFile(s.path, doc, 0o600); err != nil {
		return fmt.Errorf("prefs: writing %s: %w", s.path, err)
	}
	return nil
}

// watchStop lazily creates the watcher stop channel.
// Caller must hold the write lock.
func (s *FileStore) watchStop() chan struct{} {
	if s.stopWatch == nil {
		s.stopWatch = make(chan struct{})
	}
	return s.stopWatch
}

// reload replaces the in-memory document from disk. Used by the
// watcher when the file changes externally.
func (s *FileStore) reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("prefs: reloading %s: %w", s.path, err)
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("prefs: %s: invalid JSON document after external change", s.path)
	}

	s.mu.Lock()
	s.doc = data
	s.mu.Unlock()
	return nil
}
