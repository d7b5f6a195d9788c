package prefs

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// selfWriteGrace is how long after our own flush a filesystem event on
// the preference file is assumed to be self-generated and skipped.
const selfWriteGrace = 500 * time.Millisecond

func nowNano() int64 { return time.Now().UnixNano() }

// Watch starts watching the preference file for external edits. When
// one lands, the in-memory document reloads and onChange is called.
// The watcher runs until the store closes. The parent directory is
// watched rather than the file itself so replace-by-rename edits
// (editors, sync tools) are still observed.
func (s *FileStore) Watch(onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("prefs: creating watcher: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("prefs: watching %s: %w", dir, err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		watcher.Close()
		return ErrStoreClosed
	}
	stop := s.watchStop()
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer watcher.Close()

		for {
			select {
			case <-stop:
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(s.path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if nowNano()-s.lastFlush.Load() < int64(selfWriteGrace) {
					continue
				}
				if err := s.reload(); err != nil {
					s.onError(err)
					continue
				}
				onChange()

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.onError(fmt.Errorf("prefs: watcher: %w", err))
			}
		}
	}()

	return nil
}
