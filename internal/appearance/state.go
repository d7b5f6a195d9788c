package appearance

import (
	"sync"
)

// Mode is the light/dark rendering mode.
type Mode string

// The two mode literals.
const (
	ModeDefault Mode = "default"
	ModeSlate   Mode = "slate"
)

// IsValid reports whether m is one of the two literals.
func (m Mode) IsValid() bool {
	return m == ModeDefault || m == ModeSlate
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeSlate {
		return ModeDefault
	}
	return ModeSlate
}

// Snapshot is an immutable view of the appearance state, emitted to
// observers so a rendering layer can reflect it.
type Snapshot struct {
	Theme ThemeID
	Mode  Mode
}

// State is the process-wide appearance state: the single source of
// truth for the current theme and mode. Only the Cycler and the
// preference bootstrap mutate it; consumers read snapshots and
// subscribe to changes.
type State struct {
	mu    sync.RWMutex
	theme ThemeID
	mode  Mode

	nextID    uint64
	observers map[uint64]func(Snapshot)
}

// NewState creates appearance state with the given initial values.
func NewState(theme ThemeID, mode Mode) *State {
	return &State{
		theme:     theme,
		mode:      mode,
		observers: make(map[uint64]func(Snapshot)),
	}
}

// Snapshot returns the current theme and mode.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Theme: s.theme, Mode: s.mode}
}

// Subscription represents an active observer registration.
type Subscription struct {
	id    uint64
	state *State
}

// Unsubscribe removes the observer. Safe to call multiple times.
func (sub *Subscription) Unsubscribe() {
	if sub == nil || sub.state == nil {
		return
	}
	sub.state.mu.Lock()
	delete(sub.state.observers, sub.id)
	sub.state.mu.Unlock()
	sub.state = nil
}

// Subscribe registers an observer called with a snapshot after every
// state change.
func (s *State) Subscribe(fn func(Snapshot)) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.observers[id] = fn
	return &Subscription{id: id, state: s}
}

// set updates the state and notifies observers. Observers run outside
// the lock so they may read the state or unsubscribe.
func (s *State) set(theme ThemeID, mode Mode) {
	s.mu.Lock()
	s.theme = theme
	s.mode = mode
	snap := Snapshot{Theme: theme, Mode: mode}
	observers := make([]func(Snapshot), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}
