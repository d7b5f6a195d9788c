package shortcut

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/lectern/internal/input/key"
)

// DefaultChordWindow is the tolerance window between chord presses.
// Buffered presses older than this are expired before matching.
const DefaultChordWindow = 2 * time.Second

// PanicHandler is called when a binding handler panics during dispatch.
// The panic never propagates to the key-event loop.
type PanicHandler func(b Binding, recovered any)

// Registry owns the live binding table and the shared chord buffer.
type Registry struct {
	mu sync.RWMutex

	records []*record
	buffer  []key.Event
	closed  bool

	window          time.Duration
	resetOnMismatch bool
	panicHandler    PanicHandler
}

// record is one registered binding with its compiled patterns.
type record struct {
	binding  Binding
	patterns []compiled
	handle   *Handle
}

// Handle represents one registration batch. Disposing it removes
// exactly that batch's bindings.
type Handle struct {
	id       string
	registry *Registry
	disposed atomic.Bool
}

// ID returns the opaque handle identifier.
func (h *Handle) ID() string { return h.id }

// Option configures a Registry.
type Option func(*Registry)

// WithChordWindow sets the tolerance window between chord presses.
func WithChordWindow(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.window = d
		}
	}
}

// WithResetOnMismatch switches the chord buffer from the default
// sliding window (drop-oldest) to a full reset on a keypress that
// neither completes nor extends any registered chord.
func WithResetOnMismatch(reset bool) Option {
	return func(r *Registry) {
		r.resetOnMismatch = reset
	}
}

// WithPanicHandler sets the handler-panic callback.
func WithPanicHandler(fn PanicHandler) Option {
	return func(r *Registry) {
		r.panicHandler = fn
	}
}

// NewRegistry creates an empty shortcut registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		window: DefaultChordWindow,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register installs a batch of bindings and returns the handle owning
// them. A binding whose pattern collides with one held by a
// still-active handle, or with an earlier binding in the same batch,
// is rejected with a DuplicateBindingError while the rest of the batch
// installs; all rejections are joined into the returned error.
// Registering on a closed registry returns ErrRegistryClosed.
func (r *Registry) Register(bindings []Binding) (*Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}

	handle := &Handle{id: uuid.NewString(), registry: r}

	taken := make(map[string]bool)
	for _, rec := range r.records {
		for _, p := range rec.patterns {
			taken[p.spec] = true
		}
	}

	var errs []error
	for _, b := range bindings {
		patterns, err := compile(b)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		conflict := ""
		for _, p := range patterns {
			if taken[p.spec] {
				conflict = p.spec
				break
			}
		}
		if conflict != "" {
			errs = append(errs, &DuplicateBindingError{Pattern: conflict})
			continue
		}

		for _, p := range patterns {
			taken[p.spec] = true
		}
		r.records = append(r.records, &record{
			binding:  b,
			patterns: patterns,
			handle:   handle,
		})
	}

	return handle, errors.Join(errs...)
}

// Dispose removes every binding this handle installed. It is
// idempotent and safe to call during dispatch; after it returns no
// handler owned by the handle fires, even for an in-flight chord.
func (h *Handle) Dispose() {
	if h == nil || !h.disposed.CompareAndSwap(false, true) {
		return
	}
	h.registry.remove(h)
}

// remove drops a handle's records and any chord progress they owned.
func (r *Registry) remove(h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	hadChord := false
	kept := r.records[:0]
	for _, rec := range r.records {
		if rec.handle != h {
			kept = append(kept, rec)
			continue
		}
		for _, p := range rec.patterns {
			if p.chord != nil {
				hadChord = true
			}
		}
	}
	// Zero the tail so removed records are not retained.
	for i := len(kept); i < len(r.records); i++ {
		r.records[i] = nil
	}
	r.records = kept

	// The buffer may hold a partial sequence belonging to the disposed
	// handle's chords; the shared buffer carries raw presses, so the
	// whole buffer is cleared when the handle owned any chord.
	if hadChord {
		r.buffer = r.buffer[:0]
	}
}

// ListActive returns a snapshot of all currently registered bindings
// across all active handles, in registration order.
func (r *Registry) ListActive() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Binding, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.binding)
	}
	return out
}

// Close tears the registry down globally: all handles are disposed and
// subsequent registrations fail with ErrRegistryClosed. Idempotent.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	for i, rec := range r.records {
		rec.handle.disposed.Store(true)
		r.records[i] = nil
	}
	r.records = r.records[:0]
	r.buffer = r.buffer[:0]
}

// firing pairs a matched record with chord state for dispatch.
type firing struct {
	binding Binding
	handler Handler
	handle  *Handle
}

// HandleKey processes one key event: it feeds the chord buffer,
// matches single-key patterns and chord suffixes over a snapshot of
// the table, and invokes matched handlers synchronously. Handlers may
// register or dispose bindings reentrantly; the snapshot taken here is
// unaffected, and a handle disposed mid-dispatch suppresses its
// remaining handlers. Returns true if any handler fired.
func (r *Registry) HandleKey(ev key.Event) bool {
	fires := r.match(ev)
	if len(fires) == 0 {
		return false
	}

	fired := false
	for _, f := range fires {
		if f.handle.disposed.Load() {
			continue
		}
		fired = true
		r.invoke(f)
	}
	return fired
}

// match updates the chord buffer and collects handlers to fire.
// The lock is released before any handler runs.
func (r *Registry) match(ev key.Event) []firing {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	var fires []firing

	// Single-key patterns match immediately, independent of the
	// chord buffer, on the exact modifier set.
	for _, rec := range r.records {
		for _, p := range rec.patterns {
			if p.chord == nil && p.event.Equals(ev) {
				fires = append(fires, firing{binding: rec.binding, handler: rec.binding.Handler, handle: rec.handle})
				break
			}
		}
	}

	maxLen := r.maxChordLen()
	if maxLen == 0 {
		return fires
	}

	// Expire presses older than the tolerance window before feeding
	// the buffer.
	r.expire(ev.Time)

	if r.resetOnMismatch {
		// Full-reset mode: the buffer only ever holds a prefix of a
		// registered chord; a press that does not extend one restarts
		// progress from that press alone.
		candidate := append(r.buffer, ev)
		switch {
		case r.prefixesChord(candidate):
			r.buffer = candidate
		case r.prefixesChord([]key.Event{ev}):
			r.buffer = append(r.buffer[:0], ev)
		default:
			r.buffer = r.buffer[:0]
		}
	} else {
		// Sliding window: keep the last maxLen presses and match
		// chords against the trailing events, so overlapping
		// prefixes are not penalized by a stray press.
		r.buffer = append(r.buffer, ev)
		if overflow := len(r.buffer) - maxLen; overflow > 0 {
			r.buffer = append(r.buffer[:0], r.buffer[overflow:]...)
		}
	}

	chordFired := false
	for _, rec := range r.records {
		for _, p := range rec.patterns {
			if p.chord == nil {
				continue
			}
			matched := p.chord.MatchesSuffix(r.buffer)
			if r.resetOnMismatch {
				matched = p.chord.Equals(key.Chord(r.buffer))
			}
			if matched {
				fires = append(fires, firing{binding: rec.binding, handler: rec.binding.Handler, handle: rec.handle})
				chordFired = true
				break
			}
		}
	}

	if chordFired {
		// A completed chord consumes the buffer so an immediate
		// repetition of the sequence fires again.
		r.buffer = r.buffer[:0]
	}

	return fires
}

// invoke runs one handler with panic isolation so a failing handler
// never crashes the host key loop.
func (r *Registry) invoke(f firing) {
	defer func() {
		if recovered := recover(); recovered != nil {
			if r.panicHandler != nil {
				r.panicHandler(f.binding, recovered)
			}
		}
	}()
	f.handler()
}

// expire drops buffered presses older than the tolerance window.
// Caller must hold the write lock.
func (r *Registry) expire(now time.Time) {
	cut := 0
	for cut < len(r.buffer) && now.Sub(r.buffer[cut].Time) > r.window {
		cut++
	}
	if cut > 0 {
		r.buffer = append(r.buffer[:0], r.buffer[cut:]...)
	}
}

// maxChordLen returns the longest registered chord length.
// Caller must hold the lock.
func (r *Registry) maxChordLen() int {
	maxLen := 0
	for _, rec := range r.records {
		for _, p := range rec.patterns {
			if n := p.chord.Len(); n > maxLen {
				maxLen = n
			}
		}
	}
	return maxLen
}

// prefixesChord reports whether the events form a prefix of any
// registered chord. Caller must hold the lock.
func (r *Registry) prefixesChord(events []key.Event) bool {
	for _, rec := range r.records {
		for _, p := range rec.patterns {
			if p.chord != nil && p.chord.HasPrefix(events) {
				return true
			}
		}
	}
	return false
}
