// Package notify carries transient user-facing notices from the
// personalization core to whatever surface displays them. Publishers
// do not know who is listening; the UI subscribes and renders.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout is how long a notice stays visible when the publisher
// does not say otherwise.
const DefaultTimeout = 3 * time.Second

// Notice is a short transient message.
type Notice struct {
	Message string

	// Overwritable notices are replaced by the next notice instead of
	// queueing behind it. Theme-cycle announcements use this so rapid
	// cycling shows only the latest theme.
	Overwritable bool

	Timeout time.Duration
}

// Handler receives published notices.
type Handler func(Notice)

// Subscription identifies a registered handler.
type Subscription struct {
	id       uuid.UUID
	notifier *Notifier
}

// Notifier fans published notices out to subscribers. Publish with no
// subscribers is a no-op, so the core can announce unconditionally.
type Notifier struct {
	mu       sync.RWMutex
	handlers map[uuid.UUID]Handler
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{handlers: make(map[uuid.UUID]Handler)}
}

// Subscribe registers a handler for future notices.
func (n *Notifier) Subscribe(fn Handler) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := uuid.New()
	n.handlers[id] = fn
	return &Subscription{id: id, notifier: n}
}

// Unsubscribe removes the handler. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.notifier.mu.Lock()
	defer s.notifier.mu.Unlock()
	delete(s.notifier.handlers, s.id)
}

// Publish delivers a notice to every subscriber. A zero Timeout is
// replaced with DefaultTimeout. Handlers run on the caller's
// goroutine.
func (n *Notifier) Publish(notice Notice) {
	if notice.Timeout == 0 {
		notice.Timeout = DefaultTimeout
	}

	n.mu.RLock()
	handlers := make([]Handler, 0, len(n.handlers))
	for _, fn := range n.handlers {
		handlers = append(handlers, fn)
	}
	n.mu.RUnlock()

	for _, fn := range handlers {
		fn(notice)
	}
}

// Info publishes a plain overwritable notice with the default timeout.
func (n *Notifier) Info(message string) {
	n.Publish(Notice{Message: message, Overwritable: true})
}
