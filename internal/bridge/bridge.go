// Package bridge is the only path between a front-end (the UI trigger) and
// the privileged side that owns dialogs and subprocesses. Front-ends receive
// a Bridge and nothing else: one request operation and one subscription
// registrar.
package bridge

import (
	"context"
	"sync"

	"moviesort/internal/errors"
	"moviesort/internal/log"
)

// Event names a notification sent from the privileged side to the UI.
type Event string

const (
	// ShowStatus carries a status text to display verbatim.
	ShowStatus Event = "show-status"
	// HideStatus carries no payload and hides the status indicator.
	HideStatus Event = "hide-status"
)

const opSelectDirectory = "select-directory"

// Notification is a one-way message to the UI.
type Notification struct {
	Event   Event
	Payload string
}

// Busy builds the notification that shows the status indicator with text.
func Busy(text string) Notification {
	return Notification{Event: ShowStatus, Payload: text}
}

// Idle builds the notification that hides the status indicator.
func Idle() Notification {
	return Notification{Event: HideStatus}
}

// Selection is the outcome of a directory selection request.
type Selection struct {
	Path      string
	Cancelled bool
}

// Handler receives the payload of a notification.
type Handler func(payload string)

// Bridge is the surface exposed to front-ends.
type Bridge interface {
	SelectDirectory(ctx context.Context) (Selection, error)
	On(event Event, handler Handler)
}

// Selector is implemented by the privileged side to serve selection requests.
type Selector interface {
	HandleSelectDirectory(ctx context.Context) (Selection, error)
}

// Notifier delivers notifications to a front-end.
type Notifier interface {
	Notify(n Notification)
}

// Channel is the Bridge for a single window. It is unusable until Bind is
// called and becomes unusable again after Close.
type Channel struct {
	mu       sync.RWMutex
	selector Selector
	closed   bool
	handlers map[Event][]Handler
}

var (
	_ Bridge   = (*Channel)(nil)
	_ Notifier = (*Channel)(nil)
)

// NewChannel creates an unbound channel.
func NewChannel() *Channel {
	return &Channel{handlers: make(map[Event][]Handler)}
}

// Bind attaches the privileged selector and marks the channel ready.
func (c *Channel) Bind(s Selector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selector = s
	c.closed = false
}

// Ready reports whether SelectDirectory can be served.
func (c *Channel) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selector != nil && !c.closed
}

// SelectDirectory forwards the request to the bound selector.
func (c *Channel) SelectDirectory(ctx context.Context) (Selection, error) {
	c.mu.RLock()
	s, closed := c.selector, c.closed
	c.mu.RUnlock()

	if s == nil || closed {
		return Selection{}, errors.NewBridgeError("bridge not ready", opSelectDirectory, errors.NotReady, nil)
	}
	return s.HandleSelectDirectory(ctx)
}

// On registers handler for event. Handlers run in registration order on the
// goroutine that sent the notification.
func (c *Channel) On(event Event, handler Handler) {
	if handler == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = append(c.handlers[event], handler)
}

// Notify dispatches n to the handlers registered for its event.
func (c *Channel) Notify(n Notification) {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		log.LogWithFields(log.F("event", string(n.Event))).Debug("Dropping notification for closed channel")
		return
	}
	handlers := append([]Handler(nil), c.handlers[n.Event]...)
	c.mu.RUnlock()

	for _, h := range handlers {
		h(n.Payload)
	}
}

// Close detaches the channel from its window.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.selector = nil
	c.handlers = make(map[Event][]Handler)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) { f(n) }

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(Notification) {})
