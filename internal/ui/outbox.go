package ui

import (
	"context"
	"sync"
)

// Notice is a notification waiting to be delivered.
type Notice struct {
	Message string `json:"message"`
	Level   Level  `json:"level"`
}

// Outbox implements Notifier and Navigator by queueing notices and the last
// requested route until the transport drains them. Listeners see every notice
// as it is queued.
type Outbox struct {
	mu        sync.Mutex
	notices   []Notice
	redirect  string
	listeners []func(Notice)
}

// NewOutbox creates an empty outbox.
func NewOutbox() *Outbox {
	return &Outbox{}
}

// Notify queues a notice.
func (o *Outbox) Notify(_ context.Context, message string, level Level) {
	n := Notice{Message: message, Level: level}

	o.mu.Lock()
	o.notices = append(o.notices, n)
	listeners := o.listeners
	o.mu.Unlock()

	for _, fn := range listeners {
		fn(n)
	}
}

// GoTo records the route; a later call overrides an earlier one.
func (o *Outbox) GoTo(_ context.Context, path string) {
	o.mu.Lock()
	o.redirect = path
	o.mu.Unlock()
}

// OnNotice registers fn to be called for every queued notice.
func (o *Outbox) OnNotice(fn func(Notice)) {
	o.mu.Lock()
	o.listeners = append(o.listeners, fn)
	o.mu.Unlock()
}

// Drain returns and clears the queued notices and redirect.
func (o *Outbox) Drain() ([]Notice, string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	notices, redirect := o.notices, o.redirect
	o.notices, o.redirect = nil, ""
	return notices, redirect
}
