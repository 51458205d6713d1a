package storefront

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Factory builds the controller of a new session.
type Factory func(id string) *Controller

// Registry keeps one controller per session and closes controllers that have
// been idle for longer than the idle TTL. Controllers with watchers are never
// evicted.
type Registry struct {
	newController Factory
	idleTTL       time.Duration
	logger        *slog.Logger
	nowFunc       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Controller
	closed   bool
}

// NewRegistry creates an empty registry.
func NewRegistry(factory Factory, idleTTL time.Duration, logger *slog.Logger) *Registry {
	return &Registry{
		newController: factory,
		idleTTL:       idleTTL,
		logger:        logger,
		nowFunc:       time.Now,
		sessions:      make(map[string]*Controller),
	}
}

// Get returns the controller of session id, creating it on first use, and
// marks it as used. After Close it returns a new controller that is already
// closed, so nothing it starts outlives the registry.
func (r *Registry) Get(id string) *Controller {
	now := r.nowFunc()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		c := r.newController(id)
		c.Close()
		return c
	}
	c, ok := r.sessions[id]
	if !ok {
		c = r.newController(id)
		r.sessions[id] = c
		sessionsActive.Set(float64(len(r.sessions)))
	}
	// Touch under the lock so Evict never sees a stale lastSeen for a
	// controller that was just handed out.
	c.Touch(now)
	r.mu.Unlock()
	return c
}

// Lookup returns the controller of session id without creating it.
func (r *Registry) Lookup(id string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.sessions[id]
	return c, ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Evict closes and forgets every idle controller. It returns how many were
// evicted.
func (r *Registry) Evict() int {
	now := r.nowFunc()

	r.mu.Lock()
	var idle []*Controller
	for id, c := range r.sessions {
		if now.Sub(c.LastSeen()) > r.idleTTL && c.Watchers() == 0 {
			idle = append(idle, c)
			delete(r.sessions, id)
		}
	}
	sessionsActive.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	for _, c := range idle {
		c.Close()
	}
	if len(idle) > 0 {
		sessionsEvicted.Add(float64(len(idle)))
		r.logger.Info("evicted idle sessions", slog.Int("count", len(idle)))
	}
	return len(idle)
}

// Run evicts idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Evict()
		}
	}
}

// Close closes every controller. Later calls to Get hand out closed,
// untracked controllers.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Controller)
	r.closed = true
	sessionsActive.Set(0)
	r.mu.Unlock()

	for _, c := range sessions {
		c.Close()
	}
}
