// Package session models the authentication state the controller runs under
// as an explicit value instead of ambient storage.
package session

import (
	"sync"

	"github.com/Reagan-marera/imoflames-sub000/internal/domain"
)

// Session is either logged out or logged in with a bearer token. A logged-in
// session may not know its user yet when the identity lookup failed.
type Session struct {
	token string
	user  *domain.CurrentUser
}

// LoggedOut returns the anonymous session.
func LoggedOut() Session {
	return Session{}
}

// LoggedIn returns a session for token. user may be nil.
func LoggedIn(token string, user *domain.CurrentUser) Session {
	if token == "" {
		return LoggedOut()
	}
	if user != nil {
		u := *user
		user = &u
	}
	return Session{token: token, user: user}
}

// Authenticated reports whether the session carries a token.
func (s Session) Authenticated() bool {
	return s.token != ""
}

// Token returns the bearer token, or "" when logged out.
func (s Session) Token() string {
	return s.token
}

// User returns the current user when it is known.
func (s Session) User() (domain.CurrentUser, bool) {
	if s.user == nil {
		return domain.CurrentUser{}, false
	}
	return *s.user, true
}

// UserID returns the current user's id, or 0 when unknown.
func (s Session) UserID() int64 {
	if s.user == nil {
		return 0
	}
	return s.user.ID
}

// Provider hands out the session an operation runs under.
type Provider interface {
	Current() Session
}

// Holder is a Provider whose session can be swapped when the token changes.
type Holder struct {
	mu sync.RWMutex
	s  Session
}

// NewHolder creates a holder for s.
func NewHolder(s Session) *Holder {
	return &Holder{s: s}
}

// Current returns the held session.
func (h *Holder) Current() Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.s
}

// Set replaces the held session.
func (h *Holder) Set(s Session) {
	h.mu.Lock()
	h.s = s
	h.mu.Unlock()
}
