package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Reagan-marera/imoflames-sub000/internal/datasource"
	apperrors "github.com/Reagan-marera/imoflames-sub000/pkg/errors"
)

// Resolver turns a bearer token into a Session.
type Resolver struct {
	users    datasource.Users
	cache    UserCache
	cacheTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewResolver creates a resolver. cache may be nil.
func NewResolver(users datasource.Users, cache UserCache, cacheTTL time.Duration, logger *slog.Logger) *Resolver {
	return &Resolver{
		users:    users,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Resolve returns the session for token.
//
// An empty token, a JWT whose exp lies in the past, or a token the API answers
// with 401 yield a logged-out session. When the identity lookup fails for any
// other reason the token is kept and the user stays unknown, so actions still
// reach the API and the server decides. The token's signature is not checked
// here; the API does that on every request.
func (r *Resolver) Resolve(ctx context.Context, token string) Session {
	if token == "" {
		return LoggedOut()
	}

	ttl := r.cacheTTL
	if exp, ok := expiry(token); ok {
		remaining := exp.Sub(r.now())
		if remaining <= 0 {
			r.logger.DebugContext(ctx, "session token expired")
			return LoggedOut()
		}
		ttl = min(ttl, remaining)
	}

	if r.cache != nil {
		user, ok, err := r.cache.Get(ctx, token)
		if err != nil {
			r.logger.WarnContext(ctx, "user cache lookup failed", slog.String("error", err.Error()))
		} else if ok {
			return LoggedIn(token, &user)
		}
	}

	user, err := r.users.CurrentUser(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			return LoggedOut()
		}
		r.logger.WarnContext(ctx, "failed to fetch current user",
			slog.String("error", err.Error()),
			slog.String("kind", apperrors.KindOf(err).String()),
		)
		return LoggedIn(token, nil)
	}

	if r.cache != nil && ttl > 0 {
		if err := r.cache.Set(ctx, token, user, ttl); err != nil {
			r.logger.WarnContext(ctx, "user cache store failed", slog.String("error", err.Error()))
		}
	}
	return LoggedIn(token, &user)
}

// expiry reads the exp claim without verifying the signature. Opaque tokens
// have no known expiry.
func expiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
