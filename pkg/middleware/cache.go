package middleware

import "net/http"

// NoStore marks responses as private to the session and never cacheable.
// Storefront views are built from per-session controller state.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Add("Vary", "Cookie")
		w.Header().Add("Vary", "Authorization")
		next.ServeHTTP(w, r)
	})
}
