package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// Methods of the storefront routes and the headers its UI sends. The session
// cookie travels with credentials and needs no header entry.
var (
	storefrontMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	storefrontHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Correlation-ID"}
)

// CORSConfig holds configuration for the CORS middleware in front of the
// storefront routes.
type CORSConfig struct {
	// AllowedOrigins lists the UI origins (e.g. "https://shop.example").
	// "*" allows any origin and is meant for local development.
	AllowedOrigins []string

	// AllowedMethods defaults to the storefront methods: GET, POST, PUT,
	// DELETE, OPTIONS.
	AllowedMethods []string

	// AllowedHeaders defaults to Accept, Authorization, Content-Type and
	// X-Correlation-ID.
	AllowedHeaders []string

	// ExposedHeaders is the list of headers the browser may access.
	ExposedHeaders []string

	// MaxAge is how long (in seconds) preflight results can be cached.
	// Defaults to 3600 if 0.
	MaxAge int

	// AllowCredentials lets the UI send the session cookie and bearer token.
	AllowCredentials bool
}

// DefaultCORSConfig returns the configuration used by the storefront UI. The
// session lives in a cookie, so credentials are allowed and the origin is
// echoed back instead of answering with a wildcard.
func DefaultCORSConfig(origins []string) CORSConfig {
	return CORSConfig{
		AllowedOrigins:   origins,
		AllowedMethods:   storefrontMethods,
		AllowedHeaders:   storefrontHeaders,
		ExposedHeaders:   []string{"X-Correlation-ID"},
		MaxAge:           3600,
		AllowCredentials: true,
	}
}

// CORS answers preflight requests and sets the CORS headers for allowed
// origins. "*" in AllowedOrigins allows any origin.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	if len(cfg.AllowedMethods) == 0 {
		cfg.AllowedMethods = storefrontMethods
	}
	if len(cfg.AllowedHeaders) == 0 {
		cfg.AllowedHeaders = storefrontHeaders
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 3600
	}

	allowWildcard := false
	originSet := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			allowWildcard = true
		}
		originSet[o] = struct{}{}
	}

	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	exposed := strings.Join(cfg.ExposedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			_, listed := originSet[origin]
			switch {
			case allowWildcard && !cfg.AllowCredentials:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && (allowWildcard || listed):
				// Credentialed requests need the exact origin.
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}

			w.Header().Set("Access-Control-Allow-Methods", methods)
			w.Header().Set("Access-Control-Allow-Headers", headers)
			if exposed != "" {
				w.Header().Set("Access-Control-Expose-Headers", exposed)
			}
			w.Header().Set("Access-Control-Max-Age", maxAge)

			if cfg.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
