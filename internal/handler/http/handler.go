package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Reagan-marera/imoflames-sub000/internal/storefront"
	"github.com/Reagan-marera/imoflames-sub000/internal/ui"
	"github.com/Reagan-marera/imoflames-sub000/pkg/httputil"
	"github.com/Reagan-marera/imoflames-sub000/pkg/logger"
	"github.com/Reagan-marera/imoflames-sub000/pkg/middleware"
)

// DefaultMaxUploadBytes bounds a product form with its images.
const DefaultMaxUploadBytes = 64 << 20

// Config holds handler settings.
type Config struct {
	MaxUploadBytes int64
	AllowedOrigins []string
}

// Handler serves the storefront of the session a request belongs to.
type Handler struct {
	registry       *storefront.Registry
	logger         *slog.Logger
	maxUploadBytes int64
	upgrader       websocket.Upgrader
}

// NewHandler creates a storefront HTTP handler.
func NewHandler(registry *storefront.Registry, cfg Config, logger *slog.Logger) *Handler {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{
		registry:       registry,
		logger:         logger,
		maxUploadBytes: cfg.MaxUploadBytes,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
	}
}

// controller returns the session's controller with the request's bearer token
// applied.
func (h *Handler) controller(r *http.Request) *storefront.Controller {
	ctx := r.Context()
	c := h.registry.Get(logger.SessionIDFromContext(ctx))
	c.Authenticate(ctx, middleware.TokenFromContext(ctx))
	return c
}

// respond writes data with the notices and redirect the controller queued
// while handling the request.
func (h *Handler) respond(w http.ResponseWriter, c *storefront.Controller, status int, data any) {
	notices, redirect := c.Drain()
	httputil.WriteData(w, status, data,
		httputil.WithNotices(toNotices(notices)),
		httputil.WithRedirect(redirect),
	)
}

// fail writes err with the queued notices and redirect.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, c *storefront.Controller, err error) {
	notices, redirect := c.Drain()
	httputil.WriteError(w, r, err, h.logger,
		httputil.WithNotices(toNotices(notices)),
		httputil.WithRedirect(redirect),
	)
}

func toNotices(in []ui.Notice) []httputil.Notice {
	out := make([]httputil.Notice, 0, len(in))
	for _, n := range in {
		out = append(out, httputil.Notice{Message: n.Message, Level: string(n.Level)})
	}
	return out
}
