package http

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Reagan-marera/imoflames-sub000/internal/storefront"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxInboundSize = 512
	watchBuffer    = 32
)

// originChecker allows websocket upgrades from the configured origins. "*"
// allows any origin; requests without an Origin header are not from a
// browser and are allowed.
func originChecker(origins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(origins, "*") {
			return true
		}
		return slices.Contains(origins, origin)
	}
}

// Watch handles GET /ws. It pushes cart_changed, carousel_advanced and
// notification messages of the session until the client disconnects.
// Inbound messages are ignored.
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	c := h.controller(r)

	// Watch before the handshake completes so nothing published right after
	// the client sees the upgrade is missed.
	msgs, unwatch := c.Watch(watchBuffer)
	defer unwatch()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	h.logger.DebugContext(r.Context(), "websocket connected", slog.String("session_id", c.ID()))

	done := make(chan struct{})
	go readPump(conn, done)
	writePump(conn, msgs, done)

	h.logger.DebugContext(r.Context(), "websocket disconnected", slog.String("session_id", c.ID()))
}

// readPump keeps the read side alive for pongs and close frames.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxInboundSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writePump(conn *websocket.Conn, msgs <-chan storefront.Message, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case m, ok := <-msgs:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"))
				return
			}
			if err := conn.WriteJSON(m); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			return
		}
	}
}
