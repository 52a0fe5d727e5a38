package api

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"github.com/erazemk/prft/internal/ledger"
	"github.com/erazemk/prft/internal/stats"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// LiveHandler streams item snapshots over a websocket: one on connect and
// one after every change to the user's items.
type LiveHandler struct {
	Ledger   *ledger.Ledger
	upgrader websocket.Upgrader
}

// NewLiveHandler returns a handler accepting browser connections from
// origins. With no origins only same-origin connections are accepted.
func NewLiveHandler(l *ledger.Ledger, origins []string) *LiveHandler {
	h := &LiveHandler{Ledger: l}
	if len(origins) > 0 {
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(origins, "*") || slices.Contains(origins, origin)
		}
	}
	return h
}

type liveError struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Serve handles GET /api/live.
func (h *LiveHandler) Serve(w http.ResponseWriter, r *http.Request) {
	filter, ok := stats.ParseFilter(r.URL.Query().Get("status"))
	if !ok {
		jsonError(w, http.StatusBadRequest, "status must be all, listed or sold")
		return
	}
	claims := GetClaims(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("live upgrade failed", "user", claims.Username, "error", err)
		return
	}
	defer conn.Close()

	notify, cancel := h.Ledger.Broker().Subscribe(claims.UserID)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func() error {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		snap, err := h.Ledger.List(r.Context(), claims.UserID, filter)
		if err != nil {
			slog.Error("failed to build live snapshot", "user", claims.Username, "error", err)
			return conn.WriteJSON(liveError{Type: "error", Error: "failed to load items"})
		}
		view := newSnapshotView(snap)
		view.Type = "snapshot"
		return conn.WriteJSON(view)
	}

	slog.Info("live feed connected", "user", claims.Username, "filter", filter)
	defer slog.Info("live feed closed", "user", claims.Username)

	if err := send(); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
			return
		case _, ok := <-notify:
			if !ok {
				return
			}
			if err := send(); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
