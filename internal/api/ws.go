package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/udisondev/ragecalc/internal/session"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// damageMessage is pushed on connect and after each state change.
type damageMessage struct {
	Type   string            `json:"type"`
	Event  session.EventKind `json:"event"`
	Seq    uint64            `json:"seq"`
	Damage []damageView      `json:"damage"`
}

// handleWS upgrades the connection and streams the damage table until the
// client disconnects or the server shuts down.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	events, cancel := s.sessions.Subscribe()
	defer cancel()

	// reader: discards client frames, handles pongs, detects close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(4096)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	lang := r.URL.Query().Get("lang")
	send := func(ev session.Event) error {
		l := lang
		if l == "" {
			l = s.sessions.Settings().Language
		}
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(damageMessage{
			Type:   "damage",
			Event:  ev.Kind,
			Seq:    ev.Seq,
			Damage: s.damageTable(l),
		})
	}

	if err := send(session.Event{Kind: session.EventLoaded}); err != nil {
		return
	}

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(wsWriteWait))
			return
		case <-closed:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := send(ev); err != nil {
				slog.Debug("websocket write", "error", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
