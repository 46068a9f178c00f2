package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nadzzz/talkboard/internal/orchestrator"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// The board UI is served from the device itself or a LAN tablet.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsCommand is a client message on /ws.
type wsCommand struct {
	Type string `json:"type"` // "ping" or "stop"
}

// handleEvents streams orchestrator events as JSON text frames. The first
// frame is the current state. Clients may send {"type":"stop"} to halt
// playback and {"type":"ping"} to get a "pong".
func (a *api) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, unsubscribe := a.svc.Speech.Subscribe()
	defer unsubscribe()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	logger := slog.With("remote", conn.RemoteAddr().String(), "request_id", requestID(r.Context()))
	logger.Info("websocket connected")

	commands := make(chan wsCommand)
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(4096)
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			var cmd wsCommand
			if err := conn.ReadJSON(&cmd); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Warn("websocket read failed", "error", err)
				}
				return
			}
			select {
			case commands <- cmd:
			case <-r.Context().Done():
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	send := func(v any) bool {
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(v); err != nil {
			logger.Debug("websocket write failed", "error", err)
			return false
		}
		return true
	}

	status := a.svc.Speech.Status()
	if !send(orchestrator.Event{Type: orchestrator.EventState, State: status.State, Backend: status.Backend, Time: time.Now().UTC()}) {
		return
	}

	for {
		select {
		case e, ok := <-events:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(wsWriteWait))
				return
			}
			if !send(e) {
				return
			}
		case cmd := <-commands:
			switch cmd.Type {
			case "stop":
				if err := a.svc.Speech.Stop(r.Context()); err != nil {
					logger.Warn("stop from websocket failed", "error", err)
				}
			case "ping":
				if !send(map[string]string{"type": "pong"}) {
					return
				}
			default:
				if !send(map[string]string{"type": "error", "message": "unknown command " + cmd.Type}) {
					return
				}
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			logger.Info("websocket disconnected")
			return
		}
	}
}
