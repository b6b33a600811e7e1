package httpapi

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/thesibtainrazza/smart-city-dashboard/internal/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The browser dashboard runs on its own origin.
	CheckOrigin: func(*http.Request) bool { return true },
}

// liveMessage is one websocket frame: the full buffer snapshot after a tick.
type liveMessage struct {
	State    string         `json:"state"`
	Readings []live.Reading `json:"readings"`
}

// handleLive upgrades the connection and streams one simulation run over
// it. The run's buffer is owned by this handler alone; the client closing
// the socket cancels the run at the next tick boundary. Filter query
// parameters scope the seed rows the same way /api/readings does.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	res, err := s.store.Get()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	criteria, err := parseCriteria(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	view := s.filter(res, criteria)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The client never sends data frames; reads exist to notice the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	buf := live.NewBuffer()
	buf.Seed(view, res.Schema, s.seedRows)

	// Send the seeded state before the first tick so the client can render
	// history immediately.
	if err := conn.WriteJSON(liveMessage{State: buf.State().String(), Readings: buf.Snapshot()}); err != nil {
		return
	}

	runner := s.newRunner()
	err = runner.Run(ctx, buf, func(snapshot []live.Reading) error {
		return conn.WriteJSON(liveMessage{State: live.StateStreaming.String(), Readings: snapshot})
	})
	if err != nil {
		// Emit failures mean the client went away mid-run; nothing to do.
		return
	}

	// Final frame marks the run finished unless the client is already gone.
	_ = conn.WriteJSON(liveMessage{State: live.StateFinished.String(), Readings: buf.Snapshot()})
}
