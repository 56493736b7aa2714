package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rickgao/share-dashboard/internal/display"
	"github.com/rickgao/share-dashboard/internal/feed"
	"github.com/rickgao/share-dashboard/internal/metrics"
)

const (
	// Time allowed to write one message to a viewer.
	writeWait = 10 * time.Second

	// Time allowed between pongs from a viewer.
	pongWait = 60 * time.Second

	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Viewers never send data; anything larger is a protocol error.
	maxViewerMessage = 512
)

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		s.logger.Debug("websocket upgrade failed", "err", err)
		return
	}

	s.viewers.Add(1)
	defer s.viewers.Done()

	metrics.IncLiveViewers()
	defer metrics.DecLiveViewers()

	logger := s.logger.With("remote", r.RemoteAddr)
	logger.Debug("viewer connected")
	s.serveViewer(conn)
	logger.Debug("viewer disconnected")
}

// serveViewer pushes frames to one connection until it closes or the server
// shuts down. All data writes happen on this goroutine.
func (s *Server) serveViewer(conn *websocket.Conn) {
	defer conn.Close()

	// Subscribe before reading the current frame so no replacement is missed.
	frames, cancel := s.surface.Subscribe()
	defer cancel()

	readDone := make(chan struct{})
	go readPump(conn, readDone)

	var lastSent uuid.UUID
	send := func(f display.Frame) bool {
		if f.CycleID == lastSent {
			return true
		}
		if err := writeFrame(conn, f); err != nil {
			s.logger.Debug("viewer write failed", "err", err)
			return false
		}
		lastSent = f.CycleID
		return true
	}

	if f, ok := s.surface.Current(); ok {
		if !send(f) {
			return
		}
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			_ = conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait),
			)
			return
		case <-readDone:
			return
		case f := <-frames:
			if !send(f) {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, []byte("keepalive"), time.Now().Add(writeWait)); err != nil {
				s.logger.Debug("viewer ping failed", "err", err)
				return
			}
		}
	}
}

// readPump drains control frames so pong and close handlers run.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxViewerMessage)
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

func writeFrame(conn *websocket.Conn, f display.Frame) error {
	data, err := json.Marshal(feed.NewMessage(f))
	if err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
