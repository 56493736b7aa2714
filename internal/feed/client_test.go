package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rickgao/share-dashboard/internal/display"
	"github.com/rickgao/share-dashboard/internal/model"
	"github.com/rickgao/share-dashboard/internal/render"
)

// mockWSServer creates a test WebSocket server.
func mockWSServer(t *testing.T, handler func(*websocket.Conn)) *httptest.Server {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(server.Close)

	return server
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func testFrame() display.Frame {
	tbl := render.Build(
		[]model.Share{
			{Name: "finance", QuotaGB: 500, IOPS: 1200, BandwidthMiB: 340.25, LatencyMs: 2.3, Transactions: 981234},
			{Name: "hr", QuotaGB: 10},
		},
		model.AnomalyMap{"finance": "Quota near limit"},
	)
	return display.Frame{
		CycleID:   uuid.New(),
		Table:     tbl,
		HTML:      tbl.HTML(),
		UpdatedAt: time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestMessage_Table(t *testing.T) {
	f := testFrame()
	msg := NewMessage(f)

	if msg.CycleID != f.CycleID.String() {
		t.Errorf("CycleID = %q, want %q", msg.CycleID, f.CycleID)
	}
	if msg.Alerts != 1 {
		t.Errorf("Alerts = %d, want 1", msg.Alerts)
	}

	got := msg.Table()
	if got.HTML() != f.HTML {
		t.Errorf("rebuilt table HTML differs:\n%s\nwant\n%s", got.HTML(), f.HTML)
	}
}

func TestClient_ReceivesMessages(t *testing.T) {
	f := testFrame()
	server := mockWSServer(t, func(conn *websocket.Conn) {
		data, err := json.Marshal(NewMessage(f))
		if err != nil {
			t.Errorf("marshal: %v", err)
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
		// Keep the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	cfg := DefaultClientConfig()
	cfg.URL = wsURL(server)
	client := NewClient(cfg, nil)

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	if !client.IsConnected() {
		t.Error("expected IsConnected to return true")
	}

	// The undecodable frame is skipped.
	select {
	case msg := <-client.Messages():
		if msg.CycleID != f.CycleID.String() {
			t.Errorf("CycleID = %q, want %q", msg.CycleID, f.CycleID)
		}
		if len(msg.Rows) != 2 || msg.Rows[0][6] != "⚠ Quota near limit" {
			t.Errorf("Rows = %v", msg.Rows)
		}
		if !msg.UpdatedAt.Equal(f.UpdatedAt) {
			t.Errorf("UpdatedAt = %v, want %v", msg.UpdatedAt, f.UpdatedAt)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestClient_Close(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	cfg := DefaultClientConfig()
	cfg.URL = wsURL(server)
	client := NewClient(cfg, nil)

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if client.IsConnected() {
		t.Error("expected IsConnected to return false after Close")
	}
	if err := client.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	if err := client.Connect(context.Background()); !errors.Is(err, ErrAlreadyClosed) {
		t.Errorf("Connect after Close = %v, want ErrAlreadyClosed", err)
	}
}

func TestClient_ServerClose(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
	})

	cfg := DefaultClientConfig()
	cfg.URL = wsURL(server)
	client := NewClient(cfg, nil)

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	select {
	case err := <-client.Errors():
		if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
			t.Errorf("error = %v, want going-away close", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for close error")
	}
}

func TestClient_StaleConnection(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		// Never ping, never send.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	cfg := DefaultClientConfig()
	cfg.URL = wsURL(server)
	cfg.PingTimeout = 100 * time.Millisecond
	client := NewClient(cfg, nil)

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	select {
	case err := <-client.Errors():
		if !errors.Is(err, ErrStaleConnection) {
			t.Errorf("error = %v, want ErrStaleConnection", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for stale connection")
	}
}

func TestClient_ConnectFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	cfg := DefaultClientConfig()
	cfg.URL = wsURL(server)
	client := NewClient(cfg, nil)

	if err := client.Connect(context.Background()); err == nil {
		t.Fatal("Connect expected error against non-websocket endpoint")
	}
	if client.IsConnected() {
		t.Error("expected IsConnected to return false")
	}
}
