package bridge

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nkarlsen/lyngctl/internal/protocol"
)

// stubCommander answers commands from a fixed table and exposes a real
// dispatcher so tests can push updates
type stubCommander struct {
	dispatcher *protocol.Dispatcher
	replies    map[string]string
}

func newStubCommander() *stubCommander {
	return &stubCommander{
		dispatcher: protocol.NewDispatcher(),
		replies:    map[string]string{"!PING?": "!PONG"},
	}
}

func (s *stubCommander) Raw(ctx context.Context, command string, wait bool) (string, error) {
	if !wait {
		return "", nil
	}
	return s.replies[command], nil
}

func (s *stubCommander) Subscribe(kind protocol.Kind, handler protocol.Handler) protocol.Subscription {
	return s.dispatcher.Subscribe(kind, handler)
}

func (s *stubCommander) Unsubscribe(sub protocol.Subscription) {
	s.dispatcher.Unsubscribe(sub)
}

func (s *stubCommander) Endpoint() string { return "stub:84" }
func (s *stubCommander) Connected() bool  { return true }

func dialTestBridge(t *testing.T) (*stubCommander, *websocket.Conn) {
	t.Helper()

	commander := newStubCommander()
	srv := New(Config{Addr: ":0"}, commander)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	// Wire the update relay the way Run does
	sub := commander.Subscribe(protocol.KindAny, srv.onUpdate)
	t.Cleanup(func() { commander.Unsubscribe(sub) })

	ts := httptest.NewServer(srv.Handler(ctx))
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial(%s): %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })

	return commander, conn
}

func TestBridgePushesUpdates(t *testing.T) {
	commander, conn := dialTestBridge(t)

	// Give the hub a moment to register the client
	time.Sleep(50 * time.Millisecond)

	commander.dispatcher.Dispatch(protocol.StateUpdate{
		Kind:   protocol.KindVolume,
		Raw:    "!VOL(-300)",
		Fields: []string{"-300"},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}

	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("Unmarshal(%s): %v", data, err)
	}
	if ev.Type != "update" || ev.Kind != "volume" || ev.Raw != "!VOL(-300)" {
		t.Errorf("event = %+v", ev)
	}
	if len(ev.Fields) != 1 || ev.Fields[0] != "-300" {
		t.Errorf("event fields = %v", ev.Fields)
	}
}

func TestBridgeRelaysCommands(t *testing.T) {
	_, conn := dialTestBridge(t)

	req := CommandRequest{ID: "42", Command: "!PING?", Wait: true}
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var resp CommandResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if resp.Type != "response" || resp.ID != "42" || resp.Reply != "!PONG" || resp.Error != "" {
		t.Errorf("response = %+v", resp)
	}
}

func TestBridgeRejectsMalformedRequest(t *testing.T) {
	_, conn := dialTestBridge(t)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var resp CommandResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if resp.Error == "" {
		t.Errorf("response = %+v, want error", resp)
	}
}

func TestBridgeEmptyCommand(t *testing.T) {
	_, conn := dialTestBridge(t)

	if err := conn.WriteJSON(CommandRequest{ID: "1"}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var resp CommandResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if resp.ID != "1" || resp.Error == "" {
		t.Errorf("response = %+v, want error with id 1", resp)
	}
}
