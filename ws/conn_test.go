package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"guesswho-client/clienterrors"
	"guesswho-client/protocol"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// testServer upgrades one connection and hands it to the test.
func testServer(t *testing.T) (*httptest.Server, <-chan *websocket.Conn) {
	t.Helper()
	conns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		conns <- conn
	}))
	t.Cleanup(srv.Close)
	return srv, conns
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func accept(t *testing.T, conns <-chan *websocket.Conn) *websocket.Conn {
	t.Helper()
	select {
	case c := <-conns:
		t.Cleanup(func() { c.Close() })
		return c
	case <-time.After(3 * time.Second):
		t.Fatal("server never accepted a connection")
		return nil
	}
}

func TestDialReceivesEnvelopes(t *testing.T) {
	srv, conns := testServer(t)
	c, err := Dial(context.Background(), wsURL(srv), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	server := accept(t, conns)

	server.WriteMessage(websocket.TextMessage, []byte(`garbage`))
	server.WriteMessage(websocket.TextMessage, []byte(`{"event":"update game","data":{}}`))

	select {
	case env := <-c.Inbound():
		if env.Event != protocol.EventUpdateGame {
			t.Errorf("expected update game, got %q", env.Event)
		}
		if string(env.Data) != "{}" {
			t.Errorf("unexpected data %s", env.Data)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no envelope received")
	}
}

func TestEmitReachesServer(t *testing.T) {
	srv, conns := testServer(t)
	c, err := Dial(context.Background(), wsURL(srv), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	server := accept(t, conns)

	if err := c.Emit(protocol.EventFlipCard, protocol.CellMsg{RoomID: "r", Row: 2, Col: 3}); err != nil {
		t.Fatal(err)
	}

	server.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := server.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	var env protocol.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatal(err)
	}
	if env.Event != protocol.EventFlipCard {
		t.Errorf("expected flip card, got %q", env.Event)
	}
	var msg protocol.CellMsg
	json.Unmarshal(env.Data, &msg)
	if msg != (protocol.CellMsg{RoomID: "r", Row: 2, Col: 3}) {
		t.Errorf("unexpected payload %+v", msg)
	}
}

func TestDoneWhenServerCloses(t *testing.T) {
	srv, conns := testServer(t)
	c, err := Dial(context.Background(), wsURL(srv), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	server := accept(t, conns)
	server.Close()

	select {
	case <-c.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("Done not closed after server hung up")
	}
	if err := c.Emit(protocol.EventHeartbeat, nil); !errors.Is(err, clienterrors.ErrDisconnected) {
		t.Errorf("expected ErrDisconnected, got %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	srv, conns := testServer(t)
	c, err := Dial(context.Background(), wsURL(srv), nil)
	if err != nil {
		t.Fatal(err)
	}
	accept(t, conns)

	c.Close()
	c.Close()
	if err := c.Emit(protocol.EventHeartbeat, nil); !errors.Is(err, clienterrors.ErrDisconnected) {
		t.Errorf("expected ErrDisconnected after Close, got %v", err)
	}
}

func TestDialFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := Dial(ctx, "ws://127.0.0.1:1/ws", nil); err == nil {
		t.Error("expected dial error")
	}
}
