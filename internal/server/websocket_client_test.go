package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// echoPair starts a WebSocket server running serve and returns a client
// connected to it.
func echoPair(t *testing.T, serve func(conn *websocket.Conn)) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Failed to upgrade: %v", err)
			return
		}
		defer conn.Close()
		serve(conn)
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketClient_ReadLine_SkipsEmptyMessages(t *testing.T) {
	conn := echoPair(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(""))
		conn.WriteMessage(websocket.TextMessage, []byte("   "))
		conn.WriteMessage(websocket.TextMessage, []byte("\n\n\n"))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"op":"summary"}`))
		time.Sleep(100 * time.Millisecond)
	})

	line, err := NewWebSocketClient(conn).ReadLine()
	if err != nil {
		t.Fatalf("ReadLine failed: %v", err)
	}
	if line != `{"op":"summary"}` {
		t.Errorf("ReadLine = %q", line)
	}
}

func TestWebSocketClient_ReadLine_BatchedLines(t *testing.T) {
	conn := echoPair(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte("{\"id\":\"1\"}\n  {\"id\":\"2\"}  \n\n{\"id\":\"3\"}"))
		time.Sleep(100 * time.Millisecond)
	})

	client := NewWebSocketClient(conn)
	for _, want := range []string{`{"id":"1"}`, `{"id":"2"}`, `{"id":"3"}`} {
		line, err := client.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine failed: %v", err)
		}
		if line != want {
			t.Errorf("ReadLine = %q, want %q", line, want)
		}
	}
}

func TestWebSocketClient_WriteJSON(t *testing.T) {
	received := make(chan string, 1)
	conn := echoPair(t, func(conn *websocket.Conn) {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		received <- string(msg)
	})

	client := NewWebSocketClient(conn)
	if err := client.WriteJSON(map[string]int{"x": 4}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	select {
	case msg := <-received:
		if strings.TrimSpace(msg) != `{"x":4}` {
			t.Errorf("received %q", msg)
		}
	case <-time.After(time.Second):
		t.Error("Timeout waiting for message")
	}
}

func TestWebSocketClient_RemoteAddr(t *testing.T) {
	done := make(chan struct{})
	conn := echoPair(t, func(conn *websocket.Conn) { <-done })
	defer close(done)

	if addr := NewWebSocketClient(conn).RemoteAddr(); addr == "" {
		t.Error("RemoteAddr should not be empty")
	}
}
