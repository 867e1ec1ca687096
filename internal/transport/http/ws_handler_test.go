package http

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/vovakirdan/linechat-server/internal/core"
)

func waitEvent(t *testing.T, c *core.Client, kind core.EventKind) *core.Event {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-c.Events:
			if !ok {
				t.Fatalf("event channel closed while waiting for kind %v", kind)
			}
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("expected event kind %v not received", kind)
		}
	}
}

func wsDial(t *testing.T, ctx context.Context, url, username string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.Dial(ctx, strings.Replace(url, "http", "ws", 1)+"/ws", nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "test done") })

	if err := conn.Write(ctx, websocket.MessageText, []byte(username)); err != nil {
		t.Fatalf("send username: %v", err)
	}
	return conn
}

func wsExpect(t *testing.T, ctx context.Context, conn *websocket.Conn, want string) {
	t.Helper()

	rctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_, data, err := conn.Read(rctx)
	if err != nil {
		t.Fatalf("waiting for %q: %v", want, err)
	}
	if got := string(data); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWSBridgeSpeaksLineProtocol(t *testing.T) {
	hub := startHub(t)
	ts := newTestServer(t, hub)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := wsDial(t, ctx, ts.URL, "alice")

	// Sync on the registration before attaching the in-process peer.
	if err := conn.Write(ctx, websocket.MessageText, []byte("CHECK_ONLINE_PARTICIPANTS")); err != nil {
		t.Fatalf("send: %v", err)
	}
	wsExpect(t, ctx, conn, "ONLINE_PARTICIPANTS alice")

	bob := login(t, hub, "b", "bob")
	wsExpect(t, ctx, conn, "User bob has joined the chat.")

	// TCP-style traffic reaches the websocket client and vice versa.
	hub.Submit(bob, &core.Command{Kind: core.CommandBroadcast, Text: "hello ws"})
	wsExpect(t, ctx, conn, "bob: hello ws")

	if err := conn.Write(ctx, websocket.MessageText, []byte("MESSAGE hi tcp")); err != nil {
		t.Fatalf("send: %v", err)
	}
	ev := waitEvent(t, bob, core.EventChat)
	if ev.User != "alice" || ev.Text != "hi tcp" {
		t.Fatalf("unexpected chat event: %+v", ev)
	}
}

func TestWSDuplicateUsernameRejected(t *testing.T) {
	hub := startHub(t)
	ts := newTestServer(t, hub)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	login(t, hub, "a", "alice")

	conn := wsDial(t, ctx, ts.URL, "alice")
	wsExpect(t, ctx, conn, "Username alice is already taken.")
}

func TestWSLogout(t *testing.T) {
	hub := startHub(t)
	ts := newTestServer(t, hub)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := wsDial(t, ctx, ts.URL, "alice")
	if err := conn.Write(ctx, websocket.MessageText, []byte("CHECK_ONLINE_PARTICIPANTS")); err != nil {
		t.Fatalf("send: %v", err)
	}
	wsExpect(t, ctx, conn, "ONLINE_PARTICIPANTS alice")

	if err := conn.Write(ctx, websocket.MessageText, []byte("LOGOUT")); err != nil {
		t.Fatalf("send: %v", err)
	}
	wsExpect(t, ctx, conn, "LOGOUT")
}
