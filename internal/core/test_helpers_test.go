package core

import (
	"testing"
	"time"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
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

// mustNoEvent asserts that no event of the given kind arrives within a
// short window. Other kinds (join notices etc.) are ignored.
func mustNoEvent(t *testing.T, ch <-chan *Event, kind EventKind) {
	t.Helper()

	deadline := time.After(200 * time.Millisecond)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if ev.Kind == kind {
				t.Fatalf("unexpected event: %+v", ev)
			}
		case <-deadline:
			return
		}
	}
}

// waitClosed drains the channel until the hub closes it, proving the
// unregister has been fully applied.
func waitClosed(t *testing.T, ch <-chan *Event) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("expected event channel to close")
		}
	}
}

func mustLogin(t *testing.T, hub *Hub, id, name string) *Client {
	t.Helper()

	c := NewClient(id)
	if cerr := hub.Login(c, name); cerr != nil {
		t.Fatalf("login %s failed: %v", name, cerr)
	}
	return c
}
