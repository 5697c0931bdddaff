package ws

import (
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func TestHub_RegisterAndPresence(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient("alice", hub, nil)
	hub.RegisterClient(client)

	waitFor(t, func() bool { return hub.IsConnected("alice") })

	if hub.IsConnected("bob") {
		t.Errorf("bob should not be connected")
	}
	if n := hub.GetClientCount(); n != 1 {
		t.Errorf("client count = %d, want 1", n)
	}
}

func TestHub_SendToClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient("alice", hub, nil)
	hub.RegisterClient(client)
	waitFor(t, func() bool { return hub.IsConnected("alice") })

	hub.SendToClient("alice", []byte("hello"))

	select {
	case got := <-client.send:
		if string(got) != "hello" {
			t.Errorf("payload = %q, want hello", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("nothing delivered")
	}

	// Unknown recipient: fire-and-forget no-op, must not panic or block.
	hub.SendToClient("nobody", []byte("dropped"))
}

func TestHub_UnregisterRunsCallback(t *testing.T) {
	hub := NewHub()

	unregistered := make(chan string, 1)
	hub.SetOnClientUnregister(func(client *UserClient) error {
		unregistered <- client.UserId
		return nil
	})
	go hub.Run()

	client := NewClient("alice", hub, nil)
	hub.RegisterClient(client)
	waitFor(t, func() bool { return hub.IsConnected("alice") })

	hub.UnregisterClient(client)

	select {
	case userId := <-unregistered:
		if userId != "alice" {
			t.Errorf("callback for %q, want alice", userId)
		}
	case <-time.After(time.Second):
		t.Fatalf("unregister callback never ran")
	}

	waitFor(t, func() bool { return !hub.IsConnected("alice") })
	if n := hub.GetClientCount(); n != 0 {
		t.Errorf("client count = %d, want 0", n)
	}
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := NewClient("alice", hub, nil)
	bob := NewClient("bob", hub, nil)
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)
	waitFor(t, func() bool { return hub.GetClientCount() == 2 })

	hub.Broadcast([]byte("everyone"))

	for _, client := range []*UserClient{alice, bob} {
		select {
		case got := <-client.send:
			if string(got) != "everyone" {
				t.Errorf("payload = %q, want everyone", got)
			}
		case <-time.After(time.Second):
			t.Fatalf("broadcast not delivered to %s", client.UserId)
		}
	}
}
