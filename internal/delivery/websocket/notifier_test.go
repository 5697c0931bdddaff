package websocket

import (
	"encoding/json"
	"testing"

	"lexlink/infrastructure/ws"
	"lexlink/internal/entity"
)

type fakeHub struct {
	connected map[string]bool
	sent      map[string][][]byte
}

func newFakeHub(connected ...string) *fakeHub {
	h := &fakeHub{
		connected: make(map[string]bool),
		sent:      make(map[string][][]byte),
	}
	for _, userId := range connected {
		h.connected[userId] = true
	}
	return h
}

func (h *fakeHub) Run()                            {}
func (h *fakeHub) RegisterClient(c *ws.UserClient) {}
func (h *fakeHub) UnregisterClient(c *ws.UserClient) {
}
func (h *fakeHub) SendToClient(userID string, message []byte) {
	h.sent[userID] = append(h.sent[userID], message)
}
func (h *fakeHub) Broadcast(message []byte)          {}
func (h *fakeHub) IsConnected(userID string) bool    { return h.connected[userID] }
func (h *fakeHub) GetClientCount() int               { return len(h.connected) }
func (h *fakeHub) SetOnClientUnregister(func(client *ws.UserClient) error) {
}

func TestNotifier_DeliversToConnectedUser(t *testing.T) {
	hub := newFakeHub("bob")
	n := NewNotifier(hub)

	message := entity.Message{Id: "m1", SenderId: "alice", Content: "hi"}
	if err := n.Deliver("bob", message); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	frames := hub.sent["bob"]
	if len(frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(frames))
	}

	var event MessageEvent
	if err := json.Unmarshal(frames[0], &event); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	if event.Type != EventTypeMessage || event.Message.Id != "m1" {
		t.Errorf("event = %+v", event)
	}
}

func TestNotifier_SkipsDisconnectedUser(t *testing.T) {
	hub := newFakeHub()
	n := NewNotifier(hub)

	if err := n.Deliver("bob", entity.Message{Id: "m1"}); err != nil {
		t.Fatalf("Deliver to offline user must be a silent no-op, got %v", err)
	}
	if len(hub.sent["bob"]) != 0 {
		t.Fatalf("frame pushed to offline user")
	}
}
