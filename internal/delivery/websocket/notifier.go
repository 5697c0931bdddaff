package websocket

import (
	"encoding/json"
	"fmt"

	"lexlink/infrastructure/ws"
	"lexlink/internal/entity"
)

// Notifier adapts the hub into the messaging usecase's delivery port.
// Delivery is fire-and-forget: recipients without a live connection are
// skipped, nothing is queued or retried.
type Notifier struct {
	hub ws.IHub
}

func NewNotifier(hub ws.IHub) *Notifier {
	return &Notifier{
		hub: hub,
	}
}

func (n *Notifier) IsConnected(userId string) bool {
	return n.hub.IsConnected(userId)
}

func (n *Notifier) Deliver(userId string, message entity.Message) error {
	if !n.hub.IsConnected(userId) {
		return nil
	}

	event := MessageEvent{
		Type:    EventTypeMessage,
		Message: message,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal message event: %w", err)
	}

	n.hub.SendToClient(userId, payload)
	return nil
}
