package websocket

import "lexlink/internal/entity"

const (
	EventTypeMessage  = "message"
	EventTypePresence = "presence"
)

// MessageEvent is the frame pushed to a recipient on new-message delivery.
type MessageEvent struct {
	Type    string         `json:"type"`
	Message entity.Message `json:"message"`
}

// PresenceEvent announces a user going online or offline.
type PresenceEvent struct {
	Type   string `json:"type"`
	UserId string `json:"userId"`
	Online bool   `json:"online"`
}
