package websocket

// SendMessageRequest is an outbound-message frame from a connected client.
type SendMessageRequest struct {
	ReceiverId string `json:"receiverId"`
	Content    string `json:"content"`
}

// MessageReadAck acknowledges that the client has displayed a message.
type MessageReadAck struct {
	MessageId string `json:"messageId"`
}
