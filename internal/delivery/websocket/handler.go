package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"lexlink/infrastructure/ws"
	"lexlink/internal/usecase"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebsocketHandler struct {
	hub         ws.IHub
	authUc      usecase.AuthUsecase
	userUc      usecase.UserUsecase
	messagingUc usecase.MessagingUsecase
}

func NewWebsocketHandler(hub ws.IHub, authUc usecase.AuthUsecase, userUc usecase.UserUsecase, messagingUc usecase.MessagingUsecase) *WebsocketHandler {
	return &WebsocketHandler{
		hub:         hub,
		authUc:      authUc,
		userUc:      userUc,
		messagingUc: messagingUc,
	}
}

// HandleWebSocket upgrades the connection and attaches the caller as a
// live client. The caller is resolved from the access token passed as a
// query parameter, since browsers cannot set headers on websocket dials.
func (h *WebsocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authUc.ValidateAccessToken(token)
	if err != nil {
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}

	user, err := h.userUc.Get(ctx, claims.UserId)
	if err != nil {
		log.Printf("Get user error: %v", err)
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Upgrade error: %v", err)
		return
	}

	if err := h.userUc.SetOnline(ctx, user.Id, true); err != nil {
		log.Printf("Set online error: %v", err)
	}

	client := ws.NewClient(user.Id, h.hub, conn)
	h.hub.RegisterClient(client)
	h.announcePresence(user.Id, true)

	go client.WritePump()
	client.ReadPump(func(data []byte) {
		h.handleFrame(context.Background(), client, data)
	})

	h.announcePresence(user.Id, false)
}

// handleFrame routes an incoming frame to the messaging usecase. Frames
// carrying a messageId are read acknowledgements; everything else is
// treated as a send.
func (h *WebsocketHandler) handleFrame(ctx context.Context, client *ws.UserClient, data []byte) {
	var ack MessageReadAck
	if err := json.Unmarshal(data, &ack); err == nil && ack.MessageId != "" {
		if err := h.messagingUc.MarkMessageAsRead(ctx, ack.MessageId, client.UserId); err != nil {
			log.Printf("Mark message as read error: %v", err)
		}
		return
	}

	var req SendMessageRequest
	if err := json.Unmarshal(data, &req); err != nil || req.ReceiverId == "" {
		log.Printf("Unknown frame from %s", client.UserId)
		return
	}

	if _, err := h.messagingUc.SendMessage(ctx, client.UserId, req.ReceiverId, req.Content); err != nil {
		log.Printf("Send message error: %v", err)
	}
}

func (h *WebsocketHandler) announcePresence(userId string, online bool) {
	event := PresenceEvent{
		Type:   EventTypePresence,
		UserId: userId,
		Online: online,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Marshal presence event error: %v", err)
		return
	}
	h.hub.Broadcast(payload)
}
