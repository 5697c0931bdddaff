package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"lexlink/infrastructure/ws"
	"lexlink/internal/repository"
	"lexlink/internal/usecase"

	"github.com/go-chi/chi/v5"
)

type HttpHandler struct {
	messagingUc usecase.MessagingUsecase
	userUc      usecase.UserUsecase
	hub         ws.IHub
}

func NewHttpHandler(messagingUc usecase.MessagingUsecase, userUc usecase.UserUsecase, hub ws.IHub) *HttpHandler {
	return &HttpHandler{
		messagingUc: messagingUc,
		userUc:      userUc,
		hub:         hub,
	}
}

type Response struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// writeError maps the usecase error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrSelfMessage),
		errors.Is(err, usecase.ErrBlankContent),
		errors.Is(err, usecase.ErrContentTooLong),
		errors.Is(err, usecase.ErrInvalidPage),
		errors.Is(err, usecase.ErrInvalidPageSize),
		errors.Is(err, usecase.ErrOwnMessageRead):
		writeJSON(w, http.StatusBadRequest, Response{Message: err.Error()})
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrConversationNotFound),
		errors.Is(err, repository.ErrMessageNotFound):
		writeJSON(w, http.StatusNotFound, Response{Message: err.Error()})
	case errors.Is(err, usecase.ErrNotParticipant):
		writeJSON(w, http.StatusForbidden, Response{Message: err.Error()})
	default:
		log.Printf("Internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, Response{Message: "internal server error"})
	}
}

// POST /messages
func (h *HttpHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	senderId, ok := CurrentUserId(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	var req struct {
		ReceiverId string `json:"receiverId"`
		Content    string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "invalid request body"})
		return
	}

	message, err := h.messagingUc.SendMessage(r.Context(), senderId, req.ReceiverId, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, Response{Message: "success", Data: message})
}

// GET /conversations
func (h *HttpHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userId, ok := CurrentUserId(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	summaries, err := h.messagingUc.GetUserConversations(r.Context(), userId)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "success", Data: summaries})
}

// GET /conversations/{conversationId}/messages?page=&size=
func (h *HttpHandler) GetConversationMessages(w http.ResponseWriter, r *http.Request) {
	userId, ok := CurrentUserId(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}
	conversationId := chi.URLParam(r, "conversationId")

	page := queryInt(r, "page", 0)
	size := queryInt(r, "size", 20)

	result, err := h.messagingUc.GetConversationMessages(r.Context(), conversationId, userId, page, size)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "success", Data: result})
}

// POST /conversations/{conversationId}/read
func (h *HttpHandler) MarkConversationAsRead(w http.ResponseWriter, r *http.Request) {
	userId, ok := CurrentUserId(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}
	conversationId := chi.URLParam(r, "conversationId")

	if err := h.messagingUc.MarkConversationAsRead(r.Context(), conversationId, userId); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "success"})
}

// POST /messages/{messageId}/read
func (h *HttpHandler) MarkMessageAsRead(w http.ResponseWriter, r *http.Request) {
	userId, ok := CurrentUserId(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}
	messageId := chi.URLParam(r, "messageId")

	if err := h.messagingUc.MarkMessageAsRead(r.Context(), messageId, userId); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "success"})
}

// GET /messages/unread-count
func (h *HttpHandler) GetTotalUnreadCount(w http.ResponseWriter, r *http.Request) {
	userId, ok := CurrentUserId(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "unauthorized"})
		return
	}

	total, err := h.messagingUc.GetTotalUnreadCount(r.Context(), userId)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "success", Data: map[string]int64{"unreadCount": total}})
}

// GET /user/{id}
func (h *HttpHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userId := chi.URLParam(r, "id")

	user, err := h.userUc.Get(r.Context(), userId)
	if err != nil {
		writeError(w, err)
		return
	}
	user.Password = ""

	writeJSON(w, http.StatusOK, Response{Message: "success", Data: user})
}

// GET /presence/connections
func (h *HttpHandler) GetConnectionCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response{
		Message: "success",
		Data:    map[string]int{"activeConnections": h.hub.GetClientCount()},
	})
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
