package http

import (
	"net/http"

	wsDelivery "lexlink/internal/delivery/websocket"

	"github.com/go-chi/chi/v5"
)

func MapHttpRoutes(r *chi.Mux, httpHandler *HttpHandler, websocketHandler *wsDelivery.WebsocketHandler, authHandler *AuthHandler, authMiddleware *AuthMiddleware) {
	r.Handle("/ws", http.HandlerFunc(websocketHandler.HandleWebSocket))

	// Auth routes (public)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", http.HandlerFunc(authHandler.Register))
		r.Post("/login", http.HandlerFunc(authHandler.Login))
		r.Post("/refresh", http.HandlerFunc(authHandler.RefreshToken))
		r.Post("/logout", http.HandlerFunc(authHandler.Logout))

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/logout-all", http.HandlerFunc(authHandler.LogoutAllDevices))
		})
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Route("/messages", func(r chi.Router) {
			r.Post("/", http.HandlerFunc(httpHandler.SendMessage))
			r.Get("/unread-count", http.HandlerFunc(httpHandler.GetTotalUnreadCount))
			r.Post("/{messageId}/read", http.HandlerFunc(httpHandler.MarkMessageAsRead))
		})

		r.Route("/conversations", func(r chi.Router) {
			r.Get("/", http.HandlerFunc(httpHandler.ListConversations))
			r.Get("/{conversationId}/messages", http.HandlerFunc(httpHandler.GetConversationMessages))
			r.Post("/{conversationId}/read", http.HandlerFunc(httpHandler.MarkConversationAsRead))
		})

		r.Route("/user", func(r chi.Router) {
			r.Get("/{id}", http.HandlerFunc(httpHandler.GetUser))
		})

		r.Get("/presence/connections", http.HandlerFunc(httpHandler.GetConnectionCount))
	})
}
