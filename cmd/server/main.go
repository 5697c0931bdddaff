package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"lexlink/infrastructure/cache"
	"lexlink/infrastructure/db"
	"lexlink/infrastructure/ws"
	httpHandler "lexlink/internal/delivery/http"
	"lexlink/internal/delivery/websocket"
	"lexlink/internal/repository"
	"lexlink/internal/usecase"
	"lexlink/pkg/jwt"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		fmt.Println("godotenv: error loading .env file")
	}

	ctx := context.Background()

	mongoUri := os.Getenv("MONGODB_URI")
	mongoDbName := os.Getenv("MONGODB_DATABASE")
	if mongoDbName == "" {
		mongoDbName = "lexlink"
	}
	mongoStore, err := db.NewMongoStore(ctx, mongoUri, mongoDbName)
	if err != nil {
		panic(err)
	}

	log.Println("Connected to MongoDB")

	if err := repository.EnsureConversationIndexes(ctx, mongoStore.DB); err != nil {
		log.Fatalf("Ensure conversation indexes: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(mongoStore.DB)
	conversationRepo := repository.NewConversationRepository(mongoStore.DB)
	messageRepo := repository.NewMessageRepository(mongoStore.DB)
	refreshTokenRepo := repository.NewRefreshTokenRepository(mongoStore.DB)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-this-in-production" // Default for development
		log.Println("Warning: Using default JWT secret. Set JWT_SECRET in .env for production")
	}

	// Access token: 15 minutes, Refresh token: 30 days
	jwtManager := jwt.NewJWTManager(jwtSecret, 15*time.Minute, 30*24*time.Hour)

	// Expired refresh tokens are swept hourly.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := refreshTokenRepo.DeleteExpired(ctx); err != nil {
				log.Printf("Delete expired refresh tokens: %v", err)
			}
		}
	}()

	// Initialize use cases
	authUc := usecase.NewAuthUsecase(userRepo, refreshTokenRepo, jwtManager)
	userUc := usecase.NewUserUsecase(userRepo)

	// Check if Redis is enabled (multi-server presence)
	redisAddr := os.Getenv("REDIS_ADDR")

	var hub ws.IHub
	if redisAddr != "" {
		serverID := os.Getenv("SERVER_ID")
		if serverID == "" {
			serverID = "server-1"
		}

		log.Printf("Using Redis hub at %s with server ID: %s", redisAddr, serverID)
		hub = ws.NewRedisHub(redisAddr, serverID)
	} else {
		log.Println("Using in-memory hub (single server)")
		hub = ws.NewHub()
	}

	hub.SetOnClientUnregister(func(client *ws.UserClient) error {
		return userUc.HandleUnregisterClient(ctx, client.UserId)
	})

	go hub.Run()

	log.Println("Websocket hub is running")

	unreadCache := cache.NewMemCache(time.Minute)
	defer unreadCache.Close()

	notifier := websocket.NewNotifier(hub)
	messagingUc := usecase.NewMessagingUsecase(conversationRepo, messageRepo, userRepo, notifier, unreadCache)

	// CORS middleware
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "http://localhost:3000")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Initialize handlers
	websocketH := websocket.NewWebsocketHandler(hub, authUc, userUc, messagingUc)
	httpH := httpHandler.NewHttpHandler(messagingUc, userUc, hub)
	authH := httpHandler.NewAuthHandler(authUc)
	authMiddleware := httpHandler.NewAuthMiddleware(authUc)

	httpHandler.MapHttpRoutes(router, httpH, websocketH, authH, authMiddleware)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("HTTP server is running on :%s", port)

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal(err)
	}
}
