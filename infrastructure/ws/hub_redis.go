package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisHub is the multi-server presence registry. Local connections live
// in memory; Redis keys record which server holds each user, and pub/sub
// relays pushes for users connected elsewhere.
type RedisHub struct {
	clients map[string]*UserClient
	mu      sync.RWMutex

	redisClient *redis.Client
	pubsub      *redis.PubSub
	serverID    string

	Register           chan *UserClient
	Unregister         chan *UserClient
	broadcast          chan []byte
	OnClientUnregister func(client *UserClient) error
}

type redisEnvelope struct {
	FromServerID string `json:"fromServerId"`
	ToUserID     string `json:"toUserId"`
	Payload      []byte `json:"payload"`
}

func NewRedisHub(redisAddr, serverID string) *RedisHub {
	client := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	return &RedisHub{
		clients:     make(map[string]*UserClient),
		redisClient: client,
		pubsub:      client.PSubscribe(context.Background(), "delivery:*"),
		serverID:    serverID,
		Register:    make(chan *UserClient),
		Unregister:  make(chan *UserClient),
		broadcast:   make(chan []byte, 256),
	}
}

func (h *RedisHub) Run() {
	go h.subscribeRedis()

	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client.UserId] = client
			h.mu.Unlock()

			// Record which server holds this user.
			h.redisClient.Set(
				context.Background(),
				presenceKey(client.UserId),
				h.serverID,
				0,
			)

			log.Printf("[%s] %s connected", h.serverID, client.UserId)

		case client := <-h.Unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.UserId]; ok && current == client {
				delete(h.clients, client.UserId)
				close(client.send)

				h.redisClient.Del(
					context.Background(),
					presenceKey(client.UserId),
				)

				log.Printf("[%s] %s disconnected", h.serverID, client.UserId)
			}
			h.mu.Unlock()

			if h.OnClientUnregister != nil {
				if err := h.OnClientUnregister(client); err != nil {
					log.Printf("OnClientUnregister error: %v", err)
				}
			}

		case message := <-h.broadcast:
			h.broadcastLocal(message)
		}
	}
}

func (h *RedisHub) subscribeRedis() {
	ch := h.pubsub.Channel()

	log.Printf("[%s] Redis subscriber started", h.serverID)

	for msg := range ch {
		var envelope redisEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			log.Printf("Error unmarshaling Redis message: %v", err)
			continue
		}

		// Skip our own publishes.
		if envelope.FromServerID == h.serverID {
			continue
		}

		h.mu.RLock()
		_, existsLocally := h.clients[envelope.ToUserID]
		h.mu.RUnlock()
		if !existsLocally {
			continue
		}

		h.SendToClient(envelope.ToUserID, envelope.Payload)
	}
}

// SendToClient pushes to a local client if the user is connected here,
// otherwise relays through Redis for whichever server holds the user.
func (h *RedisHub) SendToClient(userID string, message []byte) {
	h.mu.RLock()
	client, existsLocally := h.clients[userID]
	h.mu.RUnlock()

	if existsLocally {
		select {
		case client.send <- message:
		default:
			log.Printf("[%s] Failed to send to local client %s", h.serverID, userID)
		}
		return
	}

	h.publishToRedis(userID, message)
}

func (h *RedisHub) publishToRedis(userID string, message []byte) {
	ctx := context.Background()

	envelope := redisEnvelope{
		FromServerID: h.serverID,
		ToUserID:     userID,
		Payload:      message,
	}

	msgBytes, err := json.Marshal(envelope)
	if err != nil {
		log.Printf("Error marshaling Redis message: %v", err)
		return
	}

	if err := h.redisClient.Publish(ctx, "delivery:"+userID, msgBytes).Err(); err != nil {
		log.Printf("Error publishing to Redis: %v", err)
	}
}

func (h *RedisHub) broadcastLocal(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for userId, client := range h.clients {
		select {
		case client.send <- message:
		default:
			log.Printf("Broadcast dropped for client: %s", userId)
		}
	}
}

func (h *RedisHub) Broadcast(message []byte) {
	h.broadcast <- message
}

// IsConnected checks local connections first, then the presence key other
// servers maintain in Redis.
func (h *RedisHub) IsConnected(userID string) bool {
	h.mu.RLock()
	_, existsLocally := h.clients[userID]
	h.mu.RUnlock()
	if existsLocally {
		return true
	}

	n, err := h.redisClient.Exists(context.Background(), presenceKey(userID)).Result()
	if err != nil {
		log.Printf("Presence lookup error for %s: %v", userID, err)
		return false
	}
	return n > 0
}

func (h *RedisHub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *RedisHub) RegisterClient(client *UserClient) {
	h.Register <- client
}

func (h *RedisHub) UnregisterClient(client *UserClient) {
	h.Unregister <- client
}

func (h *RedisHub) SetOnClientUnregister(callback func(client *UserClient) error) {
	h.OnClientUnregister = callback
}

func presenceKey(userID string) string {
	return "user:" + userID + ":server"
}
