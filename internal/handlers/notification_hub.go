// taskhive/internal/handlers/notification_hub.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"taskhive/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Для разработки разрешаем все источники
	},
}

// GlobalHub - единственный экземпляр хаба уведомлений для всего приложения.
var GlobalHub = NewHub()

// pushMessage - формат сообщения, отправляемого клиенту по websocket.
type pushMessage struct {
	Type    string              `json:"type"`
	Payload models.Notification `json:"payload"`
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID uint
}

// Hub раздает уведомления подключенным пользователям.
// Каждый пользователь может иметь не более одного активного подключения.
type Hub struct {
	clients    map[uint]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uint]*Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.userID] = client
			h.mu.Unlock()
			slog.Info("Notification client registered", "userID", client.userID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.userID]; ok {
				delete(h.clients, client.userID)
				close(client.send)
			}
			h.mu.Unlock()
			slog.Info("Notification client unregistered", "userID", client.userID)
		}
	}
}

// Push отправляет уведомление пользователю, если тот подключен.
// Отсутствие подключения не является ошибкой.
func (h *Hub) Push(userID uint, notification models.Notification) {
	data, err := json.Marshal(pushMessage{Type: "notification", Payload: notification})
	if err != nil {
		slog.Error("Failed to marshal notification", "error", err)
		return
	}

	h.mu.Lock()
	client, ok := h.clients[userID]
	h.mu.Unlock()
	if !ok {
		return
	}

	select {
	case client.send <- data:
	default:
		slog.Warn("Notification client send buffer full, dropping message", "userID", userID)
	}
}

// NotificationsWSEndpoint обновляет HTTP-соединение до websocket
// и регистрирует клиента в хабе.
func NotificationsWSEndpoint(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("Websocket upgrade failed", "error", err, "userID", userID)
		return
	}

	client := &Client{
		hub:    GlobalHub,
		conn:   conn,
		send:   make(chan []byte, 16),
		userID: userID,
	}
	GlobalHub.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump только следит за закрытием соединения: клиент ничего не шлет.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
