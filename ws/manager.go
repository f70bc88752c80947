package ws

import (
	"context"
	"sync"

	"storefront_backend/internal/logger"
	"storefront_backend/internal/services/dto"
)

const broadcastBuffer = 64

// WebSocketManager рассылает события заказов всем подключённым админкам.
// Регистрацией и рассылкой владеет одна горутина (Run).
type WebSocketManager struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan any
	done       chan struct{}
	mu         sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan any, broadcastBuffer),
		done:       make(chan struct{}),
	}
}

// Run обрабатывает регистрации и рассылку до отмены ctx.
func (manager *WebSocketManager) Run(ctx context.Context) {
	defer close(manager.done)

	for {
		select {
		case <-ctx.Done():
			manager.closeAll()
			return

		case client := <-manager.register:
			manager.mu.Lock()
			manager.clients[client] = struct{}{}
			total := len(manager.clients)
			manager.mu.Unlock()
			logger.Debug("Live feed client registered", "user_id", client.UserID, "total", total)

		case client := <-manager.unregister:
			manager.remove(client)

		case message := <-manager.broadcast:
			manager.broadcastMessage(message)
		}
	}
}

func (manager *WebSocketManager) remove(client *Client) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if _, ok := manager.clients[client]; ok {
		close(client.Send)
		delete(manager.clients, client)
		logger.Debug("Live feed client unregistered", "user_id", client.UserID, "total", len(manager.clients))
	}
}

// broadcastMessage отключает клиентов с переполненным буфером.
func (manager *WebSocketManager) broadcastMessage(message any) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	for client := range manager.clients {
		select {
		case client.Send <- message:
		default:
			close(client.Send)
			delete(manager.clients, client)
			logger.Warn("Live feed client dropped: send buffer full", "user_id", client.UserID)
		}
	}
}

func (manager *WebSocketManager) closeAll() {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	for client := range manager.clients {
		close(client.Send)
		delete(manager.clients, client)
	}
}

// Register передаёт клиента в Run. Возвращает false, если менеджер остановлен.
func (manager *WebSocketManager) Register(client *Client) bool {
	select {
	case manager.register <- client:
		return true
	case <-manager.done:
		return false
	}
}

func (manager *WebSocketManager) Unregister(client *Client) {
	select {
	case manager.unregister <- client:
	case <-manager.done:
	}
}

// PublishOrderEvent ставит событие в очередь, не блокируя запрос.
func (manager *WebSocketManager) PublishOrderEvent(event dto.OrderEvent) {
	select {
	case manager.broadcast <- event:
	default:
		logger.Warn("Live feed backlog full, event dropped", "type", event.Type, "order_id", event.OrderID)
	}
}

// GetClientCount возвращает количество подключённых клиентов.
func (manager *WebSocketManager) GetClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients)
}
