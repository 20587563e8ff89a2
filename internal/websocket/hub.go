package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hub WebSocket连接管理中心
// 连接按设备分组，收藏变化推送给同一设备的所有连接
type Hub struct {
	// 客户端连接池
	clients   map[string]*Client
	clientsMu sync.RWMutex

	// 设备ID到客户端的映射
	deviceClients map[string][]*Client
	deviceMu      sync.RWMutex

	// 消息广播通道
	broadcast chan *Message

	// 注册/注销通道
	register   chan *Client
	unregister chan *Client

	// 日志
	logger *zap.Logger
}

// Message WebSocket消息
type Message struct {
	Type      string          `json:"type"`
	DeviceID  string          `json:"device_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// MessageType 消息类型
const (
	// 系统消息
	MessageTypeConnected    = "connected"
	MessageTypeDisconnected = "disconnected"
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
	MessageTypeError        = "error"

	// 收藏消息
	MessageTypeFavoritesUpdated = "favorites_updated"
)

// FavoritesUpdatedData 收藏变化消息体
type FavoritesUpdatedData struct {
	GameID   int  `json:"game_id"`
	Favorite bool `json:"favorite"`
}

// NewHub 创建Hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:       make(map[string]*Client),
		deviceClients: make(map[string][]*Client),
		broadcast:     make(chan *Message, 256),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		logger:        logger,
	}
}

// Run 运行Hub
func (h *Hub) Run() {
	// 启动心跳检测
	go h.runHeartbeat()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// registerClient 注册客户端
func (h *Hub) registerClient(client *Client) {
	h.clientsMu.Lock()
	h.clients[client.ID] = client
	h.clientsMu.Unlock()

	// 添加到设备客户端映射
	if client.DeviceID != "" {
		h.deviceMu.Lock()
		h.deviceClients[client.DeviceID] = append(h.deviceClients[client.DeviceID], client)
		h.deviceMu.Unlock()
	}

	h.logger.Info("WebSocket客户端连接",
		zap.String("client_id", client.ID),
		zap.String("device_id", client.DeviceID))

	// 发送连接成功消息
	msg := &Message{
		Type:      MessageTypeConnected,
		Timestamp: time.Now().Unix(),
		Data:      json.RawMessage(`{"message":"连接成功"}`),
	}
	h.SendToClient(client.ID, msg)
}

// unregisterClient 注销客户端
func (h *Hub) unregisterClient(client *Client) {
	h.clientsMu.Lock()
	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(client.Send)
	}
	h.clientsMu.Unlock()

	// 从设备客户端映射中移除
	if client.DeviceID != "" {
		h.deviceMu.Lock()
		clients := h.deviceClients[client.DeviceID]
		for i, c := range clients {
			if c.ID == client.ID {
				h.deviceClients[client.DeviceID] = append(clients[:i], clients[i+1:]...)
				break
			}
		}
		if len(h.deviceClients[client.DeviceID]) == 0 {
			delete(h.deviceClients, client.DeviceID)
		}
		h.deviceMu.Unlock()
	}

	h.logger.Info("WebSocket客户端断开",
		zap.String("client_id", client.ID),
		zap.String("device_id", client.DeviceID))
}

// broadcastMessage 广播消息给所有客户端
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("序列化消息失败", zap.Error(err))
		return
	}

	h.clientsMu.RLock()
	for _, client := range h.clients {
		select {
		case client.Send <- data:
		default:
			// 发送缓冲区满
			h.logger.Warn("客户端发送缓冲区满",
				zap.String("client_id", client.ID))
		}
	}
	h.clientsMu.RUnlock()
}

// SendToClient 发送消息给指定客户端
func (h *Hub) SendToClient(clientID string, message *Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.clientsMu.RLock()
	client, ok := h.clients[clientID]
	h.clientsMu.RUnlock()

	if !ok {
		return ErrClientNotFound
	}

	select {
	case client.Send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// SendToDevice 发送消息给指定设备的所有客户端
func (h *Hub) SendToDevice(deviceID string, message *Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.deviceMu.RLock()
	clients := h.deviceClients[deviceID]
	h.deviceMu.RUnlock()

	if len(clients) == 0 {
		return ErrDeviceNotConnected
	}

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("设备客户端发送缓冲区满",
				zap.String("client_id", client.ID),
				zap.String("device_id", deviceID))
		}
	}

	return nil
}

// NotifyFavoritesUpdated 把收藏变化推送给设备的所有连接
// 设备不在线时静默丢弃
func (h *Hub) NotifyFavoritesUpdated(deviceID string, gameID int, favorite bool) {
	data, err := json.Marshal(FavoritesUpdatedData{GameID: gameID, Favorite: favorite})
	if err != nil {
		h.logger.Error("序列化收藏消息失败", zap.Error(err))
		return
	}

	msg := &Message{
		Type:      MessageTypeFavoritesUpdated,
		DeviceID:  deviceID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}

	if err := h.SendToDevice(deviceID, msg); err != nil && err != ErrDeviceNotConnected {
		h.logger.Warn("推送收藏变化失败",
			zap.String("device_id", deviceID),
			zap.Error(err))
	}
}

// GetOnlineDevices 获取在线设备列表
func (h *Hub) GetOnlineDevices() []string {
	h.deviceMu.RLock()
	defer h.deviceMu.RUnlock()

	devices := make([]string, 0, len(h.deviceClients))
	for deviceID := range h.deviceClients {
		devices = append(devices, deviceID)
	}
	return devices
}

// GetOnlineCount 获取在线连接数
func (h *Hub) GetOnlineCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// runHeartbeat 运行心跳检测
func (h *Hub) runHeartbeat() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		<-ticker.C
		ping := &Message{
			Type:      MessageTypePing,
			Timestamp: time.Now().Unix(),
		}
		h.broadcast <- ping
	}
}

// Broadcast 广播消息（公开方法）
func (h *Hub) Broadcast(message *Message) {
	h.broadcast <- message
}

// Register 注册客户端（公开方法）
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister 注销客户端（公开方法）
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}
