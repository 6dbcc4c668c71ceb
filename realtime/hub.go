package realtime

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/techagentng/complaintx/logging"
	"go.uber.org/zap"
)

// Publisher broadcasts an event to every subscriber of a channel. Delivery is
// best-effort: no acknowledgement, no ordering guarantee relative to persisted
// state, and a missing subscriber is a no-op.
type Publisher interface {
	Publish(channel, event string, payload interface{})
}

// UserChannel is the per-user channel key real-time complaint updates go to
func UserChannel(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

type envelope struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Hub is a websocket fan-out hub keyed by channel
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		channels: make(map[string]map[*Client]struct{}),
	}
}

// Client is one websocket subscriber
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	channel string
	send    chan []byte
	once    sync.Once
}

const clientSendBuffer = 16

// Subscribe registers conn on channel and starts its read/write pumps
func (h *Hub) Subscribe(channel string, conn *websocket.Conn) *Client {
	client := &Client{
		hub:     h,
		conn:    conn,
		channel: channel,
		send:    make(chan []byte, clientSendBuffer),
	}

	h.mu.Lock()
	subs, ok := h.channels[channel]
	if !ok {
		subs = make(map[*Client]struct{})
		h.channels[channel] = subs
	}
	subs[client] = struct{}{}
	h.mu.Unlock()

	go client.writePump()
	go client.readPump()
	return client
}

func (h *Hub) unsubscribe(client *Client) {
	h.mu.Lock()
	if subs, ok := h.channels[client.channel]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.channels, client.channel)
		}
	}
	h.mu.Unlock()
}

// Publish sends the event to every subscriber of channel. A slow subscriber
// is dropped rather than blocking the caller.
func (h *Hub) Publish(channel, event string, payload interface{}) {
	data, err := json.Marshal(envelope{Event: event, Payload: payload})
	if err != nil {
		logging.Sugar.Warnw("realtime: encoding event failed", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	subs := h.channels[channel]
	var stale []*Client
	for client := range subs {
		select {
		case client.send <- data:
		default:
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stale {
		client.close()
	}
}

func (c *Client) writePump() {
	defer c.close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logging.Logger.Debug("realtime: write failed", zap.Error(err))
			return
		}
	}
}

func (c *Client) readPump() {
	defer c.close()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		c.hub.unsubscribe(c)
		close(c.send)
		_ = c.conn.Close()
	})
}

// NopPublisher satisfies Publisher when no real-time channel is configured
type NopPublisher struct{}

func (NopPublisher) Publish(string, string, interface{}) {}
