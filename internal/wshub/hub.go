package wshub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"sketchit/internal/broadcast"
	"sketchit/internal/events"
	"sketchit/internal/logger"
	"sketchit/internal/metrics"
)

const writeTimeout = 10 * time.Second

// Inbound message types.
const (
	TypeCreateRoom   = "create_room"
	TypeJoinRoom     = "join_room"
	TypeStartGame    = "start_game"
	TypeSelectWord   = "select_word"
	TypeChat         = "chat"
	TypeChangeDrawer = "change_drawer"
	TypeDraw         = "draw"
	TypeStrokeEnd    = "stroke_end"
	TypeUndo         = "undo"
	TypeClearCanvas  = "clear_canvas"
)

// ClientMessage is the JSON structure received from clients.
type ClientMessage struct {
	Type    string                   `json:"type"`
	Code    string                   `json:"code,omitempty"`
	Name    string                   `json:"name,omitempty"`
	Word    string                   `json:"word,omitempty"`
	Message string                   `json:"message,omitempty"`
	Segment *events.StrokeSegment    `json:"segment,omitempty"`
	Strokes [][]events.StrokeSegment `json:"strokes,omitempty"`
}

// Client represents a single WebSocket connection in the hub.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

func NewClient(id string, conn *websocket.Conn, buffer int) *Client {
	return &Client{ID: id, Conn: conn, Send: make(chan []byte, buffer)}
}

// WritePump reads from the Send channel and writes to the WebSocket connection.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.Conn.Write(wctx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// Hub tracks live connections and the room groups they belong to. It
// implements broadcast.Transport.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string]map[string]struct{}
	log     zerolog.Logger
}

var _ broadcast.Transport = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]struct{}),
		log:     logger.For("wshub"),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
	metrics.Connections.Set(float64(len(h.clients)))
}

// Unregister removes a client from the hub and every group and closes its
// Send channel.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[id]
	if !ok {
		return
	}
	close(c.Send)
	delete(h.clients, id)
	for _, members := range h.rooms {
		delete(members, id)
	}
	metrics.Connections.Set(float64(len(h.clients)))
}

func (h *Hub) SendTo(id string, msg events.Message) {
	data, ok := h.encode(msg)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.deliver(id, data)
}

func (h *Hub) SendToSet(ids []string, msg events.Message) {
	data, ok := h.encode(msg)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, id := range ids {
		h.deliver(id, data)
	}
}

func (h *Hub) SendToRoom(room string, msg events.Message) {
	h.SendToRoomExcept(room, "", msg)
}

// SendToRoomExcept sends to every member of room but excluded. Non-blocking:
// drops if a client's channel is full.
func (h *Hub) SendToRoomExcept(room, excluded string, msg events.Message) {
	data, ok := h.encode(msg)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id := range h.rooms[room] {
		if id != excluded {
			h.deliver(id, data)
		}
	}
}

func (h *Hub) AddToRoom(room, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[string]struct{})
		h.rooms[room] = members
	}
	members[id] = struct{}{}
}

func (h *Hub) RemoveFromRoom(room, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[room]; ok {
		delete(members, id)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

func (h *Hub) CloseRoom(room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, room)
}

// RoomSize reports how many connections are grouped under room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) encode(msg events.Message) ([]byte, bool) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error().Err(err).Str("type", msg.Type).Msg("marshal error")
		return nil, false
	}
	return data, true
}

// deliver must be called with h.mu held.
func (h *Hub) deliver(id string, data []byte) {
	c, ok := h.clients[id]
	if !ok {
		return
	}
	select {
	case c.Send <- data:
	default:
		metrics.DroppedMessages.WithLabelValues("client").Inc()
		h.log.Warn().Str("client", id).Msg("send buffer full, message dropped")
	}
}
