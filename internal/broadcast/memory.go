package broadcast

import (
	"sync"

	"sketchit/internal/events"
)

// Sent is one call made against a Memory transport.
type Sent struct {
	Room string
	IDs  []string
	Msg  events.Message
}

// Memory is an in-process Transport that records everything it is asked to
// deliver. It backs the engine tests and any run without a network.
type Memory struct {
	mu     sync.Mutex
	groups map[string]map[string]struct{}
	inbox  map[string][]events.Message
	sent   []Sent
}

var _ Transport = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		groups: make(map[string]map[string]struct{}),
		inbox:  make(map[string][]events.Message),
	}
}

func (m *Memory) SendTo(id string, msg events.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliver(Sent{IDs: []string{id}, Msg: msg})
}

func (m *Memory) SendToSet(ids []string, msg events.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliver(Sent{IDs: append([]string(nil), ids...), Msg: msg})
}

func (m *Memory) SendToRoom(room string, msg events.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliver(Sent{Room: room, IDs: m.members(room, ""), Msg: msg})
}

func (m *Memory) SendToRoomExcept(room, excluded string, msg events.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliver(Sent{Room: room, IDs: m.members(room, excluded), Msg: msg})
}

func (m *Memory) AddToRoom(room, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[room]
	if !ok {
		g = make(map[string]struct{})
		m.groups[room] = g
	}
	g[id] = struct{}{}
}

func (m *Memory) RemoveFromRoom(room, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.groups[room], id)
}

func (m *Memory) CloseRoom(room string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.groups, room)
}

// Inbox returns a copy of every message delivered to id.
func (m *Memory) Inbox(id string) []events.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]events.Message(nil), m.inbox[id]...)
}

// Last returns the most recent message of the given type delivered to id.
func (m *Memory) Last(id, typ string) (events.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.inbox[id]
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == typ {
			return msgs[i], true
		}
	}
	return events.Message{}, false
}

// Count reports how many send calls carried a message of the given type.
func (m *Memory) Count(typ string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.sent {
		if s.Msg.Type == typ {
			n++
		}
	}
	return n
}

// Types lists message types delivered to id, oldest first.
func (m *Memory) Types(id string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.inbox[id]))
	for _, msg := range m.inbox[id] {
		types = append(types, msg.Type)
	}
	return types
}

func (m *Memory) Members(room string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.members(room, "")
}

func (m *Memory) members(room, excluded string) []string {
	ids := make([]string, 0, len(m.groups[room]))
	for id := range m.groups[room] {
		if id != excluded {
			ids = append(ids, id)
		}
	}
	return ids
}

func (m *Memory) deliver(s Sent) {
	m.sent = append(m.sent, s)
	for _, id := range s.IDs {
		m.inbox[id] = append(m.inbox[id], s.Msg)
	}
}
