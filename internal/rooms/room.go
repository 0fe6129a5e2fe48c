package rooms

import (
	"sync"
	"time"

	"sketchit/internal/broadcast"
)

type Room struct {
	Code      string
	HostToken string
	CreatedAt time.Time

	mu     sync.Mutex
	sendMu sync.Mutex
	state  State
}

func newRoom(code, hostToken string, maxRounds int) *Room {
	return &Room{
		Code:      code,
		HostToken: hostToken,
		CreatedAt: time.Now(),
		state:     newState(maxRounds),
	}
}

// Transact runs fn with the room locked. Messages recorded on the batch are
// delivered through t after the state lock is released, but before any
// later transaction on this room can deliver its own, so every client sees
// broadcasts in the order the state changed.
func (r *Room) Transact(t broadcast.Transport, fn func(s *State, b *broadcast.Batch) error) error {
	var batch broadcast.Batch

	r.mu.Lock()
	locked := true
	defer func() {
		if locked {
			r.mu.Unlock()
		}
	}()

	err := fn(&r.state, &batch)

	r.sendMu.Lock()
	defer r.sendMu.Unlock()
	r.mu.Unlock()
	locked = false

	batch.Flush(t)
	return err
}

// Read runs fn with the room locked and sends nothing.
func (r *Room) Read(fn func(s *State)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&r.state)
}
