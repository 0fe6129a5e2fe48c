package rooms

import (
	"errors"
	"fmt"
	"sync"

	"sketchit/internal/players"
)

const maxCodeAttempts = 10

type Options struct {
	MaxRounds int
}

// Store is the process-wide registry of live rooms. Lock order is always
// the store first, then a room.
type Store struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	opts  Options
}

func NewStore(opts Options) *Store {
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = 5
	}
	return &Store{
		rooms: make(map[string]*Room),
		opts:  opts,
	}
}

// Create inserts a room under code with host as its only player. It fails
// with ErrDuplicateCode if the code is taken.
func (s *Store) Create(code string, host *players.Player) (*Room, error) {
	code = NormalizeCode(code)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rooms[code]; exists {
		return nil, ErrDuplicateCode
	}
	host.IsHost = true
	room := newRoom(code, host.ID, s.opts.MaxRounds)
	room.state.Players.Add(host)
	s.rooms[code] = room
	return room, nil
}

// CreateUnique generates codes until one is free.
func (s *Store) CreateUnique(host *players.Player) (*Room, error) {
	for range maxCodeAttempts {
		code, err := GenerateCode()
		if err != nil {
			return nil, fmt.Errorf("generating room code: %w", err)
		}
		room, err := s.Create(code, host)
		if errors.Is(err, ErrDuplicateCode) {
			continue
		}
		return room, err
	}
	return nil, fmt.Errorf("failed to generate unique room code after %d attempts: %w", maxCodeAttempts, ErrDuplicateCode)
}

func (s *Store) Get(code string) (*Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[NormalizeCode(code)]
	if !ok {
		return nil, ErrNotFound
	}
	return room, nil
}

func (s *Store) Remove(code string) bool {
	code = NormalizeCode(code)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[code]; !ok {
		return false
	}
	delete(s.rooms, code)
	return true
}

// AddPlayer appends p to the room's roster. The store read lock is held
// across the room lock so a concurrent Remove cannot slip in between the
// lookup and the insert.
func (s *Store) AddPlayer(code string, p *players.Player) (*Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[NormalizeCode(code)]
	if !ok {
		return nil, ErrNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.state.Closed {
		return nil, ErrNotFound
	}
	if !room.state.Players.Add(p) {
		return nil, ErrDuplicateConnection
	}
	return room, nil
}

// FindByConnection returns the room holding token and a copy of its player.
func (s *Store) FindByConnection(token string) (*Room, players.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, room := range s.rooms {
		var found *players.Player
		room.Read(func(st *State) {
			if p := st.Players.Get(token); p != nil {
				cp := *p
				found = &cp
			}
		})
		if found != nil {
			return room, *found, nil
		}
	}
	return nil, players.Player{}, ErrNotFound
}

func (s *Store) List() []*Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		list = append(list, r)
	}
	return list
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}
