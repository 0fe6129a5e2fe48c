package game

import (
	"fmt"
	"unicode/utf8"

	"sketchit/internal/broadcast"
	"sketchit/internal/events"
	"sketchit/internal/metrics"
	"sketchit/internal/players"
	"sketchit/internal/rooms"
)

// CreateRoom opens a new room hosted by token.
func (e *Engine) CreateRoom(token, name string) (*rooms.Room, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	if _, _, err := e.rooms.FindByConnection(token); err == nil {
		return nil, ErrAlreadyInRoom
	}

	room, err := e.rooms.CreateUnique(players.New(token, name, true))
	if err != nil {
		return nil, fmt.Errorf("creating room: %w", err)
	}
	metrics.RoomsActive.Set(float64(e.rooms.Count()))

	room.Transact(e.out, func(st *rooms.State, b *broadcast.Batch) error {
		b.Join(room.Code, token)
		b.To(token, events.New(events.TypeRoomCreated, events.RoomCreated{
			Code:    room.Code,
			You:     name,
			Players: st.Players.Views(st.DrawerToken),
		}))
		return nil
	})
	e.log.Info().Str("room", room.Code).Str("host", name).Msg("room created")
	return room, nil
}

// JoinRoom adds token to an existing room and sends it a snapshot of the
// room as it stands.
func (e *Engine) JoinRoom(token, code, name string) (*rooms.Room, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	if _, _, err := e.rooms.FindByConnection(token); err == nil {
		return nil, ErrAlreadyInRoom
	}

	room, err := e.rooms.AddPlayer(code, players.New(token, name, false))
	if err != nil {
		return nil, err
	}

	err = room.Transact(e.out, func(st *rooms.State, b *broadcast.Batch) error {
		if st.Closed {
			return rooms.ErrNotFound
		}
		b.Join(room.Code, token)
		state := snapshot(room, st)
		state.You = name
		b.To(token, events.New(events.TypeRoomState, state))
		b.ToRoomExcept(room.Code, token, notice(name+" joined the game."))
		b.ToRoom(room.Code, events.New(events.TypeRosterChanged, events.RosterChanged{
			Code:    room.Code,
			Players: st.Players.Views(st.DrawerToken),
		}))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// Snapshot describes a room without joining it.
func (e *Engine) Snapshot(code string) (events.RoomState, error) {
	room, err := e.rooms.Get(code)
	if err != nil {
		return events.RoomState{}, err
	}
	var state events.RoomState
	room.Read(func(st *rooms.State) {
		if st.Closed {
			err = rooms.ErrNotFound
			return
		}
		state = snapshot(room, st)
	})
	return state, err
}

func snapshot(room *rooms.Room, st *rooms.State) events.RoomState {
	state := events.RoomState{
		Code:             room.Code,
		Phase:            st.Phase.String(),
		Round:            st.RoundNumber,
		MaxRounds:        st.MaxRounds,
		RemainingSeconds: st.RemainingSeconds,
		Players:          st.Players.Views(st.DrawerToken),
	}
	if d := st.Drawer(); d != nil {
		state.Drawer = d.Name
	}
	if st.IsRoundActive() {
		state.WordLength = utf8.RuneCountInString(st.CurrentWord)
	}
	return state
}

// Disconnect removes token from whatever room it is in. A departing host
// takes the room with them.
func (e *Engine) Disconnect(token string) error {
	room, p, err := e.rooms.FindByConnection(token)
	if err != nil {
		return err
	}
	if p.ID == room.HostToken {
		e.closeRoom(room, p.Name)
		return nil
	}

	return room.Transact(e.out, func(st *rooms.State, b *broadcast.Batch) error {
		if st.Closed {
			return nil
		}
		leaving := st.Players.Remove(token)
		if leaving == nil {
			return nil
		}
		b.Leave(room.Code, token)
		b.ToRoom(room.Code, notice(leaving.Name+" left the game."))
		b.ToRoom(room.Code, events.New(events.TypeRosterChanged, events.RosterChanged{
			Code:    room.Code,
			Players: st.Players.Views(st.DrawerToken),
		}))

		wasDrawer := token == st.DrawerToken
		switch {
		case wasDrawer && st.IsRoundActive():
			st.DrawerToken = ""
			e.endRoundLocked(room, st, b, ReasonDrawerLeft)
		case wasDrawer && st.Phase == rooms.PhaseWordSelection:
			e.replaceDrawerLocked(room, st, b)
		case wasDrawer:
			st.DrawerToken = ""
		case st.IsRoundActive():
			e.checkAllGuessedLocked(room, st, b)
		}
		return nil
	})
}

// replaceDrawerLocked handles a drawer who left before choosing a word.
func (e *Engine) replaceDrawerLocked(room *rooms.Room, st *rooms.State, b *broadcast.Batch) {
	if st.Players.Count() < e.cfg.MinPlayers {
		e.idleLocked(st)
		b.ToRoom(room.Code, notice("Not enough players to continue. Waiting for more to join."))
		return
	}
	drawer := e.beginWordSelection(room, st, b, "")
	b.ToRoom(room.Code, events.New(events.TypeDrawerChanged, events.DrawerChanged{Drawer: drawer.Name}))
	b.ToRoom(room.Code, notice(drawer.Name+" is drawing now"))
}

func (e *Engine) closeRoom(room *rooms.Room, hostName string) {
	room.Transact(e.out, func(st *rooms.State, b *broadcast.Batch) error {
		if st.Closed {
			return nil
		}
		st.Closed = true
		st.DisarmTimer()
		b.ToRoom(room.Code, notice("Host disconnected. Room closed."))
		b.ToRoom(room.Code, events.New(events.TypeRoomClosed, nil))
		b.Close(room.Code)
		return nil
	})
	e.rooms.Remove(room.Code)
	metrics.RoomsActive.Set(float64(e.rooms.Count()))
	e.log.Info().Str("room", room.Code).Str("host", hostName).Msg("room closed")
}
