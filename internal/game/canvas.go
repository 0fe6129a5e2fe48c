package game

import (
	"sketchit/internal/broadcast"
	"sketchit/internal/events"
	"sketchit/internal/rooms"
)

// DrawStroke forwards a segment from the drawer to everyone else.
func (e *Engine) DrawStroke(token, code string, seg events.StrokeSegment) error {
	return e.fromDrawer(token, code, events.New(events.TypeStroke, seg))
}

func (e *Engine) StrokeEnded(token, code string) error {
	return e.fromDrawer(token, code, events.New(events.TypeStrokeEnded, nil))
}

// Undo replays the sender's remaining stroke history to the whole room.
func (e *Engine) Undo(token, code string, strokes [][]events.StrokeSegment) error {
	return e.fromMember(token, code, events.New(events.TypeUndo, events.Undo{Strokes: strokes}))
}

func (e *Engine) ClearCanvas(token, code string) error {
	return e.fromMember(token, code, events.New(events.TypeClearCanvas, nil))
}

func (e *Engine) fromDrawer(token, code string, msg events.Message) error {
	room, err := e.rooms.Get(code)
	if err != nil {
		return err
	}
	return room.Transact(e.out, func(st *rooms.State, b *broadcast.Batch) error {
		if st.Closed {
			return rooms.ErrNotFound
		}
		if token != st.DrawerToken {
			return ErrUnauthorized
		}
		if !st.IsRoundActive() {
			return ErrWrongPhase
		}
		b.ToRoomExcept(room.Code, token, msg)
		return nil
	})
}

func (e *Engine) fromMember(token, code string, msg events.Message) error {
	room, err := e.rooms.Get(code)
	if err != nil {
		return err
	}
	return room.Transact(e.out, func(st *rooms.State, b *broadcast.Batch) error {
		if st.Closed {
			return rooms.ErrNotFound
		}
		if st.Players.Get(token) == nil {
			return ErrUnauthorized
		}
		b.ToRoom(room.Code, msg)
		return nil
	})
}
