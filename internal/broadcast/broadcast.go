package broadcast

import "sketchit/internal/events"

// Broadcaster is everything the game core needs from a transport.
type Broadcaster interface {
	SendTo(id string, msg events.Message)
	SendToSet(ids []string, msg events.Message)
	SendToRoom(room string, msg events.Message)
	SendToRoomExcept(room, excluded string, msg events.Message)
}

// Grouper tracks which connections belong to which room.
type Grouper interface {
	AddToRoom(room, id string)
	RemoveFromRoom(room, id string)
	CloseRoom(room string)
}

type Transport interface {
	Broadcaster
	Grouper
}

type opKind int

const (
	opTo opKind = iota
	opToSet
	opToRoom
	opToRoomExcept
	opJoin
	opLeave
	opClose
)

type op struct {
	kind opKind
	id   string
	room string
	ids  []string
	msg  events.Message
}

// Batch collects outbound work while a room is locked so it can be sent
// after the lock is released, in the order it was recorded.
type Batch struct {
	ops []op
}

func (b *Batch) To(id string, msg events.Message) {
	b.ops = append(b.ops, op{kind: opTo, id: id, msg: msg})
}

func (b *Batch) ToSet(ids []string, msg events.Message) {
	b.ops = append(b.ops, op{kind: opToSet, ids: append([]string(nil), ids...), msg: msg})
}

func (b *Batch) ToRoom(room string, msg events.Message) {
	b.ops = append(b.ops, op{kind: opToRoom, room: room, msg: msg})
}

func (b *Batch) ToRoomExcept(room, excluded string, msg events.Message) {
	b.ops = append(b.ops, op{kind: opToRoomExcept, room: room, id: excluded, msg: msg})
}

func (b *Batch) Join(room, id string) {
	b.ops = append(b.ops, op{kind: opJoin, room: room, id: id})
}

func (b *Batch) Leave(room, id string) {
	b.ops = append(b.ops, op{kind: opLeave, room: room, id: id})
}

func (b *Batch) Close(room string) {
	b.ops = append(b.ops, op{kind: opClose, room: room})
}

func (b *Batch) Len() int {
	return len(b.ops)
}

// Flush replays the batch against t and empties it. A nil transport only
// empties the batch.
func (b *Batch) Flush(t Transport) {
	ops := b.ops
	b.ops = nil
	if t == nil {
		return
	}
	for _, o := range ops {
		switch o.kind {
		case opTo:
			t.SendTo(o.id, o.msg)
		case opToSet:
			t.SendToSet(o.ids, o.msg)
		case opToRoom:
			t.SendToRoom(o.room, o.msg)
		case opToRoomExcept:
			t.SendToRoomExcept(o.room, o.id, o.msg)
		case opJoin:
			t.AddToRoom(o.room, o.id)
		case opLeave:
			t.RemoveFromRoom(o.room, o.id)
		case opClose:
			t.CloseRoom(o.room)
		}
	}
}
