package events

// Message is the envelope every outbound event travels in.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

func New(typ string, data any) Message {
	return Message{Type: typ, Data: data}
}

// Outbound event types.
const (
	TypeRoomCreated     = "room_created"
	TypeJoinFailed      = "join_failed"
	TypeRosterChanged   = "roster_changed"
	TypeRoomState       = "room_state"
	TypeGameStarted     = "game_started"
	TypeDrawerAssigned  = "drawer_assigned"
	TypeDrawerChoosing  = "drawer_choosing"
	TypeDrawerAnnounced = "drawer_announced"
	TypeWordToDraw      = "word_to_draw"
	TypeRoundStarted    = "round_started"
	TypeTimerTick       = "round_timer_tick"
	TypeCorrectGuess    = "correct_guess"
	TypeScoreboard      = "scoreboard"
	TypeRoundEnded      = "round_ended"
	TypeGameEnded       = "game_ended"
	TypeRoomClosed      = "room_closed"
	TypeSystemNotice    = "system_notice"
	TypeDrawerChanged   = "drawer_changed"
	TypeChat            = "chat"
	TypeStroke          = "stroke"
	TypeStrokeEnded     = "stroke_ended"
	TypeUndo            = "undo"
	TypeClearCanvas     = "clear_canvas"
	TypeActionRejected  = "action_rejected"
)
