package events

import "time"

// GameResult is published once per finished game for archiving.
type GameResult struct {
	RoomCode  string
	HostName  string
	Rounds    int
	Standings []Standing
	EndedAt   time.Time
}

type Bus struct {
	GameResults chan GameResult
}

func NewBus() *Bus {
	return &Bus{
		GameResults: make(chan GameResult, 10),
	}
}

// PublishResult never blocks; a full bus drops the result.
func (b *Bus) PublishResult(r GameResult) bool {
	if b == nil {
		return false
	}
	select {
	case b.GameResults <- r:
		return true
	default:
		return false
	}
}
