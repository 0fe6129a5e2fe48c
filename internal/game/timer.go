package game

import (
	"context"
	"time"

	"sketchit/internal/broadcast"
	"sketchit/internal/events"
	"sketchit/internal/rooms"
)

// runTimer counts the round down. Every tick re-checks its generation under
// the room lock, so a timer that lost a race with a round end never touches
// the room again.
func (e *Engine) runTimer(ctx context.Context, room *rooms.Room, gen uint64) {
	defer e.recoverRoom(room.Code, "timer")

	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		done := false
		room.Transact(e.out, func(st *rooms.State, b *broadcast.Batch) error {
			if !st.TimerCurrent(gen) || !st.IsRoundActive() {
				done = true
				return nil
			}
			st.RemainingSeconds = max(st.RemainingSeconds-1, 0)
			b.ToRoom(room.Code, events.New(events.TypeTimerTick, events.TimerTick{Remaining: st.RemainingSeconds}))
			if st.RemainingSeconds == 0 {
				e.endRoundLocked(room, st, b, ReasonTimeUp)
				done = true
			}
			return nil
		})
		if done {
			return
		}
	}
}
