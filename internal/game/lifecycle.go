package game

import (
	"time"

	"sketchit/internal/broadcast"
	"sketchit/internal/events"
	"sketchit/internal/metrics"
	"sketchit/internal/rooms"
)

// endRoundLocked must be called inside room.Transact. Only an active round
// can end, which makes a second call for the same round a no-op.
func (e *Engine) endRoundLocked(room *rooms.Room, st *rooms.State, b *broadcast.Batch, reason string) bool {
	if st.Closed || !st.IsRoundActive() {
		return false
	}

	st.DisarmTimer()
	st.Phase = rooms.PhaseRoundEnding
	b.ToRoom(room.Code, events.New(events.TypeRoundEnded, events.RoundEnded{
		Round:  st.RoundNumber,
		Word:   st.CurrentWord,
		Reason: reason,
		Scores: st.Players.Views(st.DrawerToken),
	}))
	st.CurrentWord = ""
	st.RoundNumber++
	metrics.RoundsEnded.WithLabelValues(reason).Inc()
	e.log.Info().Str("room", room.Code).Str("reason", reason).Int("next_round", st.RoundNumber).Msg("round ended")

	if st.RoundNumber > st.MaxRounds {
		e.finishGameLocked(room, st, b)
		return true
	}

	next := st.RoundNumber
	time.AfterFunc(e.cfg.RevealDelay, func() {
		e.startNextRound(room, next)
	})
	return true
}

func (e *Engine) finishGameLocked(room *rooms.Room, st *rooms.State, b *broadcast.Batch) {
	standings := st.Players.Ranked()
	st.Phase = rooms.PhaseGameEnded
	st.DrawerToken = ""
	b.ToRoom(room.Code, events.New(events.TypeGameEnded, events.GameEnded{Standings: standings}))
	metrics.GamesCompleted.Inc()

	result := events.GameResult{
		RoomCode:  room.Code,
		Rounds:    st.MaxRounds,
		Standings: standings,
		EndedAt:   time.Now(),
	}
	if host := st.Players.Get(room.HostToken); host != nil {
		result.HostName = host.Name
	}
	if e.bus != nil && !e.bus.PublishResult(result) {
		metrics.DroppedMessages.WithLabelValues("game_results").Inc()
		e.log.Warn().Str("room", room.Code).Msg("game result dropped, bus full")
	}
}

// startNextRound runs after the reveal delay. It does nothing if the room
// moved on in the meantime.
func (e *Engine) startNextRound(room *rooms.Room, expectedRound int) {
	defer e.recoverRoom(room.Code, "next round")

	room.Transact(e.out, func(st *rooms.State, b *broadcast.Batch) error {
		if st.Closed || st.Phase != rooms.PhaseRoundEnding || st.RoundNumber != expectedRound {
			return nil
		}
		if st.Players.Count() < e.cfg.MinPlayers {
			e.idleLocked(st)
			b.ToRoom(room.Code, notice("Not enough players to continue. Waiting for more to join."))
			return nil
		}
		b.ToRoom(room.Code, events.New(events.TypeClearCanvas, nil))
		e.beginWordSelection(room, st, b, "")
		return nil
	})
}

// idleLocked parks the room in the lobby until the host starts again.
func (e *Engine) idleLocked(st *rooms.State) {
	st.DisarmTimer()
	st.Phase = rooms.PhaseLobby
	st.DrawerToken = ""
	st.CurrentWord = ""
	st.WordChoices = nil
}
