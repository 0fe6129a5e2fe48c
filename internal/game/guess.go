package game

import (
	"strings"

	"sketchit/internal/broadcast"
	"sketchit/internal/events"
	"sketchit/internal/metrics"
	"sketchit/internal/players"
	"sketchit/internal/rooms"
)

const (
	BasePoints   = 10
	MaxTimeBonus = 50
	DrawerPoints = 5
)

// GuesserPoints is the award for a correct guess with remaining seconds
// left on the clock.
func GuesserPoints(remaining int) int {
	return BasePoints + max(0, min(remaining, MaxTimeBonus))
}

type verdict int

const (
	verdictChat verdict = iota
	verdictCorrect
)

func evaluate(st *rooms.State, sender *players.Player, msg string) verdict {
	if sender.ID == st.DrawerToken {
		return verdictChat
	}
	if !st.IsRoundActive() || st.CurrentWord == "" || sender.HasGuessedCorrectly {
		return verdictChat
	}
	if strings.EqualFold(msg, st.CurrentWord) {
		return verdictCorrect
	}
	return verdictChat
}

// SendGuessOrChat treats message as a guess when it can be one and as chat
// otherwise.
func (e *Engine) SendGuessOrChat(token, code, message string) error {
	msg := strings.TrimSpace(message)
	if msg == "" {
		return nil
	}
	room, err := e.rooms.Get(code)
	if err != nil {
		return err
	}
	return room.Transact(e.out, func(st *rooms.State, b *broadcast.Batch) error {
		if st.Closed {
			return rooms.ErrNotFound
		}
		sender := st.Players.Get(token)
		if sender == nil {
			return ErrUnauthorized
		}

		if evaluate(st, sender, msg) == verdictChat {
			b.ToRoom(room.Code, events.New(events.TypeChat, events.Chat{From: sender.Name, Text: msg}))
			return nil
		}

		points := GuesserPoints(st.RemainingSeconds)
		sender.HasGuessedCorrectly = true
		sender.Score += points
		if drawer := st.Drawer(); drawer != nil {
			drawer.Score += DrawerPoints
		}
		metrics.CorrectGuesses.Inc()

		b.ToRoom(room.Code, events.New(events.TypeCorrectGuess, events.CorrectGuess{
			Name:   sender.Name,
			Points: points,
			Total:  sender.Score,
		}))
		b.ToRoom(room.Code, events.New(events.TypeScoreboard, events.Scoreboard{
			Players: st.Players.Views(st.DrawerToken),
		}))
		e.checkAllGuessedLocked(room, st, b)
		return nil
	})
}

// checkAllGuessedLocked ends the round once every non-drawer has guessed.
func (e *Engine) checkAllGuessedLocked(room *rooms.Room, st *rooms.State, b *broadcast.Batch) {
	n := st.Players.Count()
	if !st.IsRoundActive() || n < 2 {
		return
	}
	if st.Players.GuessedCount() >= n-1 {
		e.endRoundLocked(room, st, b, ReasonAllGuessed)
	}
}
