package server

import (
	"context"

	"sketchit/internal/events"
)

// ResultStore persists finished games.
type ResultStore interface {
	RecordGame(res events.GameResult) (string, error)
}

// runArchiver drains the result bus until ctx is done. Without a store
// results are only logged.
func (s *Server) runArchiver(ctx context.Context, bus *events.Bus, store ResultStore) {
	for {
		select {
		case <-ctx.Done():
			return
		case res := <-bus.GameResults:
			ev := s.log.Info().Str("room", res.RoomCode).Int("players", len(res.Standings))
			if len(res.Standings) > 0 {
				ev = ev.Str("winner", res.Standings[0].Name)
			}
			ev.Msg("game finished")

			if store == nil {
				continue
			}
			id, err := store.RecordGame(res)
			if err != nil {
				s.log.Error().Err(err).Str("room", res.RoomCode).Msg("archiving game")
				continue
			}
			s.log.Debug().Str("game", id).Msg("game archived")
		}
	}
}
