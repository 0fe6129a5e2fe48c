package players

import "sketchit/internal/events"

type Player struct {
	ID                  string
	Name                string
	Color               string
	IsHost              bool
	Score               int
	HasGuessedCorrectly bool
}

func (p *Player) View(drawerID string) events.PlayerView {
	return events.PlayerView{
		Name:     p.Name,
		Color:    p.Color,
		Score:    p.Score,
		IsHost:   p.IsHost,
		IsDrawer: p.ID == drawerID,
		Guessed:  p.HasGuessedCorrectly,
	}
}
