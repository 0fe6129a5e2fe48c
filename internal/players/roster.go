package players

import (
	"math/rand/v2"
	"slices"

	"sketchit/internal/events"
	"sketchit/internal/utility"
)

// Roster is the ordered player list of one room. Order is join order.
// It has no lock of its own: the owning room's lock guards it.
type Roster struct {
	players []*Player
}

func NewRoster() *Roster {
	return &Roster{}
}

// New builds a player with a fresh display colour.
func New(id, name string, isHost bool) *Player {
	return &Player{ID: id, Name: name, Color: utility.RandomColorHex(), IsHost: isHost}
}

// Add appends p unless a player with the same ID is already present.
func (r *Roster) Add(p *Player) bool {
	if r.index(p.ID) >= 0 {
		return false
	}
	r.players = append(r.players, p)
	return true
}

func (r *Roster) Get(id string) *Player {
	if i := r.index(id); i >= 0 {
		return r.players[i]
	}
	return nil
}

// Remove deletes the player and returns it, or nil if absent.
func (r *Roster) Remove(id string) *Player {
	i := r.index(id)
	if i < 0 {
		return nil
	}
	p := r.players[i]
	r.players = slices.Delete(r.players, i, i+1)
	return p
}

func (r *Roster) Count() int {
	return len(r.players)
}

// List returns the players in join order. The slice is a copy; the
// players are not.
func (r *Roster) List() []*Player {
	return slices.Clone(r.players)
}

func (r *Roster) UpdateScore(id string, points int) *Player {
	if p := r.Get(id); p != nil {
		p.Score += points
		return p
	}
	return nil
}

func (r *Roster) ResetGuesses() {
	for _, p := range r.players {
		p.HasGuessedCorrectly = false
	}
}

// ResetAll clears scores and guesses for a new game.
func (r *Roster) ResetAll() {
	for _, p := range r.players {
		p.Score = 0
		p.HasGuessedCorrectly = false
	}
}

func (r *Roster) GuessedCount() int {
	n := 0
	for _, p := range r.players {
		if p.HasGuessedCorrectly {
			n++
		}
	}
	return n
}

// Random picks a player uniformly at random, skipping exclude. It returns
// nil when nobody is eligible.
func (r *Roster) Random(exclude string) *Player {
	eligible := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		if p.ID != exclude {
			eligible = append(eligible, p)
		}
	}
	if len(eligible) == 0 {
		return nil
	}
	return eligible[rand.IntN(len(eligible))]
}

func (r *Roster) Views(drawerID string) []events.PlayerView {
	views := make([]events.PlayerView, 0, len(r.players))
	for _, p := range r.players {
		views = append(views, p.View(drawerID))
	}
	return views
}

// Ranked orders players by score, highest first. Ties keep join order.
func (r *Roster) Ranked() []events.Standing {
	ranked := slices.Clone(r.players)
	slices.SortStableFunc(ranked, func(a, b *Player) int {
		return b.Score - a.Score
	})
	standings := make([]events.Standing, 0, len(ranked))
	for i, p := range ranked {
		standings = append(standings, events.Standing{
			Rank:  i + 1,
			Name:  p.Name,
			Color: p.Color,
			Score: p.Score,
		})
	}
	return standings
}

func (r *Roster) index(id string) int {
	return slices.IndexFunc(r.players, func(p *Player) bool { return p.ID == id })
}
