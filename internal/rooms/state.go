package rooms

import (
	"context"

	"sketchit/internal/players"
)

type Phase int

const (
	PhaseLobby Phase = iota
	PhaseWordSelection
	PhaseRoundActive
	PhaseRoundEnding
	PhaseGameEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseWordSelection:
		return "word_selection"
	case PhaseRoundActive:
		return "round_active"
	case PhaseRoundEnding:
		return "round_ending"
	case PhaseGameEnded:
		return "game_ended"
	default:
		return "unknown"
	}
}

// State is the mutable part of a Room. It is only reachable through
// Room.Transact or Room.Read, which hold the room lock.
type State struct {
	Players          *players.Roster
	DrawerToken      string
	CurrentWord      string
	WordChoices      []string
	RoundNumber      int
	MaxRounds        int
	RemainingSeconds int
	Phase            Phase
	Closed           bool

	timerGen    uint64
	cancelTimer context.CancelFunc
}

func newState(maxRounds int) State {
	return State{
		Players:     players.NewRoster(),
		RoundNumber: 1,
		MaxRounds:   maxRounds,
		Phase:       PhaseLobby,
	}
}

func (s *State) IsRoundActive() bool {
	return s.Phase == PhaseRoundActive
}

// RoundEnded reports whether the last round has been closed out and its
// reveal (or the final standings) is showing.
func (s *State) RoundEnded() bool {
	return s.Phase == PhaseRoundEnding || s.Phase == PhaseGameEnded
}

func (s *State) Drawer() *players.Player {
	if s.DrawerToken == "" {
		return nil
	}
	return s.Players.Get(s.DrawerToken)
}

// ArmTimer replaces any running countdown with a new one of the given
// length. The returned context is cancelled when the timer is disarmed and
// the generation identifies this countdown for TimerCurrent.
func (s *State) ArmTimer(seconds int) (context.Context, uint64) {
	s.DisarmTimer()
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelTimer = cancel
	s.RemainingSeconds = seconds
	return ctx, s.timerGen
}

// DisarmTimer stops the running countdown. Ticks already waiting on the
// room lock see a stale generation and do nothing.
func (s *State) DisarmTimer() {
	if s.cancelTimer != nil {
		s.cancelTimer()
		s.cancelTimer = nil
	}
	s.timerGen++
	s.RemainingSeconds = 0
}

func (s *State) TimerCurrent(gen uint64) bool {
	return s.cancelTimer != nil && s.timerGen == gen
}

func (s *State) TimerArmed() bool {
	return s.cancelTimer != nil
}
