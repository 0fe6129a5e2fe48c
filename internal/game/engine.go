package game

import (
	"runtime/debug"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"sketchit/internal/broadcast"
	"sketchit/internal/events"
	"sketchit/internal/logger"
	"sketchit/internal/players"
	"sketchit/internal/rooms"
)

// Round end reasons.
const (
	ReasonAllGuessed = "AllGuessed"
	ReasonTimeUp     = "TimeUp"
	ReasonDrawerLeft = "DrawerLeft"
)

const maxNameLength = 24

// WordSource hands out the drawer's options.
type WordSource interface {
	Choices(n int) []string
}

type Config struct {
	RoundSeconds int
	RevealDelay  time.Duration
	TickInterval time.Duration
	WordChoices  int
	MinPlayers   int
}

func DefaultConfig() Config {
	return Config{
		RoundSeconds: 60,
		RevealDelay:  3 * time.Second,
		TickInterval: time.Second,
		WordChoices:  3,
		MinPlayers:   2,
	}
}

// Engine drives every room's round lifecycle. All state changes go through
// Room.Transact, so the engine itself holds no locks.
type Engine struct {
	rooms *rooms.Store
	out   broadcast.Transport
	words WordSource
	bus   *events.Bus
	cfg   Config
	log   zerolog.Logger
}

func New(store *rooms.Store, out broadcast.Transport, words WordSource, bus *events.Bus, cfg Config) *Engine {
	return &Engine{
		rooms: store,
		out:   out,
		words: words,
		bus:   bus,
		cfg:   cfg,
		log:   logger.For("game"),
	}
}

func (e *Engine) Rooms() *rooms.Store {
	return e.rooms
}

// StartGame begins a new game from the lobby, or again after a game ended.
func (e *Engine) StartGame(token, code string) error {
	room, err := e.rooms.Get(code)
	if err != nil {
		return err
	}
	return room.Transact(e.out, func(st *rooms.State, b *broadcast.Batch) error {
		if st.Closed {
			return rooms.ErrNotFound
		}
		if token != room.HostToken {
			return ErrUnauthorized
		}
		if st.Phase != rooms.PhaseLobby && st.Phase != rooms.PhaseGameEnded {
			return ErrWrongPhase
		}
		if st.Players.Count() < e.cfg.MinPlayers {
			return ErrNotEnoughPlayers
		}

		st.Players.ResetAll()
		st.RoundNumber = 1
		b.ToRoom(room.Code, events.New(events.TypeGameStarted, events.GameStarted{
			Round:     st.RoundNumber,
			MaxRounds: st.MaxRounds,
			Players:   st.Players.Views(""),
		}))
		e.beginWordSelection(room, st, b, "")
		e.log.Info().Str("room", room.Code).Int("players", st.Players.Count()).Msg("game started")
		return nil
	})
}

// WordSelected starts the guessing part of the round with one of the
// drawer's offered words.
func (e *Engine) WordSelected(token, code, word string) error {
	room, err := e.rooms.Get(code)
	if err != nil {
		return err
	}
	return room.Transact(e.out, func(st *rooms.State, b *broadcast.Batch) error {
		if st.Closed {
			return rooms.ErrNotFound
		}
		if token != st.DrawerToken {
			return ErrUnauthorized
		}
		if st.Phase != rooms.PhaseWordSelection {
			return ErrWrongPhase
		}
		chosen, ok := offered(st.WordChoices, word)
		if !ok {
			return ErrWordNotOffered
		}

		st.Players.ResetGuesses()
		st.CurrentWord = chosen
		st.WordChoices = nil
		st.Phase = rooms.PhaseRoundActive
		ctx, gen := st.ArmTimer(e.cfg.RoundSeconds)
		go e.runTimer(ctx, room, gen)

		drawer := st.Drawer()
		b.ToRoomExcept(room.Code, token, events.New(events.TypeDrawerAnnounced, events.DrawerAnnounced{
			Drawer:     drawer.Name,
			WordLength: utf8.RuneCountInString(chosen),
		}))
		b.ToRoomExcept(room.Code, token, notice("Guess the word!"))
		b.To(token, events.New(events.TypeWordToDraw, events.WordToDraw{Word: chosen}))
		b.ToRoom(room.Code, events.New(events.TypeRoundStarted, events.RoundStarted{
			Round:    st.RoundNumber,
			Duration: e.cfg.RoundSeconds,
		}))
		return nil
	})
}

// EndRound closes the active round. It reports false when there was no
// active round to end, which is how racing callers lose.
func (e *Engine) EndRound(code, reason string) bool {
	room, err := e.rooms.Get(code)
	if err != nil {
		return false
	}
	var ended bool
	room.Transact(e.out, func(st *rooms.State, b *broadcast.Batch) error {
		ended = e.endRoundLocked(room, st, b, reason)
		return nil
	})
	return ended
}

// ChangeDrawer lets the host skip the current drawer. The round number
// does not move.
func (e *Engine) ChangeDrawer(token, code string) error {
	room, err := e.rooms.Get(code)
	if err != nil {
		return err
	}
	return room.Transact(e.out, func(st *rooms.State, b *broadcast.Batch) error {
		if st.Closed {
			return rooms.ErrNotFound
		}
		if token != room.HostToken {
			return ErrUnauthorized
		}
		if st.Phase != rooms.PhaseWordSelection && st.Phase != rooms.PhaseRoundActive {
			return ErrWrongPhase
		}
		if st.Players.Count() < e.cfg.MinPlayers {
			return ErrNotEnoughPlayers
		}

		st.DisarmTimer()
		st.CurrentWord = ""
		b.ToRoom(room.Code, events.New(events.TypeClearCanvas, nil))
		drawer := e.beginWordSelection(room, st, b, st.DrawerToken)
		b.ToRoom(room.Code, events.New(events.TypeDrawerChanged, events.DrawerChanged{Drawer: drawer.Name}))
		b.ToRoom(room.Code, notice(drawer.Name+" is drawing now"))
		return nil
	})
}

// beginWordSelection picks a drawer other than exclude when possible and
// offers them fresh word choices.
func (e *Engine) beginWordSelection(room *rooms.Room, st *rooms.State, b *broadcast.Batch, exclude string) *players.Player {
	drawer := st.Players.Random(exclude)
	if drawer == nil {
		drawer = st.Players.Random("")
	}
	st.DrawerToken = drawer.ID
	st.CurrentWord = ""
	st.WordChoices = e.words.Choices(e.cfg.WordChoices)
	st.Phase = rooms.PhaseWordSelection
	st.Players.ResetGuesses()

	b.To(drawer.ID, events.New(events.TypeDrawerAssigned, events.DrawerAssigned{
		Round:   st.RoundNumber,
		Choices: append([]string(nil), st.WordChoices...),
	}))
	b.ToRoomExcept(room.Code, drawer.ID, events.New(events.TypeDrawerChoosing, events.DrawerChoosing{
		Round:  st.RoundNumber,
		Drawer: drawer.Name,
	}))
	return drawer
}

func (e *Engine) recoverRoom(code, where string) {
	if r := recover(); r != nil {
		e.log.Error().
			Str("room", code).
			Str("where", where).
			Interface("panic", r).
			Str("stack", string(debug.Stack())).
			Msg("recovered panic")
	}
}

func offered(choices []string, word string) (string, bool) {
	word = strings.TrimSpace(word)
	for _, c := range choices {
		if strings.EqualFold(c, word) {
			return c, true
		}
	}
	return "", false
}

func notice(text string) events.Message {
	return events.New(events.TypeSystemNotice, events.SystemNotice{Text: text})
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		name = strings.TrimSpace(string([]rune(name)[:maxNameLength]))
	}
	return name, nil
}
