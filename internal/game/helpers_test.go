package game

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sketchit/internal/broadcast"
	"sketchit/internal/events"
	"sketchit/internal/rooms"
)

type fixedWords []string

func (f fixedWords) Choices(n int) []string {
	return append([]string(nil), f[:min(n, len(f))]...)
}

// testConfig never ticks on its own; timer tests shorten TickInterval.
func testConfig() Config {
	return Config{
		RoundSeconds: 60,
		RevealDelay:  20 * time.Millisecond,
		TickInterval: time.Hour,
		WordChoices:  3,
		MinPlayers:   2,
	}
}

func newTestEngine(t *testing.T, cfg Config, maxRounds int) (*Engine, *broadcast.Memory, *events.Bus) {
	t.Helper()
	mem := broadcast.NewMemory()
	bus := events.NewBus()
	store := rooms.NewStore(rooms.Options{MaxRounds: maxRounds})
	return New(store, mem, fixedWords{"apple", "banana", "cherry"}, bus, cfg), mem, bus
}

// setupRoom creates a room hosted by "host" plus n-1 joined players
// named p1..p(n-1).
func setupRoom(t *testing.T, e *Engine, n int) (*rooms.Room, []string) {
	t.Helper()
	room, err := e.CreateRoom("host", "Host")
	require.NoError(t, err)
	tokens := []string{"host"}
	for i := 1; i < n; i++ {
		tok := fmt.Sprintf("p%d", i)
		_, err := e.JoinRoom(tok, room.Code, fmt.Sprintf("Player%d", i))
		require.NoError(t, err)
		tokens = append(tokens, tok)
	}
	return room, tokens
}

func readState(room *rooms.Room) (phase rooms.Phase, drawer string, round int) {
	room.Read(func(st *rooms.State) {
		phase, drawer, round = st.Phase, st.DrawerToken, st.RoundNumber
	})
	return
}

func setRemaining(room *rooms.Room, seconds int) {
	room.Transact(nil, func(st *rooms.State, _ *broadcast.Batch) error {
		st.RemainingSeconds = seconds
		return nil
	})
}

func scoreOf(room *rooms.Room, token string) int {
	var score int
	room.Read(func(st *rooms.State) {
		if p := st.Players.Get(token); p != nil {
			score = p.Score
		}
	})
	return score
}

// beginRound waits for word selection and has the drawer pick "apple".
func beginRound(t *testing.T, e *Engine, room *rooms.Room) string {
	t.Helper()
	require.Eventually(t, func() bool {
		phase, _, _ := readState(room)
		return phase == rooms.PhaseWordSelection
	}, time.Second, 2*time.Millisecond)
	_, drawer, _ := readState(room)
	require.NoError(t, e.WordSelected(drawer, room.Code, "apple"))
	return drawer
}

// drawerNotHost makes sure someone other than the host is drawing.
func drawerNotHost(t *testing.T, e *Engine, room *rooms.Room) string {
	t.Helper()
	_, drawer, _ := readState(room)
	if drawer == room.HostToken {
		require.NoError(t, e.ChangeDrawer(room.HostToken, room.Code))
		_, drawer, _ = readState(room)
	}
	require.NotEqual(t, room.HostToken, drawer)
	return drawer
}

func guessers(tokens []string, drawer string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != drawer {
			out = append(out, t)
		}
	}
	return out
}

func roundEndedReasons(mem *broadcast.Memory, token string) []string {
	var reasons []string
	for _, msg := range mem.Inbox(token) {
		if msg.Type == events.TypeRoundEnded {
			reasons = append(reasons, msg.Data.(events.RoundEnded).Reason)
		}
	}
	return reasons
}
