package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchit/internal/events"
	"sketchit/internal/players"
	"sketchit/internal/rooms"
)

func TestGuesserPoints(t *testing.T) {
	tests := []struct {
		remaining int
		want      int
	}{
		{45, 55},
		{80, 60},
		{50, 60},
		{0, 10},
		{-3, 10},
	}
	for _, tt := range tests {
		if got := GuesserPoints(tt.remaining); got != tt.want {
			t.Errorf("GuesserPoints(%d) = %d, want %d", tt.remaining, got, tt.want)
		}
	}
}

func TestEvaluate(t *testing.T) {
	st := &rooms.State{Players: players.NewRoster(), Phase: rooms.PhaseRoundActive, CurrentWord: "Apple", DrawerToken: "d"}
	drawer := players.New("d", "Drawer", false)
	guesser := players.New("g", "Guesser", false)
	done := &players.Player{ID: "x", HasGuessedCorrectly: true}

	tests := []struct {
		name   string
		sender *players.Player
		msg    string
		want   verdict
	}{
		{"drawer never guesses", drawer, "apple", verdictChat},
		{"already guessed", done, "apple", verdictChat},
		{"case insensitive match", guesser, "APPLE", verdictCorrect},
		{"partial is chat", guesser, "appl", verdictChat},
		{"miss is chat", guesser, "pear", verdictChat},
	}
	for _, tt := range tests {
		if got := evaluate(st, tt.sender, tt.msg); got != tt.want {
			t.Errorf("%s: evaluate(%q) = %v, want %v", tt.name, tt.msg, got, tt.want)
		}
	}

	st.Phase = rooms.PhaseWordSelection
	if evaluate(st, guesser, "apple") != verdictChat {
		t.Error("no guesses outside an active round")
	}
}

func TestCorrectGuessScoring(t *testing.T) {
	e, mem, _ := newTestEngine(t, testConfig(), 5)
	room, tokens := setupRoom(t, e, 4)
	require.NoError(t, e.StartGame("host", room.Code))
	drawer := beginRound(t, e, room)
	gs := guessers(tokens, drawer)

	setRemaining(room, 45)
	require.NoError(t, e.SendGuessOrChat(gs[0], room.Code, "  Apple "))
	assert.Equal(t, 55, scoreOf(room, gs[0]))
	assert.Equal(t, 5, scoreOf(room, drawer))

	msg, ok := mem.Last(gs[1], events.TypeCorrectGuess)
	require.True(t, ok)
	assert.Equal(t, 55, msg.Data.(events.CorrectGuess).Points)
	assert.Equal(t, 55, msg.Data.(events.CorrectGuess).Total)
	_, ok = mem.Last(gs[1], events.TypeScoreboard)
	assert.True(t, ok)

	setRemaining(room, 80)
	require.NoError(t, e.SendGuessOrChat(gs[1], room.Code, "apple"))
	assert.Equal(t, 60, scoreOf(room, gs[1]))
	assert.Equal(t, 10, scoreOf(room, drawer))

	// a second correct guess from the same player is only chat
	require.NoError(t, e.SendGuessOrChat(gs[0], room.Code, "apple"))
	assert.Equal(t, 55, scoreOf(room, gs[0]))
	assert.Equal(t, 2, mem.Count(events.TypeCorrectGuess))
}

func TestGuess_ChatCases(t *testing.T) {
	e, mem, _ := newTestEngine(t, testConfig(), 5)
	room, tokens := setupRoom(t, e, 3)

	// lobby chat
	require.NoError(t, e.SendGuessOrChat("p1", room.Code, "hello"))
	msg, ok := mem.Last("host", events.TypeChat)
	require.True(t, ok)
	assert.Equal(t, events.Chat{From: "Player1", Text: "hello"}, msg.Data)

	require.NoError(t, e.StartGame("host", room.Code))
	drawer := beginRound(t, e, room)
	gs := guessers(tokens, drawer)

	require.NoError(t, e.SendGuessOrChat(drawer, room.Code, "apple"))
	require.NoError(t, e.SendGuessOrChat(gs[0], room.Code, "banana"))
	require.NoError(t, e.SendGuessOrChat(gs[0], room.Code, "   "))

	assert.Zero(t, mem.Count(events.TypeCorrectGuess))
	assert.Zero(t, scoreOf(room, drawer))
	assert.Equal(t, 3, mem.Count(events.TypeChat))

	assert.ErrorIs(t, e.SendGuessOrChat("stranger", room.Code, "apple"), ErrUnauthorized)
	assert.ErrorIs(t, e.SendGuessOrChat(gs[0], "ZZZZ", "apple"), rooms.ErrNotFound)
}

func TestAllGuessedEndsRoundOnLastGuess(t *testing.T) {
	e, mem, _ := newTestEngine(t, testConfig(), 5)
	room, tokens := setupRoom(t, e, 4)
	require.NoError(t, e.StartGame("host", room.Code))
	drawer := beginRound(t, e, room)
	gs := guessers(tokens, drawer)
	require.Len(t, gs, 3)

	for _, g := range gs[:2] {
		require.NoError(t, e.SendGuessOrChat(g, room.Code, "apple"))
		phase, _, _ := readState(room)
		assert.Equal(t, rooms.PhaseRoundActive, phase, "round must not end before every guesser is done")
	}
	assert.Zero(t, mem.Count(events.TypeRoundEnded))

	require.NoError(t, e.SendGuessOrChat(gs[2], room.Code, "apple"))
	assert.Equal(t, 1, mem.Count(events.TypeRoundEnded))
	assert.Equal(t, []string{ReasonAllGuessed}, roundEndedReasons(mem, drawer))

	msg, _ := mem.Last(drawer, events.TypeRoundEnded)
	assert.Equal(t, "apple", msg.Data.(events.RoundEnded).Word)
	_, _, round := readState(room)
	assert.Equal(t, 2, round)
}

func TestGuesserLeavingCompletesRound(t *testing.T) {
	e, mem, _ := newTestEngine(t, testConfig(), 5)
	room, tokens := setupRoom(t, e, 3)
	require.NoError(t, e.StartGame("host", room.Code))
	drawer := drawerNotHost(t, e, room)
	require.NoError(t, e.WordSelected(drawer, room.Code, "apple"))

	// host guesses, the remaining guesser leaves
	require.NoError(t, e.SendGuessOrChat("host", room.Code, "apple"))
	var leaver string
	for _, g := range guessers(tokens, drawer) {
		if g != "host" {
			leaver = g
		}
	}
	require.NoError(t, e.Disconnect(leaver))

	assert.Equal(t, []string{ReasonAllGuessed}, roundEndedReasons(mem, drawer))
}
