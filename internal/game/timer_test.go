package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchit/internal/events"
	"sketchit/internal/rooms"
)

func fastConfig(seconds int) Config {
	cfg := testConfig()
	cfg.RoundSeconds = seconds
	cfg.TickInterval = 5 * time.Millisecond
	cfg.RevealDelay = time.Hour
	return cfg
}

func TestTimerExpiresWithTimeUp(t *testing.T) {
	e, mem, _ := newTestEngine(t, fastConfig(3), 5)
	room, _ := setupRoom(t, e, 2)
	require.NoError(t, e.StartGame("host", room.Code))
	beginRound(t, e, room)

	require.Eventually(t, func() bool {
		return mem.Count(events.TypeRoundEnded) == 1
	}, time.Second, 2*time.Millisecond)

	assert.Equal(t, []string{ReasonTimeUp}, roundEndedReasons(mem, "host"))

	var remaining []int
	for _, msg := range mem.Inbox("host") {
		if msg.Type == events.TypeTimerTick {
			remaining = append(remaining, msg.Data.(events.TimerTick).Remaining)
		}
	}
	assert.Equal(t, []int{2, 1, 0}, remaining)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 3, mem.Count(events.TypeTimerTick), "expired timer must stay quiet")
	assert.Equal(t, 1, mem.Count(events.TypeRoundEnded))
}

func TestTimerStopsWhenRoundEndsEarly(t *testing.T) {
	e, mem, _ := newTestEngine(t, fastConfig(1000), 5)
	room, _ := setupRoom(t, e, 2)
	require.NoError(t, e.StartGame("host", room.Code))
	beginRound(t, e, room)

	require.Eventually(t, func() bool {
		return mem.Count(events.TypeTimerTick) >= 2
	}, time.Second, time.Millisecond)
	require.True(t, e.EndRound(room.Code, ReasonAllGuessed))

	ticks := mem.Count(events.TypeTimerTick)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, ticks, mem.Count(events.TypeTimerTick))
	assert.Equal(t, []string{ReasonAllGuessed}, roundEndedReasons(mem, "host"))
}

func TestChangeDrawerSilencesOldTimer(t *testing.T) {
	e, mem, _ := newTestEngine(t, fastConfig(1000), 5)
	room, _ := setupRoom(t, e, 3)
	require.NoError(t, e.StartGame("host", room.Code))
	beginRound(t, e, room)

	require.Eventually(t, func() bool {
		return mem.Count(events.TypeTimerTick) >= 2
	}, time.Second, time.Millisecond)
	require.NoError(t, e.ChangeDrawer("host", room.Code))

	ticks := mem.Count(events.TypeTimerTick)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, ticks, mem.Count(events.TypeTimerTick), "no ticks while the new drawer chooses")

	_, drawer, _ := readState(room)
	require.NoError(t, e.WordSelected(drawer, room.Code, "banana"))
	require.Eventually(t, func() bool {
		return mem.Count(events.TypeTimerTick) >= ticks+3
	}, time.Second, time.Millisecond)

	// the new countdown starts from the top and never skips a second
	var after []int
	seen := 0
	for _, msg := range mem.Inbox("host") {
		if msg.Type != events.TypeTimerTick {
			continue
		}
		seen++
		if seen > ticks {
			after = append(after, msg.Data.(events.TimerTick).Remaining)
		}
	}
	for i, r := range after {
		assert.Equal(t, 999-i, r)
	}
}

func TestStaleGenerationIsInert(t *testing.T) {
	st := &rooms.State{}
	_, gen := st.ArmTimer(10)
	_, _ = st.ArmTimer(10)
	assert.False(t, st.TimerCurrent(gen))
}
