package events

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewBus(t *testing.T) {
	bus := NewBus()
	if bus == nil {
		t.Fatal("NewBus() returned nil")
	}
	if bus.GameResults == nil {
		t.Fatal("GameResults channel is nil")
	}
}

func TestBus_PublishReceive(t *testing.T) {
	bus := NewBus()

	go bus.PublishResult(GameResult{RoomCode: "ABCD", Rounds: 5})

	select {
	case received := <-bus.GameResults:
		if received.RoomCode != "ABCD" {
			t.Errorf("received RoomCode = %q, want %q", received.RoomCode, "ABCD")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for result")
	}
}

func TestBus_DropsWhenFull(t *testing.T) {
	bus := NewBus()

	for i := 0; i < 10; i++ {
		if !bus.PublishResult(GameResult{}) {
			t.Fatalf("publish %d dropped, want buffered", i)
		}
	}
	if bus.PublishResult(GameResult{}) {
		t.Error("publish on a full bus should report a drop")
	}
}

func TestBus_NilIsSafe(t *testing.T) {
	var bus *Bus
	if bus.PublishResult(GameResult{}) {
		t.Error("nil bus should not accept results")
	}
}

func TestMessage_JSONShape(t *testing.T) {
	data, err := json.Marshal(New(TypeTimerTick, TimerTick{Remaining: 42}))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"round_timer_tick","data":{"remaining":42}}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}
