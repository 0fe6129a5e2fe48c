package wshub

import (
	"encoding/json"
	"testing"
	"time"

	"sketchit/internal/events"
)

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func newTestClient(id string, buffer int) *Client {
	return &Client{ID: id, Send: make(chan []byte, buffer)}
}

func recv(t *testing.T, c *Client) envelope {
	t.Helper()
	select {
	case data := <-c.Send:
		var got envelope
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return got
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("%s did not receive message", c.ID)
	}
	return envelope{}
}

func expectNothing(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.Send:
		t.Fatalf("%s should not receive anything, got %s", c.ID, data)
	default:
	}
}

func TestSendToRoomExcept(t *testing.T) {
	h := NewHub()
	c1, c2, c3 := newTestClient("p1", 16), newTestClient("p2", 16), newTestClient("p3", 16)
	outsider := newTestClient("p4", 16)
	for _, c := range []*Client{c1, c2, c3, outsider} {
		h.Register(c)
	}
	for _, id := range []string{"p1", "p2", "p3"} {
		h.AddToRoom("ABCD", id)
	}

	h.SendToRoomExcept("ABCD", "p1", events.New(events.TypeStroke, events.StrokeSegment{StartX: 100, EndY: 200}))

	got := recv(t, c2)
	if got.Type != events.TypeStroke {
		t.Fatalf("type = %q, want %q", got.Type, events.TypeStroke)
	}
	var seg events.StrokeSegment
	if err := json.Unmarshal(got.Data, &seg); err != nil {
		t.Fatal(err)
	}
	if seg.StartX != 100 || seg.EndY != 200 {
		t.Fatalf("unexpected segment: %+v", seg)
	}
	recv(t, c3)
	expectNothing(t, c1)
	expectNothing(t, outsider)
}

func TestSendToAndSet(t *testing.T) {
	h := NewHub()
	c1, c2, c3 := newTestClient("p1", 16), newTestClient("p2", 16), newTestClient("p3", 16)
	h.Register(c1)
	h.Register(c2)
	h.Register(c3)

	h.SendTo("p1", events.New(events.TypeWordToDraw, events.WordToDraw{Word: "apple"}))
	if got := recv(t, c1); got.Type != events.TypeWordToDraw {
		t.Errorf("type = %q, want %q", got.Type, events.TypeWordToDraw)
	}

	h.SendToSet([]string{"p2", "p3", "ghost"}, events.New(events.TypeSystemNotice, events.SystemNotice{Text: "hi"}))
	recv(t, c2)
	recv(t, c3)
	expectNothing(t, c1)
}

func TestUnregisterClosesAndLeavesRooms(t *testing.T) {
	h := NewHub()
	c1, c2 := newTestClient("p1", 16), newTestClient("p2", 16)
	h.Register(c1)
	h.Register(c2)
	h.AddToRoom("ABCD", "p1")
	h.AddToRoom("ABCD", "p2")

	h.Unregister("p1")

	if _, ok := <-c1.Send; ok {
		t.Fatal("c1.Send should be closed")
	}
	if h.RoomSize("ABCD") != 1 {
		t.Errorf("RoomSize = %d, want 1", h.RoomSize("ABCD"))
	}
	// must not panic on the closed channel
	h.SendToRoom("ABCD", events.New(events.TypeRoomClosed, nil))
	recv(t, c2)
}

func TestUnregisterNonexistent(t *testing.T) {
	h := NewHub()
	// Should not panic
	h.Unregister("nonexistent")
}

func TestRemoveAndCloseRoom(t *testing.T) {
	h := NewHub()
	c1 := newTestClient("p1", 16)
	h.Register(c1)
	h.AddToRoom("ABCD", "p1")
	h.AddToRoom("WXYZ", "p1")

	h.RemoveFromRoom("ABCD", "p1")
	h.SendToRoom("ABCD", events.New(events.TypeChat, events.Chat{From: "x", Text: "y"}))
	expectNothing(t, c1)

	h.CloseRoom("WXYZ")
	h.SendToRoom("WXYZ", events.New(events.TypeChat, events.Chat{From: "x", Text: "y"}))
	expectNothing(t, c1)
	if h.RoomSize("WXYZ") != 0 {
		t.Error("closed room should have no members")
	}
}

func TestSendDropsWhenFull(t *testing.T) {
	h := NewHub()

	// Channel with capacity 1
	c := newTestClient("p1", 1)
	h.Register(c)
	h.AddToRoom("ABCD", "p1")

	c.Send <- []byte("filler")

	// This should not block; the message is dropped
	h.SendToRoom("ABCD", events.New(events.TypeTimerTick, events.TimerTick{Remaining: 3}))

	data := <-c.Send
	if string(data) != "filler" {
		t.Fatalf("expected filler, got: %s", data)
	}
	expectNothing(t, c)
}
