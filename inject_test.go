package clutter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hajimehoshi/ebiten/v2"
)

func collectEvents(s *Scene) *[]Event {
	var got []Event
	record := func(ev Event) { got = append(got, ev) }
	for typ := EventType(0); typ < eventTypeCount; typ++ {
		s.OnEvent(typ, record)
	}
	return &got
}

func TestInjectClickConsumesTwoDispatches(t *testing.T) {
	c, ft := newTestClock(DefaultConfig())
	s, _ := newTestScene(c)
	got := collectEvents(s)

	s.InjectClick(10, 20)
	tickEvery(c, ft, 16, 1)
	if len(*got) != 1 || (*got)[0].Type != EventPointerDown {
		t.Fatalf("after first dispatch got %v, want one pointer-down", *got)
	}
	tickEvery(c, ft, 16, 1)
	if len(*got) != 2 || (*got)[1].Type != EventPointerUp {
		t.Fatalf("after second dispatch got %v, want pointer-up second", *got)
	}
	if s.HasQueuedEvents() {
		t.Error("inject queue not drained")
	}
}

func TestInjectDrag(t *testing.T) {
	c, ft := newTestClock(DefaultConfig())
	s, _ := newTestScene(c)
	got := collectEvents(s)

	s.InjectDrag(0, 0, 30, 0, 4)
	tickEvery(c, ft, 16, 4)

	want := []Event{
		{Type: EventPointerDown, X: 0, Y: 0},
		{Type: EventPointerMove, X: 10, Y: 0},
		{Type: EventPointerMove, X: 20, Y: 0},
		{Type: EventPointerUp, X: 30, Y: 0},
	}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("drag events (-want +got):\n%s", diff)
	}
}

func TestInjectDragMinimumFrames(t *testing.T) {
	c, _ := newTestClock(DefaultConfig())
	s, _ := newTestScene(c)
	s.InjectDrag(0, 0, 10, 10, 0)
	if len(s.injectQueue) != 2 {
		t.Errorf("inject queue len = %d, want 2", len(s.injectQueue))
	}
}

func TestInjectKey(t *testing.T) {
	c, ft := newTestClock(DefaultConfig())
	s, _ := newTestScene(c)
	got := collectEvents(s)

	s.InjectKey(ebiten.KeySpace)
	tickEvery(c, ft, 16, 2)

	want := []Event{
		{Type: EventKeyDown, Key: ebiten.KeySpace},
		{Type: EventKeyUp, Key: ebiten.KeySpace},
	}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("key events (-want +got):\n%s", diff)
	}
}
