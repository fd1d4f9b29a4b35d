package clutter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/clutter/cogl"
)

func newTestScene(c *MasterClock) (*Scene, *cogl.TraceDriver) {
	d := cogl.NewTraceDriver()
	return NewScene(c, cogl.NewContext(d)), d
}

func TestSceneRegistersWithClock(t *testing.T) {
	c, _ := newTestClock(DefaultConfig())
	s, _ := newTestScene(c)
	if !c.Stages().Contains(s) {
		t.Fatal("scene not registered with its clock")
	}
	if _, ok := s.UpdateTime(); !ok {
		t.Error("new scene has no update time")
	}
	s.Destroy()
	if c.Stages().Contains(s) {
		t.Error("destroyed scene still registered")
	}
	s.QueueRedraw()
	if _, ok := s.UpdateTime(); ok {
		t.Error("destroyed scene rescheduled itself")
	}
}

func TestScenePaintsOnlyWhenQueued(t *testing.T) {
	c, ft := newTestClock(DefaultConfig())
	s, _ := newTestScene(c)

	paints := 0
	s.SetPaintFunc(func(ctx *cogl.Context, j *cogl.Journal) {
		paints++
		m := cogl.NewMaterial(ctx)
		j.LogRectangle(m, cogl.FlushOptions{}, 0, 0, 10, 10, 0, 0, 1, 1)
	})

	tickEvery(c, ft, 16, 3)
	if paints != 1 {
		t.Errorf("paints = %d, want 1", paints)
	}
	if got := s.Context().Stats().JournalBatches; got != 1 {
		t.Errorf("JournalBatches = %d, want 1", got)
	}

	s.QueueRedraw()
	tickEvery(c, ft, 16, 1)
	if paints != 2 || s.Redraws() != 2 {
		t.Errorf("paints, Redraws = %d, %d, want 2, 2", paints, s.Redraws())
	}
}

func TestSceneContinuousRedraw(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ContinuousRedraw = true
	c, ft := newTestClock(cfg)
	s, _ := newTestScene(c)

	tickEvery(c, ft, 16, 4)
	if s.Redraws() != 4 {
		t.Errorf("Redraws = %d, want 4", s.Redraws())
	}
}

func TestSceneSwapThrottle(t *testing.T) {
	c, ft := newTestClock(DefaultConfig())
	s, _ := newTestScene(c)
	s.SetSwapThrottle(true)
	s.SetContinuousRedraw(true)

	tickEvery(c, ft, 16, 3)
	if s.Redraws() != 1 {
		t.Fatalf("Redraws before swap = %d, want 1", s.Redraws())
	}
	if !s.SwapPending() {
		t.Fatal("no swap pending after a throttled redraw")
	}

	s.SwapBuffers()
	tickEvery(c, ft, 16, 1)
	if s.Redraws() != 2 {
		t.Errorf("Redraws after swap = %d, want 2", s.Redraws())
	}
}

func TestSceneEventsDeliveredBeforeTimelines(t *testing.T) {
	c, ft := newTestClock(DefaultConfig())
	s, _ := newTestScene(c)

	var log []string
	s.OnKeyDown(func(ev Event) { log = append(log, "key:"+ev.Key.String()) })
	tl := NewTimeline(c, 1000)
	tl.OnNewFrame(func(int) { log = append(log, "frame") })
	tl.Start()

	s.QueueEvent(Event{Type: EventKeyDown, Key: ebiten.KeyA})
	tickEvery(c, ft, 16, 1)

	if diff := cmp.Diff([]string{"key:A", "frame"}, log); diff != "" {
		t.Errorf("delivery order (-want +got):\n%s", diff)
	}
}

func TestSceneCompressesMotion(t *testing.T) {
	c, ft := newTestClock(DefaultConfig())
	s, _ := newTestScene(c)

	var got []Event
	record := func(ev Event) { got = append(got, ev) }
	s.OnPointerMove(record)
	s.OnPointerDown(record)

	s.QueueEvent(Event{Type: EventPointerMove, X: 1, Y: 1})
	s.QueueEvent(Event{Type: EventPointerMove, X: 2, Y: 2})
	s.QueueEvent(Event{Type: EventPointerDown, X: 2, Y: 2})
	s.QueueEvent(Event{Type: EventPointerMove, X: 3, Y: 3})
	s.QueueEvent(Event{Type: EventPointerMove, X: 4, Y: 4})
	tickEvery(c, ft, 16, 1)

	want := []Event{
		{Type: EventPointerMove, X: 2, Y: 2},
		{Type: EventPointerDown, X: 2, Y: 2},
		{Type: EventPointerMove, X: 4, Y: 4},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("delivered events (-want +got):\n%s", diff)
	}
	if s.HasQueuedEvents() {
		t.Error("events still queued after processing")
	}
}

func TestSceneHandlerRemoval(t *testing.T) {
	c, ft := newTestClock(DefaultConfig())
	s, _ := newTestScene(c)

	calls := 0
	var h CallbackHandle
	h = s.OnScroll(func(Event) {
		calls++
		h.Remove()
	})
	s.QueueEvent(Event{Type: EventScroll, DeltaY: 1})
	s.QueueEvent(Event{Type: EventScroll, DeltaY: 1})
	tickEvery(c, ft, 16, 1)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
