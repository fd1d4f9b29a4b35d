package clutter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMarkerFiresOncePerCrossing(t *testing.T) {
	tests := []struct {
		name  string
		msecs int
		dir   TimelineDirection
	}{
		{"start", 0, Forward},
		{"on frame", 48, Forward},
		{"between frames", 50, Forward},
		{"end", 100, Forward},
		{"backward end", 100, Backward},
		{"backward between", 50, Backward},
		{"backward start", 0, Backward},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ft := newTestClock(DefaultConfig())
			tl := NewTimeline(c, 100)
			tl.SetDirection(tt.dir)
			tl.AddMarker("m", tt.msecs)

			var got []int
			tl.OnMarkerReached("m", func(name string, msecs int) { got = append(got, msecs) })

			tl.Start()
			c.Dispatch()
			tickEvery(c, ft, 16, 10)

			if diff := cmp.Diff([]int{tt.msecs}, got); diff != "" {
				t.Errorf("marker emissions (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMarkerFiresOnLoopWrap(t *testing.T) {
	c, ft := newTestClock(DefaultConfig())
	tl := NewTimeline(c, 100)
	tl.SetLoop(true)
	tl.AddMarker("early", 10)

	fired := 0
	tl.OnMarkerReached("", func(string, int) { fired++ })

	tl.Start()
	c.Dispatch()
	tickEvery(c, ft, 95, 1)
	if fired != 1 {
		t.Fatalf("after first pass fired = %d, want 1", fired)
	}

	// 95 -> 115 wraps to 15, crossing the marker in the wrapped span.
	tickEvery(c, ft, 20, 1)
	if fired != 2 {
		t.Errorf("after wrap fired = %d, want 2", fired)
	}
	tickEvery(c, ft, 20, 1)
	if fired != 2 {
		t.Errorf("after leaving the marker fired = %d, want 2", fired)
	}
}

func TestMarkerHandlerFiltersByName(t *testing.T) {
	c, ft := newTestClock(DefaultConfig())
	tl := NewTimeline(c, 100)
	tl.AddMarker("a", 20)
	tl.AddMarker("b", 40)

	var named, all []string
	tl.OnMarkerReached("b", func(name string, _ int) { named = append(named, name) })
	tl.OnMarkerReached("", func(name string, _ int) { all = append(all, name) })

	tl.Start()
	c.Dispatch()
	tickEvery(c, ft, 50, 1)

	if diff := cmp.Diff([]string{"b"}, named); diff != "" {
		t.Errorf("named handler (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, all); diff != "" {
		t.Errorf("catch-all handler (-want +got):\n%s", diff)
	}
}

func TestAddMarkerRejects(t *testing.T) {
	c, _ := newTestClock(DefaultConfig())
	tl := NewTimeline(c, 100)
	tl.AddMarker("a", 10)
	tl.AddMarker("a", 20)     // duplicate
	tl.AddMarker("late", 101) // outside duration
	tl.AddMarker("neg", -1)

	if diff := cmp.Diff([]string{"a"}, tl.ListMarkers(-1)); diff != "" {
		t.Errorf("markers (-want +got):\n%s", diff)
	}
	if got := tl.ListMarkers(10); len(got) != 1 {
		t.Errorf("ListMarkers(10) = %v, want [a]", got)
	}
}

func TestMarkerAtProgressFollowsDuration(t *testing.T) {
	c, _ := newTestClock(DefaultConfig())
	tl := NewTimeline(c, 100)
	tl.AddMarkerAtProgress("half", 0.5)
	tl.AddMarkerAtProgress("over", 2)

	if got := tl.ListMarkers(50); !cmp.Equal(got, []string{"half"}) {
		t.Errorf("ListMarkers(50) = %v, want [half]", got)
	}
	tl.SetDuration(300)
	if got := tl.ListMarkers(150); !cmp.Equal(got, []string{"half"}) {
		t.Errorf("ListMarkers(150) after SetDuration = %v, want [half]", got)
	}
	if got := tl.ListMarkers(300); !cmp.Equal(got, []string{"over"}) {
		t.Errorf("ListMarkers(300) = %v, want [over]", got)
	}
}

func TestRemoveAndAdvanceToMarker(t *testing.T) {
	c, _ := newTestClock(DefaultConfig())
	tl := NewTimeline(c, 100)
	tl.AddMarker("m", 70)

	tl.AdvanceToMarker("m")
	if tl.Elapsed() != 70 {
		t.Errorf("Elapsed = %d, want 70", tl.Elapsed())
	}

	tl.RemoveMarker("m")
	if tl.HasMarker("m") {
		t.Error("marker still present after RemoveMarker")
	}
	tl.RemoveMarker("m")    // logged, ignored
	tl.AdvanceToMarker("m") // logged, ignored
	if tl.Elapsed() != 70 {
		t.Errorf("Elapsed = %d after unknown marker, want 70", tl.Elapsed())
	}
}

func TestMarkerSpanPassed(t *testing.T) {
	tests := []struct {
		name  string
		span  markerSpan
		msecs int
		want  bool
	}{
		{"inside forward", markerSpan{Forward, 50, 100, 20}, 40, true},
		{"at old time forward", markerSpan{Forward, 50, 100, 20}, 30, false},
		{"at new time forward", markerSpan{Forward, 50, 100, 20}, 50, true},
		{"zero from start", markerSpan{Forward, 16, 100, 16}, 0, true},
		{"zero without motion", markerSpan{Forward, 0, 100, 0}, 0, false},
		{"inside backward", markerSpan{Backward, 50, 100, 20}, 60, true},
		{"at old time backward", markerSpan{Backward, 50, 100, 20}, 70, false},
		{"duration from end", markerSpan{Backward, 84, 100, 16}, 100, true},
		{"outside duration", markerSpan{Forward, 100, 100, 50}, 120, false},
	}
	for _, tt := range tests {
		if got := tt.span.passed(tt.msecs); got != tt.want {
			t.Errorf("%s: passed(%d) = %v, want %v", tt.name, tt.msecs, got, tt.want)
		}
	}
}

func TestMarkerHandlerMovingPlayhead(t *testing.T) {
	c, ft := newTestClock(DefaultConfig())
	tl := NewTimeline(c, 100)
	tl.AddMarker("a", 30)
	tl.AddMarker("b", 40)

	var got []string
	tl.OnMarkerReached("", func(name string, _ int) {
		got = append(got, name)
		if name == "a" {
			tl.Advance(0)
		}
	})

	tl.Start()
	c.Dispatch()
	tickEvery(c, ft, 50, 1)
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Errorf("markers (-want +got):\n%s", diff)
	}
	if tl.Elapsed() != 0 {
		t.Errorf("Elapsed = %d, want 0 after the handler rewound it", tl.Elapsed())
	}
}
