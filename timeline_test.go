package clutter

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTimelineMonotonicForward(t *testing.T) {
	c, ft := newTestClock(DefaultConfig())
	tl := NewTimeline(c, 100)

	var frames []int
	tl.OnNewFrame(func(elapsed int) { frames = append(frames, elapsed) })
	completed, stopped := 0, 0
	tl.OnCompleted(func() { completed++ })
	tl.OnStopped(func(finished bool) {
		if !finished {
			t.Error("stopped(false) on natural completion")
		}
		stopped++
	})

	tl.Start()
	c.Dispatch() // anchors the first tick
	tickEvery(c, ft, 16, 10)

	if len(frames) == 0 {
		t.Fatal("no frames emitted")
	}
	for i, e := range frames {
		if e < 0 || e > 100 {
			t.Errorf("frame %d elapsed = %d, out of [0,100]", i, e)
		}
		if i > 0 && e < frames[i-1] {
			t.Errorf("frame %d elapsed = %d went backwards from %d", i, e, frames[i-1])
		}
	}
	if got := frames[len(frames)-1]; got != 100 {
		t.Errorf("last frame = %d, want 100", got)
	}
	if completed != 1 || stopped != 1 {
		t.Errorf("completed, stopped = %d, %d, want 1, 1", completed, stopped)
	}
	if tl.IsPlaying() {
		t.Error("timeline still playing after completion")
	}
	if c.NumTimelines() != 0 {
		t.Errorf("NumTimelines = %d, want 0", c.NumTimelines())
	}
}

func TestTimelineMonotonicBackward(t *testing.T) {
	c, ft := newTestClock(DefaultConfig())
	tl := NewTimeline(c, 100)
	tl.SetDirection(Backward)
	if tl.Elapsed() != 100 {
		t.Fatalf("Elapsed after SetDirection(Backward) = %d, want 100", tl.Elapsed())
	}

	var frames []int
	tl.OnNewFrame(func(elapsed int) { frames = append(frames, elapsed) })

	tl.Start()
	c.Dispatch()
	tickEvery(c, ft, 16, 10)

	for i, e := range frames {
		if e < 0 || e > 100 {
			t.Errorf("frame %d elapsed = %d, out of [0,100]", i, e)
		}
		if i > 0 && e > frames[i-1] {
			t.Errorf("frame %d elapsed = %d went forwards from %d", i, e, frames[i-1])
		}
	}
	if got := frames[len(frames)-1]; got != 0 {
		t.Errorf("last frame = %d, want 0", got)
	}
	if tl.IsPlaying() {
		t.Error("timeline still playing after completion")
	}
}

func TestTimelineBoundaryEquivalence(t *testing.T) {
	tests := []struct {
		name        string
		onCompleted func(tl *Timeline)
		wantElapsed int
	}{
		// Rewinding to 0 at the end of a forward pass is the same position
		// as duration, so the loop still wraps by the overflow.
		{"rewind", func(tl *Timeline) { tl.Rewind() }, 10},
		{"untouched", func(tl *Timeline) {}, 10},
		// Any other move wins over the wrap.
		{"advance", func(tl *Timeline) { tl.Advance(50) }, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ft := newTestClock(DefaultConfig())
			tl := NewTimeline(c, 100)
			tl.SetLoop(true)
			tl.OnCompleted(func() { tt.onCompleted(tl) })

			tl.Start()
			c.Dispatch()
			tickEvery(c, ft, 110, 1)

			if got := tl.Elapsed(); got != tt.wantElapsed {
				t.Errorf("Elapsed = %d, want %d", got, tt.wantElapsed)
			}
			if !tl.IsPlaying() {
				t.Error("looping timeline stopped")
			}
		})
	}
}

func TestTimelineFlipAtDuration(t *testing.T) {
	c, ft := newTestClock(DefaultConfig())
	tl := NewTimeline(c, 100)
	completed, stopped := 0, 0
	tl.OnCompleted(func() { completed++ })
	tl.OnStopped(func(bool) { stopped++ })

	tl.Start()
	c.Dispatch()
	tl.Advance(100)
	tl.SetDirection(Backward)
	tickEvery(c, ft, 10, 1)

	if completed != 0 || stopped != 0 {
		t.Errorf("completed, stopped = %d, %d after flipping at the end, want 0, 0", completed, stopped)
	}
	if tl.Elapsed() != 90 {
		t.Errorf("Elapsed = %d, want 90", tl.Elapsed())
	}
	if tl.Direction() != Backward {
		t.Errorf("Direction = %v, want Backward", tl.Direction())
	}
	if !tl.IsPlaying() {
		t.Error("timeline stopped after one backward tick")
	}
}

func TestTimelineRepeatCount(t *testing.T) {
	c, ft := newTestClock(DefaultConfig())
	tl := NewTimeline(c, 50)
	tl.SetRepeatCount(2)

	completed := 0
	tl.OnCompleted(func() { completed++ })
	tl.Start()
	c.Dispatch()
	tickEvery(c, ft, 20, 20)

	if completed != 3 {
		t.Errorf("completed = %d, want 3", completed)
	}
	if tl.IsPlaying() {
		t.Error("timeline still playing after its repeats")
	}
}

func TestTimelineAutoReverse(t *testing.T) {
	c, ft := newTestClock(DefaultConfig())
	tl := NewTimeline(c, 100)
	tl.SetRepeatCount(1)
	tl.SetAutoReverse(true)

	tl.Start()
	c.Dispatch()
	tickEvery(c, ft, 60, 2) // 60, then 120 -> wraps backwards

	if tl.Direction() != Backward {
		t.Fatalf("Direction = %v, want backward", tl.Direction())
	}
	if got := tl.Elapsed(); got != 80 {
		t.Errorf("Elapsed after bounce = %d, want 80", got)
	}
}

func TestTimelineCompletedCanRestart(t *testing.T) {
	c, ft := newTestClock(DefaultConfig())
	tl := NewTimeline(c, 40)

	restarts := 0
	tl.OnCompleted(func() {
		if restarts == 0 {
			restarts++
			tl.Start()
		}
	})
	tl.Start()
	c.Dispatch()
	tickEvery(c, ft, 50, 1)

	if !tl.IsPlaying() {
		t.Error("timeline restarted from completed is not playing")
	}
}

func TestTimelineStopEmitsUnfinished(t *testing.T) {
	c, ft := newTestClock(DefaultConfig())
	tl := NewTimeline(c, 100)

	var got []bool
	tl.OnStopped(func(finished bool) { got = append(got, finished) })
	tl.Start()
	c.Dispatch()
	tickEvery(c, ft, 30, 1)
	tl.Stop()

	if diff := cmp.Diff([]bool{false}, got); diff != "" {
		t.Errorf("stopped emissions (-want +got):\n%s", diff)
	}
	if tl.Elapsed() != 0 {
		t.Errorf("Elapsed after Stop = %d, want 0", tl.Elapsed())
	}
}

func TestTimelineClockBackwardsDropsFrame(t *testing.T) {
	c, ft := newTestClock(DefaultConfig())
	tl := NewTimeline(c, 1000)
	frames := 0
	tl.OnNewFrame(func(int) { frames++ })

	tl.Start()
	c.Dispatch()
	tickEvery(c, ft, 100, 1)
	ft.advanceMS(-50)
	c.Dispatch()
	if frames != 2 {
		t.Errorf("frames = %d, want 2 (backwards tick dropped)", frames)
	}
	tickEvery(c, ft, 10, 1)
	if got := tl.Elapsed(); got != 110 {
		t.Errorf("Elapsed = %d, want 110", got)
	}
}

func TestTimelineDelta(t *testing.T) {
	c, ft := newTestClock(DefaultConfig())
	tl := NewTimeline(c, 1000)
	if tl.Delta() != 0 {
		t.Errorf("Delta of stopped timeline = %d, want 0", tl.Delta())
	}
	tl.Start()
	c.Dispatch()
	tickEvery(c, ft, 25, 1)
	if tl.Delta() != 25 {
		t.Errorf("Delta = %d, want 25", tl.Delta())
	}
}

func TestTimelineDeltaAtBoundary(t *testing.T) {
	c, ft := newTestClock(DefaultConfig())
	tl := NewTimeline(c, 100)
	var deltas []int
	tl.OnNewFrame(func(int) { deltas = append(deltas, tl.Delta()) })

	tl.Start()
	c.Dispatch()
	tickEvery(c, ft, 60, 2)

	// The last frame only consumed what was left before the end.
	if diff := cmp.Diff([]int{0, 60, 40}, deltas); diff != "" {
		t.Errorf("deltas (-want +got):\n%s", diff)
	}
}

func TestTimelineSkip(t *testing.T) {
	c, _ := newTestClock(DefaultConfig())
	tl := NewTimeline(c, 100)
	tl.Skip(40)
	if tl.Elapsed() != 40 {
		t.Errorf("Elapsed = %d, want 40", tl.Elapsed())
	}
	tl.Skip(80)
	if tl.Elapsed() != 1 {
		t.Errorf("Elapsed after overflow = %d, want 1", tl.Elapsed())
	}
}

func TestTimelineDurationHint(t *testing.T) {
	c, _ := newTestClock(DefaultConfig())
	tl := NewTimeline(c, 100)
	tests := []struct {
		repeat int
		want   int
	}{
		{0, 100},
		{3, 300},
		{-1, math.MaxInt},
	}
	for _, tt := range tests {
		tl.SetRepeatCount(tt.repeat)
		if got := tl.DurationHint(); got != tt.want {
			t.Errorf("DurationHint with repeat %d = %d, want %d", tt.repeat, got, tt.want)
		}
	}
}

func TestTimelineSetDurationPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("SetDuration(0) did not panic")
		}
	}()
	c, _ := newTestClock(DefaultConfig())
	NewTimeline(c, 10).SetDuration(0)
}

func TestTimelineClone(t *testing.T) {
	c, _ := newTestClock(DefaultConfig())
	tl := NewTimeline(c, 250)
	tl.SetLoop(true)
	tl.SetDelay(30)
	tl.SetDirection(Backward)

	cl := tl.Clone()
	if cl.Duration() != 250 || !cl.Loop() || cl.Delay() != 30 || cl.Direction() != Backward {
		t.Errorf("Clone = {%d %v %d %v}, want {250 true 30 backward}",
			cl.Duration(), cl.Loop(), cl.Delay(), cl.Direction())
	}
	if cl.IsPlaying() {
		t.Error("clone is playing")
	}
}

func TestTimelineProgressModes(t *testing.T) {
	c, _ := newTestClock(DefaultConfig())
	tl := NewTimeline(c, 100)
	tl.Advance(50)

	if got := tl.Progress(); got != 0.5 {
		t.Errorf("linear Progress = %v, want 0.5", got)
	}

	tl.SetProgressMode(EaseInQuad)
	if got := tl.Progress(); math.Abs(got-0.25) > 1e-6 {
		t.Errorf("easeInQuad Progress = %v, want 0.25", got)
	}

	tl.SetStepProgress(4, StepModeEnd)
	tl.Advance(60)
	if got := tl.Progress(); got != 0.5 {
		t.Errorf("steps(4,end) Progress = %v, want 0.5", got)
	}
	tl.SetStepProgress(4, StepModeStart)
	if got := tl.Progress(); got != 0.75 {
		t.Errorf("steps(4,start) Progress = %v, want 0.75", got)
	}
	if n, mode, ok := tl.StepProgress(); !ok || n != 4 || mode != StepModeStart {
		t.Errorf("StepProgress = %d, %v, %v, want 4, start, true", n, mode, ok)
	}

	tl.SetProgressFunc(func(_ *Timeline, elapsed, duration float64) float64 { return 1 - elapsed/duration })
	if tl.ProgressMode() != CustomMode {
		t.Errorf("ProgressMode = %v, want custom", tl.ProgressMode())
	}
	if got := tl.Progress(); math.Abs(got-0.4) > 1e-9 {
		t.Errorf("custom Progress = %v, want 0.4", got)
	}

	tl.SetProgressFunc(nil)
	if tl.ProgressMode() != Linear {
		t.Errorf("ProgressMode after nil func = %v, want linear", tl.ProgressMode())
	}
}

func TestTimelineCubicBezierProgress(t *testing.T) {
	c, _ := newTestClock(DefaultConfig())
	tl := NewTimeline(c, 100)
	tl.SetCubicBezierProgress(Point{-1, 0}, Point{2, 1})

	c1, c2, ok := tl.CubicBezierProgress()
	if !ok {
		t.Fatal("CubicBezierProgress not reported")
	}
	if c1.X != 0 || c2.X != 1 {
		t.Errorf("control x = %v, %v, want clamped to 0, 1", c1.X, c2.X)
	}

	tl.SetProgressMode(EaseInOut)
	if _, _, ok := tl.CubicBezierProgress(); !ok {
		t.Error("EaseInOut preset has no control points")
	}
	tl.SetProgressMode(EaseInQuad)
	if _, _, ok := tl.CubicBezierProgress(); ok {
		t.Error("EaseInQuad reported control points")
	}
}
