package clutter

import (
	"fmt"
	"math"
	"time"
)

// TimelineDirection is the direction elapsed time moves in.
type TimelineDirection uint8

const (
	Forward TimelineDirection = iota
	Backward
)

func (d TimelineDirection) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// StepMode selects where a step function jumps within each interval.
type StepMode uint8

const (
	StepModeStart StepMode = iota
	StepModeEnd
)

// ProgressFunc maps elapsed time to progress for a timeline in CustomMode.
type ProgressFunc func(tl *Timeline, elapsed, duration float64) float64

// Timeline is a clock-driven source of time: once started it advances by
// the wall time between master clock ticks, notifies new-frame observers,
// fires markers it crosses, and completes, repeats or reverses at its
// boundaries.
//
// Timeline methods are not synchronized. When the owning MasterClock runs on
// another goroutine, hold MasterClock.Lock while calling them.
type Timeline struct {
	clock *MasterClock

	direction TimelineDirection
	duration  int
	delay     int
	elapsed   int
	delta     int
	lastFrame int64

	repeatCount   int
	currentRepeat int
	autoReverse   bool

	isPlaying        bool
	waitingFirstTick bool
	delayPending     bool
	delayDue         time.Time

	markers     []*timelineMarker
	markerIndex map[string]*timelineMarker

	progressMode AnimationMode
	progressFunc ProgressFunc
	nSteps       int
	stepMode     StepMode
	cb1, cb2     Point

	started       handlerList[func()]
	paused        handlerList[func()]
	completed     handlerList[func()]
	newFrame      handlerList[func(elapsed int)]
	stopped       handlerList[func(isFinished bool)]
	markerReached handlerList[markerHandler]
}

// NewTimeline creates a stopped timeline of msecs milliseconds driven by
// clock. A nil clock selects DefaultClock.
func NewTimeline(clock *MasterClock, msecs int) *Timeline {
	if msecs < 0 {
		panic(fmt.Sprintf("clutter: negative timeline duration %d", msecs))
	}
	if clock == nil {
		clock = DefaultClock()
	}
	return &Timeline{
		clock:        clock,
		duration:     msecs,
		progressMode: Linear,
		nSteps:       1,
		stepMode:     StepModeEnd,
		cb1:          Point{0.25, 0.1},
		cb2:          Point{0.25, 1},
	}
}

// Clone returns a stopped timeline with the same duration, loop, delay and
// direction.
func (t *Timeline) Clone() *Timeline {
	c := NewTimeline(t.clock, t.duration)
	c.SetLoop(t.Loop())
	c.delay = t.delay
	c.SetDirection(t.direction)
	return c
}

// --- Playback ---

// Start begins playback, or schedules it after Delay milliseconds. Starting
// a playing, pending or zero-duration timeline does nothing.
func (t *Timeline) Start() {
	if t.delayPending || t.isPlaying {
		return
	}
	if t.duration == 0 {
		return
	}
	if t.delay > 0 {
		t.delayPending = true
		t.clock.addDelayedStart(t, time.Duration(t.delay)*time.Millisecond)
		return
	}
	t.delta = 0
	t.setIsPlaying(true)
	t.emitStarted()
}

// delayExpired completes a delayed Start. Called by the master clock.
func (t *Timeline) delayExpired() {
	t.delayPending = false
	t.delta = 0
	t.setIsPlaying(true)
	t.emitStarted()
}

// Pause halts playback at the current position and cancels a pending
// delayed start.
func (t *Timeline) Pause() {
	if !t.delayPending && !t.isPlaying {
		return
	}
	if t.delayPending {
		t.delayPending = false
		t.clock.removeDelayedStart(t)
	}
	t.delta = 0
	t.setIsPlaying(false)
	t.paused.each(func(fn func()) { fn() })
}

// Stop pauses and rewinds the timeline. Stopped observers see
// isFinished == false if the timeline was playing.
func (t *Timeline) Stop() {
	wasPlaying := t.isPlaying
	t.Pause()
	t.Rewind()
	if wasPlaying {
		t.emitStopped(false)
	}
}

// Rewind moves to the start boundary for the current direction.
func (t *Timeline) Rewind() {
	if t.direction == Forward {
		t.Advance(0)
	} else {
		t.Advance(t.duration)
	}
}

// Skip moves elapsed time by msecs in the current direction, wrapping to 1
// (or duration-1 backward) when the move leaves the timeline. No frame is
// emitted.
func (t *Timeline) Skip(msecs int) {
	if t.direction == Forward {
		t.elapsed += msecs
		if t.elapsed > t.duration {
			t.elapsed = 1
		}
	} else {
		t.elapsed -= msecs
		if t.elapsed < 1 {
			t.elapsed = t.duration - 1
		}
	}
	t.delta = 0
}

// Advance sets elapsed time, clamped to [0, duration]. No frame or marker
// is emitted.
func (t *Timeline) Advance(msecs int) {
	t.elapsed = max(0, min(msecs, t.duration))
}

func (t *Timeline) setIsPlaying(playing bool) {
	if playing == t.isPlaying {
		return
	}
	t.isPlaying = playing
	if playing {
		t.clock.addTimeline(t)
		t.waitingFirstTick = true
		t.currentRepeat = 0
	} else {
		t.clock.removeTimeline(t)
	}
}

// doTick advances the timeline to tick, a millisecond timestamp from the
// master clock.
func (t *Timeline) doTick(tick int64) {
	if !t.isPlaying {
		return
	}
	if t.waitingFirstTick {
		t.lastFrame = tick
		t.delta = 0
		t.waitingFirstTick = false
		t.doFrame()
		return
	}

	msecs := tick - t.lastFrame
	if msecs < 0 {
		// The clock went backwards: drop the frame and re-anchor.
		t.lastFrame = tick
		return
	}
	if msecs != 0 {
		t.lastFrame += msecs
		t.delta = int(msecs)
		t.doFrame()
	}
}

func (t *Timeline) isComplete() bool {
	if t.direction == Forward {
		return t.elapsed >= t.duration
	}
	return t.elapsed <= 0
}

// doFrame applies delta and handles the boundary. It reports whether the
// timeline should stay scheduled.
func (t *Timeline) doFrame() bool {
	if t.direction == Forward {
		t.elapsed += t.delta
	} else {
		t.elapsed -= t.delta
	}

	if !t.isComplete() {
		t.emitNewFrame()
		t.checkMarkers(t.delta)
		return t.isPlaying
	}

	savedDirection := t.direction
	delta := t.delta
	overflow := t.elapsed

	// Clamp so new-frame observers see the boundary, and shrink the delta
	// to the range actually covered.
	if t.direction == Forward {
		delta -= t.elapsed - t.duration
		t.elapsed = t.duration
	} else {
		delta += t.elapsed
		t.elapsed = 0
	}
	t.delta = delta
	end := t.elapsed

	t.emitNewFrame()
	t.checkMarkers(delta)

	if t.elapsed != end {
		return true
	}

	if t.isPlaying && (t.repeatCount == 0 || t.repeatCount == t.currentRepeat) {
		// Unschedule first so a completed observer may restart.
		t.setIsPlaying(false)
		t.emitCompleted()
		t.emitStopped(true)
	} else {
		t.emitCompleted()
	}

	t.currentRepeat++

	if t.autoReverse {
		if t.direction == Forward {
			t.direction = Backward
		} else {
			t.direction = Forward
		}
	}

	// An observer moved the playhead. 0 and duration count as the same
	// position.
	if t.elapsed != end &&
		!(t.elapsed == 0 && end == t.duration) &&
		!(t.elapsed == t.duration && end == 0) {
		return true
	}

	if t.repeatCount != 0 {
		if savedDirection == Forward {
			t.elapsed = overflow - t.duration
		} else {
			t.elapsed = t.duration + overflow
		}
		if t.direction != savedDirection {
			t.elapsed = t.duration - t.elapsed
		}
		// The wrap moved time without a frame; catch markers in the
		// wrapped span.
		if t.direction == Forward {
			t.checkMarkers(t.elapsed)
		} else {
			t.checkMarkers(t.duration - t.elapsed)
		}
		return true
	}

	t.Rewind()
	return false
}

// --- Observers ---

// OnStarted registers fn to run when playback starts.
func (t *Timeline) OnStarted(fn func()) CallbackHandle { return t.started.add(fn) }

// OnPaused registers fn to run when playback pauses.
func (t *Timeline) OnPaused(fn func()) CallbackHandle { return t.paused.add(fn) }

// OnNewFrame registers fn to run on every advanced frame with the new
// elapsed time.
func (t *Timeline) OnNewFrame(fn func(elapsed int)) CallbackHandle { return t.newFrame.add(fn) }

// OnCompleted registers fn to run each time a boundary is reached.
func (t *Timeline) OnCompleted(fn func()) CallbackHandle { return t.completed.add(fn) }

// OnStopped registers fn to run when playback ends, either by Stop
// (isFinished false) or by completing the last repeat (isFinished true).
func (t *Timeline) OnStopped(fn func(isFinished bool)) CallbackHandle {
	return t.stopped.add(fn)
}

func (t *Timeline) emitStarted()   { t.started.each(func(fn func()) { fn() }) }
func (t *Timeline) emitCompleted() { t.completed.each(func(fn func()) { fn() }) }

func (t *Timeline) emitNewFrame() {
	elapsed := t.elapsed
	t.newFrame.each(func(fn func(int)) { fn(elapsed) })
}

func (t *Timeline) emitStopped(isFinished bool) {
	t.stopped.each(func(fn func(bool)) { fn(isFinished) })
}

// --- Properties ---

// Duration returns the length in milliseconds.
func (t *Timeline) Duration() int { return t.duration }

// SetDuration sets the length in milliseconds. msecs must be positive.
func (t *Timeline) SetDuration(msecs int) {
	if msecs <= 0 {
		panic(fmt.Sprintf("clutter: timeline duration must be positive, got %d", msecs))
	}
	t.duration = msecs
}

// Elapsed returns the current position in milliseconds.
func (t *Timeline) Elapsed() int { return t.elapsed }

// Delta returns the milliseconds advanced by the last frame, or 0 when not
// playing.
func (t *Timeline) Delta() int {
	if !t.isPlaying {
		return 0
	}
	return t.delta
}

// IsPlaying reports whether the timeline is registered with its clock.
func (t *Timeline) IsPlaying() bool { return t.isPlaying }

// Direction returns the current direction.
func (t *Timeline) Direction() TimelineDirection { return t.direction }

// SetDirection sets the direction. A timeline at 0 switching direction
// moves to duration, so a backward run starts from the end.
func (t *Timeline) SetDirection(d TimelineDirection) {
	if t.direction == d {
		return
	}
	t.direction = d
	if t.elapsed == 0 {
		t.elapsed = t.duration
	}
}

// Delay returns the start delay in milliseconds.
func (t *Timeline) Delay() int { return t.delay }

// SetDelay sets how long Start waits before playback begins.
func (t *Timeline) SetDelay(msecs int) {
	if msecs < 0 {
		panic(fmt.Sprintf("clutter: negative timeline delay %d", msecs))
	}
	t.delay = msecs
}

// Loop reports whether the timeline repeats.
func (t *Timeline) Loop() bool { return t.repeatCount != 0 }

// SetLoop makes the timeline repeat forever, or not at all.
func (t *Timeline) SetLoop(loop bool) {
	if loop {
		t.repeatCount = -1
	} else {
		t.repeatCount = 0
	}
}

// RepeatCount returns the number of repeats; -1 repeats forever.
func (t *Timeline) RepeatCount() int { return t.repeatCount }

// SetRepeatCount sets how many times the timeline repeats after its first
// run. -1 repeats forever.
func (t *Timeline) SetRepeatCount(count int) {
	if count < -1 {
		panic(fmt.Sprintf("clutter: invalid repeat count %d", count))
	}
	t.repeatCount = count
}

// CurrentRepeat returns how many times the timeline has completed since it
// started playing.
func (t *Timeline) CurrentRepeat() int { return t.currentRepeat }

// AutoReverse reports whether the direction flips at each completion.
func (t *Timeline) AutoReverse() bool { return t.autoReverse }

// SetAutoReverse makes the direction flip each time a boundary is reached.
func (t *Timeline) SetAutoReverse(reverse bool) { t.autoReverse = reverse }

// DurationHint returns the total play time including repeats, or
// math.MaxInt for an endless timeline.
func (t *Timeline) DurationHint() int {
	switch {
	case t.repeatCount == 0:
		return t.duration
	case t.repeatCount < 0:
		return math.MaxInt
	default:
		return t.repeatCount * t.duration
	}
}

// --- Progress ---

// Progress returns the eased position in the timeline, normally in [0,1].
func (t *Timeline) Progress() float64 {
	if t.duration == 0 {
		return 0
	}
	if t.progressFunc == nil {
		return float64(t.elapsed) / float64(t.duration)
	}
	return t.progressFunc(t, float64(t.elapsed), float64(t.duration))
}

// ProgressMode returns the easing mode applied by Progress.
func (t *Timeline) ProgressMode() AnimationMode { return t.progressMode }

// SetProgressMode selects a table easing mode. Use SetProgressFunc for a
// custom curve.
func (t *Timeline) SetProgressMode(mode AnimationMode) {
	if !mode.valid() || mode == CustomMode {
		panic(fmt.Sprintf("clutter: invalid progress mode %v", mode))
	}
	if t.progressMode == mode {
		return
	}
	t.progressMode = mode
	if mode == Linear {
		t.progressFunc = nil
	} else {
		t.progressFunc = (*Timeline).modeProgress
	}
}

// SetProgressFunc installs a custom progress curve. A nil fn restores
// linear progress.
func (t *Timeline) SetProgressFunc(fn ProgressFunc) {
	t.progressFunc = fn
	if fn == nil {
		t.progressMode = Linear
	} else {
		t.progressMode = CustomMode
	}
}

// SetStepProgress selects a step function with n steps.
func (t *Timeline) SetStepProgress(n int, mode StepMode) {
	if n <= 0 {
		panic(fmt.Sprintf("clutter: step count must be positive, got %d", n))
	}
	if t.progressMode == Steps && t.nSteps == n && t.stepMode == mode {
		return
	}
	t.nSteps = n
	t.stepMode = mode
	t.progressMode = Steps
	t.progressFunc = (*Timeline).modeProgress
}

// StepProgress returns the step parameters when a step mode is active.
func (t *Timeline) StepProgress() (n int, mode StepMode, ok bool) {
	switch t.progressMode {
	case Steps:
		return t.nSteps, t.stepMode, true
	case StepStart:
		return 1, StepModeStart, true
	case StepEnd:
		return 1, StepModeEnd, true
	}
	return 0, 0, false
}

// SetCubicBezierProgress selects a cubic bezier curve from (0,0) to (1,1).
// Control x values are clamped to [0,1].
func (t *Timeline) SetCubicBezierProgress(c1, c2 Point) {
	c1.X = min(max(c1.X, 0), 1)
	c2.X = min(max(c2.X, 0), 1)
	t.cb1, t.cb2 = c1, c2
	t.progressMode = CubicBezier
	t.progressFunc = (*Timeline).modeProgress
}

// CubicBezierProgress returns the control points when a bezier mode is
// active.
func (t *Timeline) CubicBezierProgress() (c1, c2 Point, ok bool) {
	switch t.progressMode {
	case CubicBezier:
		return t.cb1, t.cb2, true
	case Ease:
		return Point{0.25, 0.1}, Point{0.25, 1}, true
	case EaseIn:
		return Point{0.42, 0}, Point{1, 1}, true
	case EaseOut:
		return Point{0, 0}, Point{0.58, 1}, true
	case EaseInOut:
		return Point{0.42, 0}, Point{0.58, 1}, true
	}
	return Point{}, Point{}, false
}

func (t *Timeline) modeProgress(elapsed, duration float64) float64 {
	switch t.progressMode {
	case Steps:
		if t.stepMode == StepModeStart {
			return StepsStart(elapsed, duration, t.nSteps)
		}
		return StepsEnd(elapsed/duration, t.nSteps)
	case CubicBezier:
		return CubicBezierProgress(elapsed/duration, t.cb1, t.cb2)
	}
	return EaseProgress(t.progressMode, elapsed, duration)
}
