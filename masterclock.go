package clutter

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// RepaintFlags selects when a repaint function runs.
type RepaintFlags uint8

const (
	// PrePaint functions run before the stages update.
	PrePaint RepaintFlags = 1 << iota
	// PostPaint functions run after the stages update.
	PostPaint
	// QueueRedrawOnAdd makes adding the function force another clock
	// iteration.
	QueueRedrawOnAdd
)

type repaintFunc struct {
	id    uint
	flags RepaintFlags
	fn    func() bool
}

// MasterClock drives every playing Timeline and every registered Stage from
// one loop. Each dispatch processes stage input, advances timelines by the
// same tick, and then lets due stages relayout and redraw.
//
// All clock, timeline and stage state is guarded by one lock. Run and Tick
// take it themselves; code touching timelines or stages from another
// goroutine must hold it via Lock and Unlock. Prepare, Check and Dispatch
// expect the caller to hold it.
type MasterClock struct {
	mu sync.Mutex

	stages    StageManager
	timelines []*Timeline
	delayed   []*Timeline

	now      func() time.Time
	epoch    time.Time
	curTick  time.Time
	prevTick time.Time

	cfg Config

	idle                bool
	paused              bool
	ensureNextIteration bool

	frameBudget     time.Duration
	remainingBudget time.Duration

	repaintFuncs []repaintFunc
	repaintID    uint

	wake  chan struct{}
	stats DebugStats
}

// NewMasterClock creates a stopped clock configured by cfg. A non-positive
// frame rate selects the default of 60.
func NewMasterClock(cfg Config) *MasterClock {
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = defaultFrameRate
	}
	c := &MasterClock{
		now:         time.Now,
		cfg:         cfg,
		frameBudget: time.Second / 60,
		wake:        make(chan struct{}, 1),
	}
	c.epoch = c.now()
	return c
}

var defaultClock struct {
	once  sync.Once
	clock *MasterClock
}

// DefaultClock returns the process-wide clock, configured from
// DefaultConfig and the CLUTTER_* environment on first use.
func DefaultClock() *MasterClock {
	defaultClock.once.Do(func() {
		cfg := DefaultConfig()
		if err := cfg.ApplyEnv(); err != nil {
			Logger().Warn("ignoring environment configuration", "err", err)
		}
		defaultClock.clock = NewMasterClock(cfg)
	})
	return defaultClock.clock
}

// Lock acquires the global clock lock.
func (c *MasterClock) Lock() { c.mu.Lock() }

// Unlock releases the global clock lock.
func (c *MasterClock) Unlock() { c.mu.Unlock() }

// Stages returns the clock's stage manager.
func (c *MasterClock) Stages() *StageManager { return &c.stages }

// Config returns the configuration the clock was created with.
func (c *MasterClock) Config() Config { return c.cfg }

// SetTimeSource replaces the wall clock, for driving the clock with
// synthetic time. nil restores time.Now.
func (c *MasterClock) SetTimeSource(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	c.now = now
	c.epoch = now()
}

// Now returns the current time according to the clock's time source.
func (c *MasterClock) Now() time.Time { return c.now() }

// SetFrameRate sets the pacing used when frames are not throttled by vsync.
func (c *MasterClock) SetFrameRate(fps int) {
	if fps <= 0 {
		panic(fmt.Sprintf("clutter: frame rate must be positive, got %d", fps))
	}
	c.cfg.FrameRate = fps
}

// FrameRate returns the idle pacing rate in frames per second.
func (c *MasterClock) FrameRate() int { return c.cfg.FrameRate }

// SetSyncToVBlank declares whether presenting a frame blocks until vblank.
func (c *MasterClock) SetSyncToVBlank(enabled bool) { c.cfg.SyncToVBlank = enabled }

// StartRunning wakes Run early. Safe to call from any goroutine without the
// lock.
func (c *MasterClock) StartRunning() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// SetPaused freezes or resumes dispatching.
func (c *MasterClock) SetPaused(paused bool) {
	c.paused = paused
	if !paused {
		c.StartRunning()
	}
}

// Paused reports whether dispatching is frozen.
func (c *MasterClock) Paused() bool { return c.paused }

// EnsureNextIteration forces one more dispatch even if nothing is running.
func (c *MasterClock) EnsureNextIteration() {
	c.ensureNextIteration = true
	c.StartRunning()
}

// Idle reports whether the last dispatch redrew nothing.
func (c *MasterClock) Idle() bool { return c.idle }

// NumTimelines returns the number of playing timelines.
func (c *MasterClock) NumTimelines() int { return len(c.timelines) }

// LastStats returns the timings of the most recent dispatch.
func (c *MasterClock) LastStats() DebugStats { return c.stats }

// --- Timelines ---

func (c *MasterClock) addTimeline(t *Timeline) {
	if slices.Contains(c.timelines, t) {
		return
	}
	first := len(c.timelines) == 0
	c.timelines = append(c.timelines, t)
	if first {
		c.scheduleStageUpdates()
		c.StartRunning()
	}
}

func (c *MasterClock) removeTimeline(t *Timeline) {
	c.timelines = slices.DeleteFunc(c.timelines, func(x *Timeline) bool { return x == t })
}

func (c *MasterClock) addDelayedStart(t *Timeline, d time.Duration) {
	t.delayDue = c.now().Add(d)
	c.delayed = append(c.delayed, t)
	c.StartRunning()
}

func (c *MasterClock) removeDelayedStart(t *Timeline) {
	c.delayed = slices.DeleteFunc(c.delayed, func(x *Timeline) bool { return x == t })
}

func (c *MasterClock) fireDelayedStarts() {
	if len(c.delayed) == 0 {
		return
	}
	for _, t := range slices.Clone(c.delayed) {
		if t.delayDue.After(c.curTick) {
			continue
		}
		c.removeDelayedStart(t)
		t.delayExpired()
	}
}

func (c *MasterClock) scheduleStageUpdates() {
	for _, s := range c.stages.stages {
		s.ScheduleUpdate()
	}
}

// --- Scheduling ---

func (c *MasterClock) isRunning() bool {
	if c.paused {
		return false
	}
	if len(c.timelines) > 0 {
		return true
	}
	for _, s := range c.stages.stages {
		if s.HasQueuedEvents() || s.NeedsUpdate() {
			return true
		}
	}
	if c.ensureNextIteration {
		c.ensureNextIteration = false
		return true
	}
	return false
}

// swapWaitTime returns how long to wait for stages with an outstanding
// swap. ok is false when the wait is indefinite.
func (c *MasterClock) swapWaitTime() (time.Duration, bool) {
	pending := false
	var earliest time.Time
	found := false
	for _, s := range c.stages.stages {
		if s.SwapPending() {
			pending = true
			continue
		}
		if ut, ok := s.UpdateTime(); ok && (!found || ut.Before(earliest)) {
			earliest, found = ut, true
		}
	}
	if !pending {
		return 0, true
	}
	if !found {
		return 0, false
	}
	return max(earliest.Sub(c.now()), 0), true
}

func (c *MasterClock) frameDelay() (time.Duration, bool) {
	if !c.isRunning() {
		return 0, false
	}
	if d, ok := c.swapWaitTime(); !ok || d != 0 {
		return d, ok
	}

	// Presenting blocks on vblank, which paces us, unless the last cycle
	// drew nothing.
	if c.cfg.SyncToVBlank && !c.idle {
		return 0, true
	}
	if c.prevTick.IsZero() {
		return 0, true
	}

	now := c.now()
	if !now.After(c.prevTick) {
		// Time went backwards; there is no sensible wait.
		return 0, true
	}
	next := c.prevTick.Add(time.Second / time.Duration(c.cfg.FrameRate))
	if !next.After(now) {
		return 0, true
	}
	return next.Sub(now), true
}

// NextFrameDelay returns how long to wait before the next dispatch. ok is
// false when nothing needs the clock and the wait is indefinite.
func (c *MasterClock) NextFrameDelay() (delay time.Duration, ok bool) {
	delay, ok = c.frameDelay()
	if len(c.delayed) == 0 || c.paused {
		return delay, ok
	}
	due := c.delayed[0].delayDue
	for _, t := range c.delayed[1:] {
		if t.delayDue.Before(due) {
			due = t.delayDue
		}
	}
	wait := max(due.Sub(c.now()), 0)
	if !ok || wait < delay {
		return wait, true
	}
	return delay, ok
}

// Prepare computes the delay until the clock is ready to dispatch.
func (c *MasterClock) Prepare() (time.Duration, bool) {
	return c.NextFrameDelay()
}

// Check reports whether the clock is ready to dispatch now.
func (c *MasterClock) Check() bool {
	delay, ok := c.NextFrameDelay()
	return ok && delay == 0
}

// readyStages returns the stages whose update time has come, skipping
// stages still waiting on a swap.
func (c *MasterClock) readyStages() []Stage {
	var ready []Stage
	for _, s := range c.stages.stages {
		if s.SwapPending() {
			continue
		}
		if ut, ok := s.UpdateTime(); ok && !ut.After(c.curTick) {
			ready = append(ready, s)
		}
	}
	return ready
}

// Dispatch runs one clock iteration: due stages process their input, every
// playing timeline advances to the current tick, and due stages update.
func (c *MasterClock) Dispatch() {
	c.curTick = c.now()
	c.remainingBudget = c.frameBudget

	c.fireDelayedStarts()

	stages := c.readyStages()
	c.idle = false

	start := c.now()
	for _, s := range stages {
		s.ProcessQueuedEvents()
	}
	eventTime := c.spend(start, "Event processing")

	start = c.now()
	nTimelines := len(c.timelines)
	c.advanceTimelines()
	timelineTime := c.spend(start, "Animations")

	start = c.now()
	updated := c.updateStages(stages)
	updateTime := c.spend(start, "Updating the stage")

	if !updated {
		c.idle = true
	}

	for _, s := range stages {
		s.ClearUpdateTime()
		if len(c.timelines) > 0 || s.HasQueuedEvents() || s.NeedsUpdate() {
			s.ScheduleUpdate()
		}
	}

	c.prevTick = c.curTick

	c.stats = DebugStats{
		EventTime:    eventTime,
		TimelineTime: timelineTime,
		UpdateTime:   updateTime,
		Stages:       len(stages),
		Timelines:    nTimelines,
		Redrawn:      updated,
	}
	if c.cfg.Debug {
		c.stats.log()
	}
}

func (c *MasterClock) advanceTimelines() {
	if len(c.timelines) == 0 {
		return
	}
	tick := c.curTick.Sub(c.epoch).Milliseconds()
	// Timelines started by a tick are not advanced until the next one.
	for _, t := range slices.Clone(c.timelines) {
		t.doTick(tick)
	}
}

func (c *MasterClock) updateStages(stages []Stage) bool {
	updated := false
	c.runRepaintFuncs(PrePaint)
	for _, s := range stages {
		// Event handlers may have removed the stage.
		if !c.stages.Contains(s) {
			continue
		}
		if s.DoUpdate() {
			updated = true
		}
	}
	c.runRepaintFuncs(PostPaint)
	return updated
}

// spend charges the time since start against the frame budget.
func (c *MasterClock) spend(start time.Time, section string) time.Duration {
	d := c.now().Sub(start)
	if c.remainingBudget > 0 && d >= c.remainingBudget {
		Logger().Debug(fmt.Sprintf("%s took %d microseconds more than the remaining budget of %d microseconds",
			section, (d - c.remainingBudget).Microseconds(), c.remainingBudget.Microseconds()))
	}
	c.remainingBudget -= d
	return d
}

// Tick dispatches once without waiting for the computed delay, for hosts
// that pace frames themselves.
func (c *MasterClock) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return
	}
	c.Dispatch()
}

// Run dispatches whenever the clock is ready until ctx is done. It sleeps
// for the computed delay, waking early on StartRunning.
func (c *MasterClock) Run(ctx context.Context) error {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.mu.Lock()
		delay, ok := c.Prepare()
		ready := ok && delay == 0
		if ready {
			c.Dispatch()
		}
		c.mu.Unlock()
		if ready {
			continue
		}

		var fire <-chan time.Time
		if ok {
			timer.Reset(delay)
			fire = timer.C
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.wake:
		case <-fire:
		}
		timer.Stop()
	}
}

// --- Repaint functions ---

// AddRepaintFunc registers fn to run around stage updates according to
// flags, returning an id for RemoveRepaintFunc. A function returning false
// is removed. Flags without PrePaint or PostPaint select both.
func (c *MasterClock) AddRepaintFunc(flags RepaintFlags, fn func() bool) uint {
	if flags&(PrePaint|PostPaint) == 0 {
		flags |= PrePaint | PostPaint
	}
	c.repaintID++
	c.repaintFuncs = append(c.repaintFuncs, repaintFunc{id: c.repaintID, flags: flags, fn: fn})
	if flags&QueueRedrawOnAdd != 0 {
		c.EnsureNextIteration()
	}
	return c.repaintID
}

// RemoveRepaintFunc unregisters a repaint function.
func (c *MasterClock) RemoveRepaintFunc(id uint) {
	c.repaintFuncs = slices.DeleteFunc(c.repaintFuncs, func(r repaintFunc) bool { return r.id == id })
}

func (c *MasterClock) hasRepaintFunc(id uint) bool {
	return slices.ContainsFunc(c.repaintFuncs, func(r repaintFunc) bool { return r.id == id })
}

func (c *MasterClock) runRepaintFuncs(flags RepaintFlags) {
	if len(c.repaintFuncs) == 0 {
		return
	}
	// Functions added while running wait for the next pass.
	for _, r := range slices.Clone(c.repaintFuncs) {
		if r.flags&flags == 0 || !c.hasRepaintFunc(r.id) {
			continue
		}
		if !r.fn() {
			c.RemoveRepaintFunc(r.id)
		}
	}
}
