package clutter

import (
	"time"

	"github.com/phanxgames/clutter/cogl"
)

// PaintFunc draws one frame of a scene by logging primitives into the
// journal. The scene flushes the journal once the function returns.
type PaintFunc func(ctx *cogl.Context, j *cogl.Journal)

// Scene is a Stage that paints through a cogl context. It queues input
// until the master clock lets it process events, and redraws only when a
// redraw has been queued (or on every dispatch with ContinuousRedraw).
type Scene struct {
	clock *MasterClock
	ctx   *cogl.Context

	// ClearColor fills the target before each redraw when the host
	// provides a clear hook.
	ClearColor cogl.Color
	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string

	events      []Event
	injectQueue []Event
	handlers    [eventTypeCount]handlerList[func(Event)]

	paint PaintFunc
	clear func(cogl.Color)

	needsRedraw      bool
	continuousRedraw bool
	debug            bool

	updateTime    time.Time
	hasUpdateTime bool

	swapThrottle bool
	swapPending  bool

	store EntityStore

	testRunner  *TestRunner
	screenshots []screenshotRequest

	redraws   int
	destroyed bool
}

// NewScene creates a scene painting through ctx and registers it with
// clock. A nil clock selects DefaultClock. The first dispatch paints it.
func NewScene(clock *MasterClock, ctx *cogl.Context) *Scene {
	if ctx == nil {
		panic("clutter: NewScene needs a cogl context")
	}
	if clock == nil {
		clock = DefaultClock()
	}
	cfg := clock.Config()
	s := &Scene{
		clock:            clock,
		ctx:              ctx,
		ClearColor:       cogl.Color{A: 0xff},
		ScreenshotDir:    "screenshots",
		needsRedraw:      true,
		continuousRedraw: cfg.ContinuousRedraw,
		debug:            cfg.Debug,
	}
	clock.Stages().Add(s)
	s.ScheduleUpdate()
	return s
}

// Context returns the cogl context the scene paints with.
func (s *Scene) Context() *cogl.Context { return s.ctx }

// Clock returns the master clock driving the scene.
func (s *Scene) Clock() *MasterClock { return s.clock }

// SetPaintFunc sets the function that draws each frame.
func (s *Scene) SetPaintFunc(fn PaintFunc) {
	s.paint = fn
	s.QueueRedraw()
}

// SetContinuousRedraw makes the scene redraw on every dispatch.
func (s *Scene) SetContinuousRedraw(enabled bool) {
	s.continuousRedraw = enabled
	if enabled {
		s.QueueRedraw()
	}
}

// SetSwapThrottle makes each redraw hold the scene until SwapBuffers is
// called, so the clock never draws faster than frames are presented.
func (s *Scene) SetSwapThrottle(enabled bool) {
	s.swapThrottle = enabled
	if !enabled {
		s.swapPending = false
	}
}

// QueueRedraw asks for a redraw on the next dispatch.
func (s *Scene) QueueRedraw() {
	if s.destroyed {
		return
	}
	s.needsRedraw = true
	s.ScheduleUpdate()
	s.clock.StartRunning()
}

// Redraws returns the number of frames the scene has drawn.
func (s *Scene) Redraws() int { return s.redraws }

// Destroy unregisters the scene from its clock.
func (s *Scene) Destroy() {
	s.destroyed = true
	s.clock.Stages().Remove(s)
}

// SwapBuffers marks the last drawn frame as presented.
func (s *Scene) SwapBuffers() {
	if !s.swapPending {
		return
	}
	s.swapPending = false
	s.clock.StartRunning()
}

// --- Stage ---

func (s *Scene) HasQueuedEvents() bool {
	if len(s.events) > 0 || len(s.injectQueue) > 0 {
		return true
	}
	return s.testRunner != nil && !s.testRunner.Done()
}

func (s *Scene) NeedsUpdate() bool { return s.needsRedraw || s.continuousRedraw }

func (s *Scene) UpdateTime() (time.Time, bool) { return s.updateTime, s.hasUpdateTime }

func (s *Scene) ClearUpdateTime() {
	s.updateTime = time.Time{}
	s.hasUpdateTime = false
}

func (s *Scene) ScheduleUpdate() {
	if s.hasUpdateTime || s.destroyed {
		return
	}
	s.updateTime = s.clock.Now()
	s.hasUpdateTime = true
}

func (s *Scene) SwapPending() bool { return s.swapPending }

// ProcessQueuedEvents delivers every queued event plus at most one injected
// event. Runs of pointer motion are collapsed into their last event.
func (s *Scene) ProcessQueuedEvents() {
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	events := s.events
	s.events = nil
	if len(s.injectQueue) > 0 {
		events = append(events, s.injectQueue[0])
		s.injectQueue = s.injectQueue[1:]
	}
	for i, ev := range events {
		if ev.Type == EventPointerMove && i+1 < len(events) && events[i+1].Type == EventPointerMove {
			continue
		}
		s.emit(ev)
	}
}

// DoUpdate paints and flushes the journal when a redraw is pending.
func (s *Scene) DoUpdate() bool {
	if !s.NeedsUpdate() {
		return false
	}
	s.needsRedraw = false

	var before cogl.Stats
	if s.debug {
		before = s.ctx.Stats()
	}
	if s.clear != nil {
		s.clear(s.ClearColor)
	}
	if s.paint != nil {
		s.paint(s.ctx, s.ctx.Journal())
	}
	s.ctx.Journal().Flush()
	s.redraws++
	if s.swapThrottle {
		s.swapPending = true
	}
	if s.debug {
		logFlushStats(before, s.ctx.Stats())
	}
	return true
}

// --- Events ---

// QueueEvent appends ev for delivery on the next dispatch.
func (s *Scene) QueueEvent(ev Event) {
	s.events = append(s.events, ev)
	s.ScheduleUpdate()
	s.clock.StartRunning()
}

// OnEvent registers fn for events of type typ.
func (s *Scene) OnEvent(typ EventType, fn func(Event)) CallbackHandle {
	return s.handlers[typ].add(fn)
}

// OnPointerDown registers a callback for pointer presses.
func (s *Scene) OnPointerDown(fn func(Event)) CallbackHandle {
	return s.OnEvent(EventPointerDown, fn)
}

// OnPointerUp registers a callback for pointer releases.
func (s *Scene) OnPointerUp(fn func(Event)) CallbackHandle {
	return s.OnEvent(EventPointerUp, fn)
}

// OnPointerMove registers a callback for pointer motion.
func (s *Scene) OnPointerMove(fn func(Event)) CallbackHandle {
	return s.OnEvent(EventPointerMove, fn)
}

// OnKeyDown registers a callback for key presses.
func (s *Scene) OnKeyDown(fn func(Event)) CallbackHandle {
	return s.OnEvent(EventKeyDown, fn)
}

// OnKeyUp registers a callback for key releases.
func (s *Scene) OnKeyUp(fn func(Event)) CallbackHandle {
	return s.OnEvent(EventKeyUp, fn)
}

// OnScroll registers a callback for wheel motion.
func (s *Scene) OnScroll(fn func(Event)) CallbackHandle {
	return s.OnEvent(EventScroll, fn)
}

// SetEntityStore forwards every delivered event to store after the
// scene's own handlers. nil disconnects.
func (s *Scene) SetEntityStore(store EntityStore) { s.store = store }

func (s *Scene) emit(ev Event) {
	if ev.Type >= eventTypeCount {
		return
	}
	s.handlers[ev.Type].each(func(fn func(Event)) { fn(ev) })
	if s.store != nil {
		s.store.EmitEvent(ev)
	}
}
