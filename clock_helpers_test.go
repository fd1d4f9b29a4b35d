package clutter

import (
	"time"
)

// fakeTime is a manually advanced time source.
type fakeTime struct {
	t time.Time
}

func (f *fakeTime) now() time.Time          { return f.t }
func (f *fakeTime) advance(d time.Duration) { f.t = f.t.Add(d) }
func (f *fakeTime) advanceMS(ms int)        { f.advance(time.Duration(ms) * time.Millisecond) }
func (f *fakeTime) set(t time.Time)         { f.t = t }

func newTestClock(cfg Config) (*MasterClock, *fakeTime) {
	ft := &fakeTime{t: time.Unix(1_000_000, 0)}
	c := NewMasterClock(cfg)
	c.SetTimeSource(ft.now)
	return c, ft
}

// tickEvery dispatches n times, advancing time by ms before each.
func tickEvery(c *MasterClock, ft *fakeTime, ms, n int) {
	for i := 0; i < n; i++ {
		ft.advanceMS(ms)
		c.Dispatch()
	}
}

// fakeStage is a Stage that records its phases into a shared log.
type fakeStage struct {
	clock *MasterClock
	log   *[]string
	name  string

	queued      int
	needsUpdate bool
	draws       bool
	swapPending bool

	updateTime    time.Time
	hasUpdateTime bool

	processed int
	updates   int
}

func newFakeStage(c *MasterClock, name string, log *[]string) *fakeStage {
	s := &fakeStage{clock: c, name: name, log: log, needsUpdate: true, draws: true}
	c.Stages().Add(s)
	s.ScheduleUpdate()
	return s
}

func (s *fakeStage) record(what string) {
	if s.log != nil {
		*s.log = append(*s.log, s.name+":"+what)
	}
}

func (s *fakeStage) HasQueuedEvents() bool { return s.queued > 0 }
func (s *fakeStage) NeedsUpdate() bool     { return s.needsUpdate }

func (s *fakeStage) UpdateTime() (time.Time, bool) { return s.updateTime, s.hasUpdateTime }

func (s *fakeStage) ClearUpdateTime() { s.hasUpdateTime = false }

func (s *fakeStage) ScheduleUpdate() {
	if s.hasUpdateTime {
		return
	}
	s.updateTime = s.clock.Now()
	s.hasUpdateTime = true
}

func (s *fakeStage) ProcessQueuedEvents() {
	s.processed++
	s.queued = 0
	s.record("events")
}

func (s *fakeStage) DoUpdate() bool {
	s.updates++
	s.record("update")
	if !s.needsUpdate {
		return false
	}
	return s.draws
}

func (s *fakeStage) SwapPending() bool { return s.swapPending }
