package clutter

import (
	"slices"
	"time"
)

// Stage is a drawable surface driven by the master clock. Scene is the
// concrete implementation; other backends may supply their own.
type Stage interface {
	// HasQueuedEvents reports whether input is waiting to be processed.
	HasQueuedEvents() bool
	// NeedsUpdate reports whether a relayout or redraw is pending.
	NeedsUpdate() bool
	// UpdateTime returns when the stage next wants to be updated.
	UpdateTime() (time.Time, bool)
	// ClearUpdateTime drops the scheduled update time.
	ClearUpdateTime()
	// ScheduleUpdate sets an update time if none is set.
	ScheduleUpdate()
	// ProcessQueuedEvents delivers all queued input.
	ProcessQueuedEvents()
	// DoUpdate relayouts and redraws if needed, reporting whether it drew.
	DoUpdate() bool
	// SwapPending reports whether a presented frame has not been consumed
	// yet. The clock does not update a stage while this is true.
	SwapPending() bool
}

// redrawQueuer is implemented by stages that can be asked to repaint.
type redrawQueuer interface {
	QueueRedraw()
}

// StageManager tracks the stages a master clock drives.
type StageManager struct {
	stages  []Stage
	added   handlerList[func(Stage)]
	removed handlerList[func(Stage)]
}

// Add registers s. Adding a registered stage does nothing.
func (m *StageManager) Add(s Stage) {
	if m.Contains(s) {
		return
	}
	m.stages = append(m.stages, s)
	m.added.each(func(fn func(Stage)) { fn(s) })
}

// Remove unregisters s.
func (m *StageManager) Remove(s Stage) {
	i := slices.Index(m.stages, s)
	if i < 0 {
		return
	}
	m.stages = slices.Delete(m.stages, i, i+1)
	m.removed.each(func(fn func(Stage)) { fn(s) })
}

// Contains reports whether s is registered.
func (m *StageManager) Contains(s Stage) bool {
	return slices.Contains(m.stages, s)
}

// PeekStages returns a snapshot of the registered stages. Later Add and
// Remove calls do not affect it.
func (m *StageManager) PeekStages() []Stage {
	return slices.Clone(m.stages)
}

// Len returns the number of registered stages.
func (m *StageManager) Len() int { return len(m.stages) }

// OnStageAdded registers fn to run after a stage is added.
func (m *StageManager) OnStageAdded(fn func(Stage)) CallbackHandle { return m.added.add(fn) }

// OnStageRemoved registers fn to run after a stage is removed.
func (m *StageManager) OnStageRemoved(fn func(Stage)) CallbackHandle {
	return m.removed.add(fn)
}
