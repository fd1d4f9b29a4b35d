package clutter

import (
	"time"

	"github.com/phanxgames/clutter/cogl"
)

// DebugStats holds the phase timings of one master clock dispatch.
type DebugStats struct {
	EventTime    time.Duration
	TimelineTime time.Duration
	UpdateTime   time.Duration
	// Stages is the number of stages that were due.
	Stages int
	// Timelines is the number of timelines registered when the tick began.
	Timelines int
	// Redrawn reports whether any stage drew.
	Redrawn bool
}

// Total returns the time spent across all phases.
func (s DebugStats) Total() time.Duration {
	return s.EventTime + s.TimelineTime + s.UpdateTime
}

func (s DebugStats) log() {
	Logger().Debug("clock dispatch",
		"events", s.EventTime,
		"timelines", s.TimelineTime,
		"update", s.UpdateTime,
		"total", s.Total(),
		"stages", s.Stages,
		"playing", s.Timelines,
		"redrawn", s.Redrawn)
}

// logFlushStats reports the cogl counters accumulated by a scene redraw.
func logFlushStats(before, after cogl.Stats) {
	Logger().Debug("scene redraw",
		"material_flushes", after.MaterialFlushes-before.MaterialFlushes,
		"journal_batches", after.JournalBatches-before.JournalBatches,
		"copy_on_write", after.CopyOnWrite-before.CopyOnWrite,
		"backend_fallbacks", after.BackendFallbacks-before.BackendFallbacks)
}
