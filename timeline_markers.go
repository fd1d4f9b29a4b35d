package clutter

import "slices"

type timelineMarker struct {
	name     string
	relative bool
	msecs    int
	progress float64
}

// at returns the marker's position for a timeline of the given duration.
func (m *timelineMarker) at(duration int) int {
	if m.relative {
		return int(float64(duration) * m.progress)
	}
	return m.msecs
}

type markerHandler struct {
	name string
	fn   func(name string, msecs int)
}

// AddMarker adds a named marker at msecs. msecs must lie within the
// duration and name must be unused; otherwise the call is logged and
// ignored.
func (t *Timeline) AddMarker(name string, msecs int) {
	if msecs < 0 || msecs > t.duration {
		Logger().Warn("timeline marker outside duration",
			"name", name, "msecs", msecs, "duration", t.duration)
		return
	}
	t.addMarker(&timelineMarker{name: name, msecs: msecs})
}

// AddMarkerAtProgress adds a named marker at a fraction of the duration,
// clamped to [0,1]. The marker keeps its relative position when the
// duration changes.
func (t *Timeline) AddMarkerAtProgress(name string, progress float64) {
	progress = min(max(progress, 0), 1)
	t.addMarker(&timelineMarker{name: name, relative: true, progress: progress})
}

func (t *Timeline) addMarker(m *timelineMarker) {
	if old, ok := t.markerIndex[m.name]; ok {
		Logger().Warn("timeline marker already exists",
			"name", m.name, "msecs", old.at(t.duration))
		return
	}
	if t.markerIndex == nil {
		t.markerIndex = make(map[string]*timelineMarker)
	}
	t.markerIndex[m.name] = m
	t.markers = append(t.markers, m)
}

// RemoveMarker removes the named marker. Removing an unknown marker is
// logged and ignored.
func (t *Timeline) RemoveMarker(name string) {
	m, ok := t.markerIndex[name]
	if !ok {
		Logger().Warn("no timeline marker found", "name", name)
		return
	}
	delete(t.markerIndex, name)
	t.markers = slices.DeleteFunc(t.markers, func(x *timelineMarker) bool { return x == m })
}

// HasMarker reports whether a marker called name exists.
func (t *Timeline) HasMarker(name string) bool {
	_, ok := t.markerIndex[name]
	return ok
}

// ListMarkers returns the names of markers at msecs, or of every marker
// when msecs is negative, in the order they were added.
func (t *Timeline) ListMarkers(msecs int) []string {
	var names []string
	for _, m := range t.markers {
		if msecs < 0 || m.at(t.duration) == msecs {
			names = append(names, m.name)
		}
	}
	return names
}

// AdvanceToMarker moves the playhead to the named marker without emitting
// it. An unknown marker is logged and ignored.
func (t *Timeline) AdvanceToMarker(name string) {
	m, ok := t.markerIndex[name]
	if !ok {
		Logger().Warn("no timeline marker found", "name", name)
		return
	}
	t.Advance(m.at(t.duration))
}

// OnMarkerReached registers fn to run when the marker called name is
// crossed. An empty name subscribes to every marker.
func (t *Timeline) OnMarkerReached(name string, fn func(name string, msecs int)) CallbackHandle {
	return t.markerReached.add(markerHandler{name: name, fn: fn})
}

// markerSpan is the frame state markers are tested against. It is taken
// once per check, so a marker handler that moves the playhead does not
// change which markers fire in that check.
type markerSpan struct {
	direction TimelineDirection
	newTime   int
	duration  int
	delta     int
}

func (s markerSpan) passed(msecs int) bool {
	if msecs < 0 || msecs > s.duration {
		return false
	}
	if s.direction == Forward {
		// A marker at 0 fires when a frame starts exactly there.
		if msecs == 0 && s.delta > 0 && s.newTime-s.delta <= 0 {
			return true
		}
		return msecs > s.newTime-s.delta && msecs <= s.newTime
	}
	if msecs == s.duration && s.delta > 0 && s.newTime+s.delta >= s.duration {
		return true
	}
	return msecs >= s.newTime && msecs < s.newTime+s.delta
}

func (t *Timeline) checkMarkers(delta int) {
	if len(t.markers) == 0 {
		return
	}
	span := markerSpan{
		direction: t.direction,
		newTime:   t.elapsed,
		duration:  t.duration,
		delta:     delta,
	}
	for _, m := range slices.Clone(t.markers) {
		msecs := m.at(span.duration)
		if !span.passed(msecs) {
			continue
		}
		name := m.name
		t.markerReached.each(func(h markerHandler) {
			if h.name == "" || h.name == name {
				h.fn(name, msecs)
			}
		})
	}
}
