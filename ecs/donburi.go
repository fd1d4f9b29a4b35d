package ecs

import (
	"github.com/phanxgames/clutter"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InputEventType is the Donburi event type for scene input events.
var InputEventType = events.NewEventType[clutter.Event]()

// TimelineEventKind says which timeline signal a TimelineEvent carries.
type TimelineEventKind uint8

const (
	TimelineStarted TimelineEventKind = iota
	TimelinePaused
	TimelineCompleted
	TimelineStopped
	TimelineMarker
)

// TimelineEvent is published by WatchTimeline.
type TimelineEvent struct {
	Name string
	Kind TimelineEventKind
	// Finished is set on TimelineStopped when playback reached the end.
	Finished bool
	// Marker and Elapsed are set on TimelineMarker.
	Marker  string
	Elapsed int
}

// TimelineEventType is the Donburi event type for watched timelines.
var TimelineEventType = events.NewEventType[TimelineEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
func NewDonburiStore(world donburi.World) clutter.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event clutter.Event) {
	InputEventType.Publish(s.world, event)
}

// WatchTimeline publishes tl's signals to TimelineEventType under name.
// Remove the returned handles to stop watching.
func WatchTimeline(world donburi.World, name string, tl *clutter.Timeline) []clutter.CallbackHandle {
	publish := func(e TimelineEvent) {
		e.Name = name
		TimelineEventType.Publish(world, e)
	}
	return []clutter.CallbackHandle{
		tl.OnStarted(func() { publish(TimelineEvent{Kind: TimelineStarted}) }),
		tl.OnPaused(func() { publish(TimelineEvent{Kind: TimelinePaused}) }),
		tl.OnCompleted(func() { publish(TimelineEvent{Kind: TimelineCompleted}) }),
		tl.OnStopped(func(finished bool) {
			publish(TimelineEvent{Kind: TimelineStopped, Finished: finished})
		}),
		tl.OnMarkerReached("", func(marker string, elapsed int) {
			publish(TimelineEvent{Kind: TimelineMarker, Marker: marker, Elapsed: elapsed})
		}),
	}
}
