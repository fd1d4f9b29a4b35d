// Package ecs bridges clutter scenes and timelines into a [Donburi] world.
//
// [NewDonburiStore] publishes every event a scene delivers to
// [InputEventType]. [WatchTimeline] publishes a timeline's lifecycle to
// [TimelineEventType]. Both are queued by Donburi; call ProcessEvents from
// a system to deliver them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//	ecs.WatchTimeline(world, "fade", tl)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
