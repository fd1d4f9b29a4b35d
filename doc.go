// Package clutter schedules animation and repaint for scenes drawn with
// [cogl].
//
// # Quick start
//
// [RunGame] opens an [Ebitengine] window, creates a [MasterClock] and a
// [Scene] painting into the window, and runs until the window closes:
//
//	cfg := clutter.DefaultConfig()
//	err := clutter.RunGame(cfg, func(clock *clutter.MasterClock, scene *clutter.Scene) error {
//		tl := clutter.NewTimeline(clock, 2000)
//		tl.SetLoop(true)
//		tl.OnNewFrame(func(int) { scene.QueueRedraw() })
//		scene.SetPaintFunc(func(ctx *cogl.Context, j *cogl.Journal) {
//			// log primitives into j
//		})
//		tl.Start()
//		return nil
//	})
//
// # Master clock
//
// One [MasterClock] drives every playing [Timeline] and every registered
// [Stage]. Each dispatch happens in three phases: due stages process their
// queued input, every timeline advances to the same tick, and due stages
// relayout and redraw. Hosts either call [MasterClock.Run], which sleeps
// for the computed delay, or call Prepare, Check and Dispatch from their own
// loop.
//
// With SyncToVBlank the clock dispatches as soon as a stage is ready and
// relies on presentation to pace it. Otherwise, and whenever the previous
// dispatch drew nothing, it waits until one frame interval has passed since
// the previous tick.
//
// # Timelines
//
// A [Timeline] has a duration, a direction, an optional delay and a repeat
// count. Elapsed time stays within [0, duration]. Markers fire exactly once
// per crossing, including crossings that straddle a loop. Progress is
// mapped through an easing mode (see [AnimationMode]), a step function, a
// cubic bezier or a custom [ProgressFunc].
//
// [Transition] and [KeyframeTransition] bind a timeline to an [Interval]
// and a setter.
//
// # Configuration
//
// [LoadConfig] reads YAML or TOML files. [Config.ApplyEnv] honours
// CLUTTER_DEFAULT_FPS, CLUTTER_VBLANK=none, CLUTTER_PAINT=continuous-redraw
// and CLUTTER_DEBUG.
//
// [Ebitengine]: https://ebitengine.org
package clutter
