package clutter

import "github.com/hajimehoshi/ebiten/v2"

// Injected events bypass the regular queue: one is delivered per dispatch,
// so a press and its release land in different frames like real input.

// InjectEvent queues a synthetic event.
func (s *Scene) InjectEvent(ev Event) {
	s.injectQueue = append(s.injectQueue, ev)
	s.ScheduleUpdate()
	s.clock.StartRunning()
}

// InjectPress queues a left button press at (x, y).
func (s *Scene) InjectPress(x, y float64) {
	s.InjectEvent(Event{Type: EventPointerDown, X: x, Y: y, Button: MouseButtonLeft})
}

// InjectMove queues pointer motion to (x, y).
func (s *Scene) InjectMove(x, y float64) {
	s.InjectEvent(Event{Type: EventPointerMove, X: x, Y: y, Button: MouseButtonLeft})
}

// InjectRelease queues a left button release at (x, y).
func (s *Scene) InjectRelease(x, y float64) {
	s.InjectEvent(Event{Type: EventPointerUp, X: x, Y: y, Button: MouseButtonLeft})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two dispatches.
func (s *Scene) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 evenly spaced
// moves and a release at (toX, toY). frames is at least 2.
func (s *Scene) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectRelease(toX, toY)
}

// InjectKey queues a press and release of key.
func (s *Scene) InjectKey(key ebiten.Key) {
	s.InjectEvent(Event{Type: EventKeyDown, Key: key})
	s.InjectEvent(Event{Type: EventKeyUp, Key: key})
}

// InjectScroll queues wheel motion.
func (s *Scene) InjectScroll(dx, dy float64) {
	s.InjectEvent(Event{Type: EventScroll, DeltaX: dx, DeltaY: dy})
}
