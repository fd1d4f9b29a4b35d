package clutter

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var pollButtons = [...]struct {
	ebiten ebiten.MouseButton
	button MouseButton
}{
	{ebiten.MouseButtonLeft, MouseButtonLeft},
	{ebiten.MouseButtonRight, MouseButtonRight},
	{ebiten.MouseButtonMiddle, MouseButtonMiddle},
}

// inputPoller turns ebiten's polled input state into queued scene events.
type inputPoller struct {
	lastX, lastY int
	moved        bool
	keys         []ebiten.Key
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// poll queues the input that changed since the previous call.
func (p *inputPoller) poll(s *Scene) {
	mods := readModifiers()
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)

	if !p.moved || mx != p.lastX || my != p.lastY {
		p.moved = true
		p.lastX, p.lastY = mx, my
		s.QueueEvent(Event{Type: EventPointerMove, X: x, Y: y, Modifiers: mods})
	}

	for _, b := range pollButtons {
		if inpututil.IsMouseButtonJustPressed(b.ebiten) {
			s.QueueEvent(Event{Type: EventPointerDown, X: x, Y: y, Button: b.button, Modifiers: mods})
		}
		if inpututil.IsMouseButtonJustReleased(b.ebiten) {
			s.QueueEvent(Event{Type: EventPointerUp, X: x, Y: y, Button: b.button, Modifiers: mods})
		}
	}

	p.keys = inpututil.AppendJustPressedKeys(p.keys[:0])
	for _, k := range p.keys {
		s.QueueEvent(Event{Type: EventKeyDown, Key: k, Modifiers: mods})
	}
	p.keys = inpututil.AppendJustReleasedKeys(p.keys[:0])
	for _, k := range p.keys {
		s.QueueEvent(Event{Type: EventKeyUp, Key: k, Modifiers: mods})
	}

	if dx, dy := ebiten.Wheel(); dx != 0 || dy != 0 {
		s.QueueEvent(Event{Type: EventScroll, X: x, Y: y, DeltaX: dx, DeltaY: dy, Modifiers: mods})
	}
}
