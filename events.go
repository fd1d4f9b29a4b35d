package clutter

import (
	"fmt"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// EventType identifies the kind of input event delivered by a Scene.
type EventType uint8

const (
	EventPointerDown EventType = iota
	EventPointerUp
	EventPointerMove
	EventKeyDown
	EventKeyUp
	EventScroll
	eventTypeCount
)

var eventTypeNames = [eventTypeCount]string{
	"pointer-down", "pointer-up", "pointer-move", "key-down", "key-up", "scroll",
}

func (t EventType) String() string {
	if t < eventTypeCount {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("EventType(%d)", t)
}

// MouseButton identifies a pointer button.
type MouseButton uint8

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// KeyModifiers is a bit set of held modifier keys.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Event is a queued input event. Pointer coordinates are in stage space.
type Event struct {
	Type      EventType
	X, Y      float64
	Button    MouseButton
	Key       ebiten.Key
	Modifiers KeyModifiers
	// DeltaX and DeltaY carry scroll amounts.
	DeltaX, DeltaY float64
}

// EntityStore receives the events a Scene delivers, for bridging input into
// an ECS world.
type EntityStore interface {
	EmitEvent(Event)
}

// --- Handler registry ---

type handlerEntry[F any] struct {
	id uint32
	fn F
}

// handlerList is an ordered set of callbacks. Emission iterates over a
// snapshot, so callbacks may add or remove handlers while running.
type handlerList[F any] struct {
	entries []handlerEntry[F]
	nextID  uint32
}

func (l *handlerList[F]) add(fn F) CallbackHandle {
	l.nextID++
	l.entries = append(l.entries, handlerEntry[F]{id: l.nextID, fn: fn})
	return CallbackHandle{id: l.nextID, reg: l}
}

func (l *handlerList[F]) remove(id uint32) {
	for i := range l.entries {
		if l.entries[i].id == id {
			l.entries = slices.Delete(l.entries, i, i+1)
			return
		}
	}
}

func (l *handlerList[F]) has(id uint32) bool {
	for i := range l.entries {
		if l.entries[i].id == id {
			return true
		}
	}
	return false
}

// each calls visit for every handler registered when each was called,
// skipping handlers removed by an earlier callback in the same pass.
func (l *handlerList[F]) each(visit func(F)) {
	if len(l.entries) == 0 {
		return
	}
	snapshot := slices.Clone(l.entries)
	for _, e := range snapshot {
		if !l.has(e.id) {
			continue
		}
		visit(e.fn)
	}
}

func (l *handlerList[F]) len() int { return len(l.entries) }

type handlerRemover interface {
	remove(id uint32)
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id  uint32
	reg handlerRemover
}

// Remove unregisters the callback so it no longer fires. Removing twice is
// harmless.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	h.reg.remove(h.id)
}
