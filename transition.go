package clutter

// Transition is a Timeline that writes an interpolated value through a
// setter on every new frame.
type Transition[T any] struct {
	*Timeline

	interval         *Interval[T]
	setter           func(T)
	removeOnComplete bool
	detached         handlerList[func()]

	// compute maps eased progress to a value. nil uses the interval.
	compute func(progress float64) (T, bool)
}

// NewTransition creates a stopped transition of msecs driven by clock that
// passes values from iv to setter.
func NewTransition[T any](clock *MasterClock, msecs int, iv *Interval[T], setter func(T)) *Transition[T] {
	tr := &Transition[T]{
		Timeline: NewTimeline(clock, msecs),
		interval: iv,
		setter:   setter,
	}
	tr.OnNewFrame(func(int) { tr.newFrame() })
	tr.OnStopped(func(isFinished bool) {
		if isFinished && tr.removeOnComplete {
			tr.Detach()
		}
	})
	return tr
}

func (tr *Transition[T]) newFrame() {
	if tr.interval == nil || tr.setter == nil {
		return
	}
	p := tr.Progress()
	if tr.compute != nil {
		if v, ok := tr.compute(p); ok {
			tr.setter(v)
			return
		}
	}
	tr.setter(tr.interval.Compute(p))
}

// Interval returns the interval the transition animates.
func (tr *Transition[T]) Interval() *Interval[T] { return tr.interval }

// SetInterval replaces the animated interval.
func (tr *Transition[T]) SetInterval(iv *Interval[T]) { tr.interval = iv }

// Attached reports whether a setter is receiving values.
func (tr *Transition[T]) Attached() bool { return tr.setter != nil }

// SetSetter attaches a new setter. nil detaches.
func (tr *Transition[T]) SetSetter(setter func(T)) {
	if setter == nil {
		tr.Detach()
		return
	}
	tr.setter = setter
}

// Detach stops writing values and notifies OnDetached callbacks.
func (tr *Transition[T]) Detach() {
	if tr.setter == nil {
		return
	}
	tr.setter = nil
	tr.detached.each(func(fn func()) { fn() })
}

// OnDetached registers fn to run when the setter is detached.
func (tr *Transition[T]) OnDetached(fn func()) CallbackHandle { return tr.detached.add(fn) }

// RemoveOnComplete reports whether the transition detaches itself once it
// finishes.
func (tr *Transition[T]) RemoveOnComplete() bool { return tr.removeOnComplete }

func (tr *Transition[T]) SetRemoveOnComplete(remove bool) { tr.removeOnComplete = remove }
