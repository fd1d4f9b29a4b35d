package clutter

import (
	"math"
	"slices"
)

// keyEpsilon is the distance below which two keys sort as equal.
const keyEpsilon = 1e-4

// KeyFrame is a value reached at Key, a fraction of the duration, using
// Mode to ease the segment that ends there.
type KeyFrame[T any] struct {
	Key   float64
	Mode  AnimationMode
	Value T
}

type keyFrame[T any] struct {
	KeyFrame[T]
	hasValue   bool
	start, end float64
}

// KeyframeTransition is a Transition whose interval is split into segments
// by intermediate key frames. An implicit frame at 1.0 ends on the
// interval's final value using the timeline's progress mode; the first
// segment starts from the interval's initial value.
type KeyframeTransition[T any] struct {
	*Transition[T]

	frames  []keyFrame[T]
	current int
}

// NewKeyframeTransition creates a stopped keyframe transition. Without key
// frames it behaves like a plain Transition.
func NewKeyframeTransition[T any](clock *MasterClock, msecs int, iv *Interval[T], setter func(T)) *KeyframeTransition[T] {
	k := &KeyframeTransition[T]{
		Transition: NewTransition(clock, msecs, iv, setter),
		current:    -1,
	}
	k.compute = k.computeValue
	k.OnStarted(func() {
		k.current = -1
		k.sortFrames()
		k.updateFrames()
	})
	k.OnCompleted(func() { k.current = -1 })
	return k
}

// initFrames allocates n user frames plus the implicit final one.
func (k *KeyframeTransition[T]) initFrames(n int) {
	k.frames = make([]keyFrame[T], n+1)
	k.frames[n].Key = 1
}

// prepare makes room for n frames, reporting false when the count does not
// match the frames already set.
func (k *KeyframeTransition[T]) prepare(n int, what string) bool {
	if n == 0 {
		return false
	}
	if k.frames == nil {
		k.initFrames(n)
		return true
	}
	if n != len(k.frames)-1 {
		Logger().Warn("key frame count mismatch", "set", what, "got", n, "want", len(k.frames)-1)
		return false
	}
	return true
}

// SetKeyFrames sets the key of each frame. The first call fixes the frame
// count; later calls with a different count are logged and ignored.
func (k *KeyframeTransition[T]) SetKeyFrames(keys ...float64) {
	if !k.prepare(len(keys), "keys") {
		return
	}
	for i, key := range keys {
		k.frames[i].Key = key
	}
}

// SetValues sets the value of each frame.
func (k *KeyframeTransition[T]) SetValues(values ...T) {
	if !k.prepare(len(values), "values") {
		return
	}
	for i, v := range values {
		k.frames[i].Value = v
		k.frames[i].hasValue = true
	}
}

// SetModes sets the easing mode of each frame.
func (k *KeyframeTransition[T]) SetModes(modes ...AnimationMode) {
	if !k.prepare(len(modes), "modes") {
		return
	}
	for i, m := range modes {
		k.frames[i].Mode = m
	}
}

// Set replaces key, mode and value of every frame at once.
func (k *KeyframeTransition[T]) Set(frames ...KeyFrame[T]) {
	if !k.prepare(len(frames), "frames") {
		return
	}
	for i, f := range frames {
		k.frames[i].KeyFrame = f
		k.frames[i].hasValue = true
	}
}

// SetKeyFrame replaces frame i.
func (k *KeyframeTransition[T]) SetKeyFrame(i int, f KeyFrame[T]) {
	if i < 0 || i >= k.NumKeyFrames() {
		Logger().Warn("key frame index out of range", "index", i, "frames", k.NumKeyFrames())
		return
	}
	k.frames[i].KeyFrame = f
	k.frames[i].hasValue = true
}

// KeyFrame returns frame i.
func (k *KeyframeTransition[T]) KeyFrame(i int) (KeyFrame[T], bool) {
	if i < 0 || i >= k.NumKeyFrames() {
		return KeyFrame[T]{}, false
	}
	return k.frames[i].KeyFrame, true
}

// NumKeyFrames returns the number of frames, not counting the implicit
// final one.
func (k *KeyframeTransition[T]) NumKeyFrames() int {
	if k.frames == nil {
		return 0
	}
	return len(k.frames) - 1
}

// Clear removes every key frame.
func (k *KeyframeTransition[T]) Clear() {
	k.frames = nil
	k.current = -1
}

func compareKeys(a, b float64) int {
	if math.Abs(a-b) < keyEpsilon {
		return 0
	}
	if a > b {
		return 1
	}
	return -1
}

func (k *KeyframeTransition[T]) sortFrames() {
	slices.SortStableFunc(k.frames, func(a, b keyFrame[T]) int {
		return compareKeys(a.Key, b.Key)
	})
}

// updateFrames derives each segment's span from the sorted keys.
func (k *KeyframeTransition[T]) updateFrames() {
	for i := range k.frames {
		if i == 0 {
			k.frames[i].start = 0
		} else {
			k.frames[i].start = k.frames[i-1].Key
		}
		k.frames[i].end = k.frames[i].Key
	}
}

// segmentFrom returns the value the segment ending at frame i starts from.
// Frames without a value hold the previous one.
func (k *KeyframeTransition[T]) segmentFrom(i int) T {
	v := k.interval.Initial()
	for j := 0; j < i; j++ {
		if k.frames[j].hasValue {
			v = k.frames[j].Value
		}
	}
	return v
}

func (k *KeyframeTransition[T]) computeValue(float64) (T, bool) {
	var zero T
	if len(k.frames) == 0 {
		return zero, false
	}
	last := len(k.frames) - 1
	if k.current < 0 || k.current > last {
		if k.Direction() == Forward {
			k.current = 0
		} else {
			k.current = last
		}
		// Frames set while playing have not been laid out yet.
		if k.frames[last].end == 0 {
			k.sortFrames()
			k.updateFrames()
		}
	}

	p := 1.0
	if d := k.Duration(); d > 0 {
		p = float64(k.Elapsed()) / float64(d)
	}
	if k.Direction() == Forward {
		for k.current < last && p > k.frames[k.current].end {
			k.current++
		}
	} else {
		for k.current > 0 && p < k.frames[k.current].start {
			k.current--
		}
	}

	f := &k.frames[k.current]
	from := k.segmentFrom(k.current)
	to, mode := from, f.Mode
	switch {
	case k.current == last:
		to, mode = k.interval.Final(), k.ProgressMode()
	case f.hasValue:
		to = f.Value
	}

	sub := 1.0
	if span := f.end - f.start; span > 0 {
		sub = (p - f.start) / span
	}
	if mode != CustomMode {
		sub = EaseProgress(mode, sub, 1)
	}
	return k.interval.lerp(from, to, sub), true
}
