package clutter

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/phanxgames/clutter/cogl"
	"github.com/tanema/gween/ease"
)

// LerpFunc interpolates between a and b at progress p. p is usually in
// [0,1] but overshooting modes such as EaseOutBack leave that range.
type LerpFunc[T any] func(a, b T, p float64) T

// Interval is a pair of values with an interpolation between them.
type Interval[T any] struct {
	initial, final T
	lerp           LerpFunc[T]
}

// NewInterval creates an interval interpolated by lerp.
func NewInterval[T any](initial, final T, lerp LerpFunc[T]) *Interval[T] {
	if lerp == nil {
		panic("clutter: NewInterval needs a lerp function")
	}
	return &Interval[T]{initial: initial, final: final, lerp: lerp}
}

// NewFloatInterval creates a linearly interpolated float64 interval.
func NewFloatInterval(initial, final float64) *Interval[float64] {
	return NewInterval(initial, final, LerpFloat)
}

// NewIntInterval creates an int interval rounded to the nearest integer.
func NewIntInterval(initial, final int) *Interval[int] {
	return NewInterval(initial, final, LerpInt)
}

// NewColorInterval creates a per-channel color interval.
func NewColorInterval(initial, final cogl.Color) *Interval[cogl.Color] {
	return NewInterval(initial, final, LerpColor)
}

func (iv *Interval[T]) Initial() T { return iv.initial }
func (iv *Interval[T]) Final() T   { return iv.final }

func (iv *Interval[T]) SetInitial(v T) { iv.initial = v }
func (iv *Interval[T]) SetFinal(v T)   { iv.final = v }

// Compute returns the value at progress p.
func (iv *Interval[T]) Compute(p float64) T {
	return iv.lerp(iv.initial, iv.final, p)
}

// Clone returns an independent copy with the same values and lerp.
func (iv *Interval[T]) Clone() *Interval[T] {
	c := *iv
	return &c
}

func LerpFloat(a, b, p float64) float64 { return a + (b-a)*p }

func LerpInt(a, b int, p float64) int {
	return int(math.Round(float64(a) + float64(b-a)*p))
}

// LerpColor interpolates each channel and clamps the result to a byte.
func LerpColor(a, b cogl.Color, p float64) cogl.Color {
	return cogl.Color{
		R: lerpChannel(a.R, b.R, p),
		G: lerpChannel(a.G, b.G, p),
		B: lerpChannel(a.B, b.B, p),
		A: lerpChannel(a.A, b.A, p),
	}
}

func lerpChannel(a, b uint8, p float64) uint8 {
	v := ease.Linear(float32(p), float32(a), float32(b)-float32(a), 1)
	return uint8(math32.Round(math32.Max(0, math32.Min(255, v))))
}
