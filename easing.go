package clutter

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/tanema/gween/ease"
)

// AnimationMode selects the curve used to map linear timeline progress to
// eased progress.
type AnimationMode int

const (
	// CustomMode is reported by a timeline using a ProgressFunc.
	CustomMode AnimationMode = iota
	Linear

	EaseInQuad
	EaseOutQuad
	EaseInOutQuad

	EaseInCubic
	EaseOutCubic
	EaseInOutCubic

	EaseInQuart
	EaseOutQuart
	EaseInOutQuart

	EaseInQuint
	EaseOutQuint
	EaseInOutQuint

	EaseInSine
	EaseOutSine
	EaseInOutSine

	EaseInExpo
	EaseOutExpo
	EaseInOutExpo

	EaseInCirc
	EaseOutCirc
	EaseInOutCirc

	EaseInElastic
	EaseOutElastic
	EaseInOutElastic

	EaseInBack
	EaseOutBack
	EaseInOutBack

	EaseInBounce
	EaseOutBounce
	EaseInOutBounce

	// Steps uses the step count and mode set with Timeline.SetStepProgress.
	Steps
	StepStart
	StepEnd

	// CubicBezier uses the control points set with
	// Timeline.SetCubicBezierProgress.
	CubicBezier
	Ease
	EaseIn
	EaseOut
	EaseInOut

	animationModeLast
)

// ErrUnknownMode is returned by ModeFromName for names outside the table.
var ErrUnknownMode = errors.New("clutter: unknown animation mode")

// EasingFunc maps elapsed time t within duration d to progress, normally in
// [0,1]. Elastic and back curves overshoot.
type EasingFunc func(t, d float64) float64

type easingEntry struct {
	mode AnimationMode
	name string
	fn   EasingFunc
}

func penner(fn ease.TweenFunc) EasingFunc {
	return func(t, d float64) float64 {
		return float64(fn(float32(t), 0, 1, float32(d)))
	}
}

func bezierPreset(x1, y1, x2, y2 float32) EasingFunc {
	return func(t, d float64) float64 {
		return CubicBezierProgress(t/d, Point{x1, y1}, Point{x2, y2})
	}
}

var easingTable = [animationModeLast]easingEntry{
	{CustomMode, "custom", nil},
	{Linear, "linear", penner(ease.Linear)},

	{EaseInQuad, "easeInQuad", penner(ease.InQuad)},
	{EaseOutQuad, "easeOutQuad", penner(ease.OutQuad)},
	{EaseInOutQuad, "easeInOutQuad", penner(ease.InOutQuad)},

	{EaseInCubic, "easeInCubic", penner(ease.InCubic)},
	{EaseOutCubic, "easeOutCubic", penner(ease.OutCubic)},
	{EaseInOutCubic, "easeInOutCubic", penner(ease.InOutCubic)},

	{EaseInQuart, "easeInQuart", penner(ease.InQuart)},
	{EaseOutQuart, "easeOutQuart", penner(ease.OutQuart)},
	{EaseInOutQuart, "easeInOutQuart", penner(ease.InOutQuart)},

	{EaseInQuint, "easeInQuint", penner(ease.InQuint)},
	{EaseOutQuint, "easeOutQuint", penner(ease.OutQuint)},
	{EaseInOutQuint, "easeInOutQuint", penner(ease.InOutQuint)},

	{EaseInSine, "easeInSine", penner(ease.InSine)},
	{EaseOutSine, "easeOutSine", penner(ease.OutSine)},
	{EaseInOutSine, "easeInOutSine", penner(ease.InOutSine)},

	{EaseInExpo, "easeInExpo", penner(ease.InExpo)},
	{EaseOutExpo, "easeOutExpo", penner(ease.OutExpo)},
	{EaseInOutExpo, "easeInOutExpo", penner(ease.InOutExpo)},

	{EaseInCirc, "easeInCirc", penner(ease.InCirc)},
	{EaseOutCirc, "easeOutCirc", penner(ease.OutCirc)},
	{EaseInOutCirc, "easeInOutCirc", penner(ease.InOutCirc)},

	{EaseInElastic, "easeInElastic", penner(ease.InElastic)},
	{EaseOutElastic, "easeOutElastic", penner(ease.OutElastic)},
	{EaseInOutElastic, "easeInOutElastic", penner(ease.InOutElastic)},

	{EaseInBack, "easeInBack", penner(ease.InBack)},
	{EaseOutBack, "easeOutBack", penner(ease.OutBack)},
	{EaseInOutBack, "easeInOutBack", penner(ease.InOutBack)},

	{EaseInBounce, "easeInBounce", penner(ease.InBounce)},
	{EaseOutBounce, "easeOutBounce", penner(ease.OutBounce)},
	{EaseInOutBounce, "easeInOutBounce", penner(ease.InOutBounce)},

	{Steps, "steps", func(t, d float64) float64 { return StepsEnd(t/d, 1) }},
	{StepStart, "stepStart", func(t, d float64) float64 { return StepsStart(t, d, 1) }},
	{StepEnd, "stepEnd", func(t, d float64) float64 { return StepsEnd(t/d, 1) }},

	{CubicBezier, "cubicBezier", bezierPreset(0.25, 0.1, 0.25, 1)},
	{Ease, "ease", bezierPreset(0.25, 0.1, 0.25, 1)},
	{EaseIn, "easeIn", bezierPreset(0.42, 0, 1, 1)},
	{EaseOut, "easeOut", bezierPreset(0, 0, 0.58, 1)},
	{EaseInOut, "easeInOut", bezierPreset(0.42, 0, 0.58, 1)},
}

func (m AnimationMode) valid() bool { return m >= 0 && m < animationModeLast }

func (m AnimationMode) String() string {
	if !m.valid() {
		return fmt.Sprintf("AnimationMode(%d)", int(m))
	}
	return easingTable[m].name
}

// ModeFromName returns the mode whose String form is name.
func ModeFromName(name string) (AnimationMode, error) {
	for _, e := range easingTable {
		if e.name == name {
			return e.mode, nil
		}
	}
	return CustomMode, fmt.Errorf("%w %q", ErrUnknownMode, name)
}

// EasingFor returns the easing function for a table mode, or nil for
// CustomMode and out of range values.
func EasingFor(m AnimationMode) EasingFunc {
	if !m.valid() {
		return nil
	}
	return easingTable[m].fn
}

// EaseProgress evaluates mode at elapsed time t of duration d. Modes without
// a table function fall back to linear.
func EaseProgress(m AnimationMode, t, d float64) float64 {
	if d == 0 {
		return 1
	}
	fn := EasingFor(m)
	if fn == nil {
		return t / d
	}
	return fn(t, d)
}

// StepsEnd quantizes progress p into n steps, jumping at the end of each.
func StepsEnd(p float64, n int) float64 {
	fn := float32(n)
	return float64(math32.Floor(float32(p)*fn) / fn)
}

// StepsStart quantizes elapsed time t of duration d into n steps, jumping at
// the start of each.
func StepsStart(t, d float64, n int) float64 {
	return 1 - StepsEnd(1-t/d, n)
}

// Point is a cubic bezier control point.
type Point struct {
	X, Y float32
}

const (
	bezierNewtonIterations = 8
	bezierEpsilon          = 1e-7
	bezierBisectIterations = 30
)

// CubicBezierProgress evaluates the curve from (0,0) to (1,1) with control
// points c1 and c2 at progress p. Control x values are clamped to [0,1] so
// the curve stays a function of x.
func CubicBezierProgress(p float64, c1, c2 Point) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	x1 := math32.Max(0, math32.Min(1, c1.X))
	x2 := math32.Max(0, math32.Min(1, c2.X))
	t := bezierSolveX(float32(p), x1, x2)
	return float64(bezierSample(t, c1.Y, c2.Y))
}

// bezierSample evaluates one coordinate of the curve at parameter t.
func bezierSample(t, a1, a2 float32) float32 {
	omt := 1 - t
	return 3*omt*omt*t*a1 + 3*omt*t*t*a2 + t*t*t
}

func bezierSlope(t, a1, a2 float32) float32 {
	omt := 1 - t
	return 3*omt*omt*a1 + 6*omt*t*(a2-a1) + 3*t*t*(1-a2)
}

// bezierSolveX finds t such that x(t) == x, first by Newton-Raphson and then
// by bisection when the slope flattens out.
func bezierSolveX(x, x1, x2 float32) float32 {
	t := x
	for i := 0; i < bezierNewtonIterations; i++ {
		err := bezierSample(t, x1, x2) - x
		if math32.Abs(err) < bezierEpsilon {
			return t
		}
		d := bezierSlope(t, x1, x2)
		if math32.Abs(d) < 1e-6 {
			break
		}
		t -= err / d
		if t < 0 || t > 1 {
			break
		}
	}

	lo, hi := float32(0), float32(1)
	t = x
	for i := 0; i < bezierBisectIterations; i++ {
		sx := bezierSample(t, x1, x2)
		if math32.Abs(sx-x) < bezierEpsilon {
			return t
		}
		if x > sx {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) / 2
	}
	return t
}
