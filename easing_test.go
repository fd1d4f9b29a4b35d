package clutter

import (
	"errors"
	"math"
	"testing"
)

func TestEasingBoundaries(t *testing.T) {
	for m := Linear; m < animationModeLast; m++ {
		if got := EaseProgress(m, 0, 1); math.Abs(got) > 1e-4 {
			t.Errorf("%v at 0 = %v, want 0", m, got)
		}
		if got := EaseProgress(m, 1, 1); math.Abs(got-1) > 1e-4 {
			t.Errorf("%v at 1 = %v, want 1", m, got)
		}
	}
}

func TestEasingValues(t *testing.T) {
	tests := []struct {
		mode AnimationMode
		t    float64
		want float64
	}{
		{Linear, 0.25, 0.25},
		{EaseInQuad, 0.5, 0.25},
		{EaseOutQuad, 0.5, 0.75},
		{EaseInCubic, 0.5, 0.125},
		{EaseInOutQuad, 0.25, 0.125},
		{StepEnd, 0.99, 0},
		{StepStart, 0.01, 1},
	}
	for _, tt := range tests {
		if got := EaseProgress(tt.mode, tt.t, 1); math.Abs(got-tt.want) > 1e-5 {
			t.Errorf("EaseProgress(%v, %v) = %v, want %v", tt.mode, tt.t, got, tt.want)
		}
	}
}

func TestEaseOutBackOvershoots(t *testing.T) {
	peak := 0.0
	for i := 0; i <= 100; i++ {
		peak = math.Max(peak, EaseProgress(EaseOutBack, float64(i), 100))
	}
	if peak <= 1 {
		t.Errorf("easeOutBack peak = %v, want > 1", peak)
	}
}

func TestEaseProgressZeroDuration(t *testing.T) {
	if got := EaseProgress(EaseInQuad, 0, 0); got != 1 {
		t.Errorf("EaseProgress with zero duration = %v, want 1", got)
	}
}

func TestModeNames(t *testing.T) {
	for m := CustomMode; m < animationModeLast; m++ {
		got, err := ModeFromName(m.String())
		if err != nil {
			t.Errorf("ModeFromName(%q): %v", m.String(), err)
			continue
		}
		if got != m {
			t.Errorf("ModeFromName(%q) = %v, want %v", m.String(), got, m)
		}
	}
	if _, err := ModeFromName("wobble"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("ModeFromName(wobble) error = %v, want ErrUnknownMode", err)
	}
}

func TestSteps(t *testing.T) {
	tests := []struct {
		p     float64
		n     int
		end   float64
		start float64
	}{
		{0, 4, 0, 0},
		{0.1, 4, 0, 0.25},
		{0.3, 4, 0.25, 0.5},
		{1, 4, 1, 1},
	}
	for _, tt := range tests {
		if got := StepsEnd(tt.p, tt.n); got != tt.end {
			t.Errorf("StepsEnd(%v, %d) = %v, want %v", tt.p, tt.n, got, tt.end)
		}
		if got := StepsStart(tt.p, 1, tt.n); got != tt.start {
			t.Errorf("StepsStart(%v, 1, %d) = %v, want %v", tt.p, tt.n, got, tt.start)
		}
	}
}

func TestCubicBezierProgress(t *testing.T) {
	linear := func(p float64) float64 {
		return CubicBezierProgress(p, Point{0.25, 0.25}, Point{0.75, 0.75})
	}
	for _, p := range []float64{0.1, 0.5, 0.9} {
		if got := linear(p); math.Abs(got-p) > 1e-4 {
			t.Errorf("linear bezier at %v = %v", p, got)
		}
	}

	easeInOut := func(p float64) float64 {
		return CubicBezierProgress(p, Point{0.42, 0}, Point{0.58, 1})
	}
	if got := easeInOut(0.5); math.Abs(got-0.5) > 1e-4 {
		t.Errorf("symmetric curve at 0.5 = %v, want 0.5", got)
	}
	if got := easeInOut(0.2); got >= 0.2 {
		t.Errorf("ease-in-out at 0.2 = %v, want below 0.2", got)
	}

	prev := -1.0
	for i := 0; i <= 50; i++ {
		got := CubicBezierProgress(float64(i)/50, Point{0.9, 0}, Point{0.1, 1})
		if got < prev-1e-4 {
			t.Errorf("steep curve not monotonic at %d: %v < %v", i, got, prev)
		}
		prev = got
	}

	if got := CubicBezierProgress(-0.5, Point{0.42, 0}, Point{0.58, 1}); got != 0 {
		t.Errorf("below range = %v, want 0", got)
	}
	if got := CubicBezierProgress(1.5, Point{0.42, 0}, Point{0.58, 1}); got != 1 {
		t.Errorf("above range = %v, want 1", got)
	}
}
