package clutter

import (
	"testing"

	"github.com/phanxgames/clutter/cogl"
)

func TestFloatInterval(t *testing.T) {
	iv := NewFloatInterval(10, 20)
	tests := []struct {
		p, want float64
	}{
		{0, 10},
		{0.5, 15},
		{1, 20},
		{1.1, 21}, // overshoot is not clamped
	}
	for _, tt := range tests {
		if got := iv.Compute(tt.p); got != tt.want {
			t.Errorf("Compute(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestIntInterval(t *testing.T) {
	iv := NewIntInterval(0, 3)
	tests := []struct {
		p    float64
		want int
	}{
		{0, 0},
		{0.5, 2}, // 1.5 rounds away from zero
		{0.3, 1},
		{1, 3},
	}
	for _, tt := range tests {
		if got := iv.Compute(tt.p); got != tt.want {
			t.Errorf("Compute(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestColorInterval(t *testing.T) {
	iv := NewColorInterval(cogl.Color{R: 0, G: 100, B: 200, A: 255}, cogl.Color{R: 255, G: 200, B: 0, A: 255})

	if got, want := iv.Compute(0.5), (cogl.Color{R: 128, G: 150, B: 100, A: 255}); got != want {
		t.Errorf("Compute(0.5) = %v, want %v", got, want)
	}
	// Overshooting modes clamp each channel.
	if got, want := iv.Compute(1.5), (cogl.Color{R: 255, G: 250, B: 0, A: 255}); got != want {
		t.Errorf("Compute(1.5) = %v, want %v", got, want)
	}
}

func TestIntervalClone(t *testing.T) {
	iv := NewFloatInterval(1, 2)
	c := iv.Clone()
	c.SetFinal(5)
	if iv.Final() != 2 {
		t.Errorf("original Final = %v after changing the clone, want 2", iv.Final())
	}
	if c.Compute(1) != 5 {
		t.Errorf("clone Compute(1) = %v, want 5", c.Compute(1))
	}
}
