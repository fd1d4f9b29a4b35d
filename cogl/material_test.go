package cogl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var (
	red         = Color{R: 0xff, A: 0xff}
	blue        = Color{B: 0xff, A: 0xff}
	translucent = Color{R: 0x80, A: 0x80}
)

func newTestContext() (*Context, *TraceDriver) {
	d := NewTraceDriver()
	return NewContext(d), d
}

// --- Copy on write ---

func TestCopyOnWriteIsolation(t *testing.T) {
	ctx, _ := newTestContext()

	base := NewMaterial(ctx)
	base.SetColor(red)
	child := base.Copy()

	base.SetColor(blue)
	if got := child.Color(); got != red {
		t.Errorf("child.Color() = %v, want %v", got, red)
	}
	if got := base.Color(); got != blue {
		t.Errorf("base.Color() = %v, want %v", got, blue)
	}
	if got := ctx.Stats().CopyOnWrite; got != 1 {
		t.Errorf("CopyOnWrite = %d, want 1", got)
	}
}

func TestCopyOnWriteIsolationLayers(t *testing.T) {
	ctx, _ := newTestContext()
	texA := ctx.NewTexture(4, 4, nil, false)
	texB := ctx.NewTexture(4, 4, nil, false)

	base := NewMaterial(ctx)
	base.SetLayerTexture(0, texA)
	child := base.Copy()

	base.SetLayerTexture(0, texB)
	if got := child.Layer(0).Texture(); got != texA {
		t.Errorf("child layer 0 texture = %v, want texA", got)
	}
	if got := base.Layer(0).Texture(); got != texB {
		t.Errorf("base layer 0 texture = %v, want texB", got)
	}

	// An in-place change to a layer base already owns must not leak either.
	base.SetLayerFilters(0, FilterNearest, FilterNearest)
	grandchild := base.Copy()
	base.SetLayerFilters(0, FilterLinear, FilterNearest)

	if min, _ := child.Layer(0).Filters(); min != FilterLinear {
		t.Errorf("child min filter = %v, want linear", min)
	}
	if min, _ := grandchild.Layer(0).Filters(); min != FilterNearest {
		t.Errorf("grandchild min filter = %v, want nearest", min)
	}
	if min, _ := base.Layer(0).Filters(); min != FilterLinear {
		t.Errorf("base min filter = %v, want linear", min)
	}
}

func TestCopyOnWriteEveryGroup(t *testing.T) {
	ctx, _ := newTestContext()
	tex := ctx.NewTexture(2, 2, nil, false)
	prog := NewProgram(LanguageKage, "package main")

	tests := []struct {
		name   string
		mutate func(m *Material)
		read   func(m *Material) any
	}{
		{"color", func(m *Material) { m.SetColor(blue) }, func(m *Material) any { return m.Color() }},
		{"blend-enable", func(m *Material) { m.SetBlendEnable(BlendDisabled) }, func(m *Material) any { return m.BlendEnable() }},
		{"lighting", func(m *Material) { m.SetAmbient(red) }, func(m *Material) any { return m.Lighting() }},
		{"alpha-func", func(m *Material) { m.SetAlphaTestFunction(CompareGreater, 0.5) }, func(m *Material) any { return m.AlphaFunc() }},
		{"blend", func(m *Material) { m.SetBlendConstant(red) }, func(m *Material) any { return m.Blend() }},
		{"user-shader", func(m *Material) { m.SetUserProgram(prog) }, func(m *Material) any { return m.UserProgram() }},
		{"depth", func(m *Material) { m.SetDepthTestEnabled(true) }, func(m *Material) any { return m.Depth() }},
		{"fog", func(m *Material) { m.SetFog(FogState{Enabled: true, Density: 2}) }, func(m *Material) any { return m.Fog() }},
		{"point-size", func(m *Material) { m.SetPointSize(4) }, func(m *Material) any { return m.PointSize() }},
		{"layers", func(m *Material) { m.SetLayerTexture(0, tex) }, func(m *Material) any { return m.NLayers() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent := NewMaterial(ctx)
			child := parent.Copy()
			before := tt.read(child)
			tt.mutate(parent)
			if after := tt.read(child); after != before {
				t.Errorf("child %s changed from %v to %v", tt.name, before, after)
			}
		})
	}
}

func TestRevertToParentDropsDifference(t *testing.T) {
	ctx, _ := newTestContext()
	parent := NewMaterial(ctx)
	child := parent.Copy()

	child.SetColor(red)
	if child.Differences()&StateColor == 0 {
		t.Fatalf("child differences = %v, want color", child.Differences())
	}
	child.SetColor(White)
	if child.Differences()&StateColor != 0 {
		t.Errorf("child differences = %v, want no color after reverting", child.Differences())
	}
}

func TestWeakCopyDestroyedOnChange(t *testing.T) {
	ctx, _ := newTestContext()
	base := NewMaterial(ctx)

	var destroyed *Material
	weak := base.WeakCopy(func(m *Material) { destroyed = m })
	if !weak.IsWeak() {
		t.Fatal("WeakCopy().IsWeak() = false")
	}

	base.SetColor(red)
	if destroyed != weak {
		t.Errorf("destroy callback got %p, want %p", destroyed, weak)
	}
	if weak.Parent() != nil {
		t.Error("weak copy still has a parent after its parent changed")
	}
	if got := ctx.Stats().CopyOnWrite; got != 0 {
		t.Errorf("CopyOnWrite = %d, want 0 for weak dependents", got)
	}
}

func TestAgeIncrements(t *testing.T) {
	ctx, _ := newTestContext()
	m := NewMaterial(ctx)
	age := m.Age()
	m.SetColor(red)
	if m.Age() <= age {
		t.Errorf("Age() = %d after change, want > %d", m.Age(), age)
	}
	age = m.Age()
	m.SetColor(red)
	if m.Age() != age {
		t.Errorf("Age() = %d after no-op change, want %d", m.Age(), age)
	}
}

func TestSetShininessOutOfRange(t *testing.T) {
	ctx, _ := newTestContext()
	m := NewMaterial(ctx)
	m.SetShininess(0.5)
	m.SetShininess(-1)
	m.SetShininess(2)
	if got := m.Lighting().Shininess; got != 0.5 {
		t.Errorf("Shininess = %g, want 0.5", got)
	}
}

// --- Compare / Equal ---

func TestCompareIsConservative(t *testing.T) {
	ctx, _ := newTestContext()
	tex := ctx.NewTexture(2, 2, nil, false)

	tests := []struct {
		name   string
		mutate func(m *Material)
		want   MaterialState
		equal  bool
	}{
		{"color", func(m *Material) { m.SetColor(red) }, StateColor, false},
		{"blend-enable", func(m *Material) { m.SetBlendEnable(BlendEnabled) }, StateBlendEnable, false},
		{"layers", func(m *Material) { m.SetLayerTexture(0, tex) }, StateLayers, false},
		{"lighting", func(m *Material) { m.SetSpecular(red) }, StateLighting, false},
		{"alpha-func", func(m *Material) { m.SetAlphaTestFunction(CompareLess, 0.25) }, StateAlphaFunc, false},
		// Blend details are irrelevant while blending is off.
		{"blend", func(m *Material) { m.SetBlendConstant(red) }, StateBlend, true},
		{"depth", func(m *Material) { m.SetDepthTestEnabled(true) }, StateDepth, false},
		// Disabled depth tests compare equal whatever their function.
		{"depth-func", func(m *Material) { m.SetDepthTestFunction(CompareAlways) }, StateDepth, true},
		{"fog", func(m *Material) { m.SetFog(FogState{Enabled: true}) }, StateFog, false},
		{"point-size", func(m *Material) { m.SetPointSize(3) }, StatePointSize, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewMaterial(ctx)
			b := a.Copy()
			tt.mutate(b)
			if got := Compare(a, b); got&tt.want == 0 {
				t.Errorf("Compare() = %v, want it to include %v", got, tt.want)
			}
			if got := Compare(b, a); got&tt.want == 0 {
				t.Errorf("Compare() reversed = %v, want it to include %v", got, tt.want)
			}
			if got := a.Equal(b); got != tt.equal {
				t.Errorf("Equal() = %t, want %t", got, tt.equal)
			}
		})
	}
}

func TestCompareSameMaterial(t *testing.T) {
	ctx, _ := newTestContext()
	m := NewMaterial(ctx)
	m.SetColor(red)
	if got := Compare(m, m); got != 0 {
		t.Errorf("Compare(m, m) = %v, want 0", got)
	}
	if got := Compare(m, m.Copy()); got&StateColor != 0 {
		t.Errorf("Compare(m, copy) = %v, want no color", got)
	}
}

func TestEqual(t *testing.T) {
	ctx, _ := newTestContext()
	tex := ctx.NewTexture(2, 2, nil, false)

	build := func() *Material {
		m := NewMaterial(ctx)
		m.SetColor(red)
		m.SetLayerTexture(0, tex)
		m.SetLayerFilters(0, FilterNearest, FilterNearest)
		return m
	}
	a, b := build(), build()
	if Compare(a, b) == 0 {
		t.Fatal("independently built materials should compare as possibly different")
	}
	if !a.Equal(b) {
		t.Error("a.Equal(b) = false for identical state")
	}

	b.SetLayerWrapMode(0, WrapRepeat)
	if a.Equal(b) {
		t.Error("a.Equal(b) = true after changing a wrap mode")
	}

	c := build()
	c.SetColor(blue)
	if a.Equal(c) {
		t.Error("a.Equal(c) = true with different colors")
	}
	if !materialsEqual(a, c, true) {
		t.Error("materialsEqual(skipColor) = false with only the color differing")
	}
}

// --- Blending ---

func TestRealBlendEnable(t *testing.T) {
	ctx, _ := newTestContext()
	opaqueTex := ctx.NewTexture(2, 2, nil, false)
	alphaTex := ctx.NewTexture(2, 2, nil, true)

	tests := []struct {
		name   string
		mutate func(m *Material)
		want   bool
	}{
		{"default", func(m *Material) {}, false},
		{"translucent color", func(m *Material) { m.SetColor(translucent) }, true},
		{"forced on", func(m *Material) { m.SetBlendEnable(BlendEnabled) }, true},
		{"forced off", func(m *Material) {
			m.SetColor(translucent)
			m.SetBlendEnable(BlendDisabled)
		}, false},
		{"opaque texture", func(m *Material) { m.SetLayerTexture(0, opaqueTex) }, false},
		{"texture with alpha", func(m *Material) { m.SetLayerTexture(0, alphaTex) }, true},
		{"texture with alpha removed", func(m *Material) {
			m.SetLayerTexture(0, alphaTex)
			m.RemoveLayer(0)
		}, false},
		{"replace combine", func(m *Material) {
			m.SetLayerTexture(0, opaqueTex)
			if err := m.SetLayerCombine(0, "RGBA = REPLACE(TEXTURE)"); err != nil {
				t.Fatal(err)
			}
		}, true},
		{"non-default blend", func(m *Material) {
			if err := m.SetBlend("RGBA = ADD(SRC_COLOR, 0)"); err != nil {
				t.Fatal(err)
			}
		}, true},
		{"user program", func(m *Material) { m.SetUserProgram(NewProgram(LanguageKage, "")) }, true},
		{"translucent emission", func(m *Material) { m.SetEmission(translucent) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMaterial(ctx)
			tt.mutate(m)
			if got := m.RealBlendEnable(); got != tt.want {
				t.Errorf("RealBlendEnable() = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestRealBlendEnableDebugDisable(t *testing.T) {
	ctx, _ := newTestContext()
	ctx.SetDebugFlags(DebugFlags{DisableBlending: true})
	m := NewMaterial(ctx)
	m.SetColor(translucent)
	if m.RealBlendEnable() {
		t.Error("RealBlendEnable() = true with blending disabled for debugging")
	}
}

// --- Layers ---

type layerPos struct {
	Index, Unit int
}

func layerPositions(m *Material) []layerPos {
	var out []layerPos
	for _, l := range m.Layers() {
		out = append(out, layerPos{l.Index(), l.UnitIndex()})
	}
	return out
}

func TestLayerUnitIndexShifting(t *testing.T) {
	ctx, _ := newTestContext()
	tex := ctx.NewTexture(2, 2, nil, false)

	m := NewMaterial(ctx)
	m.SetLayerTexture(5, tex)
	m.SetLayerTexture(1, tex)
	m.SetLayerTexture(3, tex)

	want := []layerPos{{1, 0}, {3, 1}, {5, 2}}
	if diff := cmp.Diff(want, layerPositions(m)); diff != "" {
		t.Errorf("layers after inserts (-want +got):\n%s", diff)
	}

	m.RemoveLayer(1)
	want = []layerPos{{3, 0}, {5, 1}}
	if diff := cmp.Diff(want, layerPositions(m)); diff != "" {
		t.Errorf("layers after remove (-want +got):\n%s", diff)
	}

	c := m.Copy()
	c.SetLayerTexture(0, tex)
	want = []layerPos{{0, 0}, {3, 1}, {5, 2}}
	if diff := cmp.Diff(want, layerPositions(c)); diff != "" {
		t.Errorf("copy layers after insert (-want +got):\n%s", diff)
	}
	want = []layerPos{{3, 0}, {5, 1}}
	if diff := cmp.Diff(want, layerPositions(m)); diff != "" {
		t.Errorf("original layers changed by copy (-want +got):\n%s", diff)
	}
}

func TestRemoveMissingLayer(t *testing.T) {
	ctx, _ := newTestContext()
	m := NewMaterial(ctx)
	m.SetLayerTexture(0, nil)
	m.RemoveLayer(7)
	if got := m.NLayers(); got != 1 {
		t.Errorf("NLayers() = %d, want 1", got)
	}
}

func TestRemoveInheritedLayer(t *testing.T) {
	ctx, _ := newTestContext()
	tex := ctx.NewTexture(2, 2, nil, false)
	parent := NewMaterial(ctx)
	parent.SetLayerTexture(0, tex)
	parent.SetLayerTexture(1, tex)

	child := parent.Copy()
	child.RemoveLayer(0)

	if diff := cmp.Diff([]layerPos{{1, 0}}, layerPositions(child)); diff != "" {
		t.Errorf("child layers (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]layerPos{{0, 0}, {1, 1}}, layerPositions(parent)); diff != "" {
		t.Errorf("parent layers (-want +got):\n%s", diff)
	}
}

func TestPruneToNLayers(t *testing.T) {
	ctx, _ := newTestContext()
	m := NewMaterial(ctx)
	for _, i := range []int{0, 2, 4, 6} {
		m.SetLayerTexture(i, nil)
	}
	m.PruneToNLayers(2)
	if diff := cmp.Diff([]layerPos{{0, 0}, {2, 1}}, layerPositions(m)); diff != "" {
		t.Errorf("layers after prune (-want +got):\n%s", diff)
	}
	m.PruneToNLayers(5)
	if got := m.NLayers(); got != 2 {
		t.Errorf("NLayers() = %d after growing prune, want 2", got)
	}
}

func TestLayerWrapModeSetters(t *testing.T) {
	ctx, _ := newTestContext()
	m := NewMaterial(ctx)
	m.SetLayerWrapMode(0, WrapRepeat)
	m.SetLayerWrapModeT(0, WrapClampToEdge)
	m.SetLayerWrapModeP(0, WrapAutomatic)

	s, tw, p := m.Layer(0).WrapModes()
	if s != WrapRepeat || tw != WrapClampToEdge || p != WrapAutomatic {
		t.Errorf("WrapModes() = %v, %v, %v, want repeat, clamp-to-edge, automatic", s, tw, p)
	}
}

func TestPointSpriteCoordsUnsupported(t *testing.T) {
	d := NewTraceDriver()
	d.Features &^= FeaturePointSprite
	ctx := NewContext(d)
	m := NewMaterial(ctx)
	if err := m.SetLayerPointSpriteCoords(0, true); err != ErrPointSpriteUnsupported {
		t.Errorf("SetLayerPointSpriteCoords() = %v, want ErrPointSpriteUnsupported", err)
	}
	if err := m.SetLayerPointSpriteCoords(0, false); err != nil {
		t.Errorf("disabling point sprite coords: %v", err)
	}
}
