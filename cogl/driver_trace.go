package cogl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// TraceDriver is a Driver that records every call it receives as one line
// of text. It backs the tests and debug dumps of flushed state.
type TraceDriver struct {
	// Calls holds the recorded calls, oldest first.
	Calls []string

	Features             Feature
	Units                int
	ImageUnits           int
	ActivateableUnits    int
	// FailCompile makes CompileProgram fail for matching sources.
	FailCompile func(lang ProgramLanguage, source string) bool

	nextTexture uint32
	nextProgram uint32
	// Sources keeps every compiled program by handle.
	Sources map[uint32]string
}

// NewTraceDriver returns a driver with every feature, 8 fixed-function
// units and 4 program image units.
func NewTraceDriver() *TraceDriver {
	return &TraceDriver{
		Features: FeatureShaders | FeatureUserShaders | FeatureBlendConstant |
			FeatureBlendEquationSeparate | FeaturePointSprite | FeatureTextureRectangle,
		Units:             8,
		ImageUnits:        4,
		ActivateableUnits: 8,
		Sources:           make(map[uint32]string),
	}
}

// Reset forgets the recorded calls.
func (d *TraceDriver) Reset() { d.Calls = d.Calls[:0] }

// String returns the recorded calls, one per line.
func (d *TraceDriver) String() string { return strings.Join(d.Calls, "\n") }

func (d *TraceDriver) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *TraceDriver) HasFeature(f Feature) bool { return d.Features&f == f }

func (d *TraceDriver) MaxTextureUnits() int { return d.Units }

func (d *TraceDriver) MaxTextureImageUnits() int { return d.ImageUnits }

func (d *TraceDriver) MaxActivateableTextureUnits() int { return d.ActivateableUnits }

func (d *TraceDriver) Color(c Color) { d.record("Color(%v)", c) }

func (d *TraceDriver) Material(l LightingState) {
	d.record("Material(ambient=%v diffuse=%v specular=%v emission=%v shininess=%g)",
		l.Ambient, l.Diffuse, l.Specular, l.Emission, l.Shininess)
}

func (d *TraceDriver) BlendConstant(c Color) { d.record("BlendConstant(%v)", c) }

func (d *TraceDriver) BlendEquation(rgb, alpha BlendEquation) {
	d.record("BlendEquation(%v, %v)", rgb, alpha)
}

func (d *TraceDriver) BlendFunc(srcRGB, dstRGB, srcAlpha, dstAlpha BlendFactor) {
	d.record("BlendFunc(%v, %v, %v, %v)", srcRGB, dstRGB, srcAlpha, dstAlpha)
}

func (d *TraceDriver) AlphaFunc(fn CompareFunc, reference float32) {
	d.record("AlphaFunc(%v, %g)", fn, reference)
}

func (d *TraceDriver) Enable(c Capability) { d.record("Enable(%v)", c) }

func (d *TraceDriver) Disable(c Capability) { d.record("Disable(%v)", c) }

func (d *TraceDriver) DepthFunc(fn CompareFunc) { d.record("DepthFunc(%v)", fn) }

func (d *TraceDriver) DepthMask(write bool) { d.record("DepthMask(%t)", write) }

func (d *TraceDriver) DepthRange(near, far float32) { d.record("DepthRange(%g, %g)", near, far) }

func (d *TraceDriver) PointSize(size float32) { d.record("PointSize(%g)", size) }

func (d *TraceDriver) Fog(f FogState) {
	d.record("Fog(mode=%d color=%v density=%g z=%g..%g)", f.Mode, f.Color, f.Density, f.ZNear, f.ZFar)
}

func (d *TraceDriver) ActiveTexture(unit int) { d.record("ActiveTexture(%d)", unit) }

func (d *TraceDriver) BindTexture(target TextureTarget, name uint32) {
	d.record("BindTexture(%v, %d)", target, name)
}

func (d *TraceDriver) EnableTarget(target TextureTarget) { d.record("EnableTarget(%v)", target) }

func (d *TraceDriver) DisableTarget(target TextureTarget) { d.record("DisableTarget(%v)", target) }

func (d *TraceDriver) TextureMatrix(m mgl32.Mat4) {
	if m == mgl32.Ident4() {
		d.record("TextureMatrix(identity)")
		return
	}
	d.record("TextureMatrix(%v)", [16]float32(m))
}

func (d *TraceDriver) PointSpriteCoords(enable bool) { d.record("PointSpriteCoords(%t)", enable) }

func (d *TraceDriver) TexEnvCombine(c CombineState) {
	n, na := combineFuncArgs(c.RGBFunc), combineFuncArgs(c.AlphaFunc)
	d.record("TexEnvCombine(rgb=%v%v%v alpha=%v%v%v)",
		c.RGBFunc, c.RGBSrc[:n], c.RGBOp[:n], c.AlphaFunc, c.AlphaSrc[:na], c.AlphaOp[:na])
}

func (d *TraceDriver) TexEnvConstant(c [4]float32) { d.record("TexEnvConstant(%v)", c) }

func (d *TraceDriver) CreateTexture(target TextureTarget, width, height int, pixels []byte) uint32 {
	d.nextTexture++
	d.record("CreateTexture(%v, %dx%d) = %d", target, width, height, d.nextTexture)
	return d.nextTexture
}

func (d *TraceDriver) DeleteTexture(name uint32) { d.record("DeleteTexture(%d)", name) }

func (d *TraceDriver) TextureFilters(target TextureTarget, name uint32, min, mag Filter) {
	d.record("TextureFilters(%v, %d, %v, %v)", target, name, min, mag)
}

func (d *TraceDriver) TextureWrap(target TextureTarget, name uint32, s, t, p WrapMode) {
	d.record("TextureWrap(%v, %d, %v, %v, %v)", target, name, s, t, p)
}

var errTraceCompile = errors.New("trace driver: compile failure requested")

func (d *TraceDriver) CompileProgram(lang ProgramLanguage, source string) (uint32, error) {
	if d.FailCompile != nil && d.FailCompile(lang, source) {
		d.record("CompileProgram(%v) failed", lang)
		return 0, errTraceCompile
	}
	d.nextProgram++
	if d.Sources == nil {
		d.Sources = make(map[uint32]string)
	}
	d.Sources[d.nextProgram] = source
	d.record("CompileProgram(%v) = %d", lang, d.nextProgram)
	return d.nextProgram, nil
}

func (d *TraceDriver) UseProgram(handle uint32) { d.record("UseProgram(%d)", handle) }

func (d *TraceDriver) SetUniform(handle uint32, name string, index int, value [4]float32) {
	d.record("SetUniform(%d, %s[%d], %v)", handle, name, index, value)
}

func (d *TraceDriver) DeleteProgram(handle uint32) { d.record("DeleteProgram(%d)", handle) }

func (d *TraceDriver) DrawTriangles(vertices []Vertex, indices []uint32) {
	d.record("DrawTriangles(%d vertices, %d indices)", len(vertices), len(indices))
}
