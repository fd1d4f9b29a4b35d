package cogl

import (
	"fmt"
	"strings"
)

// generatedMaxUnits is the number of source images a Kage program can
// sample.
const generatedMaxUnits = 4

const generatedHeader = `//kage:unit pixels
package main

var Constants [4]vec4

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	output := color
`

const generatedFooter = `	return output
}
`

// programState is a generated program shared by every material whose
// layers generate the same code.
type programState struct {
	refCount int

	// building is true between start and end while the source is being
	// regenerated.
	building bool
	snippets []*layerSnippet

	compiled bool
	handle   uint32

	constantUnits  uint32
	constantsDirty bool
	lastMaterial   *Material
}

// layerSnippet is the Kage code for one layer's combine, cached on the
// layer so a rebuilt program only regenerates layers that changed.
type layerSnippet struct {
	code     string
	sampled  uint32
	constant bool
}

type generatedPriv struct {
	state *programState
}

// generatedBackend turns layer combine state into a Kage program.
type generatedBackend struct {
	ctx *Context
}

func newGeneratedBackend(ctx *Context) *generatedBackend {
	return &generatedBackend{ctx: ctx}
}

func (b *generatedBackend) maxTextureUnits() int {
	return min(generatedMaxUnits, b.ctx.driver.MaxTextureImageUnits())
}

func (b *generatedBackend) priv(m *Material) *generatedPriv {
	p, _ := m.backendPriv[BackendGenerated].(*generatedPriv)
	return p
}

func (b *generatedBackend) ensurePriv(m *Material) *generatedPriv {
	p := b.priv(m)
	if p == nil {
		p = &generatedPriv{}
		m.backendPriv[BackendGenerated] = p
	}
	return p
}

func (b *generatedBackend) state(m *Material) *programState {
	if p := b.priv(m); p != nil {
		return p.state
	}
	return nil
}

func (b *generatedBackend) start(m *Material, nLayers int, diff MaterialState) bool {
	if !b.ctx.driver.HasFeature(FeatureShaders) {
		return false
	}
	if m.Fog().Enabled || m.UserProgram() != nil {
		return false
	}

	priv := b.ensurePriv(m)
	if priv.state != nil {
		return true
	}

	// Programs live on the oldest ancestor that generates the same code so
	// siblings can share them.
	authority := findProgramAuthority(m)
	apriv := b.ensurePriv(authority)
	if apriv.state == nil {
		apriv.state = &programState{
			refCount: 1,
			building: true,
			snippets: make([]*layerSnippet, 0, nLayers),
		}
	}
	if authority != m {
		apriv.state.refCount++
		priv.state = apriv.state
	}
	return true
}

func (b *generatedBackend) addLayer(m *Material, l *Layer, diff LayerState) bool {
	st := b.state(m)
	if !st.building {
		return true
	}
	sn, ok := l.backendPriv[BackendGenerated].(*layerSnippet)
	if !ok {
		var err error
		sn, err = generateLayerSnippet(l)
		if err != nil {
			Logger().Debug("cogl: layer not supported by generated programs", "err", err)
			b.abandon(m)
			return false
		}
		l.backendPriv[BackendGenerated] = sn
	}
	st.snippets = append(st.snippets, sn)
	return true
}

func (b *generatedBackend) passthrough(m *Material) bool {
	st := b.state(m)
	if st.building {
		st.snippets = st.snippets[:0]
	}
	return true
}

func (b *generatedBackend) end(m *Material, diff MaterialState) bool {
	ctx := b.ctx
	st := b.state(m)

	if st.building {
		src := st.source()
		if ctx.debug.ShowSource {
			Logger().Debug("cogl: generated program", "source", src)
		}
		h, err := ctx.driver.CompileProgram(LanguageKage, src)
		if err != nil {
			Logger().Warn("cogl: generated program failed to compile, disabling generated programs",
				"err", err)
			ctx.brokenBackends[BackendGenerated] = true
			b.abandon(m)
			return false
		}
		ctx.stats.ProgramsBuilt++
		st.building = false
		st.compiled, st.handle = true, h
		st.constantUnits = 0
		for i, sn := range st.snippets {
			if sn.constant {
				st.constantUnits |= 1 << i
			}
		}
		st.snippets = nil
		st.constantsDirty = true
	}

	ctx.useProgram(st.handle)

	// Materials sharing a program may have different constants.
	if st.constantsDirty || st.lastMaterial != m {
		i := 0
		m.foreachLayer(func(l *Layer) bool {
			if i >= generatedMaxUnits {
				return false
			}
			if st.constantUnits&(1<<i) != 0 {
				ctx.driver.SetUniform(st.handle, "Constants", i, l.CombineConstant())
			}
			i++
			return true
		})
		st.constantsDirty = false
		st.lastMaterial = m
	}
	return true
}

// abandon drops a program that could not be built.
func (b *generatedBackend) abandon(m *Material) {
	b.dirty(m)
	if a := findProgramAuthority(m); a != m {
		b.dirty(a)
	}
}

func (st *programState) source() string {
	var sb strings.Builder
	sb.WriteString(generatedHeader)
	var sampled uint32
	for _, sn := range st.snippets {
		sampled |= sn.sampled
	}
	for i := 0; i < generatedMaxUnits; i++ {
		if sampled&(1<<i) != 0 {
			fmt.Fprintf(&sb, "\ttexel%d := imageSrc%dAt(srcPos)\n", i, i)
		}
	}
	for _, sn := range st.snippets {
		sb.WriteString(sn.code)
	}
	sb.WriteString(generatedFooter)
	return sb.String()
}

func (b *generatedBackend) unrefState(st *programState) {
	st.refCount--
	if st.refCount > 0 {
		return
	}
	if st.compiled {
		b.ctx.driver.DeleteProgram(st.handle)
		if b.ctx.currentProgram == st.handle {
			b.ctx.currentProgram = ^uint32(0)
		}
	}
}

func (b *generatedBackend) dirty(m *Material) {
	p := b.priv(m)
	if p == nil || p.state == nil {
		return
	}
	b.unrefState(p.state)
	p.state = nil
}

func (b *generatedBackend) materialPreChangeNotify(m *Material, change MaterialState, newColor *Color) {
	if change&(StateLayers|StateUserShader|StateFog) != 0 {
		b.dirty(m)
	}
}

func (b *generatedBackend) materialSetParentNotify(m *Material) {}

// layerPreChangeNotify runs before l is modified in place. Only combine and
// unit changes alter the generated code.
func (b *generatedBackend) layerPreChangeNotify(l *Layer, change LayerState) {
	if change&(LayerCombine|LayerUnit) != 0 {
		b.freeLayerPriv(l)
		if l.owner != nil {
			b.dirty(l.owner)
		}
		return
	}
	if change&LayerCombineConstant != 0 && l.owner != nil {
		if st := b.state(l.owner); st != nil {
			st.constantsDirty = true
		}
	}
}

func (b *generatedBackend) freePriv(m *Material) {
	b.dirty(m)
	m.backendPriv[BackendGenerated] = nil
}

func (b *generatedBackend) freeLayerPriv(l *Layer) {
	l.backendPriv[BackendGenerated] = nil
}

// findProgramAuthority returns the oldest ancestor of m whose layers
// generate the same program as m's.
func findProgramAuthority(m *Material) *Material {
	a0 := m.authority(StateLayers)
	if a0.parent == nil {
		return a0
	}
	a1 := a0.parent.authority(StateLayers)
	for {
		if a0.nLayers != a1.nLayers || layersCodegenDiffer(a0, a1) {
			return a0
		}
		if a1.parent == nil {
			break
		}
		a0 = a1
		a1 = a1.parent.authority(StateLayers)
	}
	return a1
}

// layersCodegenDiffer compares two layers authorities with the same layer
// count. Textures never matter since every unit samples the same way.
func layersCodegenDiffer(a0, a1 *Material) bool {
	a0.updateLayersCache()
	a1.updateLayersCache()
	for i := 0; i < a0.nLayers; i++ {
		l0, l1 := a0.layersCache[i], a1.layersCache[i]
		if l0 == l1 {
			continue
		}
		if CompareLayers(l0, l1)&(LayerCombine|LayerUnit) != 0 {
			return true
		}
	}
	return false
}

// needCombineSeparate reports whether the RGB and alpha channels must be
// combined by separate statements.
func needCombineSeparate(c *CombineState) bool {
	if c.RGBFunc != c.AlphaFunc {
		return true
	}
	for i := 0; i < combineFuncArgs(c.RGBFunc); i++ {
		if c.RGBSrc[i] != c.AlphaSrc[i] {
			return true
		}
		// The alpha statement reads alpha either way, so SRC_COLOR and
		// SRC_ALPHA agree for it.
		switch c.AlphaOp[i] {
		case CombineOpSrcAlpha:
			if c.RGBOp[i] != CombineOpSrcColor && c.RGBOp[i] != CombineOpSrcAlpha {
				return true
			}
		case CombineOpOneMinusSrcAlpha:
			if c.RGBOp[i] != CombineOpOneMinusSrcColor && c.RGBOp[i] != CombineOpOneMinusSrcAlpha {
				return true
			}
		default:
			return true
		}
	}
	return false
}

func generateLayerSnippet(l *Layer) (*layerSnippet, error) {
	c := l.Combine()
	unit := l.UnitIndex()
	sn := &layerSnippet{}
	var sb strings.Builder

	emit := func(mask channelMask, fn CombineFunc, src [3]CombineSource, op [3]CombineOp) error {
		var args [3]string
		for i := 0; i < combineFuncArgs(fn); i++ {
			a, err := sn.arg(unit, src[i], op[i])
			if err != nil {
				return err
			}
			args[i] = a
		}
		expr := fmt.Sprintf("clamp(%s, 0, 1)", combineExpr(fn, args))
		switch mask {
		case maskRGB:
			fmt.Fprintf(&sb, "\toutput = vec4((%s).rgb, output.a)\n", expr)
		case maskAlpha:
			fmt.Fprintf(&sb, "\toutput = vec4(output.rgb, (%s).a)\n", expr)
		default:
			fmt.Fprintf(&sb, "\toutput = %s\n", expr)
		}
		return nil
	}

	var err error
	switch {
	case !needCombineSeparate(&c), c.RGBFunc == CombineDot3RGBA:
		// DOT3_RGBA writes alpha too and overrides the alpha function.
		err = emit(maskRGBA, c.RGBFunc, c.RGBSrc, c.RGBOp)
	default:
		if err = emit(maskRGB, c.RGBFunc, c.RGBSrc, c.RGBOp); err == nil {
			err = emit(maskAlpha, c.AlphaFunc, c.AlphaSrc, c.AlphaOp)
		}
	}
	if err != nil {
		return nil, err
	}
	sn.code = sb.String()
	return sn, nil
}

// arg returns the Kage expression for one combine argument.
func (sn *layerSnippet) arg(unit int, src CombineSource, op CombineOp) (string, error) {
	var v string
	switch src {
	case CombineSourceTexture:
		v = fmt.Sprintf("texel%d", unit)
		sn.sampled |= 1 << unit
	case CombineSourceConstant:
		v = fmt.Sprintf("Constants[%d]", unit)
		sn.constant = true
	case CombineSourcePrimaryColor:
		v = "color"
	case CombineSourcePrevious:
		if unit == 0 {
			v = "color"
		} else {
			v = "output"
		}
	default:
		n := int(src - CombineSourceTexture0)
		if n >= generatedMaxUnits {
			return "", fmt.Errorf("cogl: texture unit %d cannot be sampled by a generated program", n)
		}
		v = fmt.Sprintf("texel%d", n)
		sn.sampled |= 1 << n
	}
	switch op {
	case CombineOpOneMinusSrcColor:
		return "(vec4(1) - " + v + ")", nil
	case CombineOpSrcAlpha:
		return "vec4(" + v + ".a)", nil
	case CombineOpOneMinusSrcAlpha:
		return "vec4(1 - " + v + ".a)", nil
	}
	return v, nil
}

func combineExpr(fn CombineFunc, a [3]string) string {
	switch fn {
	case CombineReplace:
		return a[0]
	case CombineModulate:
		return a[0] + " * " + a[1]
	case CombineAdd:
		return a[0] + " + " + a[1]
	case CombineAddSigned:
		return a[0] + " + " + a[1] + " - vec4(0.5)"
	case CombineSubtract:
		return a[0] + " - " + a[1]
	case CombineInterpolate:
		return "mix(" + a[1] + ", " + a[0] + ", " + a[2] + ")"
	case CombineDot3RGB, CombineDot3RGBA:
		return "vec4(4 * dot((" + a[0] + " - vec4(0.5)).rgb, (" + a[1] + " - vec4(0.5)).rgb))"
	}
	return a[0] + " * " + a[1]
}
