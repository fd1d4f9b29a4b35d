package cogl

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// ebitenImageUnits is the number of source images a Kage shader receives.
const ebitenImageUnits = len(ebiten.DrawTrianglesShaderOptions{}.Images)

type ebitenTexture struct {
	img  *ebiten.Image
	min  Filter
	mag  Filter
	wrap WrapMode
}

type ebitenProgram struct {
	shader   *ebiten.Shader
	uniforms map[string]any
}

type ebitenUnit struct {
	target  TextureTarget
	name    uint32
	matrix  mgl32.Mat4
	enabled bool
}

// EbitenDriver maps flushed state onto Ebitengine draw calls. Everything
// Ebitengine has no equivalent for (lighting, fog, depth, alpha test) is
// accepted and ignored. Combine stages beyond the default modulate need the
// generated backend, so only one fixed-function unit is reported.
type EbitenDriver struct {
	target *ebiten.Image
	white  *ebiten.Image

	textures map[uint32]*ebitenTexture
	programs map[uint32]*ebitenProgram
	nextName uint32

	units   [ebitenImageUnits]ebitenUnit
	active  int
	program uint32

	blendEnabled bool
	blend        ebiten.Blend

	triOp    ebiten.DrawTrianglesOptions
	shaderOp ebiten.DrawTrianglesShaderOptions
	verts    []ebiten.Vertex
}

// NewEbitenDriver returns a driver drawing onto target.
func NewEbitenDriver(target *ebiten.Image) *EbitenDriver {
	d := &EbitenDriver{
		target:   target,
		textures: make(map[uint32]*ebitenTexture),
		programs: make(map[uint32]*ebitenProgram),
		blend:    ebiten.BlendSourceOver,
	}
	d.white = ebiten.NewImage(1, 1)
	d.white.Fill(color.White)
	for i := range d.units {
		d.units[i].matrix = mgl32.Ident4()
		d.units[i].target = TargetNone
	}
	return d
}

// SetTarget changes the image subsequent draws render into.
func (d *EbitenDriver) SetTarget(target *ebiten.Image) { d.target = target }

// Image returns the image behind a texture name, or nil.
func (d *EbitenDriver) Image(name uint32) *ebiten.Image {
	if t, ok := d.textures[name]; ok {
		return t.img
	}
	return nil
}

func (d *EbitenDriver) HasFeature(f Feature) bool {
	const supported = FeatureShaders | FeatureUserShaders | FeatureBlendEquationSeparate
	return supported&f == f
}

func (d *EbitenDriver) MaxTextureUnits() int { return 1 }

func (d *EbitenDriver) MaxTextureImageUnits() int { return ebitenImageUnits }

func (d *EbitenDriver) MaxActivateableTextureUnits() int { return ebitenImageUnits }

// Color is ignored; vertices carry their own color.
func (d *EbitenDriver) Color(c Color) {}

func (d *EbitenDriver) Material(l LightingState) {}

func (d *EbitenDriver) BlendConstant(c Color) {}

func (d *EbitenDriver) BlendEquation(rgb, alpha BlendEquation) {
	d.blend.BlendOperationRGB = ebitenBlendOperation(rgb)
	d.blend.BlendOperationAlpha = ebitenBlendOperation(alpha)
}

func (d *EbitenDriver) BlendFunc(srcRGB, dstRGB, srcAlpha, dstAlpha BlendFactor) {
	d.blend.BlendFactorSourceRGB = ebitenBlendFactor(srcRGB)
	d.blend.BlendFactorDestinationRGB = ebitenBlendFactor(dstRGB)
	d.blend.BlendFactorSourceAlpha = ebitenBlendFactor(srcAlpha)
	d.blend.BlendFactorDestinationAlpha = ebitenBlendFactor(dstAlpha)
}

func (d *EbitenDriver) AlphaFunc(fn CompareFunc, reference float32) {}

func (d *EbitenDriver) Enable(c Capability) {
	if c == CapBlend {
		d.blendEnabled = true
	}
}

func (d *EbitenDriver) Disable(c Capability) {
	if c == CapBlend {
		d.blendEnabled = false
	}
}

func (d *EbitenDriver) DepthFunc(fn CompareFunc) {}

func (d *EbitenDriver) DepthMask(write bool) {}

func (d *EbitenDriver) DepthRange(near, far float32) {}

func (d *EbitenDriver) PointSize(size float32) {}

func (d *EbitenDriver) Fog(f FogState) {}

func (d *EbitenDriver) ActiveTexture(unit int) { d.active = unit }

func (d *EbitenDriver) unit() *ebitenUnit {
	if d.active < len(d.units) {
		return &d.units[d.active]
	}
	return nil
}

func (d *EbitenDriver) BindTexture(target TextureTarget, name uint32) {
	if u := d.unit(); u != nil {
		u.name = name
	}
}

func (d *EbitenDriver) EnableTarget(target TextureTarget) {
	if u := d.unit(); u != nil {
		u.enabled, u.target = true, target
	}
}

func (d *EbitenDriver) DisableTarget(target TextureTarget) {
	if u := d.unit(); u != nil {
		u.enabled, u.target = false, TargetNone
	}
}

func (d *EbitenDriver) TextureMatrix(m mgl32.Mat4) {
	if u := d.unit(); u != nil {
		u.matrix = m
	}
}

func (d *EbitenDriver) PointSpriteCoords(enable bool) {}

// TexEnvCombine is ignored: vertex color modulating the texture is the only
// combine Ebitengine performs without a shader.
func (d *EbitenDriver) TexEnvCombine(c CombineState) {}

func (d *EbitenDriver) TexEnvConstant(c [4]float32) {}

func (d *EbitenDriver) CreateTexture(target TextureTarget, width, height int, pixels []byte) uint32 {
	img := ebiten.NewImage(width, height)
	if pixels != nil {
		img.WritePixels(pixels)
	}
	d.nextName++
	d.textures[d.nextName] = &ebitenTexture{img: img, min: FilterLinear, mag: FilterLinear, wrap: WrapRepeat}
	return d.nextName
}

func (d *EbitenDriver) DeleteTexture(name uint32) {
	if t, ok := d.textures[name]; ok {
		t.img.Deallocate()
		delete(d.textures, name)
	}
}

func (d *EbitenDriver) TextureFilters(target TextureTarget, name uint32, min, mag Filter) {
	if t, ok := d.textures[name]; ok {
		t.min, t.mag = min, mag
	}
}

func (d *EbitenDriver) TextureWrap(target TextureTarget, name uint32, s, t, p WrapMode) {
	if tex, ok := d.textures[name]; ok {
		// Ebitengine has a single address mode for both axes.
		tex.wrap = s
	}
}

func (d *EbitenDriver) CompileProgram(lang ProgramLanguage, source string) (uint32, error) {
	if lang != LanguageKage {
		return 0, fmt.Errorf("cogl: ebiten driver cannot compile %v programs", lang)
	}
	s, err := ebiten.NewShader([]byte(source))
	if err != nil {
		return 0, err
	}
	d.nextName++
	d.programs[d.nextName] = &ebitenProgram{shader: s, uniforms: make(map[string]any)}
	return d.nextName, nil
}

func (d *EbitenDriver) UseProgram(handle uint32) { d.program = handle }

// SetUniform stores value as element index of a vec4 array uniform.
func (d *EbitenDriver) SetUniform(handle uint32, name string, index int, value [4]float32) {
	p, ok := d.programs[handle]
	if !ok {
		return
	}
	arr, _ := p.uniforms[name].([]float32)
	if need := (index + 1) * 4; len(arr) < need {
		arr = append(arr, make([]float32, need-len(arr))...)
	}
	copy(arr[index*4:], value[:])
	p.uniforms[name] = arr
}

func (d *EbitenDriver) DeleteProgram(handle uint32) {
	if p, ok := d.programs[handle]; ok {
		p.shader.Deallocate()
		delete(d.programs, handle)
	}
}

// DrawTriangles draws with the current program if one is in use, else with
// unit 0's texture modulated by the vertex colors.
func (d *EbitenDriver) DrawTriangles(vertices []Vertex, indices []uint32) {
	if d.target == nil || len(vertices) == 0 {
		return
	}

	src, tex := d.white, (*ebitenTexture)(nil)
	if u := &d.units[0]; u.enabled {
		if t, ok := d.textures[u.name]; ok {
			src, tex = t.img, t
		}
	}
	d.convertVertices(vertices, src, &d.units[0].matrix)

	blend := ebiten.BlendCopy
	if d.blendEnabled {
		blend = d.blend
	}

	if p, ok := d.programs[d.program]; ok && d.program != 0 {
		op := &d.shaderOp
		op.Blend = blend
		op.Uniforms = p.uniforms
		for i := range op.Images {
			op.Images[i] = nil
			u := &d.units[i]
			if t, ok := d.textures[u.name]; ok && u.enabled {
				op.Images[i] = t.img
			}
		}
		if op.Images[0] == nil {
			op.Images[0] = d.white
		}
		d.target.DrawTrianglesShader32(d.verts, indices, p.shader, op)
		return
	}

	op := &d.triOp
	op.Blend = blend
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	op.Filter = ebiten.FilterNearest
	op.Address = ebiten.AddressUnsafe
	if tex != nil {
		if tex.mag != FilterNearest {
			op.Filter = ebiten.FilterLinear
		}
		if tex.wrap == WrapRepeat {
			op.Address = ebiten.AddressRepeat
		}
	}
	d.target.DrawTriangles32(d.verts, indices, src, op)
}

// convertVertices scales normalized texture coordinates to the source
// image's pixels after applying the unit's texture matrix.
func (d *EbitenDriver) convertVertices(vertices []Vertex, src *ebiten.Image, m *mgl32.Mat4) {
	b := src.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	ident := *m == mgl32.Ident4()

	d.verts = d.verts[:0]
	for _, v := range vertices {
		s, t := v.SrcX, v.SrcY
		if !ident {
			p := m.Mul4x1(mgl32.Vec4{s, t, 0, 1})
			s, t = p.X(), p.Y()
		}
		d.verts = append(d.verts, ebiten.Vertex{
			DstX:   v.DstX,
			DstY:   v.DstY,
			SrcX:   s * w,
			SrcY:   t * h,
			ColorR: v.R,
			ColorG: v.G,
			ColorB: v.B,
			ColorA: v.A,
		})
	}
}

func ebitenBlendOperation(e BlendEquation) ebiten.BlendOperation {
	switch e {
	case BlendEquationSubtract:
		return ebiten.BlendOperationSubtract
	case BlendEquationReverseSubtract:
		return ebiten.BlendOperationReverseSubtract
	}
	return ebiten.BlendOperationAdd
}

// ebitenBlendFactor maps a blend factor. Constant factors have no
// Ebitengine equivalent and degrade to ONE, as does SRC_ALPHA_SATURATE.
func ebitenBlendFactor(f BlendFactor) ebiten.BlendFactor {
	switch f {
	case BlendZero:
		return ebiten.BlendFactorZero
	case BlendSrcColor:
		return ebiten.BlendFactorSourceColor
	case BlendOneMinusSrcColor:
		return ebiten.BlendFactorOneMinusSourceColor
	case BlendDstColor:
		return ebiten.BlendFactorDestinationColor
	case BlendOneMinusDstColor:
		return ebiten.BlendFactorOneMinusDestinationColor
	case BlendSrcAlpha:
		return ebiten.BlendFactorSourceAlpha
	case BlendOneMinusSrcAlpha:
		return ebiten.BlendFactorOneMinusSourceAlpha
	case BlendDstAlpha:
		return ebiten.BlendFactorDestinationAlpha
	case BlendOneMinusDstAlpha:
		return ebiten.BlendFactorOneMinusDestinationAlpha
	}
	return ebiten.BlendFactorOne
}
