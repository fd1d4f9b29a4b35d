package cogl

import (
	"fmt"
	"strings"
)

// MaterialState is a bitmask naming groups of material state. A material's
// differences mask says which groups it overrides relative to its parent.
type MaterialState uint32

const (
	StateColor MaterialState = 1 << iota
	StateBlendEnable
	StateLayers
	StateLighting
	StateAlphaFunc
	StateBlend
	StateUserShader
	StateDepth
	StateFog
	StatePointSize

	// StateRealBlendEnable is not sparse: every material carries a valid
	// value. It only appears in difference masks produced by Compare.
	StateRealBlendEnable
)

const (
	// StateAllSparse covers every group tracked through the differences mask.
	StateAllSparse = StateColor | StateBlendEnable | StateLayers | StateLighting |
		StateAlphaFunc | StateBlend | StateUserShader | StateDepth | StateFog |
		StatePointSize

	// StateAffectsBlending lists the groups that can flip the derived
	// blend-enable flag.
	StateAffectsBlending = StateColor | StateBlendEnable | StateLayers |
		StateLighting | StateBlend | StateUserShader

	stateNeedsBigState = StateLighting | StateAlphaFunc | StateBlend |
		StateUserShader | StateDepth | StateFog | StatePointSize
)

var materialStateNames = [...]string{
	"color", "blend-enable", "layers", "lighting", "alpha-func", "blend",
	"user-shader", "depth", "fog", "point-size", "real-blend-enable",
}

func (s MaterialState) String() string {
	return maskString(uint32(s), materialStateNames[:])
}

// LayerState is a bitmask naming groups of layer state.
type LayerState uint32

const (
	LayerUnit LayerState = 1 << iota
	LayerTexture
	LayerFilters
	LayerWrapModes
	LayerCombine
	LayerCombineConstant
	LayerUserMatrix
	LayerPointSpriteCoords
)

const (
	LayerAllSparse = LayerUnit | LayerTexture | LayerFilters | LayerWrapModes |
		LayerCombine | LayerCombineConstant | LayerUserMatrix |
		LayerPointSpriteCoords

	layerNeedsBigState = LayerCombine | LayerCombineConstant | LayerUserMatrix |
		LayerPointSpriteCoords
)

var layerStateNames = [...]string{
	"unit", "texture", "filters", "wrap-modes", "combine", "combine-constant",
	"user-matrix", "point-sprite-coords",
}

func (s LayerState) String() string {
	return maskString(uint32(s), layerStateNames[:])
}

func maskString(mask uint32, names []string) string {
	if mask == 0 {
		return "none"
	}
	var parts []string
	for i, name := range names {
		if mask&(1<<i) != 0 {
			parts = append(parts, name)
			mask &^= 1 << i
		}
	}
	if mask != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", mask))
	}
	return strings.Join(parts, "|")
}

// BlendEnable is the user-facing tri-state controlling blending.
type BlendEnable uint8

const (
	BlendAutomatic BlendEnable = iota
	BlendEnabled
	BlendDisabled
)

// Filter is a texture minification or magnification filter.
type Filter uint8

const (
	FilterNearest Filter = iota
	FilterLinear
	FilterNearestMipmapNearest
	FilterLinearMipmapNearest
	FilterNearestMipmapLinear
	FilterLinearMipmapLinear
)

var filterNames = [...]string{
	"nearest", "linear", "nearest-mipmap-nearest", "linear-mipmap-nearest",
	"nearest-mipmap-linear", "linear-mipmap-linear",
}

func (f Filter) String() string {
	if int(f) < len(filterNames) {
		return filterNames[f]
	}
	return fmt.Sprintf("Filter(%d)", f)
}

// WrapMode controls texture coordinate wrapping. WrapAutomatic lets the
// primitive decide; the flush engine maps it to WrapClampToEdge.
type WrapMode uint8

const (
	WrapRepeat WrapMode = iota
	WrapClampToEdge
	WrapAutomatic
)

var wrapNames = [...]string{"repeat", "clamp-to-edge", "automatic"}

func (w WrapMode) String() string {
	if int(w) < len(wrapNames) {
		return wrapNames[w]
	}
	return fmt.Sprintf("WrapMode(%d)", w)
}

// glWrap is the wrap mode actually sent to the driver.
func (w WrapMode) glWrap() WrapMode {
	if w == WrapAutomatic {
		return WrapClampToEdge
	}
	return w
}

// CombineFunc is a texture combine function.
type CombineFunc uint8

const (
	CombineReplace CombineFunc = iota
	CombineModulate
	CombineAdd
	CombineAddSigned
	CombineInterpolate
	CombineSubtract
	CombineDot3RGB
	CombineDot3RGBA
)

var combineFuncNames = [...]string{
	"REPLACE", "MODULATE", "ADD", "ADD_SIGNED", "INTERPOLATE", "SUBTRACT",
	"DOT3_RGB", "DOT3_RGBA",
}

func (f CombineFunc) String() string {
	if int(f) < len(combineFuncNames) {
		return combineFuncNames[f]
	}
	return fmt.Sprintf("CombineFunc(%d)", f)
}

// combineFuncArgs returns how many arguments the function consumes.
func combineFuncArgs(f CombineFunc) int {
	switch f {
	case CombineReplace:
		return 1
	case CombineInterpolate:
		return 3
	default:
		return 2
	}
}

// CombineSource is where a combine argument reads its color from.
// Values at or above CombineSourceTexture0 name an explicit texture unit.
type CombineSource uint8

const (
	CombineSourceTexture CombineSource = iota
	CombineSourceConstant
	CombineSourcePrimaryColor
	CombineSourcePrevious
	CombineSourceTexture0
)

// CombineSourceTextureN returns the source reading from texture unit n.
func CombineSourceTextureN(n int) CombineSource {
	return CombineSourceTexture0 + CombineSource(n)
}

func (s CombineSource) String() string {
	switch s {
	case CombineSourceTexture:
		return "TEXTURE"
	case CombineSourceConstant:
		return "CONSTANT"
	case CombineSourcePrimaryColor:
		return "PRIMARY"
	case CombineSourcePrevious:
		return "PREVIOUS"
	}
	return fmt.Sprintf("TEXTURE_%d", s-CombineSourceTexture0)
}

// CombineOp selects which channels of a source feed a combine argument.
type CombineOp uint8

const (
	CombineOpSrcColor CombineOp = iota
	CombineOpOneMinusSrcColor
	CombineOpSrcAlpha
	CombineOpOneMinusSrcAlpha
)

var combineOpNames = [...]string{
	"SRC_COLOR", "ONE_MINUS_SRC_COLOR", "SRC_ALPHA", "ONE_MINUS_SRC_ALPHA",
}

func (o CombineOp) String() string {
	if int(o) < len(combineOpNames) {
		return combineOpNames[o]
	}
	return fmt.Sprintf("CombineOp(%d)", o)
}

// BlendEquation combines the weighted source and destination.
type BlendEquation uint8

const (
	BlendEquationAdd BlendEquation = iota
	BlendEquationSubtract
	BlendEquationReverseSubtract
)

var blendEquationNames = [...]string{"ADD", "SUBTRACT", "REVERSE_SUBTRACT"}

func (e BlendEquation) String() string {
	if int(e) < len(blendEquationNames) {
		return blendEquationNames[e]
	}
	return fmt.Sprintf("BlendEquation(%d)", e)
}

// BlendFactor weights one side of the blend equation.
type BlendFactor uint8

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcColor
	BlendOneMinusSrcColor
	BlendDstColor
	BlendOneMinusDstColor
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstAlpha
	BlendOneMinusDstAlpha
	BlendConstantColor
	BlendOneMinusConstantColor
	BlendConstantAlpha
	BlendOneMinusConstantAlpha
	BlendSrcAlphaSaturate
)

var blendFactorNames = [...]string{
	"ZERO", "ONE", "SRC_COLOR", "ONE_MINUS_SRC_COLOR", "DST_COLOR",
	"ONE_MINUS_DST_COLOR", "SRC_ALPHA", "ONE_MINUS_SRC_ALPHA", "DST_ALPHA",
	"ONE_MINUS_DST_ALPHA", "CONSTANT_COLOR", "ONE_MINUS_CONSTANT_COLOR",
	"CONSTANT_ALPHA", "ONE_MINUS_CONSTANT_ALPHA", "SRC_ALPHA_SATURATE",
}

func (f BlendFactor) String() string {
	if int(f) < len(blendFactorNames) {
		return blendFactorNames[f]
	}
	return fmt.Sprintf("BlendFactor(%d)", f)
}

func (f BlendFactor) usesConstant() bool {
	switch f {
	case BlendConstantColor, BlendOneMinusConstantColor,
		BlendConstantAlpha, BlendOneMinusConstantAlpha:
		return true
	}
	return false
}

// CompareFunc is used by both the alpha test and the depth test.
type CompareFunc uint8

const (
	CompareNever CompareFunc = iota
	CompareLess
	CompareEqual
	CompareLequal
	CompareGreater
	CompareNotEqual
	CompareGequal
	CompareAlways
)

var compareNames = [...]string{
	"NEVER", "LESS", "EQUAL", "LEQUAL", "GREATER", "NOTEQUAL", "GEQUAL", "ALWAYS",
}

func (c CompareFunc) String() string {
	if int(c) < len(compareNames) {
		return compareNames[c]
	}
	return fmt.Sprintf("CompareFunc(%d)", c)
}

// FogMode selects the fog density curve.
type FogMode uint8

const (
	FogLinear FogMode = iota
	FogExponential
	FogExponentialSquared
)

// TextureTarget is the binding target of a texture object.
type TextureTarget uint8

const (
	Target2D TextureTarget = iota
	TargetRectangle
	// TargetNone marks a texture unit with no target enabled.
	TargetNone TextureTarget = 0xff
)

func (t TextureTarget) String() string {
	switch t {
	case Target2D:
		return "2D"
	case TargetRectangle:
		return "RECT"
	case TargetNone:
		return "NONE"
	}
	return fmt.Sprintf("TextureTarget(%d)", t)
}

// Backend identifies a fragment processing strategy. Lower values are tried
// first.
type Backend uint8

const (
	BackendProgram Backend = iota
	BackendGenerated
	BackendFixed
	BackendUndefined

	numBackends = int(BackendUndefined)
	// BackendDefault is where backend selection starts for a new material.
	BackendDefault = BackendProgram
)

var backendNames = [...]string{"program", "generated", "fixed", "undefined"}

func (b Backend) String() string {
	if int(b) < len(backendNames) {
		return backendNames[b]
	}
	return fmt.Sprintf("Backend(%d)", b)
}
