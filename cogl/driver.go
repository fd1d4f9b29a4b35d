package cogl

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Driver is the GPU state machine the flush engine programs. Calls are
// synchronous and stateful in the GL sense: texture calls apply to the
// active unit, draw calls use whatever state was last set.
//
// The flush engine only issues calls that change state, so a Driver never
// needs to filter redundant calls itself.
type Driver interface {
	// HasFeature reports an optional capability.
	HasFeature(f Feature) bool
	// MaxTextureUnits is the number of fixed-function combine stages.
	MaxTextureUnits() int
	// MaxTextureImageUnits is the number of textures a program can sample.
	MaxTextureImageUnits() int
	// MaxActivateableTextureUnits bounds how many units can be bound at once.
	MaxActivateableTextureUnits() int

	Color(c Color)
	Material(l LightingState)
	BlendConstant(c Color)
	BlendEquation(rgb, alpha BlendEquation)
	BlendFunc(srcRGB, dstRGB, srcAlpha, dstAlpha BlendFactor)
	AlphaFunc(fn CompareFunc, reference float32)
	Enable(c Capability)
	Disable(c Capability)
	DepthFunc(fn CompareFunc)
	DepthMask(write bool)
	DepthRange(near, far float32)
	PointSize(size float32)
	Fog(f FogState)

	ActiveTexture(unit int)
	BindTexture(target TextureTarget, name uint32)
	EnableTarget(target TextureTarget)
	DisableTarget(target TextureTarget)
	TextureMatrix(m mgl32.Mat4)
	PointSpriteCoords(enable bool)
	TexEnvCombine(c CombineState)
	TexEnvConstant(c [4]float32)

	// CreateTexture allocates a texture object from RGBA8 pixels, which
	// may be nil for uninitialized storage.
	CreateTexture(target TextureTarget, width, height int, pixels []byte) uint32
	DeleteTexture(name uint32)
	TextureFilters(target TextureTarget, name uint32, min, mag Filter)
	TextureWrap(target TextureTarget, name uint32, s, t, p WrapMode)

	CompileProgram(lang ProgramLanguage, source string) (uint32, error)
	UseProgram(handle uint32)
	SetUniform(handle uint32, name string, index int, value [4]float32)
	DeleteProgram(handle uint32)

	DrawTriangles(vertices []Vertex, indices []uint32)
}

// Feature names an optional driver capability.
type Feature uint32

const (
	// FeatureShaders allows generated fragment programs.
	FeatureShaders Feature = 1 << iota
	// FeatureUserShaders allows user supplied fragment programs.
	FeatureUserShaders
	FeatureBlendConstant
	FeatureBlendEquationSeparate
	FeaturePointSprite
	FeatureTextureRectangle
)

var featureNames = [...]string{
	"shaders", "user-shaders", "blend-constant", "blend-equation-separate",
	"point-sprite", "texture-rectangle",
}

func (f Feature) String() string {
	return maskString(uint32(f), featureNames[:])
}

// Capability is a server-side toggle.
type Capability uint8

const (
	CapBlend Capability = iota
	CapDepthTest
	CapFog
)

func (c Capability) String() string {
	switch c {
	case CapBlend:
		return "BLEND"
	case CapDepthTest:
		return "DEPTH_TEST"
	case CapFog:
		return "FOG"
	}
	return fmt.Sprintf("Capability(%d)", c)
}

// ProgramLanguage identifies the source language of a fragment program.
type ProgramLanguage uint8

const (
	// LanguageKage is Ebitengine's shading language.
	LanguageKage ProgramLanguage = iota
)

func (l ProgramLanguage) String() string {
	if l == LanguageKage {
		return "kage"
	}
	return fmt.Sprintf("ProgramLanguage(%d)", l)
}

// Vertex is one corner of a logged primitive. Every enabled unit samples
// the same texture coordinates.
type Vertex struct {
	DstX, DstY float32
	SrcX, SrcY float32
	R, G, B, A float32
}
