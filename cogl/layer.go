package cogl

import "github.com/go-gl/mathgl/mgl32"

// Layer is one texture combine stage of a material. Layers follow the same
// copy-on-write discipline as materials: a layer only stores the groups in
// its differences mask and reads the rest from its ancestors. A layer is
// owned by at most one material and becomes immutable once it has children
// or is owned by a material other than the one changing it.
type Layer struct {
	ctx *Context

	refCount  int
	parent    *Layer
	nChildren int
	owner     *Material

	// index is the user-visible slot; unitIndex is the texture unit it
	// occupies, kept contiguous and ordered by index.
	index       int
	differences LayerState
	unitIndex   int

	texture           Texture
	textureOverridden bool
	sliceName         uint32
	sliceTarget       TextureTarget

	minFilter, magFilter Filter
	wrapS, wrapT, wrapP  WrapMode

	big *layerBigState

	backendPriv [numBackends]any
}

// CombineState describes how a layer combines its inputs, separately for
// the RGB and alpha channels. Only the first combineFuncArgs(func) sources
// and operands are meaningful.
type CombineState struct {
	RGBFunc   CombineFunc
	RGBSrc    [3]CombineSource
	RGBOp     [3]CombineOp
	AlphaFunc CombineFunc
	AlphaSrc  [3]CombineSource
	AlphaOp   [3]CombineOp
}

type layerBigState struct {
	combine           CombineState
	constant          [4]float32
	matrix            mgl32.Mat4
	pointSpriteCoords bool
}

// defaultCombine modulates the previous color with the texture.
var defaultCombine = CombineState{
	RGBFunc:   CombineModulate,
	RGBSrc:    [3]CombineSource{CombineSourcePrevious, CombineSourceTexture},
	RGBOp:     [3]CombineOp{CombineOpSrcColor, CombineOpSrcColor},
	AlphaFunc: CombineModulate,
	AlphaSrc:  [3]CombineSource{CombineSourcePrevious, CombineSourceTexture},
	AlphaOp:   [3]CombineOp{CombineOpSrcAlpha, CombineOpSrcAlpha},
}

// newDefaultLayers builds the two layer templates new layers derive from:
// one for unit 0 and one for every other unit.
func newDefaultLayers(ctx *Context) (layer0, layerN *Layer) {
	layer0 = &Layer{
		ctx:         ctx,
		refCount:    1,
		differences: LayerAllSparse,
		minFilter:   FilterLinear,
		magFilter:   FilterLinear,
		wrapS:       WrapAutomatic,
		wrapT:       WrapAutomatic,
		wrapP:       WrapAutomatic,
		big: &layerBigState{
			combine: defaultCombine,
			matrix:  mgl32.Ident4(),
		},
	}
	layerN = layer0.Copy()
	if l := layerN.setUnit(nil, 1); l != layerN {
		panic("cogl: default layer was copied while being initialized")
	}
	return layer0, layerN
}

// Copy derives a new unowned layer from l.
func (l *Layer) Copy() *Layer {
	l.Ref()
	l.nChildren++
	return &Layer{
		ctx:      l.ctx,
		refCount: 1,
		parent:   l,
		index:    l.index,
	}
}

// Ref takes a reference on l and returns it.
func (l *Layer) Ref() *Layer {
	l.refCount++
	return l
}

// Unref drops a reference; the layer is freed when none remain.
func (l *Layer) Unref() {
	if l.refCount <= 0 {
		panic("cogl: unref of a freed layer")
	}
	l.refCount--
	if l.refCount == 0 {
		l.free()
	}
}

func (l *Layer) free() {
	for i, priv := range l.backendPriv {
		if priv != nil {
			l.ctx.backends[i].freeLayerPriv(l)
			l.backendPriv[i] = nil
		}
	}
	if p := l.parent; p != nil {
		p.nChildren--
		l.parent = nil
		p.Unref()
	}
}

// Index returns the layer's user-visible slot.
func (l *Layer) Index() int { return l.index }

// UnitIndex returns the texture unit the layer is flushed to.
func (l *Layer) UnitIndex() int { return l.authority(LayerUnit).unitIndex }

// Texture returns the layer's texture, or nil.
func (l *Layer) Texture() Texture { return l.authority(LayerTexture).texture }

// Filters returns the minification and magnification filters.
func (l *Layer) Filters() (min, mag Filter) {
	a := l.authority(LayerFilters)
	return a.minFilter, a.magFilter
}

// WrapModes returns the s, t and p wrap modes.
func (l *Layer) WrapModes() (s, t, p WrapMode) {
	a := l.authority(LayerWrapModes)
	return a.wrapS, a.wrapT, a.wrapP
}

// Combine returns the combine functions and arguments.
func (l *Layer) Combine() CombineState { return l.authority(LayerCombine).big.combine }

// CombineConstant returns the CONSTANT combine source color.
func (l *Layer) CombineConstant() [4]float32 {
	return l.authority(LayerCombineConstant).big.constant
}

// Matrix returns the user texture matrix.
func (l *Layer) Matrix() mgl32.Mat4 { return l.authority(LayerUserMatrix).big.matrix }

// PointSpriteCoords reports whether point sprite coordinates are generated.
func (l *Layer) PointSpriteCoords() bool {
	return l.authority(LayerPointSpriteCoords).big.pointSpriteCoords
}

// Differences returns the groups l overrides relative to its parent.
func (l *Layer) Differences() LayerState { return l.differences }

func (l *Layer) authority(state LayerState) *Layer {
	a := l
	for a.differences&state == 0 {
		a = a.parent
	}
	return a
}

func (l *Layer) initializeState(src *Layer, differences LayerState) {
	l.differences |= differences
	if l == src {
		return
	}
	if differences&LayerUnit != 0 {
		l.unitIndex = src.unitIndex
	}
	if differences&LayerTexture != 0 {
		l.texture = src.texture
		l.textureOverridden = src.textureOverridden
		l.sliceName = src.sliceName
		l.sliceTarget = src.sliceTarget
	}
	if differences&LayerFilters != 0 {
		l.minFilter, l.magFilter = src.minFilter, src.magFilter
	}
	if differences&LayerWrapModes != 0 {
		l.wrapS, l.wrapT, l.wrapP = src.wrapS, src.wrapT, src.wrapP
	}
	if differences&layerNeedsBigState == 0 {
		return
	}
	if l.big == nil {
		l.big = &layerBigState{}
	}
	if differences&LayerCombine != 0 {
		sc, dc := &src.big.combine, &l.big.combine
		dc.RGBFunc = sc.RGBFunc
		for i := 0; i < combineFuncArgs(sc.RGBFunc); i++ {
			dc.RGBSrc[i], dc.RGBOp[i] = sc.RGBSrc[i], sc.RGBOp[i]
		}
		dc.AlphaFunc = sc.AlphaFunc
		for i := 0; i < combineFuncArgs(sc.AlphaFunc); i++ {
			dc.AlphaSrc[i], dc.AlphaOp[i] = sc.AlphaSrc[i], sc.AlphaOp[i]
		}
	}
	if differences&LayerCombineConstant != 0 {
		l.big.constant = src.big.constant
	}
	if differences&LayerUserMatrix != 0 {
		l.big.matrix = src.big.matrix
	}
	if differences&LayerPointSpriteCoords != 0 {
		l.big.pointSpriteCoords = src.big.pointSpriteCoords
	}
}

// preChange prepares l for a change to the given group on behalf of owner.
// If l cannot be modified in place a derived layer owned by owner is
// returned instead; callers must use the returned layer.
func (l *Layer) preChange(owner *Material, change LayerState) *Layer {
	layer := l
	if l.nChildren > 0 || l.owner != nil {
		if owner == nil {
			panic("cogl: changing a shared layer without an owner")
		}
		// Changing a layer changes its owner, which may need a copy on
		// write first. That copy derives new layers from l.
		owner.preChange(StateLayers, nil)

		if l.nChildren > 0 || l.owner != owner {
			layer = l.Copy()
			if l.owner == owner {
				owner.replaceLayerDifference(l, layer)
			} else {
				owner.addLayerDifference(layer, false)
			}
			layer.Unref()
		} else {
			for i, priv := range l.backendPriv {
				if priv != nil {
					l.ctx.backends[i].layerPreChangeNotify(l, change)
				}
			}
			if owner.backend != BackendUndefined && l.backendPriv[owner.backend] == nil {
				l.ctx.backends[owner.backend].layerPreChangeNotify(l, change)
			}
			// l may have been flushed to a unit other than the one it
			// occupies now.
			for _, u := range l.ctx.units {
				if u.layer == l {
					u.layerChangesSinceFlush |= change
				}
			}
		}
	}

	if owner != nil {
		owner.age++
	}
	layer.initializeState(layer.authority(change), change)
	return layer
}

func (l *Layer) pruneRedundantAncestry() {
	np := l.parent
	for np.parent != nil && (np.differences|l.differences) == l.differences {
		np = np.parent
	}
	if np != l.parent {
		old := l.parent
		np.Ref()
		np.nChildren++
		l.parent = np
		old.nChildren--
		old.Unref()
	}
}

// setUnit moves l to a texture unit, returning the layer actually modified.
func (l *Layer) setUnit(owner *Material, unit int) *Layer {
	authority := l.authority(LayerUnit)
	if authority.unitIndex == unit {
		return l
	}
	layer := l.preChange(owner, LayerUnit)
	if layer == l && l == authority && authority.parent != nil {
		if authority.parent.authority(LayerUnit).unitIndex == unit {
			l.differences &^= LayerUnit
			return l
		}
	}
	layer.unitIndex = unit
	if layer != authority {
		layer.differences |= LayerUnit
		layer.pruneRedundantAncestry()
	}
	return layer
}
