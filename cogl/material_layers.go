package cogl

import "github.com/go-gl/mathgl/mgl32"

// updateLayersCache rebuilds the unit-ordered layer array of a layers
// authority. Layer differences are spread over the ancestry; the nearest
// layer found for each unit wins.
func (m *Material) updateLayersCache() {
	if !m.layersCacheDirty || m.nLayers == 0 {
		return
	}
	m.layersCacheDirty = false
	m.layersCache = make([]*Layer, m.nLayers)

	found := 0
	for cur := m; cur.parent != nil; cur = cur.parent {
		if cur.differences&StateLayers == 0 {
			continue
		}
		for _, l := range cur.layerDifferences {
			unit := l.UnitIndex()
			if unit < m.nLayers && m.layersCache[unit] == nil {
				m.layersCache[unit] = l
				found++
				if found == m.nLayers {
					return
				}
			}
		}
	}
	Logger().Warn("cogl: layer cache incomplete", "want", m.nLayers, "found", found)
}

// foreachLayer calls fn for each layer in unit order until fn returns false.
func (m *Material) foreachLayer(fn func(*Layer) bool) {
	authority := m.authority(StateLayers)
	if authority.nLayers == 0 {
		return
	}
	authority.updateLayersCache()
	for _, l := range authority.layersCache {
		if l == nil || !fn(l) {
			return
		}
	}
}

// NLayers returns the number of layers.
func (m *Material) NLayers() int {
	return m.authority(StateLayers).nLayers
}

// Layers returns the layers in texture unit order.
func (m *Material) Layers() []*Layer {
	var layers []*Layer
	m.foreachLayer(func(l *Layer) bool {
		layers = append(layers, l)
		return true
	})
	return layers
}

// Layer returns the layer at index, or nil.
func (m *Material) Layer(index int) *Layer {
	return m.authority(StateLayers).layerInfo(index, true).layer
}

type layerInfo struct {
	layer *Layer
	// insertAfter is the unit of the last layer with a lower index, or -1.
	insertAfter int
	// shift lists layers with a higher index; unsorted.
	shift []*Layer
}

// layerInfo scans a layers authority for the layer at index. With
// stopIfFound the shift list may be incomplete when the layer exists.
func (m *Material) layerInfo(index int, stopIfFound bool) layerInfo {
	info := layerInfo{insertAfter: -1}
	m.foreachLayer(func(l *Layer) bool {
		switch {
		case l.index == index:
			info.layer = l
			if stopIfFound {
				return false
			}
		case l.index < index:
			info.insertAfter = l.UnitIndex()
		default:
			info.shift = append(info.shift, l)
		}
		return true
	})
	return info
}

// getLayer returns the layer at index, creating it if needed. Creating a
// layer shifts every layer with a higher index up one texture unit.
func (m *Material) getLayer(index int) *Layer {
	authority := m.authority(StateLayers)
	info := authority.layerInfo(index, true)
	if info.layer != nil {
		return info.layer
	}

	ctx := m.ctx
	var layer *Layer
	unit := info.insertAfter + 1
	if unit == 0 {
		layer = ctx.defaultLayer0.Copy()
	} else {
		layer = ctx.defaultLayerN.Copy()
		if nl := layer.setUnit(nil, unit); nl != layer {
			panic("cogl: new layer was copied while setting its unit")
		}
	}
	layer.index = index

	for _, l := range info.shift {
		l.setUnit(m, l.UnitIndex()+1)
	}

	m.addLayerDifference(layer, true)
	layer.Unref()
	return layer
}

func (m *Material) addLayerDifference(l *Layer, incNLayers bool) {
	if l.owner != nil {
		panic("cogl: layer already has an owner")
	}
	l.owner = m
	l.Ref()

	m.preChange(StateLayers, nil)
	m.differences |= StateLayers
	m.layerDifferences = append(m.layerDifferences, l)
	if incNLayers {
		m.nLayers++
	}
}

func (m *Material) removeLayerDifference(l *Layer, decNLayers bool) {
	if l.owner != m {
		panic("cogl: removing a layer the material does not own")
	}
	m.preChange(StateLayers, nil)

	l.owner = nil
	m.differences |= StateLayers
	for i, d := range m.layerDifferences {
		if d == l {
			m.layerDifferences = append(m.layerDifferences[:i], m.layerDifferences[i+1:]...)
			break
		}
	}
	if decNLayers {
		m.nLayers--
	}
	l.Unref()
}

// replaceLayerDifference swaps an owned layer for one derived from it.
func (m *Material) replaceLayerDifference(old, l *Layer) {
	m.preChange(StateLayers, nil)
	for i, d := range m.layerDifferences {
		if d == old {
			l.owner = m
			m.layerDifferences[i] = l.Ref()
			old.owner = nil
			old.Unref()
			return
		}
	}
	m.addLayerDifference(l, false)
}

// tryRevertingLayersAuthority drops m's layers authority when it no longer
// owns any layer and its old authority has the same number of layers.
func (m *Material) tryRevertingLayersAuthority(old *Material) {
	if len(m.layerDifferences) != 0 || m.parent == nil {
		return
	}
	if old == nil {
		old = m.parent.authority(StateLayers)
	}
	if old.nLayers == m.nLayers {
		m.differences &^= StateLayers
	}
}

// pruneEmptyLayerDifference drops a layer that no longer differs from its
// parent from authority's layer list.
func (m *Material) pruneEmptyLayerDifference(layer *Layer) {
	pos := -1
	for i, d := range m.layerDifferences {
		if d == layer {
			pos = i
			break
		}
	}
	if pos < 0 {
		return
	}

	ctx := m.ctx
	parent := layer.parent
	if parent.index == layer.index && parent.owner == nil &&
		parent != ctx.defaultLayer0 && parent != ctx.defaultLayerN {
		parent.Ref()
		parent.owner = m
		m.layerDifferences[pos] = parent
		layer.owner = nil
		layer.Unref()
		m.freeLayerCachesRecursive()
		return
	}

	oldAuthority := m.parent.authority(StateLayers)
	info := oldAuthority.layerInfo(layer.index, true)
	if info.layer == nil {
		return
	}
	if info.layer == layer.parent {
		m.removeLayerDifference(layer, false)
		m.tryRevertingLayersAuthority(oldAuthority)
	}
}

// RemoveLayer removes the layer at index. Layers with a higher index move
// down one texture unit. Removing a missing layer does nothing.
func (m *Material) RemoveLayer(index int) {
	authority := m.authority(StateLayers)
	info := authority.layerInfo(index, false)
	if info.layer == nil {
		return
	}
	for _, l := range info.shift {
		l.setUnit(m, l.UnitIndex()-1)
	}

	if info.layer.owner == m {
		m.removeLayerDifference(info.layer, true)
	} else {
		// The layer lives on an ancestor. With the higher layers shifted
		// into m, dropping the last unit hides it.
		m.preChange(StateLayers, nil)
		m.differences |= StateLayers
		m.nLayers--
	}
	m.tryRevertingLayersAuthority(nil)
	m.handleAutomaticBlendEnable()
}

// PruneToNLayers keeps the first n layers in unit order and drops the rest.
func (m *Material) PruneToNLayers(n int) {
	if n < 0 {
		n = 0
	}
	pos := 0
	needsPruning := false
	firstIndexToPrune := 0
	m.foreachLayer(func(l *Layer) bool {
		if pos == n {
			needsPruning = true
			firstIndexToPrune = l.index
			return false
		}
		pos++
		return true
	})
	if !needsPruning {
		return
	}

	m.preChange(StateLayers, nil)
	m.differences |= StateLayers
	m.nLayers = n

	kept := m.layerDifferences[:0]
	for _, l := range m.layerDifferences {
		if l.index >= firstIndexToPrune {
			l.owner = nil
			l.Unref()
			continue
		}
		kept = append(kept, l)
	}
	for i := len(kept); i < len(m.layerDifferences); i++ {
		m.layerDifferences[i] = nil
	}
	m.layerDifferences = kept
	m.handleAutomaticBlendEnable()
}

// setLayerState runs the mutator protocol for one layer state group.
func (m *Material) setLayerState(index int, change LayerState,
	same func(authority *Layer) bool,
	apply func(l *Layer),
) {
	layer := m.getLayer(index)
	authority := layer.authority(change)
	if !same(authority) {
		m.changeLayer(layer, authority, change, same, apply)
	}
	if change&(LayerTexture|LayerCombine) != 0 {
		m.handleAutomaticBlendEnable()
	}
}

func (m *Material) changeLayer(layer, authority *Layer, change LayerState,
	same func(*Layer) bool, apply func(*Layer),
) {
	nl := layer.preChange(m, change)
	if nl == layer && layer == authority && authority.parent != nil {
		if same(authority.parent.authority(change)) {
			layer.differences &^= change
			if layer.differences == 0 {
				m.pruneEmptyLayerDifference(layer)
			}
			return
		}
	}
	layer = nl
	apply(layer)
	if layer != authority {
		layer.differences |= change
		layer.pruneRedundantAncestry()
	}
}

// --- Layer setters ---

// SetLayerTexture sets the texture sampled by the layer at index, creating
// the layer if needed. A nil texture samples the context's default texture.
func (m *Material) SetLayerTexture(index int, tex Texture) {
	m.setLayerTextureData(index, tex, false, 0, 0)
}

func (m *Material) setLayerTextureData(index int, tex Texture, overridden bool, slice uint32, target TextureTarget) {
	m.setLayerState(index, LayerTexture,
		func(a *Layer) bool {
			return a.texture == tex && a.textureOverridden == overridden &&
				(!overridden || (a.sliceName == slice && a.sliceTarget == target))
		},
		func(l *Layer) {
			l.texture = tex
			l.textureOverridden = overridden
			l.sliceName = slice
			l.sliceTarget = target
		})
}

// SetLayerFilters sets the minification and magnification filters.
func (m *Material) SetLayerFilters(index int, min, mag Filter) {
	m.setLayerState(index, LayerFilters,
		func(a *Layer) bool { return a.minFilter == min && a.magFilter == mag },
		func(l *Layer) { l.minFilter, l.magFilter = min, mag })
}

func (m *Material) setLayerWrapModes(index int, s, t, p WrapMode) {
	m.setLayerState(index, LayerWrapModes,
		func(a *Layer) bool { return a.wrapS == s && a.wrapT == t && a.wrapP == p },
		func(l *Layer) { l.wrapS, l.wrapT, l.wrapP = s, t, p })
}

// SetLayerWrapModeS sets the wrap mode of the s coordinate.
func (m *Material) SetLayerWrapModeS(index int, mode WrapMode) {
	_, t, p := m.getLayer(index).WrapModes()
	m.setLayerWrapModes(index, mode, t, p)
}

// SetLayerWrapModeT sets the wrap mode of the t coordinate.
func (m *Material) SetLayerWrapModeT(index int, mode WrapMode) {
	s, _, p := m.getLayer(index).WrapModes()
	m.setLayerWrapModes(index, s, mode, p)
}

// SetLayerWrapModeP sets the wrap mode of the p coordinate.
func (m *Material) SetLayerWrapModeP(index int, mode WrapMode) {
	s, t, _ := m.getLayer(index).WrapModes()
	m.setLayerWrapModes(index, s, t, mode)
}

// SetLayerWrapMode sets the wrap mode of all three coordinates.
func (m *Material) SetLayerWrapMode(index int, mode WrapMode) {
	m.setLayerWrapModes(index, mode, mode, mode)
}

// SetLayerCombineState sets the combine functions and arguments directly.
func (m *Material) SetLayerCombineState(index int, c CombineState) {
	c = normalizeCombine(c)
	m.setLayerState(index, LayerCombine,
		func(a *Layer) bool { return combineEqual(&a.big.combine, &c) },
		func(l *Layer) { l.big.combine = c })
}

// SetLayerCombineConstant sets the color read by the CONSTANT source.
func (m *Material) SetLayerCombineConstant(index int, c Color) {
	f := c.Floats()
	m.setLayerState(index, LayerCombineConstant,
		func(a *Layer) bool { return a.big.constant == f },
		func(l *Layer) { l.big.constant = f })
}

// SetLayerMatrix sets the texture coordinate transform of the layer.
func (m *Material) SetLayerMatrix(index int, mat mgl32.Mat4) {
	m.setLayerState(index, LayerUserMatrix,
		func(a *Layer) bool { return a.big.matrix == mat },
		func(l *Layer) { l.big.matrix = mat })
}

// SetLayerPointSpriteCoords enables generated texture coordinates for point
// sprites. It fails when the driver cannot generate them.
func (m *Material) SetLayerPointSpriteCoords(index int, enable bool) error {
	if enable && !m.ctx.driver.HasFeature(FeaturePointSprite) {
		return ErrPointSpriteUnsupported
	}
	m.setLayerState(index, LayerPointSpriteCoords,
		func(a *Layer) bool { return a.big.pointSpriteCoords == enable },
		func(l *Layer) { l.big.pointSpriteCoords = enable })
	return nil
}

// normalizeCombine clears the unused arguments so whole values compare.
func normalizeCombine(c CombineState) CombineState {
	for i := combineFuncArgs(c.RGBFunc); i < 3; i++ {
		c.RGBSrc[i], c.RGBOp[i] = 0, 0
	}
	for i := combineFuncArgs(c.AlphaFunc); i < 3; i++ {
		c.AlphaSrc[i], c.AlphaOp[i] = 0, 0
	}
	return c
}
