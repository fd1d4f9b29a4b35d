package cogl

// Compare returns the state groups that may differ between two materials.
// It walks both ancestries from the shared root, finds where they diverge
// and ORs every differences mask below that point. The result may include
// groups whose values happen to match but never misses a real difference.
func Compare(m0, m1 *Material) MaterialState {
	if m0 == m1 {
		return 0
	}
	chain0 := materialAncestry(m0)
	chain1 := materialAncestry(m1)

	i := 0
	for i < len(chain0) && i < len(chain1) && chain0[i] == chain1[i] {
		i++
	}
	var diff MaterialState
	for _, n := range chain0[i:] {
		diff |= n.differences
	}
	for _, n := range chain1[i:] {
		diff |= n.differences
	}
	return diff
}

// materialAncestry lists m and its ancestors, root first.
func materialAncestry(m *Material) []*Material {
	n := 0
	for p := m; p != nil; p = p.parent {
		n++
	}
	chain := make([]*Material, n)
	for p := m; p != nil; p = p.parent {
		n--
		chain[n] = p
	}
	return chain
}

// CompareLayers is Compare for layers.
func CompareLayers(l0, l1 *Layer) LayerState {
	if l0 == l1 {
		return 0
	}
	chain0 := layerAncestry(l0)
	chain1 := layerAncestry(l1)
	i := 0
	for i < len(chain0) && i < len(chain1) && chain0[i] == chain1[i] {
		i++
	}
	var diff LayerState
	for _, n := range chain0[i:] {
		diff |= n.differences
	}
	for _, n := range chain1[i:] {
		diff |= n.differences
	}
	return diff
}

func layerAncestry(l *Layer) []*Layer {
	n := 0
	for p := l; p != nil; p = p.parent {
		n++
	}
	chain := make([]*Layer, n)
	for p := l; p != nil; p = p.parent {
		n--
		chain[n] = p
	}
	return chain
}

// Equal reports whether flushing m or o produces the same GPU state.
func (m *Material) Equal(o *Material) bool {
	return materialsEqual(m, o, false)
}

// materialsEqual compares only the groups Compare flags. With skipColor the
// material color is ignored, as when color is supplied per vertex.
func materialsEqual(m0, m1 *Material, skipColor bool) bool {
	if m0 == m1 {
		return true
	}
	if m0.realBlendEnable != m1.realBlendEnable {
		return false
	}
	diff := Compare(m0, m1)

	check := func(state MaterialState, equal func(a, b *Material) bool) bool {
		if diff&state == 0 {
			return true
		}
		return equal(m0.authority(state), m1.authority(state))
	}

	if !skipColor && !check(StateColor, colorEqual) {
		return false
	}
	if !check(StateLighting, lightingEqual) ||
		!check(StateAlphaFunc, alphaStateEqual) {
		return false
	}
	// Detailed blend state only matters while blending is on.
	if m0.realBlendEnable && !check(StateBlend, blendStateEqual) {
		return false
	}
	return check(StateUserShader, userShaderEqual) &&
		check(StateDepth, depthStateEqual) &&
		check(StateFog, fogStateEqual) &&
		check(StatePointSize, pointSizeEqual) &&
		check(StateLayers, layersEqual)
}

func colorEqual(a, b *Material) bool { return a.color == b.color }

func blendEnableEqual(a, b *Material) bool { return a.blendEnable == b.blendEnable }

func lightingEqual(a, b *Material) bool { return a.big.lighting == b.big.lighting }

func alphaStateEqual(a, b *Material) bool { return a.big.alpha == b.big.alpha }

func blendStateEqual(a, b *Material) bool { return a.big.blend == b.big.blend }

func userShaderEqual(a, b *Material) bool { return a.big.userProgram == b.big.userProgram }

func fogStateEqual(a, b *Material) bool { return a.big.fog == b.big.fog }

func pointSizeEqual(a, b *Material) bool { return a.big.pointSize == b.big.pointSize }

// depthStateEqual treats any two disabled depth tests as equal.
func depthStateEqual(a, b *Material) bool {
	da, db := &a.big.depth, &b.big.depth
	if !da.TestEnabled && !db.TestEnabled {
		return true
	}
	return *da == *db
}

func layersEqual(a, b *Material) bool {
	if a.nLayers != b.nLayers {
		return false
	}
	a.updateLayersCache()
	b.updateLayersCache()
	for i := 0; i < a.nLayers; i++ {
		if !a.layersCache[i].Equal(b.layersCache[i]) {
			return false
		}
	}
	return true
}

// Equal reports whether two layers flush to the same texture unit state.
func (l *Layer) Equal(o *Layer) bool {
	if l == o {
		return true
	}
	diff := CompareLayers(l, o)
	check := func(state LayerState, equal func(a, b *Layer) bool) bool {
		if diff&state == 0 {
			return true
		}
		return equal(l.authority(state), o.authority(state))
	}
	return check(LayerTexture, layerTextureEqual) &&
		check(LayerCombine, func(a, b *Layer) bool { return combineEqual(&a.big.combine, &b.big.combine) }) &&
		check(LayerCombineConstant, func(a, b *Layer) bool { return a.big.constant == b.big.constant }) &&
		check(LayerFilters, func(a, b *Layer) bool {
			return a.minFilter == b.minFilter && a.magFilter == b.magFilter
		}) &&
		check(LayerWrapModes, func(a, b *Layer) bool {
			return a.wrapS == b.wrapS && a.wrapT == b.wrapT && a.wrapP == b.wrapP
		}) &&
		check(LayerUserMatrix, func(a, b *Layer) bool { return a.big.matrix == b.big.matrix }) &&
		check(LayerPointSpriteCoords, func(a, b *Layer) bool {
			return a.big.pointSpriteCoords == b.big.pointSpriteCoords
		})
}

func layerTextureEqual(a, b *Layer) bool {
	if a.texture != b.texture || a.textureOverridden != b.textureOverridden {
		return false
	}
	return !a.textureOverridden || (a.sliceName == b.sliceName && a.sliceTarget == b.sliceTarget)
}

// combineEqual compares only the arguments each function consumes.
func combineEqual(a, b *CombineState) bool {
	if a.RGBFunc != b.RGBFunc || a.AlphaFunc != b.AlphaFunc {
		return false
	}
	for i := 0; i < combineFuncArgs(a.RGBFunc); i++ {
		if a.RGBSrc[i] != b.RGBSrc[i] || a.RGBOp[i] != b.RGBOp[i] {
			return false
		}
	}
	for i := 0; i < combineFuncArgs(a.AlphaFunc); i++ {
		if a.AlphaSrc[i] != b.AlphaSrc[i] || a.AlphaOp[i] != b.AlphaOp[i] {
			return false
		}
	}
	return true
}
