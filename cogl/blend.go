package cogl

// needsBlendingEnabled decides whether flushing m must enable blending. It is
// conservative: any state that might produce alpha below one enables it.
// override, when non-nil, is a color about to be set on m.
func (m *Material) needsBlendingEnabled(override *Color) bool {
	if m.ctx.debug.DisableBlending {
		return false
	}

	switch m.authority(StateBlendEnable).blendEnable {
	case BlendEnabled:
		return true
	case BlendDisabled:
		return false
	}

	// Look for a blend setup that is not equivalent to blending disabled.
	bs := &m.authority(StateBlend).big.blend
	if bs.EquationRGB != BlendEquationAdd || bs.EquationAlpha != BlendEquationAdd {
		return true
	}
	if bs.SrcAlpha != BlendOne || bs.DstAlpha != BlendOneMinusSrcAlpha {
		return true
	}
	if bs.SrcRGB != BlendOne || bs.DstRGB != BlendOneMinusSrcAlpha {
		return true
	}

	// Now it is a question of finding any source alpha below one.
	if override != nil && !override.Opaque() {
		return true
	}
	if !m.Color().Opaque() {
		return true
	}

	// Nothing is known about what a user program does with alpha.
	if m.UserProgram() != nil {
		return true
	}

	lighting := &m.authority(StateLighting).big.lighting
	for _, c := range [...][4]float32{lighting.Ambient, lighting.Diffuse, lighting.Specular, lighting.Emission} {
		if !floatColorOpaque(c) {
			return true
		}
	}

	// hasAlpha tracks the alpha of the PREVIOUS source; for the first layer
	// that is the material color, which is opaque by now.
	hasAlpha := false
	m.foreachLayer(func(l *Layer) bool {
		hasAlpha = l.hasAlpha()
		return !hasAlpha
	})
	return hasAlpha
}

// hasAlpha reports whether the layer may produce alpha below one, assuming
// its PREVIOUS input is opaque.
func (l *Layer) hasAlpha() bool {
	c := &l.authority(LayerCombine).big.combine
	// Anything but the default alpha combine may lower alpha.
	if c.AlphaFunc != CombineModulate ||
		c.AlphaSrc[0] != CombineSourcePrevious ||
		c.AlphaOp[0] != CombineOpSrcAlpha ||
		c.AlphaSrc[1] != CombineSourceTexture ||
		c.AlphaOp[1] != CombineOpSrcAlpha {
		return true
	}
	// Layers without a texture are treated as opaque.
	tex := l.authority(LayerTexture).texture
	return tex != nil && tex.HasAlpha()
}

// handleAutomaticBlendEnable recomputes the derived blend flag after a change
// to any group in StateAffectsBlending.
func (m *Material) handleAutomaticBlendEnable() {
	enable := m.needsBlendingEnabled(nil)
	if enable != m.realBlendEnable {
		m.preChange(StateRealBlendEnable, nil)
		m.realBlendEnable = enable
	}
}
