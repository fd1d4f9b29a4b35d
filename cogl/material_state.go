package cogl

// setState runs the mutator protocol for one state group: find the authority,
// return early if the value is unchanged, prepare m for modification, apply
// the change, then either revert to an ancestor's authority or claim the group.
func (m *Material) setState(state MaterialState, newColor *Color,
	same func(authority *Material) bool,
	apply func(m *Material),
	equal func(a, b *Material) bool,
) {
	authority := m.authority(state)
	if same(authority) {
		return
	}
	m.preChange(state, newColor)
	apply(m)
	m.updateAuthority(authority, state, equal)
	if state&StateAffectsBlending != 0 {
		m.handleAutomaticBlendEnable()
	}
}

// --- Color ---

// Color returns the material color.
func (m *Material) Color() Color {
	return m.authority(StateColor).color
}

// SetColor sets the material color. Layers combine against it as PREVIOUS.
func (m *Material) SetColor(c Color) {
	m.setState(StateColor, &c,
		func(a *Material) bool { return a.color == c },
		func(m *Material) { m.color = c },
		colorEqual)
}

// SetColor4f sets the material color from float channels.
func (m *Material) SetColor4f(r, g, b, a float32) {
	m.SetColor(ColorFromFloats(r, g, b, a))
}

// --- Blend enable ---

// BlendEnable returns the blending tri-state.
func (m *Material) BlendEnable() BlendEnable {
	return m.authority(StateBlendEnable).blendEnable
}

// SetBlendEnable forces blending on or off, or restores automatic detection.
func (m *Material) SetBlendEnable(enable BlendEnable) {
	m.setState(StateBlendEnable, nil,
		func(a *Material) bool { return a.blendEnable == enable },
		func(m *Material) { m.blendEnable = enable },
		blendEnableEqual)
}

// --- Lighting ---

// Lighting returns the lighting material state.
func (m *Material) Lighting() LightingState {
	return m.authority(StateLighting).big.lighting
}

func (m *Material) setLightingColor(c Color, field func(*LightingState) *[4]float32) {
	f := c.Floats()
	m.setState(StateLighting, nil,
		func(a *Material) bool { return *field(&a.big.lighting) == f },
		func(m *Material) { *field(&m.ensureBigState().lighting) = f },
		lightingEqual)
}

// SetAmbient sets the ambient lighting color.
func (m *Material) SetAmbient(c Color) {
	m.setLightingColor(c, func(l *LightingState) *[4]float32 { return &l.Ambient })
}

// SetDiffuse sets the diffuse lighting color.
func (m *Material) SetDiffuse(c Color) {
	m.setLightingColor(c, func(l *LightingState) *[4]float32 { return &l.Diffuse })
}

// SetAmbientAndDiffuse sets both the ambient and diffuse colors.
func (m *Material) SetAmbientAndDiffuse(c Color) {
	m.SetAmbient(c)
	m.SetDiffuse(c)
}

// SetSpecular sets the specular lighting color.
func (m *Material) SetSpecular(c Color) {
	m.setLightingColor(c, func(l *LightingState) *[4]float32 { return &l.Specular })
}

// SetEmission sets the emissive lighting color.
func (m *Material) SetEmission(c Color) {
	m.setLightingColor(c, func(l *LightingState) *[4]float32 { return &l.Emission })
}

// SetShininess sets the specular exponent scale. Values outside [0,1] are
// reported and ignored.
func (m *Material) SetShininess(shininess float32) {
	if shininess < 0 || shininess > 1 {
		Logger().Warn("cogl: out of range shininess", "shininess", shininess)
		return
	}
	m.setState(StateLighting, nil,
		func(a *Material) bool { return a.big.lighting.Shininess == shininess },
		func(m *Material) { m.ensureBigState().lighting.Shininess = shininess },
		lightingEqual)
}

// --- Alpha test ---

// AlphaFunc returns the alpha test configuration.
func (m *Material) AlphaFunc() AlphaFuncState {
	return m.authority(StateAlphaFunc).big.alpha
}

// SetAlphaTestFunction configures the alpha test.
func (m *Material) SetAlphaTestFunction(fn CompareFunc, reference float32) {
	s := AlphaFuncState{Func: fn, Reference: reference}
	m.setState(StateAlphaFunc, nil,
		func(a *Material) bool { return a.big.alpha == s },
		func(m *Material) { m.ensureBigState().alpha = s },
		alphaStateEqual)
}

// --- Blending ---

// Blend returns the blend state.
func (m *Material) Blend() BlendState {
	return m.authority(StateBlend).big.blend
}

// SetBlendState replaces the blend equations and factors, keeping the
// current blend constant.
func (m *Material) SetBlendState(s BlendState) {
	m.setState(StateBlend, nil,
		func(a *Material) bool {
			s.Constant = a.big.blend.Constant
			return a.big.blend == s
		},
		func(m *Material) {
			s.Constant = m.ensureBigState().blend.Constant
			m.big.blend = s
		},
		blendStateEqual)
}

// SetBlendConstant sets the color used by the CONSTANT blend factors.
func (m *Material) SetBlendConstant(c Color) {
	m.setState(StateBlend, nil,
		func(a *Material) bool { return a.big.blend.Constant == c },
		func(m *Material) { m.ensureBigState().blend.Constant = c },
		blendStateEqual)
}

// --- User program ---

// UserProgram returns the attached user program, or nil.
func (m *Material) UserProgram() *Program {
	return m.authority(StateUserShader).big.userProgram
}

// SetUserProgram attaches a user fragment program; nil detaches it.
func (m *Material) SetUserProgram(p *Program) {
	m.setState(StateUserShader, nil,
		func(a *Material) bool { return a.big.userProgram == p },
		func(m *Material) { m.ensureBigState().userProgram = p },
		userShaderEqual)
}

// --- Depth ---

// Depth returns the depth test configuration.
func (m *Material) Depth() DepthState {
	return m.authority(StateDepth).big.depth
}

func (m *Material) setDepth(same func(*DepthState) bool, apply func(*DepthState)) {
	m.setState(StateDepth, nil,
		func(a *Material) bool { return same(&a.big.depth) },
		func(m *Material) { apply(&m.ensureBigState().depth) },
		depthStateEqual)
}

// SetDepthTestEnabled toggles depth testing.
func (m *Material) SetDepthTestEnabled(enable bool) {
	m.setDepth(
		func(d *DepthState) bool { return d.TestEnabled == enable },
		func(d *DepthState) { d.TestEnabled = enable })
}

// SetDepthWritingEnabled toggles depth buffer writes.
func (m *Material) SetDepthWritingEnabled(enable bool) {
	m.setDepth(
		func(d *DepthState) bool { return d.WriteEnabled == enable },
		func(d *DepthState) { d.WriteEnabled = enable })
}

// SetDepthTestFunction sets the depth comparison.
func (m *Material) SetDepthTestFunction(fn CompareFunc) {
	m.setDepth(
		func(d *DepthState) bool { return d.Func == fn },
		func(d *DepthState) { d.Func = fn })
}

// SetDepthRange sets the depth range mapping.
func (m *Material) SetDepthRange(near, far float32) {
	m.setDepth(
		func(d *DepthState) bool { return d.RangeNear == near && d.RangeFar == far },
		func(d *DepthState) { d.RangeNear, d.RangeFar = near, far })
}

// --- Fog ---

// Fog returns the fog configuration.
func (m *Material) Fog() FogState {
	return m.authority(StateFog).big.fog
}

// SetFog replaces the fog configuration.
func (m *Material) SetFog(f FogState) {
	m.setState(StateFog, nil,
		func(a *Material) bool { return a.big.fog == f },
		func(m *Material) { m.ensureBigState().fog = f },
		fogStateEqual)
}

// --- Point size ---

// PointSize returns the point size.
func (m *Material) PointSize() float32 {
	return m.authority(StatePointSize).big.pointSize
}

// SetPointSize sets the size of points drawn with this material.
func (m *Material) SetPointSize(size float32) {
	m.setState(StatePointSize, nil,
		func(a *Material) bool { return a.big.pointSize == size },
		func(m *Material) { m.ensureBigState().pointSize = size },
		pointSizeEqual)
}
