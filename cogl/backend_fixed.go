package cogl

// fixedBackend programs the driver's fixed-function combine stages. It
// caches nothing and always succeeds.
type fixedBackend struct {
	ctx *Context
	// resend is set when another backend ran since the last fixed flush,
	// leaving the combine stages unknown.
	resend bool
}

func (b *fixedBackend) maxTextureUnits() int {
	return b.ctx.driver.MaxTextureUnits()
}

func (b *fixedBackend) start(m *Material, nLayers int, diff MaterialState) bool {
	b.ctx.useProgram(0)
	b.resend = b.ctx.lastBackend != BackendFixed
	return true
}

func (b *fixedBackend) addLayer(m *Material, l *Layer, diff LayerState) bool {
	unit := l.UnitIndex()
	if b.resend {
		diff = LayerAllSparse
	}
	if diff&LayerCombine != 0 {
		b.ctx.setActiveUnit(unit)
		b.ctx.driver.TexEnvCombine(l.Combine())
	}
	if diff&LayerCombineConstant != 0 {
		b.ctx.setActiveUnit(unit)
		b.ctx.driver.TexEnvConstant(l.CombineConstant())
	}
	return true
}

func (b *fixedBackend) passthrough(m *Material) bool { return true }

func (b *fixedBackend) end(m *Material, diff MaterialState) bool { return true }

func (b *fixedBackend) materialPreChangeNotify(m *Material, change MaterialState, newColor *Color) {}

func (b *fixedBackend) materialSetParentNotify(m *Material) {}

func (b *fixedBackend) layerPreChangeNotify(l *Layer, change LayerState) {}

func (b *fixedBackend) freePriv(m *Material) { m.backendPriv[BackendFixed] = nil }

func (b *fixedBackend) freeLayerPriv(l *Layer) {}
