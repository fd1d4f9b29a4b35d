package cogl

// programBackend runs the material's user program. Layers only bind
// textures; the program decides how to combine them.
type programBackend struct {
	ctx *Context
}

func (b *programBackend) maxTextureUnits() int {
	return b.ctx.driver.MaxTextureImageUnits()
}

func (b *programBackend) start(m *Material, nLayers int, diff MaterialState) bool {
	d := b.ctx.driver
	if !d.HasFeature(FeatureUserShaders) {
		return false
	}
	p := m.UserProgram()
	if p == nil || p.Language != LanguageKage {
		return false
	}
	h, err := p.compile(d)
	if err != nil {
		return false
	}
	b.ctx.useProgram(h)
	return true
}

func (b *programBackend) addLayer(m *Material, l *Layer, diff LayerState) bool { return true }

func (b *programBackend) passthrough(m *Material) bool { return true }

func (b *programBackend) end(m *Material, diff MaterialState) bool {
	p := m.UserProgram()
	i := 0
	m.foreachLayer(func(l *Layer) bool {
		if i >= b.maxTextureUnits() {
			return false
		}
		b.ctx.driver.SetUniform(p.handle, "Constants", i, l.CombineConstant())
		i++
		return true
	})
	return true
}

func (b *programBackend) materialPreChangeNotify(m *Material, change MaterialState, newColor *Color) {}

func (b *programBackend) materialSetParentNotify(m *Material) {}

func (b *programBackend) layerPreChangeNotify(l *Layer, change LayerState) {}

func (b *programBackend) freePriv(m *Material) { m.backendPriv[BackendProgram] = nil }

func (b *programBackend) freeLayerPriv(l *Layer) {}
