package cogl

// fragmentBackend is one strategy for programming fragment processing.
// A flush tries the material's cached backend first and falls through to
// the next one whenever a step returns false.
type fragmentBackend interface {
	maxTextureUnits() int

	start(m *Material, nLayers int, diff MaterialState) bool
	addLayer(m *Material, l *Layer, diff LayerState) bool
	// passthrough is called instead of addLayer when no layer was added.
	passthrough(m *Material) bool
	end(m *Material, diff MaterialState) bool

	materialPreChangeNotify(m *Material, change MaterialState, newColor *Color)
	materialSetParentNotify(m *Material)
	layerPreChangeNotify(l *Layer, change LayerState)

	freePriv(m *Material)
	freeLayerPriv(l *Layer)
}

// useProgram switches the driver program, skipping redundant calls.
func (ctx *Context) useProgram(handle uint32) {
	if ctx.currentProgram == handle {
		return
	}
	ctx.driver.UseProgram(handle)
	ctx.currentProgram = handle
}

// flushFragmentBackend runs the backend fallback loop for m. It returns the
// backend that succeeded, or BackendUndefined when none did.
func (ctx *Context) flushFragmentBackend(m *Material, diff MaterialState, layerDiffs []LayerState) Backend {
	if m.backend == BackendUndefined {
		m.setBackend(BackendDefault)
	}
	nLayers := m.NLayers()

	for i := m.backend; int(i) < numBackends; i++ {
		if i != m.backend {
			ctx.stats.BackendFallbacks++
			m.setBackend(i)
		}
		if ctx.brokenBackends[i] {
			continue
		}
		b := ctx.backends[i]
		if !b.start(m, nLayers, diff) {
			continue
		}

		added, failed := false, false
		unitIndex := 0
		m.foreachLayer(func(l *Layer) bool {
			u := ctx.textureUnit(unitIndex)
			// Units are disabled from the first missing one upward.
			if !u.enabled {
				return false
			}
			if unitIndex >= b.maxTextureUnits() {
				ctx.disableUnitsFrom(unitIndex)
				return false
			}
			if !b.addLayer(m, l, layerDiffs[unitIndex]) {
				failed = true
				return false
			}
			added = true
			unitIndex++
			return true
		})
		if failed {
			continue
		}
		if !added && !b.passthrough(m) {
			continue
		}
		if !b.end(m, diff) {
			continue
		}
		Logger().Debug("cogl: flushed material", "backend", i, "layers", nLayers)
		ctx.lastBackend = i
		return i
	}
	m.setBackend(BackendUndefined)
	return BackendUndefined
}
