package cogl

import "fmt"

// FlushMaterial brings the driver state in line with m, sending only the
// calls needed to get there from the last flushed material. Flags in opts
// other than FlushSkipColor are applied to a temporary copy of m, which
// stays current until the next flush.
func (ctx *Context) FlushMaterial(m *Material, opts FlushOptions) error {
	if m == nil {
		panic("cogl: flush of a nil material")
	}
	if opts.Flags&flushOverrideFlags != 0 {
		c := m.Copy()
		c.ApplyOverrides(opts)
		err := ctx.flushMaterial(c, opts.Flags&FlushSkipColor != 0)
		c.Unref()
		return err
	}
	return ctx.flushMaterial(m, opts.Flags&FlushSkipColor != 0)
}

func (ctx *Context) flushMaterial(m *Material, skipColor bool) error {
	ctx.stats.MaterialFlushes++

	var diff MaterialState
	switch cur := ctx.currentMaterial; {
	case cur == m:
		diff = ctx.currentMaterialChanges
	case cur != nil:
		diff = ctx.currentMaterialChanges | Compare(cur, m)
	default:
		diff = StateAllSparse
	}

	layerDiffs := ctx.layerDifferences(m)

	ctx.flushCommonState(m, diff, skipColor)
	nFlushed := ctx.flushLayersCommonState(m, layerDiffs)
	ctx.disableUnitsFrom(nFlushed)

	backend := ctx.flushFragmentBackend(m, diff, layerDiffs)

	if ctx.currentMaterial != m {
		m.Ref()
		if ctx.currentMaterial != nil {
			ctx.currentMaterial.Unref()
		}
		ctx.currentMaterial = m
	}
	ctx.currentMaterialChanges = 0
	ctx.currentMaterialSkipColor = skipColor

	// Filters and wrap modes belong to the texture object, not the unit,
	// so another layer sharing the texture may have changed them.
	unitIndex := 0
	m.foreachLayer(func(l *Layer) bool {
		if unitIndex >= len(ctx.units) || !ctx.units[unitIndex].enabled {
			return false
		}
		tex := l.Texture()
		if tex == nil {
			tex = ctx.defaultTexture2D
		}
		tex.SetFilters(l.Filters())
		s, t, p := l.WrapModes()
		tex.EnsureWrapModes(s.glWrap(), t.glWrap(), p.glWrap())
		unitIndex++
		return true
	})

	// Unit 1 may have been borrowed by BindTransientTexture.
	if len(ctx.units) > 1 {
		if u := ctx.units[1]; u.enabled && u.dirtyGLTexture {
			ctx.setActiveUnit(1)
			ctx.driver.BindTexture(u.currentTarget, u.glTexture)
			u.dirtyGLTexture = false
		}
	}

	if backend == BackendUndefined {
		return fmt.Errorf("cogl: flush material: %w", ErrBackendUnsupported)
	}
	return nil
}

// layerDifferences returns, per unit, the layer groups that may differ from
// what the unit last received.
func (ctx *Context) layerDifferences(m *Material) []LayerState {
	diffs := make([]LayerState, m.NLayers())
	i := 0
	m.foreachLayer(func(l *Layer) bool {
		u := ctx.textureUnit(i)
		switch {
		case u.layer == l:
			diffs[i] = u.layerChangesSinceFlush
		case u.layer != nil:
			diffs[i] = u.layerChangesSinceFlush | CompareLayers(l, u.layer)
		default:
			diffs[i] = LayerAllSparse
		}
		if u.textureStorageChanged {
			diffs[i] |= LayerTexture
		}
		i++
		return true
	})
	return diffs
}

func (ctx *Context) flushCommonState(m *Material, diff MaterialState, skipColor bool) {
	d := ctx.driver

	// A previous flush that skipped color left the driver color unknown.
	if !skipColor && (diff&StateColor != 0 || ctx.currentMaterialSkipColor) {
		d.Color(m.Color())
	}

	if diff&StateLighting != 0 {
		d.Material(m.Lighting())
	}

	if diff&StateBlend != 0 {
		ctx.cache.blendStale = true
	}
	if m.realBlendEnable && ctx.cache.blendStale {
		bs := m.Blend()
		if bs.SrcRGB.usesConstant() || bs.DstRGB.usesConstant() ||
			bs.SrcAlpha.usesConstant() || bs.DstAlpha.usesConstant() {
			d.BlendConstant(bs.Constant)
		}
		d.BlendEquation(bs.EquationRGB, bs.EquationAlpha)
		d.BlendFunc(bs.SrcRGB, bs.DstRGB, bs.SrcAlpha, bs.DstAlpha)
		ctx.cache.blendStale = false
	}

	if diff&StateAlphaFunc != 0 {
		a := m.AlphaFunc()
		d.AlphaFunc(a.Func, a.Reference)
	}

	if diff&StateDepth != 0 {
		ctx.flushDepth(m.Depth())
	}

	if diff&StatePointSize != 0 {
		d.PointSize(m.PointSize())
	}

	if diff&StateFog != 0 {
		f := m.Fog()
		if f.Enabled != ctx.cache.fogEnabled {
			if f.Enabled {
				d.Enable(CapFog)
			} else {
				d.Disable(CapFog)
			}
			ctx.cache.fogEnabled = f.Enabled
		}
		if f.Enabled {
			d.Fog(f)
		}
	}

	if m.realBlendEnable != ctx.cache.blendEnabled {
		if m.realBlendEnable {
			d.Enable(CapBlend)
		} else {
			d.Disable(CapBlend)
		}
		ctx.cache.blendEnabled = m.realBlendEnable
	}
}

func (ctx *Context) flushDepth(ds DepthState) {
	d, c := ctx.driver, &ctx.cache
	if c.depthTestEnabled != ds.TestEnabled {
		if ds.TestEnabled {
			d.Enable(CapDepthTest)
		} else {
			d.Disable(CapDepthTest)
		}
		c.depthTestEnabled = ds.TestEnabled
	}
	if c.depthFunc != ds.Func {
		d.DepthFunc(ds.Func)
		c.depthFunc = ds.Func
	}
	if c.depthWrite != ds.WriteEnabled {
		d.DepthMask(ds.WriteEnabled)
		c.depthWrite = ds.WriteEnabled
	}
	if c.depthNear != ds.RangeNear || c.depthFar != ds.RangeFar {
		d.DepthRange(ds.RangeNear, ds.RangeFar)
		c.depthNear, c.depthFar = ds.RangeNear, ds.RangeFar
	}
}

// flushLayersCommonState programs texture bindings, targets and matrices
// for each layer and returns the number of units flushed.
func (ctx *Context) flushLayersCommonState(m *Material, layerDiffs []LayerState) int {
	d := ctx.driver
	maxUnits := d.MaxActivateableTextureUnits()
	i := 0
	m.foreachLayer(func(l *Layer) bool {
		if i >= maxUnits {
			if !ctx.warnedUnits {
				Logger().Warn("cogl: not enough texture units, remaining layers disabled",
					"units", maxUnits, "layers", m.NLayers())
				ctx.warnedUnits = true
			}
			return false
		}
		u := ctx.textureUnit(i)
		diff := layerDiffs[i]

		if diff&LayerTexture != 0 {
			ctx.flushLayerTexture(u, l)
		} else if !u.enabled && u.currentTarget != TargetNone && !ctx.debug.DisableTexturing {
			// The texture did not change but the unit may have been
			// disabled by an earlier flush with fewer layers.
			ctx.setActiveUnit(i)
			d.EnableTarget(u.currentTarget)
			u.enabled = true
		}

		if diff&LayerUserMatrix != 0 {
			u.matrixStack.Set(l.Matrix())
			ctx.setActiveUnit(i)
			u.matrixStack.flush(d)
		}

		if diff&LayerPointSpriteCoords != 0 && d.HasFeature(FeaturePointSprite) {
			ctx.setActiveUnit(i)
			d.PointSpriteCoords(l.PointSpriteCoords())
		}

		u.setLayer(l)
		u.layerChangesSinceFlush = 0
		i++
		return true
	})
	return i
}

func (ctx *Context) flushLayerTexture(u *TextureUnit, l *Layer) {
	d := ctx.driver
	authority := l.authority(LayerTexture)

	var tex Texture = ctx.defaultTexture2D
	if authority.texture != nil {
		tex = authority.texture
	}
	var name uint32
	var target TextureTarget
	if authority.textureOverridden {
		name, target = authority.sliceName, authority.sliceTarget
	} else {
		name, target = tex.GLIdentity()
	}

	ctx.setActiveUnit(u.index)

	// Unit 1 is also used for transient binds, so its bind is deferred to
	// the end of the flush.
	if u.glTexture != name || u.isForeign {
		if u.index == 1 {
			u.dirtyGLTexture = true
		} else {
			d.BindTexture(target, name)
			u.dirtyGLTexture = false
		}
		u.glTexture = name
	}
	u.isForeign = tex.IsForeign()

	if u.enabled && u.currentTarget != target {
		d.DisableTarget(u.currentTarget)
		u.enabled = false
	}
	if !ctx.debug.DisableTexturing && (!u.enabled || u.currentTarget != target) {
		d.EnableTarget(target)
		u.enabled = true
		u.currentTarget = target
	}
	u.textureStorageChanged = false
}
