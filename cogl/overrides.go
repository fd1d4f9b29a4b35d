package cogl

import "math/bits"

// FlushFlags select which FlushOptions fields apply.
type FlushFlags uint32

const (
	// FlushDisableMask drops layers from the first one set in DisableLayers.
	FlushDisableMask FlushFlags = 1 << iota
	// FlushFallbackMask replaces the textures of the layers set in
	// FallbackLayers with the default texture.
	FlushFallbackMask
	// FlushLayer0Override keeps only the first layer and samples the
	// driver texture Layer0Override instead of its texture.
	FlushLayer0Override
	// FlushWrapModeOverrides applies WrapModeOverrides.
	FlushWrapModeOverrides
	// FlushSkipColor leaves the driver color alone; geometry supplies
	// per-vertex colors.
	FlushSkipColor
)

const flushOverrideFlags = FlushDisableMask | FlushFallbackMask |
	FlushLayer0Override | FlushWrapModeOverrides

// WrapOverrideNone in a WrapModeOverride keeps the layer's own mode.
const WrapOverrideNone WrapMode = 0xff

// WrapModeOverride replaces the wrap modes of one layer.
type WrapModeOverride struct {
	S, T, P WrapMode
}

// FlushOptions adjust a single flush. Layer masks and override slices are
// indexed by layer position in unit order, not by layer index.
type FlushOptions struct {
	Flags             FlushFlags
	DisableLayers     uint32
	FallbackLayers    uint32
	Layer0Override    uint32
	WrapModeOverrides []WrapModeOverride
}

// ApplyOverrides modifies m as described by opts. FlushMaterial calls it on
// a temporary copy; calling it directly changes m for good.
func (m *Material) ApplyOverrides(opts FlushOptions) {
	ctx := m.ctx

	if opts.Flags&FlushDisableMask != 0 {
		// A disabled layer disables every layer after it.
		m.PruneToNLayers(bits.TrailingZeros32(opts.DisableLayers))
	}

	if opts.Flags&FlushFallbackMask != 0 {
		for i, l := range m.Layers() {
			if i >= 32 || opts.FallbackLayers&(1<<i) == 0 {
				continue
			}
			target := Target2D
			if tex := l.Texture(); tex != nil {
				_, target = tex.GLIdentity()
			}
			fallback := ctx.defaultTexture(target)
			if fallback == nil {
				Logger().Warn("cogl: no fallback texture for target, using 2D", "target", target)
				fallback = ctx.defaultTexture2D
			}
			m.SetLayerTexture(l.Index(), fallback)
		}
	}

	if opts.Flags&FlushLayer0Override != 0 {
		m.PruneToNLayers(1)
		for _, l := range m.Layers() {
			tex := l.Texture()
			target := Target2D
			if tex != nil {
				_, target = tex.GLIdentity()
			}
			m.setLayerTextureData(l.Index(), tex, true, opts.Layer0Override, target)
		}
	}

	if opts.Flags&FlushWrapModeOverrides != 0 {
		for i, l := range m.Layers() {
			if i >= len(opts.WrapModeOverrides) {
				break
			}
			o := opts.WrapModeOverrides[i]
			s, t, p := l.WrapModes()
			if o.S != WrapOverrideNone {
				s = o.S
			}
			if o.T != WrapOverrideNone {
				t = o.T
			}
			if o.P != WrapOverrideNone {
				p = o.P
			}
			m.setLayerWrapModes(l.Index(), s, t, p)
		}
	}
}
