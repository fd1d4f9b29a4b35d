package cogl

// Context owns the default material and layers, the driver and the mirror
// of driver state the flush engine compares against. A Context is not safe
// for concurrent use; callers serialize access with the same lock that
// guards the scene.
type Context struct {
	driver  Driver
	journal *Journal

	defaultMaterial *Material
	defaultLayer0   *Layer
	defaultLayerN   *Layer
	// dummyLayerDependant keeps defaultLayerN shared so it is never
	// modified in place.
	dummyLayerDependant *Layer

	defaultTexture2D   *BasicTexture
	defaultTextureRect *BasicTexture

	units      []*TextureUnit
	activeUnit int

	backends       [numBackends]fragmentBackend
	brokenBackends [numBackends]bool
	lastBackend    Backend

	currentMaterial          *Material
	currentMaterialChanges   MaterialState
	currentMaterialSkipColor bool

	cache          driverCache
	currentProgram uint32
	warnedUnits    bool

	stats Stats
	debug DebugFlags
}

// driverCache holds the last value sent for state that is toggled or set
// outside the material differences.
type driverCache struct {
	blendEnabled bool
	// blendStale is set when blend state changed while blending was off
	// and so was never sent.
	blendStale bool

	depthTestEnabled bool
	depthFunc        CompareFunc
	depthWrite       bool
	depthNear        float32
	depthFar         float32

	fogEnabled bool
}

// Stats counts flush engine work. It is meant for tests and debug output.
type Stats struct {
	CopyOnWrite      int
	MaterialFlushes  int
	BackendFallbacks int
	ProgramsBuilt    int
	JournalFlushes   int
	JournalBatches   int
}

// DebugFlags disable parts of the pipeline for diagnosis.
type DebugFlags struct {
	// DisableBlending forces blending off for every material created
	// afterwards.
	DisableBlending bool
	// DisableTexturing leaves texture targets disabled.
	DisableTexturing bool
	// ShowSource logs generated program source at Debug level.
	ShowSource bool
}

// NewContext returns a context driving d.
func NewContext(d Driver) *Context {
	ctx := &Context{
		driver:      d,
		lastBackend: BackendUndefined,
		cache: driverCache{
			depthFunc:  CompareLess,
			depthWrite: true,
			depthFar:   1,
		},
	}
	ctx.textureUnit(0)
	ctx.journal = newJournal(ctx)

	ctx.backends[BackendProgram] = &programBackend{ctx: ctx}
	ctx.backends[BackendGenerated] = newGeneratedBackend(ctx)
	ctx.backends[BackendFixed] = &fixedBackend{ctx: ctx}

	ctx.defaultMaterial = newDefaultMaterial(ctx)
	ctx.defaultLayer0, ctx.defaultLayerN = newDefaultLayers(ctx)
	ctx.dummyLayerDependant = ctx.defaultLayerN.Copy()

	transparent := []byte{0, 0, 0, 0}
	ctx.defaultTexture2D = ctx.newTexture(Target2D, 1, 1, transparent, true)
	if d.HasFeature(FeatureTextureRectangle) {
		ctx.defaultTextureRect = ctx.newTexture(TargetRectangle, 1, 1, transparent, true)
	}
	return ctx
}

// Driver returns the driver the context programs.
func (ctx *Context) Driver() Driver { return ctx.driver }

// Journal returns the context's draw batch queue.
func (ctx *Context) Journal() *Journal { return ctx.journal }

// Stats returns a snapshot of the work counters.
func (ctx *Context) Stats() Stats { return ctx.stats }

// SetDebugFlags replaces the debug flags.
func (ctx *Context) SetDebugFlags(f DebugFlags) { ctx.debug = f }

// DebugFlags returns the debug flags.
func (ctx *Context) DebugFlags() DebugFlags { return ctx.debug }

// CurrentMaterial returns the material most recently flushed, or nil.
func (ctx *Context) CurrentMaterial() *Material { return ctx.currentMaterial }

// TextureUnit returns the mirror of unit i.
func (ctx *Context) TextureUnit(i int) *TextureUnit { return ctx.textureUnit(i) }

// defaultTexture returns the fallback texture for target, or nil if the
// driver has none.
func (ctx *Context) defaultTexture(target TextureTarget) *BasicTexture {
	if target == TargetRectangle {
		return ctx.defaultTextureRect
	}
	return ctx.defaultTexture2D
}

// Invalidate forgets the mirrored driver state so the next flush sends
// everything. Use it after other code programmed the driver directly.
func (ctx *Context) Invalidate() {
	ctx.journal.Flush()
	if ctx.currentMaterial != nil {
		ctx.currentMaterial.Unref()
		ctx.currentMaterial = nil
	}
	ctx.currentMaterialChanges = 0
	for _, u := range ctx.units {
		u.setLayer(nil)
		u.layerChangesSinceFlush = 0
		u.isForeign = true
		u.matrixStack.dirty()
	}
	ctx.cache.blendStale = true
	ctx.currentProgram = ^uint32(0)
	ctx.lastBackend = BackendUndefined
}

// Close flushes pending geometry and releases the default textures.
func (ctx *Context) Close() {
	ctx.journal.Flush()
	if ctx.currentMaterial != nil {
		ctx.currentMaterial.Unref()
		ctx.currentMaterial = nil
	}
	for _, u := range ctx.units {
		u.setLayer(nil)
	}
	ctx.DeleteTexture(ctx.defaultTexture2D)
	if ctx.defaultTextureRect != nil {
		ctx.DeleteTexture(ctx.defaultTextureRect)
	}
}
