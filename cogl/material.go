package cogl

// Material is a node in a copy-on-write tree of render state. A node only
// stores the state groups named in its differences mask; everything else is
// read from the nearest ancestor that does (the authority). Every tree
// bottoms out at the context's default material, which is authority for all
// groups.
//
// Materials are reference counted. A child holds a reference on its parent;
// the parent's children list is only used to find dependents before a
// mutation and never keeps a child alive.
type Material struct {
	ctx *Context

	refCount int
	parent   *Material
	children []*Material

	isWeak          bool
	destroyCallback func(*Material)

	differences     MaterialState
	realBlendEnable bool
	journalRefCount int
	age             uint64

	color       Color
	blendEnable BlendEnable
	big         *materialBigState

	// Layers this node changes relative to its parent, unsorted. Valid when
	// differences has StateLayers.
	layerDifferences []*Layer
	nLayers          int

	layersCache      []*Layer
	layersCacheDirty bool

	backend     Backend
	backendPriv [numBackends]any
}

// LightingState holds the fixed-function lighting material colors.
type LightingState struct {
	Ambient   [4]float32
	Diffuse   [4]float32
	Specular  [4]float32
	Emission  [4]float32
	Shininess float32
}

// AlphaFuncState configures the alpha test.
type AlphaFuncState struct {
	Func      CompareFunc
	Reference float32
}

// BlendState holds the blend equations, factors and constant.
type BlendState struct {
	EquationRGB   BlendEquation
	EquationAlpha BlendEquation
	SrcRGB        BlendFactor
	DstRGB        BlendFactor
	SrcAlpha      BlendFactor
	DstAlpha      BlendFactor
	Constant      Color
}

// DepthState configures depth testing.
type DepthState struct {
	TestEnabled  bool
	Func         CompareFunc
	WriteEnabled bool
	RangeNear    float32
	RangeFar     float32
}

// FogState configures fog.
type FogState struct {
	Enabled bool
	Color   Color
	Mode    FogMode
	Density float32
	ZNear   float32
	ZFar    float32
}

type materialBigState struct {
	lighting    LightingState
	alpha       AlphaFuncState
	blend       BlendState
	userProgram *Program
	depth       DepthState
	fog         FogState
	pointSize   float32
}

// newDefaultMaterial builds the root every material derives from.
func newDefaultMaterial(ctx *Context) *Material {
	m := &Material{
		ctx:         ctx,
		refCount:    1,
		differences: StateAllSparse,
		color:       White,
		blendEnable: BlendAutomatic,
		backend:     BackendUndefined,
		big: &materialBigState{
			lighting: LightingState{
				Ambient:  [4]float32{0.2, 0.2, 0.2, 1},
				Diffuse:  [4]float32{0.8, 0.8, 0.8, 1},
				Specular: [4]float32{0, 0, 0, 1},
				Emission: [4]float32{0, 0, 0, 1},
			},
			alpha: AlphaFuncState{Func: CompareAlways},
			blend: BlendState{
				EquationRGB:   BlendEquationAdd,
				EquationAlpha: BlendEquationAdd,
				SrcRGB:        BlendOne,
				DstRGB:        BlendOneMinusSrcAlpha,
				SrcAlpha:      BlendOne,
				DstAlpha:      BlendOneMinusSrcAlpha,
			},
			depth: DepthState{
				Func:         CompareLess,
				WriteEnabled: true,
				RangeNear:    0,
				RangeFar:     1,
			},
			fog:       FogState{Density: 1},
			pointSize: 1,
		},
		layersCacheDirty: true,
	}
	return m
}

// NewMaterial returns a new material deriving all of its state from the
// context's default material.
func NewMaterial(ctx *Context) *Material {
	return ctx.defaultMaterial.Copy()
}

// Copy derives a new material from m. The copy shares all of m's state until
// one of them is modified.
func (m *Material) Copy() *Material {
	c := &Material{
		ctx:              m.ctx,
		refCount:         1,
		realBlendEnable:  m.realBlendEnable,
		layersCacheDirty: true,
		backend:          m.backend,
	}
	c.setParent(m)
	return c
}

// WeakCopy derives a material that does not keep m alive and is not
// preserved when m changes: before m is modified or freed, onDestroy is
// called and the weak copy is detached. The callback must drop the copy.
func (m *Material) WeakCopy(onDestroy func(*Material)) *Material {
	if m.isWeak {
		panic("cogl: weak copy of a weak material")
	}
	c := &Material{
		ctx:              m.ctx,
		refCount:         1,
		isWeak:           true,
		destroyCallback:  onDestroy,
		realBlendEnable:  m.realBlendEnable,
		layersCacheDirty: true,
		backend:          m.backend,
	}
	c.parent = m
	m.children = append(m.children, c)
	return c
}

// Ref takes a reference on m and returns it.
func (m *Material) Ref() *Material {
	m.refCount++
	return m
}

// Unref drops a reference; the material is freed when none remain.
func (m *Material) Unref() {
	if m.refCount <= 0 {
		panic("cogl: unref of a freed material")
	}
	m.refCount--
	if m.refCount == 0 {
		m.free()
	}
}

func (m *Material) free() {
	m.destroyWeakChildren()
	m.setBackend(BackendUndefined)
	for i, priv := range m.backendPriv {
		if priv != nil {
			m.ctx.backends[i].freePriv(m)
		}
	}
	m.unparent()
	if m.differences&StateLayers != 0 {
		for _, l := range m.layerDifferences {
			l.owner = nil
			l.Unref()
		}
		m.layerDifferences = nil
	}
	if m.ctx != nil && m.ctx.currentMaterial == m {
		m.ctx.currentMaterial = nil
	}
}

// Parent returns the material m derives from, or nil for the root.
func (m *Material) Parent() *Material { return m.parent }

// Age is incremented on every mutation of m.
func (m *Material) Age() uint64 { return m.age }

// Differences returns the state groups m overrides relative to its parent.
func (m *Material) Differences() MaterialState { return m.differences }

// RealBlendEnable reports whether flushing m enables blending.
func (m *Material) RealBlendEnable() bool { return m.realBlendEnable }

// IsWeak reports whether m was created by WeakCopy.
func (m *Material) IsWeak() bool { return m.isWeak }

func (m *Material) unparent() {
	p := m.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == m {
			copy(p.children[i:], p.children[i+1:])
			p.children[len(p.children)-1] = nil
			p.children = p.children[:len(p.children)-1]
			break
		}
	}
	m.parent = nil
	if !m.isWeak {
		p.Unref()
	}
}

func (m *Material) setParent(parent *Material) {
	if !m.isWeak {
		parent.Ref()
	}
	if m.parent != nil {
		m.unparent()
	}
	m.parent = parent
	parent.children = append(parent.children, m)

	// The ancestry changed so the cached layer list may be stale.
	if m.differences&StateLayers != 0 {
		m.freeLayerCachesRecursive()
	}
	if m.backend != BackendUndefined {
		m.ctx.backends[m.backend].materialSetParentNotify(m)
	}
}

func (m *Material) hasStrongChildren() bool {
	for _, c := range m.children {
		if !c.isWeak {
			return true
		}
	}
	return false
}

func (m *Material) destroyWeakChildren() {
	var weak []*Material
	for _, c := range m.children {
		if c.isWeak {
			weak = append(weak, c)
		}
	}
	for _, c := range weak {
		c.destroyWeakChildren()
		if c.destroyCallback != nil {
			c.destroyCallback(c)
		}
		c.unparent()
	}
}

// freeLayerCachesRecursive marks the layer cache of m and every descendant
// dirty. A clean descendant may sit below a dirty node, so the walk always
// visits the whole subtree.
func (m *Material) freeLayerCachesRecursive() {
	m.layersCache = nil
	m.layersCacheDirty = true
	for _, c := range m.children {
		c.freeLayerCachesRecursive()
	}
}

func (m *Material) authority(state MaterialState) *Material {
	a := m
	for a.differences&state == 0 {
		a = a.parent
	}
	return a
}

func (m *Material) ensureBigState() *materialBigState {
	if m.big == nil {
		m.big = &materialBigState{}
	}
	return m.big
}

func (m *Material) setBackend(b Backend) {
	if m.backend != BackendUndefined {
		m.ctx.backends[m.backend].freePriv(m)
	}
	m.backend = b
}

// copyDifferences copies the groups named by differences from src into m and
// makes m their authority.
func (m *Material) copyDifferences(src *Material, differences MaterialState) {
	if differences&StateColor != 0 {
		m.color = src.color
	}
	if differences&StateBlendEnable != 0 {
		m.blendEnable = src.blendEnable
	}
	if differences&StateLayers != 0 {
		if m.differences&StateLayers != 0 {
			for _, l := range m.layerDifferences {
				l.owner = nil
				l.Unref()
			}
		}
		m.layerDifferences = nil
		// A layer has a single owner so derive new layers instead of sharing.
		for _, l := range src.layerDifferences {
			c := l.Copy()
			m.addLayerDifference(c, false)
			c.Unref()
		}
		// Adding the first layer initialized nLayers from the old authority.
		m.nLayers = src.nLayers
	}
	if differences&stateNeedsBigState != 0 {
		big := m.ensureBigState()
		sb := src.big
		if differences&StateLighting != 0 {
			big.lighting = sb.lighting
		}
		if differences&StateAlphaFunc != 0 {
			big.alpha = sb.alpha
		}
		if differences&StateBlend != 0 {
			big.blend = sb.blend
		}
		if differences&StateUserShader != 0 {
			big.userProgram = sb.userProgram
		}
		if differences&StateDepth != 0 {
			big.depth = sb.depth
		}
		if differences&StateFog != 0 {
			big.fog = sb.fog
		}
		if differences&StatePointSize != 0 {
			big.pointSize = sb.pointSize
		}
	}
	if differences&StateAffectsBlending != 0 {
		m.handleAutomaticBlendEnable()
	}
	m.differences |= differences
}

func (m *Material) initializeState(src *Material, state MaterialState) {
	if m == src {
		return
	}
	if state != StateLayers {
		m.copyDifferences(src, state)
		return
	}
	m.nLayers = src.nLayers
	m.layerDifferences = nil
}

// preChange must be called before any group of m is modified. It flushes
// journal entries that reference m, moves strong dependents onto a copy of
// m's current state and initializes the group from its authority.
// newColor is the pending color for StateColor changes, nil otherwise.
func (m *Material) preChange(change MaterialState, newColor *Color) {
	ctx := m.ctx

	if m.journalRefCount > 0 {
		skip := false
		// Colors are logged per vertex, so a color change only matters to
		// batched geometry if it flips the blend decision.
		if change == StateColor && newColor != nil {
			skip = m.needsBlendingEnabled(newColor) == m.realBlendEnable
		}
		if !skip {
			ctx.journal.Flush()
		}
	}

	// The fixed backend caches nothing, and attaching or detaching a user
	// program changes which backends can serve m: let the next flush pick
	// again.
	if m.backend == BackendFixed || change&StateUserShader != 0 {
		m.setBackend(BackendUndefined)
	}
	// Backend state may be cached on m on behalf of descendants, so every
	// backend holding some is told, not just m's own.
	for i, priv := range m.backendPriv {
		if priv != nil {
			ctx.backends[i].materialPreChangeNotify(m, change, newColor)
		}
	}

	m.destroyWeakChildren()

	if m.hasStrongChildren() {
		ctx.stats.CopyOnWrite++
		newAuthority := m.parent.Copy()
		newAuthority.copyDifferences(m, m.differences)

		var strong []*Material
		for _, c := range m.children {
			if !c.isWeak {
				strong = append(strong, c)
			}
		}
		for _, c := range strong {
			c.setParent(newAuthority)
		}
		// The reparented children now keep it alive.
		newAuthority.Unref()
	}

	m.age++

	authority := m
	if change&StateAllSparse != 0 {
		authority = m.authority(change)
	}
	m.initializeState(authority, change)

	if change == StateLayers {
		m.freeLayerCachesRecursive()
	}

	if ctx.currentMaterial == m {
		ctx.currentMaterialChanges |= change
	}
}

// updateAuthority drops m's claim on state when its value matches the
// parent's authority, then compacts the ancestry.
func (m *Material) updateAuthority(authority *Material, state MaterialState, equal func(a, b *Material) bool) {
	if authority == m && m.parent != nil {
		old := m.parent.authority(state)
		if equal(authority, old) {
			m.differences &^= state
		}
	} else if authority != m {
		m.differences |= state
		m.pruneRedundantAncestry()
	}
}

// pruneRedundantAncestry skips ancestors whose differences are all
// overridden by m.
func (m *Material) pruneRedundantAncestry() {
	np := m.parent
	if np == nil {
		return
	}
	// Layer differences accumulate down the tree, so a node that does not
	// list every one of its layers still depends on its ancestors for them.
	if m.differences&StateLayers != 0 && m.nLayers != len(m.layerDifferences) {
		return
	}
	for np.parent != nil && (np.differences|m.differences) == m.differences {
		np = np.parent
	}
	if np != m.parent {
		m.setParent(np)
	}
}
