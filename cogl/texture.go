package cogl

// Texture is an externally owned texture resource sampled by layers.
type Texture interface {
	// GLIdentity returns the driver texture name and its binding target.
	GLIdentity() (name uint32, target TextureTarget)
	// IsForeign reports a texture whose name may be reused behind our back,
	// so name comparisons are unsafe.
	IsForeign() bool
	HasAlpha() bool
	Width() int
	Height() int
	// SetFilters applies filters to the texture object. Implementations
	// skip the driver call when nothing changed.
	SetFilters(min, mag Filter)
	// EnsureWrapModes is SetFilters for wrap modes.
	EnsureWrapModes(s, t, p WrapMode)
}

// BasicTexture is a texture created through a context's driver.
type BasicTexture struct {
	ctx      *Context
	name     uint32
	target   TextureTarget
	width    int
	height   int
	hasAlpha bool
	foreign  bool

	filtersValid bool
	min, mag     Filter
	wrapValid    bool
	ws, wt, wp   WrapMode
}

// NewTexture uploads RGBA8 pixels, which may be nil, and returns the texture.
// hasAlpha says whether any pixel may be translucent.
func (ctx *Context) NewTexture(width, height int, pixels []byte, hasAlpha bool) *BasicTexture {
	return ctx.newTexture(Target2D, width, height, pixels, hasAlpha)
}

func (ctx *Context) newTexture(target TextureTarget, width, height int, pixels []byte, hasAlpha bool) *BasicTexture {
	name := ctx.driver.CreateTexture(target, width, height, pixels)
	return &BasicTexture{
		ctx:      ctx,
		name:     name,
		target:   target,
		width:    width,
		height:   height,
		hasAlpha: hasAlpha,
	}
}

// NewForeignTexture wraps a texture object created outside of cogl.
func (ctx *Context) NewForeignTexture(name uint32, target TextureTarget, width, height int, hasAlpha bool) *BasicTexture {
	return &BasicTexture{
		ctx:      ctx,
		name:     name,
		target:   target,
		width:    width,
		height:   height,
		hasAlpha: hasAlpha,
		foreign:  true,
	}
}

func (t *BasicTexture) GLIdentity() (uint32, TextureTarget) { return t.name, t.target }

func (t *BasicTexture) IsForeign() bool { return t.foreign }

func (t *BasicTexture) HasAlpha() bool { return t.hasAlpha }

func (t *BasicTexture) Width() int { return t.width }

func (t *BasicTexture) Height() int { return t.height }

func (t *BasicTexture) SetFilters(min, mag Filter) {
	if t.filtersValid && t.min == min && t.mag == mag {
		return
	}
	t.filtersValid, t.min, t.mag = true, min, mag
	t.ctx.driver.TextureFilters(t.target, t.name, min, mag)
}

func (t *BasicTexture) EnsureWrapModes(s, tw, p WrapMode) {
	if t.wrapValid && t.ws == s && t.wt == tw && t.wp == p {
		return
	}
	t.wrapValid, t.ws, t.wt, t.wp = true, s, tw, p
	t.ctx.driver.TextureWrap(t.target, t.name, s, tw, p)
}

// Replace swaps the backing storage for a freshly uploaded texture object.
// Units that sampled the old storage rebind on their next flush.
func (t *BasicTexture) Replace(width, height int, pixels []byte) {
	old := t.name
	t.name = t.ctx.driver.CreateTexture(t.target, width, height, pixels)
	t.width, t.height = width, height
	t.filtersValid, t.wrapValid = false, false
	if !t.foreign {
		t.ctx.driver.DeleteTexture(old)
	}
	t.ctx.invalidateTextureName(old)
	t.ctx.TextureStorageChanged(t)
}

// Release deletes the texture object. Layers still using t keep a stale
// name and must not be flushed afterwards.
func (t *BasicTexture) Release() {
	t.ctx.DeleteTexture(t)
}
