package cogl

// TextureUnit mirrors what was last sent to one driver texture unit. It is
// never consulted for the state a material wants, only to skip calls.
type TextureUnit struct {
	index int

	enabled bool
	// currentTarget is the last target enabled, TargetNone if none ever was.
	currentTarget TextureTarget
	glTexture     uint32
	isForeign     bool
	// dirtyGLTexture means the bound name was changed outside the flush
	// engine and glTexture must be rebound.
	dirtyGLTexture bool

	matrixStack *MatrixStack

	// layer is the last layer flushed to this unit and
	// layerChangesSinceFlush what changed on it since.
	layer                  *Layer
	layerChangesSinceFlush LayerState
	textureStorageChanged  bool
}

func newTextureUnit(index int) *TextureUnit {
	return &TextureUnit{
		index:         index,
		currentTarget: TargetNone,
		matrixStack:   newMatrixStack(),
	}
}

// Index returns the unit number.
func (u *TextureUnit) Index() int { return u.index }

// MatrixStack returns the unit's texture matrix stack.
func (u *TextureUnit) MatrixStack() *MatrixStack { return u.matrixStack }

func (u *TextureUnit) setLayer(l *Layer) {
	if u.layer == l {
		return
	}
	if l != nil {
		l.Ref()
	}
	if u.layer != nil {
		u.layer.Unref()
	}
	u.layer = l
}

// textureUnit returns unit i, growing the mirror as needed.
func (ctx *Context) textureUnit(i int) *TextureUnit {
	for len(ctx.units) <= i {
		ctx.units = append(ctx.units, newTextureUnit(len(ctx.units)))
	}
	return ctx.units[i]
}

func (ctx *Context) setActiveUnit(i int) {
	if ctx.activeUnit == i {
		return
	}
	ctx.driver.ActiveTexture(i)
	ctx.activeUnit = i
}

// disableUnitsFrom turns off every unit from first upward.
func (ctx *Context) disableUnitsFrom(first int) {
	for i := first; i < len(ctx.units); i++ {
		u := ctx.units[i]
		if !u.enabled {
			continue
		}
		ctx.setActiveUnit(i)
		if u.currentTarget != TargetNone {
			ctx.driver.DisableTarget(u.currentTarget)
		}
		u.enabled = false
	}
}

// BindTransientTexture binds tex on a reserved unit so it can be queried or
// modified without disturbing the units the flush engine tracks. The
// previous binding on that unit is restored by the next flush.
func (ctx *Context) BindTransientTexture(tex Texture) {
	const reserved = 1
	u := ctx.textureUnit(reserved)
	ctx.setActiveUnit(reserved)
	name, target := tex.GLIdentity()
	ctx.driver.BindTexture(target, name)
	u.dirtyGLTexture = true
}

// invalidateTextureName forgets name on every unit so a recycled name is
// rebound by the next flush.
func (ctx *Context) invalidateTextureName(name uint32) {
	for _, u := range ctx.units {
		if u.glTexture == name {
			u.glTexture = 0
		}
	}
}

// DeleteTexture deletes tex from the driver and forgets every unit binding
// that refers to it.
func (ctx *Context) DeleteTexture(tex Texture) {
	name, _ := tex.GLIdentity()
	if !tex.IsForeign() {
		ctx.driver.DeleteTexture(name)
	}
	ctx.invalidateTextureName(name)
}

// TextureStorageChanged tells the flush engine that tex's backing storage
// moved. Units whose last flushed layer samples tex rebind on their next
// flush.
func (ctx *Context) TextureStorageChanged(tex Texture) {
	for _, u := range ctx.units {
		if u.layer != nil && u.layer.Texture() == tex {
			u.textureStorageChanged = true
		}
	}
}
