// Package cogl tracks rendering state as a copy-on-write graph of materials
// and flushes it to a GPU [Driver] with as few calls as possible.
//
// # Materials
//
// A [Material] describes how primitives are drawn: color, lighting, alpha
// test, blending, depth, fog, point size, a user program and an ordered set
// of texture [Layer]s. Materials form a tree. A child records only the
// groups it changes and reads everything else from the nearest ancestor
// that owns it, its authority for that group:
//
//	ctx := cogl.NewContext(cogl.NewTraceDriver())
//	base := cogl.NewMaterial(ctx)
//	base.SetLayerTexture(0, tex)
//
//	tinted := base.Copy()
//	tinted.SetColor(cogl.Color{R: 255, A: 128})
//
// Modifying a material that others derive from first moves those
// dependents onto a copy of its old state, so no change is ever observed
// through a child. Weak copies, made with [Material.WeakCopy], are
// destroyed instead.
//
// Blending is derived: [Material.RealBlendEnable] is true only when
// something can actually produce translucent output.
//
// # Blend strings
//
// [Material.SetBlend] and [Material.SetLayerCombine] accept the blend string
// language:
//
//	m.SetBlend("RGBA = ADD(SRC_COLOR, DST_COLOR*(1-SRC_COLOR[A]))")
//	m.SetLayerCombine(1, "RGB = MODULATE(PREVIOUS, TEXTURE) A = REPLACE(PREVIOUS)")
//
// # Flushing
//
// [Context.FlushMaterial] brings the driver in line with a material. Only
// the groups that may differ from the previously flushed material are sent.
// Fragment processing is delegated to the first backend that can handle the
// material: the material's own Kage program, a generated Kage program, or
// the driver's fixed-function combine stages. A backend that fails to
// compile a program is never tried again.
//
// The [Journal] batches quads per material and draws each run with a single
// driver call.
//
// # Drivers
//
// [TraceDriver] records every call as a line of text and is what the tests
// use. [EbitenDriver] draws with Ebitengine.
package cogl
