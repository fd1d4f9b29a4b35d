package cogl

// journalEntry is one logged quad. Its four vertices start at
// entry index*4 in the journal's vertex buffer.
type journalEntry struct {
	material *Material
}

// Journal queues textured quads and draws runs that share a material with
// a single driver call. Colors are logged per vertex, so materials that
// differ only in color still batch together.
type Journal struct {
	ctx      *Context
	entries  []journalEntry
	verts    []Vertex
	inds     []uint32
	flushing bool
}

func newJournal(ctx *Context) *Journal {
	return &Journal{ctx: ctx}
}

// Len returns the number of queued quads.
func (j *Journal) Len() int { return len(j.entries) }

// LogRectangle queues an axis-aligned quad from (x1, y1) to (x2, y2) with
// texture coordinates (s1, t1) to (s2, t2), colored with m's color.
func (j *Journal) LogRectangle(m *Material, opts FlushOptions, x1, y1, x2, y2, s1, t1, s2, t2 float32) {
	c := m.Color().Floats()
	r, g, b, a := c[0], c[1], c[2], c[3]
	j.LogQuad(m, opts, [4]Vertex{
		{DstX: x1, DstY: y1, SrcX: s1, SrcY: t1, R: r, G: g, B: b, A: a},
		{DstX: x2, DstY: y1, SrcX: s2, SrcY: t1, R: r, G: g, B: b, A: a},
		{DstX: x1, DstY: y2, SrcX: s1, SrcY: t2, R: r, G: g, B: b, A: a},
		{DstX: x2, DstY: y2, SrcX: s2, SrcY: t2, R: r, G: g, B: b, A: a},
	})
}

// LogQuad queues a quad given as TL, TR, BL, BR corners. Overrides in opts
// are applied to a copy of m taken now, so later changes to m do not affect
// the queued quad.
func (j *Journal) LogQuad(m *Material, opts FlushOptions, quad [4]Vertex) {
	if opts.Flags&flushOverrideFlags != 0 {
		c := m.Copy()
		c.ApplyOverrides(opts)
		j.log(c, quad)
		c.Unref()
		return
	}
	j.log(m, quad)
}

func (j *Journal) log(m *Material, quad [4]Vertex) {
	m.Ref()
	m.journalRefCount++
	j.entries = append(j.entries, journalEntry{material: m})
	j.verts = append(j.verts, quad[:]...)
}

// Flush draws every queued quad and empties the journal.
func (j *Journal) Flush() {
	if j.flushing || len(j.entries) == 0 {
		return
	}
	j.flushing = true
	defer func() { j.flushing = false }()

	ctx := j.ctx
	ctx.stats.JournalFlushes++

	start := 0
	for i := 1; i <= len(j.entries); i++ {
		if i < len(j.entries) && materialsEqual(j.entries[start].material, j.entries[i].material, true) {
			continue
		}
		j.drawBatch(start, i)
		start = i
	}

	for _, e := range j.entries {
		e.material.journalRefCount--
		e.material.Unref()
	}
	clear(j.entries)
	j.entries = j.entries[:0]
	j.verts = j.verts[:0]
}

// drawBatch draws entries [first, last) with the first entry's material.
func (j *Journal) drawBatch(first, last int) {
	ctx := j.ctx
	ctx.stats.JournalBatches++

	m := j.entries[first].material
	if err := ctx.FlushMaterial(m, FlushOptions{Flags: FlushSkipColor}); err != nil {
		Logger().Warn("cogl: dropping journal batch", "quads", last-first, "err", err)
		return
	}

	j.inds = j.inds[:0]
	for q := first; q < last; q++ {
		base := uint32((q - first) * 4)
		// Two triangles: TL-TR-BL, TR-BR-BL
		j.inds = append(j.inds,
			base+0, base+1, base+2,
			base+1, base+3, base+2,
		)
	}
	ctx.driver.DrawTriangles(j.verts[first*4:last*4], j.inds)
}
