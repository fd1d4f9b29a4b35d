package cogl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func drawCalls(d *TraceDriver) []string {
	var out []string
	for _, c := range d.Calls {
		if len(c) > 13 && c[:13] == "DrawTriangles" {
			out = append(out, c)
		}
	}
	return out
}

func TestJournalBatchesByMaterial(t *testing.T) {
	ctx, d := newFixedTestContext()
	texA := ctx.NewTexture(4, 4, nil, false)
	texB := ctx.NewTexture(4, 4, nil, false)

	a := NewMaterial(ctx)
	a.SetLayerTexture(0, texA)
	// Differs from a only in color, so it shares a's batch.
	tinted := a.Copy()
	tinted.SetColor(red)
	b := NewMaterial(ctx)
	b.SetLayerTexture(0, texB)

	j := ctx.Journal()
	for i := 0; i < 3; i++ {
		j.LogRectangle(a, FlushOptions{}, 0, 0, 10, 10, 0, 0, 1, 1)
	}
	j.LogRectangle(tinted, FlushOptions{}, 0, 0, 10, 10, 0, 0, 1, 1)
	j.LogRectangle(b, FlushOptions{}, 0, 0, 10, 10, 0, 0, 1, 1)
	if got := j.Len(); got != 5 {
		t.Fatalf("Len() = %d, want 5", got)
	}

	d.Reset()
	j.Flush()

	want := []string{
		"DrawTriangles(16 vertices, 24 indices)",
		"DrawTriangles(4 vertices, 6 indices)",
	}
	if diff := cmp.Diff(want, drawCalls(d)); diff != "" {
		t.Errorf("draw calls (-want +got):\n%s", diff)
	}
	for _, c := range d.Calls {
		if len(c) > 5 && c[:6] == "Color(" {
			t.Errorf("journal flush sent a material color: %s", c)
		}
	}

	s := ctx.Stats()
	if s.JournalFlushes != 1 || s.JournalBatches != 2 {
		t.Errorf("JournalFlushes, JournalBatches = %d, %d, want 1, 2", s.JournalFlushes, s.JournalBatches)
	}
	if j.Len() != 0 {
		t.Errorf("Len() = %d after Flush, want 0", j.Len())
	}
	if a.journalRefCount != 0 {
		t.Errorf("journalRefCount = %d after Flush, want 0", a.journalRefCount)
	}
}

func TestJournalFlushesOnMaterialChange(t *testing.T) {
	ctx, d := newFixedTestContext()
	m := NewMaterial(ctx)
	j := ctx.Journal()

	j.LogRectangle(m, FlushOptions{}, 0, 0, 1, 1, 0, 0, 1, 1)
	m.SetPointSize(4)

	if j.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after modifying a logged material", j.Len())
	}
	if got := drawCalls(d); len(got) != 1 {
		t.Errorf("draw calls = %v, want one", got)
	}
	// The queued quad was drawn with the material as it was when logged.
	for _, c := range d.Calls {
		if c == "PointSize(4)" {
			t.Error("queued quad drawn with the modified point size")
		}
	}
}

func TestJournalColorChange(t *testing.T) {
	tests := []struct {
		name      string
		color     Color
		wantQueue int
	}{
		{"opaque to opaque keeps the batch", red, 1},
		{"opaque to translucent flushes", translucent, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := newFixedTestContext()
			m := NewMaterial(ctx)
			j := ctx.Journal()
			j.LogRectangle(m, FlushOptions{}, 0, 0, 1, 1, 0, 0, 1, 1)

			m.SetColor(tt.color)
			if got := j.Len(); got != tt.wantQueue {
				t.Errorf("Len() = %d, want %d", got, tt.wantQueue)
			}
		})
	}
}

func TestJournalVertexColors(t *testing.T) {
	ctx, _ := newFixedTestContext()
	m := NewMaterial(ctx)
	m.SetColor(red)
	j := ctx.Journal()
	j.LogRectangle(m, FlushOptions{}, 1, 2, 3, 4, 0, 0, 1, 1)

	want := []Vertex{
		{DstX: 1, DstY: 2, SrcX: 0, SrcY: 0, R: 1, A: 1},
		{DstX: 3, DstY: 2, SrcX: 1, SrcY: 0, R: 1, A: 1},
		{DstX: 1, DstY: 4, SrcX: 0, SrcY: 1, R: 1, A: 1},
		{DstX: 3, DstY: 4, SrcX: 1, SrcY: 1, R: 1, A: 1},
	}
	if diff := cmp.Diff(want, j.verts); diff != "" {
		t.Errorf("logged vertices (-want +got):\n%s", diff)
	}
}

func TestJournalOverridesAreSnapshotted(t *testing.T) {
	ctx, _ := newFixedTestContext()
	m := NewMaterial(ctx)
	m.SetLayerTexture(0, ctx.NewTexture(2, 2, nil, false))
	m.SetLayerTexture(1, ctx.NewTexture(2, 2, nil, false))
	j := ctx.Journal()

	j.LogRectangle(m, FlushOptions{Flags: FlushDisableMask, DisableLayers: 1}, 0, 0, 1, 1, 0, 0, 1, 1)
	if got := j.entries[0].material.NLayers(); got != 0 {
		t.Errorf("logged material has %d layers, want 0", got)
	}
	if got := m.NLayers(); got != 2 {
		t.Errorf("original material has %d layers, want 2", got)
	}
	j.Flush()
}
