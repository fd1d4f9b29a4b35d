package cogl

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SubTexture is a named region of an atlas page. It samples the page's
// texture object, so materials using regions of one page batch together.
type SubTexture struct {
	atlas *Atlas
	page  int

	X, Y          int
	W, H          int
	OriginalW     int
	OriginalH     int
	OffsetX       int
	OffsetY       int
	Rotated       bool
	isPlaceholder bool
}

func (s *SubTexture) backing() Texture {
	if s.isPlaceholder {
		return s.atlas.ctx.defaultTexture2D
	}
	return s.atlas.pages[s.page]
}

func (s *SubTexture) GLIdentity() (uint32, TextureTarget) { return s.backing().GLIdentity() }

func (s *SubTexture) IsForeign() bool { return s.backing().IsForeign() }

func (s *SubTexture) HasAlpha() bool { return s.backing().HasAlpha() }

func (s *SubTexture) Width() int { return s.W }

func (s *SubTexture) Height() int { return s.H }

func (s *SubTexture) SetFilters(min, mag Filter) { s.backing().SetFilters(min, mag) }

func (s *SubTexture) EnsureWrapModes(ws, wt, wp WrapMode) { s.backing().EnsureWrapModes(ws, wt, wp) }

// Page returns the index of the page holding the region.
func (s *SubTexture) Page() int { return s.page }

// TexCoords returns the region's corners in normalized page coordinates.
func (s *SubTexture) TexCoords() (s1, t1, s2, t2 float32) {
	b := s.backing()
	pw, ph := float32(b.Width()), float32(b.Height())
	if pw == 0 || ph == 0 {
		return 0, 0, 1, 1
	}
	w, h := s.W, s.H
	if s.Rotated {
		w, h = h, w
	}
	return float32(s.X) / pw, float32(s.Y) / ph,
		float32(s.X+w) / pw, float32(s.Y+h) / ph
}

// Atlas holds one or more page textures and the named regions packed into
// them.
type Atlas struct {
	ctx     *Context
	pages   []Texture
	regions map[string]*SubTexture
}

// Pages returns the page textures indexed by page number.
func (a *Atlas) Pages() []Texture { return a.pages }

// Region returns the named region. A missing name is reported and answered
// with a 1x1 placeholder sampling the default texture.
func (a *Atlas) Region(name string) *SubTexture {
	if r, ok := a.regions[name]; ok {
		return r
	}
	Logger().Warn("cogl: atlas region not found, using placeholder", "name", name)
	return &SubTexture{atlas: a, W: 1, H: 1, OriginalW: 1, OriginalH: 1, isPlaceholder: true}
}

// Len returns the number of regions.
func (a *Atlas) Len() int { return len(a.regions) }

// Migrate replaces the texture of page 0. See MigratePage.
func (a *Atlas) Migrate(tex Texture) { a.MigratePage(0, tex) }

// MigratePage moves page to a new texture, for instance after the atlas
// was repacked into a larger one. Every region on the page reports a
// storage change so units sampling it rebind.
func (a *Atlas) MigratePage(page int, tex Texture) {
	if page < 0 || page >= len(a.pages) {
		panic(fmt.Sprintf("cogl: atlas page %d out of range", page))
	}
	old := a.pages[page]
	a.pages[page] = tex
	a.ctx.TextureStorageChanged(old)
	for _, r := range a.regions {
		if r.page == page {
			a.ctx.TextureStorageChanged(r)
		}
	}
}

// LoadAtlas parses TexturePacker JSON data and associates the given page
// textures. Supports both the hash format (single "frames" object) and the
// array format ("textures" array with per-page frame lists).
func (ctx *Context) LoadAtlas(jsonData []byte, pages []Texture) (*Atlas, error) {
	var layout struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &layout); err != nil {
		return nil, fmt.Errorf("cogl: failed to parse atlas JSON: %w", err)
	}

	atlas := &Atlas{
		ctx:     ctx,
		pages:   pages,
		regions: make(map[string]*SubTexture),
	}

	var err error
	switch {
	case layout.Textures != nil:
		err = parseArrayFormat(layout.Textures, atlas)
	case layout.Frames != nil:
		err = parseHashFrames(layout.Frames, 0, atlas)
	default:
		err = errors.New(`cogl: atlas JSON has neither "frames" nor "textures" key`)
	}
	if err != nil {
		return nil, err
	}

	for name, r := range atlas.regions {
		if r.page >= len(pages) {
			return nil, fmt.Errorf("cogl: atlas region %q references missing page %d", name, r.page)
		}
	}
	return atlas, nil
}

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// parseHashFrames parses the hash format: {"name": {frame...}, ...}
func parseHashFrames(raw json.RawMessage, page int, atlas *Atlas) error {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return fmt.Errorf("cogl: failed to parse atlas frames: %w", err)
	}
	for name, f := range frames {
		atlas.regions[name] = frameToRegion(atlas, f, page)
	}
	return nil
}

// parseArrayFormat parses the array format: [{"image":"...", "frames":{...}}, ...]
func parseArrayFormat(raw json.RawMessage, atlas *Atlas) error {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return fmt.Errorf("cogl: failed to parse atlas textures array: %w", err)
	}
	for i, tex := range textures {
		for name, f := range tex.Frames {
			atlas.regions[name] = frameToRegion(atlas, f, i)
		}
	}
	return nil
}

func frameToRegion(atlas *Atlas, f jsonFrame, page int) *SubTexture {
	return &SubTexture{
		atlas:     atlas,
		page:      page,
		X:         f.Frame.X,
		Y:         f.Frame.Y,
		W:         f.Frame.W,
		H:         f.Frame.H,
		OriginalW: f.SourceSize.W,
		OriginalH: f.SourceSize.H,
		OffsetX:   f.SpriteSourceSize.X,
		OffsetY:   f.SpriteSourceSize.Y,
		Rotated:   f.Rotated,
	}
}
