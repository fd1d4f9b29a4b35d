package clutter

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/clutter/cogl"
)

// SetupFunc prepares the scene before the window opens.
type SetupFunc func(clock *MasterClock, scene *Scene) error

// RunGame opens a window described by cfg and drives a Scene from a new
// MasterClock until the window is closed. Ebiten calls Update at the
// configured frame rate; the clock decides on each call whether a dispatch
// is due. With SyncToVBlank the scene is throttled until ebiten presents
// the previous frame.
//
// setup may be nil.
func RunGame(cfg Config, setup SetupFunc) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	w, h := cfg.Width, cfg.Height
	if w == 0 || h == 0 {
		def := DefaultConfig()
		w, h = def.Width, def.Height
	}

	clock := NewMasterClock(cfg)
	canvas := ebiten.NewImage(w, h)
	ctx := cogl.NewContext(cogl.NewEbitenDriver(canvas))
	defer ctx.Close()

	scene := NewScene(clock, ctx)
	scene.SetSwapThrottle(cfg.SyncToVBlank)
	scene.clear = func(c cogl.Color) {
		canvas.Fill(color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A})
	}

	g := &game{clock: clock, scene: scene, canvas: canvas, width: w, height: h}
	if cfg.Debug {
		g.overlay = newStatsOverlay(clock)
		clock.AddRepaintFunc(PostPaint, g.overlay.refresh)
	}

	if setup != nil {
		if err := setup(clock, scene); err != nil {
			return err
		}
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(w, h)
	ebiten.SetVsyncEnabled(cfg.SyncToVBlank)
	ebiten.SetTPS(cfg.FrameRate)
	return ebiten.RunGame(g)
}

// game adapts the clock and scene to ebiten.Game.
type game struct {
	clock   *MasterClock
	scene   *Scene
	canvas  *ebiten.Image
	input   inputPoller
	overlay *statsOverlay

	width, height int
}

func (g *game) Update() error {
	g.clock.Lock()
	defer g.clock.Unlock()
	g.input.poll(g.scene)
	if g.clock.Check() {
		g.clock.Dispatch()
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.clock.Lock()
	defer g.clock.Unlock()
	screen.DrawImage(g.canvas, nil)
	g.scene.SwapBuffers()
	if g.overlay != nil {
		g.overlay.draw(screen)
	}
	g.scene.captureScreenshots(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
