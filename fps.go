package clutter

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// statsOverlay shows the presentation rate and the master clock's last
// dispatch timings. It refreshes about twice a second from a post-paint
// repaint function.
type statsOverlay struct {
	clock *MasterClock
	img   *ebiten.Image
	last  time.Time
}

func newStatsOverlay(clock *MasterClock) *statsOverlay {
	return &statsOverlay{clock: clock, img: ebiten.NewImage(180, 64)}
}

// refresh redraws the overlay text. It always returns true so the repaint
// function stays registered.
func (o *statsOverlay) refresh() bool {
	now := o.clock.Now()
	if now.Sub(o.last) < 500*time.Millisecond {
		return true
	}
	o.last = now

	st := o.clock.LastStats()
	o.img.Clear()
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nDispatch: %s\nTimelines: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), st.Total().Round(time.Microsecond), st.Timelines))
	return true
}

func (o *statsOverlay) draw(screen *ebiten.Image) {
	screen.DrawImage(o.img, nil)
}
