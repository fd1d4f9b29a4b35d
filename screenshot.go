package clutter

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/clutter/cogl"
)

// A screenshotRequest waits for the scene to redraw past the frame count
// it was made at.
type screenshotRequest struct {
	label string
	frame int
}

// Screenshot queues a redraw and captures the frame it presents. The PNG
// lands in ScreenshotDir as <redraw>_<label>.png, so runs driven by a
// TestRunner produce the same names every time.
func (s *Scene) Screenshot(label string) {
	s.screenshots = append(s.screenshots, screenshotRequest{label: label, frame: s.redraws})
	s.QueueRedraw()
}

// dueScreenshots removes and returns the labels whose redraw has happened.
func (s *Scene) dueScreenshots() []string {
	var due []string
	pending := s.screenshots[:0]
	for _, r := range s.screenshots {
		if s.redraws > r.frame {
			due = append(due, r.label)
		} else {
			pending = append(pending, r)
		}
	}
	s.screenshots = pending
	return due
}

// captureScreenshots encodes frame once for every due request.
func (s *Scene) captureScreenshots(frame *ebiten.Image) {
	due := s.dueScreenshots()
	if len(due) == 0 {
		return
	}
	if err := os.MkdirAll(s.ScreenshotDir, 0o755); err != nil {
		Logger().Warn("screenshot", "dir", s.ScreenshotDir, "err", err)
		return
	}

	b := frame.Bounds()
	premul := make([]byte, 4*b.Dx()*b.Dy())
	frame.ReadPixels(premul)
	img := straightAlpha(premul, b.Dx(), b.Dy())

	for _, label := range due {
		name := fmt.Sprintf("%06d_%s.png", s.redraws, sanitizeLabel(label))
		path := filepath.Join(s.ScreenshotDir, name)
		if err := savePNG(path, img); err != nil {
			Logger().Warn("screenshot", "err", err)
			continue
		}
		Logger().Info("screenshot saved", "path", path, "redraw", s.redraws)
	}
}

// straightAlpha turns the premultiplied pixels read back from the target
// into an NRGBA image.
func straightAlpha(premul []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+4 <= len(premul) && i+4 <= len(img.Pix); i += 4 {
		c := cogl.Color{R: premul[i], G: premul[i+1], B: premul[i+2], A: premul[i+3]}.Unpremultiplied()
		copy(img.Pix[i:i+4], []byte{c.R, c.G, c.B, c.A})
	}
	return img
}

func savePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// sanitizeLabel keeps ASCII letters, digits, '-' and '.'.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		if r == '-' || r == '.' || strings.ContainsRune(labelChars, r) {
			return r
		}
		return '_'
	}, label)
}

const labelChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
