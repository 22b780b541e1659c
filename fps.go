package globe

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsRefresh is how often, in seconds, the overlay text is rebuilt.
const fpsRefresh = 0.5

// fpsOverlay prints frame rate and scene counters in the top-left corner.
type fpsOverlay struct {
	enabled bool
	elapsed float64
	text    string
}

// SetFPSOverlay shows or hides the frame-rate overlay.
func (s *Scene) SetFPSOverlay(enabled bool) {
	s.fps.enabled = enabled
	s.fps.elapsed = fpsRefresh
}

// update refreshes the overlay text about twice a second.
func (o *fpsOverlay) update(s *Scene) {
	if !o.enabled {
		return
	}
	o.elapsed += s.dt
	if o.elapsed < fpsRefresh {
		return
	}
	o.elapsed = 0
	meshes, points := countCommandTypes(s.commands)
	o.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nmeshes: %d points: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), meshes, points)
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	if !o.enabled || o.text == "" {
		return
	}
	ebitenutil.DebugPrint(screen, o.text)
}
