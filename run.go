package globe

import (
	"runtime"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int

	// TPS is the update rate. Zero ties updates to the display refresh
	// (ebiten.SyncWithFPS), so one Update runs per rendered frame.
	TPS int

	// FixedSize disables window resizing.
	FixedSize  bool
	Fullscreen bool
	ShowFPS    bool
	Debug      bool
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene *Scene
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && runtime.GOOS != "js" {
		return ebiten.Termination
	}
	return g.scene.Update()
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	return g.scene.Layout(outsideW, outsideH)
}

// Run opens a window and drives scene until the window closes or Escape is
// pressed. F toggles fullscreen.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = 1280
	}
	if h <= 0 {
		h = 720
	}
	ebiten.SetWindowSize(w, h)
	if !cfg.FixedSize {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetFullscreen(cfg.Fullscreen)
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	} else {
		ebiten.SetTPS(ebiten.SyncWithFPS)
	}
	scene.SetFPSOverlay(cfg.ShowFPS)
	if cfg.Debug {
		scene.SetDebugMode(true)
	}
	err := ebiten.RunGame(&game{scene: scene})
	if err == ebiten.Termination {
		return nil
	}
	return err
}
