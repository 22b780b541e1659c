package earth

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/Godawela/globe"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// Camera setup.
const (
	cameraFov      = 75
	cameraNear     = 0.1
	cameraFar      = 1000
	cameraDistance = 5
	windowTitle    = "Earth"
)

// App ties the scene, its animation, controls, background music and resize
// handling together. Everything it owns runs on the Ebitengine update and
// draw goroutines.
type App struct {
	Scene     *globe.Scene
	Camera    *globe.PerspectiveCamera
	Controls  *globe.OrbitControls
	Nodes     *Nodes
	Animation *Animation
	Loader    *globe.Loader
	// Music is nil when no music file is configured.
	Music *globe.AudioCue

	cfg           Config
	log           *slog.Logger
	width, height int
}

type appOptions struct {
	fsys    fs.FS
	log     *slog.Logger
	players globe.PlayerFactory
}

// Option configures NewApp.
type Option func(*appOptions)

// WithAssets reads assets from fsys instead of the configured asset root.
func WithAssets(fsys fs.FS) Option {
	return func(o *appOptions) { o.fsys = fsys }
}

// WithLogger sets the logger shared by the loader and the scene.
func WithLogger(l *slog.Logger) Option {
	return func(o *appOptions) { o.log = l }
}

// WithPlayerFactory replaces the Ebitengine audio player, mainly for tests.
func WithPlayerFactory(f globe.PlayerFactory) Option {
	return func(o *appOptions) { o.players = f }
}

// NewApp validates cfg, issues every asset load and builds the scene. The
// returned app is ready to hand to Run; nothing blocks on I/O.
func NewApp(cfg Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := appOptions{log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.fsys == nil {
		o.fsys = os.DirFS(cfg.AssetRoot)
	}

	loader := globe.NewLoader(o.fsys,
		globe.WithLogger(o.log),
		globe.WithMaxTextureSize(cfg.MaxTextureSize),
	)
	if o.players == nil {
		o.players = lazyEbitenPlayers(loader.SampleRate())
	}

	camera := globe.NewPerspectiveCamera(cameraFov, 1, cameraNear, cameraFar)
	camera.Position = globe.Vec3{0, 0, cameraDistance}
	camera.LookAt(globe.Vec3{})

	scene := globe.NewScene(camera)
	scene.SetLogger(o.log)
	scene.SetShaderLighting(cfg.ShaderLighting)
	scene.SetDebugMode(cfg.Debug)

	a := &App{
		Scene:  scene,
		Camera: camera,
		Loader: loader,
		cfg:    cfg,
		log:    o.log,
	}
	a.Nodes = Build(scene, loader, cfg)
	a.Animation = NewAnimation(a.Nodes, cfg)

	a.Controls = globe.NewOrbitControls(camera)
	a.Controls.SmoothZoom = cfg.SmoothZoom
	a.Controls.Attach(scene)

	if cfg.Music != "" {
		a.Music = globe.NewAudioCue(scene, loader.LoadAudio(cfg.Music), o.players,
			globe.WithVolume(cfg.Volume), globe.WithCueLogger(o.log))
	}

	scene.OnResize(a.Resize)
	scene.SetUpdateFunc(a.Update)

	o.log.Debug("scene built",
		slog.Int("nodes", scene.Root().NumDescendants()),
		slog.Int("pendingAssets", loader.Pending()))
	return a, nil
}

// lazyEbitenPlayers creates the shared audio context on first use, when the
// music has finished decoding.
func lazyEbitenPlayers(sampleRate int) globe.PlayerFactory {
	return func(stream globe.AudioStream) (globe.Player, error) {
		ctx := audio.CurrentContext()
		if ctx == nil {
			ctx = audio.NewContext(sampleRate)
		}
		return globe.EbitenPlayerFactory(ctx)(stream)
	}
}

// Update runs once per tick, after input has been dispatched: it applies
// finished asset loads, moves the camera and advances the animation.
func (a *App) Update() error {
	a.Loader.Poll()
	dt := a.Scene.Delta()
	a.Controls.Update(dt)
	a.Animation.Tick(dt)
	return nil
}

// Resize adapts the camera and render surface to a w×h viewport. Repeated
// calls with the current size, and non-positive sizes, do nothing.
func (a *App) Resize(w, h int) {
	if w <= 0 || h <= 0 || (w == a.width && h == a.height) {
		return
	}
	a.width, a.height = w, h
	a.Camera.Aspect = float64(w) / float64(h)
	a.Camera.UpdateProjectionMatrix()
	a.Scene.SetSurfaceSize(w, h)
	a.log.Debug("resized", slog.Int("width", w), slog.Int("height", h))
}

// Size returns the last viewport size applied by Resize.
func (a *App) Size() (w, h int) {
	return a.width, a.height
}

// Run opens a window of the given size and blocks until it closes.
func (a *App) Run(width, height int) error {
	err := globe.Run(a.Scene, globe.RunConfig{
		Title:   windowTitle,
		Width:   width,
		Height:  height,
		ShowFPS: a.cfg.ShowFPS,
		Debug:   a.cfg.Debug,
	})
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
