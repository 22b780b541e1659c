package globe

import (
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	defaultCommandCap = 64
	maxFrameDelta     = 0.25 // seconds; longer stalls are clamped
)

// Scene is the top-level object that owns the node tree, the camera, input
// state, and render buffers. A Scene is not safe for concurrent use; every
// method is expected to run on the Ebitengine update/draw goroutine.
type Scene struct {
	root   *Node
	camera *PerspectiveCamera
	debug  bool

	// ClearColor fills the surface before each frame. The zero value is
	// transparent black.
	ClearColor Color

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string

	// Surface
	surfaceW, surfaceH int
	resizeHandlers     []func(w, h int)
	layoutW, layoutH   int

	// Frame timing
	clock     func() time.Time
	lastFrame time.Time
	dt        float64
	frames    uint64

	updateFunc func() error

	// Render state
	commands []RenderCommand
	sortBuf  []RenderCommand
	lights   []frameLight
	draw     drawBuffers
	stats    debugStats
	fps      fpsOverlay

	shader         *ebiten.Shader
	shaderFailed   bool
	shaderLighting bool

	log *slog.Logger

	// Input state
	handlers     handlerRegistry
	pointers     [maxPointers]pointerState
	dragDeadZone float64
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
	pinch        pinchState
	injectQueue  []syntheticEvent

	// Automation
	testRunner      *TestRunner
	screenshotQueue []string
}

// NewScene creates a new scene with a pre-created root group and the given
// camera. A nil camera gets a 75° camera at the origin.
func NewScene(camera *PerspectiveCamera) *Scene {
	if camera == nil {
		camera = NewPerspectiveCamera(75, 1, 0.1, 1000)
	}
	return &Scene{
		root:           NewGroup("root"),
		camera:         camera,
		ScreenshotDir:  "screenshots",
		clock:          time.Now,
		commands:       make([]RenderCommand, 0, defaultCommandCap),
		sortBuf:        make([]RenderCommand, 0, defaultCommandCap),
		dragDeadZone:   defaultDragDeadZone,
		shaderLighting: true,
	}
}

// SetLogger sets the logger used for recoverable runtime problems such as a
// shader that fails to compile. A nil logger restores slog.Default.
func (s *Scene) SetLogger(l *slog.Logger) {
	s.log = l
}

func (s *Scene) logger() *slog.Logger {
	if s.log == nil {
		return slog.Default()
	}
	return s.log
}

// Root returns the scene's root group node.
func (s *Scene) Root() *Node {
	return s.root
}

// Camera returns the camera the scene renders from.
func (s *Scene) Camera() *PerspectiveCamera {
	return s.camera
}

// SetUpdateFunc sets a callback invoked once per Update, after input has been
// processed and node OnUpdate callbacks have run.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// OnResize registers fn to run whenever the outside size reported to Layout
// changes. fn is responsible for resizing the render surface with
// SetSurfaceSize; when no handler is registered Layout does it directly.
func (s *Scene) OnResize(fn func(w, h int)) {
	s.resizeHandlers = append(s.resizeHandlers, fn)
}

// SetSurfaceSize sets the render surface dimensions in pixels.
func (s *Scene) SetSurfaceSize(w, h int) {
	s.surfaceW, s.surfaceH = w, h
}

// SurfaceSize returns the render surface dimensions in pixels.
func (s *Scene) SurfaceSize() (w, h int) {
	return s.surfaceW, s.surfaceH
}

// Layout reports a new outside size and returns the render surface size. It
// is meant to be called from ebiten.Game.Layout.
func (s *Scene) Layout(outsideW, outsideH int) (int, int) {
	if outsideW > 0 && outsideH > 0 && (outsideW != s.layoutW || outsideH != s.layoutH) {
		s.layoutW, s.layoutH = outsideW, outsideH
		if len(s.resizeHandlers) == 0 {
			s.SetSurfaceSize(outsideW, outsideH)
		}
		for _, fn := range s.resizeHandlers {
			fn(outsideW, outsideH)
		}
	}
	if s.surfaceW <= 0 || s.surfaceH <= 0 {
		return max(outsideW, 1), max(outsideH, 1)
	}
	return s.surfaceW, s.surfaceH
}

// Delta returns the wall-clock duration of the last frame in seconds.
func (s *Scene) Delta() float64 {
	return s.dt
}

// Frames returns how many times Update has run.
func (s *Scene) Frames() uint64 {
	return s.frames
}

// Update processes input, runs per-node callbacks and the update function.
func (s *Scene) Update() error {
	now := s.clock()
	switch {
	case s.lastFrame.IsZero():
		s.dt = 1.0 / 60
	default:
		s.dt = min(now.Sub(s.lastFrame).Seconds(), maxFrameDelta)
	}
	s.lastFrame = now
	s.frames++

	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.processInput()
	s.runNodeUpdates(s.root)
	s.fps.update(s)
	if s.updateFunc != nil {
		return s.updateFunc()
	}
	return nil
}

func (s *Scene) runNodeUpdates(n *Node) {
	if n.OnUpdate != nil {
		n.OnUpdate(s.dt)
	}
	for _, c := range n.children {
		s.runNodeUpdates(c)
	}
}

// Draw refreshes world transforms, compiles render commands from the camera's
// point of view, sorts them and submits them to screen.
func (s *Scene) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if s.debug {
		s.stats = debugStats{}
		t0 = time.Now()
	}

	b := screen.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}

	view := s.compile(w, h)

	if s.debug {
		s.stats.traverseTime = time.Since(t0)
		t0 = time.Now()
	}

	s.mergeSort()

	if s.debug {
		s.stats.sortTime = time.Since(t0)
		s.stats.commandCount = len(s.commands)
		t0 = time.Now()
	}

	s.submit(screen, view)

	if s.debug {
		s.stats.submitTime = time.Since(t0)
		s.debugLog(s.stats)
	}

	s.flushScreenshots(screen)
	s.fps.draw(screen)
}

// compile updates world matrices, collects lights and emits one render
// command per visible drawable node. It returns the frame view used by submit.
func (s *Scene) compile(width, height float64) frameView {
	updateWorldTransform(s.root, mgl64.Ident4(), false)
	s.lights = collectLights(s.root, s.lights[:0])
	view := newFrameView(s.camera, width, height, s.lights)
	s.commands = s.commands[:0]
	treeOrder := 0
	s.traverse(s.root, &view, &treeOrder)
	return view
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are printed, and
// per-frame timing stats are logged to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply.
var globalDebug bool
