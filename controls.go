package globe

import (
	"math"

	"github.com/tanema/gween/ease"
)

const (
	orbitEPS            = 1e-6
	defaultDamping      = 0.05
	defaultZoomDuration = 0.25 // seconds
)

// OrbitControls orbits a camera around a target point. A primary drag
// rotates, a secondary drag (right button, or left with Shift, Ctrl or Meta)
// pans, and the wheel, a middle drag or a two-finger pinch dolly toward or
// away from the target. One-finger touch drags rotate.
//
// Call Update once per frame after input has been processed.
type OrbitControls struct {
	Camera *PerspectiveCamera
	Target Vec3

	Enabled       bool
	EnableRotate  bool
	EnableZoom    bool
	EnablePan     bool
	EnableDamping bool
	DampingFactor float64

	RotateSpeed float64
	ZoomSpeed   float64
	PanSpeed    float64

	MinDistance   float64
	MaxDistance   float64
	MinPolarAngle float64
	MaxPolarAngle float64

	// SmoothZoom eases wheel zoom steps over a short tween instead of
	// applying them in one frame.
	SmoothZoom bool

	scene *Scene

	deltaTheta float64
	deltaPhi   float64
	scale      float64
	panOffset  Vec3

	zoomRadius float64
	zoomGoal   float64
	zoomTween  *TweenGroup

	handles []CallbackHandle
}

// NewOrbitControls creates controls for camera orbiting its current target.
func NewOrbitControls(camera *PerspectiveCamera) *OrbitControls {
	return &OrbitControls{
		Camera:        camera,
		Target:        camera.Target,
		Enabled:       true,
		EnableRotate:  true,
		EnableZoom:    true,
		EnablePan:     true,
		DampingFactor: defaultDamping,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		PanSpeed:      1,
		MaxDistance:   math.Inf(1),
		MaxPolarAngle: math.Pi,
		scale:         1,
	}
}

// Attach subscribes the controls to s's input events. The surface height of
// s scales rotation and pan so that a drag across the full height turns the
// camera a full circle.
func (c *OrbitControls) Attach(s *Scene) {
	c.Detach()
	c.scene = s
	// Drag start and end carry movement too: the press-to-threshold motion
	// and the final step before release.
	c.handles = append(c.handles,
		s.OnDragStart(c.onDrag),
		s.OnDrag(c.onDrag),
		s.OnDragEnd(c.onDrag),
		s.OnWheel(c.onWheel),
		s.OnPinch(c.onPinch),
	)
}

// Detach removes every handler installed by Attach.
func (c *OrbitControls) Detach() {
	for _, h := range c.handles {
		h.Remove()
	}
	c.handles = c.handles[:0]
	c.scene = nil
}

func (c *OrbitControls) viewHeight() float64 {
	if c.scene != nil {
		if _, h := c.scene.SurfaceSize(); h > 0 {
			return float64(h)
		}
	}
	return 1
}

func (c *OrbitControls) onDrag(ctx DragContext) {
	if !c.Enabled {
		return
	}
	pan := ctx.Button == MouseButtonRight ||
		(ctx.Button == MouseButtonLeft && ctx.Modifiers&(ModShift|ModCtrl|ModMeta) != 0)
	switch {
	case ctx.Button == MouseButtonMiddle && !ctx.Touch:
		if !c.EnableZoom {
			return
		}
		switch {
		case ctx.DeltaY > 0:
			c.DollyOut(c.zoomScale())
		case ctx.DeltaY < 0:
			c.DollyIn(c.zoomScale())
		}
	case pan && !ctx.Touch:
		if c.EnablePan {
			c.Pan(ctx.DeltaX*c.PanSpeed, ctx.DeltaY*c.PanSpeed)
		}
	default:
		if c.EnableRotate {
			h := c.viewHeight()
			c.RotateLeft(2 * math.Pi * ctx.DeltaX / h * c.RotateSpeed)
			c.RotateUp(2 * math.Pi * ctx.DeltaY / h * c.RotateSpeed)
		}
	}
}

func (c *OrbitControls) onWheel(ctx WheelContext) {
	if !c.Enabled || !c.EnableZoom || ctx.DeltaY == 0 {
		return
	}
	factor := c.zoomScale()
	if ctx.DeltaY < 0 {
		factor = 1 / factor
	}
	if c.SmoothZoom {
		c.smoothDolly(factor)
		return
	}
	c.scale *= factor
}

func (c *OrbitControls) onPinch(ctx PinchContext) {
	if !c.Enabled {
		return
	}
	// Spreading the fingers (ScaleDelta > 0) zooms in.
	if spread := 1 + ctx.ScaleDelta; c.EnableZoom && ctx.ScaleDelta != 0 && spread > 0 {
		c.DollyIn(math.Pow(1/spread, c.ZoomSpeed))
	}
	if c.EnablePan {
		c.Pan(ctx.CenterDeltaX*c.PanSpeed, ctx.CenterDeltaY*c.PanSpeed)
	}
}

func (c *OrbitControls) zoomScale() float64 {
	return math.Pow(0.95, c.ZoomSpeed)
}

// RotateLeft orbits the camera horizontally by angle radians.
func (c *OrbitControls) RotateLeft(angle float64) {
	c.deltaTheta -= angle
}

// RotateUp orbits the camera vertically by angle radians.
func (c *OrbitControls) RotateUp(angle float64) {
	c.deltaPhi -= angle
}

// DollyIn moves the camera toward the target: the next Update multiplies the
// orbit radius by dollyScale, which is below 1 for a zoom in.
func (c *OrbitControls) DollyIn(dollyScale float64) {
	c.scale *= dollyScale
}

// DollyOut moves the camera away from the target by the inverse of
// dollyScale.
func (c *OrbitControls) DollyOut(dollyScale float64) {
	c.scale /= dollyScale
}

// smoothDolly retargets the zoom tween so the orbit radius eases toward the
// current goal times factor.
func (c *OrbitControls) smoothDolly(factor float64) {
	radius := c.Camera.Position.Sub(c.Target).Len()
	if c.zoomTween == nil || c.zoomTween.Done {
		c.zoomRadius = radius
		c.zoomGoal = radius
	}
	c.zoomGoal = c.clampDistance(c.zoomGoal * factor)
	c.zoomTween = TweenFloat(&c.zoomRadius, c.zoomGoal, defaultZoomDuration, ease.OutQuad)
}

// Pan moves the target and camera parallel to the view plane by a screen
// delta in pixels. Dragging right moves the scene right.
func (c *OrbitControls) Pan(dx, dy float64) {
	cam := c.Camera
	offset := cam.Position.Sub(c.Target)
	targetDistance := offset.Len() * math.Tan(cam.Fov/2*math.Pi/180)
	h := c.viewHeight()
	world := cam.WorldMatrix()
	left := world.Col(0).Vec3().Mul(-2 * dx * targetDistance / h)
	up := world.Col(1).Vec3().Mul(2 * dy * targetDistance / h)
	c.panOffset = c.panOffset.Add(left).Add(up)
}

func (c *OrbitControls) clampDistance(r float64) float64 {
	return math.Max(c.MinDistance, math.Min(c.MaxDistance, r))
}

// Update applies pending rotation, dolly and pan to the camera. dt is the
// frame time in seconds and only drives smooth zoom. It reports whether the
// camera moved.
func (c *OrbitControls) Update(dt float64) bool {
	cam := c.Camera
	offset := cam.Position.Sub(c.Target)
	radius := offset.Len()
	theta := math.Atan2(offset[0], offset[2])
	phi := 0.0
	if radius > 0 {
		phi = math.Acos(math.Max(-1, math.Min(1, offset[1]/radius)))
	}

	if c.EnableDamping {
		theta += c.deltaTheta * c.DampingFactor
		phi += c.deltaPhi * c.DampingFactor
	} else {
		theta += c.deltaTheta
		phi += c.deltaPhi
	}
	phi = math.Max(c.MinPolarAngle, math.Min(c.MaxPolarAngle, phi))
	phi = math.Max(orbitEPS, math.Min(math.Pi-orbitEPS, phi))

	if c.zoomTween != nil && !c.zoomTween.Done {
		c.zoomTween.Update(float32(dt))
		if radius > 0 {
			c.scale *= c.zoomRadius / radius
		}
	}
	if r := c.clampDistance(radius * c.scale); r > 0 && !math.IsInf(r, 0) {
		radius = r
	}

	if c.EnableDamping {
		c.Target = c.Target.Add(c.panOffset.Mul(c.DampingFactor))
	} else {
		c.Target = c.Target.Add(c.panOffset)
	}

	sinPhi := math.Sin(phi)
	offset = Vec3{
		radius * sinPhi * math.Sin(theta),
		radius * math.Cos(phi),
		radius * sinPhi * math.Cos(theta),
	}
	prev := cam.Position
	cam.Position = c.Target.Add(offset)
	cam.LookAt(c.Target)

	if c.EnableDamping {
		c.deltaTheta *= 1 - c.DampingFactor
		c.deltaPhi *= 1 - c.DampingFactor
		c.panOffset = c.panOffset.Mul(1 - c.DampingFactor)
	} else {
		c.deltaTheta, c.deltaPhi = 0, 0
		c.panOffset = Vec3{}
	}
	c.scale = 1

	return cam.Position.Sub(prev).Len() > orbitEPS
}
