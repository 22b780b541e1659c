package globe

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// PerspectiveCamera is a pinhole camera looking from Position at Target.
//
// Aspect must equal the render surface width/height at the moment of each
// render; call UpdateProjectionMatrix after changing Fov, Aspect, Near or Far.
type PerspectiveCamera struct {
	// Fov is the vertical field of view in degrees.
	Fov    float64
	Aspect float64
	Near   float64
	Far    float64

	Position Vec3
	Target   Vec3
	Up       Vec3

	projection mgl64.Mat4
}

// NewPerspectiveCamera creates a camera at the origin looking down -Z with the
// given projection parameters.
func NewPerspectiveCamera(fov, aspect, near, far float64) *PerspectiveCamera {
	c := &PerspectiveCamera{
		Fov:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Target: Vec3{0, 0, -1},
		Up:     Vec3{0, 1, 0},
	}
	c.UpdateProjectionMatrix()
	return c
}

// UpdateProjectionMatrix recomputes the cached projection from Fov, Aspect,
// Near and Far.
func (c *PerspectiveCamera) UpdateProjectionMatrix() {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	c.projection = mgl64.Perspective(mgl64.DegToRad(c.Fov), aspect, c.Near, c.Far)
}

// ProjectionMatrix returns the projection computed by the last
// UpdateProjectionMatrix call.
func (c *PerspectiveCamera) ProjectionMatrix() mgl64.Mat4 {
	return c.projection
}

// LookAt points the camera at target.
func (c *PerspectiveCamera) LookAt(target Vec3) {
	c.Target = target
}

// ViewMatrix returns the world-to-camera matrix.
func (c *PerspectiveCamera) ViewMatrix() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, c.Up)
}

// WorldMatrix returns the camera-to-world matrix. Its first column is the
// camera's right vector and its second column the camera's up vector.
func (c *PerspectiveCamera) WorldMatrix() mgl64.Mat4 {
	return c.ViewMatrix().Inv()
}

// Distance returns the distance from the camera to its target.
func (c *PerspectiveCamera) Distance() float64 {
	return c.Position.Sub(c.Target).Len()
}

// Project maps a world-space point to screen pixels on a surface of the given
// size. depth is the distance along the view direction. ok is false when the
// point is behind the near plane.
func (c *PerspectiveCamera) Project(p Vec3, width, height float64) (sx, sy, depth float64, ok bool) {
	vp := c.projection.Mul4(c.ViewMatrix())
	clip := vp.Mul4x1(p.Vec4(1))
	if clip[3] < c.Near {
		return 0, 0, clip[3], false
	}
	sx, sy = ndcToScreen(clip[0]/clip[3], clip[1]/clip[3], width, height)
	return sx, sy, clip[3], true
}

// ndcToScreen maps normalized device coordinates to pixels with Y down.
func ndcToScreen(nx, ny, width, height float64) (float64, float64) {
	return (nx + 1) * 0.5 * width, (1 - ny) * 0.5 * height
}

// focalLength returns the distance, in pixels, at which one world unit spans
// one pixel for a surface of the given height.
func (c *PerspectiveCamera) focalLength(height float64) float64 {
	return height / 2 / math.Tan(mgl64.DegToRad(c.Fov)/2)
}
