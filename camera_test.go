package globe

import (
	"math"
	"testing"
)

func TestCameraDefaults(t *testing.T) {
	cam := NewPerspectiveCamera(75, 4.0/3, 0.1, 1000)
	if cam.Up != (Vec3{0, 1, 0}) {
		t.Errorf("Up = %v, want +Y", cam.Up)
	}
	if cam.Target != (Vec3{0, 0, -1}) {
		t.Errorf("Target = %v, want -Z", cam.Target)
	}
}

func TestCameraProjectCenter(t *testing.T) {
	cam := NewPerspectiveCamera(75, 800.0/600, 0.1, 1000)
	cam.Position = Vec3{0, 0, 5}
	cam.LookAt(Vec3{})

	sx, sy, depth, ok := cam.Project(Vec3{}, 800, 600)
	if !ok {
		t.Fatal("origin should be visible")
	}
	if !approxEqual(sx, 400, 1e-6) || !approxEqual(sy, 300, 1e-6) {
		t.Errorf("Project(origin) = (%f, %f), want (400, 300)", sx, sy)
	}
	if !approxEqual(depth, 5, 1e-6) {
		t.Errorf("depth = %f, want 5", depth)
	}
}

func TestCameraProjectAxes(t *testing.T) {
	cam := NewPerspectiveCamera(90, 1, 0.1, 1000)
	cam.Position = Vec3{0, 0, 5}
	cam.LookAt(Vec3{})

	// +Y is up on screen, which is smaller pixel Y.
	_, sy, _, _ := cam.Project(Vec3{0, 1, 0}, 100, 100)
	if sy >= 50 {
		t.Errorf("up point sy = %f, want < 50", sy)
	}
	sx, _, _, _ := cam.Project(Vec3{1, 0, 0}, 100, 100)
	if sx <= 50 {
		t.Errorf("right point sx = %f, want > 50", sx)
	}
}

func TestCameraProjectFocalLength(t *testing.T) {
	cam := NewPerspectiveCamera(75, 1, 0.1, 1000)
	cam.Position = Vec3{0, 0, 5}
	cam.LookAt(Vec3{})

	_, sy, _, _ := cam.Project(Vec3{0, 1, 0}, 600, 600)
	want := 300 - cam.focalLength(600)/5
	if !approxEqual(sy, want, 1e-6) {
		t.Errorf("sy = %f, want %f", sy, want)
	}
}

func TestCameraProjectBehind(t *testing.T) {
	cam := NewPerspectiveCamera(75, 1, 0.1, 1000)
	cam.Position = Vec3{0, 0, 5}
	cam.LookAt(Vec3{})

	if _, _, _, ok := cam.Project(Vec3{0, 0, 10}, 100, 100); ok {
		t.Error("point behind camera should not project")
	}
}

func TestCameraAspectNonPositive(t *testing.T) {
	cam := NewPerspectiveCamera(75, 0, 0.1, 1000)
	m := cam.ProjectionMatrix()
	for i := range 16 {
		if math.IsNaN(m[i]) || math.IsInf(m[i], 0) {
			t.Fatalf("projection[%d] = %v, want finite", i, m[i])
		}
	}
}

func TestCameraDistanceAndWorldMatrix(t *testing.T) {
	cam := NewPerspectiveCamera(75, 1, 0.1, 1000)
	cam.Position = Vec3{3, 0, 4}
	cam.LookAt(Vec3{})
	if !approxEqual(cam.Distance(), 5, epsilon) {
		t.Errorf("Distance = %f, want 5", cam.Distance())
	}
	w := cam.WorldMatrix()
	if !vecApproxEqual(w.Col(3).Vec3(), cam.Position, 1e-9) {
		t.Errorf("world translation = %v, want %v", w.Col(3).Vec3(), cam.Position)
	}
	up := w.Col(1).Vec3()
	if !vecApproxEqual(up, Vec3{0, 1, 0}, 1e-9) {
		t.Errorf("camera up = %v, want +Y", up)
	}
}
