package globe

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func assertVec(t *testing.T, label string, got, want Vec3) {
	t.Helper()
	if !vecApproxEqual(got, want, 1e-9) {
		t.Errorf("%s = %v, want %v", label, got, want)
	}
}

// --- computeLocalMatrix ---

func TestLocalMatrixIdentity(t *testing.T) {
	n := NewGroup("n")
	if m := computeLocalMatrix(n); !m.ApproxEqualThreshold(mgl64.Ident4(), epsilon) {
		t.Errorf("identity node matrix = %v", m)
	}
}

func TestLocalMatrixTranslation(t *testing.T) {
	n := NewGroup("n")
	n.SetPosition(1, 2, 3)
	m := computeLocalMatrix(n)
	assertVec(t, "origin", mgl64.TransformCoordinate(Vec3{}, m), Vec3{1, 2, 3})
}

func TestLocalMatrixScaleBeforeTranslate(t *testing.T) {
	n := NewGroup("n")
	n.SetPosition(10, 0, 0)
	n.SetScalar(2)
	m := computeLocalMatrix(n)
	assertVec(t, "unit x", mgl64.TransformCoordinate(Vec3{1, 0, 0}, m), Vec3{12, 0, 0})
}

func TestLocalMatrixRotateY(t *testing.T) {
	n := NewGroup("n")
	n.RotateY(math.Pi / 2)
	m := computeLocalMatrix(n)
	// Right-handed: +X rotates toward -Z about +Y.
	assertVec(t, "unit x", mgl64.TransformCoordinate(Vec3{1, 0, 0}, m), Vec3{0, 0, -1})
}

func TestLocalMatrixRotationOrderXYZ(t *testing.T) {
	n := NewGroup("n")
	n.SetRotation(math.Pi/2, math.Pi/2, 0)
	m := computeLocalMatrix(n)
	want := mgl64.HomogRotate3DX(math.Pi / 2).Mul4(mgl64.HomogRotate3DY(math.Pi / 2))
	if !m.ApproxEqualThreshold(want, epsilon) {
		t.Errorf("matrix = %v, want Rx*Ry = %v", m, want)
	}
}

// --- World transforms ---

func TestWorldTransformParentChild(t *testing.T) {
	parent := NewGroup("parent")
	child := NewGroup("child")
	parent.AddChild(child)
	parent.SetPosition(5, 0, 0)
	parent.SetScalar(2)
	child.SetPosition(1, 0, 0)

	updateWorldTransform(parent, mgl64.Ident4(), false)

	assertVec(t, "child world", child.WorldPosition(), Vec3{7, 0, 0})
}

func TestWorldTransformTiltedGroup(t *testing.T) {
	tilt := NewGroup("tilt")
	tilt.SetRotation(0, 0, -23.4*math.Pi/180)
	spin := NewGroup("spin")
	tilt.AddChild(spin)
	spin.RotateY(1)

	pole := NewGroup("pole")
	spin.AddChild(pole)
	pole.SetPosition(0, 1, 0)

	updateWorldTransform(tilt, mgl64.Ident4(), false)

	// Spinning about the local Y axis never moves the pole.
	angle := 23.4 * math.Pi / 180
	assertVec(t, "pole", pole.WorldPosition(), Vec3{math.Sin(angle), math.Cos(angle), 0})
}

func TestWorldTransformDirtyOnlyRecomputesWhenNeeded(t *testing.T) {
	parent := NewGroup("parent")
	child := NewGroup("child")
	parent.AddChild(child)
	updateWorldTransform(parent, mgl64.Ident4(), false)

	if parent.transformDirty || child.transformDirty {
		t.Fatal("dirty flags should be cleared after update")
	}

	// Direct field writes without MarkDirty are not observed.
	parent.Position = Vec3{3, 0, 0}
	updateWorldTransform(parent, mgl64.Ident4(), false)
	assertVec(t, "stale child", child.WorldPosition(), Vec3{})

	parent.MarkDirty()
	updateWorldTransform(parent, mgl64.Ident4(), false)
	assertVec(t, "child after MarkDirty", child.WorldPosition(), Vec3{3, 0, 0})
}

func TestUpdateWorldMatrixFromAncestors(t *testing.T) {
	root := NewGroup("root")
	mid := NewGroup("mid")
	leaf := NewGroup("leaf")
	root.AddChild(mid)
	mid.AddChild(leaf)
	root.SetPosition(0, 0, -5)
	leaf.SetPosition(0, 2, 0)

	leaf.UpdateWorldMatrix()

	assertVec(t, "leaf", leaf.WorldPosition(), Vec3{0, 2, -5})
}

// --- Coordinate conversion ---

func TestLocalWorldRoundTrip(t *testing.T) {
	n := NewGroup("n")
	n.SetPosition(1, -2, 3)
	n.SetRotation(0.3, 0.7, -0.2)
	n.SetScale(2, 3, 0.5)
	n.UpdateWorldMatrix()

	p := Vec3{0.5, 4, -1}
	back := n.WorldToLocal(n.LocalToWorld(p))
	assertVec(t, "round trip", back, p)
}

func TestWorldToLocalSingular(t *testing.T) {
	n := NewGroup("n")
	n.SetScale(0, 1, 1)
	n.UpdateWorldMatrix()
	p := Vec3{1, 2, 3}
	assertVec(t, "singular", n.WorldToLocal(p), p)
}
