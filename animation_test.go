package globe

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenPositionReachesTarget(t *testing.T) {
	node := NewGroup("pos")
	node.SetPosition(10, 20, 30)

	g := TweenPosition(node, Vec3{100, 200, -5}, 1.0, ease.Linear)

	// Run for full duration using exact halves to avoid float32 accumulation drift.
	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	want := Vec3{100, 200, -5}
	for i := 0; i < 3; i++ {
		if math.Abs(node.Position[i]-want[i]) > 0.5 {
			t.Errorf("Position[%d] = %f, want ~%f", i, node.Position[i], want[i])
		}
	}
}

func TestTweenScaleMarksDirty(t *testing.T) {
	node := NewGroup("scale")
	node.UpdateWorldMatrix()

	g := TweenScale(node, Vec3{2, 2, 2}, 0.5, ease.Linear)
	g.Update(0.25)

	if !node.transformDirty {
		t.Error("node should be dirty after a tween step")
	}
	g.Update(0.25)
	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(node.Scale[0]-2) > 0.01 {
		t.Errorf("Scale.X = %f, want ~2", node.Scale[0])
	}
}

func TestTweenRotationHalfway(t *testing.T) {
	node := NewGroup("rot")
	g := TweenRotation(node, Vec3{0, math.Pi, 0}, 1.0, ease.Linear)

	g.Update(0.5)

	if g.Done {
		t.Fatal("should not be done at half duration")
	}
	if math.Abs(node.Rotation[1]-math.Pi/2) > 0.01 {
		t.Errorf("Rotation.Y = %f, want ~%f", node.Rotation[1], math.Pi/2)
	}
}

func TestTweenOpacity(t *testing.T) {
	mat := NewBasicMaterial()
	mat.Transparent = true
	mat.Opacity = 0
	node := NewMesh("glow", NewSphereGeometry(1, 8, 6), mat)

	g := TweenOpacity(node, 1, 1.0, ease.Linear)
	g.Update(1.0)

	if !g.Done {
		t.Fatal("expected Done")
	}
	if math.Abs(mat.Opacity-1) > 0.01 {
		t.Errorf("Opacity = %f, want ~1", mat.Opacity)
	}
}

func TestTweenOpacityWithoutMaterialPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	TweenOpacity(NewGroup("g"), 1, 1, ease.Linear)
}

func TestTweenFloat(t *testing.T) {
	v := 5.0
	g := TweenFloat(&v, 2.5, 0.25, ease.OutQuad)

	g.Update(0.125)
	if v >= 5 || v <= 2.5 {
		t.Errorf("midway value = %f, want between 2.5 and 5", v)
	}
	g.Update(0.125)
	if !g.Done {
		t.Fatal("expected Done")
	}
	if math.Abs(v-2.5) > 0.01 {
		t.Errorf("value = %f, want ~2.5", v)
	}
}

func TestTweenStopsOnDisposedNode(t *testing.T) {
	node := NewGroup("gone")
	g := TweenPosition(node, Vec3{1, 1, 1}, 1.0, ease.Linear)
	node.Dispose()

	g.Update(0.5)

	if !g.Done {
		t.Error("group should finish once its node is disposed")
	}
	if node.Position != (Vec3{}) {
		t.Errorf("Position = %v, want unchanged", node.Position)
	}
}
