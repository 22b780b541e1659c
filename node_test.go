package globe

import "testing"

// --- Constructor defaults ---

func assertNodeDefaults(t *testing.T, n *Node, name string, typ NodeType) {
	t.Helper()
	if n.Name != name {
		t.Errorf("Name = %q, want %q", n.Name, name)
	}
	if n.Type != typ {
		t.Errorf("Type = %v, want %v", n.Type, typ)
	}
	if n.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if n.Scale != (Vec3{1, 1, 1}) {
		t.Errorf("Scale = %v, want {1,1,1}", n.Scale)
	}
	if !n.Visible {
		t.Error("Visible should default to true")
	}
	if !n.transformDirty {
		t.Error("new node should be transform-dirty")
	}
}

func TestNewGroupDefaults(t *testing.T) {
	assertNodeDefaults(t, NewGroup("g"), "g", NodeTypeGroup)
}

func TestNewMeshDefaults(t *testing.T) {
	geo := NewIcosahedronGeometry(1, 0)
	mat := NewBasicMaterial()
	n := NewMesh("mesh", geo, mat)
	assertNodeDefaults(t, n, "mesh", NodeTypeMesh)
	if n.Geometry != geo || n.Material != mat {
		t.Error("mesh should keep its geometry and material")
	}
}

func TestNewPointsDefaults(t *testing.T) {
	n := NewPoints("stars", NewPointsGeometry(nil, nil), NewPointsMaterial(0.2))
	assertNodeDefaults(t, n, "stars", NodeTypePoints)
}

func TestNewDirectionalLightDefaults(t *testing.T) {
	n := NewDirectionalLight("sun", Color{R: 1, G: 1, B: 1, A: 1}, 4)
	assertNodeDefaults(t, n, "sun", NodeTypeLight)
	if n.Light == nil || n.Light.Intensity != 4 {
		t.Errorf("Light = %+v, want intensity 4", n.Light)
	}
}

func TestUniqueIDs(t *testing.T) {
	a := NewGroup("a")
	b := NewGroup("b")
	c := NewMesh("c", nil, nil)
	if a.ID == b.ID || b.ID == c.ID || a.ID == c.ID {
		t.Errorf("IDs should be unique: %d, %d, %d", a.ID, b.ID, c.ID)
	}
}

// --- AddChild ---

func TestAddChildBasic(t *testing.T) {
	parent := NewGroup("parent")
	child := NewGroup("child")
	parent.AddChild(child)

	if child.Parent != parent {
		t.Error("child.Parent should be parent")
	}
	if parent.NumChildren() != 1 || parent.ChildAt(0) != child {
		t.Error("parent should hold exactly child")
	}
}

func TestAddChildReparent(t *testing.T) {
	p1 := NewGroup("p1")
	p2 := NewGroup("p2")
	child := NewGroup("child")

	p1.AddChild(child)
	p2.AddChild(child)
	if p1.NumChildren() != 0 {
		t.Error("p1 should have 0 children after reparent")
	}
	if p2.NumChildren() != 1 || child.Parent != p2 {
		t.Error("child should belong to p2")
	}
}

func expectPanic(t *testing.T, what string, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic for %s, got none", what)
		}
	}()
	fn()
}

func TestAddChildPanics(t *testing.T) {
	parent := NewGroup("parent")
	child := NewGroup("child")
	grandchild := NewGroup("grandchild")
	parent.AddChild(child)
	child.AddChild(grandchild)

	expectPanic(t, "cycle", func() { grandchild.AddChild(parent) })
	expectPanic(t, "self-add", func() { parent.AddChild(parent) })
	expectPanic(t, "nil child", func() { parent.AddChild(nil) })
	expectPanic(t, "index out of range", func() { parent.AddChildAt(NewGroup("x"), 5) })
}

// --- AddChildAt ---

func TestAddChildAt(t *testing.T) {
	parent := NewGroup("parent")
	a := NewGroup("a")
	b := NewGroup("b")
	c := NewGroup("c")
	parent.AddChild(a)
	parent.AddChild(c)
	parent.AddChildAt(b, 1)

	if parent.NumChildren() != 3 {
		t.Fatalf("NumChildren = %d, want 3", parent.NumChildren())
	}
	if parent.ChildAt(0) != a || parent.ChildAt(1) != b || parent.ChildAt(2) != c {
		t.Error("children order should be [a, b, c]")
	}
}

// --- Removal ---

func TestRemoveChild(t *testing.T) {
	parent := NewGroup("parent")
	child := NewGroup("child")
	parent.AddChild(child)
	parent.RemoveChild(child)

	if parent.NumChildren() != 0 || child.Parent != nil {
		t.Error("child should be fully detached")
	}
}

func TestRemoveChildWrongParentPanic(t *testing.T) {
	p1 := NewGroup("p1")
	p2 := NewGroup("p2")
	child := NewGroup("child")
	p1.AddChild(child)
	expectPanic(t, "wrong parent", func() { p2.RemoveChild(child) })
}

func TestRemoveChildAt(t *testing.T) {
	parent := NewGroup("parent")
	a, b, c := NewGroup("a"), NewGroup("b"), NewGroup("c")
	parent.AddChild(a)
	parent.AddChild(b)
	parent.AddChild(c)

	if removed := parent.RemoveChildAt(1); removed != b {
		t.Error("removed should be b")
	}
	if parent.ChildAt(0) != a || parent.ChildAt(1) != c {
		t.Error("remaining children should be [a, c]")
	}
	expectPanic(t, "out of bounds", func() { parent.RemoveChildAt(5) })
}

func TestRemoveFromParent(t *testing.T) {
	parent := NewGroup("parent")
	child := NewGroup("child")
	parent.AddChild(child)
	child.RemoveFromParent()
	if parent.NumChildren() != 0 || child.Parent != nil {
		t.Error("child should be detached")
	}

	orphan := NewGroup("orphan")
	orphan.RemoveFromParent()
}

func TestRemoveChildren(t *testing.T) {
	parent := NewGroup("parent")
	a, b := NewGroup("a"), NewGroup("b")
	parent.AddChild(a)
	parent.AddChild(b)
	parent.RemoveChildren()

	if parent.NumChildren() != 0 {
		t.Error("parent should have no children")
	}
	if a.Parent != nil || b.Parent != nil {
		t.Error("children should have nil Parent")
	}
	if a.IsDisposed() {
		t.Error("RemoveChildren must not dispose")
	}
}

// --- Queries ---

func TestFindChildDepthFirst(t *testing.T) {
	root := NewGroup("root")
	earth := NewGroup("earth")
	clouds := NewMesh("clouds", nil, nil)
	moon := NewMesh("moon", nil, nil)
	root.AddChild(earth)
	earth.AddChild(clouds)
	root.AddChild(moon)

	if got := root.FindChild("clouds"); got != clouds {
		t.Errorf("FindChild(clouds) = %v", got)
	}
	if got := root.FindChild("moon"); got != moon {
		t.Errorf("FindChild(moon) = %v", got)
	}
	if root.FindChild("missing") != nil {
		t.Error("FindChild(missing) should be nil")
	}
}

func TestWalkPreOrderAndPrune(t *testing.T) {
	root := NewGroup("root")
	a := NewGroup("a")
	a1 := NewGroup("a1")
	b := NewGroup("b")
	root.AddChild(a)
	a.AddChild(a1)
	root.AddChild(b)

	var order []string
	root.Walk(func(n *Node) bool {
		order = append(order, n.Name)
		return true
	})
	want := []string{"a", "a1", "b"}
	if len(order) != len(want) {
		t.Fatalf("visited %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("visit %d = %q, want %q", i, order[i], want[i])
		}
	}

	order = order[:0]
	root.Walk(func(n *Node) bool {
		order = append(order, n.Name)
		return n != a
	})
	if len(order) != 2 {
		t.Errorf("pruned walk visited %v, want [a b]", order)
	}
	if root.NumDescendants() != 3 {
		t.Errorf("NumDescendants = %d, want 3", root.NumDescendants())
	}
}

func TestChildrenConsistency(t *testing.T) {
	parent := NewGroup("parent")
	for range 5 {
		parent.AddChild(NewGroup(""))
	}
	children := parent.Children()
	if len(children) != parent.NumChildren() {
		t.Errorf("Children() len = %d, NumChildren() = %d", len(children), parent.NumChildren())
	}
	for i, c := range children {
		if c != parent.ChildAt(i) {
			t.Errorf("Children()[%d] != ChildAt(%d)", i, i)
		}
	}
}

// --- Dispose ---

func TestDispose(t *testing.T) {
	root := NewGroup("root")
	parent := NewGroup("parent")
	child := NewMesh("child", NewIcosahedronGeometry(1, 0), NewBasicMaterial())
	grandchild := NewGroup("grandchild")
	root.AddChild(parent)
	parent.AddChild(child)
	child.AddChild(grandchild)

	parent.Dispose()

	for _, n := range []*Node{parent, child, grandchild} {
		if !n.IsDisposed() {
			t.Errorf("%s should be disposed", n.Name)
		}
		if n.ID != 0 {
			t.Errorf("%s ID = %d, want 0", n.Name, n.ID)
		}
	}
	if child.Geometry != nil || child.Material != nil {
		t.Error("dispose should release geometry and material references")
	}
	if root.NumChildren() != 0 {
		t.Error("root should have 0 children after dispose")
	}

	parent.Dispose()
}

// --- Dirty propagation ---

func TestDirtyPropagationOnAddChild(t *testing.T) {
	parent := NewGroup("parent")
	child := NewGroup("child")
	grandchild := NewGroup("grandchild")
	child.AddChild(grandchild)

	child.transformDirty = false
	grandchild.transformDirty = false

	parent.AddChild(child)

	if !child.transformDirty || !grandchild.transformDirty {
		t.Error("subtree should be dirty after AddChild")
	}
}

func TestDirtyPropagationOnRemoveChild(t *testing.T) {
	parent := NewGroup("parent")
	child := NewGroup("child")
	parent.AddChild(child)

	child.transformDirty = false
	parent.RemoveChild(child)

	if !child.transformDirty {
		t.Error("child should be dirty after RemoveChild")
	}
}
