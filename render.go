package globe

import (
	"github.com/go-gl/mathgl/mgl64"
)

// CommandType identifies the kind of render command.
type CommandType uint8

const (
	CommandMesh   CommandType = iota // triangles, shaded per material
	CommandPoints                    // one screen-aligned quad per vertex
)

// RenderCommand is a single draw instruction emitted during scene traversal.
type RenderCommand struct {
	Type        CommandType
	World       mgl64.Mat4
	Geometry    *Geometry
	Material    *Material
	RenderLayer uint8
	RenderOrder int

	// Depth is the view-space distance of the node's origin along the
	// camera's viewing direction.
	Depth float64

	transparent bool
	treeOrder   int // assigned during traversal for stable sort
}

// frameView bundles the per-frame camera state shared by traversal and
// submission.
type frameView struct {
	camera  *PerspectiveCamera
	view    mgl64.Mat4
	viewDir Vec3 // unit vector from the camera toward its target
	eye     Vec3
	width   float64
	height  float64
	lights  []frameLight
}

func newFrameView(c *PerspectiveCamera, width, height float64, lights []frameLight) frameView {
	dir := c.Target.Sub(c.Position)
	if dir.Len() == 0 {
		dir = Vec3{0, 0, -1}
	}
	return frameView{
		camera:  c,
		view:    c.ProjectionMatrix().Mul4(c.ViewMatrix()),
		viewDir: dir.Normalize(),
		eye:     c.Position,
		width:   width,
		height:  height,
		lights:  lights,
	}
}

// depthOf returns how far p lies in front of the camera.
func (v *frameView) depthOf(p Vec3) float64 {
	return p.Sub(v.eye).Dot(v.viewDir)
}

// traverse walks the node tree depth-first and emits render commands for
// visible mesh and points nodes. World matrices must be current.
func (s *Scene) traverse(n *Node, view *frameView, treeOrder *int) {
	if !n.Visible {
		return
	}
	if globalDebug {
		debugCheckDisposed(n, "traverse")
	}

	switch n.Type {
	case NodeTypeMesh, NodeTypePoints:
		if n.Geometry == nil || n.Material == nil || n.Geometry.NumVertices() == 0 {
			break
		}
		// Fully transparent materials contribute nothing.
		if n.Material.Transparent && n.Material.Opacity <= 0 {
			break
		}
		center := n.WorldPosition()
		depth := view.depthOf(center)
		radius := float64(n.Geometry.BoundingRadius()) * maxAxisScale(n.worldMatrix)
		// Entirely behind the near plane.
		if depth+radius < view.camera.Near {
			break
		}
		*treeOrder++
		cmd := RenderCommand{
			Type:        CommandMesh,
			World:       n.worldMatrix,
			Geometry:    n.Geometry,
			Material:    n.Material,
			RenderLayer: n.RenderLayer,
			RenderOrder: n.RenderOrder,
			Depth:       depth,
			transparent: n.Material.IsTransparent(),
			treeOrder:   *treeOrder,
		}
		if n.Type == NodeTypePoints {
			cmd.Type = CommandPoints
		}
		s.commands = append(s.commands, cmd)
	}

	for _, child := range n.children {
		s.traverse(child, view, treeOrder)
	}
}

// maxAxisScale returns the largest scale factor applied by the upper 3×3 of m.
func maxAxisScale(m mgl64.Mat4) float64 {
	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	return max(sx, sy, sz)
}

// --- Merge sort ---

// commandLessOrEqual returns true if a should sort before or at the same
// position as b. Commands are painted back to front: lower layers and render
// orders first, then farther depths, then opaque before transparent at equal
// depth. Using <= for treeOrder ensures stability.
func commandLessOrEqual(a, b RenderCommand) bool {
	if a.RenderLayer != b.RenderLayer {
		return a.RenderLayer < b.RenderLayer
	}
	if a.RenderOrder != b.RenderOrder {
		return a.RenderOrder < b.RenderOrder
	}
	if a.Depth != b.Depth {
		return a.Depth > b.Depth
	}
	if a.transparent != b.transparent {
		return !a.transparent
	}
	return a.treeOrder <= b.treeOrder
}

// mergeSort sorts s.commands in-place using s.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches high-water mark.
func (s *Scene) mergeSort() {
	n := len(s.commands)
	if n <= 1 {
		return
	}
	if cap(s.sortBuf) < n {
		s.sortBuf = make([]RenderCommand, n)
	}
	s.sortBuf = s.sortBuf[:n]

	a := s.commands
	b := s.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(s.commands, s.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []RenderCommand, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if commandLessOrEqual(src[i], src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}
