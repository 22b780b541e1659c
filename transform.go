package globe

import "github.com/go-gl/mathgl/mgl64"

// computeLocalMatrix computes the local 4x4 matrix from the node's transform
// properties.
//
// Composition order:
//
//	Translate(Position) * Rx * Ry * Rz * Scale
//
// so scale is applied first, then rotation about X, Y and Z in that order
// (intrinsic XYZ), then translation.
func computeLocalMatrix(n *Node) mgl64.Mat4 {
	m := mgl64.Translate3D(n.Position[0], n.Position[1], n.Position[2])
	if n.Rotation[0] != 0 {
		m = m.Mul4(mgl64.HomogRotate3DX(n.Rotation[0]))
	}
	if n.Rotation[1] != 0 {
		m = m.Mul4(mgl64.HomogRotate3DY(n.Rotation[1]))
	}
	if n.Rotation[2] != 0 {
		m = m.Mul4(mgl64.HomogRotate3DZ(n.Rotation[2]))
	}
	if n.Scale != (Vec3{1, 1, 1}) {
		m = m.Mul4(mgl64.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2]))
	}
	return m
}

// updateWorldTransform recomputes a node's world matrix and, recursively, its
// descendants'. parentRecomputed indicates whether the parent was recomputed
// this frame, which forces recomputation of this node even if it's not dirty.
func updateWorldTransform(n *Node, parent mgl64.Mat4, parentRecomputed bool) {
	recompute := n.transformDirty || parentRecomputed
	if recompute {
		n.worldMatrix = parent.Mul4(computeLocalMatrix(n))
		n.transformDirty = false
	}
	for _, child := range n.children {
		updateWorldTransform(child, n.worldMatrix, recompute)
	}
}

// UpdateWorldMatrix refreshes the world matrices of n and its subtree from its
// ancestors. The renderer does this every frame; call it directly only when
// world positions are needed between frames.
func (n *Node) UpdateWorldMatrix() {
	parent := mgl64.Ident4()
	if n.Parent != nil {
		n.Parent.UpdateWorldMatrix()
		parent = n.Parent.worldMatrix
	}
	updateWorldTransform(n, parent, true)
}

// WorldMatrix returns the world matrix computed during the last update.
func (n *Node) WorldMatrix() mgl64.Mat4 {
	return n.worldMatrix
}

// --- Transform property setters ---

// SetPosition sets the node's local position and marks it dirty.
func (n *Node) SetPosition(x, y, z float64) {
	n.Position = Vec3{x, y, z}
	n.transformDirty = true
}

// SetRotation sets the node's Euler rotation (radians) and marks it dirty.
func (n *Node) SetRotation(x, y, z float64) {
	n.Rotation = Vec3{x, y, z}
	n.transformDirty = true
}

// RotateY adds delta radians to the node's Y rotation and marks it dirty.
func (n *Node) RotateY(delta float64) {
	n.Rotation[1] += delta
	n.transformDirty = true
}

// SetScale sets the node's per-axis scale and marks it dirty.
func (n *Node) SetScale(sx, sy, sz float64) {
	n.Scale = Vec3{sx, sy, sz}
	n.transformDirty = true
}

// SetScalar sets a uniform scale on all three axes and marks the node dirty.
func (n *Node) SetScalar(s float64) {
	n.SetScale(s, s, s)
}

// MarkDirty marks the node's transform as dirty, forcing recomputation
// on the next frame. Useful after bulk-setting fields directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// --- Coordinate conversion ---

// LocalToWorld converts a local-space point to world space using the world
// matrix from the last update.
func (n *Node) LocalToWorld(p Vec3) Vec3 {
	return mgl64.TransformCoordinate(p, n.worldMatrix)
}

// WorldToLocal converts a world-space point to this node's local space.
// Returns p unchanged if the world matrix is singular.
func (n *Node) WorldToLocal(p Vec3) Vec3 {
	if det := n.worldMatrix.Det(); det > -1e-12 && det < 1e-12 {
		return p
	}
	return mgl64.TransformCoordinate(p, n.worldMatrix.Inv())
}

// WorldPosition returns the node's origin in world space.
func (n *Node) WorldPosition() Vec3 {
	return n.worldMatrix.Col(3).Vec3()
}
