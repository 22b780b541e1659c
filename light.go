package globe

// DirectionalLight is a light infinitely far away, shining from its node's
// world position toward the origin, like sunlight.
type DirectionalLight struct {
	Color     Color
	Intensity float64
}

// frameLight is a directional light resolved to world space for one frame.
type frameLight struct {
	dir       Vec3 // unit vector pointing from the surface toward the light
	color     Color
	intensity float64
}

// collectLights resolves every visible light below root. World matrices must
// be current.
func collectLights(root *Node, dst []frameLight) []frameLight {
	root.Walk(func(n *Node) bool {
		if !n.Visible {
			return false
		}
		if n.Type == NodeTypeLight && n.Light != nil {
			p := n.WorldPosition()
			if p.Len() == 0 {
				p = Vec3{0, 1, 0}
			}
			dst = append(dst, frameLight{
				dir:       p.Normalize(),
				color:     n.Light.Color,
				intensity: n.Light.Intensity,
			})
		}
		return true
	})
	return dst
}
