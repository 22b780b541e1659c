package globe

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Geometry holds vertex data shared by one or more meshes. Geometries are
// read-only once built: the renderer never writes to them, so a single
// instance may back any number of nodes.
//
// UVs use image space: (0, 0) is the top-left texel and (1, 1) the
// bottom-right. U may exceed 1 on triangles that straddle a texture seam;
// textures are sampled with repeat addressing.
type Geometry struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Colors    []Color
	Indices   []uint32

	// Convex marks closed convex shapes. Back-face culling alone resolves
	// visibility for them, so per-triangle depth sorting is skipped.
	Convex bool

	boundingRadius float32
	radiusDirty    bool
}

// NumVertices returns the number of vertices.
func (g *Geometry) NumVertices() int {
	return len(g.Positions)
}

// NumTriangles returns the number of indexed triangles.
func (g *Geometry) NumTriangles() int {
	return len(g.Indices) / 3
}

// BoundingRadius returns the distance from the local origin to the farthest
// vertex.
func (g *Geometry) BoundingRadius() float32 {
	if g.radiusDirty {
		var r2 float32
		for _, p := range g.Positions {
			if l := p.Dot(p); l > r2 {
				r2 = l
			}
		}
		g.boundingRadius = math32.Sqrt(r2)
		g.radiusDirty = false
	}
	return g.boundingRadius
}

// --- Icosphere ---

var icosahedronVertices = func() []mgl32.Vec3 {
	t := (1 + math32.Sqrt(5)) / 2
	return []mgl32.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
}()

var icosahedronFaces = []uint32{
	0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
	1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
	3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
	4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
}

// NewIcosahedronGeometry builds a sphere approximation by subdividing each
// face of an icosahedron into (detail+1)² triangles and projecting every
// vertex onto a sphere of the given radius. Vertices are not shared between
// triangles, so the seam and pole UV fixes can be applied per face.
func NewIcosahedronGeometry(radius float32, detail int) *Geometry {
	if detail < 0 {
		detail = 0
	}
	perFace := (detail + 1) * (detail + 1) * 3
	g := &Geometry{
		Positions:   make([]mgl32.Vec3, 0, 20*perFace),
		Convex:      true,
		radiusDirty: true,
	}

	for f := 0; f < len(icosahedronFaces); f += 3 {
		a := icosahedronVertices[icosahedronFaces[f]]
		b := icosahedronVertices[icosahedronFaces[f+1]]
		c := icosahedronVertices[icosahedronFaces[f+2]]
		g.Positions = subdivideFace(g.Positions, a, b, c, detail)
	}

	n := len(g.Positions)
	g.Normals = make([]mgl32.Vec3, n)
	g.UVs = make([]mgl32.Vec2, n)
	g.Indices = make([]uint32, n)
	for i, p := range g.Positions {
		unit := p.Normalize()
		g.Positions[i] = unit.Mul(radius)
		g.Normals[i] = unit
		g.UVs[i] = mgl32.Vec2{azimuth(unit)/(2*math32.Pi) + 0.5, inclination(unit)/math32.Pi + 0.5}
		g.Indices[i] = uint32(i)
	}
	correctPoleUVs(g)
	correctSeamUVs(g)
	return g
}

// subdivideFace appends the (detail+1)² triangles covering face abc.
func subdivideFace(dst []mgl32.Vec3, a, b, c mgl32.Vec3, detail int) []mgl32.Vec3 {
	cols := detail + 1
	v := make([][]mgl32.Vec3, cols+1)
	for i := 0; i <= cols; i++ {
		t := float32(i) / float32(cols)
		aj := lerp3(a, c, t)
		bj := lerp3(b, c, t)
		rows := cols - i
		v[i] = make([]mgl32.Vec3, rows+1)
		for j := 0; j <= rows; j++ {
			if j == 0 && i == cols {
				v[i][j] = aj
			} else {
				v[i][j] = lerp3(aj, bj, float32(j)/float32(rows))
			}
		}
	}
	for i := 0; i < cols; i++ {
		for j := 0; j < 2*(cols-i)-1; j++ {
			k := j / 2
			if j%2 == 0 {
				dst = append(dst, v[i][k+1], v[i+1][k], v[i][k])
			} else {
				dst = append(dst, v[i][k+1], v[i+1][k+1], v[i+1][k])
			}
		}
	}
	return dst
}

// correctPoleUVs gives vertices sitting exactly on a pole the U of their
// triangle's centroid, so pole triangles don't collapse to a sliver.
func correctPoleUVs(g *Geometry) {
	for i := 0; i+2 < len(g.Positions); i += 3 {
		a, b, c := g.Positions[i], g.Positions[i+1], g.Positions[i+2]
		az := azimuth(a.Add(b).Add(c).Mul(1.0 / 3))
		for k := i; k < i+3; k++ {
			p := g.Positions[k]
			uv := &g.UVs[k]
			if az < 0 && uv[0] == 1 {
				uv[0] -= 1
			}
			if p[0] == 0 && p[2] == 0 {
				uv[0] = az/(2*math32.Pi) + 0.5
			}
		}
	}
}

// correctSeamUVs shifts the low-U vertices of triangles that wrap around the
// U=1 seam past 1, so interpolation runs across the seam instead of back
// through the whole texture.
func correctSeamUVs(g *Geometry) {
	for i := 0; i+2 < len(g.UVs); i += 3 {
		x0, x1, x2 := g.UVs[i][0], g.UVs[i+1][0], g.UVs[i+2][0]
		maxU := math32.Max(x0, math32.Max(x1, x2))
		minU := math32.Min(x0, math32.Min(x1, x2))
		if maxU > 0.9 && minU < 0.1 {
			for k := i; k < i+3; k++ {
				if g.UVs[k][0] < 0.2 {
					g.UVs[k][0]++
				}
			}
		}
	}
}

func azimuth(v mgl32.Vec3) float32 {
	return math32.Atan2(v[2], -v[0])
}

func inclination(v mgl32.Vec3) float32 {
	return math32.Atan2(-v[1], math32.Sqrt(v[0]*v[0]+v[2]*v[2]))
}

func lerp3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// --- UV sphere ---

// NewSphereGeometry builds a latitude/longitude sphere with the given number
// of segments around the equator and from pole to pole. Vertices are shared
// between neighboring triangles.
func NewSphereGeometry(radius float32, widthSegments, heightSegments int) *Geometry {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}
	n := (widthSegments + 1) * (heightSegments + 1)
	g := &Geometry{
		Positions:   make([]mgl32.Vec3, 0, n),
		Normals:     make([]mgl32.Vec3, 0, n),
		UVs:         make([]mgl32.Vec2, 0, n),
		Convex:      true,
		radiusDirty: true,
	}

	grid := make([][]uint32, heightSegments+1)
	var index uint32
	for iy := 0; iy <= heightSegments; iy++ {
		v := float32(iy) / float32(heightSegments)
		var uOffset float32
		switch {
		case iy == 0:
			uOffset = 0.5 / float32(widthSegments)
		case iy == heightSegments:
			uOffset = -0.5 / float32(widthSegments)
		}
		row := make([]uint32, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float32(ix) / float32(widthSegments)
			sinV, cosV := math32.Sincos(v * math32.Pi)
			sinU, cosU := math32.Sincos(u * 2 * math32.Pi)
			p := mgl32.Vec3{-radius * cosU * sinV, radius * cosV, radius * sinU * sinV}
			g.Positions = append(g.Positions, p)
			g.Normals = append(g.Normals, p.Normalize())
			g.UVs = append(g.UVs, mgl32.Vec2{u + uOffset, v})
			row[ix] = index
			index++
		}
		grid[iy] = row
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				g.Indices = append(g.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				g.Indices = append(g.Indices, b, c, d)
			}
		}
	}
	return g
}

// --- Point clouds ---

// NewPointsGeometry wraps positions and per-point colors for a Points node.
// colors may be nil, in which case every point uses the material color.
func NewPointsGeometry(positions []mgl32.Vec3, colors []Color) *Geometry {
	return &Geometry{
		Positions:   positions,
		Colors:      colors,
		radiusDirty: true,
	}
}
