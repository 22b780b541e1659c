package globe

import (
	"cmp"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// maxPointsPerBatch bounds the number of point quads sent in one draw call.
const maxPointsPerBatch = 16000

// projectedVertex is a geometry vertex resolved for one frame.
type projectedVertex struct {
	sx, sy float32
	depth  float64 // clip-space w; distance in front of the camera
	ok     bool    // in front of the near plane
	world  Vec3
	normal Vec3 // unit world-space normal
}

// depthTri is a visible triangle and its mean depth.
type depthTri struct {
	i0, i1, i2 uint32
	depth      float64
}

// drawBuffers holds scratch slices reused across frames.
type drawBuffers struct {
	proj  []projectedVertex
	tris  []depthTri
	verts []ebiten.Vertex
	inds  []uint32
}

// submit draws the sorted commands to target.
func (s *Scene) submit(target *ebiten.Image, view frameView) {
	for i := range s.commands {
		cmd := &s.commands[i]
		switch cmd.Type {
		case CommandMesh:
			s.submitMesh(target, cmd, &view)
		case CommandPoints:
			s.submitPoints(target, cmd, &view)
		}
	}
}

// projectVertices transforms every vertex of geo by world and the view's
// projection.
func projectVertices(geo *Geometry, world mgl64.Mat4, view *frameView, dst []projectedVertex) []projectedVertex {
	mvp := view.view.Mul4(world)
	normalMat := world.Mat3().Inv().Transpose()
	near := view.camera.Near
	for i, p := range geo.Positions {
		local := mgl64.Vec4{float64(p[0]), float64(p[1]), float64(p[2]), 1}
		clip := mvp.Mul4x1(local)
		pv := projectedVertex{
			depth: clip[3],
			ok:    clip[3] >= near,
			world: world.Mul4x1(local).Vec3(),
		}
		if pv.ok {
			x, y := ndcToScreen(clip[0]/clip[3], clip[1]/clip[3], view.width, view.height)
			pv.sx, pv.sy = float32(x), float32(y)
		}
		if i < len(geo.Normals) {
			n := geo.Normals[i]
			wn := normalMat.Mul3x1(Vec3{float64(n[0]), float64(n[1]), float64(n[2])})
			if wn.Len() > 0 {
				pv.normal = wn.Normalize()
			}
		}
		dst = append(dst, pv)
	}
	return dst
}

// visibleTriangles returns the front-facing triangles whose vertices all lie
// in front of the near plane. In screen space with Y down, counter-clockwise
// model winding becomes a negative signed area. Non-convex geometry is
// sorted back to front.
func visibleTriangles(geo *Geometry, proj []projectedVertex, dst []depthTri) []depthTri {
	idx := geo.Indices
	for t := 0; t+2 < len(idx); t += 3 {
		i0, i1, i2 := idx[t], idx[t+1], idx[t+2]
		a, b, c := &proj[i0], &proj[i1], &proj[i2]
		if !a.ok || !b.ok || !c.ok {
			continue
		}
		area := (b.sx-a.sx)*(c.sy-a.sy) - (c.sx-a.sx)*(b.sy-a.sy)
		if area >= 0 {
			continue
		}
		dst = append(dst, depthTri{i0, i1, i2, (a.depth + b.depth + c.depth) / 3})
	}
	if !geo.Convex {
		slices.SortStableFunc(dst, func(x, y depthTri) int {
			return cmp.Compare(y.depth, x.depth)
		})
	}
	return dst
}

// submitMesh draws a mesh command with its material's shading model.
func (s *Scene) submitMesh(target *ebiten.Image, cmd *RenderCommand, view *frameView) {
	m, geo := cmd.Material, cmd.Geometry
	if len(geo.Indices) == 0 {
		return
	}
	s.draw.proj = projectVertices(geo, cmd.World, view, s.draw.proj[:0])
	s.draw.tris = visibleTriangles(geo, s.draw.proj, s.draw.tris[:0])
	if len(s.draw.tris) == 0 {
		return
	}
	s.draw.inds = s.draw.inds[:0]
	for _, t := range s.draw.tris {
		s.draw.inds = append(s.draw.inds, t.i0, t.i1, t.i2)
	}
	if s.debug {
		s.stats.triangleCount += len(s.draw.tris)
	}

	if m.Lit() && len(view.lights) > 0 {
		if sh := s.litShader(); sh != nil {
			if imgs, specGain, bump, ok := m.shaderImages(); ok {
				s.drawLit(target, sh, cmd, view, imgs, specGain, bump)
				return
			}
		}
	}

	img := m.albedoImage()
	if img == nil {
		return
	}
	s.fillVertices(geo, img, func(pv *projectedVertex) Color {
		switch m.Kind {
		case MaterialPhong, MaterialStandard:
			return litVertexColor(m, pv.normal, view.lights)
		case MaterialFresnel:
			c := fresnelColor(m.Fresnel, pv.world.Sub(view.eye).Normalize(), pv.normal)
			c.A *= m.EffectiveOpacity()
			return c
		default:
			c := m.Color
			c.A = m.EffectiveOpacity()
			return c
		}
	})
	s.drawTriangles(target, img, m.Blend)

	// Vertex-lit Phong adds its highlight in a second, additive pass masked
	// by the specular map.
	if m.Kind == MaterialPhong && m.SpecularMap.Ready() && len(view.lights) > 0 {
		spec := m.SpecularMap.Image()
		s.fillVertices(geo, spec, func(pv *projectedVertex) Color {
			v := view.eye.Sub(pv.world).Normalize()
			k := specularIrradiance(pv.normal, v, m.Shininess, view.lights)
			c := Color{m.Specular.R * k.R, m.Specular.G * k.G, m.Specular.B * k.B, 1}
			return clampColor(c)
		})
		s.drawTriangles(target, spec, BlendAdd)
	}
}

// fillVertices rebuilds s.draw.verts from the projected vertices, mapping
// UVs onto img and coloring each vertex with colorOf.
func (s *Scene) fillVertices(geo *Geometry, img *ebiten.Image, colorOf func(*projectedVertex) Color) {
	b := img.Bounds()
	tw, th := float32(b.Dx()), float32(b.Dy())
	s.draw.verts = s.draw.verts[:0]
	for i := range s.draw.proj {
		pv := &s.draw.proj[i]
		v := ebiten.Vertex{DstX: pv.sx, DstY: pv.sy}
		if i < len(geo.UVs) {
			v.SrcX = geo.UVs[i][0] * tw
			v.SrcY = geo.UVs[i][1] * th
		}
		if pv.ok {
			c := colorOf(pv)
			v.ColorR, v.ColorG, v.ColorB, v.ColorA = float32(c.R), float32(c.G), float32(c.B), float32(c.A)
		}
		s.draw.verts = append(s.draw.verts, v)
	}
}

// drawTriangles submits s.draw.verts and s.draw.inds.
func (s *Scene) drawTriangles(target, img *ebiten.Image, blend BlendMode) {
	var op ebiten.DrawTrianglesOptions
	op.Blend = blend.EbitenBlend()
	op.Address = ebiten.AddressRepeat
	op.Filter = ebiten.FilterLinear
	op.ColorScaleMode = ebiten.ColorScaleModeStraightAlpha
	target.DrawTriangles32(s.draw.verts, s.draw.inds, img, &op)
	if s.debug {
		s.stats.drawCalls++
	}
}

// drawLit draws a lit mesh with the per-pixel shader. Only the first light
// is evaluated per pixel.
func (s *Scene) drawLit(target *ebiten.Image, sh *ebiten.Shader, cmd *RenderCommand, view *frameView, imgs [3]*ebiten.Image, specGain, bumpScale float32) {
	m, geo := cmd.Material, cmd.Geometry
	l := view.lights[0]
	s.fillVertices(geo, imgs[0], func(pv *projectedVertex) Color {
		spec := 0.0
		if m.Kind == MaterialPhong {
			v := view.eye.Sub(pv.world).Normalize()
			spec = blinnPhong(pv.normal, l.dir, v, m.Shininess)
		}
		return encodeTangentLight(pv.normal, l.dir, spec)
	})

	gain := l.intensity / math.Pi
	emissive := m.Emissive.Scale(m.EmissiveIntensity)
	var specular Color
	if m.Kind == MaterialPhong {
		specular = m.Specular.Scale(l.intensity)
	}

	var op ebiten.DrawTrianglesShaderOptions
	op.Blend = m.Blend.EbitenBlend()
	op.Images = [4]*ebiten.Image{imgs[0], imgs[1], imgs[2]}
	op.Uniforms = map[string]any{
		"BumpScale":  bumpScale,
		"SpecGain":   specGain,
		"LightColor": rgb32(l.color.Scale(gain)),
		"SpecColor":  rgb32(specular),
		"Emissive":   rgb32(emissive),
		"Tint":       rgb32(m.Color),
		"Opacity":    float32(m.EffectiveOpacity()),
	}
	target.DrawTrianglesShader32(s.draw.verts, s.draw.inds, sh, &op)
	if s.debug {
		s.stats.drawCalls++
	}
}

func rgb32(c Color) []float32 {
	return []float32{float32(c.R), float32(c.G), float32(c.B)}
}

// submitPoints draws one camera-facing disc per vertex. With size
// attenuation the diameter is Size*(height/2)/depth pixels.
func (s *Scene) submitPoints(target *ebiten.Image, cmd *RenderCommand, view *frameView) {
	m, geo := cmd.Material, cmd.Geometry
	sprite := ensureDiscSprite()
	sw := float32(sprite.Bounds().Dx())
	mvp := view.view.Mul4(cmd.World)
	opacity := float32(m.EffectiveOpacity())

	s.draw.verts = s.draw.verts[:0]
	s.draw.inds = s.draw.inds[:0]
	for i, p := range geo.Positions {
		clip := mvp.Mul4x1(mgl64.Vec4{float64(p[0]), float64(p[1]), float64(p[2]), 1})
		w := clip[3]
		if w < view.camera.Near {
			continue
		}
		x, y := ndcToScreen(clip[0]/w, clip[1]/w, view.width, view.height)
		size := pointSize(m, w, view.height)
		c := m.Color
		if m.VertexColors && i < len(geo.Colors) {
			vc := geo.Colors[i]
			c = Color{c.R * vc.R, c.G * vc.G, c.B * vc.B, c.A}
		}
		appendPointQuad(&s.draw, float32(x), float32(y), float32(size)/2, sw,
			float32(c.R), float32(c.G), float32(c.B), opacity)
		if len(s.draw.verts) >= maxPointsPerBatch*4 {
			s.drawTriangles(target, sprite, m.Blend)
			s.draw.verts = s.draw.verts[:0]
			s.draw.inds = s.draw.inds[:0]
		}
	}
	if len(s.draw.verts) > 0 {
		s.drawTriangles(target, sprite, m.Blend)
	}
	if s.debug {
		s.stats.pointCount += len(geo.Positions)
	}
}

// pointSize returns the on-screen diameter in pixels of a point at the given
// depth. Points never shrink below one pixel.
func pointSize(m *Material, depth, height float64) float64 {
	size := m.Size
	if m.SizeAttenuation && depth > 0 {
		size *= height / 2 / depth
	}
	return max(size, 1)
}

func appendPointQuad(d *drawBuffers, x, y, half, spriteSize, r, g, b, a float32) {
	base := uint32(len(d.verts))
	corners := [4][4]float32{
		{-half, -half, 0, 0},
		{half, -half, spriteSize, 0},
		{-half, half, 0, spriteSize},
		{half, half, spriteSize, spriteSize},
	}
	for _, c := range corners {
		d.verts = append(d.verts, ebiten.Vertex{
			DstX: x + c[0], DstY: y + c[1],
			SrcX: c[2], SrcY: c[3],
			ColorR: r, ColorG: g, ColorB: b, ColorA: a,
		})
	}
	// Two triangles: TL-TR-BL, TR-BR-BL
	d.inds = append(d.inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}
