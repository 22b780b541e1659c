package globe

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/transform"
)

// Lighting follows the usual physically based conventions: a directional
// light delivers irradiance color*intensity*max(N·L, 0), a Lambert surface
// reflects albedo/π of it, and Blinn-Phong specular uses the normalized
// (shininess/2+1)/π lobe with a geometry term of 1/4.

// diffuseIrradiance returns the summed irradiance/π over lights for a surface
// with world normal n.
func diffuseIrradiance(n Vec3, lights []frameLight) Color {
	var out Color
	for _, l := range lights {
		ndl := n.Dot(l.dir)
		if ndl <= 0 {
			continue
		}
		k := ndl * l.intensity / math.Pi
		out.R += l.color.R * k
		out.G += l.color.G * k
		out.B += l.color.B * k
	}
	return out
}

// blinnPhong returns the specular BRDF factor times N·L for light direction
// l, view direction v (surface toward eye) and normal n, all unit length.
func blinnPhong(n, l, v Vec3, shininess float64) float64 {
	ndl := n.Dot(l)
	if ndl <= 0 {
		return 0
	}
	h := l.Add(v)
	if h.Len() == 0 {
		return 0
	}
	ndh := math.Max(n.Dot(h.Normalize()), 0)
	d := (shininess*0.5 + 1) / math.Pi * math.Pow(ndh, shininess)
	return 0.25 * d * ndl
}

// specularIrradiance returns the Blinn-Phong highlight summed over lights.
func specularIrradiance(n, v Vec3, shininess float64, lights []frameLight) Color {
	var out Color
	for _, l := range lights {
		k := blinnPhong(n, l.dir, v, shininess) * l.intensity
		if k == 0 {
			continue
		}
		out.R += l.color.R * k
		out.G += l.color.G * k
		out.B += l.color.B * k
	}
	return out
}

// litVertexColor returns the per-vertex color multiplier for a lit material
// at world normal n. The texture sampled at the vertex is multiplied by it.
func litVertexColor(m *Material, n Vec3, lights []frameLight) Color {
	d := diffuseIrradiance(n, lights)
	c := Color{
		R: m.Color.R*d.R + m.Emissive.R*m.EmissiveIntensity,
		G: m.Color.G*d.G + m.Emissive.G*m.EmissiveIntensity,
		B: m.Color.B*d.B + m.Emissive.B*m.EmissiveIntensity,
		A: m.EffectiveOpacity(),
	}
	return clampColor(c)
}

// fresnelColor evaluates the rim glow for view ray i (eye toward surface)
// and normal n, both unit length.
func fresnelColor(p FresnelParams, i, n Vec3) Color {
	f := p.Bias + p.Scale*math.Pow(math.Max(1+i.Dot(n), 0), p.Power)
	f = clamp01(f)
	c := p.Facing.Lerp(p.Rim, f)
	c.A = f
	return c
}

// tangentFrame returns the east-pointing tangent and south-pointing
// bitangent for a sphere-like surface with normal n. These match the
// orientation of equirectangular texture space with V increasing downward.
func tangentFrame(n Vec3) (t, b Vec3) {
	t = Vec3{n[2], 0, -n[0]}
	if t.Len() < 1e-6 {
		t = Vec3{1, 0, 0}
	} else {
		t = t.Normalize()
	}
	return t, t.Cross(n)
}

// encodeTangentLight packs the light direction l, expressed in the tangent
// frame at n, into a vertex color for the lit shader. R holds N·L, B and A
// hold the tangent and bitangent components, each mapped from [-1, 1] to
// [0, 1]. G carries the precomputed specular factor.
func encodeTangentLight(n, l Vec3, spec float64) Color {
	t, b := tangentFrame(n)
	return Color{
		R: 0.5 + 0.5*n.Dot(l),
		G: clamp01(spec),
		B: 0.5 + 0.5*t.Dot(l),
		A: 0.5 + 0.5*b.Dot(l),
	}
}

func clampColor(c Color) Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
}

// bakeAlpha returns src with alpha scaled by the green channel of mask,
// resampled to src's size. The color channels stay non-premultiplied.
func bakeAlpha(src, mask image.Image) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	mb := mask.Bounds()
	if mb.Dx() != w || mb.Dy() != h {
		mask = transform.Resize(mask, w, h, transform.Linear)
		mb = mask.Bounds()
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			_, mg, _, _ := mask.At(mb.Min.X+x, mb.Min.Y+y).RGBA()
			c.A = uint8(uint32(c.A) * (mg >> 8) / 255)
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}

// resampleTo returns img scaled to w×h, or img itself when it already
// matches.
func resampleTo(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	return transform.Resize(img, w, h, transform.Linear)
}

// discImage returns a size×size white disc with a one-pixel soft edge.
func discImage(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			a := clamp01(r - math.Hypot(dx, dy))
			img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, uint8(a*255 + 0.5)})
		}
	}
	return img
}
