package globe

import (
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
)

// litShaderSrc shades lit materials per pixel. Vertex colors carry the light
// direction in tangent space (see encodeTangentLight). Images 1 and 2 hold
// the specular and bump maps at image 0's size.
const litShaderSrc = `//kage:unit pixels

package main

var BumpScale float
var SpecGain float
var LightColor vec3
var SpecColor vec3
var Emissive vec3
var Tint vec3
var Opacity float

func wrapLocal(p vec2) vec2 {
	return mod(p, imageSrc0Size())
}

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	local := wrapLocal(srcPos - imageSrc0Origin())
	albedo := imageSrc0UnsafeAt(local + imageSrc0Origin())
	spec := imageSrc1At(local + imageSrc1Origin())

	h := imageSrc2At(local + imageSrc2Origin()).r
	hx := imageSrc2At(wrapLocal(local+vec2(1, 0)) + imageSrc2Origin()).r
	hy := imageSrc2At(wrapLocal(local+vec2(0, 1)) + imageSrc2Origin()).r
	n := normalize(vec3((h-hx)*BumpScale, (h-hy)*BumpScale, 1))

	l := vec3(color.b, color.a, color.r)*2 - 1
	ndl := max(dot(n, normalize(l)), 0)

	rgb := albedo.rgb*Tint*LightColor*ndl + Emissive*albedo.a
	rgb += SpecColor * spec.r * color.g * SpecGain * albedo.a
	return vec4(rgb, albedo.a) * Opacity
}
`

// bumpGain converts a material's BumpScale into height-difference gain per
// texel.
const bumpGain = 32

// litShader returns the compiled lit shader, compiling it on first use.
// Returns nil if compilation failed; callers fall back to vertex lighting.
func (s *Scene) litShader() *ebiten.Shader {
	if !s.shaderLighting || s.shaderFailed {
		return nil
	}
	if s.shader == nil {
		sh, err := ebiten.NewShader([]byte(litShaderSrc))
		if err != nil {
			s.shaderFailed = true
			s.logger().Warn("lit shader unavailable, using vertex lighting", slog.Any("err", err))
			return nil
		}
		s.shader = sh
	}
	return s.shader
}

// SetShaderLighting enables or disables per-pixel lighting for lit
// materials. It is enabled by default.
func (s *Scene) SetShaderLighting(enabled bool) {
	s.shaderLighting = enabled
}

var (
	whiteImage *ebiten.Image
	blackImage *ebiten.Image
	discSprite *ebiten.Image
)

func ensureWhiteImage() *ebiten.Image {
	if whiteImage == nil {
		whiteImage = ebiten.NewImage(1, 1)
		whiteImage.Fill(color.White)
	}
	return whiteImage
}

// ensureBlackImage is the placeholder sampled by materials whose map has not
// resolved yet.
func ensureBlackImage() *ebiten.Image {
	if blackImage == nil {
		blackImage = ebiten.NewImage(1, 1)
		blackImage.Fill(color.Black)
	}
	return blackImage
}

func ensureDiscSprite() *ebiten.Image {
	if discSprite == nil {
		discSprite = ebiten.NewImageFromImage(discImage(16))
	}
	return discSprite
}

// albedoImage returns the image sampled for the material's base color. It
// returns nil when the material must not be drawn yet because its alpha map
// is still pending.
func (m *Material) albedoImage() *ebiten.Image {
	switch {
	case m.AlphaMap != nil && !m.AlphaMap.Ready():
		// A pending alpha map reads as fully transparent.
		return nil
	case m.Map == nil:
		return ensureWhiteImage()
	case !m.Map.Ready():
		return ensureBlackImage()
	case m.AlphaMap == nil:
		return m.Map.Image()
	}
	v := [2]int{m.Map.Version(), m.AlphaMap.Version()}
	if m.combined == nil || m.combinedVersion != v {
		if m.combined != nil {
			m.combined.Deallocate()
		}
		m.combined = ebiten.NewImageFromImage(bakeAlpha(m.Map.Source(), m.AlphaMap.Source()))
		m.combinedVersion = v
	}
	return m.combined
}

// shaderImages returns the three source images for the lit shader along with
// the specular and bump gains. Absent or pending maps reuse the albedo with a
// zero gain. ok is false when the material has no resolved map to light.
func (m *Material) shaderImages() (imgs [3]*ebiten.Image, specGain, bumpScale float32, ok bool) {
	albedo := m.albedoImage()
	if albedo == nil || !m.Map.Ready() {
		return imgs, 0, 0, false
	}
	imgs = [3]*ebiten.Image{albedo, albedo, albedo}
	w, h := m.Map.Size()

	v := [3]int{m.Map.Version(), m.SpecularMap.versionOrZero(), m.BumpMap.versionOrZero()}
	if m.boundVersion != v {
		for i, t := range [...]*Texture{m.SpecularMap, m.BumpMap} {
			if m.bound[i] != nil {
				m.bound[i].Deallocate()
				m.bound[i] = nil
			}
			if t.Ready() {
				m.bound[i] = ebiten.NewImageFromImage(resampleTo(t.Source(), w, h))
			}
		}
		m.boundVersion = v
	}
	if m.bound[0] != nil && m.Kind == MaterialPhong {
		imgs[1] = m.bound[0]
		specGain = 1
	}
	if m.bound[1] != nil {
		imgs[2] = m.bound[1]
		bumpScale = float32(m.BumpScale * bumpGain)
	}
	return imgs, specGain, bumpScale, true
}

// versionOrZero returns the texture version, or 0 for a nil or unresolved
// texture.
func (t *Texture) versionOrZero() int {
	if !t.Ready() {
		return 0
	}
	return t.version
}
