package globe

import "github.com/hajimehoshi/ebiten/v2"

// MaterialKind selects the shading model used for a Material.
type MaterialKind uint8

const (
	MaterialBasic    MaterialKind = iota // unlit: color * map
	MaterialPhong                        // Lambert diffuse + Blinn-Phong specular, specular map, bump map
	MaterialStandard                     // Lambert diffuse (rough dielectric) + emissive, alpha map, bump map
	MaterialFresnel                      // view-angle rim glow, no texture
	MaterialPoints                       // sprite per vertex, optional per-vertex colors
)

// FresnelParams configures the rim-glow term
//
//	f = Bias + Scale * (1 + dot(I, N))^Power
//
// where I is the normalized view ray and N the world normal. The output
// color is Facing mixed toward Rim by f, with alpha f.
type FresnelParams struct {
	Rim    Color
	Facing Color
	Bias   float64
	Scale  float64
	Power  float64
}

// Material describes how a mesh or point cloud is shaded. Materials are owned
// by the node that uses them; the textures they reference may resolve after
// the material is first drawn, in which case untextured placeholders are
// used until then.
type Material struct {
	Kind MaterialKind

	Color             Color
	Emissive          Color
	EmissiveIntensity float64
	Specular          Color
	Shininess         float64

	// Opacity only applies when Transparent is set.
	Opacity     float64
	Transparent bool
	Blend       BlendMode

	Map         *Texture
	SpecularMap *Texture
	BumpMap     *Texture
	AlphaMap    *Texture
	BumpScale   float64

	Fresnel FresnelParams

	// Points only. Size is in world units when SizeAttenuation is set and in
	// pixels otherwise.
	Size            float64
	SizeAttenuation bool
	VertexColors    bool

	// combined holds Map with AlphaMap baked into its alpha channel, built
	// once both textures resolve.
	combined        *ebiten.Image
	combinedVersion [2]int
	// bound holds SpecularMap and BumpMap resampled to Map's size for the
	// lit shader.
	bound        [2]*ebiten.Image
	boundVersion [3]int
}

func newMaterial(kind MaterialKind) *Material {
	return &Material{
		Kind:    kind,
		Color:   ColorWhite,
		Opacity: 1,
		Blend:   BlendNormal,
	}
}

// NewBasicMaterial returns an unlit material.
func NewBasicMaterial() *Material {
	return newMaterial(MaterialBasic)
}

// NewPhongMaterial returns a Phong material with a dim grey specular color
// and shininess 30.
func NewPhongMaterial() *Material {
	m := newMaterial(MaterialPhong)
	m.Specular = HexColor(0x111111)
	m.Shininess = 30
	m.BumpScale = 1
	return m
}

// NewStandardMaterial returns a fully rough, non-metallic material.
func NewStandardMaterial() *Material {
	m := newMaterial(MaterialStandard)
	m.Emissive = ColorBlack
	m.EmissiveIntensity = 1
	m.BumpScale = 1
	return m
}

// NewFresnelMaterial returns an additive rim-glow material.
func NewFresnelMaterial(p FresnelParams) *Material {
	m := newMaterial(MaterialFresnel)
	m.Fresnel = p
	m.Transparent = true
	m.Blend = BlendAdd
	return m
}

// NewPointsMaterial returns a point-sprite material of the given size with
// size attenuation enabled.
func NewPointsMaterial(size float64) *Material {
	m := newMaterial(MaterialPoints)
	m.Size = size
	m.SizeAttenuation = true
	return m
}

// IsTransparent reports whether the material is drawn in the blended pass,
// after opaque geometry at the same depth.
func (m *Material) IsTransparent() bool {
	return m.Transparent || m.Blend != BlendNormal
}

// EffectiveOpacity returns the opacity used for rendering.
func (m *Material) EffectiveOpacity() float64 {
	if !m.Transparent {
		return 1
	}
	return clamp01(m.Opacity)
}

// Lit reports whether the material responds to lights.
func (m *Material) Lit() bool {
	return m.Kind == MaterialPhong || m.Kind == MaterialStandard
}

// textures returns every texture the material references, in a fixed order.
func (m *Material) textures() []*Texture {
	var out []*Texture
	for _, t := range [...]*Texture{m.Map, m.SpecularMap, m.BumpMap, m.AlphaMap} {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

// Ready reports whether every texture the material references has resolved.
func (m *Material) Ready() bool {
	for _, t := range m.textures() {
		if !t.Ready() {
			return false
		}
	}
	return true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
