package earth

import "github.com/Godawela/globe"

// Atmosphere rim parameters.
const (
	glowRim    = 0x0088ff
	glowFacing = 0x000000
	glowBias   = 0.1
	glowScale  = 1.0
	glowPower  = 4.0
)

// newGlowMaterial returns the additive blue rim used for the atmosphere.
func newGlowMaterial() *globe.Material {
	return globe.NewFresnelMaterial(globe.FresnelParams{
		Rim:    globe.HexColor(glowRim),
		Facing: globe.HexColor(glowFacing),
		Bias:   glowBias,
		Scale:  glowScale,
		Power:  glowPower,
	})
}
