package earth

import (
	"math"
	"math/rand/v2"

	"github.com/Godawela/globe"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	starMinRadius  = 25
	starRadiusSpan = 25
	starHue        = 0.6
	starSaturation = 0.2
	starSize       = 0.2
)

// starfieldGeometry scatters count points uniformly over directions on a
// spherical shell with radius in [25, 50). Each point is tinted a pale blue
// of random lightness.
func starfieldGeometry(count int, rng *rand.Rand) *globe.Geometry {
	positions := make([]mgl32.Vec3, count)
	colors := make([]globe.Color, count)
	for i := range positions {
		positions[i] = randomSpherePoint(rng)
		colors[i] = starColor(rng.Float64())
	}
	return globe.NewPointsGeometry(positions, colors)
}

// randomSpherePoint returns a point with a uniformly distributed direction.
func randomSpherePoint(rng *rand.Rand) mgl32.Vec3 {
	radius := rng.Float32()*starRadiusSpan + starMinRadius
	theta := 2 * math32.Pi * rng.Float32()
	phi := math32.Acos(2*rng.Float32() - 1)
	sinPhi := math32.Sin(phi)
	return mgl32.Vec3{
		radius * sinPhi * math32.Cos(theta),
		radius * sinPhi * math32.Sin(theta),
		radius * math32.Cos(phi),
	}
}

// starColor converts HSL(0.6, 0.2, lightness) to linear RGB.
func starColor(lightness float64) globe.Color {
	r, g, b := colorful.Hsl(starHue*360, starSaturation, lightness).LinearRgb()
	return globe.Color{R: r, G: g, B: b, A: 1}
}

// newStarfield builds the star point cloud node.
func newStarfield(count int, seed uint64) *globe.Node {
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^math.MaxUint32))
	mat := globe.NewPointsMaterial(starSize)
	mat.VertexColors = true
	return globe.NewPoints(NodeStars, starfieldGeometry(count, rng), mat)
}
