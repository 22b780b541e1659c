package earth

import (
	"math"

	"github.com/Godawela/globe"
)

// Node names in the built scene.
const (
	NodeEarth       = "earth"
	NodeSurface     = "surface"
	NodeLights      = "lights"
	NodeClouds      = "clouds"
	NodeGlow        = "glow"
	NodeStars       = "stars"
	NodeSun         = "sun"
	NodeMoon        = "moon"
	NodeMoonSurface = "moonSurface"
	NodeMoonGlow    = "moonGlow"
)

// Scene constants.
const (
	axialTilt = -23.4 * math.Pi / 180

	earthRadius    = 1
	surfaceBump    = 0.04
	cloudsOpacity  = 0.5
	cloudsScale    = 1.003
	glowShellScale = 1.01

	sunColor     = 0xffffff
	sunIntensity = 4.0

	moonTint              = 0xffffcc
	moonBump              = 2
	moonEmissiveIntensity = 1.5
	moonScale             = 0.27
	moonGlowRadius        = 0.32
	moonGlowSegments      = 12
)

var (
	sunPosition  = globe.Vec3{-2, 0.5, 1.5}
	moonPosition = globe.Vec3{2, 0, 0}
)

// TextureSource issues asynchronous texture loads. *globe.Loader satisfies
// it.
type TextureSource interface {
	LoadTexture(path string) *globe.Texture
}

// Nodes gives direct access to the nodes the animation and tests touch.
type Nodes struct {
	Earth       *globe.Node
	Surface     *globe.Node
	Lights      *globe.Node
	Clouds      *globe.Node
	Glow        *globe.Node
	Stars       *globe.Node
	Sun         *globe.Node
	Moon        *globe.Node
	MoonSurface *globe.Node
	MoonGlow    *globe.Node
}

// Build populates scene's root with the Earth, its cloud and glow shells,
// the starfield, the sun and the Moon. Textures are requested from assets
// and resolve later; until then the meshes draw with placeholder appearance.
// Build never fails: a texture that does not load simply never shows.
func Build(scene *globe.Scene, assets TextureSource, cfg Config) *Nodes {
	tex := cfg.Textures
	sphere := globe.NewIcosahedronGeometry(earthRadius, cfg.Detail)
	n := &Nodes{}

	n.Earth = globe.NewGroup(NodeEarth)
	n.Earth.SetRotation(0, 0, axialTilt)
	scene.Root().AddChild(n.Earth)

	surface := globe.NewPhongMaterial()
	surface.Map = assets.LoadTexture(tex.EarthMap)
	surface.SpecularMap = assets.LoadTexture(tex.EarthSpecular)
	surface.BumpMap = assets.LoadTexture(tex.EarthBump)
	surface.BumpScale = surfaceBump
	n.Surface = globe.NewMesh(NodeSurface, sphere, surface)
	n.Earth.AddChild(n.Surface)

	lights := globe.NewBasicMaterial()
	lights.Map = assets.LoadTexture(tex.EarthLights)
	lights.Blend = globe.BlendAdd
	n.Lights = globe.NewMesh(NodeLights, sphere, lights)
	n.Earth.AddChild(n.Lights)

	clouds := globe.NewStandardMaterial()
	clouds.Map = assets.LoadTexture(tex.Clouds)
	clouds.AlphaMap = assets.LoadTexture(tex.CloudsAlpha)
	clouds.Transparent = true
	clouds.Opacity = cloudsOpacity
	clouds.Blend = globe.BlendAdd
	n.Clouds = globe.NewMesh(NodeClouds, sphere, clouds)
	n.Clouds.SetScalar(cloudsScale)
	n.Earth.AddChild(n.Clouds)

	n.Glow = globe.NewMesh(NodeGlow, sphere, newGlowMaterial())
	n.Glow.SetScalar(glowShellScale)
	n.Earth.AddChild(n.Glow)

	n.Stars = newStarfield(cfg.StarCount, cfg.StarSeed)
	// Background: drawn before everything else regardless of depth.
	n.Stars.RenderOrder = -1
	scene.Root().AddChild(n.Stars)

	n.Sun = globe.NewDirectionalLight(NodeSun, globe.HexColor(sunColor), sunIntensity)
	n.Sun.SetPosition(sunPosition[0], sunPosition[1], sunPosition[2])
	scene.Root().AddChild(n.Sun)

	n.Moon = globe.NewGroup(NodeMoon)
	scene.Root().AddChild(n.Moon)

	moon := globe.NewStandardMaterial()
	moon.Map = assets.LoadTexture(tex.MoonMap)
	moon.BumpMap = assets.LoadTexture(tex.MoonBump)
	moon.BumpScale = moonBump
	moon.Color = globe.HexColor(moonTint)
	moon.Emissive = globe.HexColor(moonTint)
	moon.EmissiveIntensity = moonEmissiveIntensity
	n.MoonSurface = globe.NewMesh(NodeMoonSurface, sphere, moon)
	n.MoonSurface.SetPosition(moonPosition[0], moonPosition[1], moonPosition[2])
	n.MoonSurface.SetScalar(moonScale)
	n.Moon.AddChild(n.MoonSurface)

	glow := globe.NewBasicMaterial()
	glow.Color = globe.HexColor(moonTint)
	glow.Transparent = true
	glow.Opacity = 0
	glow.Blend = globe.BlendAdd
	n.MoonGlow = globe.NewMesh(NodeMoonGlow,
		globe.NewSphereGeometry(moonGlowRadius, moonGlowSegments, moonGlowSegments), glow)
	n.MoonGlow.SetPosition(moonPosition[0], moonPosition[1], moonPosition[2])
	n.Moon.AddChild(n.MoonGlow)

	return n
}
