package earth

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrInvalidConfig is returned by Validate and LoadConfig for out-of-range
	// settings.
	ErrInvalidConfig = errors.New("earth: invalid config")
	// ErrNoAssetRoot is returned when the asset root is empty.
	ErrNoAssetRoot = errors.New("earth: no asset root")
)

// Textures names the texture files, relative to the asset root.
type Textures struct {
	EarthMap      string `toml:"earth_map"`
	EarthSpecular string `toml:"earth_specular"`
	EarthBump     string `toml:"earth_bump"`
	EarthLights   string `toml:"earth_lights"`
	Clouds        string `toml:"clouds"`
	CloudsAlpha   string `toml:"clouds_alpha"`
	MoonMap       string `toml:"moon_map"`
	MoonBump      string `toml:"moon_bump"`
}

// Speeds are the per-tick rotation increments in radians about the Y axis.
type Speeds struct {
	Surface float64 `toml:"surface"` // surface, night lights and glow
	Clouds  float64 `toml:"clouds"`
	Stars   float64 `toml:"stars"`
	Moon    float64 `toml:"moon"`
}

// Config holds every tunable of the Earth scene. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	AssetRoot string   `toml:"asset_root"`
	Textures  Textures `toml:"textures"`
	Music     string   `toml:"music"`
	Volume    float64  `toml:"volume"`

	// Detail is the icosphere subdivision level.
	Detail    int `toml:"detail"`
	StarCount int `toml:"star_count"`
	// StarSeed seeds the starfield. Zero picks a random seed per run.
	StarSeed uint64 `toml:"star_seed"`

	Speeds Speeds `toml:"speeds"`
	// TimeScaled scales each tick's increments by elapsed*60 so the motion
	// keeps the same speed on high-refresh displays.
	TimeScaled bool `toml:"time_scaled"`

	SmoothZoom     bool `toml:"smooth_zoom"`
	ShaderLighting bool `toml:"shader_lighting"`
	MaxTextureSize int  `toml:"max_texture_size"`
	ShowFPS        bool `toml:"show_fps"`
	Debug          bool `toml:"debug"`
}

// DefaultConfig returns the stock scene settings.
func DefaultConfig() Config {
	return Config{
		AssetRoot: ".",
		Textures: Textures{
			EarthMap:      "textures/00_earthmap1k.jpg",
			EarthBump:     "textures/01_earthbump1k.jpg",
			EarthSpecular: "textures/02_earthspec1k.jpg",
			EarthLights:   "textures/03_earthlights1k.jpg",
			Clouds:        "textures/04_earthcloudmap.jpg",
			CloudsAlpha:   "textures/05_earthcloudmaptrans.jpg",
			MoonMap:       "textures/moonmap1k.jpg",
			MoonBump:      "textures/moonbump1k.jpg",
		},
		Music:     "audio/backgroundmusic.mp3",
		Volume:    0.5,
		Detail:    12,
		StarCount: 20000,
		Speeds: Speeds{
			Surface: 0.003,
			Clouds:  0.0023,
			Stars:   -0.0003,
			Moon:    0.005,
		},
		ShaderLighting: true,
	}
}

// LoadConfig reads a TOML file over DefaultConfig and validates the result.
// Keys not present in the file keep their defaults; unknown keys are an
// error.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return ReadConfig(f)
}

// ReadConfig decodes TOML from r over DefaultConfig and validates it.
func ReadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting that is out of range.
func (c Config) Validate() error {
	switch {
	case c.AssetRoot == "":
		return ErrNoAssetRoot
	case c.Detail < 0 || c.Detail > 64:
		return fmt.Errorf("%w: detail %d not in [0, 64]", ErrInvalidConfig, c.Detail)
	case c.StarCount < 0:
		return fmt.Errorf("%w: star_count %d is negative", ErrInvalidConfig, c.StarCount)
	case c.Volume < 0 || c.Volume > 1:
		return fmt.Errorf("%w: volume %g not in [0, 1]", ErrInvalidConfig, c.Volume)
	case c.MaxTextureSize < 0:
		return fmt.Errorf("%w: max_texture_size %d is negative", ErrInvalidConfig, c.MaxTextureSize)
	}
	return nil
}
