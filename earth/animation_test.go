package earth

import (
	"testing"

	"github.com/Godawela/globe"
	"github.com/stretchr/testify/assert"
)

func TestAnimationTicks(t *testing.T) {
	scene := globe.NewScene(nil)
	cfg := testConfig()
	n := Build(scene, &pendingAssets{}, cfg)
	a := NewAnimation(n, cfg)

	const ticks = 120
	for range ticks {
		a.Tick(1.0 / 144)
	}

	assert.Equal(t, uint64(ticks), a.Ticks())
	assert.InDelta(t, 0.003*ticks, n.Surface.Rotation[1], 1e-9)
	assert.InDelta(t, 0.003*ticks, n.Lights.Rotation[1], 1e-9)
	assert.InDelta(t, 0.003*ticks, n.Glow.Rotation[1], 1e-9)
	assert.InDelta(t, 0.0023*ticks, n.Clouds.Rotation[1], 1e-9)
	assert.InDelta(t, -0.0003*ticks, n.Stars.Rotation[1], 1e-9)
	assert.InDelta(t, 0.005*ticks, n.Moon.Rotation[1], 1e-9)

	// The tilted group and the moon's children never rotate themselves.
	assert.Equal(t, 0.0, n.Earth.Rotation[1])
	assert.Equal(t, 0.0, n.MoonSurface.Rotation[1])
}

func TestAnimationTimeScaled(t *testing.T) {
	scene := globe.NewScene(nil)
	cfg := testConfig()
	cfg.TimeScaled = true
	n := Build(scene, &pendingAssets{}, cfg)
	a := NewAnimation(n, cfg)

	// Two ticks at 30 Hz cover the same angle as four at 60 Hz.
	a.Tick(1.0 / 30)
	a.Tick(1.0 / 30)
	assert.InDelta(t, 0.003*4, n.Surface.Rotation[1], 1e-9)
}

func TestAnimationNoWrap(t *testing.T) {
	scene := globe.NewScene(nil)
	cfg := testConfig()
	cfg.Speeds.Moon = 1
	n := Build(scene, &pendingAssets{}, cfg)
	a := NewAnimation(n, cfg)
	for range 10 {
		a.Tick(0)
	}
	assert.InDelta(t, 10.0, n.Moon.Rotation[1], 1e-12)
}
