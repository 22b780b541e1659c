package earth

// referenceFPS is the refresh rate the per-tick speeds were tuned for.
const referenceFPS = 60

// Animation spins the scene by fixed increments once per tick. Rotations
// accumulate without wrapping.
type Animation struct {
	nodes      *Nodes
	speeds     Speeds
	timeScaled bool
	ticks      uint64
}

// NewAnimation returns an animation driving the nodes built by Build.
func NewAnimation(n *Nodes, cfg Config) *Animation {
	return &Animation{
		nodes:      n,
		speeds:     cfg.Speeds,
		timeScaled: cfg.TimeScaled,
	}
}

// Tick advances the animation by one frame. elapsed is the frame time in
// seconds; it only matters when time scaling is enabled, in which case every
// increment is multiplied by elapsed*60.
func (a *Animation) Tick(elapsed float64) {
	k := 1.0
	if a.timeScaled {
		k = elapsed * referenceFPS
	}
	n := a.nodes
	n.Surface.RotateY(a.speeds.Surface * k)
	n.Lights.RotateY(a.speeds.Surface * k)
	n.Clouds.RotateY(a.speeds.Clouds * k)
	n.Glow.RotateY(a.speeds.Surface * k)
	n.Stars.RotateY(a.speeds.Stars * k)
	n.Moon.RotateY(a.speeds.Moon * k)
	a.ticks++
}

// Ticks returns how many times Tick has run.
func (a *Animation) Ticks() uint64 {
	return a.ticks
}
