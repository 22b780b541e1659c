package globe

import (
	"fmt"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// DefaultVolume is the fixed playback volume of an AudioCue.
const DefaultVolume = 0.5

// Player is the playback surface an AudioCue drives.
type Player interface {
	Play()
	SetVolume(v float64)
	IsPlaying() bool
}

// PlayerFactory creates a looping player for a decoded stream.
type PlayerFactory func(stream AudioStream) (Player, error)

// EbitenPlayerFactory returns a factory that loops streams forever on ctx.
func EbitenPlayerFactory(ctx *audio.Context) PlayerFactory {
	return func(stream AudioStream) (Player, error) {
		loop := audio.NewInfiniteLoop(stream, stream.Length())
		p, err := ctx.NewPlayer(loop)
		if err != nil {
			return nil, fmt.Errorf("new audio player: %w", err)
		}
		return p, nil
	}
}

// AudioCue is a looping background sound that stays silent until the first
// left-button release or touch start anywhere in the scene, then plays for
// the rest of the session. Trigger listeners are installed only once the sound has loaded;
// interactions before that are ignored.
type AudioCue struct {
	scene   *Scene
	factory PlayerFactory
	volume  float64
	log     *slog.Logger

	player  Player
	latch   Latch
	handles []CallbackHandle
}

// AudioCueOption configures an AudioCue.
type AudioCueOption func(*AudioCue)

// WithVolume overrides DefaultVolume.
func WithVolume(v float64) AudioCueOption {
	return func(c *AudioCue) { c.volume = v }
}

// WithCueLogger sets the logger for player creation failures.
func WithCueLogger(l *slog.Logger) AudioCueOption {
	return func(c *AudioCue) { c.log = l }
}

// NewAudioCue arms a cue for sound on scene. Nothing is played or registered
// until sound resolves.
func NewAudioCue(scene *Scene, sound *AudioHandle, factory PlayerFactory, opts ...AudioCueOption) *AudioCue {
	c := &AudioCue{
		scene:   scene,
		factory: factory,
		volume:  DefaultVolume,
		log:     slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	sound.OnReady(c.arm)
	return c
}

// arm builds the looping player and installs the one-shot trigger.
func (c *AudioCue) arm(h *AudioHandle) {
	p, err := c.factory(h.Stream())
	if err != nil {
		c.log.Debug("audio cue disabled", slog.String("path", h.Path), slog.Any("err", err))
		return
	}
	p.SetVolume(c.volume)
	c.player = p
	c.handles = append(c.handles,
		// A primary-button release counts even after a drag, matching a
		// browser click on the canvas.
		c.scene.OnPointerUp(func(ctx PointerContext) {
			if !ctx.Touch && ctx.Button == MouseButtonLeft {
				c.trigger()
			}
		}),
		c.scene.OnPointerDown(func(ctx PointerContext) {
			if ctx.Touch {
				c.trigger()
			}
		}),
	)
}

func (c *AudioCue) trigger() {
	c.latch.Fire(func() {
		for _, h := range c.handles {
			h.Remove()
		}
		c.handles = nil
		c.player.Play()
	})
}

// Armed reports whether the sound has loaded and the trigger is installed
// or has already fired.
func (c *AudioCue) Armed() bool {
	return c.player != nil
}

// Started reports whether playback has been started.
func (c *AudioCue) Started() bool {
	return c.latch.Fired()
}

// Player returns the underlying player, or nil before the sound loads.
func (c *AudioCue) Player() Player {
	return c.player
}
