package globe

import (
	"bytes"
	"errors"
	"testing"
)

type fakePlayer struct {
	plays  int
	volume float64
}

func (p *fakePlayer) Play()               { p.plays++ }
func (p *fakePlayer) SetVolume(v float64) { p.volume = v }
func (p *fakePlayer) IsPlaying() bool     { return p.plays > 0 }

type fakeStream struct {
	*bytes.Reader
}

func (s fakeStream) Length() int64 { return s.Size() }

func fakeFactory(p *fakePlayer) PlayerFactory {
	return func(AudioStream) (Player, error) { return p, nil }
}

func TestAudioCuePlaysOnceOnClicks(t *testing.T) {
	s := NewScene(nil)
	p := &fakePlayer{}
	sound := NewAudioHandle("music", fakeStream{bytes.NewReader([]byte{1, 2, 3, 4})})
	cue := NewAudioCue(s, sound, fakeFactory(p))

	if !cue.Armed() {
		t.Fatal("cue should arm immediately for a resolved sound")
	}
	if p.volume != DefaultVolume {
		t.Errorf("volume = %f, want %f", p.volume, DefaultVolume)
	}

	s.InjectClick(10, 10)
	s.InjectClick(20, 20)
	drain(s)

	if p.plays != 1 {
		t.Errorf("plays = %d, want 1", p.plays)
	}
	if !cue.Started() {
		t.Error("cue should report started")
	}
	if len(s.handlers.pointerUp) != 0 || len(s.handlers.pointerDown) != 0 {
		t.Error("trigger listeners should remove themselves")
	}
}

func TestAudioCueIgnoresClicksBeforeLoad(t *testing.T) {
	s := NewScene(nil)
	p := &fakePlayer{}
	sound := &AudioHandle{Path: "music"}
	cue := NewAudioCue(s, sound, fakeFactory(p), WithVolume(0.8))

	s.InjectClick(10, 10)
	drain(s)
	if cue.Armed() || p.plays != 0 {
		t.Fatal("clicks before load must be ignored")
	}

	sound.resolve(fakeStream{bytes.NewReader([]byte{0, 0, 0, 0})})
	if !cue.Armed() {
		t.Fatal("cue should arm on resolve")
	}
	if p.plays != 0 {
		t.Error("resolving must not start playback")
	}
	if p.volume != 0.8 {
		t.Errorf("volume = %f, want 0.8", p.volume)
	}

	s.InjectClick(10, 10)
	drain(s)
	if p.plays != 1 {
		t.Errorf("plays = %d, want 1", p.plays)
	}
}

func TestAudioCueTouchStartTriggers(t *testing.T) {
	s := NewScene(nil)
	p := &fakePlayer{}
	sound := NewAudioHandle("music", fakeStream{bytes.NewReader(nil)})
	NewAudioCue(s, sound, fakeFactory(p))

	s.InjectTouch(1, 5, 5, true)
	s.processInput()
	if p.plays != 1 {
		t.Errorf("plays after touch start = %d, want 1", p.plays)
	}
	s.InjectTouch(1, 5, 5, false)
	drain(s)
	if p.plays != 1 {
		t.Errorf("plays after tap = %d, want 1", p.plays)
	}
}

func TestAudioCuePlaysAfterDragRelease(t *testing.T) {
	s := NewScene(nil)
	p := &fakePlayer{}
	sound := NewAudioHandle("music", fakeStream{bytes.NewReader(nil)})
	NewAudioCue(s, sound, fakeFactory(p))

	s.InjectDrag(10, 10, 60, 10, 5)
	drain(s)

	if p.plays != 1 {
		t.Errorf("plays after drag release = %d, want 1", p.plays)
	}
}

func TestAudioCueRightButtonDoesNotTrigger(t *testing.T) {
	s := NewScene(nil)
	p := &fakePlayer{}
	sound := NewAudioHandle("music", fakeStream{bytes.NewReader(nil)})
	NewAudioCue(s, sound, fakeFactory(p))

	s.InjectButtonPress(5, 5, MouseButtonRight, 0)
	s.InjectRelease(5, 5)
	drain(s)

	if p.plays != 0 {
		t.Errorf("plays after right click = %d, want 0", p.plays)
	}
}

func TestAudioCueMouseDownDoesNotTrigger(t *testing.T) {
	s := NewScene(nil)
	p := &fakePlayer{}
	sound := NewAudioHandle("music", fakeStream{bytes.NewReader(nil)})
	NewAudioCue(s, sound, fakeFactory(p))

	s.InjectPress(5, 5)
	s.processInput()
	if p.plays != 0 {
		t.Error("mouse press alone should not start playback")
	}
}

func TestAudioCueFailedLoadStaysSilent(t *testing.T) {
	s := NewScene(nil)
	p := &fakePlayer{}
	sound := &AudioHandle{Path: "music"}
	cue := NewAudioCue(s, sound, fakeFactory(p))
	sound.fail()

	s.InjectClick(1, 1)
	drain(s)
	if cue.Armed() || p.plays != 0 {
		t.Error("failed sound must never play")
	}
}

func TestAudioCueFactoryError(t *testing.T) {
	s := NewScene(nil)
	sound := NewAudioHandle("music", fakeStream{bytes.NewReader(nil)})
	cue := NewAudioCue(s, sound, func(AudioStream) (Player, error) {
		return nil, errors.New("no device")
	})
	if cue.Armed() {
		t.Error("cue should not arm without a player")
	}
	s.InjectClick(1, 1)
	drain(s)
}
