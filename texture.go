package globe

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// AssetState is the lifecycle state of an asynchronously loaded asset.
type AssetState uint8

const (
	AssetPending AssetState = iota // load requested, not yet resolved
	AssetReady                     // decoded and usable
	AssetFailed                    // load or decode failed; never resolves
)

// Texture is a completion handle for an image. It starts pending and is
// resolved on the update thread by Loader.Poll. Until then materials using it
// draw with placeholder appearance.
type Texture struct {
	Path string

	state   AssetState
	src     image.Image
	img     *ebiten.Image
	version int
	waiters []func(*Texture)
}

// NewTextureFromImage returns an already-resolved texture wrapping src.
func NewTextureFromImage(name string, src image.Image) *Texture {
	t := &Texture{Path: name}
	t.resolve(src)
	return t
}

// State returns the texture's load state.
func (t *Texture) State() AssetState {
	return t.state
}

// Ready reports whether the texture has resolved.
func (t *Texture) Ready() bool {
	return t != nil && t.state == AssetReady
}

// Source returns the decoded image, or nil while pending.
func (t *Texture) Source() image.Image {
	return t.src
}

// Size returns the texture dimensions in pixels, or 0, 0 while pending.
func (t *Texture) Size() (w, h int) {
	if t.src == nil {
		return 0, 0
	}
	b := t.src.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the GPU image for the texture, uploading it on first use.
// Returns nil while the texture is pending or failed.
func (t *Texture) Image() *ebiten.Image {
	if !t.Ready() {
		return nil
	}
	if t.img == nil {
		t.img = ebiten.NewImageFromImage(t.src)
	}
	return t.img
}

// Version increments every time the texture resolves. Derived images cached
// by materials compare against it.
func (t *Texture) Version() int {
	return t.version
}

// OnReady registers fn to run when the texture resolves. If it already has,
// fn runs immediately. fn never runs for a failed texture.
func (t *Texture) OnReady(fn func(*Texture)) {
	if t.state == AssetReady {
		fn(t)
		return
	}
	t.waiters = append(t.waiters, fn)
}

func (t *Texture) resolve(src image.Image) {
	t.src = src
	if t.img != nil {
		t.img.Deallocate()
		t.img = nil
	}
	t.state = AssetReady
	t.version++
	waiters := t.waiters
	t.waiters = nil
	for _, fn := range waiters {
		fn(t)
	}
}

func (t *Texture) fail() {
	t.state = AssetFailed
	t.waiters = nil
}
