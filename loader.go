package globe

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/semaphore"
)

const (
	defaultLoadConcurrency = 4
	defaultSampleRate      = 48000
	completionQueueSize    = 64
)

// completion is a continuation produced by a background decode. It runs on
// the update thread inside Loader.Poll.
type completion func()

// Loader resolves textures and audio from an asset root. Every request
// returns a pending handle immediately; decoding runs in the background and
// the handle is resolved later, on the caller's thread, by Poll. Failed loads
// are logged at debug level and their handles never resolve.
type Loader struct {
	fsys       fs.FS
	log        *slog.Logger
	sem        *semaphore.Weighted
	ctx        context.Context
	done       chan completion
	pending    int
	sampleRate int
	maxSize    int

	textures map[string]*Texture
	audio    map[string]*AudioHandle
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used for load failures.
func WithLogger(log *slog.Logger) LoaderOption {
	return func(l *Loader) { l.log = log }
}

// WithConcurrency bounds how many assets decode at once.
func WithConcurrency(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithSampleRate sets the sample rate audio is decoded to. It must match the
// audio.Context used for playback.
func WithSampleRate(rate int) LoaderOption {
	return func(l *Loader) {
		if rate > 0 {
			l.sampleRate = rate
		}
	}
}

// WithMaxTextureSize downsamples textures whose larger side exceeds n pixels.
// Zero disables downsampling.
func WithMaxTextureSize(n int) LoaderOption {
	return func(l *Loader) { l.maxSize = n }
}

// WithContext sets the context that background loads observe while waiting
// for a decode slot.
func WithContext(ctx context.Context) LoaderOption {
	return func(l *Loader) { l.ctx = ctx }
}

// NewLoader creates a loader reading assets from fsys.
func NewLoader(fsys fs.FS, opts ...LoaderOption) *Loader {
	l := &Loader{
		fsys:       fsys,
		log:        slog.Default(),
		sem:        semaphore.NewWeighted(defaultLoadConcurrency),
		ctx:        context.Background(),
		done:       make(chan completion, completionQueueSize),
		sampleRate: defaultSampleRate,
		textures:   make(map[string]*Texture),
		audio:      make(map[string]*AudioHandle),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SampleRate returns the sample rate audio is decoded to.
func (l *Loader) SampleRate() int {
	return l.sampleRate
}

// Pending returns the number of requests that have not been resolved or
// failed yet.
func (l *Loader) Pending() int {
	return l.pending
}

// LoadTexture requests the image at p. Repeated requests for the same path
// share one handle.
func (l *Loader) LoadTexture(p string) *Texture {
	if t, ok := l.textures[p]; ok {
		return t
	}
	t := &Texture{Path: p}
	l.textures[p] = t
	l.pending++
	go l.run(p, func() (completion, error) {
		img, err := l.decodeImage(p)
		if err != nil {
			return nil, err
		}
		return func() { t.resolve(img) }, nil
	}, t.fail)
	return t
}

// LoadAudio requests the sound at p. The format (mp3, ogg or wav) is sniffed
// from the content, falling back to the file extension. Repeated requests
// for the same path share one handle.
func (l *Loader) LoadAudio(p string) *AudioHandle {
	if h, ok := l.audio[p]; ok {
		return h
	}
	h := &AudioHandle{Path: p}
	l.audio[p] = h
	l.pending++
	go l.run(p, func() (completion, error) {
		s, err := l.decodeAudio(p)
		if err != nil {
			return nil, err
		}
		return func() { h.resolve(s) }, nil
	}, h.fail)
	return h
}

// run executes a decode in the background and queues its continuation.
func (l *Loader) run(p string, decode func() (completion, error), onFail func()) {
	fail := func(err error) {
		l.done <- func() {
			l.log.Debug("asset load failed", "path", p, "err", err)
			onFail()
		}
	}
	if err := l.sem.Acquire(l.ctx, 1); err != nil {
		fail(err)
		return
	}
	c, err := decode()
	l.sem.Release(1)
	if err != nil {
		fail(err)
		return
	}
	l.done <- c
}

// Poll applies every completed load without blocking and returns how many
// were applied. Call it once per update; handles only change state here.
func (l *Loader) Poll() int {
	n := 0
	for {
		select {
		case c := <-l.done:
			c()
			l.pending--
			n++
		default:
			return n
		}
	}
}

// Wait blocks until every outstanding request has resolved or failed, applying
// completions as they arrive. It is meant for tools and tests; the render loop
// uses Poll.
func (l *Loader) Wait(ctx context.Context) error {
	for l.pending > 0 {
		select {
		case c := <-l.done:
			c()
			l.pending--
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (l *Loader) decodeImage(p string) (image.Image, error) {
	f, err := l.fsys.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open texture %s: %w", p, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", p, err)
	}
	return fitTexture(img, l.maxSize), nil
}

// fitTexture downsamples img so neither side exceeds maxSize, preserving the
// aspect ratio. maxSize <= 0 returns img unchanged.
func fitTexture(img image.Image, maxSize int) image.Image {
	if maxSize <= 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSize && h <= maxSize {
		return img
	}
	if w >= h {
		h = max(1, h*maxSize/w)
		w = maxSize
	} else {
		w = max(1, w*maxSize/h)
		h = maxSize
	}
	return transform.Resize(img, w, h, transform.Linear)
}

func (l *Loader) decodeAudio(p string) (AudioStream, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("read audio %s: %w", p, err)
	}
	r := bytes.NewReader(data)
	var s AudioStream
	switch ext := audioFormat(p, data); ext {
	case ".mp3":
		s, err = mp3.DecodeWithSampleRate(l.sampleRate, r)
	case ".ogg":
		s, err = vorbis.DecodeWithSampleRate(l.sampleRate, r)
	case ".wav":
		s, err = wav.DecodeWithSampleRate(l.sampleRate, r)
	default:
		return nil, fmt.Errorf("decode audio %s: unsupported format %q", p, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode audio %s: %w", p, err)
	}
	return s, nil
}

// audioFormat returns the file extension matching the content's magic
// bytes, falling back to the extension of p for unrecognized content.
func audioFormat(p string, data []byte) string {
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return "." + kind.Extension
	}
	return strings.ToLower(path.Ext(p))
}

// AudioStream is a decoded, seekable PCM stream of known length in bytes.
type AudioStream interface {
	io.ReadSeeker
	Length() int64
}

// AudioHandle is a completion handle for a decoded sound.
type AudioHandle struct {
	Path string

	state   AssetState
	stream  AudioStream
	waiters []func(*AudioHandle)
}

// NewAudioHandle returns an already-resolved handle wrapping s.
func NewAudioHandle(name string, s AudioStream) *AudioHandle {
	h := &AudioHandle{Path: name}
	h.resolve(s)
	return h
}

// State returns the handle's load state.
func (h *AudioHandle) State() AssetState {
	return h.state
}

// Ready reports whether the sound has resolved.
func (h *AudioHandle) Ready() bool {
	return h != nil && h.state == AssetReady
}

// Stream returns the decoded stream, or nil while pending.
func (h *AudioHandle) Stream() AudioStream {
	return h.stream
}

// OnReady registers fn to run when the sound resolves. If it already has, fn
// runs immediately. fn never runs for a failed load.
func (h *AudioHandle) OnReady(fn func(*AudioHandle)) {
	if h.state == AssetReady {
		fn(h)
		return
	}
	h.waiters = append(h.waiters, fn)
}

func (h *AudioHandle) resolve(s AudioStream) {
	h.stream = s
	h.state = AssetReady
	waiters := h.waiters
	h.waiters = nil
	for _, fn := range waiters {
		fn(h)
	}
}

func (h *AudioHandle) fail() {
	h.state = AssetFailed
	h.waiters = nil
}
