package media

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"time"
)

// Clip is a decoded video clip: a composed frame sequence with per-frame
// delays. Clips are decoded once and shared read-only between the in-world
// player and the overlay player.
type Clip struct {
	frames   []*image.RGBA
	starts   []time.Duration // start time of each frame
	duration time.Duration
}

// DecodeClip decodes an animated GIF into a composed frame sequence.
// Partial frames are composited over the previous canvas so every stored
// frame is a complete picture.
func DecodeClip(data []byte, assetPath string) (*Clip, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAssetLoad, assetPath, err)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("%w: %s: empty clip", ErrAssetLoad, assetPath)
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}

	c := &Clip{
		frames: make([]*image.RGBA, 0, len(g.Image)),
		starts: make([]time.Duration, 0, len(g.Image)),
	}

	canvas := image.NewRGBA(bounds)
	var at time.Duration
	for i, frame := range g.Image {
		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

		composed := image.NewRGBA(bounds)
		copy(composed.Pix, canvas.Pix)

		c.frames = append(c.frames, composed)
		c.starts = append(c.starts, at)

		delay := time.Duration(g.Delay[i]) * 10 * time.Millisecond
		if delay <= 0 {
			delay = 100 * time.Millisecond
		}
		at += delay
	}
	c.duration = at

	return c, nil
}

// StillClip wraps a single frame as a zero-length clip. Used by the model
// adapter for image assets so both kinds flow through the same player.
func StillClip(frame *image.RGBA) *Clip {
	return &Clip{
		frames: []*image.RGBA{frame},
		starts: []time.Duration{0},
	}
}

// Duration returns the clip length. Zero for stills.
func (c *Clip) Duration() time.Duration {
	return c.duration
}

// FrameAt returns the frame displayed at position pos.
func (c *Clip) FrameAt(pos time.Duration) *image.RGBA {
	if len(c.frames) == 0 {
		return nil
	}
	if pos <= 0 {
		return c.frames[0]
	}
	// Linear scan is fine: clips have tens of frames
	for i := len(c.starts) - 1; i >= 0; i-- {
		if pos >= c.starts[i] {
			return c.frames[i]
		}
	}
	return c.frames[0]
}

// Player is the persistent playback element for one TV mode. It is reused
// across track changes: swapping the source resets position and pause state
// instead of allocating a new player.
type Player struct {
	clip          *Clip
	pos           time.Duration
	playing       bool
	userInitiated bool
	onEnded       func()
}

// NewPlayer creates an empty player.
func NewPlayer() *Player {
	return &Player{}
}

// SetOnEnded registers the natural-end callback. It fires from Advance on
// the update loop, never from another goroutine.
func (p *Player) SetOnEnded(fn func()) {
	p.onEnded = fn
}

// SetClip swaps the source. The player pauses and rewinds; a nil clip leaves
// the player empty (drawn as black until the pending source is ready).
func (p *Player) SetClip(c *Clip) {
	p.clip = c
	p.pos = 0
	p.playing = false
	p.userInitiated = false
}

// Clip returns the current source, nil when none is loaded.
func (p *Player) Clip() *Clip {
	return p.clip
}

// Play starts playback from the current position. A finished clip restarts.
// userInitiated marks whether a natural end may auto-advance the playlist.
func (p *Player) Play(userInitiated bool) error {
	if p.clip == nil {
		return ErrPlaybackBlocked
	}
	if p.clip.Duration() == 0 {
		// Stills have nothing to advance
		return nil
	}
	if p.pos >= p.clip.Duration() {
		p.pos = 0
	}
	p.playing = true
	p.userInitiated = userInitiated
	return nil
}

// Pause halts playback keeping the current position.
func (p *Player) Pause() {
	p.playing = false
}

// Stop halts playback and rewinds.
func (p *Player) Stop() {
	p.playing = false
	p.pos = 0
}

// Playing reports whether the clip is advancing.
func (p *Player) Playing() bool {
	return p.playing
}

// UserInitiated reports whether the current playback was started by an
// explicit user action.
func (p *Player) UserInitiated() bool {
	return p.userInitiated
}

// Position returns the playback position.
func (p *Player) Position() time.Duration {
	return p.pos
}

// Seek sets the playback position, clamped to the clip length.
func (p *Player) Seek(pos time.Duration) {
	if p.clip == nil {
		return
	}
	if pos < 0 {
		pos = 0
	}
	if d := p.clip.Duration(); pos > d {
		pos = d
	}
	p.pos = pos
}

// Frame returns the frame for the current position, nil when no source is
// loaded yet.
func (p *Player) Frame() *image.RGBA {
	if p.clip == nil {
		return nil
	}
	return p.clip.FrameAt(p.pos)
}

// Advance moves playback forward by dt. On natural end the player pauses at
// the last frame and fires the ended callback.
func (p *Player) Advance(dt time.Duration) {
	if !p.playing || p.clip == nil {
		return
	}
	p.pos += dt
	if p.pos >= p.clip.Duration() {
		p.pos = p.clip.Duration()
		p.playing = false
		if p.onEnded != nil {
			p.onEnded()
		}
	}
}
