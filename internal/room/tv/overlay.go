package tv

import (
	"image"
	"sync"
	"time"

	"github.com/gambo89/gambo-room/internal/media"
)

// Overlay mirrors the current TV media into a full-window player. While
// open the in-world set is frozen; closing copies playback position and
// pause state back so the raster resumes exactly where the overlay left
// off, even when the user navigated to a different item in between.
type Overlay struct {
	mu sync.Mutex

	tv   *TV
	mode State
	open bool

	player   *media.Player
	lastClip *media.Clip

	// setFullscreen asks the window layer for native fullscreen. Nil in
	// tests.
	setFullscreen func(bool)
}

// NewOverlay creates a closed overlay bridged to the TV.
func NewOverlay(t *TV, setFullscreen func(bool)) *Overlay {
	return &Overlay{
		tv:            t,
		player:        media.NewPlayer(),
		setFullscreen: setFullscreen,
	}
}

// IsOpen reports whether the overlay owns the content.
func (o *Overlay) IsOpen() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.open
}

// Mode returns the media mode mirrored by the overlay.
func (o *Overlay) Mode() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mode
}

// Open freezes the in-world set and starts overlay playback of the current
// media at its current position. Only valid while a media mode is active.
func (o *Overlay) Open() bool {
	return o.openAt(true)
}

func (o *Overlay) openAt(requestFullscreen bool) bool {
	mode := o.tv.State()
	if mode != StatePhoto && mode != StateVideo && mode != StateModel {
		return false
	}

	o.mu.Lock()
	if o.open {
		o.mu.Unlock()
		return true
	}
	o.open = true
	o.mode = mode
	o.mu.Unlock()

	a := o.tv.Adapter(mode)
	wasPlaying := a.Playing()
	a.Pause()
	o.tv.Freeze()

	clip := a.Clip()
	o.mu.Lock()
	o.player.SetClip(clip)
	o.lastClip = clip
	if clip != nil {
		o.player.Seek(a.Position())
		if wasPlaying || (mode != StatePhoto && clip.Duration() > 0) {
			_ = o.player.Play(true)
		}
	}
	o.mu.Unlock()

	if requestFullscreen && o.setFullscreen != nil {
		o.setFullscreen(true)
	}
	return true
}

// Close stops overlay playback, copies position and pause state back into
// the in-world player and unfreezes the set.
func (o *Overlay) Close() {
	o.closeAt(true)
}

func (o *Overlay) closeAt(releaseFullscreen bool) {
	o.mu.Lock()
	if !o.open {
		o.mu.Unlock()
		return
	}
	o.open = false
	mode := o.mode
	pos := o.player.Position()
	playing := o.player.Playing()
	sameClip := o.lastClip != nil && o.lastClip == o.player.Clip()
	o.player.Stop()
	o.player.SetClip(nil)
	o.lastClip = nil
	o.mu.Unlock()

	a := o.tv.Adapter(mode)
	if a != nil && sameClip {
		a.Seek(pos)
		if playing {
			_ = a.Play()
		}
	} else if a != nil && playing {
		_ = a.Play()
	}

	o.tv.Unfreeze()

	if releaseFullscreen && o.setFullscreen != nil {
		o.setFullscreen(false)
	}
}

// Next advances to the next playlist item on both sides: the in-world index
// moves (kept paused) and the overlay adopts the new source once loaded.
func (o *Overlay) Next() {
	o.step(1)
}

// Prev steps back one playlist item on both sides.
func (o *Overlay) Prev() {
	o.step(-1)
}

func (o *Overlay) step(delta int) {
	o.mu.Lock()
	if !o.open {
		o.mu.Unlock()
		return
	}
	mode := o.mode
	o.mu.Unlock()

	a := o.tv.Adapter(mode)
	// Load without autoplay: the in-world side stays paused while the
	// overlay owns playback.
	a.Load(a.Index()+delta, false)
}

// TogglePlayback pauses or resumes the overlay player.
func (o *Overlay) TogglePlayback() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.open {
		return
	}
	if o.player.Playing() {
		o.player.Pause()
		return
	}
	_ = o.player.Play(true)
}

// Playing reports whether the overlay player is advancing.
func (o *Overlay) Playing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.player.Playing()
}

// Frame returns the overlay's current frame, nil while the next source is
// still loading.
func (o *Overlay) Frame() *image.RGBA {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.open {
		return nil
	}
	return o.player.Frame()
}

// Update adopts freshly loaded sources after prev/next navigation and
// advances overlay playback.
func (o *Overlay) Update(dt time.Duration) {
	o.mu.Lock()
	if !o.open {
		o.mu.Unlock()
		return
	}
	mode := o.mode
	last := o.lastClip
	o.mu.Unlock()

	a := o.tv.Adapter(mode)
	if clip := a.Clip(); clip != nil && clip != last && a.State() == media.LoadReady {
		o.mu.Lock()
		o.player.SetClip(clip)
		o.lastClip = clip
		if clip.Duration() > 0 {
			_ = o.player.Play(true)
		}
		o.mu.Unlock()
	}

	o.mu.Lock()
	o.player.Advance(dt)
	o.mu.Unlock()
}

// HandleFullscreenChange mirrors native fullscreen window events onto the
// same freeze/unfreeze path, since the user can enter or leave true
// fullscreen without touching the overlay's own controls.
func (o *Overlay) HandleFullscreenChange(entered bool) {
	o.mu.Lock()
	open := o.open
	o.mu.Unlock()

	if entered && !open {
		o.openAt(false)
	} else if !entered && open {
		o.closeAt(false)
	}
}
