package tv

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gambo89/gambo-room/internal/assets"
	"github.com/gambo89/gambo-room/internal/logger"
	"github.com/gambo89/gambo-room/internal/media"
)

// defaultLoadTimeout bounds every asset load so the progress tracker is
// always released, stalled reads included.
const defaultLoadTimeout = 10 * time.Second

// Loader resolves playlist paths to decoded clips, pairing every fetch with
// the progress tracker.
type Loader struct {
	assets  *assets.Manager
	tracker *assets.Tracker
	timeout time.Duration
}

// NewLoader creates a loader over the asset manager and progress tracker.
func NewLoader(am *assets.Manager, tracker *assets.Tracker) *Loader {
	return &Loader{assets: am, tracker: tracker, timeout: defaultLoadTimeout}
}

// Fetch reads and decodes one asset. It blocks up to the load timeout and
// releases the progress tracker on success, failure or timeout.
func (l *Loader) Fetch(path string) (*media.Clip, error) {
	done := l.tracker.Begin(path)
	defer done()

	type result struct {
		clip *media.Clip
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		clip, err := l.decode(path)
		ch <- result{clip, err}
	}()

	select {
	case res := <-ch:
		return res.clip, res.err
	case <-time.After(l.timeout):
		return nil, fmt.Errorf("%w: %s: load timed out", media.ErrAssetLoad, path)
	}
}

func (l *Loader) decode(path string) (*media.Clip, error) {
	data, err := l.assets.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", media.ErrAssetLoad, path, err)
	}

	switch media.Sniff(path) {
	case media.KindImage:
		img, err := media.DecodeImage(data, path)
		if err != nil {
			return nil, err
		}
		return media.StillClip(img), nil
	case media.KindVideo:
		return media.DecodeClip(data, path)
	default:
		return nil, fmt.Errorf("%w: %s", media.ErrUnsupported, path)
	}
}

// MediaAdapter drives one TV mode's playlist: it owns the mode's persistent
// player, loads assets asynchronously with last-write-wins generation checks
// and draws the current frame into the screen buffer.
//
// The photo, video and model modes are all instances of this one type: the
// clip abstraction already carries the image-vs-video branch (stills are
// zero-length clips), and SetClip under the adapter lock is the atomic kind
// switch that keeps stale video frames out of image draws.
type MediaAdapter struct {
	mu sync.Mutex

	name   string
	paths  []string
	index  int
	gen    uint64
	state  media.LoadState
	player *media.Player

	// autoAdvance moves to the next item on natural clip end.
	autoAdvance bool

	// fetch is swappable so load-race behavior is testable without disk.
	fetch func(path string) (*media.Clip, error)
}

func newAdapter(name string, paths []string, loader *Loader, autoAdvance bool) *MediaAdapter {
	a := &MediaAdapter{
		name:        name,
		paths:       paths,
		player:      media.NewPlayer(),
		autoAdvance: autoAdvance,
	}
	if loader != nil {
		a.fetch = loader.Fetch
	}
	return a
}

// NewPhotoAdapter creates the photo mode adapter. Stills never auto-advance.
func NewPhotoAdapter(paths []string, loader *Loader) *MediaAdapter {
	return newAdapter("photo", paths, loader, false)
}

// NewVideoAdapter creates the video mode adapter.
func NewVideoAdapter(paths []string, loader *Loader) *MediaAdapter {
	return newAdapter("video", paths, loader, true)
}

// NewModelAdapter creates the 3D-model mode adapter. Its assets are flat
// videos or stills standing in for real model previews; each one routes to
// the matching decode path per its extension.
func NewModelAdapter(paths []string, loader *Loader) *MediaAdapter {
	return newAdapter("model", paths, loader, true)
}

// Count returns the playlist length.
func (a *MediaAdapter) Count() int {
	return len(a.paths)
}

// Index returns the current playlist cursor.
func (a *MediaAdapter) Index() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.index
}

// State returns the current slot's load lifecycle.
func (a *MediaAdapter) State() media.LoadState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Load moves the cursor to index (wrapping modulo playlist length) and
// starts an asynchronous load of that asset. If a newer Load is issued
// before this one resolves, the stale result is dropped: the newest request
// always wins the single current slot.
func (a *MediaAdapter) Load(index int, autoplay bool) {
	a.mu.Lock()
	if len(a.paths) == 0 {
		a.mu.Unlock()
		return
	}

	a.index = wrap(index, len(a.paths))
	path := a.paths[a.index]
	a.state = media.LoadLoading
	// New source: pause and clear so redraws show black, never a stale frame.
	a.player.SetClip(nil)
	a.gen++
	gen := a.gen
	fetch := a.fetch
	a.mu.Unlock()

	if fetch == nil {
		return
	}

	go func() {
		clip, err := fetch(path)
		a.applyLoad(gen, clip, err, autoplay)
	}()
}

// applyLoad installs a finished load if it still belongs to the newest
// request.
func (a *MediaAdapter) applyLoad(gen uint64, clip *media.Clip, err error, autoplay bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if gen != a.gen {
		return // superseded by a later Load
	}

	if err != nil {
		a.state = media.LoadError
		logger.Warn("media load failed", zap.String("adapter", a.name), zap.Error(err))
		return
	}

	a.state = media.LoadReady
	a.player.SetClip(clip)
	if autoplay {
		// Loads with autoplay always follow an explicit user action
		// (confirm, navigate, playlist auto-advance), so playback counts
		// as user-initiated.
		if perr := a.player.Play(true); perr != nil {
			logger.Debug("autoplay refused", zap.String("adapter", a.name), zap.Error(perr))
		}
	}
}

// Play resumes playback. The returned error surfaces playback refusal; the
// caller leaves the player paused and retries on the next user action.
func (a *MediaAdapter) Play() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.player.Play(true)
}

// Pause halts playback in place.
func (a *MediaAdapter) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.player.Pause()
}

// Stop halts playback and rewinds. Called on mode exit and power-off.
func (a *MediaAdapter) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.player.Stop()
}

// Playing reports whether the adapter's player is advancing.
func (a *MediaAdapter) Playing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.player.Playing()
}

// HasVideo reports whether the current clip has playable motion.
func (a *MediaAdapter) HasVideo() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	c := a.player.Clip()
	return c != nil && c.Duration() > 0
}

// Clip returns the currently loaded clip, nil while loading or errored.
func (a *MediaAdapter) Clip() *media.Clip {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.player.Clip()
}

// Position returns the playback position.
func (a *MediaAdapter) Position() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.player.Position()
}

// Seek sets the playback position.
func (a *MediaAdapter) Seek(pos time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.player.Seek(pos)
}

// Advance moves playback forward by dt, auto-advancing the playlist when a
// user-initiated clip reaches its natural end and the ended item is still
// the active one.
func (a *MediaAdapter) Advance(dt time.Duration) {
	a.mu.Lock()
	gen := a.gen
	userInitiated := a.player.UserInitiated()
	ended := false
	a.player.SetOnEnded(func() { ended = true })
	a.player.Advance(dt)
	a.player.SetOnEnded(nil)
	a.mu.Unlock()

	if !ended || !a.autoAdvance || !userInitiated {
		return
	}

	// Drop the advance if the user already navigated away.
	a.mu.Lock()
	stale := gen != a.gen
	next := a.index + 1
	a.mu.Unlock()
	if stale {
		return
	}
	a.Load(next, true)
}

// DrawFrame paints the current frame into the screen buffer using the
// cover-fit policy. Until the first frame of a newly selected source is
// ready, the buffer goes black rather than showing a stale frame.
func (a *MediaAdapter) DrawFrame(buf *ScreenBuffer) {
	a.mu.Lock()
	frame := a.player.Frame()
	ready := a.state == media.LoadReady
	a.mu.Unlock()

	if !ready || frame == nil {
		buf.Clear(ColorScreenOff)
		return
	}
	buf.DrawCover(frame)
}

// wrap maps any integer onto [0, n).
func wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
