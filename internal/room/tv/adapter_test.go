package tv

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gambo89/gambo-room/internal/assets"
	"github.com/gambo89/gambo-room/internal/media"
)

// testStill builds a single-frame clip filled with the given red level.
func testStill(red uint8) *media.Clip {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = red
		img.Pix[i+3] = 255
	}
	return media.StillClip(img)
}

// testMotionClip builds a 3-frame clip with 100ms frame delays.
func testMotionClip(t *testing.T) *media.Clip {
	t.Helper()
	g := &gif.GIF{Config: image.Config{Width: 8, Height: 8}}
	for i := 0; i < 3; i++ {
		p := image.NewPaletted(image.Rect(0, 0, 8, 8), color.Palette{
			color.RGBA{A: 255},
			color.RGBA{R: uint8(50 + i*50), A: 255},
		})
		for j := range p.Pix {
			p.Pix[j] = 1
		}
		g.Image = append(g.Image, p)
		g.Delay = append(g.Delay, 10)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatal(err)
	}
	clip, err := media.DecodeClip(buf.Bytes(), "test.gif")
	if err != nil {
		t.Fatal(err)
	}
	return clip
}

// blockingFetch lets a test control exactly when each load resolves.
type blockingFetch struct {
	mu      sync.Mutex
	pending map[string]chan struct{}
	clips   map[string]*media.Clip
}

func newBlockingFetch() *blockingFetch {
	return &blockingFetch{
		pending: make(map[string]chan struct{}),
		clips:   make(map[string]*media.Clip),
	}
}

func (f *blockingFetch) add(path string, clip *media.Clip) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clips[path] = clip
	f.pending[path] = make(chan struct{})
}

func (f *blockingFetch) release(path string) {
	f.mu.Lock()
	ch := f.pending[path]
	f.mu.Unlock()
	close(ch)
}

func (f *blockingFetch) fetch(path string) (*media.Clip, error) {
	f.mu.Lock()
	ch := f.pending[path]
	clip := f.clips[path]
	f.mu.Unlock()
	if ch != nil {
		<-ch
	}
	if clip == nil {
		return nil, fmt.Errorf("%w: %s", media.ErrAssetLoad, path)
	}
	return clip, nil
}

// waitState polls until the adapter leaves the loading state.
func waitState(t *testing.T, a *MediaAdapter) media.LoadState {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s := a.State(); s != media.LoadLoading {
			return s
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("adapter never left the loading state")
	return media.LoadIdle
}

func TestAdapterStaleLoadRace(t *testing.T) {
	f := newBlockingFetch()
	f.add("a.png", testStill(100))
	f.add("b.png", testStill(200))

	a := NewPhotoAdapter([]string{"a.png", "b.png"}, nil)
	a.fetch = f.fetch

	a.Load(0, false)
	a.Load(1, false)

	// The newer load resolves first.
	f.release("b.png")
	if s := waitState(t, a); s != media.LoadReady {
		t.Fatalf("state after newer load = %v", s)
	}

	// The stale load resolves late; it must not overwrite index 1's state.
	f.release("a.png")
	time.Sleep(20 * time.Millisecond)

	if got := a.Index(); got != 1 {
		t.Fatalf("index = %d, want 1", got)
	}
	frame := a.Clip().FrameAt(0)
	if frame.Pix[0] != 200 {
		t.Errorf("displayed frame red = %d, want 200 (index 1)", frame.Pix[0])
	}
}

func TestAdapterLoadError(t *testing.T) {
	f := newBlockingFetch()
	f.add("broken.png", nil)

	a := NewPhotoAdapter([]string{"broken.png"}, nil)
	a.fetch = f.fetch

	a.Load(0, false)
	f.release("broken.png")
	if s := waitState(t, a); s != media.LoadError {
		t.Fatalf("state = %v, want LoadError", s)
	}

	// An errored slot draws black, never crashes.
	buf := NewScreenBuffer()
	a.DrawFrame(buf)
	if got := buf.Image().RGBAAt(960, 540); got != ColorScreenOff {
		t.Errorf("errored draw pixel = %v, want off color", got)
	}
}

func TestAdapterIndexWraps(t *testing.T) {
	a := NewPhotoAdapter([]string{"a.png", "b.png", "c.png"}, nil)

	a.Load(-1, false)
	if got := a.Index(); got != 2 {
		t.Errorf("Load(-1) index = %d, want 2", got)
	}
	a.Load(3, false)
	if got := a.Index(); got != 0 {
		t.Errorf("Load(3) index = %d, want 0", got)
	}
}

func TestAdapterBlackUntilFirstFrame(t *testing.T) {
	f := newBlockingFetch()
	f.add("a.png", testStill(100))
	f.add("b.png", testStill(200))

	a := NewPhotoAdapter([]string{"a.png", "b.png"}, nil)
	a.fetch = f.fetch

	a.Load(0, false)
	f.release("a.png")
	waitState(t, a)

	buf := NewScreenBuffer()
	a.DrawFrame(buf)
	if got := buf.Image().RGBAAt(960, 540); got.R != 100 {
		t.Fatalf("first frame red = %d, want 100", got.R)
	}

	// Swap source: drawing before the new frame decodes shows black, not
	// the stale frame.
	a.Load(1, false)
	a.DrawFrame(buf)
	if got := buf.Image().RGBAAt(960, 540); got != ColorScreenOff {
		t.Errorf("pixel during load = %v, want off color", got)
	}

	f.release("b.png")
	waitState(t, a)
	a.DrawFrame(buf)
	if got := buf.Image().RGBAAt(960, 540); got.R != 200 {
		t.Errorf("pixel after load = red %d, want 200", got.R)
	}
}

func TestAdapterAutoAdvance(t *testing.T) {
	clip := testMotionClip(t)
	f := newBlockingFetch()
	f.add("a.gif", clip)
	f.add("b.gif", clip)

	a := NewVideoAdapter([]string{"a.gif", "b.gif"}, nil)
	a.fetch = f.fetch

	a.Load(0, true)
	f.release("a.gif")
	waitState(t, a)
	if !a.Playing() {
		t.Fatal("autoplay did not start playback")
	}

	// Play past the natural end; a user-initiated clip advances to the
	// next item.
	a.Advance(clip.Duration() + time.Millisecond)

	f.release("b.gif")
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && a.Index() != 1 {
		time.Sleep(time.Millisecond)
	}
	if got := a.Index(); got != 1 {
		t.Fatalf("index after natural end = %d, want 1", got)
	}
}

func TestAdapterNoAutoAdvanceWhenNotUserInitiated(t *testing.T) {
	clip := testMotionClip(t)
	a := NewVideoAdapter([]string{"a.gif", "b.gif"}, nil)

	// Install the clip directly and start playback programmatically.
	a.mu.Lock()
	a.state = media.LoadReady
	a.player.SetClip(clip)
	_ = a.player.Play(false)
	a.mu.Unlock()

	a.Advance(clip.Duration() + time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	if got := a.Index(); got != 0 {
		t.Errorf("index = %d, want 0 (no auto-advance)", got)
	}
}

func TestAdapterPhotoNeverAutoAdvances(t *testing.T) {
	f := newBlockingFetch()
	f.add("a.png", testStill(10))
	f.add("b.png", testStill(20))

	a := NewPhotoAdapter([]string{"a.png", "b.png"}, nil)
	a.fetch = f.fetch

	a.Load(0, false)
	f.release("a.png")
	waitState(t, a)

	a.Advance(time.Second)
	if got := a.Index(); got != 0 {
		t.Errorf("photo index = %d, want 0", got)
	}
	if a.Playing() {
		t.Error("a still should never report playing")
	}
}

func TestLoaderFetchReleasesTracker(t *testing.T) {
	dir := t.TempDir()

	// A real decodable asset.
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ok.png"), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ok.unknown"), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	tracker := assets.NewTracker()
	ld := NewLoader(assets.NewManager(dir), tracker)

	if _, err := ld.Fetch("ok.png"); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !tracker.Idle() {
		t.Error("tracker not released after success")
	}

	if _, err := ld.Fetch("missing.png"); err == nil {
		t.Fatal("Fetch succeeded for a missing asset")
	}
	if !tracker.Idle() {
		t.Error("tracker not released after failure")
	}

	if _, err := ld.Fetch("ok.unknown"); err == nil {
		t.Fatal("Fetch succeeded for an unsupported extension")
	}
}
