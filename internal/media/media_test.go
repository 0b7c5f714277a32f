package media

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"
	"time"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"photos/cover.png", KindImage},
		{"photos/cover.JPG", KindImage},
		{"photos/cover.jpeg", KindImage},
		{"photos/old.bmp", KindImage},
		{"photos/scan.tga", KindImage},
		{"clips/intro.gif", KindVideo},
		{"clips/intro.GIF", KindVideo},
		{"notes/readme.txt", KindUnknown},
		{"noext", KindUnknown},
	}

	for _, tt := range tests {
		if got := Sniff(tt.path); got != tt.want {
			t.Errorf("Sniff(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestNewAsset(t *testing.T) {
	a := NewAsset("clips/loop.gif")
	if a.Kind != KindVideo {
		t.Errorf("expected video kind, got %v", a.Kind)
	}
	if a.State != LoadIdle {
		t.Errorf("expected idle state, got %v", a.State)
	}
}

func TestDecodeImagePNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 3))
	src.SetRGBA(1, 1, color.RGBA{R: 200, G: 10, B: 30, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	got, err := DecodeImage(buf.Bytes(), "photos/x.png")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Bounds().Dx() != 4 || got.Bounds().Dy() != 3 {
		t.Errorf("unexpected bounds %v", got.Bounds())
	}
	if got.RGBAAt(1, 1).R != 200 {
		t.Errorf("pixel mismatch: %v", got.RGBAAt(1, 1))
	}
}

func TestDecodeImageGarbage(t *testing.T) {
	_, err := DecodeImage([]byte("not an image"), "photos/x.png")
	if err == nil {
		t.Fatal("expected error for garbage data")
	}
	if !errors.Is(err, ErrAssetLoad) {
		t.Errorf("expected ErrAssetLoad, got %v", err)
	}
}

// makeClip encodes a small 3-frame GIF with 100ms frame delays.
func makeClip(t *testing.T) *Clip {
	t.Helper()

	g := &gif.GIF{
		Config: image.Config{Width: 8, Height: 8},
	}
	palette := color.Palette{
		color.RGBA{A: 255},
		color.RGBA{R: 255, A: 255},
		color.RGBA{G: 255, A: 255},
	}
	for i := 0; i < 3; i++ {
		frame := image.NewPaletted(image.Rect(0, 0, 8, 8), palette)
		for p := range frame.Pix {
			frame.Pix[p] = uint8(i)
		}
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, 10) // 100ms in 1/100s units
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	clip, err := DecodeClip(buf.Bytes(), "clips/test.gif")
	if err != nil {
		t.Fatalf("decode clip: %v", err)
	}
	return clip
}

func TestDecodeClip(t *testing.T) {
	clip := makeClip(t)

	if clip.Duration() != 300*time.Millisecond {
		t.Errorf("duration = %v, want 300ms", clip.Duration())
	}

	// Frame selection by position
	if f := clip.FrameAt(0); f.RGBAAt(0, 0).R != 0 || f.RGBAAt(0, 0).G != 0 {
		t.Errorf("frame 0 wrong: %v", f.RGBAAt(0, 0))
	}
	if f := clip.FrameAt(150 * time.Millisecond); f.RGBAAt(0, 0).R != 255 {
		t.Errorf("frame at 150ms wrong: %v", f.RGBAAt(0, 0))
	}
	if f := clip.FrameAt(250 * time.Millisecond); f.RGBAAt(0, 0).G != 255 {
		t.Errorf("frame at 250ms wrong: %v", f.RGBAAt(0, 0))
	}
}

func TestDecodeClipGarbage(t *testing.T) {
	_, err := DecodeClip([]byte("nope"), "clips/bad.gif")
	if !errors.Is(err, ErrAssetLoad) {
		t.Errorf("expected ErrAssetLoad, got %v", err)
	}
}

func TestPlayerLifecycle(t *testing.T) {
	p := NewPlayer()

	// No source: play is blocked, frame is nil (drawn black upstream)
	if err := p.Play(true); !errors.Is(err, ErrPlaybackBlocked) {
		t.Errorf("expected ErrPlaybackBlocked, got %v", err)
	}
	if p.Frame() != nil {
		t.Error("expected nil frame with no source")
	}

	p.SetClip(makeClip(t))
	if p.Playing() {
		t.Error("source swap must leave the player paused")
	}
	if p.Position() != 0 {
		t.Error("source swap must rewind")
	}

	if err := p.Play(true); err != nil {
		t.Fatalf("play failed: %v", err)
	}
	p.Advance(150 * time.Millisecond)
	if p.Position() != 150*time.Millisecond {
		t.Errorf("position = %v, want 150ms", p.Position())
	}

	p.Pause()
	p.Advance(time.Second)
	if p.Position() != 150*time.Millisecond {
		t.Error("paused player must not advance")
	}

	p.Stop()
	if p.Position() != 0 || p.Playing() {
		t.Error("stop must rewind and pause")
	}
}

func TestPlayerNaturalEnd(t *testing.T) {
	p := NewPlayer()
	p.SetClip(makeClip(t))

	ended := 0
	p.SetOnEnded(func() { ended++ })

	if err := p.Play(true); err != nil {
		t.Fatalf("play failed: %v", err)
	}
	p.Advance(time.Second)

	if ended != 1 {
		t.Errorf("ended callback fired %d times, want 1", ended)
	}
	if p.Playing() {
		t.Error("player must pause at natural end")
	}
	if p.Position() != p.Clip().Duration() {
		t.Error("position must clamp to clip duration")
	}

	// Restarting a finished clip rewinds
	if err := p.Play(true); err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if p.Position() != 0 {
		t.Error("replaying a finished clip must rewind")
	}
}

func TestPlayerStillClip(t *testing.T) {
	p := NewPlayer()
	p.SetClip(StillClip(image.NewRGBA(image.Rect(0, 0, 2, 2))))

	// Stills accept play but never advance or end
	if err := p.Play(true); err != nil {
		t.Fatalf("play on still failed: %v", err)
	}
	if p.Playing() {
		t.Error("still clip must not report playing")
	}
	if p.Frame() == nil {
		t.Error("still clip must expose its frame")
	}
}

func TestPlayerSeekClamped(t *testing.T) {
	p := NewPlayer()
	p.SetClip(makeClip(t))

	p.Seek(-time.Second)
	if p.Position() != 0 {
		t.Error("seek below zero must clamp to 0")
	}
	p.Seek(time.Hour)
	if p.Position() != p.Clip().Duration() {
		t.Error("seek past end must clamp to duration")
	}
}
