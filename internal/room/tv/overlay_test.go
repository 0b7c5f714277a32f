package tv

import (
	"testing"
	"time"
)

// openVideoOverlay powers the TV into video mode and opens the overlay.
func openVideoOverlay(t *testing.T) (*TV, *Overlay) {
	t.Helper()
	tvSet := newTestTV(t)
	tvSet.SetPower(true)
	tvSet.MoveSelection(1)
	tvSet.Confirm()
	settle(t, tvSet)

	o := NewOverlay(tvSet, nil)
	if !o.Open() {
		t.Fatal("overlay failed to open in video mode")
	}
	return tvSet, o
}

func TestOverlayRefusesOutsideMediaModes(t *testing.T) {
	tvSet := newTestTV(t)
	o := NewOverlay(tvSet, nil)

	if o.Open() {
		t.Error("overlay opened while the set is off")
	}

	tvSet.SetPower(true)
	if o.Open() {
		t.Error("overlay opened in menu state")
	}
}

func TestOverlayFreezesInWorldPlayback(t *testing.T) {
	tvSet, o := openVideoOverlay(t)

	if !tvSet.Frozen() {
		t.Fatal("TV not frozen while overlay is open")
	}
	if tvSet.video.Playing() {
		t.Error("in-world player still playing under the overlay")
	}
	if !o.Playing() {
		t.Error("overlay player not playing")
	}
	if o.Frame() == nil {
		t.Error("overlay has no frame")
	}
}

func TestOverlayResyncsPositionOnClose(t *testing.T) {
	tvSet, o := openVideoOverlay(t)

	o.Update(150 * time.Millisecond)
	pos := tvSet.video.Clip().Duration()
	_ = pos

	o.Close()

	if tvSet.Frozen() {
		t.Fatal("TV still frozen after overlay close")
	}
	if got := tvSet.video.Position(); got != 150*time.Millisecond {
		t.Errorf("in-world position after close = %v, want 150ms", got)
	}
	if !tvSet.video.Playing() {
		t.Error("playing overlay must resume in-world playback on close")
	}
}

func TestOverlayClosePausedStaysPaused(t *testing.T) {
	tvSet, o := openVideoOverlay(t)

	o.Update(100 * time.Millisecond)
	o.TogglePlayback() // pause in the overlay
	o.Close()

	if tvSet.video.Playing() {
		t.Error("paused overlay must leave the in-world player paused")
	}
	if got := tvSet.video.Position(); got != 100*time.Millisecond {
		t.Errorf("in-world position = %v, want 100ms", got)
	}
}

func TestOverlayNavigationUpdatesBothSides(t *testing.T) {
	tvSet, o := openVideoOverlay(t)
	first := tvSet.video.Clip()

	o.Next()
	settle(t, tvSet)

	if got := tvSet.video.Index(); got != 1 {
		t.Fatalf("in-world index after overlay next = %d, want 1", got)
	}
	if tvSet.video.Playing() {
		t.Error("in-world side must stay paused during overlay navigation")
	}

	// The overlay adopts the new source on its next update.
	o.Update(time.Millisecond)
	if o.Frame() == nil {
		t.Error("overlay has no frame after adopting the new source")
	}
	_ = first

	o.Prev()
	settle(t, tvSet)
	if got := tvSet.video.Index(); got != 0 {
		t.Errorf("in-world index after overlay prev = %d, want 0", got)
	}
}

func TestOverlayNativeFullscreenEvents(t *testing.T) {
	tvSet := newTestTV(t)
	tvSet.SetPower(true)
	tvSet.MoveSelection(1)
	tvSet.Confirm()
	settle(t, tvSet)

	requests := []bool{}
	o := NewOverlay(tvSet, func(on bool) { requests = append(requests, on) })

	// A native fullscreen entry freezes the TV without re-requesting
	// fullscreen from the window layer.
	o.HandleFullscreenChange(true)
	if !o.IsOpen() || !tvSet.Frozen() {
		t.Fatal("native fullscreen entry did not open the overlay")
	}
	if len(requests) != 0 {
		t.Errorf("native entry issued %d fullscreen requests, want 0", len(requests))
	}

	o.HandleFullscreenChange(false)
	if o.IsOpen() || tvSet.Frozen() {
		t.Fatal("native fullscreen exit did not close the overlay")
	}
	if len(requests) != 0 {
		t.Errorf("native exit issued %d fullscreen requests, want 0", len(requests))
	}

	// The app-level path does request native fullscreen.
	o.Open()
	o.Close()
	if len(requests) != 2 || requests[0] != true || requests[1] != false {
		t.Errorf("app-level open/close fullscreen requests = %v, want [true false]", requests)
	}
}

func TestOverlayOpenIdempotent(t *testing.T) {
	tvSet, o := openVideoOverlay(t)

	o.Update(100 * time.Millisecond)
	if !o.Open() {
		t.Fatal("re-open returned false")
	}
	// Re-opening must not rewind the overlay player.
	if got := o.player.Position(); got != 100*time.Millisecond {
		t.Errorf("position after redundant open = %v, want 100ms", got)
	}
	_ = tvSet
}
