package tv

import (
	"image"
	"image/color"
	"testing"
)

func TestScreenBufferClear(t *testing.T) {
	b := NewScreenBuffer()
	c := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	b.Clear(c)

	for _, pt := range []image.Point{{0, 0}, {BufferW - 1, BufferH - 1}, {960, 540}} {
		if got := b.Image().RGBAAt(pt.X, pt.Y); got != c {
			t.Fatalf("pixel %v = %v, want %v", pt, got, c)
		}
	}
	if !b.Dirty() {
		t.Error("Clear did not mark the buffer dirty")
	}
}

func TestScreenBufferTakeDirty(t *testing.T) {
	b := NewScreenBuffer()
	if !b.TakeDirty() {
		t.Fatal("fresh buffer should be dirty")
	}
	if b.TakeDirty() {
		t.Fatal("dirty flag not cleared by TakeDirty")
	}
	b.FillRect(0, 0, 10, 10, color.RGBA{R: 255, A: 255})
	if !b.TakeDirty() {
		t.Fatal("FillRect did not mark the buffer dirty")
	}
}

func TestCoverSize(t *testing.T) {
	// 1920/800 = 2.4, 1080/600 = 1.8; max scale 2.4 plus 2% overscan.
	dw, dh := CoverSize(800, 600)
	if dw != 1958 {
		t.Errorf("draw width = %d, want 1958 (800*2.4*1.02)", dw)
	}
	if dh != 1469 {
		t.Errorf("draw height = %d, want 1469 (600*2.4*1.02)", dh)
	}

	// Degenerate sources draw nothing.
	if dw, dh := CoverSize(0, 600); dw != 0 || dh != 0 {
		t.Errorf("CoverSize(0,600) = %d,%d, want 0,0", dw, dh)
	}
}

func TestDrawCoverCentered(t *testing.T) {
	b := NewScreenBuffer()
	b.Clear(color.RGBA{A: 255})

	src := image.NewRGBA(image.Rect(0, 0, 800, 600))
	fill := color.RGBA{R: 200, G: 100, B: 50, A: 255}
	for y := 0; y < 600; y++ {
		for x := 0; x < 800; x++ {
			src.SetRGBA(x, y, fill)
		}
	}
	b.DrawCover(src)

	// A uniform source scaled with cover must fill the entire raster.
	for _, pt := range []image.Point{{0, 0}, {BufferW - 1, 0}, {0, BufferH - 1}, {960, 540}} {
		got := b.Image().RGBAAt(pt.X, pt.Y)
		if got.A != 255 || got.R < 190 || got.R > 210 {
			t.Fatalf("pixel %v = %v, want near %v", pt, got, fill)
		}
	}
}

func TestDrawText(t *testing.T) {
	b := NewScreenBuffer()
	b.Clear(color.RGBA{A: 255})

	c := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	b.DrawText("HELLO", 100, 100, 3, c)

	// Some pixel inside the text box must be lit.
	lit := false
	for y := 100; y < 100+TextHeight(3) && !lit; y++ {
		for x := 100; x < 100+MeasureText("HELLO", 3); x++ {
			if b.Image().RGBAAt(x, y).R > 200 {
				lit = true
				break
			}
		}
	}
	if !lit {
		t.Error("DrawText left no lit pixels in the text box")
	}
}

func TestStrokeRect(t *testing.T) {
	b := NewScreenBuffer()
	b.Clear(color.RGBA{A: 255})
	c := color.RGBA{R: 255, A: 255}
	b.StrokeRect(10, 10, 100, 50, 2, c)

	if got := b.Image().RGBAAt(10, 10); got != c {
		t.Errorf("border corner = %v, want %v", got, c)
	}
	if got := b.Image().RGBAAt(60, 35); got.R != 0 {
		t.Errorf("interior = %v, want untouched", got)
	}
}
