// Package tv implements the virtual television: a fixed raster surface
// composited onto the screen mesh, the power state machine with its menu and
// media modes, the in-canvas hit mapping and the fullscreen overlay bridge.
package tv

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Raster dimensions of the TV's video memory.
const (
	BufferW = 1920
	BufferH = 1080
)

// coverOverscan slightly over-scales cover-fit blits to hide edge artifacts.
const coverOverscan = 1.02

// ColorScreenOff is what the raster holds while the set is powered down.
var ColorScreenOff = color.RGBA{A: 255}

// ScreenBuffer is the off-screen raster the TV draws into. It is owned by
// the TV subsystem; exactly one adapter (or the menu renderer) writes it at
// a time. GL upload happens elsewhere so the buffer stays testable headless.
type ScreenBuffer struct {
	img   *image.RGBA
	dirty bool
}

// NewScreenBuffer allocates the raster blanked to the off color.
func NewScreenBuffer() *ScreenBuffer {
	b := &ScreenBuffer{
		img: image.NewRGBA(image.Rect(0, 0, BufferW, BufferH)),
	}
	b.Clear(ColorScreenOff)
	return b
}

// Image returns the backing raster for texture upload.
func (b *ScreenBuffer) Image() *image.RGBA {
	return b.img
}

// Dirty reports whether the raster changed since the last TakeDirty.
func (b *ScreenBuffer) Dirty() bool {
	return b.dirty
}

// TakeDirty returns the dirty flag and clears it. The upload path calls this
// once per frame.
func (b *ScreenBuffer) TakeDirty() bool {
	d := b.dirty
	b.dirty = false
	return d
}

// Clear fills the whole raster with one color.
func (b *ScreenBuffer) Clear(c color.RGBA) {
	draw.Draw(b.img, b.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	b.dirty = true
}

// FillRect fills a rectangle, alpha-blending over existing content.
func (b *ScreenBuffer) FillRect(x, y, w, h int, c color.RGBA) {
	r := image.Rect(x, y, x+w, y+h).Intersect(b.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(b.img, r, image.NewUniform(c), image.Point{}, draw.Over)
	b.dirty = true
}

// StrokeRect outlines a rectangle with the given border thickness.
func (b *ScreenBuffer) StrokeRect(x, y, w, h, thickness int, c color.RGBA) {
	b.FillRect(x, y, w, thickness, c)
	b.FillRect(x, y+h-thickness, w, thickness, c)
	b.FillRect(x, y+thickness, thickness, h-2*thickness, c)
	b.FillRect(x+w-thickness, y+thickness, thickness, h-2*thickness, c)
}

// CoverSize returns the cover-fit draw size for a source of the given
// dimensions: uniform max scale to fill the raster plus a small overscan.
func CoverSize(srcW, srcH int) (drawW, drawH int) {
	if srcW <= 0 || srcH <= 0 {
		return 0, 0
	}
	sx := float64(BufferW) / float64(srcW)
	sy := float64(BufferH) / float64(srcH)
	scale := sx
	if sy > scale {
		scale = sy
	}
	scale *= coverOverscan
	return int(float64(srcW)*scale + 0.5), int(float64(srcH)*scale + 0.5)
}

// DrawCover blits src over the whole raster with the cover-fit policy:
// scaled by max(bufW/srcW, bufH/srcH) with overscan, centered, overflow
// cropped. Photo, video and model draws all share this exact policy.
func (b *ScreenBuffer) DrawCover(src image.Image) {
	sb := src.Bounds()
	dw, dh := CoverSize(sb.Dx(), sb.Dy())
	if dw == 0 || dh == 0 {
		return
	}

	scaled := imaging.Resize(src, dw, dh, imaging.Linear)

	x := (BufferW - dw) / 2
	y := (BufferH - dh) / 2
	r := image.Rect(x, y, x+dw, y+dh).Intersect(b.img.Bounds())
	draw.Draw(b.img, r, scaled, image.Point{X: r.Min.X - x, Y: r.Min.Y - y}, draw.Src)
	b.dirty = true
}

// textFace is the base bitmap face for all raster text.
var textFace = basicfont.Face7x13

// MeasureText returns the pixel width of s drawn at the given scale.
func MeasureText(s string, scale int) int {
	return len(s) * textFace.Advance * scale
}

// TextHeight returns the pixel height of a line at the given scale.
func TextHeight(scale int) int {
	return textFace.Height * scale
}

// DrawText renders s with the top-left corner at (x, y). The base bitmap
// face is integer-scaled with nearest-neighbor to keep the CRT-menu look.
func (b *ScreenBuffer) DrawText(s string, x, y, scale int, c color.RGBA) {
	if s == "" || scale < 1 {
		return
	}

	w := len(s) * textFace.Advance
	h := textFace.Height
	line := image.NewRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  line,
		Src:  image.NewUniform(c),
		Face: textFace,
		Dot:  fixed.P(0, textFace.Ascent),
	}
	d.DrawString(s)

	var out image.Image = line
	if scale > 1 {
		out = imaging.Resize(line, w*scale, h*scale, imaging.NearestNeighbor)
	}

	r := image.Rect(x, y, x+w*scale, y+h*scale).Intersect(b.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(b.img, r, out, image.Point{X: r.Min.X - x, Y: r.Min.Y - y}, draw.Over)
	b.dirty = true
}

// DrawTextCentered renders s horizontally centered at the given baseline top.
func (b *ScreenBuffer) DrawTextCentered(s string, y, scale int, c color.RGBA) {
	b.DrawText(s, (BufferW-MeasureText(s, scale))/2, y, scale, c)
}
