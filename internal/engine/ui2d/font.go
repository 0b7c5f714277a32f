package ui2d

import (
	"image"
	"image/color"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Font is a texture atlas of the printable ASCII range rendered from the
// basicfont face. Glyphs are fixed-width which keeps MeasureText trivial.
type Font struct {
	textureID  uint32
	glyphW     int
	glyphH     int
	cols       int
	rows       int
	atlasW     int
	atlasH     int
	firstGlyph rune
	lastGlyph  rune
}

const (
	fontFirstGlyph = ' '
	fontLastGlyph  = '~'
	fontAtlasCols  = 16
)

// NewFont builds the glyph atlas and uploads it as an alpha texture.
func NewFont() *Font {
	face := basicfont.Face7x13

	f := &Font{
		glyphW:     face.Advance,
		glyphH:     face.Height,
		cols:       fontAtlasCols,
		firstGlyph: fontFirstGlyph,
		lastGlyph:  fontLastGlyph,
	}

	glyphCount := int(f.lastGlyph-f.firstGlyph) + 1
	f.rows = (glyphCount + f.cols - 1) / f.cols
	f.atlasW = f.cols * f.glyphW
	f.atlasH = f.rows * f.glyphH

	atlas := image.NewRGBA(image.Rect(0, 0, f.atlasW, f.atlasH))
	drawer := &font.Drawer{
		Dst:  atlas,
		Src:  image.NewUniform(color.White),
		Face: face,
	}

	for i := 0; i < glyphCount; i++ {
		col := i % f.cols
		row := i / f.cols
		drawer.Dot = fixed.P(col*f.glyphW, row*f.glyphH+face.Ascent)
		drawer.DrawString(string(f.firstGlyph + rune(i)))
	}

	gl.GenTextures(1, &f.textureID)
	gl.BindTexture(gl.TEXTURE_2D, f.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(f.atlasW), int32(f.atlasH), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(atlas.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return f
}

// TextureID returns the atlas texture.
func (f *Font) TextureID() uint32 {
	return f.textureID
}

// GlyphSize returns the fixed glyph cell size in pixels.
func (f *Font) GlyphSize() (int, int) {
	return f.glyphW, f.glyphH
}

// GetGlyphUV returns the atlas UV rectangle for a character.
// Unknown characters map to '?'.
func (f *Font) GetGlyphUV(char rune) (u0, v0, u1, v1 float32) {
	if char < f.firstGlyph || char > f.lastGlyph {
		char = '?'
	}
	i := int(char - f.firstGlyph)
	col := i % f.cols
	row := i / f.cols

	u0 = float32(col*f.glyphW) / float32(f.atlasW)
	v0 = float32(row*f.glyphH) / float32(f.atlasH)
	u1 = float32((col+1)*f.glyphW) / float32(f.atlasW)
	v1 = float32((row+1)*f.glyphH) / float32(f.atlasH)
	return u0, v0, u1, v1
}

// MeasureText returns the width and height of rendered text at a scale.
func (f *Font) MeasureText(text string, scale float32) (float32, float32) {
	maxW := 0
	curW := 0
	lines := 1
	for _, char := range text {
		if char == '\n' {
			lines++
			curW = 0
			continue
		}
		curW++
		if curW > maxW {
			maxW = curW
		}
	}
	return float32(maxW) * float32(f.glyphW) * scale, float32(lines) * float32(f.glyphH) * scale
}

// Close releases the atlas texture.
func (f *Font) Close() {
	if f.textureID != 0 {
		gl.DeleteTextures(1, &f.textureID)
		f.textureID = 0
	}
}
