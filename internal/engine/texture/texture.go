package texture

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Texture wraps a 2D OpenGL texture updated from CPU-side RGBA rasters.
type Texture struct {
	id     uint32
	width  int32
	height int32
}

// New allocates a texture of the given size.
func New(width, height int) *Texture {
	t := &Texture{
		width:  int32(width),
		height: int32(height),
	}

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, t.width, t.height, 0,
		gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return t
}

// ID returns the GL texture name.
func (t *Texture) ID() uint32 {
	return t.id
}

// Size returns the texture dimensions.
func (t *Texture) Size() (int, int) {
	return int(t.width), int(t.height)
}

// Upload replaces the texture contents with the raster. The raster must
// match the texture dimensions.
func (t *Texture) Upload(img *image.RGBA) {
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, t.width, t.height,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Bind binds the texture to the given texture unit.
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
}

// Delete releases the texture.
func (t *Texture) Delete() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}
