package nightvision

import (
	"fmt"

	"github.com/gambo89/gambo-room/internal/engine/framebuffer"
)

// Read-back target dimensions. Tiny on purpose: the sampler runs at the
// fixed auto-gain rate and a 64x36 read keeps the stall negligible.
const (
	samplerW = 64
	samplerH = 36
)

// FrameSampler measures scene luminance by rendering into a small
// off-screen target and reading the pixels back.
type FrameSampler struct {
	fbo *framebuffer.Framebuffer

	// render draws the scene into the currently bound framebuffer.
	render func()
}

// NewFrameSampler creates the sampler around a scene draw callback.
func NewFrameSampler(render func()) (*FrameSampler, error) {
	fbo, err := framebuffer.New(samplerW, samplerH)
	if err != nil {
		return nil, fmt.Errorf("create luma target: %w", err)
	}
	return &FrameSampler{fbo: fbo, render: render}, nil
}

// SampleLuma renders one reduced frame and returns its average Rec.601
// luma.
func (s *FrameSampler) SampleLuma() (float64, error) {
	restore := s.fbo.BindWithViewport()
	s.fbo.Clear(0, 0, 0, 1)
	s.render()
	pix := s.fbo.ReadPixels()
	restore()

	if len(pix) == 0 {
		return 0, fmt.Errorf("luma read-back returned no pixels")
	}
	return AverageLuma(pix), nil
}

// Destroy releases the read-back target.
func (s *FrameSampler) Destroy() {
	if s.fbo != nil {
		s.fbo.Destroy()
		s.fbo = nil
	}
}
