// Package nightvision implements the image-intensifier post effect: the
// auto-gain feedback loop that tracks a target scene brightness and the GL
// post pass with tint, grain and vignette.
package nightvision

import (
	"time"
)

// LumaSampler measures the average perceptual luminance of the rendered
// scene, in [0, 1].
type LumaSampler interface {
	SampleLuma() (float64, error)
}

// Auto-gain tuning.
const (
	// SampleInterval is the fixed sampling period, independent of the
	// render frame rate.
	SampleInterval = time.Second / 12

	// TargetLuma is the average brightness the loop steers toward.
	TargetLuma = 0.18

	// Gain bounds and the level restored on every (re)enable.
	MinGain     = 1.0
	MaxGain     = 4.0
	InitialGain = 1.5

	// smoothing is the single-pole low-pass factor applied per sample.
	// The gradual approach is the "eye adaptation" feel; the gain is
	// never snapped to the desired value.
	smoothing = 0.08

	// lumaEpsilon keeps the desired gain finite on a black scene.
	lumaEpsilon = 1e-3
)

// AutoGain is the night-vision exposure feedback loop. It runs only while
// enabled and owns the gain uniform's value.
type AutoGain struct {
	sampler LumaSampler

	enabled bool
	gain    float64
	accum   time.Duration
}

// NewAutoGain creates a disabled controller over a sampler.
func NewAutoGain(sampler LumaSampler) *AutoGain {
	return &AutoGain{sampler: sampler, gain: InitialGain}
}

// SetEnabled switches the controller. Every enable, re-enable included,
// resets the gain to its initial level and zeroes the sample accumulator.
func (a *AutoGain) SetEnabled(on bool) {
	a.enabled = on
	if on {
		a.gain = InitialGain
		a.accum = 0
	}
}

// Enabled reports whether the controller is running.
func (a *AutoGain) Enabled() bool {
	return a.enabled
}

// Gain returns the current shader gain.
func (a *AutoGain) Gain() float32 {
	return float32(a.gain)
}

// Update advances the sample clock and, each elapsed interval, takes one
// luminance sample and smooths the gain toward the desired value.
func (a *AutoGain) Update(dt time.Duration) {
	if !a.enabled {
		return
	}
	a.accum += dt
	for a.accum >= SampleInterval {
		a.accum -= SampleInterval
		avg, err := a.sampler.SampleLuma()
		if err != nil {
			continue // keep the previous gain on a failed read-back
		}
		a.step(avg)
	}
}

// step applies one feedback iteration for a measured average luminance.
func (a *AutoGain) step(avgLuma float64) {
	if avgLuma < lumaEpsilon {
		avgLuma = lumaEpsilon
	}
	desired := TargetLuma / avgLuma
	if desired < MinGain {
		desired = MinGain
	}
	if desired > MaxGain {
		desired = MaxGain
	}
	a.gain += (desired - a.gain) * smoothing
}

// AverageLuma computes the mean Rec.601 luma of tightly packed RGBA pixels.
func AverageLuma(pix []byte) float64 {
	if len(pix) < 4 {
		return 0
	}
	n := len(pix) / 4
	var sum float64
	for i := 0; i < n*4; i += 4 {
		r := float64(pix[i]) / 255
		g := float64(pix[i+1]) / 255
		b := float64(pix[i+2]) / 255
		sum += 0.299*r + 0.587*g + 0.114*b
	}
	return sum / float64(n)
}
