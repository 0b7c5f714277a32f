package nightvision

import (
	"testing"
	"time"
)

// constSampler always reports the same average luma.
type constSampler struct {
	luma  float64
	calls int
}

func (s *constSampler) SampleLuma() (float64, error) {
	s.calls++
	return s.luma, nil
}

func TestAutoGainDisabledHoldsStill(t *testing.T) {
	s := &constSampler{luma: 0.01}
	a := NewAutoGain(s)

	a.Update(time.Second)
	if s.calls != 0 {
		t.Error("disabled controller sampled the scene")
	}
	if got := a.Gain(); got != InitialGain {
		t.Errorf("gain = %v, want initial %v", got, InitialGain)
	}
}

func TestAutoGainConvergesMonotonically(t *testing.T) {
	// Constant avg luma 0.09 against target 0.18: desired gain 2.0.
	s := &constSampler{luma: 0.09}
	a := NewAutoGain(s)
	a.SetEnabled(true)

	prev := a.Gain()
	for i := 0; i < 200; i++ {
		a.Update(SampleInterval)
		g := a.Gain()
		if g < prev {
			t.Fatalf("tick %d: gain %v fell below previous %v", i, g, prev)
		}
		if g > 2.0+1e-3 {
			t.Fatalf("tick %d: gain %v overshot the desired 2.0", i, g)
		}
		prev = g
	}
	if prev < 1.95 {
		t.Errorf("gain after convergence = %v, want near 2.0", prev)
	}
}

func TestAutoGainClampsToMaxGain(t *testing.T) {
	// Near-black scene: desired gain would explode without the clamp.
	s := &constSampler{luma: 0.0001}
	a := NewAutoGain(s)
	a.SetEnabled(true)

	for i := 0; i < 500; i++ {
		a.Update(SampleInterval)
	}
	if got := a.Gain(); got > MaxGain+1e-3 {
		t.Errorf("gain = %v, exceeds max %v", got, MaxGain)
	}
}

func TestAutoGainNeverSnaps(t *testing.T) {
	s := &constSampler{luma: 0.09}
	a := NewAutoGain(s)
	a.SetEnabled(true)

	a.Update(SampleInterval)
	// One sample must move the gain by at most the single-step bound.
	step := (2.0 - InitialGain) * smoothing
	if got := float64(a.Gain()); got > InitialGain+step+1e-9 {
		t.Errorf("gain after one sample = %v, exceeds single-step bound %v", got, InitialGain+step)
	}
	if got := float64(a.Gain()); got <= InitialGain {
		t.Errorf("gain after one sample = %v, did not move toward desired", got)
	}
}

func TestAutoGainResetsOnReenable(t *testing.T) {
	s := &constSampler{luma: 0.09}
	a := NewAutoGain(s)
	a.SetEnabled(true)

	for i := 0; i < 100; i++ {
		a.Update(SampleInterval)
	}
	if a.Gain() <= InitialGain {
		t.Fatal("gain never adapted")
	}

	a.SetEnabled(false)
	a.SetEnabled(true)
	if got := a.Gain(); got != InitialGain {
		t.Errorf("gain after re-enable = %v, want initial %v", got, InitialGain)
	}
}

func TestAutoGainSampleRateIndependentOfFrameRate(t *testing.T) {
	s := &constSampler{luma: 0.09}
	a := NewAutoGain(s)
	a.SetEnabled(true)

	// Many tiny frames below the interval: no samples yet.
	for i := 0; i < 10; i++ {
		a.Update(time.Millisecond)
	}
	if s.calls != 0 {
		t.Fatalf("sampled %d times before the interval elapsed", s.calls)
	}

	// One long frame spanning several intervals catches up.
	a.Update(3 * SampleInterval)
	if s.calls != 3 {
		t.Errorf("samples after a 3-interval frame = %d, want 3", s.calls)
	}
}

func TestAverageLuma(t *testing.T) {
	// Pure white.
	white := []byte{255, 255, 255, 255}
	if got := AverageLuma(white); got < 0.99 || got > 1.01 {
		t.Errorf("white luma = %v, want ~1", got)
	}

	// Pure green weighs 0.587.
	green := []byte{0, 255, 0, 255}
	if got := AverageLuma(green); got < 0.58 || got > 0.6 {
		t.Errorf("green luma = %v, want ~0.587", got)
	}

	// Half white, half black averages to ~0.5.
	mixed := []byte{255, 255, 255, 255, 0, 0, 0, 255}
	if got := AverageLuma(mixed); got < 0.49 || got > 0.51 {
		t.Errorf("mixed luma = %v, want ~0.5", got)
	}

	if got := AverageLuma(nil); got != 0 {
		t.Errorf("empty luma = %v, want 0", got)
	}
}
