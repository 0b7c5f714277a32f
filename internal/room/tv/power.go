package tv

import (
	gomath "math"
	"math/rand"
	"time"
)

// Power transition tuning. The squeeze is Y-only so the flattened screen
// never reveals back-face geometry.
const (
	powerAnimDuration = 550 * time.Millisecond

	// Emissive levels for the screen material.
	emissiveOff = 0.0
	emissiveOn  = 1.0

	// Midpoint overshoot of the emissive ramp.
	emissiveOvershoot = 0.35

	// Y scale at the squeeze extreme.
	squeezeScaleY = 0.12

	// Boot sub-phase boundaries, as fractions of the power-on transition.
	bootFlashEnd   = 0.15
	bootFlickerEnd = 0.45
)

// Screen base colors at the two power poles.
var (
	screenColorOff = [3]float32{0.05, 0.05, 0.06}
	screenColorOn  = [3]float32{0.85, 0.9, 1.0}
)

// PowerVisual is the animator's per-frame output, applied to the screen
// handle's visual state by the render loop.
type PowerVisual struct {
	ScaleY    float32
	Emissive  float32
	BaseColor [3]float32
}

// powerVisualAt returns the steady-state visual for a power level.
func powerVisualAt(on bool) PowerVisual {
	if on {
		return PowerVisual{ScaleY: 1, Emissive: emissiveOn, BaseColor: screenColorOn}
	}
	return PowerVisual{ScaleY: 1, Emissive: emissiveOff, BaseColor: screenColorOff}
}

// PowerAnimator drives the OFF/ON visual transition: a Y-only CRT squeeze,
// an emissive ramp with a midpoint pop and, on power-on, a boot
// flash/flicker/settle layer. Purely visual; it never gates the logical
// power state, which flips immediately.
type PowerAnimator struct {
	active  bool
	on      bool // transition target
	elapsed time.Duration
	visual  PowerVisual
	rng     *rand.Rand
}

// NewPowerAnimator creates the animator resting at the given power level.
func NewPowerAnimator(on bool) *PowerAnimator {
	return &PowerAnimator{
		visual: powerVisualAt(on),
		on:     on,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start begins a transition toward the given target. Restarting toward the
// current target of an active transition is dropped so toggling never
// stacks duplicate animations.
func (p *PowerAnimator) Start(on bool) {
	if p.active && p.on == on {
		return
	}
	p.active = true
	p.on = on
	p.elapsed = 0
}

// Active reports whether a transition is running.
func (p *PowerAnimator) Active() bool {
	return p.active
}

// Visual returns the current frame's screen visual.
func (p *PowerAnimator) Visual() PowerVisual {
	return p.visual
}

// Update advances the transition. On completion every animated value snaps
// to its exact target so float drift never leaves the screen mis-scaled or
// mis-lit.
func (p *PowerAnimator) Update(dt time.Duration) PowerVisual {
	if !p.active {
		return p.visual
	}

	p.elapsed += dt
	if p.elapsed >= powerAnimDuration {
		p.active = false
		p.visual = powerVisualAt(p.on)
		return p.visual
	}

	t := float32(p.elapsed) / float32(powerAnimDuration)
	e := easeOutCubic(t)

	from := powerVisualAt(!p.on)
	to := powerVisualAt(p.on)

	// CRT squeeze: collapse toward the squeeze extreme in the first half,
	// recover in the second.
	var squeeze float32
	if e < 0.5 {
		squeeze = lerp(1, squeezeScaleY, e*2)
	} else {
		squeeze = lerp(squeezeScaleY, 1, (e-0.5)*2)
	}

	emissive := lerp(from.Emissive, to.Emissive, e)
	// Midpoint pop.
	emissive *= 1 + emissiveOvershoot*float32(gomath.Sin(float64(t)*gomath.Pi))

	if p.on {
		emissive *= p.bootFactor(t)
	}

	p.visual = PowerVisual{
		ScaleY:   squeeze,
		Emissive: emissive,
		BaseColor: [3]float32{
			lerp(from.BaseColor[0], to.BaseColor[0], e),
			lerp(from.BaseColor[1], to.BaseColor[1], e),
			lerp(from.BaseColor[2], to.BaseColor[2], e),
		},
	}
	return p.visual
}

// bootFactor layers the power-on boot sequence multiplicatively over the
// main ramp: a bright flash, then fast random flicker, then settle.
func (p *PowerAnimator) bootFactor(t float32) float32 {
	switch {
	case t < bootFlashEnd:
		return 1.8
	case t < bootFlickerEnd:
		return 0.5 + p.rng.Float32()
	default:
		return 1
	}
}

func easeOutCubic(t float32) float32 {
	u := 1 - t
	return 1 - u*u*u
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
