package interact

import (
	"time"

	"github.com/gambo89/gambo-room/internal/room/scene"
)

// Glow feedback tuning. The blend strength is limited so the base texture
// detail stays visible under the emissive boost.
const (
	glowBlend = 0.4

	glowFadeInRate       = 6.0
	glowFadeOutRate      = 3.0
	glowPowerFadeOutRate = 8.0

	// maxHoverGlow is the continuous-hover cutoff: past it the glow is
	// forced off until the hover fully ends.
	maxHoverGlow = 6 * time.Second
)

// glowColor is the hover emissive tint per role class.
var (
	glowColorButton  = [3]float32{1.0, 0.85, 0.4}
	glowColorSpeaker = [3]float32{0.4, 0.8, 1.0}
	glowColorScreen  = [3]float32{0.6, 0.7, 1.0}
)

type glowState struct {
	lerp      float32
	target    float32
	hovering  bool
	hoverTime time.Duration
	forcedOff bool
}

// Glow animates hover emissive feedback, keyed by role. Exactly one role
// hovers at a time; the cutoff timer forces long hovers dark until the
// pointer fully leaves.
type Glow struct {
	states map[scene.Role]*glowState
	hover  scene.Role
}

// NewGlow creates an empty glow registry.
func NewGlow() *Glow {
	return &Glow{states: make(map[scene.Role]*glowState), hover: scene.RoleNone}
}

// SetHover moves the hover to a role; scene.RoleNone clears it. Changing
// targets resets the previous role's cutoff state.
func (g *Glow) SetHover(role scene.Role) {
	if role == g.hover {
		return
	}

	if prev := g.states[g.hover]; prev != nil {
		prev.hovering = false
		prev.target = 0
		prev.hoverTime = 0
		prev.forcedOff = false
	}
	g.hover = role
	if role == scene.RoleNone {
		return
	}

	s := g.states[role]
	if s == nil {
		s = &glowState{}
		g.states[role] = s
	}
	s.hovering = true
	s.hoverTime = 0
	s.forcedOff = false
	s.target = 1
}

// Hover returns the current hover role.
func (g *Glow) Hover() scene.Role {
	return g.hover
}

// Update advances every glow lerp and the hover cutoff timer.
func (g *Glow) Update(dt time.Duration) {
	for role, s := range g.states {
		if s.hovering {
			s.hoverTime += dt
			if s.hoverTime >= maxHoverGlow {
				s.forcedOff = true
			}
		}
		if s.forcedOff {
			s.target = 0
		}

		rate := float32(glowFadeInRate)
		if s.target < s.lerp {
			rate = glowFadeOutRate
			if role == scene.RolePowerButton {
				rate = glowPowerFadeOutRate
			}
		}
		s.lerp = stepToward(s.lerp, s.target, rate*float32(dt.Seconds()))
	}
}

// Intensity returns a role's current glow level in [0, glowBlend].
func (g *Glow) Intensity(role scene.Role) float32 {
	if s := g.states[role]; s != nil {
		return s.lerp * glowBlend
	}
	return 0
}

// Apply writes every glow into the manifest's visual records.
func (g *Glow) Apply(m *scene.Manifest) {
	for role, s := range g.states {
		h := m.Handle(role)
		if h == nil {
			continue
		}
		h.Visual.Emissive = glowColorFor(role)
		h.Visual.EmissiveIntensity = s.lerp * glowBlend
	}
}

func glowColorFor(role scene.Role) [3]float32 {
	switch role {
	case scene.RoleSpeaker:
		return glowColorSpeaker
	case scene.RoleTvScreen:
		return glowColorScreen
	default:
		return glowColorButton
	}
}
