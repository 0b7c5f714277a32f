// Package interact routes pointer input to the room: raycast dispatch to
// the TV and the other interactive objects, plus the press and glow visual
// feedback driven by hover and press state.
package interact

import (
	"time"

	"github.com/gambo89/gambo-room/internal/room/scene"
	"github.com/gambo89/gambo-room/pkg/math"
)

// Press feedback tuning.
const (
	// pressDepth is the full inward travel in world units.
	pressDepth = 0.012

	// Lerp rates per second toward the pressed and released poles.
	pressInRate  = 18.0
	pressOutRate = 10.0
)

// pressState tracks one role's press displacement.
type pressState struct {
	lerp   float32
	target float32
	axis   math.Vec3 // inward, parent-local
}

// Press animates the inward displacement of pressed buttons. States are
// keyed by role, created lazily on first arm and kept for the session.
type Press struct {
	states map[scene.Role]*pressState
}

// NewPress creates an empty press registry.
func NewPress() *Press {
	return &Press{states: make(map[scene.Role]*pressState)}
}

// Arm starts pressing a role. The press axis is the hit's world face normal
// flipped inward and, when a parent transform applies, rotated parent-local
// so the travel stays perpendicular to the clicked face regardless of how
// the button is oriented.
func (p *Press) Arm(role scene.Role, hitNormal math.Vec3, parentInv *math.Mat4) {
	axis := hitNormal.Scale(-1)
	if parentInv != nil {
		axis = parentInv.TransformVec3(axis)
	}
	if axis.Length() > 0 {
		axis = axis.Normalize()
	}

	s := p.states[role]
	if s == nil {
		s = &pressState{}
		p.states[role] = s
	}
	s.axis = axis
	s.target = 1
}

// Release lets one role's press decay back out.
func (p *Press) Release(role scene.Role) {
	if s := p.states[role]; s != nil {
		s.target = 0
	}
}

// ReleaseAll decays every press; used on pointer-up, cancel and leave.
func (p *Press) ReleaseAll() {
	for _, s := range p.states {
		s.target = 0
	}
}

// Update advances every press lerp.
func (p *Press) Update(dt time.Duration) {
	for _, s := range p.states {
		rate := float32(pressOutRate)
		if s.target > s.lerp {
			rate = pressInRate
		}
		s.lerp = stepToward(s.lerp, s.target, rate*float32(dt.Seconds()))
	}
}

// Offset returns a role's current displacement.
func (p *Press) Offset(role scene.Role) math.Vec3 {
	s := p.states[role]
	if s == nil {
		return math.Vec3{}
	}
	return s.axis.Scale(pressDepth * s.lerp)
}

// Apply writes every press offset into the manifest's visual records.
func (p *Press) Apply(m *scene.Manifest) {
	for role, s := range p.states {
		if h := m.Handle(role); h != nil {
			h.Visual.Offset = s.axis.Scale(pressDepth * s.lerp)
		}
	}
}

// stepToward moves v toward target by at most step.
func stepToward(v, target, step float32) float32 {
	switch {
	case v < target:
		v += step
		if v > target {
			v = target
		}
	case v > target:
		v -= step
		if v < target {
			v = target
		}
	}
	return v
}
