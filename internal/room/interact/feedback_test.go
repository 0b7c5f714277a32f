package interact

import (
	"testing"
	"time"

	"github.com/gambo89/gambo-room/internal/room/scene"
	"github.com/gambo89/gambo-room/pkg/math"
)

func TestPressAxisInward(t *testing.T) {
	p := NewPress()
	p.Arm(scene.RoleOkButton, math.Vec3{Z: 1}, nil)
	p.Update(time.Second)

	off := p.Offset(scene.RoleOkButton)
	if off.Z >= 0 {
		t.Errorf("press offset = %+v, want inward (-Z)", off)
	}
	if l := off.Length(); l > pressDepth+1e-6 {
		t.Errorf("offset length = %v, exceeds press depth %v", l, pressDepth)
	}
}

func TestPressParentLocalAxis(t *testing.T) {
	p := NewPress()
	// Parent rotated 90 degrees about Y: the world-space press axis must be
	// rotated out of Z and onto X in parent-local space.
	inv := math.RotateY(halfPi)
	p.Arm(scene.RoleOkButton, math.Vec3{Z: 1}, &inv)
	p.Update(time.Second)

	off := p.Offset(scene.RoleOkButton)
	abs := func(v float32) float32 {
		if v < 0 {
			return -v
		}
		return v
	}
	if abs(off.X) < pressDepth/2 || abs(off.Z) > pressDepth/10 {
		t.Errorf("offset = %+v, want along local X axis", off)
	}
}

const halfPi = float32(3.14159265358979 / 2)

func TestPressReleaseDecays(t *testing.T) {
	p := NewPress()
	p.Arm(scene.RoleUpButton, math.Vec3{Z: 1}, nil)
	p.Update(time.Second)
	if p.Offset(scene.RoleUpButton).Length() == 0 {
		t.Fatal("armed press has no displacement")
	}

	p.Release(scene.RoleUpButton)
	p.Update(time.Second)
	if got := p.Offset(scene.RoleUpButton).Length(); got != 0 {
		t.Errorf("offset after release = %v, want 0", got)
	}
}

func TestGlowFadeInOut(t *testing.T) {
	g := NewGlow()
	g.SetHover(scene.RoleOkButton)

	g.Update(50 * time.Millisecond)
	early := g.Intensity(scene.RoleOkButton)
	if early <= 0 {
		t.Fatal("glow did not start fading in")
	}
	g.Update(time.Second)
	full := g.Intensity(scene.RoleOkButton)
	if full > glowBlend+1e-6 {
		t.Errorf("glow intensity = %v, exceeds blend limit %v", full, glowBlend)
	}
	if full <= early {
		t.Error("glow did not keep rising")
	}

	g.SetHover(scene.RoleNone)
	g.Update(2 * time.Second)
	if got := g.Intensity(scene.RoleOkButton); got != 0 {
		t.Errorf("glow after leave = %v, want 0", got)
	}
}

func TestGlowPowerFadesFaster(t *testing.T) {
	g := NewGlow()

	// Both fully lit with no hover: compare the decay rates directly.
	g.states[scene.RolePowerButton] = &glowState{lerp: 1}
	g.states[scene.RoleOkButton] = &glowState{lerp: 1}
	g.Update(60 * time.Millisecond)

	power := g.Intensity(scene.RolePowerButton)
	ok := g.Intensity(scene.RoleOkButton)
	if power >= ok {
		t.Errorf("power glow %v should decay faster than ok glow %v", power, ok)
	}
}

func TestGlowHoverCutoff(t *testing.T) {
	g := NewGlow()
	g.SetHover(scene.RoleOkButton)
	g.Update(time.Second)
	if g.Intensity(scene.RoleOkButton) == 0 {
		t.Fatal("glow never lit")
	}

	// Hover past the cutoff: glow forces off while still hovered.
	g.Update(maxHoverGlow)
	g.Update(2 * time.Second)
	if got := g.Intensity(scene.RoleOkButton); got != 0 {
		t.Fatalf("glow after cutoff = %v, want 0", got)
	}

	// Still hovered: must stay dark.
	g.Update(time.Second)
	if g.Intensity(scene.RoleOkButton) != 0 {
		t.Error("glow re-lit without the hover ending")
	}

	// Leave and re-enter: glowing allowed again.
	g.SetHover(scene.RoleNone)
	g.SetHover(scene.RoleOkButton)
	g.Update(time.Second)
	if g.Intensity(scene.RoleOkButton) == 0 {
		t.Error("glow not restored after leave and re-enter")
	}
}

func TestGlowApplyWritesVisualState(t *testing.T) {
	m := testManifest(t)
	g := NewGlow()
	g.SetHover(scene.RoleSpeaker)
	g.Update(time.Second)
	g.Apply(m)

	h := m.Handle(scene.RoleSpeaker)
	if h.Visual.EmissiveIntensity <= 0 {
		t.Error("glow did not write emissive intensity")
	}
	if h.Visual.Emissive != glowColorSpeaker {
		t.Errorf("emissive color = %v, want speaker tint", h.Visual.Emissive)
	}
}

func TestOpenerDispatch(t *testing.T) {
	var gotName string
	var gotArgs []string
	o := &Opener{run: func(name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	}}

	if err := o.Open("https://example.com"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if gotName == "" || len(gotArgs) == 0 {
		t.Errorf("no command dispatched: %q %v", gotName, gotArgs)
	}
	if gotArgs[len(gotArgs)-1] != "https://example.com" {
		t.Errorf("url not passed: %v", gotArgs)
	}

	if err := o.Open("file:///etc/passwd"); err == nil {
		t.Error("Open accepted a non-web url")
	}
}
