package interact

import (
	"testing"
	"time"

	"github.com/gambo89/gambo-room/internal/room/scene"
	"github.com/gambo89/gambo-room/internal/room/tv"
	"github.com/gambo89/gambo-room/pkg/math"
)

// The test camera is the identity inverse view-projection, so world space
// equals NDC space: rays start at z=-1 and travel +Z.
func identityCamera() math.Mat4 { return math.Identity() }

// testManifest lays the interactive objects out along the X axis inside the
// NDC cube. The speaker sits behind the up arrow so one ray can cross both.
func testManifest(t *testing.T) *scene.Manifest {
	t.Helper()
	objs := []scene.Object{
		{Name: "tv_btn_power", Bounds: [6]float32{-0.95, -0.05, 0, -0.85, 0.05, 0.1}},
		{Name: "tv_btn_ok", Bounds: [6]float32{-0.8, -0.05, 0, -0.7, 0.05, 0.1}},
		{Name: "tv_arrow_up", Bounds: [6]float32{-0.6, -0.05, 0, -0.5, 0.05, 0.1}},
		{Name: "bt_speaker", Bounds: [6]float32{-0.6, -0.05, 0.5, -0.5, 0.05, 0.6}},
		{Name: "tv_arrow_down", Bounds: [6]float32{-0.4, -0.05, 0, -0.3, 0.05, 0.1}},
		{Name: "tv_arrow_left", Bounds: [6]float32{-0.2, -0.05, 0, -0.1, 0.05, 0.1}},
		{Name: "tv_arrow_right", Bounds: [6]float32{0.0, -0.05, 0, 0.1, 0.05, 0.1}},
		{Name: "desk_lamp", Bounds: [6]float32{0.2, -0.05, 0, 0.3, 0.05, 0.1}},
		{Name: "prop_poster", Bounds: [6]float32{0.4, -0.05, 0, 0.5, 0.05, 0.1}, Link: "https://example.com/poster"},
		{
			Name:   "tv_screen",
			Bounds: [6]float32{0.6, -0.06, 0, 0.9, 0.06, 0.1},
			ScreenQuad: &scene.QuadDef{
				Origin: [3]float32{0.6, -0.06, 0.05},
				EdgeU:  [3]float32{0.3, 0, 0},
				EdgeV:  [3]float32{0, 0.12, 0},
			},
		},
	}
	m, err := scene.Resolve(objs, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	return m
}

// winAt converts an NDC coordinate into window coordinates for the test
// viewport.
func winAt(ndcX, ndcY float32) (x, y float32) {
	return (ndcX + 1) / 2 * 800, (1 - ndcY) / 2 * 600
}

type fakeSpeaker struct{ clicks int }

func (s *fakeSpeaker) HandleClick() { s.clicks++ }

type fakeHints struct{ last string }

func (h *fakeHints) Hover(text string) { h.last = text }

type routerFixture struct {
	manifest *scene.Manifest
	tvSet    *tv.TV
	overlay  *tv.Overlay
	router   *Router
	speaker  *fakeSpeaker
	hints    *fakeHints
	lamps    int
	opened   []string
}

func newFixture(t *testing.T) *routerFixture {
	t.Helper()
	f := &routerFixture{
		manifest: testManifest(t),
		speaker:  &fakeSpeaker{},
		hints:    &fakeHints{},
	}
	f.tvSet = tv.New([]string{"p.png"}, []string{"v.gif"}, []string{"m.gif"}, nil)
	f.overlay = tv.NewOverlay(f.tvSet, nil)
	f.router = NewRouter(f.manifest, f.tvSet, f.overlay, NewPress(), NewGlow(),
		f.hints, f.speaker, func() { f.lamps++ }, identityCamera)
	f.router.SetViewport(0, 0, 800, 600)
	f.router.opener.run = func(name string, args ...string) error {
		f.opened = append(f.opened, args[len(args)-1])
		return nil
	}
	return f
}

func (f *routerFixture) click(ndcX, ndcY float32) {
	x, y := winAt(ndcX, ndcY)
	f.router.PointerDown(x, y)
	f.router.PointerUp()
}

func TestRouterIgnoresOutsideViewport(t *testing.T) {
	f := newFixture(t)
	// Letterboxed viewport: only a centered band is active.
	f.router.SetViewport(100, 100, 600, 400)

	f.router.PointerDown(10, 10) // outside the band, over the power NDC spot
	f.router.PointerUp()
	if f.tvSet.Power() {
		t.Error("click outside the active viewport reached the scene")
	}
}

func TestRouterPowerToggle(t *testing.T) {
	f := newFixture(t)

	f.click(-0.9, 0)
	if !f.tvSet.Power() {
		t.Fatal("power button click did not switch the set on")
	}
	f.click(-0.9, 0)
	if f.tvSet.Power() {
		t.Error("second power click did not switch the set off")
	}
}

func TestRouterMenuNavigation(t *testing.T) {
	f := newFixture(t)
	f.click(-0.9, 0) // power on, menu

	f.click(-0.35, 0) // down arrow
	if got := f.tvSet.Selection(); got != 1 {
		t.Fatalf("selection after down = %d, want 1", got)
	}
	f.click(-0.55, 0) // up arrow
	if got := f.tvSet.Selection(); got != 0 {
		t.Fatalf("selection after up = %d, want 0", got)
	}

	f.click(-0.75, 0) // ok: confirm photos
	if got := f.tvSet.State(); got != tv.StatePhoto {
		t.Fatalf("state after ok = %v, want photo", got)
	}

	f.click(0.05, 0) // right arrow navigates the photo playlist
	if got := f.tvSet.Adapter(tv.StatePhoto).Index(); got != 0 {
		// Single-entry playlist wraps back to 0.
		t.Fatalf("photo index = %d, want 0", got)
	}
}

func TestRouterButtonsInertWhileOff(t *testing.T) {
	f := newFixture(t)

	f.click(-0.75, 0) // ok
	f.click(-0.35, 0) // down
	if f.tvSet.Power() || f.tvSet.State() != tv.StateOff {
		t.Error("tv buttons acted while the set is off")
	}
}

func TestRouterSpeakerAndLamp(t *testing.T) {
	f := newFixture(t)

	// The speaker is behind the up arrow; click it via a clear spot? It
	// shares X with the up arrow, so the nearer up arrow wins the click.
	f.click(-0.55, 0)
	if f.speaker.clicks != 0 {
		t.Error("speaker stole the click from the nearer up arrow")
	}

	f.click(0.25, 0) // lamp
	if f.lamps != 1 {
		t.Fatalf("lamp toggles = %d, want 1", f.lamps)
	}
	if f.tvSet.Power() {
		t.Error("lamp click leaked into the tv")
	}
}

func TestRouterPropLinkOpensOnPointerUp(t *testing.T) {
	f := newFixture(t)
	x, y := winAt(0.45, 0)

	f.router.PointerDown(x, y)
	if len(f.opened) != 0 {
		t.Fatal("prop link opened on pointer-down")
	}
	f.router.PointerUp()
	if len(f.opened) != 1 || f.opened[0] != "https://example.com/poster" {
		t.Fatalf("opened links = %v", f.opened)
	}
}

func TestRouterPropLinkCancelledByLeave(t *testing.T) {
	f := newFixture(t)
	x, y := winAt(0.45, 0)

	f.router.PointerDown(x, y)
	f.router.PointerLeave()
	f.router.PointerUp()
	if len(f.opened) != 0 {
		t.Errorf("cancelled prop press still opened %v", f.opened)
	}
}

func TestRouterHoverPriority(t *testing.T) {
	f := newFixture(t)

	// The ray at the up arrow's spot crosses the arrow and the speaker
	// behind it; the speaker outranks every button in hover priority.
	x, y := winAt(-0.55, 0)
	f.router.PointerMove(x, y)

	if got := f.router.glow.Hover(); got != scene.RoleSpeaker {
		t.Fatalf("hover role = %v, want speaker", got)
	}
	if f.hints.last != hintText[scene.RoleSpeaker] {
		t.Errorf("hint = %q, want speaker hint", f.hints.last)
	}

	// Moving away clears the hover.
	f.router.PointerMove(winAt(0.98, 0.9))
	if got := f.router.glow.Hover(); got != scene.RoleNone {
		t.Errorf("hover after miss = %v, want none", got)
	}
	if f.hints.last != "" {
		t.Errorf("hint after miss = %q, want empty", f.hints.last)
	}
}

func TestRouterPressCancelOnSlideOff(t *testing.T) {
	f := newFixture(t)
	press := f.router.press

	x, y := winAt(-0.75, 0)
	f.router.PointerDown(x, y) // arm ok
	press.Update(time.Second)
	if press.Offset(scene.RoleOkButton).Length() == 0 {
		t.Fatal("ok press not armed")
	}

	// Slide onto the lamp: the ok press must decay.
	f.router.PointerMove(winAt(0.25, 0))
	press.Update(time.Second)
	if got := press.Offset(scene.RoleOkButton).Length(); got != 0 {
		t.Errorf("press offset after slide-off = %v, want 0", got)
	}
}

func TestRouterScreenClickDispatch(t *testing.T) {
	f := newFixture(t)
	f.click(-0.9, 0)  // power on
	f.click(-0.75, 0) // confirm photos

	if f.tvSet.State() != tv.StatePhoto {
		t.Fatalf("state = %v, want photo", f.tvSet.State())
	}

	// Content click (screen center, UV ~(0.5, 0.5)) opens the overlay.
	f.click(0.75, 0)
	if !f.overlay.IsOpen() {
		t.Fatal("content click did not open the overlay")
	}
	if !f.tvSet.Frozen() {
		t.Error("tv not frozen under the overlay")
	}

	f.overlay.Close()

	// The in-canvas MENU affordance (UV ~(0.95, 0.05)) returns to menu.
	f.click(0.885, -0.054)
	if got := f.tvSet.State(); got != tv.StateMenu {
		t.Errorf("state after MENU click = %v, want menu", got)
	}
}

func TestRouterInputSuppressedWhileOverlayOpen(t *testing.T) {
	f := newFixture(t)
	f.click(-0.9, 0)
	f.click(-0.75, 0) // photos
	f.click(0.75, 0)  // open overlay
	if !f.overlay.IsOpen() {
		t.Fatal("overlay not open")
	}

	// Scene clicks are suppressed while the overlay owns input.
	f.click(-0.9, 0)
	if !f.tvSet.Power() {
		t.Error("power click reached the scene through the overlay")
	}
}

func TestRouterUpdateAppliesFeedback(t *testing.T) {
	f := newFixture(t)

	x, y := winAt(-0.9, 0)
	f.router.PointerMove(x, y)
	f.router.PointerDown(x, y)
	f.router.Update(time.Second)

	h := f.manifest.Handle(scene.RolePowerButton)
	if h.Visual.Offset.Length() == 0 {
		t.Error("press offset not applied to the manifest")
	}
	if h.Visual.EmissiveIntensity <= 0 {
		t.Error("glow not applied to the manifest")
	}
}
