package interact

import (
	"time"

	"go.uber.org/zap"

	"github.com/gambo89/gambo-room/internal/engine/picking"
	"github.com/gambo89/gambo-room/internal/logger"
	"github.com/gambo89/gambo-room/internal/room/scene"
	"github.com/gambo89/gambo-room/internal/room/tv"
	"github.com/gambo89/gambo-room/pkg/math"
)

// SpeakerControl is the Bluetooth speaker's click surface.
type SpeakerControl interface {
	HandleClick()
}

// HintView is the tooltip widget driven by hover changes.
type HintView interface {
	Hover(text string)
}

// hoverPriority orders roles when one ray crosses several interactive
// objects; the highest-priority crossed role wins the hover.
var hoverPriority = []scene.Role{
	scene.RoleSpeaker,
	scene.RolePowerButton,
	scene.RoleOkButton,
	scene.RoleUpButton,
	scene.RoleDownButton,
	scene.RoleLeftButton,
	scene.RoleRightButton,
	scene.RoleTvScreen,
}

// hintText is the tooltip line per hovered role.
var hintText = map[scene.Role]string{
	scene.RoleSpeaker:     "Speaker: play / pause / next",
	scene.RolePowerButton: "Power",
	scene.RoleOkButton:    "OK",
	scene.RoleUpButton:    "Up",
	scene.RoleDownButton:  "Down",
	scene.RoleLeftButton:  "Previous",
	scene.RoleRightButton: "Next",
	scene.RoleTvScreen:    "Click the screen for fullscreen",
	scene.RoleLamp:        "Lamp: toggle night vision",
	scene.RoleProp:        "Take a closer look",
}

// viewport is the active render rectangle in window coordinates. With
// letterboxing it is smaller than the window; pointer events outside it are
// ignored.
type viewport struct {
	x, y, w, h float32
}

// Router turns pointer events into room actions: it raycasts against the
// role manifest and dispatches the first hit by (tv power, tv state, role).
type Router struct {
	manifest *scene.Manifest
	tvSet    *tv.TV
	overlay  *tv.Overlay
	press    *Press
	glow     *Glow
	hints    HintView
	speaker  SpeakerControl
	opener   *Opener

	// toggleLamp switches the light mood and night vision together.
	toggleLamp func()

	// invViewProj supplies the camera's inverse view-projection.
	invViewProj func() math.Mat4

	view viewport

	// Screen texture transform for UV-to-raster mapping.
	repX, repY, offX, offY float32

	// Prop URL queued on pointer-down, opened on pointer-up.
	pendingURL  string
	pressedRole scene.Role
}

// NewRouter wires the router to its collaborators.
func NewRouter(m *scene.Manifest, tvSet *tv.TV, overlay *tv.Overlay, press *Press, glow *Glow, hints HintView, speaker SpeakerControl, toggleLamp func(), invViewProj func() math.Mat4) *Router {
	return &Router{
		manifest:    m,
		tvSet:       tvSet,
		overlay:     overlay,
		press:       press,
		glow:        glow,
		hints:       hints,
		speaker:     speaker,
		opener:      NewOpener(),
		toggleLamp:  toggleLamp,
		invViewProj: invViewProj,
		repX:        1,
		repY:        1,
		pressedRole: scene.RoleNone,
	}
}

// SetViewport tracks the active render rectangle in window coordinates.
func (r *Router) SetViewport(x, y, w, h float32) {
	r.view = viewport{x, y, w, h}
}

// SetScreenTransform sets the screen texture's repeat/offset used when
// mapping UV hits into raster pixels.
func (r *Router) SetScreenTransform(repX, repY, offX, offY float32) {
	r.repX, r.repY, r.offX, r.offY = repX, repY, offX, offY
}

// ray builds the pick ray for a window coordinate. ok is false outside the
// active viewport.
func (r *Router) ray(x, y float32) (picking.Ray, bool) {
	if r.view.w <= 0 || r.view.h <= 0 {
		return picking.Ray{}, false
	}
	if x < r.view.x || x >= r.view.x+r.view.w || y < r.view.y || y >= r.view.y+r.view.h {
		return picking.Ray{}, false
	}
	return picking.ScreenToRay(x-r.view.x, y-r.view.y, r.view.w, r.view.h, r.invViewProj()), true
}

// PointerDown dispatches a press at a window coordinate.
func (r *Router) PointerDown(x, y float32) {
	if r.overlay != nil && r.overlay.IsOpen() {
		return // overlay chrome owns input while fullscreen
	}

	ray, ok := r.ray(x, y)
	if !ok {
		return
	}
	h, hit, found := r.manifest.Pick(ray)
	if !found {
		return
	}

	// Props: queue the link now, open it on pointer-up.
	if h.Role == scene.RoleProp {
		r.pendingURL = h.Link
		return
	}

	r.press.Arm(h.Role, hit.Normal, nil)
	r.pressedRole = h.Role

	r.dispatch(h.Role, hit)
}

// dispatch runs the contextual action for a pressed role.
func (r *Router) dispatch(role scene.Role, hit scene.Hit) {
	switch role {
	case scene.RolePowerButton:
		r.tvSet.SetPower(!r.tvSet.Power())
		return
	case scene.RoleSpeaker:
		if r.speaker != nil {
			r.speaker.HandleClick()
		}
		return
	case scene.RoleLamp:
		if r.toggleLamp != nil {
			r.toggleLamp()
		}
		return
	}

	if !r.tvSet.Power() {
		return // remaining roles act on a powered set only
	}

	state := r.tvSet.State()
	switch state {
	case tv.StateMenu:
		switch role {
		case scene.RoleUpButton, scene.RoleLeftButton:
			r.tvSet.MoveSelection(-1)
		case scene.RoleDownButton, scene.RoleRightButton:
			r.tvSet.MoveSelection(1)
		case scene.RoleOkButton:
			r.tvSet.Confirm()
		}

	case tv.StatePhoto, tv.StateVideo, tv.StateModel:
		switch role {
		case scene.RoleLeftButton:
			r.tvSet.Navigate(state, -1)
		case scene.RoleRightButton:
			r.tvSet.Navigate(state, 1)
		case scene.RoleOkButton:
			if state == tv.StatePhoto {
				if r.overlay != nil {
					r.overlay.Open()
				}
			} else {
				r.tvSet.TogglePlayback()
			}
		case scene.RoleTvScreen:
			if !hit.HasUV {
				return
			}
			click := r.tvSet.HandleScreenClick(hit.UV.X, hit.UV.Y, r.repX, r.repY, r.offX, r.offY)
			if click == tv.ScreenClickContent && r.overlay != nil {
				r.overlay.Open()
			}
		}
	}
}

// PointerUp releases presses and opens any queued prop link.
func (r *Router) PointerUp() {
	r.press.ReleaseAll()
	r.pressedRole = scene.RoleNone

	if r.pendingURL == "" {
		return
	}
	url := r.pendingURL
	r.pendingURL = ""
	if err := r.opener.Open(url); err != nil {
		logger.Warn("opening prop link failed", zap.String("url", url), zap.Error(err))
	}
}

// PointerMove resolves hover: one highest-priority role crossed by the ray
// drives the tooltip, the glow target and the in-canvas MENU highlight, all
// from the same computation so the consumers never desync.
func (r *Router) PointerMove(x, y float32) {
	if r.overlay != nil && r.overlay.IsOpen() {
		return
	}

	ray, ok := r.ray(x, y)
	if !ok {
		r.clearHover()
		return
	}

	results := r.manifest.PickAll(ray)
	role := scene.RoleNone
	var screenHit *scene.Hit
	for _, want := range hoverPriority {
		for i := range results {
			if results[i].Handle.Role == want {
				role = want
				if want == scene.RoleTvScreen {
					screenHit = &results[i].Hit
				}
				break
			}
		}
		if role != scene.RoleNone {
			break
		}
	}
	// Lamp and props hover outside the priority list: nearest hit only.
	if role == scene.RoleNone && len(results) > 0 {
		role = results[0].Handle.Role
	}

	r.glow.SetHover(role)
	if r.hints != nil {
		r.hints.Hover(hintText[role])
	}

	if screenHit != nil && screenHit.HasUV {
		r.tvSet.HandleScreenHover(screenHit.UV.X, screenHit.UV.Y, r.repX, r.repY, r.offX, r.offY)
	} else {
		r.tvSet.SetMenuHover(false)
	}

	// A press cancels when the pointer slides off the armed object.
	if r.pressedRole != scene.RoleNone && role != r.pressedRole {
		r.press.Release(r.pressedRole)
		r.pressedRole = scene.RoleNone
	}
}

// PointerLeave clears hover and presses when the pointer leaves the window.
func (r *Router) PointerLeave() {
	r.clearHover()
	r.press.ReleaseAll()
	r.pressedRole = scene.RoleNone
	r.pendingURL = ""
}

func (r *Router) clearHover() {
	r.glow.SetHover(scene.RoleNone)
	if r.hints != nil {
		r.hints.Hover("")
	}
	r.tvSet.SetMenuHover(false)
}

// Update advances the feedback lerps and writes them into the manifest.
func (r *Router) Update(dt time.Duration) {
	r.press.Update(dt)
	r.glow.Update(dt)
	r.press.Apply(r.manifest)
	r.glow.Apply(r.manifest)
}
