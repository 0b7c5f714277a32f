package tv

import (
	"sync"
	"time"
)

// State is the TV's logical state. Transitions happen only on explicit user
// actions; the power animator never gates them.
type State int

const (
	StateOff State = iota
	StateMenu
	StatePhoto
	StateVideo
	StateModel
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateOff:
		return "off"
	case StateMenu:
		return "menu"
	case StatePhoto:
		return "photo"
	case StateVideo:
		return "video"
	case StateModel:
		return "model"
	default:
		return "unknown"
	}
}

// RedrawInterval is the fixed raster redraw period, decoupled from the
// render frame rate to bound the CPU cost of raster drawing.
const RedrawInterval = time.Second / 12

// ScreenClick classifies a pointer hit on the screen mesh.
type ScreenClick int

const (
	// ScreenClickNone: the hit did nothing (set off, or menu state).
	ScreenClickNone ScreenClick = iota
	// ScreenClickMenuButton: the in-canvas MENU affordance was hit and the
	// set returned to the menu.
	ScreenClickMenuButton
	// ScreenClickContent: media content was hit; the caller may open the
	// fullscreen overlay.
	ScreenClickContent
)

// TV owns the virtual television: power, the menu, the three media modes
// and the raster surface they draw into.
type TV struct {
	mu sync.Mutex

	power bool
	state State

	selection      int
	sinceSelection time.Duration

	photo *MediaAdapter
	video *MediaAdapter
	model *MediaAdapter

	screen *ScreenBuffer
	anim   *PowerAnimator

	redrawAccum time.Duration
	menuHover   bool
	frozen      bool // fullscreen overlay active; raster updates halt
	detached    bool // screen texture detached while off

	// Signature of the last raster draw, to skip redundant still redraws.
	lastSig drawSig
}

type drawSig struct {
	state     State
	gen       uint64
	loadState int
	hover     bool
	valid     bool
}

// New creates a powered-off TV over the three mode playlists.
func New(photoPaths, videoPaths, modelPaths []string, loader *Loader) *TV {
	return &TV{
		state:    StateOff,
		photo:    NewPhotoAdapter(photoPaths, loader),
		video:    NewVideoAdapter(videoPaths, loader),
		model:    NewModelAdapter(modelPaths, loader),
		screen:   NewScreenBuffer(),
		anim:     NewPowerAnimator(false),
		detached: true,
	}
}

// Screen returns the raster surface for texture upload.
func (t *TV) Screen() *ScreenBuffer {
	return t.screen
}

// Animator returns the power transition animator.
func (t *TV) Animator() *PowerAnimator {
	return t.anim
}

// Power reports the logical power state.
func (t *TV) Power() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.power
}

// State returns the logical state.
func (t *TV) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Selection returns the menu cursor.
func (t *TV) Selection() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selection
}

// Detached reports whether the screen texture must be unbound from the
// mesh. Sampling a frozen GPU texture while the set is off shows stale
// content, so power-off detaches the map.
func (t *TV) Detached() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.detached
}

// Adapter returns the adapter backing a mode state, nil for non-modes.
func (t *TV) Adapter(s State) *MediaAdapter {
	switch s {
	case StatePhoto:
		return t.photo
	case StateVideo:
		return t.video
	case StateModel:
		return t.model
	default:
		return nil
	}
}

// ActiveAdapter returns the adapter of the current mode, nil in OFF/MENU.
func (t *TV) ActiveAdapter() *MediaAdapter {
	t.mu.Lock()
	s := t.state
	t.mu.Unlock()
	return t.Adapter(s)
}

// SetPower switches the set on or off. Requesting the current power level
// is a no-op, so no duplicate transition animation is ever created. Power-on
// lands in MENU with a fresh selection; power-off stops every player,
// blanks the raster and detaches the screen texture.
func (t *TV) SetPower(on bool) {
	t.mu.Lock()
	if t.power == on {
		t.mu.Unlock()
		return
	}
	t.power = on
	t.lastSig = drawSig{}

	if on {
		t.state = StateMenu
		t.selection = 0
		t.sinceSelection = 0
		t.redrawAccum = 0
		t.detached = false
		t.frozen = false
		t.anim.Start(true)
		sel, since := t.selection, t.sinceSelection
		t.mu.Unlock()

		t.stopAll()
		drawMenu(t.screen, sel, since)
		return
	}

	t.state = StateOff
	t.detached = true
	t.frozen = false
	t.anim.Start(false)
	t.mu.Unlock()

	t.stopAll()
	t.screen.Clear(ColorScreenOff)
}

func (t *TV) stopAll() {
	t.photo.Stop()
	t.video.Stop()
	t.model.Stop()
}

// MoveSelection moves the menu cursor by delta, wrapping. Each move resets
// the blink baseline so the highlight restarts bright. No-op outside MENU.
func (t *TV) MoveSelection(delta int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateMenu {
		return
	}
	t.selection = wrap(t.selection+delta, len(menuItems))
	t.sinceSelection = 0
}

// Confirm enters the selected mode and loads its first item, with autoplay
// for the moving-content modes. No-op outside MENU.
func (t *TV) Confirm() {
	t.mu.Lock()
	if t.state != StateMenu {
		t.mu.Unlock()
		return
	}

	var next State
	switch t.selection {
	case 0:
		next = StatePhoto
	case 1:
		next = StateVideo
	case 2:
		next = StateModel
	default:
		t.mu.Unlock()
		return
	}
	t.state = next
	t.lastSig = drawSig{}
	t.mu.Unlock()

	t.Adapter(next).Load(0, next != StatePhoto)
}

// Navigate advances a mode's playlist cursor by delta with wraparound and
// reloads. Valid only while that mode is the current state.
func (t *TV) Navigate(mode State, delta int) {
	t.mu.Lock()
	if t.state != mode {
		t.mu.Unlock()
		return
	}
	t.lastSig = drawSig{}
	t.mu.Unlock()

	a := t.Adapter(mode)
	if a == nil {
		return
	}
	a.Load(a.Index()+delta, mode != StatePhoto)
}

// TogglePlayback pauses or resumes the current mode's player. Valid only in
// VIDEO, or in MODEL when the current asset has motion.
func (t *TV) TogglePlayback() {
	t.mu.Lock()
	s := t.state
	t.mu.Unlock()

	a := t.Adapter(s)
	if a == nil || s == StatePhoto {
		return
	}
	if s == StateModel && !a.HasVideo() {
		return
	}

	if a.Playing() {
		a.Pause()
		return
	}
	_ = a.Play()
}

// ReturnToMenu brings any powered-on state back to the menu, stopping the
// active player. Selection and blink baseline reset on entry.
func (t *TV) ReturnToMenu() {
	t.mu.Lock()
	if !t.power || t.state == StateMenu {
		t.mu.Unlock()
		return
	}
	prev := t.state
	t.state = StateMenu
	t.selection = 0
	t.sinceSelection = 0
	t.lastSig = drawSig{}
	t.mu.Unlock()

	if a := t.Adapter(prev); a != nil {
		a.Stop()
	}
}

// SetMenuHover updates the in-canvas MENU affordance hover state.
func (t *TV) SetMenuHover(hover bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.menuHover = hover
}

// HandleScreenHover maps a hover UV to the raster and updates the MENU
// affordance highlight. Returns whether the hover is on the affordance.
func (t *TV) HandleScreenHover(u, v, repX, repY, offX, offY float32) bool {
	t.mu.Lock()
	on := t.power && t.state != StateMenu
	t.mu.Unlock()

	hover := false
	if on {
		hover = InMenuButton(MapUV(u, v, repX, repY, offX, offY))
	}
	t.SetMenuHover(hover)
	return hover
}

// HandleScreenClick maps a click UV to the raster and dispatches it: the
// in-canvas MENU affordance returns to the menu, anything else over content
// is reported so the caller can open the fullscreen overlay.
func (t *TV) HandleScreenClick(u, v, repX, repY, offX, offY float32) ScreenClick {
	t.mu.Lock()
	power, state := t.power, t.state
	t.mu.Unlock()

	if !power || state == StateMenu {
		return ScreenClickNone
	}

	if InMenuButton(MapUV(u, v, repX, repY, offX, offY)) {
		t.ReturnToMenu()
		return ScreenClickMenuButton
	}
	return ScreenClickContent
}

// Freeze halts raster updates and playback advancement while the fullscreen
// overlay owns the content.
func (t *TV) Freeze() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frozen = true
}

// Unfreeze resumes raster updates after the overlay closes.
func (t *TV) Unfreeze() {
	t.mu.Lock()
	t.frozen = false
	t.lastSig = drawSig{}
	t.mu.Unlock()
}

// Frozen reports whether the overlay currently owns the content.
func (t *TV) Frozen() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frozen
}

// Update advances the TV by one tick of the outer loop: the power animator
// always runs, playback and the fixed-rate raster redraw run while powered
// and not frozen by the overlay.
func (t *TV) Update(dt time.Duration) {
	t.anim.Update(dt)

	t.mu.Lock()
	if !t.power || t.frozen {
		t.mu.Unlock()
		return
	}
	state := t.state
	t.sinceSelection += dt
	t.redrawAccum += dt
	redraw := t.redrawAccum >= RedrawInterval
	if redraw {
		t.redrawAccum = 0
	}
	t.mu.Unlock()

	if a := t.Adapter(state); a != nil {
		a.Advance(dt)
	}

	if redraw {
		t.redrawRaster()
	}
}

// redrawRaster repaints the raster for the current state. The menu always
// repaints (blinking highlight); media modes repaint when playing or when
// their draw signature changed since the last paint.
func (t *TV) redrawRaster() {
	t.mu.Lock()
	state := t.state
	sel := t.selection
	since := t.sinceSelection
	hover := t.menuHover
	t.mu.Unlock()

	switch state {
	case StateMenu:
		drawMenu(t.screen, sel, since)

	case StatePhoto, StateVideo, StateModel:
		a := t.Adapter(state)

		a.mu.Lock()
		sig := drawSig{
			state:     state,
			gen:       a.gen,
			loadState: int(a.state),
			hover:     hover,
			valid:     true,
		}
		playing := a.player.Playing()
		a.mu.Unlock()

		t.mu.Lock()
		skip := !playing && t.lastSig == sig
		if !skip {
			t.lastSig = sig
		}
		t.mu.Unlock()
		if skip {
			return
		}

		a.DrawFrame(t.screen)
		drawMenuButton(t.screen, hover)
		if state != StatePhoto && a.HasVideo() && !playing {
			drawPausedBanner(t.screen)
		}
	}
}
