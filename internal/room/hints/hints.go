// Package hints renders the hover tooltip for the room's interactive props.
package hints

import (
	"time"

	"github.com/gambo89/gambo-room/internal/engine/ui2d"
)

// Tooltip tuning.
const (
	// autoHideAfter limits how long a tooltip stays up during one
	// continuous hover. The pointer has to leave and come back before
	// the same hint shows again.
	autoHideAfter = 2500 * time.Millisecond

	fadeInRate  = 10.0
	fadeOutRate = 6.0

	tooltipPadX    = float32(10)
	tooltipPadY    = float32(6)
	tooltipScale   = float32(1)
	cursorOffsetX  = float32(16)
	cursorOffsetY  = float32(20)
	screenMargin   = float32(8)
)

var (
	tooltipBG     = ui2d.RGBA(16, 16, 22, 230)
	tooltipBorder = ui2d.RGBA(90, 90, 110, 255)
	tooltipText   = ui2d.RGB(235, 235, 235)
)

// Tooltip is the hint widget. It follows the hover computed by the
// interaction router and fades in and out on its own clock.
type Tooltip struct {
	text    string
	elapsed time.Duration
	spent   bool
	alpha   float32
}

// NewTooltip creates a hidden tooltip.
func NewTooltip() *Tooltip {
	return &Tooltip{}
}

// Hover feeds the current hint text. An empty string ends the hover
// session; a changed text starts a fresh one with a fresh auto-hide timer.
func (t *Tooltip) Hover(text string) {
	if text == t.text {
		return
	}
	t.text = text
	t.elapsed = 0
	t.spent = false
}

// Text returns the active hint text, "" when nothing is hovered.
func (t *Tooltip) Text() string {
	return t.text
}

// Visible reports whether the tooltip currently wants to be on screen.
func (t *Tooltip) Visible() bool {
	return t.text != "" && !t.spent
}

// Alpha returns the current fade level in [0, 1].
func (t *Tooltip) Alpha() float32 {
	return t.alpha
}

// Update advances the auto-hide timer and the fade.
func (t *Tooltip) Update(dt time.Duration) {
	if t.text != "" && !t.spent {
		t.elapsed += dt
		if t.elapsed >= autoHideAfter {
			t.spent = true
		}
	}

	target := float32(0)
	rate := float32(fadeOutRate)
	if t.Visible() {
		target = 1
		rate = fadeInRate
	}
	step := rate * float32(dt.Seconds())
	if t.alpha < target {
		t.alpha += step
		if t.alpha > target {
			t.alpha = target
		}
	} else if t.alpha > target {
		t.alpha -= step
		if t.alpha < target {
			t.alpha = target
		}
	}
}

// Draw paints the tooltip next to the cursor, kept inside the screen.
// Call between the renderer's Begin and End.
func (t *Tooltip) Draw(r *ui2d.Renderer, mouseX, mouseY float32) {
	if t.alpha <= 0.01 || t.text == "" {
		return
	}

	textW, textH := r.MeasureText(t.text, tooltipScale)
	w := textW + 2*tooltipPadX
	h := textH + 2*tooltipPadY

	x := mouseX + cursorOffsetX
	y := mouseY + cursorOffsetY

	sw, sh := r.GetScreenSize()
	if x+w > float32(sw)-screenMargin {
		x = mouseX - w - cursorOffsetX
	}
	if y+h > float32(sh)-screenMargin {
		y = mouseY - h - cursorOffsetY
	}
	if x < screenMargin {
		x = screenMargin
	}
	if y < screenMargin {
		y = screenMargin
	}

	r.DrawPanel(x, y, w, h, tooltipBG.WithAlpha(t.alpha*tooltipBG.A), tooltipBorder.WithAlpha(t.alpha))
	r.DrawText(x+tooltipPadX, y+tooltipPadY, t.text, tooltipScale, tooltipText.WithAlpha(t.alpha))
}
