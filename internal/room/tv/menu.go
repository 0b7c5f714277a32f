package tv

import (
	"image/color"
	gomath "math"
	"time"
)

// Menu entries, in selection order. The index into this slice is the
// selection cursor and maps onto the mode states.
var menuItems = []string{"PHOTOS", "VIDEOS", "3D MODELS"}

// Blink rate of the selection highlight in cycles per second.
const menuBlinkHz = 1.6

var (
	colorMenuBg        = color.RGBA{R: 8, G: 12, B: 22, A: 255}
	colorMenuTitle     = color.RGBA{R: 120, G: 200, B: 255, A: 255}
	colorMenuItem      = color.RGBA{R: 190, G: 200, B: 215, A: 255}
	colorMenuSelected  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorMenuHighlight = color.RGBA{R: 40, G: 90, B: 160, A: 255}
	colorMenuButton    = color.RGBA{R: 20, G: 30, B: 50, A: 230}
	colorMenuButtonHot = color.RGBA{R: 60, G: 110, B: 190, A: 255}
	colorPausedBanner  = color.RGBA{R: 0, G: 0, B: 0, A: 170}
)

// drawMenu paints the mode-selection menu. The selection highlight blinks
// with an alpha keyed off the time since the selection last changed, so
// every cursor move restarts the blink bright.
func drawMenu(buf *ScreenBuffer, selection int, sinceChange time.Duration) {
	buf.Clear(colorMenuBg)

	buf.DrawTextCentered("GAMBO TV", 140, 8, colorMenuTitle)

	const (
		itemW    = 640
		itemH    = 110
		itemGap  = 40
		firstY   = 380
		textPad  = 30
		txtScale = 5
	)
	x := (BufferW - itemW) / 2

	blink := 0.55 + 0.45*float32(gomath.Sin(2*gomath.Pi*menuBlinkHz*sinceChange.Seconds()))

	for i, item := range menuItems {
		y := firstY + i*(itemH+itemGap)
		if i == selection {
			hl := colorMenuHighlight
			hl.A = uint8(255 * blink)
			buf.FillRect(x, y, itemW, itemH, hl)
			buf.StrokeRect(x, y, itemW, itemH, 4, colorMenuSelected)
			buf.DrawText(item, x+textPad, y+(itemH-TextHeight(txtScale))/2, txtScale, colorMenuSelected)
			continue
		}
		buf.StrokeRect(x, y, itemW, itemH, 2, colorMenuItem)
		buf.DrawText(item, x+textPad, y+(itemH-TextHeight(txtScale))/2, txtScale, colorMenuItem)
	}
}

// drawMenuButton paints the persistent in-canvas MENU affordance. Drawn
// fresh on every redraw since its hover highlight changes independently of
// the content underneath.
func drawMenuButton(buf *ScreenBuffer, hover bool) {
	x, y, w, h := MenuButtonRect()

	bg := colorMenuButton
	fg := colorMenuItem
	if hover {
		bg = colorMenuButtonHot
		fg = colorMenuSelected
	}
	buf.FillRect(x, y, w, h, bg)
	buf.StrokeRect(x, y, w, h, 3, fg)

	const scale = 4
	tw := MeasureText("MENU", scale)
	buf.DrawText("MENU", x+(w-tw)/2, y+(h-TextHeight(scale))/2, scale, fg)
}

// drawPausedBanner paints the centered PAUSED banner over paused video
// content.
func drawPausedBanner(buf *ScreenBuffer) {
	const scale = 7
	tw := MeasureText("PAUSED", scale)
	th := TextHeight(scale)

	padX, padY := 60, 30
	x := (BufferW - tw) / 2
	y := (BufferH - th) / 2

	buf.FillRect(x-padX, y-padY, tw+2*padX, th+2*padY, colorPausedBanner)
	buf.DrawText("PAUSED", x, y, scale, colorMenuSelected)
}
