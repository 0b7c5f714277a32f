package tv

// In-canvas MENU button geometry, anchored top-right. The three content
// modes draw the identical rectangle, so hit-testing and drawing share
// these constants.
const (
	menuButtonPad = 36
	menuButtonW   = 220
	menuButtonH   = 86
)

// MenuButtonRect returns the MENU affordance rectangle in raster pixels.
func MenuButtonRect() (x, y, w, h int) {
	return BufferW - menuButtonPad - menuButtonW, menuButtonPad, menuButtonW, menuButtonH
}

// MapUV converts a mesh-hit UV coordinate into raster pixel coordinates,
// honoring the screen texture's repeat/offset transform. This is the only
// bridge between raycast space and the raster UI's own hit-testing; it must
// stay consistent with the screen mesh's wrap convention or clicks silently
// miss.
func MapUV(u, v, repeatX, repeatY, offsetX, offsetY float32) (px, py int) {
	px = int((u*repeatX + offsetX) * BufferW)
	py = int((v*repeatY + offsetY) * BufferH)
	return px, py
}

// InMenuButton reports whether a raster pixel lands on the MENU affordance.
func InMenuButton(px, py int) bool {
	x, y, w, h := MenuButtonRect()
	return px >= x && px < x+w && py >= y && py < y+h
}
