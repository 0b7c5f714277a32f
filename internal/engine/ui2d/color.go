package ui2d

// Color represents an RGBA color with float components (0.0 to 1.0).
type Color struct {
	R, G, B, A float32
}

// Predefined colors for overlay chrome.
var (
	ColorTransparent = Color{0, 0, 0, 0}

	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}

	ColorScrim       = Color{0, 0, 0, 0.82}
	ColorPanelBg     = Color{0.07, 0.07, 0.09, 0.92}
	ColorPanelBorder = Color{0.32, 0.32, 0.38, 1}
	ColorText        = Color{0.92, 0.92, 0.92, 1}
	ColorTextDim     = Color{0.55, 0.55, 0.6, 1}
	ColorAccent      = Color{0.35, 0.85, 0.45, 1}
)

// RGBA creates a color from 8-bit RGBA values (0-255).
func RGBA(r, g, b, a uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: float32(a) / 255.0,
	}
}

// RGB creates a color from 8-bit RGB values with full alpha.
func RGB(r, g, b uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: 1.0,
	}
}

// WithAlpha returns a copy of the color with a different alpha value.
func (c Color) WithAlpha(a float32) Color {
	return Color{c.R, c.G, c.B, a}
}
