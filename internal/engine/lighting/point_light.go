// Package lighting provides the room's light sources for GPU upload.
package lighting

// MaxPointLights is the maximum number of point lights supported in shaders.
const MaxPointLights = 8

// PointLight represents a point light source for GPU upload.
type PointLight struct {
	Position  [3]float32 // World position
	Color     [3]float32 // RGB color (0-1 range)
	Range     float32    // Light radius/falloff distance
	Intensity float32    // Light intensity multiplier
}

// PointLightBuffer holds lights for GPU upload.
type PointLightBuffer struct {
	Lights []PointLight
	Count  int
}

// NewPointLightBuffer creates an empty point light buffer.
func NewPointLightBuffer() *PointLightBuffer {
	return &PointLightBuffer{
		Lights: make([]PointLight, 0, MaxPointLights),
	}
}

// Clear removes all lights from the buffer.
func (b *PointLightBuffer) Clear() {
	b.Lights = b.Lights[:0]
	b.Count = 0
}

// AddLight adds a light to the buffer. Returns false when full.
func (b *PointLightBuffer) AddLight(light PointLight) bool {
	if b.Count >= MaxPointLights {
		return false
	}
	b.Lights = append(b.Lights, light)
	b.Count++
	return true
}

// SetLights replaces the buffer contents, truncating to the maximum.
func (b *PointLightBuffer) SetLights(lights []PointLight) {
	b.Clear()
	for _, l := range lights {
		if !b.AddLight(l) {
			break
		}
	}
}

// GetPositions returns flattened xyz positions for uniform upload.
func (b *PointLightBuffer) GetPositions() []float32 {
	out := make([]float32, 0, b.Count*3)
	for i := 0; i < b.Count; i++ {
		out = append(out, b.Lights[i].Position[0], b.Lights[i].Position[1], b.Lights[i].Position[2])
	}
	return out
}

// GetColors returns flattened rgb colors for uniform upload.
func (b *PointLightBuffer) GetColors() []float32 {
	out := make([]float32, 0, b.Count*3)
	for i := 0; i < b.Count; i++ {
		out = append(out, b.Lights[i].Color[0], b.Lights[i].Color[1], b.Lights[i].Color[2])
	}
	return out
}

// GetRanges returns light ranges for uniform upload.
func (b *PointLightBuffer) GetRanges() []float32 {
	out := make([]float32, 0, b.Count)
	for i := 0; i < b.Count; i++ {
		out = append(out, b.Lights[i].Range)
	}
	return out
}

// GetIntensities returns light intensities for uniform upload.
func (b *PointLightBuffer) GetIntensities() []float32 {
	out := make([]float32, 0, b.Count)
	for i := 0; i < b.Count; i++ {
		out = append(out, b.Lights[i].Intensity)
	}
	return out
}
