// Package renderer draws the room: lit solid boxes for furniture and
// props, plus textured emissive quads for screen surfaces.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/gambo89/gambo-room/internal/engine/lighting"
	"github.com/gambo89/gambo-room/internal/engine/picking"
	"github.com/gambo89/gambo-room/internal/engine/shader"
	"github.com/gambo89/gambo-room/internal/logger"
	"github.com/gambo89/gambo-room/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer owns the room shader and the shared box/quad geometry.
type Renderer struct {
	config Config

	program uint32

	boxVAO  uint32
	boxVBO  uint32
	quadVAO uint32
	quadVBO uint32

	viewProj    math.Mat4
	invViewProj math.Mat4

	// uniform locations
	uModel       int32
	uViewProj    int32
	uMode        int32
	uBaseColor   int32
	uEmissive    int32
	uEmissiveInt int32
	uTexture     int32
	uSunDir      int32
	uSunColor    int32
	uAmbient     int32
	uLightCount  int32
	uLightPos    int32
	uLightColor  int32
	uLightRange  int32
	uLightInt    int32
}

// draw modes matched by the fragment shader
const (
	modeLit      = 0
	modeEmissive = 1
)

// New creates the renderer. Must be called after the OpenGL context exists.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:      cfg,
		viewProj:    math.Identity(),
		invViewProj: math.Identity(),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.05, 0.05, 0.08, 1.0)

	var err error
	r.program, err = shader.CompileProgram(roomVertexSrc, roomFragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("room shader: %w", err)
	}
	r.lookupUniforms()

	r.createBox()
	r.createQuad()

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.boxVAO != 0 {
		gl.DeleteVertexArrays(1, &r.boxVAO)
		gl.DeleteBuffers(1, &r.boxVBO)
	}
	if r.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &r.quadVAO)
		gl.DeleteBuffers(1, &r.quadVBO)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the current framebuffer size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// SetCamera sets the frame's view and projection matrices.
func (r *Renderer) SetCamera(view, proj math.Mat4) {
	r.viewProj = proj.Mul(view)
	r.invViewProj = r.viewProj.Inverse()
}

// InvViewProj returns the inverse view-projection for picking rays.
func (r *Renderer) InvViewProj() math.Mat4 {
	return r.invViewProj
}

// SetSun sets the directional light and the ambient floor.
func (r *Renderer) SetSun(dir [3]float32, color [3]float32, ambient float32) {
	gl.UseProgram(r.program)
	gl.Uniform3f(r.uSunDir, dir[0], dir[1], dir[2])
	gl.Uniform3f(r.uSunColor, color[0], color[1], color[2])
	gl.Uniform1f(r.uAmbient, ambient)
}

// SetLights uploads the frame's point lights.
func (r *Renderer) SetLights(buf *lighting.PointLightBuffer) {
	gl.UseProgram(r.program)
	gl.Uniform1i(r.uLightCount, int32(buf.Count))
	if buf.Count == 0 {
		return
	}
	pos := buf.GetPositions()
	col := buf.GetColors()
	rng := buf.GetRanges()
	its := buf.GetIntensities()
	gl.Uniform3fv(r.uLightPos, int32(buf.Count), &pos[0])
	gl.Uniform3fv(r.uLightColor, int32(buf.Count), &col[0])
	gl.Uniform1fv(r.uLightRange, int32(buf.Count), &rng[0])
	gl.Uniform1fv(r.uLightInt, int32(buf.Count), &its[0])
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.uViewProj, 1, false, r.viewProj.Ptr())
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// DrawBox draws a lit box. offset displaces the whole box, scaleY
// squeezes it vertically about its own center.
func (r *Renderer) DrawBox(box picking.AABB, offset math.Vec3, scaleY float32, base, emissive [3]float32, emissiveIntensity float32) {
	center := box.Min.Add(box.Max).Scale(0.5).Add(offset)
	size := box.Max.Sub(box.Min)
	if scaleY <= 0 {
		scaleY = 1
	}

	model := math.Translate(center.X, center.Y, center.Z).
		Mul(math.Scale(size.X, size.Y*scaleY, size.Z))

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.uModel, 1, false, model.Ptr())
	gl.Uniform1i(r.uMode, modeLit)
	gl.Uniform3f(r.uBaseColor, base[0], base[1], base[2])
	gl.Uniform3f(r.uEmissive, emissive[0], emissive[1], emissive[2])
	gl.Uniform1f(r.uEmissiveInt, emissiveIntensity)

	gl.BindVertexArray(r.boxVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 36)
}

// DrawScreen draws a textured emissive quad. The quad's origin is its
// top-left corner with EdgeU running right and EdgeV running down, so
// texture row zero lands on the top edge. tint scales the texel color
// and emissiveIntensity drives how much the surface self-illuminates.
func (r *Renderer) DrawScreen(q picking.Quad, textureID uint32, tint [3]float32, emissiveIntensity float32) {
	n := q.Normal()
	model := math.Mat4{
		q.EdgeU.X, q.EdgeU.Y, q.EdgeU.Z, 0,
		q.EdgeV.X, q.EdgeV.Y, q.EdgeV.Z, 0,
		n.X, n.Y, n.Z, 0,
		q.Origin.X, q.Origin.Y, q.Origin.Z, 1,
	}

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.uModel, 1, false, model.Ptr())
	gl.Uniform1i(r.uMode, modeEmissive)
	gl.Uniform3f(r.uBaseColor, tint[0], tint[1], tint[2])
	gl.Uniform1f(r.uEmissiveInt, emissiveIntensity)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, textureID)
	gl.Uniform1i(r.uTexture, 0)

	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
}

// ReadPixels reads back the current framebuffer as tightly packed RGBA,
// bottom row first as OpenGL reports it.
func (r *Renderer) ReadPixels() []byte {
	pixels := make([]byte, r.config.Width*r.config.Height*4)
	gl.ReadPixels(0, 0, int32(r.config.Width), int32(r.config.Height),
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

func (r *Renderer) lookupUniforms() {
	r.uModel = shader.UniformLocation(r.program, "uModel")
	r.uViewProj = shader.UniformLocation(r.program, "uViewProj")
	r.uMode = shader.UniformLocation(r.program, "uMode")
	r.uBaseColor = shader.UniformLocation(r.program, "uBaseColor")
	r.uEmissive = shader.UniformLocation(r.program, "uEmissive")
	r.uEmissiveInt = shader.UniformLocation(r.program, "uEmissiveIntensity")
	r.uTexture = shader.UniformLocation(r.program, "uTexture")
	r.uSunDir = shader.UniformLocation(r.program, "uSunDir")
	r.uSunColor = shader.UniformLocation(r.program, "uSunColor")
	r.uAmbient = shader.UniformLocation(r.program, "uAmbient")
	r.uLightCount = shader.UniformLocation(r.program, "uLightCount")
	r.uLightPos = shader.UniformLocation(r.program, "uLightPos")
	r.uLightColor = shader.UniformLocation(r.program, "uLightColor")
	r.uLightRange = shader.UniformLocation(r.program, "uLightRange")
	r.uLightInt = shader.UniformLocation(r.program, "uLightIntensity")
}

// createBox builds a unit cube centered at the origin, position + normal
// per vertex.
func (r *Renderer) createBox() {
	h := float32(0.5)
	faces := [6]struct {
		n [3]float32
		v [4][3]float32
	}{
		{[3]float32{0, 0, 1}, [4][3]float32{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{h, -h, h}, {h, -h, -h}, {h, h, -h}, {h, h, h}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}},
	}

	verts := make([]float32, 0, 36*6)
	for _, f := range faces {
		for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
			verts = append(verts, f.v[i][0], f.v[i][1], f.v[i][2], f.n[0], f.n[1], f.n[2])
		}
	}

	gl.GenVertexArrays(1, &r.boxVAO)
	gl.BindVertexArray(r.boxVAO)
	gl.GenBuffers(1, &r.boxVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.boxVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 6*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 6*4, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// createQuad builds the unit screen quad in quad-local space, where x
// runs along EdgeU and y along EdgeV.
func (r *Renderer) createQuad() {
	// x, y, u, v
	verts := []float32{
		0, 0, 0, 0,
		1, 0, 1, 0,
		0, 1, 0, 1,
		1, 1, 1, 1,
	}

	gl.GenVertexArrays(1, &r.quadVAO)
	gl.BindVertexArray(r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 4*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, 4*4, unsafe.Pointer(uintptr(2*4)))
	gl.EnableVertexAttribArray(2)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

const roomVertexSrc = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aUV;

uniform mat4 uModel;
uniform mat4 uViewProj;

out vec3 vNormal;
out vec3 vWorldPos;
out vec2 vUV;

void main() {
	vec4 world = uModel * vec4(aPos, 1.0);
	vWorldPos = world.xyz;
	vNormal = mat3(uModel) * aNormal;
	vUV = aUV;
	gl_Position = uViewProj * world;
}
`

const roomFragmentSrc = `
#version 410 core

in vec3 vNormal;
in vec3 vWorldPos;
in vec2 vUV;

uniform int uMode;
uniform vec3 uBaseColor;
uniform vec3 uEmissive;
uniform float uEmissiveIntensity;
uniform sampler2D uTexture;

uniform vec3 uSunDir;
uniform vec3 uSunColor;
uniform float uAmbient;

uniform int uLightCount;
uniform vec3 uLightPos[8];
uniform vec3 uLightColor[8];
uniform float uLightRange[8];
uniform float uLightIntensity[8];

out vec4 FragColor;

void main() {
	if (uMode == 1) {
		// Screen surface: texel is the light source.
		vec3 texel = texture(uTexture, vUV).rgb * uBaseColor;
		FragColor = vec4(texel * max(uEmissiveIntensity, 0.15), 1.0);
		return;
	}

	vec3 n = normalize(vNormal);
	vec3 lit = uBaseColor * uAmbient;
	lit += uBaseColor * uSunColor * max(dot(n, normalize(uSunDir)), 0.0);

	for (int i = 0; i < uLightCount; i++) {
		vec3 toLight = uLightPos[i] - vWorldPos;
		float dist = length(toLight);
		float atten = clamp(1.0 - dist / uLightRange[i], 0.0, 1.0);
		atten *= atten;
		float ndl = max(dot(n, toLight / max(dist, 0.0001)), 0.0);
		lit += uBaseColor * uLightColor[i] * ndl * atten * uLightIntensity[i];
	}

	lit += uEmissive * uEmissiveIntensity;
	FragColor = vec4(lit, 1.0);
}
`
