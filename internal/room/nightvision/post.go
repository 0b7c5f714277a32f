package nightvision

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gambo89/gambo-room/internal/engine/shader"
)

// PostPass draws the rendered scene texture through the night-vision
// shader: green tint, animated grain, vignette and the auto-gain uniform.
type PostPass struct {
	program uint32
	vao     uint32
	vbo     uint32

	gainLoc int32
	timeLoc int32
}

// NewPostPass compiles the effect and builds its fullscreen quad.
func NewPostPass() (*PostPass, error) {
	p := &PostPass{}

	var err error
	p.program, err = shader.CompileProgram(postVertexSrc, postFragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("create night vision shader: %w", err)
	}

	p.gainLoc = shader.UniformLocation(p.program, "uGain")
	p.timeLoc = shader.UniformLocation(p.program, "uTime")

	// Fullscreen quad in clip space, pos(2) + uv(2).
	vertices := []float32{
		-1, -1, 0, 0,
		1, -1, 1, 0,
		1, 1, 1, 1,
		-1, -1, 0, 0,
		1, 1, 1, 1,
		-1, 1, 0, 1,
	}

	gl.GenVertexArrays(1, &p.vao)
	gl.BindVertexArray(p.vao)
	gl.GenBuffers(1, &p.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	stride := int32(4 * 4)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 2*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return p, nil
}

// Draw runs the effect over the scene color texture with the current gain.
// timeSec animates the grain.
func (p *PostPass) Draw(sceneTexture uint32, gain float32, timeSec float32) {
	var prevDepth int32
	gl.GetIntegerv(gl.DEPTH_TEST, &prevDepth)
	gl.Disable(gl.DEPTH_TEST)

	gl.UseProgram(p.program)
	gl.Uniform1f(p.gainLoc, gain)
	gl.Uniform1f(p.timeLoc, timeSec)

	texLoc := shader.UniformLocation(p.program, "uScene")
	gl.Uniform1i(texLoc, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, sceneTexture)

	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)

	if prevDepth == gl.TRUE {
		gl.Enable(gl.DEPTH_TEST)
	}
}

// Destroy releases the effect's GL resources.
func (p *PostPass) Destroy() {
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
	}
	if p.vbo != 0 {
		gl.DeleteBuffers(1, &p.vbo)
	}
	if p.program != 0 {
		gl.DeleteProgram(p.program)
	}
}

const postVertexSrc = `
#version 410 core

layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aTexCoord;

out vec2 vTexCoord;

void main() {
	gl_Position = vec4(aPos, 0.0, 1.0);
	vTexCoord = aTexCoord;
}
`

const postFragmentSrc = `
#version 410 core

uniform sampler2D uScene;
uniform float uGain;
uniform float uTime;

in vec2 vTexCoord;
out vec4 FragColor;

float hash(vec2 p) {
	return fract(sin(dot(p, vec2(12.9898, 78.233))) * 43758.5453);
}

void main() {
	vec3 color = texture(uScene, vTexCoord).rgb * uGain;

	// Intensifier-tube phosphor tint
	float luma = dot(color, vec3(0.299, 0.587, 0.114));
	vec3 tinted = vec3(0.1, 1.0, 0.25) * luma;

	// Animated grain
	float grain = hash(vTexCoord * 800.0 + vec2(uTime * 60.0)) - 0.5;
	tinted += grain * 0.08;

	// Vignette
	vec2 d = vTexCoord - vec2(0.5);
	float vig = smoothstep(0.85, 0.35, length(d));
	tinted *= vig;

	FragColor = vec4(tinted, 1.0);
}
`
