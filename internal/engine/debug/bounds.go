// Package debug provides debug visualization for the streaming system.
package debug

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/altlands/veldt/internal/engine/shader"
	"github.com/altlands/veldt/internal/engine/terrain"
	"github.com/altlands/veldt/pkg/math"
)

const boundsVertexShader = `#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uViewProj;

void main() {
	gl_Position = uViewProj * vec4(aPos, 1.0);
}
`

const boundsFragmentShader = `#version 410 core

uniform vec4 uColor;

out vec4 FragColor;

void main() {
	FragColor = uColor;
}
`

// WireframeVertices returns line-list vertices for a box outline:
// 12 edges, 2 endpoints each, xyz per endpoint.
func WireframeVertices(box math.AABB) []float32 {
	minX, minY, minZ := box.Min.X, box.Min.Y, box.Min.Z
	maxX, maxY, maxZ := box.Max.X, box.Max.Y, box.Max.Z
	return []float32{
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// BoundsRenderer draws chunk bounding boxes as wireframes so streaming
// behavior (residency, tightened Y extents) can be inspected visually.
type BoundsRenderer struct {
	program     uint32
	locViewProj int32
	locColor    int32

	vao uint32
	vbo uint32
}

// NewBoundsRenderer compiles the line shader and allocates a dynamic
// vertex buffer.
func NewBoundsRenderer() (*BoundsRenderer, error) {
	program, err := shader.CompileProgram(boundsVertexShader, boundsFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("bounds shader: %w", err)
	}

	br := &BoundsRenderer{program: program}
	br.locViewProj = shader.GetUniform(program, "uViewProj")
	br.locColor = shader.GetUniform(program, "uColor")

	gl.GenVertexArrays(1, &br.vao)
	gl.BindVertexArray(br.vao)
	gl.GenBuffers(1, &br.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, br.vbo)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)

	return br, nil
}

// Draw renders one wireframe per chunk.
func (br *BoundsRenderer) Draw(viewProj math.Mat4, chunks []*terrain.Chunk, color [4]float32) {
	if len(chunks) == 0 {
		return
	}

	verts := make([]float32, 0, len(chunks)*24*3)
	for _, chunk := range chunks {
		verts = append(verts, WireframeVertices(chunk.Bounds)...)
	}

	gl.UseProgram(br.program)
	gl.UniformMatrix4fv(br.locViewProj, 1, false, &viewProj[0])
	gl.Uniform4f(br.locColor, color[0], color[1], color[2], color[3])

	gl.BindVertexArray(br.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, br.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.DYNAMIC_DRAW)
	gl.DrawArrays(gl.LINES, 0, int32(len(verts)/3))
	gl.BindVertexArray(0)
}

// Destroy releases GL resources.
func (br *BoundsRenderer) Destroy() {
	if br.vbo != 0 {
		gl.DeleteBuffers(1, &br.vbo)
		br.vbo = 0
	}
	if br.vao != 0 {
		gl.DeleteVertexArrays(1, &br.vao)
		br.vao = 0
	}
	if br.program != 0 {
		gl.DeleteProgram(br.program)
		br.program = 0
	}
}
