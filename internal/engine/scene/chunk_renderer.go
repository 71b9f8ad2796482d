// Package scene renders streamed terrain chunks with OpenGL.
package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/altlands/veldt/internal/engine/shader"
	"github.com/altlands/veldt/internal/engine/terrain"
	"github.com/altlands/veldt/pkg/math"
)

const chunkVertexShader = `#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoord;
layout (location = 3) in vec4 aTangent;

uniform mat4 uViewProj;

out vec3 vNormal;
out vec2 vTexCoord;
out float vHeight;

void main() {
	gl_Position = uViewProj * vec4(aPos, 1.0);
	vNormal = aNormal;
	vTexCoord = aTexCoord;
	vHeight = aPos.y;
}
`

const chunkFragmentShader = `#version 410 core

in vec3 vNormal;
in vec2 vTexCoord;
in float vHeight;

uniform vec3 uLightDir;
uniform vec3 uAmbient;
uniform vec3 uDiffuse;
uniform vec2 uHeightRange;

out vec4 FragColor;

void main() {
	float ndl = max(dot(normalize(vNormal), -normalize(uLightDir)), 0.0);
	float t = clamp((vHeight - uHeightRange.x) / (uHeightRange.y - uHeightRange.x), 0.0, 1.0);
	vec3 low = vec3(0.22, 0.38, 0.16);
	vec3 high = vec3(0.55, 0.52, 0.45);
	vec3 base = mix(low, high, t);
	vec3 color = base * (uAmbient + uDiffuse * ndl);
	FragColor = vec4(color, 1.0);
}
`

// chunkBuffers is the GL state behind one uploaded chunk.
type chunkBuffers struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

// ChunkRenderer uploads, draws and destroys streamed chunk geometry. It
// implements the streamer's GPU backend; all methods must run on the
// thread owning the GL context.
type ChunkRenderer struct {
	program uint32

	locViewProj    int32
	locLightDir    int32
	locAmbient     int32
	locDiffuse     int32
	locHeightRange int32

	// Uploaded chunks keyed by their vertex buffer handle.
	buffers map[terrain.BufferHandle]*chunkBuffers

	// World height range for the altitude tint.
	MinHeight, MaxHeight float32
}

// NewChunkRenderer compiles the terrain shader.
func NewChunkRenderer() (*ChunkRenderer, error) {
	program, err := shader.CompileProgram(chunkVertexShader, chunkFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("chunk shader: %w", err)
	}

	cr := &ChunkRenderer{
		program: program,
		buffers: make(map[terrain.BufferHandle]*chunkBuffers),
	}

	cr.locViewProj = shader.GetUniform(program, "uViewProj")
	cr.locLightDir = shader.GetUniform(program, "uLightDir")
	cr.locAmbient = shader.GetUniform(program, "uAmbient")
	cr.locDiffuse = shader.GetUniform(program, "uDiffuse")
	cr.locHeightRange = shader.GetUniform(program, "uHeightRange")

	return cr, nil
}

// UploadChunk creates GPU buffers for a chunk mesh. The returned vertex
// handle is the VBO id and doubles as the key for the draw call lookup;
// the index handle is the EBO id.
func (cr *ChunkRenderer) UploadChunk(mesh *terrain.Mesh) (terrain.BufferHandle, terrain.BufferHandle, error) {
	if mesh.VertexCount() == 0 || mesh.IndexCount() == 0 {
		return terrain.InvalidBuffer, terrain.InvalidBuffer, fmt.Errorf("empty chunk mesh")
	}

	buf := &chunkBuffers{indexCount: int32(mesh.IndexCount())}

	gl.GenVertexArrays(1, &buf.vao)
	gl.BindVertexArray(buf.vao)

	gl.GenBuffers(1, &buf.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, buf.vbo)
	vertexSize := int(unsafe.Sizeof(terrain.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*vertexSize, unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)

	// Normal (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	// TexCoord (location 2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)

	// Tangent (location 3)
	gl.VertexAttribPointerWithOffset(3, 4, gl.FLOAT, false, int32(vertexSize), 8*4)
	gl.EnableVertexAttribArray(3)

	gl.GenBuffers(1, &buf.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	vb := terrain.BufferHandle(buf.vbo)
	cr.buffers[vb] = buf
	return vb, terrain.BufferHandle(buf.ebo), nil
}

// DestroyBuffers releases the GL objects behind a chunk.
func (cr *ChunkRenderer) DestroyBuffers(vb, ib terrain.BufferHandle) {
	buf, ok := cr.buffers[vb]
	if !ok {
		return
	}
	gl.DeleteBuffers(1, &buf.vbo)
	gl.DeleteBuffers(1, &buf.ebo)
	gl.DeleteVertexArrays(1, &buf.vao)
	delete(cr.buffers, vb)
}

// Render draws the given chunks with simple directional lighting.
func (cr *ChunkRenderer) Render(viewProj math.Mat4, lightDir, ambient, diffuse [3]float32, chunks []*terrain.Chunk) {
	if len(chunks) == 0 {
		return
	}

	gl.UseProgram(cr.program)
	gl.UniformMatrix4fv(cr.locViewProj, 1, false, &viewProj[0])
	gl.Uniform3f(cr.locLightDir, lightDir[0], lightDir[1], lightDir[2])
	gl.Uniform3f(cr.locAmbient, ambient[0], ambient[1], ambient[2])
	gl.Uniform3f(cr.locDiffuse, diffuse[0], diffuse[1], diffuse[2])
	gl.Uniform2f(cr.locHeightRange, cr.MinHeight, cr.MaxHeight)

	for _, chunk := range chunks {
		buf, ok := cr.buffers[chunk.VertexBuffer]
		if !ok {
			continue
		}
		gl.BindVertexArray(buf.vao)
		gl.DrawElements(gl.TRIANGLES, buf.indexCount, gl.UNSIGNED_INT, nil)
	}

	gl.BindVertexArray(0)
}

// Destroy releases all remaining chunk buffers and the shader program.
func (cr *ChunkRenderer) Destroy() {
	for vb := range cr.buffers {
		cr.DestroyBuffers(vb, 0)
	}
	if cr.program != 0 {
		gl.DeleteProgram(cr.program)
		cr.program = 0
	}
}
