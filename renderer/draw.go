package renderer

import (
	"fmt"

	"github.com/Prior99/windows-test/glapi"
)

// QuadVertices are two triangles covering the whole viewport.
var QuadVertices = []float32{
	-1, 1,
	1, 1,
	-1, -1,
	1, 1,
	1, -1,
	-1, -1,
}

// SetupState sets the fixed pipeline state and clears the color buffer.
func SetupState(gl glapi.Context, width, height int, clearColor [4]float32) error {
	gl.Disable(glapi.DepthTest)
	gl.Enable(glapi.Blend)
	gl.BlendFunc(glapi.SrcAlpha, glapi.OneMinusSrcAlpha)
	gl.Viewport(0, 0, width, height)
	gl.ClearColor(clearColor[0], clearColor[1], clearColor[2], clearColor[3])
	gl.Clear(glapi.ColorBufferBit)
	return glapi.Error(gl, "clear")
}

// VertexBuffer holds 2D vertex positions.
type VertexBuffer struct {
	ID   uint32
	Data []float32
}

func NewVertexBuffer(gl glapi.Context, data []float32) (*VertexBuffer, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("vertex data of %d floats is not a list of 2D positions", len(data))
	}
	vb := &VertexBuffer{Data: append([]float32(nil), data...)}
	if vb.ID = gl.CreateBuffer(); vb.ID == 0 {
		return nil, ObjectError{Object: "vertex buffer"}
	}
	gl.BindBuffer(glapi.ArrayBuffer, vb.ID)
	gl.BufferData(glapi.ArrayBuffer, vb.Data, glapi.StaticDraw)
	return vb, glapi.Error(gl, "bufferData")
}

func (vb *VertexBuffer) Vertices() int {
	return len(vb.Data) / 2
}

// Draw draws the vertex buffer as a list of triangles. The vertex positions
// are fed to the attribute at loc, which is skipped if it is -1.
func Draw(gl glapi.Context, prog *Program, vb *VertexBuffer, loc int32) error {
	prog.Use()
	gl.BindBuffer(glapi.ArrayBuffer, vb.ID)
	if loc >= 0 {
		gl.EnableVertexAttribArray(uint32(loc))
		gl.VertexAttribPointer(uint32(loc), 2, glapi.Float, false, 0, 0)
	}
	gl.DrawArrays(glapi.Triangles, 0, vb.Vertices())
	return glapi.Error(gl, "drawArrays")
}
