// Package native implements glapi.Context on top of a hardware OpenGL ES
// context.
package native

import (
	"strings"

	gl "github.com/go-gl/gl/v3.1/gles2"

	"github.com/Prior99/windows-test/glapi"
)

// Context forwards glapi calls to the OpenGL ES context that was current when
// it was created. All calls must be made from that thread.
type Context struct {
	err     glapi.Enum
	release func()
}

var _ glapi.Context = &Context{}

func newContext(release func()) (*Context, error) {
	if err := gl.Init(); err != nil {
		release()
		return nil, err
	}
	return &Context{release: release}, nil
}

// Close destroys the underlying context. It is safe to call more than once.
func (c *Context) Close() error {
	if c.release != nil {
		c.release()
		c.release = nil
	}
	return nil
}

// Vendor, Renderer and Version describe the driver.
func (c *Context) Vendor() string   { return gl.GoStr(gl.GetString(gl.VENDOR)) }
func (c *Context) Renderer() string { return gl.GoStr(gl.GetString(gl.RENDERER)) }
func (c *Context) Version() string  { return gl.GoStr(gl.GetString(gl.VERSION)) }

// HasExtension reports whether the driver advertises the named extension.
func (c *Context) HasExtension(name string) bool {
	for _, ext := range strings.Fields(gl.GoStr(gl.GetString(gl.EXTENSIONS))) {
		if ext == name {
			return true
		}
	}
	return false
}

func (c *Context) setError(code glapi.Enum) {
	if c.err == glapi.NoError {
		c.err = code
	}
}

func (c *Context) GetError() glapi.Enum {
	if err := c.err; err != glapi.NoError {
		c.err = glapi.NoError
		return err
	}
	return glapi.Enum(gl.GetError())
}

func (c *Context) CreateRenderbuffer() uint32 {
	var rb uint32
	gl.GenRenderbuffers(1, &rb)
	return rb
}

func (c *Context) BindRenderbuffer(target glapi.Enum, rb uint32) {
	gl.BindRenderbuffer(uint32(target), rb)
}

func (c *Context) RenderbufferStorage(target, internalFormat glapi.Enum, width, height int) {
	gl.RenderbufferStorage(uint32(target), uint32(internalFormat), int32(width), int32(height))
}

func (c *Context) CreateFramebuffer() uint32 {
	var fb uint32
	gl.GenFramebuffers(1, &fb)
	return fb
}

func (c *Context) BindFramebuffer(target glapi.Enum, fb uint32) {
	gl.BindFramebuffer(uint32(target), fb)
}

func (c *Context) FramebufferRenderbuffer(target, attachment, rbTarget glapi.Enum, rb uint32) {
	gl.FramebufferRenderbuffer(uint32(target), uint32(attachment), uint32(rbTarget), rb)
}

func (c *Context) CheckFramebufferStatus(target glapi.Enum) glapi.Enum {
	return glapi.Enum(gl.CheckFramebufferStatus(uint32(target)))
}

func (c *Context) CreateShader(stage glapi.Enum) uint32 {
	return gl.CreateShader(uint32(stage))
}

func (c *Context) ShaderSource(shader uint32, source string) {
	csrc, free := gl.Strs(source + "\x00")
	defer free()
	gl.ShaderSource(shader, 1, csrc, nil)
}

func (c *Context) CompileShader(shader uint32) {
	gl.CompileShader(shader)
}

func (c *Context) GetShaderParameter(shader uint32, pname glapi.Enum) int32 {
	var v int32
	gl.GetShaderiv(shader, uint32(pname), &v)
	return v
}

func (c *Context) GetShaderInfoLog(shader uint32) string {
	n := c.GetShaderParameter(shader, glapi.InfoLogLength)
	if n <= 0 {
		return ""
	}
	buf := make([]uint8, n+1)
	gl.GetShaderInfoLog(shader, n, nil, &buf[0])
	return gl.GoStr(&buf[0])
}

func (c *Context) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (c *Context) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (c *Context) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (c *Context) LinkProgram(program uint32) {
	gl.LinkProgram(program)
}

func (c *Context) GetProgramParameter(program uint32, pname glapi.Enum) int32 {
	var v int32
	gl.GetProgramiv(program, uint32(pname), &v)
	return v
}

func (c *Context) GetProgramInfoLog(program uint32) string {
	n := c.GetProgramParameter(program, glapi.InfoLogLength)
	if n <= 0 {
		return ""
	}
	buf := make([]uint8, n+1)
	gl.GetProgramInfoLog(program, n, nil, &buf[0])
	return gl.GoStr(&buf[0])
}

func (c *Context) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (c *Context) GetAttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (c *Context) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (c *Context) Uniformfv(location int32, v []float32) {
	switch len(v) {
	case 1:
		gl.Uniform1fv(location, 1, &v[0])
	case 2:
		gl.Uniform2fv(location, 1, &v[0])
	case 3:
		gl.Uniform3fv(location, 1, &v[0])
	case 4:
		gl.Uniform4fv(location, 1, &v[0])
	default:
		c.setError(glapi.InvalidValue)
	}
}

func (c *Context) Enable(capability glapi.Enum) {
	gl.Enable(uint32(capability))
}

func (c *Context) Disable(capability glapi.Enum) {
	gl.Disable(uint32(capability))
}

func (c *Context) BlendFunc(sfactor, dfactor glapi.Enum) {
	gl.BlendFunc(uint32(sfactor), uint32(dfactor))
}

func (c *Context) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (c *Context) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (c *Context) Clear(mask glapi.Enum) {
	gl.Clear(uint32(mask))
}

func (c *Context) CreateBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (c *Context) BindBuffer(target glapi.Enum, buffer uint32) {
	gl.BindBuffer(uint32(target), buffer)
}

func (c *Context) BufferData(target glapi.Enum, data []float32, usage glapi.Enum) {
	if len(data) == 0 {
		gl.BufferData(uint32(target), 0, nil, uint32(usage))
		return
	}
	gl.BufferData(uint32(target), len(data)*4, gl.Ptr(data), uint32(usage))
}

func (c *Context) EnableVertexAttribArray(index uint32) {
	gl.EnableVertexAttribArray(index)
}

func (c *Context) VertexAttribPointer(index uint32, size int, typ glapi.Enum, normalized bool, stride, offset int) {
	gl.VertexAttribPointerWithOffset(index, int32(size), uint32(typ), normalized, int32(stride), uintptr(offset))
}

func (c *Context) DrawArrays(mode glapi.Enum, first, count int) {
	gl.DrawArrays(uint32(mode), int32(first), int32(count))
}

// ReadPixels reads the bound framebuffer. OpenGL ES only guarantees
// RGBA/UNSIGNED_BYTE, so UnsignedInt reads are done in bytes and widened to
// 32 bit normalized values.
func (c *Context) ReadPixels(x, y, width, height int, format, typ glapi.Enum, pixels interface{}) {
	if width < 0 || height < 0 {
		c.setError(glapi.InvalidValue)
		return
	}
	n := width * height * 4
	if n == 0 {
		return
	}
	switch typ {
	case glapi.UnsignedByte:
		buf, ok := pixels.([]uint8)
		if !ok || len(buf) < n {
			c.setError(glapi.InvalidOperation)
			return
		}
		gl.ReadPixels(int32(x), int32(y), int32(width), int32(height), uint32(format), gl.UNSIGNED_BYTE, gl.Ptr(buf))
	case glapi.UnsignedInt:
		words, ok := pixels.([]uint32)
		if !ok || len(words) < n {
			c.setError(glapi.InvalidOperation)
			return
		}
		buf := make([]uint8, n)
		gl.ReadPixels(int32(x), int32(y), int32(width), int32(height), uint32(format), gl.UNSIGNED_BYTE, gl.Ptr(buf))
		for i, b := range buf {
			words[i] = uint32(b) * 0x01010101
		}
	default:
		c.setError(glapi.InvalidEnum)
	}
}
