// Package glapi describes the off-screen rendering context consumed by the
// renderer. The method set follows the WebGL 1 / OpenGL ES 2 call surface so
// that a native context can forward every call to the driver unchanged.
package glapi

// Enum is a GL enumerant. The values of the constants below are those of the
// OpenGL ES 2 headers.
type Enum uint32

const (
	NoError                     Enum = 0
	InvalidEnum                 Enum = 0x0500
	InvalidValue                Enum = 0x0501
	InvalidOperation            Enum = 0x0502
	OutOfMemory                 Enum = 0x0505
	InvalidFramebufferOperation Enum = 0x0506

	False Enum = 0
	True  Enum = 1

	DepthTest Enum = 0x0B71
	Blend     Enum = 0x0BE2

	Zero             Enum = 0
	One              Enum = 1
	SrcColor         Enum = 0x0300
	OneMinusSrcColor Enum = 0x0301
	SrcAlpha         Enum = 0x0302
	OneMinusSrcAlpha Enum = 0x0303
	DstAlpha         Enum = 0x0304
	OneMinusDstAlpha Enum = 0x0305
	DstColor         Enum = 0x0306
	OneMinusDstColor Enum = 0x0307

	DepthBufferBit Enum = 0x0100
	ColorBufferBit Enum = 0x4000

	Framebuffer                            Enum = 0x8D40
	Renderbuffer                           Enum = 0x8D41
	ColorAttachment0                       Enum = 0x8CE0
	FramebufferComplete                    Enum = 0x8CD5
	FramebufferIncompleteAttachment        Enum = 0x8CD6
	FramebufferIncompleteMissingAttachment Enum = 0x8CD7
	FramebufferIncompleteDimensions        Enum = 0x8CD9
	FramebufferUnsupported                 Enum = 0x8CDD

	RGB8  Enum = 0x8051
	RGBA8 Enum = 0x8058

	RGB  Enum = 0x1907
	RGBA Enum = 0x1908

	UnsignedByte Enum = 0x1401
	UnsignedInt  Enum = 0x1405
	Float        Enum = 0x1406

	FragmentShader Enum = 0x8B30
	VertexShader   Enum = 0x8B31
	DeleteStatus   Enum = 0x8B80
	CompileStatus  Enum = 0x8B81
	LinkStatus     Enum = 0x8B82
	InfoLogLength  Enum = 0x8B84

	ArrayBuffer Enum = 0x8892
	StreamDraw  Enum = 0x88E0
	StaticDraw  Enum = 0x88E4
	DynamicDraw Enum = 0x88E8

	Points        Enum = 0x0000
	Lines         Enum = 0x0001
	Triangles     Enum = 0x0004
	TriangleStrip Enum = 0x0005
	TriangleFan   Enum = 0x0006
)

// Context is an off-screen rendering context. Object handles are non-zero;
// a zero handle returned by one of the Create methods means the object could
// not be created.
//
// Implementations are not safe for concurrent use and may require every call
// to be made from the thread that created the context.
type Context interface {
	CreateRenderbuffer() uint32
	BindRenderbuffer(target Enum, rb uint32)
	RenderbufferStorage(target, internalFormat Enum, width, height int)
	CreateFramebuffer() uint32
	BindFramebuffer(target Enum, fb uint32)
	FramebufferRenderbuffer(target, attachment, rbTarget Enum, rb uint32)
	CheckFramebufferStatus(target Enum) Enum

	CreateShader(stage Enum) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderParameter(shader uint32, pname Enum) int32
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgramParameter(program uint32, pname Enum) int32
	GetProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	GetAttribLocation(program uint32, name string) int32
	GetUniformLocation(program uint32, name string) int32
	// Uniformfv sets a float, vec2, vec3 or vec4 uniform of the current
	// program depending on len(v).
	Uniformfv(location int32, v []float32)

	Enable(capability Enum)
	Disable(capability Enum)
	BlendFunc(sfactor, dfactor Enum)
	Viewport(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)

	CreateBuffer() uint32
	BindBuffer(target Enum, buffer uint32)
	BufferData(target Enum, data []float32, usage Enum)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int, typ Enum, normalized bool, stride, offset int)
	DrawArrays(mode Enum, first, count int)

	// ReadPixels copies a rectangle of the bound framebuffer into pixels,
	// which must be a []uint8 for UnsignedByte or a []uint32 for UnsignedInt.
	// Rows are stored bottom to top.
	ReadPixels(x, y, width, height int, format, typ Enum, pixels interface{})

	GetError() Enum

	// Close releases the context. Objects created through it become invalid.
	Close() error
}
