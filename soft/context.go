// Package soft implements glapi.Context entirely in Go. It renders into
// memory without any GPU, display server or driver and is deterministic
// across machines.
package soft

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Prior99/windows-test/glapi"
	"github.com/Prior99/windows-test/logger"
	"github.com/Prior99/windows-test/soft/glsl"
)

type renderbuffer struct {
	format        glapi.Enum
	width, height int
	// RGBA, 4 bytes per pixel, bottom row first.
	pix []uint8
}

type framebuffer struct {
	color uint32
}

type shader struct {
	stage    glsl.Stage
	source   string
	compiled *glsl.Shader
	log      string
	status   bool
	deleted  bool
	attached int
}

type attribute struct {
	name string
	slot int
}

type uniform struct {
	name  string
	typ   glsl.Type
	slots [2]int
	value mgl32.Vec4
}

type varying struct {
	vertexSlot, fragmentSlot int
	size                     int
}

type program struct {
	shaders []uint32
	linked  bool
	log     string

	vertex, fragment *glsl.Shader
	attributes       []attribute
	uniforms         []uniform
	varyings         []varying
}

type vertexArray struct {
	enabled bool
	buffer  uint32
	size    int
	stride  int
	offset  int
}

// MaxVertexAttribs is the number of generic vertex attribute indices.
const MaxVertexAttribs = 8

// MaxRenderbufferSize is the largest width or height of a renderbuffer.
const MaxRenderbufferSize = 16384

// Context is a software glapi.Context. The zero value is not usable, use
// NewContext.
type Context struct {
	next uint32
	err  glapi.Enum

	renderbuffers map[uint32]*renderbuffer
	framebuffers  map[uint32]*framebuffer
	shaders       map[uint32]*shader
	programs      map[uint32]*program
	buffers       map[uint32][]float32

	boundRenderbuffer uint32
	boundFramebuffer  uint32
	boundBuffer       uint32
	currentProgram    uint32

	blend      bool
	depthTest  bool
	srcFactor  glapi.Enum
	dstFactor  glapi.Enum
	viewport   [4]int
	clearColor [4]float32
	arrays     [MaxVertexAttribs]vertexArray
}

var _ glapi.Context = &Context{}

func NewContext() *Context {
	return &Context{
		renderbuffers: map[uint32]*renderbuffer{},
		framebuffers:  map[uint32]*framebuffer{},
		shaders:       map[uint32]*shader{},
		programs:      map[uint32]*program{},
		buffers:       map[uint32][]float32{},
		srcFactor:     glapi.One,
		dstFactor:     glapi.Zero,
	}
}

// setError records the first error until it is read by GetError.
func (ctx *Context) setError(code glapi.Enum) {
	if ctx.err == glapi.NoError {
		ctx.err = code
	}
}

func (ctx *Context) GetError() glapi.Enum {
	err := ctx.err
	ctx.err = glapi.NoError
	return err
}

func (ctx *Context) newName() uint32 {
	ctx.next++
	return ctx.next
}

func (ctx *Context) Close() error {
	*ctx = *NewContext()
	return nil
}

func (ctx *Context) CreateRenderbuffer() uint32 {
	name := ctx.newName()
	ctx.renderbuffers[name] = &renderbuffer{}
	return name
}

func (ctx *Context) BindRenderbuffer(target glapi.Enum, rb uint32) {
	if target != glapi.Renderbuffer {
		ctx.setError(glapi.InvalidEnum)
		return
	}
	if _, ok := ctx.renderbuffers[rb]; !ok && rb != 0 {
		ctx.setError(glapi.InvalidOperation)
		return
	}
	ctx.boundRenderbuffer = rb
}

func (ctx *Context) RenderbufferStorage(target, internalFormat glapi.Enum, width, height int) {
	if target != glapi.Renderbuffer {
		ctx.setError(glapi.InvalidEnum)
		return
	}
	if internalFormat != glapi.RGBA8 && internalFormat != glapi.RGB8 {
		ctx.setError(glapi.InvalidEnum)
		return
	}
	if width < 0 || height < 0 || width > MaxRenderbufferSize || height > MaxRenderbufferSize {
		ctx.setError(glapi.InvalidValue)
		return
	}
	rb, ok := ctx.renderbuffers[ctx.boundRenderbuffer]
	if !ok {
		ctx.setError(glapi.InvalidOperation)
		return
	}
	rb.format = internalFormat
	rb.width, rb.height = width, height
	rb.pix = make([]uint8, width*height*4)
	if internalFormat == glapi.RGB8 {
		for i := 3; i < len(rb.pix); i += 4 {
			rb.pix[i] = 0xff
		}
	}
}

func (ctx *Context) CreateFramebuffer() uint32 {
	name := ctx.newName()
	ctx.framebuffers[name] = &framebuffer{}
	return name
}

func (ctx *Context) BindFramebuffer(target glapi.Enum, fb uint32) {
	if target != glapi.Framebuffer {
		ctx.setError(glapi.InvalidEnum)
		return
	}
	if _, ok := ctx.framebuffers[fb]; !ok && fb != 0 {
		ctx.setError(glapi.InvalidOperation)
		return
	}
	ctx.boundFramebuffer = fb
}

func (ctx *Context) FramebufferRenderbuffer(target, attachment, rbTarget glapi.Enum, rb uint32) {
	if target != glapi.Framebuffer || attachment != glapi.ColorAttachment0 || rbTarget != glapi.Renderbuffer {
		ctx.setError(glapi.InvalidEnum)
		return
	}
	fb, ok := ctx.framebuffers[ctx.boundFramebuffer]
	if !ok {
		ctx.setError(glapi.InvalidOperation)
		return
	}
	if _, ok := ctx.renderbuffers[rb]; !ok && rb != 0 {
		ctx.setError(glapi.InvalidOperation)
		return
	}
	fb.color = rb
}

func (ctx *Context) CheckFramebufferStatus(target glapi.Enum) glapi.Enum {
	if target != glapi.Framebuffer {
		ctx.setError(glapi.InvalidEnum)
		return 0
	}
	fb, ok := ctx.framebuffers[ctx.boundFramebuffer]
	if !ok {
		// There is no default framebuffer without a window.
		return glapi.FramebufferUnsupported
	}
	if fb.color == 0 {
		return glapi.FramebufferIncompleteMissingAttachment
	}
	rb := ctx.renderbuffers[fb.color]
	if rb.width == 0 || rb.height == 0 {
		return glapi.FramebufferIncompleteAttachment
	}
	return glapi.FramebufferComplete
}

// target returns the color attachment of the bound framebuffer if it is
// complete.
func (ctx *Context) target() *renderbuffer {
	if ctx.CheckFramebufferStatus(glapi.Framebuffer) != glapi.FramebufferComplete {
		ctx.setError(glapi.InvalidFramebufferOperation)
		return nil
	}
	return ctx.renderbuffers[ctx.framebuffers[ctx.boundFramebuffer].color]
}

func (ctx *Context) CreateShader(stage glapi.Enum) uint32 {
	var s glsl.Stage
	switch stage {
	case glapi.VertexShader:
		s = glsl.Vertex
	case glapi.FragmentShader:
		s = glsl.Fragment
	default:
		ctx.setError(glapi.InvalidEnum)
		return 0
	}
	name := ctx.newName()
	ctx.shaders[name] = &shader{stage: s}
	return name
}

func (ctx *Context) shader(name uint32) *shader {
	sh, ok := ctx.shaders[name]
	if !ok {
		ctx.setError(glapi.InvalidValue)
	}
	return sh
}

func (ctx *Context) ShaderSource(name uint32, source string) {
	if sh := ctx.shader(name); sh != nil {
		sh.source = source
	}
}

func (ctx *Context) CompileShader(name uint32) {
	sh := ctx.shader(name)
	if sh == nil {
		return
	}
	compiled, err := glsl.Compile(sh.stage, sh.source)
	if err != nil {
		sh.compiled, sh.status = nil, false
		if cerr, ok := err.(*glsl.Error); ok {
			sh.log = cerr.Log()
		} else {
			sh.log = err.Error()
		}
		return
	}
	sh.compiled, sh.status, sh.log = compiled, true, ""
	logger.Debug("soft: compiled shader", zap.Uint32("shader", name), zap.String("interface", compiled.Describe()))
}

func (ctx *Context) GetShaderParameter(name uint32, pname glapi.Enum) int32 {
	sh := ctx.shader(name)
	if sh == nil {
		return 0
	}
	switch pname {
	case glapi.CompileStatus:
		return boolParam(sh.status)
	case glapi.DeleteStatus:
		return boolParam(sh.deleted)
	case glapi.InfoLogLength:
		if sh.log == "" {
			return 0
		}
		return int32(len(sh.log) + 1)
	}
	ctx.setError(glapi.InvalidEnum)
	return 0
}

func (ctx *Context) GetShaderInfoLog(name uint32) string {
	if sh := ctx.shader(name); sh != nil {
		return sh.log
	}
	return ""
}

func (ctx *Context) DeleteShader(name uint32) {
	if name == 0 {
		return
	}
	sh := ctx.shader(name)
	if sh == nil {
		return
	}
	sh.deleted = true
	if sh.attached == 0 {
		delete(ctx.shaders, name)
	}
}

func (ctx *Context) CreateProgram() uint32 {
	name := ctx.newName()
	ctx.programs[name] = &program{}
	return name
}

func (ctx *Context) program(name uint32) *program {
	p, ok := ctx.programs[name]
	if !ok {
		ctx.setError(glapi.InvalidValue)
	}
	return p
}

func (ctx *Context) AttachShader(prog, name uint32) {
	p := ctx.program(prog)
	sh := ctx.shader(name)
	if p == nil || sh == nil {
		return
	}
	for _, other := range p.shaders {
		if other == name || ctx.shaders[other].stage == sh.stage {
			ctx.setError(glapi.InvalidOperation)
			return
		}
	}
	p.shaders = append(p.shaders, name)
	sh.attached++
}

func (ctx *Context) LinkProgram(prog uint32) {
	p := ctx.program(prog)
	if p == nil {
		return
	}
	if err := ctx.link(p); err != nil {
		p.linked, p.log = false, err.Error()
		p.vertex, p.fragment = nil, nil
		p.attributes, p.uniforms, p.varyings = nil, nil, nil
		return
	}
	p.linked, p.log = true, ""
}

// link resolves the interface between the attached stages.
func (ctx *Context) link(p *program) error {
	var vs, fs *glsl.Shader
	for _, name := range p.shaders {
		sh := ctx.shaders[name]
		if !sh.status {
			return fmt.Errorf("error: %s shader is not compiled", sh.stage)
		}
		if sh.stage == glsl.Vertex {
			vs = sh.compiled
		} else {
			fs = sh.compiled
		}
	}
	if vs == nil {
		return fmt.Errorf("error: missing vertex shader")
	}
	if fs == nil {
		return fmt.Errorf("error: missing fragment shader")
	}

	var varyings []varying
	for _, in := range fs.Qualified(glsl.QualVarying) {
		out := vs.Variable(in.Name)
		if out == nil || out.Qualifier != glsl.QualVarying {
			if !in.Used {
				continue
			}
			return fmt.Errorf("error: varying %q is not declared in the vertex shader", in.Name)
		}
		if out.Type != in.Type {
			return fmt.Errorf("error: varying %q has type %s in the vertex shader and %s in the fragment shader", in.Name, out.Type, in.Type)
		}
		varyings = append(varyings, varying{
			vertexSlot:   out.Slot,
			fragmentSlot: in.Slot,
			size:         in.Type.Size(),
		})
	}

	var attributes []attribute
	for _, a := range vs.Qualified(glsl.QualAttribute) {
		if a.Used {
			attributes = append(attributes, attribute{name: a.Name, slot: a.Slot})
		}
	}
	if len(attributes) > MaxVertexAttribs {
		return fmt.Errorf("error: too many vertex attributes")
	}

	var uniforms []uniform
	index := map[string]int{}
	for stage, sh := range []*glsl.Shader{vs, fs} {
		for _, u := range sh.Qualified(glsl.QualUniform) {
			i, ok := index[u.Name]
			if !ok {
				i = len(uniforms)
				index[u.Name] = i
				uniforms = append(uniforms, uniform{name: u.Name, typ: u.Type, slots: [2]int{-1, -1}})
			} else if uniforms[i].typ != u.Type {
				return fmt.Errorf("error: uniform %q is declared with different types", u.Name)
			}
			uniforms[i].slots[stage] = u.Slot
		}
	}

	p.vertex, p.fragment = vs, fs
	p.attributes, p.uniforms, p.varyings = attributes, uniforms, varyings
	return nil
}

func (ctx *Context) GetProgramParameter(prog uint32, pname glapi.Enum) int32 {
	p := ctx.program(prog)
	if p == nil {
		return 0
	}
	switch pname {
	case glapi.LinkStatus:
		return boolParam(p.linked)
	case glapi.DeleteStatus:
		return boolParam(false)
	case glapi.InfoLogLength:
		if p.log == "" {
			return 0
		}
		return int32(len(p.log) + 1)
	}
	ctx.setError(glapi.InvalidEnum)
	return 0
}

func (ctx *Context) GetProgramInfoLog(prog uint32) string {
	if p := ctx.program(prog); p != nil {
		return p.log
	}
	return ""
}

func (ctx *Context) UseProgram(prog uint32) {
	if prog == 0 {
		ctx.currentProgram = 0
		return
	}
	p := ctx.program(prog)
	if p == nil {
		return
	}
	if !p.linked {
		ctx.setError(glapi.InvalidOperation)
		return
	}
	ctx.currentProgram = prog
}

// GetAttribLocation returns the index of an active attribute. Attributes
// that are declared but never read are inactive and yield -1.
func (ctx *Context) GetAttribLocation(prog uint32, name string) int32 {
	p := ctx.program(prog)
	if p == nil {
		return -1
	}
	if !p.linked {
		ctx.setError(glapi.InvalidOperation)
		return -1
	}
	for i, a := range p.attributes {
		if a.name == name {
			return int32(i)
		}
	}
	return -1
}

func (ctx *Context) GetUniformLocation(prog uint32, name string) int32 {
	p := ctx.program(prog)
	if p == nil {
		return -1
	}
	if !p.linked {
		ctx.setError(glapi.InvalidOperation)
		return -1
	}
	for i, u := range p.uniforms {
		if u.name == name {
			return int32(i)
		}
	}
	return -1
}

func (ctx *Context) Uniformfv(location int32, v []float32) {
	if location == -1 {
		return
	}
	p, ok := ctx.programs[ctx.currentProgram]
	if !ok || location < 0 || int(location) >= len(p.uniforms) {
		ctx.setError(glapi.InvalidOperation)
		return
	}
	u := &p.uniforms[location]
	if !u.typ.IsFloat() || u.typ.Size() != len(v) {
		ctx.setError(glapi.InvalidOperation)
		return
	}
	u.value = mgl32.Vec4{}
	copy(u.value[:], v)
}

func (ctx *Context) Enable(capability glapi.Enum) {
	ctx.setCapability(capability, true)
}

func (ctx *Context) Disable(capability glapi.Enum) {
	ctx.setCapability(capability, false)
}

func (ctx *Context) setCapability(capability glapi.Enum, on bool) {
	switch capability {
	case glapi.Blend:
		ctx.blend = on
	case glapi.DepthTest:
		// There is no depth buffer, the flag is only tracked.
		ctx.depthTest = on
	default:
		ctx.setError(glapi.InvalidEnum)
	}
}

func (ctx *Context) BlendFunc(sfactor, dfactor glapi.Enum) {
	if !validFactor(sfactor) || !validFactor(dfactor) {
		ctx.setError(glapi.InvalidEnum)
		return
	}
	ctx.srcFactor, ctx.dstFactor = sfactor, dfactor
}

func (ctx *Context) Viewport(x, y, width, height int) {
	if width < 0 || height < 0 {
		ctx.setError(glapi.InvalidValue)
		return
	}
	ctx.viewport = [4]int{x, y, width, height}
}

func (ctx *Context) ClearColor(r, g, b, a float32) {
	ctx.clearColor = [4]float32{
		mgl32.Clamp(r, 0, 1),
		mgl32.Clamp(g, 0, 1),
		mgl32.Clamp(b, 0, 1),
		mgl32.Clamp(a, 0, 1),
	}
}

func (ctx *Context) Clear(mask glapi.Enum) {
	if mask&^(glapi.ColorBufferBit|glapi.DepthBufferBit) != 0 {
		ctx.setError(glapi.InvalidValue)
		return
	}
	rb := ctx.target()
	if rb == nil || mask&glapi.ColorBufferBit == 0 {
		return
	}
	var px [4]uint8
	for i, c := range ctx.clearColor {
		px[i] = quantize(c)
	}
	if rb.format == glapi.RGB8 {
		px[3] = 0xff
	}
	for i := 0; i < len(rb.pix); i += 4 {
		copy(rb.pix[i:i+4], px[:])
	}
}

func (ctx *Context) CreateBuffer() uint32 {
	name := ctx.newName()
	ctx.buffers[name] = nil
	return name
}

func (ctx *Context) BindBuffer(target glapi.Enum, buffer uint32) {
	if target != glapi.ArrayBuffer {
		ctx.setError(glapi.InvalidEnum)
		return
	}
	if _, ok := ctx.buffers[buffer]; !ok && buffer != 0 {
		ctx.setError(glapi.InvalidOperation)
		return
	}
	ctx.boundBuffer = buffer
}

func (ctx *Context) BufferData(target glapi.Enum, data []float32, usage glapi.Enum) {
	if target != glapi.ArrayBuffer {
		ctx.setError(glapi.InvalidEnum)
		return
	}
	switch usage {
	case glapi.StreamDraw, glapi.StaticDraw, glapi.DynamicDraw:
	default:
		ctx.setError(glapi.InvalidEnum)
		return
	}
	if ctx.boundBuffer == 0 {
		ctx.setError(glapi.InvalidOperation)
		return
	}
	ctx.buffers[ctx.boundBuffer] = append([]float32(nil), data...)
}

func (ctx *Context) EnableVertexAttribArray(index uint32) {
	if index >= MaxVertexAttribs {
		ctx.setError(glapi.InvalidValue)
		return
	}
	ctx.arrays[index].enabled = true
}

// VertexAttribPointer binds the current array buffer to an attribute index.
// Stride and offset are in bytes, only float components are supported.
func (ctx *Context) VertexAttribPointer(index uint32, size int, typ glapi.Enum, normalized bool, stride, offset int) {
	if index >= MaxVertexAttribs || size < 1 || size > 4 || stride < 0 || offset < 0 {
		ctx.setError(glapi.InvalidValue)
		return
	}
	if typ != glapi.Float {
		ctx.setError(glapi.InvalidEnum)
		return
	}
	if ctx.boundBuffer == 0 && offset != 0 {
		ctx.setError(glapi.InvalidOperation)
		return
	}
	ctx.arrays[index] = vertexArray{
		enabled: ctx.arrays[index].enabled,
		buffer:  ctx.boundBuffer,
		size:    size,
		stride:  stride,
		offset:  offset,
	}
}

func (ctx *Context) DrawArrays(mode glapi.Enum, first, count int) {
	switch mode {
	case glapi.Points, glapi.Lines, glapi.Triangles, glapi.TriangleStrip, glapi.TriangleFan:
	default:
		ctx.setError(glapi.InvalidEnum)
		return
	}
	if first < 0 || count < 0 {
		ctx.setError(glapi.InvalidValue)
		return
	}
	p, ok := ctx.programs[ctx.currentProgram]
	if !ok {
		ctx.setError(glapi.InvalidOperation)
		return
	}
	rb := ctx.target()
	if rb == nil {
		return
	}
	for i := range p.attributes {
		va := ctx.arrays[i]
		if !va.enabled {
			continue
		}
		if va.buffer == 0 || !fits(ctx.buffers[va.buffer], va, first+count) {
			ctx.setError(glapi.InvalidOperation)
			return
		}
	}
	if mode != glapi.Triangles {
		logger.Warn("soft: only triangles are rasterized", zap.Stringer("mode", mode))
		return
	}
	ctx.drawTriangles(rb, p, first, count)
}

// ReadPixels reads RGBA pixels of the bound framebuffer. Values are returned
// as unsigned bytes or, for UnsignedInt, as 32 bit normalized integers.
func (ctx *Context) ReadPixels(x, y, width, height int, format, typ glapi.Enum, pixels interface{}) {
	if format != glapi.RGBA {
		ctx.setError(glapi.InvalidEnum)
		return
	}
	if width < 0 || height < 0 {
		ctx.setError(glapi.InvalidValue)
		return
	}
	rb := ctx.target()
	if rb == nil {
		return
	}

	n := width * height * 4
	var put func(i int, b uint8)
	switch typ {
	case glapi.UnsignedByte:
		buf, ok := pixels.([]uint8)
		if !ok || len(buf) < n {
			ctx.setError(glapi.InvalidOperation)
			return
		}
		put = func(i int, b uint8) { buf[i] = b }
	case glapi.UnsignedInt:
		buf, ok := pixels.([]uint32)
		if !ok || len(buf) < n {
			ctx.setError(glapi.InvalidOperation)
			return
		}
		put = func(i int, b uint8) { buf[i] = uint32(b) * 0x01010101 }
	default:
		ctx.setError(glapi.InvalidEnum)
		return
	}

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			px, py := x+col, y+row
			i := (row*width + col) * 4
			if px < 0 || py < 0 || px >= rb.width || py >= rb.height {
				// Outside the framebuffer the contents are undefined, zero
				// them for determinism.
				for c := 0; c < 4; c++ {
					put(i+c, 0)
				}
				continue
			}
			j := (py*rb.width + px) * 4
			for c := 0; c < 4; c++ {
				put(i+c, rb.pix[j+c])
			}
		}
	}
}

func boolParam(b bool) int32 {
	if b {
		return int32(glapi.True)
	}
	return int32(glapi.False)
}

func validFactor(f glapi.Enum) bool {
	switch f {
	case glapi.Zero, glapi.One,
		glapi.SrcColor, glapi.OneMinusSrcColor,
		glapi.SrcAlpha, glapi.OneMinusSrcAlpha,
		glapi.DstAlpha, glapi.OneMinusDstAlpha,
		glapi.DstColor, glapi.OneMinusDstColor:
		return true
	}
	return false
}

// fits reports whether the buffer holds count vertices for the array.
func fits(data []float32, va vertexArray, count int) bool {
	if count == 0 {
		return true
	}
	last := va.offset + (count-1)*va.byteStride() + va.size*4
	return last <= len(data)*4
}

func (va vertexArray) byteStride() int {
	if va.stride == 0 {
		return va.size * 4
	}
	return va.stride
}
