package soft

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Prior99/windows-test/glapi"
	"github.com/Prior99/windows-test/soft/glsl"
)

// vertex is the output of the vertex stage for one vertex, mapped to window
// coordinates.
type vertex struct {
	clip     mgl32.Vec4
	x, y, z  float64
	varyings []mgl32.Vec4
}

func (ctx *Context) drawTriangles(rb *renderbuffer, p *program, first, count int) {
	count -= count % 3
	if count == 0 {
		return
	}

	vertices := make([]vertex, count)
	inv := p.vertex.NewInvocation()
	for i := range vertices {
		ctx.shadeVertex(p, inv, first+i, &vertices[i])
	}

	frag := p.fragment.NewInvocation()
	for i := 0; i < count; i += 3 {
		ctx.rasterize(rb, p, frag, vertices[i], vertices[i+1], vertices[i+2])
	}
}

func (ctx *Context) shadeVertex(p *program, inv *glsl.Invocation, index int, out *vertex) {
	for _, u := range p.uniforms {
		if u.slots[0] >= 0 {
			inv.Slots[u.slots[0]] = u.value
		}
	}
	for i, a := range p.attributes {
		inv.Slots[a.slot] = ctx.fetch(i, index)
	}
	p.vertex.Run(inv)

	out.clip = inv.Slots[p.vertex.Position.Slot]
	out.varyings = make([]mgl32.Vec4, len(p.varyings))
	for i, v := range p.varyings {
		out.varyings[i] = inv.Slots[v.vertexSlot]
	}

	w := float64(out.clip[3])
	if w <= 0 {
		return
	}
	vx, vy, vw, vh := ctx.viewport[0], ctx.viewport[1], ctx.viewport[2], ctx.viewport[3]
	out.x = (float64(out.clip[0])/w+1)*float64(vw)/2 + float64(vx)
	out.y = (float64(out.clip[1])/w+1)*float64(vh)/2 + float64(vy)
	out.z = (float64(out.clip[2])/w + 1) / 2
}

// fetch reads the value of an attribute array for a vertex. Missing
// components default to (0, 0, 0, 1).
func (ctx *Context) fetch(index, vertex int) mgl32.Vec4 {
	value := mgl32.Vec4{0, 0, 0, 1}
	va := ctx.arrays[index]
	if !va.enabled {
		return value
	}
	data := ctx.buffers[va.buffer]
	start := (va.offset + vertex*va.byteStride()) / 4
	copy(value[:va.size], data[start:start+va.size])
	return value
}

// edge is the signed area spanned by the edge a->b and the point (x, y),
// positive if the point is left of the edge.
func edge(a, b *vertex, x, y float64) float64 {
	return (b.x-a.x)*(y-a.y) - (b.y-a.y)*(x-a.x)
}

// inside applies the tie rule for samples exactly on an edge: they belong to
// the triangle for which the edge is a left or a bottom edge. Two triangles
// sharing an edge traverse it in opposite directions, so exactly one of them
// owns the samples on it.
func inside(e float64, a, b *vertex) bool {
	if e != 0 {
		return e > 0
	}
	dx, dy := b.x-a.x, b.y-a.y
	return dy > 0 || (dy == 0 && dx < 0)
}

func (ctx *Context) rasterize(rb *renderbuffer, p *program, inv *glsl.Invocation, v0, v1, v2 vertex) {
	if v0.clip[3] <= 0 || v1.clip[3] <= 0 || v2.clip[3] <= 0 {
		return
	}
	area := edge(&v0, &v1, v2.x, v2.y)
	if area == 0 {
		return
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}

	minX := math.Floor(math.Min(v0.x, math.Min(v1.x, v2.x)))
	maxX := math.Ceil(math.Max(v0.x, math.Max(v1.x, v2.x)))
	minY := math.Floor(math.Min(v0.y, math.Min(v1.y, v2.y)))
	maxY := math.Ceil(math.Max(v0.y, math.Max(v1.y, v2.y)))
	x0, x1 := clampRange(minX, maxX, ctx.viewport[0], ctx.viewport[0]+ctx.viewport[2], rb.width)
	y0, y1 := clampRange(minY, maxY, ctx.viewport[1], ctx.viewport[1]+ctx.viewport[3], rb.height)

	invW := [3]float64{1 / float64(v0.clip[3]), 1 / float64(v1.clip[3]), 1 / float64(v2.clip[3])}
	for py := y0; py < y1; py++ {
		y := float64(py) + 0.5
		for px := x0; px < x1; px++ {
			x := float64(px) + 0.5
			e0 := edge(&v1, &v2, x, y)
			e1 := edge(&v2, &v0, x, y)
			e2 := edge(&v0, &v1, x, y)
			if !inside(e0, &v1, &v2) || !inside(e1, &v2, &v0) || !inside(e2, &v0, &v1) {
				continue
			}
			l := [3]float64{e0 / area, e1 / area, e2 / area}
			ctx.shadeFragment(rb, p, inv, px, py, l, invW, &v0, &v1, &v2)
		}
	}
}

func (ctx *Context) shadeFragment(rb *renderbuffer, p *program, inv *glsl.Invocation, px, py int, l, invW [3]float64, v0, v1, v2 *vertex) {
	for _, u := range p.uniforms {
		if u.slots[1] >= 0 {
			inv.Slots[u.slots[1]] = u.value
		}
	}

	// Perspective correct weights.
	q := [3]float64{l[0] * invW[0], l[1] * invW[1], l[2] * invW[2]}
	oneOverW := q[0] + q[1] + q[2]
	for i, v := range p.varyings {
		var value mgl32.Vec4
		for c := 0; c < v.size; c++ {
			s := q[0]*float64(v0.varyings[i][c]) + q[1]*float64(v1.varyings[i][c]) + q[2]*float64(v2.varyings[i][c])
			value[c] = float32(s / oneOverW)
		}
		inv.Slots[v.fragmentSlot] = value
	}
	if fc := p.fragment.FragCoord; fc != nil {
		z := l[0]*v0.z + l[1]*v1.z + l[2]*v2.z
		inv.Slots[fc.Slot] = mgl32.Vec4{float32(px) + 0.5, float32(py) + 0.5, float32(z), float32(oneOverW)}
	}

	p.fragment.Run(inv)
	if inv.Discarded {
		return
	}
	ctx.writePixel(rb, px, py, inv.Slots[p.fragment.FragColor.Slot])
}

func (ctx *Context) writePixel(rb *renderbuffer, px, py int, color mgl32.Vec4) {
	i := (py*rb.width + px) * 4
	dst := rb.pix[i : i+4]

	var src [4]float64
	for c := range src {
		src[c] = clamp01(float64(color[c]))
	}
	if ctx.blend {
		var d [4]float64
		for c := range d {
			d[c] = float64(dst[c]) / 255
		}
		sf := factor(ctx.srcFactor, src, d)
		df := factor(ctx.dstFactor, src, d)
		for c := range src {
			src[c] = clamp01(src[c]*sf[c] + d[c]*df[c])
		}
	}

	channels := 4
	if rb.format == glapi.RGB8 {
		channels = 3
	}
	for c := 0; c < channels; c++ {
		dst[c] = quantize(float32(src[c]))
	}
}

// factor returns the per channel weights of a blend factor.
func factor(f glapi.Enum, s, d [4]float64) [4]float64 {
	switch f {
	case glapi.Zero:
		return [4]float64{}
	case glapi.One:
		return [4]float64{1, 1, 1, 1}
	case glapi.SrcColor:
		return s
	case glapi.OneMinusSrcColor:
		return [4]float64{1 - s[0], 1 - s[1], 1 - s[2], 1 - s[3]}
	case glapi.DstColor:
		return d
	case glapi.OneMinusDstColor:
		return [4]float64{1 - d[0], 1 - d[1], 1 - d[2], 1 - d[3]}
	case glapi.SrcAlpha:
		return [4]float64{s[3], s[3], s[3], s[3]}
	case glapi.OneMinusSrcAlpha:
		a := 1 - s[3]
		return [4]float64{a, a, a, a}
	case glapi.DstAlpha:
		return [4]float64{d[3], d[3], d[3], d[3]}
	case glapi.OneMinusDstAlpha:
		a := 1 - d[3]
		return [4]float64{a, a, a, a}
	}
	return [4]float64{1, 1, 1, 1}
}

// clampRange converts a float bounding box span to pixel indices limited to
// the viewport and the framebuffer.
func clampRange(lo, hi float64, vlo, vhi, size int) (int, int) {
	start := math.Max(lo, float64(vlo))
	start = math.Max(start, 0)
	end := math.Min(hi, float64(vhi))
	end = math.Min(end, float64(size))
	if end <= start {
		return 0, 0
	}
	return int(start), int(end)
}

func clamp01(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return math.Max(0, math.Min(1, f))
}

// quantize stores a normalized value in 8 bits.
func quantize(f float32) uint8 {
	return uint8(math.Round(clamp01(float64(f)) * 255))
}
