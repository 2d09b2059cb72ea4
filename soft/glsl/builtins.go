package glsl

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// builtin type-checks a call and returns its compiled form. The arguments
// have been checked to be of a float type.
type builtin struct {
	// args is the number of arguments.
	args int
	// scalarArgs is a mask of the arguments that may be a float where the
	// first argument is a vector, like the edges of clamp.
	scalarArgs uint
	// result overrides the result type, which defaults to the type of the
	// first argument.
	result Type
	fn     func(size int, a []mgl32.Vec4) mgl32.Vec4
}

func componentwise(f func(x float32) float32) func(int, []mgl32.Vec4) mgl32.Vec4 {
	return func(n int, a []mgl32.Vec4) mgl32.Vec4 {
		var out mgl32.Vec4
		for i := 0; i < n; i++ {
			out[i] = f(a[0][i])
		}
		return out
	}
}

func componentwise2(f func(x, y float32) float32) func(int, []mgl32.Vec4) mgl32.Vec4 {
	return func(n int, a []mgl32.Vec4) mgl32.Vec4 {
		var out mgl32.Vec4
		for i := 0; i < n; i++ {
			out[i] = f(a[0][i], a[1][i])
		}
		return out
	}
}

func componentwise3(f func(x, y, z float32) float32) func(int, []mgl32.Vec4) mgl32.Vec4 {
	return func(n int, a []mgl32.Vec4) mgl32.Vec4 {
		var out mgl32.Vec4
		for i := 0; i < n; i++ {
			out[i] = f(a[0][i], a[1][i], a[2][i])
		}
		return out
	}
}

func math32(f func(float64) float64) func(float32) float32 {
	return func(x float32) float32 { return float32(f(float64(x))) }
}

var builtins = map[string]builtin{
	"radians": {args: 1, fn: componentwise(func(x float32) float32 { return mgl32.DegToRad(x) })},
	"degrees": {args: 1, fn: componentwise(func(x float32) float32 { return mgl32.RadToDeg(x) })},
	"sin":     {args: 1, fn: componentwise(math32(math.Sin))},
	"cos":     {args: 1, fn: componentwise(math32(math.Cos))},
	"tan":     {args: 1, fn: componentwise(math32(math.Tan))},
	"exp":     {args: 1, fn: componentwise(math32(math.Exp))},
	"log":     {args: 1, fn: componentwise(math32(math.Log))},
	"sqrt":    {args: 1, fn: componentwise(math32(math.Sqrt))},
	"abs":     {args: 1, fn: componentwise(mgl32.Abs)},
	"floor":   {args: 1, fn: componentwise(math32(math.Floor))},
	"ceil":    {args: 1, fn: componentwise(math32(math.Ceil))},
	"fract": {args: 1, fn: componentwise(func(x float32) float32 {
		return x - float32(math.Floor(float64(x)))
	})},
	"sign": {args: 1, fn: componentwise(func(x float32) float32 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		}
		return 0
	})},
	"pow": {args: 2, fn: componentwise2(func(x, y float32) float32 {
		return float32(math.Pow(float64(x), float64(y)))
	})},
	"mod": {args: 2, scalarArgs: 1 << 1, fn: componentwise2(func(x, y float32) float32 {
		return x - y*float32(math.Floor(float64(x/y)))
	})},
	"min": {args: 2, scalarArgs: 1 << 1, fn: componentwise2(func(x, y float32) float32 {
		if y < x {
			return y
		}
		return x
	})},
	"max": {args: 2, scalarArgs: 1 << 1, fn: componentwise2(func(x, y float32) float32 {
		if y > x {
			return y
		}
		return x
	})},
	"step": {args: 2, scalarArgs: 1 << 0, fn: componentwise2(func(edge, x float32) float32 {
		if x < edge {
			return 0
		}
		return 1
	})},
	"clamp": {args: 3, scalarArgs: 1<<1 | 1<<2, fn: componentwise3(mgl32.Clamp)},
	"mix": {args: 3, scalarArgs: 1 << 2, fn: componentwise3(func(x, y, a float32) float32 {
		return x*(1-a) + y*a
	})},
	"smoothstep": {args: 3, scalarArgs: 1<<0 | 1<<1, fn: componentwise3(func(e0, e1, x float32) float32 {
		t := mgl32.Clamp((x-e0)/(e1-e0), 0, 1)
		return t * t * (3 - 2*t)
	})},
	"length": {args: 1, result: TypeFloat, fn: func(_ int, a []mgl32.Vec4) mgl32.Vec4 {
		return mgl32.Vec4{a[0].Len()}
	}},
	"distance": {args: 2, result: TypeFloat, fn: func(_ int, a []mgl32.Vec4) mgl32.Vec4 {
		return mgl32.Vec4{a[0].Sub(a[1]).Len()}
	}},
	"dot": {args: 2, result: TypeFloat, fn: func(_ int, a []mgl32.Vec4) mgl32.Vec4 {
		return mgl32.Vec4{a[0].Dot(a[1])}
	}},
	"normalize": {args: 1, fn: func(_ int, a []mgl32.Vec4) mgl32.Vec4 {
		return a[0].Normalize()
	}},
}

// call type-checks and compiles a call to a built-in function. Vector
// arguments are zero padded, so Len, Dot and Normalize of mgl32.Vec4 give the
// results of the lower dimension.
func (p *parser) call(t token, fn builtin, args []expr) expr {
	if len(args) != fn.args {
		p.fail(t.line, "'%s' : no matching overloaded function found", t.text)
	}
	// The generic type is taken from the first argument that may not be a
	// scalar.
	var gen Type
	for i, a := range args {
		if fn.scalarArgs&(1<<uint(i)) == 0 {
			gen = a.typ
			break
		}
	}
	evals := make([]evalFunc, len(args))
	for i, a := range args {
		switch {
		case a.typ == gen && gen.IsFloat():
			evals[i] = a.eval
		case a.typ == TypeFloat && fn.scalarArgs&(1<<uint(i)) != 0:
			evals[i] = splat(a.eval)
		default:
			p.fail(t.line, "'%s' : no matching overloaded function found", t.text)
		}
	}

	typ := gen
	if fn.result != TypeVoid {
		typ = fn.result
	}
	n, f := gen.Size(), fn.fn
	if len(evals) == 1 {
		e := evals[0]
		return expr{typ: typ, eval: func(s []mgl32.Vec4) mgl32.Vec4 {
			return f(n, []mgl32.Vec4{e(s)})
		}}
	}
	return expr{typ: typ, eval: func(s []mgl32.Vec4) mgl32.Vec4 {
		vals := make([]mgl32.Vec4, len(evals))
		for i, e := range evals {
			vals[i] = e(s)
		}
		return f(n, vals)
	}}
}
