package glsl

import (
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

type evalFunc func(s []mgl32.Vec4) mgl32.Vec4

// expr is a typed, compiled expression. Expressions that name a variable
// (optionally through a swizzle) carry v and swizzle so they can be assigned.
type expr struct {
	typ     Type
	eval    evalFunc
	v       *Variable
	swizzle []int
}

func constant(typ Type, val mgl32.Vec4) expr {
	return expr{typ: typ, eval: func([]mgl32.Vec4) mgl32.Vec4 { return val }}
}

func (p *parser) parseExpression() expr {
	p.nest()
	defer p.unnest()
	return p.parseOr()
}

func (p *parser) parseOr() expr {
	l := p.parseAnd()
	for p.is("||") {
		op := p.next()
		r := p.parseAnd()
		l = p.logical(op, l, r)
	}
	return l
}

func (p *parser) parseAnd() expr {
	l := p.parseEquality()
	for p.is("&&") {
		op := p.next()
		r := p.parseEquality()
		l = p.logical(op, l, r)
	}
	return l
}

func (p *parser) logical(op token, l, r expr) expr {
	if l.typ != TypeBool || r.typ != TypeBool {
		p.fail(op.line, "'%s' : wrong operand types - no operation '%s' exists that takes a left-hand operand of type '%s' and a right operand of type '%s'", op.text, op.text, l.typ, r.typ)
	}
	le, re := l.eval, r.eval
	if op.text == "&&" {
		return expr{typ: TypeBool, eval: func(s []mgl32.Vec4) mgl32.Vec4 {
			if le(s)[0] == 0 {
				return mgl32.Vec4{}
			}
			return boolVec(re(s)[0] != 0)
		}}
	}
	return expr{typ: TypeBool, eval: func(s []mgl32.Vec4) mgl32.Vec4 {
		if le(s)[0] != 0 {
			return mgl32.Vec4{1}
		}
		return boolVec(re(s)[0] != 0)
	}}
}

func boolVec(b bool) mgl32.Vec4 {
	if b {
		return mgl32.Vec4{1}
	}
	return mgl32.Vec4{}
}

func (p *parser) parseEquality() expr {
	l := p.parseRelational()
	for p.is("==") || p.is("!=") {
		op := p.next()
		r := p.parseRelational()
		if l.typ != r.typ {
			p.fail(op.line, "'%s' : wrong operand types - no operation '%s' exists that takes a left-hand operand of type '%s' and a right operand of type '%s'", op.text, op.text, l.typ, r.typ)
		}
		le, re, n, eq := l.eval, r.eval, l.typ.Size(), op.text == "=="
		l = expr{typ: TypeBool, eval: func(s []mgl32.Vec4) mgl32.Vec4 {
			a, b := le(s), re(s)
			same := true
			for i := 0; i < n; i++ {
				same = same && a[i] == b[i]
			}
			return boolVec(same == eq)
		}}
	}
	return l
}

func (p *parser) parseRelational() expr {
	l := p.parseAdditive()
	for p.is("<") || p.is(">") || p.is("<=") || p.is(">=") {
		op := p.next()
		r := p.parseAdditive()
		if l.typ != r.typ || (l.typ != TypeFloat && l.typ != TypeInt) {
			p.fail(op.line, "'%s' : wrong operand types - no operation '%s' exists that takes a left-hand operand of type '%s' and a right operand of type '%s'", op.text, op.text, l.typ, r.typ)
		}
		le, re := l.eval, r.eval
		var cmp func(a, b float32) bool
		switch op.text {
		case "<":
			cmp = func(a, b float32) bool { return a < b }
		case ">":
			cmp = func(a, b float32) bool { return a > b }
		case "<=":
			cmp = func(a, b float32) bool { return a <= b }
		default:
			cmp = func(a, b float32) bool { return a >= b }
		}
		l = expr{typ: TypeBool, eval: func(s []mgl32.Vec4) mgl32.Vec4 {
			return boolVec(cmp(le(s)[0], re(s)[0]))
		}}
	}
	return l
}

func (p *parser) parseAdditive() expr {
	l := p.parseMultiplicative()
	for p.is("+") || p.is("-") {
		op := p.next()
		r := p.parseMultiplicative()
		l = p.binary(op.text, l, r, op.line)
	}
	return l
}

func (p *parser) parseMultiplicative() expr {
	l := p.parseUnary()
	for p.is("*") || p.is("/") {
		op := p.next()
		r := p.parseUnary()
		l = p.binary(op.text, l, r, op.line)
	}
	return l
}

// binary builds an arithmetic expression. Operands must have the same type,
// or one of them is a float and the other a float vector.
func (p *parser) binary(op string, l, r expr, line int) expr {
	var typ Type
	le, re := l.eval, r.eval
	switch {
	case l.typ == r.typ && (l.typ == TypeInt || l.typ.IsFloat()):
		typ = l.typ
	case l.typ == TypeFloat && r.typ.IsVector():
		typ, le = r.typ, splat(le)
	case l.typ.IsVector() && r.typ == TypeFloat:
		typ, re = l.typ, splat(re)
	default:
		p.fail(line, "'%s' : wrong operand types - no operation '%s' exists that takes a left-hand operand of type '%s' and a right operand of type '%s' (or there is no acceptable conversion)", op, op, l.typ, r.typ)
	}

	n := typ.Size()
	var f func(a, b float32) float32
	switch op {
	case "+":
		f = func(a, b float32) float32 { return a + b }
	case "-":
		f = func(a, b float32) float32 { return a - b }
	case "*":
		f = func(a, b float32) float32 { return a * b }
	case "/":
		if typ == TypeInt {
			f = func(a, b float32) float32 {
				if b == 0 {
					return 0
				}
				return float32(int32(a) / int32(b))
			}
		} else {
			f = func(a, b float32) float32 { return a / b }
		}
	}
	return expr{typ: typ, eval: func(s []mgl32.Vec4) mgl32.Vec4 {
		a, b := le(s), re(s)
		var out mgl32.Vec4
		for i := 0; i < n; i++ {
			out[i] = f(a[i], b[i])
		}
		return out
	}}
}

func splat(e evalFunc) evalFunc {
	return func(s []mgl32.Vec4) mgl32.Vec4 {
		v := e(s)[0]
		return mgl32.Vec4{v, v, v, v}
	}
}

func (p *parser) parseUnary() expr {
	p.nest()
	defer p.unnest()
	switch {
	case p.is("-"):
		op := p.next()
		e := p.parseUnary()
		if e.typ != TypeInt && !e.typ.IsFloat() {
			p.fail(op.line, "'-' : wrong operand type - no operation '-' exists that takes an operand of type '%s'", e.typ)
		}
		eval := e.eval
		return expr{typ: e.typ, eval: func(s []mgl32.Vec4) mgl32.Vec4 { return eval(s).Mul(-1) }}
	case p.is("+"):
		op := p.next()
		e := p.parseUnary()
		if e.typ != TypeInt && !e.typ.IsFloat() {
			p.fail(op.line, "'+' : wrong operand type - no operation '+' exists that takes an operand of type '%s'", e.typ)
		}
		return expr{typ: e.typ, eval: e.eval}
	case p.is("!"):
		op := p.next()
		e := p.parseUnary()
		if e.typ != TypeBool {
			p.fail(op.line, "'!' : wrong operand type - no operation '!' exists that takes an operand of type '%s'", e.typ)
		}
		eval := e.eval
		return expr{typ: TypeBool, eval: func(s []mgl32.Vec4) mgl32.Vec4 { return boolVec(eval(s)[0] == 0) }}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() expr {
	e := p.parsePrimary()
	for p.is(".") {
		p.next()
		field := p.expectIdent()
		idx, ok := parseSwizzle(field.text, e.typ.Size())
		if !e.typ.IsVector() || !ok {
			p.fail(field.line, "'%s' : illegal vector field selection", field.text)
		}
		e = swizzleExpr(e, idx)
	}
	return e
}

var swizzleSets = []string{"xyzw", "rgba", "stpq"}

// parseSwizzle maps a field selection like "xy" or "bgr" to component
// indices. All components must come from one set and exist in a vector of
// the given size.
func parseSwizzle(field string, size int) ([]int, bool) {
	if len(field) == 0 || len(field) > 4 {
		return nil, false
	}
	for _, set := range swizzleSets {
		idx := make([]int, 0, len(field))
		for _, c := range field {
			i := strings.IndexRune(set, c)
			if i < 0 || i >= size {
				break
			}
			idx = append(idx, i)
		}
		if len(idx) == len(field) {
			return idx, true
		}
	}
	return nil, false
}

func swizzleExpr(e expr, idx []int) expr {
	out := expr{typ: vecType(len(idx)), v: e.v}
	if e.v != nil {
		if e.swizzle != nil {
			out.swizzle = make([]int, len(idx))
			for i, c := range idx {
				out.swizzle[i] = e.swizzle[c]
			}
		} else {
			out.swizzle = idx
		}
	}
	eval := e.eval
	out.eval = func(s []mgl32.Vec4) mgl32.Vec4 {
		v := eval(s)
		var r mgl32.Vec4
		for i, c := range idx {
			r[i] = v[c]
		}
		return r
	}
	return out
}

func (p *parser) parsePrimary() expr {
	t := p.next()
	switch t.kind {
	case tokInt:
		n, err := strconv.ParseInt(t.text, 10, 32)
		if err != nil {
			p.fail(t.line, "'%s' : integer constant overflow", t.text)
		}
		return constant(TypeInt, mgl32.Vec4{float32(n)})
	case tokFloat:
		f, err := strconv.ParseFloat(t.text, 32)
		if err != nil {
			p.fail(t.line, "'%s' : float constant overflow", t.text)
		}
		return constant(TypeFloat, mgl32.Vec4{float32(f)})
	case tokPunct:
		if t.text == "(" {
			e := p.parseExpression()
			p.expect(")")
			// Parenthesized expressions are not l-values.
			return expr{typ: e.typ, eval: e.eval}
		}
		p.syntaxError(t)
	case tokEOF:
		p.syntaxError(t)
	}

	switch t.text {
	case "true":
		return constant(TypeBool, mgl32.Vec4{1})
	case "false":
		return constant(TypeBool, mgl32.Vec4{})
	}

	if p.is("(") {
		p.next()
		args := p.parseArgs()
		if typ, ok := typeNames[t.text]; ok && typ != TypeVoid {
			return p.construct(t, typ, args)
		}
		if fn, ok := builtins[t.text]; ok {
			return p.call(t, fn, args)
		}
		p.fail(t.line, "'%s' : no matching overloaded function found", t.text)
	}
	if isKeyword(t.text) {
		p.syntaxError(t)
	}

	v := p.lookup(t.text)
	if v == nil {
		p.fail(t.line, "'%s' : undeclared identifier", t.text)
	}
	v.Used = true
	slot := v.Slot
	return expr{typ: v.Type, v: v, eval: func(s []mgl32.Vec4) mgl32.Vec4 { return s[slot] }}
}

func (p *parser) parseArgs() []expr {
	var args []expr
	if p.accept(")") {
		return args
	}
	for {
		args = append(args, p.parseExpression())
		if p.accept(")") {
			return args
		}
		p.expect(",")
	}
}

// construct builds a constructor call such as vec4(pos, 0.0, 1.0).
func (p *parser) construct(t token, typ Type, args []expr) expr {
	if len(args) == 0 {
		p.fail(t.line, "'%s' : constructor does not have any arguments", typ)
	}
	for _, a := range args {
		if a.typ == TypeVoid {
			p.fail(t.line, "'%s' : cannot construct from 'void'", typ)
		}
	}

	if typ.IsScalar() {
		if len(args) > 1 {
			p.fail(t.line, "'%s' : too many arguments", typ)
		}
		eval := args[0].eval
		switch typ {
		case TypeInt:
			return expr{typ: typ, eval: func(s []mgl32.Vec4) mgl32.Vec4 {
				return mgl32.Vec4{float32(int32(eval(s)[0]))}
			}}
		case TypeBool:
			return expr{typ: typ, eval: func(s []mgl32.Vec4) mgl32.Vec4 {
				return boolVec(eval(s)[0] != 0)
			}}
		}
		return expr{typ: typ, eval: func(s []mgl32.Vec4) mgl32.Vec4 {
			return mgl32.Vec4{eval(s)[0]}
		}}
	}

	n := typ.Size()
	if len(args) == 1 && args[0].typ.IsScalar() {
		eval := args[0].eval
		return expr{typ: typ, eval: func(s []mgl32.Vec4) mgl32.Vec4 {
			v := eval(s)[0]
			var out mgl32.Vec4
			for i := 0; i < n; i++ {
				out[i] = v
			}
			return out
		}}
	}

	total := 0
	for _, a := range args {
		if total >= n {
			p.fail(t.line, "'%s' : too many arguments", typ)
		}
		total += a.typ.Size()
	}
	if total < n {
		p.fail(t.line, "'%s' : not enough data provided for construction", typ)
	}

	evals := make([]evalFunc, len(args))
	sizes := make([]int, len(args))
	for i, a := range args {
		evals[i], sizes[i] = a.eval, a.typ.Size()
	}
	return expr{typ: typ, eval: func(s []mgl32.Vec4) mgl32.Vec4 {
		var out mgl32.Vec4
		k := 0
		for i, e := range evals {
			v := e(s)
			for c := 0; c < sizes[i] && k < n; c++ {
				out[k] = v[c]
				k++
			}
		}
		return out
	}}
}
