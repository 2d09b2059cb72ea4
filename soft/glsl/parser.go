package glsl

import (
	"github.com/go-gl/mathgl/mgl32"
)

type stmt func(inv *Invocation)

func execBlock(block []stmt, inv *Invocation) {
	for _, s := range block {
		if inv.returned || inv.Discarded {
			return
		}
		s(inv)
	}
}

// bailout is raised by fail to unwind the parser on the first error.
type bailout struct{}

type parser struct {
	stage  Stage
	toks   []token
	pos    int
	shader *Shader
	scopes []map[string]*Variable
	err    *Error
	depth  int

	globalInit []stmt
	hasMain    bool
}

func newParser(stage Stage, toks []token) *parser {
	p := &parser{
		stage:  stage,
		toks:   toks,
		shader: &Shader{Stage: stage},
		scopes: []map[string]*Variable{{}},
	}
	if stage == Vertex {
		p.shader.Position = p.builtin("gl_Position", TypeVec4, QualBuiltinOut)
	} else {
		p.shader.FragColor = p.builtin("gl_FragColor", TypeVec4, QualBuiltinOut)
		p.shader.FragCoord = p.builtin("gl_FragCoord", TypeVec4, QualBuiltinIn)
	}
	return p
}

func (p *parser) builtin(name string, typ Type, qual Qualifier) *Variable {
	v := &Variable{Name: name, Type: typ, Qualifier: qual, Slot: p.shader.numSlots}
	p.shader.numSlots++
	p.scopes[0][name] = v
	if qual == QualBuiltinOut {
		p.shader.outputs = append(p.shader.outputs, v.Slot)
	}
	return v
}

func (p *parser) fail(line int, format string, args ...interface{}) {
	p.err = errorf(line, format, args...)
	panic(bailout{})
}

// maxNesting bounds how deeply statements and expressions may nest.
const maxNesting = 256

func (p *parser) nest() {
	p.depth++
	if p.depth > maxNesting {
		t := p.peek()
		p.fail(t.line, "'%s' : expression or statement too deeply nested", t.text)
	}
}

func (p *parser) unnest() {
	p.depth--
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) is(text string) bool {
	t := p.peek()
	return (t.kind == tokPunct || t.kind == tokIdent) && t.text == text
}

func (p *parser) accept(text string) bool {
	if p.is(text) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(text string) token {
	t := p.peek()
	if !p.is(text) {
		p.syntaxError(t)
	}
	return p.next()
}

func (p *parser) expectIdent() token {
	t := p.peek()
	if t.kind != tokIdent || isKeyword(t.text) {
		p.syntaxError(t)
	}
	return p.next()
}

func (p *parser) syntaxError(t token) {
	if t.kind == tokEOF {
		p.fail(t.line, "'' : syntax error: unexpected end of file")
	}
	p.fail(t.line, "'%s' : syntax error", t.text)
}

var keywords = map[string]bool{
	"attribute": true, "varying": true, "uniform": true, "const": true,
	"precision": true, "lowp": true, "mediump": true, "highp": true,
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"return": true, "discard": true, "break": true, "continue": true,
	"true": true, "false": true, "struct": true, "in": true, "out": true,
	"inout": true, "invariant": true,
}

func isKeyword(s string) bool {
	_, isType := typeNames[s]
	return keywords[s] || isType
}

func isPrecision(s string) bool {
	return s == "lowp" || s == "mediump" || s == "highp"
}

func (p *parser) lookup(name string) *Variable {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if v, ok := p.scopes[i][name]; ok {
			return v
		}
	}
	return nil
}

func (p *parser) declare(name string, typ Type, qual Qualifier, line int) *Variable {
	if len(name) >= 3 && name[:3] == "gl_" {
		p.fail(line, "'%s' : reserved built-in name", name)
	}
	scope := p.scopes[len(p.scopes)-1]
	if _, ok := scope[name]; ok {
		p.fail(line, "'%s' : redefinition", name)
	}
	v := &Variable{Name: name, Type: typ, Qualifier: qual, Line: line, Slot: p.shader.numSlots}
	p.shader.numSlots++
	scope[name] = v
	return v
}

func (p *parser) parse() (err *Error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			err = p.err
		}
	}()

	for p.peek().kind != tokEOF {
		p.parseExternal()
	}
	if !p.hasMain {
		p.fail(p.peek().line, "'' : Missing main()")
	}
	return nil
}

func (p *parser) parseExternal() {
	line := p.peek().line
	if p.accept("precision") {
		q := p.next()
		if !isPrecision(q.text) {
			p.syntaxError(q)
		}
		t := p.next()
		if t.text != "float" && t.text != "int" {
			p.fail(t.line, "'%s' : illegal type for precision qualifier", t.text)
		}
		p.expect(";")
		return
	}

	qual := QualLocal
	switch p.peek().text {
	case "attribute":
		if p.stage != Vertex {
			p.fail(line, "'attribute' : supported in vertex shaders only")
		}
		qual = QualAttribute
		p.next()
	case "varying":
		qual = QualVarying
		p.next()
	case "uniform":
		qual = QualUniform
		p.next()
	case "const":
		qual = QualConst
		p.next()
	case "in", "out", "inout", "struct":
		p.fail(line, "'%s' : not supported in GLSL ES 1.00", p.peek().text)
	}
	if isPrecision(p.peek().text) {
		p.next()
	}
	typ := p.parseType()
	name := p.expectIdent()

	if p.accept("(") {
		if typ != TypeVoid || name.text != "main" || qual != QualLocal {
			p.fail(name.line, "'%s' : only main() may be defined", name.text)
		}
		if p.hasMain {
			p.fail(name.line, "'main' : function already has a body")
		}
		p.accept("void")
		p.expect(")")
		p.hasMain = true
		body := p.parseBlock()
		p.shader.main = append(p.globalInit, body...)
		return
	}

	if typ == TypeVoid {
		p.fail(name.line, "'%s' : illegal use of type 'void'", name.text)
	}
	if (qual == QualAttribute || qual == QualVarying) && !typ.IsFloat() {
		p.fail(name.line, "'%s' : cannot be bool or int", qual)
	}
	for {
		v := p.declare(name.text, typ, qual, name.line)
		p.shader.Globals = append(p.shader.Globals, v)
		if qual == QualLocal || (qual == QualVarying && p.stage == Vertex) {
			p.shader.outputs = append(p.shader.outputs, v.Slot)
		}
		if p.accept("=") {
			if qual != QualLocal && qual != QualConst {
				p.fail(name.line, "'%s' : cannot initialize this type of qualifier", qual)
			}
			init := p.parseExpression()
			p.globalInit = append(p.globalInit, p.assign(v, nil, "=", init, name.line, true))
		} else if qual == QualConst {
			p.fail(name.line, "'%s' : variables with qualifier 'const' must be initialized", name.text)
		}
		if !p.accept(",") {
			break
		}
		name = p.expectIdent()
	}
	p.expect(";")
}

func (p *parser) parseType() Type {
	t := p.next()
	typ, ok := typeNames[t.text]
	if !ok || t.kind != tokIdent {
		if t.kind == tokIdent && !isKeyword(t.text) {
			p.fail(t.line, "'%s' : unknown type", t.text)
		}
		p.syntaxError(t)
	}
	return typ
}

func (p *parser) parseBlock() []stmt {
	p.expect("{")
	p.scopes = append(p.scopes, map[string]*Variable{})
	var block []stmt
	for !p.accept("}") {
		if p.peek().kind == tokEOF {
			p.syntaxError(p.peek())
		}
		if s := p.parseStatement(); s != nil {
			block = append(block, s)
		}
	}
	p.scopes = p.scopes[:len(p.scopes)-1]
	return block
}

func (p *parser) parseStatement() stmt {
	p.nest()
	defer p.unnest()
	t := p.peek()
	switch {
	case p.is("{"):
		block := p.parseBlock()
		return func(inv *Invocation) { execBlock(block, inv) }
	case p.is(";"):
		p.next()
		return nil
	case p.accept("if"):
		return p.parseIf(t.line)
	case p.accept("return"):
		p.expect(";")
		return func(inv *Invocation) { inv.returned = true }
	case p.accept("discard"):
		if p.stage != Fragment {
			p.fail(t.line, "'discard' : supported in fragment shaders only")
		}
		p.expect(";")
		return func(inv *Invocation) { inv.Discarded = true }
	case p.is("for") || p.is("while") || p.is("do") || p.is("break") || p.is("continue"):
		p.fail(t.line, "'%s' : loops are not supported", t.text)
	case p.is("const") || isPrecision(t.text):
		return p.parseLocalDecl()
	}
	if _, isType := typeNames[t.text]; isType && t.kind == tokIdent && !p.isConstructorCall() {
		return p.parseLocalDecl()
	}

	lhs := p.parseExpression()
	op := p.peek()
	switch op.text {
	case "=", "+=", "-=", "*=", "/=":
		p.next()
		rhs := p.parseExpression()
		p.expect(";")
		if lhs.v == nil {
			p.fail(op.line, "'%s' : l-value required", op.text)
		}
		return p.assign(lhs.v, lhs.swizzle, op.text, rhs, op.line, false)
	}
	p.expect(";")
	eval := lhs.eval
	return func(inv *Invocation) { eval(inv.Slots) }
}

// isConstructorCall reports whether the type name at the cursor starts an
// expression like vec4(...) rather than a declaration.
func (p *parser) isConstructorCall() bool {
	return p.peekAt(1).text == "("
}

func (p *parser) parseIf(line int) stmt {
	p.expect("(")
	cond := p.parseExpression()
	p.expect(")")
	if cond.typ != TypeBool {
		p.fail(line, "'if' : boolean expression expected")
	}
	then := p.parseScopedStatement()
	var otherwise stmt
	if p.accept("else") {
		otherwise = p.parseScopedStatement()
	}
	eval := cond.eval
	return func(inv *Invocation) {
		if eval(inv.Slots)[0] != 0 {
			if then != nil {
				then(inv)
			}
		} else if otherwise != nil {
			otherwise(inv)
		}
	}
}

func (p *parser) parseScopedStatement() stmt {
	p.scopes = append(p.scopes, map[string]*Variable{})
	defer func() { p.scopes = p.scopes[:len(p.scopes)-1] }()
	return p.parseStatement()
}

func (p *parser) parseLocalDecl() stmt {
	qual := QualLocal
	if p.accept("const") {
		qual = QualConst
	}
	if isPrecision(p.peek().text) {
		p.next()
	}
	typ := p.parseType()
	if typ == TypeVoid {
		p.fail(p.peek().line, "'void' : illegal use of type 'void'")
	}
	var stmts []stmt
	for {
		name := p.expectIdent()
		var init *expr
		if p.accept("=") {
			e := p.parseExpression()
			init = &e
		} else if qual == QualConst {
			p.fail(name.line, "'%s' : variables with qualifier 'const' must be initialized", name.text)
		}
		// The initializer is parsed before the name is in scope.
		v := p.declare(name.text, typ, qual, name.line)
		if init != nil {
			stmts = append(stmts, p.assign(v, nil, "=", *init, name.line, true))
		} else {
			slot := v.Slot
			stmts = append(stmts, func(inv *Invocation) { inv.Slots[slot] = mgl32.Vec4{} })
		}
		if !p.accept(",") {
			break
		}
	}
	p.expect(";")
	if len(stmts) == 1 {
		return stmts[0]
	}
	return func(inv *Invocation) { execBlock(stmts, inv) }
}

// assign builds an assignment of rhs to v, optionally through a swizzle.
// Initializers are the only assignments allowed to a const.
func (p *parser) assign(v *Variable, swizzle []int, op string, rhs expr, line int, initializer bool) stmt {
	switch v.Qualifier {
	case QualAttribute, QualUniform, QualBuiltinIn:
		p.fail(line, "'%s' : l-value required \"%s\" (can't modify %s)", op, v.Name, qualNoun(v.Qualifier))
	case QualVarying:
		if p.stage == Fragment {
			p.fail(line, "'%s' : l-value required \"%s\" (can't modify a varying)", op, v.Name)
		}
	case QualConst:
		if !initializer {
			p.fail(line, "'%s' : l-value required \"%s\" (can't modify a const)", op, v.Name)
		}
	}
	for i := range swizzle {
		for j := i + 1; j < len(swizzle); j++ {
			if swizzle[i] == swizzle[j] {
				p.fail(line, "'%s' : l-value of swizzle cannot have duplicate components", op)
			}
		}
	}

	target := expr{typ: v.Type, v: v}
	slot := v.Slot
	target.eval = func(s []mgl32.Vec4) mgl32.Vec4 { return s[slot] }
	if swizzle != nil {
		target = swizzleExpr(target, swizzle)
	}
	value := rhs
	if op != "=" {
		value = p.binary(op[:1], target, rhs, line)
	}
	if value.typ != target.typ {
		p.fail(line, "'%s' : cannot convert from '%s' to '%s'", op, value.typ, target.typ)
	}

	eval := value.eval
	if swizzle == nil {
		return func(inv *Invocation) { inv.Slots[slot] = eval(inv.Slots) }
	}
	idx := append([]int(nil), swizzle...)
	return func(inv *Invocation) {
		val := eval(inv.Slots)
		dst := &inv.Slots[slot]
		for i, c := range idx {
			dst[c] = val[i]
		}
	}
}

func qualNoun(q Qualifier) string {
	switch q {
	case QualAttribute:
		return "an attribute"
	case QualUniform:
		return "a uniform"
	}
	return "an input"
}
