// Package glsl compiles and evaluates a subset of the OpenGL ES Shading
// Language 1.00: float and vector declarations with attribute, varying and
// uniform storage, a single main function with assignments, conditionals,
// arithmetic, swizzles, constructors and the common built-in functions.
package glsl

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

type Stage int

const (
	Vertex Stage = iota
	Fragment
)

func (s Stage) String() string {
	if s == Vertex {
		return "vertex"
	}
	return "fragment"
}

// Error is a single compiler diagnostic.
type Error struct {
	Line int
	Msg  string
}

func errorf(line int, format string, args ...interface{}) *Error {
	return &Error{Line: line, Msg: fmt.Sprintf(format, args...)}
}

func (err *Error) Error() string {
	return fmt.Sprintf("ERROR: 0:%d: %s", err.Line, err.Msg)
}

// Log formats the error the way the info log of a shader object reports it.
func (err *Error) Log() string {
	return err.Error() + "\nERROR: 1 compilation errors.  No code generated.\n"
}

// Shader is a compiled shader.
type Shader struct {
	Stage Stage

	// Globals lists the attribute, varying and uniform variables in
	// declaration order.
	Globals []*Variable

	// Position is gl_Position for vertex shaders, FragColor and FragCoord are
	// gl_FragColor and gl_FragCoord for fragment shaders.
	Position  *Variable
	FragColor *Variable
	FragCoord *Variable

	numSlots int
	outputs  []int
	main     []stmt
}

// Compile compiles the source text of a shader for the given stage.
func Compile(stage Stage, source string) (*Shader, error) {
	src, perr := preprocess(source)
	if perr != nil {
		return nil, perr
	}
	tokens, lerr := lex(src)
	if lerr != nil {
		return nil, lerr
	}
	p := newParser(stage, tokens)
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.shader, nil
}

// Variable looks up a global or built-in variable by name.
func (sh *Shader) Variable(name string) *Variable {
	for _, v := range sh.Globals {
		if v.Name == name {
			return v
		}
	}
	for _, v := range []*Variable{sh.Position, sh.FragColor, sh.FragCoord} {
		if v != nil && v.Name == name {
			return v
		}
	}
	return nil
}

// Qualified returns the globals with the given qualifier in declaration order.
func (sh *Shader) Qualified(q Qualifier) []*Variable {
	var vars []*Variable
	for _, v := range sh.Globals {
		if v.Qualifier == q {
			vars = append(vars, v)
		}
	}
	return vars
}

// Invocation holds the variable storage for running a shader. Inputs are
// written to Slots before Run, outputs read from it afterwards.
type Invocation struct {
	Slots     []mgl32.Vec4
	Discarded bool
	returned  bool
}

func (sh *Shader) NewInvocation() *Invocation {
	return &Invocation{Slots: make([]mgl32.Vec4, sh.numSlots)}
}

// Run executes main. Outputs are reset to zero first.
func (sh *Shader) Run(inv *Invocation) {
	for _, slot := range sh.outputs {
		inv.Slots[slot] = mgl32.Vec4{}
	}
	inv.Discarded = false
	inv.returned = false
	execBlock(sh.main, inv)
}

// Describe renders a short summary of the interface of the shader, mostly
// useful for diagnostics.
func (sh *Shader) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s shader", sh.Stage)
	for _, v := range sh.Globals {
		fmt.Fprintf(&b, "\n  %s %s %s", v.Qualifier, v.Type, v.Name)
		if !v.Used {
			b.WriteString(" (unused)")
		}
	}
	return b.String()
}
