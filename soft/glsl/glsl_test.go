package glsl

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const vertexTextureCoords = `
    precision lowp float;

    attribute vec2 vertexPosition;

    varying vec2 textureCoords;

    void main() {
        textureCoords = vertexPosition;
        gl_Position = vec4(vertexPosition, 0.0, 1.0);
    }
`

const fragmentYellow = `
    precision mediump float;

    varying vec2 textureCoords;

    void main() {
        gl_FragColor = vec4(1, 1, 0, 0);
    }
`

func compile(t *testing.T, stage Stage, source string) *Shader {
	t.Helper()
	sh, err := Compile(stage, source)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	return sh
}

func compileError(t *testing.T, stage Stage, source string) *Error {
	t.Helper()
	_, err := Compile(stage, source)
	if err == nil {
		t.Fatalf("expected a compile error")
	}
	cerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected an *Error, got %#v", err)
	}
	return cerr
}

// fragment runs a fragment shader without inputs and returns gl_FragColor.
func fragment(t *testing.T, source string) mgl32.Vec4 {
	t.Helper()
	sh := compile(t, Fragment, source)
	inv := sh.NewInvocation()
	sh.Run(inv)
	return inv.Slots[sh.FragColor.Slot]
}

func TestVertexShader(t *testing.T) {
	sh := compile(t, Vertex, vertexTextureCoords)

	attr := sh.Variable("vertexPosition")
	if attr == nil || attr.Qualifier != QualAttribute || attr.Type != TypeVec2 || !attr.Used {
		t.Fatalf("unexpected attribute: %#v", attr)
	}
	varying := sh.Variable("textureCoords")
	if varying == nil || varying.Qualifier != QualVarying {
		t.Fatalf("unexpected varying: %#v", varying)
	}

	inv := sh.NewInvocation()
	inv.Slots[attr.Slot] = mgl32.Vec4{-1, 0.5}
	sh.Run(inv)
	if pos := inv.Slots[sh.Position.Slot]; pos != (mgl32.Vec4{-1, 0.5, 0, 1}) {
		t.Fatalf("unexpected gl_Position: %v", pos)
	}
	if tc := inv.Slots[varying.Slot]; tc != (mgl32.Vec4{-1, 0.5}) {
		t.Fatalf("unexpected varying value: %v", tc)
	}
}

func TestFragmentIntConstructor(t *testing.T) {
	if c := fragment(t, fragmentYellow); c != (mgl32.Vec4{1, 1, 0, 0}) {
		t.Fatalf("unexpected color: %v", c)
	}
}

func TestUnusedVarying(t *testing.T) {
	sh := compile(t, Fragment, fragmentYellow)
	if v := sh.Variable("textureCoords"); v == nil || v.Used {
		t.Fatalf("expected an unused varying, got %#v", v)
	}
}

func TestExpressions(t *testing.T) {
	cases := map[string]struct {
		body     string
		expected mgl32.Vec4
	}{
		"swizzle": {
			body:     `vec4 c = vec4(1.0, 2.0, 3.0, 4.0); gl_FragColor = c.wzyx;`,
			expected: mgl32.Vec4{4, 3, 2, 1},
		},
		"swizzle write": {
			body:     `gl_FragColor = vec4(1.0); gl_FragColor.rg = vec2(0.5, 0.25);`,
			expected: mgl32.Vec4{0.5, 0.25, 1, 1},
		},
		"precedence": {
			body:     `float x = 1.0 + 2.0 * 3.0; gl_FragColor = vec4(x, (1.0 + 2.0) * 3.0, -x, 1.0);`,
			expected: mgl32.Vec4{7, 9, -7, 1},
		},
		"scalar vector": {
			body:     `vec2 v = 2.0 * vec2(1.0, 2.0) / 2.0; gl_FragColor = vec4(v, v - 1.0);`,
			expected: mgl32.Vec4{1, 2, 0, 1},
		},
		"compound": {
			body:     `vec4 c = vec4(1.0); c *= 0.5; c.a += 0.5; gl_FragColor = c;`,
			expected: mgl32.Vec4{0.5, 0.5, 0.5, 1},
		},
		"splat": {
			body:     `gl_FragColor = vec4(0.25);`,
			expected: mgl32.Vec4{0.25, 0.25, 0.25, 0.25},
		},
		"vector truncation": {
			body:     `vec4 c = vec4(1.0, 2.0, 3.0, 4.0); gl_FragColor = vec4(vec3(c), 0.0);`,
			expected: mgl32.Vec4{1, 2, 3, 0},
		},
		"builtins": {
			body:     `gl_FragColor = vec4(clamp(2.0, 0.0, 1.0), mix(0.0, 1.0, 0.25), dot(vec2(1.0, 2.0), vec2(3.0, 4.0)), length(vec2(3.0, 4.0)));`,
			expected: mgl32.Vec4{1, 0.25, 11, 5},
		},
		"vector builtins": {
			body:     `gl_FragColor = vec4(max(vec2(0.5, 2.0), 1.0), abs(vec2(-1.0, 1.0)));`,
			expected: mgl32.Vec4{1, 2, 1, 1},
		},
		"conditional": {
			body:     `float x = 2.0; if (x > 1.0 && !(x > 3.0)) { gl_FragColor = vec4(1.0); } else { gl_FragColor = vec4(0.0); }`,
			expected: mgl32.Vec4{1, 1, 1, 1},
		},
		"early return": {
			body:     `gl_FragColor = vec4(0.5); return; gl_FragColor = vec4(1.0);`,
			expected: mgl32.Vec4{0.5, 0.5, 0.5, 0.5},
		},
		"int arithmetic": {
			body:     `int i = 7 / 2; gl_FragColor = vec4(float(i), float(-7 / 2), 0.0, 1.0);`,
			expected: mgl32.Vec4{3, -3, 0, 1},
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			src := "precision mediump float;\nvoid main() {\n" + c.body + "\n}\n"
			if got := fragment(t, src); got != c.expected {
				t.Fatalf("unexpected result: exp %v, got %v", c.expected, got)
			}
		})
	}
}

func TestDiscard(t *testing.T) {
	sh := compile(t, Fragment, `void main() { gl_FragColor = vec4(1.0); discard; }`)
	inv := sh.NewInvocation()
	sh.Run(inv)
	if !inv.Discarded {
		t.Fatalf("expected the fragment to be discarded")
	}
}

func TestGlobals(t *testing.T) {
	sh := compile(t, Fragment, `
		precision mediump float;
		uniform vec4 color;
		const float scale = 0.5;
		void main() {
			gl_FragColor = color * scale;
		}
	`)
	color := sh.Variable("color")
	if color == nil || color.Qualifier != QualUniform {
		t.Fatalf("unexpected uniform: %#v", color)
	}
	inv := sh.NewInvocation()
	inv.Slots[color.Slot] = mgl32.Vec4{1, 0.5, 0, 1}
	sh.Run(inv)
	if c := inv.Slots[sh.FragColor.Slot]; c != (mgl32.Vec4{0.5, 0.25, 0, 0.5}) {
		t.Fatalf("unexpected color: %v", c)
	}
}

func TestFragCoord(t *testing.T) {
	sh := compile(t, Fragment, `void main() { gl_FragColor = vec4(gl_FragCoord.xy / 2.0, 0.0, 1.0); }`)
	inv := sh.NewInvocation()
	inv.Slots[sh.FragCoord.Slot] = mgl32.Vec4{1, 3, 0, 1}
	sh.Run(inv)
	if c := inv.Slots[sh.FragColor.Slot]; c != (mgl32.Vec4{0.5, 1.5, 0, 1}) {
		t.Fatalf("unexpected color: %v", c)
	}
}

func TestConditionalCompilation(t *testing.T) {
	src := `
#ifdef GL_ES
precision mediump float;
#else
this is not glsl
#endif
#ifndef GL_ES
neither is this
#endif
void main() { gl_FragColor = vec4(1.0); }
`
	if c := fragment(t, src); c != (mgl32.Vec4{1, 1, 1, 1}) {
		t.Fatalf("unexpected color: %v", c)
	}
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		name   string
		stage  Stage
		source string
		line   int
		msg    string
	}{
		{"undeclared", Vertex, "\nvoid main() {\n\ta = 12;\n}\n", 3, "'a' : undeclared identifier"},
		{"error directive", Vertex, "\nvoid main() {\n\t#error meh\n}\n", 3, "'#error' : meh"},
		{"type mismatch", Fragment, "void main() {\n gl_FragColor = vec3(1.0);\n}", 2, "cannot convert from 'vec3' to 'vec4'"},
		{"int float mix", Fragment, "void main() {\n float x = 1.0 + 1;\n}", 2, "wrong operand types"},
		{"attribute in fragment", Fragment, "attribute vec2 p;\nvoid main() {}", 1, "supported in vertex shaders only"},
		{"assign uniform", Fragment, "uniform float u;\nvoid main() {\n u = 1.0;\n}", 3, "can't modify a uniform"},
		{"assign varying", Fragment, "varying float v;\nvoid main() {\n v = 1.0;\n}", 3, "can't modify a varying"},
		{"duplicate swizzle", Fragment, "void main() {\n gl_FragColor.xx = vec2(1.0);\n}", 2, "duplicate components"},
		{"bad swizzle", Fragment, "void main() {\n vec2 v = vec2(1.0);\n gl_FragColor = vec4(v.z);\n}", 3, "illegal vector field selection"},
		{"not enough data", Fragment, "void main() {\n gl_FragColor = vec4(1.0, 2.0);\n}", 2, "not enough data"},
		{"too many arguments", Fragment, "void main() {\n gl_FragColor = vec4(vec4(1.0), 1.0);\n}", 2, "too many arguments"},
		{"unknown function", Fragment, "void main() {\n gl_FragColor = foo(1.0);\n}", 2, "no matching overloaded function"},
		{"missing semicolon", Fragment, "void main() {\n gl_FragColor = vec4(1.0)\n}", 3, "syntax error"},
		{"missing main", Fragment, "precision mediump float;\n", 2, "Missing main()"},
		{"other function", Fragment, "float f() { return 1.0; }\nvoid main() {}", 1, "only main() may be defined"},
		{"loop", Fragment, "void main() {\n for (;;) {}\n}", 2, "loops are not supported"},
		{"redefinition", Fragment, "void main() {\n float x;\n float x;\n}", 3, "redefinition"},
		{"unterminated comment", Fragment, "void main() {}\n/* nope", 2, "EOF in comment"},
		{"const without value", Fragment, "const float c;\nvoid main() {}", 1, "must be initialized"},
		{"if condition", Fragment, "void main() {\n if (1.0) {}\n}", 2, "boolean expression expected"},
		{"discard in vertex", Vertex, "void main() {\n discard;\n}", 2, "supported in fragment shaders only"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := compileError(t, c.stage, c.source)
			if err.Line != c.line {
				t.Errorf("unexpected line: exp %d, got %d (%s)", c.line, err.Line, err)
			}
			if !strings.Contains(err.Msg, c.msg) {
				t.Errorf("unexpected message: expected %q in %q", c.msg, err.Msg)
			}
		})
	}
}

func TestNestingLimit(t *testing.T) {
	cases := map[string]string{
		"parentheses": "void main() {\n gl_FragColor = vec4(" + strings.Repeat("(", 100000) + "1.0",
		"negation":    "void main() {\n float x = " + strings.Repeat("- ", 100000) + "1.0;\n}",
		"blocks":      "void main() {\n" + strings.Repeat("{", 100000),
	}
	for name, source := range cases {
		t.Run(name, func(t *testing.T) {
			err := compileError(t, Fragment, source)
			if !strings.Contains(err.Msg, "too deeply nested") {
				t.Errorf("unexpected message: %q", err.Msg)
			}
			if err.Line != 2 {
				t.Errorf("unexpected line: exp 2, got %d", err.Line)
			}
		})
	}

	// Moderate nesting still compiles.
	c := fragment(t, "void main() {\n gl_FragColor = vec4("+strings.Repeat("(", 50)+"0.5"+strings.Repeat(")", 50)+");\n}")
	if c != (mgl32.Vec4{0.5, 0.5, 0.5, 0.5}) {
		t.Errorf("unexpected color %v", c)
	}
}

func TestErrorLog(t *testing.T) {
	err := compileError(t, Vertex, "void main() {\n\ta = 12;\n}")
	log := err.Log()
	if !strings.HasPrefix(log, "ERROR: 0:2: 'a' : undeclared identifier\n") {
		t.Fatalf("unexpected log: %q", log)
	}
}
