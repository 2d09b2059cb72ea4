package renderer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Prior99/windows-test/glapi"
	"github.com/Prior99/windows-test/logger"
	"github.com/Prior99/windows-test/soft"
)

func initTestGL(t testing.TB) glapi.Context {
	t.Helper()
	logger.Nop()
	gl := soft.NewContext()
	t.Cleanup(func() { gl.Close() })
	return gl
}

func TestUnknownVar(t *testing.T) {
	gl := initTestGL(t)

	sources := SourceBuf(`
void main() {
	a = 12;
}
	`)

	_, err := CompileShader(gl, StageVertex, sources)
	var cerr CompileError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected a CompileError, got %#v", err)
	}
	if cerr.Stage != StageVertex {
		t.Fatalf("unexpected stage %v", cerr.Stage)
	}
	if !strings.HasPrefix(cerr.Error(), "Unable to compile shader.") {
		t.Fatalf("unexpected message: %q", cerr.Error())
	}
	if !strings.Contains(cerr.Log, "undeclared identifier") {
		t.Fatalf("unexpected log: %q", cerr.Log)
	}
}

func TestSingleFileMarkerPosition(t *testing.T) {
	gl := initTestGL(t)

	source := SourceBuf(`
void main() {
	#error meh
}
	`)

	_, err := CompileShader(gl, StageVertex, source)
	cerr := err.(CompileError)

	m := cerr.Markers()
	if len(m) == 0 {
		t.Fatalf("Expected at least one error marker")
	}
	if m[0].FileNo != 0 {
		t.Fatalf("Unexpected fileno %d", m[0].FileNo)
	}
	if m[0].LineNo != 3 {
		t.Fatalf("Unexpected lineno %d", m[0].LineNo)
	}
}

func TestMultiFileMarkerPosition(t *testing.T) {
	gl := initTestGL(t)

	source1 := SourceBuf(`
// A bunch of text to offset the line number.
	`)
	source2 := SourceBuf(`
void main() {
	#error meh
}
	`)

	_, err := CompileShader(gl, StageVertex, source1, source2)
	cerr := err.(CompileError)

	m := cerr.Markers()
	if len(m) == 0 {
		t.Fatalf("Expected at least one error marker")
	}
	if m[0].FileNo != 1 {
		t.Fatalf("Unexpected fileno %d", m[0].FileNo)
	}
	if m[0].LineNo != 3 {
		t.Fatalf("Unexpected lineno %d", m[0].LineNo)
	}

	var buf bytes.Buffer
	cerr.PrettyPrint(&buf, false)
	if out := buf.String(); !strings.Contains(out, "<source 1>:3: '#error' : meh") || !strings.Contains(out, "#error meh") {
		t.Fatalf("unexpected pretty print:\n%s", out)
	}
}

func TestMarkerLogFormats(t *testing.T) {
	cerr := CompileError{
		sources: []Source{SourceBuf("a\nb"), SourceBuf("c")},
		Log: strings.Join([]string{
			"ERROR: 0:2: 'x' : undeclared identifier",
			"0:4(3): error: syntax error",
			"0(5) : error C0000: syntax error",
			"ERROR: 1 compilation errors.  No code generated.",
		}, "\n"),
	}
	exp := []Marker{
		{FileNo: 0, LineNo: 2, Message: "'x' : undeclared identifier"},
		{FileNo: 1, LineNo: 1, Message: "error: syntax error"},
		{FileNo: 1, LineNo: 2, Message: "error C0000: syntax error"},
	}
	got := cerr.Markers()
	if len(got) != len(exp) {
		t.Fatalf("unexpected markers: %+v", got)
	}
	for i := range exp {
		if got[i] != exp[i] {
			t.Errorf("marker %d: exp %+v, got %+v", i, exp[i], got[i])
		}
	}
}

func TestCompileFromFiles(t *testing.T) {
	gl := initTestGL(t)

	sources, err := Includes("../testdata/preprocessor/include-single.glsl")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := CompileShader(gl, StageFragment, sources...); err != nil {
		t.Fatal(err)
	}
}

func TestLinkError(t *testing.T) {
	gl := initTestGL(t)

	vs, err := CompileShader(gl, StageVertex, SourceBuf(`
		attribute vec2 vertexPosition;
		void main() { gl_Position = vec4(vertexPosition, 0.0, 1.0); }
	`))
	if err != nil {
		t.Fatal(err)
	}
	fs, err := CompileShader(gl, StageFragment, SourceBuf(`
		precision mediump float;
		varying vec2 textureCoords;
		void main() { gl_FragColor = vec4(textureCoords, 0.0, 1.0); }
	`))
	if err != nil {
		t.Fatal(err)
	}
	_, err = LinkProgram(gl, vs, fs)
	var lerr LinkError
	if !errors.As(err, &lerr) {
		t.Fatalf("expected a LinkError, got %#v", err)
	}
	if !strings.Contains(lerr.Log, "textureCoords") {
		t.Fatalf("unexpected log: %q", lerr.Log)
	}
}

func TestAttribLocation(t *testing.T) {
	gl := initTestGL(t)

	prog, err := BuildProgram(gl, map[Stage][]Source{
		StageVertex:   {SourceBuf(quadVertexShader)},
		StageFragment: {SourceBuf(solidFragmentShader)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if loc := prog.AttribLocation("vertexPosition"); loc != 0 {
		t.Fatalf("unexpected location %d", loc)
	}
	if loc := prog.AttribLocation("nope"); loc != -1 {
		t.Fatalf("expected -1, got %d", loc)
	}
}

func TestBuildProgramMissingStage(t *testing.T) {
	gl := initTestGL(t)

	_, err := BuildProgram(gl, map[Stage][]Source{
		StageVertex: {SourceBuf(quadVertexShader)},
	})
	if err == nil || !strings.Contains(err.Error(), "no fragment shader sources") {
		t.Fatalf("unexpected error: %v", err)
	}
}
