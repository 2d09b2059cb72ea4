package native

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/Prior99/windows-test/glapi"
	"github.com/Prior99/windows-test/logger"
	"github.com/Prior99/windows-test/renderer"
	"github.com/Prior99/windows-test/soft"
)

func initTestEGL(t *testing.T) *Context {
	t.Helper()
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)
	logger.Nop()

	c, err := NewEGL(true)
	if err != nil {
		t.Skipf("no EGL context available: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

const vertexShader = `
    attribute vec2 vertexPosition;

    void main() {
        gl_Position = vec4(vertexPosition, 0.0, 1.0);
    }
`

const fragmentShader = `
    precision mediump float;

    void main() {
        gl_FragColor = vec4(1.0, 0.0, 1.0, 1.0);
    }
`

func TestMatchesSoftwareContext(t *testing.T) {
	c := initTestEGL(t)

	cfg := renderer.Config{
		Width:           16,
		Height:          8,
		Alpha:           true,
		ClearColor:      [4]float32{0, 0, 0, 1},
		Draw:            true,
		VertexSources:   []renderer.Source{renderer.SourceBuf(vertexShader)},
		FragmentSources: []renderer.Source{renderer.SourceBuf(fragmentShader)},
		FlipY:           true,
	}
	for _, mode := range []renderer.Readback{renderer.ReadbackCanvas, renderer.ReadbackRaw} {
		cfg.Readback = mode
		got, err := renderer.Render(c, cfg)
		if err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		sw := soft.NewContext()
		expected, err := renderer.Render(sw, cfg)
		if err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		if !bytes.Equal(got, expected) {
			t.Fatalf("%s: output differs from the software context", mode)
		}
	}
}

func TestReadPixelsUnsignedInt(t *testing.T) {
	c := initTestEGL(t)

	target, err := renderer.NewRenderTarget(c, 2, 2, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := renderer.SetupState(c, target.Width, target.Height, [4]float32{1, 0, 1, 0}); err != nil {
		t.Fatal(err)
	}
	words := make([]uint32, 2*2*4)
	c.ReadPixels(0, 0, 2, 2, glapi.RGBA, glapi.UnsignedInt, words)
	if err := glapi.Error(c, "ReadPixels"); err != nil {
		t.Fatal(err)
	}
	exp := []uint32{0xffffffff, 0, 0xffffffff, 0}
	for i, w := range words {
		if w != exp[i%4] {
			t.Fatalf("word %d: exp %#x, got %#x", i, exp[i%4], w)
		}
	}
}

func TestReadPixelsWrongBuffer(t *testing.T) {
	c := initTestEGL(t)

	c.ReadPixels(0, 0, 1, 1, glapi.RGBA, glapi.UnsignedInt, make([]uint8, 4))
	if code := c.GetError(); code != glapi.InvalidOperation {
		t.Fatalf("exp %s, got %s", glapi.InvalidOperation, code)
	}
	if code := c.GetError(); code != glapi.NoError {
		t.Fatalf("error flag was not reset: %s", code)
	}
}
