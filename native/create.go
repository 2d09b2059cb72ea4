package native

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/Prior99/windows-test/egl"
	"github.com/Prior99/windows-test/logger"
)

// ClientVersion is the OpenGL ES major version that is requested. The
// bindings load ES 3 entry points, GLSL ES 1.00 shaders are accepted by ES 3
// contexts.
const ClientVersion = 3

// NewEGL creates a headless context on a 1x1 pbuffer surface of the default
// EGL display. Rendering happens in framebuffer objects, so the surface size
// does not matter.
func NewEGL(alpha bool) (*Context, error) {
	display, err := egl.GetDisplay(egl.DefaultDisplay)
	if err != nil {
		return nil, err
	}
	logger.Debug("egl display",
		zap.String("vendor", display.Vendor()),
		zap.String("version", display.Version()),
		zap.Strings("apis", display.ClientAPIs()),
		zap.Strings("extensions", display.Extensions()))

	surface, err := display.CreateSurface(1, 1, alpha)
	if err != nil {
		display.Destroy()
		return nil, err
	}
	if err := display.BindAPI(egl.OpenGLESAPI); err != nil {
		display.Destroy()
		return nil, err
	}
	eglCtx, err := display.CreateContext(surface, ClientVersion)
	if err != nil {
		display.Destroy()
		return nil, err
	}
	if err := eglCtx.MakeCurrent(); err != nil {
		eglCtx.Destroy()
		return nil, err
	}
	c, err := newContext(eglCtx.Destroy)
	if err != nil {
		return nil, fmt.Errorf("unable to load OpenGL ES functions: %w", err)
	}
	c.describe("egl")
	return c, nil
}

// NewGLFW creates a context through an invisible GLFW window. A display
// server is required.
func NewGLFW() (*Context, error) {
	if err := glfw.Init(); err != nil {
		return nil, err
	}
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, ClientVersion)
	glfw.WindowHint(glfw.ContextVersionMinor, 0)
	win, err := glfw.CreateWindow(1, 1, "glsnap", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	win.MakeContextCurrent()

	c, err := newContext(func() {
		win.Destroy()
		glfw.Terminate()
	})
	if err != nil {
		return nil, fmt.Errorf("unable to load OpenGL ES functions: %w", err)
	}
	c.describe("glfw")
	return c, nil
}

func (c *Context) describe(backend string) {
	logger.Info("native context created",
		zap.String("backend", backend),
		zap.String("vendor", c.Vendor()),
		zap.String("renderer", c.Renderer()),
		zap.String("version", c.Version()))
	if c.EnableDebugOutput() {
		logger.Debug("debug output enabled")
	}
}
