// Package egl creates headless OpenGL ES contexts on pbuffer surfaces.
package egl

// #cgo LDFLAGS: -lEGL
// #include <EGL/egl.h>
import "C"
import (
	"fmt"
	"strings"
)

var DefaultDisplay = NativeDisplayType(nil) // C.EGL_DEFAULT_DISPLAY

type NativeDisplayType C.EGLNativeDisplayType

type API C.EGLenum

const (
	OpenGLAPI   API = C.EGL_OPENGL_API
	OpenGLESAPI API = C.EGL_OPENGL_ES_API
)

type Display struct {
	dpy C.EGLDisplay
}

func GetDisplay(dtype NativeDisplayType) (Display, error) {
	dpy := C.eglGetDisplay(C.EGLNativeDisplayType(dtype))
	if dpy == 0 { // EGL_NO_DISPLAY
		return Display{}, fmt.Errorf("no EGL display available")
	}
	if C.eglInitialize(dpy, nil, nil) == C.EGL_FALSE {
		return Display{}, fmt.Errorf("error initializing display: %v", getError())
	}
	return Display{dpy: dpy}, nil
}

// ClientAPIs retrieves a list of supported client APIs.
func (d Display) ClientAPIs() []string {
	return d.queryList(C.EGL_CLIENT_APIS)
}

// Extensions retrieves a list of supported extensions.
func (d Display) Extensions() []string {
	return d.queryList(C.EGL_EXTENSIONS)
}

func (d Display) queryList(name C.EGLint) []string {
	str := C.GoString(C.eglQueryString(d.dpy, name))
	return strings.Fields(str)
}

func (d Display) Vendor() string {
	return C.GoString(C.eglQueryString(d.dpy, C.EGL_VENDOR))
}

func (d Display) Version() string {
	return C.GoString(C.eglQueryString(d.dpy, C.EGL_VERSION))
}

func (d Display) Destroy() {
	C.eglTerminate(d.dpy)
}

type Surface struct {
	conf C.EGLConfig
	surf C.EGLSurface
}

// CreateSurface creates a pbuffer surface with 8 bit color channels that is
// renderable by OpenGL ES 2. An alpha channel is requested if alpha is set.
func (d Display) CreateSurface(width, height int, alpha bool) (Surface, error) {
	alphaSize := C.EGLint(0)
	if alpha {
		alphaSize = 8
	}
	configAttribs := []C.EGLint{
		C.EGL_SURFACE_TYPE, C.EGL_PBUFFER_BIT,
		C.EGL_RED_SIZE, 8,
		C.EGL_GREEN_SIZE, 8,
		C.EGL_BLUE_SIZE, 8,
		C.EGL_ALPHA_SIZE, alphaSize,
		C.EGL_RENDERABLE_TYPE, C.EGL_OPENGL_ES2_BIT,
		C.EGL_NONE,
	}
	pbufferAttribs := []C.EGLint{
		C.EGL_WIDTH, C.EGLint(width),
		C.EGL_HEIGHT, C.EGLint(height),
		C.EGL_NONE,
	}
	var numConfigs C.EGLint
	var eglCfg C.EGLConfig
	if C.eglChooseConfig(d.dpy, &configAttribs[0], &eglCfg, 1, &numConfigs) == C.EGL_FALSE {
		return Surface{}, fmt.Errorf("error choosing config: %v", getError())
	}
	if numConfigs == 0 {
		return Surface{}, fmt.Errorf("no matching EGL config")
	}

	eglSurf := C.eglCreatePbufferSurface(d.dpy, eglCfg, &pbufferAttribs[0])
	if eglSurf == nil {
		return Surface{}, fmt.Errorf("error creating surface: %v", getError())
	}
	return Surface{conf: eglCfg, surf: eglSurf}, nil
}

func (d Display) BindAPI(api API) error {
	if C.eglBindAPI(C.EGLenum(api)) == C.EGL_FALSE {
		return fmt.Errorf("error binding API: %v", getError())
	}
	return nil
}

// CreateContext creates a context for the bound API. clientVersion is the
// major OpenGL ES version.
func (d Display) CreateContext(surface Surface, clientVersion int) (Context, error) {
	attribs := []C.EGLint{
		C.EGL_CONTEXT_CLIENT_VERSION, C.EGLint(clientVersion),
		C.EGL_NONE,
	}
	context := C.eglCreateContext(d.dpy, surface.conf, nil, &attribs[0])
	if context == nil {
		return Context{}, fmt.Errorf("error creating context: %v", getError())
	}
	return Context{
		Display: d,
		Surface: surface,
		context: context,
	}, nil
}

type Context struct {
	Display Display
	Surface Surface

	context C.EGLContext
}

func (cx Context) MakeCurrent() error {
	if C.eglMakeCurrent(cx.Display.dpy, cx.Surface.surf, cx.Surface.surf, cx.context) == C.EGL_FALSE {
		return fmt.Errorf("error making context current: %v", getError())
	}
	return nil
}

// Destroy releases the context, its surface and the display.
func (cx Context) Destroy() {
	C.eglMakeCurrent(cx.Display.dpy, nil, nil, nil)
	C.eglDestroyContext(cx.Display.dpy, cx.context)
	C.eglDestroySurface(cx.Display.dpy, cx.Surface.surf)
	cx.Display.Destroy()
}

var errorMessages = map[C.EGLint]string{
	C.EGL_NOT_INITIALIZED:     "EGL is not initialized, or could not be initialized, for the specified EGL display connection",
	C.EGL_BAD_ACCESS:          "EGL cannot access a requested resource (for example a context is bound in another thread)",
	C.EGL_BAD_ALLOC:           "EGL failed to allocate resources for the requested operation",
	C.EGL_BAD_ATTRIBUTE:       "an unrecognized attribute or attribute value was passed in the attribute list",
	C.EGL_BAD_CONTEXT:         "an EGLContext argument does not name a valid EGL rendering context",
	C.EGL_BAD_CONFIG:          "an EGLConfig argument does not name a valid EGL frame buffer configuration",
	C.EGL_BAD_CURRENT_SURFACE: "the current surface of the calling thread is no longer valid",
	C.EGL_BAD_DISPLAY:         "an EGLDisplay argument does not name a valid EGL display connection",
	C.EGL_BAD_SURFACE:         "an EGLSurface argument does not name a valid surface configured for GL rendering",
	C.EGL_BAD_MATCH:           "arguments are inconsistent",
	C.EGL_BAD_PARAMETER:       "one or more argument values are invalid",
	C.EGL_BAD_NATIVE_PIXMAP:   "a NativePixmapType argument does not refer to a valid native pixmap",
	C.EGL_BAD_NATIVE_WINDOW:   "a NativeWindowType argument does not refer to a valid native window",
	C.EGL_CONTEXT_LOST:        "a power management event has occurred, the context was lost",
}

func getError() error {
	code := C.eglGetError()
	if code == C.EGL_SUCCESS {
		return nil
	}
	if msg, ok := errorMessages[code]; ok {
		return fmt.Errorf("%s", msg)
	}
	return fmt.Errorf("unknown EGL error: %#x", int(code))
}
