package egl

import (
	"runtime"
	"testing"
)

func TestHeadlessContext(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	display, err := GetDisplay(DefaultDisplay)
	if err != nil {
		t.Skipf("no EGL display available: %v", err)
	}
	if display.Version() == "" {
		t.Errorf("expected a version string")
	}
	t.Logf("vendor: %s, apis: %v, extensions: %d", display.Vendor(), display.ClientAPIs(), len(display.Extensions()))

	surface, err := display.CreateSurface(4, 4, true)
	if err != nil {
		display.Destroy()
		t.Fatal(err)
	}
	if err := display.BindAPI(OpenGLESAPI); err != nil {
		display.Destroy()
		t.Fatal(err)
	}
	cx, err := display.CreateContext(surface, 3)
	if err != nil {
		display.Destroy()
		t.Fatal(err)
	}
	defer cx.Destroy()
	if err := cx.MakeCurrent(); err != nil {
		t.Fatal(err)
	}
}
