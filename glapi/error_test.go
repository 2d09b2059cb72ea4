package glapi

import (
	"errors"
	"testing"
)

func TestEnumString(t *testing.T) {
	cases := map[Enum]string{
		InvalidOperation:    "GL_INVALID_OPERATION",
		FramebufferComplete: "GL_FRAMEBUFFER_COMPLETE",
		RGBA8:               "GL_RGBA8",
		Enum(0x1234):        "0x1234",
	}
	for e, expected := range cases {
		if s := e.String(); s != expected {
			t.Errorf("unexpected string for %d: exp %q, got %q", uint32(e), expected, s)
		}
	}
}

func TestCallErrorMessage(t *testing.T) {
	var err error = CallError{Op: "glDrawArrays", Code: InvalidValue}
	if err.Error() != "glDrawArrays failed: GL_INVALID_VALUE" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	var callErr CallError
	if !errors.As(err, &callErr) || callErr.Code != InvalidValue {
		t.Fatalf("expected a CallError, got %#v", err)
	}
}
