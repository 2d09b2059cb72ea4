package native

import (
	"testing"

	gl "github.com/go-gl/gl/v3.1/gles2"
)

func TestDebugMessageSeverity(t *testing.T) {
	tests := map[uint32]string{
		gl.DEBUG_SEVERITY_HIGH:         "high",
		gl.DEBUG_SEVERITY_MEDIUM:       "medium",
		gl.DEBUG_SEVERITY_LOW:          "low",
		gl.DEBUG_SEVERITY_NOTIFICATION: "note",
	}
	for severity, exp := range tests {
		if got := (DebugMessage{Severity: severity}).SeverityString(); got != exp {
			t.Errorf("severity %#x: exp %q, got %q", severity, exp, got)
		}
	}
	if got := (DebugMessage{}).SeverityString(); got != "" {
		t.Errorf("unknown severity: exp empty string, got %q", got)
	}
}
