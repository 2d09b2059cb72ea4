package native

import (
	"unsafe"

	gl "github.com/go-gl/gl/v3.1/gles2"
	"go.uber.org/zap"

	"github.com/Prior99/windows-test/logger"
)

// DebugMessage is a message reported by the driver through KHR_debug.
type DebugMessage struct {
	ID       uint32
	Source   uint32
	Type     uint32
	Severity uint32
	Message  string
}

func (dm DebugMessage) SeverityString() string {
	switch dm.Severity {
	case gl.DEBUG_SEVERITY_HIGH:
		return "high"
	case gl.DEBUG_SEVERITY_MEDIUM:
		return "medium"
	case gl.DEBUG_SEVERITY_LOW:
		return "low"
	case gl.DEBUG_SEVERITY_NOTIFICATION:
		return "note"
	default:
		return ""
	}
}

func (dm DebugMessage) log() {
	fields := []zap.Field{
		zap.Uint32("id", dm.ID),
		zap.String("severity", dm.SeverityString()),
	}
	switch dm.Severity {
	case gl.DEBUG_SEVERITY_HIGH:
		logger.Error(dm.Message, fields...)
	case gl.DEBUG_SEVERITY_MEDIUM:
		logger.Warn(dm.Message, fields...)
	default:
		logger.Debug(dm.Message, fields...)
	}
}

// EnableDebugOutput forwards driver debug messages to the logger. Messages
// are delivered synchronously on the calling thread. It reports false if the
// driver lacks GL_KHR_debug.
func (c *Context) EnableDebugOutput() bool {
	if !c.HasExtension("GL_KHR_debug") {
		return false
	}
	gl.Enable(gl.DEBUG_OUTPUT_KHR)
	gl.Enable(gl.DEBUG_OUTPUT_SYNCHRONOUS_KHR)
	gl.DebugMessageControlKHR(gl.DONT_CARE, gl.DONT_CARE, gl.DONT_CARE, 0, nil, true)
	gl.DebugMessageCallbackKHR(func(source uint32, typ uint32, id uint32, severity uint32, length int32, message string, userParam unsafe.Pointer) {
		DebugMessage{
			ID:       id,
			Source:   source,
			Type:     typ,
			Severity: severity,
			Message:  message,
		}.log()
	}, nil)
	return true
}
