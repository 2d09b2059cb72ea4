package glapi

import "fmt"

// CallError reports a GL error code that was pending after an operation.
type CallError struct {
	Op   string
	Code Enum
}

func (err CallError) Error() string {
	return fmt.Sprintf("%s failed: %s", err.Op, err.Code)
}

// Error returns a CallError if the context has a pending error, nil
// otherwise. The pending error flag is reset.
func Error(gl Context, op string) error {
	if code := gl.GetError(); code != NoError {
		return CallError{Op: op, Code: code}
	}
	return nil
}

func (e Enum) String() string {
	switch e {
	case NoError:
		return "GL_NO_ERROR"
	case InvalidEnum:
		return "GL_INVALID_ENUM"
	case InvalidValue:
		return "GL_INVALID_VALUE"
	case InvalidOperation:
		return "GL_INVALID_OPERATION"
	case OutOfMemory:
		return "GL_OUT_OF_MEMORY"
	case InvalidFramebufferOperation:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	case FramebufferComplete:
		return "GL_FRAMEBUFFER_COMPLETE"
	case FramebufferIncompleteAttachment:
		return "GL_FRAMEBUFFER_INCOMPLETE_ATTACHMENT"
	case FramebufferIncompleteMissingAttachment:
		return "GL_FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT"
	case FramebufferIncompleteDimensions:
		return "GL_FRAMEBUFFER_INCOMPLETE_DIMENSIONS"
	case FramebufferUnsupported:
		return "GL_FRAMEBUFFER_UNSUPPORTED"
	case RGB8:
		return "GL_RGB8"
	case RGBA8:
		return "GL_RGBA8"
	case VertexShader:
		return "GL_VERTEX_SHADER"
	case FragmentShader:
		return "GL_FRAGMENT_SHADER"
	}
	return fmt.Sprintf("0x%04X", uint32(e))
}
