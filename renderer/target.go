package renderer

import (
	"fmt"

	"github.com/Prior99/windows-test/glapi"
)

// RenderTarget is an offscreen framebuffer with a single color renderbuffer.
type RenderTarget struct {
	Renderbuffer uint32
	Framebuffer  uint32

	Width, Height int
	Alpha         bool
}

// Format is the storage format of the color buffer.
func (t *RenderTarget) Format() glapi.Enum {
	if t.Alpha {
		return glapi.RGBA8
	}
	return glapi.RGB8
}

// NewRenderTarget allocates a color buffer of the given size, attaches it to
// a new framebuffer and leaves both bound.
func NewRenderTarget(gl glapi.Context, width, height int, alpha bool) (*RenderTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid render target size %dx%d", width, height)
	}
	t := &RenderTarget{Width: width, Height: height, Alpha: alpha}

	if t.Renderbuffer = gl.CreateRenderbuffer(); t.Renderbuffer == 0 {
		return nil, ObjectError{Object: "renderbuffer"}
	}
	gl.BindRenderbuffer(glapi.Renderbuffer, t.Renderbuffer)
	gl.RenderbufferStorage(glapi.Renderbuffer, t.Format(), width, height)
	if err := glapi.Error(gl, "renderbufferStorage"); err != nil {
		return nil, err
	}

	if t.Framebuffer = gl.CreateFramebuffer(); t.Framebuffer == 0 {
		return nil, ObjectError{Object: "framebuffer"}
	}
	gl.BindFramebuffer(glapi.Framebuffer, t.Framebuffer)
	gl.FramebufferRenderbuffer(glapi.Framebuffer, glapi.ColorAttachment0, glapi.Renderbuffer, t.Renderbuffer)
	if err := glapi.Error(gl, "framebufferRenderbuffer"); err != nil {
		return nil, err
	}

	if status := gl.CheckFramebufferStatus(glapi.Framebuffer); status != glapi.FramebufferComplete {
		return nil, FramebufferError{Status: status}
	}
	return t, nil
}

type FramebufferError struct {
	Status glapi.Enum
}

func (err FramebufferError) Error() string {
	return fmt.Sprintf("framebuffer is incomplete: %s", err.Status)
}
