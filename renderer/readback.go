package renderer

import (
	"fmt"

	"github.com/Prior99/windows-test/encode"
	"github.com/Prior99/windows-test/glapi"
)

// Readback selects how pixels are read from the framebuffer and encoded.
type Readback string

const (
	// ReadbackCanvas reads unsigned bytes and exports them through a 2D
	// canvas as an 8 bit PNG.
	ReadbackCanvas Readback = "canvas"
	// ReadbackRaw reads 32 bit unsigned integers and hands the raw buffer to
	// the standalone PNG encoder, which writes a 16 bit PNG.
	ReadbackRaw Readback = "raw"
)

func (r Readback) valid() bool {
	return r == ReadbackCanvas || r == ReadbackRaw
}

// PixelBuffer holds RGBA pixels read from a framebuffer. Exactly one of Bytes
// and Words is set, depending on the readback mode.
type PixelBuffer struct {
	Width, Height int
	Bytes         []uint8
	Words         []uint32
}

// ReadPixels reads the whole color buffer of the bound framebuffer.
func ReadPixels(gl glapi.Context, width, height int, mode Readback) (*PixelBuffer, error) {
	pb := &PixelBuffer{Width: width, Height: height}
	switch mode {
	case ReadbackCanvas:
		pb.Bytes = make([]uint8, width*height*4)
		gl.ReadPixels(0, 0, width, height, glapi.RGBA, glapi.UnsignedByte, pb.Bytes)
	case ReadbackRaw:
		pb.Words = make([]uint32, width*height*4)
		gl.ReadPixels(0, 0, width, height, glapi.RGBA, glapi.UnsignedInt, pb.Words)
	default:
		return nil, fmt.Errorf("unknown readback mode %q", mode)
	}
	return pb, glapi.Error(gl, "readPixels")
}

// FlipY reverses the order of the rows.
func (pb *PixelBuffer) FlipY() {
	stride := pb.Width * 4
	for top, bottom := 0, pb.Height-1; top < bottom; top, bottom = top+1, bottom-1 {
		if pb.Bytes != nil {
			swapRows(pb.Bytes, top*stride, bottom*stride, stride)
		} else {
			swapRows(pb.Words, top*stride, bottom*stride, stride)
		}
	}
}

func swapRows[T uint8 | uint32](pix []T, a, b, n int) {
	for i := 0; i < n; i++ {
		pix[a+i], pix[b+i] = pix[b+i], pix[a+i]
	}
}

// Encode converts the pixels to PNG using the encoder that belongs to the
// readback mode.
func (pb *PixelBuffer) Encode() ([]byte, error) {
	if pb.Words != nil {
		return encode.PNG(encode.Words(pb.Words), encode.Options{Width: pb.Width, Height: pb.Height})
	}
	img, err := encode.NewImageData(pb.Bytes, pb.Width, pb.Height)
	if err != nil {
		return nil, err
	}
	canvas := encode.NewCanvas(pb.Width, pb.Height)
	canvas.PutImageData(img, 0, 0)
	return canvas.EncodePNG()
}
