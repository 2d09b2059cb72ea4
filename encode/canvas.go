package encode

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/gogpu/gg"
)

// ImageData is a block of non-premultiplied RGBA pixels, 4 bytes per pixel,
// top row first.
type ImageData struct {
	Width, Height int
	Data          []uint8
}

func NewImageData(data []uint8, width, height int) (ImageData, error) {
	if width <= 0 || height <= 0 {
		return ImageData{}, fmt.Errorf("invalid image data size %dx%d", width, height)
	}
	if len(data) != width*height*4 {
		return ImageData{}, fmt.Errorf("image data of %d bytes does not match %dx%d", len(data), width, height)
	}
	return ImageData{Width: width, Height: height, Data: data}, nil
}

// Canvas is a 2D pixel surface that can be exported as PNG.
type Canvas struct {
	pixmap *gg.Pixmap
}

func NewCanvas(width, height int) *Canvas {
	return &Canvas{pixmap: gg.NewPixmap(width, height)}
}

func (c *Canvas) Width() int  { return c.pixmap.Width() }
func (c *Canvas) Height() int { return c.pixmap.Height() }

// PutImageData copies img onto the canvas with its top left corner at
// (dx, dy). Pixels outside of the canvas are dropped, nothing is blended.
func (c *Canvas) PutImageData(img ImageData, dx, dy int) {
	dst := c.pixmap.Data()
	w, h := c.Width(), c.Height()
	for y := 0; y < img.Height; y++ {
		ty := dy + y
		if ty < 0 || ty >= h {
			continue
		}
		x0, x1 := 0, img.Width
		if dx < 0 {
			x0 = -dx
		}
		if dx+x1 > w {
			x1 = w - dx
		}
		if x0 >= x1 {
			continue
		}
		src := img.Data[(y*img.Width+x0)*4 : (y*img.Width+x1)*4]
		copy(dst[(ty*w+dx+x0)*4:], src)
	}
}

// EncodePNG exports the canvas as an 8 bit RGBA PNG.
func (c *Canvas) EncodePNG() ([]byte, error) {
	img := &image.NRGBA{
		Pix:    c.pixmap.Data(),
		Stride: c.Width() * 4,
		Rect:   c.pixmap.Bounds(),
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("error encoding canvas: %w", err)
	}
	return buf.Bytes(), nil
}
