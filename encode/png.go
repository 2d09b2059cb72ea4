package encode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
)

// Options describes a raw pixel buffer passed to PNG.
type Options struct {
	Width  int
	Height int
}

// PNG encodes a raw buffer of RGBA pixels, top row first. The channel depth
// is derived from the length of raw:
//
//	1 byte per channel:  8 bit PNG
//	2 bytes per channel: 16 bit PNG, big endian samples
//	4 bytes per channel: 16 bit PNG from the high half of little endian words
func PNG(raw []byte, opts Options) ([]byte, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", opts.Width, opts.Height)
	}
	pixels := opts.Width * opts.Height * 4
	if len(raw)%pixels != 0 {
		return nil, fmt.Errorf("buffer of %d bytes does not match %dx%d RGBA", len(raw), opts.Width, opts.Height)
	}
	rect := image.Rect(0, 0, opts.Width, opts.Height)

	var img image.Image
	switch depth := len(raw) / pixels; depth {
	case 1:
		img = &image.NRGBA{Pix: raw, Stride: opts.Width * 4, Rect: rect}
	case 2:
		img = &image.NRGBA64{Pix: raw, Stride: opts.Width * 8, Rect: rect}
	case 4:
		pix := make([]uint8, pixels*2)
		for i := 0; i < pixels; i++ {
			w := binary.LittleEndian.Uint32(raw[i*4:])
			binary.BigEndian.PutUint16(pix[i*2:], uint16(w>>16))
		}
		img = &image.NRGBA64{Pix: pix, Stride: opts.Width * 8, Rect: rect}
	default:
		return nil, fmt.Errorf("unsupported channel depth of %d bytes", depth)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Words serializes 32 bit channel values the way they are laid out in memory
// on little endian hosts, for use with PNG.
func Words(words []uint32) []byte {
	raw := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(raw[i*4:], w)
	}
	return raw
}
