package encode

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func decode(t *testing.T, buf []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("invalid png: %v", err)
	}
	return img
}

func TestNewImageData(t *testing.T) {
	if _, err := NewImageData(make([]uint8, 2*3*4), 2, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := NewImageData(make([]uint8, 5), 2, 3); err == nil {
		t.Fatal("expected a size mismatch error")
	}
	if _, err := NewImageData(nil, 0, 3); err == nil {
		t.Fatal("expected an error for an empty image")
	}
}

func TestCanvasRoundTrip(t *testing.T) {
	const w, h = 3, 2
	data := make([]uint8, w*h*4)
	for i := range data {
		data[i] = uint8(i * 10)
	}
	for i := 3; i < len(data); i += 4 {
		data[i] = 255
	}
	img, err := NewImageData(data, w, h)
	if err != nil {
		t.Fatal(err)
	}
	canvas := NewCanvas(w, h)
	canvas.PutImageData(img, 0, 0)

	buf, err := canvas.EncodePNG()
	if err != nil {
		t.Fatal(err)
	}
	decoded := decode(t, buf)
	if b := decoded.Bounds(); b.Dx() != w || b.Dy() != h {
		t.Fatalf("unexpected size %v", b)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			exp := color.NRGBA{R: data[i], G: data[i+1], B: data[i+2], A: data[i+3]}
			if c := color.NRGBAModel.Convert(decoded.At(x, y)); c != exp {
				t.Fatalf("pixel (%d,%d): exp %v, got %v", x, y, exp, c)
			}
		}
	}
}

func TestCanvasKeepsTranslucentColors(t *testing.T) {
	canvas := NewCanvas(1, 1)
	canvas.PutImageData(ImageData{Width: 1, Height: 1, Data: []uint8{255, 128, 0, 64}}, 0, 0)
	buf, err := canvas.EncodePNG()
	if err != nil {
		t.Fatal(err)
	}
	nrgba, ok := decode(t, buf).(*image.NRGBA)
	if !ok {
		t.Fatalf("expected an NRGBA image")
	}
	if !bytes.Equal(nrgba.Pix, []uint8{255, 128, 0, 64}) {
		t.Fatalf("unexpected pixel %v", nrgba.Pix)
	}
}

func TestPutImageDataClips(t *testing.T) {
	canvas := NewCanvas(2, 2)
	src := ImageData{Width: 2, Height: 2, Data: bytes.Repeat([]uint8{1, 2, 3, 4}, 4)}
	canvas.PutImageData(src, 1, -1)

	buf, err := canvas.EncodePNG()
	if err != nil {
		t.Fatal(err)
	}
	nrgba, ok := decode(t, buf).(*image.NRGBA)
	if !ok {
		t.Fatalf("expected an NRGBA image")
	}
	got := nrgba.Pix
	exp := []uint8{
		0, 0, 0, 0, 1, 2, 3, 4,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	if !bytes.Equal(got, exp) {
		t.Fatalf("unexpected data:\nexp %v\ngot %v", exp, got)
	}
}
