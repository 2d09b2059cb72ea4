package encode

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestPNGSizes(t *testing.T) {
	sizes := [][2]int{{1, 1}, {320, 240}, {7, 3}, {1, 64}}
	for _, size := range sizes {
		w, h := size[0], size[1]
		for _, depth := range []int{1, 2, 4} {
			buf, err := PNG(make([]byte, w*h*4*depth), Options{Width: w, Height: h})
			if err != nil {
				t.Fatalf("%dx%d depth %d: %v", w, h, depth, err)
			}
			cfg, err := png.DecodeConfig(bytes.NewReader(buf))
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Width != w || cfg.Height != h {
				t.Fatalf("unexpected size: exp %dx%d, got %dx%d", w, h, cfg.Width, cfg.Height)
			}
			wide := cfg.ColorModel == color.NRGBA64Model || cfg.ColorModel == color.RGBA64Model
			if wide != (depth > 1) {
				t.Fatalf("depth %d: unexpected color model %v", depth, cfg.ColorModel)
			}
		}
	}
}

func TestPNGWords(t *testing.T) {
	words := []uint32{
		0xffffffff, 0x80808080, 0, 0xffffffff,
		0x01010101, 0x02020202, 0x03030303, 0x40404040,
	}
	buf, err := PNG(Words(words), Options{Width: 2, Height: 1})
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(buf))
	if err != nil {
		t.Fatal(err)
	}
	nrgba, ok := img.(*image.NRGBA64)
	if !ok {
		t.Fatalf("expected a 16 bit NRGBA image, got %T", img)
	}
	exp := []color.NRGBA64{
		{R: 0xffff, G: 0x8080, B: 0, A: 0xffff},
		{R: 0x0101, G: 0x0202, B: 0x0303, A: 0x4040},
	}
	for x, e := range exp {
		if c := nrgba.NRGBA64At(x, 0); c != e {
			t.Fatalf("pixel %d: exp %v, got %v", x, e, c)
		}
	}
}

func TestPNGInvalidInput(t *testing.T) {
	if _, err := PNG(make([]byte, 10), Options{Width: 2, Height: 2}); err == nil {
		t.Fatal("expected an error for a short buffer")
	}
	if _, err := PNG(make([]byte, 2*2*4*3), Options{Width: 2, Height: 2}); err == nil {
		t.Fatal("expected an error for 3 bytes per channel")
	}
	if _, err := PNG(nil, Options{}); err == nil {
		t.Fatal("expected an error for a zero size")
	}
}

func TestWordsLayout(t *testing.T) {
	if got := Words([]uint32{0x04030201}); !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Fatalf("unexpected layout %v", got)
	}
}
