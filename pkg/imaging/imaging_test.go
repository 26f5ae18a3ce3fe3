package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestFitSize(t *testing.T) {
	cases := []struct {
		w, h, box    int
		wantW, wantH int
	}{
		{1600, 400, 800, 800, 200},
		{400, 1600, 800, 200, 800},
		{1000, 1000, 800, 800, 800},
		{1001, 999, 800, 800, 798},
		{300, 200, 800, 300, 200},
		{800, 800, 800, 800, 800},
		{10000, 1, 800, 800, 1},
	}
	for _, tc := range cases {
		w, h := FitSize(tc.w, tc.h, tc.box)
		if w != tc.wantW || h != tc.wantH {
			t.Errorf("FitSize(%d,%d,%d) = %d,%d want %d,%d", tc.w, tc.h, tc.box, w, h, tc.wantW, tc.wantH)
		}
	}
}

func TestFitPNG(t *testing.T) {
	t.Run("Downscale", func(t *testing.T) {
		out, err := FitPNG(encodePNG(t, 1200, 900), 800)
		if err != nil {
			t.Fatalf("FitPNG: %v", err)
		}
		cfg, err := png.DecodeConfig(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("decode result: %v", err)
		}
		if cfg.Width != 800 || cfg.Height != 600 {
			t.Fatalf("expected 800x600, got %dx%d", cfg.Width, cfg.Height)
		}
	})

	t.Run("SmallImageKeepsSize", func(t *testing.T) {
		out, err := FitPNG(encodePNG(t, 64, 32), 800)
		if err != nil {
			t.Fatalf("FitPNG: %v", err)
		}
		cfg, err := png.DecodeConfig(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("decode result: %v", err)
		}
		if cfg.Width != 64 || cfg.Height != 32 {
			t.Fatalf("expected 64x32, got %dx%d", cfg.Width, cfg.Height)
		}
	})

	t.Run("JPEGInput", func(t *testing.T) {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 1600, 800)), nil); err != nil {
			t.Fatalf("encode jpeg: %v", err)
		}
		out, err := FitPNG(buf.Bytes(), 800)
		if err != nil {
			t.Fatalf("FitPNG: %v", err)
		}
		cfg, err := png.DecodeConfig(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("decode result: %v", err)
		}
		if cfg.Width != 800 || cfg.Height != 400 {
			t.Fatalf("expected 800x400, got %dx%d", cfg.Width, cfg.Height)
		}
	})

	t.Run("Garbage", func(t *testing.T) {
		if _, err := FitPNG([]byte("not an image"), 800); err == nil {
			t.Fatal("expected decode error")
		}
	})
}
