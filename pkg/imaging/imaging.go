// Package imaging resizes scene footprint images.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// DefaultBox is the edge of the square footprint images are fitted into.
const DefaultBox = 800

// FitSize returns the dimensions of a w×h image scaled to fit inside a box×box square
// with its aspect ratio kept. Images already inside the box are left at their size.
func FitSize(w, h, box int) (int, int) {
	if w <= 0 || h <= 0 || box <= 0 {
		return w, h
	}
	if w <= box && h <= box {
		return w, h
	}
	// factor = min(box/w, box/h); integer division floors without float drift.
	var nw, nh int
	if w >= h {
		nw, nh = box, h*box/w
	} else {
		nw, nh = w*box/h, box
	}
	return max(nw, 1), max(nh, 1)
}

// Fit scales img to fit inside a box×box square.
func Fit(img image.Image, box int) image.Image {
	b := img.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), box)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// FitPNG decodes raw (PNG, JPEG or GIF), fits it inside a box×box square and
// returns it PNG encoded.
func FitPNG(raw []byte, box int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, Fit(img, box)); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
