package raster

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/transform"

	"GenCanvas/internal/geom"
)

// CropImage cuts the sub-region of the element's pixels that corresponds to
// crop, where display is the element's on-canvas bounds. The crop is
// destructive: pixels outside the region are discarded from the returned
// encoding. crop is clamped to display before mapping into pixel space.
func CropImage(href string, display, crop geom.Rect) (Encoded, error) {
	img, err := DecodeDataURI(href)
	if err != nil {
		return Encoded{}, err
	}
	crop = clampRect(crop, display)
	if crop.W <= 0 || crop.H <= 0 || display.W <= 0 || display.H <= 0 {
		return Encoded{}, fmt.Errorf("crop: degenerate rect")
	}

	ib := img.Bounds()
	sx := float32(ib.Dx()) / display.W
	sy := float32(ib.Dy()) / display.H
	px := image.Rect(
		ib.Min.X+int((crop.X-display.X)*sx),
		ib.Min.Y+int((crop.Y-display.Y)*sy),
		ib.Min.X+int((crop.X-display.X+crop.W)*sx),
		ib.Min.Y+int((crop.Y-display.Y+crop.H)*sy),
	).Intersect(ib)
	if px.Empty() {
		return Encoded{}, fmt.Errorf("crop: empty pixel region")
	}
	return EncodePNG(transform.Crop(img, px))
}

// Resize scales decoded pixels to the given size with bilinear filtering.
func Resize(href string, w, h int) (Encoded, error) {
	img, err := DecodeDataURI(href)
	if err != nil {
		return Encoded{}, err
	}
	if w <= 0 || h <= 0 {
		return Encoded{}, fmt.Errorf("resize: invalid size %dx%d", w, h)
	}
	return EncodePNG(transform.Resize(img, w, h, transform.Linear))
}

func clampRect(r, within geom.Rect) geom.Rect {
	r = r.Normalized()
	if r.X < within.X {
		r.W -= within.X - r.X
		r.X = within.X
	}
	if r.Y < within.Y {
		r.H -= within.Y - r.Y
		r.Y = within.Y
	}
	if r.X+r.W > within.X+within.W {
		r.W = within.X + within.W - r.X
	}
	if r.Y+r.H > within.Y+within.H {
		r.H = within.Y + within.H - r.Y
	}
	return r
}
