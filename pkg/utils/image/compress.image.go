package image

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // register gif
	"image/jpeg"
	_ "image/png" // register png

	"golang.org/x/image/draw"

	xerrors "rentx-admin/pkg/utils/errors"
)

// DefaultMaxPixels caps width×height of an image Shrink is willing to decode.
const DefaultMaxPixels = 40_000_000

// Limits bounds the size of an image before it is handed to the image host.
// MaxPixels of zero means DefaultMaxPixels.
type Limits struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
	MaxPixels int
}

// Shrink scales an encoded image down so it fits within the limits, preserving its
// aspect ratio, and re-encodes it as JPEG. Images that already fit are returned as-is
// with resized=false. Undecodable input yields ErrUnsupportedFormat; a header
// announcing more than the pixel budget yields ErrImageTooLarge before any decoding.
func Shrink(data []byte, limits Limits) (out []byte, resized bool, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", xerrors.ErrUnsupportedFormat, err)
	}
	budget := limits.MaxPixels
	if budget <= 0 {
		budget = DefaultMaxPixels
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(budget) {
		return nil, false, fmt.Errorf("%w: %dx%d", xerrors.ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", xerrors.ErrUnsupportedFormat, err)
	}

	b := src.Bounds()
	w, h := FitWithin(b.Dx(), b.Dy(), limits.MaxWidth, limits.MaxHeight)
	if w == b.Dx() && h == b.Dy() {
		return data, false, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// JPEG has no alpha; paint white so transparent PNG areas do not turn black.
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	quality := limits.Quality
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, false, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), true, nil
}

// FitWithin returns the largest size with the same aspect ratio as w×h that fits in
// maxW×maxH. A non-positive bound means "unbounded" on that axis. Images are never
// enlarged.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return w, h
	}
	scale := 1.0
	if maxW > 0 && w > maxW {
		scale = float64(maxW) / float64(w)
	}
	if maxH > 0 && float64(h)*scale > float64(maxH) {
		scale = float64(maxH) / float64(h)
	}
	if scale >= 1.0 {
		return w, h
	}
	nw := int(float64(w)*scale + 0.5)
	nh := int(float64(h)*scale + 0.5)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}
