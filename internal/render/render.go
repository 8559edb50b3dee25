// Package render draws a packing result as a raster image.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math/bits"

	"github.com/disintegration/imaging"

	"github.com/eugenenazirov/boxpack/internal/packer"
)

var (
	// ErrInvalidScale is returned for a scale below 1.
	ErrInvalidScale = errors.New("scale must be a positive integer")
	// ErrTooLarge is returned when the scaled image would exceed MaxPixels.
	ErrTooLarge = errors.New("rendered image too large")
)

const (
	// MaxPixels bounds the scaled output image.
	MaxPixels = 64 << 20
	// MaxScale is the largest scale the outer surfaces accept.
	MaxScale = 16
)

var (
	boxFill   = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	emptyFill = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	itemFill  = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	outline   = color.NRGBA{A: 255}
)

// Image draws box and the real placements of res. The box is filled light
// gray with a black outline, or dark gray when nothing was placed. Each item
// is an opaque dark rectangle with a black outline. Sentinel entries are
// skipped. Each unit of the box becomes scale x scale pixels.
func Image(box packer.Box, res packer.Result, scale int) (*image.NRGBA, error) {
	if scale < 1 {
		return nil, ErrInvalidScale
	}
	if err := packer.ValidateBox(box); err != nil {
		return nil, err
	}
	if !fits(box, scale) {
		return nil, fmt.Errorf("%w: %dx%d at scale %d", ErrTooLarge, box.Width, box.Height, scale)
	}

	bg := boxFill
	if res.Empty() {
		bg = emptyFill
	}
	img := imaging.New(box.Width, box.Height, bg)
	strokeRect(img, img.Bounds(), outline)

	for _, p := range res.Solution() {
		if p.IsSentinel() {
			continue
		}
		r := p.Rect().Intersect(img.Bounds())
		draw.Draw(img, r, image.NewUniform(itemFill), image.Point{}, draw.Src)
		strokeRect(img, r, outline)
	}

	if scale > 1 {
		img = imaging.Resize(img, box.Width*scale, box.Height*scale, imaging.NearestNeighbor)
	}
	return img, nil
}

// fits reports whether box at scale stays within MaxPixels. Every partial
// product is checked so large extents or scales cannot wrap past the bound.
func fits(box packer.Box, scale int) bool {
	pixels := uint64(1)
	for _, f := range []uint64{uint64(box.Width), uint64(box.Height), uint64(scale), uint64(scale)} {
		hi, lo := bits.Mul64(pixels, f)
		if hi != 0 || lo > MaxPixels {
			return false
		}
		pixels = lo
	}
	return true
}

// PNG encodes the rendered result to w.
func PNG(w io.Writer, box packer.Box, res packer.Result, scale int) error {
	img, err := Image(box, res, scale)
	if err != nil {
		return err
	}
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Save writes the rendered result to path; the format follows the extension.
func Save(path string, box packer.Box, res packer.Result, scale int) error {
	img, err := Image(box, res, scale)
	if err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	return nil
}

func strokeRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetNRGBA(x, r.Min.Y, c)
		img.SetNRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetNRGBA(r.Min.X, y, c)
		img.SetNRGBA(r.Max.X-1, y, c)
	}
}
