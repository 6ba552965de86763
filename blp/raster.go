package blp

import (
	"image"
	"image/color"
)

// IndexedRaster is the (buffer, dimensions, PixelFormat) triad backing
// indexed-payload mipmaps (spec §9 "color-model/raster/sample-model
// triad"). Pix is laid out per Layout (band 0 index, optional band 1
// alpha); Palette and Space give it a ColorModel so it satisfies
// image.Image.
type IndexedRaster struct {
	Layout  PackedSampleLayout
	Pix     []byte
	Palette *Palette
	Space   ColorSpace
}

// NewIndexedRaster allocates a zeroed raster of the given layout.
func NewIndexedRaster(layout PackedSampleLayout, pal *Palette, space ColorSpace) *IndexedRaster {
	return &IndexedRaster{
		Layout:  layout,
		Pix:     make([]byte, layout.BufferSize()),
		Palette: pal,
		Space:   space,
	}
}

func (r *IndexedRaster) ColorModel() color.Model {
	return color.NRGBAModel
}

func (r *IndexedRaster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Layout.Width, r.Layout.Height)
}

// At implements image.Image; out-of-range coordinates return transparent
// black rather than erroring, matching the stdlib image.Image contract.
func (r *IndexedRaster) At(x, y int) color.Color {
	idx, err := r.Layout.GetIndex(r.Pix, x, y)
	if err != nil {
		return color.NRGBA{}
	}
	rr, gg, bb := r.Palette.RGB(idx)
	a := uint8(255)
	if r.Layout.AlphaBits > 0 {
		raw, _ := r.Layout.GetAlpha(r.Pix, x, y)
		a = rescaleSample(raw, r.Layout.AlphaBits, 8)
	}
	return color.NRGBA{R: rr, G: gg, B: bb, A: a}
}

// HasAlpha reports whether this raster carries a distinct alpha band.
func (r *IndexedRaster) HasAlpha() bool { return r.Layout.AlphaBits > 0 }
