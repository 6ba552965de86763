package blp

import (
	"encoding/binary"
	"image"
	"image/color"
)

// PaletteSize is the fixed on-disk size of the indexed prelude: 256
// little-endian 32-bit palette words (spec §4.3).
const PaletteSize = 256 * 4

// IndexedProcessor implements Processor for palettised 8-bit-index (+
// optional sub-byte alpha) mipmap payloads (spec §4.3, component C3).
type IndexedProcessor struct {
	Palette *Palette
	Space   ColorSpace
}

// NewIndexedProcessor creates a processor with no palette yet; one must
// be established via ReadPrelude (decode) or PrepareRaster/WritePrelude
// (encode, where a WriteParam.Palette or DefaultPalette supplies it).
func NewIndexedProcessor(space ColorSpace) *IndexedProcessor {
	return &IndexedProcessor{Space: space}
}

func (p *IndexedProcessor) ReadPrelude(data []byte) (int, error) {
	if len(data) < PaletteSize {
		return 0, ErrEndOfStream
	}
	raw := make([]uint32, 256)
	for i := 0; i < 256; i++ {
		raw[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	p.Palette = NewPalette(p.Space, raw)
	return PaletteSize, nil
}

func (p *IndexedProcessor) WritePrelude() ([]byte, error) {
	if p.Palette == nil {
		p.Palette = DefaultPalette(p.Space)
	}
	buf := make([]byte, PaletteSize)
	for i := 0; i < 256; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:], p.Palette.Raw[i])
	}
	return buf, nil
}

func (p *IndexedProcessor) layoutFor(h StreamHeader, mipIndex int) PackedSampleLayout {
	w, ht := h.MipmapDimensions(mipIndex)
	return PackedSampleLayout{Width: w, Height: ht, AlphaBits: h.AlphaBits}
}

func (p *IndexedProcessor) Decode(data []byte, mipIndex int, h StreamHeader, sink WarningSink) (image.Image, error) {
	layout := p.layoutFor(h, mipIndex)
	expected := layout.BufferSize()

	buf := data
	if len(data) != expected {
		emit(sink, Warning{
			Kind:     WarnBadDataBuffer,
			Mipmap:   mipIndex,
			Message:  "mipmap payload size does not match expected buffer size",
			Actual:   len(data),
			Expected: expected,
		})
		buf = make([]byte, expected)
		copy(buf, data) // right-pads with zero, or truncates via copy's min-len semantics
	}

	if p.Palette == nil {
		p.Palette = DefaultPalette(p.Space)
	}

	return &IndexedRaster{Layout: layout, Pix: buf, Palette: p.Palette, Space: p.Space}, nil
}

// PrepareRaster returns img unchanged when it is already an
// *IndexedRaster whose layout matches the target (spec §4.3 "copy its
// data buffer verbatim"); otherwise it rebuilds a compliant raster.
func (p *IndexedProcessor) PrepareRaster(img image.Image, h StreamHeader, param WriteParam) (image.Image, error) {
	// Determine the target layout from img's own bounds: the driver
	// calls PrepareRaster once per already-sized mipmap level.
	b := img.Bounds()
	target := PackedSampleLayout{Width: b.Dx(), Height: b.Dy(), AlphaBits: h.AlphaBits}

	if ir, ok := img.(*IndexedRaster); ok && ir.Layout.CompatibleWith(target) {
		// The buffer passes through verbatim, but the palette it indexes
		// into is still adopted so WritePrelude emits it.
		if ir.Palette != nil || param.Palette != nil {
			if err := p.adoptPalette(img, param); err != nil {
				return nil, err
			}
		}
		return ir, nil
	}

	if err := p.adoptPalette(img, param); err != nil {
		return nil, err
	}

	out := NewIndexedRaster(target, p.Palette, p.Space)

	if ir, ok := img.(*IndexedRaster); ok {
		// Same dimensions/alpha depth mismatch only: copy index band
		// directly, rescale alpha band.
		for y := 0; y < target.Height; y++ {
			for x := 0; x < target.Width; x++ {
				idx, _ := ir.Layout.GetIndex(ir.Pix, x, y)
				_ = target.SetIndex(out.Pix, x, y, idx)
				if target.AlphaBits > 0 {
					var a uint8 = uint8(1<<uint(target.AlphaBits)) - 1
					if ir.Layout.AlphaBits > 0 {
						raw, _ := ir.Layout.GetAlpha(ir.Pix, x, y)
						a = rescaleSample(raw, ir.Layout.AlphaBits, target.AlphaBits)
					}
					_ = target.SetAlpha(out.Pix, x, y, a)
				}
			}
		}
		return out, nil
	}

	// Generic image: assumes samples are already palette indices in the
	// color model's index (spec §4.3 "assumes samples are already
	// palette indices"); alpha comes from the image's own alpha channel
	// when present, else filled to max.
	paletted, isPaletted := img.(*image.Paletted)
	for y := 0; y < target.Height; y++ {
		for x := 0; x < target.Width; x++ {
			var idx uint8
			if isPaletted {
				idx = paletted.ColorIndexAt(b.Min.X+x, b.Min.Y+y)
			} else {
				r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				idx = uint8(r >> 8)
			}
			_ = target.SetIndex(out.Pix, x, y, idx)

			if target.AlphaBits > 0 {
				maxAlpha := uint8(1<<uint(target.AlphaBits)) - 1
				_, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				if hasAlphaChannel(img) {
					sample8 := uint8(a >> 8)
					_ = target.SetAlpha(out.Pix, x, y, rescaleSample(sample8, 8, target.AlphaBits))
				} else {
					_ = target.SetAlpha(out.Pix, x, y, maxAlpha)
				}
			}
		}
	}
	return out, nil
}

func hasAlphaChannel(img image.Image) bool {
	switch img.ColorModel() {
	case color.NRGBAModel, color.RGBAModel, color.NRGBA64Model, color.RGBA64Model:
		return true
	default:
		return false
	}
}

// adoptPalette resolves the palette to use for an encode session, per
// spec §4.3 "Encoding the palette": adopt an existing color-model
// palette when present, use an explicit WriteParam.Palette, or fail
// with PaletteRequired.
func (p *IndexedProcessor) adoptPalette(img image.Image, param WriteParam) error {
	if p.Palette != nil {
		return nil
	}
	if param.Palette != nil {
		p.Palette = param.Palette
		return nil
	}
	if ir, ok := img.(*IndexedRaster); ok && ir.Palette != nil {
		p.Palette = ir.Palette
		return nil
	}
	if paletted, ok := img.(*image.Paletted); ok {
		if len(paletted.Palette) > 256 {
			return ErrTooManyColors
		}
		p.Palette = NewPaletteFromColorPalette(p.Space, paletted.Palette)
		return nil
	}
	return ErrPaletteRequired
}

func (p *IndexedProcessor) EncodeAll(rasters []image.Image, h StreamHeader, param WriteParam, sink WarningSink) ([][]byte, error) {
	out := make([][]byte, len(rasters))
	for i, r := range rasters {
		prepared, err := p.PrepareRaster(r, headerForLevel(h, i), param)
		if err != nil {
			return nil, err
		}
		ir := prepared.(*IndexedRaster)
		out[i] = append([]byte(nil), ir.Pix...)
	}
	return out, nil
}

// headerForLevel returns a copy of h with dimensions overridden to
// mipmap i's, so PrepareRaster's target-layout derivation (which reads
// from the passed image's own bounds, not h) stays consistent when
// called standalone outside EncodeAll.
func headerForLevel(h StreamHeader, i int) StreamHeader {
	w, ht := h.MipmapDimensions(i)
	h.Width, h.Height = w, ht
	return h
}
