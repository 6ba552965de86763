package blp

import (
	"image/color"
	"math"
	"testing"
)

func TestDefaultPaletteHas256Entries(t *testing.T) {
	p := DefaultPalette(ColorSpaceSRGB)
	seen := map[uint32]bool{}
	for _, w := range p.Raw {
		seen[w] = true
	}
	if len(seen) != 256 {
		t.Errorf("DefaultPalette produced %d distinct entries, want 256 (one per cell of the 8x8x4 cube)", len(seen))
	}
}

func TestPaletteRGBRoundTrip(t *testing.T) {
	raw := make([]uint32, 256)
	raw[10] = uint32(0)<<16 | uint32(128)<<8 | uint32(255) // B=0 G=128 R=255
	p := NewPalette(ColorSpaceSRGB, raw)

	r, g, b := p.RGB(10)
	if r != 255 || g != 128 || b != 0 {
		t.Errorf("RGB(10) = (%d,%d,%d), want (255,128,0)", r, g, b)
	}
}

func TestPaletteQuantizeExactMatch(t *testing.T) {
	raw := make([]uint32, 256)
	raw[5] = uint32(0)<<16 | uint32(200)<<8 | uint32(10)
	raw[6] = uint32(0)<<16 | uint32(0)<<8 | uint32(0)
	p := NewPalette(ColorSpaceSRGB, raw)

	target := rgbFromBytes(10, 200, 0)
	idx := p.Quantize(target)
	if idx != 5 {
		t.Errorf("Quantize exact match = %d, want 5", idx)
	}
}

func TestPaletteInvalidateRebuildsCache(t *testing.T) {
	p := NewPalette(ColorSpaceSRGB, make([]uint32, 256))
	_ = p.Quantize(rgbFromBytes(0, 0, 0)) // populate cache

	p.Raw[7] = uint32(0)<<16 | uint32(0)<<8 | uint32(255) // pure red
	p.Invalidate()

	idx := p.Quantize(rgbFromBytes(255, 0, 0))
	if idx != 7 {
		t.Errorf("Quantize after Invalidate = %d, want 7 (stale cache would miss the update)", idx)
	}
}

func TestNewPaletteFromColorPalette(t *testing.T) {
	cp := color.Palette{
		color.NRGBA{R: 255, G: 0, B: 0, A: 255},
		color.NRGBA{R: 0, G: 255, B: 0, A: 255},
	}
	p := NewPaletteFromColorPalette(ColorSpaceSRGB, cp)
	r, g, b := p.RGB(0)
	if r != 255 || g != 0 || b != 0 {
		t.Errorf("entry 0 = (%d,%d,%d), want (255,0,0)", r, g, b)
	}
	r, g, b = p.RGB(1)
	if r != 0 || g != 255 || b != 0 {
		t.Errorf("entry 1 = (%d,%d,%d), want (0,255,0)", r, g, b)
	}
}

func TestSRGBEncodeDecodeInverse(t *testing.T) {
	for _, c := range []float64{0, 0.001, 0.02, 0.5, 0.9, 1.0} {
		got := srgbDecode(srgbEncode(c))
		if math.Abs(got-c) > 1e-9 {
			t.Errorf("srgbDecode(srgbEncode(%v)) = %v, want ~%v", c, got, c)
		}
	}
}

func TestRescaleSample(t *testing.T) {
	cases := []struct {
		sample   uint8
		src, dst int
		want     uint8
	}{
		{15, 4, 4, 15},
		{15, 4, 8, 255},
		{0, 4, 8, 0},
		{255, 8, 4, 15},
		{1, 1, 8, 255},
		{0, 1, 8, 0},
	}
	for _, c := range cases {
		got := rescaleSample(c.sample, c.src, c.dst)
		if got != c.want {
			t.Errorf("rescaleSample(%d, %d->%d) = %d, want %d", c.sample, c.src, c.dst, got, c.want)
		}
	}
}
