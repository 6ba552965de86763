package blp

import (
	"image/color"
	"math"
)

// Palette is the 256-entry RGB lookup table backing indexed content
// (spec §3 "Palette", §4.2 component C2). Raw holds the on-disk
// representation verbatim (each word 0x00BBGGRR, high byte ignored);
// Space says which color space the R/G/B components are expressed in
// when doing color math (nearest-neighbor lookup, blending).
type Palette struct {
	Raw   [256]uint32
	Space ColorSpace

	srgbCache      [256]rgbTriple
	cachePopulated bool
}

// NewPalette builds a palette from up to 256 raw 0x00BBGGRR words.
// Missing entries (len(raw) < 256) are zero-filled, per spec §4.2
// "Palette validation".
func NewPalette(space ColorSpace, raw []uint32) *Palette {
	p := &Palette{Space: space}
	n := len(raw)
	if n > 256 {
		n = 256
	}
	copy(p.Raw[:n], raw[:n])
	return p
}

// DefaultPalette builds the universal 8x8x4 RGB cube fallback used when
// the caller supplies no palette for a write path (spec §4.2, §9). The
// levels are distributed uniformly across sRGB, then converted into
// space.
func DefaultPalette(space ColorSpace) *Palette {
	const rLevels, gLevels, bLevels = 8, 8, 4
	var raw [256]uint32
	i := 0
	for ri := 0; ri < rLevels; ri++ {
		for gi := 0; gi < gLevels; gi++ {
			for bi := 0; bi < bLevels; bi++ {
				srgb := rgbTriple{
					R: float64(ri) / float64(rLevels-1),
					G: float64(gi) / float64(gLevels-1),
					B: float64(bi) / float64(bLevels-1),
				}
				comp := srgb
				if space != ColorSpaceSRGB {
					comp = srgb.toLinear(ColorSpaceSRGB)
				}
				r, g, b := comp.toBytes()
				raw[i] = uint32(b)<<16 | uint32(g)<<8 | uint32(r)
				i++
			}
		}
	}
	return NewPalette(space, raw[:])
}

// NewPaletteFromColorPalette adopts a stdlib color.Palette (as supplied
// by an *image.Paletted color model), converting sRGB 8-bit components
// into space (spec §4.3 "Encoding the palette").
func NewPaletteFromColorPalette(space ColorSpace, pal color.Palette) *Palette {
	var raw [256]uint32
	n := len(pal)
	if n > 256 {
		n = 256
	}
	for i := 0; i < n; i++ {
		r, g, b, _ := pal[i].RGBA()
		srgb := rgbFromBytes(uint8(r>>8), uint8(g>>8), uint8(b>>8))
		comp := srgb
		if space != ColorSpaceSRGB {
			comp = srgb.toLinear(ColorSpaceSRGB)
		}
		rr, gg, bb := comp.toBytes()
		raw[i] = uint32(bb)<<16 | uint32(gg)<<8 | uint32(rr)
	}
	return NewPalette(space, raw[:])
}

func (p *Palette) component(idx uint8) rgbTriple {
	w := p.Raw[idx]
	r := byte(w)
	g := byte(w >> 8)
	b := byte(w >> 16)
	return rgbFromBytes(r, g, b)
}

// RGB returns the 8-bit sRGB display value for palette entry idx.
func (p *Palette) RGB(idx uint8) (r, g, b uint8) {
	return p.component(idx).toSRGB(p.Space).toBytes()
}

// Invalidate must be called after mutating Raw directly, so the sRGB
// quantization cache is rebuilt on next use (spec §9 "rebuild it on any
// palette mutation").
func (p *Palette) Invalidate() { p.cachePopulated = false }

func (p *Palette) populateCache() {
	if p.cachePopulated {
		return
	}
	for i := 0; i < 256; i++ {
		p.srgbCache[i] = p.component(uint8(i)).toSRGB(p.Space)
	}
	p.cachePopulated = true
}

// Quantize returns the palette index nearest to desired (expressed in
// p.Space) by Euclidean distance in sRGB, ties broken by lowest index
// (spec §4.2 "Quantization"). This is explicitly best-effort.
func (p *Palette) Quantize(desired rgbTriple) uint8 {
	p.populateCache()
	target := desired.toSRGB(p.Space)
	best := 0
	bestDist := math.Inf(1)
	for i, e := range p.srgbCache {
		d := target.distSq(e)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return uint8(best)
}

// ColorPalette exposes this Palette as a stdlib color.Palette in sRGB,
// useful for producing *image.Paletted output.
func (p *Palette) ColorPalette() color.Palette {
	pal := make(color.Palette, 256)
	for i := 0; i < 256; i++ {
		r, g, b := p.RGB(uint8(i))
		pal[i] = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	return pal
}
