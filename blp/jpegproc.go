package blp

import (
	"encoding/binary"
	"image"
	"image/color"
)

// MaxSharedJpegHeader is the soft ceiling on the shared JPEG header
// length (spec §3/§4.4).
const MaxSharedJpegHeader = 624

// bgraToRGBA is the self-inverse band permutation spec §4.4/§9 describe;
// it is used identically for decode (BGRA->RGBA) and encode
// (RGBA->BGRA).
var bgraToRGBA = [4]int{2, 1, 0, 3}

func permuteBands(dst, src []byte, w, h int, perm [4]int) {
	n := w * h
	for i := 0; i < n; i++ {
		so := i * 4
		do := i * 4
		for b := 0; b < 4; b++ {
			dst[do+b] = src[so+perm[b]]
		}
	}
}

// JpegProcessor implements Processor for JPEG-payload mipmaps sharing a
// common byte prefix (spec §4.4, component C4).
type JpegProcessor struct {
	SharedHeader []byte
}

func NewJpegProcessor() *JpegProcessor { return &JpegProcessor{} }

func (p *JpegProcessor) ReadPrelude(data []byte) (int, error) {
	if len(data) < 4 {
		return 0, ErrEndOfStream
	}
	n := int(binary.LittleEndian.Uint32(data[0:4]))
	if n < 0 || 4+n > len(data) {
		return 0, ErrEndOfStream
	}
	p.SharedHeader = append([]byte(nil), data[4:4+n]...)
	return 4 + n, nil
}

// readPreludeWithWarning is used by the driver, which has access to the
// warning sink; ReadPrelude alone can't emit BAD_JPEG_HEADER since
// Processor.ReadPrelude has no sink parameter. The driver calls this
// variant instead of the plain interface method.
func (p *JpegProcessor) readPreludeWithWarning(data []byte, sink WarningSink) (int, error) {
	if len(data) < 4 {
		return 0, ErrEndOfStream
	}
	n := int(binary.LittleEndian.Uint32(data[0:4]))
	if n < 0 || 4+n > len(data) {
		return 0, ErrEndOfStream
	}
	if n > MaxSharedJpegHeader {
		emit(sink, Warning{
			Kind:     WarnBadJpegHeader,
			Mipmap:   -1,
			Message:  "shared JPEG header exceeds soft limit",
			Actual:   n,
			Expected: MaxSharedJpegHeader,
		})
	}
	p.SharedHeader = append([]byte(nil), data[4:4+n]...)
	return 4 + n, nil
}

func (p *JpegProcessor) WritePrelude() ([]byte, error) {
	buf := make([]byte, 4+len(p.SharedHeader))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(p.SharedHeader)))
	copy(buf[4:], p.SharedHeader)
	return buf, nil
}

func (p *JpegProcessor) Decode(data []byte, mipIndex int, h StreamHeader, sink WarningSink) (image.Image, error) {
	return p.decodeWithParam(data, mipIndex, h, DefaultWriteParam(), sink)
}

func (p *JpegProcessor) decodeWithParam(data []byte, mipIndex int, h StreamHeader, param WriteParam, sink WarningSink) (image.Image, error) {
	full := make([]byte, 0, len(p.SharedHeader)+len(data))
	full = append(full, p.SharedHeader...)
	full = append(full, data...)

	raster, err := param.codec().Decode(full, mipmapSink(sink, mipIndex))
	if err != nil {
		return nil, err
	}

	permuted := NewRaster4(raster.W, raster.H)
	permuteBands(permuted.Pix, raster.Pix, raster.W, raster.H, bgraToRGBA)

	wantW, wantH := h.MipmapDimensions(mipIndex)
	if permuted.W != wantW || permuted.H != wantH {
		emit(sink, Warning{
			Kind:    WarnBadMipmapDimension,
			Mipmap:  mipIndex,
			Message: "decoded JPEG dimensions do not match expected mipmap dimensions",
		})
		permuted = fitRaster4(permuted, wantW, wantH)
	}

	if h.AlphaBits == 0 && param.DeepCheck {
		transparent := 0
		total := permuted.W * permuted.H
		for i := 0; i < total; i++ {
			if permuted.Pix[i*4+3] != 255 {
				transparent++
			}
		}
		if transparent > 0 {
			emit(sink, Warning{
				Kind:     WarnBadPixelAlpha,
				Mipmap:   mipIndex,
				Message:  "opaque-alpha image contains non-opaque pixels",
				Actual:   transparent,
				Expected: total,
			})
		}
	}

	return &jpegRaster{r: permuted, exposeAlpha: h.AlphaBits == 8}, nil
}

// fitRaster4 crops or pads (transparent black) permuted to (w,h) on the
// right/bottom edges, per spec §4.4 step 4.
func fitRaster4(src *Raster4, w, h int) *Raster4 {
	dst := NewRaster4(w, h)
	copyW := min(src.W, w)
	copyH := min(src.H, h)
	for y := 0; y < copyH; y++ {
		copy(dst.Pix[y*4*w:y*4*w+4*copyW], src.Pix[y*4*src.W:y*4*src.W+4*copyW])
	}
	return dst
}

// jpegRaster adapts a Raster4 (RGBA order after permutation) to
// image.Image, hiding the alpha band unless the header declares 8-bit
// alpha (spec §4.4 step 6).
type jpegRaster struct {
	r           *Raster4
	exposeAlpha bool
}

func (j *jpegRaster) ColorModel() color.Model { return color.NRGBAModel }
func (j *jpegRaster) Bounds() image.Rectangle { return image.Rect(0, 0, j.r.W, j.r.H) }
func (j *jpegRaster) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= j.r.W || y >= j.r.H {
		return color.NRGBA{}
	}
	o := (y*j.r.W + x) * 4
	a := uint8(255)
	if j.exposeAlpha {
		a = j.r.Pix[o+3]
	}
	return color.NRGBA{R: j.r.Pix[o+0], G: j.r.Pix[o+1], B: j.r.Pix[o+2], A: a}
}

// PrepareRaster normalizes img to 4-band 8-bit RGBA, overwriting alpha
// to 255 when the header declares no alpha channel (spec §4.4 step 1).
func (p *JpegProcessor) PrepareRaster(img image.Image, h StreamHeader, param WriteParam) (image.Image, error) {
	b := img.Bounds()
	w, ht := b.Dx(), b.Dy()
	r := NewRaster4(w, ht)
	i := 0
	for y := 0; y < ht; y++ {
		for x := 0; x < w; x++ {
			rr, gg, bb, aa := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			r.Pix[i+0] = uint8(rr >> 8)
			r.Pix[i+1] = uint8(gg >> 8)
			r.Pix[i+2] = uint8(bb >> 8)
			if h.AlphaBits == 0 {
				r.Pix[i+3] = 255
			} else {
				r.Pix[i+3] = uint8(aa >> 8)
			}
			i += 4
		}
	}
	return &jpegRaster{r: r, exposeAlpha: h.AlphaBits == 8}, nil
}

func (p *JpegProcessor) EncodeAll(rasters []image.Image, h StreamHeader, param WriteParam, sink WarningSink) ([][]byte, error) {
	full := make([][]byte, len(rasters))
	for i, img := range rasters {
		prepared, err := p.PrepareRaster(img, h, param)
		if err != nil {
			return nil, err
		}
		jr := prepared.(*jpegRaster)

		bgra := NewRaster4(jr.r.W, jr.r.H)
		permuteBands(bgra.Pix, jr.r.Pix, jr.r.W, jr.r.H, bgraToRGBA)

		enc, err := param.codec().Encode(bgra, orDefault(param.Quality, 0.9), mipmapSink(sink, i))
		if err != nil {
			return nil, err
		}
		full[i] = enc
	}

	p.SharedHeader = commonPrefix(full, MaxSharedJpegHeader)

	out := make([][]byte, len(full))
	for i, enc := range full {
		out[i] = append([]byte(nil), enc[len(p.SharedHeader):]...)
	}
	return out, nil
}

// mipmapSink attaches mip to every warning a JpegCodec reports before
// forwarding it to the real sink, since the codec operates below the
// mipmap level and has no way to know which level it was decoding or
// encoding.
func mipmapSink(base WarningSink, mip int) WarningSink {
	if base == nil {
		return nil
	}
	return func(w Warning) {
		w.Mipmap = mip
		base(w)
	}
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

// commonPrefix returns the longest common byte prefix across all
// entries, truncated to maxLen (spec §3 "JpegSharedHeader").
func commonPrefix(entries [][]byte, maxLen int) []byte {
	if len(entries) == 0 {
		return nil
	}
	prefixLen := len(entries[0])
	for _, e := range entries[1:] {
		if len(e) < prefixLen {
			prefixLen = len(e)
		}
	}
	for i := 0; i < prefixLen; i++ {
		b := entries[0][i]
		for _, e := range entries[1:] {
			if e[i] != b {
				prefixLen = i
				goto done
			}
		}
	}
done:
	if prefixLen > maxLen {
		prefixLen = maxLen
	}
	return append([]byte(nil), entries[0][:prefixLen]...)
}
