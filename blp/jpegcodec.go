package blp

import (
	"bytes"
	"image"
	"image/jpeg"
)

// Raster4 is a raw 4-band, 8-bit-per-sample pixel buffer, the shape the
// JpegCodec boundary trades in (spec §1 "requesting raster output with
// exactly 4 bands"). Band order is whatever the codec produced/expects;
// JpegProcessor is responsible for the BGRA<->RGBA permutation.
type Raster4 struct {
	W, H int
	Pix  []byte // len == 4*W*H
}

// NewRaster4 allocates a zeroed 4-band raster.
func NewRaster4(w, h int) *Raster4 {
	return &Raster4{W: w, H: h, Pix: make([]byte, 4*w*h)}
}

// JpegCodec is the external collaborator boundary declared out of scope
// by spec §1: "The core consumes a JpegDecode(bytes) -> raster and
// JpegEncode(raster, quality) -> bytes capability." Swap in a different
// implementation (e.g. one backed by a platform JPEG library) to change
// fidelity/performance without touching the container logic. sink lets
// an implementation report codec-level warnings (spec §4.8/C8); it may
// be nil.
type JpegCodec interface {
	Decode(jpegBytes []byte, sink WarningSink) (*Raster4, error)
	Encode(r *Raster4, quality float64, sink WarningSink) ([]byte, error)
	Vendor() string
}

// StdJpegCodec is the default JpegCodec, built on the standard library's
// image/jpeg. It carries the 4th band through image.CMYK, which is the
// only 4-component JPEG representation image/jpeg understands; this
// keeps encode/decode self-consistent for round-tripping but is not
// guaranteed to be byte-compatible with third-party BLP encoders that
// use a non-Adobe 4-component convention (spec §1 treats this codec as
// swappable precisely because of that ambiguity).
type StdJpegCodec struct{}

// Vendor identifies this codec in warnings it emits.
func (StdJpegCodec) Vendor() string { return "image/jpeg (stdlib)" }

func (c StdJpegCodec) Encode(r *Raster4, quality float64, sink WarningSink) ([]byte, error) {
	img := image.NewCMYK(image.Rect(0, 0, r.W, r.H))
	copy(img.Pix, r.Pix)

	requested := int(quality*100 + 0.5)
	q := requested
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}
	if q != requested {
		emit(sink, Warning{
			Kind:     WarnJpegEncoderWarning,
			Mipmap:   -1,
			Message:  "requested JPEG quality clamped to codec's supported range",
			Actual:   requested,
			Expected: q,
			Vendor:   c.Vendor(),
		})
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
		return nil, &JpegError{Op: "encode", Err: err}
	}
	return buf.Bytes(), nil
}

func (c StdJpegCodec) Decode(data []byte, sink WarningSink) (*Raster4, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &JpegError{Op: "decode", Err: err}
	}

	if cmyk, ok := img.(*image.CMYK); ok {
		w, h := cmyk.Rect.Dx(), cmyk.Rect.Dy()
		out := NewRaster4(w, h)
		for y := 0; y < h; y++ {
			srcRow := cmyk.Pix[y*cmyk.Stride : y*cmyk.Stride+4*w]
			copy(out.Pix[y*4*w:(y+1)*4*w], srcRow)
		}
		return out, nil
	}

	// Fallback: a genuine 3-component JPEG (no synthetic alpha band).
	// Treat it as fully opaque, laid out band-for-band as BGRA so the
	// processor's BGRA->RGBA permutation still produces the right image.
	emit(sink, Warning{
		Kind:    WarnJpegDecoderWarning,
		Mipmap:  -1,
		Message: "JPEG payload carries no fourth (alpha) component; treating as opaque",
		Vendor:  c.Vendor(),
	})

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := NewRaster4(w, h)
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			rr, gg, bb, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out.Pix[i+0] = uint8(bb >> 8)
			out.Pix[i+1] = uint8(gg >> 8)
			out.Pix[i+2] = uint8(rr >> 8)
			out.Pix[i+3] = 255
			i += 4
		}
	}
	return out, nil
}
