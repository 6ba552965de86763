package blp

import "image"

// WriteParam bundles per-session encode options passed to a Processor
// (spec §6 Encoder Options).
type WriteParam struct {
	Quality   float64   // JPEG quality in [0,1]; default 0.9
	Palette   *Palette  // optional explicit palette for indexed encodes
	DeepCheck bool      // JPEG opaque-alpha scan (spec §4.4 step 5), default on
	Codec     JpegCodec // external JPEG codec; nil selects StdJpegCodec
}

// DefaultWriteParam returns the spec-mandated defaults (quality 0.9,
// deep check on).
func DefaultWriteParam() WriteParam {
	return WriteParam{Quality: 0.9, DeepCheck: true}
}

func (p WriteParam) codec() JpegCodec {
	if p.Codec != nil {
		return p.Codec
	}
	return StdJpegCodec{}
}

// Processor is the tagged-variant capability set spec §9 calls for: one
// implementation per encoding kind (Indexed, Jpeg), no class hierarchy.
// A Processor instance lives for one codec session and accumulates
// palette/shared-header state across mipmaps (spec §3 "Lifecycles").
//
// Preludes and payloads are plain byte slices rather than streams:
// spec §1's non-goals rule out streaming random-access reads without
// the header, so a Decoder normalizes its source into memory once up
// front (see decoder.go) and every Processor method works off slices
// of that buffer.
type Processor interface {
	// ReadPrelude consumes the processor's serialized prelude (palette
	// bytes, or JPEG shared-header bytes) from the front of data and
	// reports how many bytes it consumed.
	ReadPrelude(data []byte) (consumed int, err error)

	// WritePrelude emits the processor's serialized prelude.
	WritePrelude() ([]byte, error)

	// Decode turns one mipmap's raw payload bytes into an image.
	Decode(data []byte, mipIndex int, h StreamHeader, sink WarningSink) (image.Image, error)

	// PrepareRaster normalizes an arbitrary source image into the form
	// this processor's EncodeAll expects for the given header (spec
	// §4.3 "prepareRasterToEncode", §4.4 step 1).
	PrepareRaster(img image.Image, h StreamHeader, param WriteParam) (image.Image, error)

	// EncodeAll runs PrepareRaster on every mipmap level, encodes it, and
	// returns their payload bytes. JPEG needs every level at once to compute the
	// shared header; indexed processing could be done level-by-level but
	// shares the same signature for uniformity (spec §4.7 step 5).
	EncodeAll(rasters []image.Image, h StreamHeader, param WriteParam, sink WarningSink) ([][]byte, error)
}
