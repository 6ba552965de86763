package blp

import (
	"image"
	"image/color"
	"testing"
)

func makeRGBAImage(w, h int, alpha uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8((x * 37) % 256),
				G: uint8((y * 53) % 256),
				B: uint8((x + y) % 256),
				A: alpha,
			})
		}
	}
	return img
}

func TestJpegProcessorPreludeRoundTrip(t *testing.T) {
	p := &JpegProcessor{SharedHeader: []byte{1, 2, 3, 4, 5}}
	prelude, err := p.WritePrelude()
	if err != nil {
		t.Fatalf("WritePrelude: %v", err)
	}

	p2 := NewJpegProcessor()
	consumed, err := p2.ReadPrelude(prelude)
	if err != nil {
		t.Fatalf("ReadPrelude: %v", err)
	}
	if consumed != len(prelude) {
		t.Errorf("consumed = %d, want %d", consumed, len(prelude))
	}
	if string(p2.SharedHeader) != string(p.SharedHeader) {
		t.Errorf("SharedHeader = %v, want %v", p2.SharedHeader, p.SharedHeader)
	}
}

func TestJpegProcessorReadPreludeTruncated(t *testing.T) {
	p := NewJpegProcessor()
	_, err := p.ReadPrelude([]byte{100, 0, 0, 0}) // claims 100 bytes, has none
	if err != ErrEndOfStream {
		t.Errorf("err = %v, want ErrEndOfStream", err)
	}
}

func TestJpegProcessorReadPreludeWarnsOnOversizedHeader(t *testing.T) {
	p := NewJpegProcessor()
	big := make([]byte, MaxSharedJpegHeader+1)
	data := make([]byte, 4+len(big))
	data[0] = byte(len(big))
	data[1] = byte(len(big) >> 8)
	copy(data[4:], big)

	var warnings []Warning
	_, err := p.readPreludeWithWarning(data, CollectingSink(&warnings))
	if err != nil {
		t.Fatalf("readPreludeWithWarning: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Kind != WarnBadJpegHeader {
		t.Errorf("warnings = %+v, want one WarnBadJpegHeader", warnings)
	}
}

func TestJpegProcessorEncodeDecodeRoundTrip(t *testing.T) {
	h := StreamHeader{Encoding: EncodingJPEG, Width: 8, Height: 8, AlphaBits: 8}
	src := makeRGBAImage(8, 8, 200)

	p := NewJpegProcessor()
	payloads, err := p.EncodeAll([]image.Image{src}, h, DefaultWriteParam(), nil)
	if err != nil {
		t.Fatalf("EncodeAll: %v", err)
	}
	if len(payloads) != 1 {
		t.Fatalf("payloads = %d, want 1", len(payloads))
	}

	p2 := NewJpegProcessor()
	p2.SharedHeader = p.SharedHeader
	img, err := p2.Decode(payloads[0], 0, h, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Errorf("decoded bounds = %v, want 8x8", img.Bounds())
	}
}

func TestJpegProcessorSharedHeaderAcrossLevels(t *testing.T) {
	h := StreamHeader{Encoding: EncodingJPEG, Width: 8, Height: 8, AlphaBits: 0}
	a := makeRGBAImage(8, 8, 255)
	b := makeRGBAImage(4, 4, 255)

	p := NewJpegProcessor()
	_, err := p.EncodeAll([]image.Image{a, b}, h, DefaultWriteParam(), nil)
	if err != nil {
		t.Fatalf("EncodeAll: %v", err)
	}
	if len(p.SharedHeader) == 0 {
		t.Error("expected a non-empty common JPEG header prefix across levels")
	}
	if len(p.SharedHeader) > MaxSharedJpegHeader {
		t.Errorf("SharedHeader len = %d, exceeds MaxSharedJpegHeader %d", len(p.SharedHeader), MaxSharedJpegHeader)
	}
}

func TestJpegProcessorDeepCheckWarnsOnHiddenAlpha(t *testing.T) {
	h := StreamHeader{Encoding: EncodingJPEG, Width: 4, Height: 4, AlphaBits: 0}
	src := makeRGBAImage(4, 4, 100) // non-opaque, but the decode header declares no alpha

	// Encode under an 8-bit-alpha header: with AlphaBits 0, PrepareRaster
	// would force every pixel opaque before it reaches the codec.
	encH := h
	encH.AlphaBits = 8
	p := NewJpegProcessor()
	payloads, err := p.EncodeAll([]image.Image{src}, encH, DefaultWriteParam(), nil)
	if err != nil {
		t.Fatalf("EncodeAll: %v", err)
	}

	p2 := NewJpegProcessor()
	p2.SharedHeader = p.SharedHeader
	var warnings []Warning
	_, err = p2.decodeWithParam(payloads[0], 0, h, WriteParam{DeepCheck: true}, CollectingSink(&warnings))
	if err != nil {
		t.Fatalf("decodeWithParam: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Kind != WarnBadPixelAlpha {
		t.Errorf("warnings = %+v, want one WarnBadPixelAlpha", warnings)
	}
}

func TestPermuteBandsIsSelfInverse(t *testing.T) {
	src := []byte{10, 20, 30, 40, 50, 60, 70, 80}
	once := make([]byte, len(src))
	twice := make([]byte, len(src))
	permuteBands(once, src, 2, 1, bgraToRGBA)
	permuteBands(twice, once, 2, 1, bgraToRGBA)
	for i := range src {
		if twice[i] != src[i] {
			t.Fatalf("permuteBands applied twice != identity at %d: got %v, want %v", i, twice, src)
		}
	}
}
