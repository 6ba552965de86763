package blp

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func TestStdJpegCodecVendor(t *testing.T) {
	if v := (StdJpegCodec{}).Vendor(); v == "" {
		t.Fatal("Vendor() must not be empty")
	}
}

func TestStdJpegCodecDecodeWarnsOnThreeComponentInput(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}

	var warnings []Warning
	raster, err := (StdJpegCodec{}).Decode(buf.Bytes(), CollectingSink(&warnings))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if raster.W != 4 || raster.H != 4 {
		t.Errorf("raster = %dx%d, want 4x4", raster.W, raster.H)
	}
	if len(warnings) != 1 || warnings[0].Kind != WarnJpegDecoderWarning {
		t.Fatalf("warnings = %+v, want one WarnJpegDecoderWarning", warnings)
	}
	if warnings[0].Vendor == "" {
		t.Error("expected Vendor to be populated")
	}
}

func TestStdJpegCodecEncodeWarnsOnQualityClamp(t *testing.T) {
	r := NewRaster4(2, 2)

	var warnings []Warning
	if _, err := (StdJpegCodec{}).Encode(r, 5.0, CollectingSink(&warnings)); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Kind != WarnJpegEncoderWarning {
		t.Fatalf("warnings = %+v, want one WarnJpegEncoderWarning", warnings)
	}
	if warnings[0].Expected != 100 {
		t.Errorf("Expected = %d, want 100 (clamped)", warnings[0].Expected)
	}
}

func TestStdJpegCodecEncodeNoWarningInRange(t *testing.T) {
	r := NewRaster4(2, 2)

	var warnings []Warning
	if _, err := (StdJpegCodec{}).Encode(r, 0.9, CollectingSink(&warnings)); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %+v, want none for an in-range quality", warnings)
	}
}
