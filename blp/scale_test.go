package blp

import (
	"image"
	"testing"
)

func TestDownscaleClampsToMinimumOne(t *testing.T) {
	src := makeRGBAImage(4, 4, 255)
	out := downscale(src, 0, 0)
	if out.Bounds().Dx() != 1 || out.Bounds().Dy() != 1 {
		t.Errorf("downscale(0,0) bounds = %v, want 1x1", out.Bounds())
	}
}

func TestMipmapPyramidLevelCountAndDimensions(t *testing.T) {
	h := StreamHeader{Width: 8, Height: 4, HasMipmaps: true}
	base := makeRGBAImage(8, 4, 255)

	levels := mipmapPyramid(base, h)
	if len(levels) != h.MipmapCount() {
		t.Fatalf("len(levels) = %d, want %d", len(levels), h.MipmapCount())
	}
	for i, lvl := range levels {
		wantW, wantH := h.MipmapDimensions(i)
		if lvl.Bounds().Dx() != wantW || lvl.Bounds().Dy() != wantH {
			t.Errorf("level %d bounds = %v, want %dx%d", i, lvl.Bounds(), wantW, wantH)
		}
	}
}

func TestFitToMaxRatioPreservesAspect(t *testing.T) {
	src := makeRGBAImage(1000, 500, 255)
	out := fitToMax(src, DimensionRatio, 100)
	b := out.Bounds()
	if b.Dx() != 100 {
		t.Errorf("width = %d, want 100", b.Dx())
	}
	if b.Dy() != 50 {
		t.Errorf("height = %d, want 50 (aspect ratio preserved)", b.Dy())
	}
}

func TestFitToMaxRatioNoOpWhenAlreadyWithinBounds(t *testing.T) {
	src := makeRGBAImage(50, 50, 255)
	out := fitToMax(src, DimensionRatio, 100)
	if out != image.Image(src) {
		t.Error("fitToMax should return the source unchanged when already within maxDim")
	}
}

func TestFitToMaxClampAllowsAspectChange(t *testing.T) {
	src := makeRGBAImage(1000, 200, 255)
	out := fitToMax(src, DimensionClamp, 100)
	b := out.Bounds()
	if b.Dx() != 100 || b.Dy() != 100 {
		t.Errorf("bounds = %v, want 100x100 (each axis independently clamped)", b)
	}
}

func TestFitToMaxNoneIsIdentity(t *testing.T) {
	src := makeRGBAImage(1000, 1000, 255)
	out := fitToMax(src, DimensionNone, 100)
	if out != image.Image(src) {
		t.Error("DimensionNone should never resize")
	}
}
