package blp

import (
	"bytes"
	"errors"
	"image"
	"path/filepath"
	"testing"
)

func TestEncoderWriteToIndexedRoundTrip(t *testing.T) {
	src := makePalettedImage(4, 4)

	enc, err := NewEncoder(BLP1, EncodingIndexed, 0, 4, 4, Options{})
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}

	var buf bytes.Buffer
	if err := enc.WriteTo(&buf, src); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	dec, err := NewDecoder(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	if dec.Header().Width != 4 || dec.Header().Height != 4 {
		t.Fatalf("decoded header dims = %dx%d, want 4x4", dec.Header().Width, dec.Header().Height)
	}
	img, err := dec.Read(0, DefaultReadOptions())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Errorf("decoded bounds = %v, want 4x4", img.Bounds())
	}
}

func TestEncoderAutoMipmapPyramid(t *testing.T) {
	src := makeRGBAImage(8, 8, 255)

	enc, err := NewEncoder(BLP1, EncodingJPEG, 0, 8, 8, Options{AutoMipmap: true})
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}

	var buf bytes.Buffer
	if err := enc.WriteTo(&buf, src); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	dec, err := NewDecoder(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	if !dec.Header().HasMipmaps {
		t.Fatal("expected HasMipmaps to be set by AutoMipmap")
	}
	count, err := dec.AvailableMipmapCount()
	if err != nil {
		t.Fatalf("AvailableMipmapCount: %v", err)
	}
	if count != dec.MipmapCount() {
		t.Errorf("available = %d, want full pyramid %d", count, dec.MipmapCount())
	}
	for i := 0; i < count; i++ {
		img, err := dec.Read(i, DefaultReadOptions())
		if err != nil {
			t.Fatalf("Read(%d): %v", i, err)
		}
		wantW, wantH := dec.Header().MipmapDimensions(i)
		if img.Bounds().Dx() != wantW || img.Bounds().Dy() != wantH {
			t.Errorf("level %d bounds = %v, want %dx%d", i, img.Bounds(), wantW, wantH)
		}
	}
}

func TestEncoderWriteToRejectsBLP0(t *testing.T) {
	enc, err := NewEncoder(BLP0, EncodingIndexed, 0, 4, 4, Options{})
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	var buf bytes.Buffer
	src := makePalettedImage(4, 4)
	if err := enc.WriteTo(&buf, src); err == nil {
		t.Error("WriteTo on a BLP0 encoder should fail; sidecar files need a real path")
	}
}

func TestEncoderWriteFileExternalVariant(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tex.blp")

	enc, err := NewEncoder(BLP0, EncodingIndexed, 0, 4, 4, Options{})
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	src := makePalettedImage(4, 4)
	if err := enc.WriteFile(path, src); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	dec, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	img, err := dec.Read(0, DefaultReadOptions())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Errorf("decoded bounds = %v, want 4x4", img.Bounds())
	}
}

func TestEncoderRejectsBadAlphaBits(t *testing.T) {
	_, err := NewEncoder(BLP1, EncodingJPEG, 4, 4, 4, Options{})
	if !errors.Is(err, ErrUnsupportedAlpha) {
		t.Errorf("err = %v, want ErrUnsupportedAlpha", err)
	}
}

func TestEncoderRejectsMismatchedExplicitLevelCount(t *testing.T) {
	enc, err := NewEncoder(BLP1, EncodingIndexed, 0, 8, 8, Options{})
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	levels := []image.Image{makePalettedImage(8, 8), makePalettedImage(4, 4)} // 2 levels, header implies 4
	var buf bytes.Buffer
	if err := enc.WriteLevelsTo(&buf, levels); err == nil {
		t.Error("expected an error when explicit level count does not match header.MipmapCount()")
	}
}
