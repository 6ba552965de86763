package blp

import (
	"errors"
	"testing"
)

func TestInternalDirectoryRoundTrip(t *testing.T) {
	var d internalDirectory
	for i := 0; i < 16; i++ {
		d.Offsets[i] = uint32(1000 + i)
		d.Sizes[i] = uint32(i * 10)
	}
	buf := d.encode()
	if len(buf) != internalDirectorySize {
		t.Fatalf("encode() len = %d, want %d", len(buf), internalDirectorySize)
	}
	got, err := readInternalDirectory(buf)
	if err != nil {
		t.Fatalf("readInternalDirectory: %v", err)
	}
	if got != d {
		t.Errorf("round trip = %+v, want %+v", got, d)
	}
}

func TestReadInternalDirectoryTruncated(t *testing.T) {
	_, err := readInternalDirectory(make([]byte, 10))
	if err != ErrEndOfStream {
		t.Errorf("err = %v, want ErrEndOfStream", err)
	}
}

func TestBuildInternalLayoutAndChunk(t *testing.T) {
	prelude := []byte{0xAA, 0xBB, 0xCC}
	payloads := [][]byte{
		{1, 2, 3},
		{4, 5},
		{}, // missing level, size 0
	}
	region := buildInternalLayout(prelude, payloads)

	full := make([]byte, HeaderSize)
	full = append(full, region...)

	dir, err := readInternalDirectory(full[HeaderSize:])
	if err != nil {
		t.Fatalf("readInternalDirectory: %v", err)
	}

	reader := &internalMipmapReader{full: full, dir: dir, count: len(payloads)}

	chunk0, err := reader.Chunk(0)
	if err != nil {
		t.Fatalf("Chunk(0): %v", err)
	}
	if string(chunk0) != string(payloads[0]) {
		t.Errorf("Chunk(0) = %v, want %v", chunk0, payloads[0])
	}

	chunk1, err := reader.Chunk(1)
	if err != nil {
		t.Fatalf("Chunk(1): %v", err)
	}
	if string(chunk1) != string(payloads[1]) {
		t.Errorf("Chunk(1) = %v, want %v", chunk1, payloads[1])
	}

	_, err = reader.Chunk(2)
	if !errors.Is(err, ErrMipmapMissing) {
		t.Errorf("Chunk(2) err = %v, want ErrMipmapMissing", err)
	}

	_, err = reader.Chunk(99)
	if !errors.Is(err, ErrInvalidMipmapIndex) {
		t.Errorf("Chunk(99) err = %v, want ErrInvalidMipmapIndex", err)
	}
}
