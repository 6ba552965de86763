package blp

import (
	"errors"
	"testing"
	"testing/fstest"
)

func TestSidecarPath(t *testing.T) {
	cases := []struct {
		main string
		i    int
		want string
	}{
		{"tex.blp", 0, "tex.b00"},
		{"tex.blp", 9, "tex.b09"},
		{"tex.blp", 10, "tex.b10"},
		{"dir/tex.blp", 3, "dir/tex.b03"},
	}
	for _, c := range cases {
		if got := sidecarPath(c.main, c.i); got != c.want {
			t.Errorf("sidecarPath(%q, %d) = %q, want %q", c.main, c.i, got, c.want)
		}
	}
}

func TestExternalMipmapReaderChunk(t *testing.T) {
	fsys := fstest.MapFS{
		"tex.b00": {Data: []byte{1, 2, 3}},
		"tex.b01": {Data: []byte{4, 5}},
	}
	r := newExternalMipmapReader(fsys, "tex.blp", 3)

	got, err := r.Chunk(0)
	if err != nil {
		t.Fatalf("Chunk(0): %v", err)
	}
	if string(got) != "\x01\x02\x03" {
		t.Errorf("Chunk(0) = %v, want [1 2 3]", got)
	}

	_, err = r.Chunk(2)
	if !errors.Is(err, ErrMipmapMissing) {
		t.Errorf("Chunk(2) err = %v, want ErrMipmapMissing", err)
	}

	_, err = r.Chunk(5)
	if !errors.Is(err, ErrInvalidMipmapIndex) {
		t.Errorf("Chunk(5) err = %v, want ErrInvalidMipmapIndex", err)
	}
}

func TestToFSPath(t *testing.T) {
	cases := map[string]string{
		"/foo/bar": "foo/bar",
		"foo/bar":  "foo/bar",
	}
	for in, want := range cases {
		if got := toFSPath(in); got != want {
			t.Errorf("toFSPath(%q) = %q, want %q", in, got, want)
		}
	}
}
