// Package vfs presents a priority-ordered stack of opened MPQ archives
// as a single read-only fs.FS, so blp.OpenFS and blpctl's extract
// command can resolve an asset path without caring which archive (or
// patch) actually supplied it.
package vfs

import (
	"bytes"
	"io/fs"
	"strings"
	"time"
)

// Archive is the subset of an opened MPQ archive a Set needs to
// resolve named assets. internal/mpqarchive.Archive satisfies it.
type Archive interface {
	Has(name string) bool
	ReadFile(name string) ([]byte, error)
	Path() string
}

// layer is one archive pushed onto a Set. Layers chain newest-first so
// a lookup walks them in shadow order without reversing a slice.
type layer struct {
	archive Archive
	under   *layer
}

// Set layers archives into one namespace, where an archive pushed
// later shadows an asset of the same name in one pushed earlier.
type Set struct {
	top *layer
}

// NewSet returns an empty archive set.
func NewSet() *Set { return &Set{} }

// Push adds a to the set on top of whatever is already there.
func (s *Set) Push(a Archive) {
	s.top = &layer{archive: a, under: s.top}
}

// mpqName rewrites a slash-separated asset path into the backslash
// form MPQ hash tables were built with.
func mpqName(name string) string {
	return strings.ReplaceAll(strings.TrimPrefix(name, "/"), "/", `\`)
}

// Resolve reports which archive would satisfy name, without reading
// its contents.
func (s *Set) Resolve(name string) (archivePath string, ok bool) {
	mpq := mpqName(name)
	for l := s.top; l != nil; l = l.under {
		if l.archive.Has(mpq) {
			return l.archive.Path(), true
		}
	}
	return "", false
}

// Open implements fs.FS, returning name's bytes from the topmost
// archive layer that has it.
func (s *Set) Open(name string) (fs.File, error) {
	mpq := mpqName(name)
	for l := s.top; l != nil; l = l.under {
		if !l.archive.Has(mpq) {
			continue
		}
		data, err := l.archive.ReadFile(mpq)
		if err != nil {
			return nil, err
		}
		return newBlob(name, data), nil
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// blob is a resolved asset's bytes, doubling as its own fs.FileInfo so
// a lookup doesn't need a matched pair of file/stat types.
type blob struct {
	name string
	r    *bytes.Reader
}

func newBlob(name string, data []byte) *blob {
	return &blob{name: name, r: bytes.NewReader(data)}
}

func (b *blob) Read(p []byte) (int, error) { return b.r.Read(p) }
func (b *blob) Close() error               { return nil }
func (b *blob) Stat() (fs.FileInfo, error) { return b, nil }

func (b *blob) Name() string       { return b.name }
func (b *blob) Size() int64        { return b.r.Size() }
func (b *blob) Mode() fs.FileMode  { return 0o444 }
func (b *blob) ModTime() time.Time { return time.Time{} }
func (b *blob) IsDir() bool        { return false }
func (b *blob) Sys() interface{}   { return nil }
