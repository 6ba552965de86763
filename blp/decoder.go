package blp

import (
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ReadOptions configures a single Decoder.Read call (spec §6 Decoder
// Options). Only the JPEG processor path consumes these; they are
// ignored for indexed streams.
type ReadOptions struct {
	// DeepCheck enables the opaque-alpha scan (spec §4.4 step 5) when
	// the header declares no alpha channel. Defaults to on.
	DeepCheck bool
	// Codec overrides the external JPEG codec for this read.
	Codec JpegCodec
}

// DefaultReadOptions returns the spec-mandated defaults.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{DeepCheck: true}
}

// Decoder reads a BLP0/BLP1 stream (component C7). It normalizes its
// source into memory once at open time (spec §1 non-goal: no streaming
// random-access reads without the header) and serves mipmaps on demand
// through the appropriate Processor and mipmapReader.
type Decoder struct {
	header StreamHeader
	proc   Processor
	reader mipmapReader

	sink    WarningSink
	pending []Warning
}

// Header returns the parsed 28-byte stream header.
func (d *Decoder) Header() StreamHeader { return d.header }

// MipmapCount returns the number of mipmap levels the header implies.
func (d *Decoder) MipmapCount() int { return d.header.MipmapCount() }

// Dimensions returns mipmap level i's (width, height).
func (d *Decoder) Dimensions(i int) (int, int, error) {
	if i < 0 || i >= d.MipmapCount() {
		return 0, 0, wrapf(ErrInvalidMipmapIndex, "mipmap %d", i)
	}
	w, h := d.header.MipmapDimensions(i)
	return w, h, nil
}

// SetWarningSink installs sink for all subsequent Read calls, and
// immediately flushes any warning raised while opening the stream (the
// oversized-shared-JPEG-header check happens at open time, before a
// caller has necessarily had a chance to install a sink).
func (d *Decoder) SetWarningSink(sink WarningSink) {
	d.sink = sink
	d.flushPending()
}

func (d *Decoder) flushPending() {
	if d.sink == nil || len(d.pending) == 0 {
		return
	}
	for _, w := range d.pending {
		d.sink(w)
	}
	d.pending = nil
}

// AvailableMipmapCount probes the mipmap chunks in order and returns how
// many are actually present. A missing level 0 is fatal (spec §4.5); a
// missing level above 0 simply truncates the usable pyramid, since the
// header's HasMipmaps bit and the physically present chunk files can
// disagree in real-world BLP0 archives.
func (d *Decoder) AvailableMipmapCount() (int, error) {
	total := d.MipmapCount()
	for i := 0; i < total; i++ {
		if _, err := d.reader.Chunk(i); err != nil {
			if errors.Is(err, ErrMipmapMissing) {
				if i == 0 {
					return 0, err
				}
				return i, nil
			}
			return 0, err
		}
	}
	return total, nil
}

// Read decodes mipmap level i into an image.Image.
func (d *Decoder) Read(i int, opts ReadOptions) (image.Image, error) {
	if i < 0 || i >= d.MipmapCount() {
		return nil, wrapf(ErrInvalidMipmapIndex, "mipmap %d", i)
	}
	d.flushPending()

	data, err := d.reader.Chunk(i)
	if err != nil {
		return nil, err
	}

	if jp, ok := d.proc.(*JpegProcessor); ok {
		param := WriteParam{DeepCheck: opts.DeepCheck, Codec: opts.Codec}
		return jp.decodeWithParam(data, i, d.header, param, d.sink)
	}
	return d.proc.Decode(data, i, d.header, d.sink)
}

// NewDecoder opens a BLP1 (internal-chunk) stream from r. The
// external-chunk variant (BLP0) needs a filesystem to locate sidecar
// files and so is only reachable through Open/OpenFS.
func NewDecoder(r io.Reader) (*Decoder, error) {
	full, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return newDecoderFromBytes(full, nil, "")
}

// Open opens path from the real filesystem. Both BLP0 and BLP1 streams
// are supported; for BLP0, sidecar files are resolved relative to
// path's directory.
func Open(path string) (*Decoder, error) {
	full, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	return newDecoderFromBytes(full, os.DirFS(dir), filepath.Base(path))
}

// OpenFS opens path from fsys, letting callers resolve BLP0 sidecar
// files against a layered filesystem (internal/vfs) instead of the OS,
// e.g. when reading a BLP straight out of an MPQ archive stack.
func OpenFS(fsys fs.FS, path string) (*Decoder, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	full, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	dir := toFSPath(filepath.Dir(path))
	sub := fsys
	if dir != "." && dir != "" {
		sub, err = fs.Sub(fsys, dir)
		if err != nil {
			return nil, err
		}
	}
	return newDecoderFromBytes(full, sub, filepath.Base(path))
}

// newDecoderFromBytes parses the header and processor prelude out of
// full and binds the right mipmapReader for the header's Version. fsys
// and name are only used by the external-chunk (BLP0) path; NewDecoder
// leaves them nil/empty and will fail for a BLP0 stream, since sidecar
// files can't be found without a filesystem to look them up in.
func newDecoderFromBytes(full []byte, fsys fs.FS, name string) (*Decoder, error) {
	if len(full) < HeaderSize {
		return nil, ErrEndOfStream
	}
	h, err := decodeHeader(full[:HeaderSize])
	if err != nil {
		return nil, err
	}

	var proc Processor
	if h.Encoding == EncodingIndexed {
		proc = NewIndexedProcessor(ColorSpaceSRGB)
	} else {
		proc = NewJpegProcessor()
	}

	count := h.MipmapCount()
	rest := full[HeaderSize:]

	var pending []Warning
	collect := func(w Warning) { pending = append(pending, w) }

	var reader mipmapReader
	switch h.Version {
	case BLP1:
		if len(rest) < internalDirectorySize {
			return nil, wrapf(ErrEndOfStream, "internal mipmap directory")
		}
		dir, err := readInternalDirectory(rest)
		if err != nil {
			return nil, err
		}
		preludeStart := internalDirectorySize
		var consumed int
		if jp, ok := proc.(*JpegProcessor); ok {
			consumed, err = jp.readPreludeWithWarning(rest[preludeStart:], collect)
		} else {
			consumed, err = proc.ReadPrelude(rest[preludeStart:])
		}
		if err != nil {
			return nil, err
		}
		_ = consumed
		reader = &internalMipmapReader{full: full, dir: dir, count: count}
	case BLP0:
		var consumed int
		if jp, ok := proc.(*JpegProcessor); ok {
			consumed, err = jp.readPreludeWithWarning(rest, collect)
		} else {
			consumed, err = proc.ReadPrelude(rest)
		}
		if err != nil {
			return nil, err
		}
		_ = consumed
		if fsys == nil {
			return nil, fmt.Errorf("blp: opening a BLP0 stream requires a filesystem (use Open or OpenFS)")
		}
		reader = newExternalMipmapReader(fsys, name, count)
	default:
		return nil, wrapf(ErrUnsupportedVersion, "version %v", h.Version)
	}

	return &Decoder{header: h, proc: proc, reader: reader, pending: pending}, nil
}
