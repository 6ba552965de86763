package blp

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
)

// Options configures Encoder construction (spec §6 Encoder Options,
// §9 open question 3).
type Options struct {
	// AutoMipmap generates the full mipmap pyramid from the level-0
	// image via area-average downscaling (spec §4.7 step 3) instead of
	// requiring the caller to supply every level.
	AutoMipmap bool

	// DimensionMode and MaxDimension control how an oversized source
	// image is fit before mipmap generation (spec §9 open question 3).
	// MaxDimension of zero means "use the 512 default".
	DimensionMode dimensionMode
	MaxDimension  int

	WriteParam
}

// Encoder writes a BLP0/BLP1 stream (component C7). One Encoder session
// corresponds to one output file: it owns the Processor instance that
// accumulates cross-mipmap state (palette adoption, JPEG shared header).
type Encoder struct {
	header StreamHeader
	proc   Processor
	opts   Options
	sink   WarningSink
}

// NewEncoder creates an Encoder for the given version/encoding/alpha
// combination and pixel dimensions. HasMipmaps is implied by
// opts.AutoMipmap or by the caller later supplying more than one level
// through WriteLevels.
func NewEncoder(version Version, enc Encoding, alphaBits, width, height int, opts Options) (*Encoder, error) {
	if !allowedAlphaBits(enc)[alphaBits] {
		return nil, wrapf(ErrUnsupportedAlpha, "alphaBits %d for encoding %v", alphaBits, enc)
	}
	if width <= 0 || height <= 0 || width > 1<<16 || height > 1<<16 {
		return nil, wrapf(ErrInvalidDimensions, "%dx%d", width, height)
	}

	h := StreamHeader{
		Version:    version,
		Encoding:   enc,
		AlphaBits:  alphaBits,
		Width:      width,
		Height:     height,
		HasMipmaps: opts.AutoMipmap,
	}

	var proc Processor
	if enc == EncodingIndexed {
		space := ColorSpaceSRGB
		if opts.Palette != nil {
			space = opts.Palette.Space
		}
		proc = NewIndexedProcessor(space)
	} else {
		proc = NewJpegProcessor()
	}

	return &Encoder{header: h, proc: proc, opts: opts}, nil
}

// SetWarningSink installs sink for warnings raised while encoding.
func (e *Encoder) SetWarningSink(sink WarningSink) { e.sink = sink }

// WriteTo writes a single-level (or, with Options.AutoMipmap, a full
// pyramid generated from img) internal-chunk (BLP1) stream to w. The
// external-chunk variant (BLP0) needs a real path to place its sidecar
// files next to and so is only reachable through WriteFile.
func (e *Encoder) WriteTo(w io.Writer, img image.Image) error {
	return e.writeLevels(streamTarget{w: w}, []image.Image{img})
}

// WriteFile writes to path, producing sidecar files alongside it when
// the Encoder was constructed with Version BLP0.
func (e *Encoder) WriteFile(path string, img image.Image) error {
	return e.writeLevels(fileTarget{path: path}, []image.Image{img})
}

// WriteLevelsTo/WriteLevelsFile write an explicit set of mipmap levels
// instead of generating them; len(levels) must equal
// e.header.MipmapCount(), and Options.AutoMipmap must be false.
func (e *Encoder) WriteLevelsTo(w io.Writer, levels []image.Image) error {
	return e.writeLevels(streamTarget{w: w}, levels)
}

func (e *Encoder) WriteLevelsFile(path string, levels []image.Image) error {
	return e.writeLevels(fileTarget{path: path}, levels)
}

func (e *Encoder) writeLevels(dst writeTarget, levels []image.Image) error {
	if len(levels) == 0 {
		return fmt.Errorf("blp: no mipmap levels supplied")
	}

	base := fitToMax(levels[0], e.opts.DimensionMode, e.opts.MaxDimension)
	if b := base.Bounds(); b.Dx() != e.header.Width || b.Dy() != e.header.Height {
		e.header.Width, e.header.Height = b.Dx(), b.Dy()
	}

	var rasters []image.Image
	switch {
	case e.opts.AutoMipmap:
		e.header.HasMipmaps = true
		rasters = mipmapPyramid(base, e.header)
	case len(levels) == 1:
		e.header.HasMipmaps = false
		rasters = []image.Image{base}
	default:
		e.header.HasMipmaps = true
		rasters = append([]image.Image{base}, levels[1:]...)
		if len(rasters) != e.header.MipmapCount() {
			return fmt.Errorf("blp: got %d mipmap levels, header implies %d", len(rasters), e.header.MipmapCount())
		}
	}

	param := e.opts.WriteParam
	if param.Quality <= 0 {
		param.Quality = DefaultWriteParam().Quality
	}

	payloads, err := e.proc.EncodeAll(rasters, e.header, param, e.sink)
	if err != nil {
		return err
	}

	prelude, err := e.proc.WritePrelude()
	if err != nil {
		return err
	}

	return dst.write(e.header, prelude, payloads)
}

// writeTarget lets writeLevels share one code path regardless of which
// variant the caller is producing (spec §4.7 step 6: internal-chunk
// writes one stream, external-chunk writes a main file plus sidecars).
type writeTarget interface {
	write(h StreamHeader, prelude []byte, payloads [][]byte) error
}

type fileTarget struct{ path string }

func (t fileTarget) write(h StreamHeader, prelude []byte, payloads [][]byte) error {
	var buf bytes.Buffer
	if err := WriteHeader(&buf, h); err != nil {
		return err
	}

	switch h.Version {
	case BLP1:
		buf.Write(buildInternalLayout(prelude, payloads))
		return os.WriteFile(t.path, buf.Bytes(), 0o644)
	case BLP0:
		buf.Write(prelude)
		if err := os.WriteFile(t.path, buf.Bytes(), 0o644); err != nil {
			return err
		}
		return writeExternalChunks(t.path, payloads)
	default:
		return wrapf(ErrUnsupportedVersion, "version %v", h.Version)
	}
}

type streamTarget struct{ w io.Writer }

func (t streamTarget) write(h StreamHeader, prelude []byte, payloads [][]byte) error {
	if h.Version != BLP1 {
		return fmt.Errorf("blp: external-chunk (BLP0) streams require WriteFile, not WriteTo")
	}
	if err := WriteHeader(t.w, h); err != nil {
		return err
	}
	_, err := t.w.Write(buildInternalLayout(prelude, payloads))
	return err
}
