package blp

import (
	"encoding/binary"
	"io"
)

// Version identifies which BLP magic/mipmap-table layout a file uses.
type Version int

const (
	BLP0 Version = iota
	BLP1
)

func (v Version) magic() [4]byte {
	if v == BLP0 {
		return [4]byte{'B', 'L', 'P', '0'}
	}
	return [4]byte{'B', 'L', 'P', '1'}
}

// Encoding identifies which mipmap payload processor a file uses.
type Encoding int

const (
	EncodingJPEG Encoding = iota
	EncodingIndexed
)

// HeaderSize is the fixed, version-independent BLP header length in
// bytes (spec §4.6).
const HeaderSize = 28

// StreamHeader is the fixed 28-byte BLP header (spec §3/§4.6, component
// C6): magic, encoding kind, alpha bit-depth, dimensions, mipmap flag.
type StreamHeader struct {
	Version      Version
	Encoding     Encoding
	AlphaBits    int
	Width        int
	Height       int
	HasMipmaps   bool
}

func allowedAlphaBits(enc Encoding) map[int]bool {
	if enc == EncodingIndexed {
		return map[int]bool{0: true, 1: true, 4: true, 8: true}
	}
	return map[int]bool{0: true, 8: true}
}

// MipmapCount returns the number of mipmap levels this header implies:
// floor(log2(max(w,h)))+1 when HasMipmaps, else exactly 1 (spec §3).
func (h StreamHeader) MipmapCount() int {
	if !h.HasMipmaps {
		return 1
	}
	m := h.Width
	if h.Height > m {
		m = h.Height
	}
	n := 0
	for m > 0 {
		m >>= 1
		n++
	}
	if n == 0 {
		n = 1
	}
	return n
}

// MipmapDimensions returns (w,h) for mipmap level i: (max(w>>i,1),
// max(h>>i,1)) (spec §3 invariant).
func (h StreamHeader) MipmapDimensions(i int) (int, int) {
	w := h.Width >> uint(i)
	if w < 1 {
		w = 1
	}
	ht := h.Height >> uint(i)
	if ht < 1 {
		ht = 1
	}
	return w, ht
}

// ReadHeader parses the fixed 28-byte header from r (spec §4.6).
func ReadHeader(r io.Reader) (StreamHeader, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return StreamHeader{}, ErrEndOfStream
		}
		return StreamHeader{}, err
	}
	return decodeHeader(buf[:])
}

func decodeHeader(buf []byte) (StreamHeader, error) {
	var h StreamHeader
	switch string(buf[0:4]) {
	case "BLP0":
		h.Version = BLP0
	case "BLP1":
		h.Version = BLP1
	default:
		return StreamHeader{}, wrapf(ErrUnsupportedMagic, "magic %q", buf[0:4])
	}

	switch binary.LittleEndian.Uint32(buf[4:8]) {
	case 0:
		h.Encoding = EncodingJPEG
	case 1:
		h.Encoding = EncodingIndexed
	default:
		return StreamHeader{}, wrapf(ErrUnsupportedEncoding, "code %d", binary.LittleEndian.Uint32(buf[4:8]))
	}

	h.AlphaBits = int(binary.LittleEndian.Uint32(buf[8:12]))
	if !allowedAlphaBits(h.Encoding)[h.AlphaBits] {
		return StreamHeader{}, wrapf(ErrUnsupportedAlpha, "alphaBits %d for encoding %v", h.AlphaBits, h.Encoding)
	}

	h.Width = int(binary.LittleEndian.Uint32(buf[12:16]))
	h.Height = int(binary.LittleEndian.Uint32(buf[16:20]))
	if h.Width <= 0 || h.Height <= 0 || h.Width > 1<<16 || h.Height > 1<<16 {
		return StreamHeader{}, wrapf(ErrInvalidDimensions, "%dx%d", h.Width, h.Height)
	}

	// offset 20: reserved, ignored on read (spec §9 open question).
	h.HasMipmaps = binary.LittleEndian.Uint32(buf[24:28]) != 0

	return h, nil
}

// WriteHeader emits the fixed 28-byte header (spec §4.6). The reserved
// field at offset 20 is always written as zero.
func WriteHeader(w io.Writer, h StreamHeader) error {
	var buf [HeaderSize]byte
	magic := h.Version.magic()
	copy(buf[0:4], magic[:])

	var encCode uint32
	if h.Encoding == EncodingIndexed {
		encCode = 1
	}
	binary.LittleEndian.PutUint32(buf[4:8], encCode)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(h.AlphaBits))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(h.Width))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(h.Height))
	binary.LittleEndian.PutUint32(buf[20:24], 0)
	if h.HasMipmaps {
		binary.LittleEndian.PutUint32(buf[24:28], 1)
	}

	_, err := w.Write(buf[:])
	return err
}
