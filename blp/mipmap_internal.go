package blp

import "encoding/binary"

// internalDirectorySize is the fixed size of the offset+size table that
// follows the header in the internal-chunk variant (spec §4.5, BLP1):
// 16 little-endian u32 offsets, then 16 little-endian u32 sizes.
const internalDirectorySize = 16*4 + 16*4

// internalDirectory is the parsed offset/size table for the internal
// mipmap-chunk layout. Offsets are absolute, measured from the start of
// the file.
type internalDirectory struct {
	Offsets [16]uint32
	Sizes   [16]uint32
}

func readInternalDirectory(data []byte) (internalDirectory, error) {
	if len(data) < internalDirectorySize {
		return internalDirectory{}, ErrEndOfStream
	}
	var d internalDirectory
	for i := 0; i < 16; i++ {
		d.Offsets[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	for i := 0; i < 16; i++ {
		d.Sizes[i] = binary.LittleEndian.Uint32(data[64+i*4:])
	}
	return d, nil
}

func (d internalDirectory) encode() []byte {
	buf := make([]byte, internalDirectorySize)
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:], d.Offsets[i])
	}
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(buf[64+i*4:], d.Sizes[i])
	}
	return buf
}

// internalMipmapReader implements chunk lookup for BLP1's internal-chunk
// variant: every mipmap payload lives inside the same file the header
// came from, addressed by the directory table (spec §4.5, component C5).
type internalMipmapReader struct {
	full  []byte
	dir   internalDirectory
	count int
}

// Chunk returns mipmap i's raw payload bytes, sliced (not copied) out of
// the backing file buffer.
func (r *internalMipmapReader) Chunk(i int) ([]byte, error) {
	if i < 0 || i >= r.count || i >= 16 {
		return nil, wrapf(ErrInvalidMipmapIndex, "mipmap %d", i)
	}
	off := int(r.dir.Offsets[i])
	size := int(r.dir.Sizes[i])
	if size == 0 {
		return nil, wrapf(ErrMipmapMissing, "mipmap %d", i)
	}
	if off < 0 || size < 0 || off+size > len(r.full) {
		return nil, wrapf(ErrEndOfStream, "mipmap %d chunk out of range", i)
	}
	return r.full[off : off+size], nil
}

// buildInternalLayout lays out the internal-chunk region that follows
// the header: the directory table immediately followed by the processor
// prelude, then every mipmap payload back to back. It returns the
// complete byte stream from the directory onward, ready to be appended
// after WriteHeader's 28 bytes (spec §4.7 step 6).
//
// Because EncodeAll already returns every payload up front, offsets can
// be computed in one pass with no seeking required.
func buildInternalLayout(prelude []byte, payloads [][]byte) []byte {
	var dir internalDirectory
	base := uint32(HeaderSize + internalDirectorySize + len(prelude))
	cursor := base
	for i, p := range payloads {
		if i >= 16 {
			break
		}
		dir.Offsets[i] = cursor
		dir.Sizes[i] = uint32(len(p))
		cursor += uint32(len(p))
	}

	out := make([]byte, 0, cursor)
	out = append(out, dir.encode()...)
	out = append(out, prelude...)
	for _, p := range payloads {
		out = append(out, p...)
	}
	return out
}
