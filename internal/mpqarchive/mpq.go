// Package mpqarchive reads Blizzard MPQ archives well enough to pull a
// named asset (typically a .blp texture, plus its BLP0 sidecar chunks)
// out of game data without unpacking the whole archive by hand. It backs
// blpctl's extract subcommand and internal/vfs's archive layering.
package mpqarchive

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zlib"
)

var cryptTable [0x500]uint32

func init() {
	var seed uint32 = 0x00100001
	for i := 0; i < 0x100; i++ {
		for j := 0; j < 5; j++ {
			seed = (seed*125 + 3) % 0x2AAAAB
			temp1 := (seed & 0xFFFF) << 16
			seed = (seed*125 + 3) % 0x2AAAAB
			temp2 := seed & 0xFFFF
			cryptTable[i+j*0x100] = temp1 | temp2
		}
	}
}

const (
	hashTableOffset = 0
	hashNameA       = 1
	hashNameB       = 2
	hashFileKey     = 3
)

func hashString(str string, hashType uint32) uint32 {
	var seed1 uint32 = 0x7FED7FED
	var seed2 uint32 = 0xEEEEEEEE

	str = strings.ToUpper(str)
	for i := 0; i < len(str); i++ {
		ch := str[i]
		value := cryptTable[(hashType<<8)+uint32(ch)]
		seed1 = value ^ (seed1 + seed2)
		seed2 = uint32(ch) + seed1 + seed2 + (seed2 << 5) + 3
	}
	return seed1
}

func decrypt(data []byte, key uint32) {
	var seed uint32 = 0xEEEEEEEE
	for i := 0; i+4 <= len(data); i += 4 {
		seed += cryptTable[0x400+(key&0xFF)]
		value := binary.LittleEndian.Uint32(data[i:])
		value ^= key + seed
		binary.LittleEndian.PutUint32(data[i:], value)
		key = ((^key << 21) + 0x11111111) | (key >> 11)
		seed = value + seed + (seed << 5) + 3
	}
}

const (
	fileCompressMask = 0x0000FF00
	fileEncrypted    = 0x00010000
	fileFixKey       = 0x00020000
	fileSingleUnit   = 0x01000000
	fileSectorCRC    = 0x04000000
)

const compressionZlib = 0x02

type header struct {
	ID                uint32
	HeaderSize        uint32
	ArchiveSize       uint32
	FormatVersion     uint16
	SectorSizeShift   uint16
	HashTableOffset   uint32
	BlockTableOffset  uint32
	HashTableEntries  uint32
	BlockTableEntries uint32
}

type hashEntry struct {
	NameA    uint32
	NameB    uint32
	Locale   uint16
	Platform uint16
	BlockIdx uint32
}

type blockEntry struct {
	Offset           uint32
	CompressedSize   uint32
	UncompressedSize uint32
	Flags            uint32
}

// Archive is an open MPQ file, ready for named-asset lookups.
type Archive struct {
	f          *os.File
	header     header
	hashTable  []hashEntry
	blockTable []blockEntry
	archivePos int64
	path       string
}

// Open parses path's MPQ header and hash/block tables.
func Open(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	a := &Archive{f: f, path: path}

	if err := binary.Read(f, binary.LittleEndian, &a.header); err != nil {
		f.Close()
		return nil, err
	}
	if a.header.ID != 0x1A51504D {
		f.Close()
		return nil, errors.New("mpqarchive: not an MPQ archive")
	}

	a.archivePos, _ = f.Seek(0, io.SeekCurrent)
	a.archivePos -= int64(a.header.HeaderSize)

	if err := a.readTables(); err != nil {
		f.Close()
		return nil, err
	}
	return a, nil
}

// Path returns the archive's own filesystem path, useful for error
// messages and layering diagnostics in internal/vfs.
func (a *Archive) Path() string { return a.path }

func (a *Archive) Close() error { return a.f.Close() }

func (a *Archive) readTables() error {
	a.hashTable = make([]hashEntry, a.header.HashTableEntries)
	a.blockTable = make([]blockEntry, a.header.BlockTableEntries)

	hashKey := hashString("(hash table)", hashFileKey)
	blockKey := hashString("(block table)", hashFileKey)

	if err := a.readEncryptedTable(int64(a.header.HashTableOffset), a.hashTable, hashKey); err != nil {
		return err
	}
	return a.readEncryptedTable(int64(a.header.BlockTableOffset), a.blockTable, blockKey)
}

func (a *Archive) readEncryptedTable(offset int64, table interface{}, key uint32) error {
	size := binary.Size(table)
	buf := make([]byte, size)
	if _, err := a.f.ReadAt(buf, offset); err != nil {
		return err
	}
	decrypt(buf, key)
	return binary.Read(bytes.NewReader(buf), binary.LittleEndian, table)
}

func (a *Archive) findHashEntries(name string) []hashEntry {
	name = strings.ReplaceAll(name, "/", "\\")
	hashA := hashString(name, hashNameA)
	hashB := hashString(name, hashNameB)

	start := hashString(name, hashTableOffset) % a.header.HashTableEntries
	var matches []hashEntry
	for i := uint32(0); i < a.header.HashTableEntries; i++ {
		h := a.hashTable[(start+i)%a.header.HashTableEntries]
		if h.BlockIdx == 0xFFFFFFFF {
			break
		}
		if h.BlockIdx == 0xFFFFFFFE {
			continue
		}
		if h.NameA == hashA && h.NameB == hashB {
			matches = append(matches, h)
		}
	}
	return matches
}

// Has reports whether name resolves to a present, non-deleted entry,
// without reading its contents. internal/vfs uses this to decide
// whether a later-loaded (patch) archive shadows an earlier one.
func (a *Archive) Has(name string) bool {
	return len(a.findHashEntries(name)) > 0
}

// ReadFile decompresses and decrypts (as needed) the named asset.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	candidates := a.findHashEntries(name)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("mpqarchive: %s: %w", name, os.ErrNotExist)
	}

	var h hashEntry
	found := false
	for _, e := range candidates {
		if e.Locale == 0 {
			h = e
			found = true
			break
		}
	}
	if !found {
		h = candidates[0]
	}

	block := a.blockTable[h.BlockIdx]
	fileOffset := int64(block.Offset)

	if block.Flags&fileSingleUnit != 0 {
		raw := make([]byte, block.CompressedSize)
		if _, err := a.f.ReadAt(raw, fileOffset); err != nil {
			return nil, err
		}
		if block.Flags&fileEncrypted != 0 {
			decrypt(raw, a.fileKey(name, block, fileOffset))
		}
		if block.Flags&fileCompressMask == 0 {
			return raw, nil
		}
		return decompressSingleUnit(raw, block.UncompressedSize)
	}

	if block.Flags&fileCompressMask != 0 {
		return a.readSectorCompressedFile(fileOffset, block, name)
	}

	out := make([]byte, block.UncompressedSize)
	_, err := a.f.ReadAt(out, fileOffset)
	return out, err
}

func (a *Archive) readSectorCompressedFile(offset int64, block blockEntry, name string) ([]byte, error) {
	sectorSize := uint32(512) << a.header.SectorSizeShift
	sectorCount := (block.UncompressedSize + sectorSize - 1) / sectorSize

	tableDWORDs := sectorCount + 1
	if block.Flags&fileSectorCRC != 0 {
		tableDWORDs++
	}

	table := make([]byte, tableDWORDs*4)
	if _, err := a.f.ReadAt(table, offset); err != nil {
		return nil, err
	}

	key := a.fileKey(name, block, offset)
	if block.Flags&fileEncrypted != 0 {
		decrypt(table, key-1)
	}

	offsets := make([]uint32, tableDWORDs)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint32(table[i*4:])
	}

	out := make([]byte, 0, block.UncompressedSize)
	for i := uint32(0); i < sectorCount; i++ {
		start, end := offsets[i], offsets[i+1]
		size := end - start

		sector := make([]byte, size)
		readPos := offset + int64(int32(start))
		if _, err := a.f.ReadAt(sector, readPos); err != nil {
			return nil, err
		}
		if block.Flags&fileEncrypted != 0 {
			decrypt(sector, key+i)
		}

		expected := sectorSize
		if remain := block.UncompressedSize - i*sectorSize; remain < expected {
			expected = remain
		}

		if size == expected {
			out = append(out, sector...)
			continue
		}

		switch sector[0] {
		case compressionZlib:
			r, err := zlib.NewReader(bytes.NewReader(sector[1:]))
			if err != nil {
				return nil, err
			}
			data, err := io.ReadAll(r)
			r.Close()
			if err != nil {
				return nil, err
			}
			out = append(out, data...)
		default:
			return nil, fmt.Errorf("mpqarchive: unsupported sector compression 0x%02X", sector[0])
		}
	}

	return out[:block.UncompressedSize], nil
}

func decompressSingleUnit(data []byte, expected uint32) ([]byte, error) {
	switch data[0] {
	case compressionZlib:
		r, err := zlib.NewReader(bytes.NewReader(data[1:]))
		if err != nil {
			return nil, err
		}
		out, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, fmt.Errorf("mpqarchive: unsupported compression 0x%02X", data[0])
	}
}

func baseNameForKey(name string) string {
	name = strings.ReplaceAll(name, "/", "\\")
	if i := strings.LastIndex(name, "\\"); i >= 0 {
		return name[i+1:]
	}
	return name
}

func (a *Archive) fileKey(name string, block blockEntry, absOffset int64) uint32 {
	key := hashString(baseNameForKey(name), hashFileKey)
	if block.Flags&fileFixKey != 0 {
		key = (key + uint32(absOffset-a.archivePos)) ^ block.UncompressedSize
	}
	return key
}
