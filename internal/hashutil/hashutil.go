// Package hashutil computes short content hashes for blpctl's reporting
// output, letting a user diff two encodes without a byte-for-byte file
// compare.
package hashutil

import (
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// ContentHash returns the xxHash64 of data as a hex string, truncated to
// hexLen characters (0 or >= 16 means "full 16 chars").
func ContentHash(data []byte, hexLen int) string {
	h := xxhash.Sum64(data)
	full := hex.EncodeToString(uint64ToBytes(h))
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}

func uint64ToBytes(v uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> uint(56-8*i))
	}
	return b
}
