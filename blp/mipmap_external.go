package blp

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// sidecarPath returns the sibling filename that holds mipmap i's payload
// for the external-chunk variant (BLP0), per spec §6's "External-variant
// filename convention": given main path X.blp, mipmap i lives at
// X.b<NN>, NN a two-digit zero-padded decimal mipmap index.
func sidecarPath(mainPath string, i int) string {
	base := strings.TrimSuffix(mainPath, filepath.Ext(mainPath))
	return fmt.Sprintf("%s.b%02d", base, i)
}

// externalMipmapReader implements chunk lookup for BLP0's external-chunk
// variant: every mipmap payload, including level 0, lives in a sibling
// file named by sidecarPath (spec §4.5, component C5). fsys resolves
// sidecar reads, so callers can point it at a real filesystem or at a
// layered internal/vfs.Set when extracting from an archive.
type externalMipmapReader struct {
	fsys     fs.FS
	mainPath string
	count    int
}

func newExternalMipmapReader(fsys fs.FS, mainPath string, count int) *externalMipmapReader {
	return &externalMipmapReader{fsys: fsys, mainPath: mainPath, count: count}
}

// Chunk reads mipmap i's sidecar file. A missing sidecar is reported as
// ErrMipmapMissing; per spec §4.5, whether that is fatal depends on i
// (level 0 missing is always fatal) — that decision is the driver's, not
// this reader's, so it is surfaced uniformly here.
func (r *externalMipmapReader) Chunk(i int) ([]byte, error) {
	if i < 0 || i >= r.count {
		return nil, wrapf(ErrInvalidMipmapIndex, "mipmap %d", i)
	}
	name := sidecarPath(r.mainPath, i)
	data, err := fs.ReadFile(r.fsys, toFSPath(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, wrapf(ErrMipmapMissing, "mipmap %d sidecar %s", i, name)
		}
		return nil, err
	}
	return data, nil
}

// writeExternalChunks writes each payload to its sidecar file on the
// real filesystem, alongside mainPath (spec §4.7 step 6, external
// variant: "the main file holds only the header and prelude").
func writeExternalChunks(mainPath string, payloads [][]byte) error {
	for i, p := range payloads {
		name := sidecarPath(mainPath, i)
		if err := os.WriteFile(name, p, 0o644); err != nil {
			return fmt.Errorf("write sidecar %s: %w", name, err)
		}
	}
	return nil
}

// toFSPath adapts an OS-native path to the slash-separated, non-rooted
// form io/fs requires; mpqarchive/vfs filesystems only ever see relative
// asset paths, but sidecarPath is built from an OS path when the caller
// is operating directly on disk (fsys == os.DirFS-backed).
func toFSPath(p string) string {
	p = filepath.ToSlash(p)
	return strings.TrimPrefix(p, "/")
}
