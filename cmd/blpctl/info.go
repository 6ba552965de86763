package main

import (
	"encoding/json"
	"fmt"
	"image"
	"os"

	"github.com/spf13/cobra"

	"github.com/foereaper/wowblp/blp"
	"github.com/foereaper/wowblp/internal/hashutil"
)

// rgbaBytes rasterizes img to a deterministic 4-band byte sequence for
// content hashing, since img's concrete type varies by encoding path
// (jpegRaster, *IndexedRaster, *image.Paletted, ...).
func rgbaBytes(img image.Image) []byte {
	b := img.Bounds()
	out := make([]byte, 0, 4*b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			out = append(out, byte(r>>8), byte(g>>8), byte(bl>>8), byte(a>>8))
		}
	}
	return out
}

var infoJSON bool

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Print a BLP file's header and mipmap directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "emit a JSON manifest instead of plain text")
	rootCmd.AddCommand(infoCmd)
}

// manifest is a read-only reporting structure (SPEC_FULL.md §3A), never
// part of the wire format.
type manifest struct {
	Path       string          `json:"path"`
	Version    string          `json:"version"`
	Encoding   string          `json:"encoding"`
	AlphaBits  int             `json:"alphaBits"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	HasMipmaps bool            `json:"hasMipmaps"`
	Mipmaps    []mipmapManifest `json:"mipmaps"`
}

type mipmapManifest struct {
	Index  int    `json:"index"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int    `json:"size,omitempty"`
	Hash   string `json:"hash,omitempty"`
	Error  string `json:"error,omitempty"`
}

func runInfo(_ *cobra.Command, args []string) error {
	path := args[0]

	dec, err := blp.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	var warnings []blp.Warning
	dec.SetWarningSink(blp.CollectingSink(&warnings))

	h := dec.Header()
	m := manifest{
		Path:       path,
		Version:    versionName(h.Version),
		Encoding:   encodingName(h.Encoding),
		AlphaBits:  h.AlphaBits,
		Width:      h.Width,
		Height:     h.Height,
		HasMipmaps: h.HasMipmaps,
	}

	count := dec.MipmapCount()
	for i := 0; i < count; i++ {
		w, ht, _ := dec.Dimensions(i)
		entry := mipmapManifest{Index: i, Width: w, Height: ht}

		if img, err := dec.Read(i, blp.DefaultReadOptions()); err != nil {
			entry.Error = err.Error()
		} else {
			entry.Hash = hashutil.ContentHash(rgbaBytes(img), 16)
		}
		m.Mipmaps = append(m.Mipmaps, entry)
	}

	if infoJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}

	printManifest(m)
	for _, w := range warnings {
		fmt.Printf("  warning: %s\n", w.Error())
	}
	return nil
}

func printManifest(m manifest) {
	fmt.Printf("%s\n", m.Path)
	fmt.Printf("  version:    %s\n", m.Version)
	fmt.Printf("  encoding:   %s\n", m.Encoding)
	fmt.Printf("  alphaBits:  %d\n", m.AlphaBits)
	fmt.Printf("  dimensions: %dx%d\n", m.Width, m.Height)
	fmt.Printf("  mipmaps:    %d\n", len(m.Mipmaps))
	for _, e := range m.Mipmaps {
		if e.Error != "" {
			fmt.Printf("    [%2d] %4dx%-4d  error: %s\n", e.Index, e.Width, e.Height, e.Error)
			continue
		}
		fmt.Printf("    [%2d] %4dx%-4d  hash %s\n", e.Index, e.Width, e.Height, e.Hash)
	}
}

func versionName(v blp.Version) string {
	if v == blp.BLP0 {
		return "BLP0"
	}
	return "BLP1"
}

func encodingName(e blp.Encoding) string {
	if e == blp.EncodingIndexed {
		return "indexed"
	}
	return "jpeg"
}
