package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/foereaper/wowblp/blp"
	"github.com/foereaper/wowblp/internal/mpqarchive"
	"github.com/foereaper/wowblp/internal/vfs"
)

var extractMPQs []string

var extractCmd = &cobra.Command{
	Use:   "extract <asset-path> <outfile>",
	Short: "Resolve an asset path through a stack of MPQ archives and write it to disk",
	Long: `extract layers the archives given by --mpq (in the order given, later
entries take priority) into one filesystem view and copies asset-path
out of it. For a BLP0 (external-chunk) source, its sidecar mipmap files
are copied alongside outfile too.`,
	Args: cobra.ExactArgs(2),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringSliceVar(&extractMPQs, "mpq", nil, "MPQ archive path, repeatable; later entries shadow earlier ones")
	_ = extractCmd.MarkFlagRequired("mpq")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(_ *cobra.Command, args []string) error {
	assetPath, outPath := args[0], args[1]

	set := vfs.NewSet()
	for _, path := range extractMPQs {
		a, err := mpqarchive.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer a.Close()
		set.Push(a)
		logVerbose("loaded %s", path)
	}

	if src, ok := set.Resolve(assetPath); ok {
		logVerbose("%s resolved from %s", assetPath, src)
	}

	f, err := set.Open(assetPath)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", assetPath, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bytes)\n", outPath, len(data))

	// If this is a BLP0 (external-chunk) stream, its sidecar mipmap
	// files live alongside assetPath inside the archive stack too;
	// copy every one that resolves.
	if len(data) >= blp.HeaderSize && string(data[0:4]) == "BLP0" {
		copyBLP0Sidecars(set, assetPath, outPath)
	}

	return nil
}

func copyBLP0Sidecars(set *vfs.Set, assetPath, outPath string) {
	for i := 0; i < 17; i++ {
		name := fmt.Sprintf("%s.b%02d", trimExt(assetPath), i)
		f, err := set.Open(name)
		if err != nil {
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			continue
		}
		dst := fmt.Sprintf("%s.b%02d", trimExt(outPath), i)
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			logVerbose("write %s: %v", dst, err)
			continue
		}
		logVerbose("wrote sidecar %s", dst)
	}
}

func trimExt(p string) string {
	for i := len(p) - 1; i >= 0 && p[i] != '/' && p[i] != '\\'; i-- {
		if p[i] == '.' {
			return p[:i]
		}
	}
	return p
}
