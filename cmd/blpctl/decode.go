package main

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/foereaper/wowblp/blp"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <file> <outdir>",
	Short: "Decode every mipmap in a BLP file to PNG",
	Args:  cobra.ExactArgs(2),
	RunE:  runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(_ *cobra.Command, args []string) error {
	path, outDir := args[0], args[1]

	dec, err := blp.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	dec.SetWarningSink(func(w blp.Warning) {
		logVerbose("%s", w.Error())
	})

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	count, err := dec.AvailableMipmapCount()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Base(path)
	base = base[:len(base)-len(filepath.Ext(base))]

	for i := 0; i < count; i++ {
		img, err := dec.Read(i, blp.DefaultReadOptions())
		if err != nil {
			return fmt.Errorf("mipmap %d: %w", i, err)
		}

		outPath := filepath.Join(outDir, fmt.Sprintf("%s_mip%02d.png", base, i))
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		err = png.Encode(f, img)
		f.Close()
		if err != nil {
			return err
		}
		logVerbose("wrote %s", outPath)
	}

	fmt.Printf("decoded %d mipmap(s) to %s\n", count, outDir)
	return nil
}
