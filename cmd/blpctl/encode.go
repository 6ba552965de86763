package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/foereaper/wowblp/blp"
)

var (
	encVersion    string
	encEncoding   string
	encAlphaBits  int
	encQuality    float64
	encAutoMipmap bool
)

var encodeCmd = &cobra.Command{
	Use:   "encode <image> <file.blp>",
	Short: "Encode a PNG/JPEG image into a BLP0 or BLP1 file",
	Args:  cobra.ExactArgs(2),
	RunE:  runEncode,
}

func init() {
	encodeCmd.Flags().StringVar(&encVersion, "version", "BLP1", "BLP0 or BLP1")
	encodeCmd.Flags().StringVar(&encEncoding, "encoding", "indexed", "indexed or jpeg")
	encodeCmd.Flags().IntVar(&encAlphaBits, "alpha", 8, "alpha bit depth (0,1,4,8 for indexed; 0,8 for jpeg)")
	encodeCmd.Flags().Float64Var(&encQuality, "quality", 0.9, "JPEG quality in [0,1]")
	encodeCmd.Flags().BoolVar(&encAutoMipmap, "auto-mipmap", true, "generate the full mipmap pyramid via area-average downscaling")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(_ *cobra.Command, args []string) error {
	srcPath, dstPath := args[0], args[1]

	f, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	src, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decode %s: %w", srcPath, err)
	}

	version := blp.BLP1
	if encVersion == "BLP0" {
		version = blp.BLP0
	}
	enc := blp.EncodingIndexed
	if encEncoding == "jpeg" {
		enc = blp.EncodingJPEG
	}

	b := src.Bounds()
	e, err := blp.NewEncoder(version, enc, encAlphaBits, b.Dx(), b.Dy(), blp.Options{
		AutoMipmap: encAutoMipmap,
		WriteParam: blp.WriteParam{Quality: encQuality, DeepCheck: true},
	})
	if err != nil {
		return err
	}
	e.SetWarningSink(func(w blp.Warning) { logVerbose("%s", w.Error()) })

	if err := e.WriteFile(dstPath, src); err != nil {
		return fmt.Errorf("encode %s: %w", dstPath, err)
	}

	fmt.Printf("wrote %s\n", dstPath)
	return nil
}
