// Command blpctl inspects, decodes, encodes, and round-trip-verifies
// BLP0/BLP1 texture files, and can extract them straight out of MPQ
// game archives.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "blpctl",
	Short: "Inspect, decode, encode and verify BLP0/BLP1 textures",
	Long: `blpctl reads and writes Blizzard's BLP0/BLP1 texture container
format: 8-bit palettised or shared-header JPEG mipmap pyramids, with
optional packed alpha bands.`,
	Version: version,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"blpctl %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[blpctl] "+format+"\n", args...)
	}
}
