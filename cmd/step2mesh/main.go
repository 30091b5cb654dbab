package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "step2mesh",
	Short: "Convert CAD assemblies into simplified mesh folders",
	Long: "step2mesh converts a CAD assembly into one folder per unique part holding\n" +
		"full, decimated and convex-hull meshes plus a placements.csv of every\n" +
		"occurrence's rigid transform, ready for URDF-style consumers.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(placementsCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
