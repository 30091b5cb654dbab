package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mahaarbo/step-to-meshes/internal/placement"
)

var placementsCmd = &cobra.Command{
	Use:   "placements",
	Short: "Inspect placement record files",
}

var placementsShowCmd = &cobra.Command{
	Use:   "show <placements.csv>",
	Short: "Decode and print a placements file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlacementsShow,

	SilenceUsage: true,
}

func init() {
	placementsCmd.AddCommand(placementsShowCmd)
}

func runPlacementsShow(cmd *cobra.Command, args []string) error {
	rows, err := placement.ReadBatch(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tX [mm]\tY [mm]\tZ [mm]\tAXIS\tANGLE [rad]")
	for _, row := range rows {
		p := row.Placement
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.3f\t(%.4f, %.4f, %.4f)\t%.6f\n",
			row.Label,
			p.Base.X, p.Base.Y, p.Base.Z,
			p.Axis.X, p.Axis.Y, p.Axis.Z,
			p.Angle)
	}
	return w.Flush()
}
