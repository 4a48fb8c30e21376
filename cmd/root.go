package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "landseries",
		Short: "Landsat crop time-series assembly tool",
		Long: `Landseries downloads, filters, registers, and equalizes Landsat image crops
for a geographic point, producing a temporally aligned time series.

Given a latitude/longitude and an optional date window it searches the scene
catalog, downloads per-band crops for every acquisition, drops empty or
cloud-masked scenes, optionally registers the series onto a common pixel grid,
and optionally harmonizes histograms band by band across time.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newInspectCmd())

	return cmd
}
