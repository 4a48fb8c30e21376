package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/earthgaze/landseries/internal/series"
)

func newInspectCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize a completed time-series run",
		Long: `Inspect reads the manifest a previous run wrote into its output directory
and prints what the run was asked for and which scenes survived.`,
		Example: `  landseries inspect --dir ./pisa`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := series.ReadManifest(filepath.Join(dir, series.ManifestName))
			if err != nil {
				return err
			}

			fmt.Printf("Run generated:  %s\n", m.Generated)
			fmt.Printf("Point:          %.5f, %.5f\n", m.Lat, m.Lon)
			if m.StartDate != "" || m.EndDate != "" {
				fmt.Printf("Window:         %s .. %s\n", orAny(m.StartDate), orAny(m.EndDate))
			}
			fmt.Printf("Bands:          %v\n", m.Bands)
			fmt.Printf("Crop size:      %.0f m\n", m.SizeMeters)
			fmt.Printf("Registered:     %v\n", m.Registered)
			fmt.Printf("Equalized:      %v\n", m.Equalized)
			fmt.Printf("Scenes kept:    %d\n", len(m.Scenes))
			for _, s := range m.Scenes {
				fmt.Printf("  %s  %s  (%d crops)\n", s.Date, s.ID, len(s.Files))
			}
			if len(m.Dropped) > 0 {
				fmt.Printf("Scenes dropped: %d\n", len(m.Dropped))
				for _, id := range m.Dropped {
					fmt.Printf("  %s\n", id)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "output directory of the run to inspect")
	return cmd
}

func orAny(s string) string {
	if s == "" {
		return "any"
	}
	return s
}
