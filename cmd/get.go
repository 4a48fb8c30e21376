package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/earthgaze/landseries/internal/bands"
	"github.com/earthgaze/landseries/internal/catalog"
	"github.com/earthgaze/landseries/internal/download"
	"github.com/earthgaze/landseries/internal/midway"
	"github.com/earthgaze/landseries/internal/raster"
	"github.com/earthgaze/landseries/internal/register"
	"github.com/earthgaze/landseries/internal/series"
)

func newGetCmd() *cobra.Command {
	var lat float64
	var lon float64
	var startDate string
	var endDate string
	var bandList []string
	var doRegister bool
	var doMidway bool
	var size float64
	var outDir string
	var debug bool
	var apiURL string
	var catalogFile string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Download, filter, register, and equalize a crop time series",
		Long: `Get assembles a Landsat crop time series for a geographic point.

It searches the scene catalog for acquisitions over the point, downloads the
requested band crops for each one, drops scenes whose crops are empty or
cloud-masked, and leaves the surviving crops in the output directory together
with a manifest of the run. With --register the crops are aligned onto a
common pixel grid; with --midway their histograms are harmonized band by band
across the series.`,
		Example: `  # All bands for a point, most recent first
  landseries get --lat 43.72 --lon 10.40

  # Registered, equalized RGB series for summer 2023
  landseries get --lat 43.72 --lon 10.40 -s 2023-06-01 -e 2023-09-01 \
      -b 4 -b 3 -b 2 --register --midway -o ./pisa

  # Discover scenes from a local list instead of the search API
  landseries get --lat 43.72 --lon 10.40 --catalog-file scenes.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if lat < -90 || lat > 90 {
				return fmt.Errorf("latitude %f out of range [-90, 90]", lat)
			}
			if lon < -180 || lon > 180 {
				return fmt.Errorf("longitude %f out of range [-180, 180]", lon)
			}
			if size <= 0 {
				return fmt.Errorf("crop size must be positive, got %f", size)
			}
			if err := bands.Validate(bandList); err != nil {
				return err
			}

			start, err := parseDate(startDate)
			if err != nil {
				return err
			}
			end, err := parseDate(endDate)
			if err != nil {
				return err
			}
			if start != nil && end != nil && end.Before(*start) {
				return fmt.Errorf("end date %s is before start date %s", endDate, startDate)
			}

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			if apiURL == "" {
				apiURL = os.Getenv("LANDSERIES_API_URL")
			}
			if apiURL == "" {
				return fmt.Errorf("no imagery API configured: pass --api-url or set LANDSERIES_API_URL")
			}
			apiKey := os.Getenv("LANDSERIES_API_KEY")

			var lister series.SceneLister = catalog.NewClient(apiURL, apiKey)
			if catalogFile != "" {
				lister = catalog.NewLoader(catalogFile)
			}

			pipeline := &series.Pipeline{
				Scenes:     lister,
				Crops:      download.NewFetcher(apiURL, apiKey),
				Registerer: register.New(),
				Equalizer:  midway.New(),
				Trim:       raster.CropCentered,
				Probe:      raster.HasNonZero,
			}

			opts := series.Options{
				Lat:       lat,
				Lon:       lon,
				Bands:     bandList,
				WidthM:    size,
				HeightM:   size,
				Register:  doRegister,
				Equalize:  doMidway,
				StartDate: start,
				EndDate:   end,
				OutDir:    outDir,
				Debug:     debug,
			}

			slog.Info("Assembling time series", "lat", lat, "lon", lon, "bands", len(bandList), "size_m", size)
			result, err := pipeline.Run(opts)
			if err != nil {
				return err
			}

			if err := series.WriteManifest(outDir, series.NewManifest(opts, result)); err != nil {
				return err
			}

			fmt.Printf("\nTime series complete!\n")
			fmt.Printf("  Scenes kept: %d\n", len(result.Kept))
			fmt.Printf("  Scenes dropped: %d\n", len(result.Dropped))
			fmt.Printf("  Output location: %s\n", outDir)
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude of the point of interest (required)")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude of the point of interest (required)")
	cmd.Flags().StringVarP(&startDate, "start-date", "s", "", "start date, YYYY-MM-DD")
	cmd.Flags().StringVarP(&endDate, "end-date", "e", "", "end date, YYYY-MM-DD")
	cmd.Flags().StringArrayVarP(&bandList, "band", "b", bands.All(), "spectral band to download (repeatable, default all 11 bands)")
	cmd.Flags().BoolVarP(&doRegister, "register", "r", false, "register images through time")
	cmd.Flags().BoolVarP(&doMidway, "midway", "m", false, "equalize colors with midway")
	cmd.Flags().Float64VarP(&size, "size", "w", 5000, "size of the crop, in meters")
	cmd.Flags().StringVarP(&outDir, "outdir", "o", ".", "path to save the images")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "save intermediate images")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "imagery API base URL (default $LANDSERIES_API_URL)")
	cmd.Flags().StringVar(&catalogFile, "catalog-file", "", "discover scenes from a local parquet/JSONL list instead of the search API")

	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

// parseDate validates a YYYY-MM-DD flag value; empty means unset.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return &t, nil
}
