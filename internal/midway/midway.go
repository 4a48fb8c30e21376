// Package midway harmonizes the histograms of one band across a time series.
// Each image's inverse CDF is sampled at fixed quantile knots, the knots are
// averaged across the group, and every image is remapped through the
// averaged knots so the whole group shares one "midway" histogram.
package midway

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/earthgaze/landseries/internal/raster"
)

// Knots is the number of quantile samples taken from each image's CDF.
const Knots = 100

// Equalizer is the default midway equalization collaborator.
type Equalizer struct{}

// New creates an Equalizer.
func New() *Equalizer {
	return &Equalizer{}
}

// Equalize rewrites every crop in group in place so their histograms match
// the group's midway histogram. All paths must carry the same band; outDir
// is the run's output directory the crops live in.
func (e *Equalizer) Equalize(group []string, outDir string) error {
	if len(group) < 2 {
		return nil // a single image is already its own midway
	}

	images := make([]*image.Gray16, len(group))
	samples := make([][]float64, len(group))
	knots := make([][]float64, len(group))

	for i, path := range group {
		img, err := raster.ReadGray16(path)
		if err != nil {
			return err
		}
		images[i] = img

		s := toFloats(img)
		sort.Float64s(s)
		samples[i] = s

		k, err := quantileKnots(s)
		if err != nil {
			return fmt.Errorf("failed to sample histogram of %s: %w", path, err)
		}
		knots[i] = k
	}

	// Midway target: the per-knot mean of all the inverse CDFs.
	target := make([]float64, Knots)
	col := make([]float64, len(group))
	for k := 0; k < Knots; k++ {
		for i := range knots {
			col[i] = knots[i][k]
		}
		m, err := stats.Mean(col)
		if err != nil {
			return fmt.Errorf("failed to average histogram knots: %w", err)
		}
		target[k] = m
	}

	for i, path := range group {
		before, _ := stats.Mean(samples[i])
		remap(images[i], samples[i], target)
		if err := raster.WriteGray16(path, images[i]); err != nil {
			return fmt.Errorf("failed to rewrite equalized crop %s: %w", path, err)
		}
		after, _ := stats.Mean(toFloats(images[i]))
		slog.Debug("Equalized crop", "path", path, "mean_before", before, "mean_after", after)
	}

	return nil
}

// quantileKnots samples the inverse CDF of sorted at Knots evenly spaced
// quantiles.
func quantileKnots(sorted []float64) ([]float64, error) {
	knots := make([]float64, Knots)
	for k := 0; k < Knots; k++ {
		p := float64(k+1) * 100 / Knots
		v, err := stats.Percentile(sorted, p)
		if err != nil {
			return nil, err
		}
		knots[k] = v
	}
	return knots, nil
}

// remap rewrites img's samples through the target inverse CDF: each pixel is
// replaced by the target value at its own quantile.
func remap(img *image.Gray16, sorted []float64, target []float64) {
	n := len(sorted)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := float64(img.Gray16At(x, y).Y)

			// Quantile of v within its own image
			rank := sort.SearchFloat64s(sorted, v)
			q := 0.0
			if n > 1 {
				q = float64(rank) / float64(n-1)
			}

			// Interpolate the target inverse CDF at q
			pos := q * float64(Knots-1)
			lo := int(math.Floor(pos))
			hi := int(math.Ceil(pos))
			if hi >= Knots {
				hi = Knots - 1
			}
			mapped := target[lo]
			if hi > lo {
				frac := pos - float64(lo)
				mapped = target[lo]*(1-frac) + target[hi]*frac
			}

			img.SetGray16(x, y, gray16(mapped))
		}
	}
}

func toFloats(img *image.Gray16) []float64 {
	b := img.Bounds()
	out := make([]float64, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out = append(out, float64(img.Gray16At(x, y).Y))
		}
	}
	return out
}

func gray16(v float64) color.Gray16 {
	if v < 0 {
		v = 0
	}
	if v > math.MaxUint16 {
		v = math.MaxUint16
	}
	return color.Gray16{Y: uint16(math.Round(v))}
}
