// Package register aligns a crop time series onto a common pixel grid with
// whole-pixel translations. The shift for each scene is estimated on its
// first band by searching a small offset window for the lowest mean absolute
// difference against a reference scene, then applied to every band of that
// scene in place.
package register

import (
	"fmt"
	"image"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/earthgaze/landseries/internal/raster"
	"github.com/earthgaze/landseries/internal/series"
)

// Aligner is the default registration collaborator.
type Aligner struct {
	// MaxShiftPixels bounds the offset search in each direction. The default
	// covers the 100 m working margin at Landsat resolution.
	MaxShiftPixels int
}

// New creates an Aligner with the default search window.
func New() *Aligner {
	return &Aligner{MaxShiftPixels: 3}
}

// Register aligns every crop set in b onto a reference drawn from a. With
// allPairwise set, every crop set in a is tried as reference and the one
// closest to all the others wins; otherwise the first set is the reference.
func (al *Aligner) Register(a, b series.TimeSeries, allPairwise bool) error {
	refs := make([]*image.Gray16, len(a))
	for i, crops := range a {
		if len(crops) == 0 {
			continue
		}
		img, err := raster.ReadGray16(crops[0])
		if err != nil {
			return err
		}
		refs[i] = img
	}

	refIdx := 0
	if allPairwise {
		refIdx = al.pickReference(refs)
	}
	if refIdx < 0 || refs[refIdx] == nil {
		return nil // nothing to align against
	}
	ref := refs[refIdx]

	var buf []float64
	for j, crops := range b {
		if len(crops) == 0 {
			continue
		}

		img, err := raster.ReadGray16(crops[0])
		if err != nil {
			return err
		}

		dx, dy := al.bestOffset(ref, img, &buf)
		if dx == 0 && dy == 0 {
			continue
		}
		slog.Debug("Estimated scene shift", "index", j, "dx", dx, "dy", dy)

		for _, path := range crops {
			band, err := raster.ReadGray16(path)
			if err != nil {
				return err
			}
			if err := raster.WriteGray16(path, shift(band, dx, dy)); err != nil {
				return fmt.Errorf("failed to rewrite registered crop %s: %w", path, err)
			}
		}
	}

	return nil
}

// pickReference returns the index of the image with the smallest summed
// difference against all the others, so the series is aligned onto its most
// central member. Returns -1 when no image is loadable.
func (al *Aligner) pickReference(refs []*image.Gray16) int {
	best, bestSum := -1, math.Inf(1)
	var buf []float64
	for i, ri := range refs {
		if ri == nil {
			continue
		}
		sum := 0.0
		for j, rj := range refs {
			if i == j || rj == nil {
				continue
			}
			sum += meanAbsDiff(ri, rj, 0, 0, &buf)
		}
		if sum < bestSum {
			best, bestSum = i, sum
		}
	}
	return best
}

// bestOffset searches the shift window for the offset that best matches img
// onto ref.
func (al *Aligner) bestOffset(ref, img *image.Gray16, buf *[]float64) (int, int) {
	bestDx, bestDy, bestErr := 0, 0, math.Inf(1)
	for dy := -al.MaxShiftPixels; dy <= al.MaxShiftPixels; dy++ {
		for dx := -al.MaxShiftPixels; dx <= al.MaxShiftPixels; dx++ {
			e := meanAbsDiff(ref, img, dx, dy, buf)
			if e < bestErr {
				bestDx, bestDy, bestErr = dx, dy, e
			}
		}
	}
	return bestDx, bestDy
}

// meanAbsDiff compares ref against img shifted by (dx, dy), over the pixels
// where both are defined.
func meanAbsDiff(ref, img *image.Gray16, dx, dy int, buf *[]float64) float64 {
	rb, ib := ref.Bounds(), img.Bounds()
	diffs := (*buf)[:0]

	for y := rb.Min.Y; y < rb.Max.Y; y++ {
		for x := rb.Min.X; x < rb.Max.X; x++ {
			sx, sy := x-dx, y-dy
			if sx < ib.Min.X || sx >= ib.Max.X || sy < ib.Min.Y || sy >= ib.Max.Y {
				continue
			}
			d := float64(ref.Gray16At(x, y).Y) - float64(img.Gray16At(sx, sy).Y)
			diffs = append(diffs, math.Abs(d))
		}
	}
	*buf = diffs

	if len(diffs) == 0 {
		return math.Inf(1)
	}
	return stat.Mean(diffs, nil)
}

// shift returns img translated by (dx, dy) on an identically sized canvas,
// zero-filling the uncovered edge.
func shift(img *image.Gray16, dx, dy int) *image.Gray16 {
	b := img.Bounds()
	out := image.NewGray16(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			sx, sy := x-dx, y-dy
			if sx < b.Min.X || sx >= b.Max.X || sy < b.Min.Y || sy >= b.Max.Y {
				continue
			}
			out.SetGray16(x, y, img.Gray16At(sx, sy))
		}
	}
	return out
}
