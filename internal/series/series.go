// Package series assembles a temporally aligned, radiometrically consistent
// Landsat crop time series: it sequences scene discovery, crop acquisition,
// empty-scene filtering, registration with margin bookkeeping, and band-wise
// midway equalization.
package series

import (
	"time"

	"github.com/earthgaze/landseries/internal/catalog"
)

// CropSet holds the crop file paths for one scene, positionally aligned with
// the requested band sequence. It may be shorter than the band sequence when
// trailing bands were unavailable for that scene.
type CropSet []string

// TimeSeries holds one CropSet per surviving scene, ordered by acquisition
// date ascending.
type TimeSeries []CropSet

// SceneLister finds the scenes covering a point within a date window,
// ordered by acquisition date ascending.
type SceneLister interface {
	Search(lat, lon float64, start, end *time.Time) ([]catalog.Scene, error)
}

// CropFetcher downloads one crop per requested band for a scene into outDir.
// It returns the paths written, in band order; a shorter or empty list means
// trailing bands (or the whole scene) were unavailable, which is routine.
type CropFetcher interface {
	GetCrops(scene catalog.Scene, bands []string, lon, lat, widthM, heightM float64, outDir string) []string
}

// Registerer geometrically aligns two collections of crop sets in place.
// When allPairwise is true every crop set may serve as reference for every
// other.
type Registerer interface {
	Register(a, b TimeSeries, allPairwise bool) error
}

// Equalizer radiometrically harmonizes a group of crops in place. All paths
// in a group carry the same band across different acquisition dates.
type Equalizer interface {
	Equalize(group []string, outDir string) error
}

// TrimFunc rewrites dst as the sub-raster of src covering widthM x heightM
// ground meters centered on (lat, lon). dst may equal src.
type TrimFunc func(dst, src string, lon, lat, widthM, heightM float64) error

// ProbeFunc reports whether the raster at path contains any non-zero sample.
type ProbeFunc func(path string) (bool, error)
