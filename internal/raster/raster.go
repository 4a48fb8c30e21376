// Package raster reads, writes, probes, and crops the 16-bit grayscale TIFF
// crops the pipeline works on.
//
// Crops are requested in ground meters and delivered centered on the request
// point, so a footprint maps to a pixel window through the sensor resolution
// and the target window of any re-crop is the image center.
package raster

import (
	"fmt"
	"image"
	"math"
	"os"

	"golang.org/x/image/tiff"
)

// MetersPerPixel is the ground sampling distance of the Landsat bands the
// pipeline requests.
const MetersPerPixel = 30.0

// PixelsFor converts a ground distance in meters to a pixel count.
func PixelsFor(meters float64) int {
	return int(math.Round(meters / MetersPerPixel))
}

// ReadGray16 decodes the TIFF at path into a Gray16 image.
func ReadGray16(path string) (*image.Gray16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raster %s: %w", path, err)
	}
	defer f.Close()

	img, err := tiff.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode raster %s: %w", path, err)
	}

	if g, ok := img.(*image.Gray16); ok {
		return g, nil
	}

	// Re-sample anything else into Gray16 so callers see one pixel format.
	b := img.Bounds()
	g := image.NewGray16(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g.Set(x, y, img.At(x, y))
		}
	}
	return g, nil
}

// WriteGray16 encodes img as a TIFF at path, truncating any existing file.
func WriteGray16(path string, img *image.Gray16) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create raster %s: %w", path, err)
	}

	if err := tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode raster %s: %w", path, err)
	}
	return f.Close()
}

// HasNonZero reports whether the raster at path contains at least one
// non-zero sample. An entirely zero raster is how the imagery API delivers
// empty or cloud-masked acquisitions.
func HasNonZero(path string) (bool, error) {
	img, err := ReadGray16(path)
	if err != nil {
		return false, err
	}
	for _, b := range img.Pix {
		if b != 0 {
			return true, nil
		}
	}
	return false, nil
}

// CropCentered rewrites dst as the sub-raster of src covering widthM x
// heightM ground meters centered on (lat, lon). dst may equal src. Source
// crops are centered on the same point, so the window is the centered
// widthM/heightM pixel rectangle.
func CropCentered(dst, src string, lon, lat float64, widthM, heightM float64) error {
	img, err := ReadGray16(src)
	if err != nil {
		return err
	}

	b := img.Bounds()
	w := PixelsFor(widthM)
	h := PixelsFor(heightM)
	if w > b.Dx() || h > b.Dy() {
		return fmt.Errorf("crop %dx%d px exceeds raster %s (%dx%d px)", w, h, src, b.Dx(), b.Dy())
	}

	x0 := b.Min.X + (b.Dx()-w)/2
	y0 := b.Min.Y + (b.Dy()-h)/2
	window := image.Rect(x0, y0, x0+w, y0+h)

	out := image.NewGray16(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.SetGray16(x, y, img.Gray16At(window.Min.X+x, window.Min.Y+y))
		}
	}

	return WriteGray16(dst, out)
}
