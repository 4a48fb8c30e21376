package series

import (
	"fmt"
	"log/slog"
	"os"
)

// FilterCrops decides whether a scene's crops are usable. A scene is kept
// only when acquisition produced at least one crop and every crop contains a
// non-zero sample; an all-zero crop is how empty or cloud-masked
// acquisitions arrive, so rejection is routine filtering, not an error.
//
// On rejection every crop already written for the scene is deleted. The
// returned error reports raster or filesystem faults only, never emptiness.
func FilterCrops(probe ProbeFunc, crops CropSet) (bool, error) {
	if len(crops) == 0 {
		return false, nil
	}

	usable := true
	for _, path := range crops {
		ok, err := probe(path)
		if err != nil {
			return false, fmt.Errorf("failed to probe crop %s: %w", path, err)
		}
		if !ok {
			slog.Debug("Crop is all-zero, dropping scene", "path", path)
			usable = false
			break
		}
	}

	if usable {
		return true, nil
	}

	// Cleanup is mandatory: none of a rejected scene's crops may stay on disk.
	for _, path := range crops {
		if err := os.Remove(path); err != nil {
			return false, fmt.Errorf("failed to delete rejected crop %s: %w", path, err)
		}
	}
	return false, nil
}
