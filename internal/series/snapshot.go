package series

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/earthgaze/landseries/internal/fsutil"
)

// Snapshot directory names, under the run's output directory.
const (
	preRegistrationDir = "no_registration"
	preEqualizationDir = "no_midway"
)

// Snapshotter preserves diagnostic copies of the series at two checkpoints:
// before registration and before equalization. When disabled it creates no
// directories and copies nothing. Snapshots never touch the working crops,
// so their presence cannot change the pipeline's outcome.
type Snapshotter struct {
	Enabled bool
	OutDir  string
	Trim    TrimFunc
}

// PreRegistration saves the series as it stands before registration. The
// saved copies are trimmed to the target footprint on the way into the
// snapshot directory, so they compare directly against the final output;
// the working crops keep their margin.
func (s *Snapshotter) PreRegistration(ts TimeSeries, lon, lat, widthM, heightM float64) error {
	if !s.Enabled {
		return nil
	}

	dir := filepath.Join(s.OutDir, preRegistrationDir)
	if err := fsutil.EnsureDir(dir); err != nil {
		return err
	}

	for _, crops := range ts {
		for _, path := range crops {
			dst := filepath.Join(dir, filepath.Base(path))
			if err := s.Trim(dst, path, lon, lat, widthM, heightM); err != nil {
				return fmt.Errorf("failed to snapshot %s before registration: %w", path, err)
			}
		}
	}

	slog.Debug("Saved pre-registration snapshot", "dir", dir)
	return nil
}

// PreEqualization saves byte-for-byte copies of the series as it stands
// before equalization.
func (s *Snapshotter) PreEqualization(ts TimeSeries) error {
	if !s.Enabled {
		return nil
	}

	dir := filepath.Join(s.OutDir, preEqualizationDir)
	if err := fsutil.EnsureDir(dir); err != nil {
		return err
	}

	for _, crops := range ts {
		for _, path := range crops {
			dst := filepath.Join(dir, filepath.Base(path))
			if err := fsutil.CopyFile(dst, path); err != nil {
				return fmt.Errorf("failed to snapshot %s before equalization: %w", path, err)
			}
		}
	}

	slog.Debug("Saved pre-equalization snapshot", "dir", dir)
	return nil
}
