package series

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/earthgaze/landseries/internal/catalog"
)

func TestManifestRoundtrip(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)

	opts := Options{
		Lat:       43.72,
		Lon:       10.40,
		Bands:     []string{"4", "3", "2"},
		WidthM:    5000,
		HeightM:   5000,
		Register:  true,
		Equalize:  true,
		StartDate: &start,
		OutDir:    dir,
	}
	result := &Result{
		Series: TimeSeries{
			{filepath.Join(dir, "LC08_S1_B4.TIF"), filepath.Join(dir, "LC08_S1_B3.TIF")},
		},
		Kept: []catalog.Scene{
			{ID: "LC08_S1", Date: time.Date(2023, time.June, 5, 10, 0, 0, 0, time.UTC)},
		},
		Dropped: []catalog.Scene{
			{ID: "LC08_S2", Date: time.Date(2023, time.June, 21, 10, 0, 0, 0, time.UTC)},
		},
	}

	if err := WriteManifest(dir, NewManifest(opts, result)); err != nil {
		t.Fatalf("WriteManifest failed: %v", err)
	}

	m, err := ReadManifest(filepath.Join(dir, ManifestName))
	if err != nil {
		t.Fatalf("ReadManifest failed: %v", err)
	}

	if m.Lat != 43.72 || m.Lon != 10.40 {
		t.Errorf("Point = %v, %v; want 43.72, 10.40", m.Lat, m.Lon)
	}
	if m.StartDate != "2023-06-01" || m.EndDate != "" {
		t.Errorf("Window = %q .. %q; want 2023-06-01 .. \"\"", m.StartDate, m.EndDate)
	}
	if !m.Registered || !m.Equalized {
		t.Errorf("Flags = registered %v, equalized %v; want both true", m.Registered, m.Equalized)
	}

	wantScenes := []ManifestScene{
		{ID: "LC08_S1", Date: "2023-06-05", Files: []string{"LC08_S1_B4.TIF", "LC08_S1_B3.TIF"}},
	}
	if diff := cmp.Diff(wantScenes, m.Scenes); diff != "" {
		t.Errorf("Scenes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"LC08_S2"}, m.Dropped); diff != "" {
		t.Errorf("Dropped mismatch (-want +got):\n%s", diff)
	}
}

func TestReadManifestMissing(t *testing.T) {
	if _, err := ReadManifest(filepath.Join(t.TempDir(), ManifestName)); err == nil {
		t.Error("Expected error reading missing manifest")
	}
}
