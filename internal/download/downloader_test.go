package download

import (
	"bytes"
	"image"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/tiff"

	"github.com/earthgaze/landseries/internal/catalog"
)

func testScene() catalog.Scene {
	return catalog.Scene{
		ID:   "LC08_S1",
		Date: time.Date(2023, time.June, 5, 10, 0, 0, 0, time.UTC),
	}
}

// cropBytes encodes a small uncompressed raster, large enough to pass the
// fetcher's sanity check.
func cropBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewGray16(image.Rect(0, 0, 32, 32))
	if err := tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Uncompressed}); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestGetCropsAllBands(t *testing.T) {
	crop := cropBytes(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/crop" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("scene"); got != "LC08_S1" {
			t.Errorf("scene = %q, want LC08_S1", got)
		}
		_, _ = w.Write(crop)
	}))
	defer server.Close()

	outDir := t.TempDir()
	paths := NewFetcher(server.URL, "").GetCrops(testScene(), []string{"2", "3", "4"}, 10.40, 43.72, 5000, 5000, outDir)

	want := []string{
		filepath.Join(outDir, "LC08_S1_B2.TIF"),
		filepath.Join(outDir, "LC08_S1_B3.TIF"),
		filepath.Join(outDir, "LC08_S1_B4.TIF"),
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("Paths mismatch (-want +got):\n%s", diff)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("Crop %s not written: %v", p, err)
		}
	}
}

func TestGetCropsTruncatesAtFirstMissingBand(t *testing.T) {
	crop := cropBytes(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("band") == "3" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(crop)
	}))
	defer server.Close()

	outDir := t.TempDir()
	paths := NewFetcher(server.URL, "").GetCrops(testScene(), []string{"2", "3", "4"}, 10.40, 43.72, 5000, 5000, outDir)

	// Band 3 failed, so band 4 is never attempted: the crop set stays
	// positionally aligned with the requested band sequence.
	want := []string{filepath.Join(outDir, "LC08_S1_B2.TIF")}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("Paths mismatch (-want +got):\n%s", diff)
	}
}

func TestGetCropsServerDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	paths := NewFetcher(server.URL, "").GetCrops(testScene(), []string{"2"}, 10.40, 43.72, 5000, 5000, t.TempDir())
	if len(paths) != 0 {
		t.Errorf("Expected no paths on server failure, got %v", paths)
	}
}

func TestGetCropsRejectsTinyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("error: no data")) // error body, not a raster
	}))
	defer server.Close()

	paths := NewFetcher(server.URL, "").GetCrops(testScene(), []string{"2"}, 10.40, 43.72, 5000, 5000, t.TempDir())
	if len(paths) != 0 {
		t.Errorf("Expected tiny payload to be rejected, got %v", paths)
	}
}
