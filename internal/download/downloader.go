// Package download retrieves per-band Landsat crops from the imagery API.
package download

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/earthgaze/landseries/internal/catalog"
)

// Fetcher downloads scene crops band by band.
type Fetcher struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewFetcher creates a new crop fetcher.
func NewFetcher(baseURL, apiKey string) *Fetcher {
	return &Fetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// GetCrops downloads one crop per requested band for the scene, covering
// widthM x heightM ground meters centered on (lat, lon), into outDir. It
// returns the paths written, in band order.
//
// An unavailable band is routine, not an error: the download stops at the
// first band that cannot be retrieved so the returned paths stay positionally
// aligned with the requested band sequence, and the caller sees a shorter
// (possibly empty) list.
func (f *Fetcher) GetCrops(scene catalog.Scene, bandList []string, lon, lat float64, widthM, heightM float64, outDir string) []string {
	paths := make([]string, 0, len(bandList))

	for _, band := range bandList {
		outPath := filepath.Join(outDir, fmt.Sprintf("%s_B%s.TIF", scene.ID, band))
		if err := f.downloadCrop(scene.ID, band, lon, lat, widthM, heightM, outPath); err != nil {
			slog.Warn("Failed to download band crop", "scene", scene.ID, "band", band, "error", err)
			break
		}
		slog.Debug("Downloaded band crop", "scene", scene.ID, "band", band, "path", outPath)
		paths = append(paths, outPath)
	}

	return paths
}

// downloadCrop fetches a single band crop and writes it to outPath.
func (f *Fetcher) downloadCrop(sceneID, band string, lon, lat, widthM, heightM float64, outPath string) error {
	q := url.Values{}
	q.Set("scene", sceneID)
	q.Set("band", band)
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("width", fmt.Sprintf("%f", widthM))
	q.Set("height", fmt.Sprintf("%f", heightM))

	req, err := http.NewRequest(http.MethodGet, f.BaseURL+"/crop?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build crop request: %w", err)
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch crop: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("crop API returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read crop data: %w", err)
	}

	// A real crop carries at least a TIFF header and one strip
	if len(data) < 256 {
		return fmt.Errorf("crop too small (%d bytes, likely error payload)", len(data))
	}

	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write crop file: %w", err)
	}

	return nil
}
