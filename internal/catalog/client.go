package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Client searches a STAC-style scene catalog for Landsat acquisitions.
type Client struct {
	BaseURL    string
	APIKey     string
	httpClient *http.Client
}

// NewClient creates a new catalog client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// searchRequest is the catalog search payload: a point intersection plus an
// optional datetime range.
type searchRequest struct {
	Intersects *geojson.Geometry `json:"intersects"`
	Datetime   string            `json:"datetime,omitempty"`
	Collection string            `json:"collection"`
	Limit      int               `json:"limit"`
}

// searchResponse is the GeoJSON FeatureCollection the catalog returns.
type searchResponse struct {
	Features []struct {
		ID         string `json:"id"`
		Properties struct {
			Datetime   string  `json:"datetime"`
			Platform   string  `json:"platform"`
			CloudCover float64 `json:"eo:cloud_cover"`
			WRSPath    int     `json:"landsat:wrs_path"`
			WRSRow     int     `json:"landsat:wrs_row"`
		} `json:"properties"`
	} `json:"features"`
}

// Search lists the scenes covering (lat, lon) within the optional date
// window, ordered by acquisition date ascending. An empty result is not an
// error: it just means nothing was acquired there in that window.
func (c *Client) Search(lat, lon float64, start, end *time.Time) ([]Scene, error) {
	req := searchRequest{
		Intersects: geojson.NewGeometry(orb.Point{lon, lat}),
		Datetime:   datetimeRange(start, end),
		Collection: "landsat-c2l1",
		Limit:      500,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.BaseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to search catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("catalog returned status %d: %s", resp.StatusCode, string(b))
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	scenes := make([]Scene, 0, len(sr.Features))
	for _, f := range sr.Features {
		date, err := time.Parse(time.RFC3339, f.Properties.Datetime)
		if err != nil {
			// Skip features with unparseable timestamps
			continue
		}
		scenes = append(scenes, Scene{
			ID:         f.ID,
			Date:       date,
			Platform:   f.Properties.Platform,
			CloudCover: f.Properties.CloudCover,
			WRSPath:    f.Properties.WRSPath,
			WRSRow:     f.Properties.WRSRow,
		})
	}

	SortByDate(scenes)
	return scenes, nil
}

// SortByDate orders scenes by acquisition date ascending, keeping the
// incoming order for equal timestamps.
func SortByDate(scenes []Scene) {
	sort.SliceStable(scenes, func(i, j int) bool {
		return scenes[i].Date.Before(scenes[j].Date)
	})
}

func datetimeRange(start, end *time.Time) string {
	if start == nil && end == nil {
		return ""
	}
	s, e := "..", ".."
	if start != nil {
		s = start.Format(time.RFC3339)
	}
	if end != nil {
		e = end.Format(time.RFC3339)
	}
	return s + "/" + e
}
