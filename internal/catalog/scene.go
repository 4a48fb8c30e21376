package catalog

import "time"

// Scene identifies one Landsat acquisition over the area of interest. The
// pipeline treats it as an opaque handle for downloading crops.
type Scene struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	Platform   string    `json:"platform,omitempty"`
	CloudCover float64   `json:"cloud_cover,omitempty"`
	WRSPath    int       `json:"wrs_path,omitempty"`
	WRSRow     int       `json:"wrs_row,omitempty"`
}
