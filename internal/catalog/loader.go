package catalog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
)

// Loader reads a precomputed scene list from a local file, for runs that
// should not hit the search API.
type Loader struct {
	catalogPath string
}

// NewLoader creates a loader for the given scene-list file.
func NewLoader(catalogPath string) *Loader {
	return &Loader{
		catalogPath: catalogPath,
	}
}

// sceneRecord is the on-disk schema of offline scene lists.
type sceneRecord struct {
	ID         string  `parquet:"id" json:"id"`
	Datetime   string  `parquet:"datetime" json:"datetime"`
	Platform   string  `parquet:"platform" json:"platform"`
	CloudCover float64 `parquet:"cloud_cover" json:"cloud_cover"`
	WRSPath    int32   `parquet:"wrs_path" json:"wrs_path"`
	WRSRow     int32   `parquet:"wrs_row" json:"wrs_row"`
}

// Load reads scenes from the catalog file (Parquet or JSONL), ordered by
// acquisition date ascending.
func (l *Loader) Load() ([]Scene, error) {
	ext := strings.ToLower(filepath.Ext(l.catalogPath))

	var records []sceneRecord
	var err error
	switch ext {
	case ".parquet":
		records, err = l.loadParquet()
	case ".jsonl", ".json":
		records, err = l.loadJSONL()
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s (supported: .parquet, .jsonl)", ext)
	}
	if err != nil {
		return nil, err
	}

	scenes := make([]Scene, 0, len(records))
	for _, rec := range records {
		date, err := time.Parse(time.RFC3339, rec.Datetime)
		if err != nil {
			slog.Warn("Skipping scene with bad datetime", "id", rec.ID, "datetime", rec.Datetime)
			continue
		}
		scenes = append(scenes, Scene{
			ID:         rec.ID,
			Date:       date,
			Platform:   rec.Platform,
			CloudCover: rec.CloudCover,
			WRSPath:    int(rec.WRSPath),
			WRSRow:     int(rec.WRSRow),
		})
	}

	SortByDate(scenes)
	return scenes, nil
}

// Search satisfies the same contract as Client.Search from the offline file:
// the scene list is assumed to cover the queried point, so only the date
// window is applied.
func (l *Loader) Search(lat, lon float64, start, end *time.Time) ([]Scene, error) {
	scenes, err := l.Load()
	if err != nil {
		return nil, err
	}

	filtered := scenes[:0]
	for _, s := range scenes {
		if start != nil && s.Date.Before(*start) {
			continue
		}
		if end != nil && s.Date.After(*end) {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered, nil
}

// loadJSONL loads scene records from a JSONL file.
func (l *Loader) loadJSONL() ([]sceneRecord, error) {
	slog.Debug("Opening JSONL catalog", "path", l.catalogPath)

	file, err := os.Open(l.catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer file.Close()

	var records []sceneRecord
	scanner := bufio.NewScanner(file)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()

		if len(line) == 0 {
			continue
		}

		var rec sceneRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading catalog: %w", err)
	}

	slog.Debug("Finished reading JSONL catalog", "total_records", len(records))
	return records, nil
}

// loadParquet loads scene records from a Parquet file.
func (l *Loader) loadParquet() ([]sceneRecord, error) {
	slog.Debug("Opening Parquet catalog", "path", l.catalogPath)

	file, err := os.Open(l.catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet catalog opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[sceneRecord](pf)
	defer reader.Close()

	var records []sceneRecord
	rows := make([]sceneRecord, 128) // Read in batches

	for {
		n, err := reader.Read(rows)
		if n > 0 {
			records = append(records, rows[:n]...)
		}
		if err != nil {
			break // io.EOF ends the read loop
		}
	}

	slog.Debug("Finished reading Parquet catalog", "total_records", len(records))
	return records, nil
}
