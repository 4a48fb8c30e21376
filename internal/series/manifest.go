package series

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestName is the run manifest file written into the output directory.
const ManifestName = "manifest.yaml"

// Manifest records what a run was asked for and what it produced.
type Manifest struct {
	Generated  string          `yaml:"generated"`
	Lat        float64         `yaml:"lat"`
	Lon        float64         `yaml:"lon"`
	StartDate  string          `yaml:"startdate,omitempty"`
	EndDate    string          `yaml:"enddate,omitempty"`
	Bands      []string        `yaml:"bands"`
	SizeMeters float64         `yaml:"sizemeters"`
	Registered bool            `yaml:"registered"`
	Equalized  bool            `yaml:"equalized"`
	Scenes     []ManifestScene `yaml:"scenes"`
	Dropped    []string        `yaml:"dropped,omitempty"`
}

// ManifestScene records one surviving scene and its crop files.
type ManifestScene struct {
	ID    string   `yaml:"id"`
	Date  string   `yaml:"date"`
	Files []string `yaml:"files"`
}

// NewManifest builds a manifest from a run's options and result.
func NewManifest(opts Options, result *Result) Manifest {
	m := Manifest{
		Generated:  time.Now().Format(time.RFC3339),
		Lat:        opts.Lat,
		Lon:        opts.Lon,
		Bands:      opts.Bands,
		SizeMeters: opts.WidthM,
		Registered: opts.Register,
		Equalized:  opts.Equalize,
	}
	if opts.StartDate != nil {
		m.StartDate = opts.StartDate.Format("2006-01-02")
	}
	if opts.EndDate != nil {
		m.EndDate = opts.EndDate.Format("2006-01-02")
	}

	for i, scene := range result.Kept {
		files := make([]string, 0, len(result.Series[i]))
		for _, path := range result.Series[i] {
			files = append(files, filepath.Base(path))
		}
		m.Scenes = append(m.Scenes, ManifestScene{
			ID:    scene.ID,
			Date:  scene.Date.Format("2006-01-02"),
			Files: files,
		})
	}
	for _, scene := range result.Dropped {
		m.Dropped = append(m.Dropped, scene.ID)
	}

	return m
}

// WriteManifest saves the manifest into outDir.
func WriteManifest(outDir string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	path := filepath.Join(outDir, ManifestName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a run manifest from path.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}
