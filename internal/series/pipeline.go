package series

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/earthgaze/landseries/internal/catalog"
)

// Options configures one pipeline run.
type Options struct {
	Lat, Lon        float64
	Bands           []string
	WidthM, HeightM float64
	Register        bool
	Equalize        bool
	StartDate       *time.Time
	EndDate         *time.Time
	OutDir          string
	Debug           bool
}

// Result reports what a run produced: the surviving series plus the scenes
// behind each entry and the scenes dropped by the validity filter.
type Result struct {
	Series  TimeSeries
	Kept    []catalog.Scene
	Dropped []catalog.Scene
}

// Pipeline sequences one time-series assembly run. All fields must be set;
// no state survives a Run call.
type Pipeline struct {
	Scenes     SceneLister
	Crops      CropFetcher
	Registerer Registerer
	Equalizer  Equalizer
	Trim       TrimFunc
	Probe      ProbeFunc
}

// Run executes the five pipeline stages in order: discover, acquire+filter,
// register+trim (when requested), equalize per band (when requested), done.
//
// A scene that yields no usable crops is excluded and cleaned up, never a
// failure. Any error from a collaborator aborts the run at that stage;
// whatever was written to disk up to that point stays put, and callers must
// treat such output as incomplete.
func (p *Pipeline) Run(opts Options) (*Result, error) {
	scenes, err := p.Scenes.Search(opts.Lat, opts.Lon, opts.StartDate, opts.EndDate)
	if err != nil {
		return nil, fmt.Errorf("scene search failed: %w", err)
	}
	if len(scenes) == 0 {
		slog.Info("No scenes found", "lat", opts.Lat, "lon", opts.Lon)
		return &Result{}, nil
	}
	slog.Info("Found scenes", "count", len(scenes))

	// The margin is applied before acquisition, uniformly across the series.
	widthM, heightM := WorkingSize(opts.WidthM, opts.HeightM, opts.Register)

	result := &Result{}
	for _, scene := range scenes {
		crops := CropSet(p.Crops.GetCrops(scene, opts.Bands, opts.Lon, opts.Lat, widthM, heightM, opts.OutDir))

		keep, err := FilterCrops(p.Probe, crops)
		if err != nil {
			return nil, err
		}
		if !keep {
			slog.Info("Dropped empty scene", "scene", scene.ID, "date", scene.Date.Format("2006-01-02"))
			result.Dropped = append(result.Dropped, scene)
			continue
		}

		slog.Info("Acquired scene", "scene", scene.ID, "date", scene.Date.Format("2006-01-02"), "crops", len(crops))
		result.Series = append(result.Series, crops)
		result.Kept = append(result.Kept, scene)
	}

	snap := &Snapshotter{Enabled: opts.Debug, OutDir: opts.OutDir, Trim: p.Trim}

	if opts.Register && len(result.Series) > 0 {
		if err := snap.PreRegistration(result.Series, opts.Lon, opts.Lat, opts.WidthM, opts.HeightM); err != nil {
			return nil, err
		}

		slog.Info("Registering series", "scenes", len(result.Series))
		if err := p.Registerer.Register(result.Series, result.Series, true); err != nil {
			return nil, fmt.Errorf("registration failed: %w", err)
		}

		// Trim the working margin off every surviving crop, exactly once.
		for _, crops := range result.Series {
			for _, path := range crops {
				if err := p.Trim(path, path, opts.Lon, opts.Lat, opts.WidthM, opts.HeightM); err != nil {
					return nil, fmt.Errorf("failed to trim %s: %w", path, err)
				}
			}
		}
	}

	if opts.Equalize && len(result.Series) > 0 {
		if err := snap.PreEqualization(result.Series); err != nil {
			return nil, err
		}

		slog.Info("Equalizing series", "bands", len(opts.Bands))
		for i := range opts.Bands {
			group := BandGroup(result.Series, i)
			if len(group) == 0 {
				continue
			}
			if err := p.Equalizer.Equalize(group, opts.OutDir); err != nil {
				return nil, fmt.Errorf("equalization of band %s failed: %w", opts.Bands[i], err)
			}
		}
	}

	return result, nil
}
