// Package data loads simulator input series from disk.
package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hems-sim/internal/model"
	"hems-sim/internal/simulator"
)

// SeriesFile matches the JSON shape accepted by LoadSeries:
//
//	{"step_minutes": 60, "samples": [{"time": "...", "load_kw": 1.2, "generation_kw": 0}]}
type SeriesFile struct {
	StepMinutes int            `json:"step_minutes"`
	Samples     []model.Sample `json:"samples"`
}

// LoadSeries reads a .json or .csv series. For CSV, and for JSON without
// step_minutes, stepMinutes is 0 and callers infer the step from the data.
func LoadSeries(path string) (samples []model.Sample, stepMinutes int, err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, 0, err
		}
		var f SeriesFile
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, 0, fmt.Errorf("parse %s: %w", path, err)
		}
		return f.Samples, f.StepMinutes, nil
	case ".csv":
		fh, err := os.Open(path)
		if err != nil {
			return nil, 0, err
		}
		defer fh.Close()
		s, err := simulator.ReadSeriesCSV(fh)
		if err != nil {
			return nil, 0, fmt.Errorf("parse %s: %w", path, err)
		}
		return s, 0, nil
	default:
		return nil, 0, fmt.Errorf("unsupported series file %q (want .json or .csv)", path)
	}
}
