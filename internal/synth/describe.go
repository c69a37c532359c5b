package synth

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises a value series for chart subtitles and tooltips.
type Stats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P05    float64 `json:"p05"`
	P95    float64 `json:"p95"`
}

// Describe returns zero Stats for an empty input.
func Describe(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s := Stats{
		Count: len(sorted),
		Min:   floats.Min(sorted),
		Max:   floats.Max(sorted),
		P05:   stat.Quantile(0.05, stat.Empirical, sorted, nil),
		P95:   stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}
	if len(sorted) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(sorted, nil)
	} else {
		s.Mean = sorted[0]
	}
	return s
}

// Values extracts the value column of a point series.
func Values(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}
