package synth

import (
	"math"
	"time"
)

const (
	SourceSolar = "Solar"
	SourceWind  = "Wind"
	SourceHydro = "Hydro"
)

// MixPoint is one (day, source) cell of a generation mix in long format.
type MixPoint struct {
	Day    time.Time `json:"day"`
	Source string    `json:"source"`
	MWh    float64   `json:"mwh"`
}

// GenerationMix covers ten days from 2024-03-01. Rows are grouped by source
// (all solar days, then wind, then hydro).
func GenerationMix(seed uint64) []MixPoint {
	hn := noise(newSource(seed), 25)
	days := dailyRange(date(2024, time.March, 1), 10)

	solar := make([]float64, len(days))
	wind := make([]float64, len(days))
	hydro := make([]float64, len(days))
	for i, d := range days {
		doy := float64(d.YearDay())
		solar[i] = math.Min(300, math.Max(150, 200+50*math.Sin(2*math.Pi*doy/365)))
		wind[i] = 300 + 80*math.Sin(2*math.Pi*doy/14+1)
		hydro[i] = 500 + hn.Rand()
	}

	out := make([]MixPoint, 0, 3*len(days))
	for _, s := range []struct {
		name string
		vals []float64
	}{{SourceSolar, solar}, {SourceWind, wind}, {SourceHydro, hydro}} {
		for i, d := range days {
			out = append(out, MixPoint{Day: d, Source: s.name, MWh: s.vals[i]})
		}
	}
	return out
}
