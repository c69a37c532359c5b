// Package synth generates the deterministic synthetic datasets behind the
// dashboards: hourly demand curves, week comparisons, a temperature scatter,
// a demand/price pair, a generation mix, a live demand source and the home
// energy day used to drive the battery simulator.
//
// Every generator takes a seed; equal seeds give equal datasets.
package synth

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// Point is a single timestamped value.
type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

func newSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

func noise(src rand.Source, sigma float64) distuv.Normal {
	return distuv.Normal{Mu: 0, Sigma: sigma, Src: src}
}

// hourlyRange returns n timestamps one hour apart starting at start.
func hourlyRange(start time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return out
}

func dailyRange(start time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}

// diurnal is base + amp*sin(2*pi*hour/24).
func diurnal(t time.Time, base, amp float64) float64 {
	return base + amp*math.Sin(2*math.Pi*float64(t.Hour())/24)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
