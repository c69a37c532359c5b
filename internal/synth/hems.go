package synth

import (
	"math"
	"time"

	"hems-sim/internal/model"
)

// HEMSHour is one hour of the home energy day, all in kW.
type HEMSHour struct {
	Time       time.Time `json:"time"`
	DemandKW   float64   `json:"demand_kw"`
	ForecastKW float64   `json:"forecast_kw"`
	PVKW       float64   `json:"pv_kw"`
}

// HEMSDay is a 24h household profile starting 2024-05-01: a morning and an
// evening demand peak, a noisy day-ahead forecast and a midday PV bell.
func HEMSDay(seed uint64) []HEMSHour {
	src := newSource(seed)
	dn := noise(src, 0.05)
	fn := noise(src, 0.1)

	times := hourlyRange(date(2024, time.May, 1), 24)
	out := make([]HEMSHour, len(times))
	for i, t := range times {
		h := float64(i)
		demand := 1.8 + 0.4*bell(h, 8, 2.3) + 1.1*bell(h, 19, 2.6) + dn.Rand()
		demand = math.Max(0, demand)
		out[i] = HEMSHour{
			Time:     t,
			DemandKW: demand,
			PVKW:     2.8 * bell(h, 13, 3.0),
		}
	}
	for i := range out {
		out[i].ForecastKW = out[i].DemandKW + fn.Rand()
	}
	return out
}

// HEMSSamples maps the day onto simulator input: load = demand, generation = PV.
func HEMSSamples(day []HEMSHour) []model.Sample {
	out := make([]model.Sample, len(day))
	for i, h := range day {
		out[i] = model.Sample{Time: h.Time, LoadKW: h.DemandKW, GenerationKW: h.PVKW}
	}
	return out
}

func bell(x, mu, sigma float64) float64 {
	z := (x - mu) / sigma
	return math.Exp(-0.5 * z * z)
}
