package synth

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	DayTypeAll     = "All"
	DayTypeWeekday = "Weekday"
	DayTypeWeekend = "Weekend"
)

// TempPoint is one demand observation at an outdoor temperature.
type TempPoint struct {
	TempC    float64 `json:"temp_c"`
	DemandMW float64 `json:"demand_mw"`
	DayType  string  `json:"day_type"`
}

// TemperatureScatter draws 800 observations with a U-shaped demand response
// around 15°C. Seventy percent are weekdays.
func TemperatureScatter(seed uint64) []TempPoint {
	const count = 800
	src := newSource(seed)
	temp := distuv.Uniform{Min: -15, Max: 30, Src: src}
	dn := noise(src, 60)
	weekday := distuv.Bernoulli{P: 0.7, Src: src}

	out := make([]TempPoint, count)
	for i := range out {
		t := temp.Rand()
		dt := DayTypeWeekend
		if weekday.Rand() == 1 {
			dt = DayTypeWeekday
		}
		out[i] = TempPoint{
			TempC:    t,
			DemandMW: 1250 + 5*math.Pow(t-15, 2) + dn.Rand(),
			DayType:  dt,
		}
	}
	return out
}

// FilterTemperature keeps points at or above tmin of the given day type.
// DayTypeAll (or an empty string) keeps both day types.
func FilterTemperature(points []TempPoint, tmin float64, dayType string) []TempPoint {
	out := make([]TempPoint, 0, len(points))
	for _, p := range points {
		if p.TempC < tmin {
			continue
		}
		if dayType != "" && dayType != DayTypeAll && p.DayType != dayType {
			continue
		}
		out = append(out, p)
	}
	return out
}
