package synth

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// HourlyDemand is one week of hourly grid demand in MW starting 2024-01-01.
func HourlyDemand(seed uint64) []Point {
	n := noise(newSource(seed), 40)
	times := hourlyRange(date(2024, time.January, 1), 24*7)
	out := make([]Point, len(times))
	for i, t := range times {
		out[i] = Point{Time: t, Value: diurnal(t, 1200, 250) + n.Rand()}
	}
	return out
}

const (
	Week1 = "Week 1"
	Week2 = "Week 2"
)

// WeekComparison returns two hourly demand weeks keyed by label. The second
// week is the first scaled by 7% with extra noise.
func WeekComparison(seed uint64) map[string][]Point {
	src := newSource(seed)
	n1 := noise(src, 35)
	n2 := noise(src, 20)

	times := hourlyRange(date(2024, time.February, 1), 24*7)
	w1 := make([]Point, len(times))
	w2 := make([]Point, len(times))
	for i, t := range times {
		v := diurnal(t, 1100, 240) + n1.Rand()
		w1[i] = Point{Time: t, Value: v}
	}
	for i, t := range times {
		w2[i] = Point{Time: t, Value: w1[i].Value*1.07 + n2.Rand()}
	}
	return map[string][]Point{Week1: w1, Week2: w2}
}

// WeekKeys returns the labels of a week comparison in display order.
func WeekKeys(weeks map[string][]Point) []string {
	keys := make([]string, 0, len(weeks))
	for k := range weeks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DemandWindow is 90 days of hourly demand starting 2024-01-01.
func DemandWindow(seed uint64) []Point {
	n := noise(newSource(seed), 45)
	times := hourlyRange(date(2024, time.January, 1), 24*90)
	out := make([]Point, len(times))
	for i, t := range times {
		out[i] = Point{Time: t, Value: diurnal(t, 1200, 260) + n.Rand()}
	}
	return out
}

// FilterWindow keeps points with start <= t <= end+24h, so the end date
// covers its whole day.
func FilterWindow(points []Point, start, end time.Time) []Point {
	limit := end.Add(24 * time.Hour)
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if p.Time.Before(start) || p.Time.After(limit) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// PricePoint pairs daily demand with the resulting price.
type PricePoint struct {
	Day      time.Time `json:"day"`
	DemandMW float64   `json:"demand_mw"`
	PriceEUR float64   `json:"price_eur_mwh"`
}

// DemandPrice is 30 days of demand with a weekly cycle and a price that
// follows the demand's deviation from its mean.
func DemandPrice(seed uint64) []PricePoint {
	src := newSource(seed)
	dn := noise(src, 40)
	pn := noise(src, 4)

	days := dailyRange(date(2024, time.April, 1), 30)
	dem := make([]float64, len(days))
	mean := 0.0
	for i := range days {
		dem[i] = 1300 + 150*math.Sin(2*math.Pi*float64(i)/7) + dn.Rand()
		mean += dem[i]
	}
	mean /= float64(len(dem))

	out := make([]PricePoint, len(days))
	for i, d := range days {
		out[i] = PricePoint{
			Day:      d,
			DemandMW: dem[i],
			PriceEUR: 50 + 0.07*(dem[i]-mean) + pn.Rand(),
		}
	}
	return out
}

// LiveSource draws demand readings around a base value for the live feed.
// Not safe for concurrent use.
type LiveSource struct {
	base float64
	n    distuv.Normal
}

func NewLiveSource(seed uint64, base, sigma float64) *LiveSource {
	return &LiveSource{base: base, n: noise(newSource(seed), sigma)}
}

// Next returns a reading stamped at now truncated to the second.
func (s *LiveSource) Next(now time.Time) Point {
	return Point{Time: now.Truncate(time.Second), Value: s.base + s.n.Rand()}
}
