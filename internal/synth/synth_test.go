package synth

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerators_Deterministic(t *testing.T) {
	assert.Equal(t, HourlyDemand(1), HourlyDemand(1))
	assert.Equal(t, WeekComparison(1), WeekComparison(1))
	assert.Equal(t, TemperatureScatter(1), TemperatureScatter(1))
	assert.Equal(t, DemandWindow(1), DemandWindow(1))
	assert.Equal(t, DemandPrice(1), DemandPrice(1))
	assert.Equal(t, GenerationMix(1), GenerationMix(1))
	assert.Equal(t, HEMSDay(1), HEMSDay(1))

	assert.NotEqual(t, HourlyDemand(1), HourlyDemand(2))
}

func TestHourlyDemand_Shape(t *testing.T) {
	pts := HourlyDemand(42)
	require.Len(t, pts, 24*7)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), pts[0].Time)
	assert.Equal(t, time.Hour, pts[1].Time.Sub(pts[0].Time))

	s := Describe(Values(pts))
	assert.InDelta(t, 1200, s.Mean, 30)
	assert.Greater(t, s.Max, 1300.0)
	assert.Less(t, s.Min, 1100.0)
}

func TestWeekComparison(t *testing.T) {
	weeks := WeekComparison(42)
	assert.Equal(t, []string{Week1, Week2}, WeekKeys(weeks))
	require.Len(t, weeks[Week1], 24*7)
	require.Len(t, weeks[Week2], 24*7)

	m1 := Describe(Values(weeks[Week1])).Mean
	m2 := Describe(Values(weeks[Week2])).Mean
	assert.InDelta(t, m1*1.07, m2, 10)
}

func TestTemperatureScatter(t *testing.T) {
	pts := TemperatureScatter(42)
	require.Len(t, pts, 800)

	weekdays := 0
	for _, p := range pts {
		assert.GreaterOrEqual(t, p.TempC, -15.0)
		assert.Less(t, p.TempC, 30.0)
		if p.DayType == DayTypeWeekday {
			weekdays++
		} else {
			assert.Equal(t, DayTypeWeekend, p.DayType)
		}
	}
	assert.InDelta(t, 0.7, float64(weekdays)/800, 0.07)
}

func TestFilterTemperature(t *testing.T) {
	pts := []TempPoint{
		{TempC: -12, DayType: DayTypeWeekday},
		{TempC: 0, DayType: DayTypeWeekend},
		{TempC: 10, DayType: DayTypeWeekday},
		{TempC: 25, DayType: DayTypeWeekend},
	}
	assert.Len(t, FilterTemperature(pts, -15, DayTypeAll), 4)
	assert.Len(t, FilterTemperature(pts, -15, ""), 4)
	assert.Len(t, FilterTemperature(pts, 0, DayTypeAll), 3)
	assert.Equal(t, []TempPoint{pts[2]}, FilterTemperature(pts, 0, DayTypeWeekday))
	assert.Equal(t, []TempPoint{pts[1], pts[3]}, FilterTemperature(pts, -10, DayTypeWeekend))
	assert.Empty(t, FilterTemperature(pts, 30, DayTypeAll))
}

func TestFilterWindow_EndDayInclusive(t *testing.T) {
	pts := DemandWindow(42)
	require.Len(t, pts, 24*90)

	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	sub := FilterWindow(pts, start, end)

	// Two whole days plus the midnight that closes the end day.
	require.Len(t, sub, 49)
	assert.Equal(t, start, sub[0].Time)
	assert.Equal(t, end.Add(24*time.Hour), sub[len(sub)-1].Time)

	assert.Empty(t, FilterWindow(pts, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)))
}

func TestDemandPrice(t *testing.T) {
	pts := DemandPrice(42)
	require.Len(t, pts, 30)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), pts[0].Day)

	mean := 0.0
	for _, p := range pts {
		mean += p.DemandMW
	}
	mean /= float64(len(pts))

	// Price follows the demand deviation up to noise.
	for _, p := range pts {
		assert.InDelta(t, 50+0.07*(p.DemandMW-mean), p.PriceEUR, 4*6)
	}
}

func TestGenerationMix(t *testing.T) {
	pts := GenerationMix(42)
	require.Len(t, pts, 30)

	for i, p := range pts {
		switch i / 10 {
		case 0:
			assert.Equal(t, SourceSolar, p.Source)
			assert.GreaterOrEqual(t, p.MWh, 150.0)
			assert.LessOrEqual(t, p.MWh, 300.0)
		case 1:
			assert.Equal(t, SourceWind, p.Source)
			assert.InDelta(t, 300, p.MWh, 80+1e-9)
		case 2:
			assert.Equal(t, SourceHydro, p.Source)
		}
	}
	assert.Equal(t, pts[0].Day, pts[10].Day)
}

func TestHEMSDay(t *testing.T) {
	day := HEMSDay(42)
	require.Len(t, day, 24)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), day[0].Time)

	for _, h := range day {
		assert.GreaterOrEqual(t, h.DemandKW, 0.0)
		assert.GreaterOrEqual(t, h.PVKW, 0.0)
	}
	assert.InDelta(t, 2.8, day[13].PVKW, 1e-12)
	assert.Less(t, day[0].PVKW, 0.01)
	assert.Greater(t, day[19].DemandKW, day[3].DemandKW)

	samples := HEMSSamples(day)
	require.Len(t, samples, 24)
	for i, s := range samples {
		assert.Equal(t, day[i].Time, s.Time)
		assert.Equal(t, day[i].DemandKW, s.LoadKW)
		assert.Equal(t, day[i].PVKW, s.GenerationKW)
	}
}

func TestLiveSource(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 500_000_000, time.UTC)
	a := NewLiveSource(7, 1200, 40)
	b := NewLiveSource(7, 1200, 40)

	pa := a.Next(now)
	assert.Equal(t, pa, b.Next(now))
	assert.Equal(t, now.Truncate(time.Second), pa.Time)
	assert.InDelta(t, 1200, pa.Value, 40*6)

	flat := NewLiveSource(1, 1000, 0)
	assert.Equal(t, 1000.0, flat.Next(now).Value)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, Stats{}, Describe(nil))

	one := Describe([]float64{3})
	assert.Equal(t, 1, one.Count)
	assert.Equal(t, 3.0, one.Mean)
	assert.Zero(t, one.StdDev)

	vals := make([]float64, 0, 100)
	for i := 100; i >= 1; i-- {
		vals = append(vals, float64(i))
	}
	s := Describe(vals)
	assert.Equal(t, 100, s.Count)
	assert.InDelta(t, 50.5, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(841.6666666666666), s.StdDev, 1e-9)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 100.0, s.Max)
	assert.Equal(t, 5.0, s.P05)
	assert.Equal(t, 95.0, s.P95)
	assert.Equal(t, 100.0, vals[0], "input must not be sorted in place")
}
