package kpi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hems-sim/internal/model"
	"hems-sim/internal/simulator"
)

var t0 = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func run(t *testing.T, p model.BatteryParams, step time.Duration, values ...[2]float64) *simulator.Result {
	t.Helper()
	samples := make([]model.Sample, len(values))
	for i, v := range values {
		samples[i] = model.Sample{Time: t0.Add(time.Duration(i) * step), LoadKW: v[0], GenerationKW: v[1]}
	}
	res, err := simulator.Simulate(samples, p, step)
	require.NoError(t, err)
	return res
}

func TestSummarize_SmallBattery(t *testing.T) {
	res := run(t, model.BatteryParams{CapacityKWh: 3, Efficiency: 1, InitialSOCRatio: 0.5}, time.Hour,
		[2]float64{3, 5}, [2]float64{8, 1})
	k := Summarize(res)

	assert.InDelta(t, 11, k.LoadKWh, 1e-12)
	assert.InDelta(t, 6, k.GenerationKWh, 1e-12)
	assert.InDelta(t, 4, k.GridImportKWh, 1e-12)
	assert.InDelta(t, 0.5, k.GridExportKWh, 1e-12)
	assert.InDelta(t, 5.5, k.SelfConsumedKWh, 1e-12)
	assert.InDelta(t, 5.5/6, k.SelfConsumptionRatio, 1e-12)
	assert.InDelta(t, 100*5.5/6, k.SelfConsumptionPct, 1e-9)
	assert.InDelta(t, 4, k.PeakGridKW, 1e-12)
	assert.InDelta(t, 1.5, k.EnergyChargedKWh, 1e-12)
	assert.InDelta(t, 3, k.EnergyDischargedKWh, 1e-12)
	assert.InDelta(t, 0, k.FinalSOCKWh, 1e-12)
	assert.InDelta(t, 0.75, k.EquivalentCycles, 1e-12)
}

func TestSummarize_FullSelfConsumption(t *testing.T) {
	res := run(t, model.BatteryParams{CapacityKWh: 10, Efficiency: 1, InitialSOCRatio: 0.5}, time.Hour,
		[2]float64{3, 5}, [2]float64{8, 1})
	k := Summarize(res)

	assert.InDelta(t, 0, k.GridImportKWh, 1e-12)
	assert.InDelta(t, 0, k.GridExportKWh, 1e-12)
	assert.InDelta(t, 1, k.SelfConsumptionRatio, 1e-12)
	assert.InDelta(t, 100, k.SelfConsumptionPct, 1e-12)
	assert.InDelta(t, 0, k.PeakGridKW, 1e-12)
}

func TestSummarize_NoGenerationRatioIsZero(t *testing.T) {
	res := run(t, model.BatteryParams{CapacityKWh: 5, Efficiency: 0.9, InitialSOCRatio: 0}, time.Hour,
		[2]float64{1, 0}, [2]float64{2, 0})
	k := Summarize(res)

	assert.Zero(t, k.GenerationKWh)
	assert.Zero(t, k.SelfConsumptionRatio)
	assert.Zero(t, k.SelfConsumptionPct)
	assert.InDelta(t, 3, k.GridImportKWh, 1e-12)
	assert.InDelta(t, 2, k.PeakGridKW, 1e-12)
}

func TestSummarize_PeakIsSignedMax(t *testing.T) {
	res := run(t, model.BatteryParams{CapacityKWh: 1, Efficiency: 1, InitialSOCRatio: 0}, time.Hour,
		[2]float64{0, 2}, [2]float64{0, 2})
	k := Summarize(res)

	// Export only: the "peak" is the smallest export, reported negative.
	assert.InDelta(t, -1, k.PeakGridKW, 1e-12)
	assert.InDelta(t, 3, k.GridExportKWh, 1e-12)
	assert.InDelta(t, 0.25, k.SelfConsumptionRatio, 1e-12)
}

func TestSummarize_ScalesEnergyByStep(t *testing.T) {
	res := run(t, model.BatteryParams{CapacityKWh: 10, Efficiency: 1, InitialSOCRatio: 0}, 30*time.Minute,
		[2]float64{2, 0}, [2]float64{2, 0})
	k := Summarize(res)

	assert.InDelta(t, 2, k.LoadKWh, 1e-12)
	assert.InDelta(t, 2, k.GridImportKWh, 1e-12)
	assert.InDelta(t, 2, k.PeakGridKW, 1e-12)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, KPI{}, Summarize(nil))

	res := &simulator.Result{Params: model.BatteryParams{CapacityKWh: 4, Efficiency: 1, InitialSOCRatio: 0.5}, StepHours: 1}
	k := Summarize(res)
	assert.Equal(t, 2.0, k.FinalSOCKWh)
	assert.Zero(t, k.PeakGridKW)
}

func TestSummarize_Baseline(t *testing.T) {
	samples := []model.Sample{
		{Time: t0, LoadKW: 3, GenerationKW: 5},
		{Time: t0.Add(time.Hour), LoadKW: 8, GenerationKW: 1},
	}
	res, err := simulator.Baseline(samples, model.BatteryParams{Efficiency: 1}, time.Hour)
	require.NoError(t, err)
	k := Summarize(res)

	assert.InDelta(t, 7, k.GridImportKWh, 1e-12)
	assert.InDelta(t, 2, k.GridExportKWh, 1e-12)
	assert.InDelta(t, 4.0/6, k.SelfConsumptionRatio, 1e-12)
	assert.Zero(t, k.EquivalentCycles)
}

func TestRankByGridImport(t *testing.T) {
	in := []Named{
		{Name: "none", KPI: KPI{GridImportKWh: 7, SelfConsumptionRatio: 0.6}},
		{Name: "b", KPI: KPI{GridImportKWh: 4, SelfConsumptionRatio: 0.9}},
		{Name: "large", KPI: KPI{GridImportKWh: 0, SelfConsumptionRatio: 1}},
		{Name: "a", KPI: KPI{GridImportKWh: 4, SelfConsumptionRatio: 0.9}},
		{Name: "c", KPI: KPI{GridImportKWh: 4, SelfConsumptionRatio: 0.95}},
	}
	out := RankByGridImport(in)

	names := make([]string, len(out))
	for i, n := range out {
		names[i] = n.Name
	}
	assert.Equal(t, []string{"large", "c", "a", "b", "none"}, names)
	assert.Equal(t, "none", in[0].Name, "input must not be reordered")
}

func TestRankByGridImport_DuplicateNamesCarryBattery(t *testing.T) {
	in := []Named{
		{Name: "x", Battery: model.BatteryParams{CapacityKWh: 2}, KPI: KPI{GridImportKWh: 31}},
		{Name: "x", Battery: model.BatteryParams{CapacityKWh: 15}, KPI: KPI{GridImportKWh: 24}},
	}
	out := RankByGridImport(in)

	require.Len(t, out, 2)
	assert.Equal(t, 15.0, out[0].Battery.CapacityKWh)
	assert.Equal(t, 24.0, out[0].KPI.GridImportKWh)
	assert.Equal(t, 2.0, out[1].Battery.CapacityKWh)
	assert.Equal(t, 31.0, out[1].KPI.GridImportKWh)
}
