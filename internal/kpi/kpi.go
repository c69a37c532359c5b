// Package kpi reduces a simulation ledger to the dashboard's summary tiles.
package kpi

import (
	"math"

	"hems-sim/internal/simulator"
)

// KPI aggregates one simulation run. Energies are in kWh, powers in kW.
type KPI struct {
	LoadKWh       float64 `json:"load_kwh"`
	GenerationKWh float64 `json:"generation_kwh"`

	GridImportKWh float64 `json:"grid_import_kwh"`
	GridExportKWh float64 `json:"grid_export_kwh"`

	SelfConsumedKWh      float64 `json:"self_consumed_kwh"`
	SelfConsumptionRatio float64 `json:"self_consumption_ratio"`
	SelfConsumptionPct   float64 `json:"self_consumption_pct"`

	// PeakGridKW is the signed maximum of grid flow. A run that never
	// imports reports its smallest export as a negative value.
	PeakGridKW float64 `json:"peak_grid_kw"`

	EnergyChargedKWh    float64 `json:"energy_charged_kwh"`
	EnergyDischargedKWh float64 `json:"energy_discharged_kwh"`
	FinalSOCKWh         float64 `json:"final_soc_kwh"`
	EquivalentCycles    float64 `json:"equivalent_cycles"`
}

// Summarize reduces res in ledger order. Self-consumption is 0 when nothing
// was generated.
func Summarize(res *simulator.Result) KPI {
	k := KPI{}
	if res == nil {
		return k
	}
	k.FinalSOCKWh = res.FinalSOCKWh()
	if len(res.Ledger) == 0 {
		return k
	}

	dt := res.StepHours
	peak := math.Inf(-1)
	for _, row := range res.Ledger {
		k.LoadKWh += row.LoadKW * dt
		k.GenerationKWh += row.GenerationKW * dt
		if row.GridKW > 0 {
			k.GridImportKWh += row.GridKW * dt
		} else {
			k.GridExportKWh += -row.GridKW * dt
		}
		k.EnergyChargedKWh += row.ChargeKW * dt
		k.EnergyDischargedKWh += row.DischargeKW * dt
		if row.GridKW > peak {
			peak = row.GridKW
		}
	}
	k.PeakGridKW = peak

	k.SelfConsumedKWh = k.GenerationKWh - k.GridExportKWh
	if k.GenerationKWh > 0 {
		k.SelfConsumptionRatio = k.SelfConsumedKWh / k.GenerationKWh
	}
	k.SelfConsumptionPct = 100 * k.SelfConsumptionRatio

	if res.Params.CapacityKWh > 0 {
		k.EquivalentCycles = (k.EnergyChargedKWh + k.EnergyDischargedKWh) / 2 / res.Params.CapacityKWh
	}
	return k
}
