package simulator

import (
	"time"

	"hems-sim/internal/model"
)

// LedgerRow is one row of per-step output.
// This is the primary artifact for "what happened" in a simulation.
type LedgerRow struct {
	Index int       `json:"index"`
	Time  time.Time `json:"time"`

	LoadKW       float64 `json:"load_kw"`
	GenerationKW float64 `json:"generation_kw"`
	NetKW        float64 `json:"net_kw"`

	Action model.Action `json:"action"`

	GridKW      float64 `json:"grid_kw"`
	ChargeKW    float64 `json:"charge_kw"`
	DischargeKW float64 `json:"discharge_kw"`

	SOCStartKWh float64 `json:"soc_start_kwh"`
	SOCEndKWh   float64 `json:"soc_end_kwh"`
}

type Result struct {
	Params    model.BatteryParams
	StepHours float64
	Ledger    []LedgerRow
}

// SOCTrajectory returns the stored energy before the first step followed by
// the stored energy after every step (len(Ledger)+1 values).
func (r *Result) SOCTrajectory() []float64 {
	out := make([]float64, 0, len(r.Ledger)+1)
	out = append(out, r.Params.InitialSOCKWh())
	for _, row := range r.Ledger {
		out = append(out, row.SOCEndKWh)
	}
	return out
}

// FinalSOCKWh is the stored energy after the last step.
func (r *Result) FinalSOCKWh() float64 {
	if len(r.Ledger) == 0 {
		return r.Params.InitialSOCKWh()
	}
	return r.Ledger[len(r.Ledger)-1].SOCEndKWh
}
