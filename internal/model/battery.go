package model

import (
	"fmt"
	"math"
)

// BatteryParams defines the home battery used by the self-consumption simulator.
// Units:
// - CapacityKWh: kWh
// - Efficiency: 0..1, applied once on the way in and once on the way out
// - InitialSOCRatio: fraction 0..1 of CapacityKWh
//
// There is no power limit: any energy transfer that fits the
// capacity and efficiency bounds is allowed within a single step.
type BatteryParams struct {
	CapacityKWh     float64 `json:"capacity_kwh" yaml:"capacity_kwh" toml:"capacity_kwh"`
	Efficiency      float64 `json:"efficiency" yaml:"efficiency" toml:"efficiency"`
	InitialSOCRatio float64 `json:"initial_soc_ratio" yaml:"initial_soc_ratio" toml:"initial_soc_ratio"`
}

func (p BatteryParams) Validate() error {
	if math.IsNaN(p.CapacityKWh) || math.IsInf(p.CapacityKWh, 0) || p.CapacityKWh <= 0 {
		return fmt.Errorf("%w: capacity_kwh must be > 0", ErrInvalidParameter)
	}
	if math.IsNaN(p.Efficiency) || p.Efficiency <= 0 || p.Efficiency > 1 {
		return fmt.Errorf("%w: efficiency must be in (0, 1]", ErrInvalidParameter)
	}
	if math.IsNaN(p.InitialSOCRatio) || p.InitialSOCRatio < 0 || p.InitialSOCRatio > 1 {
		return fmt.Errorf("%w: initial_soc_ratio must be in [0, 1]", ErrInvalidParameter)
	}
	return nil
}

// InitialSOCKWh is the stored energy every simulation starts from.
func (p BatteryParams) InitialSOCKWh() float64 {
	return p.InitialSOCRatio * p.CapacityKWh
}

// StepResult captures what happened in one step.
type StepResult struct {
	GridKW      float64 // + import, - export
	ChargeKW    float64
	DischargeKW float64
	SOCStartKWh float64
	SOCEndKWh   float64
}

// ApplyStep runs the self-consumption policy for one step of dtHours and
// returns the new state of charge alongside the step's power flows.
//
// Deficits are covered by discharging, drawing used/efficiency from storage.
// Surpluses are stored after losing the efficiency factor on the way in.
func (p BatteryParams) ApplyStep(socKWh, loadKW, generationKW, dtHours float64) StepResult {
	res := StepResult{SOCStartKWh: socKWh}
	net := loadKW - generationKW

	if net > 0 {
		usable := socKWh * p.Efficiency
		used := math.Min(net*dtHours, usable)
		res.DischargeKW = used / dtHours
		res.SOCEndKWh = clamp(socKWh-used/p.Efficiency, 0, p.CapacityKWh)
		res.GridKW = net - res.DischargeKW
		return res
	}

	surplus := -net * dtHours
	free := p.CapacityKWh - socKWh
	stored := math.Max(0, math.Min(surplus*p.Efficiency, free))
	res.ChargeKW = stored / dtHours
	res.SOCEndKWh = clamp(socKWh+stored, 0, p.CapacityKWh)
	res.GridKW = net + res.ChargeKW
	return res
}

// clamp only absorbs floating-point residue; the update rule already stays in bounds.
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
