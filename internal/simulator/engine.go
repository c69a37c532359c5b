package simulator

import (
	"fmt"
	"time"

	"hems-sim/internal/model"
)

type Engine struct{}

func New() *Engine { return &Engine{} }

// Run executes a self-consumption simulation over a fixed-step series.
//
// Every call starts from params.InitialSOCKWh(); nothing is carried over
// between calls, so equal inputs always give equal ledgers.
func (e *Engine) Run(samples []model.Sample, params model.BatteryParams, step time.Duration) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if step <= 0 {
		return nil, fmt.Errorf("%w: step must be > 0", model.ErrInvalidParameter)
	}
	if err := model.ValidateSeries(samples, step); err != nil {
		return nil, err
	}

	dtH := step.Hours()
	ledger := make([]LedgerRow, 0, len(samples))
	soc := params.InitialSOCKWh()

	for idx, s := range samples {
		res := params.ApplyStep(soc, s.LoadKW, s.GenerationKW, dtH)
		soc = res.SOCEndKWh

		ledger = append(ledger, LedgerRow{
			Index: idx,
			Time:  s.Time,

			LoadKW:       s.LoadKW,
			GenerationKW: s.GenerationKW,
			NetKW:        s.NetKW(),

			Action: model.ActionFromPowers(res.ChargeKW, res.DischargeKW),

			GridKW:      res.GridKW,
			ChargeKW:    res.ChargeKW,
			DischargeKW: res.DischargeKW,

			SOCStartKWh: res.SOCStartKWh,
			SOCEndKWh:   res.SOCEndKWh,
		})
	}

	return &Result{
		Params:    params,
		StepHours: dtH,
		Ledger:    ledger,
	}, nil
}

// Simulate is a convenience wrapper around a zero-value Engine.
func Simulate(samples []model.Sample, params model.BatteryParams, step time.Duration) (*Result, error) {
	return New().Run(samples, params, step)
}

// Baseline returns the ledger of the same series with no battery installed:
// every step exchanges its full net load with the grid. params is recorded on
// the result unvalidated, so a zero capacity is allowed here.
func Baseline(samples []model.Sample, params model.BatteryParams, step time.Duration) (*Result, error) {
	if step <= 0 {
		return nil, fmt.Errorf("%w: step must be > 0", model.ErrInvalidParameter)
	}
	if err := model.ValidateSeries(samples, step); err != nil {
		return nil, err
	}

	ledger := make([]LedgerRow, len(samples))
	for idx, s := range samples {
		ledger[idx] = LedgerRow{
			Index:        idx,
			Time:         s.Time,
			LoadKW:       s.LoadKW,
			GenerationKW: s.GenerationKW,
			NetKW:        s.NetKW(),
			Action:       model.ActionIdle,
			GridKW:       s.NetKW(),
		}
	}
	params.CapacityKWh = 0
	return &Result{Params: params, StepHours: step.Hours(), Ledger: ledger}, nil
}
