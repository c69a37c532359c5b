package models

import "hems-sim/internal/model"

// SimulationRequest represents the request body for running a simulation.
// Without samples the server's synthetic home energy day is used.
type SimulationRequest struct {
	BatteryFile string            `json:"battery_file,omitempty"` // preset ID, e.g. "home_5kwh"
	Battery     BatteryInput      `json:"battery"`
	StepMinutes int               `json:"step_minutes,omitempty"` // default: inferred from samples, else 60
	Samples     []model.Sample    `json:"samples,omitempty"`
	Options     SimulationOptions `json:"options,omitempty"`
}

// BatteryInput overrides preset or default battery fields. Nil means "keep".
type BatteryInput struct {
	Name            string   `json:"name,omitempty"`
	CapacityKWh     *float64 `json:"capacity_kwh,omitempty"`
	Efficiency      *float64 `json:"efficiency,omitempty"`
	InitialSOCRatio *float64 `json:"initial_soc_ratio,omitempty"`
}

// SimulationOptions contains optional simulation parameters
type SimulationOptions struct {
	IncludeLedger bool `json:"include_ledger,omitempty"` // default: false
	Publish       bool `json:"publish,omitempty"`        // also publish the KPI over MQTT
}

// CompareRequest runs several battery variations over one series.
type CompareRequest struct {
	Base       SimulationRequest `json:"base"`
	Variations []Variation       `json:"variations" binding:"required,min=1"`
}

// Variation overrides the base battery. A zero capacity_kwh means "no battery".
type Variation struct {
	Name    string       `json:"name" binding:"required"`
	Battery BatteryInput `json:"battery"`
}

// HEMSQuery mirrors the three sliders of the home energy dashboard.
type HEMSQuery struct {
	CapacityKWh *float64 `form:"cap"`
	Efficiency  *float64 `form:"eta"`
	SOC0Pct     *float64 `form:"soc0"` // percent, 0..100
}

// TemperatureQuery filters the temperature scatter.
type TemperatureQuery struct {
	TMin    *float64 `form:"tmin"`
	DayType string   `form:"daytype"`
}

// WindowQuery selects a date range (YYYY-MM-DD, end inclusive).
type WindowQuery struct {
	Start string `form:"start"`
	End   string `form:"end"`
}
