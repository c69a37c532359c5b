package models

import (
	"time"

	"hems-sim/internal/kpi"
	"hems-sim/internal/model"
	"hems-sim/internal/simulator"
	"hems-sim/internal/synth"
)

// SimulationResponse represents the response from a simulation run
type SimulationResponse struct {
	ID          string                `json:"id,omitempty"`
	Status      string                `json:"status"`
	Battery     model.BatteryParams   `json:"battery"`
	StepMinutes float64               `json:"step_minutes"`
	Intervals   int                   `json:"intervals"`
	Window      TimeWindow            `json:"window"`
	KPI         kpi.KPI               `json:"kpi"`
	Ledger      []simulator.LedgerRow `json:"ledger,omitempty"`
}

// TimeWindow represents a time range
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// LedgerResponse is returned by the ledger lookup.
type LedgerResponse struct {
	ID        string                `json:"id"`
	CreatedAt time.Time             `json:"created_at"`
	ExpiresAt time.Time             `json:"expires_at"`
	Ledger    []simulator.LedgerRow `json:"ledger"`
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
	Skipped    []SkippedVariation `json:"skipped,omitempty"`
}

// ComparisonResult contains results for one variation, in ranked order.
type ComparisonResult struct {
	Rank    int                 `json:"rank"`
	Name    string              `json:"name"`
	Battery model.BatteryParams `json:"battery"`
	KPI     kpi.KPI             `json:"kpi"`
}

// SkippedVariation explains why a variation produced no result.
type SkippedVariation struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Trace is one chart line, ready for a plotting front-end.
type Trace struct {
	Name    string      `json:"name"`
	Color   string      `json:"color"`
	Dash    string      `json:"dash,omitempty"`
	Axis    string      `json:"axis"`              // "y" (power) or "y2" (energy)
	Visible string      `json:"visible,omitempty"` // "legendonly" hides it until toggled
	X       []time.Time `json:"x"`
	Y       []float64   `json:"y"`
}

// Tile is one formatted KPI box.
type Tile struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// HEMSResponse carries everything the home energy dashboard redraws when a
// slider moves.
type HEMSResponse struct {
	Title   string              `json:"title"`
	Battery model.BatteryParams `json:"battery"`
	Traces  []Trace             `json:"traces"`
	KPI     kpi.KPI             `json:"kpi"`
	Tiles   []Tile              `json:"tiles"`
}

// BatteryInfo represents information about a battery preset
type BatteryInfo struct {
	ID    string              `json:"id"`
	Name  string              `json:"name"`
	File  string              `json:"file"`
	Specs model.BatteryParams `json:"specs"`
}

// DatasetInfo represents information about a synthetic dataset
type DatasetInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Unit       string `json:"unit"`
	Resolution string `json:"resolution"`
	Points     int    `json:"points"`
}

// SeriesResponse is a single titled time series with summary statistics.
type SeriesResponse struct {
	ID     string        `json:"id"`
	Title  string        `json:"title"`
	Unit   string        `json:"unit"`
	Points []synth.Point `json:"points"`
	Stats  synth.Stats   `json:"stats"`
}

// ScatterResponse is the filtered temperature scatter.
type ScatterResponse struct {
	Title   string            `json:"title"`
	TMin    float64           `json:"tmin"`
	DayType string            `json:"daytype"`
	Points  []synth.TempPoint `json:"points"`
}

// DemandPriceResponse backs the dual-axis chart.
type DemandPriceResponse struct {
	Title  string             `json:"title"`
	Points []synth.PricePoint `json:"points"`
}

// MixResponse backs the stacked generation area chart.
type MixResponse struct {
	Title   string           `json:"title"`
	Sources []string         `json:"sources"`
	Points  []synth.MixPoint `json:"points"`
}

// PageResponse is what the routing demo renders for a path.
type PageResponse struct {
	Page    string `json:"page"`
	Heading string `json:"heading"`
	Chart   any    `json:"chart"`
}

// LiveResponse is the current content of the live ring buffer.
type LiveResponse struct {
	Title    string        `json:"title"`
	Capacity int           `json:"capacity"`
	Samples  []synth.Point `json:"samples"`
	Stats    synth.Stats   `json:"stats"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
