// Package mqtt publishes live demand readings and simulation KPIs to a broker,
// with a fake implementation for tests.
package mqtt

import (
	"encoding/json"
	"time"

	"hems-sim/internal/kpi"
	"hems-sim/internal/synth"
)

// Subtopics appended to the configured base topic.
const (
	SubtopicLive = "live"
	SubtopicKPI  = "kpi"
)

// Publisher publishes dashboard data to MQTT.
type Publisher interface {
	// PublishSample sends one live demand reading.
	PublishSample(p synth.Point) error

	// PublishKPI sends the KPI summary of a named simulation run.
	PublishKPI(runID string, k kpi.KPI) error

	// Close disconnects from the broker.
	Close() error
}

// SamplePayload is the JSON body of a live reading.
type SamplePayload struct {
	Timestamp string  `json:"timestamp"`
	DemandMW  float64 `json:"demand_mw"`
}

// KPIPayload is the JSON body of a KPI summary.
type KPIPayload struct {
	RunID string  `json:"run_id"`
	KPI   kpi.KPI `json:"kpi"`
}

func FormatSamplePayload(p synth.Point) ([]byte, error) {
	return json.Marshal(SamplePayload{
		Timestamp: p.Time.UTC().Format(time.RFC3339),
		DemandMW:  p.Value,
	})
}

func FormatKPIPayload(runID string, k kpi.KPI) ([]byte, error) {
	return json.Marshal(KPIPayload{RunID: runID, KPI: k})
}
