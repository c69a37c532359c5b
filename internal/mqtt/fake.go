package mqtt

import (
	"sync"

	"hems-sim/internal/kpi"
	"hems-sim/internal/synth"
)

// FakePublisher records published messages for test assertions.
type FakePublisher struct {
	mu sync.Mutex

	// Samples contains all live readings that were published.
	Samples []synth.Point

	// KPIs maps run IDs to published summaries.
	KPIs map[string]kpi.KPI

	// Payloads contains every JSON payload in publish order.
	Payloads [][]byte

	// PublishError, if set, will be returned by both publish methods.
	PublishError error

	// Closed tracks if Close was called.
	Closed bool
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{KPIs: map[string]kpi.KPI{}}
}

func (f *FakePublisher) PublishSample(p synth.Point) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatSamplePayload(p)
	if err != nil {
		return err
	}
	f.Samples = append(f.Samples, p)
	f.Payloads = append(f.Payloads, payload)
	return nil
}

func (f *FakePublisher) PublishKPI(runID string, k kpi.KPI) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatKPIPayload(runID, k)
	if err != nil {
		return err
	}
	f.KPIs[runID] = k
	f.Payloads = append(f.Payloads, payload)
	return nil
}

func (f *FakePublisher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// SampleCount returns the number of published readings.
func (f *FakePublisher) SampleCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Samples)
}
