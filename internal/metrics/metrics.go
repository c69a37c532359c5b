// Package metrics holds the Prometheus collectors for the simulator and the
// live feed.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics is registered against its own registry so tests can create as many
// as they like.
type Metrics struct {
	Registry *prometheus.Registry

	simulations   *prometheus.CounterVec
	simDuration   prometheus.Histogram
	liveDemand    prometheus.Gauge
	liveBufferLen prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hems_simulations_total",
			Help: "Battery simulations run, by result (ok, invalid).",
		}, []string{"result"}),
		simDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hems_simulation_duration_seconds",
			Help:    "Wall time of a single battery simulation including KPI reduction.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		liveDemand: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hems_live_demand_mw",
			Help: "Most recent simulated live demand reading in MW.",
		}),
		liveBufferLen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hems_live_buffer_len",
			Help: "Number of readings held in the live ring buffer.",
		}),
	}
	reg.MustRegister(
		m.simulations,
		m.simDuration,
		m.liveDemand,
		m.liveBufferLen,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveSimulation records one run. A nil receiver is a no-op.
func (m *Metrics) ObserveSimulation(ok bool, took time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "invalid"
	}
	m.simulations.WithLabelValues(result).Inc()
	m.simDuration.Observe(took.Seconds())
}

// ObserveLive records the latest live reading and buffer fill.
func (m *Metrics) ObserveLive(demandMW float64, bufferLen int) {
	if m == nil {
		return
	}
	m.liveDemand.Set(demandMW)
	m.liveBufferLen.Set(float64(bufferLen))
}
