// Package live runs the simulated live demand feed: a ticker draws readings,
// keeps the most recent ones in a ring buffer and fans them out to websocket
// clients and, optionally, MQTT.
package live

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"hems-sim/internal/live/ws"
	"hems-sim/internal/metrics"
	"hems-sim/internal/mqtt"
	"hems-sim/internal/synth"
)

// Broadcaster receives encoded envelopes for every new reading.
type Broadcaster interface {
	Broadcast(msg []byte)
}

type Options struct {
	Interval   time.Duration
	BufferSize int
	Source     *synth.LiveSource

	// Optional sinks.
	Hub       Broadcaster
	Publisher mqtt.Publisher
	Metrics   *metrics.Metrics
	Log       logrus.FieldLogger

	// Now defaults to time.Now.
	Now func() time.Time
}

// Feed owns its ring buffer; readers only ever see copies.
type Feed struct {
	mu  sync.RWMutex
	buf *RingBuffer

	interval time.Duration
	src      *synth.LiveSource
	hub      Broadcaster
	pub      mqtt.Publisher
	metrics  *metrics.Metrics
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewFeed(opts Options) *Feed {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Second
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 100
	}
	if opts.Source == nil {
		opts.Source = synth.NewLiveSource(1, 1200, 40)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		opts.Log = l
	}
	return &Feed{
		buf:      NewRingBuffer(opts.BufferSize),
		interval: opts.Interval,
		src:      opts.Source,
		hub:      opts.Hub,
		pub:      opts.Publisher,
		metrics:  opts.Metrics,
		log:      opts.Log.WithField("component", "live"),
		now:      opts.Now,
	}
}

// Run ticks until ctx is done, then returns ctx.Err().
// A first reading is taken immediately so the chart is never empty.
func (f *Feed) Run(ctx context.Context) error {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	f.log.WithField("interval", f.interval).Info("live feed started")
	f.Tick()
	for {
		select {
		case <-ctx.Done():
			f.log.Info("live feed stopped")
			return ctx.Err()
		case <-ticker.C:
			f.Tick()
		}
	}
}

// Tick draws one reading, buffers it and notifies the sinks. The hub
// broadcast happens under the feed lock so it is ordered with Subscribe.
func (f *Feed) Tick() synth.Point {
	f.mu.Lock()
	p := f.src.Next(f.now())
	overwrote := f.buf.Push(p)
	n := f.buf.Len()
	if f.hub != nil {
		msg, err := ws.NewEnvelope(ws.TypeLiveSample, ws.SamplePayloadFromPoint(p))
		if err != nil {
			f.log.WithError(err).Warn("encode live sample")
		} else {
			f.hub.Broadcast(msg)
		}
	}
	f.mu.Unlock()

	if overwrote {
		f.log.Debug("buffer full, dropped oldest reading")
	}
	f.metrics.ObserveLive(p.Value, n)

	if f.pub != nil {
		if err := f.pub.PublishSample(p); err != nil {
			f.log.WithError(err).Warn("mqtt publish failed")
		}
	}
	return p
}

// Snapshot returns the buffered readings, oldest first.
func (f *Feed) Snapshot() []synth.Point {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.buf.Snapshot()
}

// Subscribe calls fn with the buffered readings while no Tick can run, so a
// client registered inside fn sees every later reading exactly once.
func (f *Feed) Subscribe(fn func(points []synth.Point, capacity int)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f.buf.Snapshot(), f.buf.Cap())
}

// Capacity is the ring buffer size.
func (f *Feed) Capacity() int {
	return f.buf.Cap()
}
