package model

import (
	"fmt"
	"math"
	"time"
)

// Sample is one fixed-step reading of household load and on-site generation.
// Both powers are in kW; Time marks the start of the step.
type Sample struct {
	Time         time.Time `json:"time"`
	LoadKW       float64   `json:"load_kw"`
	GenerationKW float64   `json:"generation_kw"`
}

// NetKW is load minus generation: positive = deficit, negative = surplus.
func (s Sample) NetKW() float64 {
	return s.LoadKW - s.GenerationKW
}

// ValidateSeries checks that samples are non-empty, finite, non-negative and
// spaced exactly step apart in strictly increasing order.
func ValidateSeries(samples []Sample, step time.Duration) error {
	if len(samples) == 0 {
		return fmt.Errorf("%w: series is empty", ErrMalformedSeries)
	}
	for i, s := range samples {
		if !finite(s.LoadKW) || !finite(s.GenerationKW) {
			return fmt.Errorf("%w: sample %d has a non-finite value", ErrMalformedSeries, i)
		}
		if s.LoadKW < 0 || s.GenerationKW < 0 {
			return fmt.Errorf("%w: sample %d has a negative power", ErrMalformedSeries, i)
		}
		if i == 0 {
			continue
		}
		gap := s.Time.Sub(samples[i-1].Time)
		if gap <= 0 {
			return fmt.Errorf("%w: sample %d is not after sample %d", ErrMalformedSeries, i, i-1)
		}
		if gap != step {
			return fmt.Errorf("%w: sample %d is %s after its predecessor, want %s", ErrMalformedSeries, i, gap, step)
		}
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
