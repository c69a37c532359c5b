package ws

import (
	"encoding/json"
	"time"

	"hems-sim/internal/synth"
)

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Server -> Client message types.
const (
	TypeLiveSample   = "live:sample"
	TypeLiveSnapshot = "live:snapshot"
)

type SamplePayload struct {
	Timestamp string  `json:"timestamp"`
	DemandMW  float64 `json:"demand_mw"`
}

type SnapshotPayload struct {
	Capacity int             `json:"capacity"`
	Samples  []SamplePayload `json:"samples"`
}

func SamplePayloadFromPoint(p synth.Point) SamplePayload {
	return SamplePayload{
		Timestamp: p.Time.UTC().Format(time.RFC3339),
		DemandMW:  p.Value,
	}
}

func SnapshotPayloadFromPoints(points []synth.Point, capacity int) SnapshotPayload {
	out := SnapshotPayload{Capacity: capacity, Samples: make([]SamplePayload, len(points))}
	for i, p := range points {
		out.Samples[i] = SamplePayloadFromPoint(p)
	}
	return out
}

// NewEnvelope marshals payload (which may be nil) under msgType.
func NewEnvelope(msgType string, payload any) ([]byte, error) {
	env := Envelope{Type: msgType}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Payload = raw
	}
	return json.Marshal(env)
}
