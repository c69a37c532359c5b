package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hems-sim/internal/logging"
	"hems-sim/internal/synth"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNewEnvelope(t *testing.T) {
	msg, err := NewEnvelope(TypeLiveSample, SamplePayloadFromPoint(synth.Point{Time: t0, Value: 1234.5}))
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(msg, &env))
	assert.Equal(t, TypeLiveSample, env.Type)

	var parsed SamplePayload
	require.NoError(t, json.Unmarshal(env.Payload, &parsed))
	assert.Equal(t, "2024-06-01T12:00:00Z", parsed.Timestamp)
	assert.Equal(t, 1234.5, parsed.DemandMW)
}

func TestNewEnvelope_NoPayload(t *testing.T) {
	msg, err := NewEnvelope(TypeLiveSnapshot, nil)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(msg, &env))
	assert.Equal(t, TypeLiveSnapshot, env.Type)
	assert.Nil(t, env.Payload)
}

func TestSnapshotPayloadFromPoints(t *testing.T) {
	p := SnapshotPayloadFromPoints([]synth.Point{{Time: t0, Value: 1}, {Time: t0.Add(time.Second), Value: 2}}, 100)
	assert.Equal(t, 100, p.Capacity)
	require.Len(t, p.Samples, 2)
	assert.Equal(t, "2024-06-01T12:00:01Z", p.Samples[1].Timestamp)

	empty := SnapshotPayloadFromPoints(nil, 5)
	assert.NotNil(t, empty.Samples)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub(logging.Discard())
	c := &Client{hub: hub, send: make(chan []byte, 4)}

	hub.Register(c)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(c)
	assert.Equal(t, 0, hub.ClientCount())

	_, open := <-c.send
	assert.False(t, open, "send channel is closed on unregister")

	assert.NotPanics(t, func() { hub.Unregister(c) })
}

func TestHub_BroadcastDropsWhenFull(t *testing.T) {
	hub := NewHub(nil)
	fast := &Client{hub: hub, send: make(chan []byte, 4)}
	slow := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(fast)
	hub.Register(slow)

	hub.Broadcast([]byte("a"))
	hub.Broadcast([]byte("b"))

	assert.Len(t, fast.send, 2)
	assert.Len(t, slow.send, 1)
	assert.Equal(t, []byte("a"), <-slow.send)
}

func TestHandler_SnapshotThenBroadcast(t *testing.T) {
	hub := NewHub(logging.Discard())
	snapshot := func(subscribe func([]synth.Point, int)) {
		subscribe([]synth.Point{{Time: t0, Value: 1100}}, 100)
	}
	srv := httptest.NewServer(NewHandler(hub, snapshot))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env Envelope
	require.NoError(t, conn.ReadJSON(&env))
	assert.Equal(t, TypeLiveSnapshot, env.Type)

	var snap SnapshotPayload
	require.NoError(t, json.Unmarshal(env.Payload, &snap))
	assert.Equal(t, 100, snap.Capacity)
	require.Len(t, snap.Samples, 1)
	assert.Equal(t, 1100.0, snap.Samples[0].DemandMW)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	msg, err := NewEnvelope(TypeLiveSample, SamplePayload{Timestamp: "2024-06-01T12:00:05Z", DemandMW: 1210})
	require.NoError(t, err)
	hub.Broadcast(msg)

	require.NoError(t, conn.ReadJSON(&env))
	assert.Equal(t, TypeLiveSample, env.Type)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}
