package mqtt

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"hems-sim/internal/kpi"
	"hems-sim/internal/synth"
)

// RealPublisher publishes to an actual MQTT broker.
type RealPublisher struct {
	client paho.Client
	topic  string
}

// NewRealPublisher creates a publisher connected to the given broker.
// Messages go to topic+"/live" and topic+"/kpi".
func NewRealPublisher(broker, clientID, topic string) (*RealPublisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		client.Disconnect(0)
		return nil, fmt.Errorf("connect to broker %s: timeout", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return &RealPublisher{
		client: client,
		topic:  topic,
	}, nil
}

// PublishSample sends a live reading, QoS 0 and not retained.
func (p *RealPublisher) PublishSample(pt synth.Point) error {
	payload, err := FormatSamplePayload(pt)
	if err != nil {
		return fmt.Errorf("format sample payload: %w", err)
	}
	return p.publish(p.topic+"/"+SubtopicLive, 0, payload)
}

// PublishKPI sends a run summary with QoS 1 so it survives a reconnect.
func (p *RealPublisher) PublishKPI(runID string, k kpi.KPI) error {
	payload, err := FormatKPIPayload(runID, k)
	if err != nil {
		return fmt.Errorf("format kpi payload: %w", err)
	}
	return p.publish(p.topic+"/"+SubtopicKPI, 1, payload)
}

func (p *RealPublisher) publish(topic string, qos byte, payload []byte) error {
	token := p.client.Publish(topic, qos, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
