package notify

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/aldercare/go-vigil/internal/log"
	"github.com/aldercare/go-vigil/pkg/alert"
)

const mqttConnectTimeout = 5 * time.Second

// MQTT publishes alerts to a broker topic for home-automation
// integrations.
type MQTT struct {
	client mqtt.Client
	topic  string
}

// NewMQTT connects to broker (host:port) and publishes to topic.
func NewMQTT(broker, topic string) (*MQTT, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s", broker)).
		SetClientID("vigil-hub").
		SetAutoReconnect(true).
		SetConnectRetry(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s: timeout", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", broker, err)
	}
	log.Info("mqtt notifier ready", "broker", broker, "topic", topic)
	return &MQTT{client: client, topic: topic}, nil
}

// Notify publishes the alert as JSON at QoS 1.
func (m *MQTT) Notify(a alert.Alert) error {
	payload, err := json.Marshal(map[string]any{
		"source":    string(a.Source),
		"severity":  a.Severity.String(),
		"object":    a.Object,
		"direction": a.Direction,
		"text":      a.Text,
		"timestamp": a.Timestamp.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	token := m.client.Publish(m.topic, 1, false, payload)
	if !token.WaitTimeout(mqttConnectTimeout) {
		return fmt.Errorf("mqtt publish: timeout")
	}
	return token.Error()
}

// Close disconnects from the broker.
func (m *MQTT) Close() error {
	m.client.Disconnect(250)
	return nil
}
