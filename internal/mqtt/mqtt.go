package mqtt

import (
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// NewMQTTClient creates an MQTT client
func NewMQTTClient(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().AddBroker(broker).SetClientID(clientID)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return client, nil
}

// EventPublisher mirrors broadcast frames onto an MQTT topic so external
// integrations can follow device events without holding a WebSocket open.
type EventPublisher struct {
	client mqtt.Client
	topic  string
}

// NewEventPublisher creates a publisher for the given topic
func NewEventPublisher(client mqtt.Client, topic string) *EventPublisher {
	return &EventPublisher{client: client, topic: topic}
}

// Publish sends the frame fire-and-forget at QoS 0
func (p *EventPublisher) Publish(message []byte) {
	token := p.client.Publish(p.topic, 0, false, message)
	go func() {
		if token.Wait() && token.Error() != nil {
			log.Printf("MQTT: Failed to publish event: %v", token.Error())
		}
	}()
}
