package mqttbus

import (
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// IPublisher publishes string payloads, either on the publisher's default
// topic at its default QoS or on an explicit topic/QoS.
type IPublisher interface {
	PublishMessage(message string) error
	PublishToQos(topic string, qos byte, retained bool, message string) error
	Close()
}

// Publisher binds a shared MQTT client to a default topic.
type Publisher struct {
	client mqtt.Client
	topic  string
}

// NewPublisher creates a Publisher on the given default topic.
func NewPublisher(client mqtt.Client, topic string) *Publisher {
	return &Publisher{client: client, topic: topic}
}

// PublishMessage publishes on the default topic at the topic's default QoS.
func (p *Publisher) PublishMessage(message string) error {
	return p.PublishToQos(p.topic, QosFor(p.topic), false, message)
}

// PublishToQos publishes on an explicit topic with explicit QoS.
func (p *Publisher) PublishToQos(topic string, qos byte, retained bool, message string) error {
	token := p.client.Publish(topic, qos, retained, message)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("publish to %s: %w", topic, token.Error())
	}
	return nil
}

// Close disconnects the underlying client.
func (p *Publisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
		log.Println("mqttbus: publisher disconnected")
	}
}
