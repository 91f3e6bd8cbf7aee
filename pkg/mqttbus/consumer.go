package mqttbus

import (
	"context"
	"log"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// IConsumer subscribes to one or more topics and feeds messages to an
// injectable handler. T tags the payload type the handler expects.
type IConsumer[T any] interface {
	ConsumeMessage(ctx context.Context)
	SetHandler(handler func(topic string, message mqtt.Message) error)
}

// QosFor returns the delivery guarantee per topic family: advice events are
// at-least-once (consumers dedup redeliveries), raw and aggregated readings
// are fire-and-forget.
func QosFor(topic string) byte {
	t := strings.TrimSpace(topic)
	if strings.HasPrefix(t, "event/irrigationAdvice") ||
		strings.HasPrefix(t, "reading/aggregated") {
		return 1
	}
	return 0
}

// Consumer subscribes to a single topic.
type Consumer struct {
	client  mqtt.Client
	topic   string
	handler func(topic string, message mqtt.Message) error
}

func NewConsumer(client mqtt.Client, topic string, handler func(topic string, message mqtt.Message) error) *Consumer {
	return &Consumer{client: client, topic: topic, handler: handler}
}

func (c *Consumer) SetHandler(handler func(topic string, message mqtt.Message) error) {
	c.handler = handler
}

// ConsumeMessage subscribes and blocks until ctx is cancelled, then
// unsubscribes.
func (c *Consumer) ConsumeMessage(ctx context.Context) {
	token := c.client.Subscribe(c.topic, QosFor(c.topic), func(_ mqtt.Client, message mqtt.Message) {
		if c.handler == nil {
			log.Printf("mqttbus: no handler for %s", c.topic)
			return
		}
		if err := c.handler(c.topic, message); err != nil {
			log.Printf("mqttbus: handler error on %s: %v", c.topic, err)
		}
	})
	if token.Wait() && token.Error() != nil {
		log.Printf("mqttbus: subscribe error on %s: %v", c.topic, token.Error())
		return
	}
	log.Printf("mqttbus: subscribed to %s", c.topic)

	<-ctx.Done()

	unsub := c.client.Unsubscribe(c.topic)
	unsub.Wait()
}

// MultiConsumer subscribes to several topics with one handler.
type MultiConsumer struct {
	client  mqtt.Client
	topics  []string
	handler func(topic string, message mqtt.Message) error
}

func NewMultiConsumer(client mqtt.Client, topics []string, handler func(topic string, message mqtt.Message) error) *MultiConsumer {
	return &MultiConsumer{client: client, topics: topics, handler: handler}
}

func (m *MultiConsumer) SetHandler(handler func(topic string, message mqtt.Message) error) {
	m.handler = handler
}

func (m *MultiConsumer) ConsumeMessage(ctx context.Context) {
	for _, topic := range m.topics {
		topic := topic
		token := m.client.Subscribe(topic, QosFor(topic), func(_ mqtt.Client, msg mqtt.Message) {
			if m.handler == nil {
				log.Printf("mqttbus: no handler for %s", topic)
				return
			}
			if err := m.handler(topic, msg); err != nil {
				log.Printf("mqttbus: handler error on %s: %v", topic, err)
			}
		})
		token.Wait()
		if token.Error() != nil {
			log.Printf("mqttbus: subscribe error on %s: %v", topic, token.Error())
		} else {
			log.Printf("mqttbus: subscribed to %s", topic)
		}
	}

	<-ctx.Done()

	for _, topic := range m.topics {
		m.client.Unsubscribe(topic)
	}
}
