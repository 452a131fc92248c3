package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"tableside/internal/models"

	"github.com/segmentio/kafka-go"
)

// Topics carrying order lifecycle events. Downstream consumers (kitchen
// display, staff notifications, analytics) subscribe to these.
const (
	TopicOrderPlaced    = "order-placed"
	TopicOrderResolved  = "order-resolved"
	TopicOrderPaid      = "order-paid"
	TopicOrderCancelled = "order-cancelled"
)

type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{Writer: writer}
}

func (p *Producer) publish(topic string, order models.Order) error {
	msgBytes, err := json.Marshal(order)
	if err != nil {
		return err
	}

	fmt.Printf("Publishing to Kafka [%s]: %s\n", topic, order.ID)

	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(order.ID),
			Value: msgBytes,
		},
	)
}

// PublishOrderPlaced streams the submission of a new order.
func (p *Producer) PublishOrderPlaced(order models.Order) error {
	return p.publish(TopicOrderPlaced, order)
}

// PublishOrderResolved streams the confirmed/rejected resolution.
func (p *Producer) PublishOrderResolved(order models.Order) error {
	return p.publish(TopicOrderResolved, order)
}

// PublishOrderPaid streams a settled payment.
func (p *Producer) PublishOrderPaid(order models.Order) error {
	return p.publish(TopicOrderPaid, order)
}

// PublishOrderCancelled streams a cancelled order.
func (p *Producer) PublishOrderCancelled(order models.Order) error {
	return p.publish(TopicOrderCancelled, order)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

// Nop satisfies the publisher seam when Kafka is disabled, so a single-node
// deployment runs without a broker.
type Nop struct{}

func (Nop) PublishOrderPlaced(models.Order) error    { return nil }
func (Nop) PublishOrderResolved(models.Order) error  { return nil }
func (Nop) PublishOrderPaid(models.Order) error      { return nil }
func (Nop) PublishOrderCancelled(models.Order) error { return nil }
