// Package queue publishes booking events to RabbitMQ, one durable queue per
// event type.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"hotel-booking/internal/logger"
	"hotel-booking/internal/models"
)

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher struct {
	conn     *amqp.Connection
	ch       Channel
	log      *logger.Logger
	timeout  time.Duration
	mu       sync.Mutex
	declared map[string]bool
}

func NewPublisher(url string, log *logger.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}
	log.Info("RABBITMQ", "Connected to broker")

	p := NewPublisherWithChannel(ch, log)
	p.conn = conn
	return p, nil
}

func NewPublisherWithChannel(ch Channel, log *logger.Logger) *Publisher {
	return &Publisher{
		ch:       ch,
		log:      log,
		timeout:  5 * time.Second,
		declared: make(map[string]bool),
	}
}

// PublishBookingEvent routes the event through the default exchange to the
// queue named after its type.
func (p *Publisher) PublishBookingEvent(event *models.BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event failed: %w", err)
	}

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.declared[event.Type] {
		if _, err := p.ch.QueueDeclare(event.Type, true, false, false, false, nil); err != nil {
			p.log.Error("RABBITMQ", fmt.Sprintf("Queue declare failed for %s: %v", event.Type, err))
			return fmt.Errorf("rabbitmq: queue declare failed: %w", err)
		}
		p.declared[event.Type] = true
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.BookingID,
		Timestamp:    event.Timestamp,
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, "", event.Type, false, false, pub); err != nil {
		p.log.Error("RABBITMQ", fmt.Sprintf("Publish failed for booking %s: %v", event.BookingID, err))
		return fmt.Errorf("rabbitmq: publish failed: %w", err)
	}

	p.log.Debug("RABBITMQ", fmt.Sprintf("Published %s for booking %s", event.Type, event.BookingID))
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
