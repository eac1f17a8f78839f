package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IBM/sarama"

	"hotel-booking/internal/logger"
	"hotel-booking/internal/models"
)

// ProviderEventHandler applies one relayed payment notification.
type ProviderEventHandler func(ctx context.Context, eventType, providerPaymentID string) error

// Consumer reads payment provider notifications that another service relays
// onto Kafka instead of calling the webhook.
type Consumer struct {
	consumer sarama.ConsumerGroup
	topics   []string
	log      *logger.Logger
}

func NewConsumer(brokers []string, groupID, topic string, log *logger.Logger) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	config.Consumer.Offsets.Initial = sarama.OffsetNewest

	consumer, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	log.LogKafka("CONNECTED", topic, fmt.Sprintf("Consumer group %s joined", groupID))
	return &Consumer{
		consumer: consumer,
		topics:   []string{topic},
		log:      log,
	}, nil
}

func (c *Consumer) ConsumeProviderEvents(ctx context.Context, handler ProviderEventHandler) error {
	consumerHandler := NewProviderEventsHandler(handler, c.log)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := c.consumer.Consume(ctx, c.topics, consumerHandler); err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return nil
				}
				c.log.Error("KAFKA", fmt.Sprintf("Error consuming messages: %v", err))
				return err
			}
		}
	}
}

func (c *Consumer) Close() error {
	return c.consumer.Close()
}

type providerEventsHandler struct {
	handler ProviderEventHandler
	log     *logger.Logger
}

// NewProviderEventsHandler returns the consumer group handler used by
// ConsumeProviderEvents.
func NewProviderEventsHandler(handler ProviderEventHandler, log *logger.Logger) sarama.ConsumerGroupHandler {
	return &providerEventsHandler{handler: handler, log: log}
}

func (h *providerEventsHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *providerEventsHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim marks malformed messages so they are not redelivered forever.
// A handler failure ends the claim before anything after it is marked, so
// the next session resumes from the failed offset.
func (h *providerEventsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var event models.ProviderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil || event.ProviderPaymentID == "" {
			h.log.Warn("KAFKA", fmt.Sprintf("Dropping malformed provider event at offset %d", message.Offset))
			session.MarkMessage(message, "")
			continue
		}

		eventType := models.NormalizeStripeEventType(event.Type)
		if err := h.handler(session.Context(), eventType, event.ProviderPaymentID); err != nil {
			h.log.Error("KAFKA", fmt.Sprintf("Failed to handle provider event %s at offset %d: %v", event.ProviderPaymentID, message.Offset, err))
			return fmt.Errorf("provider event %s at offset %d: %w", event.ProviderPaymentID, message.Offset, err)
		}

		h.log.LogKafka("CONSUMED", message.Topic, fmt.Sprintf("Applied %s for %s", eventType, event.ProviderPaymentID))
		session.MarkMessage(message, "")
	}

	return nil
}
