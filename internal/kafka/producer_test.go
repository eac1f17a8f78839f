package kafka_test

import (
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-booking/internal/kafka"
	"hotel-booking/internal/logger"
	"hotel-booking/internal/models"
)

func testBooking() *models.Booking {
	return &models.Booking{ID: "bk-1", UserID: "u-1", RoomID: "3", Status: models.BookingConfirmed, TotalPrice: 300}
}

func TestPublishBookingEvent(t *testing.T) {
	sp := mocks.NewSyncProducer(t, sarama.NewConfig())
	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event models.BookingEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.BookingID != "bk-1" || event.Type != models.EventBookingConfirmed {
			return errors.New("unexpected event payload")
		}
		return nil
	})

	producer := kafka.NewProducerWithClient(sp, logger.New(logger.Options{Output: io.Discard}))
	require.NoError(t, producer.PublishBookingEvent(models.NewBookingEvent(models.EventBookingConfirmed, testBooking())))
	require.NoError(t, producer.Close())
}

func TestPublishBookingEventFailure(t *testing.T) {
	sp := mocks.NewSyncProducer(t, sarama.NewConfig())
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	producer := kafka.NewProducerWithClient(sp, logger.New(logger.Options{Output: io.Discard}))
	err := producer.PublishBookingEvent(models.NewBookingEvent(models.EventBookingCreated, testBooking()))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, producer.Close())
}

func TestMockModeProducer(t *testing.T) {
	producer, err := kafka.NewProducer(nil, true, logger.New(logger.Options{Output: io.Discard}))
	require.NoError(t, err)

	assert.NoError(t, producer.PublishBookingEvent(models.NewBookingEvent(models.EventBookingCreated, testBooking())))
	assert.NoError(t, producer.Close())
}

func TestTopicForEvent(t *testing.T) {
	assert.Equal(t, "booking-created", kafka.TopicForEvent(models.EventBookingCreated))
	assert.Equal(t, "booking-confirmed", kafka.TopicForEvent(models.EventBookingConfirmed))
	assert.Equal(t, "booking-cancelled", kafka.TopicForEvent(models.EventBookingExpired))
	assert.Equal(t, "payment-failed", kafka.TopicForEvent(models.EventPaymentFailedBus))
	assert.Equal(t, "booking-events", kafka.TopicForEvent("something.else"))
}
