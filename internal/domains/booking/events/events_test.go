package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel/config"
	"hotel/infras/kafka"
	kafkaMocks "hotel/infras/kafka/mocks"
	rabbitMocks "hotel/infras/rabbitmq/mocks"
	"hotel/internal/domains/booking/events"
	"hotel/internal/domains/booking/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func sampleBooking() model.Booking {
	return model.Booking{
		ID:            "b-1",
		BookingNumber: "HJ-20240601-AB12",
		RoomID:        "r-1",
		GuestEmail:    "ana@example.com",
		CheckIn:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		Status:        model.StatusConfirmed,
		TotalPrice:    decimal.RequireFromString("400.00"),
	}
}

func TestNewBookingEvent(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	event := events.NewBookingEvent(events.KeyBookingCreated, sampleBooking(), at)

	assert.Equal(t, events.KeyBookingCreated, event.Type)
	assert.Equal(t, "2024-06-01", event.CheckIn)
	assert.Equal(t, "2024-06-05", event.CheckOut)
	assert.Equal(t, "HJ-20240601-AB12", event.BookingNumber)
	assert.Equal(t, at, event.OccurredAt)
}

func TestDecode(t *testing.T) {
	decoded, err := events.Decode([]byte(`{"type":"booking.created","booking_id":"b-1","total_price":"400.00"}`))
	assert.NoError(t, err)
	assert.Equal(t, "b-1", decoded.BookingID)
	assert.True(t, decoded.TotalPrice.Equal(decimal.NewFromInt(400)))

	_, err = events.Decode([]byte(`{`))
	assert.Error(t, err)
}

func TestNewPublisher(t *testing.T) {
	ctx := context.Background()
	event := events.NewBookingEvent(events.KeyBookingCancelled, sampleBooking(), time.Now())
	errBroker := errors.New("broker down")

	tests := []struct {
		name      string
		broker    string
		setupMock func(k *kafkaMocks.MockClient, r *rabbitMocks.MockClient)
		wantErr   error
	}{
		{
			name:   "kafka keyed by booking id",
			broker: config.EventBrokerKafka,
			setupMock: func(k *kafkaMocks.MockClient, _ *rabbitMocks.MockClient) {
				k.EXPECT().SendMessages(ctx, "hotel.bookings", kafka.Message{Key: "b-1", Value: event}).Return(nil)
			},
		},
		{
			name:   "default broker is kafka",
			broker: "",
			setupMock: func(k *kafkaMocks.MockClient, _ *rabbitMocks.MockClient) {
				k.EXPECT().SendMessages(ctx, "hotel.bookings", gomock.Any()).Return(errBroker)
			},
			wantErr: errBroker,
		},
		{
			name:   "rabbitmq routed by event type",
			broker: config.EventBrokerRabbitMQ,
			setupMock: func(_ *kafkaMocks.MockClient, r *rabbitMocks.MockClient) {
				r.EXPECT().PublishJSON(ctx, events.KeyBookingCancelled, event).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			kafkaClient := kafkaMocks.NewMockClient(ctrl)
			rabbitClient := rabbitMocks.NewMockClient(ctrl)
			tt.setupMock(kafkaClient, rabbitClient)

			cfg := &config.Config{EventBroker: tt.broker}
			cfg.Kafka.Topic = "hotel.bookings"

			err := events.NewPublisher(cfg, kafkaClient, rabbitClient).Publish(ctx, event)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
