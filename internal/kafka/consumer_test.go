package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/flightseats/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	messages []kafka.Message
	final    error
	closed   bool
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		return kafka.Message{}, r.final
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func eventMessage(t *testing.T, offset int64, event BookingEvent) kafka.Message {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Offset: offset, Value: data}
}

func TestConsumer_ConsumeEvents(t *testing.T) {
	created := NewBookingEvent(EventBookingCreated, "SA100", domain.Booking{CustomerID: 123, TicketNumber: "123-45678", SeatNumber: 1}, time.Now())
	reset := NewBookingEvent(EventFlightReset, "SA100", domain.Booking{}, time.Now())

	reader := &fakeReader{
		messages: []kafka.Message{
			eventMessage(t, 1, created),
			{Offset: 2, Value: []byte("not json")},
			eventMessage(t, 3, reset),
		},
		final: context.Canceled,
	}
	consumer := NewConsumerWithReader(reader, "flight.bookings")

	var handled []string
	var skipped []int64
	err := consumer.ConsumeEvents(context.Background(),
		func(ctx context.Context, event BookingEvent) error {
			handled = append(handled, event.Type)
			if event.Type == EventFlightReset {
				return errors.New("no template")
			}
			return nil
		},
		func(msg kafka.Message, err error) {
			skipped = append(skipped, msg.Offset)
		},
	)

	require.NoError(t, err)
	assert.Equal(t, []string{EventBookingCreated, EventFlightReset}, handled)
	assert.Equal(t, []int64{2, 3}, skipped)

	require.NoError(t, consumer.Close())
	assert.True(t, reader.closed)
}

func TestConsumer_ConsumeEvents_ReaderError(t *testing.T) {
	consumer := NewConsumerWithReader(&fakeReader{final: errors.New("broker gone")}, "flight.bookings")

	err := consumer.ConsumeEvents(context.Background(), func(context.Context, BookingEvent) error { return nil }, nil)

	assert.ErrorContains(t, err, "read flight.bookings: broker gone")
	assert.Equal(t, "flight.bookings", consumer.Topic())
}

func TestConsumer_CloseNil(t *testing.T) {
	var consumer *Consumer
	assert.NoError(t, consumer.Close())
}
