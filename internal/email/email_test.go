package email

import (
	"context"
	"testing"

	"github.com/Domenick1991/flightseats/internal/kafka"
	"github.com/Domenick1991/flightseats/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose(t *testing.T) {
	testCases := []struct {
		name            string
		event           kafka.BookingEvent
		expectedSubject string
		expectedBody    string
	}{
		{
			name:            "created window seat",
			event:           kafka.BookingEvent{Type: kafka.EventBookingCreated, FlightCode: "SA100", CustomerID: 123, TicketNumber: "123-45678", SeatNumber: 4, WindowSeat: true},
			expectedSubject: "Booking confirmed: 123-45678",
			expectedBody:    "Customer 123, your ticket 123-45678 on flight SA100 is confirmed for seat 4 (window).",
		},
		{
			name:            "created aisle seat",
			event:           kafka.BookingEvent{Type: kafka.EventBookingCreated, FlightCode: "SA100", CustomerID: 456, TicketNumber: "456-00042", SeatNumber: 60},
			expectedSubject: "Booking confirmed: 456-00042",
			expectedBody:    "Customer 456, your ticket 456-00042 on flight SA100 is confirmed for seat 60.",
		},
		{
			name:            "cancelled",
			event:           kafka.BookingEvent{Type: kafka.EventBookingCancelled, FlightCode: "SA100", CustomerID: 123, TicketNumber: "123-45678", SeatNumber: 4},
			expectedSubject: "Booking cancelled: 123-45678",
			expectedBody:    "Customer 123, your ticket 123-45678 on flight SA100 has been cancelled and seat 4 released.",
		},
		{
			name:            "reset",
			event:           kafka.BookingEvent{Type: kafka.EventFlightReset, FlightCode: "SA100"},
			expectedSubject: "Flight SA100 reset",
			expectedBody:    "All bookings on flight SA100 were cleared.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			subject, body, err := Compose(tc.event)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedSubject, subject)
			assert.Equal(t, tc.expectedBody, body)
		})
	}
}

func TestSender_Send(t *testing.T) {
	sender := NewSender(logger.NewNop())

	err := sender.Send(context.Background(), kafka.BookingEvent{Type: kafka.EventBookingCreated, TicketNumber: "123-45678"})
	assert.NoError(t, err)

	err = sender.Send(context.Background(), kafka.BookingEvent{Type: "seat_swapped"})
	assert.ErrorContains(t, err, "unknown event type")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sender.Send(ctx, kafka.BookingEvent{Type: kafka.EventFlightReset}), context.Canceled)
}
