package kafka

import (
	"time"

	"github.com/Domenick1991/flightseats/internal/domain"
	"github.com/google/uuid"
)

const (
	EventBookingCreated   = "booking_created"
	EventBookingCancelled = "booking_cancelled"
	EventFlightReset      = "flight_reset"
)

type BookingEvent struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	FlightCode   string    `json:"flight_code"`
	CustomerID   int       `json:"customer_id,omitempty"`
	TicketNumber string    `json:"ticket_number,omitempty"`
	SeatNumber   int       `json:"seat_number,omitempty"`
	WindowSeat   bool      `json:"window_seat"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventType, flightCode string, b domain.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		ID:           uuid.NewString(),
		Type:         eventType,
		FlightCode:   flightCode,
		CustomerID:   b.CustomerID,
		TicketNumber: b.TicketNumber,
		SeatNumber:   b.SeatNumber,
		WindowSeat:   b.SeatNumber > 0 && domain.IsWindowSeat(b.SeatNumber),
		OccurredAt:   at.UTC(),
	}
}
