package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightseats/internal/kafka"
	"github.com/Domenick1991/flightseats/internal/logger"
)

// Sender delivers booking notifications. Delivery is a structured log line
// until an SMTP relay is configured.
type Sender struct {
	log logger.Logger
}

func NewSender(log logger.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject, body, err := Compose(event)
	if err != nil {
		return err
	}
	s.log.Info("notification sent",
		"event_id", event.ID,
		"customer_id", event.CustomerID,
		"subject", subject,
		"body", body,
	)
	return nil
}

// Compose renders the subject and body for a booking event.
func Compose(event kafka.BookingEvent) (string, string, error) {
	switch event.Type {
	case kafka.EventBookingCreated:
		seat := fmt.Sprintf("seat %d", event.SeatNumber)
		if event.WindowSeat {
			seat += " (window)"
		}
		return fmt.Sprintf("Booking confirmed: %s", event.TicketNumber),
			fmt.Sprintf("Customer %d, your ticket %s on flight %s is confirmed for %s.",
				event.CustomerID, event.TicketNumber, event.FlightCode, seat), nil
	case kafka.EventBookingCancelled:
		return fmt.Sprintf("Booking cancelled: %s", event.TicketNumber),
			fmt.Sprintf("Customer %d, your ticket %s on flight %s has been cancelled and seat %d released.",
				event.CustomerID, event.TicketNumber, event.FlightCode, event.SeatNumber), nil
	case kafka.EventFlightReset:
		return fmt.Sprintf("Flight %s reset", event.FlightCode),
			fmt.Sprintf("All bookings on flight %s were cleared.", event.FlightCode), nil
	default:
		return "", "", fmt.Errorf("unknown event type %q", event.Type)
	}
}
