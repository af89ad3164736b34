package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightseats/internal/domain"
)

var ErrMissingHeader = errors.New("snapshot file has no header row")

// SnapshotRepository stores the active bookings and the cancellation log of one flight.
// Loading a store that was never written yields no rows and no error.
type SnapshotRepository interface {
	LoadBookings(ctx context.Context) ([]domain.Booking, error)
	SaveBookings(ctx context.Context, rows []domain.Booking) error
	SaveCancelled(ctx context.Context, records []domain.CancelledRecord) error
}
