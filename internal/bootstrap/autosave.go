package bootstrap

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/flightseats/internal/logger"
	"github.com/Domenick1991/flightseats/internal/service/booking"
)

type saver interface {
	Save(ctx context.Context) error
}

// Autosave persists the snapshot every interval until ctx is done.
func Autosave(ctx context.Context, svc saver, every time.Duration, log logger.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := svc.Save(ctx)
			switch {
			case err == nil:
			case errors.Is(err, booking.ErrSnapshotLocked):
				log.Info("autosave skipped, snapshot locked by another writer")
			case errors.Is(err, context.Canceled):
				return
			default:
				log.Error("autosave failed", "error", err)
			}
		}
	}
}
