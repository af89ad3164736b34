package flights

import (
	"context"

	"github.com/Domenick1991/flightseats/internal/domain"
	"github.com/Domenick1991/flightseats/internal/logger"
)

type FlightUseCase interface {
	Summary(ctx context.Context) (*domain.FlightSummary, error)
	WindowSeatTickets(ctx context.Context) ([]string, error)
	Cancellations(ctx context.Context) ([]domain.CancelledRecord, error)
}

// FlightRegistry is the read side of the seat inventory.
type FlightRegistry interface {
	Summary() domain.FlightSummary
	WindowSeatTickets() []string
	CancelledLog() []domain.CancelledRecord
}

type FlightCache interface {
	GetSummary(ctx context.Context, flightCode string) (*domain.FlightSummary, error)
	SetSummary(ctx context.Context, summary domain.FlightSummary) error
}

type FlightService struct {
	registry   FlightRegistry
	cache      FlightCache
	flightCode string
	log        logger.Logger
}

// NewFlightService builds the read service. cache may be nil.
func NewFlightService(registry FlightRegistry, cache FlightCache, flightCode string, log logger.Logger) *FlightService {
	return &FlightService{registry: registry, cache: cache, flightCode: flightCode, log: log}
}

func (s *FlightService) Summary(ctx context.Context) (*domain.FlightSummary, error) {
	if s.cache != nil {
		cached, err := s.cache.GetSummary(ctx, s.flightCode)
		if err != nil {
			s.log.Warn("summary cache read failed", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	summary := s.registry.Summary()
	summary.FlightCode = s.flightCode
	if s.cache != nil {
		if err := s.cache.SetSummary(ctx, summary); err != nil {
			s.log.Warn("summary cache write failed", "error", err)
		}
	}
	return &summary, nil
}

func (s *FlightService) WindowSeatTickets(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.registry.WindowSeatTickets(), nil
}

func (s *FlightService) Cancellations(ctx context.Context) ([]domain.CancelledRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.registry.CancelledLog(), nil
}

var _ FlightUseCase = (*FlightService)(nil)
