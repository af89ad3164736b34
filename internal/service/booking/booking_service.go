package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightseats/internal/domain"
	"github.com/Domenick1991/flightseats/internal/kafka"
	"github.com/Domenick1991/flightseats/internal/logger"
	"github.com/Domenick1991/flightseats/internal/metrics"
	"github.com/Domenick1991/flightseats/internal/repository"
)

var ErrSnapshotLocked = errors.New("snapshot is being written by another process")

type BookingUseCase interface {
	CreateBooking(ctx context.Context) (*domain.Booking, error)
	CancelBooking(ctx context.Context, ticket string) (*domain.Booking, error)
	QueryBooking(ctx context.Context, ticket string) (*domain.BookingInfo, error)
	ResetFlight(ctx context.Context) error
	ExportSnapshot(ctx context.Context) ([]domain.Booking, error)
	Load(ctx context.Context) error
	Save(ctx context.Context) error
}

// Registry is the seat inventory the service drives.
type Registry interface {
	Allocate() (domain.Booking, error)
	Cancel(ticket string) (domain.Booking, error)
	Query(ticket string) (domain.BookingInfo, error)
	ExportSnapshot() []domain.Booking
	Snapshot() ([]domain.Booking, []domain.CancelledRecord)
	ImportSnapshot(rows []domain.Booking)
	CancelledLog() []domain.CancelledRecord
	Reset()
	AvailableSeats() int
}

type Cache interface {
	InvalidateSummary(ctx context.Context, flightCode string) error
	AcquireSnapshotLock(ctx context.Context, flightCode string, ttl time.Duration) (bool, error)
	ReleaseSnapshotLock(ctx context.Context, flightCode string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	registry              Registry
	snapshots             repository.SnapshotRepository
	cache                 Cache
	producer              Producer
	metrics               *metrics.Metrics
	log                   logger.Logger
	flightCode            string
	bookingTopic          string
	notificationsTopic    string
	lockTTL               time.Duration
	saveCancelledOnCancel bool
	now                   func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithCache(cache Cache, lockTTL time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
		s.lockTTL = lockTTL
	}
}

func WithProducer(producer Producer, bookingTopic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingTopic = bookingTopic
	}
}

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithMetrics(m *metrics.Metrics) BookingServiceOption {
	return func(s *BookingService) {
		s.metrics = m
	}
}

// WithSaveCancelledOnCancel rewrites the cancellation log after every successful cancel.
func WithSaveCancelledOnCancel(enabled bool) BookingServiceOption {
	return func(s *BookingService) {
		s.saveCancelledOnCancel = enabled
	}
}

func NewBookingService(
	registry Registry,
	snapshots repository.SnapshotRepository,
	flightCode string,
	log logger.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		registry:   registry,
		snapshots:  snapshots,
		flightCode: flightCode,
		log:        log.With("flight", flightCode),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context) (*domain.Booking, error) {
	b, err := s.registry.Allocate()
	if err != nil {
		s.recordError("allocate", err)
		return nil, err
	}

	s.log.Info("seat allocated", "ticket", b.TicketNumber, "seat", b.SeatNumber, "customer_id", b.CustomerID)
	if s.metrics != nil {
		s.metrics.BookingsAllocated.Inc()
	}
	s.afterMutation(ctx)

	if err := s.publish(ctx, kafka.EventBookingCreated, b); err != nil {
		s.log.Warn("failed to publish event", "type", kafka.EventBookingCreated, "ticket", b.TicketNumber, "error", err)
	}
	return &b, nil
}

// CancelBooking frees the seat of the booking whose ticket suffix matches ticket.
// A failure to persist the cancellation log is logged, the cancellation stands.
func (s *BookingService) CancelBooking(ctx context.Context, ticket string) (*domain.Booking, error) {
	b, err := s.registry.Cancel(ticket)
	if err != nil {
		s.recordError("cancel", err)
		return nil, err
	}

	s.log.Info("booking cancelled", "ticket", ticket, "stored_ticket", b.TicketNumber, "seat", b.SeatNumber)
	if s.metrics != nil {
		s.metrics.BookingsCancelled.Inc()
	}
	s.afterMutation(ctx)

	if err := s.publish(ctx, kafka.EventBookingCancelled, b); err != nil {
		s.log.Warn("failed to publish event", "type", kafka.EventBookingCancelled, "ticket", b.TicketNumber, "error", err)
	}
	if s.saveCancelledOnCancel && s.snapshots != nil {
		if err := s.snapshots.SaveCancelled(ctx, s.registry.CancelledLog()); err != nil {
			s.log.Error("failed to save cancellation log", "error", err)
		}
	}
	return &b, nil
}

func (s *BookingService) QueryBooking(ctx context.Context, ticket string) (*domain.BookingInfo, error) {
	info, err := s.registry.Query(ticket)
	if err != nil {
		s.recordError("query", err)
		return nil, err
	}
	return &info, nil
}

// ResetFlight drops every active booking. The cancellation log survives.
func (s *BookingService) ResetFlight(ctx context.Context) error {
	s.registry.Reset()
	s.log.Warn("flight reset")
	s.afterMutation(ctx)

	if err := s.publish(ctx, kafka.EventFlightReset, domain.Booking{}); err != nil {
		s.log.Warn("failed to publish event", "type", kafka.EventFlightReset, "error", err)
	}
	return nil
}

func (s *BookingService) ExportSnapshot(ctx context.Context) ([]domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.registry.ExportSnapshot(), nil
}

// Load imports the stored snapshot into the registry. It is meant to run once at startup.
func (s *BookingService) Load(ctx context.Context) error {
	rows, err := s.snapshots.LoadBookings(ctx)
	if err != nil {
		return fmt.Errorf("load bookings: %w", err)
	}
	if len(rows) == 0 {
		s.log.Info("no stored bookings, starting with an empty flight")
	}
	s.registry.ImportSnapshot(rows)
	s.log.Info("bookings loaded", "rows", len(rows), "available_seats", s.registry.AvailableSeats())
	s.afterMutation(ctx)
	return nil
}

// Save writes both the bookings and the full cancellation log.
func (s *BookingService) Save(ctx context.Context) error {
	if s.cache != nil {
		ok, err := s.cache.AcquireSnapshotLock(ctx, s.flightCode, s.lockTTL)
		if err != nil {
			return fmt.Errorf("acquire snapshot lock: %w", err)
		}
		if !ok {
			return ErrSnapshotLocked
		}
		defer func() {
			if err := s.cache.ReleaseSnapshotLock(ctx, s.flightCode); err != nil {
				s.log.Warn("failed to release snapshot lock", "error", err)
			}
		}()
	}

	start := s.now()
	rows, cancelled := s.registry.Snapshot()
	if err := s.snapshots.SaveBookings(ctx, rows); err != nil {
		s.recordError("save", err)
		return fmt.Errorf("save bookings: %w", err)
	}
	if err := s.snapshots.SaveCancelled(ctx, cancelled); err != nil {
		s.recordError("save", err)
		return fmt.Errorf("save cancellations: %w", err)
	}
	if s.metrics != nil {
		s.metrics.SnapshotSaveTime.Observe(s.now().Sub(start).Seconds())
	}
	s.log.Info("snapshot saved", "rows", len(rows))
	return nil
}

func (s *BookingService) afterMutation(ctx context.Context) {
	if s.metrics != nil {
		s.metrics.SeatsAvailable.Set(float64(s.registry.AvailableSeats()))
	}
	if s.cache != nil {
		if err := s.cache.InvalidateSummary(ctx, s.flightCode); err != nil {
			s.log.Warn("failed to invalidate summary cache", "error", err)
		}
	}
}

func (s *BookingService) recordError(operation string, err error) {
	reason := ErrorReason(err)
	if reason == "internal" {
		s.log.Error("booking operation failed", "operation", operation, "error", err)
	} else {
		s.log.Debug("booking operation rejected", "operation", operation, "reason", reason)
	}
	if s.metrics != nil {
		s.metrics.ErrorsCount.WithLabelValues(operation, reason).Inc()
	}
}

// ErrorReason maps registry errors to a short label.
func ErrorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrIdentifierSpaceExhausted):
		return "identifier_space_exhausted"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidFormat):
		return "invalid_format"
	default:
		return "internal"
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, b domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.NewBookingEvent(eventType, s.flightCode, b, s.now())
	key := b.TicketNumber
	if key == "" {
		key = s.flightCode
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, key, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, key, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
