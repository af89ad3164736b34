package flights

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/Domenick1991/flightseats/internal/domain"
	"github.com/Domenick1991/flightseats/internal/logger"
	"github.com/Domenick1991/flightseats/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetSummary(ctx context.Context, flightCode string) (*domain.FlightSummary, error) {
	args := m.Called(ctx, flightCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightSummary), args.Error(1)
}

func (m *MockCache) SetSummary(ctx context.Context, summary domain.FlightSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func newRegistry(maxSeats int) *registry.Registry {
	return registry.New(maxSeats, registry.WithSource(rand.New(rand.NewPCG(3, 4))))
}

func TestFlightService_Summary_CacheMiss(t *testing.T) {
	mockCache := &MockCache{}
	reg := newRegistry(7)
	_, err := reg.Allocate()
	require.NoError(t, err)

	service := NewFlightService(reg, mockCache, "SA100", logger.NewNop())
	ctx := context.Background()

	expected := domain.FlightSummary{
		FlightCode:        "SA100",
		MaxSeats:          7,
		AvailableSeats:    6,
		ActiveBookings:    1,
		QueuedWindowSeats: []int{4},
	}
	mockCache.On("GetSummary", ctx, "SA100").Return(nil, nil).Once()
	mockCache.On("SetSummary", ctx, expected).Return(nil).Once()

	summary, err := service.Summary(ctx)

	require.NoError(t, err)
	assert.Equal(t, expected, *summary)
	mockCache.AssertExpectations(t)
}

func TestFlightService_Summary_CacheHit(t *testing.T) {
	mockCache := &MockCache{}
	service := NewFlightService(newRegistry(7), mockCache, "SA100", logger.NewNop())
	ctx := context.Background()

	cached := &domain.FlightSummary{FlightCode: "SA100", MaxSeats: 7, AvailableSeats: 2}
	mockCache.On("GetSummary", ctx, "SA100").Return(cached, nil).Once()

	summary, err := service.Summary(ctx)

	require.NoError(t, err)
	assert.Same(t, cached, summary)
	mockCache.AssertNotCalled(t, "SetSummary", mock.Anything, mock.Anything)
}

func TestFlightService_Summary_CacheErrorFallsBack(t *testing.T) {
	mockCache := &MockCache{}
	service := NewFlightService(newRegistry(4), mockCache, "SA100", logger.NewNop())
	ctx := context.Background()

	mockCache.On("GetSummary", ctx, "SA100").Return(nil, errors.New("connection refused")).Once()
	mockCache.On("SetSummary", ctx, mock.Anything).Return(errors.New("connection refused")).Once()

	summary, err := service.Summary(ctx)

	require.NoError(t, err)
	assert.Equal(t, 4, summary.AvailableSeats)
	assert.Equal(t, []int{1}, summary.QueuedWindowSeats)
	mockCache.AssertExpectations(t)
}

func TestFlightService_Summary_NoCache(t *testing.T) {
	service := NewFlightService(newRegistry(100), nil, "SA100", logger.NewNop())

	summary, err := service.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "SA100", summary.FlightCode)
	assert.Equal(t, 100, summary.AvailableSeats)
	assert.Len(t, summary.QueuedWindowSeats, 33)
}

func TestFlightService_WindowSeatTickets(t *testing.T) {
	reg := newRegistry(9)
	service := NewFlightService(reg, nil, "SA100", logger.NewNop())

	var window []string
	for i := 0; i < 4; i++ {
		b, err := reg.Allocate()
		require.NoError(t, err)
		if domain.IsWindowSeat(b.SeatNumber) {
			window = append(window, b.TicketNumber)
		}
	}

	tickets, err := service.WindowSeatTickets(context.Background())

	require.NoError(t, err)
	assert.Equal(t, window, tickets)
	assert.Len(t, tickets, 3)
}

func TestFlightService_Cancellations(t *testing.T) {
	reg := newRegistry(6)
	service := NewFlightService(reg, nil, "SA100", logger.NewNop())
	ctx := context.Background()

	empty, err := service.Cancellations(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	b, err := reg.Allocate()
	require.NoError(t, err)
	_, err = reg.Cancel(b.TicketNumber)
	require.NoError(t, err)

	log, err := service.Cancellations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CancelledRecord{{CustomerID: b.CustomerID, TicketNumber: b.TicketNumber}}, log)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = service.Cancellations(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}
