package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Domenick1991/flightseats/config"
	"github.com/Domenick1991/flightseats/internal/domain"
	"github.com/Domenick1991/flightseats/internal/logger"
	"github.com/Domenick1991/flightseats/internal/registry"
	"github.com/Domenick1991/flightseats/internal/service/booking"
	"github.com/Domenick1991/flightseats/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, gateway http.Handler) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Flight.Code = "SA100"
	cfg.Flight.MaxSeats = 10

	reg := registry.New(cfg.Flight.MaxSeats, registry.WithSource(rand.New(rand.NewPCG(1, 2))))
	bookingSvc := booking.NewBookingService(reg, nil, cfg.Flight.Code, logger.NewNop())
	flightSvc := flights.NewFlightService(reg, nil, cfg.Flight.Code, logger.NewNop())
	return NewRouter(cfg, flightSvc, bookingSvc, gateway, logger.NewNop())
}

func serve(router http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t, nil)

	w := serve(router, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","flight":"SA100"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRouter_KeepsIncomingRequestID(t *testing.T) {
	router := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "req-42")
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(requestIDHeader))
}

func TestRouter_BookingFlow(t *testing.T) {
	router := newTestRouter(t, nil)

	w := serve(router, http.MethodPost, "/api/bookings/")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created domain.BookingInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 1, created.SeatNumber)
	assert.True(t, created.WindowSeat)

	w = serve(router, http.MethodGet, "/api/flight/")
	require.Equal(t, http.StatusOK, w.Code)
	var summary domain.FlightSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, "SA100", summary.FlightCode)
	assert.Equal(t, 9, summary.AvailableSeats)
	assert.Equal(t, []int{4, 7}, summary.QueuedWindowSeats)

	w = serve(router, http.MethodGet, "/api/bookings/"+created.TicketNumber+"/qr")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = serve(router, http.MethodDelete, "/api/bookings/"+created.TicketNumber)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, http.MethodGet, "/api/bookings/"+created.TicketNumber)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(router, http.MethodGet, "/api/flight/cancellations")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), created.TicketNumber)
}

func TestRouter_DelegatesToGateway(t *testing.T) {
	var hits atomic.Int32
	gateway := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTeapot)
	})
	router := newTestRouter(t, gateway)

	w := serve(router, http.MethodGet, "/v1/bookings:export")

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, int32(1), hits.Load())
}

func TestRouter_DocsAndMetrics(t *testing.T) {
	router := newTestRouter(t, nil)

	w := serve(router, http.MethodGet, "/swagger/openapi.json")
	assert.Equal(t, http.StatusOK, w.Code)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])

	w = serve(router, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
}

type countingSaver struct {
	calls atomic.Int32
	err   error
}

func (s *countingSaver) Save(ctx context.Context) error {
	s.calls.Add(1)
	return s.err
}

func TestAutosave(t *testing.T) {
	testCases := []struct {
		name string
		err  error
	}{
		{name: "ok"},
		{name: "locked", err: booking.ErrSnapshotLocked},
		{name: "failing", err: errors.New("disk full")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			saver := &countingSaver{err: tc.err}
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})

			go func() {
				Autosave(ctx, saver, 5*time.Millisecond, logger.NewNop())
				close(done)
			}()

			require.Eventually(t, func() bool { return saver.calls.Load() >= 2 }, time.Second, time.Millisecond)
			cancel()

			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("autosave did not stop after cancel")
			}
		})
	}
}

func TestDialTarget(t *testing.T) {
	assert.Equal(t, "localhost:9090", dialTarget(":9090"))
	assert.Equal(t, "localhost:9090", dialTarget("0.0.0.0:9090"))
	assert.Equal(t, "grpc.internal:9090", dialTarget("grpc.internal:9090"))
	assert.Equal(t, "not-an-address", dialTarget("not-an-address"))
}
