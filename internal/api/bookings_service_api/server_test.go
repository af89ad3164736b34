package bookings_service_api

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Domenick1991/flightseats/internal/domain"
	"github.com/Domenick1991/flightseats/internal/logger"
	"github.com/Domenick1991/flightseats/internal/registry"
	"github.com/Domenick1991/flightseats/internal/service/booking"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func newTestConn(t *testing.T, maxSeats int) *grpc.ClientConn {
	t.Helper()

	reg := registry.New(maxSeats, registry.WithSource(rand.New(rand.NewPCG(11, 12))))
	svc := booking.NewBookingService(reg, nil, "SA100", logger.NewNop())

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterBookingsServer(srv, NewServer(svc))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestServer_AllocateQueryCancel(t *testing.T) {
	client := NewBookingsClient(newTestConn(t, 10))
	ctx := context.Background()

	created, err := client.Allocate(ctx, &emptypb.Empty{})
	require.NoError(t, err)

	fields := created.GetFields()
	ticket := fields["ticket_number"].GetStringValue()
	assert.True(t, domain.ValidTicketNumber(ticket), ticket)
	assert.Equal(t, 1.0, fields["seat_number"].GetNumberValue())
	assert.True(t, fields["window_seat"].GetBoolValue())

	found, err := client.Query(ctx, wrapperspb.String(ticket))
	require.NoError(t, err)
	assert.Equal(t, ticket, found.GetFields()["ticket_number"].GetStringValue())

	cancelled, err := client.Cancel(ctx, wrapperspb.String(ticket))
	require.NoError(t, err)
	assert.Equal(t, ticket, cancelled.GetFields()["ticket_number"].GetStringValue())

	_, err = client.Query(ctx, wrapperspb.String(ticket))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestServer_Errors(t *testing.T) {
	ctx := context.Background()

	client := NewBookingsClient(newTestConn(t, 0))
	_, err := client.Allocate(ctx, &emptypb.Empty{})
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))

	_, err = client.Cancel(ctx, wrapperspb.String("12345678"))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Query(ctx, wrapperspb.String("123-4567"))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestServer_ExportBookings(t *testing.T) {
	client := NewBookingsClient(newTestConn(t, 10))
	ctx := context.Background()

	created, err := client.Allocate(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	fields := created.GetFields()

	body, err := client.ExportBookings(ctx, &emptypb.Empty{})
	require.NoError(t, err)

	assert.Equal(t, "text/csv", body.GetContentType())
	lines := strings.Split(strings.TrimSpace(string(body.GetData())), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Customer ID,Ticket Number,Seat Number", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], ","+fields["ticket_number"].GetStringValue()+",1"), lines[1])
}

func TestGateway(t *testing.T) {
	mux := runtime.NewServeMux()
	require.NoError(t, RegisterGatewayRoutes(mux, newTestConn(t, 10)))

	serve := func(method, target string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(method, target, nil))
		return w
	}

	w := serve(http.MethodPost, "/v1/bookings")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	ticket, _ := created["ticket_number"].(string)
	require.True(t, domain.ValidTicketNumber(ticket), ticket)
	assert.Equal(t, true, created["window_seat"])

	w = serve(http.MethodGet, "/v1/bookings/"+ticket)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(http.MethodGet, "/v1/bookings:export")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "Customer ID,Ticket Number,Seat Number\n"))

	w = serve(http.MethodDelete, "/v1/bookings/"+ticket)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(http.MethodGet, "/v1/bookings/"+ticket)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(http.MethodDelete, "/v1/bookings/not-a-ticket")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToStatus(t *testing.T) {
	testCases := []struct {
		err      error
		expected codes.Code
	}{
		{err: domain.ErrInvalidFormat, expected: codes.InvalidArgument},
		{err: domain.ErrNotFound, expected: codes.NotFound},
		{err: domain.ErrUnavailable, expected: codes.ResourceExhausted},
		{err: domain.ErrIdentifierSpaceExhausted, expected: codes.ResourceExhausted},
		{err: context.Canceled, expected: codes.Canceled},
		{err: errors.New("boom"), expected: codes.Internal},
	}

	for _, tc := range testCases {
		t.Run(tc.expected.String(), func(t *testing.T) {
			assert.Equal(t, tc.expected, status.Code(ToStatus(tc.err)))
		})
	}
}
