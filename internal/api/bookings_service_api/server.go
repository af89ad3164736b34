package bookings_service_api

import (
	"bytes"
	"context"
	"errors"

	"github.com/Domenick1991/flightseats/internal/domain"
	"github.com/Domenick1991/flightseats/internal/repository"
	"github.com/Domenick1991/flightseats/internal/service/booking"
	"google.golang.org/genproto/googleapis/api/httpbody"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Server implements the flightseats.v1.Bookings gRPC service.
type Server struct {
	bookings booking.BookingUseCase
}

func NewServer(bookings booking.BookingUseCase) *Server {
	return &Server{bookings: bookings}
}

func (s *Server) Allocate(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	created, err := s.bookings.CreateBooking(ctx)
	if err != nil {
		return nil, ToStatus(err)
	}
	return toPBBooking(created.Info())
}

func (s *Server) Cancel(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	cancelled, err := s.bookings.CancelBooking(ctx, req.GetValue())
	if err != nil {
		return nil, ToStatus(err)
	}
	return toPBBooking(cancelled.Info())
}

func (s *Server) Query(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	info, err := s.bookings.QueryBooking(ctx, req.GetValue())
	if err != nil {
		return nil, ToStatus(err)
	}
	return toPBBooking(*info)
}

// ExportBookings returns the active bookings in the bookings CSV layout.
func (s *Server) ExportBookings(ctx context.Context, _ *emptypb.Empty) (*httpbody.HttpBody, error) {
	rows, err := s.bookings.ExportSnapshot(ctx)
	if err != nil {
		return nil, ToStatus(err)
	}
	var buf bytes.Buffer
	if err := repository.WriteBookingsCSV(&buf, rows); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &httpbody.HttpBody{ContentType: "text/csv", Data: buf.Bytes()}, nil
}

// ToStatus converts service errors into gRPC statuses.
func ToStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidFormat):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrUnavailable), errors.Is(err, domain.ErrIdentifierSpaceExhausted):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func toPBBooking(info domain.BookingInfo) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"customer_id":   info.CustomerID,
		"ticket_number": info.TicketNumber,
		"seat_number":   info.SeatNumber,
		"window_seat":   info.WindowSeat,
	})
}

var _ BookingsServer = (*Server)(nil)
