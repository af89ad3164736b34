package flights_service_api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Domenick1991/flightseats/internal/domain"
	"github.com/Domenick1991/flightseats/internal/service/flights"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "flightseats.v1.Flight"

const (
	GetSummaryMethod            = "/" + ServiceName + "/GetSummary"
	ListWindowSeatTicketsMethod = "/" + ServiceName + "/ListWindowSeatTickets"
)

type FlightServer interface {
	GetSummary(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListWindowSeatTickets(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FlightServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetSummary", Handler: unaryHandler(GetSummaryMethod, FlightServer.GetSummary)},
		{MethodName: "ListWindowSeatTickets", Handler: unaryHandler(ListWindowSeatTicketsMethod, FlightServer.ListWindowSeatTickets)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "flightseats/v1/flight.proto",
}

func RegisterFlightServer(s grpc.ServiceRegistrar, srv FlightServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unaryHandler adapts a method taking Empty to grpc.MethodDesc.
func unaryHandler(fullMethod string, call func(FlightServer, context.Context, *emptypb.Empty) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(emptypb.Empty)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(FlightServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(FlightServer), ctx, req.(*emptypb.Empty))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Server implements the flightseats.v1.Flight gRPC service.
type Server struct {
	flights flights.FlightUseCase
}

func NewServer(flights flights.FlightUseCase) *Server {
	return &Server{flights: flights}
}

func (s *Server) GetSummary(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	summary, err := s.flights.Summary(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return toPBSummary(summary)
}

func (s *Server) ListWindowSeatTickets(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	tickets, err := s.flights.WindowSeatTickets(ctx)
	if err != nil {
		return nil, status.FromContextError(err).Err()
	}
	list := make([]interface{}, 0, len(tickets))
	for _, t := range tickets {
		list = append(list, t)
	}
	return structpb.NewStruct(map[string]interface{}{"tickets": list})
}

func toPBSummary(s *domain.FlightSummary) (*structpb.Struct, error) {
	queued := make([]interface{}, 0, len(s.QueuedWindowSeats))
	for _, seat := range s.QueuedWindowSeats {
		queued = append(queued, seat)
	}
	return structpb.NewStruct(map[string]interface{}{
		"flight_code":         s.FlightCode,
		"max_seats":           s.MaxSeats,
		"available_seats":     s.AvailableSeats,
		"active_bookings":     s.ActiveBookings,
		"queued_window_seats": queued,
		"cancellations_total": s.CancellationsTotal,
	})
}

// RegisterGatewayRoutes exposes the Flight service on mux, forwarding over conn.
func RegisterGatewayRoutes(mux *runtime.ServeMux, conn grpc.ClientConnInterface) error {
	routes := map[string]string{
		"/v1/flight":                GetSummaryMethod,
		"/v1/flight/window-tickets": ListWindowSeatTicketsMethod,
	}
	for pattern, method := range routes {
		if err := mux.HandlePath(http.MethodGet, pattern, forwardEmpty(mux, conn, method, pattern)); err != nil {
			return fmt.Errorf("register GET %s: %w", pattern, err)
		}
	}
	return nil
}

func forwardEmpty(mux *runtime.ServeMux, conn grpc.ClientConnInterface, method, pattern string) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		_, outbound := runtime.MarshalerForRequest(mux, r)

		ctx, err := runtime.AnnotateContext(r.Context(), mux, r, method, runtime.WithHTTPPathPattern(pattern))
		if err != nil {
			runtime.HTTPError(r.Context(), mux, outbound, w, r, err)
			return
		}

		out := new(structpb.Struct)
		if err := conn.Invoke(ctx, method, &emptypb.Empty{}, out); err != nil {
			runtime.HTTPError(ctx, mux, outbound, w, r, err)
			return
		}
		runtime.ForwardResponseMessage(ctx, mux, outbound, w, r, out)
	}
}

var _ FlightServer = (*Server)(nil)
