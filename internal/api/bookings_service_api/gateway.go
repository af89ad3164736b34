package bookings_service_api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type gateway struct {
	mux    *runtime.ServeMux
	client *BookingsClient
}

// RegisterGatewayRoutes exposes the Bookings service on mux as REST,
// forwarding every call over conn.
func RegisterGatewayRoutes(mux *runtime.ServeMux, conn grpc.ClientConnInterface) error {
	g := &gateway{mux: mux, client: NewBookingsClient(conn)}

	routes := []struct {
		method  string
		pattern string
		handler runtime.HandlerFunc
	}{
		{http.MethodPost, "/v1/bookings", g.allocate},
		{http.MethodGet, "/v1/bookings:export", g.export},
		{http.MethodGet, "/v1/bookings/{ticket}", g.query},
		{http.MethodDelete, "/v1/bookings/{ticket}", g.cancel},
	}
	for _, route := range routes {
		if err := mux.HandlePath(route.method, route.pattern, route.handler); err != nil {
			return fmt.Errorf("register %s %s: %w", route.method, route.pattern, err)
		}
	}
	return nil
}

func (g *gateway) allocate(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	g.forward(w, r, AllocateMethod, "/v1/bookings", func(ctx context.Context) (proto.Message, error) {
		return g.client.Allocate(ctx, &emptypb.Empty{})
	})
}

func (g *gateway) query(w http.ResponseWriter, r *http.Request, params map[string]string) {
	g.forward(w, r, QueryMethod, "/v1/bookings/{ticket}", func(ctx context.Context) (proto.Message, error) {
		return g.client.Query(ctx, wrapperspb.String(params["ticket"]))
	})
}

func (g *gateway) cancel(w http.ResponseWriter, r *http.Request, params map[string]string) {
	g.forward(w, r, CancelMethod, "/v1/bookings/{ticket}", func(ctx context.Context) (proto.Message, error) {
		return g.client.Cancel(ctx, wrapperspb.String(params["ticket"]))
	})
}

func (g *gateway) export(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	g.forward(w, r, ExportBookingsMethod, "/v1/bookings:export", func(ctx context.Context) (proto.Message, error) {
		return g.client.ExportBookings(ctx, &emptypb.Empty{})
	})
}

// forward annotates the request context with gateway metadata, performs the
// call and writes either the response or the mapped error status.
func (g *gateway) forward(w http.ResponseWriter, r *http.Request, method, pattern string, call func(context.Context) (proto.Message, error)) {
	_, outbound := runtime.MarshalerForRequest(g.mux, r)

	ctx, err := runtime.AnnotateContext(r.Context(), g.mux, r, method, runtime.WithHTTPPathPattern(pattern))
	if err != nil {
		runtime.HTTPError(r.Context(), g.mux, outbound, w, r, err)
		return
	}

	resp, err := call(ctx)
	if err != nil {
		runtime.HTTPError(ctx, g.mux, outbound, w, r, err)
		return
	}
	runtime.ForwardResponseMessage(ctx, g.mux, outbound, w, r, resp)
}
