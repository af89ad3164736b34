package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/flightseats/config"
	bookingsapi "github.com/Domenick1991/flightseats/internal/api/bookings_service_api"
	flightsapi "github.com/Domenick1991/flightseats/internal/api/flights_service_api"
	"github.com/Domenick1991/flightseats/internal/logger"
	"github.com/Domenick1991/flightseats/internal/service/booking"
	"github.com/Domenick1991/flightseats/internal/service/flights"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

type Servers struct {
	grpcServer  *grpc.Server
	httpServer  *http.Server
	gatewayConn *grpc.ClientConn
}

// Run starts gRPC and HTTP (gin API + grpc-gateway + swagger) servers and the
// autosave loop, and blocks until ctx is canceled or a server fails.
func Run(ctx context.Context, cfg *config.Config, flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase, log logger.Logger) error {
	s, err := newServers(cfg, flightSvc, bookingSvc, log)
	if err != nil {
		return err
	}
	defer s.gatewayConn.Close()

	errCh := make(chan error, 2)

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}
	go func() { errCh <- s.grpcServer.Serve(lis) }()

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Info("servers started", "http", cfg.HTTP.Address, "grpc", cfg.GRPC.Address)

	if every := time.Duration(cfg.Worker.AutosaveSeconds) * time.Second; every > 0 {
		go Autosave(ctx, bookingSvc, every, log)
	}

	select {
	case err := <-errCh:
		s.grpcServer.Stop()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		log.Info("servers stopped")
		return nil
	}
}

func newServers(cfg *config.Config, flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase, log logger.Logger) (*Servers, error) {
	grpcSrv := grpc.NewServer(grpc.UnaryInterceptor(unaryLoggingInterceptor(log)))
	flightsapi.RegisterFlightServer(grpcSrv, flightsapi.NewServer(flightSvc))
	bookingsapi.RegisterBookingsServer(grpcSrv, bookingsapi.NewServer(bookingSvc))

	conn, err := grpc.NewClient(dialTarget(cfg.GRPC.Address), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial gateway backend: %w", err)
	}

	mux := runtime.NewServeMux()
	if err := flightsapi.RegisterGatewayRoutes(mux, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("register flights gateway: %w", err)
	}
	if err := bookingsapi.RegisterGatewayRoutes(mux, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("register bookings gateway: %w", err)
	}

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           NewRouter(cfg, flightSvc, bookingSvc, mux, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Servers{
		grpcServer:  grpcSrv,
		httpServer:  httpSrv,
		gatewayConn: conn,
	}, nil
}

// dialTarget turns a listen address such as ":9090" into something dialable.
func dialTarget(listenAddr string) string {
	host, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return listenAddr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}

func unaryLoggingInterceptor(log logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			log.Warn("grpc call failed", "method", info.FullMethod, "duration", time.Since(start), "error", err)
		} else {
			log.Debug("grpc call", "method", info.FullMethod, "duration", time.Since(start))
		}
		return resp, err
	}
}
