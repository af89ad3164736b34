package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightseats/config"
	"github.com/Domenick1991/flightseats/internal/bootstrap"
	"github.com/Domenick1991/flightseats/internal/cache"
	"github.com/Domenick1991/flightseats/internal/kafka"
	"github.com/Domenick1991/flightseats/internal/logger"
	"github.com/Domenick1991/flightseats/internal/metrics"
	"github.com/Domenick1991/flightseats/internal/registry"
	"github.com/Domenick1991/flightseats/internal/repository"
	"github.com/Domenick1991/flightseats/internal/service/booking"
	"github.com/Domenick1991/flightseats/internal/service/flights"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLog := logger.NewLogger(cfg.Log.Level)
	defer appLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snapshots, closeStorage := openSnapshotRepository(ctx, cfg, appLog)
	defer closeStorage()

	opts := []booking.BookingServiceOption{
		booking.WithMetrics(metrics.NewMetrics(prometheus.DefaultRegisterer, "flightseats")),
		booking.WithSaveCancelledOnCancel(cfg.Flight.SaveCancelledOnCancel),
	}

	var flightCache flights.FlightCache
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Flight.SummaryCacheTTL)*time.Second)
		defer redisCache.Close()
		flightCache = redisCache
		opts = append(opts, booking.WithCache(redisCache, time.Duration(cfg.Flight.SnapshotLockTTL)*time.Second))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, appLog)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			appLog.Warn("kafka not reachable, events may be lost", "error", err)
		}
		opts = append(opts,
			booking.WithProducer(producer.WithRetries(cfg.Kafka.PublishRetries), cfg.Kafka.BookingTopic),
			booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		)
	}

	seats := registry.New(cfg.Flight.MaxSeats)
	bookingService := booking.NewBookingService(seats, snapshots, cfg.Flight.Code, appLog, opts...)
	flightService := flights.NewFlightService(seats, flightCache, cfg.Flight.Code, appLog)

	if err := bookingService.Load(ctx); err != nil {
		appLog.Fatal("load bookings", "error", err)
	}

	runErr := bootstrap.Run(ctx, cfg, flightService, bookingService, appLog)

	saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := bookingService.Save(saveCtx); err != nil {
		appLog.Error("save on shutdown", "error", err)
	}

	if runErr != nil {
		appLog.Fatal("server error", "error", runErr)
	}
}

func openSnapshotRepository(ctx context.Context, cfg *config.Config, appLog logger.Logger) (repository.SnapshotRepository, func()) {
	if cfg.Storage.Driver != config.StoragePostgres {
		appLog.Info("using csv storage", "bookings", cfg.Storage.BookingsFile, "cancelled", cfg.Storage.CancelledFile)
		return repository.NewCSVSnapshotRepository(cfg.Storage.BookingsFile, cfg.Storage.CancelledFile), func() {}
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		appLog.Fatal("connect postgres", "error", err)
	}
	repo := repository.NewPGSnapshotRepository(pool, cfg.Flight.Code)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		appLog.Fatal("ensure schema", "error", err)
	}
	appLog.Info("using postgres storage", "host", cfg.Database.Host, "database", cfg.Database.Name)
	return repo, pool.Close
}
