package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightseats/config"
	"github.com/Domenick1991/flightseats/internal/email"
	"github.com/Domenick1991/flightseats/internal/kafka"
	"github.com/Domenick1991/flightseats/internal/logger"
	kafkaGo "github.com/segmentio/kafka-go"
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

	workerLog := logger.NewLogger(cfg.Log.Level).With("component", "worker")
	defer workerLog.Sync()

	if len(cfg.Kafka.Brokers) == 0 {
		workerLog.Fatal("kafka.brokers is empty, nothing to consume")
	}

	topic := cfg.Kafka.NotificationsTopic
	if topic == "" {
		topic = cfg.Kafka.BookingTopic
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, topic)
	defer consumer.Close()

	emailSender := email.NewSender(workerLog)

	workerLog.Info("consuming booking events", "topic", consumer.Topic(), "group", cfg.Kafka.GroupID)
	err = consumer.ConsumeEvents(ctx,
		func(ctx context.Context, event kafka.BookingEvent) error {
			return emailSender.Send(ctx, event)
		},
		func(msg kafkaGo.Message, err error) {
			workerLog.Warn("event skipped", "offset", msg.Offset, "error", err)
		},
	)
	if err != nil {
		workerLog.Error("consumer stopped", "error", err)
		return
	}
	workerLog.Info("worker stopped")
}
