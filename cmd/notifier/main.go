package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"doctorsportal/internal/notifications"
	"doctorsportal/pkg/config"
	"doctorsportal/pkg/kafka"
	kafka_config "doctorsportal/pkg/kafka/config"
	kafka_middleware "doctorsportal/pkg/kafka/middleware"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)
	if !cfg.KafkaEnabled() {
		cfg.Log.Fatal("KAFKA_BROKERS must be set for the notifier")
	}

	kafkaCfg, err := kafka_config.Load(cfg.KafkaBrokers)
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	handler := notifications.NewBookingCreatedHandler(notifications.NewSendGridSender(cfg), cfg.Log)
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.KafkaBookingsTopic,
		cfg.KafkaNotifierGroupID,
		cfg.KafkaBookingsDLQ,
		handler,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting notifier",
		"topic", cfg.KafkaBookingsTopic,
		"group_id", cfg.KafkaNotifierGroupID,
	)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Notifier consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped")
}
