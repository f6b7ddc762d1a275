package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"railbook/internal/events"
	"railbook/pkg/config"
	"railbook/pkg/kafka"
	kafkaconfig "railbook/pkg/kafka/config"
	kafkamiddleware "railbook/pkg/kafka/middleware"
)

const ServiceName = "railbook-notifier"

func main() {
	cfg := config.Load(ServiceName)

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	notifier := events.NewNotifier(cfg.Log)
	consumer, err := kafka.NewConsumer(kafkaCfg, cfg.EventsTopic, cfg.NotifierGroupID, cfg.EventsDLQTopic, notifier.Handle, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	metrics := kafkamiddleware.NewMetrics()
	consumer.Use(kafkamiddleware.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(metrics.ConsumerMiddleware())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting notifier",
		"topic", cfg.EventsTopic,
		"group_id", cfg.NotifierGroupID,
		"dlq_topic", cfg.EventsDLQTopic,
	)

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}

	snapshot := metrics.Snapshot()
	cfg.Log.Info("Notifier stopped",
		"consumed", snapshot.Consumed,
		"failed", snapshot.ConsumeFailed,
		"avg_duration", snapshot.AvgConsumeDuration,
	)
}
