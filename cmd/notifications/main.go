package main

import (
	"context"
	"errors"

	"carrental/internal/notifications/repository"
	"carrental/internal/notifications/service"
	"carrental/pkg/app"
	"carrental/pkg/config"
	"carrental/pkg/events"
	"carrental/pkg/kafka"
	kafkaconfig "carrental/pkg/kafka/config"
	kafkamiddleware "carrental/pkg/kafka/middleware"
	"carrental/pkg/metrics"
)

const ServiceName = "notifications"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	m := metrics.New()
	notificationService := service.NewNotificationService(repository.NewMongoNotificationRepository(cfg), cfg)

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.BookingEventsTopic,
		cfg.NotificationsGroupID,
		cfg.BookingEventsDLQTopic,
		events.KafkaHandler(notificationService.HandleEvent),
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafkamiddleware.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(kafkamiddleware.MetricsConsumerMiddleware(m))

	ctx, stop := context.WithCancel(context.Background())
	go func() {
		cfg.Log.Info("Consuming booking events", "topic", cfg.BookingEventsTopic, "group", cfg.NotificationsGroupID)
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			cfg.Log.Error("Booking event consumer stopped", "error", err)
		}
	}()

	// No API routes: the app only serves health and metrics for this worker.
	serverApp := app.NewApplication(cfg, m)
	serverApp.OnShutdown(func(context.Context) {
		stop()
		if err := consumer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka consumer", "error", err)
		}
	})
	serverApp.Run()
}
