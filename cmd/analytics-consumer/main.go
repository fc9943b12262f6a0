package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"dailydiet/internal/analytics"
	"dailydiet/pkg/config"
	"dailydiet/pkg/database"
	"dailydiet/pkg/models"
	"dailydiet/pkg/rabbitmq"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[Analytics] Starting analytics-consumer...")

	cfg := config.LoadForService("ANALYTICS")

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[Analytics] Failed to connect to %s: %v", cfg.DatabaseDriver, err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(context.Background(), db, "analytics"); err != nil {
		log.Fatalf("[Analytics] Failed to run migrations: %v", err)
	}

	// Connect to RabbitMQ
	if cfg.RabbitMQURL == "" {
		log.Fatalf("[Analytics] RABBITMQ_URL is required")
	}
	rmqConn, err := rabbitmq.Connect(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("[Analytics] Failed to connect to RabbitMQ: %v", err)
	}
	defer rmqConn.Close()

	consumer := analytics.NewConsumer(db)

	consumerCfg := rabbitmq.ConsumerConfig{
		QueueName: "analytics.meal.events",
		DLQName:   "dlq.analytics.meal.events",
		RoutingKeys: []string{
			string(models.EventMealCreated),
			string(models.EventMealUpdated),
			string(models.EventMealDeleted),
		},
		ConsumerName: "analytics-consumer",
	}

	if err := rabbitmq.SetupConsumer(rmqConn, consumerCfg, consumer.HandleMessage); err != nil {
		log.Fatalf("[Analytics] Failed to setup consumer: %v", err)
	}

	log.Println("[Analytics] Consumer is running. Waiting for messages...")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[Analytics] Shutting down...")
}
