package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"dailydiet/internal/audit"
	"dailydiet/pkg/config"
	"dailydiet/pkg/database"
	"dailydiet/pkg/models"
	"dailydiet/pkg/rabbitmq"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[Audit] Starting audit-consumer...")

	cfg := config.LoadForService("AUDIT")

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[Audit] Failed to connect to %s: %v", cfg.DatabaseDriver, err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(context.Background(), db, "audit"); err != nil {
		log.Fatalf("[Audit] Failed to run migrations: %v", err)
	}

	// Connect to RabbitMQ
	if cfg.RabbitMQURL == "" {
		log.Fatalf("[Audit] RABBITMQ_URL is required")
	}
	rmqConn, err := rabbitmq.Connect(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("[Audit] Failed to connect to RabbitMQ: %v", err)
	}
	defer rmqConn.Close()

	consumer := audit.NewConsumer(db)

	consumerCfg := rabbitmq.ConsumerConfig{
		QueueName: "audit.user.events",
		DLQName:   "dlq.audit.user.events",
		RoutingKeys: []string{
			string(models.EventUserRegistered),
			string(models.EventUserLoggedIn),
		},
		ConsumerName: "audit-consumer",
	}

	if err := rabbitmq.SetupConsumer(rmqConn, consumerCfg, consumer.HandleMessage); err != nil {
		log.Fatalf("[Audit] Failed to setup consumer: %v", err)
	}

	log.Println("[Audit] Consumer is running. Waiting for messages...")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[Audit] Shutting down...")
}
