package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dailydiet/internal/account"
	"dailydiet/internal/api"
	"dailydiet/internal/events"
	"dailydiet/internal/meal"
	"dailydiet/internal/repository"
	"dailydiet/pkg/config"
	"dailydiet/pkg/database"
	"dailydiet/pkg/rabbitmq"

	_ "dailydiet/docs"
)

// @title           Daily Diet API
// @version         1.0
// @description     Track meals behind a session cookie and summarise how well you kept to your diet. Writes publish domain events to RabbitMQ.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[API] Starting api-service...")

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[API] Failed to connect to %s: %v", cfg.DatabaseDriver, err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(context.Background(), db, "api"); err != nil {
		log.Fatalf("[API] Failed to run migrations: %v", err)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		rmqConn, err := rabbitmq.Connect(cfg.RabbitMQURL)
		if err != nil {
			log.Fatalf("[API] Failed to connect to RabbitMQ: %v", err)
		}
		defer rmqConn.Close()

		rmqPublisher, err := rabbitmq.NewPublisher(rmqConn)
		if err != nil {
			log.Fatalf("[API] Failed to create publisher: %v", err)
		}
		defer rmqPublisher.Close()
		publisher = rmqPublisher
	} else {
		log.Println("[API] RABBITMQ_URL not set, domain events are discarded")
	}
	emitter := events.NewEmitter(publisher)

	// Setup handlers and router
	accounts := account.NewService(repository.NewUserRepository(db), emitter)
	meals := meal.NewService(repository.NewMealRepository(db), emitter)
	router := api.NewRouter(
		api.NewUserHandler(accounts, cfg.CookieSecure),
		api.NewMealHandler(meals),
	)

	// HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: router,
	}

	go func() {
		log.Printf("[API] Listening on port %s", cfg.APIPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[API] Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[API] Server forced to shutdown: %v", err)
	}
	log.Println("[API] Server exited gracefully")
}
