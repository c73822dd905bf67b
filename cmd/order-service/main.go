package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Bala-VenkataRama-ZSINT0194/MicroservicesDemo/internal/orders"
	"github.com/Bala-VenkataRama-ZSINT0194/MicroservicesDemo/pkg/config"
	"github.com/Bala-VenkataRama-ZSINT0194/MicroservicesDemo/pkg/postgres"
	"github.com/Bala-VenkataRama-ZSINT0194/MicroservicesDemo/pkg/rabbitmq"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[Order] Starting order-service...")

	cfg := config.LoadForService("ORDER")

	// Connect to PostgreSQL
	db, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[Order] Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := postgres.RunMigrations(db, "order"); err != nil {
		log.Fatalf("[Order] Failed to run migrations: %v", err)
	}

	client := rabbitmq.NewClient(cfg.RabbitMQURL())
	defer client.Close()

	// Start consuming user.deleted events to keep order records consistent
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()

	consistency := orders.NewConsistencyHandler(db)
	consumer := rabbitmq.NewConsumer(client, consistency, rabbitmq.ConsumerConfig{
		AckAfterProcess: cfg.AckMode == config.AckAfterProcess,
		ConsumerName:    "order-service",
	})
	if err := consumer.Start(consumerCtx); err != nil {
		log.Fatalf("[Order] Failed to start consumer: %v", err)
	}

	// Setup handlers and router
	userClient := orders.NewUserClient(cfg.UserServiceURL)
	handler := orders.NewOrderHandler(db, userClient)
	router := orders.NewRouter(handler)

	// HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: router,
	}

	go func() {
		log.Printf("[Order] Listening on port %s", cfg.APIPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Order] Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[Order] Shutting down server...")
	stopConsumer()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[Order] Server forced to shutdown: %v", err)
	}
	log.Println("[Order] Server exited gracefully")
}
