package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Bala-VenkataRama-ZSINT0194/MicroservicesDemo/internal/users"
	"github.com/Bala-VenkataRama-ZSINT0194/MicroservicesDemo/pkg/config"
	"github.com/Bala-VenkataRama-ZSINT0194/MicroservicesDemo/pkg/postgres"
	"github.com/Bala-VenkataRama-ZSINT0194/MicroservicesDemo/pkg/rabbitmq"

	_ "github.com/Bala-VenkataRama-ZSINT0194/MicroservicesDemo/docs"
)

// @title           User Service API
// @version         1.0
// @description     User management service publishing user lifecycle events to RabbitMQ for async processing by the order service.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[User] Starting user-service...")

	cfg := config.LoadForService("USER")

	// Connect to PostgreSQL
	db, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[User] Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := postgres.RunMigrations(db, "user"); err != nil {
		log.Fatalf("[User] Failed to run migrations: %v", err)
	}

	// RabbitMQ connection is established lazily on first publish, so a
	// broker outage at boot does not keep the API from serving requests.
	client := rabbitmq.NewClient(cfg.RabbitMQURL())
	defer client.Close()

	publisher := rabbitmq.NewPublisher(client)

	// Setup handlers and router
	handler := users.NewUserHandler(db, publisher)
	router := users.NewRouter(handler)

	// HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: router,
	}

	go func() {
		log.Printf("[User] Listening on port %s", cfg.APIPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[User] Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[User] Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[User] Server forced to shutdown: %v", err)
	}
	log.Println("[User] Server exited gracefully")
}
