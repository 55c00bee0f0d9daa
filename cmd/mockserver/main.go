package main // Entry point package

import (
	"context"
	"log" // Logging library
	"os"

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/hotel-guest-client/internal/mockapi" // In-memory hotel API
	"github.com/iliyamo/hotel-guest-client/internal/queue"   // Broker event payloads
)

func main() {
	_ = godotenv.Load() // Load .env when present; real env wins

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret" // mock server only; never used in production
	}
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	store := mockapi.NewStore()
	auth := &mockapi.AuthHandler{Secret: secret, Store: store}
	guest := &mockapi.GuestHandler{Store: store}

	// Publish order-status transitions when a broker is configured.
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		guest.Publish = func(ev queue.OrderStatusEvent) {
			_ = mockapi.PublishOrderStatus(context.Background(), url, ev)
		}
	}

	e := echo.New()
	mockapi.RegisterRoutes(e, auth, guest, secret)

	addr := ":" + port
	log.Printf("mock hotel api listening on %s", addr)

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}
