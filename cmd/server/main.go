package main

import (
	"alcyxob/liftplan/internal/config"
	"alcyxob/liftplan/internal/server"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

// @title Liftplan API
// @version 1.0
// @description Editing, validation and storage of workout plan documents.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting Liftplan Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	log.Println("Server exiting.")
}
