package server

import (
	"alcyxob/liftplan/internal/api"
	"alcyxob/liftplan/internal/app"
	"alcyxob/liftplan/internal/config"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Run builds the plan stack from cfg and serves the HTTP API until ctx is
// cancelled. Both cmd/server and `planctl serve` use it.
func Run(ctx context.Context, cfg config.Config) error {
	a, err := app.Build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("could not initialize: %w", err)
	}
	defer a.Close()

	if a.Tokens == nil {
		log.Println("WARN: jwt.secret is not set, the HTTP API will not require tokens")
	}

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	log.Println("Setting up API routes...")
	api.SetupRoutes(router, a.Bridge, a.Tokens)

	// --- Start HTTP Server ---
	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// --- Graceful Shutdown ---
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Println("Shutting down server...")

	// The server has 5 seconds to finish the requests it is currently handling
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
