// internal/app/app.go
package app

import (
	"alcyxob/liftplan/internal/bridge"
	"alcyxob/liftplan/internal/config"
	"alcyxob/liftplan/internal/paths"
	"alcyxob/liftplan/internal/repository"
	"alcyxob/liftplan/internal/repository/mongo"
	"alcyxob/liftplan/internal/service"
	"alcyxob/liftplan/internal/storage"
	"context"
	"fmt"
	"log"
	"time"
)

// App is the assembled plan stack shared by the server, the CLI and the C
// library. Optional parts stay nil when their config section is empty.
type App struct {
	Config    config.Config
	Bridge    *bridge.Bridge
	Plans     service.PlanService
	Dirs      *paths.Resolver
	Storage   *storage.Router
	Tokens    service.TokenService              // nil when jwt.secret is unset
	Documents repository.PlanDocumentRepository // nil when database.uri is unset

	closers []func() error
}

// Build wires storage backends, services and the bridge from cfg.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	a := &App{Config: cfg}

	// --- Initialize Storage ---
	a.Storage = storage.NewRouter(storage.NewFileStorage())

	if cfg.Database.URI != "" {
		log.Println("Connecting to MongoDB...")
		client, err := mongo.ConnectDB(ctx, cfg.Database.URI)
		if err != nil {
			return nil, fmt.Errorf("mongo backend: %w", err)
		}
		a.closers = append(a.closers, func() error {
			log.Println("Disconnecting MongoDB...")
			return mongo.DisconnectDB(client)
		})
		db := client.Database(cfg.Database.Name)

		indexCtx, cancel := context.WithTimeout(ctx, 1*time.Minute)
		mongo.EnsurePlanDocumentIndexes(indexCtx, db.Collection(cfg.Database.Collection))
		cancel()

		a.Documents = mongo.NewMongoPlanDocumentRepository(db, cfg.Database.Collection)
		a.Storage.Register(storage.SchemeMongo, storage.NewDocumentStorage(a.Documents))
	}

	if cfg.S3.Enabled() {
		s3Store, err := storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("s3 backend: %w", err)
		}
		a.Storage.Register(storage.SchemeS3, s3Store)
	}

	if cfg.SQLite.Path != "" {
		sqliteStore, err := storage.OpenSQLiteStorage(ctx, cfg.SQLite)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("sqlite backend: %w", err)
		}
		a.closers = append(a.closers, sqliteStore.Close)
		a.Storage.Register(storage.SchemeSQLite, sqliteStore)
	}

	// --- Initialize Services ---
	a.Dirs = paths.NewResolver(cfg.Paths)
	a.Plans = service.NewPlanService(a.Storage, a.Dirs)

	if cfg.JWT.Secret != "" {
		tokens, err := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.Issuer)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Tokens = tokens
	}

	a.Bridge = bridge.New(a.Plans, a.Dirs)
	return a, nil
}

// Close releases backend connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("ERROR: Failed to close backend: %v", err)
		}
	}
	a.closers = nil
}
