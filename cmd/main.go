package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"GroundwaterDash/internal/appmanager"
	"GroundwaterDash/internal/config"
	"GroundwaterDash/internal/store"
)

// InitDB opens the Postgres handle for the default store.
func InitDB(cfg config.StoreConfig) (*sql.DB, error) {
	if cfg.Type != config.StorePostgres {
		return nil, nil
	}
	return sql.Open("postgres", cfg.ConnectionString)
}

func main() {
	// Load .env for local dev
	_ = godotenv.Load("../.env")

	storeCfg := config.GetStoreConfig()
	db, err := InitDB(storeCfg)
	if err != nil {
		log.Fatal("failed to connect to DB:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	source, err := store.Open(ctx, storeCfg, db)
	cancel()
	if err != nil {
		log.Fatal("failed to open store:", err)
	}
	appmanager.SetSource(source)

	manager := appmanager.NewAppManager()

	// Load service configs from YAML
	servicesCfg, err := appmanager.LoadServiceSequence("../services.yaml")
	if err != nil {
		log.Fatal("failed to load service sequence:", err)
	}

	// Automatically register all services
	manager.AutoRegisterServices(servicesCfg)

	// Start all services
	if err := manager.StartAll(); err != nil {
		log.Fatal("failed to start:", err)
	}

	// Graceful shutdown handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	// Stop all services
	if err := manager.StopAll(); err != nil {
		log.Fatal("failed to stop:", err)
	}
	if closer, ok := source.(interface{ Close() error }); ok {
		closer.Close()
	} else if closer, ok := source.(interface{ Close() }); ok {
		closer.Close()
	}
}
