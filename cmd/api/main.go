package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edakit/adapters/api"
	"edakit/adapters/postgres"
	"edakit/internal"
	"edakit/internal/config"
	"edakit/ports"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repo ports.ReportRepository
	if cfg.Database.URL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		db, err := postgres.Open(connectCtx, cfg.Database.URL)
		if err == nil {
			err = postgres.Migrate(connectCtx, db)
		}
		cancel()
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		repo = postgres.NewReportRepository(db)
		logger.Info("report storage enabled")
	} else {
		logger.Warn("DATABASE_URL not set, reports will not be stored")
	}

	server := api.NewServer(cfg.Analysis, repo, logger)
	if err := server.ListenAndServe(ctx, ":"+cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
	logger.Info("server stopped")
}
