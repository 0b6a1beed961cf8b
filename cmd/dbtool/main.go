package main

import (
	"context"
	"database/sql"
	"flight-route-service/internal/adapters/repositories"
	"flight-route-service/internal/config"
	"flight-route-service/internal/platform/db"
	"flight-route-service/internal/platform/obs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	logger, err := obs.NewLogger(config.Get("ENV", "development"))
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/flights.csv")
	if err := initAndSeed(ctx, logger, conn, seedPath); err != nil {
		logger.Fatal("init and seed", zap.Error(err))
	}
}

func initAndSeed(ctx context.Context, logger *zap.Logger, conn *sql.DB, seedPath string) error {
	logger.Info("initializing database schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return err
	}
	logger.Info("schema ready")

	logger.Info("seeding database", zap.String("path", seedPath))
	n, err := repositories.SeedFromCSV(ctx, conn, seedPath)
	if err != nil {
		return err
	}
	logger.Info("seeding complete", zap.Int("flights", n))

	return nil
}
