package main

import (
	"context"
	"flag"
	"os"

	"go-onboarding/internal/app"
	"go-onboarding/internal/config"
	"go-onboarding/internal/seed"
	"go-onboarding/internal/shared/connection"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	reset := flag.Bool("reset", false, "delete existing rows before seeding")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := app.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	db, err := connection.ConnectGORMWithRetry(cfg)
	if err != nil {
		logger.Fatal("connect database failed", zap.Error(err))
	}
	if err := app.Migrate(db); err != nil {
		logger.Fatal("migrate failed", zap.Error(err))
	}

	_, err = seed.Run(context.Background(), db, seed.Options{
		Password: os.Getenv("SEED_PASSWORD"),
		Reset:    *reset,
	}, logger)
	if err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
}
