package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/shinyyama/herspace-backend/internal/config"
	"github.com/shinyyama/herspace-backend/internal/db"
	"github.com/shinyyama/herspace-backend/internal/logger"
	"github.com/shinyyama/herspace-backend/internal/repository"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	zl := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Development: cfg.IsDev()})
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("migrate failed", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("sql db: %w", err)
	}
	defer sqlDB.Close()

	if err := repository.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate kv_entries: %w", err)
	}
	zl.Info("migrated kv_entries",
		zap.String("driver", cfg.DBDriver),
		zap.String("database", cfg.DBName),
	)
	return nil
}
