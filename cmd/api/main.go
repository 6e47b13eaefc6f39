package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/shinyyama/herspace-backend/internal/ai"
	"github.com/shinyyama/herspace-backend/internal/config"
	"github.com/shinyyama/herspace-backend/internal/db"
	"github.com/shinyyama/herspace-backend/internal/logger"
	"github.com/shinyyama/herspace-backend/internal/media"
	appmw "github.com/shinyyama/herspace-backend/internal/middleware"
	"github.com/shinyyama/herspace-backend/internal/repository"
	"github.com/shinyyama/herspace-backend/internal/server"
	"github.com/shinyyama/herspace-backend/internal/service"
	"go.uber.org/zap"
)

var (
	gitSHA    = "dev"
	buildTime = ""
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
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closeKV, err := openKV(cfg, zl)
	if err != nil {
		return err
	}
	defer closeKV()

	opts := []service.RegistryOption{service.WithLogger(zl)}
	if cfg.StorageBucket != "" {
		store, err := media.NewGCSStore(ctx, cfg.StorageBucket, cfg.GoogleCredentialsFile)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, service.WithMediaStore(store))
		zl.Info("media uploads go to cloud storage", zap.String("bucket", cfg.StorageBucket))
	}
	reg := service.NewSessionRegistry(kv, opts...)
	if cfg.SessionIdleTimeout > 0 && cfg.SessionSweepInterval > 0 {
		go reg.RunSweeper(ctx, cfg.SessionSweepInterval, cfg.SessionIdleTimeout)
	}

	gw := ai.NewGateway(ctx, ai.GatewayConfig{
		APIKey:     cfg.GeminiAPIKey,
		TextModel:  cfg.GeminiTextModel,
		ImageModel: cfg.GeminiImageModel,
		Timeout:    cfg.GeminiTimeout,
	}, zl)

	var limiter *appmw.RateLimiter
	if cfg.AIRatePerSecond > 0 {
		limiter = appmw.NewRateLimiter(cfg.AIRatePerSecond, cfg.AIRateBurst, zl)
		defer limiter.Stop()
	}

	srv := server.New(server.Deps{
		Registry:            reg,
		Gateway:             gw,
		Log:                 zl,
		AILimiter:           limiter,
		CORSAllowedSuffixes: cfg.CORSAllowedSuffixes,
		BodyLimit:           cfg.BodyLimit,
		SHA:                 gitSHA,
		BuildTime:           buildTime,
	})
	return srv.Run(ctx, ":"+cfg.Port)
}

// openKV picks the preference backend. The SQL backend migrates its table on
// startup.
func openKV(cfg *config.Config, zl *zap.Logger) (repository.KVRepository, func(), error) {
	switch cfg.KVBackend {
	case "", config.KVBackendMemory:
		zl.Warn("using in-memory kv store; sessions are lost on restart")
		return repository.NewMemoryKVRepository(), func() {}, nil
	case config.KVBackendSQL:
		conn, err := db.Connect(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		if err := repository.Migrate(conn); err != nil {
			return nil, nil, fmt.Errorf("auto migrate: %w", err)
		}
		closeFn := func() {
			if sqlDB, err := conn.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		zl.Info("kv store: sql", zap.String("driver", cfg.DBDriver))
		return repository.NewKVRepository(conn), closeFn, nil
	case config.KVBackendRedis:
		client := repository.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := client.Ping(context.Background()).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		zl.Info("kv store: redis", zap.String("addr", cfg.RedisAddr))
		return repository.NewRedisKVRepository(client), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported KV_BACKEND %q", cfg.KVBackend)
	}
}
