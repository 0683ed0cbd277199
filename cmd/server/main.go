package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookinghub/user-service/internal/api"
	"github.com/bookinghub/user-service/internal/core/service"
	"github.com/bookinghub/user-service/internal/core/token"
	"github.com/bookinghub/user-service/internal/infrastructure/config"
	mongodb "github.com/bookinghub/user-service/internal/infrastructure/db/mongo"
	redisdb "github.com/bookinghub/user-service/internal/infrastructure/db/redis"
	"github.com/bookinghub/user-service/internal/infrastructure/queue"
	"github.com/bookinghub/user-service/internal/pkg/hash"
	"github.com/bookinghub/user-service/pkg/logger"
)

const (
	loginAttemptLimit  = 10
	loginAttemptWindow = time.Minute
	auditWorkers       = 4
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.Auth.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}
	auditRepo := mongodb.NewAuditRepository(db)

	// --- Audit pipeline ---
	auditService := service.NewAuditService(auditRepo, log)
	dispatcher := queue.NewDispatcher(auditWorkers, auditService, log)
	dispatcher.Start(ctx)

	// --- Core services ---
	codec := token.NewCodec(cfg.Auth.JWTSecret)
	sessions := service.NewSessionService(codec, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL, log)
	hasher := hash.NewBcryptHasher(cfg.Auth.BcryptCost)
	users := service.NewUserService(userRepo, sessions, hasher, dispatcher, log)

	limiter := redisdb.NewLoginLimiter(rdb, loginAttemptLimit, loginAttemptWindow)

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Users:    users,
		Sessions: sessions,
		Limiter:  limiter,
		Mongo:    db,
		Redis:    rdb,
		Log:      log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
