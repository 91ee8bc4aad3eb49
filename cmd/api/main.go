package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bankcore/cards-api/internal/api"
	"github.com/bankcore/cards-api/internal/api/handler"
	"github.com/bankcore/cards-api/internal/core/ports"
	"github.com/bankcore/cards-api/internal/core/service"
	"github.com/bankcore/cards-api/internal/infrastructure/config"
	mongodb "github.com/bankcore/cards-api/internal/infrastructure/db/mongo"
	redisdb "github.com/bankcore/cards-api/internal/infrastructure/db/redis"
	"github.com/bankcore/cards-api/internal/infrastructure/kafka"
	"github.com/bankcore/cards-api/internal/infrastructure/queue"
	"github.com/bankcore/cards-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		fallback := logger.Get()
		fallback.Fatal().Err(err).Msg("configuration failed")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	cardRepo := mongodb.NewCardRepository(client, db)
	userRepo := mongodb.NewUserRepository(client, db)
	roleRepo := mongodb.NewRoleRepository(db)

	if err := cardRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("card indexes failed")
	}
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user indexes failed")
	}
	if err := mongodb.EnsureSeedData(ctx, db, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("seed data failed")
	}

	// --- Redis (optional, idempotency only) ---
	var dedup *redisdb.DedupChecker
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, idempotency checks disabled")
	} else {
		defer rdb.Close()
		dedup = redisdb.NewDedupChecker(rdb)
	}

	// --- Event publishing ---
	var emitter ports.EventEmitter = queue.Discard{}
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(kafka.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		defer producer.Close()

		dispatcher := queue.NewDispatcher(0, producer, log)
		dispatcher.Start(ctx)
		emitter = dispatcher
	}

	// --- Services ---
	userService := service.NewUserService(userRepo, roleRepo, log)
	cardService := service.NewCardService(cardRepo, userRepo, emitter, log)
	authService := service.NewAuthService(userRepo, userService, cfg.JWTSecret, cfg.TokenTTL)

	sweeper := service.NewExpirationSweeper(cardRepo, emitter, log)
	if err := sweeper.Start(cfg.SweepInterval); err != nil {
		log.Fatal().Err(err).Msg("expiration sweeper failed to start")
	}
	defer sweeper.Stop()

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		Cards:     cardService,
		Users:     userService,
		Auth:      authService,
		Emitter:   emitter,
		Dedup:     dedupOrNil(dedup),
		DB:        db,
		RDB:       rdb,
		JWTSecret: cfg.JWTSecret,
		Log:       log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
		os.Exit(1)
	}
}

// dedupOrNil keeps a nil *DedupChecker from becoming a non-nil interface.
func dedupOrNil(d *redisdb.DedupChecker) handler.DedupChecker {
	if d == nil {
		return nil
	}
	return d
}
