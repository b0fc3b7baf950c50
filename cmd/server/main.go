package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rdfz3d/campus-api/internal/api"
	"github.com/rdfz3d/campus-api/internal/api/metrics"
	"github.com/rdfz3d/campus-api/internal/core/domain"
	"github.com/rdfz3d/campus-api/internal/core/service"
	"github.com/rdfz3d/campus-api/internal/infrastructure/config"
	mongodb "github.com/rdfz3d/campus-api/internal/infrastructure/db/mongo"
	redisdb "github.com/rdfz3d/campus-api/internal/infrastructure/db/redis"
	"github.com/rdfz3d/campus-api/internal/infrastructure/scheduler"
	"github.com/rdfz3d/campus-api/internal/pkg/password"
	"github.com/rdfz3d/campus-api/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongo index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Core services ---
	accountRepo := mongodb.NewAccountRepository(db)
	serverRepo := mongodb.NewGameServerRepository(db)
	tokenStore := redisdb.NewTokenStore(rdb, cfg.AccessTokenTTL)

	hasher, err := password.NewHasher(password.DefaultParams())
	if err != nil {
		log.Fatal().Err(err).Msg("password hasher init failed")
	}
	resolver := service.NewIdentifierResolver(accountRepo, cfg.PhoneRegion)
	signer := service.NewTokenSigner(cfg.JWTSecret, cfg.VerifyTokenTTL)

	// Token delivery (mail, SMS) is out of scope for the API process; the
	// hooks log at debug level so operators can trace the flows.
	hooks := service.Hooks{
		AfterRegister: func(account *domain.Account) {
			log.Info().Str("account_id", account.ID).Str("username", account.Username).Msg("account registered")
		},
		AfterRequestVerify: func(account *domain.Account, token string) {
			log.Debug().Str("account_id", account.ID).Msg("verification token issued")
		},
		AfterVerify: func(account *domain.Account) {
			log.Info().Str("account_id", account.ID).Msg("account verified")
		},
		AfterForgot: func(account *domain.Account, token string) {
			log.Debug().Str("account_id", account.ID).Msg("password reset token issued")
		},
	}

	accounts := service.NewAccountService(accountRepo, tokenStore, resolver, hasher, signer, cfg.AccessTokenTTL, hooks, log)
	tracker := service.NewStatusTracker(cfg.StatusWindow)
	gameServers := service.NewGameServerService(serverRepo, tracker, log)

	// --- Background sweep ---
	sched := scheduler.New(log)
	sched.Add(scheduler.Job{
		Name:     "tracker-cleanup",
		Interval: cfg.CleanupInterval,
		Run: func() {
			evicted := tracker.Cleanup()
			if evicted > 0 {
				metrics.CleanupEvictionsTotal.Add(float64(evicted))
				log.Debug().Int("evicted", evicted).Msg("tracker cleanup")
			}
			metrics.TrackedServers.Set(float64(tracker.Tracked()))
		},
	})
	sched.Start(ctx)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Accounts:    accounts,
		GameServers: gameServers,
		AccountRepo: accountRepo,
		TokenStore:  tokenStore,
		Mongo:       db,
		Redis:       rdb,
		Log:         log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
