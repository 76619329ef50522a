package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/CelestynPark/PenArt-Reservation/internal/app"
	"github.com/CelestynPark/PenArt-Reservation/internal/config"
	"github.com/CelestynPark/PenArt-Reservation/internal/database"
	"github.com/CelestynPark/PenArt-Reservation/internal/jobs"
	"github.com/CelestynPark/PenArt-Reservation/internal/logging"
	"github.com/CelestynPark/PenArt-Reservation/internal/redis"
	"github.com/CelestynPark/PenArt-Reservation/internal/server"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(cfg *config.Config) *redis.Client {
	client, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		slog.Error("Redis ping failed", "error", err)
		os.Exit(1)
	}

	return client
}

func runGracefulShutdown(srv *server.Server, scheduler *jobs.Scheduler) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		scheduler.Stop()
		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	redisClient := setupRedis(cfg)
	defer func() { _ = redisClient.Close() }()
	rdb := redisClient.Underlying()

	appSvc := app.NewService(app.Deps{
		Config:       *cfg,
		Users:        database.NewUserRepo(pool),
		Services:     database.NewServiceRepo(pool),
		Bookings:     database.NewBookingRepo(pool),
		Goods:        database.NewGoodsRepo(pool),
		Orders:       database.NewOrderRepo(pool),
		Works:        database.NewWorkRepo(pool),
		News:         database.NewNewsRepo(pool),
		Reviews:      database.NewReviewRepo(pool),
		Studio:       database.NewStudioRepo(pool),
		Availability: database.NewAvailabilityRepo(pool),
		Tokens:       database.NewAuthTokenRepo(pool),
		Audit:        database.NewAuditRepo(pool),
		Rollups:      database.NewMetricsRepo(pool),
		Sessions:     redis.NewSessionStore(rdb, clock),
		SlotCache:    redis.NewSlotCache(rdb),
		Clock:        clock,
	})

	scheduler := jobs.NewScheduler(appSvc, redis.NewJobLock(rdb))
	if err := scheduler.Start(); err != nil {
		slog.Error("Failed to start job scheduler", "error", err)
		os.Exit(1)
	}

	limiter := redis.NewRateLimiter(rdb, clock, cfg.RateLimitPerMin)
	idempotency := redis.NewIdempotencyStore(rdb)

	srv := server.NewServer(cfg, appSvc, limiter, idempotency, pool, redisClient)

	done := runGracefulShutdown(srv, scheduler)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
