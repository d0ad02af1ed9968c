// Package server boots the Dukaan API: configuration, database, cache,
// queue workers, the alert sweep schedule, and the HTTP stack.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/dukaan/app/jobs"
	"github.com/shashiranjanraj/dukaan/app/routes"
	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/config"
	"github.com/shashiranjanraj/dukaan/pkg/cache"
	"github.com/shashiranjanraj/dukaan/pkg/database"
	"github.com/shashiranjanraj/dukaan/pkg/logger"
	"github.com/shashiranjanraj/dukaan/pkg/metrics"
	"github.com/shashiranjanraj/dukaan/pkg/middleware"
	"github.com/shashiranjanraj/dukaan/pkg/migration"
	"github.com/shashiranjanraj/dukaan/pkg/notification"
	"github.com/shashiranjanraj/dukaan/pkg/orm"
	"github.com/shashiranjanraj/dukaan/pkg/queue"
	"github.com/shashiranjanraj/dukaan/pkg/reqid"
	"github.com/shashiranjanraj/dukaan/pkg/router"
	"github.com/shashiranjanraj/dukaan/pkg/schedule"
)

// cacheBridge adapts pkg/cache to the orm.Cacher interface.
type cacheBridge struct{}

func (cacheBridge) Get(key string, dest interface{}) bool { return cache.Get(key, dest) }
func (cacheBridge) Set(key string, value interface{}, ttl time.Duration) error {
	return cache.Set(key, value, ttl)
}

// Start boots everything and serves HTTP until SIGINT/SIGTERM, then
// shuts down gracefully.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if err := database.Connect(); err != nil {
		return err
	}
	cache.Connect()
	orm.CacheStore = cacheBridge{}

	if err := migration.New(database.DB).Run(); err != nil {
		return fmt.Errorf("server: migrate: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startBackground(ctx)

	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(300, time.Minute))

	routes.RegisterAPI(r)

	addr := ":" + config.AppPort()
	srv := &http.Server{
		Addr:         addr,
		Handler:      r.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("server: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
	}

	logger.Info("server: stopped")
	return nil
}

// startBackground wires the queue, its workers, and the alert sweep.
func startBackground(ctx context.Context) {
	jobs.RegisterAll()
	queue.UseDB(database.DB)
	notification.SetSlackWebhook(config.StockAlertSlackWebhook())

	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.StartWorkers(ctx, 5)

	alerts := services.NewAlertService()
	schedule.EveryInterval(config.StockSweepInterval()).
		WithoutOverlapping().
		Name("stock:sweep").
		Run(func() {
			if err := alerts.Sweep(); err != nil {
				logger.Error("server: stock sweep failed", "error", err)
			}
		})
	schedule.Start(ctx)

	// An immediate sweep backstops alerts missed while the process was down.
	go func() {
		if err := alerts.Sweep(); err != nil {
			logger.Error("server: startup sweep failed", "error", err)
		}
	}()
}
