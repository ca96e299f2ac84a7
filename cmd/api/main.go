package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/angelmondragon/gamewishlist-backend/api/controllers"
	"github.com/angelmondragon/gamewishlist-backend/api/routes"
	"github.com/angelmondragon/gamewishlist-backend/internal/catalog"
	"github.com/angelmondragon/gamewishlist-backend/internal/wishlist"
	"github.com/angelmondragon/gamewishlist-backend/pkg/config"
	"github.com/angelmondragon/gamewishlist-backend/pkg/db"
	"github.com/angelmondragon/gamewishlist-backend/pkg/env"
	"github.com/angelmondragon/gamewishlist-backend/pkg/freetogame"
	"github.com/angelmondragon/gamewishlist-backend/pkg/logger"
	"github.com/angelmondragon/gamewishlist-backend/pkg/metrics"
	"github.com/angelmondragon/gamewishlist-backend/pkg/migrate"
	"github.com/angelmondragon/gamewishlist-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.RunOnStartup(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var (
		redisPinger controllers.Pinger
		idemStore   redis.IdempotencyStore
	)
	if cfg.Redis.Enabled() {
		redisClient, redisErr := redis.New(ctx, cfg.Redis, logg)
		if redisErr != nil {
			return redisErr
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
		redisPinger = redisClient
		idemStore = redisClient
	} else {
		logg.Info(ctx, "redis not configured, idempotency keys disabled")
	}

	var (
		httpMetrics    *metrics.HTTPMetrics
		catalogMetrics *metrics.CatalogMetrics
		metricsHandler http.Handler
	)
	if cfg.FeatureFlags.MetricsEnabled {
		reg := metrics.NewRegistry()
		httpMetrics = metrics.NewHTTPMetrics(reg)
		catalogMetrics = metrics.NewCatalogMetrics(reg)
		metricsHandler = metrics.Handler(reg)
	}

	opts := append(freetogame.OptionsFromConfig(cfg.Catalog),
		freetogame.WithMetrics(catalogMetrics),
		freetogame.WithLogger(logg),
	)
	catalogClient := freetogame.NewClient(opts...)
	defer func() {
		err = multierr.Append(err, catalogClient.Close())
	}()

	wishlistRepo := wishlist.NewRepository(dbClient.DB())
	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		Repo:   wishlistRepo,
		Tx:     dbClient,
		Logger: logg,
	})
	if err != nil {
		return err
	}
	searchService, err := catalog.NewSearchService(catalogClient)
	if err != nil {
		return err
	}
	importer, err := catalog.NewImporter(catalog.ImporterParams{
		Client:   catalogClient,
		Wishlist: wishlistService,
		Lookup:   wishlistRepo,
		Logger:   logg,
	})
	if err != nil {
		return err
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"driver": dbClient.Dialect(),
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisPinger, idemStore, httpMetrics, metricsHandler, wishlistService, searchService, importer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
