package main

import (
	"context"
	"database/sql"
	"errors"
	"flight-route-service/internal/adapters/cache"
	"flight-route-service/internal/adapters/feed"
	"flight-route-service/internal/adapters/repositories"
	"flight-route-service/internal/api"
	"flight-route-service/internal/config"
	"flight-route-service/internal/platform/db"
	"flight-route-service/internal/platform/obs"
	"flight-route-service/internal/ports"
	"flight-route-service/internal/services"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// main is the application composition root.
// It loads the flight schedule once, builds the connection graph, wires the
// result cache and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := obs.NewLogger(cfg.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	repo, closeRepo, err := openFlightRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	flights, err := repo.ListFlights(ctx)
	if err != nil {
		return fmt.Errorf("load flights: %w", err)
	}

	graph := services.BuildConnectionGraph(flights, cfg.MaxLayoverHours)
	logger.Info("flight schedule loaded",
		zap.String("source", cfg.FlightsSource),
		zap.Int("flights", graph.Len()),
		zap.Int("max_layover_hours", cfg.MaxLayoverHours),
		zap.String("cache", cfg.CacheBackend),
		zap.String("fingerprint", fmt.Sprintf("%016x", graph.Fingerprint())),
	)

	resultCache, closeCache, err := openResultCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	search := services.NewRouteSearch(graph, cfg.ReturnSearchWorkers)
	router := api.NewRouter(services.NewSearchService(search, resultCache, cfg.CacheTTL))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen and serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openFlightRepository picks the flight source named by FLIGHTS_SOURCE.
func openFlightRepository(ctx context.Context, cfg config.Config) (ports.FlightRepository, func(), error) {
	noop := func() {}

	switch cfg.FlightsSource {
	case config.SourcePostgres:
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		return repositories.NewPostgresFlightRepository(conn), closer(conn), nil
	case config.SourceHTTP:
		src, err := feed.NewHTTPFlightSource(cfg.FlightsURL)
		if err != nil {
			return nil, noop, err
		}
		return src, noop, nil
	default:
		return repositories.NewCSVFlightRepository(cfg.FlightsCSV), noop, nil
	}
}

func closer(conn *sql.DB) func() {
	return func() {
		if err := conn.Close(); err != nil {
			zap.L().Warn("close database", zap.Error(err))
		}
	}
}

// openResultCache selects the cache named by CACHE_BACKEND.
func openResultCache(ctx context.Context, cfg config.Config) (ports.ResultCache, func(), error) {
	noop := func() {}

	switch cfg.CacheBackend {
	case config.CacheRedis:
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, noop, err
		}
		return cache.NewRedisResultCache(client), func() { _ = client.Close() }, nil
	case config.CachePostgres:
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		if err := repositories.InitSchema(ctx, conn); err != nil {
			_ = conn.Close()
			return nil, noop, err
		}

		sqlCache := cache.NewSQLResultCache(conn)
		if n, err := sqlCache.Purge(ctx); err != nil {
			zap.L().Warn("purge expired cache rows", zap.Error(err))
		} else {
			zap.L().Info("purged expired cache rows", zap.Int64("rows", n))
		}
		return sqlCache, closer(conn), nil
	default:
		return cache.NewMemoryResultCache(), noop, nil
	}
}
