package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/cache"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/config"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/database"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/events"
	applog "github.com/prajwalbharadwajbm/crmbeacon/internal/logger"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/repository"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/store"
	"github.com/prometheus/client_golang/prometheus"
)

const VERSION = "1.0.0"

const shutdownTimeout = 15 * time.Second

func init() {
	config.LoadConfigs()
}

func main() {
	cfg := config.AppConfigInstance
	logger := applog.New(applog.Config{
		Service: "crmbeacon",
		Version: VERSION,
		Level:   cfg.GeneralConfig.LogLevel,
	})

	if err := run(cfg, logger); err != nil {
		level.Error(logger).Log("msg", "server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.AppConfig, logger log.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, hc, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher, closePublisher := openPublisher(cfg.BrokerConfig, logger)
	defer closePublisher()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	deps := dependencies{
		store:     st,
		storeName: cfg.StoreConfig.Backend,
		publisher: publisher,
		registry:  registry,
		logger:    logger,
	}
	if hc != nil {
		cacheCfg := config.GetCacheConfig()
		deps.cacheStatus = func() any { return config.GetCacheHealth(cacheCfg, hc) }
	}
	handler := routes(deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.GeneralConfig.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		level.Info(logger).Log("msg", "starting server", "port", cfg.GeneralConfig.Port, "store", cfg.StoreConfig.Backend, "env", cfg.GeneralConfig.Env)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	level.Info(logger).Log("msg", "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}

// openStore builds the configured collection store, wrapped in the snapshot
// cache when one is enabled. The returned cache is nil otherwise.
func openStore(ctx context.Context, cfg config.AppConfig, logger log.Logger) (store.Store, *cache.HybridCache, func(), error) {
	var (
		st      store.Store
		hc      *cache.HybridCache
		closers []func() error
	)

	switch cfg.StoreConfig.Backend {
	case config.StoreBackendRedis:
		rs, err := store.NewRedisStore(store.RedisOptions{
			Addr:     cfg.StoreConfig.RedisAddr,
			Password: cfg.StoreConfig.RedisPassword,
			DB:       cfg.StoreConfig.RedisDB,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		st = rs
		closers = append(closers, rs.Close)

	case config.StoreBackendPostgres:
		db, cleanup, err := database.Initialize(cfg.DatabaseConfig)
		if err != nil {
			return nil, nil, nil, err
		}
		st = store.NewPostgresStore(db)
		closers = append(closers, cleanup)

	default:
		ms := store.NewMemoryStore()
		if cfg.GeneralConfig.SeedDemoData {
			if err := repository.Seed(ctx, ms, repository.DemoSeedData()); err != nil {
				return nil, nil, nil, err
			}
			level.Info(logger).Log("msg", "seeded memory store with demo data")
		}
		st = ms
	}

	// the memory backend gains nothing from a cache in front of it
	cacheCfg := config.GetCacheConfig()
	if cacheCfg.Enabled() && cfg.StoreConfig.Backend != config.StoreBackendMemory {
		var err error
		hc, err = cache.NewHybridCache(cacheCfg)
		if err != nil {
			level.Warn(logger).Log("msg", "cache disabled", "err", err)
		} else {
			listenCtx, cancelListen := context.WithCancel(ctx)
			go func() {
				if err := hc.Listen(listenCtx); err != nil && !errors.Is(err, context.Canceled) {
					level.Warn(logger).Log("msg", "cache invalidation listener stopped", "err", err)
				}
			}()
			closers = append(closers, func() error {
				cancelListen()
				return hc.Close()
			})
			st = cache.NewCachedStore(st, hc, cacheCfg.DefaultTTL, logger)
			level.Info(logger).Log("msg", "collection cache enabled", "memory", cacheCfg.EnableMemory, "redis", cacheCfg.EnableRedis)
		}
	}

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				level.Warn(logger).Log("msg", "failed to close resource", "err", err)
			}
		}
	}
	return st, hc, closeAll, nil
}

// openPublisher connects to RabbitMQ when AMQP_URL is set. A broker that is
// down at startup disables publishing rather than the server.
func openPublisher(cfg config.BrokerConfig, logger log.Logger) (events.Publisher, func()) {
	if cfg.URL == "" {
		return events.NopPublisher{}, func() {}
	}

	p, err := events.NewAMQPPublisher(cfg.URL, cfg.Queue)
	if err != nil {
		level.Warn(logger).Log("msg", "event publishing disabled", "err", err)
		return events.NopPublisher{}, func() {}
	}

	level.Info(logger).Log("msg", "publishing events", "queue", cfg.Queue)
	return p, func() {
		if err := p.Close(); err != nil {
			level.Warn(logger).Log("msg", "failed to close event publisher", "err", err)
		}
	}
}
