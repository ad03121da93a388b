package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/angelmondragon/kurvfo/api/controllers"
	"github.com/angelmondragon/kurvfo/internal/cart"
	"github.com/angelmondragon/kurvfo/internal/catalog"
	"github.com/angelmondragon/kurvfo/internal/cron"
	"github.com/angelmondragon/kurvfo/pkg/config"
	"github.com/angelmondragon/kurvfo/pkg/db"
	"github.com/angelmondragon/kurvfo/pkg/enums"
	"github.com/angelmondragon/kurvfo/pkg/logger"
	"github.com/angelmondragon/kurvfo/pkg/metrics"
	"github.com/angelmondragon/kurvfo/pkg/migrate"
	"github.com/angelmondragon/kurvfo/pkg/redis"
)

type app struct {
	catalog        catalog.Service
	loader         *catalog.Loader
	cart           *cart.Engine
	scheduler      *cron.Service
	readiness      controllers.ReadinessDeps
	metricsHandler http.Handler

	closers []func(ctx context.Context) error
}

// close flushes the cart and releases connections in reverse order of
// acquisition.
func (a *app) close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	return multierr.Combine(errs...)
}

func (a *app) onClose(fn func(ctx context.Context) error) {
	a.closers = append(a.closers, fn)
}

func bootstrap(ctx context.Context, cfg *config.Config, logg *logger.Logger) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			err = multierr.Append(err, a.close(context.Background()))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	catalogMetrics := metrics.NewCatalogMetrics(reg)
	cartMetrics := metrics.NewCartMetrics(reg)

	var redisClient *redis.Client
	if cfg.Redis.Configured() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		a.onClose(func(context.Context) error { return redisClient.Close() })
		a.readiness.Redis = redisClient
	}

	catalogDB, err := db.New(ctx, db.Options{Driver: cfg.Catalog.Driver, DSN: cfg.Catalog.DSN, Pool: cfg.DB}, logg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap catalog database: %w", err)
	}
	a.onClose(func(context.Context) error { return catalogDB.Close() })

	var provider catalog.Provider = catalog.NewRepository(catalogDB.DB())
	provider = catalog.NewBreakerProvider(provider, cfg.Catalog.BreakerFailures, cfg.Catalog.BreakerCooldown, logg)
	var cache *catalog.CachedProvider
	if cfg.Catalog.CacheEnabled() && redisClient != nil {
		cache = catalog.NewCachedProvider(provider, redisClient, cfg.Catalog.CacheTTL, logg, catalogMetrics)
		provider = cache
	}

	a.loader = catalog.NewLoader(provider, cfg.Catalog.LoadTimeout, logg, catalogMetrics)
	if cache != nil {
		// refreshes must reach the provider, not the cached snapshots
		a.loader.SetInvalidator(cache.Invalidate)
	}
	a.catalog, err = catalog.NewService(a.loader, provider, catalog.Options{
		PageSize:     cfg.Catalog.PageSize,
		SimilarMax:   cfg.Catalog.SimilarMax,
		HistoryLimit: cfg.Catalog.HistoryLimit,
	}, logg)
	if err != nil {
		return nil, fmt.Errorf("build catalog service: %w", err)
	}
	a.readiness.Catalog = a.loader

	if cfg.Catalog.RefreshInterval > 0 {
		a.scheduler, err = catalogScheduler(a.loader, cfg, logg, metrics.NewJobMetrics(reg))
		if err != nil {
			return nil, err
		}
	}

	storage, err := cartStorage(ctx, a, cfg, logg, redisClient)
	if err != nil {
		return nil, err
	}

	a.cart, err = cart.NewEngine(storage, cart.EngineOptions{
		Logger:  logg,
		Metrics: cartMetrics,
	})
	if err != nil {
		return nil, fmt.Errorf("build cart engine: %w", err)
	}
	// registered last so it runs first: pending writes land before the
	// cart database closes
	a.onClose(a.cart.Close)
	a.readiness.Cart = a.cart

	return a, nil
}

func cartStorage(ctx context.Context, a *app, cfg *config.Config, logg *logger.Logger, redisClient *redis.Client) (cart.Storage, error) {
	backend, err := enums.ParseStorageBackend(cfg.Cart.Backend)
	if err != nil {
		return nil, err
	}

	switch backend {
	case enums.StorageBackendSQLite:
		cartDB, err := db.New(ctx, db.Options{Driver: db.DriverSQLite, DSN: cfg.Cart.SQLitePath, Pool: cfg.DB}, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap cart database: %w", err)
		}
		a.onClose(func(context.Context) error { return cartDB.Close() })
		a.readiness.CartDB = cartDB

		if err := migrate.MaybeRun(ctx, cfg, logg, cartDB); err != nil {
			return nil, fmt.Errorf("cart migrations: %w", err)
		}
		return cart.NewSQLStorage(cartDB.DB(), cfg.Cart.StorageKey)

	case enums.StorageBackendRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("redis cart backend without redis connection")
		}
		return cart.NewRedisStorage(redisClient, cfg.Cart.StorageKey, redis.IsNil)

	default:
		logg.Warn(ctx, "cart kept in memory; contents are lost on exit")
		return cart.NewMemoryStorage(nil), nil
	}
}

func catalogScheduler(loader *catalog.Loader, cfg *config.Config, logg *logger.Logger, m *metrics.JobMetrics) (*cron.Service, error) {
	job, err := cron.NewCatalogRefreshJob(loader, logg)
	if err != nil {
		return nil, fmt.Errorf("build catalog refresh job: %w", err)
	}
	scheduler, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(job),
		Metrics:  m,
		Interval: cfg.Catalog.RefreshInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("build catalog scheduler: %w", err)
	}
	return scheduler, nil
}
