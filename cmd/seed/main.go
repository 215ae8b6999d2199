package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/Lelo88/menu-api-golang/internal/cache"
	"github.com/Lelo88/menu-api-golang/internal/categories"
	"github.com/Lelo88/menu-api-golang/internal/config"
	"github.com/Lelo88/menu-api-golang/internal/db"
	"github.com/Lelo88/menu-api-golang/internal/items"
	"github.com/Lelo88/menu-api-golang/internal/logging"
	"github.com/Lelo88/menu-api-golang/internal/seed"
)

// seedPool es lo que el seed usa de pgxpool.Pool.
type seedPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

type cacheClient interface {
	cache.Client
	Close() error
}

type options struct {
	reset bool
}

type seedDeps struct {
	loadConfig     func() (config.Config, error)
	newLogger      func(cfg config.LogConfig) (*logrus.Logger, io.Closer, error)
	newPool        func(ctx context.Context, cfg config.Config) (seedPool, error)
	newCacheClient func(url string) (cacheClient, error)
	data           func() []seed.Category
}

var (
	loadConfigFn = config.Load
	newLoggerFn  = logging.New
	newPoolFn    = func(ctx context.Context, cfg config.Config) (seedPool, error) {
		return db.NewPool(ctx, cfg.DatabaseURL, db.Options{MaxConns: cfg.DatabaseMaxConns})
	}
	newCacheClientFn = func(url string) (cacheClient, error) {
		return cache.NewClient(url)
	}
	fatalf = log.Fatal
)

func main() {
	reset := flag.Bool("reset", false, "borra la carta actual antes de cargar")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := seedDeps{
		loadConfig:     loadConfigFn,
		newLogger:      newLoggerFn,
		newPool:        newPoolFn,
		newCacheClient: newCacheClientFn,
		data:           seed.DefaultMenu,
	}
	if err := run(ctx, deps, options{reset: *reset}); err != nil {
		fatalf(err)
	}
}

func run(ctx context.Context, deps seedDeps, opts options) error {
	cfg, err := deps.loadConfig()
	if err != nil {
		return err
	}

	logger, logCloser, err := deps.newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	pool, err := deps.newPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	// El seed siempre asegura el esquema: suele ser lo primero que se corre.
	if err := db.Migrate(ctx, pool); err != nil {
		return err
	}
	if opts.reset {
		if err := db.Reset(ctx, pool); err != nil {
			return err
		}
		logger.Warn("menu data reset")
	}

	stats, err := newSeeder(pool, logger).Run(ctx, deps.data())
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"categories":    stats.Categories,
		"subcategories": stats.Subcategories,
		"items":         stats.Items,
	}).Info("menu seeded")

	if cfg.RedisURL != "" {
		invalidateCache(ctx, deps, cfg.RedisURL, logger)
	}
	return nil
}

func newSeeder(pool seedPool, logger logrus.FieldLogger) *seed.Seeder {
	categoryService := categories.NewService(categories.NewRepository(pool), categories.WithLogger(logger))
	itemService := items.NewService(items.NewRepository(pool), categoryService, items.WithLogger(logger))
	return seed.NewSeeder(categoryService, itemService, logger)
}

// La API puede estar sirviendo una carta vieja desde la caché. Si no se
// puede borrar, vence sola con su TTL.
func invalidateCache(ctx context.Context, deps seedDeps, url string, logger logrus.FieldLogger) {
	client, err := deps.newCacheClient(url)
	if err != nil {
		logger.WithError(err).Warn("menu cache not invalidated")
		return
	}
	defer client.Close()

	if err := cache.NewRedisMenuCache(client, 0).Invalidate(ctx); err != nil {
		logger.WithError(err).Warn("menu cache not invalidated")
		return
	}
	logger.Info("menu cache invalidated")
}
