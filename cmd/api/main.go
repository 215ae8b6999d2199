package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/Lelo88/menu-api-golang/internal/auth"
	"github.com/Lelo88/menu-api-golang/internal/cache"
	"github.com/Lelo88/menu-api-golang/internal/catalog"
	"github.com/Lelo88/menu-api-golang/internal/categories"
	"github.com/Lelo88/menu-api-golang/internal/config"
	"github.com/Lelo88/menu-api-golang/internal/db"
	"github.com/Lelo88/menu-api-golang/internal/docs"
	"github.com/Lelo88/menu-api-golang/internal/health"
	"github.com/Lelo88/menu-api-golang/internal/httpx"
	"github.com/Lelo88/menu-api-golang/internal/items"
	"github.com/Lelo88/menu-api-golang/internal/jobs"
	"github.com/Lelo88/menu-api-golang/internal/logging"
	"github.com/Lelo88/menu-api-golang/internal/templates"
)

const (
	requestTimeout  = 10 * time.Second
	shutdownTimeout = 15 * time.Second
)

// appPool es lo que la app usa de pgxpool.Pool.
type appPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// cacheClient es el cliente de Redis más su Close.
type cacheClient interface {
	cache.Client
	Close() error
}

// appDeps agrupa lo que run necesita del mundo exterior; los tests lo reemplazan.
type appDeps struct {
	loadConfig     func() (config.Config, error)
	newLogger      func(cfg config.LogConfig) (*logrus.Logger, io.Closer, error)
	newPool        func(ctx context.Context, cfg config.Config) (appPool, error)
	migrate        func(ctx context.Context, pool appPool) error
	newCacheClient func(url string) (cacheClient, error)
	listenAndServe func(ctx context.Context, addr string, handler http.Handler) error
}

var (
	loadConfigFn = config.Load
	newLoggerFn  = logging.New
	newPoolFn    = func(ctx context.Context, cfg config.Config) (appPool, error) {
		return db.NewPool(ctx, cfg.DatabaseURL, db.Options{MaxConns: cfg.DatabaseMaxConns})
	}
	migrateFn = func(ctx context.Context, pool appPool) error {
		return db.Migrate(ctx, pool)
	}
	newCacheClientFn = func(url string) (cacheClient, error) {
		return cache.NewClient(url)
	}
	listenAndServeFn = serve
	fatalf           = log.Fatal
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := appDeps{
		loadConfig:     loadConfigFn,
		newLogger:      newLoggerFn,
		newPool:        newPoolFn,
		migrate:        migrateFn,
		newCacheClient: newCacheClientFn,
		listenAndServe: listenAndServeFn,
	}
	if err := run(ctx, deps); err != nil {
		fatalf(err)
	}
}

func run(ctx context.Context, deps appDeps) error {
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

	if cfg.AutoMigrate {
		if err := deps.migrate(ctx, pool); err != nil {
			return err
		}
		logger.Info("database schema applied")
	}

	var menuCache *cache.RedisMenuCache
	if cfg.RedisURL != "" {
		client, err := deps.newCacheClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()

		menuCache = cache.NewRedisMenuCache(client, cfg.MenuCacheTTL)
		// Una caché caída al arrancar no impide servir: la carta sale de la base.
		if err := menuCache.Ping(ctx); err != nil {
			logger.WithError(err).Warn("menu cache unreachable at startup")
		}
	}

	app := buildApp(cfg, pool, menuCache, logger)

	warmer, err := jobs.NewCacheWarmer(app.catalog, warmInterval(cfg, menuCache), logger)
	if err != nil {
		return err
	}
	warmer.Start()
	defer func() {
		if err := warmer.Stop(); err != nil {
			logger.WithError(err).Warn("stop cache warmer")
		}
	}()

	if !cfg.AdminEnabled() {
		logger.Warn("ADMIN_PASSWORD not set: admin API is locked")
	}

	addr := ":" + cfg.Port
	logger.WithField("addr", addr).Info("listening")
	if err := deps.listenAndServe(ctx, addr, app.router); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// Sin caché no hay nada que precalentar.
func warmInterval(cfg config.Config, menuCache *cache.RedisMenuCache) time.Duration {
	if menuCache == nil {
		return 0
	}
	return cfg.CacheWarmInterval
}

type application struct {
	router  http.Handler
	catalog *catalog.Service
}

// buildApp arma repositorios, services y el router. menuCache nil deja la
// carta sin caché.
func buildApp(cfg config.Config, pool appPool, menuCache *cache.RedisMenuCache, logger logrus.FieldLogger) application {
	categoryRepository := categories.NewRepository(pool)
	itemRepository := items.NewRepository(pool)

	catalogOptions := []catalog.Option{catalog.WithLogger(logger)}
	healthHandler := health.New(pool)
	if menuCache != nil {
		catalogOptions = append(catalogOptions, catalog.WithCache(menuCache))
		healthHandler.WithCache(menuCache)
	}
	catalogService := catalog.NewService(
		catalog.NewRepositorySource(categoryRepository, itemRepository),
		catalogOptions...,
	)

	categoryService := categories.NewService(categoryRepository,
		categories.WithInvalidator(catalogService),
		categories.WithLogger(logger),
	)
	itemService := items.NewService(itemRepository, categoryService,
		items.WithInvalidator(catalogService),
		items.WithLogger(logger),
	)
	templateService := templates.NewService(templates.NewRepository(pool), catalogService, itemService.Executor(),
		templates.WithInvalidator(catalogService),
		templates.WithLogger(logger),
	)
	authManager := auth.NewManager(cfg.AdminPassword, cfg.JWTSecret, cfg.AdminSessionTTL)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logging.RequestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(requestTimeout))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, r, http.StatusNotFound, "not_found", "resource not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	router.Get("/health", healthHandler.Health)
	router.Get("/ready", healthHandler.Ready)
	docs.RegisterRoutes(router)

	catalogHandler := catalog.NewHandler(catalogService)
	categoryHandler := categories.NewHandler(categoryService)
	catalog.RegisterPublicRoutes(router, catalogHandler)
	categories.RegisterPublicRoutes(router, categoryHandler)

	router.Route("/admin", func(admin chi.Router) {
		admin.Post("/login", authManager.Handler)

		admin.Group(func(protected chi.Router) {
			protected.Use(authManager.Middleware)
			catalog.RegisterRoutes(protected, catalogHandler)
			categories.RegisterRoutes(protected, categoryHandler)
			items.RegisterRoutes(protected, items.NewHandler(itemService))
			templates.RegisterRoutes(protected, templates.NewHandler(templateService))
		})
	})

	return application{router: router, catalog: catalogService}
}

// serve corre el servidor hasta que ctx se cancela y luego drena las
// conexiones abiertas.
func serve(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
