package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"movie-discovery-client/internal/backdrop"
	"movie-discovery-client/internal/browse"
	"movie-discovery-client/internal/config"
	"movie-discovery-client/internal/database"
	"movie-discovery-client/internal/discovery"
	"movie-discovery-client/internal/handler"
	"movie-discovery-client/internal/metrics"
	"movie-discovery-client/internal/middleware"
	"movie-discovery-client/internal/repository"
	"movie-discovery-client/internal/service"
	"movie-discovery-client/internal/telemetry"
	"movie-discovery-client/internal/tmdb"
)

const serviceName = "movie-discovery-client"

func main() {
	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing (no-op without an OTLP endpoint)
	shutdownTracing, err := telemetry.Init(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
		shutdownTracing = func(context.Context) error { return nil }
	}

	// Connect to Redis (non-fatal if unavailable)
	rdb, err := database.NewRedis(ctx, cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without cache", "error", err)
		rdb = nil
	}

	store, db, err := openStateStore(ctx, cfg, rdb)
	if err != nil {
		slog.Error("failed to open watchlist store", "backend", cfg.Watchlist.Backend, "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	// Initialize TMDB client
	tmdbClient := tmdb.NewClient(tmdb.Config{
		APIKey:            cfg.TMDB.APIKey,
		BaseURL:           cfg.TMDB.BaseURL,
		ImageBaseURL:      cfg.TMDB.ImageBaseURL,
		HTTPClient:        telemetry.HTTPClient(cfg.TMDB.Timeout),
		Redis:             rdb,
		CacheTTL:          cfg.TMDB.CacheTTL,
		RequestsPerSecond: cfg.TMDB.RequestsPerSecond,
		Burst:             cfg.TMDB.Burst,
	})

	// Initialize layers
	repo := repository.NewWatchlistRepository(store, cfg.Watchlist.Key)
	if err := repo.Load(ctx); err != nil {
		slog.Error("failed to load watchlist", "error", err)
	}

	directory := service.NewDirectoryService(tmdbClient)
	if tmdbClient.Enabled() {
		refreshCtx, done := context.WithTimeout(ctx, cfg.TMDB.Timeout)
		if err := directory.Refresh(refreshCtx); err != nil {
			slog.Warn("using built-in genres and languages", "error", err)
		}
		done()
	}

	background := backdrop.New()
	pipeline := discovery.NewPipeline(tmdbClient, cfg.Browse.FallbackLanguage)
	presenter := browse.Presenter{
		ImageURL:     tmdbClient.ImageURL,
		Watchlist:    repo,
		LanguageName: directory.LanguageName,
	}
	session := browse.NewSession(ctx, pipeline, browse.SessionOptions{
		Debounce:  cfg.Browse.DebounceWindow,
		Presenter: presenter,
		Backdrop:  background,
	})
	session.Start()

	banner := service.NewBannerService(tmdbClient, background, tmdbClient.ImageURL, cfg.Browse.BannerInterval)
	if err := banner.Refresh(ctx); err != nil {
		slog.Warn("banner unavailable", "error", err)
	}
	go banner.Run(ctx)

	handlers := handler.Handlers{
		Browse:    handler.NewBrowseHandler(session, pipeline, presenter),
		Watchlist: handler.NewWatchlistHandler(service.NewWatchlistService(repo, directory, tmdbClient.ImageURL)),
		Banner:    handler.NewBannerHandler(banner),
		Catalog:   handler.NewCatalogHandler(serviceName, directory, background, tmdbClient),
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(reg)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Movie Discovery Client",
		ServerHeader: "Movie-Discovery-Client",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).JSON(handler.ErrorResponse{Error: err.Error()})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(middleware.Metrics())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Swagger docs
	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger.yaml not found, swagger UI will be unavailable", "error", err)
	} else {
		handler.RegisterSwagger(app, "Movie Discovery Client", swaggerYAML)
	}

	// API routes
	limiter := middleware.NewRateLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window)
	api := app.Group("/api/v1", limiter.Handler())
	handler.RegisterRoutes(api, handlers)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down movie discovery client...")
		cancel()
		session.Close()
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	// Start server
	addr := "127.0.0.1:" + cfg.Port
	slog.Info("starting movie discovery client", "addr", addr, "watchlist_backend", cfg.Watchlist.Backend)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	flushCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := shutdownTracing(flushCtx); err != nil {
		slog.Warn("failed to flush traces", "error", err)
	}
}

// openStateStore returns the watchlist store for the configured backend. The
// returned *sql.DB is non-nil only for the postgres backend.
func openStateStore(ctx context.Context, cfg *config.Config, rdb *redis.Client) (repository.StateStore, *sql.DB, error) {
	switch cfg.Watchlist.Backend {
	case config.BackendRedis:
		if rdb == nil {
			slog.Warn("Redis unavailable, falling back to file watchlist", "path", cfg.Watchlist.Path)
			return repository.NewFileStateStore(cfg.Watchlist.Path), nil, nil
		}
		return repository.NewRedisStateStore(rdb), nil, nil
	case config.BackendPostgres:
		db, err := database.NewPostgres(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresStateStore(db), db, nil
	default:
		return repository.NewFileStateStore(cfg.Watchlist.Path), nil, nil
	}
}
