package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"countries_app_echo/internal/config"
	"countries_app_echo/internal/handlers"
	"countries_app_echo/internal/home"
	"countries_app_echo/internal/logger"
	appMiddleware "countries_app_echo/internal/middleware"
	"countries_app_echo/internal/services"
	"countries_app_echo/internal/session"
)

func main() {
	// Load environment variables
	dotenvFound := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logr.Sync() }()

	if !dotenvFound {
		logr.Info("No .env file found, using system environment")
	}

	if err := run(cfg, logr); err != nil {
		logr.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run(cfg config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Session marker store: Redis when configured, process memory otherwise
	var store session.Store
	var memStore *session.MemoryStore
	if cfg.RedisURL != "" {
		cache, err := services.NewRedisCache(ctx, cfg.RedisURL, "countries:", logr)
		if err != nil {
			return err
		}
		defer cache.Close()
		store = session.NewRedisStore(cache)
	} else {
		logr.Warn("REDIS_URL not set, session markers are kept in memory")
		memStore = session.NewMemoryStore()
		store = memStore
	}

	sessions := session.NewManager(store, session.Config{
		TTL:    cfg.SessionTTL,
		Secure: cfg.IsProduction(),
	}, logr)

	countryService := services.NewCountryService(cfg.CountriesAPIURL, cfg.CountriesAPITimeout, logr)
	pages := home.NewRegistry(countryService, home.Options{TTL: cfg.HomePageTTL}, logr)
	defer pages.Close()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = appMiddleware.NewErrorHandler(logr)

	// Middleware
	e.Use(appMiddleware.RequestLogger(logr))
	e.Use(middleware.Recover())

	// Static file serving
	e.Static("/static", cfg.StaticDir)

	authHandler := handlers.NewAuthHandler(sessions, pages, logr)
	homeHandler := handlers.NewHomeHandler(pages, logr)
	handlers.RegisterRoutes(e, sessions, authHandler, homeHandler)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logr.Info("Server starting", zap.String("addr", cfg.Addr()), zap.String("env", cfg.Env))
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return pages.Run(gctx)
	})

	if memStore != nil {
		g.Go(func() error {
			return memStore.Run(gctx, time.Minute)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logr.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logr.Info("Server stopped")
	return nil
}
