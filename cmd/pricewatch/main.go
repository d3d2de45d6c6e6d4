package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/franmoretti/pricewatch/internal/api"
	"github.com/franmoretti/pricewatch/internal/browser"
	"github.com/franmoretti/pricewatch/internal/config"
	"github.com/franmoretti/pricewatch/internal/metrics"
	"github.com/franmoretti/pricewatch/internal/progress"
	"github.com/franmoretti/pricewatch/internal/runner"
	"github.com/franmoretti/pricewatch/internal/scrape"
	"github.com/franmoretti/pricewatch/internal/store"
	"github.com/franmoretti/pricewatch/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database connection
	if !cfg.Database.Enabled {
		log.Error("the server requires a database; set DB_ENABLED=true")
		os.Exit(1)
	}
	db, err := store.New(ctx, store.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.DBName,
		MaxConns: 10,
		MinConns: 2,
	})
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	// Browser setup
	b, err := browser.New(&browser.Options{
		Headless:       cfg.Browser.Headless,
		NavTimeout:     cfg.Browser.NavTimeout,
		SettleWait:     cfg.Browser.SettleWait,
		UserAgent:      cfg.Browser.UserAgent,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		Locale:         cfg.Browser.Locale,
		TimezoneID:     cfg.Browser.TimezoneID,
		ScreenshotDir:  cfg.Browser.ScreenshotDir,
	})
	if err != nil {
		log.Error("failed to initialize browser", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	m := metrics.NewMetrics()
	hub := progress.NewHub(log)

	// Optional Redis stream mirror for out-of-process consumers
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}

		sink := progress.NewRedisSink(redisClient, cfg.Redis.Stream, log)
		stop := sink.Attach(ctx, hub)
		defer stop()
	}

	batchRunner := runner.NewBatchRunner(
		scrape.DefaultRegistry(), b, hub, db, m, log,
	)

	handlers := api.NewHandlers(db, batchRunner, hub, log)
	router := api.NewRouter(handlers, m.Registry)

	server := &http.Server{
		Addr:        fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:     router,
		ReadTimeout: cfg.Server.ReadTimeout,
		// No write timeout: the SSE stream stays open indefinitely.
		// Non-streaming routes are bounded by the router's timeout
		// middleware instead.
		WriteTimeout: 0,
		IdleTimeout:  cfg.Server.WriteTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down server...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	}()

	log.Info("server starting", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
