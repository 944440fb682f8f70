// obid is the learning platform API server. It serves activity content,
// grades completion submissions, resolves next activities and aggregates
// progress charts, on either PostgreSQL or embedded SQLite.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/obilearn/obi/internal/api"
	"github.com/obilearn/obi/internal/auth"
	"github.com/obilearn/obi/internal/catalog"
	"github.com/obilearn/obi/internal/completion"
	"github.com/obilearn/obi/internal/config"
	"github.com/obilearn/obi/internal/queue"
	"github.com/obilearn/obi/internal/repository"
	"github.com/obilearn/obi/internal/storage/sqlite"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	local := flag.Bool("local", false, "run in local single-node mode from ~/.obi/config.yaml")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logLevel := slog.LevelInfo
	if *local {
		localCfg, err := config.LoadLocalConfig()
		if err != nil {
			return fmt.Errorf("load local config: %w", err)
		}
		cfg.Port = localCfg.Server.Port
		cfg.SQLitePath = localCfg.Storage.Path
		cfg.RabbitMQURL = ""
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
		if localCfg.Server.LogLevel == "debug" {
			cfg.Debug = true
		}
	}
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	ctx := context.Background()

	app := &api.App{Config: cfg}
	var (
		learners completion.LearnerRepository
		progress completion.ProgressRepository
		stats    completion.StatsRepository
		authRepo auth.Repository
		closers  []func()
	)

	if cfg.SQLitePath != "" {
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return err
		}
		closers = append(closers, func() { db.Close() })
		if err := db.Migrate(); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		catalogStore := sqlite.NewCatalogStore(db)
		learnerStore := sqlite.NewLearnerStore(db)
		progressStore := sqlite.NewProgressStore(db)

		app.Catalog = catalogStore
		app.Stats = progressStore
		app.Ping = func(ctx context.Context) error { return db.PingContext(ctx) }
		learners = learnerStore
		progress = progressStore
		stats = progressStore
		authRepo = learnerStore

		slog.Info("using sqlite storage", "path", cfg.SQLitePath)
	} else {
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		closers = append(closers, pool.Close)

		catalogRepo := repository.NewCatalogRepository(pool)
		statsRepo := repository.NewStatsRepository(pool)

		app.Catalog = catalogRepo
		app.Stats = statsRepo
		app.Ping = pool.Ping
		learners = repository.NewLearnerRepository(pool)
		progress = repository.NewProgressRepository(pool)
		stats = statsRepo
		authRepo = repository.NewAuthRepository(pool)

		slog.Info("using postgres storage")
	}

	// Optional event stream: submissions publish completion events and an
	// in-process consumer materializes daily stats from them.
	var (
		publisher completion.Publisher
		consumer  *queue.Consumer
	)
	if cfg.RabbitMQURL != "" {
		conn, err := queue.NewConnection(cfg.RabbitMQURL)
		if err != nil {
			return fmt.Errorf("connect rabbitmq: %w", err)
		}
		closers = append(closers, func() { conn.Close() })

		publisher = queue.NewProducer(conn, slog.Default())
		consumer = queue.NewConsumer(conn, completion.EventHandler(stats), queue.DefaultConsumerConfig())
		if err := consumer.Start(ctx); err != nil {
			return fmt.Errorf("start consumer: %w", err)
		}
	}

	app.Auth = auth.NewService(authRepo, app.SessionMaxAge())
	app.Resolver = catalog.NewResolver(app.Catalog)
	app.Completion = completion.NewService(app.Catalog, learners, progress, stats, publisher, slog.Default())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.NewRouter(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "port", cfg.Port)
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("received signal, shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	if consumer != nil {
		consumer.Stop()
	}
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}

	slog.Info("server stopped")
	return nil
}
