package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/Cyber-shmuck/Dutch/internal/auth"
	"github.com/Cyber-shmuck/Dutch/internal/cache"
	"github.com/Cyber-shmuck/Dutch/internal/config"
	"github.com/Cyber-shmuck/Dutch/internal/domain"
	"github.com/Cyber-shmuck/Dutch/internal/search"
	"github.com/Cyber-shmuck/Dutch/internal/seed"
	"github.com/Cyber-shmuck/Dutch/internal/storage"
	"github.com/Cyber-shmuck/Dutch/internal/sync"
	"github.com/Cyber-shmuck/Dutch/internal/translate"
	"github.com/Cyber-shmuck/Dutch/internal/web"
)

func main() {
	flags := config.NewFlagSet("dutch")
	addSource := flags.String("add-source", "", "Add a new source (local directory path or git URL) and exit")
	syncOnce := flags.Bool("sync-once", false, "Sync all sources once and exit")

	cfg, err := config.Load(flags, os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := cfg.Log.NewLogger()

	if err := run(cfg, logger, *addSource, *syncOnce); err != nil {
		logger.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, addSource string, syncOnce bool) error {
	ctx := context.Background()

	// ── Dependencies ────────────────────────────────────────────────
	db, err := storage.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("Database opened successfully", "driver", cfg.Database.Driver)

	if cfg.Seed.Enabled {
		res, err := seed.Load(ctx, db, logger)
		if err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
		logger.Info("Seed complete", "words", res.Words, "sentences", res.Sentences, "rules", res.Rules, "verbs", res.Verbs)
	}

	sentenceCache, translationCache, closeCache, err := newCaches(ctx, cfg.Cache, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	searcher := search.NewService(db, sentenceCache, logger)
	translator := translate.NewCached(
		translate.NewMyMemory(cfg.Translate.BaseURL, cfg.Translate.Timeout, logger),
		translationCache,
	)
	authSvc := auth.NewService(db, cfg.Session.TTL, logger)
	syncer := sync.New(db, cfg.Sync.ReposDir, searcher.Invalidate, logger)

	// ── One-shot commands ───────────────────────────────────────────
	if addSource != "" {
		src, err := syncer.AddSource(ctx, addSource)
		if err != nil {
			return fmt.Errorf("failed to add source: %w", err)
		}
		logger.Info("Successfully added new source", "id", src.ID, "type", src.Type, "path", src.Path)
		return nil
	}
	if syncOnce {
		report, err := syncer.RunSync(ctx)
		if err != nil {
			return err
		}
		for _, e := range report.Errors {
			logger.Warn("sync problem", "error", e)
		}
		return nil
	}

	scheduler := sync.NewScheduler(syncer, db, cfg.Sync.Interval, logger)
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer scheduler.Stop()

	// ── Server ──────────────────────────────────────────────────────
	handler := web.NewServer(web.Deps{
		DB:           db,
		Search:       searcher,
		Translator:   translator,
		Auth:         authSvc,
		Syncer:       syncer,
		Logger:       logger,
		SecureCookie: cfg.Session.SecureCookie,
		CORSOrigin:   cfg.Server.CORSOrigin,
	})
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.Server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	<-shutdownDone
	return nil
}

// newCaches returns Redis-backed caches when an address is configured and
// in-memory ones otherwise.
func newCaches(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (
	cache.Cache[[]domain.ContextSentence], cache.Cache[translate.Result], func(), error,
) {
	if cfg.RedisAddr == "" {
		return cache.NewMemory[[]domain.ContextSentence](), cache.NewMemory[translate.Result](), func() {}, nil
	}
	rdb, err := cache.Dial(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Info("Using redis cache", "addr", cfg.RedisAddr)
	return cache.NewRedis[[]domain.ContextSentence](rdb, cfg.Prefix+":context", logger),
		cache.NewRedis[translate.Result](rdb, cfg.Prefix+":translate", logger),
		func() { rdb.Close() },
		nil
}
