package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/wordlookup/internal/adapter/cache"
	"github.com/heartmarshall/wordlookup/internal/adapter/langdetect"
	"github.com/heartmarshall/wordlookup/internal/adapter/postgres"
	historyrepo "github.com/heartmarshall/wordlookup/internal/adapter/postgres/history"
	"github.com/heartmarshall/wordlookup/internal/adapter/postgres/migrations"
	"github.com/heartmarshall/wordlookup/internal/adapter/provider/freedict"
	"github.com/heartmarshall/wordlookup/internal/adapter/provider/gtts"
	"github.com/heartmarshall/wordlookup/internal/adapter/provider/translate"
	"github.com/heartmarshall/wordlookup/internal/adapter/provider/urbandict"
	"github.com/heartmarshall/wordlookup/internal/adapter/provider/whisper"
	"github.com/heartmarshall/wordlookup/internal/config"
	"github.com/heartmarshall/wordlookup/internal/domain"
	historysvc "github.com/heartmarshall/wordlookup/internal/service/history"
	"github.com/heartmarshall/wordlookup/internal/service/lookup"
	"github.com/heartmarshall/wordlookup/internal/transport/rest"
)

const cacheGCInterval = 10 * time.Minute

// ServerOptions are command-line switches of the server binary.
type ServerOptions struct {
	// Migrate applies pending migrations before serving.
	Migrate bool
	// MigrateOnly applies migrations and returns without serving.
	MigrateOnly bool
}

// RunServer loads configuration, wires the lookup server and serves until
// ctx is cancelled.
func RunServer(ctx context.Context, opts ServerOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting server",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if opts.Migrate || opts.MigrateOnly {
		if err := migrations.Migrate(ctx, cfg.Database.DSN); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		if opts.MigrateOnly {
			logger.Info("migrations applied")
			return nil
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	registry, err := domain.NewLanguageRegistry(cfg.Languages.List())
	if err != nil {
		return fmt.Errorf("languages: %w", err)
	}

	historyService := historysvc.NewService(logger, historyrepo.New(pool), postgres.NewTxManager(pool), cfg.History)

	p := cfg.Providers
	deps := lookup.Deps{
		Languages:   registry,
		Dictionary:  freedict.NewProvider(p.DictionaryURL, p.Timeout, logger),
		Slang:       urbandict.NewProvider(p.UrbanURL, p.Timeout, logger),
		Translator:  translate.NewProvider(p.TranslateURL, p.Timeout, logger),
		Speech:      gtts.NewProvider(p.TTSURL, p.Timeout, logger),
		Transcriber: whisper.NewProvider(p.WhisperURL, p.WhisperAPIKey, p.WhisperModel, p.Timeout, logger),
		History:     historyService,
	}
	if d := langdetect.New(registry.Codes()); d != nil {
		deps.Detector = d
	}

	checks := []rest.Check{{Name: "database", Ping: pool.Ping}}

	if cfg.Cache.Enabled {
		audioCache, err := cache.Open(cfg.Cache.Path, cfg.Cache.TTL, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := audioCache.Close(); err != nil {
				logger.Warn("close cache", slog.String("error", err.Error()))
			}
		}()
		go audioCache.RunGC(ctx, cacheGCInterval)
		deps.Cache = audioCache
		checks = append(checks, rest.Check{Name: "audio_cache", Ping: audioCache.Ping})
	}

	lookupService := lookup.NewService(logger, cfg.Lookup, deps)

	router := rest.NewRouter(
		rest.NewLookupHandler(lookupService, historyService, cfg.Server.MaxUploadBytes, logger),
		rest.NewHealthHandler(BuildVersion(), checks...),
		cfg.CORS,
		logger,
	)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return serve(ctx, srv, cfg.Server.ShutdownTimeout, logger)
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	logger.Info("http server stopped")
	return nil
}
