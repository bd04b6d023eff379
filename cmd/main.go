package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/seedline/internal/adapters/cache"
	"github.com/okian/seedline/internal/adapters/http/api"
	"github.com/okian/seedline/internal/adapters/http/swagger"
	"github.com/okian/seedline/internal/adapters/sorstore"
	"github.com/okian/seedline/internal/adapters/upstream"
	service "github.com/okian/seedline/internal/app"
	"github.com/okian/seedline/internal/config"
	"github.com/okian/seedline/internal/domain/engine"
	"github.com/okian/seedline/internal/domain/tables"
	"github.com/okian/seedline/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't available yet
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithLevel(cfg.LogLevel)); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "seedline exited", logger.Error(err))
		os.Exit(1)
	}
}

// app is every long-lived component of one process.
type app struct {
	svc     *service.Service
	handler http.Handler
	closers []func() error
}

func (a *app) close(ctx context.Context, log logger.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Warn(ctx, "close failed", logger.Error(err))
		}
	}
}

// build wires config into components without starting anything.
func build(ctx context.Context, cfg *config.Config, log logger.Logger) (*app, error) {
	a := &app{}

	tbl := tables.Default()
	if cfg.TablesFile != "" {
		loaded, err := tables.Load(ctx, cfg.TablesFile)
		if err != nil {
			return nil, err
		}
		tbl = loaded
		log.Info(ctx, "loaded ranking tables", logger.String("file", cfg.TablesFile))
	}
	eng, err := engine.New(tbl)
	if err != nil {
		return nil, err
	}

	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}

	client := upstream.NewClient(
		upstream.WithBaseURL(cfg.UpstreamBaseURL),
		upstream.WithSportPath(cfg.SportPath),
	)
	fetchOpts := []upstream.Option{
		upstream.WithWorkers(cfg.FetchWorkers),
		upstream.WithHistoryWeeks(cfg.HistoryWeeks),
		upstream.WithTimeout(cfg.FetchTimeout()),
		upstream.WithLogger(log.Named("upstream")),
	}

	// The SOR feed is optional; a broken store only loses that source.
	if cfg.SORDSN != "" {
		store, err := sorstore.Open(ctx, cfg.SORDriver, cfg.SORDSN)
		switch {
		case err != nil:
			log.Warn(ctx, "sor store unavailable; continuing without it", logger.Error(err))
		case store.EnsureSchema(ctx) != nil:
			log.Warn(ctx, "sor schema check failed; continuing without it")
			_ = store.Close()
		default:
			fetchOpts = append(fetchOpts, upstream.WithSOR(store))
			a.closers = append(a.closers, store.Close)
			log.Info(ctx, "sor store attached", logger.String("driver", store.Driver()))
		}
	}

	svcOpts := []service.Option{
		service.WithRefreshInterval(cfg.RefreshInterval()),
		service.WithLogger(log.Named("service")),
	}
	if cfg.RedisAddr != "" {
		c := cache.NewRedisCache(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), cache.WithTTL(cfg.CacheTTL()))
		if err := c.Ping(ctx); err != nil {
			log.Warn(ctx, "redis unreachable; cache writes will fail until it recovers",
				logger.String("addr", cfg.RedisAddr), logger.Error(err))
		}
		svcOpts = append(svcOpts, service.WithCache(c))
		a.closers = append(a.closers, c.Close)
	}

	a.svc = service.New(upstream.NewFetcher(client, fetchOpts...), eng, svcOpts...)

	router := api.NewServer(a.svc,
		api.WithDefaultMode(mode),
		api.WithCORSOrigins(cfg.CORSOrigins),
		api.WithLogger(log.Named("http")),
	).Router()
	if err := swagger.Register(router); err != nil {
		return nil, err
	}
	a.handler = router
	return a, nil
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	a, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close(context.Background(), log)

	if err := a.svc.Start(ctx); err != nil {
		return err
	}
	defer a.svc.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}
