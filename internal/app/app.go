package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/WillDent/guess-that-tune-admin-sub001/internal/catalog"
	"github.com/WillDent/guess-that-tune-admin-sub001/internal/config"
	"github.com/WillDent/guess-that-tune-admin-sub001/internal/db/repository"
	"github.com/WillDent/guess-that-tune-admin-sub001/internal/generation"
	"github.com/WillDent/guess-that-tune-admin-sub001/internal/generation/ai"
	"github.com/WillDent/guess-that-tune-admin-sub001/internal/logging"
	"github.com/WillDent/guess-that-tune-admin-sub001/internal/server"
)

// Application aggregates shared infrastructure (catalog, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	prefetchQueue  chan generation.GenerateRequest
	prefetchWorker *generation.PrefetchWorker
}

// New bootstraps config, logger, catalog backend, Redis and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Str("catalog_provider", cfg.Catalog.Provider).Msg("starting application bootstrap")

	app := &Application{cfg: cfg, logger: logger}

	musicCatalog, err := app.buildCatalog(ctx)
	if err != nil {
		return nil, err
	}

	var resultCache generation.ResultCache
	if cfg.Redis.Addr != "" {
		app.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		resultCache = generation.NewCache(app.redis, cfg.Redis.CacheTTL)
	} else {
		logger.Warn().Msg("REDIS_ADDR not set; result cache disabled")
	}

	var suggester generation.ThemeSuggester
	if cfg.Suggester.URL != "" {
		suggester = ai.NewSuggester(ai.Config{
			SuggesterURL: cfg.Suggester.URL,
			SuggesterKey: cfg.Suggester.APIKey,
			Timeout:      cfg.Suggester.HTTPTimeout,
		}, logger)
	}

	poolConfig := generation.PoolConfig{
		SearchLimit: cfg.Generation.SearchLimit,
		ChartLimit:  cfg.Generation.ChartLimit,
		MinPoolSize: cfg.Generation.MinPoolSize,
	}
	builder := generation.NewPoolBuilder(musicCatalog, poolConfig, logger)
	orchestrator := generation.NewOrchestrator(builder, musicCatalog, suggester, poolConfig, logger)
	selector := generation.NewSelector(
		generation.NewScorer(generation.DefaultSimilarityConfig()),
		generation.BandConfig{
			EasyMax: cfg.Generation.EasyMaxScore,
			HardMin: cfg.Generation.HardMinScore,
		},
		nil,
	)
	service := generation.NewService(orchestrator, selector, resultCache, logger)

	app.prefetchQueue = make(chan generation.GenerateRequest, 32)
	app.prefetchWorker = generation.NewPrefetchWorker(service, app.prefetchQueue, logger, cfg.Generation.PrefetchTimeout)

	generateHandler := server.NewGenerateHandler(service, logger, cfg.Generation.RequestTimeout)
	app.http = server.NewHTTPServer(cfg, logger, app.redis, generateHandler)

	return app, nil
}

// buildCatalog selects the configured catalog backend.
func (a *Application) buildCatalog(ctx context.Context) (generation.Catalog, error) {
	cfg := a.cfg.Catalog
	switch cfg.Provider {
	case "applemusic":
		if cfg.AppleMusicToken == "" {
			return nil, fmt.Errorf("APPLE_MUSIC_TOKEN must be configured for the applemusic provider")
		}
		return catalog.NewAppleMusicClient(cfg.AppleMusicBaseURL, cfg.AppleMusicStorefront, cfg.AppleMusicToken, nil), nil

	case "spotify":
		client, err := catalog.NewSpotifyClient(ctx, cfg.SpotifyClientID, cfg.SpotifyClientSecret, cfg.SpotifyChartPlaylist)
		if err != nil {
			return nil, fmt.Errorf("build spotify catalog: %w", err)
		}
		return client, nil

	case "curated":
		pg := a.cfg.Postgres
		connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=10",
			pg.Host, pg.Port, pg.User, pg.Password, pg.Database, pg.SSLMode)
		pool, err := pgxpool.New(ctx, connString)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.pool = pool
		return catalog.NewCuratedCatalog(repository.NewSongRepository(pool)), nil

	default:
		return nil, fmt.Errorf("unknown catalog provider %q", cfg.Provider)
	}
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go a.prefetchWorker.Run()

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.prefetchWorker.Stop()

	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

// EnqueuePrefetch queues a request for background cache warming. Non-blocking;
// a full queue drops the request.
func (a *Application) EnqueuePrefetch(req generation.GenerateRequest) bool {
	select {
	case a.prefetchQueue <- req:
		return true
	default:
		return false
	}
}
