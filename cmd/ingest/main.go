package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/WillDent/guess-that-tune-admin-sub001/internal/catalog"
	"github.com/WillDent/guess-that-tune-admin-sub001/internal/config"
	"github.com/WillDent/guess-that-tune-admin-sub001/internal/db/repository"
	"github.com/WillDent/guess-that-tune-admin-sub001/internal/generation"
)

// Pulls the configured remote catalog's charts into the curated song store.
// Run it periodically (cron is fine) on deployments that serve the "curated"
// provider.
func main() {
	limit := flag.Int("limit", 100, "Number of chart entries to ingest")
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load("configs/.env"); err != nil {
			log.Warn().Err(err).Msg("could not load .env file")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	source, err := buildSource(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build catalog source")
	}

	pg := cfg.Postgres
	connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		pg.Host, pg.Port, pg.User, pg.Password, pg.Database, pg.SSLMode)
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	written, err := catalog.IngestCharts(ctx, source, repository.NewSongRepository(pool), *limit, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("ingestion failed")
	}
	log.Info().Int("written", written).Msg("chart ingestion complete")
}

// buildSource picks the remote catalog to pull from. The curated provider is
// the destination, never a source.
func buildSource(ctx context.Context, cfg *config.App) (generation.Catalog, error) {
	switch cfg.Catalog.Provider {
	case "applemusic":
		if cfg.Catalog.AppleMusicToken == "" {
			return nil, fmt.Errorf("APPLE_MUSIC_TOKEN must be configured for the applemusic provider")
		}
		return catalog.NewAppleMusicClient(cfg.Catalog.AppleMusicBaseURL, cfg.Catalog.AppleMusicStorefront, cfg.Catalog.AppleMusicToken, nil), nil
	case "spotify":
		return catalog.NewSpotifyClient(ctx, cfg.Catalog.SpotifyClientID, cfg.Catalog.SpotifyClientSecret, cfg.Catalog.SpotifyChartPlaylist)
	default:
		return nil, fmt.Errorf("catalog provider %q cannot serve as an ingestion source", cfg.Catalog.Provider)
	}
}
