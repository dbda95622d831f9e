package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"guess-that-tune"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres   Postgres
	Redis      Redis
	Catalog    Catalog
	Generation Generation
	Suggester  Suggester
}

// Postgres captures connection info for the curated song store. Only
// required when CATALOG_PROVIDER=curated.
type Postgres struct {
	Host     string `env:"PG_HOST"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER"`
	Password string `env:"PG_PASSWORD"`
	Database string `env:"PG_DATABASE"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
}

// Redis holds result cache configuration. Leave Addr empty to run without
// the cache.
type Redis struct {
	Addr     string        `env:"REDIS_ADDR"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	PoolSize int           `env:"REDIS_POOL_SIZE" envDefault:"20"`
	CacheTTL time.Duration `env:"RESULT_CACHE_TTL" envDefault:"5m"`
}

// Catalog selects and configures the music catalog backend.
type Catalog struct {
	Provider string `env:"CATALOG_PROVIDER" envDefault:"applemusic"`

	AppleMusicBaseURL    string `env:"APPLE_MUSIC_BASE_URL"`
	AppleMusicStorefront string `env:"APPLE_MUSIC_STOREFRONT" envDefault:"us"`
	AppleMusicToken      string `env:"APPLE_MUSIC_TOKEN"`

	SpotifyClientID      string `env:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret  string `env:"SPOTIFY_CLIENT_SECRET"`
	SpotifyChartPlaylist string `env:"SPOTIFY_CHART_PLAYLIST"`
}

// Generation groups the selection policy knobs. Banding thresholds and the
// pool floor are policy, not derived values; they are tuned per deployment.
type Generation struct {
	SearchLimit     int           `env:"POOL_SEARCH_LIMIT" envDefault:"50"`
	ChartLimit      int           `env:"POOL_CHART_LIMIT" envDefault:"100"`
	MinPoolSize     int           `env:"POOL_MIN_SIZE" envDefault:"30"`
	EasyMaxScore    int           `env:"BAND_EASY_MAX" envDefault:"30"`
	HardMinScore    int           `env:"BAND_HARD_MIN" envDefault:"70"`
	RequestTimeout  time.Duration `env:"GENERATE_TIMEOUT" envDefault:"15s"`
	PrefetchTimeout time.Duration `env:"PREFETCH_TIMEOUT" envDefault:"10s"`
}

// Suggester configures the external theme suggestion service.
type Suggester struct {
	URL         string        `env:"SUGGESTER_URL"`
	APIKey      string        `env:"SUGGESTER_API_KEY"`
	HTTPTimeout time.Duration `env:"SUGGESTER_HTTP_TIMEOUT" envDefault:"6s"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
