package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/WillDent/guess-that-tune-admin-sub001/internal/config"
	"github.com/WillDent/guess-that-tune-admin-sub001/internal/logging"
)

// NewHTTPServer wires base routes (health, metrics) plus the generation API.
// redisClient may be nil when the result cache is disabled.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, redisClient *redis.Client, generateHandler *GenerateHandler) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.IntoContext(r.Context(), logger)
		if err := pingDependencies(ctx, redisClient); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	if generateHandler != nil {
		mux.HandleFunc("/v1/questions/generate", generateHandler.Generate)
	}

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}
}

func pingDependencies(ctx context.Context, redisClient *redis.Client) error {
	if redisClient == nil {
		return nil
	}
	return redisClient.Ping(ctx).Err()
}
