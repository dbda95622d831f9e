package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/WillDent/guess-that-tune-admin-sub001/internal/generation"
)

// SongWriter is the sink for catalog pulls; the curated SongRepository
// implements it.
type SongWriter interface {
	Upsert(ctx context.Context, song generation.Song, popularity int) error
}

// IngestCharts pulls the chart from a remote catalog and upserts every entry
// into the curated store. Popularity is derived from chart rank so the
// curated TopCharts keeps the remote ordering. A failed upsert is logged and
// skipped; only a failed chart pull aborts the run. Returns the number of
// songs written.
func IngestCharts(ctx context.Context, source generation.Catalog, store SongWriter, limit int, logger zerolog.Logger) (int, error) {
	songs, err := source.TopCharts(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("pull charts: %w", err)
	}

	written := 0
	for rank, song := range songs {
		popularity := len(songs) - rank
		if err := store.Upsert(ctx, song, popularity); err != nil {
			logger.Warn().Err(err).Str("song_id", song.ID).Msg("upsert failed")
			continue
		}
		written++
	}
	return written, nil
}
