package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// PoolConfig holds candidate pool assembly knobs. MinPoolSize is the
// "probably enough" threshold below which the chart fallback kicks in; it is
// a policy knob, not a magic number.
type PoolConfig struct {
	SearchLimit int // per-term search cap
	ChartLimit  int // fallback chart pull cap
	MinPoolSize int // fallback trigger
}

// DefaultPoolConfig returns production defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		SearchLimit: 50,
		ChartLimit:  100,
		MinPoolSize: 30,
	}
}

// PoolBuilder gathers a deduplicated candidate pool for a batch of correct
// songs from the catalog, widening with a chart pull when genre/decade terms
// come back too narrow.
type PoolBuilder struct {
	catalog Catalog
	config  PoolConfig
	logger  zerolog.Logger
}

// NewPoolBuilder creates a pool builder over the given catalog.
func NewPoolBuilder(catalog Catalog, config PoolConfig, logger zerolog.Logger) *PoolBuilder {
	if config.SearchLimit <= 0 {
		config.SearchLimit = DefaultPoolConfig().SearchLimit
	}
	if config.ChartLimit <= 0 {
		config.ChartLimit = DefaultPoolConfig().ChartLimit
	}
	if config.MinPoolSize <= 0 {
		config.MinPoolSize = DefaultPoolConfig().MinPoolSize
	}
	return &PoolBuilder{
		catalog: catalog,
		config:  config,
		logger:  logger.With().Str("component", "pool_builder").Logger(),
	}
}

// Build assembles the candidate pool shared by all correct songs in the
// batch. Searches run concurrently and settle independently: a failed term
// is logged and skipped, never promoted to a batch failure. The result
// excludes every selected song and never errors for "not enough candidates";
// that call belongs to the selector.
func (b *PoolBuilder) Build(ctx context.Context, selected []Song) []Song {
	terms := make([]string, 0, len(selected))
	for _, song := range selected {
		terms = append(terms, SearchTerm(song))
	}
	return b.BuildFromTerms(ctx, terms, selected)
}

// BuildFromTerms is Build with caller-chosen search terms; the strategy
// orchestrator uses it for timespan and thematic pools.
func (b *PoolBuilder) BuildFromTerms(ctx context.Context, terms []string, selected []Song) []Song {
	results := b.settleSearches(ctx, terms)

	pool := newDedupPool(selected)
	for _, batch := range results {
		pool.addAll(batch)
	}

	if pool.size() < b.config.MinPoolSize {
		b.logger.Debug().
			Int("pool_size", pool.size()).
			Int("min_pool_size", b.config.MinPoolSize).
			Msg("pool undersized, pulling charts")
		charts, err := b.catalog.TopCharts(ctx, b.config.ChartLimit)
		if err != nil {
			b.logger.Warn().Err(err).Msg("chart fallback failed")
		} else {
			pool.addAll(charts)
		}
	}

	return pool.songs()
}

// settleSearches fans the terms out concurrently and returns whatever
// succeeded, in term order.
func (b *PoolBuilder) settleSearches(ctx context.Context, terms []string) [][]Song {
	results := make([][]Song, len(terms))

	g, gctx := errgroup.WithContext(ctx)
	for i, term := range terms {
		i, term := i, term
		g.Go(func() error {
			songs, err := b.catalog.Search(gctx, term, b.config.SearchLimit)
			if err != nil {
				// Skip and continue: one narrow or failing term must not
				// starve the rest of the batch.
				b.logger.Warn().Err(err).Str("term", term).Msg("search term failed")
				return nil
			}
			results[i] = songs
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors
	return results
}

// SearchTerm derives the expansion query for one correct song: primary genre
// stripped of slashes and dashes, plus "<decade>s" for post-1900 releases,
// falling back to the literal "music" when both are empty.
func SearchTerm(song Song) string {
	var parts []string
	if genre := song.PrimaryGenre(); genre != "" {
		cleaned := strings.NewReplacer("/", "", "-", "").Replace(genre)
		if cleaned = strings.TrimSpace(cleaned); cleaned != "" {
			parts = append(parts, cleaned)
		}
	}
	decade := song.ReleaseYear() / 10 * 10
	if decade > 1900 {
		parts = append(parts, fmt.Sprintf("%ds", decade))
	}
	term := strings.Join(parts, " ")
	if term == "" {
		return "music"
	}
	return term
}

// dedupPool merges song batches keyed by id, first seen wins, with the
// selected set permanently excluded so the pool never contains an answer.
type dedupPool struct {
	excluded map[string]struct{}
	seen     map[string]struct{}
	ordered  []Song
}

func newDedupPool(selected []Song) *dedupPool {
	excluded := make(map[string]struct{}, len(selected))
	for _, song := range selected {
		excluded[song.ID] = struct{}{}
	}
	return &dedupPool{
		excluded: excluded,
		seen:     make(map[string]struct{}),
	}
}

func (p *dedupPool) addAll(songs []Song) {
	for _, song := range songs {
		if _, ok := p.excluded[song.ID]; ok {
			continue
		}
		if _, ok := p.seen[song.ID]; ok {
			continue
		}
		p.seen[song.ID] = struct{}{}
		p.ordered = append(p.ordered, song)
	}
}

func (p *dedupPool) size() int     { return len(p.ordered) }
func (p *dedupPool) songs() []Song { return p.ordered }
