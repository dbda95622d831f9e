package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/rs/zerolog"
)

// SongSuggestion is a name/artist pair returned by the external theme
// suggestion service; it still has to be resolved against the catalog.
type SongSuggestion struct {
	Name   string
	Artist string
}

// ThemeSuggester is the consumer-side interface for the external suggestion
// service (implemented by internal/generation/ai).
type ThemeSuggester interface {
	SuggestSongs(ctx context.Context, theme string, count int) ([]SongSuggestion, error)
}

// suggestionMatchThreshold is the minimum Jaro-Winkler similarity for a
// catalog result to count as the suggested song.
const suggestionMatchThreshold = 0.85

// Orchestrator chooses how the candidate pool is gathered before detractor
// selection: direct genre/decade expansion, chart pull, AI-seeded thematic
// pool, decade span, or popularity tier.
type Orchestrator struct {
	builder   *PoolBuilder
	catalog   Catalog
	suggester ThemeSuggester
	config    PoolConfig
	logger    zerolog.Logger
}

// NewOrchestrator creates a strategy orchestrator. suggester may be nil; the
// thematic strategy then degrades to plain expansion.
func NewOrchestrator(builder *PoolBuilder, catalog Catalog, suggester ThemeSuggester, config PoolConfig, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		builder:   builder,
		catalog:   catalog,
		suggester: suggester,
		config:    config,
		logger:    logger.With().Str("component", "strategy_orchestrator").Logger(),
	}
}

// BuildPool assembles the candidate pool for the request and reports which
// strategy actually ran (thematic and timespan can degrade to expansion).
func (o *Orchestrator) BuildPool(ctx context.Context, req GenerateRequest) ([]Song, string) {
	switch req.Strategy {
	case StrategyCharts:
		return o.chartPool(ctx, req.Selected), StrategyCharts
	case StrategyThematic:
		if o.suggester != nil && req.Theme != "" {
			if pool := o.thematicPool(ctx, req); pool != nil {
				return pool, StrategyThematic
			}
		}
		return o.builder.Build(ctx, req.Selected), StrategyExpansion
	case StrategyTimeSpan:
		if terms := timeSpanTerms(req); len(terms) > 0 {
			return o.builder.BuildFromTerms(ctx, terms, req.Selected), StrategyTimeSpan
		}
		return o.builder.Build(ctx, req.Selected), StrategyExpansion
	case StrategyPopularity:
		return o.popularityPool(ctx, req), StrategyPopularity
	default:
		return o.builder.Build(ctx, req.Selected), StrategyExpansion
	}
}

// chartPool pulls the charts alone, deduplicated and purged of the answers.
func (o *Orchestrator) chartPool(ctx context.Context, selected []Song) []Song {
	pool := newDedupPool(selected)
	charts, err := o.catalog.TopCharts(ctx, o.config.ChartLimit)
	if err != nil {
		o.logger.Warn().Err(err).Msg("chart pull failed")
		return pool.songs()
	}
	pool.addAll(charts)
	return pool.songs()
}

// thematicPool resolves AI-suggested songs against the catalog, then tops
// the pool up with expansion when the theme came back thin. Returns nil when
// the suggestion service failed entirely.
func (o *Orchestrator) thematicPool(ctx context.Context, req GenerateRequest) []Song {
	suggestions, err := o.suggester.SuggestSongs(ctx, req.Theme, o.config.ChartLimit)
	if err != nil {
		o.logger.Warn().Err(err).Str("theme", req.Theme).Msg("theme suggestion failed")
		return nil
	}

	pool := newDedupPool(req.Selected)
	for _, suggestion := range suggestions {
		song, ok := o.resolveSuggestion(ctx, suggestion)
		if !ok {
			continue
		}
		pool.addAll([]Song{song})
	}

	if pool.size() < o.config.MinPoolSize {
		pool.addAll(o.builder.Build(ctx, req.Selected))
	}
	return pool.songs()
}

// resolveSuggestion searches the catalog for a suggested song and accepts
// the best result whose artist+title clears the Jaro-Winkler threshold.
func (o *Orchestrator) resolveSuggestion(ctx context.Context, suggestion SongSuggestion) (Song, bool) {
	query := strings.ToLower(strings.TrimSpace(suggestion.Artist + " " + suggestion.Name))
	results, err := o.catalog.Search(ctx, query, 5)
	if err != nil {
		o.logger.Warn().Err(err).Str("query", query).Msg("suggestion lookup failed")
		return Song{}, false
	}

	jw := metrics.NewJaroWinkler()
	var best Song
	var bestScore float64
	for _, candidate := range results {
		candStr := strings.ToLower(candidate.ArtistName + " " + candidate.Name)
		score := strutil.Similarity(query, candStr, jw)
		if score > bestScore && score >= suggestionMatchThreshold {
			bestScore = score
			best = candidate
		}
	}
	return best, bestScore > 0
}

// popularityPool pulls the charts and keeps the rank tier matching the
// requested difficulty: the top of the charts for easy questions (famous
// songs are easy to tell apart), the tail for hard ones.
func (o *Orchestrator) popularityPool(ctx context.Context, req GenerateRequest) []Song {
	pool := newDedupPool(req.Selected)
	charts, err := o.catalog.TopCharts(ctx, o.config.ChartLimit)
	if err != nil {
		o.logger.Warn().Err(err).Msg("chart pull failed")
		return pool.songs()
	}

	tier := charts
	if len(charts) >= 3 {
		third := len(charts) / 3
		switch req.Difficulty {
		case DifficultyEasy:
			tier = charts[:third]
		case DifficultyMedium:
			tier = charts[third : 2*third]
		case DifficultyHard:
			tier = charts[2*third:]
		}
	}
	pool.addAll(tier)

	// A single tier can undershoot the floor; widen to the full chart rather
	// than return a starved pool.
	if pool.size() < o.config.MinPoolSize {
		pool.addAll(charts)
	}
	return pool.songs()
}

// timeSpanTerms derives decade search terms covering [YearFrom, YearTo],
// crossed with the primary genres of the selected songs.
func timeSpanTerms(req GenerateRequest) []string {
	if req.YearFrom <= 0 || req.YearTo < req.YearFrom {
		return nil
	}

	genres := make([]string, 0, len(req.Selected))
	seen := make(map[string]struct{})
	for _, song := range req.Selected {
		genre := song.PrimaryGenre()
		if genre == "" {
			continue
		}
		if _, ok := seen[genre]; ok {
			continue
		}
		seen[genre] = struct{}{}
		genres = append(genres, genre)
	}

	var terms []string
	for decade := req.YearFrom / 10 * 10; decade <= req.YearTo; decade += 10 {
		if decade <= 1900 {
			continue
		}
		if len(genres) == 0 {
			terms = append(terms, fmt.Sprintf("%ds", decade))
			continue
		}
		for _, genre := range genres {
			terms = append(terms, fmt.Sprintf("%s %ds", genre, decade))
		}
	}
	return terms
}
