package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrInvalidArgument marks caller-responsibility errors rejected at the
// boundary before any scoring work begins.
var ErrInvalidArgument = errors.New("invalid argument")

// ResultCache defines cache behavior for assembled question sets
// (implemented by the Redis-backed Cache).
type ResultCache interface {
	Get(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	Set(ctx context.Context, req GenerateRequest, resp GenerateResponse) error
}

// Service assembles question sets: it validates the request, hands pool
// gathering to the strategy orchestrator, and runs the detractor selector
// once per correct song, in input order.
type Service struct {
	orchestrator *Orchestrator
	selector     *Selector
	cache        ResultCache
	logger       zerolog.Logger
}

// NewService creates the generation service. cache may be nil.
func NewService(orchestrator *Orchestrator, selector *Selector, cache ResultCache, logger zerolog.Logger) *Service {
	return &Service{
		orchestrator: orchestrator,
		selector:     selector,
		cache:        cache,
		logger:       logger.With().Str("component", "generation_service").Logger(),
	}
}

// Generate produces one question per selected song. A question carrying
// fewer than the requested detractors means the catalog pool was exhausted;
// that is a degraded result, not an error; higher policy layers decide
// whether to accept or retry wider.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	req = withDefaults(req)
	if err := validate(req); err != nil {
		return GenerateResponse{}, err
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, req); err == nil && cached != nil {
			return *cached, nil
		}
	}

	pool, strategy := s.orchestrator.BuildPool(ctx, req)
	observePoolSize(len(pool))

	questions := make([]GeneratedQuestion, 0, len(req.Selected))
	for _, correct := range req.Selected {
		detractors := s.selector.SelectWithMode(correct, pool, req.Difficulty, req.NumberOfDetractors, req.Mode)
		ids := make([]string, 0, len(detractors))
		for _, d := range detractors {
			ids = append(ids, d.ID)
		}
		if len(ids) < req.NumberOfDetractors {
			questionsDegraded.Inc()
			s.logger.Warn().
				Str("song_id", correct.ID).
				Int("want", req.NumberOfDetractors).
				Int("got", len(ids)).
				Msg("detractor pool exhausted")
		}
		questions = append(questions, GeneratedQuestion{
			CorrectSongID: correct.ID,
			DetractorIDs:  ids,
			Difficulty:    req.Difficulty,
		})
	}
	questionsGenerated.Add(float64(len(questions)))

	resp := GenerateResponse{
		Questions: questions,
		PoolSize:  len(pool),
		Strategy:  strategy,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, req, resp); err != nil {
			s.logger.Warn().Err(err).Msg("result cache set failed")
		}
	}
	return resp, nil
}

func withDefaults(req GenerateRequest) GenerateRequest {
	if req.Mode == "" {
		req.Mode = ModeGuessArtist
	}
	if req.Strategy == "" {
		req.Strategy = StrategyExpansion
	}
	return req
}

func validate(req GenerateRequest) error {
	if len(req.Selected) == 0 {
		return fmt.Errorf("%w: selected songs must not be empty", ErrInvalidArgument)
	}
	if req.NumberOfDetractors <= 0 {
		return fmt.Errorf("%w: numberOfDetractors must be positive, got %d", ErrInvalidArgument, req.NumberOfDetractors)
	}
	switch req.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return fmt.Errorf("%w: unsupported difficulty %q", ErrInvalidArgument, req.Difficulty)
	}
	switch req.Mode {
	case ModeGuessArtist, ModeGuessSong:
	default:
		return fmt.Errorf("%w: unsupported mode %q", ErrInvalidArgument, req.Mode)
	}
	switch req.Strategy {
	case StrategyExpansion, StrategyCharts, StrategyThematic, StrategyTimeSpan, StrategyPopularity:
	default:
		return fmt.Errorf("%w: unsupported strategy %q", ErrInvalidArgument, req.Strategy)
	}
	return nil
}
