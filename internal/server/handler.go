package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/WillDent/guess-that-tune-admin-sub001/internal/generation"
	"github.com/WillDent/guess-that-tune-admin-sub001/internal/logging"
	httperrors "github.com/WillDent/guess-that-tune-admin-sub001/pkg/http/errors"
)

// generator is the service surface the handler consumes.
type generator interface {
	Generate(ctx context.Context, req generation.GenerateRequest) (generation.GenerateResponse, error)
}

// GenerateHandler exposes the question generation engine over HTTP. The
// engine itself stays transport-free; this layer only translates JSON and
// error envelopes.
type GenerateHandler struct {
	service generator
	logger  zerolog.Logger
	timeout time.Duration
}

func NewGenerateHandler(service generator, logger zerolog.Logger, timeout time.Duration) *GenerateHandler {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &GenerateHandler{
		service: service,
		logger:  logger.With().Str("component", "generate_handler").Logger(),
		timeout: timeout,
	}
}

// songPayload mirrors generation.Song on the wire; release dates arrive as
// either plain dates ("2020-01-01") or RFC 3339 timestamps.
type songPayload struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	ArtistName     string   `json:"artistName"`
	GenreNames     []string `json:"genreNames"`
	ReleaseDate    string   `json:"releaseDate"`
	DurationMillis int      `json:"durationMillis"`
}

type generatePayload struct {
	Selected           []songPayload `json:"selected"`
	Difficulty         string        `json:"difficulty"`
	NumberOfDetractors int           `json:"numberOfDetractors"`
	Mode               string        `json:"mode"`
	Strategy           string        `json:"strategy"`
	Theme              string        `json:"theme"`
	YearFrom           int           `json:"yearFrom"`
	YearTo             int           `json:"yearTo"`
}

// Generate handles POST /v1/questions/generate.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondError(w, http.StatusMethodNotAllowed, httperrors.ErrCodeInvalidRequest, "POST required")
		return
	}

	var payload generatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "malformed JSON body")
		return
	}

	req := generation.GenerateRequest{
		Difficulty:         payload.Difficulty,
		NumberOfDetractors: payload.NumberOfDetractors,
		Mode:               payload.Mode,
		Strategy:           payload.Strategy,
		Theme:              payload.Theme,
		YearFrom:           payload.YearFrom,
		YearTo:             payload.YearTo,
	}
	for _, song := range payload.Selected {
		req.Selected = append(req.Selected, song.toDomain())
	}

	requestID := uuid.NewString()
	logger := h.logger.With().Str("request_id", requestID).Logger()
	w.Header().Set("X-Request-Id", requestID)

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	ctx = logging.IntoContext(ctx, logger)

	resp, err := h.service.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, generation.ErrInvalidArgument) {
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, err.Error(), "")
			return
		}
		logger.Error().Err(err).Msg("generation failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeGenerationFailed, "question generation failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error().Err(err).Msg("response encode failed")
	}
}

func (p songPayload) toDomain() generation.Song {
	released, err := time.Parse(time.RFC3339, p.ReleaseDate)
	if err != nil {
		released, _ = time.Parse("2006-01-02", p.ReleaseDate)
	}
	return generation.Song{
		ID:             p.ID,
		Name:           p.Name,
		ArtistName:     p.ArtistName,
		GenreNames:     p.GenreNames,
		ReleaseDate:    released,
		DurationMillis: p.DurationMillis,
	}
}
