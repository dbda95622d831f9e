package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/WillDent/guess-that-tune-admin-sub001/internal/generation"
)

// Config holds connection details for the external theme suggestion service.
type Config struct {
	SuggesterURL string
	SuggesterKey string
	Timeout      time.Duration
}

// Suggester implements generation.ThemeSuggester against the external
// suggestion service. Theme interpretation itself stays on the far side of
// this client.
type Suggester struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
	suggestURL string
}

func NewSuggester(cfg Config, logger zerolog.Logger) *Suggester {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 6 * time.Second
	}
	base := strings.TrimSuffix(cfg.SuggesterURL, "/")

	return &Suggester{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config:     cfg,
		logger:     logger.With().Str("component", "theme_suggester").Logger(),
		suggestURL: base + "/suggest",
	}
}

// SuggestSongs asks the suggestion service for up to count name/artist pairs
// matching the theme.
func (s *Suggester) SuggestSongs(ctx context.Context, theme string, count int) ([]generation.SongSuggestion, error) {
	if s.config.SuggesterURL == "" {
		return nil, fmt.Errorf("suggester endpoint not configured")
	}

	body, err := json.Marshal(suggestRequest{Theme: theme, Count: count})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.suggestURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.config.SuggesterKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.config.SuggesterKey)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("suggester returned status %d", resp.StatusCode)
	}

	var payload suggestResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode suggester payload: %w", err)
	}

	suggestions := make([]generation.SongSuggestion, 0, len(payload.Songs))
	for _, song := range payload.Songs {
		if song.Name == "" {
			continue
		}
		suggestions = append(suggestions, generation.SongSuggestion{
			Name:   song.Name,
			Artist: song.Artist,
		})
	}
	if len(suggestions) == 0 {
		return nil, fmt.Errorf("suggester returned empty song list")
	}
	return suggestions, nil
}

type suggestRequest struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

type suggestResponse struct {
	Songs []struct {
		Name   string `json:"name"`
		Artist string `json:"artist"`
	} `json:"songs"`
}
