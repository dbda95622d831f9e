package generation

import (
	"context"
	"time"
)

// Difficulty constants for readability.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Game mode constants. Mode changes which identity signal the scorer uses.
const (
	ModeGuessArtist = "guess_artist"
	ModeGuessSong   = "guess_song"
)

// Strategy constants for candidate pool assembly.
const (
	StrategyExpansion  = "expansion"
	StrategyCharts     = "charts"
	StrategyThematic   = "thematic"
	StrategyTimeSpan   = "timespan"
	StrategyPopularity = "popularity"
)

// Song is the normalized view of a catalog track used throughout scoring.
// Two songs with the same ID are the same song; first seen wins during
// pool merges.
type Song struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ArtistName     string    `json:"artistName"`
	GenreNames     []string  `json:"genreNames"`
	ReleaseDate    time.Time `json:"releaseDate"`
	DurationMillis int       `json:"durationMillis"`
}

// PrimaryGenre returns the first genre label, or "" when none is set.
func (s Song) PrimaryGenre() string {
	if len(s.GenreNames) == 0 {
		return ""
	}
	return s.GenreNames[0]
}

// ReleaseYear returns the calendar year of the release date.
func (s Song) ReleaseYear() int {
	return s.ReleaseDate.Year()
}

// GeneratedQuestion is the immutable output entity. The engine deals only in
// ids; resolving ids back to display records is the caller's job.
type GeneratedQuestion struct {
	CorrectSongID string   `json:"correctSongId"`
	DetractorIDs  []string `json:"detractorIds"`
	Difficulty    string   `json:"difficulty"`
}

// GenerateRequest carries one batch of correct songs plus selection options.
type GenerateRequest struct {
	Selected           []Song `json:"selected"`
	Difficulty         string `json:"difficulty"`
	NumberOfDetractors int    `json:"numberOfDetractors"`
	Mode               string `json:"mode"`
	Strategy           string `json:"strategy"`

	// Theme seeds the thematic strategy; ignored by the others.
	Theme string `json:"theme,omitempty"`
	// YearFrom/YearTo bound the timespan strategy; ignored by the others.
	YearFrom int `json:"yearFrom,omitempty"`
	YearTo   int `json:"yearTo,omitempty"`
}

// GenerateResponse holds the assembled question set plus generation metadata.
type GenerateResponse struct {
	Questions []GeneratedQuestion `json:"questions"`
	PoolSize  int                 `json:"poolSize"`
	Strategy  string              `json:"strategy"`
}

// Catalog is the search capability the pool builder consumes. Implementations
// live in internal/catalog; both calls may fail and a single failure must be
// treated as non-fatal for the batch.
type Catalog interface {
	Search(ctx context.Context, term string, limit int) ([]Song, error)
	TopCharts(ctx context.Context, limit int) ([]Song, error)
}
