package generation

import "strings"

// SimilarityConfig holds the additive scoring weights (defaults match the
// production tuning). Weights are isolated here so a re-tune never touches
// control flow.
type SimilarityConfig struct {
	SameArtistPoints     int // guess_artist: exact artist match
	SameTitlePoints      int // guess_song: lowercase-exact title match
	TitleSubstringPoints int
	SharedTokenPoints    int // per shared title token longer than 3 chars
	SharedTokenCap       int
	SameGenrePoints      int
	EraTightPoints       int // release years within 2
	EraNearPoints        int // within 5
	EraLoosePoints       int // within 10
	DurationPoints       int // durations within 30s
}

// DefaultSimilarityConfig returns production defaults.
func DefaultSimilarityConfig() SimilarityConfig {
	return SimilarityConfig{
		SameArtistPoints:     40,
		SameTitlePoints:      50,
		TitleSubstringPoints: 30,
		SharedTokenPoints:    10,
		SharedTokenCap:       20,
		SameGenrePoints:      30,
		EraTightPoints:       20,
		EraNearPoints:        10,
		EraLoosePoints:       5,
		DurationPoints:       10,
	}
}

// Scorer computes a 0-100 similarity between a correct song and a candidate.
// It is pure: no I/O, no mutation, same inputs always score the same.
type Scorer struct {
	config SimilarityConfig
}

// NewScorer creates a scorer with the provided weights.
func NewScorer(config SimilarityConfig) *Scorer {
	return &Scorer{config: config}
}

// Score returns the similarity of candidate to correct for the given mode.
// Signals accumulate un-clamped so that multiple strong matches compound;
// only the final total is clamped into [0,100].
func (s *Scorer) Score(correct, candidate Song, mode string) int {
	score := 0

	switch mode {
	case ModeGuessSong:
		score += s.titleScore(correct.Name, candidate.Name)
	default:
		// guess_artist: a same-artist wrong answer is too easy to rule out,
		// so it is pushed toward the hard band and off easy/medium questions.
		if candidate.ArtistName == correct.ArtistName {
			score += s.config.SameArtistPoints
		}
	}

	if g := correct.PrimaryGenre(); g != "" && g == candidate.PrimaryGenre() {
		score += s.config.SameGenrePoints
	}

	yearDiff := absInt(correct.ReleaseYear() - candidate.ReleaseYear())
	switch {
	case yearDiff <= 2:
		score += s.config.EraTightPoints
	case yearDiff <= 5:
		score += s.config.EraNearPoints
	case yearDiff <= 10:
		score += s.config.EraLoosePoints
	}

	// Compared in milliseconds: a 30,001ms gap is not "within 30 seconds".
	if absInt(correct.DurationMillis-candidate.DurationMillis) <= 30000 {
		score += s.config.DurationPoints
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

func (s *Scorer) titleScore(correct, candidate string) int {
	a := strings.ToLower(correct)
	b := strings.ToLower(candidate)
	if a == b {
		return s.config.SameTitlePoints
	}
	// Catches "Love Song" vs "Love Song (Remix)".
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return s.config.TitleSubstringPoints
	}
	shared := sharedTokens(a, b)
	points := s.config.SharedTokenPoints * shared
	if points > s.config.SharedTokenCap {
		points = s.config.SharedTokenCap
	}
	return points
}

// sharedTokens counts distinct whitespace tokens longer than 3 characters
// present in both titles.
func sharedTokens(a, b string) int {
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(a) {
		if len(tok) > 3 {
			tokens[tok] = struct{}{}
		}
	}
	count := 0
	seen := make(map[string]struct{})
	for _, tok := range strings.Fields(b) {
		if len(tok) <= 3 {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		if _, ok := tokens[tok]; ok {
			count++
		}
	}
	return count
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
