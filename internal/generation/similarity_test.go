package generation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func song(id, artist, genre string, year int, durationMillis int) Song {
	var genres []string
	if genre != "" {
		genres = []string{genre}
	}
	return Song{
		ID:             id,
		Name:           "Track " + id,
		ArtistName:     artist,
		GenreNames:     genres,
		ReleaseDate:    time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		DurationMillis: durationMillis,
	}
}

func TestScoreWorkedExample(t *testing.T) {
	scorer := NewScorer(DefaultSimilarityConfig())

	correct := song("A", "X", "Pop", 2020, 200000)
	b := Song{
		ID:             "B",
		Name:           "Track B",
		ArtistName:     "X",
		GenreNames:     []string{"Pop"},
		ReleaseDate:    time.Date(2020, time.June, 1, 0, 0, 0, 0, time.UTC),
		DurationMillis: 205000,
	}
	c := song("C", "Y", "Jazz", 1990, 400000)

	// artist 40 + genre 30 + era 20 + duration 10, clamped at 100
	assert.Equal(t, 100, scorer.Score(correct, b, ModeGuessArtist))
	assert.Equal(t, 0, scorer.Score(correct, c, ModeGuessArtist))
}

func TestScoreBounds(t *testing.T) {
	scorer := NewScorer(DefaultSimilarityConfig())
	correct := song("A", "X", "Pop", 2020, 200000)

	candidates := []Song{
		correct,
		song("B", "X", "Pop", 2020, 200000),
		song("C", "", "", 1950, 0),
		{ID: "D"},
	}
	for _, candidate := range candidates {
		for _, mode := range []string{ModeGuessArtist, ModeGuessSong} {
			score := scorer.Score(correct, candidate, mode)
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		}
	}

	identical := song("A2", "X", "Pop", 2020, 200000)
	assert.Equal(t, 100, scorer.Score(correct, identical, ModeGuessArtist))
}

func TestScoreEraBandsAreExclusiveAndMonotonic(t *testing.T) {
	scorer := NewScorer(DefaultSimilarityConfig())
	correct := song("A", "X", "", 2000, 0)

	oneOff := song("B", "Y", "", 2001, 0)
	fourOff := song("C", "Y", "", 2004, 0)
	nineOff := song("D", "Y", "", 2009, 0)
	fifteenOff := song("E", "Y", "", 2015, 0)

	// duration 0 vs 0 adds 10 to every candidate; era is the only variable.
	assert.Equal(t, 30, scorer.Score(correct, oneOff, ModeGuessArtist))
	assert.Equal(t, 20, scorer.Score(correct, fourOff, ModeGuessArtist))
	assert.Equal(t, 15, scorer.Score(correct, nineOff, ModeGuessArtist))
	assert.Equal(t, 10, scorer.Score(correct, fifteenOff, ModeGuessArtist))

	assert.GreaterOrEqual(t,
		scorer.Score(correct, oneOff, ModeGuessArtist),
		scorer.Score(correct, fifteenOff, ModeGuessArtist))
}

func TestScoreGuessSongTitles(t *testing.T) {
	scorer := NewScorer(DefaultSimilarityConfig())

	base := Song{ID: "A", Name: "Love Song", ArtistName: "X", ReleaseDate: time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC)}
	farAway := func(name string) Song {
		// 40 years off and 10 minutes longer so only the title contributes.
		return Song{
			ID:             "B",
			Name:           name,
			ArtistName:     "Y",
			ReleaseDate:    time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
			DurationMillis: 600000,
		}
	}
	base.DurationMillis = 0

	assert.Equal(t, 50, scorer.Score(base, farAway("love song"), ModeGuessSong))
	assert.Equal(t, 30, scorer.Score(base, farAway("Love Song (Remix)"), ModeGuessSong))
	// "love" is the only shared token longer than 3 chars
	assert.Equal(t, 10, scorer.Score(base, farAway("Crazy Love Tonight"), ModeGuessSong))
	assert.Equal(t, 0, scorer.Score(base, farAway("Something Else"), ModeGuessSong))
}

func TestScoreGuessSongSharedTokenCap(t *testing.T) {
	scorer := NewScorer(DefaultSimilarityConfig())

	a := Song{Name: "midnight summer dancing forever", ReleaseDate: time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := Song{
		Name:           "forever dancing summer midnight tonight",
		ReleaseDate:    time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		DurationMillis: 600000,
	}

	// four shared tokens, capped at 20
	assert.Equal(t, 20, scorer.Score(a, b, ModeGuessSong))
}

func TestScoreDurationBoundaryIsMillisecondExact(t *testing.T) {
	scorer := NewScorer(DefaultSimilarityConfig())

	// 40 years apart and no genres, so duration is the only signal.
	correct := song("A", "X", "", 1950, 0)
	at := func(durationMillis int) Song {
		return song("B", "Y", "", 1990, durationMillis)
	}

	assert.Equal(t, 10, scorer.Score(correct, at(30000), ModeGuessArtist))
	assert.Equal(t, 0, scorer.Score(correct, at(30001), ModeGuessArtist))
	assert.Equal(t, 0, scorer.Score(correct, at(31000), ModeGuessArtist))
}

func TestScoreGuessArtistIsCaseSensitive(t *testing.T) {
	scorer := NewScorer(DefaultSimilarityConfig())

	correct := song("A", "The Beatles", "", 1950, 0)
	lowered := song("B", "the beatles", "", 1990, 600000)

	assert.Equal(t, 0, scorer.Score(correct, lowered, ModeGuessArtist))
}

func TestScoreIsDeterministic(t *testing.T) {
	scorer := NewScorer(DefaultSimilarityConfig())
	a := song("A", "X", "Pop", 2018, 180000)
	b := song("B", "Y", "Pop", 2014, 210000)

	first := scorer.Score(a, b, ModeGuessArtist)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, scorer.Score(a, b, ModeGuessArtist))
	}
}
