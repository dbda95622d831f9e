package generation

import (
	"math/rand"
	"sort"
)

// BandConfig holds the difficulty banding thresholds. These are policy
// constants, not derived values; deployments tune them via config.
type BandConfig struct {
	EasyMax int // similarity below this is "easy"
	HardMin int // similarity at or above this is "hard"
}

// DefaultBandConfig returns production defaults (easy <30, hard >=70).
func DefaultBandConfig() BandConfig {
	return BandConfig{EasyMax: 30, HardMin: 70}
}

// scoredCandidate pairs a song with its similarity to one fixed correct
// song. Ephemeral: recomputed per correct song.
type scoredCandidate struct {
	song       Song
	similarity int
}

// Selector bands a candidate pool by similarity and picks detractors for a
// requested difficulty, backfilling from adjacent scores when the target
// band is undersized.
type Selector struct {
	scorer *Scorer
	bands  BandConfig
	rng    *rand.Rand
}

// NewSelector builds a selector. rng is only used for the final shuffle and
// may be nil, in which case the shared locked source is used (safe across
// concurrent requests); tests pass a seeded source for reproducibility.
func NewSelector(scorer *Scorer, bands BandConfig, rng *rand.Rand) *Selector {
	return &Selector{scorer: scorer, bands: bands, rng: rng}
}

// Select returns up to count distinct detractors for correct, drawn from
// pool at the requested difficulty. Fewer than count is returned only when
// the pool itself is exhausted; callers treat that as degraded, not fatal.
func (s *Selector) Select(correct Song, pool []Song, difficulty string, count int) []Song {
	return s.SelectWithMode(correct, pool, difficulty, count, ModeGuessArtist)
}

// SelectWithMode is Select with an explicit game mode.
func (s *Selector) SelectWithMode(correct Song, pool []Song, difficulty string, count int, mode string) []Song {
	scored := make([]scoredCandidate, 0, len(pool))
	for _, candidate := range pool {
		// The pool excludes correct by construction, but guard against
		// standalone callers handing us the answer.
		if candidate.ID == correct.ID {
			continue
		}
		scored = append(scored, scoredCandidate{
			song:       candidate,
			similarity: s.scorer.Score(correct, candidate, mode),
		})
	}
	return s.pick(scored, difficulty, count)
}

func (s *Selector) pick(scored []scoredCandidate, difficulty string, count int) []Song {
	// Stable sort keeps original pool order among equal scores, so selection
	// is deterministic up to the final shuffle.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].similarity > scored[j].similarity
	})

	selected := make([]Song, 0, count)
	taken := make(map[string]struct{}, count)

	for _, c := range scored {
		if len(selected) >= count {
			break
		}
		if !s.inBand(c.similarity, difficulty) {
			continue
		}
		// The pool is usually deduplicated upstream, but standalone callers
		// may hand in repeats; an id is only ever selected once.
		if _, ok := taken[c.song.ID]; ok {
			continue
		}
		selected = append(selected, c.song)
		taken[c.song.ID] = struct{}{}
	}

	// Backfill from the full sorted pool regardless of band: a quiz with
	// slightly off-difficulty wrong answers beats a quiz that fails to
	// generate.
	if len(selected) < count {
		for _, c := range scored {
			if len(selected) >= count {
				break
			}
			if _, ok := taken[c.song.ID]; ok {
				continue
			}
			selected = append(selected, c.song)
			taken[c.song.ID] = struct{}{}
		}
	}

	// Internal order carries no meaning but must not leak band information
	// across repeated runs.
	swap := func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	}
	if s.rng != nil {
		s.rng.Shuffle(len(selected), swap)
	} else {
		rand.Shuffle(len(selected), swap)
	}
	return selected
}

// inBand reports whether a similarity score falls in the requested band.
// The hard band has no upper bound and easy no lower bound: a 100-scoring
// candidate is still eligible as a hard detractor.
func (s *Selector) inBand(similarity int, difficulty string) bool {
	switch difficulty {
	case DifficultyEasy:
		return similarity < s.bands.EasyMax
	case DifficultyMedium:
		return similarity >= s.bands.EasyMax && similarity < s.bands.HardMin
	case DifficultyHard:
		return similarity >= s.bands.HardMin
	default:
		return false
	}
}
