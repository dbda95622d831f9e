package generation

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestPrefetchWorkerWarmsCache(t *testing.T) {
	cache := newMemoryCache()
	service := newTestService(generousCatalog(), cache)

	queue := make(chan GenerateRequest, 1)
	queue <- GenerateRequest{
		Selected:           []Song{song("s1", "X", "Pop", 1985, 200000)},
		Difficulty:         DifficultyMedium,
		NumberOfDetractors: 3,
	}

	worker := NewPrefetchWorker(service, queue, zerolog.Nop(), time.Second)
	go worker.Run()
	defer worker.Stop()

	assert.Eventually(t, func() bool {
		return cache.size() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestCacheKeyIgnoresSelectedOrder(t *testing.T) {
	c := NewCache(nil, 0)

	a := GenerateRequest{
		Selected:           []Song{{ID: "1"}, {ID: "2"}},
		Difficulty:         DifficultyEasy,
		Mode:               ModeGuessArtist,
		NumberOfDetractors: 3,
	}
	b := a
	b.Selected = []Song{{ID: "2"}, {ID: "1"}}

	assert.Equal(t, c.key(a), c.key(b))
}

func TestCacheKeyVariesWithOptions(t *testing.T) {
	c := NewCache(nil, 0)

	base := GenerateRequest{
		Selected:           []Song{{ID: "1"}},
		Difficulty:         DifficultyEasy,
		Mode:               ModeGuessArtist,
		NumberOfDetractors: 3,
	}
	harder := base
	harder.Difficulty = DifficultyHard

	assert.NotEqual(t, c.key(base), c.key(harder))
}
