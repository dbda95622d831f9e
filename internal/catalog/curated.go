package catalog

import (
	"context"

	"github.com/WillDent/guess-that-tune-admin-sub001/internal/db/repository"
	"github.com/WillDent/guess-that-tune-admin-sub001/internal/generation"
)

// CuratedCatalog serves the pool builder from the local song table instead
// of a remote catalog; deployments without API credentials run on it.
type CuratedCatalog struct {
	repo *repository.SongRepository
}

var _ generation.Catalog = (*CuratedCatalog)(nil)

func NewCuratedCatalog(repo *repository.SongRepository) *CuratedCatalog {
	return &CuratedCatalog{repo: repo}
}

func (c *CuratedCatalog) Search(ctx context.Context, term string, limit int) ([]generation.Song, error) {
	return c.repo.Search(ctx, term, limit)
}

func (c *CuratedCatalog) TopCharts(ctx context.Context, limit int) ([]generation.Song, error) {
	return c.repo.TopByPopularity(ctx, limit)
}
