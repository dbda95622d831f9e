package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/WillDent/guess-that-tune-admin-sub001/internal/generation"
)

// songStore is the subset of pgxpool.Pool the repository needs; tests swap
// in a stub.
type songStore interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SongRepository reads the curated song table kept alongside the service
// (the admin side ingests catalog pulls into it).
type SongRepository struct {
	store songStore
}

func NewSongRepository(store songStore) *SongRepository {
	return &SongRepository{store: store}
}

// Search matches a free-text term against name, artist and genres. Good
// enough for genre/decade expansion terms; ranking stays with the caller.
func (r *SongRepository) Search(ctx context.Context, term string, limit int) ([]generation.Song, error) {
	const q = `
		SELECT song_id, name, artist_name, genre_names, release_date, duration_millis
		FROM songs
		WHERE name ILIKE '%' || $1 || '%'
		   OR artist_name ILIKE '%' || $1 || '%'
		   OR EXISTS (SELECT 1 FROM unnest(genre_names) g WHERE g ILIKE '%' || $1 || '%')
		ORDER BY popularity DESC
		LIMIT $2`

	rows, err := r.store.Query(ctx, q, term, limit)
	if err != nil {
		return nil, fmt.Errorf("search songs: %w", err)
	}
	defer rows.Close()
	return scanSongs(rows)
}

// TopByPopularity returns the curated chart: highest popularity first.
func (r *SongRepository) TopByPopularity(ctx context.Context, limit int) ([]generation.Song, error) {
	const q = `
		SELECT song_id, name, artist_name, genre_names, release_date, duration_millis
		FROM songs
		ORDER BY popularity DESC
		LIMIT $1`

	rows, err := r.store.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("top songs: %w", err)
	}
	defer rows.Close()
	return scanSongs(rows)
}

// Upsert stores a catalog pull; popularity refreshes on conflict, the rest
// of the record keeps its first-seen values.
func (r *SongRepository) Upsert(ctx context.Context, song generation.Song, popularity int) error {
	const q = `
		INSERT INTO songs (song_id, name, artist_name, genre_names, release_date, duration_millis, popularity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (song_id) DO UPDATE SET popularity = EXCLUDED.popularity`

	_, err := r.store.Exec(ctx, q,
		song.ID, song.Name, song.ArtistName, song.GenreNames, song.ReleaseDate, song.DurationMillis, popularity)
	if err != nil {
		return fmt.Errorf("upsert song: %w", err)
	}
	return nil
}

func scanSongs(rows pgx.Rows) ([]generation.Song, error) {
	var songs []generation.Song
	for rows.Next() {
		var s generation.Song
		if err := rows.Scan(&s.ID, &s.Name, &s.ArtistName, &s.GenreNames, &s.ReleaseDate, &s.DurationMillis); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}
