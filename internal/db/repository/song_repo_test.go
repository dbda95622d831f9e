package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/WillDent/guess-that-tune-admin-sub001/internal/generation"
)

type fakeRows struct {
	songs []generation.Song
	pos   int
	err   error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	return r.pos < len(r.songs)
}

func (r *fakeRows) Scan(dest ...any) error {
	s := r.songs[r.pos]
	r.pos++
	*(dest[0].(*string)) = s.ID
	*(dest[1].(*string)) = s.Name
	*(dest[2].(*string)) = s.ArtistName
	*(dest[3].(*[]string)) = s.GenreNames
	*(dest[4].(*time.Time)) = s.ReleaseDate
	*(dest[5].(*int)) = s.DurationMillis
	return nil
}

type stubStore struct {
	rows     pgx.Rows
	queryErr error
	gotSQL   string
	gotArgs  []any
}

func (s *stubStore) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	s.gotSQL = sql
	s.gotArgs = args
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.rows, nil
}

func (s *stubStore) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.gotSQL = sql
	s.gotArgs = args
	return pgconn.CommandTag{}, nil
}

func TestSearchScansSongs(t *testing.T) {
	want := generation.Song{
		ID:             "s1",
		Name:           "Take Five",
		ArtistName:     "The Dave Brubeck Quartet",
		GenreNames:     []string{"Jazz"},
		ReleaseDate:    time.Date(1959, 9, 21, 0, 0, 0, 0, time.UTC),
		DurationMillis: 324000,
	}
	store := &stubStore{rows: &fakeRows{songs: []generation.Song{want}}}
	repo := NewSongRepository(store)

	songs, err := repo.Search(context.Background(), "Jazz 1950s", 50)

	assert.NoError(t, err)
	assert.Equal(t, []generation.Song{want}, songs)
	assert.Equal(t, []any{"Jazz 1950s", 50}, store.gotArgs)
}

func TestSearchPropagatesQueryError(t *testing.T) {
	store := &stubStore{queryErr: errors.New("connection refused")}
	repo := NewSongRepository(store)

	_, err := repo.Search(context.Background(), "anything", 10)
	assert.Error(t, err)
}

func TestTopByPopularityPassesLimit(t *testing.T) {
	store := &stubStore{rows: &fakeRows{}}
	repo := NewSongRepository(store)

	songs, err := repo.TopByPopularity(context.Background(), 100)

	assert.NoError(t, err)
	assert.Empty(t, songs)
	assert.Equal(t, []any{100}, store.gotArgs)
	assert.Contains(t, store.gotSQL, "ORDER BY popularity DESC")
}

func TestUpsertArguments(t *testing.T) {
	store := &stubStore{}
	repo := NewSongRepository(store)

	song := generation.Song{ID: "s1", Name: "One", ArtistName: "A", DurationMillis: 1000}
	err := repo.Upsert(context.Background(), song, 77)

	assert.NoError(t, err)
	assert.Contains(t, store.gotSQL, "ON CONFLICT (song_id)")
	assert.Equal(t, "s1", store.gotArgs[0])
	assert.Equal(t, 77, store.gotArgs[6])
}
