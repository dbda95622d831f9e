package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const searchFixture = `{
	"results": {
		"songs": {
			"data": [
				{
					"id": "1440783617",
					"attributes": {
						"name": "Billie Jean",
						"artistName": "Michael Jackson",
						"genreNames": ["Pop", "Music"],
						"releaseDate": "1982-11-29",
						"durationInMillis": 294213
					}
				},
				{
					"id": "1440783618",
					"attributes": {
						"name": "Beat It",
						"artistName": "Michael Jackson",
						"genreNames": ["Pop"],
						"releaseDate": "1982-11-30",
						"durationInMillis": 258000
					}
				}
			]
		}
	}
}`

func TestAppleMusicSearch(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchFixture))
	}))
	defer server.Close()

	client := NewAppleMusicClient(server.URL, "us", "dev-token", server.Client())
	songs, err := client.Search(context.Background(), "Pop 1980s", 50)

	assert.NoError(t, err)
	assert.Equal(t, "/v1/catalog/us/search", gotPath)
	assert.Equal(t, "Bearer dev-token", gotAuth)
	assert.Len(t, songs, 2)

	first := songs[0]
	assert.Equal(t, "1440783617", first.ID)
	assert.Equal(t, "Billie Jean", first.Name)
	assert.Equal(t, "Michael Jackson", first.ArtistName)
	assert.Equal(t, []string{"Pop", "Music"}, first.GenreNames)
	assert.Equal(t, 1982, first.ReleaseDate.Year())
	assert.Equal(t, time.November, first.ReleaseDate.Month())
	assert.Equal(t, 294213, first.DurationMillis)
}

func TestAppleMusicTopCharts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/catalog/us/charts", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": {
				"songs": [
					{"data": [
						{"id": "c1", "attributes": {"name": "One", "artistName": "A", "genreNames": ["Pop"], "releaseDate": "2024-05-01", "durationInMillis": 180000}},
						{"id": "c2", "attributes": {"name": "Two", "artistName": "B", "genreNames": ["Rock"], "releaseDate": "2023-01-15", "durationInMillis": 200000}}
					]}
				]
			}
		}`))
	}))
	defer server.Close()

	client := NewAppleMusicClient(server.URL, "us", "dev-token", server.Client())
	songs, err := client.TopCharts(context.Background(), 100)

	assert.NoError(t, err)
	assert.Len(t, songs, 2)
	assert.Equal(t, "c1", songs[0].ID)
	assert.Equal(t, "Rock", songs[1].PrimaryGenre())
}

func TestAppleMusicNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewAppleMusicClient(server.URL, "us", "dev-token", server.Client())
	_, err := client.Search(context.Background(), "anything", 10)
	assert.Error(t, err)
}

func TestAppleMusicMalformedDateIsZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"results": {"songs": {"data": [
				{"id": "x", "attributes": {"name": "No Date", "artistName": "A", "releaseDate": "unknown", "durationInMillis": 1000}}
			]}}
		}`))
	}))
	defer server.Close()

	client := NewAppleMusicClient(server.URL, "us", "dev-token", server.Client())
	songs, err := client.Search(context.Background(), "x", 10)

	assert.NoError(t, err)
	assert.True(t, songs[0].ReleaseDate.IsZero())
}
