package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/WillDent/guess-that-tune-admin-sub001/internal/generation"
)

// SpotifyClient is the alternative catalog backend. Track objects carry no
// genres, so the primary genre is borrowed from the lead artist and memoized
// per artist to keep API traffic down.
type SpotifyClient struct {
	client          *spotify.Client
	chartPlaylistID spotify.ID

	mu           sync.Mutex
	artistGenres map[spotify.ID][]string
}

var _ generation.Catalog = (*SpotifyClient)(nil)

// NewSpotifyClient authenticates with the client-credentials flow
// (env SPOTIFY_CLIENT_ID / SPOTIFY_CLIENT_SECRET). chartPlaylistID names the
// playlist served as "the charts", typically an editorial Top 50.
func NewSpotifyClient(ctx context.Context, clientID, clientSecret, chartPlaylistID string) (*SpotifyClient, error) {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("spotify token: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	return &SpotifyClient{
		client:          spotify.New(httpClient),
		chartPlaylistID: spotify.ID(chartPlaylistID),
		artistGenres:    make(map[spotify.ID][]string),
	}, nil
}

func (c *SpotifyClient) Search(ctx context.Context, term string, limit int) ([]generation.Song, error) {
	if limit > 50 {
		limit = 50 // API page cap
	}
	results, err := c.client.Search(ctx, term, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		return nil, err
	}
	if results.Tracks == nil {
		return nil, nil
	}

	songs := make([]generation.Song, 0, len(results.Tracks.Tracks))
	for _, track := range results.Tracks.Tracks {
		songs = append(songs, c.toSong(ctx, track))
	}
	return songs, nil
}

func (c *SpotifyClient) TopCharts(ctx context.Context, limit int) ([]generation.Song, error) {
	if c.chartPlaylistID == "" {
		return nil, fmt.Errorf("spotify chart playlist not configured")
	}
	if limit > 100 {
		limit = 100
	}
	items, err := c.client.GetPlaylistItems(ctx, c.chartPlaylistID, spotify.Limit(limit))
	if err != nil {
		return nil, err
	}

	songs := make([]generation.Song, 0, len(items.Items))
	for _, item := range items.Items {
		if item.Track.Track == nil {
			continue
		}
		songs = append(songs, c.toSong(ctx, *item.Track.Track))
	}
	return songs, nil
}

func (c *SpotifyClient) toSong(ctx context.Context, track spotify.FullTrack) generation.Song {
	song := generation.Song{
		ID:             string(track.ID),
		Name:           track.Name,
		ReleaseDate:    track.Album.ReleaseDateTime(),
		DurationMillis: int(track.Duration),
	}
	if len(track.Artists) > 0 {
		song.ArtistName = track.Artists[0].Name
		song.GenreNames = c.genresFor(ctx, track.Artists[0].ID)
	}
	return song
}

func (c *SpotifyClient) genresFor(ctx context.Context, artistID spotify.ID) []string {
	c.mu.Lock()
	genres, ok := c.artistGenres[artistID]
	c.mu.Unlock()
	if ok {
		return genres
	}

	artist, err := c.client.GetArtist(ctx, artistID)
	if err != nil {
		return nil // leave the genre signal empty rather than fail the search
	}

	c.mu.Lock()
	c.artistGenres[artistID] = artist.Genres
	c.mu.Unlock()
	return artist.Genres
}
