package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/WillDent/guess-that-tune-admin-sub001/internal/generation"
)

const appleMusicDateLayout = "2006-01-02"

// AppleMusicClient talks to the Apple Music catalog API (needs a developer
// token, env APPLE_MUSIC_TOKEN). Requests are rate limited client-side to
// stay under the API quota.
type AppleMusicClient struct {
	baseURL    string
	storefront string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ generation.Catalog = (*AppleMusicClient)(nil)

func NewAppleMusicClient(baseURL, storefront, token string, httpClient *http.Client) *AppleMusicClient {
	if baseURL == "" {
		baseURL = "https://api.music.apple.com"
	}
	if storefront == "" {
		storefront = "us"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &AppleMusicClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		storefront: storefront,
		token:      token,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(10), 5),
	}
}

// Search queries the catalog search endpoint for songs matching term.
func (c *AppleMusicClient) Search(ctx context.Context, term string, limit int) ([]generation.Song, error) {
	endpoint := fmt.Sprintf("%s/v1/catalog/%s/search?types=songs&term=%s&limit=%d",
		c.baseURL, c.storefront, url.QueryEscape(term), limit)

	var payload searchResponse
	if err := c.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	return toSongs(payload.Results.Songs.Data), nil
}

// TopCharts pulls the most-played songs chart for the storefront.
func (c *AppleMusicClient) TopCharts(ctx context.Context, limit int) ([]generation.Song, error) {
	endpoint := fmt.Sprintf("%s/v1/catalog/%s/charts?types=songs&limit=%d",
		c.baseURL, c.storefront, limit)

	var payload chartsResponse
	if err := c.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	var songs []generation.Song
	for _, chart := range payload.Results.Songs {
		songs = append(songs, toSongs(chart.Data)...)
	}
	return songs, nil
}

func (c *AppleMusicClient) get(ctx context.Context, endpoint string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("apple music non-200: %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type songResource struct {
	ID         string `json:"id"`
	Attributes struct {
		Name             string   `json:"name"`
		ArtistName       string   `json:"artistName"`
		GenreNames       []string `json:"genreNames"`
		ReleaseDate      string   `json:"releaseDate"`
		DurationInMillis int      `json:"durationInMillis"`
	} `json:"attributes"`
}

type searchResponse struct {
	Results struct {
		Songs struct {
			Data []songResource `json:"data"`
		} `json:"songs"`
	} `json:"results"`
}

type chartsResponse struct {
	Results struct {
		Songs []struct {
			Data []songResource `json:"data"`
		} `json:"songs"`
	} `json:"results"`
}

func toSongs(resources []songResource) []generation.Song {
	songs := make([]generation.Song, 0, len(resources))
	for _, r := range resources {
		released, _ := time.Parse(appleMusicDateLayout, r.Attributes.ReleaseDate)
		songs = append(songs, generation.Song{
			ID:             r.ID,
			Name:           r.Attributes.Name,
			ArtistName:     r.Attributes.ArtistName,
			GenreNames:     r.Attributes.GenreNames,
			ReleaseDate:    released,
			DurationMillis: r.Attributes.DurationInMillis,
		})
	}
	return songs
}
