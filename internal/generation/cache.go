package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 5 * time.Minute

// Cache provides Redis-backed question set caching so repeated requests for
// the same batch skip the catalog fan-out.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ResultCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// key fingerprints the request: selected ids are sorted so the key is stable
// regardless of input order of everything except the questions themselves.
func (c *Cache) key(req GenerateRequest) string {
	ids := make([]string, 0, len(req.Selected))
	for _, song := range req.Selected {
		ids = append(ids, song.ID)
	}
	sort.Strings(ids)
	return strings.Join([]string{
		"questionset",
		req.Difficulty,
		req.Mode,
		req.Strategy,
		fmt.Sprint(req.NumberOfDetractors),
		req.Theme,
		fmt.Sprintf("%d-%d", req.YearFrom, req.YearTo),
		strings.Join(ids, "|"),
	}, ":")
}

func (c *Cache) Get(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	data, err := c.client.Get(ctx, c.key(req)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var resp GenerateResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Cache) Set(ctx context.Context, req GenerateRequest, resp GenerateResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(req), data, c.ttl).Err()
}
