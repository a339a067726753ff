package game

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 10 * time.Minute

// Cache stores game definitions in Redis so sessions do not reload them from
// Postgres on every question.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ DefinitionCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(id uuid.UUID) string {
	return "game:definition:" + id.String()
}

func (c *Cache) Get(ctx context.Context, id uuid.UUID) (*Game, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var g Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Cache) Set(ctx context.Context, g Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(g.ID), data, c.ttl).Err()
}
