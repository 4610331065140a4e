package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"vantahire/internal/domain"
)

const jobPagePrefix = "jobs:page:"

type redisJobPageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewJobPageCache stores public listing pages in redis. A zero ttl disables caching.
func NewJobPageCache(client *redis.Client, ttl time.Duration) domain.JobPageCache {
	return &redisJobPageCache{client: client, ttl: ttl}
}

func (c *redisJobPageCache) Get(ctx context.Context, key string) (*domain.JobPage, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	data, err := c.client.Get(ctx, jobPagePrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("job page cache read failed")
		}
		return nil, false
	}

	var page domain.JobPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, false
	}
	return &page, true
}

func (c *redisJobPageCache) Set(ctx context.Context, key string, page *domain.JobPage) error {
	if c.ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, jobPagePrefix+key, data, c.ttl).Err()
}

// Flush drops every cached page. Called after any job mutation.
func (c *redisJobPageCache) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, jobPagePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
