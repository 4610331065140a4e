package client

import (
	"context"
	"net/http"
	"strconv"

	"golang.org/x/sync/singleflight"
)

// JobsClient reads and writes jobs through an API, serving list pages from a Cache.
type JobsClient struct {
	api    *API
	cache  Cache
	flight singleflight.Group
}

func NewJobsClient(api *API, cache Cache) *JobsClient {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &JobsClient{api: api, cache: cache}
}

func (c *JobsClient) Cache() Cache {
	return c.cache
}

// Search returns the page for q, issuing at most one request per canonical key.
// Concurrent callers for the same key share the request; each one stops
// waiting when its own ctx is done without failing the others. Failed
// requests are not cached, and neither are responses that overlapped an
// invalidation.
func (c *JobsClient) Search(ctx context.Context, q Query) (Page, error) {
	key := q.Key()
	if p, ok := c.cache.Get(key); ok {
		return p, nil
	}

	gen := c.cache.Generation()
	// callers that arrive after an invalidation must not join an older request
	flightKey := key + "#" + strconv.FormatUint(gen, 10)
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(flightKey, func() (any, error) {
		return c.fetch(fetchCtx, key, q, gen)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Page{}, res.Err
		}
		return res.Val.(Page), nil
	case <-ctx.Done():
		return Page{}, ctx.Err()
	}
}

// fetch runs detached from any single caller; the API timeout still bounds it.
func (c *JobsClient) fetch(ctx context.Context, key string, q Query, gen uint64) (Page, error) {
	var page Page
	if err := c.api.Do(ctx, http.MethodGet, "/api/jobs", q.Values(), nil, &page); err != nil {
		return Page{}, err
	}
	if page.Jobs == nil {
		page.Jobs = []Job{}
	}
	c.cache.SetIfCurrent(key, page, gen)
	return page, nil
}

func (c *JobsClient) Get(ctx context.Context, id int64) (Job, error) {
	var job Job
	err := c.api.Do(ctx, http.MethodGet, "/api/jobs/"+strconv.FormatInt(id, 10), nil, nil, &job)
	return job, err
}

type jobPayload struct {
	Title       string   `json:"title"`
	Location    string   `json:"location"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Deadline    string   `json:"deadline,omitempty"`
}

func (c *JobsClient) Create(ctx context.Context, d JobDraft) (Job, error) {
	payload := jobPayload{
		Title:       d.Title,
		Location:    d.Location,
		Type:        d.Type,
		Description: d.Description,
		Skills:      append([]string{}, d.Skills...),
		Deadline:    d.Deadline,
	}
	var job Job
	if err := c.api.Do(ctx, http.MethodPost, "/api/jobs", nil, payload, &job); err != nil {
		return Job{}, err
	}
	c.cache.InvalidatePrefix(JobsKeyPrefix)
	return job, nil
}

func (c *JobsClient) AdminStats(ctx context.Context) (AdminStats, error) {
	var stats AdminStats
	err := c.api.Do(ctx, http.MethodGet, "/api/admin/stats", nil, nil, &stats)
	return stats, err
}

func (c *JobsClient) ClientConfig(ctx context.Context) (ClientConfig, error) {
	var cfg ClientConfig
	err := c.api.Do(ctx, http.MethodGet, "/api/client-config", nil, nil, &cfg)
	return cfg, err
}
