// Package adzuna wraps the Adzuna job search API with caching and retries.
package adzuna

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"jobradar/common/cache"
	"jobradar/common/telemetry"
	"jobradar/internal/config"
	"jobradar/internal/errors"
	"jobradar/internal/models"

	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("jobradar/adzuna")

type JobSearchClient interface {
	// SearchJobs fetches one page of results for a role/location query.
	// Pages are 1-based.
	SearchJobs(ctx context.Context, role, location string, page int) (models.SourceJobList, error)
}

type jobSearchClient struct {
	client *http.Client
	logger *zap.Logger
	config *config.Config
	cache  cache.Cache
}

func NewJobSearchClient(logger *zap.Logger, cfg *config.Config, c cache.Cache) JobSearchClient {
	return &jobSearchClient{
		client: &http.Client{
			Timeout: cfg.AdzunaTimeout,
		},
		logger: logger,
		config: cfg,
		cache:  c,
	}
}

func (c *jobSearchClient) SearchJobs(ctx context.Context, role, location string, page int) (models.SourceJobList, error) {
	ctx, span := tracer.Start(ctx, "SearchJobs")
	defer span.End()
	span.SetAttributes(
		telemetry.String("search.role", role),
		telemetry.String("search.location", location),
		telemetry.Int("search.page", page),
	)

	if page < 1 {
		return nil, errors.InvalidInput("page must be positive", nil)
	}

	cacheKey := fmt.Sprintf("adzuna:search:%s:%s:%d", role, location, page)
	var cached models.SourceJobList
	err := c.cache.Get(ctx, cacheKey, &cached)
	if err == nil {
		span.SetAttributes(telemetry.String("cache.result", "hit"))
		c.logger.Debug("cache hit for search",
			zap.String("role", role),
			zap.String("location", location),
			zap.Int("page", page))
		return cached, nil
	} else if err != cache.ErrNotFound {
		span.SetAttributes(telemetry.String("cache.result", "error"))
		span.RecordError(err)
		c.logger.Warn("cache error for search", zap.Error(err))
	} else {
		span.SetAttributes(telemetry.String("cache.result", "miss"))
	}

	searchURL := c.searchURL(role, location, page)
	c.logger.Debug("cache miss, searching jobs", zap.String("url", searchURL))

	jobs, err := c.fetchWithRetry(ctx, searchURL)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	c.logger.Debug("successfully fetched search page",
		zap.String("role", role),
		zap.String("location", location),
		zap.Int("page", page),
		zap.Int("count", len(jobs)))

	if err := c.cache.Set(ctx, cacheKey, jobs, c.config.CacheTTL); err != nil {
		c.logger.Warn("failed to cache search results", zap.Error(err))
	}

	return jobs, nil
}

func (c *jobSearchClient) searchURL(role, location string, page int) string {
	params := url.Values{}
	params.Set("app_id", c.config.AdzunaAppID)
	params.Set("app_key", c.config.AdzunaAppKey)
	params.Set("results_per_page", strconv.Itoa(c.config.ResultsPerPage))
	params.Set("what", role)
	params.Set("where", location)
	params.Set("content-type", "application/json")

	return fmt.Sprintf("%s/%s/search/%d?%s",
		c.config.AdzunaBaseURL, c.config.AdzunaCountry, page, params.Encode())
}

// fetchWithRetry retries transport errors and retryable status codes up to
// MaxRetries times with a flat delay. 4xx responses other than 429 are
// returned immediately.
func (c *jobSearchClient) fetchWithRetry(ctx context.Context, searchURL string) (models.SourceJobList, error) {
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("retrying search request",
				zap.Int("attempt", attempt),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, errors.Unavailable("search cancelled", ctx.Err())
			case <-time.After(c.config.RetryDelay):
			}
		}

		jobs, retryable, err := c.fetch(ctx, searchURL)
		if err == nil {
			return jobs, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *jobSearchClient) fetch(ctx context.Context, searchURL string) (models.SourceJobList, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, false, errors.Internal("creating request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("failed to execute request", zap.Error(err))
		return nil, true, errors.Unavailable("executing request", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("failed to close response body", zap.Error(cerr))
		}
	}()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		c.logger.Warn("retryable status code", zap.Int("status_code", resp.StatusCode))
		return nil, true, errors.Unavailable(fmt.Sprintf("status code: %d", resp.StatusCode), nil)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.logger.Error("authentication rejected", zap.Int("status_code", resp.StatusCode))
		return nil, false, errors.Internal("invalid API credentials", nil)
	default:
		c.logger.Error("unexpected status code", zap.Int("status_code", resp.StatusCode))
		return nil, false, errors.Internal(fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
	}

	var searchResult struct {
		Results []models.SourceJob `json:"results"`
		Count   int                `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResult); err != nil {
		c.logger.Error("failed to decode response", zap.Error(err))
		return nil, false, errors.Internal("decoding response", err)
	}

	c.logger.Info("search response stats",
		zap.Int("total_count", searchResult.Count),
		zap.Int("page_results", len(searchResult.Results)))

	return searchResult.Results, false, nil
}
