// Package extract implements the recipe extraction collaborator client.
// The collaborator is an HTTP service that fetches a recipe page and returns
// it normalized, with steps already atomized.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/aretw0/ladle/pkg/domain"
)

// Client calls the extraction service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxTries   uint
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMaxTries bounds retry attempts for transient failures.
func WithMaxTries(n uint) Option {
	return func(c *Client) {
		c.maxTries = n
	}
}

// New creates a client for the extraction service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxTries:   3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type extractRequest struct {
	URL string `json:"url"`
}

// Extract posts the URL to the service and returns the normalized recipe.
// Transient failures (network errors, 5xx) are retried with exponential
// backoff; a 422 means the site cannot be extracted and is not retried.
// The returned recipe is validated before it reaches the caller, so a bad
// extraction never half-populates a store.
func (c *Client) Extract(ctx context.Context, url string) (*domain.Recipe, error) {
	body, err := json.Marshal(extractRequest{URL: url})
	if err != nil {
		return nil, fmt.Errorf("failed to encode extract request: %w", err)
	}

	op := func() (*domain.Recipe, error) {
		return c.extractOnce(ctx, body)
	}

	recipe, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.maxTries),
	)
	if err != nil {
		return nil, err
	}

	if err := recipe.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}
	return recipe, nil
}

func (c *Client) extractOnce(ctx context.Context, body []byte) (*domain.Recipe, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to build extract request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Fall through to decoding.
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, backoff.Permanent(fmt.Errorf("extractor rejected url: %w", domain.ErrUnsupportedSite))
	case resp.StatusCode >= 500:
		// Transient: leave retryable.
		return nil, fmt.Errorf("%w: extractor returned %d", domain.ErrExtractionFailed, resp.StatusCode)
	default:
		return nil, backoff.Permanent(fmt.Errorf("%w: extractor returned %d", domain.ErrExtractionFailed, resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading extractor response: %w", domain.ErrExtractionFailed, err)
	}

	var recipe domain.Recipe
	if err := json.Unmarshal(data, &recipe); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: decoding extractor response: %w", domain.ErrExtractionFailed, err))
	}
	return &recipe, nil
}
