package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"travelbot/internal/config"
	"travelbot/internal/utils"
)

var (
	// ErrProviderDisabled means the provider has no usable credential
	ErrProviderDisabled = errors.New("provider not configured")
	// ErrEmptyResult means the provider answered without usable records
	ErrEmptyResult = errors.New("provider returned no results")
)

// maxErrorBody caps how much of a failed response ends up in an error
const maxErrorBody = 200

// ProviderClient performs throttled GET requests against one external API
type ProviderClient struct {
	name       string
	config     config.ProviderConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewProviderClient creates a client with the provider's timeout and a
// limiter shared by every call through it
func NewProviderClient(name string, cfg config.ProviderConfig) *ProviderClient {
	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	return &ProviderClient{
		name:   name,
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Name returns the provider label used in logs
func (c *ProviderClient) Name() string {
	return c.name
}

// IsEnabled returns whether the client is configured and ready
func (c *ProviderClient) IsEnabled() bool {
	return c.config.Enabled
}

// APIKey returns the configured credential
func (c *ProviderClient) APIKey() string {
	return c.config.APIKey
}

// GetJSON issues GET {base}{path}?{query} and decodes the JSON body into out
func (c *ProviderClient) GetJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	if !c.config.Enabled {
		return fmt.Errorf("%s: %w", c.name, ErrProviderDisabled)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s rate limit wait: %w", c.name, err)
	}

	endpoint := strings.TrimRight(c.config.APIBase, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s request failed with status %d: %s", c.name, resp.StatusCode, utils.Truncate(string(body), maxErrorBody))
	}

	if err := utils.DecodeLenientJSON(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", c.name, err)
	}

	return nil
}
