package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const (
	// BaseURL is the Airtable REST API base URL
	BaseURL = "https://api.airtable.com/v0"
	// DefaultTimeout is the default HTTP client timeout for API calls
	DefaultTimeout = 30 * time.Second
)

// ErrTableNotConfigured is returned when a logical table name has no
// configured table ID. Operations that hit it must fail fast, never retry.
var ErrTableNotConfigured = errors.New("table not configured")

// Client handles all Airtable API interactions for a single base.
type Client struct {
	apiKey      string
	baseID      string
	baseURL     string
	httpClient  *http.Client
	retryConfig RetryConfig
	rateLimiter *RateLimiter

	mu     sync.Mutex
	tables map[string]*Table // memoized per logical name, process lifetime
	ids    map[string]string // logical name -> table ID
}

// Config holds configuration for the Airtable client.
type Config struct {
	APIKey  string
	BaseID  string
	BaseURL string
	Timeout time.Duration
	// Tables maps logical table names to Airtable table IDs.
	Tables map[string]string
	// Optional custom retry config
	RetryConfig *RetryConfig
	// Optional rate limiter config
	RateLimiterConfig *RateLimiterConfig
}

// RetryConfig holds retry configuration for failed requests.
type RetryConfig struct {
	MaxRetries     int           // Maximum number of retry attempts (default: 2)
	InitialBackoff time.Duration // Initial backoff duration (default: 500ms)
	MaxBackoff     time.Duration // Maximum backoff duration (default: 30s)
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     2,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     30 * time.Second,
	}
}

// NewClient creates a new Airtable API client.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	retryConfig := DefaultRetryConfig()
	if config.RetryConfig != nil {
		retryConfig = *config.RetryConfig
	}

	rateLimiterConfig := DefaultRateLimiterConfig()
	if config.RateLimiterConfig != nil {
		rateLimiterConfig = *config.RateLimiterConfig
	}

	ids := make(map[string]string, len(config.Tables))
	for name, id := range config.Tables {
		ids[name] = id
	}

	return &Client{
		apiKey:  config.APIKey,
		baseID:  config.BaseID,
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		retryConfig: retryConfig,
		rateLimiter: NewRateLimiter(rateLimiterConfig),
		tables:      make(map[string]*Table),
		ids:         ids,
	}
}

// Table resolves a logical table name to its handle. Handles are memoized
// for the lifetime of the client; the table set is small and fixed, so
// there is no eviction.
func (c *Client) Table(name string) (*Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.tables[name]; ok {
		return t, nil
	}

	id, ok := c.ids[name]
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: %q", ErrTableNotConfigured, name)
	}

	t := &Table{client: c, name: name, id: id}
	c.tables[name] = t
	return t, nil
}

// Find fetches a single record by ID from the named logical table.
func (c *Client) Find(ctx context.Context, table, id string) (*Record, error) {
	t, err := c.Table(table)
	if err != nil {
		return nil, err
	}
	return t.Find(ctx, id)
}

// Select lists records from the named logical table.
func (c *Client) Select(ctx context.Context, table string, opts SelectOptions) ([]Record, error) {
	t, err := c.Table(table)
	if err != nil {
		return nil, err
	}
	return t.Select(ctx, opts)
}

// Create inserts a record into the named logical table.
func (c *Client) Create(ctx context.Context, table string, fields Fields) (*Record, error) {
	t, err := c.Table(table)
	if err != nil {
		return nil, err
	}
	return t.Create(ctx, fields)
}

// Update patches the given fields of a record in the named logical table.
// Fields not present in the patch are left untouched.
func (c *Client) Update(ctx context.Context, table, id string, fields Fields) (*Record, error) {
	t, err := c.Table(table)
	if err != nil {
		return nil, err
	}
	return t.Update(ctx, id, fields)
}

// Delete removes a record from the named logical table.
func (c *Client) Delete(ctx context.Context, table, id string) error {
	t, err := c.Table(table)
	if err != nil {
		return err
	}
	return t.Delete(ctx, id)
}

// IsRetryableStatusCode checks if an HTTP status code should trigger a retry.
// Retryable codes: 408 (Timeout), 429 (Rate Limit), 5xx (Server errors).
func IsRetryableStatusCode(statusCode int) bool {
	return statusCode == 408 || statusCode == 429 || statusCode >= 500
}

// CalculateBackoff returns the backoff duration for a given retry attempt.
// Uses exponential backoff: initialBackoff * 2^attempt, capped at maxBackoff.
func CalculateBackoff(attempt int, config RetryConfig) time.Duration {
	backoff := config.InitialBackoff * time.Duration(1<<uint(attempt))
	if backoff > config.MaxBackoff {
		return config.MaxBackoff
	}
	return backoff
}

// ParseRetryAfter extracts the Retry-After header value from a response.
// Returns 0 if the header is not present or cannot be parsed.
func ParseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(retryAfter); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(retryAfter); err == nil {
		duration := time.Until(t)
		if duration > 0 {
			return duration
		}
	}

	return 0
}

// doRequest performs an HTTP request against the Airtable API, retrying
// rate-limit and server errors with exponential backoff.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body interface{}, result interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := CalculateBackoff(attempt-1, c.retryConfig)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		retryable, err := c.doRequestOnce(ctx, method, endpoint, payload, result)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}

	return lastErr
}

func (c *Client) doRequestOnce(ctx context.Context, method, endpoint string, payload []byte, result interface{}) (retryable bool, err error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	url := c.baseURL + "/" + c.baseID + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network failures are worth one more attempt.
		return true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusTooManyRequests {
			if retryAfter := ParseRetryAfter(resp); retryAfter > 0 {
				c.rateLimiter.Pause(retryAfter)
			}
		}

		apiErr := decodeAPIError(resp.StatusCode, respBody)
		return IsRetryableStatusCode(resp.StatusCode), apiErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return false, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return false, nil
}

// APIError represents an Airtable API error response.
type APIError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("airtable API error (status %d): %s: %s", e.StatusCode, e.Type, e.Message)
}

// IsNotFound reports whether err is an Airtable 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func decodeAPIError(statusCode int, body []byte) *APIError {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	apiErr := &APIError{StatusCode: statusCode}

	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error == nil {
		apiErr.Type = "UNKNOWN"
		apiErr.Message = string(body)
		return apiErr
	}

	// The error value is either {"type","message"} or a bare string.
	if err := json.Unmarshal(envelope.Error, apiErr); err != nil {
		var msg string
		if json.Unmarshal(envelope.Error, &msg) == nil {
			apiErr.Type = msg
			apiErr.Message = msg
		} else {
			apiErr.Type = "UNKNOWN"
			apiErr.Message = string(envelope.Error)
		}
	}
	return apiErr
}
