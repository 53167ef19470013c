// Package scholarly is a client for the external scholarly-metrics
// provider's HTTP API. It handles timeouts, bounded retries with
// exponential backoff, and typed errors that let callers tell absence,
// provider pacing, and transport failure apart.
package scholarly

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound marks lookups for which the provider has no profile.
var ErrNotFound = errors.New("scholarly: author not found")

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	retryBaseDelay    = 100 * time.Millisecond
	maxBodySnippet    = 256
)

// Config configures a Client.
type Config struct {
	// BaseURL is the provider API root, without a trailing slash.
	BaseURL string
	// Timeout bounds each HTTP attempt. Defaults to 30s.
	Timeout time.Duration
	// MaxRetries bounds retries after the first attempt, applied only to
	// server errors and transport failures. Defaults to 3.
	MaxRetries int
	// UserAgent overrides the request User-Agent header.
	UserAgent string
	// Transport overrides the HTTP transport, for tests.
	Transport http.RoundTripper
}

// Client queries the scholarly provider.
type Client struct {
	baseURL    string
	maxRetries int
	userAgent  string
	httpClient *http.Client
}

// New builds a Client from config, applying defaults.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("scholarly: base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	} else if cfg.MaxRetries == 0 {
		maxRetries = defaultMaxRetries
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = "scholardash-client"
	}
	return &Client{
		baseURL:    base,
		maxRetries: maxRetries,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout, Transport: cfg.Transport},
	}, nil
}

// AuthorByID fetches one author profile by its provider identifier.
func (c *Client) AuthorByID(ctx context.Context, scholarID string) (Author, error) {
	scholarID = strings.TrimSpace(scholarID)
	if scholarID == "" {
		return Author{}, fmt.Errorf("scholarly: scholar id is required")
	}
	var author Author
	if err := c.getJSON(ctx, "/authors/"+url.PathEscape(scholarID), nil, &author); err != nil {
		return Author{}, err
	}
	return normalizeAuthor(author), nil
}

// SearchAuthor resolves an author by display name and returns the first
// match. Zero matches count as ErrNotFound.
func (c *Client) SearchAuthor(ctx context.Context, name string) (Author, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Author{}, fmt.Errorf("scholarly: author name is required")
	}
	query := url.Values{}
	query.Set("name", name)
	var result searchResponse
	if err := c.getJSON(ctx, "/authors/search", query, &result); err != nil {
		return Author{}, err
	}
	if len(result.Authors) == 0 {
		return Author{}, fmt.Errorf("%w: no match for %q", ErrNotFound, name)
	}
	return normalizeAuthor(result.Authors[0]), nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * retryBaseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
		err := c.doOnce(ctx, path, query, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable(err) {
			return err
		}
	}
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, path string, query url.Values, out any) error {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode == http.StatusTooManyRequests:
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    bodySnippet(resp.Body),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	default:
		return &HTTPError{StatusCode: resp.StatusCode, Message: bodySnippet(resp.Body)}
	}
}

func retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.IsServerError()
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	return false
}

func bodySnippet(r io.Reader) string {
	payload, err := io.ReadAll(io.LimitReader(r, maxBodySnippet))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(payload))
}

func parseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if wait := time.Until(at); wait > 0 {
			return wait
		}
	}
	return 0
}

// HTTPError is a non-2xx provider response.
type HTTPError struct {
	StatusCode int
	Message    string
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("scholarly: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("scholarly: HTTP %d: %s", e.StatusCode, e.Message)
}

// IsRateLimited reports whether the provider refused the call for pacing.
func (e *HTTPError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsServerError reports whether the provider failed on its side.
func (e *HTTPError) IsServerError() bool {
	return e.StatusCode >= 500
}
