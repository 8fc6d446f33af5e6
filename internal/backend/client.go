// Package backend relays overlay actions to the host resource over HTTP.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	tberrors "github.com/tessro/tokyobox/internal/errors"
)

const (
	// DefaultResource is the host resource name used to build the base URL.
	DefaultResource = "tokyo_box"

	// Retry configuration for failed calls
	defaultRetries   = 3
	defaultRetryWait = time.Second
	defaultTimeout   = 10 * time.Second
)

// Options configures a Client.
type Options struct {
	// BaseURL overrides https://<Resource>.
	BaseURL   string
	Resource  string
	Timeout   time.Duration
	Retries   int
	RetryWait time.Duration
	// HTTPClient overrides the default client built from Timeout.
	HTTPClient *http.Client
}

// Client posts JSON actions to the host resource.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retries    int
	retryWait  time.Duration
	mu         sync.RWMutex
	verbose    bool
	logFunc    func(format string, args ...interface{})
}

// New creates a backend client.
func New(opts Options) *Client {
	if opts.Resource == "" {
		opts.Resource = DefaultResource
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Retries <= 0 {
		opts.Retries = defaultRetries
	}
	if opts.RetryWait <= 0 {
		opts.RetryWait = defaultRetryWait
	}

	base := opts.BaseURL
	if base == "" {
		base = "https://" + opts.Resource
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(base, "/"),
		retries:    opts.Retries,
		retryWait:  opts.RetryWait,
	}
}

// SetVerbose enables verbose logging.
func (c *Client) SetVerbose(verbose bool, logFunc func(format string, args ...interface{})) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verbose = verbose
	c.logFunc = logFunc
}

func (c *Client) log(format string, args ...interface{}) {
	c.mu.RLock()
	verbose, logFunc := c.verbose, c.logFunc
	c.mu.RUnlock()
	if verbose && logFunc != nil {
		logFunc(format, args...)
	}
}

// BaseURL returns the URL every endpoint is resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Post sends body to endpoint and decodes the JSON response into result.
// A nil result discards the response body.
func (c *Client) Post(ctx context.Context, endpoint string, body interface{}, result interface{}) error {
	return c.request(ctx, http.MethodPost, endpoint, body, result)
}

// Do sends an arbitrary request. It is used by callers that talk to the
// overlay's own bridge rather than the host resource.
func (c *Client) Do(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	return c.request(ctx, method, path, body, result)
}

func (c *Client) request(ctx context.Context, method, endpoint string, body interface{}, result interface{}) error {
	if body == nil && method == http.MethodPost {
		body = struct{}{}
	}

	var jsonBody []byte
	if body != nil {
		var err error
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	fullURL := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	label := metricLabel(endpoint)

	if jsonBody != nil {
		c.log("[backend] %s %s\n  body: %s", method, fullURL, string(jsonBody))
	} else {
		c.log("[backend] %s %s", method, fullURL)
	}

	timer := prometheus.NewTimer(requestDuration.WithLabelValues(label))
	defer timer.ObserveDuration()

	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		// Wait before retry (skip on first attempt)
		if attempt > 1 {
			wait := c.retryWait * time.Duration(attempt-1) // linear backoff
			c.log("[backend] retry %d/%d after %v (last error: %v)", attempt, c.retries, wait, lastErr)
			select {
			case <-ctx.Done():
				requestsTotal.WithLabelValues(label, "canceled").Inc()
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		var bodyReader io.Reader
		if jsonBody != nil {
			bodyReader = bytes.NewReader(jsonBody)
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		if jsonBody != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				requestsTotal.WithLabelValues(label, "canceled").Inc()
				return ctx.Err()
			}
			lastErr = fmt.Errorf("request failed: %w", err)
			c.log("[backend] network error: %v", err)
			continue // Retry on network error
		}

		respBody, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			c.log("[backend] read error: %v", err)
			continue
		}

		c.log("[backend] response: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			statusErr := &StatusError{Endpoint: endpoint, Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
			c.log("[backend] response body: %s", string(respBody))

			// Don't retry 4xx errors
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				requestsTotal.WithLabelValues(label, "rejected").Inc()
				return statusErr
			}
			lastErr = statusErr
			continue
		}

		requestsTotal.WithLabelValues(label, "ok").Inc()

		if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
		}
		return nil
	}

	requestsTotal.WithLabelValues(label, "error").Inc()
	return fmt.Errorf("%w: %s failed after %d attempts: %w", tberrors.ErrBackendUnavailable, endpoint, c.retries, lastErr)
}

// StatusError is a non-2xx response from the host.
type StatusError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: HTTP error status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("%s: HTTP error status %d: %s", e.Endpoint, e.Status, e.Body)
}

// metricLabel keeps endpoint labels bounded: path parameters are dropped.
func metricLabel(endpoint string) string {
	endpoint = strings.Trim(endpoint, "/")
	if i := strings.IndexByte(endpoint, '/'); i >= 0 {
		endpoint = endpoint[:i]
	}
	if endpoint == "" {
		return "root"
	}
	return endpoint
}
