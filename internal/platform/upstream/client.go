// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package upstream is the single HTTP client used for every third-party content API.

Every call waits on a shared token bucket before dialing so a burst of cache
misses (a cold start, a sitemap crawl) cannot trip the providers' rate limits.
Nothing is retried: a failed fetch surfaces to the caller, which degrades to
"data unavailable".
*/
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/harianmuslim/internal/platform/constants"
	"github.com/taibuivan/harianmuslim/internal/platform/metrics"
)

// maxResponseBytes bounds a single upstream document. The full surah detail
// list is the largest one at a few megabytes.
const maxResponseBytes = 32 << 20

// StatusError reports a non-2xx answer from a third-party API.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream: %s returned HTTP %d", e.URL, e.StatusCode)
}

// IsNotFound reports whether err is a [StatusError] with status 404.
func IsNotFound(err error) bool {
	var statusError *StatusError
	return errors.As(err, &statusError) && statusError.StatusCode == http.StatusNotFound
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// RPS is the sustained request rate. Zero disables throttling.
	RPS float64
	// Limiter, when set, is shared with other clients instead of creating one from RPS.
	Limiter    *rate.Limiter
	HTTPClient *http.Client
	// Header is added to every request (e.g. Accept-Language).
	Header http.Header
}

// Client is a throttled JSON-over-HTTP client bound to one base URL.
type Client struct {
	baseURL    string
	host       string
	httpClient *http.Client
	limiter    *rate.Limiter
	header     http.Header
}

// New creates a client for cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("upstream: invalid base URL %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limiter := cfg.Limiter
	if limiter == nil && cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), int(cfg.RPS)+1)
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		host:       parsed.Host,
		httpClient: httpClient,
		limiter:    limiter,
		header:     cfg.Header,
	}, nil
}

// GetJSON fetches path with the given query and decodes the body into out.
func (client *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := client.Get(ctx, path, query)
	if err != nil {
		return err
	}
	return decode(body, path, out)
}

// PostJSON sends payload as a JSON body and decodes the response into out.
func (client *Client) PostJSON(ctx context.Context, path string, payload any, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("upstream: encode request for %s: %w", path, err)
	}

	body, err := client.do(ctx, http.MethodPost, path, nil, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	return decode(body, path, out)
}

// Get fetches path and returns the raw body of a 2xx response.
func (client *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return client.do(ctx, http.MethodGet, path, query, nil)
}

func (client *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader) ([]byte, error) {
	// 1. Respect the shared outbound budget
	if client.limiter != nil {
		if err := client.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("upstream: throttle wait: %w", err)
		}
	}

	// 2. Build the request
	target := client.baseURL + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("upstream: build request: %w", err)
	}

	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", constants.AppName+"/"+constants.AppVersion)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	for key, values := range client.header {
		for _, value := range values {
			request.Header.Add(key, value)
		}
	}

	// 3. Execute and classify
	response, err := client.httpClient.Do(request)
	if err != nil {
		metrics.RecordUpstream(client.host, "error")
		return nil, fmt.Errorf("upstream: %s %s: %w", method, target, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		metrics.RecordUpstream(client.host, "error")
		_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, 4<<10))
		return nil, &StatusError{URL: target, StatusCode: response.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		metrics.RecordUpstream(client.host, "error")
		return nil, fmt.Errorf("upstream: read %s: %w", target, err)
	}

	metrics.RecordUpstream(client.host, "ok")
	return raw, nil
}

func decode(body []byte, path string, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("upstream: decode %s: %w", path, err)
	}
	return nil
}

// Envelope is the {code, message, data} wrapper used by the equran.id APIs.
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}
