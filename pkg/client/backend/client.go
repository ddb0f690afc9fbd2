// Package backend is the credentialed client for the RentX REST API.
package backend

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

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	xerrors "rentx-admin/pkg/utils/errors"
)

const maxErrorBody = 64 << 10

type Options struct {
	BaseURL string
	Timeout time.Duration
	// RPS and Burst bound the outbound request rate; RPS <= 0 disables throttling.
	RPS   float64
	Burst int
	// HTTPClient overrides the default client; used by tests.
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

func NewClient(opts Options, logger *zap.Logger) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RPS > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RPS), burst)
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: hc,
		limiter:    limiter,
		logger:     logger,
	}
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// Is makes 401 and 403 answers match xerrors.ErrUnauthorized.
func (e *APIError) Is(target error) bool {
	return target == xerrors.ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// MessageOf extracts the message the backend attached to err, if any.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

type credentialsKey struct{}

// WithCookies returns a context whose backend calls carry the given cookies, the
// server-side equivalent of a browser's credentialed fetch.
func WithCookies(ctx context.Context, cookies []*http.Cookie) context.Context {
	return context.WithValue(ctx, credentialsKey{}, cookies)
}

func cookiesFrom(ctx context.Context) []*http.Cookie {
	cookies, _ := ctx.Value(credentialsKey{}).([]*http.Cookie)
	return cookies
}

// do performs one JSON round-trip. body may be nil; out may be nil to discard the
// response. The raw response is returned so callers can read headers.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", xerrors.ErrBackendUnavailable, err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range cookiesFrom(ctx) {
		req.AddCookie(ck)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", xerrors.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: extractMessage(raw)}
		c.logger.Warn("backend returned non-2xx",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message))
		return resp, apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, fmt.Errorf("%w: %v", xerrors.ErrBackendUnavailable, err)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return resp, xerrors.ErrEmptyResponse
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return resp, fmt.Errorf("failed to decode %s %s: %w", method, path, err)
	}
	return resp, nil
}

// list GETs a collection into out. A null or empty body is an empty collection.
func (c *Client) list(ctx context.Context, path string, out interface{}) error {
	_, err := c.do(ctx, http.MethodGet, path, nil, out)
	if errors.Is(err, xerrors.ErrEmptyResponse) {
		return nil
	}
	return err
}

// extractMessage understands {"message":..}, {"error":".."} and {"error":{"message":..}}.
func extractMessage(raw []byte) string {
	var body struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	if len(body.Error) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(body.Error, &s); err == nil {
		return s
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body.Error, &nested); err == nil {
		return nested.Message
	}
	return ""
}

func itemPath(collection, id string) string {
	return "/" + collection + "/" + url.PathEscape(id)
}
