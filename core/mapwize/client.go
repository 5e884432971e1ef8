package mapwize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

// Client is a rate-limited, retry-capable Mapwize API client.
type Client struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a client. APIKey and OrganizationID are required.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.OrganizationID == "" {
		return nil, fmt.Errorf("organization id is required")
	}
	cfg.applyDefaults()

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
			Jar:       jar,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		logger:  cfg.Logger,
	}, nil
}

// OrganizationID returns the organization the client acts for.
func (c *Client) OrganizationID() string {
	return c.config.OrganizationID
}

// request is a single API call. Body is kept as bytes so retries can resend it.
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

// do executes a request with rate limiting and retry, returning the response body.
func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		body, err := c.doOnce(ctx, req)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !isRetryable(req.method, err) || attempt == c.config.MaxRetries {
			break
		}

		backoff := c.config.RetryDelay * time.Duration(1<<uint(attempt))
		c.logger.Debug("Retrying request",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, req request) ([]byte, error) {
	query := url.Values{}
	for k, v := range req.query {
		query[k] = v
	}
	query.Set("api_key", c.config.APIKey)
	query.Set("organizationId", c.config.OrganizationID)

	fullURL := strings.TrimSuffix(c.config.URL, "/") + "/v1/" + strings.TrimPrefix(req.path, "/") + "?" + query.Encode()

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to %s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Method:     req.method,
			Path:       req.path,
			Body:       strings.TrimSpace(string(data)),
		}
	}
	return data, nil
}

// call sends in as JSON (when non-nil) and decodes the answer into out (when non-nil).
func (c *Client) call(ctx context.Context, method, path string, query url.Values, in, out any) error {
	req := request{method: method, path: path, query: query}
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		req.body = data
		req.contentType = "application/json"
	}

	data, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// SignIn opens a session; the session cookie is kept for later requests.
func (c *Client) SignIn(ctx context.Context, email, password string) (map[string]any, error) {
	var user map[string]any
	credentials := map[string]string{"email": email, "password": password}
	if err := c.call(ctx, http.MethodPost, "auth/signin", nil, credentials, &user); err != nil {
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}
	return user, nil
}
