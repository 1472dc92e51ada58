package proxy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/scottsberry/commerce-backend/pkg/config"
)

const responseBodyReadLimit int64 = 16 << 20

var errTokenRequired = errors.New("centra api token is required")

// UpstreamResponse carries the upstream status and raw body; non-2xx bodies
// pass through to the caller untouched.
type UpstreamResponse struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

// Client forwards GraphQL payloads to the upstream commerce API.
type Client struct {
	httpClient *http.Client
	url        string
	token      string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithURL overrides the configured upstream endpoint.
func WithURL(url string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(url)
		if trimmed != "" {
			c.url = trimmed
		}
	}
}

// NewClient builds the upstream client from config.
func NewClient(cfg config.CentraConfig, opts ...Option) (*Client, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errTokenRequired
	}
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, errors.New("centra api endpoint is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		token:      token,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Execute posts the payload to the upstream endpoint and returns the raw
// response regardless of status code. Transport failures return an error.
func (c *Client) Execute(ctx context.Context, payload []byte) (*UpstreamResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling upstream: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return nil, fmt.Errorf("reading upstream response: %w", err)
	}

	return &UpstreamResponse{
		StatusCode:  resp.StatusCode,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
