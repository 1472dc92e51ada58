package proxy

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	pkgerrors "github.com/scottsberry/commerce-backend/pkg/errors"
	"github.com/scottsberry/commerce-backend/pkg/logger"
	"github.com/scottsberry/commerce-backend/pkg/metrics"
)

// Upstream abstracts the commerce API for testing.
type Upstream interface {
	Execute(ctx context.Context, payload []byte) (*UpstreamResponse, error)
}

// Result is what the proxy hands back to the HTTP layer.
type Result struct {
	StatusCode  int
	Body        []byte
	ContentType string
	FromCache   bool
}

// Service validates, caches, and forwards GraphQL requests.
type Service struct {
	upstream Upstream
	cache    *Cache
	metrics  *metrics.ProxyCacheMetrics
	logg     *logger.Logger
}

// NewService wires the proxy service.
func NewService(upstream Upstream, cache *Cache, m *metrics.ProxyCacheMetrics, logg *logger.Logger) *Service {
	return &Service{
		upstream: upstream,
		cache:    cache,
		metrics:  m,
		logg:     logg,
	}
}

// Execute serves a GraphQL payload, preferring a cached response when an
// identical payload was answered successfully within the cache TTL.
func (s *Service) Execute(ctx context.Context, payload []byte) (*Result, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	key := Fingerprint(payload)
	if cached, ok := s.cache.Lookup(key); ok {
		return &Result{
			StatusCode:  http.StatusOK,
			Body:        cached,
			ContentType: "application/json",
			FromCache:   true,
		}, nil
	}

	s.metrics.IncUpstreamCall()
	resp, err := s.upstream.Execute(ctx, payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upstream request failed")
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		s.cache.Store(key, resp.Body)
	} else {
		warnCtx := s.logg.WithField(ctx, "status_code", resp.StatusCode)
		s.logg.Warn(warnCtx, "upstream returned non-success status")
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	return &Result{
		StatusCode:  resp.StatusCode,
		Body:        resp.Body,
		ContentType: contentType,
	}, nil
}

func validatePayload(payload []byte) error {
	if len(strings.TrimSpace(string(payload))) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "request body is required")
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(payload, &body); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "request body must be a JSON object")
	}

	query, ok := body["query"]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "query field is required")
	}
	var queryText string
	if err := json.Unmarshal(query, &queryText); err != nil || strings.TrimSpace(queryText) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "query field must be a non-empty string")
	}
	return nil
}
