package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/scottsberry/commerce-backend/internal/proxy"
)

type stubUpstream struct {
	calls    int
	response *proxy.UpstreamResponse
}

func (s *stubUpstream) Execute(_ context.Context, _ []byte) (*proxy.UpstreamResponse, error) {
	s.calls++
	return s.response, nil
}

func TestGraphQLProxy_ForwardsAndCaches(t *testing.T) {
	upstream := &stubUpstream{response: &proxy.UpstreamResponse{
		StatusCode:  http.StatusOK,
		Body:        []byte(`{"data":{"products":[]}}`),
		ContentType: "application/json",
	}}
	service := proxy.NewService(upstream, proxy.NewCache(5*time.Minute, nil), nil, testLogger())
	handler := GraphQLProxy(service, testLogger())

	body := `{"query":"{ products { id } }"}`

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/graphql", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Fatalf("expected cache miss on first call, got %q", got)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/graphql", strings.NewReader(body)))
	if got := rec.Header().Get("X-Cache"); got != "HIT" {
		t.Fatalf("expected cache hit on second call, got %q", got)
	}
	if upstream.calls != 1 {
		t.Fatalf("expected a single upstream call, got %d", upstream.calls)
	}
	if rec.Body.String() != `{"data":{"products":[]}}` {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestGraphQLProxy_PassesThroughUpstreamErrors(t *testing.T) {
	upstream := &stubUpstream{response: &proxy.UpstreamResponse{
		StatusCode:  http.StatusUnprocessableEntity,
		Body:        []byte(`{"errors":[{"message":"unknown field"}]}`),
		ContentType: "application/json",
	}}
	service := proxy.NewService(upstream, proxy.NewCache(5*time.Minute, nil), nil, testLogger())
	handler := GraphQLProxy(service, testLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/graphql",
		strings.NewReader(`{"query":"{ bogus }"}`)))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected upstream status to pass through, got %d", rec.Code)
	}
	if rec.Body.String() != `{"errors":[{"message":"unknown field"}]}` {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestGraphQLProxy_RejectsInvalidPayload(t *testing.T) {
	upstream := &stubUpstream{response: &proxy.UpstreamResponse{StatusCode: http.StatusOK}}
	service := proxy.NewService(upstream, proxy.NewCache(5*time.Minute, nil), nil, testLogger())
	handler := GraphQLProxy(service, testLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/graphql",
		strings.NewReader(`{"variables":{}}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if upstream.calls != 0 {
		t.Fatalf("invalid payloads must not reach upstream")
	}
}
