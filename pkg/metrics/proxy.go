package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ProxyCacheMetrics counts cache outcomes on the GraphQL proxy path.
type ProxyCacheMetrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
	upstream  prometheus.Counter
}

// NewProxyCacheMetrics registers the proxy cache metrics on the provided registerer.
func NewProxyCacheMetrics(reg prometheus.Registerer) *ProxyCacheMetrics {
	if reg == nil {
		return &ProxyCacheMetrics{}
	}
	hits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "proxy_cache_hits",
		Help: "GraphQL proxy responses served from cache.",
	})
	misses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "proxy_cache_misses",
		Help: "GraphQL proxy requests that missed the cache.",
	})
	evictions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "proxy_cache_evictions",
		Help: "Expired entries removed during cache sweeps.",
	})
	upstream := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "proxy_upstream_calls",
		Help: "Calls forwarded to the upstream commerce API.",
	})
	reg.MustRegister(hits, misses, evictions, upstream)
	return &ProxyCacheMetrics{
		hits:      hits,
		misses:    misses,
		evictions: evictions,
		upstream:  upstream,
	}
}

// IncHit counts a cache hit.
func (p *ProxyCacheMetrics) IncHit() {
	if p == nil || p.hits == nil {
		return
	}
	p.hits.Inc()
}

// IncMiss counts a cache miss.
func (p *ProxyCacheMetrics) IncMiss() {
	if p == nil || p.misses == nil {
		return
	}
	p.misses.Inc()
}

// AddEvictions counts entries dropped during a sweep.
func (p *ProxyCacheMetrics) AddEvictions(n int) {
	if p == nil || p.evictions == nil || n <= 0 {
		return
	}
	p.evictions.Add(float64(n))
}

// IncUpstreamCall counts a forwarded upstream request.
func (p *ProxyCacheMetrics) IncUpstreamCall() {
	if p == nil || p.upstream == nil {
		return
	}
	p.upstream.Inc()
}
