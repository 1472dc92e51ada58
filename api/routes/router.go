package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scottsberry/commerce-backend/api/controllers"
	"github.com/scottsberry/commerce-backend/api/middleware"
	"github.com/scottsberry/commerce-backend/internal/proxy"
	"github.com/scottsberry/commerce-backend/internal/sales"
	"github.com/scottsberry/commerce-backend/pkg/config"
	"github.com/scottsberry/commerce-backend/pkg/logger"
	"github.com/scottsberry/commerce-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	Redis         *redis.Client
	BigQuery      controllers.Pinger
	Store         *sales.Store
	Engine        *sales.Engine
	Refresher     *sales.Refresher
	Proxy         *proxy.Service
	ReportingZone *time.Location
	Registry      *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.SecurityHeaders(),
	)

	readiness := map[string]controllers.Pinger{"bigquery": deps.BigQuery}
	if deps.Redis != nil {
		readiness["redis"] = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	graphqlPolicy := middleware.NewRateLimitPolicy(
		"graphql",
		cfg.Proxy.RateLimitWindow,
		cfg.Proxy.RateLimit,
	)

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.RateLimit(graphqlPolicy, deps.Redis, logg)).
			Post("/graphql", controllers.GraphQLProxy(deps.Proxy, logg))
		r.Get("/bq_sales", controllers.AggregatedSales(deps.Store, deps.Engine, deps.ReportingZone, logg))
		r.Post("/bq_sales/refresh", controllers.RefreshSales(deps.Refresher, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	return r
}
