package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/scottsberry/commerce-backend/api/routes"
	"github.com/scottsberry/commerce-backend/internal/cron"
	"github.com/scottsberry/commerce-backend/internal/proxy"
	"github.com/scottsberry/commerce-backend/internal/sales"
	"github.com/scottsberry/commerce-backend/pkg/bigquery"
	"github.com/scottsberry/commerce-backend/pkg/config"
	"github.com/scottsberry/commerce-backend/pkg/logger"
	"github.com/scottsberry/commerce-backend/pkg/metrics"
	"github.com/scottsberry/commerce-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	reportingZone, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		logg.Error(context.Background(), "failed to load reporting timezone", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	bigqueryClient, err := bigquery.NewClient(context.Background(), cfg.GCP, cfg.Warehouse, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap bigquery", err)
		os.Exit(1)
	}
	defer func() {
		if err := bigqueryClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing bigquery", err)
		}
	}()

	fetcher, err := sales.NewWarehouseFetcher(bigqueryClient, cfg.GCP.ProjectID, cfg.Warehouse, reportingZone)
	if err != nil {
		logg.Error(context.Background(), "failed to create warehouse fetcher", err)
		os.Exit(1)
	}

	store := sales.NewStore()
	refresher, err := sales.NewRefresher(fetcher, store, reportingZone, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create refresher", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	cronMetrics := metrics.NewCronJobMetrics(registry)
	proxyMetrics := metrics.NewProxyCacheMetrics(registry)

	upstream, err := proxy.NewClient(cfg.Centra)
	if err != nil {
		logg.Error(context.Background(), "failed to create upstream client", err)
		os.Exit(1)
	}
	proxyService := proxy.NewService(upstream, proxy.NewCache(cfg.Proxy.CacheTTL, proxyMetrics), proxyMetrics, logg)

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("warehouse_refresh"), cfg.Refresh.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create refresh lock", err)
		os.Exit(1)
	}
	scheduler, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(sales.NewRefreshJob(refresher)),
		Lock:     lock,
		Metrics:  cronMetrics,
		Interval: cfg.Refresh.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create scheduler", err)
		os.Exit(1)
	}

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	go func() {
		if err := scheduler.Run(schedulerCtx); err != nil && err != context.Canceled {
			logg.Error(schedulerCtx, "scheduler stopped unexpectedly", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			Redis:         redisClient,
			BigQuery:      bigqueryClient,
			Store:         store,
			Engine:        sales.NewEngine(reportingZone, logg),
			Refresher:     refresher,
			Proxy:         proxyService,
			ReportingZone: reportingZone,
			Registry:      registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
