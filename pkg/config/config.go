package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces all environment variables consumed by the service.
	EnvPrefix = "COMMERCE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App       AppConfig
	Redis     RedisConfig
	GCP       GCPConfig
	Warehouse WarehouseConfig
	Centra    CentraConfig
	Proxy     ProxyConfig
	Refresh   RefreshConfig
	Reporting ReportingConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"COMMERCE_APP_ENV" required:"true"`
	Port         string `envconfig:"COMMERCE_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"COMMERCE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"COMMERCE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"COMMERCE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"COMMERCE_REDIS_ADDR"`
	Password     string        `envconfig:"COMMERCE_REDIS_PASSWORD"`
	DB           int           `envconfig:"COMMERCE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"COMMERCE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"COMMERCE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"COMMERCE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"COMMERCE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"COMMERCE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"COMMERCE_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"COMMERCE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"COMMERCE_GOOGLE_APPLICATION_CREDENTIALS"`
}

// WarehouseConfig points at the BigQuery dataset holding the order-line and
// product-info tables.
type WarehouseConfig struct {
	Dataset          string        `envconfig:"COMMERCE_BIGQUERY_DATASET" default:"Info"`
	OrderLinesTable  string        `envconfig:"COMMERCE_BIGQUERY_ORDER_LINES_TABLE" default:"SKU_sb"`
	ProductInfoTable string        `envconfig:"COMMERCE_BIGQUERY_PRODUCT_INFO_TABLE" default:"sku_info"`
	FetchTimeout     time.Duration `envconfig:"COMMERCE_BIGQUERY_FETCH_TIMEOUT" default:"5m"`
}

// CentraConfig configures the upstream commerce GraphQL API.
type CentraConfig struct {
	URL     string        `envconfig:"COMMERCE_CENTRA_API_ENDPOINT" required:"true"`
	Token   string        `envconfig:"COMMERCE_CENTRA_API_TOKEN" required:"true"`
	Timeout time.Duration `envconfig:"COMMERCE_CENTRA_TIMEOUT" default:"30s"`
}

type ProxyConfig struct {
	CacheTTL        time.Duration `envconfig:"COMMERCE_PROXY_CACHE_TTL" default:"300s"`
	RateLimit       int64         `envconfig:"COMMERCE_PROXY_RATE_LIMIT" default:"100"`
	RateLimitWindow time.Duration `envconfig:"COMMERCE_PROXY_RATE_LIMIT_WINDOW" default:"1m"`
}

type RefreshConfig struct {
	Interval time.Duration `envconfig:"COMMERCE_REFRESH_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"COMMERCE_REFRESH_LOCK_TTL" default:"1h"`
}

// ReportingConfig fixes the zone all warehouse timestamps are interpreted in.
type ReportingConfig struct {
	Timezone string `envconfig:"COMMERCE_REPORTING_TIMEZONE" default:"Europe/Stockholm"`
}
