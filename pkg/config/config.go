package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "KURVFO"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv                 = "KURVFO_APP_ENV"
	EnvPort                   = "KURVFO_APP_PORT"
	EnvLogLevel               = "KURVFO_LOG_LEVEL"
	EnvLogFormat              = "KURVFO_LOG_FORMAT"
	EnvCatalogDSN             = "KURVFO_CATALOG_DSN"
	EnvCatalogDriver          = "KURVFO_CATALOG_DRIVER"
	EnvCatalogHost            = "KURVFO_CATALOG_HOST"
	EnvCatalogUser            = "KURVFO_CATALOG_USER"
	EnvCatalogName            = "KURVFO_CATALOG_NAME"
	EnvCatalogPageSize        = "KURVFO_CATALOG_PAGE_SIZE"
	EnvCatalogCacheTTL        = "KURVFO_CATALOG_CACHE_TTL"
	EnvCatalogRefreshInterval = "KURVFO_CATALOG_REFRESH_INTERVAL"
	EnvCartBackend            = "KURVFO_CART_BACKEND"
	EnvCartStorageKey         = "KURVFO_CART_STORAGE_KEY"
	EnvCartSQLitePath         = "KURVFO_CART_SQLITE_PATH"
	EnvCartAutoMigrate        = "KURVFO_CART_AUTO_MIGRATE"
	EnvRedisURL               = "KURVFO_REDIS_URL"
	EnvRedisAddr              = "KURVFO_REDIS_ADDR"
)

var legacyCatalogEnvVars = []string{EnvCatalogHost, EnvCatalogUser, EnvCatalogName}

type Config struct {
	App     AppConfig
	Catalog CatalogConfig
	Cart    CartConfig
	DB      DBConfig
	Redis   RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Catalog.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KURVFO_APP_ENV" required:"true"`
	Port         string `envconfig:"KURVFO_APP_PORT" default:"8787"`
	LogLevel     string `envconfig:"KURVFO_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"KURVFO_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"KURVFO_LOG_WARN_STACK" default:"false"`

	// CORSOrigins overrides the dev server origins allowed to call the API.
	CORSOrigins []string `envconfig:"KURVFO_APP_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CatalogConfig points at the read-only deal source and tunes the query engine.
type CatalogConfig struct {
	DSN    string `envconfig:"KURVFO_CATALOG_DSN"`
	Driver string `envconfig:"KURVFO_CATALOG_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KURVFO_CATALOG_HOST"`
	LegacyPort     int    `envconfig:"KURVFO_CATALOG_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KURVFO_CATALOG_USER"`
	LegacyPassword string `envconfig:"KURVFO_CATALOG_PASSWORD"`
	LegacyName     string `envconfig:"KURVFO_CATALOG_NAME"`
	LegacySSLMode  string `envconfig:"KURVFO_CATALOG_SSLMODE" default:"require"`

	PageSize        int           `envconfig:"KURVFO_CATALOG_PAGE_SIZE" default:"20"`
	SimilarMax      int           `envconfig:"KURVFO_CATALOG_SIMILAR_MAX" default:"3"`
	HistoryLimit    int           `envconfig:"KURVFO_CATALOG_HISTORY_LIMIT" default:"12"`
	LoadTimeout     time.Duration `envconfig:"KURVFO_CATALOG_LOAD_TIMEOUT" default:"15s"`
	CacheTTL        time.Duration `envconfig:"KURVFO_CATALOG_CACHE_TTL" default:"0s"`
	BreakerFailures uint32        `envconfig:"KURVFO_CATALOG_BREAKER_FAILURES" default:"5"`
	BreakerCooldown time.Duration `envconfig:"KURVFO_CATALOG_BREAKER_COOLDOWN" default:"30s"`

	// RefreshInterval reloads the catalog periodically. Zero disables it.
	RefreshInterval time.Duration `envconfig:"KURVFO_CATALOG_REFRESH_INTERVAL" default:"0s"`
}

// CacheEnabled reports whether catalog snapshots should be cached in Redis.
func (c CatalogConfig) CacheEnabled() bool {
	return c.CacheTTL > 0
}

// CartConfig selects where the shopping list is persisted.
type CartConfig struct {
	Backend     string `envconfig:"KURVFO_CART_BACKEND" default:"sqlite"`
	StorageKey  string `envconfig:"KURVFO_CART_STORAGE_KEY" default:"kurvfo_cart"`
	SQLitePath  string `envconfig:"KURVFO_CART_SQLITE_PATH" default:"kurvfo.db"`
	AutoMigrate bool   `envconfig:"KURVFO_CART_AUTO_MIGRATE" default:"true"`
}

type DBConfig struct {
	MaxOpenConns    int           `envconfig:"KURVFO_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"KURVFO_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"KURVFO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KURVFO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KURVFO_REDIS_URL"`
	Address      string        `envconfig:"KURVFO_REDIS_ADDR"`
	Password     string        `envconfig:"KURVFO_REDIS_PASSWORD"`
	DB           int           `envconfig:"KURVFO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KURVFO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KURVFO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KURVFO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KURVFO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KURVFO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Configured reports whether any redis endpoint was supplied.
func (r RedisConfig) Configured() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

func (c *Config) validate() error {
	backend := strings.ToLower(strings.TrimSpace(c.Cart.Backend))
	switch backend {
	case "sqlite", "memory":
	case "redis":
		if !c.Redis.Configured() {
			return fmt.Errorf("%s=redis requires %s or %s", EnvCartBackend, EnvRedisURL, EnvRedisAddr)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvCartBackend, c.Cart.Backend)
	}
	c.Cart.Backend = backend

	if strings.TrimSpace(c.Cart.StorageKey) == "" {
		return fmt.Errorf("%s must not be empty", EnvCartStorageKey)
	}
	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("%s must be positive", EnvCatalogPageSize)
	}
	if c.Catalog.CacheEnabled() && !c.Redis.Configured() {
		return fmt.Errorf("%s requires %s or %s", EnvCatalogCacheTTL, EnvRedisURL, EnvRedisAddr)
	}
	if c.Catalog.RefreshInterval < 0 {
		return fmt.Errorf("%s must not be negative", EnvCatalogRefreshInterval)
	}
	return nil
}

func (c *CatalogConfig) ensureDSN() error {
	if c.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvCatalogHost: c.LegacyHost,
		EnvCatalogUser: c.LegacyUser,
		EnvCatalogName: c.LegacyName,
	}
	for _, env := range legacyCatalogEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvCatalogDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(c.LegacyUser)
	if c.LegacyPassword != "" {
		userInfo = url.UserPassword(c.LegacyUser, c.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", c.LegacyHost, c.LegacyPort),
		Path:   c.LegacyName,
	}

	if c.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", c.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	c.DSN = u.String()
	return nil
}
