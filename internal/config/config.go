package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cache drivers accepted by cache.driver.
const (
	CacheNone      = "none"
	CacheMemory    = "memory"
	CacheSQLite    = "sqlite3"
	CacheMySQL     = "mysql"
	CachePostgres  = "postgres"
	CacheSQLServer = "sqlserver"
	CacheRedis     = "redis"
)

type Config struct {
	HTTP struct {
		Addr            string
		ShutdownTimeout time.Duration
	}
	NewsAPI struct {
		Key             string
		TopHeadlinesURL string
		EverythingURL   string
		Timeout         time.Duration
		RateLimit       float64 // requests per second; 0 disables limiting
		Burst           int
	}
	News struct {
		PageSize    int
		CatalogPath string
	}
	Cache struct {
		Driver string
		DSN    string
		TTL    time.Duration
	}
	Log LogConfig
}

// LogConfig selects the level, format and destination of the server log.
type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// IsSQLCache reports whether the cache driver is backed by a SQL database.
func (c *Config) IsSQLCache() bool {
	switch c.Cache.Driver {
	case CacheSQLite, CacheMySQL, CachePostgres, CacheSQLServer:
		return true
	}
	return false
}

// Load reads config from environment (NEWSPIE_ prefix) and optional newspie.yaml.
// The returned value is treated as immutable by the rest of the program.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("NEWSPIE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("newspie")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	_ = v.BindEnv("newsapi.key", "NEWSPIE_NEWSAPI_KEY", "NEWS_API_KEY")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("newsapi.top_headlines_url", "https://newsapi.org/v2/top-headlines")
	v.SetDefault("newsapi.everything_url", "https://newsapi.org/v2/everything")
	v.SetDefault("newsapi.timeout", "10s")
	v.SetDefault("newsapi.rate_limit", 0)
	v.SetDefault("newsapi.burst", 1)
	v.SetDefault("news.page_size", 9)
	v.SetDefault("cache.driver", CacheMemory)
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.NewsAPI.Key = v.GetString("newsapi.key")
	cfg.NewsAPI.TopHeadlinesURL = v.GetString("newsapi.top_headlines_url")
	cfg.NewsAPI.EverythingURL = v.GetString("newsapi.everything_url")
	cfg.NewsAPI.RateLimit = v.GetFloat64("newsapi.rate_limit")
	cfg.NewsAPI.Burst = v.GetInt("newsapi.burst")
	cfg.News.PageSize = v.GetInt("news.page_size")
	cfg.News.CatalogPath = v.GetString("news.catalog")
	cfg.Cache.Driver = strings.ToLower(v.GetString("cache.driver"))
	cfg.Cache.DSN = v.GetString("cache.dsn")
	cfg.Log = LogConfig{
		Level:      v.GetString("log.level"),
		Format:     v.GetString("log.format"),
		File:       v.GetString("log.file"),
		MaxSizeMB:  v.GetInt("log.max_size_mb"),
		MaxBackups: v.GetInt("log.max_backups"),
		MaxAgeDays: v.GetInt("log.max_age_days"),
	}

	var err error
	if cfg.HTTP.ShutdownTimeout, err = duration(v, "http.shutdown_timeout"); err != nil {
		return nil, err
	}
	if cfg.NewsAPI.Timeout, err = duration(v, "newsapi.timeout"); err != nil {
		return nil, err
	}
	if cfg.Cache.TTL, err = duration(v, "cache.ttl"); err != nil {
		return nil, err
	}

	if cfg.NewsAPI.Key == "" {
		return nil, fmt.Errorf("NEWSPIE_NEWSAPI_KEY (or NEWS_API_KEY) is required")
	}
	if cfg.News.PageSize <= 0 {
		return nil, fmt.Errorf("NEWSPIE_NEWS_PAGE_SIZE must be positive, got %d", cfg.News.PageSize)
	}
	if cfg.NewsAPI.RateLimit < 0 {
		return nil, fmt.Errorf("NEWSPIE_NEWSAPI_RATE_LIMIT must not be negative")
	}
	if cfg.NewsAPI.Burst < 1 {
		cfg.NewsAPI.Burst = 1
	}
	switch cfg.Cache.Driver {
	case CacheNone, CacheMemory:
	case CacheSQLite, CacheMySQL, CachePostgres, CacheSQLServer, CacheRedis:
		if cfg.Cache.DSN == "" {
			return nil, fmt.Errorf("NEWSPIE_CACHE_DSN is required for cache driver %q", cfg.Cache.Driver)
		}
	default:
		return nil, fmt.Errorf("NEWSPIE_CACHE_DRIVER %q is not supported (none, memory, sqlite3, mysql, postgres, sqlserver, redis)", cfg.Cache.Driver)
	}

	return cfg, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		env := "NEWSPIE_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		return 0, fmt.Errorf("invalid %s: %w", env, err)
	}
	return d, nil
}
