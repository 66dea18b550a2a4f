package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NEWSPIE_NEWSAPI_KEY", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q, want :8080", cfg.HTTP.Addr)
	}
	if cfg.News.PageSize != 9 {
		t.Errorf("News.PageSize = %d, want 9", cfg.News.PageSize)
	}
	if cfg.Cache.Driver != CacheMemory {
		t.Errorf("Cache.Driver = %q, want %q", cfg.Cache.Driver, CacheMemory)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("Cache.TTL = %v, want 5m", cfg.Cache.TTL)
	}
	if cfg.NewsAPI.Timeout != 10*time.Second {
		t.Errorf("NewsAPI.Timeout = %v, want 10s", cfg.NewsAPI.Timeout)
	}
	if cfg.NewsAPI.TopHeadlinesURL != "https://newsapi.org/v2/top-headlines" {
		t.Errorf("NewsAPI.TopHeadlinesURL = %q", cfg.NewsAPI.TopHeadlinesURL)
	}
	if cfg.NewsAPI.Burst != 1 {
		t.Errorf("NewsAPI.Burst = %d, want 1", cfg.NewsAPI.Burst)
	}
	if cfg.IsSQLCache() {
		t.Error("IsSQLCache = true for memory driver")
	}
}

func TestLoad_LegacyKeyVariable(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "legacy")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NewsAPI.Key != "legacy" {
		t.Errorf("NewsAPI.Key = %q, want legacy", cfg.NewsAPI.Key)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("NEWSPIE_NEWSAPI_KEY", "secret")
	t.Setenv("NEWSPIE_NEWS_PAGE_SIZE", "20")
	t.Setenv("NEWSPIE_CACHE_DRIVER", "SQLite3")
	t.Setenv("NEWSPIE_CACHE_DSN", "file:cache.db")
	t.Setenv("NEWSPIE_CACHE_TTL", "90s")
	t.Setenv("NEWSPIE_NEWSAPI_RATE_LIMIT", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.News.PageSize != 20 {
		t.Errorf("News.PageSize = %d, want 20", cfg.News.PageSize)
	}
	if cfg.Cache.Driver != CacheSQLite || !cfg.IsSQLCache() {
		t.Errorf("Cache.Driver = %q, want sqlite3", cfg.Cache.Driver)
	}
	if cfg.Cache.TTL != 90*time.Second {
		t.Errorf("Cache.TTL = %v, want 90s", cfg.Cache.TTL)
	}
	if cfg.NewsAPI.RateLimit != 2.5 {
		t.Errorf("NewsAPI.RateLimit = %v, want 2.5", cfg.NewsAPI.RateLimit)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantSub string
	}{
		{
			name:    "missing key",
			env:     map[string]string{},
			wantSub: "NEWSPIE_NEWSAPI_KEY",
		},
		{
			name:    "zero page size",
			env:     map[string]string{"NEWSPIE_NEWSAPI_KEY": "k", "NEWSPIE_NEWS_PAGE_SIZE": "0"},
			wantSub: "NEWSPIE_NEWS_PAGE_SIZE",
		},
		{
			name:    "bad ttl",
			env:     map[string]string{"NEWSPIE_NEWSAPI_KEY": "k", "NEWSPIE_CACHE_TTL": "soon"},
			wantSub: "NEWSPIE_CACHE_TTL",
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"NEWSPIE_NEWSAPI_KEY": "k", "NEWSPIE_CACHE_DRIVER": "memcached"},
			wantSub: "NEWSPIE_CACHE_DRIVER",
		},
		{
			name:    "redis without dsn",
			env:     map[string]string{"NEWSPIE_NEWSAPI_KEY": "k", "NEWSPIE_CACHE_DRIVER": "redis"},
			wantSub: "NEWSPIE_CACHE_DSN",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NEWS_API_KEY", "")
			t.Setenv("NEWSPIE_NEWSAPI_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("Load = nil error, want error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}
