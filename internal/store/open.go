package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joestump/newspie/internal/config"
	"github.com/joestump/newspie/internal/db"
)

// Open builds the ResponseCache selected by cfg.Cache.Driver. SQL drivers
// have their schema migrated before use.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ResponseCache, error) {
	switch {
	case cfg.Cache.Driver == config.CacheNone:
		return NopCache{}, nil
	case cfg.Cache.Driver == config.CacheMemory:
		return NewMemoryCache(), nil
	case cfg.Cache.Driver == config.CacheRedis:
		client, err := NewRedisClient(ctx, cfg.Cache.DSN, logger)
		if err != nil {
			return nil, err
		}
		return NewRedisCache(client), nil
	case cfg.IsSQLCache():
		database, err := db.New(cfg.Cache.Driver, cfg.Cache.DSN)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(database, cfg.Cache.Driver); err != nil {
			_ = database.Close()
			return nil, err
		}
		return NewSQLCache(database), nil
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.Cache.Driver)
	}
}
