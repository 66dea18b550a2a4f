// Package store caches upstream API responses for a short time so repeated
// page views do not each cost an upstream call.
package store

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a key is absent or its entry has expired.
var ErrNotFound = errors.New("not found")

// ResponseCache stores raw response bodies keyed by Key(requestURL).
// Implementations are safe for concurrent use.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
	// Prune deletes expired entries and reports how many were removed.
	Prune(ctx context.Context) (int64, error)
	Close() error
}

// Key derives a fixed-length cache key from the full outbound request URL.
func Key(requestURL string) string {
	h := sha256.Sum256([]byte(requestURL))
	return fmt.Sprintf("%x", h)
}

// NopCache never stores anything; every Get misses.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, error)               { return nil, ErrNotFound }
func (NopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NopCache) Prune(context.Context) (int64, error)                     { return 0, nil }
func (NopCache) Close() error                                             { return nil }
