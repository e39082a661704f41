package storage

import (
	"context"
	"time"
)

// CacheEntry stores one query cache snapshot and freshness metadata for a
// browser client.
type CacheEntry struct {
	ClientID     string
	CacheKey     string
	Scope        string
	PayloadBytes []byte
	Stale        bool
	RefreshedAt  time.Time
	ExpiresAt    time.Time
}

// PreferenceStore persists one small JSON document per client and key.
type PreferenceStore interface {
	GetPreference(ctx context.Context, clientID, key string) ([]byte, bool, error)
	PutPreference(ctx context.Context, clientID, key string, payload []byte) error
}

// CacheStore persists query cache snapshots.
type CacheStore interface {
	ListCacheEntries(ctx context.Context, clientID string) ([]CacheEntry, error)
	PutCacheEntry(ctx context.Context, entry CacheEntry) error
	DeleteCacheEntry(ctx context.Context, clientID, cacheKey string) error
	DeleteClientCache(ctx context.Context, clientID string) error
	DeleteExpiredCacheEntries(ctx context.Context, now time.Time) (int64, error)
}

// Store is the full persistence contract owned by the web service.
type Store interface {
	PreferenceStore
	CacheStore
	Close() error
}
