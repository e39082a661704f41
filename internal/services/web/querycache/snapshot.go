package querycache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/louisbranch/pageshell/internal/platform/timeouts"
	"github.com/louisbranch/pageshell/internal/services/web/storage"
)

// SnapshotConfig enables write-through persistence of cached values.
type SnapshotConfig struct {
	Store    storage.CacheStore
	ClientID string
	// TTL bounds how long a stored snapshot may be restored. Zero keeps
	// snapshots until they are overwritten or removed.
	TTL time.Duration
	// Skip lists key prefixes that never reach storage.
	Skip []Key
}

// WithSnapshots persists successful values to cfg.Store so Hydrate can
// restore them into a new Client.
func WithSnapshots(cfg SnapshotConfig) Option {
	return func(c *Client) {
		if cfg.Store == nil || cfg.ClientID == "" {
			return
		}
		c.snapshots = &snapshotter{cfg: cfg, now: c.now}
	}
}

type snapshotter struct {
	cfg SnapshotConfig
	now func() time.Time
}

func (s *snapshotter) persists(key Key) bool {
	if s == nil || len(key) == 0 {
		return false
	}
	for _, prefix := range s.cfg.Skip {
		if key.HasPrefix(prefix) {
			return false
		}
	}
	return true
}

func (s *snapshotter) context(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(context.WithoutCancel(ctx), timeouts.PreferenceWrite)
}

func (s *snapshotter) put(ctx context.Context, key Key, value any, stale bool, refreshedAt time.Time) {
	if !s.persists(key) {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		log.Printf("query snapshot encode client=%s key=%s: %v", s.cfg.ClientID, key, err)
		return
	}
	entry := storage.CacheEntry{
		ClientID:     s.cfg.ClientID,
		CacheKey:     key.String(),
		Scope:        key.Scope(),
		PayloadBytes: payload,
		Stale:        stale,
		RefreshedAt:  refreshedAt,
	}
	if s.cfg.TTL > 0 {
		entry.ExpiresAt = s.now().Add(s.cfg.TTL)
	}
	ctx, cancel := s.context(ctx)
	defer cancel()
	if err := s.cfg.Store.PutCacheEntry(ctx, entry); err != nil {
		log.Printf("query snapshot write client=%s key=%s: %v", s.cfg.ClientID, key, err)
	}
}

func (s *snapshotter) remove(ctx context.Context, key Key) {
	if !s.persists(key) {
		return
	}
	ctx, cancel := s.context(ctx)
	defer cancel()
	if err := s.cfg.Store.DeleteCacheEntry(ctx, s.cfg.ClientID, key.String()); err != nil {
		log.Printf("query snapshot delete client=%s key=%s: %v", s.cfg.ClientID, key, err)
	}
}

func (s *snapshotter) clear(ctx context.Context) {
	if s == nil {
		return
	}
	ctx, cancel := s.context(ctx)
	defer cancel()
	if err := s.cfg.Store.DeleteClientCache(ctx, s.cfg.ClientID); err != nil {
		log.Printf("query snapshot purge client=%s: %v", s.cfg.ClientID, err)
	}
}

// Hydrate loads stored snapshots as stale entries: readable at once through
// Get, refetched by the next Fetch. Keys already in memory are left alone.
// It returns how many entries were restored.
func (c *Client) Hydrate(ctx context.Context) (int, error) {
	if c == nil || c.snapshots == nil {
		return 0, nil
	}
	stored, err := c.snapshots.cfg.Store.ListCacheEntries(ctx, c.snapshots.cfg.ClientID)
	if err != nil {
		return 0, fmt.Errorf("list query snapshots: %w", err)
	}
	now := c.now()
	restored := 0
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, row := range stored {
		if !row.ExpiresAt.IsZero() && !row.ExpiresAt.After(now) {
			continue
		}
		key, err := ParseKey(row.CacheKey)
		if err != nil || !c.snapshots.persists(key) {
			continue
		}
		if _, exists := c.entries[key.String()]; exists {
			continue
		}
		e := c.entryLocked(key)
		e.data = json.RawMessage(row.PayloadBytes)
		e.hasData = true
		e.status = StatusSuccess
		e.stale = true
		e.updatedAt = row.RefreshedAt
		restored++
	}
	return restored, nil
}
