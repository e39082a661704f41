package querycache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/louisbranch/pageshell/internal/services/web/storage"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

type countingFetch[T any] struct {
	calls atomic.Int32
	value T
	err   error
}

func (f *countingFetch[T]) fetch(context.Context) (T, error) {
	f.calls.Add(1)
	if f.err != nil {
		var zero T
		return zero, f.err
	}
	return f.value, nil
}

type fakeCacheStore struct {
	mu      sync.Mutex
	entries map[string]storage.CacheEntry
	purged  []string
}

func newFakeCacheStore() *fakeCacheStore {
	return &fakeCacheStore{entries: map[string]storage.CacheEntry{}}
}

func (f *fakeCacheStore) ListCacheEntries(_ context.Context, clientID string) ([]storage.CacheEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []storage.CacheEntry
	for _, e := range f.entries {
		if e.ClientID == clientID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeCacheStore) PutCacheEntry(_ context.Context, entry storage.CacheEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[entry.ClientID+"|"+entry.CacheKey] = entry
	return nil
}

func (f *fakeCacheStore) DeleteCacheEntry(_ context.Context, clientID, cacheKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, clientID+"|"+cacheKey)
	return nil
}

func (f *fakeCacheStore) DeleteClientCache(_ context.Context, clientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, e := range f.entries {
		if e.ClientID == clientID {
			delete(f.entries, id)
		}
	}
	f.purged = append(f.purged, clientID)
	return nil
}

func (f *fakeCacheStore) DeleteExpiredCacheEntries(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeCacheStore) get(clientID string, key Key) (storage.CacheEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[clientID+"|"+key.String()]
	return e, ok
}
