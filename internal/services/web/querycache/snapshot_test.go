package querycache

import (
	"context"
	"testing"
	"time"
)

type snapshotPost struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestSnapshotsWriteThroughAndSkipPrefixes(t *testing.T) {
	store := newFakeCacheStore()
	c := New(WithSnapshots(SnapshotConfig{
		Store:    store,
		ClientID: "client-1",
		Skip:     []Key{NewKey("auth")},
	}))
	ctx := context.Background()
	list := NewKey("posts", "list")

	Fetch(ctx, c, list, func(context.Context) ([]snapshotPost, error) {
		return []snapshotPost{{ID: "1", Title: "Hello"}}, nil
	})
	c.SetQueryData(ctx, NewKey("auth", "session"), "secret")

	row, ok := store.get("client-1", list)
	if !ok {
		t.Fatal("expected list snapshot")
	}
	if row.Scope != "posts" || string(row.PayloadBytes) != `[{"id":"1","title":"Hello"}]` {
		t.Fatalf("row = %+v payload=%s", row, row.PayloadBytes)
	}
	if _, ok := store.get("client-1", NewKey("auth", "session")); ok {
		t.Fatal("auth keys must never be stored")
	}

	c.InvalidateQueries(ctx, list)
	if row, _ := store.get("client-1", list); !row.Stale {
		t.Fatal("invalidation must mark the snapshot stale")
	}

	c.RemoveQueries(ctx, list)
	if _, ok := store.get("client-1", list); ok {
		t.Fatal("remove must delete the snapshot")
	}
}

func TestHydrateRestoresStaleSnapshots(t *testing.T) {
	clock := newFakeClock()
	store := newFakeCacheStore()
	cfg := SnapshotConfig{Store: store, ClientID: "client-1", TTL: time.Hour}
	ctx := context.Background()
	detail := NewKey("posts", "detail", "1")

	first := New(WithSnapshots(cfg), WithClock(clock.Now))
	first.SetQueryData(ctx, detail, snapshotPost{ID: "1", Title: "Saved"})

	second := New(WithSnapshots(cfg), WithClock(clock.Now))
	restored, err := second.Hydrate(ctx)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if restored != 1 {
		t.Fatalf("restored = %d, want 1", restored)
	}
	got, ok := Get[snapshotPost](second, detail)
	if !ok || got.Title != "Saved" {
		t.Fatalf("restored value = %+v, %v", got, ok)
	}
	if !second.Peek(detail).Stale {
		t.Fatal("restored entry must be stale")
	}

	calls := 0
	r := Fetch(ctx, second, detail, func(context.Context) (snapshotPost, error) {
		calls++
		return snapshotPost{ID: "1", Title: "Fresh"}, nil
	})
	if calls != 1 || r.Data.Title != "Fresh" {
		t.Fatalf("refetch = %+v, calls = %d", r, calls)
	}
}

func TestHydrateSkipsExpiredSnapshots(t *testing.T) {
	clock := newFakeClock()
	store := newFakeCacheStore()
	cfg := SnapshotConfig{Store: store, ClientID: "client-1", TTL: time.Minute}
	ctx := context.Background()

	New(WithSnapshots(cfg), WithClock(clock.Now)).SetQueryData(ctx, NewKey("posts", "list"), []snapshotPost{})
	clock.Advance(2 * time.Minute)

	restored, err := New(WithSnapshots(cfg), WithClock(clock.Now)).Hydrate(ctx)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if restored != 0 {
		t.Fatalf("restored = %d, want 0", restored)
	}
}

func TestClearPurgesClientSnapshots(t *testing.T) {
	store := newFakeCacheStore()
	c := New(WithSnapshots(SnapshotConfig{Store: store, ClientID: "client-1"}))
	ctx := context.Background()
	c.SetQueryData(ctx, NewKey("posts", "list"), []snapshotPost{})
	c.Clear(ctx)

	rows, _ := store.ListCacheEntries(ctx, "client-1")
	if len(rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(rows))
	}
	if len(store.purged) != 1 || store.purged[0] != "client-1" {
		t.Fatalf("purged = %v", store.purged)
	}
}
