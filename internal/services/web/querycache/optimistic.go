package querycache

import "context"

// Optimistic is a speculative update of one cached value:
//
//	Apply:    cancel reads of Key, snapshot it, write Merge(snapshot)
//	Rollback: write the snapshot back verbatim
//	Settle:   invalidate Key and every Also prefix
//
// Apply only writes when a snapshot exists; there is nothing to merge into
// otherwise.
type Optimistic[T any] struct {
	Cache *Client
	Key   Key
	Merge func(current T) T
	Also  []Key
}

// Snapshot is the state Apply captured for Rollback.
type Snapshot[T any] struct {
	Key     Key
	Data    T
	Existed bool
	prior   Result[any]
}

// Apply runs the speculative write and returns the snapshot.
func (o Optimistic[T]) Apply(ctx context.Context) Snapshot[T] {
	snap := Snapshot[T]{Key: o.Key}
	if o.Cache == nil {
		return snap
	}
	o.Cache.CancelQueries(o.Key)

	prior := o.Cache.Peek(o.Key)
	current, ok := Get[T](o.Cache, o.Key)
	if !ok {
		return snap
	}
	snap.Data = current
	snap.Existed = true
	snap.prior = prior
	if o.Merge != nil {
		o.Cache.SetQueryData(ctx, o.Key, o.Merge(current))
	}
	return snap
}

// Rollback restores the value and freshness captured by Apply.
func (o Optimistic[T]) Rollback(ctx context.Context, snap Snapshot[T]) {
	if o.Cache == nil || !snap.Existed {
		return
	}
	o.Cache.restore(ctx, snap.Key, snap.Data, snap.prior)
}

// Settle invalidates Key and Also so observers converge on server state.
func (o Optimistic[T]) Settle(ctx context.Context) {
	if o.Cache == nil {
		return
	}
	o.Cache.InvalidateQueries(ctx, o.Key)
	for _, prefix := range o.Also {
		o.Cache.InvalidateQueries(ctx, prefix)
	}
}

// restore writes a captured value back with its original metadata.
func (c *Client) restore(ctx context.Context, key Key, value any, prior Result[any]) {
	c.mu.Lock()
	e := c.entryLocked(key)
	e.gen++
	e.data = value
	e.hasData = true
	e.err = prior.Err
	e.status = prior.Status
	e.stale = prior.Stale
	e.updatedAt = prior.UpdatedAt
	r := e.result()
	listeners := e.listeners()
	c.mu.Unlock()

	c.snapshots.put(ctx, key, value, r.Stale, r.UpdatedAt)
	notify(listeners, r)
}
