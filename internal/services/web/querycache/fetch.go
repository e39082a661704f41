package querycache

import (
	"context"
	"time"
)

type fetchOptions struct {
	enabled   bool
	staleTime time.Duration
	hasStale  bool
}

// FetchOption configures one Fetch call.
type FetchOption func(*fetchOptions)

// WithEnabled gates the fetch. A disabled query never calls its fetch
// function and reports FetchIdle.
func WithEnabled(enabled bool) FetchOption {
	return func(o *fetchOptions) {
		o.enabled = enabled
	}
}

// WithStaleTime overrides how long data stays fresh for this call.
func WithStaleTime(d time.Duration) FetchOption {
	return func(o *fetchOptions) {
		o.staleTime = d
		o.hasStale = true
	}
}

// Fetch returns the value of key, calling fn when the cached value is missing,
// stale or failed. Concurrent calls for one key share a single fn call.
func Fetch[T any](ctx context.Context, c *Client, key Key, fn FetchFunc[T], opts ...FetchOption) Result[T] {
	if c == nil {
		return Result[T]{Status: StatusError, Err: ErrNotConfigured}
	}
	o := fetchOptions{enabled: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if !o.hasStale {
		o.staleTime = c.staleTime
	}
	if !o.enabled || fn == nil {
		return convert[T](key, c.Peek(key))
	}
	if r, fresh := c.fresh(key, o.staleTime); fresh {
		return convert[T](key, r)
	}

	r, waitErr := c.fetch(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	r.Fetched = true
	if waitErr != nil {
		r.Err = waitErr
		r.Status = StatusError
	}
	return convert[T](key, r)
}

func (c *Client) fresh(key Key, staleTime time.Duration) (Result[any], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok || !e.hasData || e.err != nil || e.stale {
		return Result[any]{}, false
	}
	if c.now().Sub(e.updatedAt) >= staleTime {
		return Result[any]{}, false
	}
	return e.result(), true
}

// fetch runs fn for key, or joins the fetch already running, and returns the
// entry state once it settles. The error is only set when ctx ends first.
func (c *Client) fetch(ctx context.Context, key Key, fn fetchFunc) (Result[any], error) {
	id := key.String()
	c.mu.Lock()
	c.entryLocked(key).fetchFn = fn
	c.mu.Unlock()

	ch := c.group.DoChan(id, func() (any, error) {
		c.run(ctx, key, fn)
		return nil, nil
	})
	select {
	case <-ch:
		return c.Peek(key), nil
	case <-ctx.Done():
		return c.Peek(key), ctx.Err()
	}
}

// run executes one fetch. Its context keeps the caller's values but not its
// cancellation, since other callers may have joined; CancelQueries and the
// fetch timeout end it instead.
func (c *Client) run(parent context.Context, key Key, fn fetchFunc) {
	fetchCtx, cancel := context.WithCancel(context.WithoutCancel(parent))
	if c.fetchTimeout > 0 {
		var cancelTimeout context.CancelFunc
		fetchCtx, cancelTimeout = context.WithTimeout(fetchCtx, c.fetchTimeout)
		defer cancelTimeout()
	}
	defer cancel()

	f := &flight{cancel: cancel}
	c.mu.Lock()
	e := c.entryLocked(key)
	e.inflight = f
	gen := e.gen
	invalidations := e.invalidations
	started := e.result()
	listeners := e.listeners()
	c.mu.Unlock()
	notify(listeners, started)

	data, err := fn(fetchCtx)

	c.mu.Lock()
	e, ok := c.entries[key.String()]
	if ok && e.inflight == f {
		e.inflight = nil
	}
	if !ok || e.gen != gen {
		c.mu.Unlock()
		return
	}
	if err != nil {
		e.err = err
		e.status = StatusError
	} else {
		e.data = data
		e.hasData = true
		e.err = nil
		e.status = StatusSuccess
		e.updatedAt = c.now()
		e.stale = e.invalidations != invalidations
	}
	settled := e.result()
	listeners = e.listeners()
	c.mu.Unlock()

	if err == nil {
		c.snapshots.put(parent, key, data, settled.Stale, settled.UpdatedAt)
	}
	notify(listeners, settled)
}
