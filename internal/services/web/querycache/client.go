// Package querycache is a keyed cache of asynchronous query results for one
// browser client.
//
// Reads go through Fetch, which serves fresh data from memory and otherwise
// runs (or joins) a single fetch per key. Writes go through Mutation, whose
// lifecycle hooks update the cache directly (SetQueryData, RemoveQueries) or
// mark entries stale (InvalidateQueries). Optimistic packages the
// snapshot/merge/rollback/invalidate sequence used by speculative updates.
package querycache

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultStaleTime is how long fetched data is served without refetching.
	DefaultStaleTime = 30 * time.Second
)

// ErrNotConfigured is returned by operations on a nil Client.
var ErrNotConfigured = errors.New("query cache is not configured")

// FetchFunc loads the value of one query.
type FetchFunc[T any] func(ctx context.Context) (T, error)

type fetchFunc = func(ctx context.Context) (any, error)

// Listener observes every state change of one key.
type Listener func(Result[any])

// Option configures a Client.
type Option func(*Client)

// WithDefaultStaleTime sets the stale time used when Fetch gets no
// WithStaleTime option.
func WithDefaultStaleTime(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.staleTime = d
		}
	}
}

// WithFetchTimeout bounds each fetch. Zero disables the bound.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.fetchTimeout = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(clock func() time.Time) Option {
	return func(c *Client) {
		if clock != nil {
			c.clock = clock
		}
	}
}

type flight struct {
	cancel context.CancelFunc
}

type observer struct {
	id       uint64
	listener Listener
}

type entry struct {
	key       Key
	data      any
	hasData   bool
	err       error
	status    Status
	updatedAt time.Time
	stale     bool

	// gen changes whenever the entry is written outside a fetch; a fetch
	// that started under another gen drops its result.
	gen uint64
	// invalidations counts InvalidateQueries hits; a fetch that overlaps an
	// invalidation keeps its result stale.
	invalidations uint64
	inflight      *flight
	fetchFn       fetchFunc
	observers     []observer
}

func (e *entry) result() Result[any] {
	r := Result[any]{
		Data:      e.data,
		Err:       e.err,
		Status:    e.status,
		Stale:     e.stale,
		UpdatedAt: e.updatedAt,
	}
	if e.inflight != nil {
		r.FetchStatus = FetchFetching
	}
	return r
}

func (e *entry) listeners() []Listener {
	out := make([]Listener, 0, len(e.observers))
	for _, o := range e.observers {
		out = append(out, o.listener)
	}
	return out
}

// Client is the cache for one browser client. It is safe for concurrent use.
type Client struct {
	staleTime    time.Duration
	fetchTimeout time.Duration
	clock        func() time.Time
	snapshots    *snapshotter

	group singleflight.Group

	mu        sync.Mutex
	entries   map[string]*entry
	nextObsID uint64
}

// New builds an empty cache.
func New(opts ...Option) *Client {
	c := &Client{
		staleTime: DefaultStaleTime,
		clock:     time.Now,
		entries:   map[string]*entry{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *Client) now() time.Time {
	return c.clock().UTC()
}

func (c *Client) entryLocked(key Key) *entry {
	id := key.String()
	e, ok := c.entries[id]
	if !ok {
		e = &entry{key: NewKey(key...), status: StatusPending}
		c.entries[id] = e
	}
	return e
}

// matchLocked returns entries whose key starts with prefix.
func (c *Client) matchLocked(prefix Key) []*entry {
	var out []*entry
	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			out = append(out, e)
		}
	}
	return out
}

func notify(listeners []Listener, r Result[any]) {
	for _, l := range listeners {
		l(r)
	}
}

// Peek returns the current state of key without fetching.
func (c *Client) Peek(key Key) Result[any] {
	if c == nil {
		return Result[any]{Status: StatusError, Err: ErrNotConfigured}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok {
		return Result[any]{Status: StatusPending, Stale: true}
	}
	return e.result()
}

// GetQueryData returns the cached value of key, if any.
func (c *Client) GetQueryData(key Key) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok || !e.hasData {
		return nil, false
	}
	return e.data, true
}

// Get returns the cached value of key as T. It reports false when nothing is
// cached or the value has another type.
func Get[T any](c *Client, key Key) (T, bool) {
	var zero T
	value, ok := c.GetQueryData(key)
	if !ok {
		return zero, false
	}
	typed, err := as[T](value)
	if err != nil {
		return zero, false
	}
	return typed, true
}

// SetQueryData seeds key with value as fresh data, without a fetch. Any
// in-flight fetch for key is discarded when it completes.
func (c *Client) SetQueryData(ctx context.Context, key Key, value any) {
	if c == nil {
		return
	}
	c.mu.Lock()
	e := c.entryLocked(key)
	e.gen++
	e.data = value
	e.hasData = true
	e.err = nil
	e.status = StatusSuccess
	e.stale = false
	e.updatedAt = c.now()
	r := e.result()
	listeners := e.listeners()
	c.mu.Unlock()

	c.snapshots.put(ctx, key, value, false, r.UpdatedAt)
	notify(listeners, r)
}

// RemoveQueries evicts every entry under prefix. Observed keys stay
// registered with no data, and observers see a pending result.
func (c *Client) RemoveQueries(ctx context.Context, prefix Key) {
	if c == nil {
		return
	}
	c.mu.Lock()
	matched := c.matchLocked(prefix)
	type removal struct {
		key       Key
		listeners []Listener
	}
	removed := make([]removal, 0, len(matched))
	for _, e := range matched {
		c.evictLocked(e)
		removed = append(removed, removal{key: e.key, listeners: e.listeners()})
	}
	c.mu.Unlock()

	for _, r := range removed {
		c.snapshots.remove(ctx, r.key)
		notify(r.listeners, Result[any]{Status: StatusPending, Stale: true})
	}
}

// CancelQueries stops in-flight fetches under prefix. Cancelled entries keep
// their previous state.
func (c *Client) CancelQueries(prefix Key) {
	if c == nil {
		return
	}
	type cancelled struct {
		r         Result[any]
		listeners []Listener
	}
	var out []cancelled
	c.mu.Lock()
	for _, e := range c.matchLocked(prefix) {
		if e.inflight == nil {
			continue
		}
		c.cancelLocked(e)
		out = append(out, cancelled{r: e.result(), listeners: e.listeners()})
	}
	c.mu.Unlock()
	for _, o := range out {
		notify(o.listeners, o.r)
	}
}

func (c *Client) cancelLocked(e *entry) {
	if e.inflight == nil {
		return
	}
	e.inflight.cancel()
	e.inflight = nil
	e.gen++
	c.group.Forget(e.key.String())
}

// evictLocked forgets everything cached for e. Entries with observers are
// kept as empty placeholders so the observers survive.
func (c *Client) evictLocked(e *entry) {
	c.cancelLocked(e)
	if len(e.observers) == 0 {
		delete(c.entries, e.key.String())
		return
	}
	e.gen++
	e.data = nil
	e.hasData = false
	e.err = nil
	e.status = StatusPending
	e.stale = true
	e.updatedAt = time.Time{}
}

// InvalidateQueries marks every entry under prefix stale and refetches the
// ones that have observers and a known fetch function. Refetches run before
// InvalidateQueries returns.
func (c *Client) InvalidateQueries(ctx context.Context, prefix Key) {
	if c == nil {
		return
	}
	type refetch struct {
		key Key
		fn  fetchFunc
	}
	type marked struct {
		key       Key
		data      any
		hasData   bool
		updatedAt time.Time
		r         Result[any]
		listeners []Listener
	}
	var refetches []refetch
	var marks []marked

	c.mu.Lock()
	for _, e := range c.matchLocked(prefix) {
		e.stale = true
		e.invalidations++
		if len(e.observers) > 0 && e.fetchFn != nil {
			c.cancelLocked(e)
			refetches = append(refetches, refetch{key: e.key, fn: e.fetchFn})
		}
		marks = append(marks, marked{
			key:       e.key,
			data:      e.data,
			hasData:   e.hasData,
			updatedAt: e.updatedAt,
			r:         e.result(),
			listeners: e.listeners(),
		})
	}
	c.mu.Unlock()

	for _, m := range marks {
		if m.hasData {
			c.snapshots.put(ctx, m.key, m.data, true, m.updatedAt)
		}
		notify(m.listeners, m.r)
	}
	for _, r := range refetches {
		if _, err := c.fetch(ctx, r.key, r.fn); err != nil {
			log.Printf("query refetch key=%s: %v", r.key, err)
		}
	}
}

// Clear drops every entry and every stored snapshot.
func (c *Client) Clear(ctx context.Context) {
	if c == nil {
		return
	}
	c.mu.Lock()
	var listeners []Listener
	for _, e := range c.entries {
		c.evictLocked(e)
		listeners = append(listeners, e.listeners()...)
	}
	c.mu.Unlock()

	c.snapshots.clear(ctx)
	notify(listeners, Result[any]{Status: StatusPending, Stale: true})
}

// Keys lists every cached key.
func (c *Client) Keys() []Key {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Key, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, NewKey(e.key...))
	}
	return out
}

// Observe registers listener for key. Observed entries are refetched when
// invalidated. The returned func removes the registration.
func (c *Client) Observe(key Key, listener Listener) func() {
	if c == nil || listener == nil {
		return func() {}
	}
	c.mu.Lock()
	c.nextObsID++
	id := c.nextObsID
	e := c.entryLocked(key)
	e.observers = append(e.observers, observer{id: id, listener: listener})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			e, ok := c.entries[key.String()]
			if !ok {
				return
			}
			for i, o := range e.observers {
				if o.id == id {
					e.observers = append(e.observers[:i:i], e.observers[i+1:]...)
					break
				}
			}
			if len(e.observers) == 0 && !e.hasData && e.inflight == nil && e.err == nil {
				delete(c.entries, key.String())
			}
		})
	}
}
