// Package clientstate keeps the per-browser state of the web service: one UI
// store, one query cache and one backend session for each client cookie.
//
// Clients are built lazily on first request and dropped after an idle
// period. Persisted UI preferences and cache snapshots outlive the in-memory
// client, so a returning browser resumes where it left off.
package clientstate

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/louisbranch/pageshell/internal/services/web/backend"
	"github.com/louisbranch/pageshell/internal/services/web/querycache"
	"github.com/louisbranch/pageshell/internal/services/web/queries"
	webstorage "github.com/louisbranch/pageshell/internal/services/web/storage"
	"github.com/louisbranch/pageshell/internal/services/web/uistate"
)

const (
	// DefaultIdleTTL is how long an unused client stays in memory.
	DefaultIdleTTL = 30 * time.Minute
	// DefaultSnapshotTTL bounds how old a restored cache snapshot may be.
	DefaultSnapshotTTL = 24 * time.Hour
	sweepInterval      = time.Minute
)

// RemoteFactory opens the backend connection for one new client.
type RemoteFactory func() backend.Remote

// Config wires a Registry.
type Config struct {
	// Store persists UI preferences and cache snapshots. Nil keeps
	// everything in memory.
	Store webstorage.Store
	// Remote opens one backend connection per client. Nil serves every
	// client through backend.Unavailable.
	Remote       RemoteFactory
	StaleTime    time.Duration
	FetchTimeout time.Duration
	SnapshotTTL  time.Duration
	IdleTTL      time.Duration
	Clock        func() time.Time
}

// Client is the state owned by one browser.
type Client struct {
	ID       string
	UI       *uistate.Store
	Cache    *querycache.Client
	Remote   backend.Remote
	Auth     *queries.Auth
	Posts    *queries.Posts
	Feedback *queries.Feedback

	stopPersist func()

	mu       sync.Mutex
	lastSeen time.Time
	// active counts requests holding the client, long-lived streams
	// included. An active client is never idle.
	active int
}

func (c *Client) touch(now time.Time) {
	c.mu.Lock()
	c.lastSeen = now
	c.mu.Unlock()
}

func (c *Client) idleSince(now time.Time) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active > 0 {
		return 0, false
	}
	return now.Sub(c.lastSeen), true
}

// NewID returns a fresh client id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id has the shape NewID produces.
func ValidID(id string) bool {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	return err == nil && parsed.Version() == 4
}

// Registry owns every live Client.
type Registry struct {
	cfg Config

	mu      sync.Mutex
	clients map[string]*Client
}

// NewRegistry builds an empty registry.
func NewRegistry(cfg Config) *Registry {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	if cfg.SnapshotTTL <= 0 {
		cfg.SnapshotTTL = DefaultSnapshotTTL
	}
	if cfg.StaleTime <= 0 {
		cfg.StaleTime = querycache.DefaultStaleTime
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Remote == nil {
		cfg.Remote = backend.Unavailable
	}
	return &Registry{cfg: cfg, clients: map[string]*Client{}}
}

// Get returns the client for id, building it on first use. Storage failures
// while restoring state are logged and the client starts from defaults.
func (r *Registry) Get(ctx context.Context, id string) *Client {
	client := r.lookup(ctx, id)
	client.touch(r.cfg.Clock())
	return client
}

// Acquire returns the client for id and holds it until release is called.
// Held clients are skipped by Sweep; release marks the client as seen.
func (r *Registry) Acquire(ctx context.Context, id string) (*Client, func()) {
	id = strings.TrimSpace(id)
	for {
		client := r.lookup(ctx, id)
		r.mu.Lock()
		if r.clients[id] != client {
			// Swept between lookup and hold.
			r.mu.Unlock()
			continue
		}
		client.mu.Lock()
		client.active++
		client.lastSeen = r.cfg.Clock()
		client.mu.Unlock()
		r.mu.Unlock()

		var once sync.Once
		return client, func() {
			once.Do(func() {
				client.mu.Lock()
				client.active--
				client.lastSeen = r.cfg.Clock()
				client.mu.Unlock()
			})
		}
	}
}

// lookup returns the registered client for id, building one outside the
// registry lock when missing. When two first requests race, the loser's
// client is discarded.
func (r *Registry) lookup(ctx context.Context, id string) *Client {
	id = strings.TrimSpace(id)

	r.mu.Lock()
	client, ok := r.clients[id]
	r.mu.Unlock()
	if ok {
		return client
	}

	built := r.build(ctx, id)
	built.touch(r.cfg.Clock())

	r.mu.Lock()
	client, ok = r.clients[id]
	if !ok {
		r.clients[id] = built
	}
	r.mu.Unlock()
	if ok {
		built.stopPersist()
		built.Cache.CancelQueries(nil)
		return client
	}
	return built
}

func (r *Registry) build(ctx context.Context, id string) *Client {
	ui := uistate.NewStore()
	opts := []querycache.Option{
		querycache.WithDefaultStaleTime(r.cfg.StaleTime),
		querycache.WithClock(r.cfg.Clock),
	}
	if r.cfg.FetchTimeout > 0 {
		opts = append(opts, querycache.WithFetchTimeout(r.cfg.FetchTimeout))
	}

	client := &Client{ID: id, UI: ui, stopPersist: func() {}}
	if r.cfg.Store != nil {
		persister := uistate.NewPersister(ui, r.cfg.Store, id)
		if err := persister.Rehydrate(ctx); err != nil {
			log.Printf("ui preferences rehydrate client=%s: %v", id, err)
		}
		client.stopPersist = persister.Start()
		opts = append(opts, querycache.WithSnapshots(querycache.SnapshotConfig{
			Store:    r.cfg.Store,
			ClientID: id,
			TTL:      r.cfg.SnapshotTTL,
			Skip:     []querycache.Key{queries.AuthKeys.All()},
		}))
	}

	client.Cache = querycache.New(opts...)
	if n, err := client.Cache.Hydrate(ctx); err != nil {
		log.Printf("query snapshots hydrate client=%s: %v", id, err)
	} else if n > 0 {
		log.Printf("query snapshots hydrated client=%s entries=%d", id, n)
	}

	client.Remote = r.cfg.Remote()
	if client.Remote == nil {
		client.Remote = backend.Unavailable()
	}
	client.Auth = queries.NewAuth(client.Cache, client.Remote)
	client.Posts = queries.NewPosts(client.Cache, client.Remote)
	client.Feedback = queries.NewFeedback(client.Remote)
	return client
}

// Len reports how many clients are in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Sweep drops clients idle for longer than the idle TTL and purges expired
// cache snapshots. It returns how many clients were dropped.
func (r *Registry) Sweep(ctx context.Context) int {
	now := r.cfg.Clock()

	r.mu.Lock()
	var idle []*Client
	for id, client := range r.clients {
		if since, ok := client.idleSince(now); ok && since > r.cfg.IdleTTL {
			idle = append(idle, client)
			delete(r.clients, id)
		}
	}
	r.mu.Unlock()

	for _, client := range idle {
		client.stopPersist()
		client.Cache.CancelQueries(nil)
	}
	if r.cfg.Store != nil {
		if n, err := r.cfg.Store.DeleteExpiredCacheEntries(ctx, now); err != nil {
			log.Printf("query snapshots purge expired: %v", err)
		} else if n > 0 {
			log.Printf("query snapshots purged expired entries=%d", n)
		}
	}
	return len(idle)
}

// StartSweeper runs Sweep periodically until the returned cancel func is
// called. The done channel closes once the loop has exited.
func (r *Registry) StartSweeper(interval time.Duration) (context.CancelFunc, chan struct{}) {
	if interval <= 0 {
		interval = sweepInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Sweep(ctx)
			}
		}
	}()
	return cancel, done
}

// Close stops every client's persistence. The registry is empty afterwards.
func (r *Registry) Close() {
	r.mu.Lock()
	clients := r.clients
	r.clients = map[string]*Client{}
	r.mu.Unlock()
	for _, client := range clients {
		client.stopPersist()
	}
}
