package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/pageshell/internal/platform/timeouts"
	"github.com/louisbranch/pageshell/internal/services/web/app"
	"github.com/louisbranch/pageshell/internal/services/web/backend"
	"github.com/louisbranch/pageshell/internal/services/web/backend/supabase"
	"github.com/louisbranch/pageshell/internal/services/web/clientstate"
	"github.com/louisbranch/pageshell/internal/services/web/i18n"
	"github.com/louisbranch/pageshell/internal/services/web/modules"
	"github.com/louisbranch/pageshell/internal/services/web/palette"
	"github.com/louisbranch/pageshell/internal/services/web/platform/httpx"
	"github.com/louisbranch/pageshell/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/pageshell/internal/services/web/platform/observability"
	"github.com/louisbranch/pageshell/internal/services/web/platform/webctx"
	"github.com/louisbranch/pageshell/internal/services/web/routepath"
	"github.com/louisbranch/pageshell/internal/services/web/static"
	"github.com/louisbranch/pageshell/internal/services/web/storage/sqlite"
)

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr string
	AppName  string

	// BackendURL is the remote backend project URL. Empty serves every
	// client through an unavailable backend: pages render, reads fail.
	BackendURL       string
	BackendAnonKey   string
	BackendJWTSecret string

	// DBPath is the SQLite file for UI preferences and cache snapshots.
	// Empty keeps client state in memory only.
	DBPath string

	StaleTime           time.Duration
	ClientIdleTTL       time.Duration
	RequestTimeout      time.Duration
	TrustForwardedProto bool
}

// Server hosts the page shell and its API.
type Server struct {
	httpAddr    string
	httpServer  *http.Server
	store       *sqlite.Store
	registry    *clientstate.Registry
	stopSweeper context.CancelFunc
	sweeperDone chan struct{}
}

// NewServer builds the web server from config.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if err := i18n.Register(); err != nil {
		return nil, fmt.Errorf("register translations: %w", err)
	}
	catalog, err := palette.Load()
	if err != nil {
		return nil, fmt.Errorf("load command palette: %w", err)
	}

	remote, err := remoteFactory(config)
	if err != nil {
		return nil, err
	}

	var store *sqlite.Store
	registryCfg := clientstate.Config{
		Remote:       remote,
		StaleTime:    config.StaleTime,
		FetchTimeout: config.RequestTimeout,
		IdleTTL:      config.ClientIdleTTL,
	}
	if path := strings.TrimSpace(config.DBPath); path != "" {
		store, err = sqlite.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open web store: %w", err)
		}
		registryCfg.Store = store
	}
	registry := clientstate.NewRegistry(registryCfg)

	policy := httpx.SchemePolicy{TrustForwardedProto: config.TrustForwardedProto}
	handler, err := buildHandler(modulehandler.NewBase(config.AppName, catalog), registry, policy)
	if err != nil {
		registry.Close()
		if store != nil {
			_ = store.Close()
		}
		return nil, err
	}

	stopSweeper, sweeperDone := registry.StartSweeper(0)
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		store:       store,
		registry:    registry,
		stopSweeper: stopSweeper,
		sweeperDone: sweeperDone,
	}, nil
}

// remoteFactory opens one backend connection per client. Without a backend
// URL every client gets the unavailable backend.
func remoteFactory(config Config) (clientstate.RemoteFactory, error) {
	if strings.TrimSpace(config.BackendURL) == "" {
		log.Printf("backend url not configured; serving without a backend")
		return backend.Unavailable, nil
	}
	connector, err := supabase.NewConnector(supabase.Config{
		URL:        config.BackendURL,
		AnonKey:    config.BackendAnonKey,
		JWTSecret:  config.BackendJWTSecret,
		HTTPClient: &http.Client{Timeout: timeouts.BackendRequest},
	})
	if err != nil {
		return nil, fmt.Errorf("configure backend: %w", err)
	}
	return func() backend.Remote { return connector.NewClient() }, nil
}

// buildHandler composes modules and static assets behind the shared
// middleware stack.
func buildHandler(base modulehandler.Base, registry *clientstate.Registry, policy httpx.SchemePolicy) (http.Handler, error) {
	composed, err := app.BuildRootHandler(app.Config{
		PageModules:         modules.DefaultPageModules(base),
		APIModules:          modules.DefaultAPIModules(base),
		RequestSchemePolicy: policy,
	})
	if err != nil {
		return nil, fmt.Errorf("compose modules: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle(routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServerFS(static.FS)))
	// Probes never resolve a browser client.
	mux.HandleFunc(http.MethodGet+" "+routepath.Health, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle(routepath.Root, httpx.Chain(composed, webctx.ResolveClient(registry, policy)))

	return httpx.Chain(mux,
		httpx.RequestID(),
		observability.RequestLogger(nil),
		httpx.RecoverPanic(),
	), nil
}

// ListenAndServe serves HTTP traffic until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("web listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	if s == nil || s.httpServer == nil {
		return http.NotFoundHandler()
	}
	return s.httpServer.Handler
}

// Close stops the idle sweeper, flushes client state and closes the store.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.stopSweeper != nil {
		s.stopSweeper()
		<-s.sweeperDone
	}
	if s.registry != nil {
		s.registry.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close web store: %v", err)
		}
	}
}
