// Package web parses web service flags and launches the page shell server.
package web

import (
	"context"
	"flag"
	"fmt"
	"time"

	entrypoint "github.com/louisbranch/pageshell/internal/platform/cmd"
	"github.com/louisbranch/pageshell/internal/services/web"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr            string        `env:"PAGESHELL_WEB_HTTP_ADDR" envDefault:"localhost:8080"`
	AppName             string        `env:"PAGESHELL_WEB_APP_NAME" envDefault:"Pageshell"`
	BackendURL          string        `env:"PAGESHELL_WEB_BACKEND_URL"`
	BackendAnonKey      string        `env:"PAGESHELL_WEB_BACKEND_ANON_KEY"`
	BackendJWTSecret    string        `env:"PAGESHELL_WEB_BACKEND_JWT_SECRET"`
	DBPath              string        `env:"PAGESHELL_WEB_DB_PATH" envDefault:"data/web.db"`
	StaleTime           time.Duration `env:"PAGESHELL_WEB_CACHE_STALE_TIME" envDefault:"30s"`
	ClientIdleTTL       time.Duration `env:"PAGESHELL_WEB_CLIENT_IDLE_TTL" envDefault:"30m"`
	RequestTimeout      time.Duration `env:"PAGESHELL_WEB_REQUEST_TIMEOUT" envDefault:"10s"`
	TrustForwardedProto bool          `env:"PAGESHELL_WEB_TRUST_FORWARDED_PROTO" envDefault:"false"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.BackendURL, "backend-url", cfg.BackendURL, "Remote backend project URL")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite path for UI preferences and cache snapshots")
	fs.DurationVar(&cfg.StaleTime, "stale-time", cfg.StaleTime, "How long cached reads stay fresh")
	fs.DurationVar(&cfg.ClientIdleTTL, "client-idle-ttl", cfg.ClientIdleTTL, "How long an idle browser client stays in memory")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Trust X-Forwarded-Proto from a proxy")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the web server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		server, err := web.NewServer(web.Config{
			HTTPAddr:            cfg.HTTPAddr,
			AppName:             cfg.AppName,
			BackendURL:          cfg.BackendURL,
			BackendAnonKey:      cfg.BackendAnonKey,
			BackendJWTSecret:    cfg.BackendJWTSecret,
			DBPath:              cfg.DBPath,
			StaleTime:           cfg.StaleTime,
			ClientIdleTTL:       cfg.ClientIdleTTL,
			RequestTimeout:      cfg.RequestTimeout,
			TrustForwardedProto: cfg.TrustForwardedProto,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}
