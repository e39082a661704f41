package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/pageshell/internal/platform/storage/sqlitemigrate"
	webstorage "github.com/louisbranch/pageshell/internal/services/web/storage"
	"github.com/louisbranch/pageshell/internal/services/web/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for preferences and cache snapshots.
type Store struct {
	sqlDB *sql.DB
}

// Open opens and migrates a web SQLite store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetPreference loads one preference document.
func (s *Store) GetPreference(ctx context.Context, clientID, key string) ([]byte, bool, error) {
	if s == nil || s.sqlDB == nil {
		return nil, false, fmt.Errorf("storage is not configured")
	}
	clientID, key, err := requireClientKey(clientID, key)
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = s.sqlDB.QueryRowContext(
		ctx,
		`SELECT payload_json FROM ui_preferences WHERE client_id = ? AND pref_key = ?`,
		clientID,
		key,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get preference: %w", err)
	}
	return payload, true, nil
}

// PutPreference upserts one preference document.
func (s *Store) PutPreference(ctx context.Context, clientID, key string, payload []byte) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	clientID, key, err := requireClientKey(clientID, key)
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		return fmt.Errorf("preference payload is required")
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO ui_preferences (client_id, pref_key, payload_json, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(client_id, pref_key) DO UPDATE SET
		    payload_json = excluded.payload_json,
		    updated_at = excluded.updated_at`,
		clientID,
		key,
		payload,
		timeToUnixMillis(time.Now().UTC()),
	)
	if err != nil {
		return fmt.Errorf("put preference: %w", err)
	}
	return nil
}

// ListCacheEntries returns every snapshot stored for a client.
func (s *Store) ListCacheEntries(ctx context.Context, clientID string) ([]webstorage.CacheEntry, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, fmt.Errorf("client id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT client_id, cache_key, scope, payload_json, stale, refreshed_at, expires_at
		 FROM cache_entries
		 WHERE client_id = ?
		 ORDER BY cache_key`,
		clientID,
	)
	if err != nil {
		return nil, fmt.Errorf("list cache entries: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]webstorage.CacheEntry, 0)
	for rows.Next() {
		var entry webstorage.CacheEntry
		var staleInt int64
		var refreshedAt int64
		var expiresAt int64
		if err := rows.Scan(
			&entry.ClientID,
			&entry.CacheKey,
			&entry.Scope,
			&entry.PayloadBytes,
			&staleInt,
			&refreshedAt,
			&expiresAt,
		); err != nil {
			return nil, fmt.Errorf("scan cache entry: %w", err)
		}
		entry.Stale = staleInt != 0
		entry.RefreshedAt = unixMillisToTime(refreshedAt)
		entry.ExpiresAt = unixMillisToTime(expiresAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cache entries: %w", err)
	}
	return entries, nil
}

// PutCacheEntry upserts a cache snapshot.
func (s *Store) PutCacheEntry(ctx context.Context, entry webstorage.CacheEntry) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	clientID, cacheKey, err := requireClientKey(entry.ClientID, entry.CacheKey)
	if err != nil {
		return err
	}
	entry.Scope = strings.TrimSpace(entry.Scope)
	if entry.Scope == "" {
		return fmt.Errorf("cache scope is required")
	}
	if len(entry.PayloadBytes) == 0 {
		return fmt.Errorf("cache payload is required")
	}
	if entry.RefreshedAt.IsZero() {
		entry.RefreshedAt = time.Now().UTC()
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO cache_entries (
		    client_id, cache_key, scope, payload_json, stale, refreshed_at, expires_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(client_id, cache_key) DO UPDATE SET
		    scope = excluded.scope,
		    payload_json = excluded.payload_json,
		    stale = excluded.stale,
		    refreshed_at = excluded.refreshed_at,
		    expires_at = excluded.expires_at`,
		clientID,
		cacheKey,
		entry.Scope,
		entry.PayloadBytes,
		boolToInt(entry.Stale),
		timeToUnixMillis(entry.RefreshedAt),
		timeToUnixMillis(entry.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("put cache entry: %w", err)
	}
	return nil
}

// DeleteCacheEntry removes one snapshot.
func (s *Store) DeleteCacheEntry(ctx context.Context, clientID, cacheKey string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	clientID, cacheKey, err := requireClientKey(clientID, cacheKey)
	if err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM cache_entries WHERE client_id = ? AND cache_key = ?`,
		clientID,
		cacheKey,
	); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

// DeleteClientCache removes every snapshot for a client.
func (s *Store) DeleteClientCache(ctx context.Context, clientID string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return fmt.Errorf("client id is required")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM cache_entries WHERE client_id = ?`, clientID); err != nil {
		return fmt.Errorf("delete client cache: %w", err)
	}
	return nil
}

// DeleteExpiredCacheEntries removes snapshots whose expiry is at or before now.
// Rows without an expiry are kept.
func (s *Store) DeleteExpiredCacheEntries(ctx context.Context, now time.Time) (int64, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM cache_entries WHERE expires_at > 0 AND expires_at <= ?`,
		timeToUnixMillis(now),
	)
	if err != nil {
		return 0, fmt.Errorf("delete expired cache entries: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count expired cache entries: %w", err)
	}
	return deleted, nil
}

func requireClientKey(clientID, key string) (string, string, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return "", "", fmt.Errorf("client id is required")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", fmt.Errorf("key is required")
	}
	return clientID, key, nil
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

var _ webstorage.Store = (*Store)(nil)
