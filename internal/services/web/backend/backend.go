// Package backend defines the remote call surface of the hosted backend:
// password auth plus row storage addressed by table name.
//
// Every call returns either a value or an error, never both.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// User is an authenticated account.
type User struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Metadata  map[string]any `json:"user_metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// AvatarURL returns the avatar_url metadata entry, if any.
func (u *User) AvatarURL() string {
	return u.metadataString("avatar_url")
}

// DisplayName returns full_name metadata, falling back to the email.
func (u *User) DisplayName() string {
	if name := u.metadataString("full_name"); name != "" {
		return name
	}
	if u == nil {
		return ""
	}
	return u.Email
}

func (u *User) metadataString(name string) string {
	if u == nil || u.Metadata == nil {
		return ""
	}
	value, _ := u.Metadata[name].(string)
	return strings.TrimSpace(value)
}

// Session is an authenticated session. Tokens never leave the server.
type Session struct {
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	TokenType    string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *User     `json:"user"`
}

// Expired reports whether the access token has expired at now.
func (s *Session) Expired(now time.Time) bool {
	if s == nil || s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.ExpiresAt)
}

// Credentials are an email and password pair.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that both fields are present.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return errors.New("email is required")
	}
	if c.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

// Auth is the auth half of the remote surface. A nil session or user with a
// nil error means "not authenticated".
type Auth interface {
	GetSession(ctx context.Context) (*Session, error)
	GetUser(ctx context.Context) (*User, error)
	SignInWithPassword(ctx context.Context, creds Credentials) (*Session, error)
	SignUp(ctx context.Context, creds Credentials) (*Session, error)
	SignOut(ctx context.Context) error
}

// Tables runs row queries. Execute decodes the rows, or the single row for
// Single queries, into dest; dest may be nil when no rows are wanted.
type Tables interface {
	Execute(ctx context.Context, q Query, dest any) error
}

// Remote is the full remote call surface.
type Remote interface {
	Auth
	Tables
}

// Error is a failure reported by the backend.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return "backend error"
	}
	parts := make([]string, 0, 3)
	if e.Status != 0 {
		parts = append(parts, fmt.Sprintf("status %d", e.Status))
	}
	if e.Code != "" {
		parts = append(parts, e.Code)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if len(parts) == 0 {
		return "backend error"
	}
	return "backend: " + strings.Join(parts, ": ")
}

// NotFound reports whether the backend found no row for a single-row query.
func (e *Error) NotFound() bool {
	if e == nil {
		return false
	}
	return e.Status == http.StatusNotFound || e.Code == CodeNoRows
}

// CodeNoRows is returned for Single queries that match no row.
const CodeNoRows = "PGRST116"

// CodeUnavailable marks errors from an unconfigured backend.
const CodeUnavailable = "unavailable"

// AsError unwraps a backend error from err.
func AsError(err error) (*Error, bool) {
	var backendErr *Error
	if errors.As(err, &backendErr) && backendErr != nil {
		return backendErr, true
	}
	return nil, false
}
