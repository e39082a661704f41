package queries

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/pageshell/internal/services/web/backend"
	"github.com/louisbranch/pageshell/internal/services/web/querycache"
)

// AuthStaleTime is how long session and user reads are served from cache.
const AuthStaleTime = 5 * time.Minute

// ErrNoSession reports a sign-in or sign-up that the backend accepted without
// returning a session.
var ErrNoSession = errors.New("no session returned")

type authKeys struct{}

// AuthKeys names the auth cache entries.
var AuthKeys authKeys

func (authKeys) All() querycache.Key     { return querycache.NewKey("auth") }
func (authKeys) Session() querycache.Key { return querycache.NewKey("auth", "session") }
func (authKeys) User() querycache.Key    { return querycache.NewKey("auth", "user") }

// Auth exposes session state and the sign-in lifecycle.
type Auth struct {
	cache  *querycache.Client
	remote backend.Auth
}

// NewAuth binds the auth operations to one client's cache and remote.
func NewAuth(cache *querycache.Client, remote backend.Auth) *Auth {
	return &Auth{cache: cache, remote: remote}
}

// Session reads the current session. A nil session is a valid "signed out"
// value, not an error.
func (a *Auth) Session(ctx context.Context) querycache.Result[*backend.Session] {
	return querycache.Fetch(ctx, a.cache, AuthKeys.Session(), a.remote.GetSession,
		querycache.WithStaleTime(AuthStaleTime))
}

// User reads the current user.
func (a *Auth) User(ctx context.Context) querycache.Result[*backend.User] {
	return querycache.Fetch(ctx, a.cache, AuthKeys.User(), a.remote.GetUser,
		querycache.WithStaleTime(AuthStaleTime))
}

// SignIn authenticates with a password and seeds the session and user
// entries from the returned session.
func (a *Auth) SignIn(ctx context.Context, creds backend.Credentials) (*backend.Session, error) {
	return a.sessionMutation(a.remote.SignInWithPassword).Mutate(ctx, creds)
}

// SignUp registers and signs in. It fails with ErrNoSession when the backend
// needs the account confirmed first.
func (a *Auth) SignUp(ctx context.Context, creds backend.Credentials) (*backend.Session, error) {
	return a.sessionMutation(a.remote.SignUp).Mutate(ctx, creds)
}

func (a *Auth) sessionMutation(
	call func(context.Context, backend.Credentials) (*backend.Session, error),
) querycache.Mutation[backend.Credentials, *backend.Session, struct{}] {
	return querycache.Mutation[backend.Credentials, *backend.Session, struct{}]{
		Fn: func(ctx context.Context, creds backend.Credentials) (*backend.Session, error) {
			session, err := call(ctx, creds)
			if err != nil {
				return nil, err
			}
			if session == nil {
				return nil, ErrNoSession
			}
			return session, nil
		},
		OnSuccess: func(ctx context.Context, session *backend.Session, _ backend.Credentials, _ struct{}) {
			a.cache.SetQueryData(ctx, AuthKeys.Session(), session)
			a.cache.SetQueryData(ctx, AuthKeys.User(), session.User)
		},
	}
}

// SignOut ends the session. On success the session and user read as nil
// and nothing else cached for the previous identity survives.
func (a *Auth) SignOut(ctx context.Context) error {
	m := querycache.Mutation[struct{}, struct{}, struct{}]{
		Fn: func(ctx context.Context, _ struct{}) (struct{}, error) {
			return struct{}{}, a.remote.SignOut(ctx)
		},
		OnSuccess: func(ctx context.Context, _ struct{}, _ struct{}, _ struct{}) {
			a.cache.Clear(ctx)
			a.cache.SetQueryData(ctx, AuthKeys.Session(), (*backend.Session)(nil))
			a.cache.SetQueryData(ctx, AuthKeys.User(), (*backend.User)(nil))
		},
	}
	_, err := m.Mutate(ctx, struct{}{})
	return err
}

// CurrentUser returns the signed-in user, or nil when signed out or when the
// user cannot be read.
func (a *Auth) CurrentUser(ctx context.Context) *backend.User {
	result := a.User(ctx)
	if result.IsError() {
		return nil
	}
	return result.Data
}
