package backend

import (
	"context"
	"net/http"
)

type unavailable struct{}

// Unavailable returns a Remote whose calls all fail with an unavailable
// error. It stands in when no backend URL is configured.
func Unavailable() Remote {
	return unavailable{}
}

func unavailableError() error {
	return &Error{Status: http.StatusServiceUnavailable, Code: CodeUnavailable, Message: "backend is not configured"}
}

func (unavailable) GetSession(context.Context) (*Session, error) { return nil, unavailableError() }
func (unavailable) GetUser(context.Context) (*User, error)       { return nil, unavailableError() }
func (unavailable) SignInWithPassword(context.Context, Credentials) (*Session, error) {
	return nil, unavailableError()
}
func (unavailable) SignUp(context.Context, Credentials) (*Session, error) {
	return nil, unavailableError()
}
func (unavailable) SignOut(context.Context) error             { return unavailableError() }
func (unavailable) Execute(context.Context, Query, any) error { return unavailableError() }
