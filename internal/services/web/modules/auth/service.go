package auth

import (
	"context"
	"strings"

	"github.com/louisbranch/pageshell/internal/services/web/backend"
	"github.com/louisbranch/pageshell/internal/services/web/clientstate"
	apperrors "github.com/louisbranch/pageshell/internal/services/web/platform/errors"
)

type service struct{}

func newService() service {
	return service{}
}

func (service) session(ctx context.Context, client *clientstate.Client) (*backend.Session, error) {
	result := client.Auth.Session(ctx)
	if result.IsError() {
		return nil, result.Err
	}
	return result.Data, nil
}

func (service) user(ctx context.Context, client *clientstate.Client) (*backend.User, error) {
	result := client.Auth.User(ctx)
	if result.IsError() {
		return nil, result.Err
	}
	return result.Data, nil
}

func (service) signIn(ctx context.Context, client *clientstate.Client, creds backend.Credentials) (*backend.Session, error) {
	creds, err := normalizeCredentials(creds)
	if err != nil {
		return nil, err
	}
	return client.Auth.SignIn(ctx, creds)
}

func (service) signUp(ctx context.Context, client *clientstate.Client, creds backend.Credentials) (*backend.Session, error) {
	creds, err := normalizeCredentials(creds)
	if err != nil {
		return nil, err
	}
	return client.Auth.SignUp(ctx, creds)
}

func (service) signOut(ctx context.Context, client *clientstate.Client) error {
	return client.Auth.SignOut(ctx)
}

func normalizeCredentials(creds backend.Credentials) (backend.Credentials, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := creds.Validate(); err != nil {
		return creds, apperrors.E(apperrors.KindInvalidInput, err.Error())
	}
	return creds, nil
}
