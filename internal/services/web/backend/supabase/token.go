package supabase

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/louisbranch/pageshell/internal/services/web/backend"
)

type tokenResponse struct {
	AccessToken  string        `json:"access_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int64         `json:"expires_in"`
	ExpiresAt    int64         `json:"expires_at"`
	RefreshToken string        `json:"refresh_token"`
	User         *backend.User `json:"user"`
}

// accessClaims is the subset of GoTrue access token claims we read.
type accessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// tokenExpiry reads the exp claim of an access token. With a secret the
// token must carry a valid HS256 signature.
func (c *Connector) tokenExpiry(token string) (time.Time, error) {
	var claims accessClaims
	if len(c.jwtSecret) > 0 {
		_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
			return c.jwtSecret, nil
		},
			jwt.WithValidMethods([]string{"HS256"}),
			jwt.WithoutClaimsValidation(),
		)
		if err != nil {
			return time.Time{}, fmt.Errorf("verify access token: %w", err)
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
			return time.Time{}, fmt.Errorf("parse access token: %w", err)
		}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return claims.ExpiresAt.Time.UTC(), nil
}

// session converts a token response, preferring the token's own exp claim
// over the response fields.
func (c *Connector) session(resp tokenResponse) (*backend.Session, error) {
	if resp.AccessToken == "" {
		return nil, nil
	}
	expiresAt, err := c.tokenExpiry(resp.AccessToken)
	if err != nil {
		return nil, err
	}
	if expiresAt.IsZero() {
		switch {
		case resp.ExpiresAt > 0:
			expiresAt = time.Unix(resp.ExpiresAt, 0).UTC()
		case resp.ExpiresIn > 0:
			expiresAt = c.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
		}
	}
	return &backend.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		TokenType:    resp.TokenType,
		ExpiresAt:    expiresAt,
		User:         resp.User,
	}, nil
}
