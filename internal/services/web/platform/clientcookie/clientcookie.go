// Package clientcookie centralizes the browser client cookie: the opaque id
// that selects a client's UI store and query cache.
package clientcookie

import (
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/pageshell/internal/services/web/clientstate"
	"github.com/louisbranch/pageshell/internal/services/web/platform/httpx"
)

// Name is the canonical client cookie name.
const Name = "pageshell_client"

// MaxAge keeps the cookie, and with it the persisted preferences, for a
// year of inactivity.
const MaxAge = 365 * 24 * time.Hour

// Read returns the client id when the cookie holds a well-formed one.
func Read(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(Name)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if !clientstate.ValidID(value) {
		return "", false
	}
	return value, true
}

// Write sets the client cookie.
func Write(w http.ResponseWriter, r *http.Request, clientID string, policy httpx.SchemePolicy) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    strings.TrimSpace(clientID),
		Path:     "/",
		MaxAge:   int(MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   httpx.IsHTTPS(r, policy),
		SameSite: http.SameSiteLaxMode,
	})
}

// Ensure returns the request's client id, issuing a new one (and its
// cookie) when the request has none.
func Ensure(w http.ResponseWriter, r *http.Request, policy httpx.SchemePolicy) (string, bool) {
	if id, ok := Read(r); ok {
		return id, false
	}
	id := clientstate.NewID()
	Write(w, r, id, policy)
	return id, true
}
