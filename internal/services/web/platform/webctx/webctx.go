// Package webctx carries the resolved browser client through request
// contexts.
package webctx

import (
	"context"
	"net/http"

	"github.com/louisbranch/pageshell/internal/services/web/clientstate"
	"github.com/louisbranch/pageshell/internal/services/web/platform/clientcookie"
	"github.com/louisbranch/pageshell/internal/services/web/platform/httpx"
)

type clientKey struct{}

// WithClient returns ctx carrying client.
func WithClient(ctx context.Context, client *clientstate.Client) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, clientKey{}, client)
}

// Client returns the client carried by ctx, or nil.
func Client(ctx context.Context) *clientstate.Client {
	if ctx == nil {
		return nil
	}
	client, _ := ctx.Value(clientKey{}).(*clientstate.Client)
	return client
}

// ClientFromRequest returns the client resolved for r, or nil.
func ClientFromRequest(r *http.Request) *clientstate.Client {
	return Client(httpx.RequestContext(r))
}

// ResolveClient attaches the request's client to its context, issuing a
// client cookie on first contact. The client is held for the whole request,
// so streams keep it from being swept.
func ResolveClient(registry *clientstate.Registry, policy httpx.SchemePolicy) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if registry == nil {
				next.ServeHTTP(w, r)
				return
			}
			id, _ := clientcookie.Ensure(w, r, policy)
			client, release := registry.Acquire(r.Context(), id)
			defer release()
			next.ServeHTTP(w, r.WithContext(WithClient(r.Context(), client)))
		})
	}
}
