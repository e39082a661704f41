package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/louisbranch/pageshell/internal/services/web/backend"
	"github.com/louisbranch/pageshell/internal/services/web/clientstate"
	"github.com/louisbranch/pageshell/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/pageshell/internal/services/web/platform/webctx"
)

type fakeRemote struct {
	backend.Tables

	mu        sync.Mutex
	session   *backend.Session
	signIn    *backend.Session
	signInErr error
	creds     []backend.Credentials
	signOuts  int
}

func (f *fakeRemote) GetSession(context.Context) (*backend.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, nil
}

func (f *fakeRemote) GetUser(context.Context) (*backend.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return nil, nil
	}
	return f.session.User, nil
}

func (f *fakeRemote) SignInWithPassword(_ context.Context, creds backend.Credentials) (*backend.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creds = append(f.creds, creds)
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	f.session = f.signIn
	return f.signIn, nil
}

func (f *fakeRemote) SignUp(ctx context.Context, creds backend.Credentials) (*backend.Session, error) {
	return f.SignInWithPassword(ctx, creds)
}

func (f *fakeRemote) SignOut(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOuts++
	f.session = nil
	return nil
}

type testServer struct {
	handler http.Handler
	client  *clientstate.Client
}

func newTestServer(t *testing.T, remote backend.Remote) testServer {
	t.Helper()

	registry := clientstate.NewRegistry(clientstate.Config{Remote: func() backend.Remote { return remote }})
	t.Cleanup(registry.Close)
	client := registry.Get(context.Background(), clientstate.NewID())

	mount, err := New(modulehandler.NewTestBase()).Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	return testServer{
		client: client,
		handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mount.Handler.ServeHTTP(w, r.WithContext(webctx.WithClient(r.Context(), client)))
		}),
	}
}

func (s testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}
