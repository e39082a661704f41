package pages

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/louisbranch/pageshell/internal/services/web/backend"
	"github.com/louisbranch/pageshell/internal/services/web/clientstate"
	"github.com/louisbranch/pageshell/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/pageshell/internal/services/web/platform/webctx"
)

// fakeRemote answers post selects with rows and records them.
type fakeRemote struct {
	backend.Auth

	mu      sync.Mutex
	rows    any
	user    *backend.User
	err     error
	queries []backend.Query
}

func (f *fakeRemote) GetUser(context.Context) (*backend.User, error) {
	return f.user, nil
}

func (f *fakeRemote) Execute(_ context.Context, q backend.Query, dest any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return f.err
	}
	data, err := json.Marshal(f.rows)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeRemote) recorded() []backend.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]backend.Query(nil), f.queries...)
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

func (s testServer) get(path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}
