package feedback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/louisbranch/pageshell/internal/services/web/backend"
	"github.com/louisbranch/pageshell/internal/services/web/clientstate"
	"github.com/louisbranch/pageshell/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/pageshell/internal/services/web/platform/webctx"
	"github.com/louisbranch/pageshell/internal/services/web/routepath"
)

type fakeRemote struct {
	backend.Remote

	mu         sync.Mutex
	user       *backend.User
	executeErr error
	inserts    []string
}

func (f *fakeRemote) GetUser(context.Context) (*backend.User, error) {
	return f.user, nil
}

func (f *fakeRemote) Execute(_ context.Context, q backend.Query, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.executeErr != nil {
		return f.executeErr
	}
	body, err := json.Marshal(q.Body)
	if err != nil {
		return err
	}
	f.inserts = append(f.inserts, q.Table+" "+string(body))
	return nil
}

func (f *fakeRemote) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.inserts...)
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

func (s testServer) submit(text string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"feedback": text})
	req := httptest.NewRequest(http.MethodPost, routepath.Feedback, strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}
