package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/pageshell/internal/services/web/clientstate"
	"github.com/louisbranch/pageshell/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/pageshell/internal/services/web/platform/webctx"
)

// testServer mounts the ui routes behind a single fixed client.
type testServer struct {
	handler http.Handler
	client  *clientstate.Client
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	registry := clientstate.NewRegistry(clientstate.Config{})
	t.Cleanup(registry.Close)
	client := registry.Get(context.Background(), clientstate.NewID())

	mount, err := New(modulehandler.NewTestBase()).Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mount.Handler.ServeHTTP(w, r.WithContext(webctx.WithClient(r.Context(), client)))
	})
	return testServer{handler: handler, client: client}
}

func (s testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func decodeState(t *testing.T, rr *httptest.ResponseRecorder) modulehandler.StateResponse {
	t.Helper()

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var resp modulehandler.StateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode state %q: %v", rr.Body.String(), err)
	}
	return resp
}
