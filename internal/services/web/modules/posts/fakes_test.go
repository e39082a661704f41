package posts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/pageshell/internal/services/web/backend"
	"github.com/louisbranch/pageshell/internal/services/web/clientstate"
	"github.com/louisbranch/pageshell/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/pageshell/internal/services/web/platform/webctx"
	"github.com/louisbranch/pageshell/internal/services/web/queries"
)

// fakeTable is an in-memory posts table behind the backend query surface.
type fakeTable struct {
	backend.Auth

	mu       sync.Mutex
	rows     []queries.Post
	nextID   int
	now      time.Time
	writeErr error
	selects  int
}

func newFakeTable(rows ...queries.Post) *fakeTable {
	return &fakeTable{rows: rows, now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeTable) GetUser(context.Context) (*backend.User, error) {
	return nil, nil
}

func (f *fakeTable) Execute(_ context.Context, q backend.Query, dest any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := q.Validate(); err != nil {
		return &backend.Error{Status: http.StatusBadRequest, Message: err.Error()}
	}
	if q.Op != backend.OpSelect && f.writeErr != nil {
		return f.writeErr
	}
	switch q.Op {
	case backend.OpSelect:
		f.selects++
		matched := f.match(q.Filters)
		if q.One {
			if len(matched) != 1 {
				return &backend.Error{Status: http.StatusNotAcceptable, Code: backend.CodeNoRows}
			}
			return assign(matched[0], dest)
		}
		for _, order := range q.Orders {
			if order.Column == "created_at" && !order.Ascending {
				slices.SortStableFunc(matched, func(a, b queries.Post) int { return b.CreatedAt.Compare(a.CreatedAt) })
			}
		}
		return assign(matched, dest)
	case backend.OpInsert:
		var in []queries.CreatePostInput
		if err := assign(q.Body, &in); err != nil {
			return err
		}
		f.nextID++
		f.now = f.now.Add(time.Minute)
		post := queries.Post{ID: fmt.Sprintf("post-%d", f.nextID), Title: in[0].Title, Content: in[0].Content, CreatedAt: f.now}
		f.rows = append(f.rows, post)
		return assign(post, dest)
	case backend.OpUpdate:
		var fields struct {
			Title   *string `json:"title"`
			Content *string `json:"content"`
		}
		if err := assign(q.Body, &fields); err != nil {
			return err
		}
		for i, row := range f.rows {
			if !matches(row, q.Filters) {
				continue
			}
			if fields.Title != nil {
				row.Title = *fields.Title
			}
			if fields.Content != nil {
				row.Content = *fields.Content
			}
			f.rows[i] = row
			return assign(row, dest)
		}
		return &backend.Error{Status: http.StatusNotAcceptable, Code: backend.CodeNoRows}
	case backend.OpDelete:
		f.rows = slices.DeleteFunc(f.rows, func(row queries.Post) bool { return matches(row, q.Filters) })
		return nil
	}
	return nil
}

func (f *fakeTable) match(filters []backend.Filter) []queries.Post {
	var out []queries.Post
	for _, row := range f.rows {
		if matches(row, filters) {
			out = append(out, row)
		}
	}
	return out
}

func (f *fakeTable) selectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selects
}

func (f *fakeTable) titles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.rows))
	for _, row := range f.rows {
		out = append(out, row.Title)
	}
	return out
}

func matches(row queries.Post, filters []backend.Filter) bool {
	for _, filter := range filters {
		switch {
		case filter.Column == "id" && filter.Operator == "eq":
			if row.ID != filter.Value {
				return false
			}
		case filter.Column == "title" && filter.Operator == "ilike":
			needle := strings.ToLower(strings.Trim(filter.Value, "%"))
			if !strings.Contains(strings.ToLower(row.Title), needle) {
				return false
			}
		}
	}
	return true
}

func assign(value, dest any) error {
	if dest == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func seedPosts() []queries.Post {
	return []queries.Post{
		{ID: "p1", Title: "Channels", CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "p3", Title: "Generics in practice", CreatedAt: time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)},
		{ID: "p2", Title: "Error wrapping", CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
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

	m := New(modulehandler.NewTestBase())
	m.keepAlive = 20 * time.Millisecond
	mount, err := m.Mount()
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
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func decodePosts(t *testing.T, rr *httptest.ResponseRecorder) []queries.Post {
	t.Helper()
	var payload listResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode list %q: %v", rr.Body.String(), err)
	}
	return payload.Posts
}

func decodePost(t *testing.T, rr *httptest.ResponseRecorder) queries.Post {
	t.Helper()
	var payload postResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode post %q: %v", rr.Body.String(), err)
	}
	return payload.Post
}
