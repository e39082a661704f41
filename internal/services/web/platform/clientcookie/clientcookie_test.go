package clientcookie

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/louisbranch/pageshell/internal/services/web/clientstate"
	"github.com/louisbranch/pageshell/internal/services/web/platform/httpx"
)

func TestRead(t *testing.T) {
	t.Parallel()

	if _, ok := Read(nil); ok {
		t.Fatal("expected nil request to have no client cookie")
	}
	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	if _, ok := Read(req); ok {
		t.Fatal("expected missing cookie")
	}

	req.AddCookie(&http.Cookie{Name: Name, Value: "not-a-uuid"})
	if _, ok := Read(req); ok {
		t.Fatal("malformed id accepted")
	}

	id := clientstate.NewID()
	req = httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	req.AddCookie(&http.Cookie{Name: Name, Value: id})
	got, ok := Read(req)
	if !ok || got != id {
		t.Fatalf("Read() = %q, %v", got, ok)
	}
}

func TestWriteSecureFollowsScheme(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		secure bool
	}{
		{name: "https", target: "https://app.example.test", secure: true},
		{name: "http", target: "http://app.example.test", secure: false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rr := httptest.NewRecorder()
			Write(rr, httptest.NewRequest(http.MethodGet, tc.target, nil), "c1", httpx.SchemePolicy{})
			cookie, err := http.ParseSetCookie(rr.Header().Get("Set-Cookie"))
			if err != nil {
				t.Fatalf("ParseSetCookie() error = %v", err)
			}
			if cookie.Name != Name || cookie.Value != "c1" || !cookie.HttpOnly || cookie.Path != "/" {
				t.Fatalf("cookie = %+v", cookie)
			}
			if cookie.Secure != tc.secure {
				t.Fatalf("secure = %v, want %v", cookie.Secure, tc.secure)
			}
		})
	}
}

func TestEnsure(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	id, fresh := Ensure(rr, httptest.NewRequest(http.MethodGet, "/", nil), httpx.SchemePolicy{})
	if !fresh || !clientstate.ValidID(id) {
		t.Fatalf("Ensure() = %q, %v", id, fresh)
	}
	if rr.Header().Get("Set-Cookie") == "" {
		t.Fatal("new id not written")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: Name, Value: id})
	rr = httptest.NewRecorder()
	again, fresh := Ensure(rr, req, httpx.SchemePolicy{})
	if fresh || again != id {
		t.Fatalf("Ensure() with cookie = %q, %v", again, fresh)
	}
	if rr.Header().Get("Set-Cookie") != "" {
		t.Fatal("existing id rewritten")
	}
}
