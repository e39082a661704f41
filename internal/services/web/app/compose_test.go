package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	module "github.com/louisbranch/pageshell/internal/services/web/module"
	"github.com/louisbranch/pageshell/internal/services/web/platform/httpx"
)

func noContent() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestComposeRejectsDuplicateModulePrefix(t *testing.T) {
	t.Parallel()

	_, err := Compose(ComposeInput{
		APIModules: []module.Module{
			stubModule{id: "one", mount: module.Mount{Prefix: "/api/one/", Handler: noContent()}},
			stubModule{id: "two", mount: module.Mount{Prefix: "/api/one/", Handler: noContent()}},
		},
	})
	if err == nil {
		t.Fatalf("expected duplicate prefix error")
	}
}

func TestComposeRejectsInvalidModulePrefixes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
	}{
		{name: "missing leading slash", prefix: "stats/"},
		{name: "missing trailing slash", prefix: "/stats"},
		{name: "contains surrounding whitespace", prefix: "/stats/ "},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Compose(ComposeInput{
				PageModules: []module.Module{
					stubModule{id: "bad", mount: module.Mount{Prefix: tc.prefix, Handler: noContent()}},
				},
			})
			if err == nil {
				t.Fatalf("expected invalid prefix error")
			}
			if got := err.Error(); !strings.Contains(got, "invalid prefix") || !strings.Contains(got, tc.prefix) || !strings.Contains(got, "bad") {
				t.Fatalf("unexpected error = %q", got)
			}
		})
	}
}

func TestComposeRejectsNilModules(t *testing.T) {
	t.Parallel()

	if _, err := Compose(ComposeInput{PageModules: []module.Module{nil}}); err == nil {
		t.Fatalf("expected nil page module error")
	}
	if _, err := Compose(ComposeInput{APIModules: []module.Module{nil}}); err == nil {
		t.Fatalf("expected nil api module error")
	}
}

func TestComposeRejectsMisplacedModules(t *testing.T) {
	t.Parallel()

	_, err := Compose(ComposeInput{
		APIModules: []module.Module{stubModule{id: "bad", mount: module.Mount{Prefix: "/stats/", Handler: noContent()}}},
	})
	if err == nil {
		t.Fatalf("expected api module prefix policy error")
	}
	_, err = Compose(ComposeInput{
		PageModules: []module.Module{stubModule{id: "bad", mount: module.Mount{Prefix: "/api/bad/", Handler: noContent()}}},
	})
	if err == nil {
		t.Fatalf("expected page module prefix policy error")
	}
}

func TestComposeRejectsMountFailure(t *testing.T) {
	t.Parallel()

	_, err := Compose(ComposeInput{
		PageModules: []module.Module{stubModule{id: "broken", err: http.ErrAbortHandler}},
	})
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Fatalf("Compose() error = %v, want mount failure naming the module", err)
	}
}

func TestComposeMountsSlashlessAPIAlias(t *testing.T) {
	t.Parallel()

	h, err := Compose(ComposeInput{
		PageModules: []module.Module{
			stubModule{id: "pages", mount: module.Mount{Prefix: "/", Handler: http.NotFoundHandler()}},
		},
		APIModules: []module.Module{
			stubModule{id: "posts", mount: module.Mount{Prefix: "/api/posts/", Handler: noContent()}},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	for _, path := range []string{"/api/posts", "/api/posts/p1"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusNoContent {
			t.Fatalf("%s status = %d, want %d", path, rr.Code, http.StatusNoContent)
		}
	}
}

func TestComposeRejectsCrossOriginAPIMutation(t *testing.T) {
	t.Parallel()

	h, err := Compose(ComposeInput{
		APIModules: []module.Module{
			stubModule{id: "ui", mount: module.Mount{Prefix: "/api/ui/", Handler: noContent()}},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	tests := []struct {
		name       string
		origin     string
		wantStatus int
	}{
		{name: "same origin", origin: "http://example.com", wantStatus: http.StatusNoContent},
		{name: "other origin", origin: "https://evil.example", wantStatus: http.StatusForbidden},
		{name: "missing proof", wantStatus: http.StatusForbidden},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "http://example.com/api/ui/theme", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
		})
	}
}

func TestComposeHonorsForwardedProtoPolicy(t *testing.T) {
	t.Parallel()

	build := func(policy httpx.SchemePolicy) http.Handler {
		h, err := Compose(ComposeInput{
			APIModules:          []module.Module{stubModule{id: "ui", mount: module.Mount{Prefix: "/api/ui/", Handler: noContent()}}},
			RequestSchemePolicy: policy,
		})
		if err != nil {
			t.Fatalf("Compose() error = %v", err)
		}
		return h
	}
	request := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "http://example.com/api/ui/theme", nil)
		req.Header.Set("Origin", "https://example.com")
		req.Header.Set("X-Forwarded-Proto", "https")
		return req
	}

	rr := httptest.NewRecorder()
	build(httpx.SchemePolicy{}).ServeHTTP(rr, request())
	if rr.Code != http.StatusForbidden {
		t.Fatalf("untrusted forwarded proto status = %d, want %d", rr.Code, http.StatusForbidden)
	}
	rr = httptest.NewRecorder()
	build(httpx.SchemePolicy{TrustForwardedProto: true}).ServeHTTP(rr, request())
	if rr.Code != http.StatusNoContent {
		t.Fatalf("trusted forwarded proto status = %d, want %d", rr.Code, http.StatusNoContent)
	}
}

func TestComposeLeavesPageModulesOpen(t *testing.T) {
	t.Parallel()

	h, err := Compose(ComposeInput{
		PageModules: []module.Module{
			stubModule{id: "pages", mount: module.Mount{Prefix: "/", Handler: noContent()}},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/stats", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
}

type stubModule struct {
	id    string
	mount module.Mount
	err   error
}

func (s stubModule) ID() string {
	return s.id
}

func (s stubModule) Mount() (module.Mount, error) {
	return s.mount, s.err
}
