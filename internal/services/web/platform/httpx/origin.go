package httpx

import (
	"net/http"
	"net/url"
	"strings"
)

// SchemePolicy controls how the request scheme is resolved.
//
// TrustForwardedProto must be enabled explicitly: X-Forwarded-Proto is only
// meaningful behind a proxy that overwrites it.
type SchemePolicy struct {
	TrustForwardedProto bool
}

// IsHTTPS reports whether r arrived over HTTPS under policy.
func IsHTTPS(r *http.Request, policy SchemePolicy) bool {
	return scheme(r, policy) == "https"
}

// SameOrigin rejects state-changing requests whose Origin (or Referer, when
// Origin is absent) names another origin. Safe methods pass through.
func SameOrigin(policy SchemePolicy) Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			if !sameOrigin(r, policy) {
				_ = WriteJSONError(w, http.StatusForbidden, "cross-origin request rejected")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type origin struct {
	scheme string
	host   string
	port   string
}

func sameOrigin(r *http.Request, policy SchemePolicy) bool {
	raw := strings.TrimSpace(r.Header.Get("Origin"))
	if raw == "" {
		raw = strings.TrimSpace(r.Header.Get("Referer"))
	}
	if raw == "" {
		return false
	}
	claimed, ok := parseOrigin(raw)
	if !ok {
		return false
	}
	host := r.Host
	if host == "" && r.URL != nil {
		host = r.URL.Host
	}
	served, ok := parseOrigin(scheme(r, policy) + "://" + host)
	if !ok {
		return false
	}
	return claimed == served
}

func parseOrigin(raw string) (origin, bool) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return origin{}, false
	}
	o := origin{
		scheme: strings.ToLower(parsed.Scheme),
		host:   strings.ToLower(parsed.Hostname()),
		port:   parsed.Port(),
	}
	if o.port == "" {
		switch o.scheme {
		case "https":
			o.port = "443"
		case "http":
			o.port = "80"
		}
	}
	if o.scheme == "" || o.host == "" || o.port == "" {
		return origin{}, false
	}
	return o, true
}

func scheme(r *http.Request, policy SchemePolicy) string {
	if r == nil {
		return ""
	}
	if policy.TrustForwardedProto {
		forwarded := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")))
		if forwarded == "http" || forwarded == "https" {
			return forwarded
		}
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
