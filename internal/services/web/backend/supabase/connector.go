// Package supabase implements backend.Remote over the GoTrue auth and
// PostgREST row APIs of a hosted Supabase project.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/louisbranch/pageshell/internal/platform/timeouts"
	"github.com/louisbranch/pageshell/internal/services/web/backend"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	authPath = "/auth/v1"
	restPath = "/rest/v1"

	tracerName = "pageshell/backend"

	maxErrorBody = 64 << 10
)

// Config configures a Connector.
type Config struct {
	URL     string
	AnonKey string
	// JWTSecret verifies access tokens with HS256 when set. Without it,
	// token claims are read unverified, only to learn the expiry.
	JWTSecret  string
	HTTPClient *http.Client
	Clock      func() time.Time
}

// Connector holds what every browser client shares: the project URL, the
// anon key and the HTTP client.
type Connector struct {
	base       *url.URL
	anonKey    string
	jwtSecret  []byte
	httpClient *http.Client
	clock      func() time.Time
	tracer     trace.Tracer
}

// NewConnector validates cfg and builds a Connector.
func NewConnector(cfg Config) (*Connector, error) {
	rawURL := strings.TrimSpace(cfg.URL)
	if rawURL == "" {
		return nil, errors.New("backend url is required")
	}
	base, err := url.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend url %q must be http or https", rawURL)
	}
	anonKey := strings.TrimSpace(cfg.AnonKey)
	if anonKey == "" {
		return nil, errors.New("backend anon key is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeouts.BackendRequest}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Connector{
		base:       base,
		anonKey:    anonKey,
		jwtSecret:  []byte(strings.TrimSpace(cfg.JWTSecret)),
		httpClient: httpClient,
		clock:      clock,
		tracer:     otel.Tracer(tracerName),
	}, nil
}

// NewClient returns a Remote with its own, initially empty, auth session.
func (c *Connector) NewClient() *Client {
	return &Client{conn: c}
}

func (c *Connector) now() time.Time {
	return c.clock().UTC()
}

type request struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   any
	bearer string
}

// do sends req and decodes a 2xx JSON body into dest. Other statuses become
// *backend.Error.
func (c *Connector) do(ctx context.Context, span trace.Span, req request, dest any) error {
	endpoint := *c.base
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") + req.path
	endpoint.RawQuery = req.query.Encode()

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", req.path, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint.String(), body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", req.path, err)
	}
	for name, values := range req.header {
		for _, value := range values {
			httpReq.Header.Add(name, value)
		}
	}
	httpReq.Header.Set("apikey", c.anonKey)
	bearer := req.bearer
	if bearer == "" {
		bearer = c.anonKey
	}
	httpReq.Header.Set("Authorization", "Bearer "+bearer)
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s response: %w", req.path, err)
	}
	return nil
}

type errorBody struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"message"`
	Msg              string `json:"msg"`
}

// decodeError reads the GoTrue or PostgREST error shape.
func decodeError(resp *http.Response) error {
	out := &backend.Error{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body errorBody
	if len(data) > 0 && json.Unmarshal(data, &body) == nil {
		if code, ok := body.Code.(string); ok {
			out.Code = code
		}
		if out.Code == "" {
			out.Code = firstNonEmpty(body.ErrorCode, body.Error)
		}
		out.Message = firstNonEmpty(body.Message, body.Msg, body.ErrorDescription, body.Error)
	}
	if out.Message == "" {
		out.Message = http.StatusText(resp.StatusCode)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}

// startSpan opens a backend span; finish records err on it and ends it.
func (c *Connector) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "backend."+name, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
