package supabase

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/louisbranch/pageshell/internal/services/web/backend"
	"go.opentelemetry.io/otel/attribute"
)

// Client is the Remote of one browser client. It keeps that client's auth
// session in memory and authorizes row queries with it.
type Client struct {
	conn *Connector

	mu      sync.Mutex
	session *backend.Session
}

// GetSession returns the current session, refreshing it first when the
// access token has expired. No session is not an error.
func (c *Client) GetSession(ctx context.Context) (_ *backend.Session, err error) {
	ctx, span := c.conn.startSpan(ctx, "auth.get_session")
	defer func() { finish(span, err) }()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil, nil
	}
	if !c.session.Expired(c.conn.now()) {
		return cloneSession(c.session), nil
	}
	if c.session.RefreshToken == "" {
		c.session = nil
		return nil, nil
	}

	var resp tokenResponse
	err = c.conn.do(ctx, span, request{
		method: http.MethodPost,
		path:   authPath + "/token",
		query:  url.Values{"grant_type": {"refresh_token"}},
		body:   map[string]string{"refresh_token": c.session.RefreshToken},
	}, &resp)
	if err != nil {
		if backendErr, ok := backend.AsError(err); ok && backendErr.Status < http.StatusInternalServerError {
			c.session = nil
		}
		return nil, err
	}
	session, err := c.conn.session(resp)
	if err != nil {
		return nil, err
	}
	if session != nil && session.User == nil {
		session.User = c.session.User
	}
	c.session = session
	return cloneSession(session), nil
}

// GetUser asks the auth server for the user behind the current session.
func (c *Client) GetUser(ctx context.Context) (_ *backend.User, err error) {
	session, err := c.GetSession(ctx)
	if err != nil || session == nil {
		return nil, err
	}

	ctx, span := c.conn.startSpan(ctx, "auth.get_user")
	defer func() { finish(span, err) }()

	var user backend.User
	err = c.conn.do(ctx, span, request{
		method: http.MethodGet,
		path:   authPath + "/user",
		bearer: session.AccessToken,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SignInWithPassword exchanges credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, creds backend.Credentials) (_ *backend.Session, err error) {
	ctx, span := c.conn.startSpan(ctx, "auth.sign_in")
	defer func() { finish(span, err) }()

	var resp tokenResponse
	err = c.conn.do(ctx, span, request{
		method: http.MethodPost,
		path:   authPath + "/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   creds,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return c.store(resp)
}

// SignUp registers an account. The session is nil when the project requires
// email confirmation before sign-in.
func (c *Client) SignUp(ctx context.Context, creds backend.Credentials) (_ *backend.Session, err error) {
	ctx, span := c.conn.startSpan(ctx, "auth.sign_up")
	defer func() { finish(span, err) }()

	var resp tokenResponse
	err = c.conn.do(ctx, span, request{
		method: http.MethodPost,
		path:   authPath + "/signup",
		body:   creds,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return c.store(resp)
}

func (c *Client) store(resp tokenResponse) (*backend.Session, error) {
	session, err := c.conn.session(resp)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
	return cloneSession(session), nil
}

// SignOut revokes the session on the server and forgets it locally.
func (c *Client) SignOut(ctx context.Context) (err error) {
	ctx, span := c.conn.startSpan(ctx, "auth.sign_out")
	defer func() { finish(span, err) }()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	err = c.conn.do(ctx, span, request{
		method: http.MethodPost,
		path:   authPath + "/logout",
		bearer: c.session.AccessToken,
	}, nil)
	if err != nil {
		backendErr, ok := backend.AsError(err)
		if !ok || (backendErr.Status != http.StatusUnauthorized && backendErr.Status != http.StatusNotFound) {
			return err
		}
		err = nil
	}
	c.session = nil
	return nil
}

// Execute runs q against the row API.
func (c *Client) Execute(ctx context.Context, q backend.Query, dest any) (err error) {
	ctx, span := c.conn.startSpan(ctx, "rest."+q.Op.String(),
		attribute.String("db.collection.name", q.Table),
		attribute.Bool("backend.single", q.One),
	)
	defer func() { finish(span, err) }()

	if err = q.Validate(); err != nil {
		return err
	}
	req := restRequest(q)
	c.mu.Lock()
	if c.session != nil && !c.session.Expired(c.conn.now()) {
		req.bearer = c.session.AccessToken
	}
	c.mu.Unlock()
	if !q.Returning() {
		dest = nil
	}
	return c.conn.do(ctx, span, req, dest)
}

func restRequest(q backend.Query) request {
	req := request{
		path:   restPath + "/" + url.PathEscape(q.Table),
		query:  url.Values{},
		header: http.Header{},
		body:   q.Body,
	}
	switch q.Op {
	case backend.OpSelect:
		req.method = http.MethodGet
	case backend.OpInsert:
		req.method = http.MethodPost
	case backend.OpUpdate:
		req.method = http.MethodPatch
	case backend.OpDelete:
		req.method = http.MethodDelete
	}

	columns := q.Columns
	if q.Op == backend.OpSelect && columns == "" {
		columns = "*"
	}
	if columns != "" {
		req.query.Set("select", columns)
	}
	for _, f := range q.Filters {
		value := f.Value
		if f.Operator == "ilike" {
			value = strings.ReplaceAll(value, "%", "*")
		}
		req.query.Add(f.Column, f.Operator+"."+value)
	}
	if len(q.Orders) > 0 {
		parts := make([]string, 0, len(q.Orders))
		for _, o := range q.Orders {
			direction := "desc"
			if o.Ascending {
				direction = "asc"
			}
			parts = append(parts, o.Column+"."+direction)
		}
		req.query.Set("order", strings.Join(parts, ","))
	}
	if q.Op != backend.OpSelect {
		if q.Returning() {
			req.header.Set("Prefer", "return=representation")
		} else {
			req.header.Set("Prefer", "return=minimal")
		}
	}
	if q.One {
		req.header.Set("Accept", "application/vnd.pgrst.object+json")
	}
	return req
}

func cloneSession(s *backend.Session) *backend.Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.User != nil {
		user := *s.User
		out.User = &user
	}
	return &out
}

var _ backend.Remote = (*Client)(nil)
