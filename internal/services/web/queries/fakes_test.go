package queries

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/louisbranch/pageshell/internal/services/web/backend"
)

type fakeRemote struct {
	mu sync.Mutex

	session    *backend.Session
	user       *backend.User
	signIn     *backend.Session
	signInErr  error
	signOutErr error

	sessionCalls int
	userCalls    int
	signOuts     int

	queries []backend.Query
	execute func(q backend.Query) (any, error)
}

func (f *fakeRemote) GetSession(context.Context) (*backend.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessionCalls++
	return f.session, nil
}

func (f *fakeRemote) GetUser(context.Context) (*backend.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userCalls++
	return f.user, nil
}

func (f *fakeRemote) SignInWithPassword(_ context.Context, _ backend.Credentials) (*backend.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.signIn, nil
}

func (f *fakeRemote) SignUp(ctx context.Context, creds backend.Credentials) (*backend.Session, error) {
	return f.SignInWithPassword(ctx, creds)
}

func (f *fakeRemote) SignOut(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOuts++
	if f.signOutErr != nil {
		return f.signOutErr
	}
	f.session = nil
	f.user = nil
	return nil
}

// Execute records q and copies the handler's value into dest through JSON,
// the way the HTTP client decodes response bodies.
func (f *fakeRemote) Execute(_ context.Context, q backend.Query, dest any) error {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	execute := f.execute
	f.mu.Unlock()

	if execute == nil {
		return nil
	}
	value, err := execute(q)
	if err != nil {
		return err
	}
	if dest == nil || value == nil {
		return nil
	}
	data, err := json.Marshal(value)
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

func (f *fakeRemote) countQueries(op backend.Op) int {
	n := 0
	for _, q := range f.recorded() {
		if q.Op == op {
			n++
		}
	}
	return n
}
