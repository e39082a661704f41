package pages

import (
	"context"
	"strings"

	"github.com/louisbranch/pageshell/internal/services/web/clientstate"
	"github.com/louisbranch/pageshell/internal/services/web/querycache"
	"github.com/louisbranch/pageshell/internal/services/web/queries"
)

type service struct{}

func newService() service {
	return service{}
}

func (service) posts(ctx context.Context, client *clientstate.Client) querycache.Result[[]queries.Post] {
	if client == nil {
		return querycache.Result[[]queries.Post]{}
	}
	return client.Posts.List(ctx)
}

// search reads results only for a non-blank term.
func (service) search(ctx context.Context, client *clientstate.Client, term string) (string, querycache.Result[[]queries.Post]) {
	term = strings.TrimSpace(term)
	if term == "" || client == nil {
		return term, querycache.Result[[]queries.Post]{}
	}
	return term, client.Posts.Search(ctx, term)
}
