package posts

import (
	"context"
	"strings"

	"github.com/louisbranch/pageshell/internal/services/web/clientstate"
	apperrors "github.com/louisbranch/pageshell/internal/services/web/platform/errors"
	"github.com/louisbranch/pageshell/internal/services/web/querycache"
	"github.com/louisbranch/pageshell/internal/services/web/queries"
)

type service struct{}

func newService() service {
	return service{}
}

func listResult(result querycache.Result[[]queries.Post]) ([]queries.Post, error) {
	if result.IsError() {
		return nil, result.Err
	}
	if result.Data == nil {
		return []queries.Post{}, nil
	}
	return result.Data, nil
}

func (service) list(ctx context.Context, client *clientstate.Client) ([]queries.Post, error) {
	return listResult(client.Posts.List(ctx))
}

func (service) search(ctx context.Context, client *clientstate.Client, term string) ([]queries.Post, error) {
	return listResult(client.Posts.Search(ctx, term))
}

func (service) get(ctx context.Context, client *clientstate.Client, id string) (queries.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return queries.Post{}, apperrors.E(apperrors.KindNotFound, "post not found")
	}
	result := client.Posts.Get(ctx, id)
	if result.IsError() {
		return queries.Post{}, result.Err
	}
	return result.Data, nil
}

func (service) create(ctx context.Context, client *clientstate.Client, in queries.CreatePostInput) (queries.Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return queries.Post{}, apperrors.E(apperrors.KindInvalidInput, "title is required")
	}
	return client.Posts.Create(ctx, in)
}

func (service) update(ctx context.Context, client *clientstate.Client, in queries.UpdatePostInput) (queries.Post, error) {
	in.ID = strings.TrimSpace(in.ID)
	if in.ID == "" {
		return queries.Post{}, apperrors.E(apperrors.KindNotFound, "post not found")
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return queries.Post{}, apperrors.E(apperrors.KindInvalidInput, "title cannot be blank")
		}
		in.Title = &title
	}
	if len(in.Fields()) == 0 {
		return queries.Post{}, apperrors.E(apperrors.KindInvalidInput, "nothing to update")
	}
	return client.Posts.Update(ctx, in)
}

func (service) delete(ctx context.Context, client *clientstate.Client, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.E(apperrors.KindNotFound, "post not found")
	}
	return client.Posts.Delete(ctx, id)
}
