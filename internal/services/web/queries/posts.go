package queries

import (
	"context"
	"strings"
	"time"

	"github.com/louisbranch/pageshell/internal/services/web/backend"
	"github.com/louisbranch/pageshell/internal/services/web/querycache"
)

const postsTable = "posts"

// Post is one row of the posts table.
type Post struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// CreatePostInput is the row inserted by Create.
type CreatePostInput struct {
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

// UpdatePostInput names a post and the fields to change. Nil fields are left
// untouched.
type UpdatePostInput struct {
	ID      string  `json:"id"`
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// Fields returns the columns this update writes.
func (in UpdatePostInput) Fields() map[string]any {
	fields := make(map[string]any, 2)
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Content != nil {
		fields["content"] = *in.Content
	}
	return fields
}

// Apply returns post with this update's fields merged over it.
func (in UpdatePostInput) Apply(post Post) Post {
	post.ID = in.ID
	if in.Title != nil {
		post.Title = *in.Title
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	return post
}

type postsKeys struct{}

// PostsKeys names the posts cache entries. Every key shares the All prefix;
// List(filter) shares the Lists prefix and Detail(id) the Details prefix.
var PostsKeys postsKeys

func (postsKeys) All() querycache.Key     { return querycache.NewKey("posts") }
func (k postsKeys) Lists() querycache.Key { return k.All().Append("list") }
func (k postsKeys) List(filter string) querycache.Key {
	return k.Lists().Append(filter)
}
func (k postsKeys) Details() querycache.Key { return k.All().Append("detail") }
func (k postsKeys) Detail(id string) querycache.Key {
	return k.Details().Append(id)
}

// Posts reads and writes posts through one client's cache.
type Posts struct {
	cache  *querycache.Client
	remote backend.Tables
}

// NewPosts binds the posts operations to one client's cache and remote.
func NewPosts(cache *querycache.Client, remote backend.Tables) *Posts {
	return &Posts{cache: cache, remote: remote}
}

// List reads every post, newest first. A successful result is never nil.
func (p *Posts) List(ctx context.Context) querycache.Result[[]Post] {
	return querycache.Fetch(ctx, p.cache, PostsKeys.Lists(), func(ctx context.Context) ([]Post, error) {
		return p.fetchPosts(ctx, backend.From(postsTable).Select("*"))
	})
}

// Search reads posts whose title contains term, newest first. A blank term
// is the same read as List.
func (p *Posts) Search(ctx context.Context, term string) querycache.Result[[]Post] {
	term = strings.TrimSpace(term)
	if term == "" {
		return p.List(ctx)
	}
	return querycache.Fetch(ctx, p.cache, PostsKeys.List(term), func(ctx context.Context) ([]Post, error) {
		return p.fetchPosts(ctx, backend.From(postsTable).Select("*").ILike("title", "%"+term+"%"))
	})
}

func (p *Posts) fetchPosts(ctx context.Context, q backend.Query) ([]Post, error) {
	var posts []Post
	if err := p.remote.Execute(ctx, q.Order("created_at", false), &posts); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []Post{}
	}
	return posts, nil
}

// Get reads one post. A blank id disables the read: no remote call is made
// and the result stays pending.
func (p *Posts) Get(ctx context.Context, id string) querycache.Result[Post] {
	id = strings.TrimSpace(id)
	return querycache.Fetch(ctx, p.cache, PostsKeys.Detail(id), func(ctx context.Context) (Post, error) {
		var post Post
		err := p.remote.Execute(ctx, backend.From(postsTable).Select("*").Eq("id", id).Single(), &post)
		return post, err
	}, querycache.WithEnabled(id != ""))
}

// WatchList calls fn whenever the cached post list changes until the
// returned function is called. A watched list is refetched on invalidation.
func (p *Posts) WatchList(fn func(querycache.Result[[]Post])) func() {
	key := PostsKeys.Lists()
	return p.cache.Observe(key, func(r querycache.Result[any]) {
		fn(querycache.Typed[[]Post](key, r))
	})
}

// Create inserts a post and invalidates every cached list.
func (p *Posts) Create(ctx context.Context, in CreatePostInput) (Post, error) {
	m := querycache.Mutation[CreatePostInput, Post, struct{}]{
		Fn: func(ctx context.Context, in CreatePostInput) (Post, error) {
			var post Post
			q := backend.From(postsTable).Insert([]CreatePostInput{in}).Select("*").Single()
			err := p.remote.Execute(ctx, q, &post)
			return post, err
		},
		OnSuccess: func(ctx context.Context, _ Post, _ CreatePostInput, _ struct{}) {
			p.cache.InvalidateQueries(ctx, PostsKeys.Lists())
		},
	}
	return m.Mutate(ctx, in)
}

// Update writes the changed fields of a post. The cached detail shows the
// change immediately, reverts if the write fails, and the detail and every
// list are refetched either way.
func (p *Posts) Update(ctx context.Context, in UpdatePostInput) (Post, error) {
	m := querycache.Mutation[UpdatePostInput, Post, querycache.Snapshot[Post]]{
		Fn: func(ctx context.Context, in UpdatePostInput) (Post, error) {
			var post Post
			q := backend.From(postsTable).Update(in.Fields()).Eq("id", in.ID).Select("*").Single()
			err := p.remote.Execute(ctx, q, &post)
			return post, err
		},
		OnMutate: func(ctx context.Context, in UpdatePostInput) querycache.Snapshot[Post] {
			return p.optimistic(in).Apply(ctx)
		},
		OnError: func(ctx context.Context, _ error, in UpdatePostInput, snap querycache.Snapshot[Post]) {
			p.optimistic(in).Rollback(ctx, snap)
		},
		OnSettled: func(ctx context.Context, _ Post, _ error, in UpdatePostInput, _ querycache.Snapshot[Post]) {
			p.optimistic(in).Settle(ctx)
		},
	}
	return m.Mutate(ctx, in)
}

func (p *Posts) optimistic(in UpdatePostInput) querycache.Optimistic[Post] {
	return querycache.Optimistic[Post]{
		Cache: p.cache,
		Key:   PostsKeys.Detail(in.ID),
		Merge: in.Apply,
		Also:  []querycache.Key{PostsKeys.Lists()},
	}
}

// Delete removes a post, drops its cached detail and invalidates every list.
func (p *Posts) Delete(ctx context.Context, id string) error {
	m := querycache.Mutation[string, struct{}, struct{}]{
		Fn: func(ctx context.Context, id string) (struct{}, error) {
			return struct{}{}, p.remote.Execute(ctx, backend.From(postsTable).Delete().Eq("id", id), nil)
		},
		OnSuccess: func(ctx context.Context, _ struct{}, id string, _ struct{}) {
			p.cache.RemoveQueries(ctx, PostsKeys.Detail(id))
			p.cache.InvalidateQueries(ctx, PostsKeys.Lists())
		},
	}
	_, err := m.Mutate(ctx, id)
	return err
}
