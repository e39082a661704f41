package posts

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/louisbranch/pageshell/internal/services/web/platform/httpx"
	"github.com/louisbranch/pageshell/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/pageshell/internal/services/web/querycache"
	"github.com/louisbranch/pageshell/internal/services/web/queries"
	"github.com/louisbranch/pageshell/internal/services/web/routepath"
)

type handlers struct {
	modulehandler.Base
	service   service
	keepAlive time.Duration
}

func newHandlers(s service, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s, keepAlive: DefaultKeepAlive}
}

type listResponse struct {
	Posts []queries.Post `json:"posts"`
}

type postResponse struct {
	Post queries.Post `json:"post"`
}

func (h handlers) handleList(w http.ResponseWriter, r *http.Request) {
	client, ok := h.RequireClient(w, r)
	if !ok {
		return
	}
	posts, err := h.service.list(r.Context(), client)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, listResponse{Posts: posts})
}

func (h handlers) handleSearch(w http.ResponseWriter, r *http.Request) {
	client, ok := h.RequireClient(w, r)
	if !ok {
		return
	}
	posts, err := h.service.search(r.Context(), client, r.URL.Query().Get(routepath.PostsSearchQ))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, listResponse{Posts: posts})
}

func (h handlers) handleGet(w http.ResponseWriter, r *http.Request) {
	client, ok := h.RequireClient(w, r)
	if !ok {
		return
	}
	post, err := h.service.get(r.Context(), client, r.PathValue("postID"))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, postResponse{Post: post})
}

func (h handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in queries.CreatePostInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		h.WriteError(w, r, err)
		return
	}
	client, ok := h.RequireClient(w, r)
	if !ok {
		return
	}
	post, err := h.service.create(r.Context(), client, in)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, postResponse{Post: post})
}

func (h handlers) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		h.WriteError(w, r, err)
		return
	}
	client, ok := h.RequireClient(w, r)
	if !ok {
		return
	}
	in := queries.UpdatePostInput{ID: r.PathValue("postID"), Title: payload.Title, Content: payload.Content}
	post, err := h.service.update(r.Context(), client, in)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, postResponse{Post: post})
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	client, ok := h.RequireClient(w, r)
	if !ok {
		return
	}
	if err := h.service.delete(r.Context(), client, r.PathValue("postID")); err != nil {
		h.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// streamEvent summarizes a post list change.
type streamEvent struct {
	Status    querycache.Status `json:"status"`
	Count     int               `json:"count"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// handleStream pushes a "posts" server-sent event each time the client's
// cached post list changes, until the request ends.
func (h handlers) handleStream(w http.ResponseWriter, r *http.Request) {
	client, ok := h.RequireClient(w, r)
	if !ok {
		return
	}
	rc := http.NewResponseController(w)

	changes := make(chan querycache.Result[[]queries.Post], 1)
	stop := client.Posts.WatchList(func(result querycache.Result[[]queries.Post]) {
		select {
		case changes <- result:
		default:
		}
	})
	defer stop()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		log.Printf("posts stream flush client=%s: %v", client.ID, err)
		return
	}
	// The write deadline from the server config does not apply to streams.
	_ = rc.SetWriteDeadline(time.Time{})

	keepAlive := time.NewTicker(h.keepAlive)
	defer keepAlive.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		case result := <-changes:
			data, err := json.Marshal(streamEvent{Status: result.Status, Count: len(result.Data), UpdatedAt: result.UpdatedAt})
			if err != nil {
				log.Printf("posts stream encode client=%s: %v", client.ID, err)
				return
			}
			if _, err := fmt.Fprintf(w, "event: posts\ndata: %s\n\n", data); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
