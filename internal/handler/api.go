package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/digitalarchive/internal/archive"
	"github.com/digitalarchive/internal/cache"
	"github.com/digitalarchive/internal/content"
	"github.com/digitalarchive/internal/logger"
	"github.com/digitalarchive/internal/render"
	"github.com/digitalarchive/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	visitorCookieName   = "da_visitor_id"
	visitorCookieMaxAge = 365 * 24 * 60 * 60

	postListCacheKey = "content:posts"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	store     *content.Client
	images    content.Resolver
	renderer  *render.Renderer
	cache     *cache.Cache
	analytics *service.AnalyticsService

	// posts snapshots the most recent full post list; recentPost the most
	// recent article fetch. Both commit latest-wins so a slow stale fetch
	// can never overwrite newer state.
	posts      archive.Loader[[]content.Post]
	recentPost archive.Loader[*content.Post]
}

// NewAPI constructs a handler set with shared services.
func NewAPI(store *content.Client, images content.Resolver, responseCache *cache.Cache, analytics *service.AnalyticsService) *API {
	return &API{
		store:     store,
		images:    images,
		renderer:  render.New(images),
		cache:     responseCache,
		analytics: analytics,
	}
}

// loadPosts returns the full post list, newest first, consulting the Redis
// cache before the store. A successful fetch is committed to the in-process
// snapshot; a fetch superseded by a newer one is discarded.
func (a *API) loadPosts(ctx context.Context) ([]content.Post, error) {
	var cached []content.Post
	if a.cache.GetJSON(ctx, postListCacheKey, &cached) {
		return cached, nil
	}

	ticket := a.posts.Begin("posts")

	posts, err := a.store.Posts(ctx)
	if err != nil {
		return nil, err
	}

	if a.posts.Commit(ticket, posts) {
		a.cache.SetJSON(ctx, postListCacheKey, posts)
	} else if _, current, ok := a.posts.Current(); ok {
		// a newer fetch already landed; serve its result instead
		return current, nil
	}

	return posts, nil
}

// loadPost fetches one post by slug. Every view re-queries the store so
// published edits show up immediately; the loader only guards against a
// slow superseded fetch overwriting the snapshot of a newer navigation.
func (a *API) loadPost(ctx context.Context, slug string) (*content.Post, error) {
	ticket := a.recentPost.Begin(slug)

	post, err := a.store.PostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if post != nil && !a.recentPost.Commit(ticket, post) {
		// a newer fetch of the same article already landed; serve its result
		if key, current, ok := a.recentPost.Current(); ok && key == slug && current != nil {
			return current, nil
		}
	}
	return post, nil
}

func (a *API) ensureVisitorID(c *gin.Context) string {
	if id, err := c.Cookie(visitorCookieName); err == nil && strings.TrimSpace(id) != "" {
		return id
	}

	visitorID := uuid.NewString()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     visitorCookieName,
		Value:    visitorID,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Request.TLS != nil,
		MaxAge:   visitorCookieMaxAge,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		SameSite: http.SameSiteLaxMode,
	})

	return visitorID
}

func logFetchFailure(page string, err error) {
	if logger.S != nil {
		logger.S.Errorw("content fetch failed", "page", page, "error", err)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}
