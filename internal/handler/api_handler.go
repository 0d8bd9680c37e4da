package handler

import (
	"net/http"
	"strings"

	"github.com/digitalarchive/internal/archive"
	"github.com/gin-gonic/gin"
)

// GetPosts returns the filtered post list as JSON. Category and search
// filters compose with AND and run over the in-memory post set.
func (a *API) GetPosts(c *gin.Context) {
	criteria := archive.Criteria{
		Category: strings.TrimSpace(c.DefaultQuery("category", archive.CategoryAll)),
		Search:   strings.TrimSpace(c.Query("search")),
	}

	posts, err := a.loadPosts(c.Request.Context())
	if err != nil {
		logFetchFailure("api_posts", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "content store unavailable"})
		return
	}

	filtered := archive.Apply(posts, criteria)
	c.JSON(http.StatusOK, gin.H{
		"total": len(filtered),
		"posts": a.cards(filtered, 800, 400),
	})
}

// GetPost returns one post by slug, including its rendered body.
func (a *API) GetPost(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	post, err := a.loadPost(c.Request.Context(), slug)
	if err != nil {
		logFetchFailure("api_post", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "content store unavailable"})
		return
	}
	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":    a.card(*post, 800, 400),
		"content": a.renderer.Body(post.Body),
	})
}

// GetCategories returns the facet list derived from the current post set.
func (a *API) GetCategories(c *gin.Context) {
	posts, err := a.loadPosts(c.Request.Context())
	if err != nil {
		logFetchFailure("api_categories", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "content store unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": archive.Facets(posts)})
}

// SearchPosts proxies the store's server-side prefix search, which also
// covers body text that the in-memory filter does not index.
func (a *API) SearchPosts(c *gin.Context) {
	term := strings.TrimSpace(c.Query("term"))
	if term == "" {
		c.JSON(http.StatusOK, gin.H{"total": 0, "posts": []postCard{}})
		return
	}

	posts, err := a.store.SearchPosts(c.Request.Context(), term)
	if err != nil {
		logFetchFailure("api_search", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "content store unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total": len(posts),
		"posts": a.cards(posts, 800, 400),
	})
}
