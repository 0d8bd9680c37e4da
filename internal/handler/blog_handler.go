package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/digitalarchive/internal/archive"
	"github.com/gin-gonic/gin"
)

// ShowBlogIndex renders the archive page with category facets, the featured
// strip and the filtered grid. Filter state arrives as query parameters and
// is passed down as an explicit criteria value.
func (a *API) ShowBlogIndex(c *gin.Context) {
	criteria := archive.Criteria{
		Category: strings.TrimSpace(c.DefaultQuery("category", archive.CategoryAll)),
		Search:   strings.TrimSpace(c.Query("search")),
	}

	posts, err := a.loadPosts(c.Request.Context())
	if err != nil {
		logFetchFailure("blog", err)
		c.HTML(http.StatusBadGateway, "error.html", gin.H{
			"title":   "The Digital Archive",
			"message": "The archive could not be loaded. Please try again later.",
			"year":    time.Now().Year(),
		})
		return
	}

	facets := archive.Facets(posts)
	filtered := archive.Apply(posts, criteria)
	featured, regular := archive.Split(filtered)

	c.HTML(http.StatusOK, "blog.html", gin.H{
		"title":         "The Digital Archive",
		"search":        criteria.Search,
		"category":      criteria.Category,
		"facets":        facets,
		"totalPosts":    len(posts),
		"featuredPosts": a.cards(featured, 800, 400),
		"regularPosts":  a.cards(regular, 800, 400),
		"year":          time.Now().Year(),
	})
}

// ShowBlogPost renders one article by slug: 404 for an unknown slug, a
// distinct failure view when the store is unreachable.
func (a *API) ShowBlogPost(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		c.HTML(http.StatusNotFound, "not_found.html", gin.H{
			"title": "Article Not Found",
			"year":  time.Now().Year(),
		})
		return
	}

	post, err := a.loadPost(c.Request.Context(), slug)
	if err != nil {
		logFetchFailure("blog_post", err)
		c.HTML(http.StatusBadGateway, "error.html", gin.H{
			"title":   "Article Unavailable",
			"message": "The article could not be loaded. Please try again later.",
			"year":    time.Now().Year(),
		})
		return
	}
	if post == nil {
		c.HTML(http.StatusNotFound, "not_found.html", gin.H{
			"title": "Article Not Found",
			"year":  time.Now().Year(),
		})
		return
	}

	var (
		pageViews      uint64
		uniqueVisitors uint64
	)
	if a.analytics != nil {
		visitorID := a.ensureVisitorID(c)
		if stats, recordErr := a.analytics.RecordPostView(slug, visitorID, time.Now().UTC()); recordErr == nil {
			pageViews = stats.PageViews
			uniqueVisitors = stats.UniqueVisitors
		} else {
			c.Error(recordErr)
		}
	}

	// related posts are best effort; a failure here never blocks the article
	var related []postCard
	if all, listErr := a.loadPosts(c.Request.Context()); listErr != nil {
		logFetchFailure("blog_post_related", listErr)
	} else {
		related = a.cards(archive.Related(all, *post, 3), 400, 200)
	}

	data := gin.H{
		"title":          post.Title,
		"post":           a.card(*post, 800, 400),
		"excerpt":        post.Excerpt,
		"content":        a.renderer.Body(post.Body),
		"related":        related,
		"pageViews":      pageViews,
		"uniqueVisitors": uniqueVisitors,
		"year":           time.Now().Year(),
	}

	if post.Author != nil {
		data["authorName"] = post.Author.Name
		data["authorBio"] = post.Author.Bio
		data["authorImage"] = a.images.URL(post.Author.Image, 48, 48)
	}

	c.HTML(http.StatusOK, "blog_post.html", data)
}
