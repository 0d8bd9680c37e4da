package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/digitalarchive/internal/archive"
	"github.com/digitalarchive/internal/content"
	"github.com/gin-gonic/gin"
)

// ShowCategory renders the archive scoped to one category using the store's
// own category query rather than the in-memory filter.
func (a *API) ShowCategory(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		c.Redirect(http.StatusFound, "/blog")
		return
	}

	posts, err := a.store.PostsByCategory(c.Request.Context(), slug)
	if err != nil {
		logFetchFailure("blog_category", err)
		c.HTML(http.StatusBadGateway, "error.html", gin.H{
			"title":   "The Digital Archive",
			"message": "The archive could not be loaded. Please try again later.",
			"year":    time.Now().Year(),
		})
		return
	}

	// the facet rail comes from the store's category counts so it covers
	// categories outside this page's post set
	facets := make([]archive.Facet, 0)
	title := slug
	if categories, catErr := a.store.Categories(c.Request.Context()); catErr != nil {
		logFetchFailure("blog_category_facets", catErr)
	} else {
		for _, cat := range categories {
			if cat.PostCount == 0 {
				continue
			}
			facets = append(facets, archive.Facet{
				Title: cat.Title,
				Slug:  cat.Slug.Current,
				Color: archive.CategoryColor(content.Category{Title: cat.Title, Slug: cat.Slug, Color: cat.Color}),
				Count: cat.PostCount,
			})
			if cat.Slug.Current == slug && cat.Title != "" {
				title = cat.Title
			}
		}
	}

	featured, regular := archive.Split(posts)

	c.HTML(http.StatusOK, "blog.html", gin.H{
		"title":         title + " — The Digital Archive",
		"search":        "",
		"category":      slug,
		"facets":        facets,
		"totalPosts":    len(posts),
		"featuredPosts": a.cards(featured, 800, 400),
		"regularPosts":  a.cards(regular, 800, 400),
		"year":          time.Now().Year(),
	})
}
