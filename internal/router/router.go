package router

import (
	"html/template"
	"time"

	"github.com/digitalarchive/internal/handler"
	"github.com/digitalarchive/internal/middleware"
	"github.com/digitalarchive/web"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const apiRequestsPerMinute = 120

// Setup configures the gin engine, templates and routes.
func Setup(api *handler.API) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	tmpl := template.Must(template.New("").ParseFS(web.Templates, "template/*.html"))
	r.SetHTMLTemplate(tmpl)

	r.GET("/", api.ShowHome)
	r.GET("/blog", api.ShowBlogIndex)
	r.GET("/blog/:slug", api.ShowBlogPost)
	r.GET("/blog/category/:slug", api.ShowCategory)
	r.GET("/books", api.ShowBooks)
	r.GET("/alexa", api.ShowAlexaSkills)
	r.GET("/resume", api.ShowResume)
	r.GET("/fallout", api.ShowFallout)
	r.GET("/reef", api.ShowReef)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	apiGroup := r.Group("/api")
	apiGroup.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}))
	apiGroup.Use(middleware.RateLimit(apiRequestsPerMinute))
	{
		apiGroup.GET("/posts", api.GetPosts)
		apiGroup.GET("/posts/:slug", api.GetPost)
		apiGroup.GET("/categories", api.GetCategories)
		apiGroup.GET("/search", api.SearchPosts)
	}

	r.NoRoute(api.NotFound)

	return r
}
