package handler

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/digitalarchive/internal/render"
	"github.com/digitalarchive/internal/site"
	"github.com/gin-gonic/gin"
)

// ShowHome renders the portfolio landing page with the project showcase and
// a featured-articles strip. A store failure hides the strip but never
// blocks the page.
func (a *API) ShowHome(c *gin.Context) {
	var featured []postCard
	postsFailed := false

	if posts, err := a.store.FeaturedPosts(c.Request.Context()); err != nil {
		logFetchFailure("home", err)
		postsFailed = true
	} else {
		if len(posts) > 3 {
			posts = posts[:3]
		}
		featured = a.cards(posts, 400, 200)
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"title":       "David Kolb — Developer & Author",
		"projects":    site.Projects(),
		"featured":    featured,
		"postsFailed": postsFailed,
		"year":        time.Now().Year(),
	})
}

type bookView struct {
	Title    string
	Subtitle string
	Blurb    template.HTML
	Link     string
}

// ShowBooks renders the published titles with their markdown blurbs.
func (a *API) ShowBooks(c *gin.Context) {
	books := site.Books()
	views := make([]bookView, 0, len(books))
	for _, book := range books {
		blurb, err := render.Markdown(book.Blurb)
		if err != nil {
			blurb = template.HTML("")
		}
		views = append(views, bookView{
			Title:    book.Title,
			Subtitle: book.Subtitle,
			Blurb:    blurb,
			Link:     book.Link,
		})
	}

	c.HTML(http.StatusOK, "books.html", gin.H{
		"title": "Books",
		"books": views,
		"year":  time.Now().Year(),
	})
}

// ShowAlexaSkills renders the voice-skill catalog with a server-side
// category filter.
func (a *API) ShowAlexaSkills(c *gin.Context) {
	selected := strings.TrimSpace(c.DefaultQuery("category", "All"))
	skills := site.Skills()

	c.HTML(http.StatusOK, "alexa.html", gin.H{
		"title":      "Alexa Skills",
		"categories": site.SkillCategories(skills),
		"selected":   selected,
		"skills":     site.FilterSkills(skills, selected),
		"year":       time.Now().Year(),
	})
}

// ShowResume renders the experience and skills sections.
func (a *API) ShowResume(c *gin.Context) {
	c.HTML(http.StatusOK, "resume.html", gin.H{
		"title":       "Resume",
		"experiences": site.Experiences(),
		"skills":      site.ResumeSkills(),
		"year":        time.Now().Year(),
	})
}

// ShowFallout renders the Fallout fan game page.
func (a *API) ShowFallout(c *gin.Context) {
	c.HTML(http.StatusOK, "game.html", gin.H{
		"title":    "Unofficial Fallout Game",
		"heading":  "Unofficial Fallout Game",
		"subtitle": "A fan-made wasteland adventure",
		"playURL":  "https://fallout-fan-game.example.com",
		"year":     time.Now().Year(),
	})
}

// ShowReef renders the Reef game page.
func (a *API) ShowReef(c *gin.Context) {
	c.HTML(http.StatusOK, "game.html", gin.H{
		"title":    "Reef",
		"heading":  "Reef",
		"subtitle": "Underwater exploration built in Unity",
		"playURL":  "https://reef-game.example.com",
		"year":     time.Now().Year(),
	})
}

// NotFound is the catch-all 404 view.
func (a *API) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "not_found.html", gin.H{
		"title": "Page Not Found",
		"year":  time.Now().Year(),
	})
}
