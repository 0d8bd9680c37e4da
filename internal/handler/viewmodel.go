package handler

import (
	"github.com/digitalarchive/internal/archive"
	"github.com/digitalarchive/internal/content"
)

// categoryBadge is the template shape for a category pill.
type categoryBadge struct {
	Title string
	Slug  string
	Color string
}

// postCard is the template shape for a post in a list or grid.
type postCard struct {
	Title      string
	Slug       string
	Excerpt    string
	Date       string
	ReadTime   int
	ImageURL   string
	ImageAlt   string
	Author     string
	Categories []categoryBadge
	Featured   bool
}

func (a *API) badges(categories []content.Category) []categoryBadge {
	out := make([]categoryBadge, 0, len(categories))
	for _, cat := range categories {
		out = append(out, categoryBadge{
			Title: cat.Title,
			Slug:  cat.Slug.Current,
			Color: archive.CategoryColor(cat),
		})
	}
	return out
}

func (a *API) card(post content.Post, imageWidth, imageHeight int) postCard {
	card := postCard{
		Title:      post.Title,
		Slug:       post.Slug.Current,
		Excerpt:    post.Excerpt,
		Date:       formatDate(post.PublishedAt),
		ReadTime:   archive.EstimateReadTime(post),
		ImageURL:   a.images.URL(post.Image, imageWidth, imageHeight),
		Categories: a.badges(post.Categories),
		Featured:   post.Featured,
	}
	if post.Image != nil {
		card.ImageAlt = post.Image.Alt
	}
	if card.ImageAlt == "" {
		card.ImageAlt = post.Title
	}
	if post.Author != nil {
		card.Author = post.Author.Name
	}
	return card
}

func (a *API) cards(posts []content.Post, imageWidth, imageHeight int) []postCard {
	out := make([]postCard, 0, len(posts))
	for _, post := range posts {
		out = append(out, a.card(post, imageWidth, imageHeight))
	}
	return out
}
