package content

import (
	"strings"
	"time"
)

// Slug mirrors the content store's {"current": "..."} wrapper.
type Slug struct {
	Current string `json:"current"`
}

// Category is a post classification reference.
type Category struct {
	Title string `json:"title"`
	Slug  Slug   `json:"slug"`
	Color string `json:"color,omitempty"`
}

// CategoryCount pairs a category with its store-side post count.
type CategoryCount struct {
	Category
	PostCount int `json:"postCount"`
}

// Asset identifies a media document. Older documents carry a resolved URL,
// newer ones only a reference id; both shapes appear in live data.
type Asset struct {
	ID  string `json:"_id,omitempty"`
	Ref string `json:"_ref,omitempty"`
	URL string `json:"url,omitempty"`
}

// Image is an image field on a post, author or body block.
type Image struct {
	Asset   *Asset `json:"asset,omitempty"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// Author is referenced by posts, never embedded.
type Author struct {
	Name  string `json:"name"`
	Bio   string `json:"bio,omitempty"`
	Image *Image `json:"image,omitempty"`
}

// Span is a run of text inside a text block. Marks are either decorator
// names (strong, em, code) or keys into the enclosing block's MarkDefs.
type Span struct {
	Type  string   `json:"_type"`
	Text  string   `json:"text"`
	Marks []string `json:"marks,omitempty"`
}

// MarkDef is an annotation definition referenced by span marks. Only link
// annotations are defined today.
type MarkDef struct {
	Key  string `json:"_key"`
	Type string `json:"_type"`
	Href string `json:"href,omitempty"`
}

// Block is one node of a post body tree. The store flattens every node kind
// into the same JSON shape and discriminates on _type, so a single struct
// carries the union; consumers dispatch on Type.
type Block struct {
	Type     string    `json:"_type"`
	Key      string    `json:"_key,omitempty"`
	Style    string    `json:"style,omitempty"`
	ListItem string    `json:"listItem,omitempty"`
	Level    int       `json:"level,omitempty"`
	Children []Span    `json:"children,omitempty"`
	MarkDefs []MarkDef `json:"markDefs,omitempty"`

	// image nodes
	Asset   *Asset `json:"asset,omitempty"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`

	// code nodes
	Language string `json:"language,omitempty"`
	Code     string `json:"code,omitempty"`
}

// Post is the read-only projection the store returns for articles.
type Post struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Slug        Slug       `json:"slug"`
	PublishedAt time.Time  `json:"publishedAt"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Body        []Block    `json:"body,omitempty"`
	Image       *Image     `json:"image,omitempty"`
	Author      *Author    `json:"author,omitempty"`
	Categories  []Category `json:"categories,omitempty"`
	ReadTime    int        `json:"readTime,omitempty"`
	Featured    bool       `json:"featured,omitempty"`
}

// HasCategory reports whether the post references the given category slug.
func (p Post) HasCategory(slug string) bool {
	for _, cat := range p.Categories {
		if cat.Slug.Current == slug {
			return true
		}
	}
	return false
}

// PlainText flattens the body tree into whitespace-joined text. Image and
// code nodes contribute their caption and code text respectively.
func PlainText(body []Block) string {
	var sb strings.Builder
	for _, block := range body {
		switch block.Type {
		case "block":
			for _, span := range block.Children {
				if span.Text == "" {
					continue
				}
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(span.Text)
			}
		case "image":
			if block.Caption != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(block.Caption)
			}
		case "code":
			if block.Code != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(block.Code)
			}
		}
	}
	return sb.String()
}
