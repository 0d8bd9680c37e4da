// Package archive derives the blog views from a fetched post set: filtered
// lists, category facets, the featured/regular split and read-time
// estimates. Every derivation is pure; the source slice is never mutated.
package archive

import (
	"sort"
	"strings"

	"github.com/digitalarchive/internal/content"
)

// CategoryAll selects every post regardless of category.
const CategoryAll = "all"

// Criteria is an immutable filter state. The zero value selects everything.
type Criteria struct {
	Category string
	Search   string
}

// IsZero reports whether the criteria select the full post set.
func (c Criteria) IsZero() bool {
	category := strings.TrimSpace(c.Category)
	return (category == "" || category == CategoryAll) && strings.TrimSpace(c.Search) == ""
}

// Apply returns the posts matching the criteria, in source order. The
// category predicate keeps posts referencing the selected slug; the search
// predicate is a case-insensitive substring match on title or excerpt. Both
// compose with AND.
func Apply(posts []content.Post, criteria Criteria) []content.Post {
	category := strings.TrimSpace(criteria.Category)
	search := strings.ToLower(strings.TrimSpace(criteria.Search))

	filtered := make([]content.Post, 0, len(posts))
	for _, post := range posts {
		if category != "" && category != CategoryAll && !post.HasCategory(category) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(post.Title), search) &&
			!strings.Contains(strings.ToLower(post.Excerpt), search) {
			continue
		}
		filtered = append(filtered, post)
	}
	return filtered
}

// Facet is a derived (category, count) pair. It is recomputed from the
// current post set and never persisted.
type Facet struct {
	Title string
	Slug  string
	Color string
	Count int
}

// Facets scans the post set and counts category references. A post with N
// categories contributes to N facets. Order is deterministic: count
// descending, then title, then slug.
func Facets(posts []content.Post) []Facet {
	index := make(map[string]int)
	facets := make([]Facet, 0)

	for _, post := range posts {
		for _, cat := range post.Categories {
			slug := cat.Slug.Current
			if slug == "" {
				continue
			}
			if i, ok := index[slug]; ok {
				facets[i].Count++
				continue
			}
			index[slug] = len(facets)
			facets = append(facets, Facet{
				Title: cat.Title,
				Slug:  slug,
				Color: cat.Color,
				Count: 1,
			})
		}
	}

	sort.Slice(facets, func(i, j int) bool {
		return facetLess(facets[i], facets[j])
	})
	return facets
}

func facetLess(a, b Facet) bool {
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	if a.Title != b.Title {
		return a.Title < b.Title
	}
	return a.Slug < b.Slug
}

// Split partitions an already-filtered list into the featured strip (flagged
// posts, first two in source order) and the regular grid (everything else,
// source order preserved).
func Split(filtered []content.Post) (featured, regular []content.Post) {
	featured = make([]content.Post, 0, 2)
	regular = make([]content.Post, 0, len(filtered))

	for _, post := range filtered {
		if post.Featured && len(featured) < 2 {
			featured = append(featured, post)
			continue
		}
		regular = append(regular, post)
	}
	return featured, regular
}

// Related returns up to limit other posts sharing at least one category slug
// with the given post, in source order.
func Related(posts []content.Post, post content.Post, limit int) []content.Post {
	if limit <= 0 {
		return nil
	}

	related := make([]content.Post, 0, limit)
	for _, candidate := range posts {
		if candidate.ID == post.ID || candidate.Slug.Current == post.Slug.Current {
			continue
		}
		if !sharesCategory(candidate, post) {
			continue
		}
		related = append(related, candidate)
		if len(related) == limit {
			break
		}
	}
	return related
}

func sharesCategory(a, b content.Post) bool {
	for _, cat := range a.Categories {
		if cat.Slug.Current != "" && b.HasCategory(cat.Slug.Current) {
			return true
		}
	}
	return false
}

const (
	wordsPerMinute  = 200
	defaultReadTime = 5
)

// EstimateReadTime returns the post's explicit read time when set, otherwise
// a word-count estimate at 200 words per minute, rounded up with a floor of
// one minute. A post without a body falls back to the documented default.
func EstimateReadTime(post content.Post) int {
	if post.ReadTime > 0 {
		return post.ReadTime
	}

	words := strings.Fields(content.PlainText(post.Body))
	if len(words) == 0 {
		return defaultReadTime
	}

	minutes := len(words) / wordsPerMinute
	if len(words)%wordsPerMinute != 0 {
		minutes++
	}
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
