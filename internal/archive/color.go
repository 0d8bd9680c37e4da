package archive

import (
	"hash/fnv"

	"github.com/digitalarchive/internal/content"
)

// fallbackPalette holds the gradient classes used when a category has no
// configured color.
var fallbackPalette = []string{
	"from-blue-500 to-blue-700",
	"from-green-500 to-green-700",
	"from-purple-500 to-purple-700",
	"from-orange-500 to-orange-700",
	"from-red-500 to-red-700",
	"from-teal-500 to-teal-700",
}

// CategoryColor returns the category's configured color, or a palette entry
// derived from its slug. The same category always maps to the same color.
func CategoryColor(cat content.Category) string {
	if cat.Color != "" {
		return cat.Color
	}

	key := cat.Slug.Current
	if key == "" {
		key = cat.Title
	}

	h := fnv.New32a()
	h.Write([]byte(key))
	return fallbackPalette[h.Sum32()%uint32(len(fallbackPalette))]
}
