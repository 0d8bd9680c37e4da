// Package render turns post body trees and markdown page copy into
// sanitized HTML fragments for the templates.
package render

import (
	"html"
	"html/template"
	"strings"

	"github.com/digitalarchive/internal/content"
	"github.com/microcosm-cc/bluemonday"
)

// blockStyles is the closed dispatch table for text block styles. Styles
// outside this table fall back to the normal paragraph entry.
var blockStyles = map[string]struct {
	tag   string
	class string
}{
	"h1":     {"h1", "text-3xl md:text-4xl font-bold text-amber-100 mt-12 mb-6 font-serif"},
	"h2":     {"h2", "text-2xl md:text-3xl font-bold text-amber-200 mt-10 mb-5 font-serif"},
	"h3":     {"h3", "text-xl md:text-2xl font-semibold text-amber-300 mt-8 mb-4 font-serif"},
	"h4":     {"h4", "text-lg md:text-xl font-semibold text-amber-400 mt-6 mb-3 font-serif"},
	"normal": {"p", "text-stone-300 leading-relaxed mb-6 text-base md:text-lg"},
}

// Renderer maps body block trees to HTML. The tree is read-only at render
// time; rendering the same tree twice yields identical output.
type Renderer struct {
	images content.Resolver
	policy *bluemonday.Policy
}

// New builds a Renderer resolving image references through the given
// resolver.
func New(images content.Resolver) *Renderer {
	// closed policy covering exactly the elements the dispatch table emits
	policy := bluemonday.NewPolicy()
	policy.AllowStandardURLs()
	policy.AllowElements("h1", "h2", "h3", "h4", "p", "blockquote", "div",
		"ul", "ol", "li", "strong", "em", "code", "pre", "figure", "figcaption", "span")
	policy.AllowAttrs("class").Globally()
	policy.AllowAttrs("href", "target", "rel").OnElements("a")
	policy.AllowImages()
	return &Renderer{images: images, policy: policy}
}

// Body renders the full block tree to a sanitized HTML fragment.
func (r *Renderer) Body(body []content.Block) template.HTML {
	var sb strings.Builder
	r.renderBlocks(&sb, body)
	return template.HTML(r.policy.Sanitize(sb.String()))
}

func (r *Renderer) renderBlocks(sb *strings.Builder, blocks []content.Block) {
	i := 0
	for i < len(blocks) {
		block := blocks[i]

		if block.Type == "block" && block.ListItem != "" {
			j := i
			for j < len(blocks) && blocks[j].Type == "block" && blocks[j].ListItem != "" {
				j++
			}
			r.renderList(sb, blocks[i:j], 1)
			i = j
			continue
		}

		r.renderBlock(sb, block)
		i++
	}
}

func (r *Renderer) renderBlock(sb *strings.Builder, block content.Block) {
	switch block.Type {
	case "block":
		if block.Style == "blockquote" {
			sb.WriteString(`<blockquote class="border-l-4 border-amber-600/50 pl-6 my-8 bg-amber-900/20 py-4 rounded-r-lg"><div class="text-amber-200 italic text-lg leading-relaxed font-serif">`)
			r.renderSpans(sb, block)
			sb.WriteString(`</div></blockquote>`)
			return
		}

		style, ok := blockStyles[block.Style]
		if !ok {
			style = blockStyles["normal"]
		}
		sb.WriteString(`<` + style.tag + ` class="` + style.class + `">`)
		r.renderSpans(sb, block)
		sb.WriteString(`</` + style.tag + `>`)

	case "image":
		r.renderImage(sb, block)

	case "code":
		r.renderCode(sb, block)

	default:
		// unknown block types render nothing
	}
}

// renderList emits one <ul>/<ol> for a run of list-item blocks at the given
// level; deeper runs nest recursively inside the preceding item.
func (r *Renderer) renderList(sb *strings.Builder, items []content.Block, level int) {
	if len(items) == 0 {
		return
	}

	tag := "ul"
	class := "list-disc list-inside space-y-2 mb-6 text-stone-300 ml-4"
	if items[0].ListItem == "number" {
		tag = "ol"
		class = "list-decimal list-inside space-y-2 mb-6 text-stone-300 ml-4"
	}

	sb.WriteString(`<` + tag + ` class="` + class + `">`)

	i := 0
	for i < len(items) {
		if listLevel(items[i]) > level {
			// orphaned deeper run without a parent item
			j := i
			for j < len(items) && listLevel(items[j]) > level {
				j++
			}
			r.renderList(sb, items[i:j], level+1)
			i = j
			continue
		}

		sb.WriteString(`<li class="text-stone-300 leading-relaxed">`)
		r.renderSpans(sb, items[i])

		j := i + 1
		if j < len(items) && listLevel(items[j]) > level {
			k := j
			for k < len(items) && listLevel(items[k]) > level {
				k++
			}
			r.renderList(sb, items[j:k], level+1)
			j = k
		}
		sb.WriteString(`</li>`)
		i = j
	}

	sb.WriteString(`</` + tag + `>`)
}

func listLevel(block content.Block) int {
	if block.Level < 1 {
		return 1
	}
	return block.Level
}

func (r *Renderer) renderSpans(sb *strings.Builder, block content.Block) {
	for _, span := range block.Children {
		r.renderSpan(sb, span, block.MarkDefs)
	}
}

func (r *Renderer) renderSpan(sb *strings.Builder, span content.Span, defs []content.MarkDef) {
	var closers []string

	for _, mark := range span.Marks {
		switch mark {
		case "strong":
			sb.WriteString(`<strong class="font-bold text-amber-200">`)
			closers = append(closers, "</strong>")
		case "em":
			sb.WriteString(`<em class="italic text-amber-300">`)
			closers = append(closers, "</em>")
		case "code":
			sb.WriteString(`<code class="bg-stone-800/60 text-amber-300 px-2 py-1 rounded text-sm font-mono">`)
			closers = append(closers, "</code>")
		default:
			if def, ok := markDef(defs, mark); ok && def.Type == "link" {
				sb.WriteString(linkOpenTag(def.Href))
				closers = append(closers, "</a>")
			}
			// unknown decorators render their text unmarked
		}
	}

	sb.WriteString(html.EscapeString(span.Text))

	for i := len(closers) - 1; i >= 0; i-- {
		sb.WriteString(closers[i])
	}
}

// linkOpenTag gives absolute http(s) links a new-tab affordance with the
// safe cross-origin attribute; internal links stay in the same tab.
func linkOpenTag(href string) string {
	escaped := html.EscapeString(href)
	class := "text-amber-400 hover:text-amber-300 underline decoration-amber-600/50"
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return `<a href="` + escaped + `" target="_blank" rel="noopener noreferrer" class="` + class + `">`
	}
	return `<a href="` + escaped + `" class="` + class + `">`
}

func markDef(defs []content.MarkDef, key string) (content.MarkDef, bool) {
	for _, def := range defs {
		if def.Key == key {
			return def, true
		}
	}
	return content.MarkDef{}, false
}

// renderImage emits a figure for the block, or nothing when the asset
// reference is missing or malformed. Authors leave image blocks incomplete
// while drafting.
func (r *Renderer) renderImage(sb *strings.Builder, block content.Block) {
	url := r.images.URL(&content.Image{Asset: block.Asset}, 800, 400)
	if url == "" {
		return
	}

	alt := block.Alt
	if alt == "" {
		alt = "Blog image"
	}

	sb.WriteString(`<figure class="my-8"><img src="` + html.EscapeString(url) + `" alt="` + html.EscapeString(alt) + `" class="w-full h-auto rounded-lg shadow-2xl">`)
	if block.Caption != "" {
		sb.WriteString(`<figcaption class="text-center text-sm text-stone-400 mt-3 italic font-serif">` + html.EscapeString(block.Caption) + `</figcaption>`)
	}
	sb.WriteString(`</figure>`)
}

func (r *Renderer) renderCode(sb *strings.Builder, block content.Block) {
	label := strings.TrimSpace(block.Language)
	if label == "" {
		label = "Code"
	}

	sb.WriteString(`<div class="my-6 bg-stone-900/80 border border-stone-700/50 rounded-lg overflow-hidden">`)
	sb.WriteString(`<div class="bg-stone-800/60 px-4 py-2 border-b border-stone-700/50"><span class="text-amber-400 text-sm font-medium">` + html.EscapeString(label) + `</span></div>`)
	sb.WriteString(`<pre class="p-4 text-sm text-stone-200 overflow-x-auto"><code>` + html.EscapeString(block.Code) + `</code></pre></div>`)
}
