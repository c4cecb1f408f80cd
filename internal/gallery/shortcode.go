package gallery

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"regexp"
	"strconv"
	"strings"

	"github.com/mrlokans/bookgallery/internal/content"
	"github.com/mrlokans/bookgallery/internal/entities"
)

// ShortcodeTag is the shortcode name expanded by ExpandShortcodes.
const ShortcodeTag = "books"

var (
	// [books ...] with an optional extra bracket pair for escaping: [[books]]
	shortcodeRe = regexp.MustCompile(`\[(\[?)` + ShortcodeTag + `(\s[^\]]*)?\](\]?)`)
	attrRe      = regexp.MustCompile(`([\w-]+)\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"']+))`)
)

var galleryTemplate = template.Must(template.New("gallery").Parse(`<div class="book-category-filter">
<button class="category-button" data-category="all">All</button>
{{- range .Categories}}
<button class="category-button" data-category="{{.Slug}}">{{.Name}}</button>
{{- end}}
</div>
<div id="book-container" data-per-page="{{.PerPage}}">
{{- range .Items}}{{.}}{{end -}}
</div>
<button id="load-more-books">Load More</button>
`))

type galleryView struct {
	Categories []entities.Category
	Items      []template.HTML
	PerPage    int
}

// RenderShortcode renders the gallery: category filter buttons for every
// category with at least one published book, the first perPage books and
// the load-more button.
func (g *Gallery) RenderShortcode(ctx context.Context, perPage int) (template.HTML, error) {
	categories, err := g.store.QueryCategories(ctx, content.CategoryQuery{HideEmpty: true})
	if err != nil {
		return "", fmt.Errorf("load categories: %w", err)
	}

	items, err := g.firstPage(ctx, perPage)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = galleryTemplate.Execute(&buf, galleryView{
		Categories: categories,
		Items:      items,
		PerPage:    perPage,
	})
	if err != nil {
		return "", fmt.Errorf("render gallery: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// ShortcodeAttrs parses shortcode attributes: name=value, name="value" or name='value'.
// Names are lowercased.
func ShortcodeAttrs(raw string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrRe.FindAllStringSubmatch(raw, -1) {
		value := m[2]
		if value == "" {
			value = m[3]
		}
		if value == "" {
			value = m[4]
		}
		attrs[strings.ToLower(m[1])] = value
	}
	return attrs
}

// perPageAttr returns the per_page attribute, or def when it is missing,
// not a number or not positive.
func perPageAttr(attrs map[string]string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(attrs["per_page"]))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// ExpandShortcodes replaces every [books] shortcode in body with the rendered
// gallery. The body is trusted editor content and is returned unescaped.
// [[books]] is an escaped shortcode and comes out as the literal [books].
func (g *Gallery) ExpandShortcodes(ctx context.Context, body string) (template.HTML, error) {
	var out strings.Builder
	last := 0

	for _, loc := range shortcodeRe.FindAllStringSubmatchIndex(body, -1) {
		out.WriteString(body[last:loc[0]])
		last = loc[1]

		escaped := loc[3] > loc[2] && loc[7] > loc[6]
		if escaped {
			out.WriteString(body[loc[0]+1 : loc[1]-1])
			continue
		}

		var raw string
		if loc[4] >= 0 {
			raw = body[loc[4]:loc[5]]
		}
		perPage := perPageAttr(ShortcodeAttrs(raw), g.opts.PerPage)

		rendered, err := g.RenderShortcode(ctx, perPage)
		if err != nil {
			return "", err
		}
		// Unbalanced brackets such as "[[books]" keep the stray one
		out.WriteString(body[loc[2]:loc[3]])
		out.WriteString(string(rendered))
		out.WriteString(body[loc[6]:loc[7]])
	}

	out.WriteString(body[last:])
	return template.HTML(out.String()), nil
}
