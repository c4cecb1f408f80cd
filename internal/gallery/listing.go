package gallery

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/mrlokans/bookgallery/internal/config"
	"github.com/mrlokans/bookgallery/internal/content"
	"github.com/mrlokans/bookgallery/internal/entities"
	"github.com/mrlokans/bookgallery/internal/sanitize"
)

// Load-more request parameters.
const (
	ParamPage     = "page"
	ParamPerPage  = "per_page"
	ParamCategory = "category"
)

var bookItemTemplate = template.Must(template.New("book-item").Parse(
	`<div class="book-item">` +
		`{{if .ThumbnailURL}}<img src="/books/{{.ID}}/thumbnail" alt="{{.Title}}" class="book-thumbnail" loading="lazy" />{{end}}` +
		`</div>`))

// PageRequest is one load-more request.
type PageRequest struct {
	Page     int
	PerPage  int
	Category string
}

// ParsePageRequest reads a load-more request from submitted form values.
// Absent page and per_page default to 1 and defaultPerPage; present values
// go through intInput, so non-numeric input becomes 0.
func ParsePageRequest(form url.Values, defaultPerPage int) PageRequest {
	req := PageRequest{Page: 1, PerPage: defaultPerPage}
	if _, ok := form[ParamPage]; ok {
		req.Page = intInput(form.Get(ParamPage))
	}
	if _, ok := form[ParamPerPage]; ok {
		req.PerPage = intInput(form.Get(ParamPerPage))
	}
	if _, ok := form[ParamCategory]; ok {
		req.Category = sanitize.TextField(form.Get(ParamCategory))
	}
	return req
}

// intInput converts user input to an int the lenient way: leading whitespace
// and sign are accepted, parsing stops at the first non-digit, and input with
// no leading digits is 0. "3abc" is 3, "abc" is 0.
func intInput(s string) int {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// out of range
		return 0
	}
	return n
}

// window returns the limit and offset for a page under the configured mode.
func (g *Gallery) window(perPage, page int) (limit, offset int) {
	if perPage <= 0 || page <= 0 {
		return 0, 0
	}
	if g.opts.Pagination == config.PaginationOffset {
		return perPage, mulSaturating(perPage, page-1)
	}
	return mulSaturating(perPage, page), 0
}

// mulSaturating multiplies two non-negative ints, capping at math.MaxInt.
func mulSaturating(a, b int) int {
	if a != 0 && b > math.MaxInt/a {
		return math.MaxInt
	}
	return a * b
}

// ListBooks returns one rendered fragment per published book on the given
// page, most recent first. category restricts the listing to books tagged
// with that slug unless it is empty or "all".
//
// In cumulative mode page acts as a multiplier: the result is the leading
// perPage*page books, so every call repeats the books of earlier pages.
// An empty result means there is nothing more to show.
func (g *Gallery) ListBooks(ctx context.Context, perPage, page int, category string) ([]template.HTML, error) {
	limit, offset := g.window(perPage, page)
	if limit <= 0 {
		return nil, nil
	}

	return g.renderBooks(ctx, content.BookQuery{
		Category: category,
		Limit:    limit,
		Offset:   offset,
	})
}

// LoadMore answers a load-more request.
func (g *Gallery) LoadMore(ctx context.Context, req PageRequest) ([]template.HTML, error) {
	return g.ListBooks(ctx, req.PerPage, req.Page, req.Category)
}

// firstPage renders the first perPage books. The shortcode always shows the
// first page regardless of pagination mode.
func (g *Gallery) firstPage(ctx context.Context, perPage int) ([]template.HTML, error) {
	if perPage <= 0 {
		return nil, nil
	}
	return g.renderBooks(ctx, content.BookQuery{Category: content.CategoryAll, Limit: perPage})
}

func (g *Gallery) renderBooks(ctx context.Context, q content.BookQuery) ([]template.HTML, error) {
	books, err := g.store.QueryBooks(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	items := make([]template.HTML, 0, len(books))
	for i := range books {
		item, err := renderBookItem(&books[i])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func renderBookItem(book *entities.Book) (template.HTML, error) {
	var buf bytes.Buffer
	if err := bookItemTemplate.Execute(&buf, book); err != nil {
		return "", fmt.Errorf("render book %d: %w", book.ID, err)
	}
	return template.HTML(buf.String()), nil
}

// JoinItems concatenates rendered fragments into one response body.
func JoinItems(items []template.HTML) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(string(item))
	}
	return b.String()
}
