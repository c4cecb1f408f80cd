// Package gallery implements the book gallery: record type registration,
// the gallery meta box, the paginated listing and the [books] shortcode.
//
// Everything here is composed with a content.Store passed to New; the package
// keeps no state of its own between calls.
package gallery

import (
	"log"

	"github.com/mrlokans/bookgallery/internal/config"
	"github.com/mrlokans/bookgallery/internal/content"
)

// Options configures a Gallery.
type Options struct {
	// PerPage is the page size used when a shortcode or request gives none. Default: 5
	PerPage int

	// Pagination selects how LoadMore maps a page number onto a query window.
	// Default: config.PaginationCumulative
	Pagination config.PaginationMode
}

// Gallery renders book listings from a content store.
type Gallery struct {
	store content.Store
	opts  Options
}

// New creates a gallery reading from store.
func New(store content.Store, opts Options) *Gallery {
	if opts.PerPage <= 0 {
		opts.PerPage = config.DefaultPerPage
	}
	mode, err := config.ParsePaginationMode(string(opts.Pagination))
	if err != nil {
		log.Printf("[GALLERY] %v, using %s", err, mode)
	}
	opts.Pagination = mode
	return &Gallery{store: store, opts: opts}
}

// PerPage returns the default page size.
func (g *Gallery) PerPage() int {
	return g.opts.PerPage
}

// Pagination returns the configured pagination mode.
func (g *Gallery) Pagination() config.PaginationMode {
	return g.opts.Pagination
}
