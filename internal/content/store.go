// Package content defines the storage capability the gallery is composed with.
//
// The gallery never talks to a database directly. It receives a Store through
// its constructor, so the SQLite implementation in internal/database can be
// replaced by any other backend that honours the same query semantics:
//
//	store, _ := database.NewDatabase("./bookgallery.db")
//	g := gallery.New(store, gallery.Options{})
package content

import (
	"context"
	"errors"

	"github.com/mrlokans/bookgallery/internal/entities"
)

// ErrNotFound is returned when a book or category does not exist.
var ErrNotFound = errors.New("content: not found")

// ErrInvalidSlug is returned when a category name yields no usable slug.
var ErrInvalidSlug = errors.New("content: invalid slug")

// CategoryAll is the filter token that disables category filtering.
const CategoryAll = "all"

// BookQuery selects books for a listing.
type BookQuery struct {
	// Category restricts results to books tagged with this slug.
	// Empty or CategoryAll means no restriction.
	Category string
	Limit    int
	Offset   int

	// IncludeDrafts lists unpublished books too (admin screens only).
	IncludeDrafts bool
}

// Filtered reports whether the query restricts results by category.
func (q BookQuery) Filtered() bool {
	return q.Category != "" && q.Category != CategoryAll
}

// CategoryQuery selects categories for filter buttons and admin screens.
type CategoryQuery struct {
	// HideEmpty drops categories with no published books.
	HideEmpty bool
}

// RecordTypeStore registers record types and taxonomies.
type RecordTypeStore interface {
	CreateType(ctx context.Context, rt *entities.RecordType) error
	CreateTaxonomy(ctx context.Context, tx *entities.Taxonomy) error
}

// BookStore reads and writes book records.
type BookStore interface {
	QueryBooks(ctx context.Context, q BookQuery) ([]entities.Book, error)
	GetBook(ctx context.Context, id uint) (*entities.Book, error)
	SaveBook(ctx context.Context, book *entities.Book, categoryIDs []uint) error
	DeleteBook(ctx context.Context, id uint) error
}

// MetaStore reads and writes per-book key/value metadata.
type MetaStore interface {
	GetMeta(ctx context.Context, bookID uint, key string) (string, error)
	SetMeta(ctx context.Context, bookID uint, key, value string) error
}

// CategoryStore reads and writes taxonomy terms.
type CategoryStore interface {
	QueryCategories(ctx context.Context, q CategoryQuery) ([]entities.Category, error)
	CreateCategory(ctx context.Context, category *entities.Category) error
	DeleteCategory(ctx context.Context, id uint) error
}

// Store is the full content capability.
type Store interface {
	RecordTypeStore
	BookStore
	MetaStore
	CategoryStore
}
