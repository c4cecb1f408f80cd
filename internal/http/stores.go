package http

import (
	"context"
	"html/template"

	"github.com/mrlokans/bookgallery/internal/content"
	"github.com/mrlokans/bookgallery/internal/entities"
	"github.com/mrlokans/bookgallery/internal/gallery"
)

// Each controller declares the narrow capability it needs. Everything below
// is satisfied by *database.Database, *gallery.Gallery, *auth.NonceManager,
// *thumbnails.Cache and *tasks.Client.

// BookGetter provides read access to a single book.
type BookGetter interface {
	GetBook(ctx context.Context, id uint) (*entities.Book, error)
}

// Lister renders gallery pages.
type Lister interface {
	LoadMore(ctx context.Context, req gallery.PageRequest) ([]template.HTML, error)
	PerPage() int
}

// ShortcodeExpander renders content bodies containing [books] shortcodes.
type ShortcodeExpander interface {
	ExpandShortcodes(ctx context.Context, body string) (template.HTML, error)
}

// MetaBoxEditor renders and saves the gallery meta box.
type MetaBoxEditor interface {
	Render(ctx context.Context, book *entities.Book, nonce string) (template.HTML, error)
	Save(ctx context.Context, bookID uint, nonce, value string) error
}

// NonceIssuer creates per-form nonces bound to the caller's session.
type NonceIssuer interface {
	Create(ctx context.Context, action string) (string, error)
}

// ThumbnailFetcher returns the local path of a book's cached thumbnail.
type ThumbnailFetcher interface {
	GetThumbnail(ctx context.Context, bookID uint, thumbnailURL string) (string, error)
	Invalidate(bookID uint) error
}

// ThumbnailEnqueuer schedules background thumbnail downloads.
type ThumbnailEnqueuer interface {
	EnqueueThumbnail(ctx context.Context, bookID uint) error
}

// AdminStore is what the admin screens need from the content store.
type AdminStore interface {
	content.BookStore
	content.CategoryStore
}

// Pinger checks a dependency for health reporting.
type Pinger interface {
	Ping(ctx context.Context) error
}
