package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookgallery/internal/entities"
)

// BookGetter loads a single book.
type BookGetter interface {
	GetBook(ctx context.Context, id uint) (*entities.Book, error)
}

// ThumbnailURLLister reports the current thumbnail URL of every live book.
type ThumbnailURLLister interface {
	ThumbnailURLs(ctx context.Context) (map[uint]string, error)
}

// ThumbnailCache is the part of thumbnails.Cache the tasks use.
type ThumbnailCache interface {
	GetThumbnail(ctx context.Context, bookID uint, thumbnailURL string) (string, error)
	Prune(live map[uint]string) (int, error)
}

// WarmThumbnailTask downloads a book's thumbnail into the local cache so the
// first gallery visitor does not pay for the fetch.
type WarmThumbnailTask struct {
	BookID uint `json:"book_id"`
}

// Config returns the queue configuration for thumbnail downloads.
func (t WarmThumbnailTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "warm_thumbnail",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// WarmThumbnailProcessor fetches the thumbnail of the task's book.
// A book that no longer exists or has no thumbnail is not an error.
func WarmThumbnailProcessor(books BookGetter, cache ThumbnailCache) backlite.QueueProcessor[WarmThumbnailTask] {
	return func(ctx context.Context, task WarmThumbnailTask) error {
		if books == nil || cache == nil {
			return fmt.Errorf("thumbnail warming not configured")
		}

		book, err := books.GetBook(ctx, task.BookID)
		if err != nil {
			log.Printf("[TASK] Skipping thumbnail for book %d: %v", task.BookID, err)
			return nil
		}
		if book.ThumbnailURL == "" {
			return nil
		}

		path, err := cache.GetThumbnail(ctx, book.ID, book.ThumbnailURL)
		if err != nil {
			return fmt.Errorf("warm thumbnail for book %d: %w", book.ID, err)
		}

		log.Printf("[TASK] Cached thumbnail for book %d (%s) at %s", book.ID, book.Title, path)
		return nil
	}
}

// NewWarmThumbnailQueue creates the backlite queue for thumbnail downloads.
func NewWarmThumbnailQueue(books BookGetter, cache ThumbnailCache) backlite.Queue {
	return backlite.NewQueue(WarmThumbnailProcessor(books, cache))
}

// PruneThumbnailsTask removes cached thumbnails of deleted books and of
// replaced thumbnail URLs.
type PruneThumbnailsTask struct{}

// Config returns the queue configuration for cache pruning.
func (t PruneThumbnailsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "prune_thumbnails",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PruneThumbnailsProcessor prunes the cache against the live book set.
func PruneThumbnailsProcessor(books ThumbnailURLLister, cache ThumbnailCache) backlite.QueueProcessor[PruneThumbnailsTask] {
	return func(ctx context.Context, task PruneThumbnailsTask) error {
		if books == nil || cache == nil {
			return fmt.Errorf("thumbnail pruning not configured")
		}

		live, err := books.ThumbnailURLs(ctx)
		if err != nil {
			return fmt.Errorf("list thumbnails: %w", err)
		}

		removed, err := cache.Prune(live)
		if err != nil {
			return fmt.Errorf("prune thumbnails: %w", err)
		}

		log.Printf("[TASK] Pruned %d cached thumbnails", removed)
		return nil
	}
}

// NewPruneThumbnailsQueue creates the backlite queue for cache pruning.
func NewPruneThumbnailsQueue(books ThumbnailURLLister, cache ThumbnailCache) backlite.Queue {
	return backlite.NewQueue(PruneThumbnailsProcessor(books, cache))
}
