package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookgallery/internal/content"
	"github.com/mrlokans/bookgallery/internal/entities"
)

// ThumbnailsController serves cached book thumbnails.
type ThumbnailsController struct {
	cache ThumbnailFetcher
	books BookGetter
}

func NewThumbnailsController(cache ThumbnailFetcher, books BookGetter) *ThumbnailsController {
	return &ThumbnailsController{cache: cache, books: books}
}

// GetThumbnail serves the cached thumbnail image, fetching it on first use.
// Without a cache, or when the image cannot be cached, the client is sent to
// the original URL.
// GET /books/:id/thumbnail
func (tc *ThumbnailsController) GetThumbnail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := tc.books.GetBook(c.Request.Context(), id)
	if errors.Is(err, content.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		respondInternalError(c, err, "load book")
		return
	}
	if book.Status != entities.BookStatusPublish || book.ThumbnailURL == "" {
		c.Status(http.StatusNotFound)
		return
	}

	if tc.cache == nil {
		c.Redirect(http.StatusTemporaryRedirect, book.ThumbnailURL)
		return
	}

	cachePath, err := tc.cache.GetThumbnail(c.Request.Context(), book.ID, book.ThumbnailURL)
	if err != nil || cachePath == "" {
		if err != nil {
			log.Printf("[GALLERY] thumbnail for book %d not cached: %v", book.ID, err)
		}
		c.Redirect(http.StatusTemporaryRedirect, book.ThumbnailURL)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.File(cachePath)
}
