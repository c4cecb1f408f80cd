package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookgallery/internal/content"
	"github.com/mrlokans/bookgallery/internal/entities"
)

// GalleryController serves the public pages.
type GalleryController struct {
	books    BookGetter
	expander ShortcodeExpander
	pageBody string
}

func NewGalleryController(books BookGetter, expander ShortcodeExpander, pageBody string) *GalleryController {
	return &GalleryController{books: books, expander: expander, pageBody: pageBody}
}

// Home renders the front page body with its shortcodes expanded.
// GET /
func (gc *GalleryController) Home(c *gin.Context) {
	rendered, err := gc.expander.ExpandShortcodes(c.Request.Context(), gc.pageBody)
	if err != nil {
		respondInternalError(c, err, "render gallery")
		return
	}

	data := pageData(c, "")
	data["Content"] = rendered
	c.HTML(http.StatusOK, "gallery", data)
}

// Book renders a single published book.
// GET /books/:id
func (gc *GalleryController) Book(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := gc.books.GetBook(c.Request.Context(), id)
	if errors.Is(err, content.ErrNotFound) || (err == nil && book.Status != entities.BookStatusPublish) {
		c.String(http.StatusNotFound, "Book not found")
		return
	}
	if err != nil {
		respondInternalError(c, err, "load book")
		return
	}

	rendered, err := gc.expander.ExpandShortcodes(c.Request.Context(), book.Body)
	if err != nil {
		respondInternalError(c, err, "render book")
		return
	}

	data := pageData(c, book.Title)
	data["Book"] = book
	data["Content"] = rendered
	c.HTML(http.StatusOK, "book", data)
}
