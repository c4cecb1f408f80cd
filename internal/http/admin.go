package http

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookgallery/internal/content"
	"github.com/mrlokans/bookgallery/internal/entities"
	"github.com/mrlokans/bookgallery/internal/gallery"
	"github.com/mrlokans/bookgallery/internal/sanitize"
)

const invalidThumbnailMessage = "Thumbnail URL must be an http or https address."

// AdminController serves the book editing screens.
type AdminController struct {
	store      AdminStore
	metaBox    MetaBoxEditor
	nonces     NonceIssuer
	thumbnails ThumbnailFetcher
	warmer     ThumbnailEnqueuer
}

// NewAdminController creates the admin controller. thumbnails and warmer
// may be nil.
func NewAdminController(store AdminStore, metaBox MetaBoxEditor, nonces NonceIssuer, thumbnails ThumbnailFetcher, warmer ThumbnailEnqueuer) *AdminController {
	return &AdminController{
		store:      store,
		metaBox:    metaBox,
		nonces:     nonces,
		thumbnails: thumbnails,
		warmer:     warmer,
	}
}

// ListBooks shows every book, drafts included.
// GET /admin/books
func (ac *AdminController) ListBooks(c *gin.Context) {
	books, err := ac.store.QueryBooks(c.Request.Context(), content.BookQuery{IncludeDrafts: true})
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	data := pageData(c, "Books")
	data["Books"] = books
	c.HTML(http.StatusOK, "admin-books", data)
}

// NewBook shows an empty book form.
// GET /admin/books/new
func (ac *AdminController) NewBook(c *gin.Context) {
	ac.renderForm(c, http.StatusOK, &entities.Book{Status: entities.BookStatusPublish}, nil, "")
}

// EditBook shows the form for an existing book.
// GET /admin/books/:id/edit
func (ac *AdminController) EditBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := ac.store.GetBook(c.Request.Context(), id)
	if errors.Is(err, content.ErrNotFound) {
		c.String(http.StatusNotFound, "Book not found")
		return
	}
	if err != nil {
		respondInternalError(c, err, "load book")
		return
	}

	ac.renderForm(c, http.StatusOK, book, book.CategoryIDs(), "")
}

// CreateBook saves a new book.
// POST /admin/books
func (ac *AdminController) CreateBook(c *gin.Context) {
	ac.saveBook(c, &entities.Book{})
}

// UpdateBook saves an existing book.
// POST /admin/books/:id
func (ac *AdminController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := ac.store.GetBook(c.Request.Context(), id)
	if errors.Is(err, content.ErrNotFound) {
		c.String(http.StatusNotFound, "Book not found")
		return
	}
	if err != nil {
		respondInternalError(c, err, "load book")
		return
	}

	ac.saveBook(c, book)
}

// DeleteBook moves a book out of every listing.
// POST /admin/books/:id/delete
func (ac *AdminController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := ac.store.DeleteBook(c.Request.Context(), id)
	if errors.Is(err, content.ErrNotFound) {
		c.String(http.StatusNotFound, "Book not found")
		return
	}
	if err != nil {
		respondInternalError(c, err, "delete book")
		return
	}

	if ac.thumbnails != nil {
		if err := ac.thumbnails.Invalidate(id); err != nil {
			log.Printf("[GALLERY] could not drop thumbnail of book %d: %v", id, err)
		}
	}

	redirectWith(c, "/admin/books", "message", "Book deleted.")
}

func (ac *AdminController) saveBook(c *gin.Context, book *entities.Book) {
	ctx := c.Request.Context()
	previousThumbnail := book.ThumbnailURL

	book.Title = sanitize.TextField(c.PostForm("title"))
	book.Body = c.PostForm("body")
	book.Status = entities.BookStatusPublish
	if c.PostForm("status") == string(entities.BookStatusDraft) {
		book.Status = entities.BookStatusDraft
	}
	categoryIDs := parseIDList(c.PostFormArray("categories"))

	thumbnail, valid := parseThumbnailURL(c.PostForm("thumbnail_url"))
	book.ThumbnailURL = thumbnail
	if !valid {
		ac.renderForm(c, http.StatusBadRequest, book, idSet(categoryIDs), invalidThumbnailMessage)
		return
	}

	if err := ac.store.SaveBook(ctx, book, categoryIDs); err != nil {
		respondInternalError(c, err, "save book")
		return
	}

	// A bad nonce leaves the gallery field as it was without telling the editor
	err := ac.metaBox.Save(ctx, book.ID, c.PostForm(gallery.MetaBoxNonceField), c.PostForm(gallery.MetaBoxValueField))
	if errors.Is(err, gallery.ErrNonceMismatch) {
		log.Printf("[GALLERY] meta box nonce mismatch for book %d, gallery field not saved", book.ID)
	} else if err != nil {
		respondInternalError(c, err, "save gallery meta")
		return
	}

	if book.ThumbnailURL != previousThumbnail {
		ac.refreshThumbnail(c, book.ID)
	}

	redirectWith(c, fmt.Sprintf("/admin/books/%d/edit", book.ID), "message", "Book saved.")
}

func (ac *AdminController) refreshThumbnail(c *gin.Context, bookID uint) {
	if ac.thumbnails != nil {
		if err := ac.thumbnails.Invalidate(bookID); err != nil {
			log.Printf("[GALLERY] could not drop thumbnail of book %d: %v", bookID, err)
		}
	}
	if ac.warmer != nil {
		if err := ac.warmer.EnqueueThumbnail(c.Request.Context(), bookID); err != nil {
			log.Printf("[GALLERY] %v", err)
		}
	}
}

func (ac *AdminController) renderForm(c *gin.Context, status int, book *entities.Book, selected map[uint]bool, formError string) {
	ctx := c.Request.Context()

	categories, err := ac.store.QueryCategories(ctx, content.CategoryQuery{})
	if err != nil {
		respondInternalError(c, err, "list categories")
		return
	}

	nonce, err := ac.nonces.Create(ctx, gallery.MetaBoxAction)
	if err != nil {
		respondInternalError(c, err, "create meta box nonce")
		return
	}

	metaBox, err := ac.metaBox.Render(ctx, book, nonce)
	if err != nil {
		respondInternalError(c, err, "render meta box")
		return
	}

	title := "Add New Book"
	if book.ID != 0 {
		title = "Edit Book"
	}
	data := pageData(c, title)
	if formError != "" {
		data["Error"] = formError
	}
	data["Book"] = book
	data["Categories"] = categories
	data["Selected"] = selected
	data["MetaBox"] = metaBox
	c.HTML(status, "admin-book-form", data)
}

// parseThumbnailURL accepts an empty value or an absolute http(s) URL.
func parseThumbnailURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", true
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return raw, false
	}
	return u.String(), true
}

// parseIDList parses form IDs, skipping anything that is not a positive integer.
func parseIDList(values []string) []uint {
	ids := make([]uint, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}

func idSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
