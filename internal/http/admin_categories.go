package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookgallery/internal/content"
	"github.com/mrlokans/bookgallery/internal/entities"
	"github.com/mrlokans/bookgallery/internal/sanitize"
)

type categoryRow struct {
	entities.Category
	ParentName string
}

// ListCategories shows every book category with the add form.
// GET /admin/categories
func (ac *AdminController) ListCategories(c *gin.Context) {
	categories, err := ac.store.QueryCategories(c.Request.Context(), content.CategoryQuery{})
	if err != nil {
		respondInternalError(c, err, "list categories")
		return
	}

	names := make(map[uint]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}
	rows := make([]categoryRow, len(categories))
	for i, cat := range categories {
		rows[i] = categoryRow{Category: cat}
		if cat.ParentID != nil {
			rows[i].ParentName = names[*cat.ParentID]
		}
	}

	data := pageData(c, "Book Categories")
	data["Categories"] = categories
	data["Rows"] = rows
	c.HTML(http.StatusOK, "admin-categories", data)
}

// CreateCategory adds a book category.
// POST /admin/categories
func (ac *AdminController) CreateCategory(c *gin.Context) {
	category := &entities.Category{
		Name:        sanitize.TextField(c.PostForm("name")),
		Slug:        sanitize.TextField(c.PostForm("slug")),
		Description: sanitize.TextField(c.PostForm("description")),
	}
	if category.Name == "" {
		redirectWith(c, "/admin/categories", "error", "A name is required for this term.")
		return
	}
	if raw := c.PostForm("parent"); raw != "" {
		parent, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			redirectWith(c, "/admin/categories", "error", "Parent category does not exist.")
			return
		}
		parentID := uint(parent)
		category.ParentID = &parentID
	}

	err := ac.store.CreateCategory(c.Request.Context(), category)
	switch {
	case errors.Is(err, content.ErrInvalidSlug):
		redirectWith(c, "/admin/categories", "error", "The name does not produce a usable slug.")
	case errors.Is(err, content.ErrNotFound):
		redirectWith(c, "/admin/categories", "error", "Parent category does not exist.")
	case err != nil:
		respondInternalError(c, err, "create category")
	default:
		redirectWith(c, "/admin/categories", "message", "Category added.")
	}
}

// DeleteCategory removes a book category. Its books stay, untagged.
// POST /admin/categories/:id/delete
func (ac *AdminController) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := ac.store.DeleteCategory(c.Request.Context(), id)
	if errors.Is(err, content.ErrNotFound) {
		c.String(http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		respondInternalError(c, err, "delete category")
		return
	}

	redirectWith(c, "/admin/categories", "message", "Category deleted.")
}

// PruneThumbnailsHandler runs the thumbnail cache prune immediately.
// POST /admin/thumbnails/prune
func PruneThumbnailsHandler(prune func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := prune(c.Request.Context()); err != nil {
			respondInternalError(c, err, "prune thumbnails")
			return
		}
		redirectWith(c, "/admin/books", "message", "Thumbnail cache pruned.")
	}
}
