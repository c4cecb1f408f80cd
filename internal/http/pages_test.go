package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookgallery/internal/entities"
)

func TestGalleryController_Home(t *testing.T) {
	env := setupTestEnv(t)
	history := env.createCategory(t, "History")
	env.createCategory(t, "Empty")
	env.createBooks(t, 7, history)

	w := env.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, "<p>Welcome</p>")
	assert.Contains(t, body, `data-category="history">History</button>`)
	assert.NotContains(t, body, `data-category="empty"`)
	assert.Contains(t, body, `<div id="book-container" data-per-page="5">`)
	assert.Equal(t, 5, strings.Count(body, `class="book-item"`))
	assert.Contains(t, body, `<button id="load-more-books">Load More</button>`)
	assert.Contains(t, body, `<script src="/static/book-gallery.js"`)
}

func TestGalleryController_HomeWithoutBooks(t *testing.T) {
	env := setupTestEnv(t)

	w := env.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<div id="book-container" data-per-page="5"></div>`)
}

func TestGalleryController_Book(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	book := &entities.Book{Title: "Dune", Body: "<p>Spice</p>[books per_page=1]"}
	require.NoError(t, env.db.SaveBook(ctx, book, nil))
	draft := &entities.Book{Title: "Secret", Status: entities.BookStatusDraft}
	require.NoError(t, env.db.SaveBook(ctx, draft, nil))

	t.Run("renders body with shortcodes", func(t *testing.T) {
		w := env.get(fmt.Sprintf("/books/%d", book.ID))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "<h1>Dune</h1>")
		assert.Contains(t, w.Body.String(), "<p>Spice</p>")
		assert.Contains(t, w.Body.String(), `data-per-page="1"`)
	})

	t.Run("draft is not found", func(t *testing.T) {
		w := env.get(fmt.Sprintf("/books/%d", draft.ID))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing book", func(t *testing.T) {
		w := env.get("/books/9999")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		w := env.get("/books/abc")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
