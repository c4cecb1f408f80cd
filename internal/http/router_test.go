package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookgallery/internal/auth"
	"github.com/mrlokans/bookgallery/internal/config"
	"github.com/mrlokans/bookgallery/internal/content"
	"github.com/mrlokans/bookgallery/internal/database"
	"github.com/mrlokans/bookgallery/internal/entities"
	"github.com/mrlokans/bookgallery/internal/gallery"
)

var testNonceSecret = []byte("nonce-secret-key-32-bytes-long!!")

type testEnv struct {
	router *gin.Engine
	db     *database.Database
	cfg    RouterConfig
}

type envOption func(cfg *RouterConfig, db *database.Database)

func withPagination(mode config.PaginationMode) envOption {
	return func(cfg *RouterConfig, db *database.Database) {
		cfg.Gallery = gallery.New(db, gallery.Options{PerPage: 5, Pagination: mode})
	}
}

func withCSRF(secret []byte) envOption {
	return func(cfg *RouterConfig, _ *database.Database) {
		cfg.CSRFSecret = secret
	}
}

// setupTestEnv builds the full router on a fresh database file.
func setupTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	sessions := auth.NewMemorySessionManager()
	nonces := auth.NewNonceManager(sessions, testNonceSecret, time.Hour)

	cfg := RouterConfig{
		Store:          db,
		Gallery:        gallery.New(db, gallery.Options{PerPage: 5}),
		MetaBox:        gallery.NewMetaBox(db, nonces),
		PageBody:       "<p>Welcome</p>[books per_page=5]",
		SessionManager: sessions,
		Nonces:         nonces,
		Database:       db,
		Version:        "test",
	}
	for _, opt := range opts {
		opt(&cfg, db)
	}

	router, err := NewRouter(cfg)
	require.NoError(t, err)
	return &testEnv{router: router, db: db, cfg: cfg}
}

func (e *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) post(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createCategory(t *testing.T, name string) *entities.Category {
	t.Helper()
	category := &entities.Category{Name: name}
	require.NoError(t, e.db.CreateCategory(context.Background(), category))
	return category
}

// createBooks adds n published books with thumbnails, one minute apart,
// and returns their IDs newest first.
func (e *testEnv) createBooks(t *testing.T, n int, categories ...*entities.Category) []uint {
	t.Helper()
	var categoryIDs []uint
	for _, c := range categories {
		categoryIDs = append(categoryIDs, c.ID)
	}

	count, err := e.db.CountBooks(context.Background())
	require.NoError(t, err)

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	ids := make([]uint, n)
	for i := 0; i < n; i++ {
		book := &entities.Book{
			Title:        "Book",
			ThumbnailURL: "https://covers.example.com/book.jpg",
			CreatedAt:    base.Add(time.Duration(int(count)+i) * time.Minute),
		}
		require.NoError(t, e.db.SaveBook(context.Background(), book, categoryIDs))
		ids[n-1-i] = book.ID
	}
	return ids
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	return nil
}

func TestRouter_Ping(t *testing.T) {
	env := setupTestEnv(t)

	w := env.get("/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}

func TestRouter_StaticAssets(t *testing.T) {
	env := setupTestEnv(t)

	w := env.get("/static/book-gallery.js")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "load_more_books")
	assert.Contains(t, w.Body.String(), "dataset.perPage")
}

func TestRouter_SecurityHeaders(t *testing.T) {
	env := setupTestEnv(t)

	w := env.get("/")
	assert.Equal(t, "SAMEORIGIN", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
}

func TestRouter_AdminCSRF(t *testing.T) {
	secret := []byte("csrf-secret-key-32-bytes-long!!!")
	env := setupTestEnv(t, withCSRF(secret))

	t.Run("GET renders the token", func(t *testing.T) {
		w := env.get("/admin/categories")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `name="`+auth.CSRFFieldName+`"`)
	})

	t.Run("POST without token is rejected", func(t *testing.T) {
		w := env.post("/admin/categories", url.Values{"name": {"Fiction"}})
		assert.Equal(t, http.StatusForbidden, w.Code)

		categories, err := env.db.QueryCategories(context.Background(), content.CategoryQuery{})
		require.NoError(t, err)
		assert.Empty(t, categories)
	})

	t.Run("AJAX is not CSRF protected", func(t *testing.T) {
		w := env.post("/wp-admin/admin-ajax.php", url.Values{"action": {ActionLoadMoreBooks}})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
