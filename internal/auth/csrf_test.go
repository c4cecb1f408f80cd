package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testSecret = []byte("test-secret-key-32-bytes-long!!!")

func TestCSRFMiddleware_AllowsGET(t *testing.T) {
	router := gin.New()
	router.Use(CSRFMiddleware(testSecret, false))
	router.GET("/admin/books", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/books", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200 for GET request, got %d", rr.Code)
	}
}

func TestCSRFMiddleware_BlocksPOSTWithoutToken(t *testing.T) {
	called := false
	router := gin.New()
	router.Use(CSRFMiddleware(testSecret, false))
	router.POST("/admin/books", func(c *gin.Context) {
		called = true
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/books", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for POST without CSRF token, got %d", rr.Code)
	}
	if called {
		t.Error("handler must not run when the CSRF check fails")
	}
}

func TestCSRFMiddleware_RedirectsToReferer(t *testing.T) {
	router := gin.New()
	router.Use(CSRFMiddleware(testSecret, false))
	router.POST("/admin/books", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/books", nil)
	req.Header.Set("Referer", "http://example.com/admin/books/new")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("Expected 303, got %d", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "http://example.com/admin/books/new?error=Session+expired.+Please+try+again." {
		t.Errorf("unexpected redirect location %q", got)
	}
}

func TestCSRFMiddleware_SetsTokenInContext(t *testing.T) {
	var csrfToken string
	router := gin.New()
	router.Use(CSRFMiddleware(testSecret, false))
	router.GET("/admin/books", func(c *gin.Context) {
		csrfToken = GetCSRFToken(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/books", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if csrfToken == "" {
		t.Error("Expected CSRF token to be set in context")
	}
}

func TestGetCSRFToken_NoToken(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if token := GetCSRFToken(c); token != "" {
		t.Errorf("Expected empty token, got %s", token)
	}
}
