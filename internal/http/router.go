package http

import (
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookgallery/internal/auth"
	"github.com/mrlokans/bookgallery/web"
)

// AjaxPaths are the endpoints served by the AJAX dispatcher. The first keeps
// existing front-end scripts working unchanged.
var AjaxPaths = []string{"/wp-admin/admin-ajax.php", "/ajax"}

// loadTemplates parses templates from dir, or from the embedded set when dir is empty.
func loadTemplates(dir string) (*template.Template, error) {
	tmpl := template.New("")
	if dir != "" {
		return tmpl.ParseGlob(dir + "/*.html")
	}
	return tmpl.ParseFS(web.Templates, "templates/*.html")
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(auth.SecurityHeadersMiddleware())

	// Sessions carry the meta box nonce salt
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	tmpl, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	} else {
		static, err := fs.Sub(web.Static, "static")
		if err != nil {
			return nil, err
		}
		router.StaticFS("/static", http.FS(static))
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// AJAX endpoints. Not CSRF protected: load_more_books only reads.
	ajax := NewAjaxDispatcher()
	ajax.Register(ActionLoadMoreBooks, LoadMoreBooksHandler(cfg.Gallery))
	for _, path := range AjaxPaths {
		router.POST(path, ajax.Handle)
	}

	// Public pages
	pages := NewGalleryController(cfg.Store, cfg.Gallery, cfg.PageBody)
	router.GET("/", pages.Home)
	router.GET("/books/:id", pages.Book)

	thumbs := NewThumbnailsController(cfg.Thumbnails, cfg.Store)
	router.GET("/books/:id/thumbnail", thumbs.GetThumbnail)

	// Admin screens
	admin := router.Group("/admin")
	if len(cfg.CSRFSecret) > 0 {
		admin.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	adminController := NewAdminController(cfg.Store, cfg.MetaBox, cfg.Nonces, cfg.Thumbnails, cfg.ThumbnailTasks)
	admin.GET("/books", adminController.ListBooks)
	admin.GET("/books/new", adminController.NewBook)
	admin.POST("/books", adminController.CreateBook)
	admin.GET("/books/:id/edit", adminController.EditBook)
	admin.POST("/books/:id", adminController.UpdateBook)
	admin.POST("/books/:id/delete", adminController.DeleteBook)
	admin.GET("/categories", adminController.ListCategories)
	admin.POST("/categories", adminController.CreateCategory)
	admin.POST("/categories/:id/delete", adminController.DeleteCategory)
	if cfg.PruneNow != nil {
		admin.POST("/thumbnails/prune", PruneThumbnailsHandler(cfg.PruneNow))
	}

	return router, nil
}
