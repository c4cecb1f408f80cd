package http

import (
	"context"

	"github.com/mrlokans/bookgallery/internal/auth"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Content
	Store   AdminStore
	Gallery interface {
		Lister
		ShortcodeExpander
	}
	MetaBox  MetaBoxEditor
	PageBody string // front page content, shortcodes expanded

	// Sessions, nonces and admin CSRF protection
	SessionManager *auth.SessionManager
	Nonces         NonceIssuer
	CSRFSecret     []byte
	SecureCookies  bool

	// Thumbnails (optional)
	Thumbnails     ThumbnailFetcher
	ThumbnailTasks ThumbnailEnqueuer
	PruneNow       func(ctx context.Context) error

	// UI paths. Empty uses the embedded assets.
	TemplatesPath string
	StaticPath    string

	// Health
	Database Pinger
	Version  string
}
