// Package interfaces holds compile-time checks that the concrete types wired
// together in internal/entrypoint satisfy the capabilities their consumers
// declare.
//
// To verify all checks pass: go build ./internal/interfaces/...
package interfaces

import (
	"github.com/mrlokans/bookgallery/internal/auth"
	"github.com/mrlokans/bookgallery/internal/content"
	"github.com/mrlokans/bookgallery/internal/database"
	"github.com/mrlokans/bookgallery/internal/gallery"
	"github.com/mrlokans/bookgallery/internal/http"
	"github.com/mrlokans/bookgallery/internal/tasks"
	"github.com/mrlokans/bookgallery/internal/thumbnails"
)

// =============================================================================
// Content Store
// =============================================================================

var _ content.Store = (*database.Database)(nil)
var _ http.AdminStore = (*database.Database)(nil)
var _ http.BookGetter = (*database.Database)(nil)
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Gallery
// =============================================================================

var _ http.Lister = (*gallery.Gallery)(nil)
var _ http.ShortcodeExpander = (*gallery.Gallery)(nil)
var _ http.MetaBoxEditor = (*gallery.MetaBox)(nil)

// =============================================================================
// Nonces
// =============================================================================

var _ http.NonceIssuer = (*auth.NonceManager)(nil)
var _ gallery.NonceVerifier = (*auth.NonceManager)(nil)

// =============================================================================
// Thumbnails and Background Tasks
// =============================================================================

var _ http.ThumbnailFetcher = (*thumbnails.Cache)(nil)
var _ http.ThumbnailEnqueuer = (*tasks.Client)(nil)
var _ tasks.ThumbnailCache = (*thumbnails.Cache)(nil)
var _ tasks.BookGetter = (*database.Database)(nil)
var _ tasks.ThumbnailURLLister = (*database.Database)(nil)
