// Package database is the SQLite implementation of content.Store.
//
// # Layout
//
//	database/
//	├── database.go      # Connection setup, migrations, record types and taxonomies
//	├── books.go         # Book listing and CRUD
//	├── categories.go    # book_category terms and slug allocation
//	└── meta.go          # Per-book key/value meta
//
// # Usage
//
//	db, err := database.NewDatabase("./bookgallery.db")
//	g := gallery.New(db, gallery.Options{PerPage: 5})
//
// Books are soft-deleted. Listings never include deleted or draft books
// unless content.BookQuery.IncludeDrafts is set, and are always ordered
// newest first with the ID as tie-breaker so pages are stable.
//
// Missing records are reported as content.ErrNotFound, never as the gorm error.
package database
