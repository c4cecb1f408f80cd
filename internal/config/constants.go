package config

const (
	// DefaultDatabasePath is the default path for the content database
	DefaultDatabasePath = "./bookgallery.db"

	// DefaultPerPage is the gallery page size used when none is given
	DefaultPerPage = 5

	// DefaultPageBody is the front page content when GALLERY_PAGE_BODY is unset
	DefaultPageBody = "[books per_page=5]"
)
