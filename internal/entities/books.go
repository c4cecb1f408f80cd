package entities

import (
	"time"

	"gorm.io/gorm"
)

type BookStatus string

const (
	BookStatusPublish BookStatus = "publish"
	BookStatusDraft   BookStatus = "draft"
)

// Record type and taxonomy names used by the gallery.
const (
	RecordTypeBook       = "book"
	TaxonomyBookCategory = "book_category"
)

// MetaKeyGallery is the book meta key edited through the gallery meta box.
const MetaKeyGallery = "gallery"

type Book struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Title        string         `gorm:"index;size:512" json:"title"`
	Body         string         `gorm:"type:text" json:"body,omitempty"`
	ThumbnailURL string         `gorm:"size:2048" json:"thumbnail_url,omitempty"`
	Status       BookStatus     `gorm:"index;size:20;default:'publish'" json:"status"`
	Categories   []Category     `gorm:"many2many:book_categories;" json:"categories,omitempty"`
	Meta         []BookMeta     `gorm:"foreignKey:BookID" json:"-"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// HasCategory reports whether the book is tagged with the given category slug.
func (b *Book) HasCategory(slug string) bool {
	for _, c := range b.Categories {
		if c.Slug == slug {
			return true
		}
	}
	return false
}

// CategoryIDs returns the IDs of the book's categories, used by the edit form.
func (b *Book) CategoryIDs() map[uint]bool {
	ids := make(map[uint]bool, len(b.Categories))
	for _, c := range b.Categories {
		ids[c.ID] = true
	}
	return ids
}

type BookMeta struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookID    uint      `gorm:"uniqueIndex:idx_book_meta_key" json:"book_id"`
	Key       string    `gorm:"uniqueIndex:idx_book_meta_key;size:255" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BookMeta) TableName() string {
	return "book_meta"
}

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:200" json:"name"`
	Slug        string    `gorm:"uniqueIndex;size:200" json:"slug"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	ParentID    *uint     `gorm:"index" json:"parent_id,omitempty"`
	Parent      *Category `gorm:"foreignKey:ParentID" json:"-"`
	Books       []Book    `gorm:"many2many:book_categories;" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RecordType is a registered content type, e.g. "book".
type RecordType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:50" json:"name"`
	Label     string    `gorm:"size:100" json:"label"`
	Public    bool      `json:"public"`
	ShowInAPI bool      `json:"show_in_api"`
	Supports  string    `gorm:"size:255" json:"supports"` // comma separated, e.g. "title,editor,thumbnail"
	MenuIcon  string    `gorm:"size:100" json:"menu_icon"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Taxonomy is a registered tagging system attached to a record type.
type Taxonomy struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"uniqueIndex;size:50" json:"name"`
	RecordType   string    `gorm:"size:50" json:"record_type"`
	Label        string    `gorm:"size:100" json:"label"`
	Hierarchical bool      `json:"hierarchical"`
	RewriteSlug  string    `gorm:"size:100" json:"rewrite_slug"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
