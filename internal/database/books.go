package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookgallery/internal/content"
	"github.com/mrlokans/bookgallery/internal/entities"
)

// QueryBooks lists books most recent first, optionally restricted to a category slug.
func (d *Database) QueryBooks(ctx context.Context, q content.BookQuery) ([]entities.Book, error) {
	db := d.DB.WithContext(ctx)
	query := db.Preload("Categories", func(db *gorm.DB) *gorm.DB {
		return db.Order("categories.name ASC")
	})

	if !q.IncludeDrafts {
		query = query.Where("books.status = ?", entities.BookStatusPublish)
	}

	if q.Filtered() {
		tagged := db.Table("book_categories").
			Select("book_categories.book_id").
			Joins("JOIN categories ON categories.id = book_categories.category_id").
			Where("categories.slug = ?", q.Category)
		query = query.Where("books.id IN (?)", tagged)
	}

	query = query.Order("books.created_at DESC").Order("books.id DESC")
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}

	var books []entities.Book
	if err := query.Find(&books).Error; err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	return books, nil
}

func (d *Database) GetBook(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	err := d.DB.WithContext(ctx).Preload("Categories").First(&book, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &book, nil
}

// SaveBook creates or updates a book and replaces its category set.
func (d *Database) SaveBook(ctx context.Context, book *entities.Book, categoryIDs []uint) error {
	if book.Status == "" {
		book.Status = entities.BookStatusPublish
	}

	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Categories", "Meta").Save(book).Error; err != nil {
			return fmt.Errorf("save book: %w", err)
		}

		categories := []entities.Category{}
		if len(categoryIDs) > 0 {
			if err := tx.Where("id IN ?", categoryIDs).Find(&categories).Error; err != nil {
				return fmt.Errorf("load categories: %w", err)
			}
		}

		if err := tx.Model(book).Association("Categories").Replace(categories); err != nil {
			return fmt.Errorf("replace categories: %w", err)
		}
		return nil
	})
}

// DeleteBook soft-deletes a book. Its meta rows are removed.
func (d *Database) DeleteBook(ctx context.Context, id uint) error {
	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&entities.Book{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return content.ErrNotFound
		}
		return tx.Where("book_id = ?", id).Delete(&entities.BookMeta{}).Error
	})
}

// CountBooks returns the number of books, drafts included.
func (d *Database) CountBooks(ctx context.Context) (int64, error) {
	var count int64
	err := d.DB.WithContext(ctx).Model(&entities.Book{}).Count(&count).Error
	return count, err
}

// ThumbnailURLs maps every non-deleted book with a thumbnail to its URL.
// Drafts are included so their cached images survive pruning.
func (d *Database) ThumbnailURLs(ctx context.Context) (map[uint]string, error) {
	var rows []struct {
		ID           uint
		ThumbnailURL string
	}
	err := d.DB.WithContext(ctx).Model(&entities.Book{}).
		Select("id", "thumbnail_url").
		Where("thumbnail_url <> ''").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list thumbnail urls: %w", err)
	}

	urls := make(map[uint]string, len(rows))
	for _, r := range rows {
		urls[r.ID] = r.ThumbnailURL
	}
	return urls, nil
}
