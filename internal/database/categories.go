package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookgallery/internal/content"
	"github.com/mrlokans/bookgallery/internal/entities"
	"github.com/mrlokans/bookgallery/internal/sanitize"
)

// QueryCategories lists categories ordered by name.
func (d *Database) QueryCategories(ctx context.Context, q content.CategoryQuery) ([]entities.Category, error) {
	db := d.DB.WithContext(ctx)
	query := db.Model(&entities.Category{})

	if q.HideEmpty {
		used := db.Table("book_categories").
			Select("book_categories.category_id").
			Joins("JOIN books ON books.id = book_categories.book_id").
			Where("books.status = ? AND books.deleted_at IS NULL", entities.BookStatusPublish)
		query = query.Where("categories.id IN (?)", used)
	}

	var categories []entities.Category
	if err := query.Order("categories.name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	return categories, nil
}

func (d *Database) GetCategoryBySlug(ctx context.Context, slug string) (*entities.Category, error) {
	var category entities.Category
	err := d.DB.WithContext(ctx).Where("slug = ?", slug).First(&category).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

// CreateCategory inserts a category. An empty slug is derived from the name,
// and a taken slug gets a numeric suffix ("fiction-2").
func (d *Database) CreateCategory(ctx context.Context, category *entities.Category) error {
	base := category.Slug
	if base == "" {
		base = category.Name
	}
	base = sanitize.Slugify(base)
	if base == "" {
		return fmt.Errorf("%w: %q", content.ErrInvalidSlug, category.Name)
	}

	slug, err := d.uniqueSlug(ctx, base)
	if err != nil {
		return err
	}
	category.Slug = slug

	if category.ParentID != nil {
		if _, err := d.getCategory(ctx, *category.ParentID); err != nil {
			return fmt.Errorf("parent category: %w", err)
		}
	}

	return d.DB.WithContext(ctx).Create(category).Error
}

// DeleteCategory removes a category and its book associations.
// Children are re-parented to the deleted category's parent.
func (d *Database) DeleteCategory(ctx context.Context, id uint) error {
	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category entities.Category
		if err := tx.First(&category, id).Error; err != nil {
			return notFound(err)
		}

		if err := tx.Model(&entities.Category{}).
			Where("parent_id = ?", id).
			Update("parent_id", category.ParentID).Error; err != nil {
			return fmt.Errorf("reparent children: %w", err)
		}

		if err := tx.Exec("DELETE FROM book_categories WHERE category_id = ?", id).Error; err != nil {
			return fmt.Errorf("remove associations: %w", err)
		}

		return tx.Delete(&category).Error
	})
}

func (d *Database) getCategory(ctx context.Context, id uint) (*entities.Category, error) {
	var category entities.Category
	if err := d.DB.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

func (d *Database) uniqueSlug(ctx context.Context, base string) (string, error) {
	slug := base
	for i := 2; ; i++ {
		_, err := d.GetCategoryBySlug(ctx, slug)
		if errors.Is(err, content.ErrNotFound) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
