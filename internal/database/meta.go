package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookgallery/internal/entities"
)

// GetMeta returns a book meta value. A missing key yields the empty string.
func (d *Database) GetMeta(ctx context.Context, bookID uint, key string) (string, error) {
	var meta entities.BookMeta
	err := d.DB.WithContext(ctx).Where("book_id = ? AND key = ?", bookID, key).First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return meta.Value, nil
}

// SetMeta writes a book meta value, replacing any previous value for the key.
func (d *Database) SetMeta(ctx context.Context, bookID uint, key, value string) error {
	meta := entities.BookMeta{BookID: bookID, Key: key, Value: value}
	return d.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "book_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&meta).Error
}
