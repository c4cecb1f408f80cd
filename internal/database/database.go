package database

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookgallery/internal/content"
	"github.com/mrlokans/bookgallery/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

var _ content.Store = (*Database)(nil)

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.RecordType{},
		&entities.Taxonomy{},
		&entities.Category{},
		&entities.Book{},
		&entities.BookMeta{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks database connectivity for health reporting.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// CreateType registers a record type, updating it if the name already exists.
func (d *Database) CreateType(ctx context.Context, rt *entities.RecordType) error {
	return d.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"label", "public", "show_in_api", "supports", "menu_icon", "updated_at"}),
	}).Create(rt).Error
}

// CreateTaxonomy registers a taxonomy, updating it if the name already exists.
func (d *Database) CreateTaxonomy(ctx context.Context, tx *entities.Taxonomy) error {
	return d.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"record_type", "label", "hierarchical", "rewrite_slug", "updated_at"}),
	}).Create(tx).Error
}

func (d *Database) GetRecordType(ctx context.Context, name string) (*entities.RecordType, error) {
	var rt entities.RecordType
	err := d.DB.WithContext(ctx).Where("name = ?", name).First(&rt).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &rt, nil
}

func (d *Database) GetTaxonomy(ctx context.Context, name string) (*entities.Taxonomy, error) {
	var tx entities.Taxonomy
	err := d.DB.WithContext(ctx).Where("name = ?", name).First(&tx).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &tx, nil
}

// notFound maps gorm's missing-record error onto content.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return content.ErrNotFound
	}
	return err
}
