package database

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookgallery/internal/content"
	"github.com/mrlokans/bookgallery/internal/entities"
)

// setupTestDB creates a fresh test database
func setupTestDB(t *testing.T) (*Database, func()) {
	t.Helper()
	dbPath := "./test_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func newBook(title string, minutes int) *entities.Book {
	return &entities.Book{
		Title:     title,
		CreatedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute),
	}
}

func titles(books []entities.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func TestDatabase_RecordTypes(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("CreateType upserts by name", func(t *testing.T) {
		require.NoError(t, db.CreateType(ctx, &entities.RecordType{Name: "book", Label: "Books"}))
		require.NoError(t, db.CreateType(ctx, &entities.RecordType{Name: "book", Label: "Library", Public: true}))

		rt, err := db.GetRecordType(ctx, "book")
		require.NoError(t, err)
		assert.Equal(t, "Library", rt.Label)
		assert.True(t, rt.Public)
	})

	t.Run("CreateTaxonomy upserts by name", func(t *testing.T) {
		require.NoError(t, db.CreateTaxonomy(ctx, &entities.Taxonomy{Name: "book_category", RecordType: "book"}))
		require.NoError(t, db.CreateTaxonomy(ctx, &entities.Taxonomy{Name: "book_category", RecordType: "book", Hierarchical: true}))

		tx, err := db.GetTaxonomy(ctx, "book_category")
		require.NoError(t, err)
		assert.True(t, tx.Hierarchical)
	})

	t.Run("missing record type", func(t *testing.T) {
		_, err := db.GetRecordType(ctx, "movie")
		assert.ErrorIs(t, err, content.ErrNotFound)
	})
}

func TestDatabase_Ping(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	assert.NoError(t, db.Ping(context.Background()))
}
