package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookgallery/internal/content"
	"github.com/mrlokans/bookgallery/internal/database"
	"github.com/mrlokans/bookgallery/internal/entities"
)

func TestSeedCommand_ParseFlags(t *testing.T) {
	cmd := NewSeedCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-n", "7", "-categories", "poetry", "-db", "x.db"}))

	assert.Equal(t, 7, cmd.Count)
	assert.Equal(t, "poetry", cmd.Categories)
	assert.Equal(t, "x.db", cmd.DatabasePath)
}

func TestSeedCommand_ParseFlags_Defaults(t *testing.T) {
	cmd := NewSeedCommand()
	require.NoError(t, cmd.ParseFlags(nil))

	assert.Equal(t, 12, cmd.Count)
	assert.Equal(t, "fiction,history", cmd.Categories)
}

func TestSeedCommand_ParseFlags_NegativeCount(t *testing.T) {
	cmd := NewSeedCommand()
	assert.Error(t, cmd.ParseFlags([]string{"-n", "-1"}))
}

func TestSeedCommand_Run(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "seed.db")

	cmd := NewSeedCommand()
	require.NoError(t, cmd.ParseFlags([]string{
		"-db", dbPath,
		"-n", "14",
		"-categories", "fiction, science-fiction",
		"-thumbnails", "https://example.com/%d.jpg",
	}))
	require.NoError(t, cmd.Run())

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	books, err := db.QueryBooks(ctx, content.BookQuery{})
	require.NoError(t, err)
	require.Len(t, books, 14)
	assert.Equal(t, "A Map of Forgotten Roads, Vol. 2", books[0].Title)
	assert.Equal(t, "https://example.com/14.jpg", books[0].ThumbnailURL)

	fiction, err := db.QueryBooks(ctx, content.BookQuery{Category: "fiction"})
	require.NoError(t, err)
	assert.Len(t, fiction, 7)

	category, err := db.GetCategoryBySlug(ctx, "science-fiction")
	require.NoError(t, err)
	assert.Equal(t, "Science Fiction", category.Name)

	meta, err := db.GetMeta(ctx, books[0].ID, entities.MetaKeyGallery)
	require.NoError(t, err)
	assert.Equal(t, "sample-14", meta)

	_, err = db.GetRecordType(ctx, entities.RecordTypeBook)
	assert.NoError(t, err)
}

func TestSeedCommand_ReusesCategories(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "seed.db")

	for i := 0; i < 2; i++ {
		cmd := NewSeedCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-db", dbPath, "-n", "2", "-categories", "history"}))
		require.NoError(t, cmd.Run())
	}

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	categories, err := db.QueryCategories(context.Background(), content.CategoryQuery{})
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "history", categories[0].Slug)

	books, err := db.QueryBooks(context.Background(), content.BookQuery{Category: "history"})
	require.NoError(t, err)
	assert.Len(t, books, 4)
}
