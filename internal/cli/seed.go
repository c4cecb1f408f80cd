package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrlokans/bookgallery/internal/config"
	"github.com/mrlokans/bookgallery/internal/database"
	"github.com/mrlokans/bookgallery/internal/entities"
	"github.com/mrlokans/bookgallery/internal/gallery"
)

var sampleTitles = []string{
	"The Silent Harbor",
	"A Map of Forgotten Roads",
	"Letters from the Lighthouse",
	"The Clockmaker's Daughter",
	"Winter in Samarkand",
	"Salt and Iron",
	"The Last Cartographer",
	"Notes on a Quiet Empire",
	"Under the Linden Tree",
	"The Glass Orchard",
	"Rivers of the North",
	"A Short History of Bridges",
}

// SeedCommand fills a database with sample books and categories so the
// gallery has something to show.
type SeedCommand struct {
	DatabasePath string
	Count        int
	Categories   string
	Thumbnails   string
	Verbose      bool
}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{}
}

func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.IntVar(&cmd.Count, "n", 12, "Number of books to create")
	fs.StringVar(&cmd.Categories, "categories", "fiction,history", "Comma separated category slugs")
	fs.StringVar(&cmd.Thumbnails, "thumbnails", "", "Thumbnail URL template, %d is replaced by the book number")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print every created book")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create sample books and categories.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s seed -n 12 -categories fiction,history\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s seed -thumbnails https://picsum.photos/seed/%%d/300/450\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Count < 0 {
		fs.Usage()
		return fmt.Errorf("-n must not be negative")
	}

	return nil
}

func (cmd *SeedCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return cmd.seed(context.Background(), db)
}

func (cmd *SeedCommand) seed(ctx context.Context, db *database.Database) error {
	g := gallery.New(db, gallery.Options{})
	if err := g.Register(ctx); err != nil {
		return fmt.Errorf("failed to register book type: %w", err)
	}

	categories, err := cmd.ensureCategories(ctx, db)
	if err != nil {
		return err
	}

	start := time.Now().Add(-time.Duration(cmd.Count) * time.Minute)
	for i := 0; i < cmd.Count; i++ {
		book := &entities.Book{
			Title:     sampleTitle(i),
			Status:    entities.BookStatusPublish,
			CreatedAt: start.Add(time.Duration(i) * time.Minute),
		}
		if cmd.Thumbnails != "" {
			book.ThumbnailURL = strings.ReplaceAll(cmd.Thumbnails, "%d", fmt.Sprint(i+1))
		}

		var categoryIDs []uint
		if len(categories) > 0 {
			categoryIDs = []uint{categories[i%len(categories)].ID}
		}

		if err := db.SaveBook(ctx, book, categoryIDs); err != nil {
			return fmt.Errorf("failed to save %q: %w", book.Title, err)
		}
		if err := db.SetMeta(ctx, book.ID, entities.MetaKeyGallery, fmt.Sprintf("sample-%d", i+1)); err != nil {
			return fmt.Errorf("failed to save gallery meta for %q: %w", book.Title, err)
		}

		if cmd.Verbose {
			fmt.Printf("  #%d %s\n", book.ID, book.Title)
		}
	}

	fmt.Printf("Seeded %d books across %d categories into %s\n", cmd.Count, len(categories), cmd.DatabasePath)
	return nil
}

// ensureCategories returns the requested categories, creating missing ones.
func (cmd *SeedCommand) ensureCategories(ctx context.Context, db *database.Database) ([]entities.Category, error) {
	title := cases.Title(language.English)

	var result []entities.Category
	for _, slug := range strings.Split(cmd.Categories, ",") {
		slug = strings.TrimSpace(slug)
		if slug == "" {
			continue
		}

		if existing, err := db.GetCategoryBySlug(ctx, slug); err == nil {
			result = append(result, *existing)
			continue
		}

		category := &entities.Category{
			Name: title.String(strings.ReplaceAll(slug, "-", " ")),
			Slug: slug,
		}
		if err := db.CreateCategory(ctx, category); err != nil {
			return nil, fmt.Errorf("failed to create category %q: %w", slug, err)
		}
		result = append(result, *category)
	}
	return result, nil
}

func sampleTitle(i int) string {
	title := sampleTitles[i%len(sampleTitles)]
	if round := i / len(sampleTitles); round > 0 {
		title = fmt.Sprintf("%s, Vol. %d", title, round+1)
	}
	return title
}
