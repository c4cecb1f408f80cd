package gallery

import (
	"context"
	"fmt"

	"github.com/mrlokans/bookgallery/internal/entities"
)

// RegisterRecordType declares the "book" record type. Safe to call repeatedly.
func (g *Gallery) RegisterRecordType(ctx context.Context) error {
	rt := &entities.RecordType{
		Name:      entities.RecordTypeBook,
		Label:     "Books",
		Public:    true,
		ShowInAPI: true,
		Supports:  "title,editor,thumbnail",
		MenuIcon:  "dashicons-book",
	}
	if err := g.store.CreateType(ctx, rt); err != nil {
		return fmt.Errorf("register record type %s: %w", rt.Name, err)
	}
	return nil
}

// RegisterTaxonomy declares the hierarchical "book_category" taxonomy on books.
// Safe to call repeatedly.
func (g *Gallery) RegisterTaxonomy(ctx context.Context) error {
	tx := &entities.Taxonomy{
		Name:         entities.TaxonomyBookCategory,
		RecordType:   entities.RecordTypeBook,
		Label:        "Book Categories",
		Hierarchical: true,
		RewriteSlug:  "book-category",
	}
	if err := g.store.CreateTaxonomy(ctx, tx); err != nil {
		return fmt.Errorf("register taxonomy %s: %w", tx.Name, err)
	}
	return nil
}

// Register declares the record type and the taxonomy.
func (g *Gallery) Register(ctx context.Context) error {
	if err := g.RegisterRecordType(ctx); err != nil {
		return err
	}
	return g.RegisterTaxonomy(ctx)
}
