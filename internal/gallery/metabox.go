package gallery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/mrlokans/bookgallery/internal/content"
	"github.com/mrlokans/bookgallery/internal/entities"
	"github.com/mrlokans/bookgallery/internal/sanitize"
)

// Meta box form contract.
const (
	MetaBoxAction     = "book_gallery_meta_box"
	MetaBoxNonceField = "book_gallery_nonce"
	MetaBoxValueField = "book_gallery"
)

// ErrNonceMismatch is returned by MetaBox.Save when the nonce does not verify.
// Nothing is written in that case.
var ErrNonceMismatch = errors.New("gallery: meta box nonce mismatch")

// NonceVerifier checks a per-form nonce against the caller's session.
type NonceVerifier interface {
	Verify(ctx context.Context, action, nonce string) bool
}

var metaBoxTemplate = template.Must(template.New("meta-box").Parse(
	`<input type="hidden" name="` + MetaBoxNonceField + `" value="{{.Nonce}}" />` +
		`<input type="text" name="` + MetaBoxValueField + `" value="{{.Value}}" size="25" />`))

// MetaBox renders and saves the gallery field on the book edit screen.
type MetaBox struct {
	meta   content.MetaStore
	nonces NonceVerifier
}

func NewMetaBox(meta content.MetaStore, nonces NonceVerifier) *MetaBox {
	return &MetaBox{meta: meta, nonces: nonces}
}

// Render returns the meta box inputs for book, carrying nonce.
// A nil book (new book screen) renders an empty field.
func (m *MetaBox) Render(ctx context.Context, book *entities.Book, nonce string) (template.HTML, error) {
	var value string
	if book != nil && book.ID != 0 {
		v, err := m.meta.GetMeta(ctx, book.ID, entities.MetaKeyGallery)
		if err != nil {
			return "", fmt.Errorf("load gallery meta: %w", err)
		}
		value = v
	}

	var buf bytes.Buffer
	if err := metaBoxTemplate.Execute(&buf, struct{ Nonce, Value string }{nonce, value}); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Save stores the submitted gallery value for bookID. It writes nothing and
// returns ErrNonceMismatch unless nonce verifies for MetaBoxAction.
func (m *MetaBox) Save(ctx context.Context, bookID uint, nonce, value string) error {
	if !m.nonces.Verify(ctx, MetaBoxAction, nonce) {
		return ErrNonceMismatch
	}
	if err := m.meta.SetMeta(ctx, bookID, entities.MetaKeyGallery, sanitize.TextField(value)); err != nil {
		return fmt.Errorf("save gallery meta: %w", err)
	}
	return nil
}
