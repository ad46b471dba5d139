package pdf

import (
	"context"
	"errors"

	"github.com/smallbiznis/uemoa-invoicer/internal/invoice/render"
)

var ErrEmptyDocument = errors.New("pdf_empty_document")

// Document carries both representations of an invoice. Engines pick the one
// they understand: HTML for browser printing, Input for native layout.
type Document struct {
	Title string
	HTML  string
	Input render.RenderInput
}

type Provider interface {
	GenerateInvoice(ctx context.Context, doc Document) ([]byte, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateInvoice(ctx context.Context, doc Document) ([]byte, error) {
	return nil, nil
}
