package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateInvoice(ctx context.Context, invoice *Invoice) error
	// FindInvoice and FindQuote preload lines (ordered) with their taxes and
	// return nil, nil when the document does not belong to orgID.
	FindInvoice(ctx context.Context, orgID, id snowflake.ID) (*Invoice, error)
	FindQuote(ctx context.Context, orgID, id snowflake.ID) (*Quote, error)
	UpdateInvoiceNumber(ctx context.Context, invoice *Invoice) error
	UpdateInvoiceStatus(ctx context.Context, orgID, id snowflake.ID, from, to InvoiceStatus) (bool, error)
	CreateQuote(ctx context.Context, quote *Quote) error
	// FindInvoiceByQuote returns nil, nil when the quote was never converted.
	FindInvoiceByQuote(ctx context.Context, orgID, quoteID snowflake.ID) (*Invoice, error)
	UpdateQuoteStatus(ctx context.Context, orgID, id snowflake.ID, from, to QuoteStatus) (bool, error)
	// NextSequence increments and returns the counter for (orgID, year).
	NextSequence(ctx context.Context, orgID snowflake.ID, year int) (int64, error)
}
