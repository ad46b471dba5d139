package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/smallbiznis/uemoa-invoicer/internal/invoice/domain"
	"github.com/smallbiznis/uemoa-invoicer/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) invoicedomain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) invoicedomain.Repository {
	return &repository{db: tx}
}

func (r *repository) CreateInvoice(ctx context.Context, invoice *invoicedomain.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *repository) FindInvoice(ctx context.Context, orgID, id snowflake.ID) (*invoicedomain.Invoice, error) {
	var invoice invoicedomain.Invoice
	err := r.db.WithContext(ctx).
		Preload("Lines", orderedLines).
		Preload("Lines.Tax").
		Where("org_id = ? AND id = ?", orgID, id).
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repository) FindQuote(ctx context.Context, orgID, id snowflake.ID) (*invoicedomain.Quote, error) {
	var quote invoicedomain.Quote
	err := r.db.WithContext(ctx).
		Preload("Lines", orderedLines).
		Preload("Lines.Tax").
		Where("org_id = ? AND id = ?", orgID, id).
		First(&quote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// UpdateInvoiceNumber writes the number and issue date of an unnumbered
// invoice. Numbers are never overwritten.
func (r *repository) UpdateInvoiceNumber(ctx context.Context, invoice *invoicedomain.Invoice) error {
	res := r.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("org_id = ? AND id = ? AND number = ''", invoice.OrgID, invoice.ID).
		Updates(map[string]any{
			"number":     invoice.Number,
			"issue_date": invoice.IssueDate,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		if db.IsDuplicateKeyErr(res.Error) {
			return invoicedomain.ErrDuplicateNumber
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return invoicedomain.ErrInvoiceAlreadyNumbered
	}
	return nil
}

func (r *repository) UpdateInvoiceStatus(ctx context.Context, orgID, id snowflake.ID, from, to invoicedomain.InvoiceStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("org_id = ? AND id = ? AND status = ?", orgID, id, from).
		Updates(map[string]any{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) CreateQuote(ctx context.Context, quote *invoicedomain.Quote) error {
	err := r.db.WithContext(ctx).Create(quote).Error
	if db.IsDuplicateKeyErr(err) {
		return invoicedomain.ErrDuplicateQuote
	}
	return err
}

func (r *repository) FindInvoiceByQuote(ctx context.Context, orgID, quoteID snowflake.ID) (*invoicedomain.Invoice, error) {
	var invoice invoicedomain.Invoice
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND quote_id = ?", orgID, quoteID).
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repository) UpdateQuoteStatus(ctx context.Context, orgID, id snowflake.ID, from, to invoicedomain.QuoteStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&invoicedomain.Quote{}).
		Where("org_id = ? AND id = ? AND status = ?", orgID, id, from).
		Updates(map[string]any{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// NextSequence upserts the (orgID, year) counter and reads it back. Callers
// run it inside the numbering transaction so the read sees the increment.
func (r *repository) NextSequence(ctx context.Context, orgID snowflake.ID, year int) (int64, error) {
	q := r.db.WithContext(ctx)
	now := time.Now().UTC()

	err := q.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "org_id"}, {Name: "year"}},
		DoUpdates: clause.Assignments(map[string]any{
			"last_value": gorm.Expr("invoice_sequences.last_value + 1"),
			"updated_at": now,
		}),
	}).Create(&invoicedomain.InvoiceSequence{
		OrgID:     orgID,
		Year:      year,
		LastValue: 1,
		UpdatedAt: now,
	}).Error
	if err != nil {
		return 0, err
	}

	var seq invoicedomain.InvoiceSequence
	if err := q.Where("org_id = ? AND year = ?", orgID, year).First(&seq).Error; err != nil {
		return 0, err
	}
	return seq.LastValue, nil
}

func orderedLines(tx *gorm.DB) *gorm.DB {
	return tx.Order("position ASC")
}
