package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/smallbiznis/uemoa-invoicer/internal/invoice/domain"
	"github.com/smallbiznis/uemoa-invoicer/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const isoDate = "2006-01-02"

// CreateQuote stores a draft quote under the number chosen by the
// organization.
func (s *Service) CreateQuote(ctx context.Context, req invoicedomain.CreateQuoteRequest) (*invoicedomain.QuoteResponse, error) {
	org, err := s.organization(ctx)
	if err != nil {
		return nil, err
	}

	number := strings.TrimSpace(req.Number)
	if number == "" {
		return nil, invoicedomain.ErrInvalidQuoteNumber
	}
	customer, err := s.findCustomer(ctx, org.ID, req.CustomerID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	issueDate := now
	if req.IssueDate != nil && !req.IssueDate.IsZero() {
		issueDate = req.IssueDate.UTC()
	}
	validUntil := utcPtr(req.ValidUntil)
	if validUntil != nil && validUntil.Format(isoDate) < issueDate.Format(isoDate) {
		return nil, invoicedomain.ErrInvalidValidUntil
	}

	quote := &invoicedomain.Quote{
		ID:         s.genID.Generate(),
		OrgID:      org.ID,
		Number:     number,
		CustomerID: customer.ID,
		IssueDate:  issueDate,
		ValidUntil: validUntil,
		Currency:   org.Currency,
		Status:     invoicedomain.QuoteStatusDraft,
		Notes:      strings.TrimSpace(req.Notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for i, lr := range req.Lines {
		line, err := s.buildLine(ctx, org.ID, i, lr)
		if err != nil {
			return nil, err
		}
		quote.Lines = append(quote.Lines, line.quoteLine(s.genID.Generate(), quote.ID))
	}

	var stored *invoicedomain.Quote
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateQuote(ctx, quote); err != nil {
			return err
		}
		found, err := repo.FindQuote(ctx, org.ID, quote.ID)
		if err != nil {
			return err
		}
		stored = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, invoicedomain.ErrQuoteNotFound
	}

	totals, err := s.quoteTotals(*org, stored)
	if err != nil {
		return nil, err
	}

	s.log.Info("quote created",
		zap.String("org_id", org.ID.String()),
		zap.String("quote_id", stored.ID.String()),
		zap.String("number", stored.Number),
	)
	return &invoicedomain.QuoteResponse{Quote: stored, Totals: *totals}, nil
}

func (s *Service) GetQuote(ctx context.Context, id string) (*invoicedomain.Quote, error) {
	org, err := s.organization(ctx)
	if err != nil {
		return nil, err
	}
	return s.loadQuote(ctx, s.repo, org.ID, id)
}

// ConvertQuote turns a live quote into an unnumbered draft invoice carrying
// the same lines, and marks the quote accepted.
func (s *Service) ConvertQuote(ctx context.Context, id string) (*invoicedomain.CreateInvoiceResponse, error) {
	org, err := s.organization(ctx)
	if err != nil {
		return nil, err
	}
	quote, err := s.loadQuote(ctx, s.repo, org.ID, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	switch quote.Status {
	case invoicedomain.QuoteStatusRejected, invoicedomain.QuoteStatusExpired:
		return nil, invoicedomain.ErrQuoteNotConvertible
	}
	if quote.ValidUntil != nil && quote.ValidUntil.UTC().Format(isoDate) < now.UTC().Format(isoDate) {
		return nil, invoicedomain.ErrQuoteNotConvertible
	}

	quoteID := quote.ID
	invoice := &invoicedomain.Invoice{
		ID:         s.genID.Generate(),
		OrgID:      org.ID,
		CustomerID: quote.CustomerID,
		QuoteID:    &quoteID,
		Currency:   quote.Currency,
		Status:     invoicedomain.InvoiceStatusDraft,
		Notes:      quote.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, ql := range quote.Lines {
		invoice.Lines = append(invoice.Lines, invoicedomain.InvoiceLine{
			ID:          s.genID.Generate(),
			InvoiceID:   invoice.ID,
			Position:    ql.Position,
			ProductID:   ql.ProductID,
			Description: ql.Description,
			Quantity:    ql.Quantity,
			UnitPrice:   ql.UnitPrice,
			TaxID:       ql.TaxID,
		})
	}

	var stored *invoicedomain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindInvoiceByQuote(ctx, org.ID, quote.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return invoicedomain.ErrQuoteConverted
		}
		if err := repo.CreateInvoice(ctx, invoice); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return invoicedomain.ErrQuoteConverted
			}
			return err
		}
		if quote.Status != invoicedomain.QuoteStatusAccepted {
			ok, err := repo.UpdateQuoteStatus(ctx, org.ID, quote.ID, quote.Status, invoicedomain.QuoteStatusAccepted)
			if err != nil {
				return err
			}
			if !ok {
				return invoicedomain.ErrQuoteNotConvertible
			}
		}

		found, err := repo.FindInvoice(ctx, org.ID, invoice.ID)
		if err != nil {
			return err
		}
		stored = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, invoicedomain.ErrInvoiceNotFound
	}

	s.log.Info("quote converted",
		zap.String("org_id", org.ID.String()),
		zap.String("quote_id", quote.ID.String()),
		zap.String("invoice_id", stored.ID.String()),
	)
	return s.draftResponse(*org, stored)
}

func (s *Service) loadQuote(ctx context.Context, repo invoicedomain.Repository, orgID snowflake.ID, id string) (*invoicedomain.Quote, error) {
	quoteID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, invoicedomain.ErrInvalidQuoteID
	}
	quote, err := repo.FindQuote(ctx, orgID, quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, invoicedomain.ErrQuoteNotFound
	}
	return quote, nil
}
