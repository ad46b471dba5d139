package service

import (
	"context"
	"errors"

	"github.com/smallbiznis/uemoa-invoicer/internal/compliance"
	invoicedomain "github.com/smallbiznis/uemoa-invoicer/internal/invoice/domain"
	orgdomain "github.com/smallbiznis/uemoa-invoicer/internal/organization/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AssignNumber gives an unnumbered invoice the next number of its
// organization's sequence for the issue year. Numbered invoices are returned
// unchanged.
func (s *Service) AssignNumber(ctx context.Context, id string) (*invoicedomain.Invoice, error) {
	org, err := s.organization(ctx)
	if err != nil {
		return nil, err
	}
	invoice, err := s.loadInvoice(ctx, s.repo, org.ID, id)
	if err != nil {
		return nil, err
	}
	return s.ensureNumber(ctx, *org, invoice)
}

func (s *Service) ensureNumber(ctx context.Context, org orgdomain.Organization, invoice *invoicedomain.Invoice) (*invoicedomain.Invoice, error) {
	if invoice.Number != "" {
		return invoice, nil
	}

	issuedAt := s.clock.Now()
	if invoice.IssueDate != nil {
		issuedAt = invoice.IssueDate.UTC()
	}
	rules := compliance.AdapterFor(org.CountryCode).Rules()
	prevIssueDate := invoice.IssueDate

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		seq, err := repo.NextSequence(ctx, org.ID, issuedAt.Year())
		if err != nil {
			return err
		}
		number, err := rules.FormatNumber(org.CountryCode, issuedAt, seq)
		if err != nil {
			return err
		}

		invoice.Number = number
		invoice.IssueDate = &issuedAt
		return repo.UpdateInvoiceNumber(ctx, invoice)
	})
	if errors.Is(err, invoicedomain.ErrInvoiceAlreadyNumbered) {
		// A concurrent request numbered it first.
		return s.loadInvoice(ctx, s.repo, org.ID, invoice.ID.String())
	}
	if err != nil {
		invoice.Number = ""
		invoice.IssueDate = prevIssueDate
		return nil, err
	}

	s.log.Info("invoice numbered",
		zap.String("org_id", org.ID.String()),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.Number),
	)
	return invoice, nil
}
