package service

import (
	"context"

	"github.com/smallbiznis/uemoa-invoicer/internal/compliance"
	invoicedomain "github.com/smallbiznis/uemoa-invoicer/internal/invoice/domain"
	"github.com/smallbiznis/uemoa-invoicer/internal/invoice/compute"
	orgdomain "github.com/smallbiznis/uemoa-invoicer/internal/organization/domain"
)

func (s *Service) Totals(ctx context.Context, id string) (*invoicedomain.TotalsResponse, error) {
	org, err := s.organization(ctx)
	if err != nil {
		return nil, err
	}
	invoice, err := s.loadInvoice(ctx, s.repo, org.ID, id)
	if err != nil {
		return nil, err
	}
	return s.invoiceTotals(*org, invoice)
}

func (s *Service) QuoteTotals(ctx context.Context, id string) (*invoicedomain.TotalsResponse, error) {
	org, err := s.organization(ctx)
	if err != nil {
		return nil, err
	}
	quote, err := s.loadQuote(ctx, s.repo, org.ID, id)
	if err != nil {
		return nil, err
	}
	return s.quoteTotals(*org, quote)
}

func (s *Service) quoteTotals(org orgdomain.Organization, quote *invoicedomain.Quote) (*invoicedomain.TotalsResponse, error) {
	lines := make([]compute.Line, 0, len(quote.Lines))
	descriptions := make([]string, 0, len(quote.Lines))
	for _, l := range quote.Lines {
		lines = append(lines, compute.Line{Quantity: l.Quantity, UnitPrice: l.UnitPrice, TaxRate: ratePtr(l.Tax)})
		descriptions = append(descriptions, l.Description)
	}
	return totalsResponse(org, quote.Currency, lines, descriptions)
}

func (s *Service) invoiceTotals(org orgdomain.Organization, invoice *invoicedomain.Invoice) (*invoicedomain.TotalsResponse, error) {
	lines, descriptions := computeLines(invoice)
	return totalsResponse(org, invoice.Currency, lines, descriptions)
}

func computeLines(invoice *invoicedomain.Invoice) ([]compute.Line, []string) {
	lines := make([]compute.Line, 0, len(invoice.Lines))
	descriptions := make([]string, 0, len(invoice.Lines))
	for _, l := range invoice.Lines {
		lines = append(lines, compute.Line{Quantity: l.Quantity, UnitPrice: l.UnitPrice, TaxRate: ratePtr(l.Tax)})
		descriptions = append(descriptions, l.Description)
	}
	return lines, descriptions
}

func computeTotals(org orgdomain.Organization, lines []compute.Line) (compute.Totals, error) {
	return compute.Compute(compute.Input{
		Lines: lines,
		Tax: compute.TaxConfig{
			Enabled:     org.TaxEnabled,
			DefaultRate: org.DefaultTaxRate,
		},
	})
}

func totalsResponse(org orgdomain.Organization, currency string, lines []compute.Line, descriptions []string) (*invoicedomain.TotalsResponse, error) {
	totals, err := computeTotals(org, lines)
	if err != nil {
		return nil, err
	}

	resp := &invoicedomain.TotalsResponse{
		Currency:   currency,
		VATLabel:   compliance.AdapterFor(org.CountryCode).Rules().VATLabel,
		Lines:      make([]invoicedomain.LineTotal, 0, len(totals.Lines)),
		Subtotal:   compute.Format(totals.Subtotal),
		TaxTotal:   compute.Format(totals.TaxTotal),
		GrandTotal: compute.Format(totals.GrandTotal),
	}
	for i, lt := range totals.Lines {
		item := invoicedomain.LineTotal{
			Description: descriptions[i],
			Quantity:    compute.Format(lines[i].Quantity),
			UnitPrice:   compute.Format(lines[i].UnitPrice),
			Total:       compute.Format(lt.Rounded),
		}
		if lt.TaxRate != nil {
			item.TaxRate = compute.Format(*lt.TaxRate)
		}
		resp.Lines = append(resp.Lines, item)
	}
	return resp, nil
}
