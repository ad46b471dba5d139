package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	invoicedomain "github.com/smallbiznis/uemoa-invoicer/internal/invoice/domain"
	taxdomain "github.com/smallbiznis/uemoa-invoicer/internal/tax/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) createQuote(t *testing.T, number string, validUntil *time.Time) *invoicedomain.QuoteResponse {
	t.Helper()
	tax := &taxdomain.Tax{ID: f.node.Generate(), OrgID: f.org.ID, Name: "TVA", Rate: decimal.NewFromInt(18)}
	require.NoError(t, f.db.Create(tax).Error)

	resp, err := f.svc.CreateQuote(f.ctx, invoicedomain.CreateQuoteRequest{
		Number:     " " + number + " ",
		CustomerID: f.customer.ID.String(),
		ValidUntil: validUntil,
		Notes:      "Valable 30 jours",
		Lines: []invoicedomain.LineRequest{
			{Description: "Installation", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(500), TaxID: tax.ID.String()},
			{Description: "Formation", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)
	return resp
}

func TestCreateQuote(t *testing.T) {
	f := setupService(t, compliantBeninOrg())

	resp := f.createQuote(t, "DEV-2026-001", nil)

	assert.Equal(t, "DEV-2026-001", resp.Quote.Number)
	assert.Equal(t, invoicedomain.QuoteStatusDraft, resp.Quote.Status)
	assert.Equal(t, "XOF", resp.Quote.Currency)
	assert.True(t, resp.Quote.IssueDate.Equal(testNow))
	require.Len(t, resp.Quote.Lines, 2)
	assert.Equal(t, "Installation", resp.Quote.Lines[0].Description)
	assert.Equal(t, 2, resp.Quote.Lines[1].Position)
	assert.Equal(t, "800.00", resp.Totals.Subtotal)
	assert.Equal(t, "144.00", resp.Totals.TaxTotal)
	assert.Equal(t, "944.00", resp.Totals.GrandTotal)

	stored, err := f.svc.GetQuote(f.ctx, resp.Quote.ID.String())
	require.NoError(t, err)
	assert.Equal(t, resp.Quote.ID, stored.ID)
}

func TestCreateQuoteValidatesInput(t *testing.T) {
	f := setupService(t, compliantBeninOrg())

	_, err := f.svc.CreateQuote(f.ctx, invoicedomain.CreateQuoteRequest{Number: "  ", CustomerID: f.customer.ID.String()})
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidQuoteNumber)

	_, err = f.svc.CreateQuote(f.ctx, invoicedomain.CreateQuoteRequest{Number: "DEV-1", CustomerID: f.node.Generate().String()})
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidCustomer)

	before := testNow.AddDate(0, 0, -1)
	_, err = f.svc.CreateQuote(f.ctx, invoicedomain.CreateQuoteRequest{Number: "DEV-1", CustomerID: f.customer.ID.String(), ValidUntil: &before})
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidValidUntil)
}

func TestCreateQuoteRejectsDuplicateNumber(t *testing.T) {
	f := setupService(t, compliantBeninOrg())
	f.createQuote(t, "DEV-2026-001", nil)

	_, err := f.svc.CreateQuote(f.ctx, invoicedomain.CreateQuoteRequest{
		Number:     "DEV-2026-001",
		CustomerID: f.customer.ID.String(),
	})
	assert.ErrorIs(t, err, invoicedomain.ErrDuplicateQuote)
}

func TestConvertQuoteCreatesLinkedDraft(t *testing.T) {
	f := setupService(t, compliantBeninOrg())
	quote := f.createQuote(t, "DEV-2026-001", nil)

	resp, err := f.svc.ConvertQuote(f.ctx, quote.Quote.ID.String())
	require.NoError(t, err)

	invoice := resp.Invoice
	require.NotNil(t, invoice.QuoteID)
	assert.Equal(t, quote.Quote.ID, *invoice.QuoteID)
	assert.Equal(t, invoicedomain.InvoiceStatusDraft, invoice.Status)
	assert.Empty(t, invoice.Number)
	assert.Equal(t, "Valable 30 jours", invoice.Notes)
	require.Len(t, invoice.Lines, 2)
	assert.Equal(t, "Installation", invoice.Lines[0].Description)
	assert.Equal(t, quote.Quote.Lines[0].TaxID, invoice.Lines[0].TaxID)
	assert.Equal(t, quote.Totals.GrandTotal, resp.Totals.GrandTotal)
	assert.Empty(t, resp.Warnings)

	accepted, err := f.svc.GetQuote(f.ctx, quote.Quote.ID.String())
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.QuoteStatusAccepted, accepted.Status)

	_, err = f.svc.ConvertQuote(f.ctx, quote.Quote.ID.String())
	assert.ErrorIs(t, err, invoicedomain.ErrQuoteConverted)
}

func TestConvertQuoteRefusesDeadQuotes(t *testing.T) {
	f := setupService(t, compliantBeninOrg())

	rejected := f.createQuote(t, "DEV-R", nil)
	require.NoError(t, f.db.Model(&invoicedomain.Quote{}).Where("id = ?", rejected.Quote.ID).
		Update("status", invoicedomain.QuoteStatusRejected).Error)
	_, err := f.svc.ConvertQuote(f.ctx, rejected.Quote.ID.String())
	assert.ErrorIs(t, err, invoicedomain.ErrQuoteNotConvertible)

	validUntil := testNow
	lapsed := f.createQuote(t, "DEV-L", &validUntil)
	require.NoError(t, f.db.Model(&invoicedomain.Quote{}).Where("id = ?", lapsed.Quote.ID).
		Update("valid_until", testNow.AddDate(0, 0, -1)).Error)
	_, err = f.svc.ConvertQuote(f.ctx, lapsed.Quote.ID.String())
	assert.ErrorIs(t, err, invoicedomain.ErrQuoteNotConvertible)

	sameDay := f.createQuote(t, "DEV-S", &validUntil)
	_, err = f.svc.ConvertQuote(f.ctx, sameDay.Quote.ID.String())
	assert.NoError(t, err)

	_, err = f.svc.ConvertQuote(f.ctx, "nope")
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidQuoteID)
}
