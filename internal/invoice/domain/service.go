package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (*CreateInvoiceResponse, error)
	GetByID(ctx context.Context, id string) (*Invoice, error)
	Totals(ctx context.Context, id string) (*TotalsResponse, error)
	QuoteTotals(ctx context.Context, id string) (*TotalsResponse, error)
	CreateQuote(ctx context.Context, req CreateQuoteRequest) (*QuoteResponse, error)
	GetQuote(ctx context.Context, id string) (*Quote, error)
	ConvertQuote(ctx context.Context, id string) (*CreateInvoiceResponse, error)
	Validate(ctx context.Context, id string) (*ValidationResponse, error)
	AssignNumber(ctx context.Context, id string) (*Invoice, error)
	Send(ctx context.Context, id string, req SendRequest) (*SendResponse, error)
	WhatsappLink(ctx context.Context, id string) (*WhatsappLinkResponse, error)
}

type CreateInvoiceRequest struct {
	CustomerID string        `json:"customer_id"`
	IssueDate  *time.Time    `json:"issue_date"`
	DueDate    *time.Time    `json:"due_date"`
	Notes      string        `json:"notes"`
	Lines      []LineRequest `json:"lines"`
}

type CreateQuoteRequest struct {
	Number     string        `json:"number"`
	CustomerID string        `json:"customer_id"`
	IssueDate  *time.Time    `json:"issue_date"`
	ValidUntil *time.Time    `json:"valid_until"`
	Notes      string        `json:"notes"`
	Lines      []LineRequest `json:"lines"`
}

type LineRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxID       string          `json:"tax_id"`
	// ProductID references a catalogue item held outside this service. It
	// must parse as a snowflake id and is stored as given, never resolved.
	ProductID string `json:"product_id"`
}

type QuoteResponse struct {
	Quote  *Quote         `json:"quote"`
	Totals TotalsResponse `json:"totals"`
}

// CreateInvoiceResponse returns the stored draft with advisory compliance
// warnings. Drafts are stored even when warnings are present.
type CreateInvoiceResponse struct {
	Invoice  *Invoice       `json:"invoice"`
	Totals   TotalsResponse `json:"totals"`
	Warnings []string       `json:"warnings"`
}

type LineTotal struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TaxRate     string `json:"tax_rate,omitempty"`
	Total       string `json:"total"`
}

type TotalsResponse struct {
	Currency   string      `json:"currency"`
	VATLabel   string      `json:"vat_label"`
	Lines      []LineTotal `json:"lines"`
	Subtotal   string      `json:"subtotal"`
	TaxTotal   string      `json:"tax_total"`
	GrandTotal string      `json:"grand_total"`
}

type ValidationResponse struct {
	Adapter string   `json:"adapter"`
	Valid   bool     `json:"valid"`
	Errors  []string `json:"errors"`
}

type SendRequest struct {
	To string `json:"to"`
}

type SendResponse struct {
	Status   InvoiceStatus `json:"status"`
	To       string        `json:"to"`
	Number   string        `json:"number"`
	Filename string        `json:"filename"`
}

type WhatsappLinkResponse struct {
	URL string `json:"url"`
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidInvoiceID    = errors.New("invalid_invoice_id")
	ErrInvalidQuoteID      = errors.New("invalid_quote_id")
	ErrInvalidCustomer     = errors.New("invalid_customer")
	ErrInvalidTax          = errors.New("invalid_tax")
	ErrInvalidLine         = errors.New("invalid_line")
	ErrInvalidDueDate      = errors.New("invalid_due_date")
	ErrInvoiceNotFound     = errors.New("invoice_not_found")
	ErrQuoteNotFound       = errors.New("quote_not_found")
	ErrInvalidQuoteNumber  = errors.New("invalid_quote_number")
	ErrInvalidValidUntil   = errors.New("invalid_valid_until")
	ErrQuoteNotConvertible = errors.New("quote_not_convertible")
	ErrDuplicateQuote      = errors.New("duplicate_quote_number")
	ErrQuoteConverted      = errors.New("quote_already_converted")
	ErrInvoiceNotSendable  = errors.New("invoice_not_sendable")
	ErrInvoiceNotNumbered  = errors.New("invoice_not_numbered")
	ErrMissingRecipient    = errors.New("missing_recipient")
	ErrMissingPhone        = errors.New("missing_phone")

	ErrInvoiceAlreadyNumbered = errors.New("invoice_already_numbered")
	ErrDuplicateNumber        = errors.New("duplicate_invoice_number")
)
