package render

import "html/template"

// Renderer turns a document view into HTML. An empty markup renders the
// built-in invoice layout.
type Renderer interface {
	RenderHTML(markup string, input RenderInput) (string, error)
}

// RenderInput is the data exposed to document templates. Amounts are
// pre-formatted two-decimal strings.
type RenderInput struct {
	CSS        template.CSS
	Org        OrgView
	Invoice    InvoiceView
	Customer   CustomerView
	Lines      []LineView
	Subtotal   string
	TaxTotal   string
	GrandTotal string
	VATLabel   string
	BrandColor string
	LogoURL    string
}

type OrgView struct {
	Name          string
	Address       string
	CountryCode   string
	TradeRegister string
	TaxID         string
	Whatsapp      string
}

type InvoiceView struct {
	Number    string
	Currency  string
	Status    string
	IssueDate string
	DueDate   string
	Notes     string
}

type CustomerView struct {
	Name    string
	Email   string
	Phone   string
	Address string
	TaxID   string
}

type LineView struct {
	Description string
	Quantity    string
	UnitPrice   string
	TaxRate     string
	Total       string
}
