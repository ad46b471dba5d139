package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/uemoa-invoicer/internal/clock"
	"github.com/smallbiznis/uemoa-invoicer/internal/config"
	customerdomain "github.com/smallbiznis/uemoa-invoicer/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/uemoa-invoicer/internal/invoice/domain"
	"github.com/smallbiznis/uemoa-invoicer/internal/invoice/render"
	"github.com/smallbiznis/uemoa-invoicer/internal/invoice/validation"
	templatedomain "github.com/smallbiznis/uemoa-invoicer/internal/invoicetemplate/domain"
	"github.com/smallbiznis/uemoa-invoicer/internal/observability/metrics"
	"github.com/smallbiznis/uemoa-invoicer/internal/orgcontext"
	orgdomain "github.com/smallbiznis/uemoa-invoicer/internal/organization/domain"
	"github.com/smallbiznis/uemoa-invoicer/internal/providers/email"
	"github.com/smallbiznis/uemoa-invoicer/internal/providers/pdf"
	"github.com/smallbiznis/uemoa-invoicer/internal/ratelimit"
	taxdomain "github.com/smallbiznis/uemoa-invoicer/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrSendInProgress is returned when another request is delivering the same
// invoice.
var ErrSendInProgress = errors.New("invoice_send_in_progress")

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock

	Repo         invoicedomain.Repository
	CustomerRepo customerdomain.Repository
	TaxRepo      taxdomain.Repository
	TemplateRepo templatedomain.Repository

	Renderer render.Renderer
	PDF      pdf.Provider
	Email    email.Provider
	Delivery *config.DeliveryConfigHolder

	Limiter *ratelimit.SendLimiter `optional:"true"`
	Metrics *metrics.Metrics       `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	repo         invoicedomain.Repository
	customerRepo customerdomain.Repository
	taxRepo      taxdomain.Repository
	templateRepo templatedomain.Repository

	renderer render.Renderer
	pdf      pdf.Provider
	email    email.Provider
	delivery *config.DeliveryConfigHolder

	limiter *ratelimit.SendLimiter
	metrics *metrics.Metrics
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("invoice.service"),
		genID: p.GenID,
		clock: p.Clock,

		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
		taxRepo:      p.TaxRepo,
		templateRepo: p.TemplateRepo,

		renderer: p.Renderer,
		pdf:      p.PDF,
		email:    p.Email,
		delivery: p.Delivery,

		limiter: p.Limiter,
		metrics: p.Metrics,
	}
}

// Create stores a draft invoice. Compliance findings are returned as
// warnings and never block the draft.
func (s *Service) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (*invoicedomain.CreateInvoiceResponse, error) {
	org, err := s.organization(ctx)
	if err != nil {
		return nil, err
	}

	customer, err := s.findCustomer(ctx, org.ID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if req.IssueDate != nil && req.DueDate != nil && req.DueDate.Before(*req.IssueDate) {
		return nil, invoicedomain.ErrInvalidDueDate
	}

	now := s.clock.Now()
	invoice := &invoicedomain.Invoice{
		ID:         s.genID.Generate(),
		OrgID:      org.ID,
		CustomerID: customer.ID,
		IssueDate:  utcPtr(req.IssueDate),
		DueDate:    utcPtr(req.DueDate),
		Currency:   org.Currency,
		Status:     invoicedomain.InvoiceStatusDraft,
		Notes:      strings.TrimSpace(req.Notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	for i, lr := range req.Lines {
		line, err := s.buildLine(ctx, org.ID, i, lr)
		if err != nil {
			return nil, err
		}
		invoice.Lines = append(invoice.Lines, line.invoiceLine(s.genID.Generate(), invoice.ID))
	}

	var stored *invoicedomain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateInvoice(ctx, invoice); err != nil {
			return err
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

	s.log.Info("invoice draft created",
		zap.String("org_id", org.ID.String()),
		zap.String("invoice_id", stored.ID.String()),
		zap.Int("lines", len(stored.Lines)),
	)
	return s.draftResponse(*org, stored)
}

// draftResponse pairs a stored draft with its totals and advisory findings.
func (s *Service) draftResponse(org orgdomain.Organization, invoice *invoicedomain.Invoice) (*invoicedomain.CreateInvoiceResponse, error) {
	totals, err := s.invoiceTotals(org, invoice)
	if err != nil {
		return nil, err
	}

	warnings := validation.Validate(org, *invoice)
	if warnings == nil {
		warnings = []string{}
	}

	return &invoicedomain.CreateInvoiceResponse{
		Invoice:  invoice,
		Totals:   *totals,
		Warnings: warnings,
	}, nil
}

func (s *Service) findCustomer(ctx context.Context, orgID snowflake.ID, raw string) (*customerdomain.Customer, error) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return nil, invoicedomain.ErrInvalidCustomer
	}
	customer, err := s.customerRepo.FindByID(ctx, orgID, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, invoicedomain.ErrInvalidCustomer
	}
	return customer, nil
}

// draftLine is a validated line not yet attached to a document.
type draftLine struct {
	Position    int
	ProductID   *snowflake.ID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxID       *snowflake.ID
}

func (l draftLine) invoiceLine(id, invoiceID snowflake.ID) invoicedomain.InvoiceLine {
	return invoicedomain.InvoiceLine{
		ID:          id,
		InvoiceID:   invoiceID,
		Position:    l.Position,
		ProductID:   l.ProductID,
		Description: l.Description,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
		TaxID:       l.TaxID,
	}
}

func (l draftLine) quoteLine(id, quoteID snowflake.ID) invoicedomain.QuoteLine {
	return invoicedomain.QuoteLine{
		ID:          id,
		QuoteID:     quoteID,
		Position:    l.Position,
		ProductID:   l.ProductID,
		Description: l.Description,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
		TaxID:       l.TaxID,
	}
}

func (s *Service) buildLine(ctx context.Context, orgID snowflake.ID, pos int, lr invoicedomain.LineRequest) (draftLine, error) {
	if lr.Quantity.IsNegative() || lr.UnitPrice.IsNegative() {
		return draftLine{}, invoicedomain.ErrInvalidLine
	}

	line := draftLine{
		Position:    pos + 1,
		Description: strings.TrimSpace(lr.Description),
		Quantity:    lr.Quantity.Round(2),
		UnitPrice:   lr.UnitPrice.Round(2),
	}

	if raw := strings.TrimSpace(lr.ProductID); raw != "" {
		productID, err := snowflake.ParseString(raw)
		if err != nil {
			return draftLine{}, invoicedomain.ErrInvalidLine
		}
		line.ProductID = &productID
	}

	if raw := strings.TrimSpace(lr.TaxID); raw != "" {
		taxID, err := snowflake.ParseString(raw)
		if err != nil {
			return draftLine{}, invoicedomain.ErrInvalidTax
		}
		tax, err := s.taxRepo.FindByID(ctx, orgID, taxID)
		if err != nil {
			return draftLine{}, err
		}
		if tax == nil {
			return draftLine{}, invoicedomain.ErrInvalidTax
		}
		line.TaxID = &tax.ID
	}

	return line, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*invoicedomain.Invoice, error) {
	org, err := s.organization(ctx)
	if err != nil {
		return nil, err
	}
	return s.loadInvoice(ctx, s.repo, org.ID, id)
}

func (s *Service) loadInvoice(ctx context.Context, repo invoicedomain.Repository, orgID snowflake.ID, id string) (*invoicedomain.Invoice, error) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, invoicedomain.ErrInvalidInvoiceID
	}
	invoice, err := repo.FindInvoice(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, invoicedomain.ErrInvoiceNotFound
	}
	return invoice, nil
}

// organization returns the tenant attached to the request.
func (s *Service) organization(ctx context.Context) (*orgdomain.Organization, error) {
	org, ok := orgcontext.OrganizationFromContext(ctx)
	if !ok || org == nil || org.ID == 0 {
		return nil, invoicedomain.ErrInvalidOrganization
	}
	return org, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.UTC()
	return &v
}

func ratePtr(tax *taxdomain.Tax) *decimal.Decimal {
	if tax == nil {
		return nil
	}
	rate := tax.Rate
	return &rate
}
