package service

import (
	"context"
	"errors"
	"html/template"
	"strings"
	"time"

	"github.com/smallbiznis/uemoa-invoicer/internal/compliance"
	"github.com/smallbiznis/uemoa-invoicer/internal/config"
	customerdomain "github.com/smallbiznis/uemoa-invoicer/internal/customer/domain"
	"github.com/smallbiznis/uemoa-invoicer/internal/invoice/compute"
	invoicedomain "github.com/smallbiznis/uemoa-invoicer/internal/invoice/domain"
	"github.com/smallbiznis/uemoa-invoicer/internal/invoice/render"
	"github.com/smallbiznis/uemoa-invoicer/internal/invoice/validation"
	templatedomain "github.com/smallbiznis/uemoa-invoicer/internal/invoicetemplate/domain"
	"github.com/smallbiznis/uemoa-invoicer/internal/observability/logger"
	"github.com/smallbiznis/uemoa-invoicer/internal/observability/metrics"
	"github.com/smallbiznis/uemoa-invoicer/internal/observability/tracing"
	orgdomain "github.com/smallbiznis/uemoa-invoicer/internal/organization/domain"
	"github.com/smallbiznis/uemoa-invoicer/internal/providers/email"
	"github.com/smallbiznis/uemoa-invoicer/internal/providers/pdf"
	"github.com/smallbiznis/uemoa-invoicer/internal/providers/whatsapp"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const dateLayout = "02/01/2006"

func (s *Service) Validate(ctx context.Context, id string) (*invoicedomain.ValidationResponse, error) {
	org, err := s.organization(ctx)
	if err != nil {
		return nil, err
	}
	invoice, err := s.loadInvoice(ctx, s.repo, org.ID, id)
	if err != nil {
		return nil, err
	}

	adapter := compliance.AdapterFor(org.CountryCode)
	reasons := validation.Validate(*org, *invoice)
	if reasons == nil {
		reasons = []string{}
	}

	outcome := metrics.OutcomeValid
	if len(reasons) > 0 {
		outcome = metrics.OutcomeInvalid
	}
	s.metrics.RecordInvoiceValidation(ctx, string(adapter.Kind()), outcome)

	return &invoicedomain.ValidationResponse{
		Adapter: string(adapter.Kind()),
		Valid:   len(reasons) == 0,
		Errors:  reasons,
	}, nil
}

// Send validates, numbers, renders and emails an invoice, then marks a draft
// as sent. Compliance failures stop the pipeline before anything is rendered.
func (s *Service) Send(ctx context.Context, id string, req invoicedomain.SendRequest) (resp *invoicedomain.SendResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "invoice.send", attribute.String("invoice.id", id))
	defer func() {
		if err != nil {
			span.RecordError(tracing.SafeError(err))
		}
		span.End()
	}()

	org, err := s.organization(ctx)
	if err != nil {
		return nil, err
	}
	orgID := org.ID.String()

	invoice, err := s.loadInvoice(ctx, s.repo, org.ID, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status == invoicedomain.InvoiceStatusCancelled {
		return nil, invoicedomain.ErrInvoiceNotSendable
	}

	token, locked, err := s.limiter.LockInvoice(ctx, orgID, invoice.ID.String())
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrSendInProgress
	}
	defer func() {
		if releaseErr := s.limiter.ReleaseInvoice(context.WithoutCancel(ctx), orgID, invoice.ID.String(), token); releaseErr != nil {
			logger.ForInvoice(ctx, s.log, invoice.ID.String(), "").Warn("failed to release send lock", zap.Error(releaseErr))
		}
	}()
	stopKeepAlive := s.limiter.KeepInvoiceLock(ctx, orgID, invoice.ID.String(), token)
	defer stopKeepAlive()

	if err := validation.Check(*org, *invoice); err != nil {
		s.metrics.RecordInvoiceSend(ctx, orgID, metrics.OutcomeBlocked)
		return nil, err
	}

	customer, err := s.customerRepo.FindByID(ctx, org.ID, invoice.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, invoicedomain.ErrInvalidCustomer
	}

	to := strings.TrimSpace(customer.Email)
	if to == "" {
		to = strings.TrimSpace(req.To)
	}
	if to == "" {
		return nil, invoicedomain.ErrMissingRecipient
	}

	invoice, err = s.ensureNumber(ctx, *org, invoice)
	if err != nil {
		return nil, err
	}

	doc, err := s.renderDocument(ctx, *org, customer, invoice)
	if err != nil {
		s.metrics.RecordInvoiceSend(ctx, orgID, metrics.OutcomeFailed)
		return nil, err
	}

	pdfBytes, err := s.pdf.GenerateInvoice(ctx, doc)
	if err != nil {
		s.metrics.RecordInvoiceSend(ctx, orgID, metrics.OutcomeFailed)
		return nil, err
	}
	if len(pdfBytes) == 0 {
		s.metrics.RecordInvoiceSend(ctx, orgID, metrics.OutcomeFailed)
		return nil, pdf.ErrEmptyDocument
	}

	filename := invoice.Number + ".pdf"
	wording := s.delivery.Get()
	values := placeholders(*org, invoice, doc.Input.GrandTotal)

	err = s.email.Send(ctx, email.Message{
		To:       []string{to},
		Subject:  config.Expand(wording.Email.Subject, values),
		HTMLBody: emailBody(config.Expand(wording.Email.Body, values), doc.HTML),
		Attachments: []email.Attachment{{
			Filename:    filename,
			ContentType: "application/pdf",
			Data:        pdfBytes,
		}},
	})
	if err != nil {
		s.metrics.RecordInvoiceSend(ctx, orgID, metrics.OutcomeFailed)
		return nil, err
	}

	status := invoice.Status
	moved, err := s.repo.UpdateInvoiceStatus(ctx, org.ID, invoice.ID, invoicedomain.InvoiceStatusDraft, invoicedomain.InvoiceStatusSent)
	if err != nil {
		return nil, err
	}
	if moved {
		status = invoicedomain.InvoiceStatusSent
	}

	s.metrics.RecordInvoiceSend(ctx, orgID, metrics.OutcomeSent)
	logger.ForInvoice(ctx, s.log, invoice.ID.String(), invoice.Number).Info("invoice sent",
		zap.Int("pdf_bytes", len(pdfBytes)),
	)

	return &invoicedomain.SendResponse{
		Status:   status,
		To:       to,
		Number:   invoice.Number,
		Filename: filename,
	}, nil
}

// WhatsappLink builds a click-to-chat link to the customer's phone carrying
// the invoice number and grand total.
func (s *Service) WhatsappLink(ctx context.Context, id string) (*invoicedomain.WhatsappLinkResponse, error) {
	org, err := s.organization(ctx)
	if err != nil {
		return nil, err
	}
	invoice, err := s.loadInvoice(ctx, s.repo, org.ID, id)
	if err != nil {
		return nil, err
	}
	if invoice.Number == "" {
		return nil, invoicedomain.ErrInvoiceNotNumbered
	}

	customer, err := s.customerRepo.FindByID(ctx, org.ID, invoice.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil || whatsapp.Digits(customer.Phone) == "" {
		return nil, invoicedomain.ErrMissingPhone
	}

	totals, err := s.invoiceTotals(*org, invoice)
	if err != nil {
		return nil, err
	}

	message := config.Expand(s.delivery.Get().Whatsapp.Message, placeholders(*org, invoice, totals.GrandTotal))
	link, err := whatsapp.ClickToChatLink(customer.Phone, message)
	if err != nil {
		return nil, invoicedomain.ErrMissingPhone
	}
	return &invoicedomain.WhatsappLinkResponse{URL: link}, nil
}

func (s *Service) renderDocument(ctx context.Context, org orgdomain.Organization, customer *customerdomain.Customer, invoice *invoicedomain.Invoice) (pdf.Document, error) {
	lines, _ := computeLines(invoice)
	totals, err := computeTotals(org, lines)
	if err != nil {
		return pdf.Document{}, err
	}

	var markup, css string
	tmpl, err := s.templateRepo.FindDefault(ctx, org.ID, templatedomain.KindInvoice)
	if err != nil {
		return pdf.Document{}, err
	}
	if tmpl != nil {
		markup, css = tmpl.HTML, tmpl.CSS
	}

	input := render.RenderInput{
		CSS: template.CSS(css),
		Org: render.OrgView{
			Name:          org.Name,
			Address:       org.Address,
			CountryCode:   org.CountryCode,
			TradeRegister: org.TradeRegister,
			TaxID:         org.TaxID,
			Whatsapp:      org.WhatsappNumber,
		},
		Invoice: render.InvoiceView{
			Number:    invoice.Number,
			Currency:  invoice.Currency,
			Status:    string(invoice.Status),
			IssueDate: formatDate(invoice.IssueDate),
			DueDate:   formatDate(invoice.DueDate),
			Notes:     invoice.Notes,
		},
		Customer: render.CustomerView{
			Name:    customer.Name,
			Email:   customer.Email,
			Phone:   customer.Phone,
			Address: customer.Address,
			TaxID:   customer.TaxID,
		},
		Lines:      make([]render.LineView, 0, len(invoice.Lines)),
		Subtotal:   compute.Format(totals.Subtotal),
		TaxTotal:   compute.Format(totals.TaxTotal),
		GrandTotal: compute.Format(totals.GrandTotal),
		VATLabel:   compliance.AdapterFor(org.CountryCode).Rules().VATLabel,
		BrandColor: org.BrandColor(),
		LogoURL:    org.LogoURL(),
	}
	for i, l := range invoice.Lines {
		view := render.LineView{
			Description: l.Description,
			Quantity:    compute.Format(l.Quantity),
			UnitPrice:   compute.Format(l.UnitPrice),
			Total:       compute.Format(totals.Lines[i].Rounded),
		}
		if l.Tax != nil {
			view.TaxRate = compute.Format(l.Tax.Rate)
		}
		input.Lines = append(input.Lines, view)
	}

	html, err := s.renderer.RenderHTML(markup, input)
	if err != nil {
		if errors.Is(err, render.ErrTemplateInvalid) {
			s.log.Warn("invoice template failed to render",
				zap.String("org_id", org.ID.String()),
				zap.Error(err),
			)
		}
		return pdf.Document{}, err
	}

	return pdf.Document{
		Title: "Facture " + invoice.Number,
		HTML:  html,
		Input: input,
	}, nil
}

func placeholders(org orgdomain.Organization, invoice *invoicedomain.Invoice, total string) map[string]string {
	return map[string]string{
		"number":   invoice.Number,
		"total":    total,
		"currency": invoice.Currency,
		"org":      org.Name,
	}
}

// emailBody puts the configured message at the top of the rendered invoice.
func emailBody(message, document string) string {
	intro := "<p>" + template.HTMLEscapeString(message) + "</p>\n"
	lower := strings.ToLower(document)
	if i := strings.Index(lower, "<body"); i >= 0 {
		if j := strings.Index(lower[i:], ">"); j >= 0 {
			at := i + j + 1
			return document[:at] + "\n" + intro + document[at:]
		}
	}
	return intro + document
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}
